package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShaderDataTypeSizes(t *testing.T) {
	cases := map[ShaderDataType][3]uint32{
		// size, components, uniform slot size
		ShaderDataTypeNone:   {0, 0, 0},
		ShaderDataTypeInt:    {4, 1, 16},
		ShaderDataTypeInt3:   {12, 3, 16},
		ShaderDataTypeFloat2: {8, 2, 16},
		ShaderDataTypeFloat3: {12, 3, 16},
		ShaderDataTypeFloat4: {16, 4, 16},
		ShaderDataTypeMat3:   {36, 9, 48},
		ShaderDataTypeMat4:   {64, 16, 64},
		ShaderDataTypeBool:   {1, 1, 16},
	}
	for dt, want := range cases {
		assert.Equal(t, want[0], dt.Size(), dt.String())
		assert.Equal(t, want[1], dt.ComponentCount(), dt.String())
		assert.Equal(t, want[2], dt.UniformSlotSize(), dt.String())
	}
}

func TestIsInteger(t *testing.T) {
	assert.True(t, ShaderDataTypeInt4.IsInteger())
	assert.True(t, ShaderDataTypeBool.IsInteger())
	assert.False(t, ShaderDataTypeFloat.IsInteger())
	assert.False(t, ShaderDataTypeMat4.IsInteger())
}

func TestMemSizeAlign(t *testing.T) {
	assert.Equal(t, uint32(16), MemSizeAlign(12, 16))
	assert.Equal(t, uint32(16), MemSizeAlign(16, 16))
	assert.Equal(t, uint32(32), MemSizeAlign(17, 16))
	assert.Equal(t, uint32(0), MemSizeAlign(0, 16))
}

func TestShaderStageNames(t *testing.T) {
	for _, stage := range []ShaderStage{ShaderStageVertex, ShaderStageFragment, ShaderStageCompute} {
		got, err := ShaderStageFromString(stage.String())
		assert.NoError(t, err)
		assert.Equal(t, stage, got)
	}
	_, err := ShaderStageFromString("Pixel")
	assert.Error(t, err)
}

func TestShaderSourcesStagesAreOrdered(t *testing.T) {
	sources := ShaderSources{
		ShaderStageFragment: "f",
		ShaderStageCompute:  "c",
		ShaderStageVertex:   "v",
	}
	assert.Equal(t, []ShaderStage{ShaderStageVertex, ShaderStageFragment, ShaderStageCompute}, sources.Stages())
}

func TestTextureRegion(t *testing.T) {
	spec := TextureSpec{Width: 4, Height: 2, Channels: 4}
	assert.Equal(t, uint32(32), spec.ByteSize())
	assert.True(t, TextureRegion{Width: 4, Height: 2}.Fits(spec))
	assert.True(t, TextureRegion{X: 3, Y: 1, Width: 1, Height: 1}.Fits(spec))
	assert.False(t, TextureRegion{X: 3, Width: 2, Height: 1}.Fits(spec))
	assert.Equal(t, uint32(12), TextureRegion{Width: 2, Height: 2}.ByteSize(3))

	assert.True(t, ValidChannels(1))
	assert.False(t, ValidChannels(2))
	assert.False(t, UploadableChannels(1))
	assert.True(t, UploadableChannels(3))
}
