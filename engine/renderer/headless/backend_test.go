package headless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

var vertexOnly = metadata.ShaderSources{
	metadata.ShaderStageVertex:   "void main() {}",
	metadata.ShaderStageFragment: "void main() {}",
}

func TestTextureCreateValidatesChannels(t *testing.T) {
	b := New()
	for _, channels := range []uint32{1, 2, 5} {
		_, err := b.TextureCreate(metadata.TextureSpec{Width: 1, Height: 1, Channels: channels}, nil)
		assert.ErrorIs(t, err, core.ErrUnsupportedChannels, "%d channels", channels)
	}

	_, err := b.TextureCreate(metadata.TextureSpec{Width: 2, Height: 2, Channels: 4}, []uint8{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrDataTooShort)

	h, err := b.TextureCreate(metadata.TextureSpec{Width: 2, Height: 1, Channels: 3}, []uint8{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	pixels, w, hgt, ch, ok := b.TexturePixels(h)
	require.True(t, ok)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, pixels)
	assert.Equal(t, [3]uint32{2, 1, 3}, [3]uint32{w, hgt, ch})
}

func TestTextureWriteDataCopiesRows(t *testing.T) {
	b := New()
	h, err := b.TextureCreate(metadata.TextureSpec{Width: 3, Height: 3, Channels: 4}, nil)
	require.NoError(t, err)

	region := metadata.TextureRegion{X: 1, Y: 1, Width: 2, Height: 2}
	data := make([]uint8, region.ByteSize(4))
	for i := range data {
		data[i] = 9
	}
	require.NoError(t, b.TextureWriteData(h, region, data))

	pixels, _, _, _, _ := b.TexturePixels(h)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := uint8(0)
			if x >= 1 && y >= 1 {
				want = 9
			}
			assert.Equal(t, want, pixels[(y*3+x)*4], "pixel %d,%d", x, y)
		}
	}

	err = b.TextureWriteData(h, metadata.TextureRegion{X: 2, Width: 2, Height: 1}, data)
	assert.ErrorIs(t, err, core.ErrOutOfRange)
	err = b.TextureWriteData(h, region, data[:3])
	assert.ErrorIs(t, err, core.ErrDataTooShort)
	err = b.TextureWriteData(99, region, data)
	assert.ErrorIs(t, err, core.ErrInvalidResource)
}

func TestShaderCreateValidation(t *testing.T) {
	b := New()

	_, err := b.ShaderCreate(metadata.ShaderSources{})
	assert.ErrorIs(t, err, core.ErrEmptyShaderSource)

	_, err = b.ShaderCreate(metadata.ShaderSources{
		metadata.ShaderStageVertex:   "void main() {}",
		metadata.ShaderStageFragment: "   \n",
	})
	assert.ErrorIs(t, err, core.ErrShaderCompile)

	_, err = b.ShaderCreate(metadata.ShaderSources{metadata.ShaderStageFragment: "void main() {}"})
	assert.ErrorIs(t, err, core.ErrShaderLink)

	h, err := b.ShaderCreate(metadata.ShaderSources{metadata.ShaderStageCompute: "void main() {}"})
	require.NoError(t, err)
	assert.True(t, b.HasShader(h))
}

func TestSetUniformAcceptsKnownTypes(t *testing.T) {
	b := New()
	h, err := b.ShaderCreate(vertexOnly)
	require.NoError(t, err)

	for _, v := range []interface{}{int32(1), float32(2), math.NewVec2(1, 2), math.NewVec3One(), math.NewVec4One(), math.NewMat4Identity()} {
		assert.NoError(t, b.SetUniform(h, "u_value", v))
	}
	assert.Error(t, b.SetUniform(h, "u_value", 3.0))
	assert.ErrorIs(t, b.SetUniform(42, "u_value", int32(0)), core.ErrInvalidResource)

	v, ok := b.Uniform(h, "u_value")
	require.True(t, ok)
	assert.Equal(t, math.NewMat4Identity(), v)
}

func TestBufferWritesStayInRange(t *testing.T) {
	b := New()
	vb, err := b.VertexBufferCreate(make([]byte, 8))
	require.NoError(t, err)
	require.NoError(t, b.VertexBufferWrite(vb, 4, []byte{1, 2, 3, 4}))
	assert.ErrorIs(t, b.VertexBufferWrite(vb, 6, []byte{1, 2, 3}), core.ErrOutOfRange)
	data, _ := b.VertexBufferData(vb)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4}, data)

	ub, err := b.UniformBufferCreate(32, 5)
	require.NoError(t, err)
	require.NoError(t, b.UniformBufferWrite(ub, 16, []byte{7}))
	assert.ErrorIs(t, b.UniformBufferWrite(ub, 30, []byte{1, 2, 3}), core.ErrOutOfRange)
	block, point, ok := b.UniformBufferData(ub)
	require.True(t, ok)
	assert.Equal(t, uint32(5), point)
	assert.Equal(t, byte(7), block[16])
}

func TestVertexArrayRecordsAttributes(t *testing.T) {
	b := New()
	va, err := b.VertexArrayCreate()
	require.NoError(t, err)
	vb, err := b.VertexBufferCreate(make([]byte, 32))
	require.NoError(t, err)
	layout := metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeMat4, false),
	)
	require.NoError(t, b.VertexArrayAddVertexBuffer(va, vb, layout, 0))
	assert.Equal(t, 5, b.VertexArrayAttributeCount(va))
	assert.ErrorIs(t, b.VertexArrayAddVertexBuffer(va, 999, layout, 5), core.ErrInvalidResource)

	ib, err := b.IndexBufferCreate([]uint32{0, 1, 2})
	require.NoError(t, err)
	b.VertexArraySetIndexBuffer(va, ib)
	got, ok := b.VertexArrayIndexBuffer(va)
	require.True(t, ok)
	assert.Equal(t, ib, got)
}

func TestCommandLog(t *testing.T) {
	b := New()
	b.Clear(math.NewVec4(1, 0, 0, 1))
	b.SetDepthTest(true)
	b.SetBlending(false)
	b.DrawIndexed(metadata.PrimitiveTopologyTriangles, 6)

	assert.Equal(t, []Op{OpClear, OpSetDepthTest, OpSetBlending, OpDrawIndexed}, Ops(b.Commands()))
	draws := Filter(b.Commands(), OpDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(6), draws[0].Count)
	assert.Equal(t, metadata.PrimitiveTopologyTriangles, draws[0].Value)
	assert.True(t, b.DepthTest())
	assert.False(t, b.Blending())
	assert.Equal(t, math.NewVec4(1, 0, 0, 1), b.ClearColour())

	b.ResetCommands()
	assert.Empty(t, b.Commands())
}

func TestDestroyRemovesObjects(t *testing.T) {
	b := New()
	tex, err := b.TextureCreate(metadata.TextureSpec{Width: 1, Height: 1, Channels: 4}, nil)
	require.NoError(t, err)
	sh, err := b.ShaderCreate(vertexOnly)
	require.NoError(t, err)
	ub, err := b.UniformBufferCreate(16, 0)
	require.NoError(t, err)

	textures, shaders, ubos := b.Live()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{textures, shaders, ubos})

	b.ShaderUse(sh)
	b.TextureDestroy(tex)
	b.ShaderDestroy(sh)
	b.UniformBufferDestroy(ub)
	textures, shaders, ubos = b.Live()
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{textures, shaders, ubos})
	assert.Equal(t, uint32(0), b.CurrentShader())
}
