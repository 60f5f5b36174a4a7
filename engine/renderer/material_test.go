package renderer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/math"
)

func TestMaterialFlags(t *testing.T) {
	ctx, _ := newTestContext(t)
	shader := newTestShader(t, ctx)
	tex, err := ctx.NewTexture(1, 1, 4, nil)
	require.NoError(t, err)
	tint := math.NewVec4(1, 0, 0, 1)

	plain := NewMaterial(shader)
	assert.Equal(t, MaterialFlag(0), plain.Flags())
	assert.False(t, plain.IsFlagSet(MaterialFlagHasTexture))
	assert.False(t, plain.IsFlagSet(MaterialFlagHasTint))

	textured := NewTexturedMaterial(shader, tex)
	assert.True(t, textured.IsFlagSet(MaterialFlagHasTexture))
	assert.False(t, textured.IsFlagSet(MaterialFlagHasTint))
	assert.Same(t, tex, textured.Texture())

	tinted := NewTintedMaterial(shader, tint)
	assert.True(t, tinted.IsFlagSet(MaterialFlagHasTint))
	assert.Equal(t, tint, tinted.Tint())

	both := NewTexturedTintedMaterial(shader, tex, tint)
	assert.True(t, both.IsFlagSet(MaterialFlagHasTexture|MaterialFlagHasTint))

	assert.NotEqual(t, plain.ID, textured.ID)
	assert.Equal(t, int32(5), shader.References())
	assert.Equal(t, int32(3), tex.References())

	for _, m := range []*Material{plain, textured, tinted, both} {
		m.Release()
	}
	assert.Equal(t, int32(1), shader.References())
	assert.Equal(t, int32(1), tex.References())
}

func TestMaterialSetShaderHasNoFlag(t *testing.T) {
	ctx, backend := newTestContext(t)
	first := newTestShader(t, ctx)
	second := newTestShader(t, ctx)

	m := NewMaterial(first)
	first.Release()
	firstHandle := first.Handle()
	m.SetShader(second)
	assert.Same(t, second, m.Shader())
	assert.Equal(t, MaterialFlag(0), m.Flags())
	assert.False(t, backend.HasShader(firstHandle))
}

func TestNewMaterialFromConfig(t *testing.T) {
	ctx, backend := newTestContext(t)
	dir := t.TempDir()
	shaderPath := filepath.Join(dir, "phong.glsl")
	require.NoError(t, os.WriteFile(shaderPath, []byte("#region Vertex\nvoid main() {}\n#region Fragment\nvoid main() {}\n"), 0o644))
	texturePath := writeTestPNG(t, dir, 2, 2, color.NRGBA{R: 255, A: 128})

	cfg := &assets.MaterialConfig{Name: "crate", Shader: shaderPath, Texture: texturePath, Tint: []float32{0.5, 0.5, 0.5, 1}}
	m, err := ctx.NewMaterialFromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, m.IsFlagSet(MaterialFlagHasTexture|MaterialFlagHasTint))
	assert.Equal(t, math.NewVec4(0.5, 0.5, 0.5, 1), m.Tint())
	assert.Equal(t, int32(1), m.Shader().References())
	assert.Equal(t, int32(1), m.Texture().References())
	assert.Equal(t, uint32(4), m.Texture().Channels())

	textureHandle := m.Texture().Handle()
	m.Release()
	assert.False(t, backend.HasTexture(textureHandle))

	_, err = ctx.NewMaterialFromConfig(&assets.MaterialConfig{Name: "broken", Shader: filepath.Join(dir, "missing.glsl")})
	assert.Error(t, err)
}
