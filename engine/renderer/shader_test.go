package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/headless"
)

const regionShader = "#region Vertex\nvoid main() {}\n#region Fragment\nvoid main() {}\n"

type fixedChanges []string

func (f fixedChanges) Changed() []string {
	return f
}

func writeShader(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestShaderUploads(t *testing.T) {
	ctx, backend := newTestContext(t)
	shader := newTestShader(t, ctx)
	shader.Use()
	assert.Equal(t, shader.Handle(), backend.CurrentShader())

	require.NoError(t, shader.UploadInt("u_int", 3))
	require.NoError(t, shader.UploadFloat("u_float", 0.5))
	require.NoError(t, shader.UploadFloat2("u_vec2", math.NewVec2(1, 2)))
	require.NoError(t, shader.UploadFloat3("u_vec3", math.NewVec3(1, 2, 3)))
	require.NoError(t, shader.UploadFloat4("u_vec4", math.NewVec4One()))
	require.NoError(t, shader.UploadMat4("u_mat4", math.NewMat4Identity()))
	assert.Equal(t, uint32(6), ctx.Stats.UniformUploads)

	v, ok := backend.Uniform(shader.Handle(), "u_int")
	require.True(t, ok)
	assert.Equal(t, int32(3), v)
	v, _ = backend.Uniform(shader.Handle(), "u_vec3")
	assert.Equal(t, math.NewVec3(1, 2, 3), v)
}

func TestShaderFromMissingFileFailsToCompile(t *testing.T) {
	ctx, _ := newTestContext(t)
	_, err := ctx.NewShaderFromFile(filepath.Join(t.TempDir(), "missing.glsl"))
	assert.ErrorIs(t, err, core.ErrEmptyShaderSource)
}

func TestShaderFromFiles(t *testing.T) {
	ctx, _ := newTestContext(t)
	dir := t.TempDir()
	vert, frag := filepath.Join(dir, "a.vert"), filepath.Join(dir, "a.frag")
	writeShader(t, vert, "void main() {}\n")
	writeShader(t, frag, "void main() {}\n")

	shader, err := ctx.NewShaderFromFiles(vert, frag)
	require.NoError(t, err)
	assert.True(t, shader.DependsOn(vert))
	assert.True(t, shader.DependsOn(frag))
	assert.False(t, shader.DependsOn(filepath.Join(dir, "b.frag")))

	_, err = ctx.NewShaderFromFiles(vert, filepath.Join(dir, "missing.frag"))
	assert.ErrorIs(t, err, core.ErrShaderCompile)
}

func TestShaderReload(t *testing.T) {
	ctx, backend := newTestContext(t)
	path := filepath.Join(t.TempDir(), "lit.glsl")
	writeShader(t, path, regionShader)

	shader, err := ctx.NewShaderFromFile(path)
	require.NoError(t, err)
	original := shader.Handle()

	// a broken edit keeps the running program
	writeShader(t, path, "#region Vertex\nvoid main() {}\n#region Fragment\n\n")
	assert.ErrorIs(t, shader.Reload(), core.ErrShaderCompile)
	assert.Equal(t, original, shader.Handle())
	assert.True(t, backend.HasShader(original))

	writeShader(t, path, regionShader+"// edited\n")
	require.NoError(t, shader.Reload())
	assert.NotEqual(t, original, shader.Handle())
	assert.False(t, backend.HasShader(original))

	inMemory := newTestShader(t, ctx)
	assert.Error(t, inMemory.Reload())
}

func TestReloadChanged(t *testing.T) {
	ctx, backend := newTestContext(t)
	dir := t.TempDir()
	changedPath, otherPath := filepath.Join(dir, "a.glsl"), filepath.Join(dir, "b.glsl")
	writeShader(t, changedPath, regionShader)
	writeShader(t, otherPath, regionShader)

	changed, err := ctx.NewShaderFromFile(changedPath)
	require.NoError(t, err)
	other, err := ctx.NewShaderFromFile(otherPath)
	require.NoError(t, err)
	otherHandle := other.Handle()
	backend.ResetCommands()

	assert.Equal(t, 0, ReloadChanged(fixedChanges(nil), changed, other))
	assert.Empty(t, backend.Commands())

	assert.Equal(t, 1, ReloadChanged(fixedChanges{changedPath}, changed, other, nil))
	assert.Equal(t, otherHandle, other.Handle())
	assert.Len(t, headless.Filter(backend.Commands(), headless.OpShaderCreate), 1)
}

func TestShaderReleaseDestroysProgram(t *testing.T) {
	ctx, backend := newTestContext(t)
	shader := newTestShader(t, ctx)
	handle := shader.Handle()
	shader.Acquire()
	shader.Release()
	assert.True(t, backend.HasShader(handle))
	shader.Release()
	assert.False(t, backend.HasShader(handle))
	assert.ErrorIs(t, shader.UploadInt("u_int", 1), core.ErrInvalidResource)
}
