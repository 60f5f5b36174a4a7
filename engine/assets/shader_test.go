package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const regionSource = `// shared header is dropped
#region Vertex
void main() { gl_Position = vec4(0.0); }
#region Fragment
out vec4 colour;
void main() { colour = vec4(1.0); }
`

func TestParseShaderSource(t *testing.T) {
	sources, err := ParseShaderSource(strings.NewReader(regionSource))
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "void main() { gl_Position = vec4(0.0); }\n", sources[metadata.ShaderStageVertex])
	assert.Equal(t, "out vec4 colour;\nvoid main() { colour = vec4(1.0); }\n", sources[metadata.ShaderStageFragment])
}

func TestParseShaderSourceRepeatedRegionsAppend(t *testing.T) {
	src := "#region Vertex\na\n#region Fragment\nb\n#region Vertex\nc\n"
	sources, err := ParseShaderSource(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "a\nc\n", sources[metadata.ShaderStageVertex])
	assert.Equal(t, "b\n", sources[metadata.ShaderStageFragment])
}

func TestParseShaderSourceWithoutMarkers(t *testing.T) {
	sources, err := ParseShaderSource(strings.NewReader("void main() {}\n"))
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestReadShaderSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.glsl")
	require.NoError(t, os.WriteFile(path, []byte(regionSource), 0o644))

	sources, err := ReadShaderSource(path)
	require.NoError(t, err)
	assert.Equal(t, []metadata.ShaderStage{metadata.ShaderStageVertex, metadata.ShaderStageFragment}, sources.Stages())

	sources, err = ReadShaderSource(filepath.Join(t.TempDir(), "missing.glsl"))
	assert.Error(t, err)
	assert.Empty(t, sources)
}

func TestReadShaderFiles(t *testing.T) {
	dir := t.TempDir()
	vertex := filepath.Join(dir, "shader.vert")
	fragment := filepath.Join(dir, "shader.glsl")
	require.NoError(t, os.WriteFile(vertex, []byte("void main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(fragment, []byte(regionSource), 0o644))

	sources, err := ReadShaderFiles(vertex, fragment)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", sources[metadata.ShaderStageVertex], "files without markers are used whole")
	assert.Contains(t, sources[metadata.ShaderStageFragment], "colour = vec4(1.0)")
	assert.NotContains(t, sources[metadata.ShaderStageFragment], "gl_Position", "only the matching region is kept")
}

func TestReadShaderFilesMissingStage(t *testing.T) {
	dir := t.TempDir()
	vertex := filepath.Join(dir, "shader.vert")
	require.NoError(t, os.WriteFile(vertex, []byte("void main() {}\n"), 0o644))

	sources, err := ReadShaderFiles(vertex, filepath.Join(dir, "missing.frag"))
	assert.Error(t, err)
	assert.Equal(t, "void main() {}\n", sources[metadata.ShaderStageVertex])
	assert.Empty(t, sources[metadata.ShaderStageFragment])
}
