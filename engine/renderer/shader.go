package renderer

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * @brief A linked shader program. Shared by reference count like Texture.
 */
type Shader struct {
	ctx    *Context
	handle uint32
	name   string
	// source files, one for a region-marked file or vertex then fragment
	paths []string
	refs  atomic.Int32
}

// NewShader compiles and links in-memory sources.
func (c *Context) NewShader(name string, sources metadata.ShaderSources) (*Shader, error) {
	return c.newShader(name, nil, sources)
}

// NewShaderFromFile builds a program from a single file holding every stage behind
// "#region <Stage>" markers. A file that cannot be read yields no sources and fails to compile.
func (c *Context) NewShaderFromFile(path string) (*Shader, error) {
	sources, _ := assets.ReadShaderSource(path)
	return c.newShader(path, []string{path}, sources)
}

// NewShaderFromFiles builds a program from a vertex and a fragment file.
func (c *Context) NewShaderFromFiles(vertexPath, fragmentPath string) (*Shader, error) {
	sources, _ := assets.ReadShaderFiles(vertexPath, fragmentPath)
	return c.newShader(vertexPath+"+"+filepath.Base(fragmentPath), []string{vertexPath, fragmentPath}, sources)
}

func (c *Context) newShader(name string, paths []string, sources metadata.ShaderSources) (*Shader, error) {
	handle, err := c.backend.ShaderCreate(sources)
	if err != nil {
		core.LogError("failed to build shader '%s': %s", name, err)
		return nil, err
	}
	s := &Shader{
		ctx:    c,
		handle: handle,
		name:   name,
		paths:  paths,
	}
	s.refs.Store(1)
	return s, nil
}

func (s *Shader) Use() {
	s.ctx.backend.ShaderUse(s.handle)
}

func (s *Shader) setUniform(name string, value interface{}) error {
	if s.handle == 0 {
		return fmt.Errorf("'%s': %w", s.name, core.ErrInvalidResource)
	}
	if err := s.ctx.backend.SetUniform(s.handle, name, value); err != nil {
		core.LogError("shader '%s': failed to upload '%s': %s", s.name, name, err)
		return err
	}
	s.ctx.Stats.UniformUploads++
	return nil
}

// The Upload functions write a loose uniform of the program, which must be in use.

func (s *Shader) UploadInt(name string, value int32) error {
	return s.setUniform(name, value)
}

func (s *Shader) UploadFloat(name string, value float32) error {
	return s.setUniform(name, value)
}

func (s *Shader) UploadFloat2(name string, value math.Vec2) error {
	return s.setUniform(name, value)
}

func (s *Shader) UploadFloat3(name string, value math.Vec3) error {
	return s.setUniform(name, value)
}

func (s *Shader) UploadFloat4(name string, value math.Vec4) error {
	return s.setUniform(name, value)
}

func (s *Shader) UploadMat4(name string, value math.Mat4) error {
	return s.setUniform(name, value)
}

// Reload reads the source files again and swaps in the new program. On failure the
// previous program stays in place. Uniform block attachments must be redone by the caller.
func (s *Shader) Reload() error {
	var sources metadata.ShaderSources
	switch len(s.paths) {
	case 1:
		sources, _ = assets.ReadShaderSource(s.paths[0])
	case 2:
		sources, _ = assets.ReadShaderFiles(s.paths[0], s.paths[1])
	default:
		return fmt.Errorf("shader '%s' was not loaded from files", s.name)
	}
	handle, err := s.ctx.backend.ShaderCreate(sources)
	if err != nil {
		core.LogError("failed to reload shader '%s', keeping the previous program: %s", s.name, err)
		return err
	}
	s.ctx.backend.ShaderDestroy(s.handle)
	s.handle = handle
	core.LogInfo("shader '%s' reloaded", s.name)
	return nil
}

// DependsOn reports whether path is one of the shader's source files.
func (s *Shader) DependsOn(path string) bool {
	target, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range s.paths {
		if abs, err := filepath.Abs(p); err == nil && abs == target {
			return true
		}
	}
	return false
}

func (s *Shader) Name() string {
	return s.name
}

func (s *Shader) Handle() uint32 {
	return s.handle
}

func (s *Shader) Acquire() *Shader {
	s.refs.Add(1)
	return s
}

func (s *Shader) Release() {
	switch n := s.refs.Add(-1); {
	case n == 0:
		s.ctx.backend.ShaderDestroy(s.handle)
		s.handle = 0
	case n < 0:
		core.LogWarn("shader '%s' released more times than acquired", s.name)
		s.refs.Store(0)
	}
}

func (s *Shader) References() int32 {
	return s.refs.Load()
}

// ChangeSource reports source files modified since the previous call, like assets.Watcher.
type ChangeSource interface {
	Changed() []string
}

// ReloadChanged drains changes and reloads every shader built from one of the changed files.
// It returns how many shaders now run a new program. Must be called on the render thread.
func ReloadChanged(changes ChangeSource, shaders ...*Shader) int {
	changed := changes.Changed()
	if len(changed) == 0 {
		return 0
	}
	reloaded := 0
	for _, s := range shaders {
		if s == nil || s.handle == 0 {
			continue
		}
		for _, path := range changed {
			if !s.DependsOn(path) {
				continue
			}
			if err := s.Reload(); err == nil {
				reloaded++
			}
			break
		}
	}
	return reloaded
}
