package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

func stageType(stage metadata.ShaderStage) (uint32, error) {
	switch stage {
	case metadata.ShaderStageVertex:
		return gl.VERTEX_SHADER, nil
	case metadata.ShaderStageFragment:
		return gl.FRAGMENT_SHADER, nil
	case metadata.ShaderStageGeometry:
		return gl.GEOMETRY_SHADER, nil
	case metadata.ShaderStageTessellationControl:
		return gl.TESS_CONTROL_SHADER, nil
	case metadata.ShaderStageTessellationEvaluation:
		return gl.TESS_EVALUATION_SHADER, nil
	}
	// compute shaders need OpenGL 4.3
	return 0, fmt.Errorf("%s stage is not available on OpenGL 4.1: %w", stage, core.ErrShaderCompile)
}

func compileStage(stage metadata.ShaderStage, source string) (uint32, error) {
	if strings.TrimSpace(source) == "" {
		return 0, fmt.Errorf("%s stage: %w", stage, core.ErrEmptyShaderSource)
	}
	kind, err := stageType(stage)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s stage: %s: %w", stage, strings.TrimRight(log, "\x00"), core.ErrShaderCompile)
	}
	return shader, nil
}

func (r *OpenGLRenderer) ShaderCreate(sources metadata.ShaderSources) (uint32, error) {
	if len(sources) == 0 {
		return 0, core.ErrEmptyShaderSource
	}
	stages := make([]uint32, 0, len(sources))
	deleteStages := func() {
		for _, s := range stages {
			gl.DeleteShader(s)
		}
	}
	for _, stage := range sources.Stages() {
		s, err := compileStage(stage, sources[stage])
		if err != nil {
			deleteStages()
			return 0, err
		}
		stages = append(stages, s)
	}

	program := gl.CreateProgram()
	for _, s := range stages {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		deleteStages()
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s: %w", strings.TrimRight(log, "\x00"), core.ErrShaderLink)
	}

	for _, s := range stages {
		gl.DetachShader(program, s)
	}
	deleteStages()

	r.locations[program] = make(map[string]int32)
	return program, nil
}

func (r *OpenGLRenderer) ShaderUse(handle uint32) {
	gl.UseProgram(handle)
}

func (r *OpenGLRenderer) ShaderDestroy(handle uint32) {
	gl.DeleteProgram(handle)
	delete(r.locations, handle)
}

func (r *OpenGLRenderer) uniformLocation(program uint32, name string) (int32, error) {
	cache, ok := r.locations[program]
	if !ok {
		return -1, fmt.Errorf("shader %d: %w", program, core.ErrInvalidResource)
	}
	if loc, ok := cache[name]; ok {
		return loc, nil
	}
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	cache[name] = loc
	return loc, nil
}

// SetUniform writes into the program that is currently in use, so ShaderUse must come first.
func (r *OpenGLRenderer) SetUniform(handle uint32, name string, value interface{}) error {
	loc, err := r.uniformLocation(handle, name)
	if err != nil {
		return err
	}
	if loc < 0 {
		// the uniform was optimised away or never declared
		core.LogDebug("uniform '%s' is not active in shader %d", name, handle)
		return nil
	}
	switch v := value.(type) {
	case int32:
		gl.Uniform1i(loc, v)
	case float32:
		gl.Uniform1f(loc, v)
	case math.Vec2:
		gl.Uniform2f(loc, v.X, v.Y)
	case math.Vec3:
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	case math.Vec4:
		gl.Uniform4f(loc, v.X, v.Y, v.Z, v.W)
	case math.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &v.Data[0])
	default:
		return fmt.Errorf("unsupported uniform type %T for '%s'", value, name)
	}
	return nil
}

func (r *OpenGLRenderer) ShaderBindUniformBlock(handle uint32, blockName string, bindingPoint uint32) error {
	index := gl.GetUniformBlockIndex(handle, gl.Str(blockName+"\x00"))
	if index == gl.INVALID_INDEX {
		return fmt.Errorf("shader %d has no uniform block '%s'", handle, blockName)
	}
	gl.UniformBlockBinding(handle, index, bindingPoint)
	return checkError("UniformBlockBinding")
}
