package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// OpenGLRenderer talks to an OpenGL 4.1 core context. The context must be created and made
// current on the calling thread by the window layer before Initialize is called.
type OpenGLRenderer struct {
	textures map[uint32]metadata.TextureSpec
	// uniform locations resolved per program
	locations map[uint32]map[string]int32

	maxUniformBindings uint32
	maxTextureUnits    uint32
}

func New() *OpenGLRenderer {
	return &OpenGLRenderer{
		textures:  make(map[uint32]metadata.TextureSpec),
		locations: make(map[uint32]map[string]int32),
	}
}

func (r *OpenGLRenderer) Initialize() error {
	if err := gl.Init(); err != nil {
		core.LogError("failed to initialize OpenGL bindings: %s", err)
		return err
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	core.LogInfo("OpenGL version %s", version)

	var maxBindings, maxUnits int32
	gl.GetIntegerv(gl.MAX_UNIFORM_BUFFER_BINDINGS, &maxBindings)
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &maxUnits)
	r.maxUniformBindings = uint32(maxBindings)
	r.maxTextureUnits = uint32(maxUnits)
	core.LogDebug("max uniform buffer bindings %d, max texture units %d", maxBindings, maxUnits)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	for handle := range r.textures {
		gl.DeleteTextures(1, &handle)
	}
	for program := range r.locations {
		gl.DeleteProgram(program)
	}
	r.textures = make(map[uint32]metadata.TextureSpec)
	r.locations = make(map[uint32]map[string]int32)
	return nil
}

func (r *OpenGLRenderer) Clear(colour math.Vec4) {
	gl.ClearColor(colour.X, colour.Y, colour.Z, colour.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *OpenGLRenderer) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (r *OpenGLRenderer) SetBlending(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		return
	}
	gl.Disable(gl.BLEND)
}

func (r *OpenGLRenderer) DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32) {
	gl.DrawElements(primitiveMode(topology), int32(indexCount), gl.UNSIGNED_INT, nil)
}

func primitiveMode(topology metadata.PrimitiveTopology) uint32 {
	switch topology {
	case metadata.PrimitiveTopologyTriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s failed with GL error 0x%x", op, code)
	}
	return nil
}
