package headless

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type texture struct {
	spec   metadata.TextureSpec
	pixels []uint8
}

type shader struct {
	sources  metadata.ShaderSources
	uniforms map[string]interface{}
	blocks   map[string]uint32
}

type vertexArray struct {
	vertexBuffers []uint32
	attributes    []metadata.VertexAttribute
	indexBuffer   uint32
}

type uniformBuffer struct {
	data         []byte
	bindingPoint uint32
}

// Backend keeps every GPU object in memory and appends each call to a command log.
// It validates its inputs the way a driver would, so frontend errors surface in tests.
type Backend struct {
	nextHandle uint32

	textures       map[uint32]*texture
	shaders        map[uint32]*shader
	vertexBuffers  map[uint32][]byte
	indexBuffers   map[uint32][]uint32
	vertexArrays   map[uint32]*vertexArray
	uniformBuffers map[uint32]*uniformBuffer

	depthTest     bool
	blending      bool
	clearColour   math.Vec4
	boundTextures map[uint32]uint32
	currentShader uint32
	currentArray  uint32
	currentIndex  uint32

	commands []Command
}

func New() *Backend {
	return &Backend{
		textures:       make(map[uint32]*texture),
		shaders:        make(map[uint32]*shader),
		vertexBuffers:  make(map[uint32][]byte),
		indexBuffers:   make(map[uint32][]uint32),
		vertexArrays:   make(map[uint32]*vertexArray),
		uniformBuffers: make(map[uint32]*uniformBuffer),
		boundTextures:  make(map[uint32]uint32),
	}
}

func (b *Backend) Initialize() error {
	core.LogInfo("headless renderer backend initialized")
	return nil
}

func (b *Backend) Shutdown() error {
	core.LogInfo("headless renderer backend shut down with %d live textures, %d live shaders, %d live uniform buffers",
		len(b.textures), len(b.shaders), len(b.uniformBuffers))
	return nil
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

func (b *Backend) record(c Command) {
	b.commands = append(b.commands, c)
}

func (b *Backend) Clear(colour math.Vec4) {
	b.clearColour = colour
	b.record(Command{Op: OpClear, Value: colour})
}

func (b *Backend) SetDepthTest(enabled bool) {
	b.depthTest = enabled
	b.record(Command{Op: OpSetDepthTest, Value: enabled})
}

func (b *Backend) SetBlending(enabled bool) {
	b.blending = enabled
	b.record(Command{Op: OpSetBlending, Value: enabled})
}

func (b *Backend) DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32) {
	b.record(Command{Op: OpDrawIndexed, Handle: b.currentArray, Value: topology, Count: indexCount})
}

func (b *Backend) TextureCreate(spec metadata.TextureSpec, pixels []uint8) (uint32, error) {
	if !metadata.UploadableChannels(spec.Channels) {
		return 0, fmt.Errorf("texture with %d channels: %w", spec.Channels, core.ErrUnsupportedChannels)
	}
	size := spec.ByteSize()
	if pixels != nil && uint32(len(pixels)) < size {
		return 0, fmt.Errorf("texture needs %d bytes, got %d: %w", size, len(pixels), core.ErrDataTooShort)
	}
	t := &texture{spec: spec, pixels: make([]uint8, size)}
	copy(t.pixels, pixels)

	h := b.handle()
	b.textures[h] = t
	b.record(Command{Op: OpTextureCreate, Handle: h})
	return h, nil
}

func (b *Backend) TextureWriteData(handle uint32, region metadata.TextureRegion, pixels []uint8) error {
	t, ok := b.textures[handle]
	if !ok {
		return fmt.Errorf("texture %d: %w", handle, core.ErrInvalidResource)
	}
	if !region.Fits(t.spec) {
		return fmt.Errorf("region %+v outside %dx%d texture: %w", region, t.spec.Width, t.spec.Height, core.ErrOutOfRange)
	}
	channels := t.spec.Channels
	if uint32(len(pixels)) < region.ByteSize(channels) {
		return fmt.Errorf("region needs %d bytes, got %d: %w", region.ByteSize(channels), len(pixels), core.ErrDataTooShort)
	}
	rowBytes := region.Width * channels
	for row := uint32(0); row < region.Height; row++ {
		dst := ((region.Y+row)*t.spec.Width + region.X) * channels
		src := row * rowBytes
		copy(t.pixels[dst:dst+rowBytes], pixels[src:src+rowBytes])
	}
	b.record(Command{Op: OpTextureWriteData, Handle: handle})
	return nil
}

func (b *Backend) TextureBind(handle uint32, unit uint32) {
	b.boundTextures[unit] = handle
	b.record(Command{Op: OpTextureBind, Handle: handle, Count: unit})
}

func (b *Backend) TextureDestroy(handle uint32) {
	delete(b.textures, handle)
	b.record(Command{Op: OpTextureDestroy, Handle: handle})
}

func (b *Backend) ShaderCreate(sources metadata.ShaderSources) (uint32, error) {
	if len(sources) == 0 {
		return 0, core.ErrEmptyShaderSource
	}
	for _, stage := range sources.Stages() {
		if strings.TrimSpace(sources[stage]) == "" {
			return 0, fmt.Errorf("%s stage has no source: %w", stage, core.ErrShaderCompile)
		}
	}
	_, hasCompute := sources[metadata.ShaderStageCompute]
	_, hasVertex := sources[metadata.ShaderStageVertex]
	if !hasCompute && !hasVertex {
		return 0, fmt.Errorf("program without a vertex stage: %w", core.ErrShaderLink)
	}
	s := &shader{
		sources:  make(metadata.ShaderSources, len(sources)),
		uniforms: make(map[string]interface{}),
		blocks:   make(map[string]uint32),
	}
	for stage, src := range sources {
		s.sources[stage] = src
	}
	h := b.handle()
	b.shaders[h] = s
	b.record(Command{Op: OpShaderCreate, Handle: h})
	return h, nil
}

func (b *Backend) ShaderUse(handle uint32) {
	b.currentShader = handle
	b.record(Command{Op: OpShaderUse, Handle: handle})
}

func (b *Backend) ShaderDestroy(handle uint32) {
	delete(b.shaders, handle)
	if b.currentShader == handle {
		b.currentShader = 0
	}
	b.record(Command{Op: OpShaderDestroy, Handle: handle})
}

func (b *Backend) SetUniform(handle uint32, name string, value interface{}) error {
	s, ok := b.shaders[handle]
	if !ok {
		return fmt.Errorf("shader %d: %w", handle, core.ErrInvalidResource)
	}
	switch value.(type) {
	case int32, float32, math.Vec2, math.Vec3, math.Vec4, math.Mat4:
	default:
		return fmt.Errorf("unsupported uniform type %T for '%s'", value, name)
	}
	s.uniforms[name] = value
	b.record(Command{Op: OpSetUniform, Handle: handle, Name: name, Value: value})
	return nil
}

func (b *Backend) ShaderBindUniformBlock(handle uint32, blockName string, bindingPoint uint32) error {
	s, ok := b.shaders[handle]
	if !ok {
		return fmt.Errorf("shader %d: %w", handle, core.ErrInvalidResource)
	}
	s.blocks[blockName] = bindingPoint
	b.record(Command{Op: OpShaderBindUniformBlock, Handle: handle, Name: blockName, Count: bindingPoint})
	return nil
}

func (b *Backend) VertexBufferCreate(data []byte) (uint32, error) {
	h := b.handle()
	b.vertexBuffers[h] = append([]byte(nil), data...)
	b.record(Command{Op: OpVertexBufferCreate, Handle: h})
	return h, nil
}

func (b *Backend) VertexBufferWrite(handle uint32, offset uint32, data []byte) error {
	buf, ok := b.vertexBuffers[handle]
	if !ok {
		return fmt.Errorf("vertex buffer %d: %w", handle, core.ErrInvalidResource)
	}
	if uint64(offset)+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("write of %d bytes at %d into %d byte buffer: %w", len(data), offset, len(buf), core.ErrOutOfRange)
	}
	copy(buf[offset:], data)
	b.record(Command{Op: OpVertexBufferWrite, Handle: handle, Count: offset})
	return nil
}

func (b *Backend) VertexBufferDestroy(handle uint32) {
	delete(b.vertexBuffers, handle)
	b.record(Command{Op: OpVertexBufferDestroy, Handle: handle})
}

func (b *Backend) IndexBufferCreate(indices []uint32) (uint32, error) {
	h := b.handle()
	b.indexBuffers[h] = append([]uint32(nil), indices...)
	b.record(Command{Op: OpIndexBufferCreate, Handle: h, Count: uint32(len(indices))})
	return h, nil
}

func (b *Backend) IndexBufferBind(handle uint32) {
	b.currentIndex = handle
	b.record(Command{Op: OpIndexBufferBind, Handle: handle})
}

func (b *Backend) IndexBufferDestroy(handle uint32) {
	delete(b.indexBuffers, handle)
	b.record(Command{Op: OpIndexBufferDestroy, Handle: handle})
}

func (b *Backend) VertexArrayCreate() (uint32, error) {
	h := b.handle()
	b.vertexArrays[h] = &vertexArray{}
	b.record(Command{Op: OpVertexArrayCreate, Handle: h})
	return h, nil
}

func (b *Backend) VertexArrayAddVertexBuffer(handle, vertexBuffer uint32, layout *metadata.BufferLayout, firstAttribute uint32) error {
	va, ok := b.vertexArrays[handle]
	if !ok {
		return fmt.Errorf("vertex array %d: %w", handle, core.ErrInvalidResource)
	}
	if _, ok := b.vertexBuffers[vertexBuffer]; !ok {
		return fmt.Errorf("vertex buffer %d: %w", vertexBuffer, core.ErrInvalidResource)
	}
	va.vertexBuffers = append(va.vertexBuffers, vertexBuffer)
	va.attributes = append(va.attributes, layout.Attributes(firstAttribute)...)
	b.record(Command{Op: OpVertexArrayAddBuffer, Handle: handle, Count: vertexBuffer})
	return nil
}

func (b *Backend) VertexArraySetIndexBuffer(handle, indexBuffer uint32) {
	if va, ok := b.vertexArrays[handle]; ok {
		va.indexBuffer = indexBuffer
	}
	b.record(Command{Op: OpVertexArraySetIndex, Handle: handle, Count: indexBuffer})
}

func (b *Backend) VertexArrayBind(handle uint32) {
	b.currentArray = handle
	b.record(Command{Op: OpVertexArrayBind, Handle: handle})
}

func (b *Backend) VertexArrayDestroy(handle uint32) {
	delete(b.vertexArrays, handle)
	b.record(Command{Op: OpVertexArrayDestroy, Handle: handle})
}

func (b *Backend) UniformBufferCreate(size uint32, bindingPoint uint32) (uint32, error) {
	h := b.handle()
	b.uniformBuffers[h] = &uniformBuffer{data: make([]byte, size), bindingPoint: bindingPoint}
	b.record(Command{Op: OpUniformBufferCreate, Handle: h, Count: bindingPoint})
	return h, nil
}

func (b *Backend) UniformBufferWrite(handle uint32, offset uint32, data []byte) error {
	ub, ok := b.uniformBuffers[handle]
	if !ok {
		return fmt.Errorf("uniform buffer %d: %w", handle, core.ErrInvalidResource)
	}
	if uint64(offset)+uint64(len(data)) > uint64(len(ub.data)) {
		return fmt.Errorf("write of %d bytes at %d into %d byte block: %w", len(data), offset, len(ub.data), core.ErrOutOfRange)
	}
	copy(ub.data[offset:], data)
	b.record(Command{Op: OpUniformBufferWrite, Handle: handle, Count: offset})
	return nil
}

func (b *Backend) UniformBufferDestroy(handle uint32) {
	delete(b.uniformBuffers, handle)
	b.record(Command{Op: OpUniformBufferDestroy, Handle: handle})
}
