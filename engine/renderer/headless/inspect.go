package headless

import "github.com/spaghettifunk/lumen/engine/math"

// Commands returns a copy of the command log.
func (b *Backend) Commands() []Command {
	return append([]Command(nil), b.commands...)
}

func (b *Backend) ResetCommands() {
	b.commands = b.commands[:0]
}

// TexturePixels returns a copy of the texture storage and its width, height and channel count.
func (b *Backend) TexturePixels(handle uint32) (pixels []uint8, width, height, channels uint32, ok bool) {
	t, ok := b.textures[handle]
	if !ok {
		return nil, 0, 0, 0, false
	}
	return append([]uint8(nil), t.pixels...), t.spec.Width, t.spec.Height, t.spec.Channels, true
}

func (b *Backend) VertexBufferData(handle uint32) ([]byte, bool) {
	buf, ok := b.vertexBuffers[handle]
	return append([]byte(nil), buf...), ok
}

func (b *Backend) IndexBufferData(handle uint32) ([]uint32, bool) {
	buf, ok := b.indexBuffers[handle]
	return append([]uint32(nil), buf...), ok
}

// UniformBufferData returns a copy of the block memory and its binding point.
func (b *Backend) UniformBufferData(handle uint32) ([]byte, uint32, bool) {
	ub, ok := b.uniformBuffers[handle]
	if !ok {
		return nil, 0, false
	}
	return append([]byte(nil), ub.data...), ub.bindingPoint, true
}

// Uniform returns the last value set for name on the shader.
func (b *Backend) Uniform(shader uint32, name string) (interface{}, bool) {
	s, ok := b.shaders[shader]
	if !ok {
		return nil, false
	}
	v, ok := s.uniforms[name]
	return v, ok
}

// UniformBlockBinding returns the binding point the shader's block was pointed at.
func (b *Backend) UniformBlockBinding(shader uint32, block string) (uint32, bool) {
	s, ok := b.shaders[shader]
	if !ok {
		return 0, false
	}
	p, ok := s.blocks[block]
	return p, ok
}

func (b *Backend) VertexArrayIndexBuffer(handle uint32) (uint32, bool) {
	va, ok := b.vertexArrays[handle]
	if !ok {
		return 0, false
	}
	return va.indexBuffer, true
}

func (b *Backend) VertexArrayAttributeCount(handle uint32) int {
	if va, ok := b.vertexArrays[handle]; ok {
		return len(va.attributes)
	}
	return 0
}

func (b *Backend) BoundTexture(unit uint32) uint32 {
	return b.boundTextures[unit]
}

func (b *Backend) CurrentShader() uint32 {
	return b.currentShader
}

func (b *Backend) DepthTest() bool {
	return b.depthTest
}

func (b *Backend) Blending() bool {
	return b.blending
}

func (b *Backend) ClearColour() math.Vec4 {
	return b.clearColour
}

// Live reports how many objects of each kind have been created and not destroyed.
func (b *Backend) Live() (textures, shaders, uniformBuffers int) {
	return len(b.textures), len(b.shaders), len(b.uniformBuffers)
}

func (b *Backend) HasTexture(handle uint32) bool {
	_, ok := b.textures[handle]
	return ok
}

func (b *Backend) HasShader(handle uint32) bool {
	_, ok := b.shaders[handle]
	return ok
}

func (b *Backend) HasUniformBuffer(handle uint32) bool {
	_, ok := b.uniformBuffers[handle]
	return ok
}
