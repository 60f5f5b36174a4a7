package renderer

import (
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

// RendererBackend is the graphics API the frontend resources call into. Every GPU object is
// referred to by an opaque handle, 0 is never a valid handle. All calls happen on the
// render thread.
type RendererBackend interface {
	Initialize() error
	Shutdown() error

	Clear(colour math.Vec4)
	SetDepthTest(enabled bool)
	SetBlending(enabled bool)
	DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32)

	// TextureCreate allocates a texture. A nil pixels slice allocates uninitialised storage.
	TextureCreate(spec metadata.TextureSpec, pixels []uint8) (uint32, error)
	TextureWriteData(handle uint32, region metadata.TextureRegion, pixels []uint8) error
	TextureBind(handle uint32, unit uint32)
	TextureDestroy(handle uint32)

	ShaderCreate(sources metadata.ShaderSources) (uint32, error)
	ShaderUse(handle uint32)
	ShaderDestroy(handle uint32)
	// SetUniform accepts int32, float32, math.Vec2, math.Vec3, math.Vec4 and math.Mat4.
	SetUniform(handle uint32, name string, value interface{}) error
	// ShaderBindUniformBlock points the named block of a program at a binding point.
	ShaderBindUniformBlock(handle uint32, blockName string, bindingPoint uint32) error

	VertexBufferCreate(data []byte) (uint32, error)
	VertexBufferWrite(handle uint32, offset uint32, data []byte) error
	VertexBufferDestroy(handle uint32)

	IndexBufferCreate(indices []uint32) (uint32, error)
	IndexBufferBind(handle uint32)
	IndexBufferDestroy(handle uint32)

	VertexArrayCreate() (uint32, error)
	// VertexArrayAddVertexBuffer enables one attribute per layout element starting at firstAttribute.
	VertexArrayAddVertexBuffer(handle, vertexBuffer uint32, layout *metadata.BufferLayout, firstAttribute uint32) error
	VertexArraySetIndexBuffer(handle, indexBuffer uint32)
	VertexArrayBind(handle uint32)
	VertexArrayDestroy(handle uint32)

	UniformBufferCreate(size uint32, bindingPoint uint32) (uint32, error)
	UniformBufferWrite(handle uint32, offset uint32, data []byte) error
	UniformBufferDestroy(handle uint32)
}
