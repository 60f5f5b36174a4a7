package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * @brief Vertex data in GPU memory, described by a layout.
 */
type VertexBuffer struct {
	ctx    *Context
	handle uint32
	size   uint32
	layout *metadata.BufferLayout
}

// NewVertexBuffer allocates size bytes and fills them from data. Data longer than size is
// truncated, shorter data leaves the tail zeroed for later edits.
func (c *Context) NewVertexBuffer(data []byte, size uint32, layout *metadata.BufferLayout) (*VertexBuffer, error) {
	if layout == nil {
		return nil, fmt.Errorf("vertex buffer without a layout: %w", core.ErrInvalidResource)
	}
	storage := make([]byte, size)
	copy(storage, data)

	handle, err := c.backend.VertexBufferCreate(storage)
	if err != nil {
		core.LogError("failed to create vertex buffer of %d bytes: %s", size, err)
		return nil, err
	}
	c.Stats.BufferUploads++
	return &VertexBuffer{
		ctx:    c,
		handle: handle,
		size:   size,
		layout: layout,
	}, nil
}

// Edit overwrites len(data) bytes starting at offset.
func (vb *VertexBuffer) Edit(data []byte, offset uint32) error {
	if vb.handle == 0 {
		return core.ErrInvalidResource
	}
	if uint64(offset)+uint64(len(data)) > uint64(vb.size) {
		return fmt.Errorf("edit of %d bytes at %d into %d byte vertex buffer: %w", len(data), offset, vb.size, core.ErrOutOfRange)
	}
	if err := vb.ctx.backend.VertexBufferWrite(vb.handle, offset, data); err != nil {
		core.LogError("failed to edit vertex buffer %d: %s", vb.handle, err)
		return err
	}
	vb.ctx.Stats.BufferUploads++
	return nil
}

// Layout returns the layout the buffer was created with, not a copy.
func (vb *VertexBuffer) Layout() *metadata.BufferLayout {
	return vb.layout
}

func (vb *VertexBuffer) Size() uint32 {
	return vb.size
}

func (vb *VertexBuffer) Handle() uint32 {
	return vb.handle
}

func (vb *VertexBuffer) Destroy() {
	if vb.handle == 0 {
		return
	}
	vb.ctx.backend.VertexBufferDestroy(vb.handle)
	vb.handle = 0
}

type IndexBuffer struct {
	ctx    *Context
	handle uint32
	count  uint32
}

func (c *Context) NewIndexBuffer(indices []uint32) (*IndexBuffer, error) {
	handle, err := c.backend.IndexBufferCreate(indices)
	if err != nil {
		core.LogError("failed to create index buffer of %d indices: %s", len(indices), err)
		return nil, err
	}
	c.Stats.BufferUploads++
	return &IndexBuffer{
		ctx:    c,
		handle: handle,
		count:  uint32(len(indices)),
	}, nil
}

func (ib *IndexBuffer) Count() uint32 {
	return ib.count
}

func (ib *IndexBuffer) Handle() uint32 {
	return ib.handle
}

func (ib *IndexBuffer) Destroy() {
	if ib.handle == 0 {
		return
	}
	ib.ctx.backend.IndexBufferDestroy(ib.handle)
	ib.handle = 0
}

/**
 * @brief A vertex array binds any number of vertex buffers and at most one
 * index buffer into a drawable unit. Attribute locations are handed out in
 * the order buffers are added, continuing across buffers.
 */
type VertexArray struct {
	ctx           *Context
	handle        uint32
	vertexBuffers []*VertexBuffer
	indexBuffer   *IndexBuffer
	nextAttribute uint32
}

func (c *Context) NewVertexArray() (*VertexArray, error) {
	handle, err := c.backend.VertexArrayCreate()
	if err != nil {
		core.LogError("failed to create vertex array: %s", err)
		return nil, err
	}
	return &VertexArray{
		ctx:    c,
		handle: handle,
	}, nil
}

func (va *VertexArray) AddVertexBuffer(vb *VertexBuffer) error {
	if vb == nil || vb.handle == 0 {
		return fmt.Errorf("vertex array %d: %w", va.handle, core.ErrInvalidResource)
	}
	if err := va.ctx.backend.VertexArrayAddVertexBuffer(va.handle, vb.handle, vb.layout, va.nextAttribute); err != nil {
		core.LogError("failed to add vertex buffer %d to vertex array %d: %s", vb.handle, va.handle, err)
		return err
	}
	va.nextAttribute += uint32(len(vb.layout.Attributes(va.nextAttribute)))
	va.vertexBuffers = append(va.vertexBuffers, vb)
	return nil
}

// SetIndexBuffer replaces the bound index buffer. The previous one is not destroyed.
func (va *VertexArray) SetIndexBuffer(ib *IndexBuffer) {
	va.indexBuffer = ib
	handle := uint32(0)
	if ib != nil {
		handle = ib.handle
	}
	va.ctx.backend.VertexArraySetIndexBuffer(va.handle, handle)
}

func (va *VertexArray) IndexBuffer() *IndexBuffer {
	return va.indexBuffer
}

func (va *VertexArray) VertexBuffers() []*VertexBuffer {
	return append([]*VertexBuffer(nil), va.vertexBuffers...)
}

// DrawCount is the index count of the bound index buffer, or 0 when none is bound.
func (va *VertexArray) DrawCount() uint32 {
	if va.indexBuffer == nil {
		return 0
	}
	return va.indexBuffer.Count()
}

func (va *VertexArray) Handle() uint32 {
	return va.handle
}

// bind makes the vertex array and its index buffer current for the next draw.
func (va *VertexArray) bind() {
	va.ctx.backend.VertexArrayBind(va.handle)
	if va.indexBuffer != nil {
		va.ctx.backend.IndexBufferBind(va.indexBuffer.handle)
	}
}

// Destroy releases the vertex array together with every buffer it holds.
func (va *VertexArray) Destroy() {
	for _, vb := range va.vertexBuffers {
		vb.Destroy()
	}
	if va.indexBuffer != nil {
		va.indexBuffer.Destroy()
	}
	if va.handle != 0 {
		va.ctx.backend.VertexArrayDestroy(va.handle)
		va.handle = 0
	}
	va.vertexBuffers = nil
	va.indexBuffer = nil
}
