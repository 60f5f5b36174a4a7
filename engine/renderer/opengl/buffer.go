package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

func (r *OpenGLRenderer) VertexBufferCreate(data []byte) (uint32, error) {
	var handle uint32
	gl.GenBuffers(1, &handle)
	gl.BindBuffer(gl.ARRAY_BUFFER, handle)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	if err := checkError("BufferData"); err != nil {
		gl.DeleteBuffers(1, &handle)
		return 0, err
	}
	return handle, nil
}

func (r *OpenGLRenderer) VertexBufferWrite(handle uint32, offset uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, handle)
	gl.BufferSubData(gl.ARRAY_BUFFER, int(offset), len(data), gl.Ptr(data))
	return checkError("BufferSubData")
}

func (r *OpenGLRenderer) VertexBufferDestroy(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}

// IndexBufferCreate stores the indices without a vertex array bound, the element
// buffer is attached to a vertex array later.
func (r *OpenGLRenderer) IndexBufferCreate(indices []uint32) (uint32, error) {
	var handle uint32
	gl.GenBuffers(1, &handle)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, handle)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	if err := checkError("BufferData"); err != nil {
		gl.DeleteBuffers(1, &handle)
		return 0, err
	}
	return handle, nil
}

func (r *OpenGLRenderer) IndexBufferBind(handle uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, handle)
}

func (r *OpenGLRenderer) IndexBufferDestroy(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}

func (r *OpenGLRenderer) VertexArrayCreate() (uint32, error) {
	var handle uint32
	gl.GenVertexArrays(1, &handle)
	if handle == 0 {
		return 0, fmt.Errorf("GenVertexArrays returned no name: %w", core.ErrInvalidResource)
	}
	return handle, nil
}

func (r *OpenGLRenderer) VertexArrayAddVertexBuffer(handle, vertexBuffer uint32, layout *metadata.BufferLayout, firstAttribute uint32) error {
	gl.BindVertexArray(handle)
	gl.BindBuffer(gl.ARRAY_BUFFER, vertexBuffer)
	for _, a := range layout.Attributes(firstAttribute) {
		gl.EnableVertexAttribArray(a.Index)
		if a.Integer {
			gl.VertexAttribIPointer(a.Index, a.Components, gl.INT, int32(a.Stride), gl.PtrOffset(int(a.Offset)))
			continue
		}
		gl.VertexAttribPointerWithOffset(a.Index, a.Components, gl.FLOAT, a.Normalized, int32(a.Stride), uintptr(a.Offset))
	}
	return checkError("VertexAttribPointer")
}

func (r *OpenGLRenderer) VertexArraySetIndexBuffer(handle, indexBuffer uint32) {
	gl.BindVertexArray(handle)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indexBuffer)
}

func (r *OpenGLRenderer) VertexArrayBind(handle uint32) {
	gl.BindVertexArray(handle)
}

func (r *OpenGLRenderer) VertexArrayDestroy(handle uint32) {
	gl.DeleteVertexArrays(1, &handle)
}

func (r *OpenGLRenderer) UniformBufferCreate(size uint32, bindingPoint uint32) (uint32, error) {
	if r.maxUniformBindings > 0 && bindingPoint >= r.maxUniformBindings {
		return 0, fmt.Errorf("binding point %d exceeds the %d available: %w", bindingPoint, r.maxUniformBindings, core.ErrOutOfRange)
	}
	var handle uint32
	gl.GenBuffers(1, &handle)
	gl.BindBuffer(gl.UNIFORM_BUFFER, handle)
	gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
	gl.BindBufferRange(gl.UNIFORM_BUFFER, bindingPoint, handle, 0, int(size))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	if err := checkError("BindBufferRange"); err != nil {
		gl.DeleteBuffers(1, &handle)
		return 0, err
	}
	return handle, nil
}

func (r *OpenGLRenderer) UniformBufferWrite(handle uint32, offset uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, handle)
	gl.BufferSubData(gl.UNIFORM_BUFFER, int(offset), len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return checkError("BufferSubData")
}

func (r *OpenGLRenderer) UniformBufferDestroy(handle uint32) {
	gl.DeleteBuffers(1, &handle)
}
