package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type uniformRange struct {
	offset uint32
	size   uint32
}

/**
 * @brief A block of GPU memory laid out by a UniformBufferLayout and
 * attached to a binding point. Fields are written by name through a cache of
 * their offset and size.
 */
type UniformBuffer struct {
	ctx          *Context
	handle       uint32
	bindingPoint uint32
	layout       *metadata.UniformBufferLayout
	cache        map[string]uniformRange
}

// NewUniformBuffer allocates a block the size of the layout at the next free binding point.
func (c *Context) NewUniformBuffer(layout *metadata.UniformBufferLayout) (*UniformBuffer, error) {
	return c.newUniformBufferAt(layout, c.reserveBindingPoint())
}

func (c *Context) newUniformBufferAt(layout *metadata.UniformBufferLayout, bindingPoint uint32) (*UniformBuffer, error) {
	if layout == nil {
		return nil, fmt.Errorf("uniform buffer without a layout: %w", core.ErrInvalidResource)
	}
	handle, err := c.backend.UniformBufferCreate(layout.Stride(), bindingPoint)
	if err != nil {
		core.LogError("failed to create uniform buffer at binding point %d: %s", bindingPoint, err)
		return nil, err
	}
	ub := &UniformBuffer{
		ctx:          c,
		handle:       handle,
		bindingPoint: bindingPoint,
		layout:       layout,
		cache:        make(map[string]uniformRange, layout.Len()),
	}
	for _, e := range layout.Elements() {
		ub.cache[e.Name] = uniformRange{offset: e.Offset, size: e.Size}
	}
	return ub, nil
}

// AttachShaderBlock points the shader's uniform block named blockName at this buffer.
// Every shader reading the block needs its own call.
func (ub *UniformBuffer) AttachShaderBlock(shader *Shader, blockName string) error {
	if shader == nil || shader.handle == 0 {
		return fmt.Errorf("attach '%s': %w", blockName, core.ErrInvalidResource)
	}
	if err := ub.ctx.backend.ShaderBindUniformBlock(shader.handle, blockName, ub.bindingPoint); err != nil {
		core.LogWarn("could not attach block '%s' of shader '%s' to binding point %d: %s", blockName, shader.name, ub.bindingPoint, err)
		return err
	}
	return nil
}

// UploadData writes the first size bytes of data into the field called name.
func (ub *UniformBuffer) UploadData(name string, data []byte) error {
	r, ok := ub.cache[name]
	if !ok {
		core.LogError("uniform '%s' is not part of the block at binding point %d", name, ub.bindingPoint)
		return fmt.Errorf("'%s': %w", name, core.ErrUnknownUniform)
	}
	if uint32(len(data)) < r.size {
		return fmt.Errorf("'%s' needs %d bytes, got %d: %w", name, r.size, len(data), core.ErrDataTooShort)
	}
	if err := ub.ctx.backend.UniformBufferWrite(ub.handle, r.offset, data[:r.size]); err != nil {
		core.LogError("failed to upload '%s': %s", name, err)
		return err
	}
	ub.ctx.Stats.UniformUploads++
	return nil
}

// Range returns the byte offset and size of a field.
func (ub *UniformBuffer) Range(name string) (offset, size uint32, ok bool) {
	r, ok := ub.cache[name]
	return r.offset, r.size, ok
}

func (ub *UniformBuffer) BindingPoint() uint32 {
	return ub.bindingPoint
}

func (ub *UniformBuffer) Layout() *metadata.UniformBufferLayout {
	return ub.layout
}

func (ub *UniformBuffer) Handle() uint32 {
	return ub.handle
}

func (ub *UniformBuffer) Destroy() {
	if ub.handle == 0 {
		return
	}
	ub.ctx.backend.UniformBufferDestroy(ub.handle)
	ub.handle = 0
}
