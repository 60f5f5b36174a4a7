package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/headless"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

func TestVertexBufferEdit(t *testing.T) {
	ctx, backend := newTestContext(t)
	layout := metadata.NewBufferLayout(metadata.NewBufferElement(metadata.ShaderDataTypeFloat, false))
	vb, err := ctx.NewVertexBuffer([]byte{1, 2}, 8, layout)
	require.NoError(t, err)
	assert.Same(t, layout, vb.Layout())
	assert.Equal(t, uint32(8), vb.Size())

	data, ok := backend.VertexBufferData(vb.Handle())
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0, 0, 0}, data)

	require.NoError(t, vb.Edit([]byte{9, 9}, 6))
	data, _ = backend.VertexBufferData(vb.Handle())
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0, 9, 9}, data)

	assert.ErrorIs(t, vb.Edit([]byte{1, 2, 3}, 6), core.ErrOutOfRange)
	assert.Equal(t, uint32(2), ctx.Stats.BufferUploads)

	_, err = ctx.NewVertexBuffer(nil, 4, nil)
	assert.ErrorIs(t, err, core.ErrInvalidResource)
}

func TestVertexArrayAssignsConsecutiveAttributes(t *testing.T) {
	ctx, backend := newTestContext(t)
	va, err := ctx.NewVertexArray()
	require.NoError(t, err)

	first, err := ctx.NewVertexBuffer(nil, 32, metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat2, false),
	))
	require.NoError(t, err)
	instances, err := ctx.NewVertexBuffer(nil, 64, metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeMat4, false),
	))
	require.NoError(t, err)

	require.NoError(t, va.AddVertexBuffer(first))
	require.NoError(t, va.AddVertexBuffer(instances))
	assert.Equal(t, 6, backend.VertexArrayAttributeCount(va.Handle()))

	adds := headless.Filter(backend.Commands(), headless.OpVertexArrayAddBuffer)
	require.Len(t, adds, 2)
	assert.Equal(t, first.Handle(), adds[0].Count)
	assert.Len(t, va.VertexBuffers(), 2)
}

func TestVertexArrayDrawCount(t *testing.T) {
	ctx, backend := newTestContext(t)
	va, err := ctx.NewVertexArray()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), va.DrawCount())
	assert.Nil(t, va.IndexBuffer())

	ib, err := ctx.NewIndexBuffer([]uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)
	va.SetIndexBuffer(ib)
	assert.Equal(t, uint32(6), va.DrawCount())

	bound, ok := backend.VertexArrayIndexBuffer(va.Handle())
	require.True(t, ok)
	assert.Equal(t, ib.Handle(), bound)
}

func TestVertexArrayDestroyReleasesBuffers(t *testing.T) {
	ctx, backend := newTestContext(t)
	va, err := ctx.NewVertexArray()
	require.NoError(t, err)
	vb, err := ctx.NewVertexBuffer(nil, 12, metadata.NewBufferLayout(metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false)))
	require.NoError(t, err)
	ib, err := ctx.NewIndexBuffer([]uint32{0})
	require.NoError(t, err)
	require.NoError(t, va.AddVertexBuffer(vb))
	va.SetIndexBuffer(ib)

	vbHandle := vb.Handle()
	va.Destroy()
	_, ok := backend.VertexBufferData(vbHandle)
	assert.False(t, ok)
	assert.Equal(t, uint32(0), vb.Handle())
	assert.Equal(t, uint32(0), ib.Handle())
	assert.Equal(t, uint32(0), va.DrawCount())
}
