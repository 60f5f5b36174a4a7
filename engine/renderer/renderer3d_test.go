package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/headless"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

func newTestGeometry(t *testing.T, ctx *Context, indices []uint32) *VertexArray {
	t.Helper()
	layout := metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat2, false),
	)
	vb, err := ctx.NewVertexBuffer(nil, layout.Stride()*4, layout)
	require.NoError(t, err)
	ib, err := ctx.NewIndexBuffer(indices)
	require.NoError(t, err)
	va, err := ctx.NewVertexArray()
	require.NoError(t, err)
	require.NoError(t, va.AddVertexBuffer(vb))
	va.SetIndexBuffer(ib)
	return va
}

func newTestRenderer3D(t *testing.T) (*Renderer3D, *Context, *headless.Backend) {
	t.Helper()
	ctx, backend := newTestContext(t)
	r := NewRenderer3D(ctx)
	require.NoError(t, r.Init())
	return r, ctx, backend
}

func TestRenderer3DLayouts(t *testing.T) {
	camera := NewCameraLayout()
	assert.Equal(t, uint32(128), camera.Stride())

	lights := NewLightsLayout()
	offsets := map[string]uint32{}
	for _, e := range lights.Elements() {
		offsets[e.Name] = e.Offset
	}
	assert.Equal(t, map[string]uint32{
		UniformLightPosition: 0,
		UniformViewPosition:  16,
		UniformLightColour:   32,
		UniformLightTint:     48,
	}, offsets)
	assert.Equal(t, uint32(64), lights.Stride())
}

func TestRenderer3DSubmitOrder(t *testing.T) {
	r, ctx, backend := newTestRenderer3D(t)
	shader := newTestShader(t, ctx)
	tex, err := ctx.NewTexture(1, 1, 4, []uint8{1, 2, 3, 4})
	require.NoError(t, err)
	material := NewTexturedTintedMaterial(shader, tex, math.NewVec4(0, 1, 0, 1))
	geometry := newTestGeometry(t, ctx, []uint32{0, 1, 2, 2, 3, 0})
	backend.ResetCommands()
	ctx.EndFrame()

	model := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	require.NoError(t, r.Submit(geometry, material, model))

	commands := backend.Commands()
	assert.Equal(t, []headless.Op{
		headless.OpShaderUse,
		headless.OpSetUniform,
		headless.OpTextureBind,
		headless.OpSetUniform,
		headless.OpSetUniform,
		headless.OpVertexArrayBind,
		headless.OpIndexBufferBind,
		headless.OpDrawIndexed,
	}, headless.Ops(commands))

	uniforms := headless.Filter(commands, headless.OpSetUniform)
	assert.Equal(t, UniformModel, uniforms[0].Name)
	assert.Equal(t, model, uniforms[0].Value)
	assert.Equal(t, UniformTextureUnit, uniforms[1].Name)
	assert.Equal(t, int32(0), uniforms[1].Value)
	assert.Equal(t, UniformTint, uniforms[2].Name)
	assert.Equal(t, math.NewVec4(0, 1, 0, 1), uniforms[2].Value)

	assert.Equal(t, tex.Handle(), backend.BoundTexture(0))
	draw := commands[len(commands)-1]
	assert.Equal(t, metadata.PrimitiveTopologyTriangles, draw.Value)
	assert.Equal(t, uint32(6), draw.Count)
	assert.Equal(t, geometry.Handle(), draw.Handle)

	assert.Equal(t, uint32(1), ctx.Stats.DrawCalls)
	assert.Equal(t, uint64(6), ctx.Stats.IndicesDrawn)
}

func TestRenderer3DFallsBackToDefaults(t *testing.T) {
	r, ctx, backend := newTestRenderer3D(t)
	shader := newTestShader(t, ctx)
	material := NewMaterial(shader)
	geometry := newTestGeometry(t, ctx, []uint32{0, 1, 2})

	require.NoError(t, r.Submit(geometry, material, math.NewMat4Identity()))
	assert.Equal(t, r.DefaultTexture().Handle(), backend.BoundTexture(0))
	tint, ok := backend.Uniform(shader.Handle(), UniformTint)
	require.True(t, ok)
	assert.Equal(t, math.NewVec4One(), tint)
	assert.Equal(t, math.NewVec4One(), r.DefaultTint())

	pixels, w, h, ch, ok := backend.TexturePixels(r.DefaultTexture().Handle())
	require.True(t, ok)
	assert.Equal(t, []uint8{55, 0, 155, 255}, pixels)
	assert.Equal(t, [3]uint32{1, 1, 4}, [3]uint32{w, h, ch})
}

func TestRenderer3DSubmitWithoutIndexBufferDrawsNothing(t *testing.T) {
	r, ctx, backend := newTestRenderer3D(t)
	material := NewMaterial(newTestShader(t, ctx))
	va, err := ctx.NewVertexArray()
	require.NoError(t, err)

	require.NoError(t, r.Submit(va, material, math.NewMat4Identity()))
	draws := headless.Filter(backend.Commands(), headless.OpDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(0), draws[0].Count)
	assert.Empty(t, headless.Filter(backend.Commands(), headless.OpIndexBufferBind))
}

func TestRenderer3DUploadCamera(t *testing.T) {
	r, ctx, backend := newTestRenderer3D(t)
	shader := newTestShader(t, ctx)
	view := math.NewMat4Translation(math.NewVec3(0, 0, -5))
	projection := math.NewMat4Perspective(math.DegToRad(45), 16.0/9.0, 0.1, 100)

	require.NoError(t, r.UploadCamera(shader, view, projection))
	creates := headless.Filter(backend.Commands(), headless.OpUniformBufferCreate)
	require.Len(t, creates, 1)
	first := creates[0].Handle

	data, point, ok := backend.UniformBufferData(first)
	require.True(t, ok)
	assert.Equal(t, view.Bytes(), data[:64])
	assert.Equal(t, projection.Bytes(), data[64:128])
	bound, ok := backend.UniformBlockBinding(shader.Handle(), CameraBlockName)
	require.True(t, ok)
	assert.Equal(t, point, bound)

	// every upload replaces the buffer at the same binding point
	require.NoError(t, r.UploadCamera(shader, view, projection))
	creates = headless.Filter(backend.Commands(), headless.OpUniformBufferCreate)
	require.Len(t, creates, 2)
	assert.Equal(t, point, creates[1].Count)
	assert.False(t, backend.HasUniformBuffer(first))
	assert.True(t, backend.HasUniformBuffer(creates[1].Handle))
}

func TestRenderer3DUploadLights(t *testing.T) {
	r, ctx, backend := newTestRenderer3D(t)
	shader := newTestShader(t, ctx)
	lightPos, viewPos, colour := math.NewVec3(1, 2, 3), math.NewVec3(4, 5, 6), math.NewVec3(1, 1, 1)
	tint := math.NewVec4(0.5, 0.5, 0.5, 1)

	require.NoError(t, r.UploadLights(shader, lightPos, viewPos, colour, tint))
	creates := headless.Filter(backend.Commands(), headless.OpUniformBufferCreate)
	require.Len(t, creates, 1)
	data, _, ok := backend.UniformBufferData(creates[0].Handle)
	require.True(t, ok)
	require.Len(t, data, 64)
	assert.Equal(t, lightPos.Bytes(), data[0:12])
	assert.Equal(t, viewPos.Bytes(), data[16:28])
	assert.Equal(t, colour.Bytes(), data[32:44])
	assert.Equal(t, tint.Bytes(), data[48:64])

	cameraPoint := r.cameraBindingPoint
	assert.NotEqual(t, cameraPoint, creates[0].Count)
}

func TestRenderer3DSceneState(t *testing.T) {
	r, _, backend := newTestRenderer3D(t)
	r.BeginScene()
	assert.True(t, backend.DepthTest())
	assert.False(t, backend.Blending())
	r.EndScene()

	handle := r.DefaultTexture().Handle()
	r.Shutdown()
	assert.False(t, backend.HasTexture(handle))
}

func TestRenderer3DBeforeInit(t *testing.T) {
	ctx, _ := newTestContext(t)
	r := NewRenderer3D(ctx)
	err := r.Submit(nil, NewMaterial(newTestShader(t, ctx)), math.NewMat4Identity())
	assert.ErrorIs(t, err, core.ErrInvalidResource)
}
