package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const (
	CameraBlockName = "b_camera"
	LightsBlockName = "b_lights"

	UniformModel          = "u_model"
	UniformView           = "u_view"
	UniformProjection     = "u_projection"
	UniformTextureUnit    = "u_texData"
	UniformTint           = "u_tint"
	UniformLightPosition  = "u_lightPos"
	UniformViewPosition   = "u_viewPos"
	UniformLightColour    = "u_lightColour"
	UniformLightTint      = "u_lightTint"
	defaultTextureUnit    = 0
	defaultTextureSize    = 1
	defaultTextureChannel = metadata.TextureChannelsRGBA
)

// NewCameraLayout describes the b_camera block: the view and projection matrices.
func NewCameraLayout() *metadata.UniformBufferLayout {
	return metadata.NewUniformBufferLayout(
		metadata.NewUniformElement(UniformView, metadata.ShaderDataTypeMat4),
		metadata.NewUniformElement(UniformProjection, metadata.ShaderDataTypeMat4),
	)
}

// NewLightsLayout describes the b_lights block of a single point light.
func NewLightsLayout() *metadata.UniformBufferLayout {
	return metadata.NewUniformBufferLayout(
		metadata.NewUniformElement(UniformLightPosition, metadata.ShaderDataTypeFloat3),
		metadata.NewUniformElement(UniformViewPosition, metadata.ShaderDataTypeFloat3),
		metadata.NewUniformElement(UniformLightColour, metadata.ShaderDataTypeFloat3),
		metadata.NewUniformElement(UniformLightTint, metadata.ShaderDataTypeFloat4),
	)
}

/**
 * @brief Renderer3D draws geometry with materials. Per scene it uploads a
 * camera block and a lights block, per submission it binds the material and
 * issues one indexed triangle draw.
 */
type Renderer3D struct {
	ctx *Context

	defaultTexture *Texture
	defaultTint    math.Vec4

	cameraLayout       *metadata.UniformBufferLayout
	lightsLayout       *metadata.UniformBufferLayout
	cameraBindingPoint uint32
	lightsBindingPoint uint32
	cameraUBO          *UniformBuffer
	lightsUBO          *UniformBuffer
}

func NewRenderer3D(ctx *Context) *Renderer3D {
	return &Renderer3D{ctx: ctx}
}

// Init creates the fallback texture and tint and reserves the binding points of both blocks.
func (r *Renderer3D) Init() error {
	pixel := []uint8{55, 0, 155, 255}
	texture, err := r.ctx.NewTexture(defaultTextureSize, defaultTextureSize, defaultTextureChannel, pixel)
	if err != nil {
		core.LogError("Renderer3D: could not create the default texture")
		return err
	}
	r.defaultTexture = texture
	r.defaultTint = math.NewVec4One()
	r.cameraLayout = NewCameraLayout()
	r.lightsLayout = NewLightsLayout()
	r.cameraBindingPoint = r.ctx.reserveBindingPoint()
	r.lightsBindingPoint = r.ctx.reserveBindingPoint()
	core.LogDebug("Renderer3D initialized, camera block at %d, lights block at %d", r.cameraBindingPoint, r.lightsBindingPoint)
	return nil
}

// UploadCamera replaces the camera block with a fresh buffer, attaches it to shader and
// fills it. Every shader reading b_camera needs its own call.
func (r *Renderer3D) UploadCamera(shader *Shader, view, projection math.Mat4) error {
	ubo, err := r.ctx.newUniformBufferAt(r.cameraLayout, r.cameraBindingPoint)
	if err != nil {
		return err
	}
	if r.cameraUBO != nil {
		r.cameraUBO.Destroy()
	}
	r.cameraUBO = ubo

	if err := ubo.AttachShaderBlock(shader, CameraBlockName); err != nil {
		return err
	}
	if err := ubo.UploadData(UniformView, view.Bytes()); err != nil {
		return err
	}
	return ubo.UploadData(UniformProjection, projection.Bytes())
}

// UploadLights replaces the lights block with a fresh buffer, attaches it to shader and fills it.
func (r *Renderer3D) UploadLights(shader *Shader, lightPosition, viewPosition, lightColour math.Vec3, tint math.Vec4) error {
	ubo, err := r.ctx.newUniformBufferAt(r.lightsLayout, r.lightsBindingPoint)
	if err != nil {
		return err
	}
	if r.lightsUBO != nil {
		r.lightsUBO.Destroy()
	}
	r.lightsUBO = ubo

	if err := ubo.AttachShaderBlock(shader, LightsBlockName); err != nil {
		return err
	}
	uploads := []struct {
		name string
		data []byte
	}{
		{UniformLightPosition, lightPosition.Bytes()},
		{UniformViewPosition, viewPosition.Bytes()},
		{UniformLightColour, lightColour.Bytes()},
		{UniformLightTint, tint.Bytes()},
	}
	for _, u := range uploads {
		if err := ubo.UploadData(u.name, u.data); err != nil {
			return err
		}
	}
	return nil
}

// BeginScene turns depth testing on and blending off.
func (r *Renderer3D) BeginScene() {
	r.ctx.backend.SetDepthTest(true)
	r.ctx.backend.SetBlending(false)
}

// Submit draws geometry with material. The binding order is fixed: program, model matrix,
// texture, texture unit, tint, vertex array and index buffer, draw.
func (r *Renderer3D) Submit(geometry *VertexArray, material *Material, model math.Mat4) error {
	if r.defaultTexture == nil {
		return fmt.Errorf("Renderer3D used before Init: %w", core.ErrInvalidResource)
	}
	shader := material.Shader()
	if shader == nil {
		return fmt.Errorf("material %s has no shader: %w", material.ID, core.ErrInvalidResource)
	}
	shader.Use()
	if err := shader.UploadMat4(UniformModel, model); err != nil {
		return err
	}

	if material.IsFlagSet(MaterialFlagHasTexture) {
		material.Texture().Bind(defaultTextureUnit)
	} else {
		r.defaultTexture.Bind(defaultTextureUnit)
	}
	if err := shader.UploadInt(UniformTextureUnit, defaultTextureUnit); err != nil {
		return err
	}

	tint := r.defaultTint
	if material.IsFlagSet(MaterialFlagHasTint) {
		tint = material.Tint()
	}
	if err := shader.UploadFloat4(UniformTint, tint); err != nil {
		return err
	}

	geometry.bind()
	count := geometry.DrawCount()
	r.ctx.backend.DrawIndexed(metadata.PrimitiveTopologyTriangles, count)
	r.ctx.Stats.RecordDraw(count)
	return nil
}

func (r *Renderer3D) EndScene() {}

func (r *Renderer3D) DefaultTexture() *Texture {
	return r.defaultTexture
}

func (r *Renderer3D) DefaultTint() math.Vec4 {
	return r.defaultTint
}

func (r *Renderer3D) Shutdown() {
	if r.cameraUBO != nil {
		r.cameraUBO.Destroy()
		r.cameraUBO = nil
	}
	if r.lightsUBO != nil {
		r.lightsUBO.Destroy()
		r.lightsUBO = nil
	}
	if r.defaultTexture != nil {
		r.defaultTexture.Release()
		r.defaultTexture = nil
	}
}
