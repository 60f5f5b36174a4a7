package renderer

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const (
	Renderer2DBlockName = "b_uniforms"

	glyphChannels     = metadata.TextureChannelsRGBA
	glyphInitialValue = 60
)

// NewRenderer2DLayout describes the b_uniforms block: the view and projection matrices.
func NewRenderer2DLayout() *metadata.UniformBufferLayout {
	return metadata.NewUniformBufferLayout(
		metadata.NewUniformElement(UniformView, metadata.ShaderDataTypeMat4),
		metadata.NewUniformElement(UniformProjection, metadata.ShaderDataTypeMat4),
	)
}

/**
 * @brief Renderer2D draws textured, tinted and rotated quads, and text by
 * rasterizing one glyph at a time into a staging texture that is drawn as a
 * quad. Text submission is strictly sequential: every glyph overwrites the
 * staging texture used by the previous one.
 */
type Renderer2D struct {
	ctx *Context
	cfg core.Renderer2DConfig

	shader         *Shader
	quad           *VertexArray
	defaultTexture *Texture
	defaultTint    math.Vec4
	defaultAngle   float32

	rasterizer   assets.GlyphRasterizer
	fontTexture  *Texture
	glyphWidth   uint32
	glyphHeight  uint32
	layout       *metadata.UniformBufferLayout
	bindingPoint uint32
	ubo          *UniformBuffer
}

func NewRenderer2D(ctx *Context, cfg core.Renderer2DConfig) *Renderer2D {
	return &Renderer2D{ctx: ctx, cfg: cfg}
}

// Init loads the shader and the font named by the configuration and builds the renderer.
func (r *Renderer2D) Init() error {
	shader, err := r.ctx.NewShaderFromFile(r.cfg.Shader)
	if err != nil {
		core.LogError("Renderer2D: could not build shader %s", r.cfg.Shader)
		return err
	}
	rasterizer, err := loadRasterizer(r.cfg)
	if err != nil {
		shader.Release()
		core.LogError("Renderer2D: could not load font '%s'", r.cfg.Font)
		return err
	}
	err = r.InitWith(shader, rasterizer)
	shader.Release()
	return err
}

func loadRasterizer(cfg core.Renderer2DConfig) (assets.GlyphRasterizer, error) {
	switch cfg.FontKind {
	case core.FontKindBitmap:
		return assets.LoadBitmapFontRasterizer(cfg.Font)
	default:
		return assets.LoadTrueTypeRasterizer(cfg.Font, cfg.FontSize)
	}
}

// InitWith builds the renderer around an existing shader and rasterizer. The renderer
// acquires the shader and takes ownership of the rasterizer.
func (r *Renderer2D) InitWith(shader *Shader, rasterizer assets.GlyphRasterizer) error {
	r.shader = shader.Acquire()
	r.rasterizer = rasterizer
	r.defaultTint = math.NewVec4One()
	r.defaultAngle = 0
	r.glyphWidth = r.cfg.GlyphBufferWidth
	r.glyphHeight = r.cfg.GlyphBufferHeight

	texture, err := r.ctx.NewTexture(defaultTextureSize, defaultTextureSize, defaultTextureChannel, []uint8{255, 255, 255, 255})
	if err != nil {
		return err
	}
	r.defaultTexture = texture

	if err := r.buildQuad(); err != nil {
		return err
	}

	r.fontTexture, err = r.ctx.NewTexture(r.glyphWidth, r.glyphHeight, glyphChannels, nil)
	if err != nil {
		return err
	}
	initial := make([]uint8, r.glyphBufferSize())
	for i := range initial {
		initial[i] = glyphInitialValue
	}
	if err := r.fontTexture.Edit(r.glyphRegion(), glyphChannels, initial); err != nil {
		return err
	}

	r.layout = NewRenderer2DLayout()
	r.bindingPoint = r.ctx.reserveBindingPoint()
	core.LogDebug("Renderer2D initialized, %dx%d glyph buffer, block at %d", r.glyphWidth, r.glyphHeight, r.bindingPoint)
	return nil
}

func (r *Renderer2D) buildQuad() error {
	vertices := math.Float32Bytes(
		-0.5, -0.5, 0, 0,
		-0.5, 0.5, 0, 1,
		0.5, 0.5, 1, 1,
		0.5, -0.5, 1, 0,
	)
	layout := metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat2, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat2, false),
	)
	vb, err := r.ctx.NewVertexBuffer(vertices, uint32(len(vertices)), layout)
	if err != nil {
		return err
	}
	ib, err := r.ctx.NewIndexBuffer([]uint32{0, 1, 2, 3})
	if err != nil {
		vb.Destroy()
		return err
	}
	va, err := r.ctx.NewVertexArray()
	if err != nil {
		vb.Destroy()
		ib.Destroy()
		return err
	}
	if err := va.AddVertexBuffer(vb); err != nil {
		va.Destroy()
		vb.Destroy()
		ib.Destroy()
		return err
	}
	va.SetIndexBuffer(ib)
	r.quad = va
	return nil
}

func (r *Renderer2D) glyphBufferSize() uint32 {
	return r.glyphWidth * r.glyphHeight * glyphChannels
}

func (r *Renderer2D) glyphRegion() metadata.TextureRegion {
	return metadata.TextureRegion{Width: r.glyphWidth, Height: r.glyphHeight}
}

// UploadData replaces the b_uniforms block, attaches it to the 2D shader and fills it.
func (r *Renderer2D) UploadData(view, projection math.Mat4) error {
	ubo, err := r.ctx.newUniformBufferAt(r.layout, r.bindingPoint)
	if err != nil {
		return err
	}
	if r.ubo != nil {
		r.ubo.Destroy()
	}
	r.ubo = ubo
	if err := ubo.AttachShaderBlock(r.shader, Renderer2DBlockName); err != nil {
		return err
	}
	if err := ubo.UploadData(UniformView, view.Bytes()); err != nil {
		return err
	}
	return ubo.UploadData(UniformProjection, projection.Bytes())
}

// BeginScene turns depth testing off and alpha blending on or off.
func (r *Renderer2D) BeginScene(blend bool) {
	r.ctx.backend.SetDepthTest(false)
	r.ctx.backend.SetBlending(blend)
}

// SubmitQuad draws q with the default texture, tint and angle unless overridden by opts.
func (r *Renderer2D) SubmitQuad(q Quad, opts ...QuadOption) error {
	if r.quad == nil {
		return fmt.Errorf("Renderer2D used before Init: %w", core.ErrInvalidResource)
	}
	o := quadOptions{
		texture: r.defaultTexture,
		angle:   r.defaultAngle,
	}
	for _, opt := range opts {
		opt(&o)
	}
	tint := r.defaultTint
	if o.tint != nil {
		tint = *o.tint
	}
	if o.texture == nil {
		o.texture = r.defaultTexture
	}

	r.shader.Use()
	o.texture.Bind(defaultTextureUnit)
	if err := r.shader.UploadMat4(UniformModel, q.Model(o.angle)); err != nil {
		return err
	}
	if err := r.shader.UploadInt(UniformTextureUnit, defaultTextureUnit); err != nil {
		return err
	}
	if err := r.shader.UploadFloat4(UniformTint, tint); err != nil {
		return err
	}

	r.quad.bind()
	count := r.quad.DrawCount()
	r.ctx.backend.DrawIndexed(metadata.PrimitiveTopologyTriangleFan, count)
	r.ctx.Stats.RecordDraw(count)
	return nil
}

// SubmitChar draws one character with its pen at position and returns how far the pen
// advances, in whole pixels.
func (r *Renderer2D) SubmitChar(ch rune, position math.Vec2, tint math.Vec4) (float32, error) {
	return r.submitChar(ch, position, tint, make([]uint8, r.glyphBufferSize()))
}

func (r *Renderer2D) submitChar(ch rune, position math.Vec2, tint math.Vec4, scratch []uint8) (float32, error) {
	if r.rasterizer == nil {
		return 0, fmt.Errorf("Renderer2D used before Init: %w", core.ErrInvalidResource)
	}
	glyph, err := r.rasterizer.Rasterize(ch)
	if err != nil {
		core.LogError("Renderer2D: could not load char '%c': %s", ch, err)
		return 0, err
	}
	advance := float32(glyph.Advance >> 6)

	halfExtents := r.fontTexture.Size().MulScalar(0.5)
	bearing := math.NewVec2(float32(glyph.Left), float32(-glyph.Top))
	centre := position.Add(bearing).Add(halfExtents)

	expandGlyph(scratch, glyph, r.glyphWidth, r.glyphHeight)
	if err := r.fontTexture.Edit(r.glyphRegion(), glyphChannels, scratch); err != nil {
		return advance, err
	}
	if err := r.SubmitQuad(NewQuad(centre, halfExtents), WithTexture(r.fontTexture), WithTint(tint)); err != nil {
		return advance, err
	}
	r.ctx.Stats.GlyphsSubmitted++
	return advance, nil
}

// SubmitText draws str left to right starting at position on the baseline. Characters that
// cannot be rasterized are skipped without moving the pen and reported together.
func (r *Renderer2D) SubmitText(str string, position math.Vec2, tint math.Vec4) error {
	scratch := make([]uint8, r.glyphBufferSize())
	pen := position
	var errs []error
	for _, ch := range str {
		advance, err := r.submitChar(ch, pen, tint, scratch)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pen.X += advance
	}
	return errors.Join(errs...)
}

// expandGlyph writes the glyph into the top-left corner of an RGBA staging buffer of
// width x height pixels: white colour, coverage as alpha, everything else cleared.
func expandGlyph(dst []uint8, glyph *assets.Glyph, width, height uint32) {
	for i := range dst {
		dst[i] = 0
	}
	w := math.Clamp(glyph.Width, 0, width)
	h := math.Clamp(glyph.Height, 0, height)
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			p := (y*width + x) * glyphChannels
			dst[p] = 255
			dst[p+1] = 255
			dst[p+2] = 255
			dst[p+3] = glyph.Coverage[y*glyph.Width+x]
		}
	}
}

func (r *Renderer2D) EndScene() {}

func (r *Renderer2D) Shader() *Shader {
	return r.shader
}

func (r *Renderer2D) DefaultTexture() *Texture {
	return r.defaultTexture
}

func (r *Renderer2D) FontTexture() *Texture {
	return r.fontTexture
}

func (r *Renderer2D) Shutdown() {
	if r.ubo != nil {
		r.ubo.Destroy()
		r.ubo = nil
	}
	if r.quad != nil {
		r.quad.Destroy()
		r.quad = nil
	}
	for _, t := range []*Texture{r.defaultTexture, r.fontTexture} {
		if t != nil {
			t.Release()
		}
	}
	r.defaultTexture, r.fontTexture = nil, nil
	if r.shader != nil {
		r.shader.Release()
		r.shader = nil
	}
	if r.rasterizer != nil {
		if err := r.rasterizer.Close(); err != nil {
			core.LogWarn("Renderer2D: closing the font failed: %s", err)
		}
		r.rasterizer = nil
	}
}
