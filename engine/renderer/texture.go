package renderer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/jobs"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * @brief A 2D texture in GPU memory. Textures are shared between materials,
 * sub-textures and renderers through Acquire and Release, the GPU object is
 * destroyed when the last holder releases it.
 */
type Texture struct {
	ctx    *Context
	handle uint32
	spec   metadata.TextureSpec
	name   string
	refs   atomic.Int32
}

// NewTexture creates a width x height texture. A nil data slice allocates it uninitialised.
func (c *Context) NewTexture(width, height, channels uint32, data []uint8) (*Texture, error) {
	return c.newTexture(fmt.Sprintf("texture_%dx%d", width, height), metadata.TextureSpec{
		Width:    width,
		Height:   height,
		Channels: channels,
	}, data)
}

// NewTextureFromFile decodes an image file and uploads it.
func (c *Context) NewTextureFromFile(path string) (*Texture, error) {
	img, err := assets.LoadImage(path, false)
	if err != nil {
		return nil, err
	}
	return c.newTexture(path, metadata.TextureSpec{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
	}, img.Pixels)
}

// NewTexturesFromFiles decodes the files in parallel on js and uploads them in order on the
// calling thread. Either every texture is created or none is.
func (c *Context) NewTexturesFromFiles(js *jobs.JobSystem, paths ...string) ([]*Texture, error) {
	images, err := assets.LoadImages(js, paths, false)
	if err != nil {
		return nil, err
	}
	textures := make([]*Texture, 0, len(images))
	for i, img := range images {
		t, err := c.newTexture(paths[i], metadata.TextureSpec{
			Width:    img.Width,
			Height:   img.Height,
			Channels: img.Channels,
		}, img.Pixels)
		if err != nil {
			for _, created := range textures {
				created.Release()
			}
			return nil, errors.Join(fmt.Errorf("uploading %s", paths[i]), err)
		}
		textures = append(textures, t)
	}
	return textures, nil
}

func (c *Context) newTexture(name string, spec metadata.TextureSpec, data []uint8) (*Texture, error) {
	if !metadata.ValidChannels(spec.Channels) {
		core.LogError("texture '%s' has %d channels, expected 1, 3 or 4", name, spec.Channels)
		return nil, fmt.Errorf("'%s': %w", name, core.ErrUnsupportedChannels)
	}
	handle, err := c.backend.TextureCreate(spec, data)
	if err != nil {
		core.LogError("failed to create texture '%s': %s", name, err)
		return nil, err
	}
	t := &Texture{
		ctx:    c,
		handle: handle,
		spec:   spec,
		name:   name,
	}
	t.refs.Store(1)
	return t, nil
}

// Edit overwrites a pixel region. The data must carry the texture's own channel count,
// anything else is logged and leaves the texture untouched.
func (t *Texture) Edit(region metadata.TextureRegion, channels uint32, data []uint8) error {
	if t.handle == 0 {
		return fmt.Errorf("'%s': %w", t.name, core.ErrInvalidResource)
	}
	if data == nil || channels != t.spec.Channels {
		core.LogError("texture '%s' edit rejected: got %d channels, texture has %d", t.name, channels, t.spec.Channels)
		return fmt.Errorf("'%s' has %d channels, got %d: %w", t.name, t.spec.Channels, channels, core.ErrChannelMismatch)
	}
	if err := t.ctx.backend.TextureWriteData(t.handle, region, data); err != nil {
		core.LogError("failed to edit texture '%s': %s", t.name, err)
		return err
	}
	t.ctx.Stats.TextureEdits++
	return nil
}

func (t *Texture) Bind(unit uint32) {
	t.ctx.backend.TextureBind(t.handle, unit)
}

// Size returns width and height in pixels.
func (t *Texture) Size() math.Vec2 {
	return math.NewVec2(float32(t.spec.Width), float32(t.spec.Height))
}

func (t *Texture) Width() uint32 {
	return t.spec.Width
}

func (t *Texture) Height() uint32 {
	return t.spec.Height
}

func (t *Texture) Channels() uint32 {
	return t.spec.Channels
}

func (t *Texture) Name() string {
	return t.name
}

func (t *Texture) Handle() uint32 {
	return t.handle
}

// Acquire registers one more holder and returns t for chaining.
func (t *Texture) Acquire() *Texture {
	t.refs.Add(1)
	return t
}

// Release drops one holder and destroys the GPU texture when none is left.
func (t *Texture) Release() {
	switch n := t.refs.Add(-1); {
	case n == 0:
		t.ctx.backend.TextureDestroy(t.handle)
		t.handle = 0
	case n < 0:
		core.LogWarn("texture '%s' released more times than acquired", t.name)
		t.refs.Store(0)
	}
}

func (t *Texture) References() int32 {
	return t.refs.Load()
}

/**
 * @brief A UV rectangle inside a shared texture, typically one cell of an
 * atlas. The pixel size is computed once at construction and does not
 * follow later changes of the texture.
 */
type SubTexture struct {
	texture *Texture
	uvStart math.Vec2
	uvEnd   math.Vec2
	size    math.Vec2
}

func NewSubTexture(texture *Texture, uvStart, uvEnd math.Vec2) *SubTexture {
	return &SubTexture{
		texture: texture.Acquire(),
		uvStart: uvStart,
		uvEnd:   uvEnd,
		size:    uvEnd.Sub(uvStart).Mul(texture.Size()),
	}
}

// TransformUV maps a coordinate local to the sub-texture, in [0,1]x[0,1], into atlas UV space.
func (st *SubTexture) TransformUV(u, v float32) math.Vec2 {
	return st.uvStart.Add(st.uvEnd.Sub(st.uvStart).Mul(math.NewVec2(u, v)))
}

func (st *SubTexture) UVStart() math.Vec2 {
	return st.uvStart
}

func (st *SubTexture) UVEnd() math.Vec2 {
	return st.uvEnd
}

// Size is the pixel size of the rectangle as it was when the sub-texture was created.
func (st *SubTexture) Size() math.Vec2 {
	return st.size
}

func (st *SubTexture) Texture() *Texture {
	return st.texture
}

// Release lets go of the underlying texture.
func (st *SubTexture) Release() {
	if st.texture != nil {
		st.texture.Release()
		st.texture = nil
	}
}
