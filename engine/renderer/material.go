package renderer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
)

type MaterialFlag uint32

const (
	/** @brief The material carries its own texture. */
	MaterialFlagHasTexture MaterialFlag = 1 << 0
	/** @brief The material carries its own tint. */
	MaterialFlagHasTint MaterialFlag = 1 << 1
)

/**
 * @brief A shader with an optional texture and tint. Whatever the flags do
 * not mark falls back to the defaults of the renderer drawing the material.
 */
type Material struct {
	/** @brief Unique identifier, only used to tell materials apart in logs. */
	ID      uuid.UUID
	shader  *Shader
	texture *Texture
	tint    math.Vec4
	flags   MaterialFlag
}

func NewMaterial(shader *Shader) *Material {
	return &Material{
		ID:     uuid.New(),
		shader: shader.Acquire(),
	}
}

func NewTexturedMaterial(shader *Shader, texture *Texture) *Material {
	m := NewMaterial(shader)
	m.SetTexture(texture)
	return m
}

func NewTintedMaterial(shader *Shader, tint math.Vec4) *Material {
	m := NewMaterial(shader)
	m.SetTint(tint)
	return m
}

func NewTexturedTintedMaterial(shader *Shader, texture *Texture, tint math.Vec4) *Material {
	m := NewMaterial(shader)
	m.SetTexture(texture)
	m.SetTint(tint)
	return m
}

// NewMaterialFromConfig builds the shader, the optional texture and the material described
// by a material file. The material becomes the only holder of both.
func (c *Context) NewMaterialFromConfig(cfg *assets.MaterialConfig) (*Material, error) {
	shader, err := c.NewShaderFromFile(cfg.Shader)
	if err != nil {
		return nil, fmt.Errorf("material '%s': %w", cfg.Name, err)
	}
	defer shader.Release()

	m := NewMaterial(shader)
	if cfg.HasTexture() {
		texture, err := c.NewTextureFromFile(cfg.Texture)
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("material '%s': %w", cfg.Name, err)
		}
		m.SetTexture(texture)
		texture.Release()
	}
	if cfg.HasTint() {
		m.SetTint(cfg.TintColour())
	}
	core.LogDebug("material '%s' created with id %s", cfg.Name, m.ID)
	return m, nil
}

func (m *Material) IsFlagSet(flag MaterialFlag) bool {
	return m.flags&flag == flag
}

func (m *Material) Flags() MaterialFlag {
	return m.flags
}

func (m *Material) Shader() *Shader {
	return m.shader
}

func (m *Material) Texture() *Texture {
	return m.texture
}

func (m *Material) Tint() math.Vec4 {
	return m.tint
}

// SetShader swaps the shader. There is no flag for the shader, it is always present.
func (m *Material) SetShader(shader *Shader) {
	shader.Acquire()
	if m.shader != nil {
		m.shader.Release()
	}
	m.shader = shader
}

func (m *Material) SetTexture(texture *Texture) {
	texture.Acquire()
	if m.texture != nil {
		m.texture.Release()
	}
	m.texture = texture
	m.flags |= MaterialFlagHasTexture
}

func (m *Material) SetTint(tint math.Vec4) {
	m.tint = tint
	m.flags |= MaterialFlagHasTint
}

// Release lets go of the shader and texture.
func (m *Material) Release() {
	if m.shader != nil {
		m.shader.Release()
		m.shader = nil
	}
	if m.texture != nil {
		m.texture.Release()
		m.texture = nil
	}
}
