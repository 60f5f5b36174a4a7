package assets

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
)

/**
 * @brief A material definition as stored on disk.
 *
 * name = "crate"
 * shader = "assets/shaders/phong.glsl"
 * texture = "assets/textures/crate.png"
 * tint = [1.0, 0.8, 0.8, 1.0]
 */
type MaterialConfig struct {
	/** @brief The material Name, used in logs. */
	Name string `toml:"name"`
	/** @brief Path of the region-marked shader source. */
	Shader string `toml:"shader"`
	/** @brief Optional path of the diffuse texture. */
	Texture string `toml:"texture"`
	/** @brief Optional RGBA tint, every component in [0, 1]. */
	Tint []float32 `toml:"tint"`
}

func LoadMaterialConfig(path string) (*MaterialConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("could not open material file: %s", path)
		return nil, err
	}
	cfg, err := ParseMaterialConfig(data)
	if err != nil {
		core.LogError("invalid material file %s: %s", path, err)
		return nil, err
	}
	return cfg, nil
}

func ParseMaterialConfig(data []byte) (*MaterialConfig, error) {
	cfg := &MaterialConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse material: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (m *MaterialConfig) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("material name cannot be empty")
	}
	if m.Shader == "" {
		return fmt.Errorf("material '%s' has no shader", m.Name)
	}
	if len(m.Tint) != 0 && len(m.Tint) != 4 {
		return fmt.Errorf("material '%s': invalid tint, expected 4 values, got %d", m.Name, len(m.Tint))
	}
	for _, c := range m.Tint {
		if c < 0 || c > 1 {
			return fmt.Errorf("material '%s': tint component %f outside [0, 1]", m.Name, c)
		}
	}
	return nil
}

func (m *MaterialConfig) HasTexture() bool {
	return m.Texture != ""
}

func (m *MaterialConfig) HasTint() bool {
	return len(m.Tint) == 4
}

// TintColour returns the tint, or opaque white when none is set.
func (m *MaterialConfig) TintColour() math.Vec4 {
	if !m.HasTint() {
		return math.NewVec4One()
	}
	return math.NewVec4(m.Tint[0], m.Tint[1], m.Tint[2], m.Tint[3])
}
