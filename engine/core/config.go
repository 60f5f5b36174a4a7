package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LoggingConfig struct {
	Level string `toml:"level"`
}

type RendererConfig struct {
	/** @brief The backend name: none, opengl, direct3d, vulkan or headless. */
	Backend string `toml:"backend"`
}

type Renderer2DConfig struct {
	/** @brief Path to the region-marked shader used for quads and text. */
	Shader string `toml:"shader"`
	/** @brief Path to the font file. Empty selects the built-in Go Regular face. */
	Font string `toml:"font"`
	/** @brief Either "truetype" or "bmfont". */
	FontKind string `toml:"font_kind"`
	/** @brief The pixel size the font is rasterized at. */
	FontSize uint32 `toml:"font_size"`
	/** @brief The glyph staging buffer width in pixels. */
	GlyphBufferWidth uint32 `toml:"glyph_buffer_width"`
	/** @brief The glyph staging buffer height in pixels. */
	GlyphBufferHeight uint32 `toml:"glyph_buffer_height"`
}

type WindowConfig struct {
	Title   string `toml:"title"`
	Width   uint32 `toml:"width"`
	Height  uint32 `toml:"height"`
	Visible bool   `toml:"visible"`
}

type AssetsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
	/** @brief Number of background workers decoding asset files. */
	Workers uint32 `toml:"workers"`
}

// Config is the top level configuration document, normally read from a TOML file.
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Renderer   RendererConfig   `toml:"renderer"`
	Renderer2D Renderer2DConfig `toml:"renderer2d"`
	Window     WindowConfig     `toml:"window"`
	Assets     AssetsConfig     `toml:"assets"`
}

const (
	FontKindTrueType string = "truetype"
	FontKindBitmap   string = "bmfont"
)

var backendNames = map[string]bool{
	"none":     true,
	"opengl":   true,
	"direct3d": true,
	"vulkan":   true,
	"headless": true,
}

func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Renderer: RendererConfig{
			Backend: "headless",
		},
		Renderer2D: Renderer2DConfig{
			Shader:            "assets/shaders/renderer2d.glsl",
			FontKind:          FontKindTrueType,
			FontSize:          24,
			GlyphBufferWidth:  256,
			GlyphBufferHeight: 256,
		},
		Window: WindowConfig{
			Title:   "lumen",
			Width:   1280,
			Height:  720,
			Visible: true,
		},
		Assets: AssetsConfig{
			Dir:     "assets",
			Workers: 4,
		},
	}
}

// LoadConfig reads and validates the TOML file at path. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		LogError("could not open config file: %s", path)
		return nil, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !backendNames[c.Renderer.Backend] {
		return fmt.Errorf("unknown renderer backend '%s'", c.Renderer.Backend)
	}
	if c.Renderer2D.FontKind != FontKindTrueType && c.Renderer2D.FontKind != FontKindBitmap {
		return fmt.Errorf("unknown font kind '%s'", c.Renderer2D.FontKind)
	}
	if c.Renderer2D.FontSize == 0 {
		return fmt.Errorf("renderer2d.font_size must be > 0")
	}
	if c.Renderer2D.GlyphBufferWidth == 0 || c.Renderer2D.GlyphBufferHeight == 0 {
		return fmt.Errorf("renderer2d glyph buffer dimensions must be > 0")
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window dimensions must be > 0")
	}
	if c.Assets.Workers == 0 {
		return fmt.Errorf("assets.workers must be > 0")
	}
	return nil
}
