package renderer

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/headless"
	"github.com/spaghettifunk/lumen/engine/renderer/opengl"
)

type RendererType uint8

const (
	None RendererType = iota
	OpenGL
	Direct3D
	Vulkan
	// Headless keeps every resource in memory, no GPU is involved.
	Headless
)

var rendererTypeNames = map[RendererType]string{
	None:     "none",
	OpenGL:   "opengl",
	Direct3D: "direct3d",
	Vulkan:   "vulkan",
	Headless: "headless",
}

func (t RendererType) String() string {
	if name, ok := rendererTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RendererType(%d)", uint8(t))
}

// ParseRendererType maps a configuration name such as "opengl" to its RendererType.
func ParseRendererType(name string) (RendererType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range rendererTypeNames {
		if n == name {
			return t, nil
		}
	}
	return None, fmt.Errorf("unknown renderer backend '%s'", name)
}

/**
 * @brief Context owns the state every resource and scene renderer of one
 * rendering setup shares: the selected backend, the uniform buffer binding
 * point counter and the per-frame statistics. Create one at startup and pass
 * it to everything that talks to the GPU.
 */
type Context struct {
	api           RendererType
	backend       RendererBackend
	bindingPoints core.Sequence

	/** @brief Counters for the work issued since the last EndFrame. */
	Stats core.FrameStats
}

// NewContext builds and initializes the backend for api. Direct3D, Vulkan and None have no
// backend and fail with ErrUnsupportedBackend.
func NewContext(api RendererType) (*Context, error) {
	var backend RendererBackend
	switch api {
	case OpenGL:
		backend = opengl.New()
	case Headless:
		backend = headless.New()
	default:
		core.LogError("renderer backend '%s' is not supported", api)
		return nil, fmt.Errorf("%s: %w", api, core.ErrUnsupportedBackend)
	}
	return NewContextWithBackend(api, backend)
}

// NewContextWithBackend initializes an already constructed backend.
func NewContextWithBackend(api RendererType, backend RendererBackend) (*Context, error) {
	if backend == nil {
		core.LogError("renderer backend '%s' is nil", api)
		return nil, fmt.Errorf("%s: %w", api, core.ErrUnsupportedBackend)
	}
	if err := backend.Initialize(); err != nil {
		core.LogError("failed to initialize the '%s' renderer backend: %s", api, err)
		return nil, err
	}
	return &Context{
		api:     api,
		backend: backend,
	}, nil
}

func (c *Context) API() RendererType {
	return c.api
}

func (c *Context) Backend() RendererBackend {
	return c.backend
}

// BeginFrame clears the colour and depth attachments.
func (c *Context) BeginFrame(clearColour math.Vec4) {
	c.backend.Clear(clearColour)
}

// EndFrame returns the statistics of the frame that just ended and starts counting anew.
func (c *Context) EndFrame() core.FrameStats {
	stats := c.Stats
	c.Stats.Reset()
	return stats
}

func (c *Context) Shutdown() error {
	return c.backend.Shutdown()
}

// reserveBindingPoint hands out a uniform buffer binding point that no other buffer created
// through this context will ever receive.
func (c *Context) reserveBindingPoint() uint32 {
	return c.bindingPoints.Next()
}
