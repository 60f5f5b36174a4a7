package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/containers"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/jobs"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/platform"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var clearColour = math.NewVec4(0.1, 0.1, 0.12, 1)

// number of recent frames averaged by AverageFrameTime
const frameTimeWindow = 60

/**
 * @brief Engine wires the configured backend, a window when the backend
 * needs one, both scene renderers and the optional asset watcher, then
 * drives the game callbacks once per frame.
 */
type Engine struct {
	currentStage Stage
	config       *core.Config
	gameInstance *Game
	isRunning    atomic.Bool

	platform *platform.Platform
	watcher  *assets.Watcher
	shaders  []*renderer.Shader
	width    uint32
	height   uint32
	lastTime time.Time

	frameTimes *containers.RingQueue[float64]

	Context    *renderer.Context
	Renderer3D *renderer.Renderer3D
	Renderer2D *renderer.Renderer2D
	// Jobs decodes asset files in the background, see Context.NewTexturesFromFiles.
	Jobs *jobs.JobSystem
}

func New(cfg *core.Config, g *Game) (*Engine, error) {
	if g == nil || g.FnRender == nil {
		return nil, fmt.Errorf("game must provide a render function")
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		gameInstance: g,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
		frameTimes:   containers.NewRingQueue[float64](frameTimeWindow),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := core.SetLogLevel(e.config.Logging.Level); err != nil {
		core.LogWarn("unknown log level '%s', keeping the default", e.config.Logging.Level)
	}

	api, err := renderer.ParseRendererType(e.config.Renderer.Backend)
	if err != nil {
		return err
	}
	if api == renderer.OpenGL {
		e.platform = platform.New()
		if err := e.platform.Startup(e.config.Window); err != nil {
			return err
		}
		w, h := e.platform.FramebufferSize()
		e.width, e.height = uint32(w), uint32(h)
	}

	ctx, err := renderer.NewContext(api)
	if err != nil {
		return err
	}
	e.Context = ctx

	e.Renderer3D = renderer.NewRenderer3D(ctx)
	if err := e.Renderer3D.Init(); err != nil {
		return err
	}
	e.Renderer2D = renderer.NewRenderer2D(ctx, e.config.Renderer2D)
	if err := e.Renderer2D.Init(); err != nil {
		return err
	}

	js, err := jobs.NewJobSystem(int(e.config.Assets.Workers), 0)
	if err != nil {
		return err
	}
	e.Jobs = js

	if e.config.Assets.Watch {
		w, err := assets.NewWatcher()
		if err != nil {
			core.LogError("failed to start the asset watcher: %s", err)
			return err
		}
		if err := w.Watch(e.config.Assets.Dir); err != nil {
			w.Close()
			return err
		}
		e.watcher = w
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			core.LogError("game failed to initialize")
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with the %s backend", api)
	return nil
}

// TrackShader registers a shader to be reloaded when its source files change on disk.
func (e *Engine) TrackShader(s *renderer.Shader) {
	e.shaders = append(e.shaders, s)
}

// Run renders frames until Stop is called, the window closes, or maxFrames frames are done
// when maxFrames is not zero.
func (e *Engine) Run(maxFrames uint64) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	e.lastTime = time.Now()

	var frames uint64
	var total core.FrameStats
	for e.isRunning.Load() {
		if e.platform != nil {
			e.platform.PumpMessages()
			if e.platform.ShouldClose() {
				break
			}
			if err := e.checkResize(); err != nil {
				return err
			}
		}
		if e.watcher != nil {
			shaders := append([]*renderer.Shader{e.Renderer2D.Shader()}, e.shaders...)
			if n := renderer.ReloadChanged(e.watcher, shaders...); n > 0 {
				core.LogInfo("%d shader(s) reloaded", n)
			}
		}

		now := time.Now()
		delta := now.Sub(e.lastTime).Seconds()
		e.lastTime = now
		e.frameTimes.Push(delta)

		e.Context.BeginFrame(clearColour)
		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down")
				return err
			}
		}
		if err := e.gameInstance.FnRender(delta); err != nil {
			core.LogError("game render failed, shutting down")
			return err
		}
		stats := e.Context.EndFrame()
		if e.platform != nil {
			e.platform.SwapBuffers()
		}

		total.DrawCalls += stats.DrawCalls
		total.IndicesDrawn += stats.IndicesDrawn
		total.GlyphsSubmitted += stats.GlyphsSubmitted
		core.LogDebug("frame %d: %d draws, %d indices, %d uniform uploads, %d glyphs",
			stats.Frames, stats.DrawCalls, stats.IndicesDrawn, stats.UniformUploads, stats.GlyphsSubmitted)

		frames++
		if maxFrames > 0 && frames >= maxFrames {
			break
		}
	}
	core.LogInfo("rendered %d frames: %d draws, %d indices, %d glyphs", frames, total.DrawCalls, total.IndicesDrawn, total.GlyphsSubmitted)
	e.isRunning.Store(false)
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) checkResize() error {
	w, h := e.platform.FramebufferSize()
	if uint32(w) == e.width && uint32(h) == e.height {
		return nil
	}
	e.width, e.height = uint32(w), uint32(h)
	if e.gameInstance.FnOnResize != nil {
		return e.gameInstance.FnOnResize(e.width, e.height)
	}
	return nil
}

// Stop asks a running loop to return after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogWarn("game shutdown failed: %s", err)
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn("failed to close the asset watcher: %s", err)
		}
	}
	if e.Jobs != nil {
		if err := e.Jobs.Shutdown(); err != nil {
			core.LogWarn("failed to stop the job system: %s", err)
		}
	}
	if e.Renderer2D != nil {
		e.Renderer2D.Shutdown()
	}
	if e.Renderer3D != nil {
		e.Renderer3D.Shutdown()
	}
	if e.Context != nil {
		if err := e.Context.Shutdown(); err != nil {
			return err
		}
	}
	if e.platform != nil {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// AverageFrameTime returns the mean duration in seconds of the most recent frames, zero
// before the first frame.
func (e *Engine) AverageFrameTime() float64 {
	if e.frameTimes.IsEmpty() {
		return 0
	}
	var sum float64
	e.frameTimes.Each(func(d float64) { sum += d })
	return sum / float64(e.frameTimes.Len())
}

// GetFramebufferSize returns the width and height (in this order) of the drawable area.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}
