package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
)

const testShader = `#region Vertex
void main() {}
#region Fragment
void main() {}
`

type recorder struct {
	initialized int
	updates     int
	renders     int
	resizes     [][2]uint32
	shutdowns   int
}

func testConfig(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "renderer2d.glsl")
	require.NoError(t, os.WriteFile(path, []byte(testShader), 0o644))
	cfg := core.DefaultConfig()
	cfg.Renderer2D.Shader = path
	cfg.Assets.Dir = dir
	return cfg
}

func testGame(r *recorder) *Game {
	return &Game{
		FnInitialize: func(e *Engine) error {
			r.initialized++
			return nil
		},
		FnUpdate: func(float64) error {
			r.updates++
			return nil
		},
		FnRender: func(float64) error {
			r.renders++
			return nil
		},
		FnOnResize: func(w, h uint32) error {
			r.resizes = append(r.resizes, [2]uint32{w, h})
			return nil
		},
		FnShutdown: func() error {
			r.shutdowns++
			return nil
		},
	}
}

func TestNewRequiresRender(t *testing.T) {
	_, err := New(core.DefaultConfig(), &Game{})
	assert.Error(t, err)
	_, err = New(core.DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestEngineLifecycle(t *testing.T) {
	r := &recorder{}
	e, err := New(testConfig(t), testGame(r))
	require.NoError(t, err)
	assert.Error(t, e.Run(1), "running before Initialize fails")

	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.currentStage)
	assert.Equal(t, 1, r.initialized)
	assert.Equal(t, [][2]uint32{{1280, 720}}, r.resizes, "the game learns the initial size")
	assert.Equal(t, renderer.Headless, e.Context.API())
	require.NotNil(t, e.Jobs)
	assert.Equal(t, 4, e.Jobs.Workers())

	require.NoError(t, e.Run(3))
	assert.Equal(t, 3, r.updates)
	assert.Equal(t, 3, r.renders)
	assert.Equal(t, 3, e.frameTimes.Len())
	assert.GreaterOrEqual(t, e.AverageFrameTime(), float64(0))

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 1, r.shutdowns)
	assert.Equal(t, EngineStageUninitialized, e.currentStage)
}

func TestEngineStop(t *testing.T) {
	r := &recorder{}
	g := testGame(r)
	var e *Engine
	g.FnUpdate = func(float64) error {
		r.updates++
		if r.updates == 2 {
			e.Stop()
		}
		return nil
	}
	e, err := New(testConfig(t), g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	require.NoError(t, e.Run(0))
	assert.Equal(t, 2, r.renders, "the frame in progress still renders")
}

func TestEngineRenderError(t *testing.T) {
	boom := errors.New("boom")
	g := testGame(&recorder{})
	g.FnRender = func(float64) error { return boom }
	e, err := New(testConfig(t), g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	assert.ErrorIs(t, e.Run(5), boom)
}

func TestEngineRendersThroughBothRenderers(t *testing.T) {
	g := testGame(&recorder{})
	var e *Engine
	var glyphErr error
	g.FnRender = func(float64) error {
		r2d := e.Renderer2D
		r2d.BeginScene(true)
		if err := r2d.UploadData(math.NewMat4Identity(), math.NewMat4Orthographic(0, 1280, 720, 0, -1, 1)); err != nil {
			return err
		}
		if err := r2d.SubmitQuad(renderer.NewQuad(math.NewVec2(10, 10), math.NewVec2(5, 5))); err != nil {
			return err
		}
		glyphErr = r2d.SubmitText("ok", math.NewVec2(20, 40), math.NewVec4One())
		return nil
	}
	e, err := New(testConfig(t), g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	require.NoError(t, e.Run(1))
	assert.NoError(t, glyphErr)
	assert.Equal(t, uint64(1), e.Context.Stats.Frames)
}

func TestEngineRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Renderer.Backend = "metal"
	e, err := New(cfg, testGame(&recorder{}))
	require.NoError(t, err)
	assert.Error(t, e.Initialize())
}
