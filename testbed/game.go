package testbed

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/assets"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/components"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const crateMaterial = "assets/materials/crate.toml"

type TestGame struct {
	*engine.Game
}

type gameState struct {
	engine   *engine.Engine
	camera   *components.Camera
	cube     *renderer.VertexArray
	material *renderer.Material

	width  uint32
	height uint32
	angle  float32
}

func NewTestGame() *TestGame {
	state := &gameState{}
	tg := &TestGame{
		Game: &engine.Game{State: state},
	}
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown
	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(e *engine.Engine) error {
	core.LogInfo("initializing testbed...")
	s := g.state()
	s.engine = e
	s.width, s.height = e.GetFramebufferSize()
	s.camera = components.NewCamera(math.NewVec3(0, 1.5, 4), math.NewVec3Zero(), float32(s.width)/float32(s.height))

	cube, err := newCube(e.Context)
	if err != nil {
		core.LogError("failed to build the cube geometry")
		return err
	}
	s.cube = cube

	cfg, err := assets.LoadMaterialConfig(crateMaterial)
	if err != nil {
		return err
	}
	material, err := e.Context.NewMaterialFromConfig(cfg)
	if err != nil {
		return err
	}
	s.material = material
	e.TrackShader(material.Shader())
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.angle += float32(deltaTime) * 45
	s.camera.Orbit(float32(deltaTime) * 0.25)
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	s := g.state()
	r3d := s.engine.Renderer3D
	shader := s.material.Shader()

	r3d.BeginScene()
	if err := r3d.UploadCamera(shader, s.camera.View(), s.camera.Projection()); err != nil {
		return err
	}
	if err := r3d.UploadLights(shader, math.NewVec3(2, 3, 2), s.camera.Position, math.NewVec3One(), math.NewVec4One()); err != nil {
		return err
	}
	model := math.NewMat4EulerZ(math.DegToRad(s.angle))
	if err := r3d.Submit(s.cube, s.material, model); err != nil {
		return err
	}
	r3d.EndScene()

	r2d := s.engine.Renderer2D
	view := math.NewMat4Identity()
	projection := math.NewMat4Orthographic(0, float32(s.width), float32(s.height), 0, -1, 1)
	r2d.BeginScene(true)
	if err := r2d.UploadData(view, projection); err != nil {
		return err
	}
	panel := renderer.NewQuad(math.NewVec2(160, 40), math.NewVec2(150, 24))
	if err := r2d.SubmitQuad(panel, renderer.WithTint(math.NewVec4(0, 0, 0, 0.6))); err != nil {
		return err
	}
	var fps float64
	if ft := s.engine.AverageFrameTime(); ft > 0 {
		fps = 1 / ft
	}
	text := fmt.Sprintf("lumen %.0f fps", fps)
	if err := r2d.SubmitText(text, math.NewVec2(20, 50), math.NewVec4(1, 0.9, 0.4, 1)); err != nil {
		core.LogWarn("some characters could not be drawn: %s", err)
	}
	r2d.EndScene()
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	s := g.state()
	s.width, s.height = width, height
	if s.camera != nil {
		s.camera.SetAspect(width, height)
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	s := g.state()
	if s.material != nil {
		s.material.Release()
	}
	if s.cube != nil {
		s.cube.Destroy()
	}
	return nil
}

// newCube builds a unit cube with positions, normals and texture coordinates, four
// vertices per face.
func newCube(ctx *renderer.Context) (*renderer.VertexArray, error) {
	type face struct {
		normal, u, v math.Vec3
	}
	faces := []face{
		{math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 0, -1), math.NewVec3(-1, 0, 0), math.NewVec3(0, 1, 0)},
		{math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1), math.NewVec3(0, 1, 0)},
		{math.NewVec3(-1, 0, 0), math.NewVec3(0, 0, 1), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1)},
		{math.NewVec3(0, -1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, 1)},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]float32, 0, len(faces)*4*8)
	indices := make([]uint32, 0, len(faces)*6)
	for i, f := range faces {
		centre := f.normal.MulScalar(0.5)
		for _, c := range corners {
			p := centre.Add(f.u.MulScalar(c[0] * 0.5)).Add(f.v.MulScalar(c[1] * 0.5))
			vertices = append(vertices,
				p.X, p.Y, p.Z,
				f.normal.X, f.normal.Y, f.normal.Z,
				(c[0]+1)*0.5, (c[1]+1)*0.5,
			)
		}
		base := uint32(i * 4)
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	layout := metadata.NewBufferLayout(
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat3, false),
		metadata.NewBufferElement(metadata.ShaderDataTypeFloat2, false),
	)
	data := math.Float32Bytes(vertices...)
	vb, err := ctx.NewVertexBuffer(data, uint32(len(data)), layout)
	if err != nil {
		return nil, err
	}
	ib, err := ctx.NewIndexBuffer(indices)
	if err != nil {
		vb.Destroy()
		return nil, err
	}
	va, err := ctx.NewVertexArray()
	if err != nil {
		vb.Destroy()
		ib.Destroy()
		return nil, err
	}
	if err := va.AddVertexBuffer(vb); err != nil {
		va.Destroy()
		vb.Destroy()
		ib.Destroy()
		return nil, err
	}
	va.SetIndexBuffer(ib)
	return va, nil
}
