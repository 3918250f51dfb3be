package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/config"
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/resource"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	width, height int
	captured      bool
	closed        bool
	keyDown       func(uint32)
	keyUp         func(uint32)
}

func (w *fakeWindow) SetUpdateCallback(func())                                {}
func (w *fakeWindow) SetResizeCallback(func(int, int))                        {}
func (w *fakeWindow) ProcessMessages()                                        {}
func (w *fakeWindow) RequestClose()                                           { w.closed = true }
func (w *fakeWindow) SetKeyDownCallback(cb func(uint32))                      { w.keyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(uint32))                        { w.keyUp = cb }
func (w *fakeWindow) SetMouseButtonDownCallback(func(button int, x, y int32)) {}
func (w *fakeWindow) SetMouseButtonUpCallback(func(button int, x, y int32))   {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32))                   {}
func (w *fakeWindow) SetScrollCallback(func(delta float32))                   {}
func (w *fakeWindow) Width() int                                              { return w.width }
func (w *fakeWindow) Height() int                                             { return w.height }
func (w *fakeWindow) SetCursorCaptured(captured bool)                         { w.captured = captured }

type fakeRenderer struct {
	pipelines  map[string]pipeline.Pipeline
	draws      map[string]int
	clearColor mgl32.Vec4
}

func (r *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (r *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (r *fakeRenderer) InitCubeTextureView(bind_group_provider.BindGroupProvider, int, common.CubeTextureStagingData) error {
	return nil
}

func (r *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (r *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (r *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (r *fakeRenderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.pipelines[p.PipelineKey()] = p
	return nil
}

func (r *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	return r.pipelines[key]
}

func (r *fakeRenderer) DrawCall(key string, _ bind_group_provider.BindGroupProvider, _ []bind_group_provider.BindGroupProvider) error {
	r.draws[key]++
	return nil
}

func (r *fakeRenderer) Resize(int, int)                {}
func (r *fakeRenderer) BeginFrame() error              { return nil }
func (r *fakeRenderer) EndFrame()                      {}
func (r *fakeRenderer) Present()                       {}
func (r *fakeRenderer) SetClearColor(color mgl32.Vec4) { r.clearColor = color }

// testConfig uses generated hills and leaves out every file the defaults point at.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Terrain.Heightmap = ""
	cfg.Render.SkyboxDay = ""
	cfg.Render.SkyboxNight = ""
	cfg.Assets.VehicleModel = ""
	return cfg
}

func newTestGame(t *testing.T, cfg config.Config) (*game, *fakeWindow, *fakeRenderer) {
	t.Helper()
	w := &fakeWindow{width: 1600, height: 900}
	r := &fakeRenderer{pipelines: map[string]pipeline.Pipeline{}, draws: map[string]int{}}
	g, err := newGame(cfg, logger.Nop(), w, r)
	require.NoError(t, err)
	t.Cleanup(g.release)
	return g, w, r
}

// frame runs the callbacks in the order the engine does.
func frame(g *game, dt float32) {
	g.tick(dt)
	g.scene.Update(dt)
	g.lateTick(dt)
	g.input.EndFrame()
}

// press taps key for one frame.
func press(g *game, key int) {
	g.input.KeyDown(key)
	frame(g, 1.0/60)
	g.input.KeyUp(key)
	frame(g, 1.0/60)
}

func writeTriangleOBJ(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))
	return path
}

func TestCameraMode_String(t *testing.T) {
	assert.Equal(t, "chase", cameraChase.String())
	assert.Equal(t, "free", cameraFree.String())
	assert.Equal(t, "overview", cameraOverview.String())
	assert.Equal(t, "cameraMode(7)", cameraMode(7).String())
}

func TestRollingHills(t *testing.T) {
	img := rollingHills(5)
	require.Equal(t, 5, img.Width)
	require.Len(t, img.Pixels, 5*5*4)

	r, g, b, a := img.At(2, 2)
	assert.Equal(t, uint8(12), r, "flat center")
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
	assert.Equal(t, uint8(255), a)

	peak, _, _, _ := img.At(1, 1)
	assert.Equal(t, uint8(17), peak)
}

func TestSkyboxPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "right.jpg"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.png"), nil, 0o644))

	paths := skyboxPaths(dir)
	assert.Equal(t, filepath.Join(dir, "right.jpg"), paths[0])
	assert.Equal(t, filepath.Join(dir, "left.png"), paths[1], "missing faces default to png")
	assert.Equal(t, filepath.Join(dir, "top.png"), paths[2])
	assert.Equal(t, filepath.Join(dir, "back.png"), paths[5])
}

func TestAssets_Fallbacks(t *testing.T) {
	a := newAssets(logger.Nop())

	img, err := a.heightmap(filepath.Join(t.TempDir(), "missing.png"))
	require.NoError(t, err)
	assert.Equal(t, hillsSize, img.Width)

	m, err := a.model(filepath.Join(t.TempDir(), "missing.obj"))
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = a.cubemap(t.TempDir())
	require.Error(t, err)
	assert.Len(t, a.skyboxOptions(config.Render{SkyboxDay: t.TempDir()}), 1, "only the logger option")
}

func TestNewGame_BuildsTrack(t *testing.T) {
	g, _, r := newTestGame(t, testConfig())

	ground, ok := g.terrain.HeightAt(0, 0)
	require.True(t, ok)
	assert.InDelta(t, ground+spawnHeight, g.car.Position().Y(), 1e-4)
	assert.Equal(t, 1, g.world.NumRigidBodies())

	assert.Equal(t, 1, g.scene.Lights().PointCount())
	assert.Equal(t, 2, g.scene.Lights().SpotCount(), "beacon and headlight")
	assert.Same(t, g.cameras[cameraChase], g.scene.Camera())

	for _, cam := range g.cameras {
		assert.InDelta(t, 1600.0/900, cam.Aspect(), 1e-5)
	}
	overview := g.cameras[cameraOverview]
	toCar := g.spawn.Sub(overview.Position()).Normalize()
	assert.InDelta(t, 1, overview.Forward().Dot(toCar), 1e-4, "overview looks at the spawn point")

	g.scene.Draw()
	assert.Equal(t, 6, r.draws[game_object.DefaultPipelineKey], "terrain, body and four wheels")
}

func TestNewGame_LoadsModels(t *testing.T) {
	dir := t.TempDir()
	car := writeTriangleOBJ(t, dir, "car.obj")
	cone := writeTriangleOBJ(t, dir, "cone.obj")

	cfg := testConfig()
	cfg.Assets.VehicleModel = car
	cfg.Assets.Props = []config.Prop{
		{Model: cone, Position: [3]float32{4, 0, 4}, Scale: 2},
		{Model: cone, Position: [3]float32{-4, 0, 4}},
		{Model: filepath.Join(dir, "missing.obj")},
	}
	g, _, r := newTestGame(t, cfg)

	body, err := resource.Get[model.Model](g.assets.registry, "model:"+car)
	require.NoError(t, err)
	assert.Same(t, body, g.car.Model())
	_, err = resource.Get[model.Model](g.assets.registry, "model:"+cone)
	require.NoError(t, err)

	g.scene.Draw()
	assert.Equal(t, 8, r.draws[game_object.DefaultPipelineKey], "two props share the cone")
}

func TestGame_Steering(t *testing.T) {
	g, _, _ := newTestGame(t, testConfig())

	g.input.KeyDown(common.KeyLeft)
	frame(g, 0.1)
	assert.InDelta(t, 0.15, g.steering, 1e-5)
	frame(g, 0.1)
	frame(g, 0.1)
	assert.InDelta(t, 0.3, g.steering, 1e-5, "clamped")

	g.input.KeyUp(common.KeyLeft)
	g.input.KeyDown(common.KeyD)
	frame(g, 0.4)
	assert.InDelta(t, -0.3, g.steering, 1e-5)
	g.input.KeyUp(common.KeyD)

	g.setCameraMode(cameraFree)
	g.input.KeyDown(common.KeyA)
	frame(g, 0.4)
	assert.InDelta(t, 0, g.steering, 1e-5, "WASD flies the free camera")
}

func TestGame_Drives(t *testing.T) {
	g, _, _ := newTestGame(t, testConfig())
	for range 60 {
		frame(g, 1.0/60)
	}
	start := g.car.Position()

	g.input.KeyDown(common.KeyUp)
	for range 120 {
		frame(g, 1.0/60)
	}
	moved := g.car.Position().Sub(start)
	assert.Greater(t, moved.Z(), float32(2), "drives forward along +Z")
	assert.True(t, g.racing.HasTarget())
	assert.Greater(t, g.car.Position().Sub(g.cameras[cameraChase].Position()).Dot(g.car.Controller().Forward()), float32(0),
		"the chase camera trails the car")
}

func TestGame_Controls(t *testing.T) {
	g, w, _ := newTestGame(t, testConfig())

	w.keyDown(common.KeyC)
	frame(g, 1.0/60)
	w.keyUp(common.KeyC)
	frame(g, 1.0/60)
	assert.Equal(t, cameraFree, g.mode)
	assert.Same(t, g.cameras[cameraFree], g.scene.Camera())

	press(g, common.KeyP)
	assert.Equal(t, camera.ProjectionOrthographic, g.cameras[cameraFree].ProjectionType())
	assert.Equal(t, camera.ProjectionPerspective, g.cameras[cameraChase].ProjectionType())

	press(g, common.KeyC)
	press(g, common.KeyC)
	assert.Equal(t, cameraChase, g.mode)

	fog := g.scene.Fog().Enabled
	press(g, common.KeyF)
	assert.Equal(t, !fog, g.scene.Fog().Enabled)

	press(g, common.KeyTab)
	assert.True(t, w.captured)

	g.input.KeyDown(common.KeyN)
	frame(g, 0.5)
	g.input.KeyUp(common.KeyN)
	assert.InDelta(t, 0.25, g.scene.Skybox().BlendFactor(), 1e-5)

	press(g, common.KeyEsc)
	assert.True(t, w.closed)
	select {
	case <-g.engine.Done():
	default:
		t.Fatal("escape did not quit")
	}
}

func TestGame_Resize(t *testing.T) {
	g, _, _ := newTestGame(t, testConfig())
	g.resize(800, 400)
	for _, cam := range g.cameras {
		assert.InDelta(t, 2, cam.Aspect(), 1e-5)
	}
	g.resize(0, 400)
	assert.InDelta(t, 2, g.cameras[cameraOverview].Aspect(), 1e-5)
}

func TestGame_AppliesReloadedConfig(t *testing.T) {
	g, _, r := newTestGame(t, testConfig())
	updates := make(chan config.Config, 1)
	g.updates = updates

	cfg := testConfig()
	cfg.Render.Fog.Enabled = true
	cfg.Render.ClearColor = [3]uint8{255, 0, 0}
	cfg.Follow.FollowDistance = 9
	cfg.Drive.SteeringClamp = 0.5
	updates <- cfg
	frame(g, 1.0/60)

	assert.True(t, g.scene.Fog().Enabled)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, r.clearColor)
	assert.Equal(t, float32(9), g.racing.Settings().FollowDistance)
	assert.Equal(t, float32(0.5), g.cfg.Drive.SteeringClamp)

	close(updates)
	frame(g, 1.0/60)
	assert.Nil(t, g.updates)
}
