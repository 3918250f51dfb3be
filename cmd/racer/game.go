package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine"
	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/config"
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/input"
	"github.com/Carmen-Shannon/oxy-racer/engine/light"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/physics"
	"github.com/Carmen-Shannon/oxy-racer/engine/scene"
	"github.com/Carmen-Shannon/oxy-racer/engine/scene_graph"
	"github.com/Carmen-Shannon/oxy-racer/engine/skybox"
	"github.com/Carmen-Shannon/oxy-racer/engine/terrain"
	"github.com/Carmen-Shannon/oxy-racer/engine/vehicle"
	"github.com/go-gl/mathgl/mgl32"
)

// overviewOffset places the overview camera relative to the spawn point, looking at it.
var overviewOffset = mgl32.Vec3{-32, 16, 16}

// spawnHeight is how far above the ground the car is dropped.
const spawnHeight = 3

// blendSpeed is how fast N and M move the day/night blend, per second.
const blendSpeed = 0.5

type cameraMode int

const (
	cameraChase cameraMode = iota
	cameraFree
	cameraOverview
	numCameraModes
)

func (m cameraMode) String() string {
	switch m {
	case cameraChase:
		return "chase"
	case cameraFree:
		return "free"
	case cameraOverview:
		return "overview"
	default:
		return fmt.Sprintf("cameraMode(%d)", int(m))
	}
}

// gameWindow is the window surface the game drives.
type gameWindow interface {
	engine.Window
	input.EventSource
	Width() int
	Height() int
	SetCursorCaptured(captured bool)
}

// gameRenderer is the renderer surface the game drives.
type gameRenderer interface {
	engine.FrameRenderer
	scene.Renderer
	SetClearColor(color mgl32.Vec4)
}

type game struct {
	cfg    config.Config
	log    logger.Logger
	window gameWindow
	render gameRenderer
	input  input.State
	assets *assets

	scene   scene.Scene
	world   physics.World
	terrain terrain.Terrain
	car     vehicle.Vehicle
	engine  engine.Engine

	cameras [numCameraModes]camera.Camera
	mode    cameraMode
	racing  camera.RacingController
	fly     camera.FlyController

	spawn    mgl32.Vec3
	steering float32
	captured bool
	updates  <-chan config.Config
}

// newGame builds the track, the car, the cameras and the engine that runs them.
//
// Parameters:
//   - cfg: the configuration
//   - log: the logger
//   - w: the window
//   - r: the renderer drawing into w
//
// Returns:
//   - *game: the ready game
//   - error: error if the scene or the terrain cannot be built
func newGame(cfg config.Config, log logger.Logger, w gameWindow, r gameRenderer) (*game, error) {
	g := &game{
		cfg:    cfg,
		log:    log,
		window: w,
		render: r,
		input:  input.NewState(),
		assets: newAssets(log),
	}
	g.input.Bind(w)
	g.buildCameras()

	sc, err := scene.NewScene(g.cameras[cameraChase], r,
		scene.WithFog(fogFromConfig(cfg.Render.Fog)),
		scene.WithSkybox(skybox.NewSkybox(g.assets.skyboxOptions(cfg.Render)...)),
		scene.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("racer: scene: %w", err)
	}
	g.scene = sc

	if err := g.buildTrack(); err != nil {
		return nil, err
	}
	if err := g.buildCar(); err != nil {
		return nil, err
	}
	if err := g.buildLights(); err != nil {
		return nil, err
	}
	g.buildProps()

	g.engine = engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithInput(g.input),
		engine.WithProfiling(cfg.Profiler),
		engine.WithLogger(log),
	)
	g.engine.SetTickCallback(g.tick)
	g.engine.SetLateTickCallback(g.lateTick)
	g.engine.SetResizeCallback(g.resize)
	g.resize(w.Width(), w.Height())
	return g, nil
}

func (g *game) buildCameras() {
	c := g.cfg.Camera
	chase := camera.NewCamera(camera.WithPerspective(c.FOV, 1, c.Near, c.Far))
	free := camera.NewCamera(camera.WithPerspective(c.FOV, 1, c.Near, c.Far))
	overview := camera.NewCamera(camera.WithPerspective(60, 1, c.Near, c.Far))
	for _, cam := range []camera.Camera{chase, free, overview} {
		cam.SetOrthoSize(c.OrthoSize)
	}
	g.cameras = [numCameraModes]camera.Camera{chase, free, overview}
	g.racing = camera.NewRacingController(chase, camera.WithRacingSettings(g.cfg.Follow))
	g.fly = camera.NewFlyController(free, g.input, camera.WithFlySpeed(c.FlySpeed))
}

func (g *game) buildTrack() error {
	t := g.cfg.Terrain
	img, err := g.assets.heightmap(t.Heightmap)
	if err != nil {
		return fmt.Errorf("racer: heightmap: %w", err)
	}
	g.terrain, err = terrain.NewTerrain(img,
		terrain.WithGridSize(t.GridSize),
		terrain.WithHeightScale(t.HeightScale),
		terrain.WithWorldScale(t.WorldScale),
		terrain.WithObjectOptions(
			game_object.WithPosition(mgl32.Vec3(t.Position)),
			game_object.WithLogger(g.log),
		),
	)
	if err != nil {
		return fmt.Errorf("racer: terrain: %w", err)
	}
	if _, err := g.scene.AddObject(g.terrain, scene_graph.Nil); err != nil {
		return fmt.Errorf("racer: terrain: %w", err)
	}

	g.world = physics.NewWorld(
		physics.WithGravity(mgl32.Vec3(g.cfg.Physics.Gravity)),
		physics.WithGround(g.terrain),
		physics.WithLogger(g.log),
	)
	return nil
}

func (g *game) buildCar() error {
	spawn := mgl32.Vec3{0, spawnHeight, 0}
	if h, ok := g.terrain.HeightAt(0, 0); ok {
		spawn[1] += h
	}
	g.spawn = spawn

	overview := g.cameras[cameraOverview]
	overview.SetPosition(spawn.Add(overviewOffset))
	overview.SetOrientationBasis(overviewOffset.Mul(-1).Normalize(), mgl32.Vec3{0, 1, 0})

	options := []vehicle.VehicleBuilderOption{vehicle.WithLogger(g.log)}
	body, err := g.assets.model(g.cfg.Assets.VehicleModel)
	if err != nil {
		g.log.Warnf("vehicle model: %v", err)
	} else if body != nil {
		options = append(options, vehicle.WithBodyModel(body))
	}

	controller := vehicle.NewController(g.world, physics.NewFactory(g.world), spawn,
		vehicle.WithParameters(g.cfg.Vehicle))
	g.car = vehicle.NewVehicle(controller, options...)
	node, err := g.scene.AddObject(g.car, scene_graph.Nil)
	if err != nil {
		return fmt.Errorf("racer: vehicle: %w", err)
	}

	// local -Z is the driving direction
	headlight := light.NewSpotLight(
		light.WithPosition(mgl32.Vec3{0, 0.3, -2.1}),
		light.WithRotation(mgl32.Vec3{-5, 0, 0}),
		light.WithColor(mgl32.Vec3{1, 0.95, 0.8}),
		light.WithIntensity(2),
		light.WithRadius(60),
		light.WithFocus(8),
	)
	if _, err := g.scene.AddLight(headlight, node); err != nil {
		return fmt.Errorf("racer: headlight: %w", err)
	}
	return nil
}

// buildLights adds a white lamp above the spawn point and a red beacon pointing down beside it.
func (g *game) buildLights() error {
	lamp := light.NewPointLight(
		light.WithPosition(g.spawn.Add(mgl32.Vec3{0, 20, 0})),
		light.WithColor(mgl32.Vec3{0.8, 0.8, 0.8}),
		light.WithIntensity(1),
		light.WithRadius(100),
	)
	beacon := light.NewSpotLight(
		light.WithPosition(g.spawn.Add(mgl32.Vec3{12, 15, 12})),
		light.WithRotation(mgl32.Vec3{-90, 0, 0}),
		light.WithColor(mgl32.Vec3{1, 0, 0}),
		light.WithIntensity(1),
		light.WithRadius(50),
	)
	for _, l := range []light.Light{lamp, beacon} {
		if _, err := g.scene.AddLight(l, scene_graph.Nil); err != nil {
			return fmt.Errorf("racer: light: %w", err)
		}
	}
	return nil
}

// buildProps places the configured props. Props that fail to load or attach are skipped.
func (g *game) buildProps() {
	models := g.assets.props(g.cfg.Assets.Props)
	for i, p := range g.cfg.Assets.Props {
		m, ok := models[p.Model]
		if !ok {
			continue
		}
		scale := common.Coalesce(p.Scale, 1)
		obj := game_object.NewGameObject(
			game_object.WithName(fmt.Sprintf("prop %d", i)),
			game_object.WithModel(m),
			game_object.WithPosition(mgl32.Vec3(p.Position)),
			game_object.WithScale(mgl32.Vec3{scale, scale, scale}),
			game_object.WithLogger(g.log),
		)
		if _, err := g.scene.AddObject(obj, scene_graph.Nil); err != nil {
			g.log.Warnf("prop %s: %v", p.Model, err)
		}
	}
}

// tick handles input and advances the physics world.
func (g *game) tick(dt float32) {
	g.applyUpdates()

	in := g.input
	if in.IsKeyPressed(common.KeyEsc) {
		g.engine.Quit()
		return
	}
	if in.IsKeyPressed(common.KeyC) {
		g.setCameraMode((g.mode + 1) % numCameraModes)
	}
	if in.IsKeyPressed(common.KeyP) {
		g.toggleProjection()
	}
	if in.IsKeyPressed(common.KeyF) {
		fog := g.scene.Fog()
		fog.Enabled = !fog.Enabled
		g.scene.SetFog(fog)
	}
	if in.IsKeyPressed(common.KeyTab) {
		g.captured = !g.captured
		g.window.SetCursorCaptured(g.captured)
	}
	if in.IsKeyPressed(common.KeyR) {
		g.car.Controller().Flip()
	}
	if sky := g.scene.Skybox(); sky != nil {
		if in.IsKeyDown(common.KeyN) {
			sky.SetBlendFactor(sky.BlendFactor() + blendSpeed*dt)
		}
		if in.IsKeyDown(common.KeyM) {
			sky.SetBlendFactor(sky.BlendFactor() - blendSpeed*dt)
		}
	}

	g.drive(dt)
	g.world.StepSimulation(dt, g.cfg.Physics.MaxSubSteps)
	if g.mode == cameraFree {
		g.fly.Update(dt)
	}
}

// lateTick moves the chase camera after the car has taken its new pose.
func (g *game) lateTick(dt float32) {
	c := g.car.Controller()
	g.racing.SetTarget(c.Position(), c.Forward(), c.Up(), c.Velocity())
	g.racing.Update(dt)
}

// drive maps the arrow keys, and WASD outside the free camera, onto the controller.
func (g *game) drive(dt float32) {
	in := g.input
	wasd := g.mode != cameraFree
	key := func(arrow, letter int) bool {
		return in.IsKeyDown(arrow) || (wasd && in.IsKeyDown(letter))
	}
	forward := key(common.KeyUp, common.KeyW)
	back := key(common.KeyDown, common.KeyS)
	left := key(common.KeyLeft, common.KeyA)
	right := key(common.KeyRight, common.KeyD)

	d := g.cfg.Drive
	var force, target, brake float32
	switch {
	case forward && !back:
		force = d.EngineForce
	case back && !forward:
		force = -d.ReverseForce
	}
	if left {
		target += d.SteeringClamp
	}
	if right {
		target -= d.SteeringClamp
	}
	if in.IsKeyDown(common.KeySpace) {
		brake = d.BrakeForce
	}
	g.steering = common.Approach(g.steering, target, d.SteeringSpeed*dt)

	c := g.car.Controller()
	c.ApplyEngineForce(force)
	c.Steer(g.steering)
	c.Brake(brake)
}

func (g *game) setCameraMode(m cameraMode) {
	if m == cameraFree {
		from := g.cameras[g.mode]
		free := g.cameras[cameraFree]
		free.SetPosition(from.Position())
		free.SetOrientation(from.Orientation())
		g.fly.SyncFromCamera()
	}
	g.mode = m
	g.scene.SetCamera(g.cameras[m])
	g.log.Infof("camera: %s", m)
}

func (g *game) toggleProjection() {
	cam := g.cameras[g.mode]
	if cam.ProjectionType() == camera.ProjectionPerspective {
		cam.SetProjectionType(camera.ProjectionOrthographic)
	} else {
		cam.SetProjectionType(camera.ProjectionPerspective)
	}
	g.log.Infof("%s camera: %s", g.mode, cam.ProjectionType())
}

// resize keeps every camera's aspect in step with the window, not only the active one.
func (g *game) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	for _, cam := range g.cameras {
		cam.SetViewportSize(width, height)
	}
}

// applyUpdates applies the newest reloaded config, if any.
func (g *game) applyUpdates() {
	if g.updates == nil {
		return
	}
	select {
	case cfg, ok := <-g.updates:
		if !ok {
			g.updates = nil
			return
		}
		g.apply(cfg)
	default:
	}
}

// apply switches to cfg for everything that can change while running. Vehicle tuning, the
// terrain and the window size need a restart.
func (g *game) apply(cfg config.Config) {
	g.log.SetDebug(cfg.Debug)
	g.racing.SetSettings(cfg.Follow)
	g.fly.SetSpeed(cfg.Camera.FlySpeed)
	g.scene.SetFog(fogFromConfig(cfg.Render.Fog))
	g.render.SetClearColor(cfg.Render.ClearColorVec4())
	if cfg.Profiler != g.cfg.Profiler {
		if cfg.Profiler {
			g.engine.EnableProfiler()
		} else {
			g.engine.DisableProfiler()
		}
	}
	if cfg.Vehicle != g.cfg.Vehicle || cfg.Terrain != g.cfg.Terrain {
		g.log.Warnf("vehicle and terrain changes apply on restart")
	}
	g.cfg = cfg
	g.log.Infof("config reloaded")
}

// release frees the GPU resources and takes the car out of the physics world.
func (g *game) release() {
	g.car.Controller().Release()
	g.car.Release()
	g.terrain.Release()
	g.scene.Release()
}

func fogFromConfig(f config.Fog) scene.Fog {
	return scene.Fog{
		Color:   mgl32.Vec3(f.Color),
		Density: f.Density,
		Enabled: f.Enabled,
	}
}
