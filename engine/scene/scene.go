package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/light"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-racer/engine/scene_graph"
	"github.com/Carmen-Shannon/oxy-racer/engine/skybox"
	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer is the part of the renderer a scene and its contents draw through.
type Renderer interface {
	game_object.Renderer
	skybox.Renderer
}

// Renderable is a drawable that owns GPU resources bound to the scene uniforms. AddObject
// initializes it before inserting it.
type Renderable interface {
	scene_graph.Drawable
	Init(r game_object.Renderer) error
	BindScene(scene bind_group_provider.BindGroupProvider)
}

// Updatable is a drawable advanced by Scene.Update.
type Updatable interface {
	Update(dt float32)
}

// Scene owns a scene graph together with the camera, lights, fog and skybox used to draw it.
//
// Every frame Draw uploads the scene uniforms (matrices, lights, fog) into one bind group that all
// lit objects share, draws the graph, then draws the skybox behind everything.
// Thread-safe for concurrent access.
type Scene interface {
	// Camera returns the active camera.
	Camera() camera.Camera

	// SetCamera swaps the active camera. Nil is ignored.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Graph returns the scene graph.
	Graph() scene_graph.Graph

	// Lights returns the light manager.
	Lights() light.Manager

	// Skybox returns the skybox, or nil.
	Skybox() skybox.Skybox

	// SetSkybox initializes sky and uses it from the next Draw. Nil removes the skybox.
	//
	// Parameters:
	//   - sky: the skybox or nil
	//
	// Returns:
	//   - error: error if the skybox cannot be initialized
	SetSkybox(sky skybox.Skybox) error

	// Fog returns the fog settings.
	Fog() Fog

	// SetFog replaces the fog settings.
	//
	// Parameters:
	//   - f: the fog
	SetFog(f Fog)

	// UniformsProvider returns the bind group holding the matrices, lights and fog blocks.
	UniformsProvider() bind_group_provider.BindGroupProvider

	// AddObject inserts obj under parent, or under the root when parent is scene_graph.Nil.
	// A Renderable is initialized and bound to the scene uniforms first; a light.Light is
	// routed to AddLight.
	//
	// Parameters:
	//   - obj: the drawable
	//   - parent: the parent node or scene_graph.Nil
	//
	// Returns:
	//   - scene_graph.Node: the new node
	//   - error: scene_graph.ErrInvalidHandle, an initialization error or a light capacity error
	AddObject(obj scene_graph.Drawable, parent scene_graph.Node) (scene_graph.Node, error)

	// AddLight registers l with the light manager, then inserts it under parent. When the manager
	// rejects the light nothing is inserted. Adding a light already in the scene returns its node.
	//
	// Parameters:
	//   - l: the light
	//   - parent: the parent node or scene_graph.Nil
	//
	// Returns:
	//   - scene_graph.Node: the light's node
	//   - error: light.ErrCapacityExceeded or scene_graph.ErrInvalidHandle
	AddLight(l light.Light, parent scene_graph.Node) (scene_graph.Node, error)

	// RemoveObject removes node and its subtree. Lights in the subtree are unregistered from the
	// light manager. GPU resources of the removed drawables are left to the caller.
	//
	// Parameters:
	//   - node: the node to remove
	//
	// Returns:
	//   - []scene_graph.Drawable: the removed drawables in pre-order
	//   - error: scene_graph.ErrInvalidHandle or scene_graph.ErrRootNode
	RemoveObject(node scene_graph.Node) ([]scene_graph.Drawable, error)

	// RemoveLight removes l and its subtree from the scene.
	//
	// Parameters:
	//   - l: the light
	//
	// Returns:
	//   - bool: true if the light was in the scene
	RemoveLight(l light.Light) bool

	// Update calls Update(dt) on every Updatable drawable in graph order.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Draw uploads the scene uniforms and draws the graph followed by the skybox. Must be called
	// within a BeginFrame/EndFrame block on the renderer.
	Draw()

	// Release frees the scene's GPU resources and the skybox.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	graph    scene_graph.Graph
	cam      camera.Camera
	r        Renderer
	lights   light.Manager
	sky      skybox.Skybox
	fog      Fog
	log      logger.Logger
	provider bind_group_provider.BindGroupProvider

	// pipeline options for the lit pipeline, applied at construction
	litOptions []pipeline.PipelineBuilderOption
}

var _ Scene = &scene{}

// NewScene creates a scene, registers the lit pipeline and initializes the scene uniforms bind
// group. Both cam and r are required and NewScene panics if either is nil.
//
// Parameters:
//   - cam: the active camera
//   - r: the renderer
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: error if the lit pipeline or the uniforms bind group cannot be created
func NewScene(cam camera.Camera, r Renderer, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:    &sync.RWMutex{},
		graph: scene_graph.NewGraph(),
		cam:   cam,
		r:     r,
		fog:   DefaultFog(),
		log:   logger.Default(),
	}
	for _, option := range options {
		option(s)
	}

	s.provider = bind_group_provider.NewBindGroupProvider("scene uniforms", bind_group_provider.WithUniqueLabel())
	if s.lights == nil {
		s.lights = light.NewManager(light.WithLogger(s.log))
	}
	s.lights.SetBindGroupProvider(s.provider)

	lit, err := NewLitShader()
	if err != nil {
		return nil, err
	}
	opts := append([]pipeline.PipelineBuilderOption{pipeline.WithCullMode(wgpu.CullModeBack)}, s.litOptions...)
	if err := r.RegisterPipeline(pipeline.NewPipeline(game_object.DefaultPipelineKey, lit, opts...)); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	layout, ok := lit.BindGroupLayoutDescriptor(game_object.SceneGroup)
	if !ok {
		return nil, errors.New("scene: lit shader has no scene group")
	}
	if err := r.InitBindGroup(s.provider, layout); err != nil {
		return nil, fmt.Errorf("scene: uniforms: %w", err)
	}

	if s.sky != nil {
		if err := s.sky.Init(r); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	}
	return s, nil
}

// NewLitShader builds the lit shader with every snippet it includes.
//
// Returns:
//   - shader.Shader: the lit shader
//   - error: error if the source cannot be resolved
func NewLitShader() (shader.Shader, error) {
	lit, err := shader.NewShader(game_object.DefaultPipelineKey, LitShaderSource, shader.WithIncludes(
		shader.Include{Name: "vertex", Source: model.GPUVertexSource},
		shader.Include{Name: "matrices", Source: camera.GPUMatricesUniformSource},
		shader.Include{Name: "lights", Source: light.GPULightsUniformSource},
		shader.Include{Name: "fog", Source: GPUFogUniformSource},
		shader.Include{Name: "object", Source: game_object.GPUObjectDataSource},
		shader.Include{Name: "material", Source: material.GPUMaterialParamsSource},
	))
	if err != nil {
		return nil, fmt.Errorf("scene: lit shader: %w", err)
	}
	return lit, nil
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Graph() scene_graph.Graph {
	return s.graph
}

func (s *scene) Lights() light.Manager {
	return s.lights
}

func (s *scene) Skybox() skybox.Skybox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sky
}

func (s *scene) SetSkybox(sky skybox.Skybox) error {
	if sky != nil {
		if err := sky.Init(s.r); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sky = sky
	return nil
}

func (s *scene) Fog() Fog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fog
}

func (s *scene) SetFog(f Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fog = f
}

func (s *scene) UniformsProvider() bind_group_provider.BindGroupProvider {
	return s.provider
}

// parentOrRoot resolves the Nil handle to the root and validates any other handle.
func (s *scene) parentOrRoot(parent scene_graph.Node) (scene_graph.Node, error) {
	if parent.IsNil() {
		return s.graph.Root(), nil
	}
	if !s.graph.Valid(parent) {
		return scene_graph.Nil, fmt.Errorf("scene: parent %v: %w", parent, scene_graph.ErrInvalidHandle)
	}
	return parent, nil
}

// attach inserts obj under parent. The parent was validated by the caller.
func (s *scene) attach(obj scene_graph.Drawable, parent scene_graph.Node) (scene_graph.Node, error) {
	node := s.graph.Insert(obj)
	if err := s.graph.AddChild(parent, node); err != nil {
		_, _ = s.graph.Remove(node)
		return scene_graph.Nil, fmt.Errorf("scene: %w", err)
	}
	return node, nil
}

func (s *scene) AddObject(obj scene_graph.Drawable, parent scene_graph.Node) (scene_graph.Node, error) {
	if l, ok := obj.(light.Light); ok {
		return s.AddLight(l, parent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.parentOrRoot(parent)
	if err != nil {
		return scene_graph.Nil, err
	}
	if ro, ok := obj.(Renderable); ok {
		if err := ro.Init(s.r); err != nil {
			return scene_graph.Nil, fmt.Errorf("scene: %w", err)
		}
		ro.BindScene(s.provider)
	}
	return s.attach(obj, p)
}

func (s *scene) AddLight(l light.Light, parent scene_graph.Node) (scene_graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if node, ok := s.graph.Find(l); ok {
		return node, nil
	}
	p, err := s.parentOrRoot(parent)
	if err != nil {
		return scene_graph.Nil, err
	}
	if err := s.lights.AddLight(l); err != nil {
		return scene_graph.Nil, err
	}
	node, err := s.attach(l, p)
	if err != nil {
		s.lights.RemoveLight(l)
		return scene_graph.Nil, err
	}
	return node, nil
}

func (s *scene) RemoveObject(node scene_graph.Node) ([]scene_graph.Drawable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeObject(node)
}

func (s *scene) removeObject(node scene_graph.Node) ([]scene_graph.Drawable, error) {
	removed, err := s.graph.Remove(node)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	for _, obj := range removed {
		if l, ok := obj.(light.Light); ok {
			s.lights.RemoveLight(l)
		}
	}
	return removed, nil
}

func (s *scene) RemoveLight(l light.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.graph.Find(l)
	if !ok {
		return s.lights.RemoveLight(l)
	}
	_, err := s.removeObject(node)
	return err == nil
}

func (s *scene) Update(dt float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.graph.Walk(func(_ scene_graph.Node, obj scene_graph.Drawable) {
		if u, ok := obj.(Updatable); ok {
			u.Update(dt)
		}
	})
}

func (s *scene) Draw() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matrices := s.cam.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.provider,
		Binding:  camera.MatricesBinding,
		Data:     matrices.Marshal(),
	}})
	s.lights.UpdateLights(s.r)
	fog := s.fog.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.provider,
		Binding:  FogBinding,
		Data:     fog.Marshal(),
	}})

	s.graph.Draw()

	if s.sky == nil {
		return
	}
	// The skybox is always drawn with a perspective projection.
	if s.cam.ProjectionType() == camera.ProjectionOrthographic {
		s.cam.SetProjectionType(camera.ProjectionPerspective)
		s.sky.SetMatrices(s.cam.Uniform())
		s.cam.SetProjectionType(camera.ProjectionOrthographic)
	} else {
		s.sky.SetMatrices(matrices)
	}
	s.sky.Draw()
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sky != nil {
		s.sky.Release()
	}
	s.provider.Release()
}
