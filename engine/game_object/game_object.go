package game_object

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPipelineKey is the key the scene registers the lit pipeline under.
const DefaultPipelineKey = "lit"

// ErrPipelineNotRegistered is returned by Init when the object's pipeline is unknown to the renderer.
var ErrPipelineNotRegistered = errors.New("game_object: pipeline not registered")

// Renderer is the part of the renderer a game object initializes and draws through.
type Renderer interface {
	material.Initializer
	model.MeshUploader
	Pipeline(key string) pipeline.Pipeline
	DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
}

var nextID atomic.Uint64

type gameObject struct {
	transform.Transform

	id            uint64
	name          string
	enabled       atomic.Bool
	mdl           model.Model
	rotationSpeed mgl32.Vec3
	pipelineKey   string
	log           logger.Logger

	r              Renderer
	scene          bind_group_provider.BindGroupProvider
	objectProvider bind_group_provider.BindGroupProvider
	initialized    bool
	drawFailed     bool
}

// GameObject is a scene entity drawing a Model with the lit pipeline. Its local pose is the
// embedded Transform; the scene graph hands it the world matrix before every Draw.
//
// An object draws only after Init created its GPU resources and BindScene gave it the scene
// bind group. Both are done by Scene.AddObject.
type GameObject interface {
	transform.Transform

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	Name() string

	// Enabled returns whether this object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled toggles drawing. A disabled object still passes its world matrix to its children.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the Model drawn by this object, or nil.
	//
	// Returns:
	//   - model.Model: the model or nil
	Model() model.Model

	// SetModel replaces the model. An initialized object uploads the new model right away.
	//
	// Parameters:
	//   - m: the model
	SetModel(m model.Model)

	// RotationSpeed returns the spin applied by Update, in degrees per second around each axis.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the spin applied by Update.
	//
	// Parameters:
	//   - degreesPerSecond: per-axis spin
	SetRotationSpeed(degreesPerSecond mgl32.Vec3)

	// PipelineKey returns the key of the pipeline the object draws with.
	PipelineKey() string

	// Init creates the per-object uniform buffer, uploads the model meshes and initializes their
	// materials against the bind group layouts of the object's pipeline.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: ErrPipelineNotRegistered or a GPU resource error
	Init(r Renderer) error

	// BindScene sets the bind group holding the scene uniforms (group 0).
	//
	// Parameters:
	//   - scene: the scene uniforms provider
	BindScene(scene bind_group_provider.BindGroupProvider)

	// Uniform packs the current world matrix and its normal matrix.
	//
	// Returns:
	//   - GPUObjectData: the packed block
	Uniform() GPUObjectData

	// Update applies the rotation speed.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Draw uploads the object uniforms and issues one draw call per mesh.
	Draw()

	// Release frees the per-object GPU resources. Model resources are owned by the model.
	Release()
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled game object at the origin.
//
// Parameters:
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the game object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		Transform:   transform.NewTransform(),
		id:          nextID.Add(1),
		pipelineKey: DefaultPipelineKey,
		log:         logger.Default(),
	}
	g.enabled.Store(true)
	for _, opt := range options {
		opt(g)
	}
	if g.name == "" {
		g.name = fmt.Sprintf("object-%d", g.id)
	}
	g.objectProvider = bind_group_provider.NewBindGroupProvider(g.name+" object", bind_group_provider.WithUniqueLabel())
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	if g.initialized {
		if err := g.Init(g.r); err != nil {
			g.log.Warnf("game_object %s: %v", g.name, err)
		}
	}
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(degreesPerSecond mgl32.Vec3) {
	g.rotationSpeed = degreesPerSecond
}

func (g *gameObject) PipelineKey() string {
	return g.pipelineKey
}

func (g *gameObject) Init(r Renderer) error {
	p := r.Pipeline(g.pipelineKey)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrPipelineNotRegistered, g.pipelineKey)
	}
	objectLayout, ok := p.Shader().BindGroupLayoutDescriptor(ObjectGroup)
	if !ok {
		return fmt.Errorf("game_object %s: pipeline %q has no object group", g.name, g.pipelineKey)
	}
	materialLayout, ok := p.Shader().BindGroupLayoutDescriptor(MaterialGroup)
	if !ok {
		return fmt.Errorf("game_object %s: pipeline %q has no material group", g.name, g.pipelineKey)
	}

	if !g.objectProvider.Initialized() {
		if err := r.InitBindGroup(g.objectProvider, objectLayout); err != nil {
			return fmt.Errorf("game_object %s: %w", g.name, err)
		}
	}
	if g.mdl != nil {
		if err := g.mdl.Upload(r); err != nil {
			return fmt.Errorf("game_object %s: %w", g.name, err)
		}
		for _, mesh := range g.mdl.Meshes() {
			if err := mesh.Material().Init(r, materialLayout); err != nil {
				return fmt.Errorf("game_object %s: %w", g.name, err)
			}
		}
	}

	g.r = r
	g.initialized = true
	g.drawFailed = false
	return nil
}

func (g *gameObject) BindScene(scene bind_group_provider.BindGroupProvider) {
	g.scene = scene
}

func (g *gameObject) Uniform() GPUObjectData {
	return NewGPUObjectData(g.WorldMatrix())
}

func (g *gameObject) Update(dt float32) {
	if g.rotationSpeed != (mgl32.Vec3{}) {
		g.Rotate(g.rotationSpeed.Mul(dt))
	}
}

func (g *gameObject) Draw() {
	if !g.Enabled() || !g.initialized || g.scene == nil || g.mdl == nil {
		return
	}

	data := g.Uniform()
	g.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: g.objectProvider,
		Binding:  ObjectDataBinding,
		Data:     data.Marshal(),
	}})

	for _, mesh := range g.mdl.Meshes() {
		mat := mesh.Material()
		mat.Update(g.r)
		err := g.r.DrawCall(g.pipelineKey, mesh.MeshProvider(), []bind_group_provider.BindGroupProvider{
			g.scene,
			g.objectProvider,
			mat.BindGroupProvider(),
		})
		// log once per Init so a broken object does not flood the log every frame
		if err != nil && !g.drawFailed {
			g.drawFailed = true
			g.log.Warnf("game_object %s: mesh %s: %v", g.name, mesh.Name(), err)
		}
	}
}

func (g *gameObject) Release() {
	g.objectProvider.Release()
	g.initialized = false
}
