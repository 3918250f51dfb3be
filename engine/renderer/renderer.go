package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultClearColor is cornflower blue, (100, 149, 237) / 255.
var DefaultClearColor = mgl32.Vec4{100.0 / 255, 149.0 / 255, 237.0 / 255, 1}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// collected from builder options before the backend exists
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	msaa                 MSAASampleCount
	clearColor           mgl32.Vec4
}

// Renderer is the high-level GPU API used by the engine. It owns the surface, caches render
// pipelines by key and turns BindGroupProviders into GPU resources.
//
// A frame is BeginFrame, any number of DrawCalls, EndFrame, then Present. Uniform writes issued
// through WriteBuffers are queued and become visible to the next submitted frame.
type Renderer interface {
	bind_group_provider.UniformWriter

	// Resize reconfigures the surface and the depth and MSAA targets.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(width, height int)

	// SetPresentMode switches between vsync and uncapped presentation. Applied on the next Resize.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	//
	// Parameters:
	//   - color: linear RGBA in [0, 1]
	SetClearColor(color mgl32.Vec4)

	// ClearColor returns the current clear color.
	//
	// Returns:
	//   - mgl32.Vec4: linear RGBA
	ClearColor() mgl32.Vec4

	// RegisterPipeline creates the GPU pipeline for p and caches it under its key.
	// Registering a key twice keeps the first pipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: error if the GPU pipeline could not be created
	RegisterPipeline(p pipeline.Pipeline) error

	// Pipeline looks up a registered pipeline.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// InitMeshBuffers uploads vertex and index data into new GPU buffers held by the provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: interleaved vertex bytes
	//   - indexData: uint32 index bytes
	//   - indexCount: number of indices
	//
	// Returns:
	//   - error: error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the bind group described by descriptor. Buffers are created for buffer
	// bindings the provider does not hold yet, sized by MinBindingSize. Texture and sampler bindings
	// must already be set with InitTextureView, InitCubeTextureView and InitSampler.
	//
	// Parameters:
	//   - provider: the provider receiving the GPU objects
	//   - descriptor: the reflected layout descriptor
	//
	// Returns:
	//   - error: error if a resource is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads an RGBA8 image as a 2D texture bound at binding.
	//
	// Parameters:
	//   - provider: the provider receiving the view
	//   - binding: the binding index
	//   - data: the pixels
	//
	// Returns:
	//   - error: error if creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitCubeTextureView uploads six RGBA8 faces as a cube texture bound at binding.
	//
	// Parameters:
	//   - provider: the provider receiving the view
	//   - binding: the binding index
	//   - data: the faces in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - error: error if creation fails
	InitCubeTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.CubeTextureStagingData) error

	// InitSampler creates a sampler bound at binding. Zero fields fall back to linear repeat.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - binding: the binding index
	//   - data: the sampler configuration
	//
	// Returns:
	//   - error: error if creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - error: error if the surface texture cannot be acquired
	BeginFrame() error

	// DrawCall records an indexed draw of mesh with the given bind groups, bindGroups[i]
	// being bound to @group(i).
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - mesh: the mesh provider holding vertex and index buffers
	//   - bindGroups: the bind groups in group order
	//
	// Returns:
	//   - error: error if the pipeline is not registered
	DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Release frees every registered pipeline and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - w: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		msaa:          MSAA4x,
		clearColor:    DefaultClearColor,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(w.Width(), w.Height())
	r.backend.SetClearColor(toWGPUColor(r.clearColor))
	return r
}

func toWGPUColor(c mgl32.Vec4) wgpu.Color {
	return wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color mgl32.Vec4) {
	r.mu.Lock()
	r.clearColor = color
	r.mu.Unlock()
	r.backend.SetClearColor(toWGPUColor(color))
}

func (r *renderer) ClearColor() mgl32.Vec4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := r.pipelineCache[key]; exists {
		return nil
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("register pipeline %q: %w", key, err)
	}
	r.pipelineCache[key] = p
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, binding, data)
}

func (r *renderer) InitCubeTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.CubeTextureStagingData) error {
	return r.backend.InitCubeTextureView(provider, binding, data)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, binding, data)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	for i, bg := range bindGroups {
		if bg == nil || bg.BindGroup() == nil {
			return fmt.Errorf("render pipeline %q: bind group %d is not initialized", pipelineKey, i)
		}
	}

	r.backend.DrawCall(p, mesh, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
