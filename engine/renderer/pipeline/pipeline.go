package pipeline

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key    string
	shader shader.Shader

	// set by the renderer once the GPU object exists
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	cullMode          wgpu.CullMode
	frontFace         wgpu.FrontFace
	topology          wgpu.PrimitiveTopology
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: the shader module it runs and the fixed-function state
// (depth, culling, topology, blending) it is created with.
type Pipeline interface {
	// PipelineKey returns the unique key of the pipeline.
	//
	// Returns:
	//   - string: the key
	PipelineKey() string

	// Shader returns the vertex and fragment module of the pipeline.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before registration with the renderer.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - rp: the created pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// DepthStencilState builds the depth state. When depth testing is disabled the compare
	// function is Always.
	//
	// Returns:
	//   - wgpu.DepthStencilState: the depth state for a Depth24Plus attachment
	DepthStencilState() wgpu.DepthStencilState

	// PrimitiveState builds the primitive assembly state.
	//
	// Returns:
	//   - wgpu.PrimitiveState: topology, front face and cull mode
	PrimitiveState() wgpu.PrimitiveState

	// ColorTarget builds the color target state for the given surface format.
	//
	// Parameters:
	//   - format: the surface texture format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the target with the configured write mask and blend state
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	CullMode() wgpu.CullMode
	DepthCompare() wgpu.CompareFunction
	DepthWriteEnabled() bool
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults are depth test and write on with a
// Less compare, no culling, counter-clockwise front faces, triangle lists and no blending.
//
// Parameters:
//   - key: the unique key of the pipeline
//   - s: the shader module; must not be nil
//   - opts: a variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(key string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	if s == nil {
		panic("pipeline: " + key + " requires a shader")
	}
	p := &pipeline{
		key:               key,
		shader:            s,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeNone,
		frontFace:         wgpu.FrontFaceCCW,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.key
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	if !p.depthTestEnabled {
		return wgpu.CompareFunctionAlways
	}
	return p.depthCompare
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthStencilState() wgpu.DepthStencilState {
	return wgpu.DepthStencilState{
		Format:            wgpu.TextureFormatDepth24Plus,
		DepthWriteEnabled: p.depthWriteEnabled,
		DepthCompare:      p.DepthCompare(),
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	return wgpu.ColorTargetState{
		Format:    format,
		Blend:     p.blendState,
		WriteMask: p.writeMask,
	}
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
