package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSource = `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func newShader(t *testing.T) shader.Shader {
	t.Helper()
	s, err := shader.NewShader("minimal", minimalSource)
	require.NoError(t, err)
	return s
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("lit", newShader(t))

	assert.Equal(t, "lit", p.PipelineKey())
	assert.Nil(t, p.RenderPipeline())

	ds := p.DepthStencilState()
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, ds.Format)
	assert.True(t, ds.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, ds.DepthCompare)

	ps := p.PrimitiveState()
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, ps.Topology)
	assert.Equal(t, wgpu.CullModeNone, ps.CullMode)

	ct := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	assert.Nil(t, ct.Blend)
	assert.Equal(t, wgpu.ColorWriteMaskAll, ct.WriteMask)
}

func TestNewPipeline_SkyboxState(t *testing.T) {
	p := NewPipeline("skybox", newShader(t),
		WithCullMode(wgpu.CullModeFront),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
		WithDepthWriteEnabled(false),
	)
	assert.Equal(t, wgpu.CullModeFront, p.CullMode())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
}

func TestNewPipeline_DepthTestOff(t *testing.T) {
	p := NewPipeline("overlay", newShader(t),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
		WithDepthTestEnabled(false),
		WithBlendState(AlphaBlending),
	)
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
	assert.Same(t, AlphaBlending, p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).Blend)
}

func TestNewPipeline_NilShaderPanics(t *testing.T) {
	assert.PanicsWithValue(t, "pipeline: broken requires a shader", func() {
		NewPipeline("broken", nil)
	})
}
