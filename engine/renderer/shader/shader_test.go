package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fogSnippet = `struct Fog {
    color: vec4<f32>,
    enabled: i32,
};`

const litSource = `//@oxy:include matrices
//@oxy:include lights
//@oxy:include fog

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> matrices: Matrices;
@group(0) @binding(1) var<uniform> lights: Lights;
@group(0) @binding(2) var<uniform> fog: Fog;
/* @group(3) @binding(0) var<uniform> hidden: Fog; */
@group(2) @binding(1) var diffuse_texture: texture_2d<f32>;
@group(2) @binding(2) var diffuse_sampler: sampler;
@group(1) @binding(0) var sky: texture_cube<f32>;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = matrices.projection * matrices.view * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(diffuse_texture, diffuse_sampler, in.uv);
}
`

func newLitShader(t *testing.T) Shader {
	t.Helper()
	s, err := NewShader("lit", litSource, WithIncludes(
		Include{Name: "matrices", Source: camera.GPUMatricesUniformSource},
		Include{Name: "lights", Source: light.GPULightsUniformSource},
		Include{Name: "fog", Source: fogSnippet},
	))
	require.NoError(t, err)
	return s
}

func TestNewShader_EntryPoints(t *testing.T) {
	s := newLitShader(t)
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.NotContains(t, s.Source(), includeDirective)
	assert.Contains(t, s.Source(), "struct Lights")
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestNewShader_UniformSizes(t *testing.T) {
	s := newLitShader(t)
	desc, ok := s.BindGroupLayoutDescriptor(0)
	require.True(t, ok)
	require.Len(t, desc.Entries, 3)

	assert.Equal(t, uint64(128), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(544), desc.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, uint64(32), desc.Entries[2].Buffer.MinBindingSize)
	for _, e := range desc.Entries {
		assert.Equal(t, wgpu.BufferBindingTypeUniform, e.Buffer.Type)
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestNewShader_TexturesAndSamplers(t *testing.T) {
	s := newLitShader(t)

	mat, ok := s.BindGroupLayoutDescriptor(2)
	require.True(t, ok)
	require.Len(t, mat.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimension2D, mat.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, mat.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, mat.Entries[1].Sampler.Type)

	sky, ok := s.BindGroupLayoutDescriptor(1)
	require.True(t, ok)
	assert.Equal(t, wgpu.TextureViewDimensionCube, sky.Entries[0].Texture.ViewDimension)

	_, ok = s.BindGroupLayoutDescriptor(3)
	assert.False(t, ok, "commented declarations are ignored")
	assert.Equal(t, []int{0, 1, 2}, s.Groups())
}

func TestNewShader_BindingNames(t *testing.T) {
	s := newLitShader(t)
	assert.Equal(t, "lights", s.BindingName(0, 1))
	assert.Equal(t, "", s.BindingName(5, 0))

	b, ok := s.Binding(2, "diffuse_sampler")
	assert.True(t, ok)
	assert.Equal(t, 2, b)

	b, ok = s.Binding(2, "missing")
	assert.False(t, ok)
	assert.Equal(t, -1, b)
}

func TestNewShader_VertexLayout(t *testing.T) {
	s := newLitShader(t)
	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1, "output struct with a builtin is not a vertex input")

	l := layouts[0]
	assert.Equal(t, uint64(32), l.ArrayStride)
	require.Len(t, l.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, l.Attributes[1].Format)
	assert.Equal(t, uint64(12), l.Attributes[1].Offset)
	assert.Equal(t, uint64(24), l.Attributes[2].Offset)
	assert.Equal(t, uint32(2), l.Attributes[2].ShaderLocation)
}

func TestNewShader_Errors(t *testing.T) {
	_, err := NewShader("bad", "//@oxy:include nope\n@vertex fn v() {}\n@fragment fn f() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown include "nope"`)

	_, err = NewShader("nofrag", "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestResolveIncludes(t *testing.T) {
	includes := map[string]string{
		"a": "//@oxy:include b\nA",
		"b": "B",
		"x": "//@oxy:include y",
		"y": "//@oxy:include x",
	}

	out, err := resolveIncludes("//@oxy:include a\n//@oxy:include b\nmain", includes)
	require.NoError(t, err)
	assert.Equal(t, "B\nA\nmain", out)

	_, err = resolveIncludes("//@oxy:include x", includes)
	assert.ErrorContains(t, err, "include cycle")

	_, err = resolveIncludes("  //@oxy:include   ", includes)
	assert.ErrorContains(t, err, "without a name")
}

func TestLayoutOf(t *testing.T) {
	known := map[string]typeLayout{"Light": {64, 16}}

	l, ok := layoutOf("array<Light, 4>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(256), l.size)

	l, ok = layoutOf("array<vec3<f32>>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(16), l.size)

	_, ok = layoutOf("Unknown", known)
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	src := "a /* x /* nested */ y */ b // tail\nc"
	assert.Equal(t, "a  b \nc", stripComments(src))
}
