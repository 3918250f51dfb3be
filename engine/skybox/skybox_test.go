package skybox

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	pipelines  []pipeline.Pipeline
	cubes      map[int]common.CubeTextureStagingData
	layout     wgpu.BindGroupLayoutDescriptor
	vertexData []byte
	indexCount int
	writes     []bind_group_provider.BufferWrite
	draws      int
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, vertexData, _ []byte, indexCount int) error {
	f.vertexData, f.indexCount = vertexData, indexCount
	return nil
}

func (f *fakeRenderer) RegisterPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p)
	return nil
}

func (f *fakeRenderer) InitCubeTextureView(_ bind_group_provider.BindGroupProvider, binding int, data common.CubeTextureStagingData) error {
	if f.cubes == nil {
		f.cubes = make(map[int]common.CubeTextureStagingData)
	}
	f.cubes[binding] = data
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) InitBindGroup(_ bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.layout = d
	return nil
}

func (f *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, []bind_group_provider.BindGroupProvider) error {
	f.draws++
	return nil
}

func TestSkybox_BlendFactorClamped(t *testing.T) {
	s := NewSkybox(WithLogger(logger.Nop()))
	assert.Equal(t, float32(0), s.BlendFactor())

	s.SetBlendFactor(0.25)
	assert.Equal(t, float32(0.25), s.BlendFactor())
	s.SetBlendFactor(3)
	assert.Equal(t, float32(1), s.BlendFactor())
	s.SetBlendFactor(-1)
	assert.Equal(t, float32(0), s.BlendFactor())

	assert.Equal(t, float32(1), NewSkybox(WithLogger(logger.Nop()), WithBlendFactor(7)).BlendFactor())
}

func TestSkybox_Init(t *testing.T) {
	r := &fakeRenderer{}
	day := SolidCubemap(color.RGBA{R: 255, A: 255})
	s := NewSkybox(WithLogger(logger.Nop()), WithDayCubemap(day))

	require.NoError(t, s.Init(r))
	require.NoError(t, s.Init(r))
	assert.True(t, s.Initialized())

	require.Len(t, r.pipelines, 1)
	p := r.pipelines[0]
	assert.Equal(t, DefaultPipelineKey, p.PipelineKey())
	assert.Equal(t, wgpu.CullModeFront, p.CullMode())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
	require.Len(t, p.Shader().VertexLayouts(), 1)
	assert.Equal(t, uint64(12), p.Shader().VertexLayouts()[0].ArrayStride)

	assert.Equal(t, day, r.cubes[DayCubeBinding])
	assert.Equal(t, SolidCubemap(DefaultNightColor), r.cubes[NightCubeBinding])
	assert.Len(t, r.layout.Entries, 4)
	assert.Equal(t, 36, r.indexCount)
	assert.Len(t, r.vertexData, 24*12)
}

func TestSkybox_DrawWritesUniform(t *testing.T) {
	r := &fakeRenderer{}
	s := NewSkybox(WithLogger(logger.Nop()))

	s.Draw()
	assert.Zero(t, r.draws)

	require.NoError(t, s.Init(r))
	s.SetBlendFactor(0.5)
	s.SetMatrices(camera.GPUMatricesUniform{View: mgl32.Translate3D(1, 2, 3), Projection: mgl32.Ident4()})
	s.Draw()

	assert.Equal(t, 1, r.draws)
	require.Len(t, r.writes, 1)
	assert.Equal(t, SkyBinding, r.writes[0].Binding)
	assert.Len(t, r.writes[0].Data, 144)

	u := s.Uniform()
	assert.Equal(t, float32(0.5), u.Blend[0])
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), u.View)
}

func TestCubeGeometry_FacesOutward(t *testing.T) {
	positions, indices := cubeGeometry()
	for i := 0; i < len(indices); i += 3 {
		a, b, c := positions[indices[i]], positions[indices[i+1]], positions[indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d faces inward", i/3)
	}
}

func writeFace(t *testing.T, dir, name string, size int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadCubemap(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i := range paths {
		paths[i] = writeFace(t, dir, string(rune('a'+i))+".png", 4)
	}

	data, err := LoadCubemap(paths)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), data.Size)
	for _, face := range data.Faces {
		assert.Len(t, face, 4*4*4)
	}

	paths[3] = writeFace(t, dir, "big.png", 8)
	_, err = LoadCubemap(paths)
	assert.ErrorContains(t, err, "face 3")

	paths[3] = filepath.Join(dir, "missing.png")
	_, err = LoadCubemap(paths)
	assert.Error(t, err)
}
