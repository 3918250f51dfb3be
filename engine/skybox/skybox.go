package skybox

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPipelineKey is the key the skybox pipeline is registered under.
const DefaultPipelineKey = "skybox"

// Fallback face colors used when no cubemap was supplied.
var (
	DefaultDayColor   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	DefaultNightColor = color.RGBA{R: 8, G: 10, B: 28, A: 255}
)

// Renderer is the part of the renderer the skybox initializes and draws through.
type Renderer interface {
	bind_group_provider.UniformWriter
	model.MeshUploader
	RegisterPipeline(p pipeline.Pipeline) error
	InitCubeTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.CubeTextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
	DrawCall(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
}

type skybox struct {
	key   string
	day   common.CubeTextureStagingData
	night common.CubeTextureStagingData
	blend float32
	log   logger.Logger

	matrices camera.GPUMatricesUniform

	r            Renderer
	provider     bind_group_provider.BindGroupProvider
	meshProvider bind_group_provider.BindGroupProvider
	indexCount   int
	initialized  bool
	drawFailed   bool
}

// Skybox draws a camera-centered cube sampling two cubemaps, blended from day to night.
// It is drawn after the opaque geometry with front-face culling and a LessEqual depth test so it
// only fills pixels no object covered.
type Skybox interface {
	// BlendFactor returns the night blend factor in [0, 1].
	BlendFactor() float32

	// SetBlendFactor sets how much of the night cubemap is shown. Values are clamped to [0, 1].
	//
	// Parameters:
	//   - f: 0 shows the day cubemap, 1 the night cubemap
	SetBlendFactor(f float32)

	// SetMatrices sets the view and projection the skybox is drawn with. The translation of the
	// view is ignored.
	//
	// Parameters:
	//   - m: the camera matrices
	SetMatrices(m camera.GPUMatricesUniform)

	// Uniform packs the skybox uniform block.
	//
	// Returns:
	//   - GPUSkyUniform: the packed block
	Uniform() GPUSkyUniform

	// Init registers the skybox pipeline, uploads both cubemaps and the cube mesh.
	// Calling Init again on an initialized skybox is a no-op.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: error if any GPU resource cannot be created
	Init(r Renderer) error

	// Initialized reports whether Init succeeded.
	Initialized() bool

	// Draw uploads the uniform block and issues the draw call.
	Draw()

	// Release frees the GPU resources.
	Release()
}

var _ Skybox = &skybox{}

// NewSkybox creates a skybox. Missing cubemaps fall back to solid DefaultDayColor and
// DefaultNightColor faces.
//
// Parameters:
//   - options: variadic list of SkyboxBuilderOption functions
//
// Returns:
//   - Skybox: the skybox
func NewSkybox(options ...SkyboxBuilderOption) Skybox {
	s := &skybox{
		key: DefaultPipelineKey,
		log: logger.Default(),
		matrices: camera.GPUMatricesUniform{
			View:       mgl32.Ident4(),
			Projection: mgl32.Ident4(),
		},
	}
	for _, opt := range options {
		opt(s)
	}
	if len(s.day.Faces[0]) == 0 {
		s.log.Warnf("skybox: no day cubemap, using a solid color")
		s.day = SolidCubemap(DefaultDayColor)
	}
	if len(s.night.Faces[0]) == 0 {
		s.night = SolidCubemap(DefaultNightColor)
	}
	s.provider = bind_group_provider.NewBindGroupProvider("skybox", bind_group_provider.WithUniqueLabel())
	s.meshProvider = bind_group_provider.NewBindGroupProvider("skybox mesh", bind_group_provider.WithUniqueLabel())
	return s
}

func (s *skybox) BlendFactor() float32 {
	return s.blend
}

func (s *skybox) SetBlendFactor(f float32) {
	s.blend = max(0, min(f, 1))
}

func (s *skybox) SetMatrices(m camera.GPUMatricesUniform) {
	s.matrices = m
}

func (s *skybox) Uniform() GPUSkyUniform {
	return GPUSkyUniform{
		View:       s.matrices.View,
		Projection: s.matrices.Projection,
		Blend:      mgl32.Vec4{s.blend, 0, 0, 0},
	}
}

func (s *skybox) Init(r Renderer) error {
	if s.initialized {
		return nil
	}

	sh, err := shader.NewShader(s.key, ShaderSource)
	if err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	p := pipeline.NewPipeline(s.key, sh,
		pipeline.WithCullMode(wgpu.CullModeFront),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := r.RegisterPipeline(p); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	layout, ok := sh.BindGroupLayoutDescriptor(0)
	if !ok {
		return fmt.Errorf("skybox: shader has no bind group 0")
	}

	if err := r.InitCubeTextureView(s.provider, DayCubeBinding, s.day); err != nil {
		return fmt.Errorf("skybox: day cubemap: %w", err)
	}
	if err := r.InitCubeTextureView(s.provider, NightCubeBinding, s.night); err != nil {
		return fmt.Errorf("skybox: night cubemap: %w", err)
	}
	if err := r.InitSampler(s.provider, CubeSamplerBinding, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	if err := r.InitBindGroup(s.provider, layout); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}

	positions, indices := cubeGeometry()
	if err := r.InitMeshBuffers(s.meshProvider, marshalPositions(positions), model.MarshalIndices(indices), len(indices)); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	s.indexCount = len(indices)

	s.r = r
	s.initialized = true
	s.drawFailed = false
	return nil
}

func (s *skybox) Initialized() bool {
	return s.initialized
}

func (s *skybox) Draw() {
	if !s.initialized {
		return
	}
	u := s.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.provider,
		Binding:  SkyBinding,
		Data:     u.Marshal(),
	}})
	err := s.r.DrawCall(s.key, s.meshProvider, []bind_group_provider.BindGroupProvider{s.provider})
	if err != nil && !s.drawFailed {
		s.drawFailed = true
		s.log.Warnf("skybox: %v", err)
	}
}

func (s *skybox) Release() {
	s.provider.Release()
	s.meshProvider.Release()
	s.initialized = false
}

// cubeGeometry returns the positions and indices of a cube of half extent 1 whose faces wind
// counter-clockwise seen from outside.
func cubeGeometry() ([]mgl32.Vec3, []uint32) {
	vertices, indices := model.BoxGeometry(mgl32.Vec3{1, 1, 1})
	positions := make([]mgl32.Vec3, len(vertices))
	for i, v := range vertices {
		positions[i] = v.Position
	}
	return positions, indices
}

// SolidCubemap builds a cubemap with six 1x1 faces of a single color.
//
// Parameters:
//   - c: the face color
//
// Returns:
//   - common.CubeTextureStagingData: the staging data
func SolidCubemap(c color.RGBA) common.CubeTextureStagingData {
	var data common.CubeTextureStagingData
	data.Size = 1
	for i := range data.Faces {
		data.Faces[i] = []byte{c.R, c.G, c.B, c.A}
	}
	return data
}

// LoadCubemap decodes six face images in parallel. Faces are ordered +X, -X, +Y, -Y, +Z, -Z and
// must be square and of equal size.
//
// Parameters:
//   - paths: the six face image paths
//
// Returns:
//   - common.CubeTextureStagingData: the decoded faces
//   - error: the first decode error, or a size mismatch
func LoadCubemap(paths [6]string) (common.CubeTextureStagingData, error) {
	var (
		images [6]common.ImageData
		errs   [6]error
		wg     sync.WaitGroup
	)
	pool := worker.NewDynamicWorkerPool(len(paths), len(paths), 100*time.Millisecond)
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				images[i], errs[i] = common.LoadImage(path)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()
	pool.Stop()

	var data common.CubeTextureStagingData
	for i, img := range images {
		if errs[i] != nil {
			return common.CubeTextureStagingData{}, fmt.Errorf("skybox: face %d: %w", i, errs[i])
		}
		if img.Width != img.Height {
			return common.CubeTextureStagingData{}, fmt.Errorf("skybox: face %d is %dx%d, faces must be square", i, img.Width, img.Height)
		}
		if i == 0 {
			data.Size = uint32(img.Width)
		} else if uint32(img.Width) != data.Size {
			return common.CubeTextureStagingData{}, fmt.Errorf("skybox: face %d is %d pixels, face 0 is %d", i, img.Width, data.Size)
		}
		data.Faces[i] = img.Pixels
	}
	return data, nil
}
