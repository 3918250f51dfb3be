package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// whiteTexel stands in for a missing diffuse texture so the bind group is always complete.
var whiteTexel = common.ImageData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}

// Initializer is the subset of the renderer a material needs to create its GPU resources.
type Initializer interface {
	bind_group_provider.UniformWriter
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
}

// material is the implementation of the Material interface.
type material struct {
	name           string
	ambient        mgl32.Vec3
	diffuse        mgl32.Vec3
	specular       mgl32.Vec3
	shininess      float32
	diffuseTexture *common.ImageData
	sampler        common.SamplerStagingData

	bindGroupProvider bind_group_provider.BindGroupProvider
	initialized       bool
	dirty             bool
}

// Material holds the Phong surface properties of a mesh (ambient, diffuse and specular color,
// shininess, optional diffuse texture) and the bind group that exposes them to the lit shader.
//
// Property setters mark the material dirty; Update uploads the parameters only when dirty.
// A material may be shared by several objects, in which case it is initialized once.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	Ambient() mgl32.Vec3
	SetAmbient(c mgl32.Vec3)
	Diffuse() mgl32.Vec3
	SetDiffuse(c mgl32.Vec3)
	Specular() mgl32.Vec3
	SetSpecular(c mgl32.Vec3)
	Shininess() float32
	SetShininess(s float32)

	// DiffuseTexture retrieves the diffuse image, or nil if the material is untextured.
	//
	// Returns:
	//   - *common.ImageData: the diffuse image or nil
	DiffuseTexture() *common.ImageData

	// Uniform packs the material parameters for the GPU.
	//
	// Returns:
	//   - GPUMaterialParams: the packed parameters
	Uniform() GPUMaterialParams

	// BindGroupProvider returns the provider holding the material's bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Initialized reports whether Init has completed.
	Initialized() bool

	// Init creates the texture, sampler and parameter buffer and the bind group tying them together.
	// Calling Init on an initialized material does nothing.
	//
	// Parameters:
	//   - r: the renderer creating the GPU objects
	//   - layout: the material group layout reflected from the shader
	//
	// Returns:
	//   - error: error if a GPU resource could not be created
	Init(r Initializer, layout wgpu.BindGroupLayoutDescriptor) error

	// Update uploads the parameters if a property changed since the last upload.
	//
	// Parameters:
	//   - w: the writer receiving the upload
	Update(w bind_group_provider.UniformWriter)

	// Release frees the GPU resources. The material can be initialized again afterwards.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a material with a light grey Phong surface (ambient 0.2, diffuse 0.8,
// specular 0.5, shininess 32).
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:      "default",
		ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		shininess: 32,
		dirty:     true,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider("material "+m.name, bind_group_provider.WithUniqueLabel())
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() mgl32.Vec3 {
	return m.ambient
}

func (m *material) SetAmbient(c mgl32.Vec3) {
	m.ambient = c
	m.dirty = true
}

func (m *material) Diffuse() mgl32.Vec3 {
	return m.diffuse
}

func (m *material) SetDiffuse(c mgl32.Vec3) {
	m.diffuse = c
	m.dirty = true
}

func (m *material) Specular() mgl32.Vec3 {
	return m.specular
}

func (m *material) SetSpecular(c mgl32.Vec3) {
	m.specular = c
	m.dirty = true
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) SetShininess(s float32) {
	m.shininess = s
	m.dirty = true
}

func (m *material) DiffuseTexture() *common.ImageData {
	return m.diffuseTexture
}

func (m *material) Uniform() GPUMaterialParams {
	var textured float32
	if m.diffuseTexture != nil {
		textured = 1
	}
	return GPUMaterialParams{
		Ambient:  m.ambient.Vec4(0),
		Diffuse:  m.diffuse.Vec4(textured),
		Specular: m.specular.Vec4(m.shininess),
	}
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Initialized() bool {
	return m.initialized
}

func (m *material) Init(r Initializer, layout wgpu.BindGroupLayoutDescriptor) error {
	if m.initialized {
		return nil
	}

	tex := whiteTexel
	if m.diffuseTexture != nil {
		tex = *m.diffuseTexture
	}
	if err := r.InitTextureView(m.bindGroupProvider, DiffuseTextureBinding, tex.Staging()); err != nil {
		return fmt.Errorf("material %s: diffuse texture: %w", m.name, err)
	}
	if err := r.InitSampler(m.bindGroupProvider, DiffuseSamplerBinding, m.sampler); err != nil {
		return fmt.Errorf("material %s: sampler: %w", m.name, err)
	}
	if err := r.InitBindGroup(m.bindGroupProvider, layout); err != nil {
		return fmt.Errorf("material %s: bind group: %w", m.name, err)
	}

	m.initialized = true
	m.dirty = true
	m.Update(r)
	return nil
}

func (m *material) Update(w bind_group_provider.UniformWriter) {
	if !m.initialized || !m.dirty {
		return
	}
	params := m.Uniform()
	w.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.bindGroupProvider,
		Binding:  ParamsBinding,
		Data:     params.Marshal(),
	}})
	m.dirty = false
}

func (m *material) Release() {
	m.bindGroupProvider.Release()
	m.initialized = false
}
