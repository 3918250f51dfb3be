package material

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient sets the ambient reflectance (MTL Ka).
//
// Parameters:
//   - c: the RGB ambient color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient color to a material
func WithAmbient(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = c
	}
}

// WithDiffuse sets the diffuse reflectance (MTL Kd).
//
// Parameters:
//   - c: the RGB diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse color to a material
func WithDiffuse(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = c
	}
}

// WithSpecular sets the specular reflectance (MTL Ks).
//
// Parameters:
//   - c: the RGB specular color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular color to a material
func WithSpecular(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
	}
}

// WithShininess sets the specular exponent (MTL Ns).
//
// Parameters:
//   - s: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess to a material
func WithShininess(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = s
	}
}

// WithDiffuseTexture sets the diffuse image (MTL map_Kd).
//
// Parameters:
//   - img: the decoded image
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture to a material
func WithDiffuseTexture(img *common.ImageData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = img
	}
}

// WithSampler overrides the sampler configuration of the diffuse texture. Zero fields keep the
// linear repeat defaults.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler to a material
func WithSampler(s common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = s
	}
}

// WithBindGroupProvider replaces the provider the material creates by default.
//
// Parameters:
//   - provider: the provider
//
// Returns:
//   - MaterialBuilderOption: a function that applies the provider to a material
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
