package scene

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/light"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/skybox"
)

// SceneBuilderOption is a function that configures a scene during construction.
type SceneBuilderOption func(s *scene)

// WithFog sets the initial fog.
//
// Parameters:
//   - f: the fog
//
// Returns:
//   - SceneBuilderOption: a function that applies the fog option
func WithFog(f Fog) SceneBuilderOption {
	return func(s *scene) {
		s.fog = f
	}
}

// WithSkybox sets a skybox that NewScene initializes.
//
// Parameters:
//   - sky: the skybox
//
// Returns:
//   - SceneBuilderOption: a function that applies the skybox option
func WithSkybox(sky skybox.Skybox) SceneBuilderOption {
	return func(s *scene) {
		s.sky = sky
	}
}

// WithLightManager uses m instead of a new manager. The scene rebinds m to its uniforms provider.
//
// Parameters:
//   - m: the light manager
//
// Returns:
//   - SceneBuilderOption: a function that applies the light manager option
func WithLightManager(m light.Manager) SceneBuilderOption {
	return func(s *scene) {
		s.lights = m
	}
}

// WithLitPipelineOptions adds options to the lit pipeline, e.g. pipeline.WithCullMode(wgpu.CullModeNone)
// for a debug view of back faces.
func WithLitPipelineOptions(opts ...pipeline.PipelineBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.litOptions = append(s.litOptions, opts...)
	}
}

// WithLogger sets the logger handed to the default light manager.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SceneBuilderOption: a function that applies the logger option
func WithLogger(l logger.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.log = l
	}
}
