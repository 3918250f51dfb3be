package skybox

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
)

// SkyboxBuilderOption is a function that configures a skybox during construction.
type SkyboxBuilderOption func(*skybox)

// WithDayCubemap sets the cubemap shown at blend factor 0.
//
// Parameters:
//   - data: the six faces
//
// Returns:
//   - SkyboxBuilderOption: a function that applies the day cubemap option
func WithDayCubemap(data common.CubeTextureStagingData) SkyboxBuilderOption {
	return func(s *skybox) {
		s.day = data
	}
}

// WithNightCubemap sets the cubemap shown at blend factor 1.
//
// Parameters:
//   - data: the six faces
//
// Returns:
//   - SkyboxBuilderOption: a function that applies the night cubemap option
func WithNightCubemap(data common.CubeTextureStagingData) SkyboxBuilderOption {
	return func(s *skybox) {
		s.night = data
	}
}

// WithBlendFactor sets the initial night blend factor.
func WithBlendFactor(f float32) SkyboxBuilderOption {
	return func(s *skybox) {
		s.blend = max(0, min(f, 1))
	}
}

// WithPipelineKey registers the skybox pipeline under another key.
func WithPipelineKey(key string) SkyboxBuilderOption {
	return func(s *skybox) {
		s.key = key
	}
}

// WithLogger sets the logger used for missing cubemaps and draw failures.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SkyboxBuilderOption: a function that applies the logger option
func WithLogger(l logger.Logger) SkyboxBuilderOption {
	return func(s *skybox) {
		s.log = l
	}
}
