package light

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*managerImpl)

// WithLogger sets the logger used for capacity warnings.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ManagerBuilderOption: a function that sets the logger
func WithLogger(l logger.Logger) ManagerBuilderOption {
	return func(m *managerImpl) {
		m.log = l
	}
}

// WithAmbient sets the ambient color and intensity.
//
// Parameters:
//   - color: ambient rgb
//   - intensity: ambient intensity
//
// Returns:
//   - ManagerBuilderOption: a function that sets the ambient term
func WithAmbient(color mgl32.Vec3, intensity float32) ManagerBuilderOption {
	return func(m *managerImpl) {
		m.ambientColor = color
		m.ambientIntensity = intensity
	}
}

// WithBindGroupProvider sets the provider the lights block is written into.
func WithBindGroupProvider(p bind_group_provider.BindGroupProvider) ManagerBuilderOption {
	return func(m *managerImpl) {
		m.provider = p
	}
}
