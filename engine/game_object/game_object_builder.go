package game_object

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a function that configures a game object during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the object's name, used in GPU labels and log lines.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the name option
func WithName(name string) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.name = name
	}
}

// WithEnabled sets whether the object is drawn. Objects are enabled by default.
//
// Parameters:
//   - enabled: true to draw
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the enabled option
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.enabled.Store(enabled)
	}
}

// WithModel sets the model to draw.
//
// Parameters:
//   - m: the model
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the model option
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.mdl = m
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the position option
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.SetPosition(p)
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the scale option
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.SetScale(s)
	}
}

// WithRotation sets the initial local rotation as Euler angles in degrees.
//
// Parameters:
//   - degrees: pitch, yaw, roll
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the rotation option
func WithRotation(degrees mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.SetRotation(degrees)
	}
}

// WithRotationSpeed sets the spin applied every Update, in degrees per second.
//
// Parameters:
//   - degreesPerSecond: per-axis spin
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the rotation speed option
func WithRotationSpeed(degreesPerSecond mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.rotationSpeed = degreesPerSecond
	}
}

// WithPipelineKey draws the object with another registered pipeline. Its shader must expose the
// object and material groups at the same indices as the lit pipeline.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the pipeline key option
func WithPipelineKey(key string) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.pipelineKey = key
	}
}

// WithLogger sets the logger used for draw failures.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the logger option
func WithLogger(l logger.Logger) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.log = l
	}
}
