package physics

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldBuilderOption is a function that configures a world during construction.
type WorldBuilderOption func(*world)

// WithGravity sets the initial gravity.
//
// Parameters:
//   - g: the gravity acceleration
//
// Returns:
//   - WorldBuilderOption: a function that applies the gravity option
func WithGravity(g mgl32.Vec3) WorldBuilderOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithGround replaces the flat ground, typically with a terrain. A nil ground is ignored.
//
// Parameters:
//   - g: the height field
//
// Returns:
//   - WorldBuilderOption: a function that applies the ground option
func WithGround(g Ground) WorldBuilderOption {
	return func(w *world) {
		if g != nil {
			w.ground = g
		}
	}
}

// WithFixedTimeStep sets the internal substep length. Non-positive values are ignored.
func WithFixedTimeStep(step float32) WorldBuilderOption {
	return func(w *world) {
		if step > 0 {
			w.fixedTimeStep = step
		}
	}
}

// WithLogger sets the logger used for dropped substeps.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - WorldBuilderOption: a function that applies the logger option
func WithLogger(l logger.Logger) WorldBuilderOption {
	return func(w *world) {
		w.log = l
	}
}
