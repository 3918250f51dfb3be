package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose message loop drives the engine. Required.
//
// Parameters:
//   - w: a window, usually a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer whose frame lifecycle wraps the scene draw.
//
// Parameters:
//   - r: a renderer, usually a renderer.Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the scene drawn every frame.
//
// Parameters:
//   - s: a scene, usually a scene.Scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithInput sets the input state rolled over at the end of every frame.
func WithInput(in FrameInput) EngineBuilderOption {
	return func(e *engine) {
		e.input = in
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default log profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithMaxDelta sets the upper bound of the per-frame delta time.
// Values <= 0 keep DefaultMaxDelta.
//
// Parameters:
//   - seconds: the largest delta handed to the tick callback and scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxDelta(seconds float32) EngineBuilderOption {
	return func(e *engine) {
		if seconds > 0 {
			e.maxDelta = seconds
		}
	}
}

// WithClock replaces time.Now for frame timing.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}

// WithLogger sets the logger receiving frame errors and recovered panics.
func WithLogger(l logger.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.log = l
	}
}
