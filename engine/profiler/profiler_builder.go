package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
)

// ProfilerBuilderOption is a function that configures a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are reported.
//
// Parameters:
//   - d: the reporting interval; values <= 0 are ignored
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithOutput replaces the log output, e.g. to show FPS in the window title.
func WithOutput(output func(Stats)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.output = output
	}
}

// WithLogger writes the stats line to log instead of logger.Default().
func WithLogger(log logger.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.output = logStats(log)
	}
}

// WithMemoryStats toggles runtime.ReadMemStats, which briefly stops the world.
func WithMemoryStats(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.memory = enabled
	}
}
