package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
)

// Stats is one reporting interval's summary.
type Stats struct {
	FPS float64
	// FrameTime figures are in milliseconds.
	AvgFrameTime float64
	MaxFrameTime float64
	HeapMB       float64
	AllocRateMB  float64
	SysMB        float64
	NumGC        uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	maxFrame       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now    func() time.Time
	output func(Stats)
	memory bool
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second and stats are
// written at info level to logger.Default().
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		output:         logStats(logger.Default()),
		memory:         true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset restarts the interval, e.g. after the profiler was disabled for a while.
func (p *Profiler) Reset() {
	now := p.now()
	p.frameCount = 0
	p.lastTime = now
	p.lastFrame = now
	p.maxFrame = 0
}

// Last returns the stats of the most recent completed interval.
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Reports statistics when the update interval has elapsed.
// Statistics include: FPS, frame time, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	if ft := currentTime.Sub(p.lastFrame); ft > p.maxFrame {
		p.maxFrame = ft
	}
	p.lastFrame = currentTime

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameTime: elapsed.Seconds() * 1000 / float64(p.frameCount),
		MaxFrameTime: float64(p.maxFrame.Microseconds()) / 1000,
	}
	if p.memory {
		p.readMemory(&s, elapsed)
	}
	p.last = s
	p.output(s)

	p.frameCount = 0
	p.lastTime = currentTime
	p.maxFrame = 0
	return true
}

func (p *Profiler) readMemory(s *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	// Alloc: bytes of live heap objects. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	s.NumGC = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}

func logStats(log logger.Logger) func(Stats) {
	return func(s Stats) {
		log.Infof("profiler: FPS: %.2f | Frame: %.2f ms (max %.2f ms) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.FPS, s.AvgFrameTime, s.MaxFrameTime, s.HeapMB, s.AllocRateMB, s.NumGC, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}
}
