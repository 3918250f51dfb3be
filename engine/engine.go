package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/profiler"
)

// DefaultMaxDelta caps the frame delta so a stall (window drag, breakpoint) does not turn into one
// huge simulation step.
const DefaultMaxDelta = float32(1.0 / 30)

// Window is the part of window.Window the engine drives.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	RequestClose()
}

// FrameRenderer is the part of renderer.Renderer the engine drives.
type FrameRenderer interface {
	Resize(width, height int)
	BeginFrame() error
	EndFrame()
	Present()
}

// Scene is the part of scene.Scene the engine drives.
type Scene interface {
	Camera() camera.Camera
	Update(dt float32)
	Draw()
}

// FrameInput is the part of input.State the engine drives.
type FrameInput interface {
	EndFrame()
}

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	window   Window
	renderer FrameRenderer
	scene    Scene
	input    FrameInput

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	lateTickCallback func(deltaTime float32)
	resizeCallback   func(width, height int)

	maxDelta  float32
	now       func() time.Time
	lastFrame time.Time
	log       logger.Logger

	beginFailed bool
}

// Engine runs the frame loop on the goroutine that owns the window. Each message loop iteration
// is one frame: the window has already polled its events into the input state, then the tick
// callback runs, then the scene updates, the late tick callback runs, the scene draws and presents,
// and finally the input state rolls over.
//
// A panic inside a frame is logged and stops the engine instead of crashing the process.
type Engine interface {
	// Window returns the window the engine drives.
	Window() Window

	// Scene returns the scene drawn every frame.
	Scene() Scene

	// SetScene replaces the scene drawn every frame. Nil draws nothing.
	SetScene(s Scene)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called once per frame before the scene updates.
	// Use this for input handling, physics stepping and camera controllers.
	//
	// Parameters:
	//   - callback: function receiving the clamped delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetLateTickCallback registers the function called once per frame after the scene updated and
	// before it draws. Use this for cameras that follow objects moved by the update.
	//
	// Parameters:
	//   - callback: function receiving the same delta time as the tick callback
	SetLateTickCallback(callback func(deltaTime float32))

	// SetResizeCallback registers a function called after the engine has resized the renderer
	// and the scene camera.
	//
	// Parameters:
	//   - callback: function receiving the new surface size in pixels
	SetResizeCallback(callback func(width, height int))

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	Run()

	// Quit stops the frame loop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Done is closed once the engine has stopped.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Panics if no window was given.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, scene, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		maxDelta:    DefaultMaxDelta,
		now:         time.Now,
		log:         logger.Default(),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		panic("engine: nil window")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.log))
	}

	e.window.SetResizeCallback(e.resize)
	e.window.SetUpdateCallback(e.frame)
	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Scene() Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) SetScene(s Scene) {
	e.mu.Lock()
	e.scene = s
	e.mu.Unlock()
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.profilingEnabled {
		e.profiler.Reset()
	}
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.tickCallback = callback
	e.mu.Unlock()
}

func (e *engine) SetLateTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.lateTickCallback = callback
	e.mu.Unlock()
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.mu.Lock()
	e.resizeCallback = callback
	e.mu.Unlock()
}

func (e *engine) Run() {
	select {
	case <-e.quitChannel:
		return
	default:
	}
	e.lastFrame = e.now()
	e.window.ProcessMessages()
	e.signalQuit()
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	e.window.RequestClose()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// delta returns the clamped time since the previous frame.
func (e *engine) delta() float32 {
	now := e.now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	return max(0, min(dt, e.maxDelta))
}

// frame runs one iteration of the loop. It is the window's update callback.
func (e *engine) frame() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}
	// Recover from panics inside the frame to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("engine: frame recovered from panic: %v", r)
			e.Quit()
		}
	}()

	e.mu.Lock()
	tick, late, s, profiling := e.tickCallback, e.lateTickCallback, e.scene, e.profilingEnabled
	e.mu.Unlock()

	dt := e.delta()
	if tick != nil {
		tick(dt)
	}

	if s != nil {
		s.Update(dt)
	}
	if late != nil {
		late(dt)
	}
	if s != nil {
		e.render(s)
	}

	if e.input != nil {
		e.input.EndFrame()
	}
	if profiling {
		e.profiler.Tick()
	}
}

func (e *engine) render(s Scene) {
	if e.renderer == nil {
		return
	}
	if err := e.renderer.BeginFrame(); err != nil {
		// the surface is unavailable while minimized; log once per outage
		if !e.beginFailed {
			e.beginFailed = true
			e.log.Warnf("engine: begin frame: %v", err)
		}
		return
	}
	e.beginFailed = false
	s.Draw()
	e.renderer.EndFrame()
	e.renderer.Present()
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}

	e.mu.Lock()
	s, cb := e.scene, e.resizeCallback
	e.mu.Unlock()

	if s != nil && s.Camera() != nil {
		s.Camera().SetViewportSize(width, height)
	}
	if cb != nil {
		cb(width, height)
	}
}
