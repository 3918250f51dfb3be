package window

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Callbacks registers the handlers a window invokes from its message loop.
// Passing nil removes a handler. Every handler runs on the window's thread.
type Callbacks interface {
	// SetUpdateCallback runs once per message loop iteration, after events are polled.
	SetUpdateCallback(callback func())

	// SetResizeCallback receives the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback receives the vertical wheel offset; positive scrolls up.
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback receives a common.Key* code on press and on auto-repeat.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback receives a common.Key* code on release.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseButtonDownCallback receives a common.MouseButton* code and the cursor position.
	SetMouseButtonDownCallback(callback func(button int, x, y int32))

	// SetMouseButtonUpCallback receives a common.MouseButton* code and the cursor position.
	SetMouseButtonUpCallback(callback func(button int, x, y int32))

	// SetMouseMoveCallback receives the cursor position in screen coordinates.
	SetMouseMoveCallback(callback func(x, y int32))
}

// Window is a GLFW window that presents WebGPU frames and reports input through Callbacks.
type Window interface {
	Callbacks

	// SetCursorCaptured hides and locks the cursor for mouse look when captured is true.
	SetCursorCaptured(captured bool)

	// SetTitle changes the title bar text.
	SetTitle(title string)

	// RequestClose stops the message loop after the current iteration without releasing the window,
	// so it is safe to call from a callback.
	RequestClose()

	// SurfaceDescriptor builds the WebGPU surface descriptor through the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil before the platform window exists
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and no close was requested.
	IsRunning() bool

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: non-nil when the window was never created
	Close() error

	// ProcessMessages polls events and calls the update callback until the window closes.
	ProcessMessages()

	// Width and Height return the framebuffer size in pixels.
	Width() int
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// size is the current client area in pixels. Before the platform window exists it holds the requested size.
	size size

	// minSize and maxSize bound interactive resizing; zero components are unlimited.
	minSize, maxSize size

	// captured is the cursor capture state applied when the platform window is created.
	captured bool

	// escapeCloses closes the window on Escape instead of forwarding the key.
	escapeCloses bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onScroll is called for mouse wheel events.
	// Positive delta = scroll up (zoom in), negative = scroll down (zoom out).
	onScroll func(delta float32)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode uint32)

	// onMouseButtonDown is called when a mouse button is pressed.
	onMouseButtonDown func(button int, x, y int32)

	// onMouseButtonUp is called when a mouse button is released.
	onMouseButtonUp func(button int, x, y int32)

	// onMouseMove is called when the mouse moves within the window.
	onMouseMove func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window (not yet spawned)
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:        "oxy-racer",
		size:         size{1600, 900},
		minSize:      size{640, 360},
		escapeCloses: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(err.Error())
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonDownCallback(callback func(button int, x, y int32)) {
	w.onMouseButtonDown = callback
}

func (w *engineWindow) SetMouseButtonUpCallback(callback func(button int, x, y int32)) {
	w.onMouseButtonUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	w.captured = captured
	platformSetCursorCaptured(w, captured)
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.size.width
}

func (w *engineWindow) Height() int {
	return w.size.height
}

// size is a width and height pair in pixels or screen coordinates.
type size struct {
	width, height int
}

// or returns s with every positive component of other copied over it.
func (s size) or(other size) size {
	if other.width > 0 {
		s.width = other.width
	}
	if other.height > 0 {
		s.height = other.height
	}
	return s
}

// limit converts a zero component to GLFW's DontCare sentinel.
func (s size) limit(dontCare int) (int, int) {
	w, h := s.width, s.height
	if w <= 0 {
		w = dontCare
	}
	if h <= 0 {
		h = dontCare
	}
	return w, h
}
