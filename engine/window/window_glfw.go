package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("window: initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.size.width, w.size.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("window: create GLFW window: %w", err)
	}

	minW, minH := w.minSize.limit(glfw.DontCare)
	maxW, maxH := w.maxSize.limit(glfw.DontCare)
	win.SetSizeLimits(minW, minH, maxW, maxH)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	gw.bind()

	// The framebuffer may be larger than the requested size on high-DPI displays.
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.size = size{fbWidth, fbHeight}
	if w.captured {
		platformSetCursorCaptured(w, true)
	}

	return nil
}

// bind routes GLFW input and framebuffer events to the parent's callbacks.
// Framebuffer size is used rather than window size so high-DPI surfaces are configured in pixels.
//
// Reference: https://www.glfw.org/docs/latest/input_guide.html
func (gw *glfwWindow) bind() {
	gw.window.SetKeyCallback(gw.onKey)
	gw.window.SetScrollCallback(gw.onScroll)
	gw.window.SetMouseButtonCallback(gw.onMouseButton)
	gw.window.SetCursorPosCallback(gw.onCursorPos)
	gw.window.SetFramebufferSizeCallback(gw.onFramebufferSize)
}

func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	w := gw.parent
	if key == glfw.KeyUnknown {
		return
	}
	if w.escapeCloses && key == glfw.KeyEscape {
		if action == glfw.Press {
			platformRequestClose(w)
		}
		return
	}
	var cb func(uint32)
	switch action {
	case glfw.Press, glfw.Repeat:
		cb = w.onKeyDown
	case glfw.Release:
		cb = w.onKeyUp
	}
	if cb != nil {
		cb(uint32(key))
	}
}

// onScroll forwards the vertical wheel offset only.
func (gw *glfwWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	if cb := gw.parent.onScroll; cb != nil {
		cb(float32(yoff))
	}
}

func (gw *glfwWindow) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	cb := gw.parent.onMouseButtonUp
	if action == glfw.Press {
		cb = gw.parent.onMouseButtonDown
	}
	if cb == nil {
		return
	}
	x, y := win.GetCursorPos()
	cb(int(button), int32(x), int32(y))
}

// onCursorPos reports positions that grow without bound while the cursor is captured.
func (gw *glfwWindow) onCursorPos(_ *glfw.Window, x, y float64) {
	if cb := gw.parent.onMouseMove; cb != nil {
		cb(int32(x), int32(y))
	}
}

func (gw *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	w := gw.parent
	w.size = size{width, height}
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
//
// Parameters:
//   - w: the engineWindow to check
//
// Returns:
//   - bool: true if the window is still running
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
// Returns an error if the internal window has not been initialized.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
// This is the GLFW equivalent of the Win32 PeekMessage loop.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}

// platformSetCursorCaptured switches GLFW between the disabled (locked, hidden) and normal cursor modes.
//
// Reference: https://www.glfw.org/docs/latest/input_guide.html#cursor_mode
func platformSetCursorCaptured(w *engineWindow, captured bool) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	mode := glfw.CursorNormal
	if captured {
		mode = glfw.CursorDisabled
	}
	gw.window.SetInputMode(glfw.CursorMode, mode)
}

func platformSetTitle(w *engineWindow, title string) {
	if w.internalWindow == nil {
		return
	}
	w.internalWindow.(*glfwWindow).window.SetTitle(title)
}

// platformRequestClose flags the window so the next IsRunning check fails.
func platformRequestClose(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
}
