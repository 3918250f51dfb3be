package input

import (
	"maps"
	"sync"
)

// EventSource is the subset of window callbacks Bind wires into a State.
type EventSource interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseButtonDownCallback(callback func(button int, x, y int32))
	SetMouseButtonUpCallback(callback func(button int, x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
	SetScrollCallback(callback func(delta float32))
}

type state struct {
	mu sync.RWMutex

	keys     map[int]bool
	prevKeys map[int]bool

	buttons     map[int]bool
	prevButtons map[int]bool

	cursorX, cursorY float32
	hasCursor        bool
	dx, dy           float32
	scroll           float32
}

// State is the keyboard and mouse state of one frame. Window callbacks record events as they
// arrive; queries answer against the events recorded since the last EndFrame. Pressed and released
// edges compare against the snapshot taken by EndFrame.
//
// Callbacks may fire on any goroutine, so every method is safe for concurrent use.
type State interface {
	// IsKeyDown reports whether key is held.
	IsKeyDown(key int) bool
	// IsKeyUp reports whether key is not held.
	IsKeyUp(key int) bool
	// IsKeyPressed reports whether key went down this frame.
	IsKeyPressed(key int) bool
	// IsKeyReleased reports whether key went up this frame.
	IsKeyReleased(key int) bool

	// IsMouseButtonDown reports whether button is held.
	IsMouseButtonDown(button int) bool
	// IsMouseButtonPressed reports whether button went down this frame.
	IsMouseButtonPressed(button int) bool

	// Cursor returns the last known cursor position in window pixels.
	Cursor() (x, y float32)

	// MouseDelta returns the cursor movement accumulated this frame.
	//
	// Returns:
	//   - dx: horizontal movement in pixels, positive to the right
	//   - dy: vertical movement in pixels, positive downwards
	MouseDelta() (dx, dy float32)

	// ScrollDelta returns the wheel movement accumulated this frame, positive away from the user.
	ScrollDelta() float32

	// KeyDown records a key press.
	KeyDown(key int)
	// KeyUp records a key release.
	KeyUp(key int)
	// MouseButtonDown records a button press.
	MouseButtonDown(button int)
	// MouseButtonUp records a button release.
	MouseButtonUp(button int)
	// MouseMove records a cursor position. The first position seeds the cursor without a delta.
	MouseMove(x, y float32)
	// Scroll records wheel movement.
	Scroll(delta float32)

	// EndFrame snapshots the held keys and buttons for edge detection and clears the per-frame deltas.
	// Call it once per frame after all consumers have read the state.
	EndFrame()

	// Bind routes the callbacks of src into this state.
	//
	// Parameters:
	//   - src: the event source, usually a window.Window
	Bind(src EventSource)
}

var _ State = &state{}

// NewState creates an empty input state.
//
// Returns:
//   - State: a state with nothing held
func NewState() State {
	return &state{
		keys:        make(map[int]bool),
		prevKeys:    make(map[int]bool),
		buttons:     make(map[int]bool),
		prevButtons: make(map[int]bool),
	}
}

func (s *state) IsKeyDown(key int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[key]
}

func (s *state) IsKeyUp(key int) bool {
	return !s.IsKeyDown(key)
}

func (s *state) IsKeyPressed(key int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[key] && !s.prevKeys[key]
}

func (s *state) IsKeyReleased(key int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.keys[key] && s.prevKeys[key]
}

func (s *state) IsMouseButtonDown(button int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buttons[button]
}

func (s *state) IsMouseButtonPressed(button int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buttons[button] && !s.prevButtons[button]
}

func (s *state) Cursor() (float32, float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursorX, s.cursorY
}

func (s *state) MouseDelta() (float32, float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dx, s.dy
}

func (s *state) ScrollDelta() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scroll
}

func (s *state) KeyDown(key int) {
	s.mu.Lock()
	s.keys[key] = true
	s.mu.Unlock()
}

func (s *state) KeyUp(key int) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

func (s *state) MouseButtonDown(button int) {
	s.mu.Lock()
	s.buttons[button] = true
	s.mu.Unlock()
}

func (s *state) MouseButtonUp(button int) {
	s.mu.Lock()
	delete(s.buttons, button)
	s.mu.Unlock()
}

func (s *state) MouseMove(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCursor {
		s.dx += x - s.cursorX
		s.dy += y - s.cursorY
	}
	s.cursorX, s.cursorY = x, y
	s.hasCursor = true
}

func (s *state) Scroll(delta float32) {
	s.mu.Lock()
	s.scroll += delta
	s.mu.Unlock()
}

func (s *state) EndFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prevKeys = maps.Clone(s.keys)
	s.prevButtons = maps.Clone(s.buttons)
	s.dx, s.dy = 0, 0
	s.scroll = 0
}

func (s *state) Bind(src EventSource) {
	src.SetKeyDownCallback(func(keyCode uint32) { s.KeyDown(int(keyCode)) })
	src.SetKeyUpCallback(func(keyCode uint32) { s.KeyUp(int(keyCode)) })
	src.SetMouseButtonDownCallback(func(button int, x, y int32) {
		s.MouseMove(float32(x), float32(y))
		s.MouseButtonDown(button)
	})
	src.SetMouseButtonUpCallback(func(button int, x, y int32) {
		s.MouseMove(float32(x), float32(y))
		s.MouseButtonUp(button)
	})
	src.SetMouseMoveCallback(func(x, y int32) { s.MouseMove(float32(x), float32(y)) })
	src.SetScrollCallback(s.Scroll)
}
