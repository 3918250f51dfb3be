package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested client area size. Non-positive values keep the default.
//
// Parameters:
//   - width: requested width in screen coordinates
//   - height: requested height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.size = w.size.or(size{width, height})
	}
}

// WithSizeLimits bounds interactive resizing. A zero size leaves that bound unlimited.
//
// Parameters:
//   - minWidth, minHeight: smallest allowed client area
//   - maxWidth, maxHeight: largest allowed client area
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minSize = size{minWidth, minHeight}
		w.maxSize = size{maxWidth, maxHeight}
	}
}

// WithCursorCaptured starts the window with the cursor hidden and locked.
func WithCursorCaptured(captured bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.captured = captured
	}
}

// WithEscapeCloses controls whether Escape closes the window before the key reaches the callbacks.
// Disable it when the game handles Escape itself.
func WithEscapeCloses(closes bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.escapeCloses = closes
	}
}
