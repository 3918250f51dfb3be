package scene_graph

// GraphBuilderOption is a functional option for configuring a Graph.
type GraphBuilderOption func(g *graphImpl)

// WithReleaseHook registers a function called for every drawable freed by Remove.
// Owners use it to release GPU or physics resources held by the drawable.
//
// Parameters:
//   - hook: the function to call
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithReleaseHook(hook func(Drawable)) GraphBuilderOption {
	return func(g *graphImpl) {
		g.release = hook
	}
}

// WithCapacity preallocates room for n nodes.
//
// Parameters:
//   - n: the expected number of nodes
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithCapacity(n int) GraphBuilderOption {
	return func(g *graphImpl) {
		if n > len(g.slots) {
			slots := make([]slot, len(g.slots), n)
			copy(slots, g.slots)
			g.slots = slots
		}
	}
}
