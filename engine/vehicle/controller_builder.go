package vehicle

// ControllerBuilderOption is a function that configures a controller during construction.
type ControllerBuilderOption func(*controller)

// WithParameters replaces the default tuning.
//
// Parameters:
//   - p: the tuning
//
// Returns:
//   - ControllerBuilderOption: a function that applies the parameters option
func WithParameters(p Parameters) ControllerBuilderOption {
	return func(c *controller) {
		c.params = p
	}
}
