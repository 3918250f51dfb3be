package camera

// FlyControllerBuilderOption is a functional option for configuring a FlyController.
type FlyControllerBuilderOption func(*flyControllerImpl)

// WithFlySpeed sets the base movement speed in units per second.
//
// Parameters:
//   - speed: the movement speed
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the speed
func WithFlySpeed(speed float32) FlyControllerBuilderOption {
	return func(f *flyControllerImpl) {
		f.speed = speed
	}
}

// WithMouseSensitivity sets the degrees turned per pixel of mouse movement.
//
// Parameters:
//   - sensitivity: degrees per pixel
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the sensitivity
func WithMouseSensitivity(sensitivity float32) FlyControllerBuilderOption {
	return func(f *flyControllerImpl) {
		f.sensitivity = sensitivity
	}
}

// WithInvertY flips vertical mouse look.
//
// Parameters:
//   - invert: true to invert
//
// Returns:
//   - FlyControllerBuilderOption: a function that sets the inversion
func WithInvertY(invert bool) FlyControllerBuilderOption {
	return func(f *flyControllerImpl) {
		f.invertY = invert
	}
}
