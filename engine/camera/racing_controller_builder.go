package camera

import "github.com/go-gl/mathgl/mgl32"

// RacingControllerBuilderOption is a functional option for configuring a RacingController.
type RacingControllerBuilderOption func(*racingControllerImpl)

// WithRacingSettings replaces the default tuning.
//
// Parameters:
//   - s: the chase camera settings
//
// Returns:
//   - RacingControllerBuilderOption: a function that applies the settings
func WithRacingSettings(s RacingSettings) RacingControllerBuilderOption {
	return func(r *racingControllerImpl) {
		r.settings = s
	}
}

// WithOrientationMode selects direct or smoothed look-at.
//
// Parameters:
//   - mode: the orientation mode
//
// Returns:
//   - RacingControllerBuilderOption: a function that sets the mode
func WithOrientationMode(mode OrientationMode) RacingControllerBuilderOption {
	return func(r *racingControllerImpl) {
		r.settings.Mode = mode
	}
}

// WithWorldUp overrides the up hint used when orienting the camera. Defaults to +Y.
func WithWorldUp(up mgl32.Vec3) RacingControllerBuilderOption {
	return func(r *racingControllerImpl) {
		r.worldUp = up.Normalize()
	}
}
