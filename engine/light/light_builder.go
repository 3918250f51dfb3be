package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the local position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetPosition(p)
	}
}

// WithRotation is an option builder that sets the local rotation of the light from Euler degrees.
// Spot lights shine along the resulting forward axis.
//
// Parameters:
//   - degrees: pitch, yaw and roll
//
// Returns:
//   - LightBuilderOption: a function that applies the rotation option to a lightImpl
func WithRotation(degrees mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetRotation(degrees)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.properties.Color = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.properties.Intensity = intensity
	}
}

// WithRadius is an option builder that sets the cutoff radius.
//
// Parameters:
//   - radius: the radius in world units
//
// Returns:
//   - LightBuilderOption: a function that applies the radius option to a lightImpl
func WithRadius(radius float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.properties.Radius = radius
	}
}

// WithAttenuation is an option builder that sets the falloff terms.
//
// Parameters:
//   - constant: the constant term
//   - linear: the linear term
//   - quadratic: the quadratic term
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = Attenuation{Constant: constant, Linear: linear, Quadratic: quadratic}
	}
}

// WithFocus is an option builder that sets the spot focus exponent, clamped to at least 1.
//
// Parameters:
//   - exponent: the focus exponent
//
// Returns:
//   - LightBuilderOption: a function that applies the focus option to a lightImpl
func WithFocus(exponent float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetFocus(exponent)
	}
}
