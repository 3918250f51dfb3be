package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPerspective configures a perspective projection.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection
func WithPerspective(fov, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetPerspective(fov, aspect, near, far)
	}
}

// WithOrthographic configures an orthographic projection.
//
// Parameters:
//   - size: the height of the view box in world units
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection
func WithOrthographic(size, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetOrthographic(size, near, far)
	}
}

// WithPosition places the camera.
//
// Parameters:
//   - p: world position
//
// Returns:
//   - CameraBuilderOption: a function that sets the position
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetPosition(p)
	}
}

// WithLookAt orients the camera towards target. Apply it after WithPosition.
//
// Parameters:
//   - target: the point to face
//   - up: the up hint
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithLookAt(target, up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.LookAt(target, up)
	}
}

// WithRotation sets the camera orientation from Euler angles in degrees.
//
// Parameters:
//   - degrees: pitch, yaw and roll
//
// Returns:
//   - CameraBuilderOption: a function that sets the rotation
func WithRotation(degrees mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetRotation(degrees)
	}
}
