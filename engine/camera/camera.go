package camera

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects how a Camera projects view space onto the screen.
type ProjectionType int

const (
	// ProjectionPerspective is a standard field-of-view frustum.
	ProjectionPerspective ProjectionType = iota
	// ProjectionOrthographic is a symmetric box sized by the ortho size and aspect ratio.
	ProjectionOrthographic
)

func (p ProjectionType) String() string {
	switch p {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Default camera settings.
const (
	DefaultFov       = 45.0
	DefaultAspect    = 16.0 / 9.0
	DefaultNear      = 0.1
	DefaultFar       = 1000.0
	DefaultOrthoSize = 50.0
)

type cameraImpl struct {
	transform.Transform

	projectionType ProjectionType
	fov            float32
	aspect         float32
	near           float32
	far            float32
	orthoSize      float32

	viewMatrix       mgl32.Mat4
	viewVersion      uint64
	viewValid        bool
	projectionMatrix mgl32.Mat4
	projectionDirty  bool
}

// Camera is a Transform that additionally caches a view and a projection matrix.
//
// The view matrix is recomputed only after the pose changed (tracked through the transform
// version), the projection matrix only after a projection parameter or the projection type
// changed. Switching the projection type keeps every parameter, so toggling back restores
// the previous projection exactly. Scale has no effect on a camera.
type Camera interface {
	transform.Transform

	// ProjectionType returns the active projection type.
	//
	// Returns:
	//   - ProjectionType: perspective or orthographic
	ProjectionType() ProjectionType

	// SetProjectionType switches the projection type without touching any parameter.
	//
	// Parameters:
	//   - t: the projection type to use
	SetProjectionType(t ProjectionType)

	// SetPerspective switches to perspective projection with the given parameters.
	//
	// Parameters:
	//   - fov: vertical field of view in degrees
	//   - aspect: width / height
	//   - near: near plane distance
	//   - far: far plane distance
	SetPerspective(fov, aspect, near, far float32)

	// SetOrthographic switches to orthographic projection with the given parameters.
	//
	// Parameters:
	//   - size: the height of the view box in world units
	//   - near: near plane distance
	//   - far: far plane distance
	SetOrthographic(size, near, far float32)

	// Fov returns the vertical field of view in degrees.
	Fov() float32
	// SetFov sets the vertical field of view in degrees.
	SetFov(fov float32)
	// Aspect returns the aspect ratio (width / height).
	Aspect() float32
	// SetAspect sets the aspect ratio (width / height).
	SetAspect(aspect float32)
	// Near returns the near plane distance.
	Near() float32
	// SetNear sets the near plane distance.
	SetNear(near float32)
	// Far returns the far plane distance.
	Far() float32
	// SetFar sets the far plane distance.
	SetFar(far float32)
	// OrthoSize returns the height of the orthographic view box.
	OrthoSize() float32
	// SetOrthoSize sets the height of the orthographic view box.
	SetOrthoSize(size float32)

	// SetViewportSize derives the aspect ratio from a framebuffer size.
	// A zero height (minimized window) is ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetViewportSize(width, height int)

	// ViewMatrix returns the world-to-view matrix, looking from the position along Forward with Up.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the projection matrix for the active projection type.
	// The matrix uses the OpenGL clip-space convention (depth in [-1, 1]).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewDirty reports whether the next ViewMatrix call recomputes.
	ViewDirty() bool
	// ProjectionDirty reports whether the next ProjectionMatrix call recomputes.
	ProjectionDirty() bool

	// Uniform packs the view and projection matrices for the matrices uniform block.
	// The projection is remapped to the WebGPU depth range [0, 1].
	//
	// Returns:
	//   - GPUMatricesUniform: the packed block
	Uniform() GPUMatricesUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera at the origin looking down -Z with the default settings
// (45° fov, 16:9, near 0.1, far 1000, ortho size 50).
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		Transform:        transform.NewTransform(),
		projectionType:   ProjectionPerspective,
		fov:              DefaultFov,
		aspect:           DefaultAspect,
		near:             DefaultNear,
		far:              DefaultFar,
		orthoSize:        DefaultOrthoSize,
		viewMatrix:       mgl32.Ident4(),
		projectionMatrix: mgl32.Ident4(),
		projectionDirty:  true,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) ProjectionType() ProjectionType {
	return c.projectionType
}

func (c *cameraImpl) SetProjectionType(t ProjectionType) {
	c.projectionType = t
	c.projectionDirty = true
}

func (c *cameraImpl) SetPerspective(fov, aspect, near, far float32) {
	c.projectionType = ProjectionPerspective
	c.fov = fov
	c.aspect = aspect
	c.near = near
	c.far = far
	c.projectionDirty = true
}

func (c *cameraImpl) SetOrthographic(size, near, far float32) {
	c.projectionType = ProjectionOrthographic
	c.orthoSize = size
	c.near = near
	c.far = far
	c.projectionDirty = true
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = fov
	c.projectionDirty = true
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
	c.projectionDirty = true
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
	c.projectionDirty = true
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
	c.projectionDirty = true
}

func (c *cameraImpl) OrthoSize() float32 {
	return c.orthoSize
}

func (c *cameraImpl) SetOrthoSize(size float32) {
	c.orthoSize = size
	c.projectionDirty = true
}

func (c *cameraImpl) SetViewportSize(width, height int) {
	if height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

// SetScale is a no-op: a camera has no scale.
func (c *cameraImpl) SetScale(mgl32.Vec3) {}

// ScaleBy is a no-op: a camera has no scale.
func (c *cameraImpl) ScaleBy(mgl32.Vec3) {}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	if c.ViewDirty() {
		eye := c.Position()
		c.viewMatrix = mgl32.LookAtV(eye, eye.Add(c.Forward()), c.Up())
		c.viewVersion = c.Version()
		c.viewValid = true
	}
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	if c.projectionDirty {
		switch c.projectionType {
		case ProjectionOrthographic:
			halfWidth := c.orthoSize * c.aspect * 0.5
			halfHeight := c.orthoSize * 0.5
			c.projectionMatrix = mgl32.Ortho(-halfWidth, halfWidth, -halfHeight, halfHeight, c.near, c.far)
		default:
			c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
		}
		c.projectionDirty = false
	}
	return c.projectionMatrix
}

func (c *cameraImpl) ViewDirty() bool {
	return !c.viewValid || c.viewVersion != c.Version()
}

func (c *cameraImpl) ProjectionDirty() bool {
	return c.projectionDirty
}

func (c *cameraImpl) Uniform() GPUMatricesUniform {
	return GPUMatricesUniform{
		View:       c.ViewMatrix(),
		Projection: ClipSpaceCorrection.Mul4(c.ProjectionMatrix()),
	}
}
