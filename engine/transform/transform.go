// Package transform holds the per-object pose used by every placeable engine object.
//
// A Transform is not safe for concurrent use. All mutation happens on the frame goroutine.
package transform

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// transformImpl is the implementation of the Transform interface.
type transformImpl struct {
	position    mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3

	// modelMatrix is valid only while dirty is false.
	modelMatrix mgl32.Mat4
	dirty       bool

	worldMatrix      mgl32.Mat4
	worldPosition    mgl32.Vec3
	worldOrientation mgl32.Quat
	worldScale       mgl32.Vec3

	version uint64
}

// Transform is the local pose of an object (position, orientation, scale) plus the world
// matrix injected by the owning hierarchy.
//
// The local model matrix is computed lazily as Translate · Rotate · Scale and cached until the
// next pose mutation. The world matrix is never derived from the local pose alone; it is set with
// SetWorldMatrix (or ApplyTransformations) and decomposed into world position, orientation and scale.
type Transform interface {
	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Move offsets the local position.
	//
	// Parameters:
	//   - delta: the offset to add
	Move(delta mgl32.Vec3)

	// Orientation returns the local orientation.
	//
	// Returns:
	//   - mgl32.Quat: the unit quaternion
	Orientation() mgl32.Quat

	// SetOrientation replaces the local orientation. The input is normalized.
	//
	// Parameters:
	//   - q: the new orientation
	SetOrientation(q mgl32.Quat)

	// SetOrientationBasis orients the object so that its forward axis is forward and its up axis
	// lies in the plane of forward and up. Parallel inputs produce NaN.
	//
	// Parameters:
	//   - forward: the desired forward direction
	//   - up: the up hint
	SetOrientationBasis(forward, up mgl32.Vec3)

	// Rotation returns the local orientation as Euler angles in degrees (pitch, yaw, roll).
	//
	// Returns:
	//   - mgl32.Vec3: pitch, yaw and roll in degrees
	Rotation() mgl32.Vec3

	// SetRotation replaces the local orientation with one built from Euler angles in degrees.
	//
	// Parameters:
	//   - degrees: pitch (X), yaw (Y) and roll (Z) in degrees
	SetRotation(degrees mgl32.Vec3)

	// Rotate pre-multiplies a delta rotation built from Euler angles in degrees onto the orientation.
	//
	// Parameters:
	//   - degrees: pitch (X), yaw (Y) and roll (Z) deltas in degrees
	Rotate(degrees mgl32.Vec3)

	// LookAt orients the object so its forward axis points from its position towards target.
	//
	// Parameters:
	//   - target: the point to face
	//   - up: the up hint
	LookAt(target, up mgl32.Vec3)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the per-axis scale
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the new per-axis scale
	SetScale(s mgl32.Vec3)

	// ScaleBy multiplies the local scale component-wise.
	//
	// Parameters:
	//   - factor: the per-axis multiplier
	ScaleBy(factor mgl32.Vec3)

	// ModelMatrix returns Translate · Rotate · Scale of the local pose, recomputing it only
	// after a mutation.
	//
	// Returns:
	//   - mgl32.Mat4: the local model matrix
	ModelMatrix() mgl32.Mat4

	// SetModelMatrix decomposes m into the local position, orientation and scale.
	// Passing the currently cached matrix is a no-op.
	//
	// Parameters:
	//   - m: an affine matrix
	SetModelMatrix(m mgl32.Mat4)

	// WorldMatrix returns the last injected world matrix (identity until one is set).
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// SetWorldMatrix stores m and decomposes it into world position, orientation and scale.
	// Passing the current world matrix is a no-op.
	//
	// Parameters:
	//   - m: an affine matrix
	SetWorldMatrix(m mgl32.Mat4)

	// ApplyTransformations sets the world matrix to parent · ModelMatrix().
	//
	// Parameters:
	//   - parent: the parent's world matrix
	ApplyTransformations(parent mgl32.Mat4)

	// WorldPosition returns the translation of the world matrix.
	WorldPosition() mgl32.Vec3
	// WorldOrientation returns the rotation of the world matrix.
	WorldOrientation() mgl32.Quat
	// WorldRotation returns the rotation of the world matrix as Euler angles in degrees.
	WorldRotation() mgl32.Vec3
	// WorldScale returns the scale of the world matrix.
	WorldScale() mgl32.Vec3

	// Forward returns (0, 0, -1) rotated by the local orientation.
	Forward() mgl32.Vec3
	// Right returns (1, 0, 0) rotated by the local orientation.
	Right() mgl32.Vec3
	// Up returns (0, 1, 0) rotated by the local orientation.
	Up() mgl32.Vec3

	// WorldForward returns (0, 0, -1) rotated by the world orientation.
	WorldForward() mgl32.Vec3
	// WorldRight returns (1, 0, 0) rotated by the world orientation.
	WorldRight() mgl32.Vec3
	// WorldUp returns (0, 1, 0) rotated by the world orientation.
	WorldUp() mgl32.Vec3

	// Dirty reports whether the cached model matrix is stale.
	//
	// Returns:
	//   - bool: true if the next ModelMatrix call recomputes
	Dirty() bool

	// Version returns a counter incremented by every local pose mutation.
	// Dependents compare it against a remembered value to detect pose changes.
	//
	// Returns:
	//   - uint64: the pose version
	Version() uint64
}

var _ Transform = &transformImpl{}

// NewTransform creates a Transform with the identity pose.
//
// Returns:
//   - Transform: the new transform
func NewTransform() Transform {
	return &transformImpl{
		orientation:      mgl32.QuatIdent(),
		scale:            mgl32.Vec3{1, 1, 1},
		modelMatrix:      mgl32.Ident4(),
		dirty:            true,
		worldMatrix:      mgl32.Ident4(),
		worldOrientation: mgl32.QuatIdent(),
		worldScale:       mgl32.Vec3{1, 1, 1},
	}
}

func (t *transformImpl) touch() {
	t.dirty = true
	t.version++
}

func (t *transformImpl) Position() mgl32.Vec3 {
	return t.position
}

func (t *transformImpl) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.touch()
}

func (t *transformImpl) Move(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.touch()
}

func (t *transformImpl) Orientation() mgl32.Quat {
	return t.orientation
}

func (t *transformImpl) SetOrientation(q mgl32.Quat) {
	t.orientation = q.Normalize()
	t.touch()
}

func (t *transformImpl) SetOrientationBasis(forward, up mgl32.Vec3) {
	back := forward.Normalize().Mul(-1)
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward).Normalize()
	t.orientation = common.QuatFromBasis(right, trueUp, back)
	t.touch()
}

func (t *transformImpl) Rotation() mgl32.Vec3 {
	return common.EulerDegreesFromQuat(t.orientation)
}

func (t *transformImpl) SetRotation(degrees mgl32.Vec3) {
	t.orientation = common.QuatFromEulerDegrees(degrees)
	t.touch()
}

func (t *transformImpl) Rotate(degrees mgl32.Vec3) {
	t.orientation = common.QuatFromEulerDegrees(degrees).Mul(t.orientation).Normalize()
	t.touch()
}

func (t *transformImpl) LookAt(target, up mgl32.Vec3) {
	t.orientation = common.QuatLookAt(target.Sub(t.position), up)
	t.touch()
}

func (t *transformImpl) Scale() mgl32.Vec3 {
	return t.scale
}

func (t *transformImpl) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.touch()
}

func (t *transformImpl) ScaleBy(factor mgl32.Vec3) {
	t.scale = mgl32.Vec3{t.scale.X() * factor.X(), t.scale.Y() * factor.Y(), t.scale.Z() * factor.Z()}
	t.touch()
}

func (t *transformImpl) ModelMatrix() mgl32.Mat4 {
	if t.dirty {
		t.modelMatrix = common.ComposeTRS(t.position, t.orientation, t.scale)
		t.dirty = false
	}
	return t.modelMatrix
}

func (t *transformImpl) SetModelMatrix(m mgl32.Mat4) {
	if !t.dirty && t.modelMatrix == m {
		return
	}
	position, orientation, scale, ok := common.Decompose(m)
	if !ok {
		return
	}
	t.position, t.orientation, t.scale = position, orientation, scale
	t.touch()
}

func (t *transformImpl) WorldMatrix() mgl32.Mat4 {
	return t.worldMatrix
}

func (t *transformImpl) SetWorldMatrix(m mgl32.Mat4) {
	if t.worldMatrix == m {
		return
	}
	t.worldMatrix = m
	if position, orientation, scale, ok := common.Decompose(m); ok {
		t.worldPosition, t.worldOrientation, t.worldScale = position, orientation, scale
	}
}

func (t *transformImpl) ApplyTransformations(parent mgl32.Mat4) {
	t.SetWorldMatrix(parent.Mul4(t.ModelMatrix()))
}

func (t *transformImpl) WorldPosition() mgl32.Vec3 {
	return t.worldPosition
}

func (t *transformImpl) WorldOrientation() mgl32.Quat {
	return t.worldOrientation
}

func (t *transformImpl) WorldRotation() mgl32.Vec3 {
	return common.EulerDegreesFromQuat(t.worldOrientation)
}

func (t *transformImpl) WorldScale() mgl32.Vec3 {
	return t.worldScale
}

func (t *transformImpl) Forward() mgl32.Vec3 {
	return t.orientation.Rotate(common.BaseForward)
}

func (t *transformImpl) Right() mgl32.Vec3 {
	return t.orientation.Rotate(common.BaseRight)
}

func (t *transformImpl) Up() mgl32.Vec3 {
	return t.orientation.Rotate(common.BaseUp)
}

func (t *transformImpl) WorldForward() mgl32.Vec3 {
	return t.worldOrientation.Rotate(common.BaseForward)
}

func (t *transformImpl) WorldRight() mgl32.Vec3 {
	return t.worldOrientation.Rotate(common.BaseRight)
}

func (t *transformImpl) WorldUp() mgl32.Vec3 {
	return t.worldOrientation.Rotate(common.BaseUp)
}

func (t *transformImpl) Dirty() bool {
	return t.dirty
}

func (t *transformImpl) Version() uint64 {
	return t.version
}
