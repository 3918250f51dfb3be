package common

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Fixed basis vectors of an unrotated object. Forward points down -Z.
var (
	BaseForward = mgl32.Vec3{0, 0, -1}
	BaseRight   = mgl32.Vec3{1, 0, 0}
	BaseUp      = mgl32.Vec3{0, 1, 0}
)

// PutFloat32s writes the given values into buf as consecutive little-endian float32s starting at offset.
//
// Parameters:
//   - buf: destination buffer
//   - offset: byte offset of the first value
//   - values: the values to write
//
// Returns:
//   - int: the byte offset following the last written value
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// QuatFromEulerDegrees builds an orientation from Euler angles in degrees.
// X is pitch, Y is yaw and Z is roll. The result equals Rz · Ry · Rx, so the
// X rotation is applied to a vector first.
//
// Parameters:
//   - degrees: pitch, yaw and roll in degrees
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func QuatFromEulerDegrees(degrees mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(degrees.X()), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(degrees.Y()), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(degrees.Z()), mgl32.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

// EulerDegreesFromQuat is the inverse of QuatFromEulerDegrees. Yaw is clamped to ±90°.
//
// Parameters:
//   - q: a unit quaternion
//
// Returns:
//   - mgl32.Vec3: pitch, yaw and roll in degrees
func EulerDegreesFromQuat(q mgl32.Quat) mgl32.Vec3 {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()

	pitch := math32.Atan2(2*(y*z+w*x), w*w-x*x-y*y+z*z)
	yaw := math32.Asin(mgl32.Clamp(-2*(x*z-w*y), -1, 1))
	roll := math32.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)

	return mgl32.Vec3{mgl32.RadToDeg(pitch), mgl32.RadToDeg(yaw), mgl32.RadToDeg(roll)}
}

// QuatFromBasis converts three orthonormal axes into a quaternion.
// The axes become the columns of the rotation matrix.
//
// Parameters:
//   - right: the +X axis
//   - up: the +Y axis
//   - back: the +Z axis
//
// Returns:
//   - mgl32.Quat: the orientation
func QuatFromBasis(right, up, back mgl32.Vec3) mgl32.Quat {
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(right, up, back).Mat4()).Normalize()
}

// QuatLookAt returns the orientation whose forward axis (-Z) points along direction.
// Parallel direction and up produce NaN components.
//
// Parameters:
//   - direction: the direction to face, need not be normalized
//   - up: the world up hint
//
// Returns:
//   - mgl32.Quat: the orientation
func QuatLookAt(direction, up mgl32.Vec3) mgl32.Quat {
	back := direction.Normalize().Mul(-1)
	right := up.Cross(back).Normalize()
	trueUp := back.Cross(right)
	return QuatFromBasis(right, trueUp, back)
}

// ComposeTRS builds Translate · Rotate · Scale.
//
// Parameters:
//   - t: translation
//   - r: orientation
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the affine matrix
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

// Decompose splits an affine matrix into translation, rotation and scale.
// Skew and perspective are ignored. A negative determinant flips the sign of every
// scale axis so the remaining rotation is proper.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
//   - bool: false if the matrix is degenerate (zero scale axis or zero w)
func Decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3, bool) {
	if m[15] == 0 {
		return mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{}, false
	}
	if m[15] != 1 {
		m = m.Mul(1 / m[15])
	}

	translation := m.Col(3).Vec3()

	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if scale.X() == 0 || scale.Y() == 0 || scale.Z() == 0 {
		return translation, mgl32.QuatIdent(), scale, false
	}

	c0 = c0.Mul(1 / scale.X())
	c1 = c1.Mul(1 / scale.Y())
	c2 = c2.Mul(1 / scale.Z())

	// mirrored basis
	if c0.Dot(c1.Cross(c2)) < 0 {
		scale = scale.Mul(-1)
		c0 = c0.Mul(-1)
		c1 = c1.Mul(-1)
		c2 = c2.Mul(-1)
	}

	return translation, QuatFromBasis(c0, c1, c2), scale, true
}

// ExpBlend returns the frame-rate independent interpolation factor 1 - e^(-stiffness·dt).
//
// Parameters:
//   - stiffness: the filter rate in 1/s
//   - dt: the elapsed time in seconds
//
// Returns:
//   - float32: the blend factor in [0, 1)
func ExpBlend(stiffness, dt float32) float32 {
	return 1 - math32.Exp(-stiffness*dt)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpVec3 linearly interpolates between two vectors.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
