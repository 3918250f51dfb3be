// Package mathtest holds testify assertions for mgl32 values.
package mathtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// Components flattens an mgl32 vector, quaternion or matrix into its float32 components.
// Quaternions flatten as W, X, Y, Z.
func Components(v any) []float32 {
	switch v := v.(type) {
	case mgl32.Vec2:
		return v[:]
	case mgl32.Vec3:
		return v[:]
	case mgl32.Vec4:
		return v[:]
	case mgl32.Quat:
		return []float32{v.W, v.V[0], v.V[1], v.V[2]}
	case mgl32.Mat3:
		return v[:]
	case mgl32.Mat4:
		return v[:]
	case []float32:
		return v
	}
	panic(fmt.Sprintf("mathtest: unsupported type %T", v))
}

// Near asserts that every component of got is within delta of want.
// Unlike mgl32's ApproxEqualThreshold the tolerance is absolute, so expected zeros accept float noise.
//
// Parameters:
//   - t: the test
//   - want: expected value
//   - got: actual value of the same type
//   - delta: absolute tolerance per component
//   - msgAndArgs: optional failure message
//
// Returns:
//   - bool: true if the assertion held
func Near(t assert.TestingT, want, got any, delta float64, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return assert.InDeltaSlice(t, Components(want), Components(got), delta, msgAndArgs...)
}
