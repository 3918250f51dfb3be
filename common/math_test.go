package common

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuatFromEulerDegrees_SingleAxis(t *testing.T) {
	q := QuatFromEulerDegrees(mgl32.Vec3{0, 90, 0})
	// yaw +90 turns -Z into -X
	got := q.Rotate(BaseForward)
	mathtest.Near(t, mgl32.Vec3{-1, 0, 0}, got, 1e-5, "got %v", got)
}

func TestEulerRoundTrip(t *testing.T) {
	cases := []mgl32.Vec3{
		{0, 0, 0},
		{10, 20, 30},
		{-45, 60, 170},
		{89, -30, -120},
	}
	for _, in := range cases {
		out := EulerDegreesFromQuat(QuatFromEulerDegrees(in))
		mathtest.Near(t, in, out, 0.1, "in %v out %v", in, out)
	}
}

func TestQuatLookAt_FacesDirection(t *testing.T) {
	dirs := []mgl32.Vec3{{0, 0, 1}, {1, 0, 0}, {0.3, -0.2, -1}, {-2, 1, 0.5}}
	for _, d := range dirs {
		q := QuatLookAt(d, BaseUp)
		got := q.Rotate(BaseForward)
		mathtest.Near(t, d.Normalize(), got, 1e-5, "dir %v got %v", d, got)
		// the right axis stays horizontal
		assert.InDelta(t, 0, q.Rotate(BaseRight).Y(), 1e-5)
	}
}

func TestDecompose_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for range 200 {
		tr := mgl32.Vec3{r.Float32()*40 - 20, r.Float32()*40 - 20, r.Float32()*40 - 20}
		axis := mgl32.Vec3{r.Float32() - 0.5, r.Float32() - 0.5, r.Float32() - 0.5}.Normalize()
		q := mgl32.QuatRotate(r.Float32()*6.28, axis)
		s := 0.1 + r.Float32()*5
		m := ComposeTRS(tr, q, mgl32.Vec3{s, s, s})

		gt, gq, gs, ok := Decompose(m)
		require.True(t, ok)
		mathtest.Near(t, tr, gt, 1e-4, "translation %v vs %v", gt, tr)
		mathtest.Near(t, mgl32.Vec3{s, s, s}, gs, 1e-4, "scale %v vs %v", gs, s)
		assert.True(t, gq.OrientationEqualThreshold(q, 1e-4), "rotation %v vs %v", gq, q)
	}
}

func TestDecompose_NonUniformAndMirrored(t *testing.T) {
	q := QuatFromEulerDegrees(mgl32.Vec3{15, -40, 5})
	m := ComposeTRS(mgl32.Vec3{1, 2, 3}, q, mgl32.Vec3{-2, -2, -2})

	_, gq, gs, ok := Decompose(m)
	require.True(t, ok)
	mathtest.Near(t, mgl32.Vec3{-2, -2, -2}, gs, 1e-4)
	mathtest.Near(t, m, ComposeTRS(mgl32.Vec3{1, 2, 3}, gq, gs), 1e-4)
}

func TestDecompose_Degenerate(t *testing.T) {
	_, _, _, ok := Decompose(mgl32.Scale3D(0, 1, 1))
	assert.False(t, ok)

	var zero mgl32.Mat4
	_, _, _, ok = Decompose(zero)
	assert.False(t, ok)
}

func TestExpBlend(t *testing.T) {
	assert.Equal(t, float32(0), ExpBlend(5, 0))
	assert.InDelta(t, 0.0799, ExpBlend(5, 1.0/60), 1e-4)
	// two half steps equal one full step
	half := ExpBlend(5, 0.05)
	assert.InDelta(t, ExpBlend(5, 0.1), 1-(1-half)*(1-half), 1e-6)
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 12)
	next := PutFloat32s(buf, 4, 1, 2)
	assert.Equal(t, 12, next)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x80, 0x3f, 0, 0, 0, 0x40}, buf)
}
