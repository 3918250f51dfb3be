package transform

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransform_Identity(t *testing.T) {
	tr := NewTransform()
	assert.True(t, tr.Dirty())
	assert.Equal(t, mgl32.Ident4(), tr.ModelMatrix())
	assert.False(t, tr.Dirty())
	assert.Equal(t, mgl32.Ident4(), tr.WorldMatrix())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.WorldScale())
	assert.Equal(t, common.BaseForward, tr.Forward())
}

func TestModelMatrix_CachedUntilMutation(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{1, 2, 3})
	tr.SetRotation(mgl32.Vec3{10, 20, 30})
	tr.SetScale(mgl32.Vec3{2, 2, 2})

	first := tr.ModelMatrix()
	second := tr.ModelMatrix()
	assert.Equal(t, first, second)

	mutators := []func(){
		func() { tr.SetPosition(mgl32.Vec3{4, 5, 6}) },
		func() { tr.Move(mgl32.Vec3{1, 0, 0}) },
		func() { tr.SetRotation(mgl32.Vec3{0, 45, 0}) },
		func() { tr.Rotate(mgl32.Vec3{5, 0, 0}) },
		func() { tr.SetScale(mgl32.Vec3{1, 3, 1}) },
		func() { tr.ScaleBy(mgl32.Vec3{2, 2, 2}) },
		func() { tr.SetOrientation(mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})) },
		func() { tr.LookAt(mgl32.Vec3{0, 0, 50}, common.BaseUp) },
	}
	for i, mutate := range mutators {
		before := tr.ModelMatrix()
		version := tr.Version()
		mutate()
		assert.True(t, tr.Dirty(), "mutator %d", i)
		assert.Greater(t, tr.Version(), version, "mutator %d", i)

		after := tr.ModelMatrix()
		assert.NotEqual(t, before, after, "mutator %d", i)
		want := common.ComposeTRS(tr.Position(), tr.Orientation(), tr.Scale())
		assert.Equal(t, want, after, "mutator %d", i)
	}
}

func TestModelMatrix_TRSOrder(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{10, 0, 0})
	tr.SetRotation(mgl32.Vec3{0, 90, 0})
	tr.SetScale(mgl32.Vec3{2, 2, 2})

	// scale first, then rotate, then translate
	p := tr.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, -1, 1}).Vec3()
	mathtest.Near(t, mgl32.Vec3{8, 0, 0}, p, 1e-5, "got %v", p)
}

func TestMoveAndScaleBy(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{1, 1, 1})
	tr.Move(mgl32.Vec3{1, -2, 3})
	assert.Equal(t, mgl32.Vec3{2, -1, 4}, tr.Position())

	tr.SetScale(mgl32.Vec3{1, 2, 3})
	tr.ScaleBy(mgl32.Vec3{2, 2, 0.5})
	assert.Equal(t, mgl32.Vec3{2, 4, 1.5}, tr.Scale())
}

func TestRotate_PreMultiplies(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(mgl32.Vec3{30, 0, 0})
	start := tr.Orientation()

	tr.Rotate(mgl32.Vec3{0, 45, 0})
	want := common.QuatFromEulerDegrees(mgl32.Vec3{0, 45, 0}).Mul(start)
	assert.True(t, tr.Orientation().OrientationEqualThreshold(want, 1e-5))
}

func TestSetRotation_RoundTrip(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(mgl32.Vec3{20, -35, 50})
	mathtest.Near(t, mgl32.Vec3{20, -35, 50}, tr.Rotation(), 0.05)
}

func TestSetOrientation_Normalizes(t *testing.T) {
	tr := NewTransform()
	tr.SetOrientation(mgl32.Quat{W: 2, V: mgl32.Vec3{0, 0, 0}})
	assert.InDelta(t, 1, tr.Orientation().Len(), 1e-6)
}

func TestSetOrientationBasis(t *testing.T) {
	tr := NewTransform()
	forward := mgl32.Vec3{1, 0, 1}.Normalize()
	tr.SetOrientationBasis(forward, common.BaseUp)

	mathtest.Near(t, forward, tr.Forward(), 1e-5, "forward %v", tr.Forward())
	mathtest.Near(t, common.BaseUp, tr.Up(), 1e-5, "up %v", tr.Up())
	mathtest.Near(t, forward.Cross(common.BaseUp).Normalize(), tr.Right(), 1e-5)
}

func TestLookAt(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{0, 5, 0})
	tr.LookAt(mgl32.Vec3{10, 5, 0}, common.BaseUp)
	mathtest.Near(t, mgl32.Vec3{1, 0, 0}, tr.Forward(), 1e-5)
	mathtest.Near(t, common.BaseUp, tr.Up(), 1e-5)
}

func TestSetModelMatrix_DecompositionRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for range 100 {
		pos := mgl32.Vec3{r.Float32()*20 - 10, r.Float32()*20 - 10, r.Float32()*20 - 10}
		rot := common.QuatFromEulerDegrees(mgl32.Vec3{r.Float32()*360 - 180, r.Float32()*160 - 80, r.Float32()*360 - 180})
		s := 0.25 + r.Float32()*4
		m := common.ComposeTRS(pos, rot, mgl32.Vec3{s, s, s})

		tr := NewTransform()
		tr.SetModelMatrix(m)
		mathtest.Near(t, pos, tr.Position(), 1e-4)
		mathtest.Near(t, mgl32.Vec3{s, s, s}, tr.Scale(), 1e-4)
		assert.True(t, tr.Orientation().OrientationEqualThreshold(rot, 1e-4))
		mathtest.Near(t, m, tr.ModelMatrix(), 5e-4)
	}
}

func TestSetModelMatrix_SameMatrixIsNoop(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{1, 2, 3})
	m := tr.ModelMatrix()
	version := tr.Version()

	tr.SetModelMatrix(m)
	assert.Equal(t, version, tr.Version())
	assert.False(t, tr.Dirty())
}

func TestSetWorldMatrix_Decomposes(t *testing.T) {
	tr := NewTransform()
	rot := common.QuatFromEulerDegrees(mgl32.Vec3{0, 60, 0})
	world := common.ComposeTRS(mgl32.Vec3{5, 0, -2}, rot, mgl32.Vec3{3, 3, 3})

	tr.SetWorldMatrix(world)
	require.Equal(t, world, tr.WorldMatrix())
	mathtest.Near(t, mgl32.Vec3{5, 0, -2}, tr.WorldPosition(), 1e-5)
	mathtest.Near(t, mgl32.Vec3{3, 3, 3}, tr.WorldScale(), 1e-5)
	mathtest.Near(t, mgl32.Vec3{-0.8660254, 0, -0.5}, tr.WorldForward(), 1e-5)
	mathtest.Near(t, mgl32.Vec3{0, 60, 0}, tr.WorldRotation(), 0.05)

	// world injection never touches the local pose
	assert.Equal(t, mgl32.Vec3{}, tr.Position())
	assert.Equal(t, uint64(0), tr.Version())
}

func TestApplyTransformations(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{0, 1, 0})
	parent := mgl32.Translate3D(10, 0, 0)

	tr.ApplyTransformations(parent)
	assert.Equal(t, parent.Mul4(tr.ModelMatrix()), tr.WorldMatrix())
	mathtest.Near(t, mgl32.Vec3{10, 1, 0}, tr.WorldPosition(), 1e-6)
}
