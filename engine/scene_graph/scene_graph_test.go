package scene_graph

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/transform"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	transform.Transform
	name  string
	order *[]string
}

func newTestObject(name string, order *[]string) *testObject {
	return &testObject{Transform: transform.NewTransform(), name: name, order: order}
}

func (o *testObject) Draw() {
	if o.order != nil {
		*o.order = append(*o.order, o.name)
	}
}

func randomPose(r *rand.Rand, o *testObject) {
	o.SetPosition(mgl32.Vec3{r.Float32()*20 - 10, r.Float32()*20 - 10, r.Float32()*20 - 10})
	o.SetRotation(mgl32.Vec3{r.Float32() * 360, r.Float32() * 360, r.Float32() * 360})
	s := 0.5 + r.Float32()*2
	o.SetScale(mgl32.Vec3{s, s * 1.5, s})
}

func TestNewGraph(t *testing.T) {
	g := NewGraph()
	root := g.Root()
	assert.True(t, g.Valid(root))
	assert.False(t, g.Valid(Nil))
	assert.Equal(t, 1, g.Len())
	assert.Nil(t, g.Object(root))
	assert.Equal(t, Nil, g.Parent(root))
	assert.Equal(t, mgl32.Ident4(), g.WorldMatrix(root))
}

func TestWorldMatrix_CompositionLaw(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for range 50 {
		g := NewGraph()
		p := newTestObject("p", nil)
		c := newTestObject("c", nil)
		gc := newTestObject("gc", nil)
		randomPose(r, p)
		randomPose(r, c)
		randomPose(r, gc)

		pn := g.Insert(p)
		cn := g.Insert(c)
		gcn := g.Insert(gc)
		require.NoError(t, g.AddChild(g.Root(), pn))
		require.NoError(t, g.AddChild(pn, cn))
		require.NoError(t, g.AddChild(cn, gcn))

		assert.Equal(t, g.WorldMatrix(pn).Mul4(c.ModelMatrix()), g.WorldMatrix(cn))

		// independent reference built from the raw pose values
		ref := func(o *testObject) mgl32.Mat4 {
			return common.ComposeTRS(o.Position(), o.Orientation(), o.Scale())
		}
		want := ref(p).Mul4(ref(c)).Mul4(ref(gc))
		mathtest.Near(t, want, g.WorldMatrix(gcn), 5e-3)
	}
}

func TestWorldMatrix_IdentityCases(t *testing.T) {
	g := NewGraph()
	o := newTestObject("o", nil)
	o.SetPosition(mgl32.Vec3{1, 2, 3})

	detached := g.Insert(o)
	assert.Equal(t, mgl32.Ident4(), g.WorldMatrix(detached))

	group := g.Insert(nil)
	require.NoError(t, g.AddChild(g.Root(), group))
	assert.Equal(t, mgl32.Ident4(), g.WorldMatrix(group))

	require.NoError(t, g.AddChild(group, detached))
	assert.Equal(t, o.ModelMatrix(), g.WorldMatrix(detached))
}

func TestAddChild_Reparenting(t *testing.T) {
	g := NewGraph()
	a := g.Insert(newTestObject("a", nil))
	b := g.Insert(newTestObject("b", nil))
	n := g.Insert(newTestObject("n", nil))
	require.NoError(t, g.AddChild(g.Root(), a))
	require.NoError(t, g.AddChild(g.Root(), b))
	require.NoError(t, g.AddChild(a, n))

	require.NoError(t, g.AddChild(b, n))
	assert.NotContains(t, g.Children(a), n)
	count := 0
	for _, c := range g.Children(b) {
		if c == n {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, b, g.Parent(n))

	// adding to the same parent again does not duplicate
	require.NoError(t, g.AddChild(b, n))
	assert.Equal(t, []Node{n}, g.Children(b))
}

func TestAddChild_RejectsCycles(t *testing.T) {
	g := NewGraph()
	a := g.Insert(nil)
	b := g.Insert(nil)
	require.NoError(t, g.AddChild(g.Root(), a))
	require.NoError(t, g.AddChild(a, b))

	assert.ErrorIs(t, g.AddChild(a, a), ErrCycle)
	assert.ErrorIs(t, g.AddChild(b, a), ErrCycle)
	assert.ErrorIs(t, g.AddChild(b, g.Root()), ErrRootNode)
	assert.ErrorIs(t, g.AddChild(a, Nil), ErrInvalidHandle)
	assert.Equal(t, a, g.Parent(b))
}

func TestRemoveChild(t *testing.T) {
	g := NewGraph()
	a := g.Insert(nil)
	b := g.Insert(nil)
	require.NoError(t, g.AddChild(g.Root(), a))

	// not a child: no-op
	require.NoError(t, g.RemoveChild(a, b))
	assert.Equal(t, []Node{a}, g.Children(g.Root()))

	require.NoError(t, g.RemoveChild(g.Root(), a))
	assert.Empty(t, g.Children(g.Root()))
	assert.Equal(t, Nil, g.Parent(a))
	assert.True(t, g.Valid(a))
}

func TestRemove_FreesSubtree(t *testing.T) {
	var released []string
	g := NewGraph(WithReleaseHook(func(d Drawable) {
		released = append(released, d.(*testObject).name)
	}))
	a := g.Insert(newTestObject("a", nil))
	b := g.Insert(newTestObject("b", nil))
	c := g.Insert(nil)
	d := g.Insert(newTestObject("d", nil))
	require.NoError(t, g.AddChild(g.Root(), a))
	require.NoError(t, g.AddChild(a, b))
	require.NoError(t, g.AddChild(a, c))
	require.NoError(t, g.AddChild(c, d))
	require.Equal(t, 5, g.Len())

	removed, err := g.Remove(a)
	require.NoError(t, err)
	assert.Len(t, removed, 3)
	assert.Equal(t, []string{"a", "b", "d"}, released)
	assert.Equal(t, 1, g.Len())
	for _, n := range []Node{a, b, c, d} {
		assert.False(t, g.Valid(n))
	}
	assert.Empty(t, g.Children(g.Root()))

	_, err = g.Remove(a)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = g.Remove(g.Root())
	assert.ErrorIs(t, err, ErrRootNode)
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	g := NewGraph()
	a := g.Insert(nil)
	_, err := g.Remove(a)
	require.NoError(t, err)

	b := g.Insert(newTestObject("b", nil))
	assert.False(t, g.Valid(a))
	assert.True(t, g.Valid(b))
	assert.Nil(t, g.Object(a))
	assert.ErrorIs(t, g.AddChild(g.Root(), a), ErrInvalidHandle)
}

func TestFind(t *testing.T) {
	g := NewGraph()
	o := newTestObject("o", nil)
	n := g.Insert(o)

	found, ok := g.Find(o)
	assert.True(t, ok)
	assert.Equal(t, n, found)

	_, ok = g.Find(newTestObject("other", nil))
	assert.False(t, ok)
}

func TestDraw_OrderAndWorldPush(t *testing.T) {
	var order []string
	g := NewGraph()
	a := newTestObject("a", &order)
	a.SetPosition(mgl32.Vec3{10, 0, 0})
	b := newTestObject("b", &order)
	b.SetPosition(mgl32.Vec3{0, 5, 0})
	c := newTestObject("c", &order)
	detached := newTestObject("detached", &order)

	an := g.Insert(a)
	bn := g.Insert(b)
	cn := g.Insert(c)
	g.Insert(detached)
	require.NoError(t, g.AddChild(g.Root(), an))
	require.NoError(t, g.AddChild(an, bn))
	require.NoError(t, g.AddChild(g.Root(), cn))

	g.Draw()
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, g.WorldMatrix(bn), b.WorldMatrix())
	mathtest.Near(t, mgl32.Vec3{10, 5, 0}, b.WorldPosition(), 1e-6)
}

func TestWalk_PreOrder(t *testing.T) {
	g := NewGraph()
	a := g.Insert(nil)
	b := g.Insert(nil)
	c := g.Insert(nil)
	require.NoError(t, g.AddChild(g.Root(), a))
	require.NoError(t, g.AddChild(a, b))
	require.NoError(t, g.AddChild(g.Root(), c))

	var visited []Node
	g.Walk(func(n Node, _ Drawable) { visited = append(visited, n) })
	assert.Equal(t, []Node{g.Root(), a, b, c}, visited)
}
