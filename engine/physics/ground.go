package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	normalSampleOffset = 0.25
	rayBisections      = 24
)

// FlatGround is an infinite horizontal plane.
type FlatGround struct {
	Height float32
}

var _ Ground = FlatGround{}

func (g FlatGround) HeightAt(_, _ float32) (float32, bool) {
	return g.Height, true
}

// GroundNormal estimates the surface normal of g at (x, z) by central differences.
// Where a neighbour sample is missing the normal is +Y.
//
// Parameters:
//   - g: the ground
//   - x: world X
//   - z: world Z
//
// Returns:
//   - mgl32.Vec3: the unit normal
func GroundNormal(g Ground, x, z float32) mgl32.Vec3 {
	const e = normalSampleOffset
	hl, okl := g.HeightAt(x-e, z)
	hr, okr := g.HeightAt(x+e, z)
	hd, okd := g.HeightAt(x, z-e)
	hu, oku := g.HeightAt(x, z+e)
	if !okl || !okr || !okd || !oku {
		return mgl32.Vec3{0, 1, 0}
	}
	return mgl32.Vec3{hl - hr, 2 * e, hd - hu}.Normalize()
}

// RayCast intersects the segment from → to with g.
//
// Parameters:
//   - g: the ground
//   - from: segment start
//   - to: segment end
//
// Returns:
//   - float32: the hit fraction along the segment in [0, 1]
//   - bool: false if the segment stays above the ground or leaves it
func RayCast(g Ground, from, to mgl32.Vec3) (float32, bool) {
	above := func(t float32) (float32, bool) {
		p := from.Add(to.Sub(from).Mul(t))
		h, ok := g.HeightAt(p.X(), p.Z())
		return p.Y() - h, ok
	}

	d0, ok := above(0)
	if !ok {
		return 0, false
	}
	if d0 <= 0 {
		return 0, true
	}
	d1, ok := above(1)
	if !ok || d1 > 0 {
		return 0, false
	}

	lo, hi := float32(0), float32(1)
	for range rayBisections {
		mid := (lo + hi) / 2
		d, ok := above(mid)
		if ok && d <= 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}
