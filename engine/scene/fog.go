package scene

import "github.com/go-gl/mathgl/mgl32"

// Fog is the distance fog applied by the lit shader. The visible range shrinks as Density grows
// from 0 to 1.
type Fog struct {
	Color   mgl32.Vec3
	Density float32
	Enabled bool
}

// DefaultFog returns a disabled grey fog of density 0.5.
//
// Returns:
//   - Fog: the default fog
func DefaultFog() Fog {
	return Fog{
		Color:   mgl32.Vec3{0.5, 0.5, 0.5},
		Density: 0.5,
	}
}

// Uniform packs the fog into its uniform block.
//
// Returns:
//   - GPUFogUniform: the packed block
func (f Fog) Uniform() GPUFogUniform {
	u := GPUFogUniform{Color: f.Color.Vec4(f.Density)}
	if f.Enabled {
		u.Enabled = 1
	}
	return u
}
