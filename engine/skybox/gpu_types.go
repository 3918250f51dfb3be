package skybox

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Bindings of the skybox group.
const (
	SkyBinding         = 0
	DayCubeBinding     = 1
	NightCubeBinding   = 2
	CubeSamplerBinding = 3
)

// ShaderSource is the WGSL program of the skybox pipeline.
//
//go:embed assets/skybox.wgsl
var ShaderSource string

// GPUSkyUniform is the GPU-aligned representation of the skybox uniform block.
// Size: 144 bytes.
type GPUSkyUniform struct {
	View       mgl32.Mat4 // offset   0
	Projection mgl32.Mat4 // offset  64: already remapped to the [0, 1] depth range
	Blend      mgl32.Vec4 // offset 128: x = night blend factor
}

// Size returns the size of the GPUSkyUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUSkyUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkyUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSkyUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := common.PutFloat32s(buf, 0, g.View[:]...)
	offset = common.PutFloat32s(buf, offset, g.Projection[:]...)
	common.PutFloat32s(buf, offset, g.Blend[:]...)
	return buf
}

// marshalPositions packs positions as tightly packed vec3<f32>.
func marshalPositions(positions []mgl32.Vec3) []byte {
	buf := make([]byte, len(positions)*12)
	offset := 0
	for _, p := range positions {
		offset = common.PutFloat32s(buf, offset, p[:]...)
	}
	return buf
}
