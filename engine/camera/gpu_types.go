package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MatricesBinding is the binding slot of the matrices uniform block.
const MatricesBinding = 0

// GPUMatricesUniformSource is the canonical WGSL definition of the Matrices struct.
// Matches GPUMatricesUniform layout exactly (128 bytes).
//
//go:embed assets/matrices_uniform.wgsl
var GPUMatricesUniformSource string

// ClipSpaceCorrection maps OpenGL clip-space depth [-1, 1] to the WebGPU range [0, 1].
var ClipSpaceCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// GPUMatricesUniform is the GPU-aligned representation of the matrices uniform block.
// Size: 128 bytes.
type GPUMatricesUniform struct {
	View       mgl32.Mat4 // offset  0: world-to-view (mat4x4<f32>)
	Projection mgl32.Mat4 // offset 64: view-to-clip (mat4x4<f32>)
}

// Size returns the size of the GPUMatricesUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUMatricesUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMatricesUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMatricesUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := common.PutFloat32s(buf, 0, g.View[:]...)
	common.PutFloat32s(buf, offset, g.Projection[:]...)
	return buf
}
