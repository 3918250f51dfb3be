package scene

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// FogBinding is the binding slot of the fog uniform block.
const FogBinding = 2

// GPUFogUniformSource is the canonical WGSL definition of the Fog struct.
// Matches GPUFogUniform layout exactly (32 bytes).
//
//go:embed assets/fog_uniform.wgsl
var GPUFogUniformSource string

// LitShaderSource is the WGSL program of the lit pipeline. It pulls in the vertex, matrices,
// lights, fog, object and material snippets by name.
//
//go:embed assets/lit.wgsl
var LitShaderSource string

// GPUFogUniform is the GPU-aligned representation of the fog uniform block.
// Size: 32 bytes.
type GPUFogUniform struct {
	Color   mgl32.Vec4 // offset  0: rgb, w = density
	Enabled int32      // offset 16
	_       [3]int32   // pad to the 16-byte struct alignment
}

// Size returns the size of the GPUFogUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUFogUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFogUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUFogUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := common.PutFloat32s(buf, 0, g.Color[:]...)
	binary.LittleEndian.PutUint32(buf[offset:], uint32(g.Enabled))
	return buf
}
