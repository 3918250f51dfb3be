package light

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Per-kind light capacity of the lights uniform block.
const (
	MaxPointLights = 4
	MaxSpotLights  = 4
)

// LightsBinding is the binding slot of the lights uniform block.
const LightsBinding = 1

// GPULightsUniformSource is the canonical WGSL definition of the Light and Lights structs.
// Matches GPULightsUniform layout exactly (544 bytes).
//
//go:embed assets/lights_uniform.wgsl
var GPULightsUniformSource string

// GPULight is the GPU-aligned representation of a single light.
// Size: 64 bytes.
type GPULight struct {
	Position    mgl32.Vec4 // offset  0: world position, w = 1
	Direction   mgl32.Vec4 // offset 16: spot axis, w = focus exponent; zero for point lights
	Color       mgl32.Vec4 // offset 32: rgb, w = intensity
	Attenuation mgl32.Vec4 // offset 48: constant, linear, quadratic, radius
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPULight) put(buf []byte) {
	offset := common.PutFloat32s(buf, 0, g.Position[:]...)
	offset = common.PutFloat32s(buf, offset, g.Direction[:]...)
	offset = common.PutFloat32s(buf, offset, g.Color[:]...)
	common.PutFloat32s(buf, offset, g.Attenuation[:]...)
}

// GPULightsUniform is the GPU-aligned representation of the lights uniform block.
// Size: 544 bytes.
type GPULightsUniform struct {
	PointLights [MaxPointLights]GPULight // offset   0
	SpotLights  [MaxSpotLights]GPULight  // offset 256
	Counts      [4]int32                 // offset 512: point count, spot count, 0, 0
	Ambient     mgl32.Vec4               // offset 528: rgb, w = ambient intensity
}

// Size returns the size of the GPULightsUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (544)
func (g *GPULightsUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightsUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 544-byte buffer ready for GPU upload
func (g *GPULightsUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := 0
	for i := range g.PointLights {
		g.PointLights[i].put(buf[offset:])
		offset += 64
	}
	for i := range g.SpotLights {
		g.SpotLights[i].put(buf[offset:])
		offset += 64
	}
	for _, c := range g.Counts {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(c))
		offset += 4
	}
	common.PutFloat32s(buf, offset, g.Ambient[:]...)
	return buf
}
