package material

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Binding slots of the material bind group.
const (
	ParamsBinding         = 0
	DiffuseTextureBinding = 1
	DiffuseSamplerBinding = 2
)

// GPUMaterialParamsSource is the canonical WGSL definition of the MaterialParams struct.
// Matches GPUMaterialParams layout exactly (48 bytes).
//
//go:embed assets/material_params.wgsl
var GPUMaterialParamsSource string

// GPUMaterialParams is the GPU-aligned representation of the material uniform block.
// Size: 48 bytes.
type GPUMaterialParams struct {
	Ambient  mgl32.Vec4 // offset  0: rgb, w unused
	Diffuse  mgl32.Vec4 // offset 16: rgb, w = 1 when a diffuse texture is bound
	Specular mgl32.Vec4 // offset 32: rgb, w = shininess
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := common.PutFloat32s(buf, 0, g.Ambient[:]...)
	offset = common.PutFloat32s(buf, offset, g.Diffuse[:]...)
	common.PutFloat32s(buf, offset, g.Specular[:]...)
	return buf
}
