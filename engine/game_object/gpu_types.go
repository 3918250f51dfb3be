package game_object

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Bind group indices of the lit pipeline.
const (
	SceneGroup    = 0
	ObjectGroup   = 1
	MaterialGroup = 2
)

// ObjectDataBinding is the binding slot of the per-object uniform block in ObjectGroup.
const ObjectDataBinding = 0

// GPUObjectDataSource is the canonical WGSL definition of the ObjectData struct.
// Matches GPUObjectData layout exactly (128 bytes).
//
//go:embed assets/object_data.wgsl
var GPUObjectDataSource string

// GPUObjectData is the GPU-aligned per-object uniform block.
// Size: 128 bytes.
type GPUObjectData struct {
	Model  mgl32.Mat4 // offset  0: object-to-world
	Normal mgl32.Mat4 // offset 64: inverse transpose of Model, upper 3x3 used
}

// NewGPUObjectData derives the normal matrix from a world matrix.
//
// Parameters:
//   - world: the object-to-world matrix
//
// Returns:
//   - GPUObjectData: the packed block
func NewGPUObjectData(world mgl32.Mat4) GPUObjectData {
	return GPUObjectData{Model: world, Normal: world.Inv().Transpose()}
}

// Size returns the size of the GPUObjectData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUObjectData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (g *GPUObjectData) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := common.PutFloat32s(buf, 0, g.Model[:]...)
	common.PutFloat32s(buf, offset, g.Normal[:]...)
	return buf
}
