package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	meshes         []Mesh
	boundingRadius float32
}

// Model defines the interface for a renderable 3D model: a named set of meshes, each with its
// own material. It is produced by the shape generators or by the OBJ loader.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the submeshes in draw order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Bounds returns the axis-aligned box enclosing every mesh.
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	//   - mgl32.Vec3: the maximum corner
	Bounds() (mgl32.Vec3, mgl32.Vec3)

	// BoundingRadius returns the radius of a sphere centered at the model origin enclosing all
	// vertices. Computed from the meshes unless set with WithBoundingRadius.
	//
	// Returns:
	//   - float32: the radius
	BoundingRadius() float32

	// Upload creates the GPU buffers of every mesh.
	//
	// Parameters:
	//   - u: the uploader, normally the renderer
	//
	// Returns:
	//   - error: the first upload error
	Upload(u MeshUploader) error

	// Release frees the GPU buffers of every mesh and material.
	Release()
}

var _ Model = &model{}

// NewModel creates a model from its meshes.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{boundingRadius: -1}
	for _, opt := range options {
		opt(m)
	}
	if m.boundingRadius < 0 {
		m.boundingRadius = ComputeBoundingRadius(m.meshes)
	}
	return m
}

// ComputeBoundingRadius returns the largest vertex distance from the origin over all meshes.
//
// Parameters:
//   - meshes: the meshes
//
// Returns:
//   - float32: the radius, 0 for no vertices
func ComputeBoundingRadius(meshes []Mesh) float32 {
	var r2 float32
	for _, m := range meshes {
		for _, v := range m.Vertices() {
			p := mgl32.Vec3(v.Position)
			r2 = max(r2, p.Dot(p))
		}
	}
	return math32.Sqrt(r2)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.meshes) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := m.meshes[0].Bounds()
	for _, mesh := range m.meshes[1:] {
		mlo, mhi := mesh.Bounds()
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], mlo[i])
			hi[i] = max(hi[i], mhi[i])
		}
	}
	return lo, hi
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Upload(u MeshUploader) error {
	for _, mesh := range m.meshes {
		if err := mesh.Upload(u); err != nil {
			return err
		}
	}
	return nil
}

func (m *model) Release() {
	for _, mesh := range m.meshes {
		mesh.Release()
		mesh.Material().Release()
	}
}
