package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshUploader creates the GPU vertex and index buffers of a mesh.
type MeshUploader interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
}

type mesh struct {
	name     string
	vertices []GPUVertex
	indices  []uint32
	material material.Material

	provider bind_group_provider.BindGroupProvider
	uploaded bool
	min, max mgl32.Vec3
}

// Mesh is an indexed triangle list with one material.
type Mesh interface {
	Name() string
	Vertices() []GPUVertex
	Indices() []uint32
	IndexCount() int

	// Material returns the surface of the mesh. Never nil; meshes built without one get the default material.
	Material() material.Material
	SetMaterial(m material.Material)

	// Bounds returns the axis-aligned bounding box of the vertices.
	//
	// Returns:
	//   - mgl32.Vec3: the minimum corner
	//   - mgl32.Vec3: the maximum corner
	Bounds() (mgl32.Vec3, mgl32.Vec3)

	// MeshProvider returns the provider holding the GPU vertex and index buffers.
	MeshProvider() bind_group_provider.BindGroupProvider

	// Uploaded reports whether Upload completed.
	Uploaded() bool

	// Upload creates the GPU buffers. Later calls do nothing until Release.
	//
	// Parameters:
	//   - u: the uploader, normally the renderer
	//
	// Returns:
	//   - error: error if buffer creation fails
	Upload(u MeshUploader) error

	// Release frees the GPU buffers. The CPU data is kept.
	Release()
}

var _ Mesh = &mesh{}

// NewMesh creates a mesh from CPU data. Triangles wind counter-clockwise when seen from the front.
//
// Parameters:
//   - name: the mesh name
//   - vertices: the vertices
//   - indices: three indices per triangle
//   - options: variadic list of MeshBuilderOption functions
//
// Returns:
//   - Mesh: the mesh
func NewMesh(name string, vertices []GPUVertex, indices []uint32, options ...MeshBuilderOption) Mesh {
	m := &mesh{
		name:     name,
		vertices: vertices,
		indices:  indices,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.material == nil {
		m.material = material.NewMaterial()
	}
	m.provider = bind_group_provider.NewBindGroupProvider("mesh "+name, bind_group_provider.WithUniqueLabel())
	m.min, m.max = computeBounds(vertices)
	return m
}

func computeBounds(vertices []GPUVertex) (mgl32.Vec3, mgl32.Vec3) {
	if len(vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo := mgl32.Vec3(vertices[0].Position)
	hi := lo
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return lo, hi
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUVertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) Material() material.Material {
	return m.material
}

func (m *mesh) SetMaterial(mat material.Material) {
	if mat == nil {
		mat = material.NewMaterial()
	}
	m.material = mat
}

func (m *mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return m.min, m.max
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *mesh) Uploaded() bool {
	return m.uploaded
}

func (m *mesh) Upload(u MeshUploader) error {
	if m.uploaded {
		return nil
	}
	if len(m.indices) == 0 {
		return fmt.Errorf("mesh %s has no indices", m.name)
	}
	if err := u.InitMeshBuffers(m.provider, MarshalVertices(m.vertices), MarshalIndices(m.indices), len(m.indices)); err != nil {
		return fmt.Errorf("mesh %s: %w", m.name, err)
	}
	m.uploaded = true
	return nil
}

func (m *mesh) Release() {
	m.provider.Release()
	m.uploaded = false
}
