package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// boxFaces lists each face of a box as normal, u axis, v axis with u × v = normal,
// so the quad (-u-v, u-v, u+v, -u+v) winds counter-clockwise seen from outside.
var boxFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

var quadUVs = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// BoxGeometry builds a box centered at the origin with flat-shaded faces: 24 vertices, 36 indices.
//
// Parameters:
//   - halfExtents: half the size along each axis
//
// Returns:
//   - []GPUVertex: the vertices
//   - []uint32: the indices
func BoxGeometry(halfExtents mgl32.Vec3) ([]GPUVertex, []uint32) {
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, face := range boxFaces {
		n, u, v := face[0], face[1], face[2]
		base := uint32(len(vertices))
		corners := [4]mgl32.Vec3{
			n.Sub(u).Sub(v),
			n.Add(u).Sub(v),
			n.Add(u).Add(v),
			n.Sub(u).Add(v),
		}
		for i, c := range corners {
			p := mgl32.Vec3{c[0] * halfExtents[0], c[1] * halfExtents[1], c[2] * halfExtents[2]}
			vertices = append(vertices, GPUVertex{Position: p, Normal: n, TexCoord: quadUVs[i]})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// NewBox creates a single-mesh box model.
//
// Parameters:
//   - name: the model name
//   - halfExtents: half the size along each axis
//   - options: options applied to the mesh, e.g. WithMaterial
//
// Returns:
//   - Model: the box model
func NewBox(name string, halfExtents mgl32.Vec3, options ...MeshBuilderOption) Model {
	v, i := BoxGeometry(halfExtents)
	return NewModel(WithName(name), WithMeshes(NewMesh(name, v, i, options...)))
}

// NewCube creates a unit cube model (side 1).
//
// Parameters:
//   - name: the model name
//   - options: options applied to the mesh
//
// Returns:
//   - Model: the cube model
func NewCube(name string, options ...MeshBuilderOption) Model {
	return NewBox(name, mgl32.Vec3{0.5, 0.5, 0.5}, options...)
}

// GridIndices triangulates a size × size vertex grid laid out row by row along +X then +Z.
// Each quad emits top-left, bottom-left, top-right, top-right, bottom-left, bottom-right,
// which winds counter-clockwise seen from +Y.
//
// Parameters:
//   - size: vertices per side, at least 2
//
// Returns:
//   - []uint32: 6 * (size-1)² indices
func GridIndices(size int) []uint32 {
	if size < 2 {
		return nil
	}
	indices := make([]uint32, 0, (size-1)*(size-1)*6)
	for z := 0; z < size-1; z++ {
		for x := 0; x < size-1; x++ {
			tl := uint32(z*size + x)
			tr := tl + 1
			bl := uint32((z+1)*size + x)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}
	return indices
}

// GridGeometry builds a flat grid in the XZ plane centered at the origin, facing +Y.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//   - divisions: quads per side, at least 1
//   - uvRepeat: how many times the texture repeats across the grid
//
// Returns:
//   - []GPUVertex: (divisions+1)² vertices
//   - []uint32: the indices
func GridGeometry(width, depth float32, divisions int, uvRepeat float32) ([]GPUVertex, []uint32) {
	divisions = max(divisions, 1)
	size := divisions + 1
	vertices := make([]GPUVertex, 0, size*size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			fx := float32(x) / float32(divisions)
			fz := float32(z) / float32(divisions)
			vertices = append(vertices, GPUVertex{
				Position: [3]float32{width * (fx - 0.5), 0, depth * (fz - 0.5)},
				Normal:   [3]float32{0, 1, 0},
				TexCoord: [2]float32{fx * uvRepeat, fz * uvRepeat},
			})
		}
	}
	return vertices, GridIndices(size)
}

// NewGrid creates a single-mesh flat grid model.
//
// Parameters:
//   - name: the model name
//   - width: extent along X
//   - depth: extent along Z
//   - divisions: quads per side
//   - options: options applied to the mesh
//
// Returns:
//   - Model: the grid model
func NewGrid(name string, width, depth float32, divisions int, options ...MeshBuilderOption) Model {
	v, i := GridGeometry(width, depth, divisions, 1)
	return NewModel(WithName(name), WithMeshes(NewMesh(name, v, i, options...)))
}

// ComputeNormals replaces every vertex normal with the normalized sum of the face normals of the
// triangles sharing it (area weighted). Vertices used by no triangle keep a zero normal.
//
// Parameters:
//   - vertices: the vertices to update in place
//   - indices: three indices per triangle
func ComputeNormals(vertices []GPUVertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		pa := mgl32.Vec3(vertices[a].Position)
		pb := mgl32.Vec3(vertices[b].Position)
		pc := mgl32.Vec3(vertices[c].Position)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i := range vertices {
		n := acc[i]
		if n.Len() > 0 {
			n = n.Normalize()
		}
		vertices[i].Normal = n
	}
}
