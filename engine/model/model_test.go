package model

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	calls      int
	vertexData []byte
	indexData  []byte
	indexCount int
	err        error
}

func (u *recordingUploader) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if u.err != nil {
		return u.err
	}
	u.calls++
	u.vertexData, u.indexData, u.indexCount = vertexData, indexData, indexCount
	return nil
}

// triangleNormal returns the winding normal of triangle t.
func triangleNormal(vertices []GPUVertex, indices []uint32, t int) mgl32.Vec3 {
	a := mgl32.Vec3(vertices[indices[t]].Position)
	b := mgl32.Vec3(vertices[indices[t+1]].Position)
	c := mgl32.Vec3(vertices[indices[t+2]].Position)
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func TestGPUVertex_Layout(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0.5, 0.25}}
	assert.Equal(t, 32, v.Size())

	buf := v.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[28:])))

	assert.Len(t, MarshalVertices([]GPUVertex{v, v}), 64)
	assert.Equal(t, []byte{7, 0, 0, 0, 1, 1, 0, 0}, MarshalIndices([]uint32{7, 257}))
}

func TestBoxGeometry_OutwardCCW(t *testing.T) {
	vertices, indices := BoxGeometry(mgl32.Vec3{1, 2, 3})
	require.Len(t, vertices, 24)
	require.Len(t, indices, 36)

	for tri := 0; tri < len(indices); tri += 3 {
		n := triangleNormal(vertices, indices, tri)
		stored := mgl32.Vec3(vertices[indices[tri]].Normal)
		assert.InDelta(t, 1, n.Dot(stored), 1e-5, "triangle %d winds against its normal", tri/3)
	}

	m := NewMesh("box", vertices, indices)
	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, lo)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, hi)
}

func TestGridIndices_Order(t *testing.T) {
	assert.Nil(t, GridIndices(1))
	assert.Equal(t, []uint32{0, 2, 1, 1, 2, 3}, GridIndices(2))
	assert.Len(t, GridIndices(64), 63*63*6)
}

func TestGridGeometry_FacesUp(t *testing.T) {
	vertices, indices := GridGeometry(10, 20, 4, 1)
	require.Len(t, vertices, 25)
	assert.Equal(t, [3]float32{-5, 0, -10}, vertices[0].Position)
	assert.Equal(t, [3]float32{5, 0, 10}, vertices[24].Position)

	for tri := 0; tri < len(indices); tri += 3 {
		assert.InDelta(t, 1, triangleNormal(vertices, indices, tri)[1], 1e-5)
	}
}

func TestNewGrid(t *testing.T) {
	m := NewGrid("floor", 10, 20, 4)
	assert.Equal(t, "floor", m.Name())
	require.Len(t, m.Meshes(), 1)
	assert.Len(t, m.Meshes()[0].Vertices(), 25)

	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-5, 0, -10}, lo)
	assert.Equal(t, mgl32.Vec3{5, 0, 10}, hi)
}

func TestComputeNormals(t *testing.T) {
	vertices, indices := GridGeometry(2, 2, 2, 1)
	for i := range vertices {
		vertices[i].Normal = [3]float32{}
	}
	ComputeNormals(vertices, indices)
	for _, v := range vertices {
		assert.InDelta(t, 1, v.Normal[1], 1e-5)
	}
}

func TestMesh_UploadOnce(t *testing.T) {
	u := &recordingUploader{}
	m := NewCube("crate")

	require.NoError(t, m.Upload(u))
	require.NoError(t, m.Upload(u))
	assert.Equal(t, 1, u.calls)
	assert.Len(t, u.vertexData, 24*32)
	assert.Len(t, u.indexData, 36*4)
	assert.Equal(t, 36, u.indexCount)
	assert.True(t, m.Meshes()[0].Uploaded())

	m.Release()
	assert.False(t, m.Meshes()[0].Uploaded())
}

func TestMesh_UploadErrors(t *testing.T) {
	assert.Error(t, NewMesh("empty", nil, nil).Upload(&recordingUploader{}))

	m := NewCube("crate")
	err := m.Upload(&recordingUploader{err: errors.New("out of memory")})
	assert.ErrorContains(t, err, "mesh crate")
}

func TestMesh_DefaultMaterial(t *testing.T) {
	m := NewMesh("tri", nil, nil)
	require.NotNil(t, m.Material())

	red := material.NewMaterial(material.WithName("red"))
	m.SetMaterial(red)
	assert.Same(t, red, m.Material())
	m.SetMaterial(nil)
	assert.NotNil(t, m.Material())
}

func TestModel_BoundsAndRadius(t *testing.T) {
	a := NewMesh("a", []GPUVertex{{Position: [3]float32{-1, 0, 0}}}, []uint32{0})
	b := NewMesh("b", []GPUVertex{{Position: [3]float32{3, 4, 0}}}, []uint32{0})
	m := NewModel(WithName("ab"), WithMeshes(a, b))

	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, lo)
	assert.Equal(t, mgl32.Vec3{3, 4, 0}, hi)
	assert.InDelta(t, 5, m.BoundingRadius(), 1e-6)

	assert.Equal(t, float32(2), NewModel(WithMeshes(a), WithBoundingRadius(2)).BoundingRadius())
}
