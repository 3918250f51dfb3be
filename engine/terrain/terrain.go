package terrain

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultGridSize    = 64
	DefaultHeightScale = float32(128)
	DefaultWorldScale  = float32(1)
)

type terrain struct {
	game_object.GameObject

	heightmap   common.ImageData
	gridSize    int
	heightScale float32
	worldScale  float32
	uvRepeat    float32
	mat         material.Material
	objectOpts  []game_object.GameObjectBuilderOption

	// collision grid, gridSize × gridSize, row-major along +X then +Z
	vertices []mgl32.Vec3
	indices  []uint32
}

// Terrain is a heightmap-driven ground mesh. The red channel of the heightmap is the height; the
// grid spans width × height pixels scaled by the world scale, centered on the object's position.
// The same grid is drawn, used for collision and sampled by HeightAt.
type Terrain interface {
	game_object.GameObject

	// Heightmap returns the source image.
	Heightmap() common.ImageData

	// GridSize returns the vertices per side of the collision grid.
	GridSize() int

	// HeightScale returns the vertical scale applied to samples.
	HeightScale() float32

	// HorizontalScale returns the world units per heightmap pixel along X and Z.
	HorizontalScale() float32

	// Extent returns the size of the terrain along X and Z in local units.
	//
	// Returns:
	//   - width: extent along X
	//   - depth: extent along Z
	Extent() (width, depth float32)

	// HeightmapSample returns the red channel of the nearest pixel as a value in [0, 1].
	// Coordinates outside [0, 1] are clamped to the image.
	//
	// Parameters:
	//   - u: horizontal coordinate, 0 is the left column
	//   - v: vertical coordinate, 0 is the top row
	//
	// Returns:
	//   - float32: the normalized sample
	HeightmapSample(u, v float32) float32

	// GenerateCollisionMesh builds a gridSize × gridSize vertex grid over the heightmap with six
	// indices per quad. Rows are generated concurrently.
	//
	// Parameters:
	//   - gridSize: vertices per side, at least 2
	//
	// Returns:
	//   - []mgl32.Vec3: the vertices in local space
	//   - []uint32: the triangle indices
	GenerateCollisionMesh(gridSize int) ([]mgl32.Vec3, []uint32)

	// CollisionMesh returns the grid generated at construction.
	CollisionMesh() ([]mgl32.Vec3, []uint32)

	// LocalHeightAt interpolates the grid height at a local-space position.
	//
	// Parameters:
	//   - x: local X
	//   - z: local Z
	//
	// Returns:
	//   - float32: the height
	//   - bool: false outside the grid
	LocalHeightAt(x, z float32) (float32, bool)

	// HeightAt returns the ground height at a world-space position. Only the terrain position is
	// applied; terrains are not rotated or scaled through their transform.
	//
	// Parameters:
	//   - x: world X
	//   - z: world Z
	//
	// Returns:
	//   - float32: the world-space height
	//   - bool: false outside the terrain
	HeightAt(x, z float32) (float32, bool)
}

var _ Terrain = &terrain{}

// NewTerrain builds a terrain from a decoded heightmap. The draw mesh shares the collision grid,
// with smooth normals and texture coordinates repeated uvRepeat times across the grid.
//
// Parameters:
//   - heightmap: the decoded heightmap
//   - options: variadic list of TerrainBuilderOption functions
//
// Returns:
//   - Terrain: the terrain
//   - error: error if the heightmap is empty or the grid size is below 2
func NewTerrain(heightmap common.ImageData, options ...TerrainBuilderOption) (Terrain, error) {
	t := &terrain{
		heightmap:   heightmap,
		gridSize:    DefaultGridSize,
		heightScale: DefaultHeightScale,
		worldScale:  DefaultWorldScale,
		uvRepeat:    1,
	}
	for _, opt := range options {
		opt(t)
	}
	if heightmap.Width <= 0 || heightmap.Height <= 0 || len(heightmap.Pixels) < heightmap.Width*heightmap.Height*4 {
		return nil, fmt.Errorf("terrain: heightmap is empty")
	}
	if t.gridSize < 2 {
		return nil, fmt.Errorf("terrain: grid size %d, need at least 2", t.gridSize)
	}

	t.vertices, t.indices = t.GenerateCollisionMesh(t.gridSize)

	if t.mat == nil {
		t.mat = material.NewMaterial(
			material.WithName("terrain"),
			material.WithDiffuse(mgl32.Vec3{0.35, 0.55, 0.25}),
			material.WithSpecular(mgl32.Vec3{0.05, 0.05, 0.05}),
			material.WithShininess(4),
		)
	}
	mesh := model.NewMesh("terrain", t.drawVertices(), t.indices, model.WithMaterial(t.mat))
	objectOpts := append([]game_object.GameObjectBuilderOption{
		game_object.WithName("terrain"),
		game_object.WithModel(model.NewModel(model.WithName("terrain"), model.WithMeshes(mesh))),
	}, t.objectOpts...)
	t.GameObject = game_object.NewGameObject(objectOpts...)
	return t, nil
}

// LoadTerrain decodes the heightmap at path and builds a terrain from it.
//
// Parameters:
//   - path: the heightmap image file
//   - options: variadic list of TerrainBuilderOption functions
//
// Returns:
//   - Terrain: the terrain
//   - error: error if the image cannot be loaded
func LoadTerrain(path string, options ...TerrainBuilderOption) (Terrain, error) {
	img, err := common.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	return NewTerrain(img, options...)
}

func (t *terrain) Heightmap() common.ImageData {
	return t.heightmap
}

func (t *terrain) GridSize() int {
	return t.gridSize
}

func (t *terrain) HeightScale() float32 {
	return t.heightScale
}

func (t *terrain) HorizontalScale() float32 {
	return t.worldScale
}

func (t *terrain) Extent() (float32, float32) {
	return float32(t.heightmap.Width) * t.worldScale, float32(t.heightmap.Height) * t.worldScale
}

func (t *terrain) HeightmapSample(u, v float32) float32 {
	u = mgl32.Clamp(u, 0, 1)
	v = mgl32.Clamp(v, 0, 1)
	r, _, _, _ := t.heightmap.At(int(u*float32(t.heightmap.Width-1)), int(v*float32(t.heightmap.Height-1)))
	return float32(r) / 255
}

func (t *terrain) GenerateCollisionMesh(gridSize int) ([]mgl32.Vec3, []uint32) {
	if gridSize < 2 {
		return nil, nil
	}
	var (
		vertices = make([]mgl32.Vec3, gridSize*gridSize)
		spacing  = 1 / float32(gridSize-1)
		width    = float32(t.heightmap.Width)
		height   = float32(t.heightmap.Height)
		wg       sync.WaitGroup
	)

	pool := worker.NewDynamicWorkerPool(runtime.NumCPU(), gridSize, 100*time.Millisecond)
	for z := range gridSize {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      z,
			Payload: z,
			Do: func() (any, error) {
				defer wg.Done()
				fz := float32(z) * spacing
				row := vertices[z*gridSize : (z+1)*gridSize]
				for x := range row {
					fx := float32(x) * spacing
					row[x] = mgl32.Vec3{
						width * (fx - 0.5) * t.worldScale,
						t.HeightmapSample(fx, 1-fz) * 2 * t.heightScale,
						height * (fz - 0.5) * t.worldScale,
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	pool.Stop()

	return vertices, model.GridIndices(gridSize)
}

func (t *terrain) CollisionMesh() ([]mgl32.Vec3, []uint32) {
	return t.vertices, t.indices
}

func (t *terrain) LocalHeightAt(x, z float32) (float32, bool) {
	width, depth := t.Extent()
	n := float32(t.gridSize - 1)
	gx := (x/width + 0.5) * n
	gz := (z/depth + 0.5) * n
	if gx < 0 || gz < 0 || gx > n || gz > n || math32.IsNaN(gx) || math32.IsNaN(gz) {
		return 0, false
	}

	x0 := min(int(gx), t.gridSize-2)
	z0 := min(int(gz), t.gridSize-2)
	fx, fz := gx-float32(x0), gz-float32(z0)

	h := func(ix, iz int) float32 { return t.vertices[iz*t.gridSize+ix][1] }
	near := common.Lerp(h(x0, z0), h(x0+1, z0), fx)
	far := common.Lerp(h(x0, z0+1), h(x0+1, z0+1), fx)
	return common.Lerp(near, far, fz), true
}

func (t *terrain) HeightAt(x, z float32) (float32, bool) {
	p := t.Position()
	h, ok := t.LocalHeightAt(x-p[0], z-p[2])
	if !ok {
		return 0, false
	}
	return h + p[1], true
}

// drawVertices converts the collision grid into lit vertices.
func (t *terrain) drawVertices() []model.GPUVertex {
	spacing := 1 / float32(t.gridSize-1)
	out := make([]model.GPUVertex, len(t.vertices))
	for i, p := range t.vertices {
		x, z := i%t.gridSize, i/t.gridSize
		out[i] = model.GPUVertex{
			Position: p,
			TexCoord: [2]float32{float32(x) * spacing * t.uvRepeat, float32(z) * spacing * t.uvRepeat},
		}
	}
	model.ComputeNormals(out, t.indices)
	return out
}
