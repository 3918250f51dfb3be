package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# two materials
mtllib quad.mtl
o quad
v -1 0 -1
v  1 0 -1
v  1 0  1
v -1 0  1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
usemtl paint
f 1/1/1 4/4/1 3/3/1 2/2/1
usemtl glass
f -4//-1 -2//-1 -3//-1
`

const quadMTL = `newmtl paint
Ka 0.1 0.1 0.1
Kd 0.8 0.2 0.2
Ks 1 1 1
Ns 64
map_Kd textures/paint.png

newmtl glass
Kd 0.2 0.2 0.9
`

func writeQuad(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.mtl"), []byte(quadMTL), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(filepath.Join(dir, "textures", "paint.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return filepath.Join(dir, "quad.obj")
}

func newTestLoader(options ...LoaderBuilderOption) Loader {
	return NewLoader(BackendTypeOBJ, append([]LoaderBuilderOption{WithLogger(logger.Nop())}, options...)...)
}

func TestParseOBJ_FanAndDedup(t *testing.T) {
	doc, err := parseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	assert.Equal(t, "quad", doc.name)
	assert.Equal(t, []string{"quad.mtl"}, doc.mtllibs)
	require.Len(t, doc.groups, 2)

	paint := doc.groups[0]
	assert.Equal(t, "paint", paint.material)
	assert.Len(t, paint.vertices, 4, "corners are shared")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, paint.indices)
	assert.Equal(t, [2]float32{0, 1}, paint.vertices[0].TexCoord, "v is flipped")
	assert.Equal(t, [3]float32{0, 1, 0}, paint.vertices[0].Normal)

	glass := doc.groups[1]
	assert.Equal(t, [3]float32{-1, 0, -1}, glass.vertices[0].Position, "negative indices count from the end")
	assert.Equal(t, [3]float32{1, 0, 1}, glass.vertices[1].Position)
}

func TestParseOBJ_ComputesMissingNormals(t *testing.T) {
	doc, err := parseOBJ(strings.NewReader("v 0 0 0\nv 0 0 1\nv 1 0 0\nf 1 2 3\n"))
	require.NoError(t, err)
	require.Len(t, doc.groups, 1)
	for _, v := range doc.groups[0].vertices {
		mathtest.Near(t, mgl32.Vec3{0, 1, 0}, mgl32.Vec3(v.Normal), 1e-5)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	cases := map[string]string{
		"short vertex":     "v 1 2\n",
		"bad float":        "v 1 2 x\n",
		"two corner face":  "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"index range":      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n",
		"zero index":       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"no position":      "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n",
		"too many slashes": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseOBJ(strings.NewReader(src))
			assert.ErrorContains(t, err, "obj: line")
		})
	}
}

func TestParseMTL(t *testing.T) {
	mats, err := parseMTL(strings.NewReader(quadMTL), "/assets/car")
	require.NoError(t, err)
	require.Len(t, mats, 2)

	paint := mats["paint"]
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, paint.Ambient)
	assert.Equal(t, mgl32.Vec3{0.8, 0.2, 0.2}, paint.Diffuse)
	assert.Equal(t, float32(64), paint.Shininess)
	assert.Equal(t, filepath.Join("/assets/car", "textures", "paint.png"), paint.DiffuseMap)

	glass := mats["glass"]
	assert.Equal(t, float32(32), glass.Shininess, "unset fields keep defaults")
	assert.Empty(t, glass.DiffuseMap)

	_, err = parseMTL(strings.NewReader("newmtl x\nKd 1 1\n"), "")
	assert.ErrorContains(t, err, "mtl: line 2")
}

func TestLoader_Load(t *testing.T) {
	path := writeQuad(t)
	l := newTestLoader()

	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quad", m.Name())
	require.Len(t, m.Meshes(), 2)

	paint := m.Meshes()[0].Material()
	assert.Equal(t, "paint", paint.Name())
	assert.Equal(t, mgl32.Vec3{0.8, 0.2, 0.2}, paint.Diffuse())
	assert.Equal(t, float32(64), paint.Shininess())
	require.NotNil(t, paint.DiffuseTexture())
	assert.Equal(t, 2, paint.DiffuseTexture().Width)

	glass := m.Meshes()[1].Material()
	assert.Equal(t, "glass", glass.Name())
	assert.Nil(t, glass.DiffuseTexture())

	lo, hi := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, 0, -1}, lo)
	assert.Equal(t, mgl32.Vec3{1, 0, 1}, hi)

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Same(t, m, l.Get(path))
	assert.Len(t, l.Models(), 1)
}

func TestLoader_MissingSideFilesStillLoad(t *testing.T) {
	path := writeQuad(t)
	dir := filepath.Dir(path)
	require.NoError(t, os.Remove(filepath.Join(dir, "textures", "paint.png")))
	require.NoError(t, os.Remove(filepath.Join(dir, "quad.mtl")))

	m, err := newTestLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, m.Meshes(), 2)
	assert.NotNil(t, m.Meshes()[0].Material(), "default material")
	assert.Nil(t, m.Meshes()[0].Material().DiffuseTexture())
}

func TestLoader_LoadReader(t *testing.T) {
	l := newTestLoader()
	m, err := l.LoadReader("inline", strings.NewReader(quadOBJ), "")
	require.NoError(t, err)
	assert.Equal(t, "inline", m.Name())
	assert.Len(t, m.Meshes(), 2)
	assert.Same(t, m, l.Get("inline"))

	_, err = l.LoadReader("empty", strings.NewReader("v 0 0 0\n"), "")
	assert.ErrorContains(t, err, "no faces")
	assert.Nil(t, l.Get("empty"))
}

func TestLoader_Errors(t *testing.T) {
	l := newTestLoader()
	_, err := l.Load("car.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Panics(t, func() { NewLoader(LoaderBackendType(42)) })
}

func TestLoader_LoadAll(t *testing.T) {
	path := writeQuad(t)
	cube := model.NewCube("cube")
	l := newTestLoader(WithWorkers(2), WithModel("cube.obj", cube))

	models, err := l.LoadAll(path, "cube.obj", "missing.obj", "bad.fbx")
	require.Len(t, models, 4)
	assert.Equal(t, "quad", models[0].Name())
	assert.Same(t, cube, models[1])
	assert.Nil(t, models[2])
	assert.Nil(t, models[3])
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	models, err = l.LoadAll()
	assert.NoError(t, err)
	assert.Empty(t, models)
}
