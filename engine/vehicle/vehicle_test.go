package vehicle

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/light"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-racer/engine/scene"
	"github.com/Carmen-Shannon/oxy-racer/engine/scene_graph"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	pipelines map[string]pipeline.Pipeline
	draws     []bind_group_provider.BindGroupProvider
}

func (r *recordingRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (r *recordingRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (r *recordingRenderer) InitCubeTextureView(bind_group_provider.BindGroupProvider, int, common.CubeTextureStagingData) error {
	return nil
}

func (r *recordingRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (r *recordingRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (r *recordingRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (r *recordingRenderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.pipelines[p.PipelineKey()] = p
	return nil
}

func (r *recordingRenderer) Pipeline(key string) pipeline.Pipeline {
	return r.pipelines[key]
}

func (r *recordingRenderer) DrawCall(_ string, mesh bind_group_provider.BindGroupProvider, _ []bind_group_provider.BindGroupProvider) error {
	r.draws = append(r.draws, mesh)
	return nil
}

func newTestVehicle(t *testing.T, options ...VehicleBuilderOption) (Vehicle, *fakeFactory) {
	t.Helper()
	c, _, f := newFakeController(t)
	options = append([]VehicleBuilderOption{WithLogger(logger.Nop())}, options...)
	return NewVehicle(c, options...), f
}

func TestNewVehicle_Defaults(t *testing.T) {
	assert.PanicsWithValue(t, "vehicle: nil controller", func() { NewVehicle(nil) })

	v, _ := newTestVehicle(t)
	assert.Equal(t, "vehicle", v.Name())
	require.Len(t, v.Wheels(), 4)
	assert.Same(t, v.Wheels()[0].Model(), v.Wheels()[3].Model(), "wheels share one model")

	lo, hi := v.Model().Bounds()
	assert.Equal(t, ChassisHalfExtents.Mul(-1), lo)
	assert.Equal(t, ChassisHalfExtents, hi)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, v.Position(), "snapped to the controller on creation")
}

func TestNewVehicle_CustomModels(t *testing.T) {
	body := model.NewCube("kart")
	wheel := model.NewCube("kart wheel")
	v, _ := newTestVehicle(t, WithBodyModel(body), WithWheelModel(wheel),
		WithObjectOptions(game_object.WithName("kart")))

	assert.Same(t, body, v.Model())
	assert.Same(t, wheel, v.Wheels()[1].Model())
	assert.Equal(t, "kart", v.Name())
}

func TestVehicle_UpdateFollowsController(t *testing.T) {
	v, f := newTestVehicle(t)
	yaw := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	f.vehicle.chassis = mgl32.Translate3D(7, 1, 2).Mul4(yaw.Mat4())

	v.Update(1.0 / 60)

	assert.Equal(t, mgl32.Vec3{7, 1, 2}, v.Position())
	mathtest.Near(t, v.Controller().Forward(), v.Forward(), 1e-5, "the transform faces where the car drives")
	assert.Equal(t, 1, f.vehicle.updates)
}

func TestVehicle_DrawsBodyAndWheelsThroughScene(t *testing.T) {
	r := &recordingRenderer{pipelines: map[string]pipeline.Pipeline{}}
	s, err := scene.NewScene(camera.NewCamera(), r, scene.WithLogger(logger.Nop()))
	require.NoError(t, err)

	v, f := newTestVehicle(t)
	node, err := s.AddObject(v, scene_graph.Nil)
	require.NoError(t, err)

	headlight := light.NewSpotLight()
	lightNode, err := s.AddObject(headlight, node)
	require.NoError(t, err)

	f.vehicle.chassis = mgl32.Translate3D(0, 2, 10)
	s.Update(1.0 / 60)
	s.Draw()

	// body then four wheels
	require.Len(t, r.draws, 5)
	assert.Same(t, v.Model().Meshes()[0].MeshProvider(), r.draws[0])
	for i := 1; i < 5; i++ {
		assert.Same(t, v.Wheels()[0].Model().Meshes()[0].MeshProvider(), r.draws[i])
	}

	wheels := v.Controller().Wheels()
	for i, w := range v.Wheels() {
		assert.Equal(t, wheels[i].Matrix(), w.WorldMatrix())
	}

	world := s.Graph().WorldMatrix(lightNode)
	mathtest.Near(t, mgl32.Vec3{0, 2, 10}, world.Col(3).Vec3(), 1e-5, "lights ride along")

	v.SetEnabled(false)
	r.draws = nil
	s.Draw()
	assert.Empty(t, r.draws)
}
