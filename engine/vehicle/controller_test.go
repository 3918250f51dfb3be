package vehicle

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/physics"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVehicle records the calls the controller makes. Unused methods panic through the nil embed.
type fakeVehicle struct {
	physics.RaycastVehicle

	chassis  mgl32.Mat4
	wheels   []physics.WheelConfig
	updates  int
	engine   map[int]float32
	steering map[int]float32
	brake    map[int]float32
}

func newFakeVehicle() *fakeVehicle {
	return &fakeVehicle{
		chassis:  mgl32.Ident4(),
		engine:   map[int]float32{},
		steering: map[int]float32{},
		brake:    map[int]float32{},
	}
}

func (f *fakeVehicle) UpdateVehicle(float32)                 { f.updates++ }
func (f *fakeVehicle) ChassisWorldTransform() mgl32.Mat4     { return f.chassis }
func (f *fakeVehicle) NumWheels() int                        { return len(f.wheels) }
func (f *fakeVehicle) ApplyEngineForce(force float32, i int) { f.engine[i] = force }
func (f *fakeVehicle) SetSteeringValue(a float32, i int)     { f.steering[i] = a }
func (f *fakeVehicle) SetBrake(force float32, i int)         { f.brake[i] = force }
func (f *fakeVehicle) CurrentSpeedKmHour() float32           { return 36 }

func (f *fakeVehicle) AddWheel(cfg physics.WheelConfig) int {
	f.wheels = append(f.wheels, cfg)
	return len(f.wheels) - 1
}

func (f *fakeVehicle) WheelTransformWS(i int) mgl32.Mat4 {
	p := f.chassis.Mul4x1(f.wheels[i].ConnectionPoint.Vec4(1))
	return mgl32.Translate3D(p.X(), p.Y(), p.Z())
}

type fakeBody struct {
	physics.RigidBody

	info      physics.RigidBodyInfo
	transform mgl32.Mat4
	linVel    mgl32.Vec3
	angVel    mgl32.Vec3
	activated bool
}

func (b *fakeBody) SetWorldTransform(m mgl32.Mat4)  { b.transform = m }
func (b *fakeBody) LinearVelocity() mgl32.Vec3      { return b.linVel }
func (b *fakeBody) SetLinearVelocity(v mgl32.Vec3)  { b.linVel = v }
func (b *fakeBody) SetAngularVelocity(w mgl32.Vec3) { b.angVel = w }
func (b *fakeBody) Activate(bool)                   { b.activated = true }

type fakeFactory struct {
	body    *fakeBody
	vehicle *fakeVehicle
}

func (f *fakeFactory) NewRigidBody(info physics.RigidBodyInfo) physics.RigidBody {
	f.body = &fakeBody{info: info}
	return f.body
}

// NewRaycastVehicle starts the chassis at the body's spawn position, as the real vehicle does.
func (f *fakeFactory) NewRaycastVehicle(chassis physics.RigidBody) physics.RaycastVehicle {
	f.vehicle = newFakeVehicle()
	if b, ok := chassis.(*fakeBody); ok {
		p := b.info.Position
		f.vehicle.chassis = mgl32.Translate3D(p.X(), p.Y(), p.Z())
	}
	return f.vehicle
}

type fakeWorld struct {
	physics.World

	bodies  []physics.RigidBody
	actions []physics.Action
}

func (w *fakeWorld) AddRigidBody(b physics.RigidBody) { w.bodies = append(w.bodies, b) }
func (w *fakeWorld) AddAction(a physics.Action)       { w.actions = append(w.actions, a) }

func (w *fakeWorld) RemoveRigidBody(b physics.RigidBody) {
	w.bodies = w.bodies[:0]
}

func (w *fakeWorld) RemoveAction(a physics.Action) {
	w.actions = w.actions[:0]
}

func newFakeController(t *testing.T, options ...ControllerBuilderOption) (Controller, *fakeWorld, *fakeFactory) {
	t.Helper()
	w := &fakeWorld{}
	f := &fakeFactory{}
	return NewController(w, f, mgl32.Vec3{0, 5, 0}, options...), w, f
}

func TestNewController_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "vehicle: nil world", func() { NewController(nil, &fakeFactory{}, mgl32.Vec3{}) })
	assert.PanicsWithValue(t, "vehicle: nil factory", func() { NewController(&fakeWorld{}, nil, mgl32.Vec3{}) })
}

func TestNewController_BuildsFourWheelVehicle(t *testing.T) {
	c, w, f := newFakeController(t)

	assert.Equal(t, DefaultParameters(), c.Parameters())
	assert.Equal(t, float32(1000), f.body.info.Mass)
	assert.Equal(t, ChassisHalfExtents, f.body.info.HalfExtents)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, f.body.info.Position)

	require.Len(t, f.vehicle.wheels, 4)
	for i, cfg := range f.vehicle.wheels {
		assert.Equal(t, i < 2, cfg.Front, "wheel %d", i)
		assert.Equal(t, mgl32.Vec3{0, -1, 0}, cfg.Direction)
		assert.Equal(t, mgl32.Vec3{-1, 0, 0}, cfg.Axle)
		assert.Equal(t, float32(0.6), cfg.SuspensionRestLength)
		assert.Equal(t, float32(0.5), cfg.Radius)
		assert.Equal(t, float32(20), cfg.SuspensionStiffness)
		assert.Equal(t, float32(2.3), cfg.DampingRelaxation)
		assert.Equal(t, float32(4.4), cfg.DampingCompression)
		assert.Equal(t, float32(10), cfg.FrictionSlip)
		assert.Equal(t, float32(0.1), cfg.RollInfluence)
	}
	assert.Equal(t, mgl32.Vec3{1, 0, 1.5}, f.vehicle.wheels[0].ConnectionPoint)
	assert.Equal(t, mgl32.Vec3{-1, 0, -1.5}, f.vehicle.wheels[3].ConnectionPoint)

	assert.Equal(t, []physics.RigidBody{f.body}, w.bodies)
	assert.Equal(t, []physics.Action{f.vehicle}, w.actions)
	assert.Len(t, c.Wheels(), 4, "wheels are populated before the first update")
	assert.Same(t, f.body, c.Chassis())
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, c.Position(), "pose is read from the chassis on creation")
	assert.Zero(t, f.vehicle.updates)
}

func TestController_CustomParameters(t *testing.T) {
	p := DefaultParameters()
	p.Mass = 800
	p.WheelRadius = 0.4
	_, _, f := newFakeController(t, WithParameters(p))

	assert.Equal(t, float32(800), f.body.info.Mass)
	assert.Equal(t, float32(0.4), f.vehicle.wheels[2].Radius)
}

func TestController_UpdateReadsChassisPose(t *testing.T) {
	c, _, f := newFakeController(t)
	yaw := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	f.vehicle.chassis = mgl32.Translate3D(3, 1, -2).Mul4(yaw.Mat4())

	c.Update(1.0 / 60)
	assert.Equal(t, 1, f.vehicle.updates)
	assert.Equal(t, mgl32.Vec3{3, 1, -2}, c.Position())

	// chassis +Z turned a quarter about +Y points along +X
	assert.InDelta(t, 1, c.Forward().X(), 1e-5)
	assert.InDelta(t, 0, c.Forward().Z(), 1e-5)
	assert.InDelta(t, 1, c.Up().Y(), 1e-5)
	assert.InDelta(t, 1, c.Right().Z(), 1e-5)
	mathtest.Near(t, c.Orientation().Rotate(mgl32.Vec3{0, 0, -1}), c.Forward(), 1e-5)
	assert.InDelta(t, -90, c.Rotation().Y(), 0.1)

	require.Len(t, c.Wheels(), 4)
	// front-left wheel at chassis (1, 0, 1.5) after the quarter turn
	mathtest.Near(t, mgl32.Vec3{4.5, 1, -3}, c.Wheels()[0].Position, 1e-5)
	assert.Equal(t, float32(36), c.SpeedKmHour())
}

func TestController_Inputs(t *testing.T) {
	c, _, f := newFakeController(t)

	c.ApplyEngineForce(1500)
	c.Steer(0.25)
	c.Brake(20)

	assert.Equal(t, map[int]float32{0: 1500, 1: 1500, 2: 1500, 3: 1500}, f.vehicle.engine)
	assert.Equal(t, map[int]float32{0: 0.25, 1: 0.25}, f.vehicle.steering)
	assert.Equal(t, map[int]float32{0: 20, 1: 20, 2: 20, 3: 20}, f.vehicle.brake)
}

func TestController_Flip(t *testing.T) {
	c, _, f := newFakeController(t)
	f.vehicle.chassis = mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DZ(math32.Pi))
	c.Update(0)
	f.body.linVel = mgl32.Vec3{4, 5, 6}
	f.body.angVel = mgl32.Vec3{1, 1, 1}

	c.Flip()
	assert.Equal(t, mgl32.Translate3D(1, 4, 3), f.body.transform)
	assert.Equal(t, mgl32.Vec3{}, c.Velocity())
	assert.Equal(t, mgl32.Vec3{}, f.body.angVel)
	assert.True(t, f.body.activated)
}

func TestController_Release(t *testing.T) {
	c, w, _ := newFakeController(t)
	c.Release()
	assert.Empty(t, w.bodies)
	assert.Empty(t, w.actions)
}

func TestController_DrivesInRealWorld(t *testing.T) {
	w := physics.NewWorld(physics.WithLogger(logger.Nop()))
	c := NewController(w, physics.NewFactory(w), mgl32.Vec3{0, 1, 0})
	assert.Equal(t, 1, w.NumRigidBodies())

	for range 60 {
		w.StepSimulation(1.0/60, physics.DefaultMaxSubSteps)
		c.Update(1.0 / 60)
	}
	c.ApplyEngineForce(2000)
	for range 120 {
		w.StepSimulation(1.0/60, physics.DefaultMaxSubSteps)
		c.Update(1.0 / 60)
	}

	assert.Greater(t, c.Position().Z(), float32(3), "drives along Forward")
	assert.Greater(t, c.Forward().Z(), float32(0.95))
	assert.Greater(t, c.SpeedKmHour(), float32(18))
	assert.Greater(t, c.Velocity().Dot(c.Forward()), float32(5))
	for _, wheel := range c.Wheels() {
		assert.InDelta(t, 0.5, wheel.Position.Y(), 0.1, "hubs ride one radius above the ground")
	}

	c.Release()
	assert.Zero(t, w.NumRigidBodies())
}
