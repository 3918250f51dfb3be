package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chassis spring equilibrium: 4 · stiffness · (rest - length) · mass = mass · g
const restingHeight = 0.5 + 0.6 - 9.81/(4*20)

func testWheel(x, z float32, front bool) WheelConfig {
	return WheelConfig{
		ConnectionPoint:      mgl32.Vec3{x, 0, z},
		Direction:            mgl32.Vec3{0, -1, 0},
		Axle:                 mgl32.Vec3{-1, 0, 0},
		SuspensionRestLength: 0.6,
		Radius:               0.5,
		Front:                front,
		SuspensionStiffness:  20,
		DampingRelaxation:    2.3,
		DampingCompression:   4.4,
		FrictionSlip:         10,
		RollInfluence:        0.1,
	}
}

func newTestVehicle(t *testing.T, w World, position mgl32.Vec3) RaycastVehicle {
	t.Helper()
	f := NewFactory(w)
	chassis := f.NewRigidBody(RigidBodyInfo{Mass: 1000, HalfExtents: mgl32.Vec3{1, 0.5, 2}, Position: position})
	v := f.NewRaycastVehicle(chassis)
	v.AddWheel(testWheel(1, 1.5, true))
	v.AddWheel(testWheel(-1, 1.5, true))
	v.AddWheel(testWheel(1, -1.5, false))
	v.AddWheel(testWheel(-1, -1.5, false))
	w.AddRigidBody(chassis)
	w.AddAction(v)
	return v
}

func run(w World, seconds float32) {
	for range int(seconds * 60) {
		w.StepSimulation(DefaultFixedTimeStep, DefaultMaxSubSteps)
	}
}

func TestNewRaycastVehicle_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "physics: nil world", func() { NewRaycastVehicle(nil, NewRigidBody(RigidBodyInfo{})) })
	assert.PanicsWithValue(t, "physics: nil chassis", func() { NewRaycastVehicle(newTestWorld(), nil) })
}

func TestRaycastVehicle_UpdateVehicleOnlyRefreshes(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, 0.9, 0})
	require.Equal(t, 4, v.NumWheels())

	v.UpdateVehicle(DefaultFixedTimeStep)
	assert.Equal(t, mgl32.Vec3{}, v.RigidBody().LinearVelocity(), "no impulses outside the world step")

	for i := range v.NumWheels() {
		info := v.WheelInfo(i)
		assert.True(t, info.InContact, "wheel %d", i)
		assert.InDelta(t, 0.4, info.SuspensionLength, 1e-4)

		hub := v.WheelTransformWS(i).Col(3).Vec3()
		assert.InDelta(t, 0.5, hub.Y(), 1e-4, "hub sits one radius above the ground")
		assert.InDelta(t, info.Config.ConnectionPoint.X(), hub.X(), 1e-5)
		assert.InDelta(t, info.Config.ConnectionPoint.Z(), hub.Z(), 1e-5)
	}
	assert.True(t, v.WheelInfo(0).Config.Front)
	assert.False(t, v.WheelInfo(3).Config.Front)
}

func TestRaycastVehicle_WheelsInAir(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, 10, 0})
	v.UpdateVehicle(DefaultFixedTimeStep)

	info := v.WheelInfo(0)
	assert.False(t, info.InContact)
	assert.Equal(t, float32(0.6), info.SuspensionLength)
	assert.InDelta(t, 10-0.6, v.WheelTransformWS(0).Col(3).Y(), 1e-5)
}

func TestRaycastVehicle_SettlesOnSuspension(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, 2, 0})

	run(w, 4)
	v.UpdateVehicle(DefaultFixedTimeStep)

	pos := v.RigidBody().Position()
	assert.InDelta(t, restingHeight, pos.Y(), 0.05)
	assert.InDelta(t, 0, pos.X(), 0.05)
	assert.InDelta(t, 0, pos.Z(), 0.05)
	for i := range v.NumWheels() {
		assert.True(t, v.WheelInfo(i).InContact)
	}
	assert.InDelta(t, 0, v.CurrentSpeedKmHour(), 0.5)
}

func TestRaycastVehicle_EngineDrivesForward(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, restingHeight, 0})
	run(w, 1)

	for i := range v.NumWheels() {
		v.ApplyEngineForce(2000, i)
	}
	run(w, 2)

	vel := v.RigidBody().LinearVelocity()
	assert.Greater(t, vel.Z(), float32(5))
	assert.InDelta(t, 0, vel.X(), 0.5)
	assert.Greater(t, v.CurrentSpeedKmHour(), float32(18))
	assert.Greater(t, v.WheelInfo(0).Rotation, float32(0), "wheels roll forward")
	assert.Greater(t, v.ForwardVector().Z(), float32(0.95))
}

func TestRaycastVehicle_SteeringTurnsTowardsPositiveX(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, restingHeight, 0})
	run(w, 1)

	for i := range v.NumWheels() {
		v.ApplyEngineForce(1000, i)
	}
	v.SetSteeringValue(0.2, 0)
	v.SetSteeringValue(0.2, 1)
	run(w, 2)

	assert.Equal(t, float32(0.2), v.WheelInfo(0).Steering)
	assert.Zero(t, v.WheelInfo(2).Steering)
	assert.Greater(t, v.RigidBody().Position().X(), float32(0.5))
	assert.Greater(t, v.ForwardVector().X(), float32(0.1))
}

func TestRaycastVehicle_BrakeStops(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, restingHeight, 0})
	run(w, 1)

	body := v.RigidBody()
	body.SetLinearVelocity(mgl32.Vec3{0, 0, 10})
	body.Activate(true)
	for i := range v.NumWheels() {
		v.SetBrake(100, i)
	}
	run(w, 1)
	assert.InDelta(t, 0, body.LinearVelocity().Z(), 0.5, "4 wheels at 100 per step stop 10 m/s in well under a second")
	run(w, 0.5)
	assert.InDelta(t, 0, body.LinearVelocity().Z(), 0.5, "and it stays stopped")
	assert.Equal(t, float32(100), v.WheelInfo(1).Brake)
}

func TestRaycastVehicle_SleepingChassisWakesOnThrottle(t *testing.T) {
	w := newTestWorld()
	v := newTestVehicle(t, w, mgl32.Vec3{0, restingHeight, 0})
	run(w, 4)
	require.False(t, v.RigidBody().Active())

	v.ApplyEngineForce(1000, 2)
	assert.True(t, v.RigidBody().Active())
	assert.Equal(t, float32(1000), v.WheelInfo(2).EngineForce)
}
