package vehicle

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/physics"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ChassisHalfExtents is the size of the chassis collision box.
var ChassisHalfExtents = mgl32.Vec3{1, 0.5, 2}

// wheel connection points in chassis space, front pair first
var wheelLayout = [4]struct {
	point mgl32.Vec3
	front bool
}{
	{mgl32.Vec3{1, 0, 1.5}, true},
	{mgl32.Vec3{-1, 0, 1.5}, true},
	{mgl32.Vec3{1, 0, -1.5}, false},
	{mgl32.Vec3{-1, 0, -1.5}, false},
}

var (
	wheelDirection = mgl32.Vec3{0, -1, 0}
	wheelAxle      = mgl32.Vec3{-1, 0, 0}
	// the chassis drives along +Z, the transform convention faces -Z
	chassisToForward = mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 1, 0})
)

// Parameters tunes the chassis and its wheels.
type Parameters struct {
	Mass                  float32 `toml:"mass" yaml:"mass"`
	WheelRadius           float32 `toml:"wheel_radius" yaml:"wheel_radius"`
	SuspensionRestLength  float32 `toml:"suspension_rest_length" yaml:"suspension_rest_length"`
	SuspensionStiffness   float32 `toml:"suspension_stiffness" yaml:"suspension_stiffness"`
	SuspensionDamping     float32 `toml:"suspension_damping" yaml:"suspension_damping"`
	SuspensionCompression float32 `toml:"suspension_compression" yaml:"suspension_compression"`
	Friction              float32 `toml:"friction" yaml:"friction"`
	RollInfluence         float32 `toml:"roll_influence" yaml:"roll_influence"`
}

// DefaultParameters returns the stock tuning.
//
// Returns:
//   - Parameters: mass 1000, wheel radius 0.5, rest length 0.6, stiffness 20, damping 2.3,
//     compression 4.4, friction 10, roll influence 0.1
func DefaultParameters() Parameters {
	return Parameters{
		Mass:                  1000,
		WheelRadius:           0.5,
		SuspensionRestLength:  0.6,
		SuspensionStiffness:   20,
		SuspensionDamping:     2.3,
		SuspensionCompression: 4.4,
		Friction:              10,
		RollInfluence:         0.1,
	}
}

// Wheel is the world pose of one wheel after the last Update.
type Wheel struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Matrix returns Translate · Rotate for the wheel.
func (w Wheel) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(w.Position, w.Orientation, mgl32.Vec3{1, 1, 1})
}

type controller struct {
	world   physics.World
	chassis physics.RigidBody
	vehicle physics.RaycastVehicle
	params  Parameters

	position    mgl32.Vec3
	orientation mgl32.Quat
	forward     mgl32.Vec3
	right       mgl32.Vec3
	up          mgl32.Vec3
	wheels      []Wheel
}

// Controller drives a four-wheel raycast vehicle and exposes its pose in the engine's convention:
// Forward is where the car drives, Orientation faces Forward along -Z.
//
// The physics world must be stepped before Update so the pose reflects the latest substep.
type Controller interface {
	// Update refreshes the wheel raycasts and reads back the chassis and wheel poses.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// ApplyEngineForce sets the drive force on all four wheels.
	ApplyEngineForce(force float32)

	// Steer sets the steering angle in radians on the two front wheels. Positive steers left.
	Steer(angle float32)

	// Brake sets the brake force on all four wheels.
	Brake(force float32)

	// Velocity returns the chassis linear velocity.
	Velocity() mgl32.Vec3

	// SpeedKmHour returns the signed speed along Forward.
	SpeedKmHour() float32

	Position() mgl32.Vec3
	Orientation() mgl32.Quat

	// Rotation returns Orientation as Euler angles in degrees.
	Rotation() mgl32.Vec3

	Forward() mgl32.Vec3
	Right() mgl32.Vec3
	Up() mgl32.Vec3

	// Wheels returns the wheel poses, front pair first. There is one entry per wheel.
	Wheels() []Wheel

	// Flip resets the chassis upright two meters above its last position and stops it.
	Flip()

	Parameters() Parameters
	Chassis() physics.RigidBody
	Vehicle() physics.RaycastVehicle

	// Release removes the chassis and the vehicle from the world.
	Release()
}

var _ Controller = &controller{}

// NewController builds the chassis body and the raycast vehicle at position and adds both to world.
// Panics if world or factory is nil.
//
// Parameters:
//   - world: the physics world
//   - factory: creates the chassis body and the vehicle
//   - position: the initial chassis position
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the controller
func NewController(world physics.World, factory physics.Factory, position mgl32.Vec3, options ...ControllerBuilderOption) Controller {
	if world == nil {
		panic("vehicle: nil world")
	}
	if factory == nil {
		panic("vehicle: nil factory")
	}
	c := &controller{
		world:  world,
		params: DefaultParameters(),
	}
	for _, opt := range options {
		opt(c)
	}

	c.chassis = factory.NewRigidBody(physics.RigidBodyInfo{
		Mass:        c.params.Mass,
		HalfExtents: ChassisHalfExtents,
		Position:    position,
	})
	c.vehicle = factory.NewRaycastVehicle(c.chassis)
	for _, w := range wheelLayout {
		c.vehicle.AddWheel(physics.WheelConfig{
			ConnectionPoint:      w.point,
			Direction:            wheelDirection,
			Axle:                 wheelAxle,
			SuspensionRestLength: c.params.SuspensionRestLength,
			Radius:               c.params.WheelRadius,
			Front:                w.front,
			SuspensionStiffness:  c.params.SuspensionStiffness,
			DampingRelaxation:    c.params.SuspensionDamping,
			DampingCompression:   c.params.SuspensionCompression,
			FrictionSlip:         c.params.Friction,
			RollInfluence:        c.params.RollInfluence,
		})
	}

	world.AddAction(c.vehicle)
	world.AddRigidBody(c.chassis)
	c.sync()
	return c
}

func (c *controller) Update(dt float32) {
	c.vehicle.UpdateVehicle(dt)
	c.sync()
}

// sync reads the chassis and wheel transforms back from the vehicle.
func (c *controller) sync() {
	t := c.vehicle.ChassisWorldTransform()
	c.position = t.Col(3).Vec3()
	c.orientation = mgl32.Mat4ToQuat(t).Normalize().Mul(chassisToForward)

	basis := c.orientation.Mat4()
	c.forward = basis.Col(2).Vec3().Mul(-1)
	c.right = basis.Col(0).Vec3()
	c.up = basis.Col(1).Vec3()

	n := c.vehicle.NumWheels()
	if cap(c.wheels) < n {
		c.wheels = make([]Wheel, n)
	}
	c.wheels = c.wheels[:n]
	for i := range n {
		wt := c.vehicle.WheelTransformWS(i)
		c.wheels[i] = Wheel{
			Position:    wt.Col(3).Vec3(),
			Orientation: mgl32.Mat4ToQuat(wt).Normalize(),
		}
	}
}

func (c *controller) ApplyEngineForce(force float32) {
	for i := range c.vehicle.NumWheels() {
		c.vehicle.ApplyEngineForce(force, i)
	}
}

func (c *controller) Steer(angle float32) {
	c.vehicle.SetSteeringValue(angle, 0)
	c.vehicle.SetSteeringValue(angle, 1)
}

func (c *controller) Brake(force float32) {
	for i := range c.vehicle.NumWheels() {
		c.vehicle.SetBrake(force, i)
	}
}

func (c *controller) Velocity() mgl32.Vec3 {
	return c.chassis.LinearVelocity()
}

func (c *controller) SpeedKmHour() float32 {
	return c.vehicle.CurrentSpeedKmHour()
}

func (c *controller) Position() mgl32.Vec3 {
	return c.position
}

func (c *controller) Orientation() mgl32.Quat {
	return c.orientation
}

func (c *controller) Rotation() mgl32.Vec3 {
	return common.EulerDegreesFromQuat(c.orientation)
}

func (c *controller) Forward() mgl32.Vec3 {
	return c.forward
}

func (c *controller) Right() mgl32.Vec3 {
	return c.right
}

func (c *controller) Up() mgl32.Vec3 {
	return c.up
}

func (c *controller) Wheels() []Wheel {
	return c.wheels
}

func (c *controller) Flip() {
	p := c.position
	c.chassis.SetWorldTransform(mgl32.Translate3D(p.X(), p.Y()+2, p.Z()))
	c.chassis.SetLinearVelocity(mgl32.Vec3{})
	c.chassis.SetAngularVelocity(mgl32.Vec3{})
	c.chassis.Activate(true)
}

func (c *controller) Parameters() Parameters {
	return c.params
}

func (c *controller) Chassis() physics.RigidBody {
	return c.chassis
}

func (c *controller) Vehicle() physics.RaycastVehicle {
	return c.vehicle
}

func (c *controller) Release() {
	c.world.RemoveAction(c.vehicle)
	c.world.RemoveRigidBody(c.chassis)
}
