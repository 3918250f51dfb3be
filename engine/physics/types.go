package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultGravity is the gravity a new world starts with.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

const (
	// DefaultFixedTimeStep is the internal substep length.
	DefaultFixedTimeStep = float32(1.0 / 60.0)
	// DefaultMaxSubSteps is the substep cap the demo steps with.
	DefaultMaxSubSteps = 10
)

// Ground is a height field. Bodies collide with it and wheel rays are cast against it.
type Ground interface {
	// HeightAt returns the ground height below a world position.
	//
	// Parameters:
	//   - x: world X
	//   - z: world Z
	//
	// Returns:
	//   - float32: the height
	//   - bool: false where there is no ground
	HeightAt(x, z float32) (float32, bool)
}

// Action is stepped by the world once per internal substep, before body integration.
type Action interface {
	UpdateAction(dt float32)
}

// World owns rigid bodies and actions and advances them in fixed substeps.
type World interface {
	// StepSimulation advances the world by dt. Time is accumulated and consumed in fixed substeps;
	// at most maxSubSteps run per call and the rest is dropped. A maxSubSteps of 0 runs a single
	// variable step of length dt.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//   - maxSubSteps: the substep cap
	//
	// Returns:
	//   - int: the number of substeps run
	StepSimulation(dt float32, maxSubSteps int) int

	// AddRigidBody adds a body created by this package. Adding a body twice is a no-op.
	AddRigidBody(b RigidBody)

	// RemoveRigidBody removes a body. Unknown bodies are ignored.
	RemoveRigidBody(b RigidBody)

	// AddAction registers an action stepped every substep. Adding an action twice is a no-op.
	AddAction(a Action)

	// RemoveAction unregisters an action.
	RemoveAction(a Action)

	// NumRigidBodies returns the number of bodies in the world.
	NumRigidBodies() int

	// Gravity returns the world gravity.
	Gravity() mgl32.Vec3

	// SetGravity replaces the world gravity.
	SetGravity(g mgl32.Vec3)

	// Ground returns the height field bodies collide with.
	Ground() Ground
}

// RigidBodyInfo describes a box-shaped body. A zero Mass makes the body static.
type RigidBodyInfo struct {
	Mass        float32
	HalfExtents mgl32.Vec3
	Position    mgl32.Vec3
	// Orientation defaults to identity when left zero.
	Orientation mgl32.Quat
	// Friction is the ground friction coefficient, 0.5 when left zero.
	Friction       float32
	Restitution    float32
	LinearDamping  float32
	AngularDamping float32
}

// RigidBody is a simulated box.
type RigidBody interface {
	// WorldTransform returns the rigid transform Translate · Rotate.
	WorldTransform() mgl32.Mat4

	// SetWorldTransform teleports the body. Scale in m is discarded.
	//
	// Parameters:
	//   - m: the new transform
	SetWorldTransform(m mgl32.Mat4)

	Position() mgl32.Vec3
	Orientation() mgl32.Quat

	LinearVelocity() mgl32.Vec3
	SetLinearVelocity(v mgl32.Vec3)
	AngularVelocity() mgl32.Vec3
	SetAngularVelocity(w mgl32.Vec3)

	// VelocityInLocalPoint returns the velocity of a point given relative to the center of mass.
	//
	// Parameters:
	//   - rel: the point minus the body position, in world axes
	//
	// Returns:
	//   - mgl32.Vec3: the point velocity
	VelocityInLocalPoint(rel mgl32.Vec3) mgl32.Vec3

	// Activate wakes a sleeping body. force is accepted for parity with other engines; bodies here
	// cannot be pinned asleep so it has no extra effect.
	Activate(force bool)

	// Active reports whether the body is integrated.
	Active() bool

	Mass() float32
	InverseMass() float32

	// InverseInertiaWorld returns the inverse inertia tensor in world axes.
	InverseInertiaWorld() mgl32.Mat3

	// ApplyCentralForce adds a force through the center of mass until the end of the step.
	ApplyCentralForce(f mgl32.Vec3)

	// ApplyForce adds a force at a point relative to the center of mass until the end of the step.
	ApplyForce(f, rel mgl32.Vec3)

	// ApplyImpulse changes the velocities immediately.
	//
	// Parameters:
	//   - impulse: the impulse
	//   - rel: the application point relative to the center of mass
	ApplyImpulse(impulse, rel mgl32.Vec3)
}

// WheelConfig places and tunes one raycast wheel. Points and directions are in chassis space.
type WheelConfig struct {
	ConnectionPoint      mgl32.Vec3
	Direction            mgl32.Vec3
	Axle                 mgl32.Vec3
	SuspensionRestLength float32
	Radius               float32
	Front                bool

	SuspensionStiffness float32
	DampingRelaxation   float32
	DampingCompression  float32
	FrictionSlip        float32
	RollInfluence       float32
	// MaxSuspensionForce caps the spring force, 6000 when left zero.
	MaxSuspensionForce float32
}

// WheelInfo is the state of a wheel after the last raycast.
type WheelInfo struct {
	Config           WheelConfig
	InContact        bool
	ContactPoint     mgl32.Vec3
	ContactNormal    mgl32.Vec3
	SuspensionLength float32
	SuspensionForce  float32
	EngineForce      float32
	Brake            float32
	Steering         float32
	Rotation         float32
	SkidInfo         float32
}

// RaycastVehicle is a chassis body held up by spring-damper wheels cast against the ground.
// The chassis forward axis is +Z and its up axis is +Y.
type RaycastVehicle interface {
	Action

	// UpdateVehicle refreshes the wheel raycasts and wheel transforms without applying impulses.
	// The world applies suspension and friction impulses through UpdateAction every substep.
	//
	// Parameters:
	//   - dt: elapsed seconds
	UpdateVehicle(dt float32)

	// AddWheel appends a wheel.
	//
	// Returns:
	//   - int: the wheel index
	AddWheel(cfg WheelConfig) int

	NumWheels() int

	// WheelInfo returns the state of wheel i.
	WheelInfo(i int) WheelInfo

	// ApplyEngineForce sets the drive force of wheel i.
	ApplyEngineForce(force float32, i int)

	// SetSteeringValue sets the steering angle of wheel i in radians. Positive turns towards +X.
	SetSteeringValue(angle float32, i int)

	// SetBrake sets the brake impulse cap of wheel i.
	SetBrake(force float32, i int)

	ChassisWorldTransform() mgl32.Mat4

	// WheelTransformWS returns wheel i's world transform: hub position, steering and spin.
	WheelTransformWS(i int) mgl32.Mat4

	// ForwardVector returns the chassis forward axis in world space.
	ForwardVector() mgl32.Vec3

	// CurrentSpeedKmHour returns the signed speed along the forward axis.
	CurrentSpeedKmHour() float32

	RigidBody() RigidBody
}

// Factory creates bodies and vehicles bound to a world.
type Factory interface {
	NewRigidBody(info RigidBodyInfo) RigidBody
	NewRaycastVehicle(chassis RigidBody) RaycastVehicle
}
