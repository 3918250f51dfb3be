package camera

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Controller drives a Camera once per frame.
type Controller interface {
	// Update advances the controller by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}

// InputSource is the slice of per-frame input state a FlyController reads.
type InputSource interface {
	IsKeyDown(key int) bool
	MouseDelta() (dx, dy float32)
}

type flyControllerImpl struct {
	camera      Camera
	input       InputSource
	speed       float32
	sensitivity float32
	invertY     bool
	pitch       float32
	yaw         float32
}

// FlyController is a free-look camera controller. W/S move along Forward, A/D along Right and Q/E
// along Up. Holding left shift multiplies the speed by 10, left control by 0.5. Mouse movement
// turns the camera; pitch is clamped to ±89°.
type FlyController interface {
	Controller

	// Camera returns the driven camera.
	Camera() Camera

	// Speed returns the base movement speed in units per second.
	Speed() float32
	// SetSpeed sets the base movement speed in units per second.
	SetSpeed(speed float32)

	// Sensitivity returns the degrees turned per pixel of mouse movement.
	Sensitivity() float32
	// SetSensitivity sets the degrees turned per pixel of mouse movement.
	SetSensitivity(s float32)

	// SetInvertY flips vertical mouse look.
	SetInvertY(invert bool)

	// Pitch returns the accumulated pitch in degrees.
	Pitch() float32
	// Yaw returns the accumulated yaw in degrees.
	Yaw() float32

	// SyncFromCamera re-seeds pitch and yaw from the camera's current rotation, so switching to this
	// controller does not snap the view.
	SyncFromCamera()
}

var _ FlyController = &flyControllerImpl{}

// NewFlyController creates a fly controller for camera reading from input.
// Panics if camera or input is nil.
//
// Parameters:
//   - camera: the camera to drive
//   - input: the per-frame input state
//   - options: functional options to configure the controller
//
// Returns:
//   - FlyController: the newly created controller
func NewFlyController(camera Camera, input InputSource, options ...FlyControllerBuilderOption) FlyController {
	if camera == nil || input == nil {
		panic("camera: fly controller requires a camera and an input source")
	}
	f := &flyControllerImpl{
		camera:      camera,
		input:       input,
		speed:       5,
		sensitivity: 0.1,
	}
	for _, option := range options {
		option(f)
	}
	f.SyncFromCamera()
	return f
}

func (f *flyControllerImpl) Camera() Camera {
	return f.camera
}

func (f *flyControllerImpl) Speed() float32 {
	return f.speed
}

func (f *flyControllerImpl) SetSpeed(speed float32) {
	f.speed = speed
}

func (f *flyControllerImpl) Sensitivity() float32 {
	return f.sensitivity
}

func (f *flyControllerImpl) SetSensitivity(s float32) {
	f.sensitivity = s
}

func (f *flyControllerImpl) SetInvertY(invert bool) {
	f.invertY = invert
}

func (f *flyControllerImpl) Pitch() float32 {
	return f.pitch
}

func (f *flyControllerImpl) Yaw() float32 {
	return f.yaw
}

func (f *flyControllerImpl) SyncFromCamera() {
	rot := f.camera.Rotation()
	f.pitch = -rot.X()
	f.yaw = -rot.Y()
}

func (f *flyControllerImpl) Update(dt float32) {
	velocity := f.speed * dt
	if f.input.IsKeyDown(common.KeyLeftShift) {
		velocity *= 10
	}
	if f.input.IsKeyDown(common.KeyLeftControl) {
		velocity *= 0.5
	}

	var move mgl32.Vec3
	if f.input.IsKeyDown(common.KeyW) {
		move = move.Add(f.camera.Forward())
	}
	if f.input.IsKeyDown(common.KeyS) {
		move = move.Sub(f.camera.Forward())
	}
	if f.input.IsKeyDown(common.KeyD) {
		move = move.Add(f.camera.Right())
	}
	if f.input.IsKeyDown(common.KeyA) {
		move = move.Sub(f.camera.Right())
	}
	if f.input.IsKeyDown(common.KeyE) {
		move = move.Add(f.camera.Up())
	}
	if f.input.IsKeyDown(common.KeyQ) {
		move = move.Sub(f.camera.Up())
	}
	if move != (mgl32.Vec3{}) {
		f.camera.Move(move.Mul(velocity))
	}

	dx, dy := f.input.MouseDelta()
	if dx == 0 && dy == 0 {
		return
	}
	if f.invertY {
		dy = -dy
	}
	f.yaw += dx * f.sensitivity
	f.pitch = mgl32.Clamp(f.pitch+dy*f.sensitivity, -89, 89)
	f.camera.SetRotation(mgl32.Vec3{-f.pitch, -f.yaw, 0})
}
