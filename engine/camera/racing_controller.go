package camera

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// OrientationMode selects how a RacingController turns the camera towards its look target.
type OrientationMode int

const (
	// LookAtDirect snaps the camera onto the look target every frame.
	LookAtDirect OrientationMode = iota
	// LookAtSmoothed slerps towards the look-at orientation using RotationStiffness.
	LookAtSmoothed
)

// RacingSettings tunes the chase camera.
type RacingSettings struct {
	// FollowDistance is the base distance behind the target.
	FollowDistance float32 `toml:"follow_distance" yaml:"follow_distance"`
	// HeightOffset is the distance above the target along its up axis.
	HeightOffset float32 `toml:"height_offset" yaml:"height_offset"`
	// FollowStiffness is the exponential filter rate of the position in 1/s.
	FollowStiffness float32 `toml:"follow_stiffness" yaml:"follow_stiffness"`
	// RotationStiffness is the exponential filter rate of the orientation in LookAtSmoothed mode.
	RotationStiffness float32 `toml:"rotation_stiffness" yaml:"rotation_stiffness"`
	// VelocityMultiplier converts speed into extra follow distance.
	VelocityMultiplier float32 `toml:"velocity_multiplier" yaml:"velocity_multiplier"`
	// MaxExtraDistance caps the speed-dependent extra distance.
	MaxExtraDistance float32 `toml:"max_extra_distance" yaml:"max_extra_distance"`
	// MinFOV is the field of view at rest, in degrees.
	MinFOV float32 `toml:"min_fov" yaml:"min_fov"`
	// MaxFOV is the field of view at SpeedForMaxFOV and above, in degrees.
	MaxFOV float32 `toml:"max_fov" yaml:"max_fov"`
	// LookAheadFactor scales how far ahead of the target the camera looks, per unit of speed.
	LookAheadFactor float32 `toml:"look_ahead_factor" yaml:"look_ahead_factor"`
	// SpeedForMaxFOV is the speed at which the field of view reaches MaxFOV.
	SpeedForMaxFOV float32 `toml:"speed_for_max_fov" yaml:"speed_for_max_fov"`
	// Mode selects direct or smoothed orientation.
	Mode OrientationMode `toml:"mode" yaml:"mode"`
}

// DefaultRacingSettings returns the stock chase camera tuning.
func DefaultRacingSettings() RacingSettings {
	return RacingSettings{
		FollowDistance:     3.5,
		HeightOffset:       2,
		FollowStiffness:    5,
		RotationStiffness:  5,
		VelocityMultiplier: 0.05,
		MaxExtraDistance:   0.5,
		MinFOV:             60,
		MaxFOV:             70,
		LookAheadFactor:    0.5,
		SpeedForMaxFOV:     30,
		Mode:               LookAtDirect,
	}
}

type racingControllerImpl struct {
	camera   Camera
	settings RacingSettings
	worldUp  mgl32.Vec3

	targetPosition mgl32.Vec3
	targetForward  mgl32.Vec3
	targetUp       mgl32.Vec3
	targetVelocity mgl32.Vec3

	currentPosition mgl32.Vec3
	hasTarget       bool
}

// RacingController is a chase camera that follows a moving target from behind and above.
//
// The camera position follows the ideal pose through an exponential filter, the look target leads
// the target in proportion to its speed, and the field of view widens with speed.
type RacingController interface {
	Controller

	// Camera returns the driven camera.
	Camera() Camera

	// Settings returns the current tuning.
	Settings() RacingSettings
	// SetSettings replaces the tuning.
	SetSettings(s RacingSettings)

	// SetTarget records the pose and velocity of the followed object. The first call places the
	// camera at the ideal pose immediately.
	//
	// Parameters:
	//   - position: target world position
	//   - forward: target forward direction (normalized here)
	//   - up: target up direction (normalized here)
	//   - velocity: target linear velocity
	SetTarget(position, forward, up, velocity mgl32.Vec3)

	// HasTarget reports whether SetTarget was called.
	HasTarget() bool

	// IdealPosition returns the unfiltered camera position for the current target.
	//
	// Returns:
	//   - mgl32.Vec3: the ideal position
	IdealPosition() mgl32.Vec3

	// Reset forgets the target so the next SetTarget snaps the camera again.
	Reset()
}

var _ RacingController = &racingControllerImpl{}

// NewRacingController creates a chase camera controller for camera.
// Panics if camera is nil.
//
// Parameters:
//   - camera: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - RacingController: the newly created controller
func NewRacingController(camera Camera, options ...RacingControllerBuilderOption) RacingController {
	if camera == nil {
		panic("camera: racing controller requires a camera")
	}
	r := &racingControllerImpl{
		camera:   camera,
		settings: DefaultRacingSettings(),
		worldUp:  common.BaseUp,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *racingControllerImpl) Camera() Camera {
	return r.camera
}

func (r *racingControllerImpl) Settings() RacingSettings {
	return r.settings
}

func (r *racingControllerImpl) SetSettings(s RacingSettings) {
	r.settings = s
}

func (r *racingControllerImpl) HasTarget() bool {
	return r.hasTarget
}

func (r *racingControllerImpl) Reset() {
	r.hasTarget = false
}

func (r *racingControllerImpl) SetTarget(position, forward, up, velocity mgl32.Vec3) {
	r.targetPosition = position
	r.targetForward = forward.Normalize()
	r.targetUp = up.Normalize()
	r.targetVelocity = velocity

	if !r.hasTarget {
		r.hasTarget = true
		r.currentPosition = r.IdealPosition()
		r.camera.SetPosition(r.currentPosition)
		r.camera.LookAt(r.lookTarget(), r.worldUp)
	}
}

func (r *racingControllerImpl) IdealPosition() mgl32.Vec3 {
	speed := r.targetVelocity.Len()
	extra := min(speed*r.settings.VelocityMultiplier, r.settings.MaxExtraDistance)
	return r.targetPosition.
		Sub(r.targetForward.Mul(r.settings.FollowDistance + extra)).
		Add(r.targetUp.Mul(r.settings.HeightOffset))
}

func (r *racingControllerImpl) lookTarget() mgl32.Vec3 {
	speed := r.targetVelocity.Len()
	return r.targetPosition.Add(r.targetForward.Mul(speed * r.settings.LookAheadFactor))
}

func (r *racingControllerImpl) Update(dt float32) {
	if !r.hasTarget {
		return
	}

	r.currentPosition = common.LerpVec3(r.currentPosition, r.IdealPosition(), common.ExpBlend(r.settings.FollowStiffness, dt))
	r.camera.SetPosition(r.currentPosition)

	lookAt := r.lookTarget()
	switch r.settings.Mode {
	case LookAtSmoothed:
		desired := common.QuatLookAt(lookAt.Sub(r.currentPosition), r.worldUp)
		current := r.camera.Orientation()
		r.camera.SetOrientation(mgl32.QuatSlerp(current, desired, common.ExpBlend(r.settings.RotationStiffness, dt)))
	default:
		r.camera.LookAt(lookAt, r.worldUp)
	}

	speed := r.targetVelocity.Len()
	t := float32(0)
	if r.settings.SpeedForMaxFOV > 0 {
		t = mgl32.Clamp(speed/r.settings.SpeedForMaxFOV, 0, 1)
	}
	r.camera.SetFov(common.Lerp(r.settings.MinFOV, r.settings.MaxFOV, t))
}
