package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultMaxSuspensionForce = 6000
	// max suspension compression/extension around the rest length, in meters
	maxSuspensionTravel = 5
	// share of the lateral slip removed per substep
	sideFrictionDamping  = 0.2
	forwardImpulseFactor = 0.5
	wheelSpinDecay       = 0.99
)

type wheel struct {
	cfg WheelConfig

	engineForce float32
	brake       float32
	steering    float32
	rotation    float32
	deltaRot    float32

	hardPointWS mgl32.Vec3
	directionWS mgl32.Vec3
	axleWS      mgl32.Vec3

	inContact       bool
	contactPointWS  mgl32.Vec3
	contactNormalWS mgl32.Vec3
	suspensionLen   float32
	suspensionVel   float32
	clippedInvDot   float32
	suspensionForce float32
	skidInfo        float32

	transformWS mgl32.Mat4
}

type raycastVehicle struct {
	chassis RigidBody
	ground  func() Ground
	wheels  []*wheel
	speed   float32
}

var _ RaycastVehicle = &raycastVehicle{}

// NewRaycastVehicle creates a vehicle over chassis. Wheel rays are cast against the ground of w.
// Add the chassis as a rigid body and the vehicle as an action to simulate it.
// Panics if w or chassis is nil.
//
// Parameters:
//   - w: the world providing the ground
//   - chassis: the chassis body
//
// Returns:
//   - RaycastVehicle: the vehicle
func NewRaycastVehicle(w World, chassis RigidBody) RaycastVehicle {
	if w == nil {
		panic("physics: nil world")
	}
	if chassis == nil {
		panic("physics: nil chassis")
	}
	return &raycastVehicle{
		chassis: chassis,
		ground:  w.Ground,
	}
}

func (v *raycastVehicle) AddWheel(cfg WheelConfig) int {
	if cfg.MaxSuspensionForce == 0 {
		cfg.MaxSuspensionForce = defaultMaxSuspensionForce
	}
	w := &wheel{
		cfg:           cfg,
		suspensionLen: cfg.SuspensionRestLength,
		clippedInvDot: 1,
		skidInfo:      1,
	}
	v.wheels = append(v.wheels, w)
	v.updateWheelTransformsWS(w)
	v.updateWheelTransform(w)
	return len(v.wheels) - 1
}

func (v *raycastVehicle) NumWheels() int {
	return len(v.wheels)
}

func (v *raycastVehicle) WheelInfo(i int) WheelInfo {
	w := v.wheels[i]
	return WheelInfo{
		Config:           w.cfg,
		InContact:        w.inContact,
		ContactPoint:     w.contactPointWS,
		ContactNormal:    w.contactNormalWS,
		SuspensionLength: w.suspensionLen,
		SuspensionForce:  w.suspensionForce,
		EngineForce:      w.engineForce,
		Brake:            w.brake,
		Steering:         w.steering,
		Rotation:         w.rotation,
		SkidInfo:         w.skidInfo,
	}
}

func (v *raycastVehicle) ApplyEngineForce(force float32, i int) {
	v.wheels[i].engineForce = force
	if force != 0 {
		v.chassis.Activate(false)
	}
}

func (v *raycastVehicle) SetSteeringValue(angle float32, i int) {
	v.wheels[i].steering = angle
}

func (v *raycastVehicle) SetBrake(force float32, i int) {
	v.wheels[i].brake = force
}

func (v *raycastVehicle) ChassisWorldTransform() mgl32.Mat4 {
	return v.chassis.WorldTransform()
}

func (v *raycastVehicle) WheelTransformWS(i int) mgl32.Mat4 {
	return v.wheels[i].transformWS
}

func (v *raycastVehicle) ForwardVector() mgl32.Vec3 {
	return v.chassis.Orientation().Rotate(mgl32.Vec3{0, 0, 1})
}

func (v *raycastVehicle) CurrentSpeedKmHour() float32 {
	return v.speed
}

func (v *raycastVehicle) RigidBody() RigidBody {
	return v.chassis
}

func (v *raycastVehicle) UpdateVehicle(float32) {
	v.refresh()
	for _, w := range v.wheels {
		v.updateWheelTransform(w)
	}
}

func (v *raycastVehicle) UpdateAction(dt float32) {
	if !v.chassis.Active() {
		return
	}
	v.refresh()
	v.updateSuspension()

	pos := v.chassis.Position()
	for _, w := range v.wheels {
		if !w.inContact {
			continue
		}
		impulse := w.contactNormalWS.Mul(min(w.suspensionForce, w.cfg.MaxSuspensionForce) * dt)
		v.chassis.ApplyImpulse(impulse, w.contactPointWS.Sub(pos))
	}

	v.updateFriction(dt)
	v.updateWheelSpin(dt)
	for _, w := range v.wheels {
		v.updateWheelTransform(w)
	}
}

// refresh recomputes the signed speed and casts every wheel ray.
func (v *raycastVehicle) refresh() {
	v.speed = 3.6 * v.chassis.LinearVelocity().Dot(v.ForwardVector())
	for _, w := range v.wheels {
		v.updateWheelTransformsWS(w)
		v.rayCast(w)
	}
}

func (v *raycastVehicle) updateWheelTransformsWS(w *wheel) {
	t := v.chassis.WorldTransform()
	rot := v.chassis.Orientation()
	w.hardPointWS = t.Mul4x1(w.cfg.ConnectionPoint.Vec4(1)).Vec3()
	w.directionWS = rot.Rotate(w.cfg.Direction)
	w.axleWS = rot.Rotate(w.cfg.Axle)
}

func (v *raycastVehicle) rayCast(w *wheel) {
	rayLen := w.cfg.SuspensionRestLength + w.cfg.Radius
	from := w.hardPointWS
	to := from.Add(w.directionWS.Mul(rayLen))
	ground := v.ground()

	fraction, hit := RayCast(ground, from, to)
	w.inContact = hit
	if !hit {
		w.suspensionLen = w.cfg.SuspensionRestLength
		w.suspensionVel = 0
		w.contactNormalWS = w.directionWS.Mul(-1)
		w.contactPointWS = to
		w.clippedInvDot = 1
		return
	}

	w.contactPointWS = from.Add(w.directionWS.Mul(fraction * rayLen))
	w.contactNormalWS = GroundNormal(ground, w.contactPointWS.X(), w.contactPointWS.Z())
	w.suspensionLen = mgl32.Clamp(fraction*rayLen-w.cfg.Radius,
		w.cfg.SuspensionRestLength-maxSuspensionTravel,
		w.cfg.SuspensionRestLength+maxSuspensionTravel)

	denominator := w.contactNormalWS.Dot(w.directionWS)
	projVel := w.contactNormalWS.Dot(v.chassis.VelocityInLocalPoint(w.contactPointWS.Sub(v.chassis.Position())))
	if denominator >= -0.1 {
		w.suspensionVel = 0
		w.clippedInvDot = 10
	} else {
		inv := -1 / denominator
		w.suspensionVel = projVel * inv
		w.clippedInvDot = inv
	}
}

func (v *raycastVehicle) updateSuspension() {
	mass := v.chassis.Mass()
	for _, w := range v.wheels {
		if !w.inContact {
			w.suspensionForce = 0
			continue
		}
		force := w.cfg.SuspensionStiffness * (w.cfg.SuspensionRestLength - w.suspensionLen) * w.clippedInvDot
		damping := w.cfg.DampingRelaxation
		if w.suspensionVel < 0 {
			damping = w.cfg.DampingCompression
		}
		force -= damping * w.suspensionVel
		w.suspensionForce = max(force*mass, 0)
	}
}

// frictionFrame returns the wheel's ground-projected axle and rolling direction.
func frictionFrame(w *wheel) (axle, forward mgl32.Vec3) {
	up := w.directionWS.Mul(-1)
	axle = mgl32.QuatRotate(w.steering, up).Rotate(w.axleWS)
	n := w.contactNormalWS
	axle = axle.Sub(n.Mul(axle.Dot(n))).Normalize()
	forward = n.Cross(axle).Normalize()
	return axle, forward
}

func (v *raycastVehicle) updateFriction(dt float32) {
	var onGround int
	for _, w := range v.wheels {
		if w.inContact {
			onGround++
		}
	}
	if onGround == 0 {
		return
	}

	var (
		pos      = v.chassis.Position()
		up       = v.chassis.Orientation().Rotate(mgl32.Vec3{0, 1, 0})
		axles    = make([]mgl32.Vec3, len(v.wheels))
		forwards = make([]mgl32.Vec3, len(v.wheels))
		side     = make([]float32, len(v.wheels))
		fwd      = make([]float32, len(v.wheels))
		sliding  bool
	)

	for i, w := range v.wheels {
		w.skidInfo = 1
		if !w.inContact {
			continue
		}
		axles[i], forwards[i] = frictionFrame(w)
		rel := w.contactPointWS.Sub(pos)

		lateral := v.chassis.VelocityInLocalPoint(rel).Dot(axles[i])
		side[i] = -sideFrictionDamping * lateral / v.effectiveMassInv(axles[i], rel)

		if w.engineForce != 0 {
			fwd[i] = w.engineForce * dt
		} else if w.brake != 0 && v.chassis.InverseMass() > 0 {
			// measured at the center of mass: the contact point also moves while the chassis pitches,
			// which would let the brake settle with the body still rolling
			rolling := v.chassis.LinearVelocity().Dot(forwards[i])
			j := -rolling / v.chassis.InverseMass() / float32(onGround)
			fwd[i] = mgl32.Clamp(j, -w.brake, w.brake)
		}

		maxImpulse := w.suspensionForce * dt * w.cfg.FrictionSlip
		x := fwd[i] * forwardImpulseFactor
		y := side[i]
		if sq := x*x + y*y; sq > maxImpulse*maxImpulse {
			sliding = true
			w.skidInfo = maxImpulse / math32.Sqrt(sq)
		}
	}

	if sliding {
		for i, w := range v.wheels {
			if side[i] != 0 && w.skidInfo < 1 {
				fwd[i] *= w.skidInfo
				side[i] *= w.skidInfo
			}
		}
	}

	for i, w := range v.wheels {
		if !w.inContact {
			continue
		}
		rel := w.contactPointWS.Sub(pos)
		if fwd[i] != 0 {
			v.chassis.ApplyImpulse(forwards[i].Mul(fwd[i]), rel)
		}
		if side[i] != 0 {
			// lower the lateral lever arm so side forces roll the chassis less
			lever := rel.Sub(up.Mul(rel.Dot(up) * (1 - w.cfg.RollInfluence)))
			v.chassis.ApplyImpulse(axles[i].Mul(side[i]), lever)
		}
	}
}

func (v *raycastVehicle) effectiveMassInv(n, rel mgl32.Vec3) float32 {
	return v.chassis.InverseMass() + n.Dot(v.chassis.InverseInertiaWorld().Mul3x1(rel.Cross(n)).Cross(rel))
}

func (v *raycastVehicle) updateWheelSpin(dt float32) {
	pos := v.chassis.Position()
	fwd := v.ForwardVector()
	for _, w := range v.wheels {
		if w.inContact {
			n := w.contactNormalWS
			dir := fwd.Sub(n.Mul(fwd.Dot(n)))
			vel := v.chassis.VelocityInLocalPoint(w.hardPointWS.Sub(pos))
			w.deltaRot = dir.Dot(vel) * dt / w.cfg.Radius
		}
		w.rotation += w.deltaRot
		w.deltaRot *= wheelSpinDecay
	}
}

// updateWheelTransform places the hub at the end of the suspension, steered about the
// suspension axis and spun about the axle.
func (v *raycastVehicle) updateWheelTransform(w *wheel) {
	up := w.directionWS.Mul(-1)
	right := w.axleWS
	basis := mgl32.Mat3FromCols(right, up, right.Cross(up))
	steer := mgl32.QuatRotate(w.steering, up)
	spin := mgl32.QuatRotate(-w.rotation, right)
	orientation := steer.Mul(spin).Mul(mgl32.Mat4ToQuat(basis.Mat4())).Normalize()

	hub := w.hardPointWS.Add(w.directionWS.Mul(w.suspensionLen))
	w.transformWS = mgl32.Translate3D(hub.X(), hub.Y(), hub.Z()).Mul4(orientation.Mat4())
}
