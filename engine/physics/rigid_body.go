package physics

import (
	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultFriction = 0.5

	sleepLinearThreshold  = 0.8
	sleepAngularThreshold = 1.0
	timeToSleep           = 2.0

	// largest rotation integrated in one substep, in radians
	maxAngularStep = math32.Pi / 4
)

type rigidBody struct {
	mass            float32
	invMass         float32
	halfExtents     mgl32.Vec3
	invInertiaLocal mgl32.Vec3

	position    mgl32.Vec3
	orientation mgl32.Quat
	linVel      mgl32.Vec3
	angVel      mgl32.Vec3
	force       mgl32.Vec3
	torque      mgl32.Vec3

	friction       float32
	restitution    float32
	linearDamping  float32
	angularDamping float32

	active    bool
	sleepTime float32
}

var _ RigidBody = &rigidBody{}

// NewRigidBody creates a box body from info. Add it to a world to simulate it.
//
// Parameters:
//   - info: shape, mass and initial pose
//
// Returns:
//   - RigidBody: the body
func NewRigidBody(info RigidBodyInfo) RigidBody {
	b := &rigidBody{
		mass:           max(info.Mass, 0),
		halfExtents:    info.HalfExtents,
		position:       info.Position,
		orientation:    info.Orientation,
		friction:       info.Friction,
		restitution:    info.Restitution,
		linearDamping:  mgl32.Clamp(info.LinearDamping, 0, 1),
		angularDamping: mgl32.Clamp(info.AngularDamping, 0, 1),
		active:         true,
	}
	if b.orientation == (mgl32.Quat{}) {
		b.orientation = mgl32.QuatIdent()
	}
	if b.friction == 0 {
		b.friction = defaultFriction
	}
	if b.mass > 0 {
		b.invMass = 1 / b.mass
		b.invInertiaLocal = boxInverseInertia(b.mass, b.halfExtents)
	}
	return b
}

// boxInverseInertia returns the inverse principal inertia of a solid box. Degenerate axes get 0.
func boxInverseInertia(mass float32, h mgl32.Vec3) mgl32.Vec3 {
	x2, y2, z2 := h.X()*h.X(), h.Y()*h.Y(), h.Z()*h.Z()
	inertia := mgl32.Vec3{mass / 3 * (y2 + z2), mass / 3 * (x2 + z2), mass / 3 * (x2 + y2)}
	var inv mgl32.Vec3
	for i, v := range inertia {
		if v > 0 {
			inv[i] = 1 / v
		}
	}
	return inv
}

func (b *rigidBody) WorldTransform() mgl32.Mat4 {
	return common.ComposeTRS(b.position, b.orientation, mgl32.Vec3{1, 1, 1})
}

func (b *rigidBody) SetWorldTransform(m mgl32.Mat4) {
	t, r, _, ok := common.Decompose(m)
	b.position = t
	if ok {
		b.orientation = r
	}
}

func (b *rigidBody) Position() mgl32.Vec3 {
	return b.position
}

func (b *rigidBody) Orientation() mgl32.Quat {
	return b.orientation
}

func (b *rigidBody) LinearVelocity() mgl32.Vec3 {
	return b.linVel
}

func (b *rigidBody) SetLinearVelocity(v mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linVel = v
}

func (b *rigidBody) AngularVelocity() mgl32.Vec3 {
	return b.angVel
}

func (b *rigidBody) SetAngularVelocity(w mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.angVel = w
}

func (b *rigidBody) VelocityInLocalPoint(rel mgl32.Vec3) mgl32.Vec3 {
	return b.linVel.Add(b.angVel.Cross(rel))
}

func (b *rigidBody) Activate(bool) {
	b.active = true
	b.sleepTime = 0
}

func (b *rigidBody) Active() bool {
	return b.active
}

func (b *rigidBody) Mass() float32 {
	return b.mass
}

func (b *rigidBody) InverseMass() float32 {
	return b.invMass
}

func (b *rigidBody) InverseInertiaWorld() mgl32.Mat3 {
	r := b.orientation.Mat4().Mat3()
	return r.Mul3(mgl32.Diag3(b.invInertiaLocal)).Mul3(r.Transpose())
}

func (b *rigidBody) ApplyCentralForce(f mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.force = b.force.Add(f)
}

func (b *rigidBody) ApplyForce(f, rel mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(rel.Cross(f))
}

func (b *rigidBody) ApplyImpulse(impulse, rel mgl32.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linVel = b.linVel.Add(impulse.Mul(b.invMass))
	b.angVel = b.angVel.Add(b.InverseInertiaWorld().Mul3x1(rel.Cross(impulse)))
}

// dynamic reports whether the world integrates this body.
func (b *rigidBody) dynamic() bool {
	return b.invMass > 0
}

// effectiveMassInv is the inverse mass seen by an impulse along n applied at rel.
func (b *rigidBody) effectiveMassInv(n, rel mgl32.Vec3) float32 {
	return b.invMass + n.Dot(b.InverseInertiaWorld().Mul3x1(rel.Cross(n)).Cross(rel))
}

func (b *rigidBody) integrateVelocities(dt float32, gravity mgl32.Vec3) {
	b.linVel = b.linVel.Add(gravity.Add(b.force.Mul(b.invMass)).Mul(dt))
	b.angVel = b.angVel.Add(b.InverseInertiaWorld().Mul3x1(b.torque).Mul(dt))
	if b.linearDamping > 0 {
		b.linVel = b.linVel.Mul(math32.Pow(1-b.linearDamping, dt))
	}
	if b.angularDamping > 0 {
		b.angVel = b.angVel.Mul(math32.Pow(1-b.angularDamping, dt))
	}
}

func (b *rigidBody) integrateTransform(dt float32) {
	b.position = b.position.Add(b.linVel.Mul(dt))

	w := b.angVel
	if l := w.Len(); l*dt > maxAngularStep {
		w = w.Mul(maxAngularStep / (l * dt))
	}
	if w == (mgl32.Vec3{}) {
		return
	}
	spin := mgl32.Quat{W: 0, V: w}.Mul(b.orientation).Scale(dt / 2)
	b.orientation = b.orientation.Add(spin).Normalize()
}

func (b *rigidBody) updateDeactivation(dt float32) {
	if b.linVel.Len() < sleepLinearThreshold && b.angVel.Len() < sleepAngularThreshold {
		b.sleepTime += dt
	} else {
		b.sleepTime = 0
	}
	if b.sleepTime > timeToSleep {
		b.active = false
		b.linVel = mgl32.Vec3{}
		b.angVel = mgl32.Vec3{}
	}
}

func (b *rigidBody) clearForces() {
	b.force = mgl32.Vec3{}
	b.torque = mgl32.Vec3{}
}

// corners returns the eight box corners in world space.
func (b *rigidBody) corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	h := b.halfExtents
	for i := range out {
		local := mgl32.Vec3{h.X(), h.Y(), h.Z()}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = b.position.Add(b.orientation.Rotate(local))
	}
	return out
}
