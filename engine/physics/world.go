package physics

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// penetration left unresolved so resting contacts stay in touch
	contactSlop = 0.01
	// share of the remaining penetration corrected per substep
	contactCorrection = 0.8
)

type world struct {
	gravity       mgl32.Vec3
	ground        Ground
	fixedTimeStep float32
	localTime     float32
	log           logger.Logger

	bodies  []*rigidBody
	actions []Action
}

var _ World = &world{}

// NewWorld creates an empty world with DefaultGravity over a flat ground at y = 0.
//
// Parameters:
//   - options: variadic list of WorldBuilderOption functions
//
// Returns:
//   - World: the world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{
		gravity:       DefaultGravity,
		ground:        FlatGround{},
		fixedTimeStep: DefaultFixedTimeStep,
		log:           logger.Default(),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// stepTolerance is the fraction of a fixed step counted as a whole step.
const stepTolerance = 1e-3

func (w *world) StepSimulation(dt float32, maxSubSteps int) int {
	if dt <= 0 {
		return 0
	}

	steps, step := 1, dt
	if maxSubSteps > 0 {
		w.localTime += dt
		// float32 division lands just under whole step counts, e.g. 1/(1/60) gives 59.99
		steps = int(w.localTime/w.fixedTimeStep + stepTolerance)
		w.localTime = max(w.localTime-float32(steps)*w.fixedTimeStep, 0)
		if steps > maxSubSteps {
			w.log.Debugf("physics: dropping %d substeps", steps-maxSubSteps)
			steps = maxSubSteps
		}
		step = w.fixedTimeStep
	}

	for range steps {
		w.internalStep(step)
	}
	for _, b := range w.bodies {
		b.clearForces()
	}
	return steps
}

func (w *world) internalStep(dt float32) {
	for _, a := range w.actions {
		a.UpdateAction(dt)
	}
	for _, b := range w.bodies {
		if b.dynamic() && b.active {
			b.integrateVelocities(dt, w.gravity)
		}
	}
	for _, b := range w.bodies {
		if b.dynamic() && b.active {
			w.resolveGround(b)
		}
	}
	for _, b := range w.bodies {
		if b.dynamic() && b.active {
			b.integrateTransform(dt)
			b.updateDeactivation(dt)
		}
	}
}

// resolveGround applies contact and friction impulses at every box corner below the ground,
// then pushes the body out along the deepest contact normal.
func (w *world) resolveGround(b *rigidBody) {
	var (
		deepest float32
		normal  mgl32.Vec3
	)
	for _, c := range b.corners() {
		h, ok := w.ground.HeightAt(c.X(), c.Z())
		if !ok {
			continue
		}
		depth := h - c.Y()
		if depth <= 0 {
			continue
		}
		n := GroundNormal(w.ground, c.X(), c.Z())
		if depth > deepest {
			deepest, normal = depth, n
		}

		rel := c.Sub(b.position)
		vn := b.VelocityInLocalPoint(rel).Dot(n)
		if vn >= 0 {
			continue
		}
		j := -(1 + b.restitution) * vn / b.effectiveMassInv(n, rel)
		b.ApplyImpulse(n.Mul(j), rel)

		v := b.VelocityInLocalPoint(rel)
		vt := v.Sub(n.Mul(v.Dot(n)))
		speed := vt.Len()
		if speed < 1e-6 {
			continue
		}
		t := vt.Mul(1 / speed)
		jt := min(speed/b.effectiveMassInv(t, rel), b.friction*j)
		b.ApplyImpulse(t.Mul(-jt), rel)
	}

	if deepest > contactSlop {
		b.position = b.position.Add(normal.Mul((deepest - contactSlop) * contactCorrection))
	}
}

func (w *world) AddRigidBody(b RigidBody) {
	rb := mustOwn(b)
	if slices.Contains(w.bodies, rb) {
		return
	}
	w.bodies = append(w.bodies, rb)
}

func (w *world) RemoveRigidBody(b RigidBody) {
	rb, ok := b.(*rigidBody)
	if !ok {
		return
	}
	w.bodies = slices.DeleteFunc(w.bodies, func(x *rigidBody) bool { return x == rb })
}

func (w *world) AddAction(a Action) {
	if a == nil || slices.Contains(w.actions, a) {
		return
	}
	w.actions = append(w.actions, a)
}

func (w *world) RemoveAction(a Action) {
	w.actions = slices.DeleteFunc(w.actions, func(x Action) bool { return x == a })
}

func (w *world) NumRigidBodies() int {
	return len(w.bodies)
}

func (w *world) Gravity() mgl32.Vec3 {
	return w.gravity
}

func (w *world) SetGravity(g mgl32.Vec3) {
	w.gravity = g
	for _, b := range w.bodies {
		b.Activate(false)
	}
}

func (w *world) Ground() Ground {
	return w.ground
}

func mustOwn(b RigidBody) *rigidBody {
	rb, ok := b.(*rigidBody)
	if !ok {
		panic("physics: rigid body was not created by this package")
	}
	return rb
}
