package physics

type factory struct {
	w World
}

var _ Factory = &factory{}

// NewFactory returns a Factory whose vehicles cast their wheels against the ground of w.
// Panics if w is nil.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - Factory: the factory
func NewFactory(w World) Factory {
	if w == nil {
		panic("physics: nil world")
	}
	return &factory{w: w}
}

func (f *factory) NewRigidBody(info RigidBodyInfo) RigidBody {
	return NewRigidBody(info)
}

func (f *factory) NewRaycastVehicle(chassis RigidBody) RaycastVehicle {
	return NewRaycastVehicle(f.w, chassis)
}
