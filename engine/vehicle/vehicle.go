package vehicle

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

type vehicle struct {
	game_object.GameObject

	controller Controller
	bodyModel  model.Model
	wheelModel model.Model
	objectOpts []game_object.GameObjectBuilderOption
	log        logger.Logger

	wheels []game_object.GameObject
}

// Vehicle is the drawable car. Its transform follows the controller every Update, so children
// attached to its scene node (headlights, cameras) move with the car. Wheels are drawn at the
// world poses reported by the physics vehicle; the vehicle is meant to be a root-level object.
type Vehicle interface {
	game_object.GameObject

	// Controller returns the physics controller driving this vehicle.
	Controller() Controller

	// Wheels returns the wheel objects, in controller wheel order.
	Wheels() []game_object.GameObject
}

var _ Vehicle = &vehicle{}

// NewVehicle creates the drawable for controller and snaps it to the controller pose.
// Panics if controller is nil.
//
// Parameters:
//   - controller: the vehicle controller
//   - options: variadic list of VehicleBuilderOption functions
//
// Returns:
//   - Vehicle: the vehicle
func NewVehicle(controller Controller, options ...VehicleBuilderOption) Vehicle {
	if controller == nil {
		panic("vehicle: nil controller")
	}
	v := &vehicle{
		controller: controller,
		log:        logger.Default(),
	}
	for _, opt := range options {
		opt(v)
	}

	params := controller.Parameters()
	if v.bodyModel == nil {
		v.bodyModel = model.NewBox("vehicle body", ChassisHalfExtents, model.WithMaterial(material.NewMaterial(
			material.WithName("vehicle paint"),
			material.WithDiffuse(mgl32.Vec3{0.8, 0.1, 0.1}),
			material.WithSpecular(mgl32.Vec3{0.6, 0.6, 0.6}),
			material.WithShininess(64),
		)))
	}
	if v.wheelModel == nil {
		r := params.WheelRadius
		v.wheelModel = model.NewBox("vehicle wheel", mgl32.Vec3{0.2, r, r}, model.WithMaterial(material.NewMaterial(
			material.WithName("tyre"),
			material.WithDiffuse(mgl32.Vec3{0.08, 0.08, 0.08}),
		)))
	}

	objectOpts := append([]game_object.GameObjectBuilderOption{
		game_object.WithName("vehicle"),
		game_object.WithModel(v.bodyModel),
		game_object.WithLogger(v.log),
	}, v.objectOpts...)
	v.GameObject = game_object.NewGameObject(objectOpts...)

	for i := range controller.Wheels() {
		v.wheels = append(v.wheels, game_object.NewGameObject(
			game_object.WithName(fmt.Sprintf("vehicle wheel %d", i)),
			game_object.WithModel(v.wheelModel),
			game_object.WithLogger(v.log),
		))
	}
	v.follow()
	return v
}

func (v *vehicle) Controller() Controller {
	return v.controller
}

func (v *vehicle) Wheels() []game_object.GameObject {
	return v.wheels
}

func (v *vehicle) Init(r game_object.Renderer) error {
	if err := v.GameObject.Init(r); err != nil {
		return err
	}
	for _, w := range v.wheels {
		if err := w.Init(r); err != nil {
			return err
		}
	}
	return nil
}

func (v *vehicle) BindScene(scene bind_group_provider.BindGroupProvider) {
	v.GameObject.BindScene(scene)
	for _, w := range v.wheels {
		w.BindScene(scene)
	}
}

// Update runs the controller and copies its pose into the transform.
func (v *vehicle) Update(dt float32) {
	v.controller.Update(dt)
	v.follow()
}

func (v *vehicle) follow() {
	v.SetPosition(v.controller.Position())
	v.SetOrientation(v.controller.Orientation())
}

func (v *vehicle) Draw() {
	v.GameObject.Draw()
	if !v.Enabled() {
		return
	}
	poses := v.controller.Wheels()
	for i, w := range v.wheels {
		if i >= len(poses) {
			break
		}
		w.SetWorldMatrix(poses[i].Matrix())
		w.Draw()
	}
}

func (v *vehicle) Release() {
	for _, w := range v.wheels {
		w.Release()
	}
	v.GameObject.Release()
}
