package vehicle

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
)

// VehicleBuilderOption is a function that configures a vehicle during construction.
type VehicleBuilderOption func(*vehicle)

// WithBodyModel replaces the default box body, e.g. with a loaded OBJ model.
//
// Parameters:
//   - m: the body model, centered on the chassis
//
// Returns:
//   - VehicleBuilderOption: a function that applies the body model option
func WithBodyModel(m model.Model) VehicleBuilderOption {
	return func(v *vehicle) {
		v.bodyModel = m
	}
}

// WithWheelModel replaces the default wheel box. All wheels share the model.
//
// Parameters:
//   - m: the wheel model, centered on the hub
//
// Returns:
//   - VehicleBuilderOption: a function that applies the wheel model option
func WithWheelModel(m model.Model) VehicleBuilderOption {
	return func(v *vehicle) {
		v.wheelModel = m
	}
}

// WithObjectOptions forwards options to the body game object.
func WithObjectOptions(options ...game_object.GameObjectBuilderOption) VehicleBuilderOption {
	return func(v *vehicle) {
		v.objectOpts = append(v.objectOpts, options...)
	}
}

// WithLogger sets the logger handed to the body and wheel objects.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - VehicleBuilderOption: a function that applies the logger option
func WithLogger(l logger.Logger) VehicleBuilderOption {
	return func(v *vehicle) {
		v.log = l
	}
}
