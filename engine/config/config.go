// Package config loads the racer settings from TOML or YAML and watches the file for edits.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/vehicle"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported format")

// Window holds the window settings.
type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// Fog holds the distance fog settings.
type Fog struct {
	Enabled bool       `toml:"enabled" yaml:"enabled"`
	Density float32    `toml:"density" yaml:"density"`
	Color   [3]float32 `toml:"color" yaml:"color"`
}

// Render holds the renderer settings.
type Render struct {
	// ClearColor is 8-bit RGB.
	ClearColor [3]uint8 `toml:"clear_color" yaml:"clear_color"`
	VSync      bool     `toml:"vsync" yaml:"vsync"`
	MSAA       bool     `toml:"msaa" yaml:"msaa"`
	Fog        Fog      `toml:"fog" yaml:"fog"`
	// SkyboxDay and SkyboxNight are directories holding right/left/top/bottom/front/back images.
	SkyboxDay   string `toml:"skybox_day" yaml:"skybox_day"`
	SkyboxNight string `toml:"skybox_night" yaml:"skybox_night"`
}

// ClearColorVec4 returns ClearColor as linear RGBA in [0, 1].
func (r Render) ClearColorVec4() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(r.ClearColor[0]) / 255,
		float32(r.ClearColor[1]) / 255,
		float32(r.ClearColor[2]) / 255,
		1,
	}
}

// Camera holds the projection used by every demo camera.
type Camera struct {
	FOV       float32 `toml:"fov" yaml:"fov"`
	Near      float32 `toml:"near" yaml:"near"`
	Far       float32 `toml:"far" yaml:"far"`
	OrthoSize float32 `toml:"ortho_size" yaml:"ortho_size"`
	FlySpeed  float32 `toml:"fly_speed" yaml:"fly_speed"`
}

// Terrain holds the heightmap terrain settings.
type Terrain struct {
	Heightmap   string     `toml:"heightmap" yaml:"heightmap"`
	GridSize    int        `toml:"grid_size" yaml:"grid_size"`
	HeightScale float32    `toml:"height_scale" yaml:"height_scale"`
	WorldScale  float32    `toml:"world_scale" yaml:"world_scale"`
	Position    [3]float32 `toml:"position" yaml:"position"`
}

// Physics holds the simulation settings.
type Physics struct {
	Gravity     [3]float32 `toml:"gravity" yaml:"gravity"`
	MaxSubSteps int        `toml:"max_sub_steps" yaml:"max_sub_steps"`
}

// Drive holds the keyboard driving limits.
type Drive struct {
	EngineForce  float32 `toml:"engine_force" yaml:"engine_force"`
	ReverseForce float32 `toml:"reverse_force" yaml:"reverse_force"`
	BrakeForce   float32 `toml:"brake_force" yaml:"brake_force"`
	// SteeringClamp is the largest front wheel angle in radians.
	SteeringClamp float32 `toml:"steering_clamp" yaml:"steering_clamp"`
	// SteeringSpeed is how fast the wheel angle follows the keys, in radians per second.
	SteeringSpeed float32 `toml:"steering_speed" yaml:"steering_speed"`
}

// Prop places a loaded model in the world.
type Prop struct {
	Model    string     `toml:"model" yaml:"model"`
	Position [3]float32 `toml:"position" yaml:"position"`
	Scale    float32    `toml:"scale" yaml:"scale"`
}

// Assets names optional model files. Missing files fall back to built-in shapes.
type Assets struct {
	VehicleModel string `toml:"vehicle_model" yaml:"vehicle_model"`
	Props        []Prop `toml:"props" yaml:"props"`
}

// Config is the complete racer configuration.
type Config struct {
	Debug    bool                  `toml:"debug" yaml:"debug"`
	Profiler bool                  `toml:"profiler" yaml:"profiler"`
	Window   Window                `toml:"window" yaml:"window"`
	Render   Render                `toml:"render" yaml:"render"`
	Camera   Camera                `toml:"camera" yaml:"camera"`
	Follow   camera.RacingSettings `toml:"follow" yaml:"follow"`
	Vehicle  vehicle.Parameters    `toml:"vehicle" yaml:"vehicle"`
	Drive    Drive                 `toml:"drive" yaml:"drive"`
	Terrain  Terrain               `toml:"terrain" yaml:"terrain"`
	Physics  Physics               `toml:"physics" yaml:"physics"`
	Assets   Assets                `toml:"assets" yaml:"assets"`
}

// Default returns the stock demo configuration.
func Default() Config {
	return Config{
		Window: Window{Title: "oxy-racer", Width: 1600, Height: 900},
		Render: Render{
			ClearColor:  [3]uint8{100, 149, 237},
			VSync:       true,
			MSAA:        true,
			Fog:         Fog{Density: 0.5, Color: [3]float32{0.5, 0.5, 0.5}},
			SkyboxDay:   "assets/skybox/day",
			SkyboxNight: "assets/skybox/night",
		},
		Camera:  Camera{FOV: 45, Near: 0.1, Far: 2000, OrthoSize: 50, FlySpeed: 10},
		Follow:  camera.DefaultRacingSettings(),
		Vehicle: vehicle.DefaultParameters(),
		Terrain: Terrain{
			Heightmap:   "assets/heightmap.png",
			GridSize:    64,
			HeightScale: 128,
			WorldScale:  0.5,
			Position:    [3]float32{0, -15, 0},
		},
		Physics: Physics{Gravity: [3]float32{0, -9.81, 0}, MaxSubSteps: 10},
		Drive: Drive{
			EngineForce:   2000,
			ReverseForce:  1000,
			BrakeForce:    100,
			SteeringClamp: 0.3,
			SteeringSpeed: 1.5,
		},
		Assets: Assets{VehicleModel: "assets/models/car.obj"},
	}
}

// Load reads path over Default. The format follows the extension: .toml, .yaml or .yml.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the decoded configuration; keys missing from the file keep their defaults
//   - error: ErrUnsupportedFormat, a read error or a decode error
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Decode(path, data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Decode unmarshals data into cfg using the format named by path's extension.
func Decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}
