package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-racer/engine/camera"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/vehicle"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1600, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
	assert.Equal(t, mgl32.Vec4{100.0 / 255, 149.0 / 255, 237.0 / 255, 1}, cfg.Render.ClearColorVec4())
	assert.Equal(t, camera.DefaultRacingSettings(), cfg.Follow)
	assert.Equal(t, vehicle.DefaultParameters(), cfg.Vehicle)
	assert.Equal(t, float32(128), cfg.Terrain.HeightScale)
	assert.Equal(t, float32(0.5), cfg.Terrain.WorldScale)
	assert.Equal(t, [3]float32{0, -15, 0}, cfg.Terrain.Position)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "racer.toml", `
debug = true

[window]
title = "test track"

[render]
clear_color = [0, 0, 0]

[render.fog]
enabled = true
density = 0.25

[follow]
follow_distance = 6.0
mode = 1

[vehicle]
mass = 750.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "test track", cfg.Window.Title)
	assert.Equal(t, 1600, cfg.Window.Width, "unset keys keep their defaults")
	assert.Equal(t, [3]uint8{}, cfg.Render.ClearColor)
	assert.True(t, cfg.Render.Fog.Enabled)
	assert.Equal(t, float32(0.25), cfg.Render.Fog.Density)
	assert.Equal(t, float32(6), cfg.Follow.FollowDistance)
	assert.Equal(t, camera.LookAtSmoothed, cfg.Follow.Mode)
	assert.Equal(t, float32(2), cfg.Follow.HeightOffset)
	assert.Equal(t, float32(750), cfg.Vehicle.Mass)
	assert.Equal(t, float32(0.5), cfg.Vehicle.WheelRadius)
}

func TestLoad_AssetsAndDrive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "racer.toml", `
[drive]
engine_force = 3000.0

[assets]
vehicle_model = "models/kart.obj"

[[assets.props]]
model = "models/cone.obj"
position = [1.0, 0.0, 5.0]
scale = 2.0

[[assets.props]]
model = "models/barrel.obj"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float32(3000), cfg.Drive.EngineForce)
	assert.Equal(t, float32(0.3), cfg.Drive.SteeringClamp)
	assert.Equal(t, "models/kart.obj", cfg.Assets.VehicleModel)
	require.Len(t, cfg.Assets.Props, 2)
	assert.Equal(t, Prop{Model: "models/cone.obj", Position: [3]float32{1, 0, 5}, Scale: 2}, cfg.Assets.Props[0])
	assert.Zero(t, cfg.Assets.Props[1].Scale)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "racer.yml", `
terrain:
  heightmap: maps/hills.png
  height_scale: 64
camera:
  fov: 60
physics:
  gravity: [0, -20, 0]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "maps/hills.png", cfg.Terrain.Heightmap)
	assert.Equal(t, float32(64), cfg.Terrain.HeightScale)
	assert.Equal(t, float32(0.5), cfg.Terrain.WorldScale)
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, [3]float32{0, -20, 0}, cfg.Physics.Gravity)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "racer.ini", "a=b"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := Load(writeFile(t, dir, "broken.toml", "[window\n"))
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWatch_DeliversReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "racer.toml", "[vehicle]\nmass = 900.0\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, logger.Nop())
	require.NoError(t, err)

	writeFile(t, dir, "other.toml", "ignored = true\n")
	writeFile(t, dir, "racer.toml", "[vehicle]\nmass = 1200.0\n")

	// a save can surface as a truncate followed by a write, so wait for the final content
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-updates:
			reloaded = cfg.Vehicle.Mass == 1200
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "racer.toml"), logger.Nop())
	assert.Error(t, err)
}
