package terrain

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
)

// TerrainBuilderOption is a function that configures a terrain during construction.
type TerrainBuilderOption func(*terrain)

// WithGridSize sets the vertices per side of the collision and draw grid.
//
// Parameters:
//   - n: vertices per side, at least 2
//
// Returns:
//   - TerrainBuilderOption: a function that applies the grid size option
func WithGridSize(n int) TerrainBuilderOption {
	return func(t *terrain) {
		t.gridSize = n
	}
}

// WithHeightScale sets the vertical scale. A full red sample reaches twice this height.
//
// Parameters:
//   - s: the height scale
//
// Returns:
//   - TerrainBuilderOption: a function that applies the height scale option
func WithHeightScale(s float32) TerrainBuilderOption {
	return func(t *terrain) {
		t.heightScale = s
	}
}

// WithWorldScale sets the horizontal scale, in world units per heightmap pixel.
//
// Parameters:
//   - s: the world scale
//
// Returns:
//   - TerrainBuilderOption: a function that applies the world scale option
func WithWorldScale(s float32) TerrainBuilderOption {
	return func(t *terrain) {
		t.worldScale = s
	}
}

// WithUVRepeat sets how many times the material texture repeats across the terrain.
func WithUVRepeat(n float32) TerrainBuilderOption {
	return func(t *terrain) {
		t.uvRepeat = n
	}
}

// WithMaterial replaces the default grass material.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - TerrainBuilderOption: a function that applies the material option
func WithMaterial(m material.Material) TerrainBuilderOption {
	return func(t *terrain) {
		t.mat = m
	}
}

// WithObjectOptions forwards options to the underlying game object, e.g. a position or logger.
func WithObjectOptions(options ...game_object.GameObjectBuilderOption) TerrainBuilderOption {
	return func(t *terrain) {
		t.objectOpts = append(t.objectOpts, options...)
	}
}
