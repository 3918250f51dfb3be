package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/config"
	"github.com/Carmen-Shannon/oxy-racer/engine/loader"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/resource"
	"github.com/Carmen-Shannon/oxy-racer/engine/skybox"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// skyboxFaces lists the face file names of a skybox directory in cubemap order +X, -X, +Y, -Y, +Z, -Z.
var skyboxFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// hillsSize is the side length of the generated heightmap.
const hillsSize = 128

// assets loads and caches everything the demo reads from disk.
type assets struct {
	registry *resource.Registry
	models   loader.Loader
	log      logger.Logger
}

func newAssets(log logger.Logger) *assets {
	return &assets{
		registry: resource.NewRegistry(),
		models:   loader.NewLoader(loader.BackendTypeOBJ, loader.WithLogger(log)),
		log:      log,
	}
}

// skyboxPaths returns the six face paths under dir. Each face is the first of .png or .jpg found
// on disk, defaulting to .png.
func skyboxPaths(dir string) [6]string {
	var paths [6]string
	for i, face := range skyboxFaces {
		paths[i] = filepath.Join(dir, face+".png")
		for _, ext := range []string{".png", ".jpg"} {
			p := filepath.Join(dir, face+ext)
			if _, err := os.Stat(p); err == nil {
				paths[i] = p
				break
			}
		}
	}
	return paths
}

// cubemap returns the cubemap stored in dir.
//
// Parameters:
//   - dir: directory holding right/left/top/bottom/front/back images
//
// Returns:
//   - common.CubeTextureStagingData: the decoded faces
//   - error: the first face error
func (a *assets) cubemap(dir string) (common.CubeTextureStagingData, error) {
	return resource.GetOrLoad(a.registry, "cubemap:"+dir, func() (common.CubeTextureStagingData, error) {
		return skybox.LoadCubemap(skyboxPaths(dir))
	})
}

// skyboxOptions builds the day and night options. A directory that fails to load is logged and
// left out so the skybox falls back to its solid colors.
func (a *assets) skyboxOptions(cfg config.Render) []skybox.SkyboxBuilderOption {
	options := []skybox.SkyboxBuilderOption{skybox.WithLogger(a.log)}
	if cfg.SkyboxDay != "" {
		if day, err := a.cubemap(cfg.SkyboxDay); err != nil {
			a.log.Warnf("day skybox: %v", err)
		} else {
			options = append(options, skybox.WithDayCubemap(day))
		}
	}
	if cfg.SkyboxNight != "" {
		if night, err := a.cubemap(cfg.SkyboxNight); err != nil {
			a.log.Warnf("night skybox: %v", err)
		} else {
			options = append(options, skybox.WithNightCubemap(night))
		}
	}
	return options
}

// heightmap loads path, or generates rolling hills when path is empty or missing.
func (a *assets) heightmap(path string) (common.ImageData, error) {
	if path == "" {
		return rollingHills(hillsSize), nil
	}
	img, err := resource.GetOrLoad(a.registry, "heightmap:"+path, func() (common.ImageData, error) {
		return common.LoadImage(path)
	})
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Warnf("heightmap %s not found, generating hills", path)
		return rollingHills(hillsSize), nil
	}
	return img, err
}

// model loads an OBJ file. Missing files return nil without an error.
func (a *assets) model(path string) (model.Model, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		a.log.Debugf("model %s not found, using the built-in shape", path)
		return nil, nil
	}
	m, err := a.models.Load(path)
	if err != nil {
		return nil, err
	}
	a.registry.Add("model:"+path, m)
	return m, nil
}

// props loads every distinct prop model in parallel and returns them keyed by path. Props whose
// model fails to load are logged and skipped.
func (a *assets) props(props []config.Prop) map[string]model.Model {
	var paths []string
	for _, p := range props {
		if p.Model != "" && !slices.Contains(paths, p.Model) {
			paths = append(paths, p.Model)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	models, err := a.models.LoadAll(paths...)
	if err != nil {
		a.log.Warnf("props: %v", err)
	}
	loaded := make(map[string]model.Model, len(paths))
	for i, m := range models {
		if m == nil {
			continue
		}
		loaded[paths[i]] = m
		a.registry.Add("model:"+paths[i], m)
	}
	return loaded
}

// rollingHills generates a size×size heightmap of gentle low hills around a flat center.
func rollingHills(size int) common.ImageData {
	img := common.ImageData{
		Pixels: make([]byte, size*size*4),
		Width:  size,
		Height: size,
	}
	step := 1 / float32(max(1, size-1))
	for y := range size {
		for x := range size {
			u, v := float32(x)*step, float32(y)*step
			su, sv := math32.Sin(2*math32.Pi*u), math32.Sin(2*math32.Pi*v)
			h := 0.05 + 0.02*su*su*sv*sv
			c := uint8(mgl32.Clamp(h, 0, 1) * 255)
			i := (y*size + x) * 4
			img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], img.Pixels[i+3] = c, c, c, 255
		}
	}
	return img
}
