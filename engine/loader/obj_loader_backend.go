package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-racer/common"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct {
	log logger.Logger
}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files with MTL materials.
// Missing material libraries and textures are logged and the affected meshes fall back to the
// default material, so a model with broken side files still loads.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Parameters:
//   - log: receives warnings about unreadable side files
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend(log logger.Logger) objLoaderBackend {
	return &objLoaderBackendImpl{log: log}
}

func (b *objLoaderBackendImpl) Extensions() []string {
	return []string{".obj"}
}

func (b *objLoaderBackendImpl) Load(path string) (*importedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	imported, err := b.LoadReader(f, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if imported.name == "" {
		imported.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return imported, nil
}

func (b *objLoaderBackendImpl) LoadReader(r io.Reader, dir string) (*importedModel, error) {
	doc, err := parseOBJ(r)
	if err != nil {
		return nil, err
	}
	if len(doc.groups) == 0 {
		return nil, errors.New("obj: no faces")
	}

	var materials map[string]*mtlMaterial
	if dir != "" {
		materials = b.loadLibraries(dir, doc.mtllibs)
	}

	imported := &importedModel{name: doc.name}
	for i, g := range doc.groups {
		mesh := importedMesh{
			name:     fmt.Sprintf("%s_%d", common.Coalesce(g.material, "mesh"), i),
			vertices: g.vertices,
			indices:  g.indices,
		}
		if m, ok := materials[g.material]; ok {
			mesh.material = b.toMaterial(m)
		} else if g.material != "" && dir != "" {
			b.log.Warnf("loader: material %q not found in %v", g.material, doc.mtllibs)
		}
		imported.meshes = append(imported.meshes, mesh)
	}
	return imported, nil
}

func (b *objLoaderBackendImpl) loadLibraries(dir string, libs []string) map[string]*mtlMaterial {
	out := map[string]*mtlMaterial{}
	for _, lib := range libs {
		path := filepath.Join(dir, filepath.FromSlash(lib))
		f, err := os.Open(path)
		if err != nil {
			b.log.Warnf("loader: %v", err)
			continue
		}
		mats, err := parseMTL(f, filepath.Dir(path))
		f.Close()
		if err != nil {
			b.log.Warnf("loader: %s: %v", path, err)
			continue
		}
		for name, m := range mats {
			out[name] = m
		}
	}
	return out
}

func (b *objLoaderBackendImpl) toMaterial(m *mtlMaterial) material.Material {
	options := []material.MaterialBuilderOption{
		material.WithName(m.Name),
		material.WithAmbient(m.Ambient),
		material.WithDiffuse(m.Diffuse),
		material.WithSpecular(m.Specular),
		material.WithShininess(m.Shininess),
	}
	if m.DiffuseMap != "" {
		img, err := common.LoadImage(m.DiffuseMap)
		if err != nil {
			b.log.Warnf("loader: material %s: %v", m.Name, err)
		} else {
			options = append(options, material.WithDiffuseTexture(&img))
		}
	}
	return material.NewMaterial(options...)
}
