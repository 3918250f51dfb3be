package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-racer/engine/model"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/material"
)

// importedMesh is CPU geometry for one material of a model.
type importedMesh struct {
	name     string
	vertices []model.GPUVertex
	indices  []uint32
	material material.Material
}

// importedModel is the backend-neutral result of an import.
type importedModel struct {
	name   string
	meshes []importedMesh
}

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Extensions lists the lower-case file extensions the backend reads, with the leading dot.
	Extensions() []string

	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *importedModel: the imported model data
	//   - error: error if loading fails
	Load(path string) (*importedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - dir: directory that relative side files (material libraries, textures) resolve against;
	//     empty skips side files
	//
	// Returns:
	//   - *importedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(r io.Reader, dir string) (*importedModel, error)
}
