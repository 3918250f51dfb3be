package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ/MTL loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// ErrUnsupportedFormat is returned for files the backend cannot read.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	backend loaderBackend
	log     logger.Logger
	workers int
}

// Loader loads CPU-side models from disk and caches them by path. GPU buffers are created later,
// when the model's game object is added to a scene.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: ErrUnsupportedFormat, or an error if reading or parsing fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key and model name
	//   - r: the reader providing model data
	//   - dir: directory material libraries resolve against; empty loads geometry only
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, dir string) (model.Model, error)

	// LoadAll loads several files in parallel.
	//
	// Parameters:
	//   - paths: the model files
	//
	// Returns:
	//   - []model.Model: the models in paths order, nil where loading failed
	//   - error: every failure joined, or nil
	LoadAll(paths ...string) ([]model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		log:        logger.Default(),
		workers:    runtime.NumCPU(),
	}
	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend(l.log)
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}
	return l
}

func (l *loader) cached(name string) (model.Model, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.modelCache[name]
	return m, ok
}

// store caches m unless another goroutine stored the same key first, and returns the cached model.
func (l *loader) store(name string, m model.Model) model.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[name]; ok {
		return existing
	}
	l.modelCache[name] = m
	return m
}

func (l *loader) Load(path string) (model.Model, error) {
	if m, ok := l.cached(path); ok {
		return m, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(l.backend.Extensions(), ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	imported, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	m := l.store(path, toModel(imported))
	l.log.Debugf("loader: loaded %s (%d meshes)", path, len(m.Meshes()))
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, dir string) (model.Model, error) {
	if m, ok := l.cached(name); ok {
		return m, nil
	}

	imported, err := l.backend.LoadReader(r, dir)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", name, err)
	}
	imported.name = name
	return l.store(name, toModel(imported)), nil
}

func (l *loader) LoadAll(paths ...string) ([]model.Model, error) {
	var (
		models = make([]model.Model, len(paths))
		errs   = make([]error, len(paths))
		wg     sync.WaitGroup
	)

	pool := worker.NewDynamicWorkerPool(max(1, min(l.workers, len(paths))), len(paths)+1, 100*time.Millisecond)
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				models[i], errs[i] = l.Load(path)
				return nil, nil
			},
		})
	}
	wg.Wait()
	pool.Stop()

	return models, errors.Join(errs...)
}

func (l *loader) Get(name string) model.Model {
	m, _ := l.cached(name)
	return m
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// toModel converts the backend's CPU data into a Model with one Mesh per material.
func toModel(imported *importedModel) model.Model {
	meshes := make([]model.Mesh, len(imported.meshes))
	for i, im := range imported.meshes {
		var options []model.MeshBuilderOption
		if im.material != nil {
			options = append(options, model.WithMaterial(im.material))
		}
		meshes[i] = model.NewMesh(im.name, im.vertices, im.indices, options...)
	}
	return model.NewModel(
		model.WithName(imported.name),
		model.WithMeshes(meshes...),
	)
}
