// Package resource holds loaded assets under stable names so scenes can share meshes, textures
// and materials without reloading them.
package resource

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no asset is registered under a name.
	ErrNotFound = errors.New("resource: not found")

	// ErrTypeMismatch is returned when an asset exists but has a different type than requested.
	ErrTypeMismatch = errors.New("resource: type mismatch")
)

// AssetID identifies one registration. Re-adding a name yields a new id.
type AssetID string

type entry struct {
	id    AssetID
	value any
}

// Registry is a concurrency-safe name to asset map.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Add registers v under name, replacing any previous asset with that name.
//
// Parameters:
//   - name: the lookup key
//   - v: the asset
//
// Returns:
//   - AssetID: a fresh id for this registration
func (r *Registry) Add(name string, v any) AssetID {
	id := AssetID(uuid.NewString())
	r.mu.Lock()
	r.entries[name] = entry{id: id, value: v}
	r.mu.Unlock()
	return id
}

// ID returns the id of the asset registered under name.
func (r *Registry) ID(name string) (AssetID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.id, ok
}

// Remove drops the asset registered under name and returns it.
func (r *Registry) Remove(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if ok {
		delete(r.entries, name)
	}
	return e.value, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Get returns the asset registered under name as a T.
//
// Parameters:
//   - r: the registry
//   - name: the lookup key
//
// Returns:
//   - T: the asset
//   - error: ErrNotFound or ErrTypeMismatch, wrapped with the name
func Get[T any](r *Registry, name string) (T, error) {
	var zero T
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, fmt.Errorf("%q is %T: %w", name, e.value, ErrTypeMismatch)
	}
	return v, nil
}

// GetOrLoad returns the asset under name, calling load and registering its result on a miss.
// Load errors are returned as is and nothing is registered.
func GetOrLoad[T any](r *Registry, name string, load func() (T, error)) (T, error) {
	v, err := Get[T](r, name)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return v, err
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	r.Add(name, v)
	return v, nil
}
