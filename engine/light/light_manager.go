package light

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrCapacityExceeded is returned when a light's kind bucket is full.
	ErrCapacityExceeded = errors.New("light: capacity exceeded")
	// ErrUnknownKind is returned for a light whose kind has no bucket.
	ErrUnknownKind = errors.New("light: unknown kind")
)

type managerImpl struct {
	log              logger.Logger
	pointLights      []Light
	spotLights       []Light
	ambientColor     mgl32.Vec3
	ambientIntensity float32
	provider         bind_group_provider.BindGroupProvider
}

// Manager keeps the active lights bucketed by kind and uploads them as one uniform block.
//
// Each bucket holds at most MaxPointLights resp. MaxSpotLights entries in insertion order.
type Manager interface {
	// AddLight registers a light in its kind bucket. Adding an already registered light is a no-op.
	// When the bucket is full a warning is logged, ErrCapacityExceeded is returned and nothing changes.
	//
	// Parameters:
	//   - l: the light to register
	//
	// Returns:
	//   - error: ErrCapacityExceeded, ErrUnknownKind or nil
	AddLight(l Light) error

	// RemoveLight unregisters a light.
	//
	// Parameters:
	//   - l: the light to remove
	//
	// Returns:
	//   - bool: true if the light was registered
	RemoveLight(l Light) bool

	// Contains reports whether l is registered.
	Contains(l Light) bool

	// PointCount returns the number of registered point lights.
	PointCount() int
	// SpotCount returns the number of registered spot lights.
	SpotCount() int

	// Lights returns the registered lights, point lights first.
	//
	// Returns:
	//   - []Light: a copy of both buckets
	Lights() []Light

	// Ambient returns the ambient color and intensity.
	Ambient() (mgl32.Vec3, float32)
	// SetAmbientColor sets the ambient color.
	SetAmbientColor(c mgl32.Vec3)
	// SetAmbientIntensity sets the ambient intensity.
	SetAmbientIntensity(i float32)

	// Uniform packs every registered light and the counts.
	//
	// Returns:
	//   - GPULightsUniform: the packed block
	Uniform() GPULightsUniform

	// UpdateLights marshals the lights uniform block and writes it to the lights binding in a
	// single call.
	//
	// Parameters:
	//   - w: the destination of the write
	UpdateLights(w bind_group_provider.UniformWriter)

	// BindGroupProvider returns the provider the lights block is written into.
	BindGroupProvider() bind_group_provider.BindGroupProvider
	// SetBindGroupProvider sets the provider the lights block is written into.
	SetBindGroupProvider(p bind_group_provider.BindGroupProvider)
}

var _ Manager = &managerImpl{}

// NewManager creates an empty light manager with a dim white ambient term.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the newly created manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &managerImpl{
		log:              logger.Default(),
		pointLights:      make([]Light, 0, MaxPointLights),
		spotLights:       make([]Light, 0, MaxSpotLights),
		ambientColor:     mgl32.Vec3{1, 1, 1},
		ambientIntensity: 0.1,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *managerImpl) bucket(kind Kind) (*[]Light, int, error) {
	switch kind {
	case KindPoint:
		return &m.pointLights, MaxPointLights, nil
	case KindSpot:
		return &m.spotLights, MaxSpotLights, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

func (m *managerImpl) AddLight(l Light) error {
	bucket, capacity, err := m.bucket(l.Kind())
	if err != nil {
		return err
	}
	if slices.Contains(*bucket, l) {
		return nil
	}
	if len(*bucket) >= capacity {
		m.log.Warnf("cannot add %s light: limit of %d reached", l.Kind(), capacity)
		return fmt.Errorf("%w: %d %s lights", ErrCapacityExceeded, capacity, l.Kind())
	}
	*bucket = append(*bucket, l)
	return nil
}

func (m *managerImpl) RemoveLight(l Light) bool {
	bucket, _, err := m.bucket(l.Kind())
	if err != nil {
		return false
	}
	i := slices.Index(*bucket, l)
	if i < 0 {
		return false
	}
	*bucket = slices.Delete(*bucket, i, i+1)
	return true
}

func (m *managerImpl) Contains(l Light) bool {
	bucket, _, err := m.bucket(l.Kind())
	if err != nil {
		return false
	}
	return slices.Contains(*bucket, l)
}

func (m *managerImpl) PointCount() int {
	return len(m.pointLights)
}

func (m *managerImpl) SpotCount() int {
	return len(m.spotLights)
}

func (m *managerImpl) Lights() []Light {
	out := make([]Light, 0, len(m.pointLights)+len(m.spotLights))
	out = append(out, m.pointLights...)
	return append(out, m.spotLights...)
}

func (m *managerImpl) Ambient() (mgl32.Vec3, float32) {
	return m.ambientColor, m.ambientIntensity
}

func (m *managerImpl) SetAmbientColor(c mgl32.Vec3) {
	m.ambientColor = c
}

func (m *managerImpl) SetAmbientIntensity(i float32) {
	m.ambientIntensity = i
}

func (m *managerImpl) Uniform() GPULightsUniform {
	var u GPULightsUniform
	for i, l := range m.pointLights {
		u.PointLights[i] = l.FillLightData()
	}
	for i, l := range m.spotLights {
		u.SpotLights[i] = l.FillLightData()
	}
	u.Counts = [4]int32{int32(len(m.pointLights)), int32(len(m.spotLights)), 0, 0}
	u.Ambient = m.ambientColor.Vec4(m.ambientIntensity)
	return u
}

func (m *managerImpl) UpdateLights(w bind_group_provider.UniformWriter) {
	u := m.Uniform()
	w.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.provider,
		Binding:  LightsBinding,
		Data:     u.Marshal(),
	}})
}

func (m *managerImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *managerImpl) SetBindGroupProvider(p bind_group_provider.BindGroupProvider) {
	m.provider = p
}
