package light

import (
	"github.com/Carmen-Shannon/oxy-racer/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the variant of a Light.
type Kind int

const (
	// KindPoint emits in all directions from the light's world position.
	KindPoint Kind = iota
	// KindSpot emits along the light's world forward axis, narrowed by a focus exponent.
	KindSpot
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Properties are shared by every light kind.
type Properties struct {
	Color     mgl32.Vec3
	Intensity float32
	Radius    float32
}

// DefaultProperties returns white light at intensity 1 with a radius of 50.
func DefaultProperties() Properties {
	return Properties{
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
		Radius:    50,
	}
}

// Attenuation holds the constant, linear and quadratic falloff terms.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// DefaultAttenuation returns (1, 0.09, 0.032).
func DefaultAttenuation() Attenuation {
	return Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032}
}

// spotPayload is the data only spot lights carry.
type spotPayload struct {
	focus float32
}

type lightImpl struct {
	transform.Transform

	kind        Kind
	properties  Properties
	attenuation Attenuation
	spot        spotPayload
}

// Light is a positioned light source. Its pose comes from the embedded Transform, so a light can be
// parented in the scene graph and follows its parent's world matrix.
type Light interface {
	transform.Transform

	// Kind returns the light variant.
	//
	// Returns:
	//   - Kind: point or spot
	Kind() Kind

	// Properties returns color, intensity and radius.
	Properties() Properties
	// SetProperties replaces color, intensity and radius.
	SetProperties(p Properties)
	// SetColor sets the RGB color.
	SetColor(c mgl32.Vec3)
	// SetIntensity sets the scalar intensity.
	SetIntensity(i float32)
	// SetRadius sets the cutoff radius.
	SetRadius(r float32)

	// Attenuation returns the falloff terms.
	Attenuation() Attenuation
	// SetAttenuation replaces the falloff terms.
	SetAttenuation(a Attenuation)

	// Focus returns the spot focus exponent. Always 1 or greater.
	Focus() float32

	// SetFocus sets the spot focus exponent, clamped to at least 1.
	// Has no visible effect on point lights.
	//
	// Parameters:
	//   - exponent: the focus exponent
	SetFocus(exponent float32)

	// FillLightData packs the light into its uniform representation using its world pose.
	//
	// Returns:
	//   - GPULight: the packed light
	FillLightData() GPULight

	// Draw is a no-op. Lights are drawable only so they can live in the scene graph.
	Draw()
}

var _ Light = &lightImpl{}

// NewLight creates a light of the given kind with default properties and attenuation.
//
// Parameters:
//   - kind: the light variant
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(kind Kind, options ...LightBuilderOption) Light {
	l := &lightImpl{
		Transform:   transform.NewTransform(),
		kind:        kind,
		properties:  DefaultProperties(),
		attenuation: DefaultAttenuation(),
		spot:        spotPayload{focus: 1},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// NewPointLight creates a point light.
func NewPointLight(options ...LightBuilderOption) Light {
	return NewLight(KindPoint, options...)
}

// NewSpotLight creates a spot light facing down its forward axis.
func NewSpotLight(options ...LightBuilderOption) Light {
	return NewLight(KindSpot, options...)
}

func (l *lightImpl) Kind() Kind {
	return l.kind
}

func (l *lightImpl) Properties() Properties {
	return l.properties
}

func (l *lightImpl) SetProperties(p Properties) {
	l.properties = p
}

func (l *lightImpl) SetColor(c mgl32.Vec3) {
	l.properties.Color = c
}

func (l *lightImpl) SetIntensity(i float32) {
	l.properties.Intensity = i
}

func (l *lightImpl) SetRadius(r float32) {
	l.properties.Radius = r
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) SetAttenuation(a Attenuation) {
	l.attenuation = a
}

func (l *lightImpl) Focus() float32 {
	return l.spot.focus
}

func (l *lightImpl) SetFocus(exponent float32) {
	l.spot.focus = max(exponent, 1)
}

func (l *lightImpl) FillLightData() GPULight {
	var data GPULight
	switch l.kind {
	case KindPoint:
		l.fillCommon(&data)
	case KindSpot:
		l.fillCommon(&data)
		data.Direction = l.WorldForward().Vec4(l.spot.focus)
	}
	return data
}

func (l *lightImpl) fillCommon(data *GPULight) {
	data.Position = l.WorldPosition().Vec4(1)
	data.Color = l.properties.Color.Vec4(l.properties.Intensity)
	data.Attenuation = mgl32.Vec4{
		l.attenuation.Constant,
		l.attenuation.Linear,
		l.attenuation.Quadratic,
		l.properties.Radius,
	}
}

func (l *lightImpl) Draw() {}
