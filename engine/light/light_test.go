package light

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-racer/engine/logger"
	"github.com/Carmen-Shannon/oxy-racer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-racer/internal/mathtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	calls [][]bind_group_provider.BufferWrite
}

func (r *recordingWriter) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.calls = append(r.calls, writes)
}

func TestNewLight_Defaults(t *testing.T) {
	l := NewPointLight()
	assert.Equal(t, KindPoint, l.Kind())
	assert.Equal(t, DefaultProperties(), l.Properties())
	assert.Equal(t, Attenuation{1, 0.09, 0.032}, l.Attenuation())
	assert.Equal(t, float32(1), l.Focus())
}

func TestSetFocus_ClampsToOne(t *testing.T) {
	l := NewSpotLight(WithFocus(0.2))
	assert.Equal(t, float32(1), l.Focus())
	l.SetFocus(12)
	assert.Equal(t, float32(12), l.Focus())
}

func TestFillLightData_Point(t *testing.T) {
	l := NewPointLight(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithColor(mgl32.Vec3{0.5, 0.25, 1}),
		WithIntensity(2),
		WithRadius(20),
		WithAttenuation(1, 0.2, 0.3),
	)
	l.ApplyTransformations(mgl32.Translate3D(10, 0, 0))

	data := l.FillLightData()
	assert.Equal(t, mgl32.Vec4{11, 2, 3, 1}, data.Position)
	assert.Equal(t, mgl32.Vec4{}, data.Direction)
	assert.Equal(t, mgl32.Vec4{0.5, 0.25, 1, 2}, data.Color)
	assert.Equal(t, mgl32.Vec4{1, 0.2, 0.3, 20}, data.Attenuation)
}

func TestFillLightData_Spot(t *testing.T) {
	l := NewSpotLight(WithRotation(mgl32.Vec3{0, 90, 0}), WithFocus(8))
	l.ApplyTransformations(mgl32.Ident4())

	data := l.FillLightData()
	dir := data.Direction.Vec3()
	mathtest.Near(t, mgl32.Vec3{-1, 0, 0}, dir, 1e-5, "got %v", dir)
	assert.Equal(t, float32(8), data.Direction.W())
	assert.Equal(t, float32(1), data.Position.W())
}

func TestFillLightData_UnknownKindIsZero(t *testing.T) {
	l := NewLight(Kind(9))
	assert.Equal(t, GPULight{}, l.FillLightData())
}

func TestManager_CapacityBoundary(t *testing.T) {
	var out bytes.Buffer
	m := NewManager(WithLogger(logger.NewWriterLogger("test", false, &out, &out)))

	points := make([]Light, 0, MaxPointLights)
	for range MaxPointLights {
		l := NewPointLight()
		require.NoError(t, m.AddLight(l))
		points = append(points, l)
	}

	err := m.AddLight(NewPointLight())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Contains(t, out.String(), "WARN")
	assert.Equal(t, MaxPointLights, m.PointCount())
	assert.Equal(t, 0, m.SpotCount())
	assert.Equal(t, points, m.Lights())

	// the spot bucket is independent
	require.NoError(t, m.AddLight(NewSpotLight()))
	assert.Equal(t, 1, m.SpotCount())
}

func TestManager_DuplicateAddIsNoop(t *testing.T) {
	m := NewManager(WithLogger(logger.Nop()))
	l := NewSpotLight()
	require.NoError(t, m.AddLight(l))
	require.NoError(t, m.AddLight(l))
	assert.Equal(t, 1, m.SpotCount())
}

func TestManager_UnknownKind(t *testing.T) {
	m := NewManager(WithLogger(logger.Nop()))
	assert.ErrorIs(t, m.AddLight(NewLight(Kind(5))), ErrUnknownKind)
	assert.False(t, m.RemoveLight(NewLight(Kind(5))))
}

func TestManager_RemoveLight(t *testing.T) {
	m := NewManager(WithLogger(logger.Nop()))
	a, b, c := NewPointLight(), NewPointLight(), NewPointLight()
	for _, l := range []Light{a, b, c} {
		require.NoError(t, m.AddLight(l))
	}

	assert.True(t, m.RemoveLight(b))
	assert.False(t, m.RemoveLight(b))
	assert.False(t, m.Contains(b))
	assert.Equal(t, []Light{a, c}, m.Lights())
}

func TestGPULightsUniform_Size(t *testing.T) {
	var u GPULightsUniform
	assert.Equal(t, 544, u.Size())
	assert.Len(t, u.Marshal(), 544)
	var l GPULight
	assert.Equal(t, 64, l.Size())
}

func TestManager_UpdateLightsWritesOnce(t *testing.T) {
	m := NewManager(WithLogger(logger.Nop()), WithAmbient(mgl32.Vec3{0.2, 0.3, 0.4}, 0.5))
	require.NoError(t, m.AddLight(NewPointLight(WithPosition(mgl32.Vec3{1, 2, 3}))))
	require.NoError(t, m.AddLight(NewSpotLight()))
	require.NoError(t, m.AddLight(NewSpotLight()))
	for _, l := range m.Lights() {
		l.ApplyTransformations(mgl32.Ident4())
	}

	w := &recordingWriter{}
	m.UpdateLights(w)
	require.Len(t, w.calls, 1)
	require.Len(t, w.calls[0], 1)

	write := w.calls[0][0]
	assert.Equal(t, LightsBinding, write.Binding)
	require.Len(t, write.Data, 544)

	// first point light position
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(write.Data[0:4])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(write.Data[8:12])))
	// counts
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(write.Data[512:516]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(write.Data[516:520]))
	// ambient intensity
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(write.Data[540:544])))
}
