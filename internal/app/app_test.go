package app

import (
	"bytes"
	"image"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/warnsign/internal/actuator"
	"github.com/rook-computer/warnsign/internal/config"
	"github.com/rook-computer/warnsign/internal/render"
	"github.com/rook-computer/warnsign/internal/sensor"
	"github.com/rook-computer/warnsign/internal/state"
)

// boxRaster draws every rune as a solid size/2 x size block.
type boxRaster struct{}

func (boxRaster) Measure(text string, size int) int {
	return utf8.RuneCountInString(text) * size / 2
}

func (r boxRaster) Stamp(dst render.Surface, text string, size int, origin image.Point, fill uint16) {
	w := r.Measure(text, size)
	for y := origin.Y; y < origin.Y+size; y++ {
		for x := origin.X; x < origin.X+w; x++ {
			dst.SetPixel(x, y, fill)
		}
	}
}

type harness struct {
	app     *App
	store   *state.Store
	display *render.MemoryDisplay
	sink    *actuator.MemorySink
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	store := state.NewStore()
	display := render.NewMemoryDisplay(cfg.Display.Width, cfg.Display.Height)
	sink := &actuator.MemorySink{}

	app := New(cfg, store, display, boxRaster{})
	app.Actuator = sink
	app.Boot()
	return &harness{
		app:     app,
		store:   store,
		display: display,
		sink:    sink,
		now:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (h *harness) step(d time.Duration) {
	h.now = h.now.Add(d)
	h.app.Step(h.now)
}

// tap posts a press and release between two polls.
func (h *harness) tap(button state.Button) {
	h.store.SetButton(button, true)
	h.store.SetButton(button, false)
	h.step(10 * time.Millisecond)
	h.step(10 * time.Millisecond)
}

func canvasWidth(content string, size int) int {
	return boxRaster{}.Measure(content, size) + render.DefaultMargin
}

func TestBoot_StartupOutputs(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, uint8(60), h.display.Brightness())
	duty, high := h.sink.State()
	assert.Equal(t, uint8(0), duty)
	assert.False(t, high)

	canvas := h.app.Compositor.Canvas()
	require.NotNil(t, canvas)
	assert.Equal(t, canvasWidth(state.Presets[0], 48), canvas.Width)
	assert.Equal(t, 64, canvas.Height)
}

func TestPresetScenario(t *testing.T) {
	h := newHarness(t)
	h.step(0)

	h.store.SetSelector(4)
	h.step(10 * time.Millisecond)
	assert.Equal(t, "Mode 1", h.store.Snapshot().Outputs.Value)

	h.tap(state.ButtonB)
	h.tap(state.ButtonB)

	out := h.store.Snapshot().Outputs
	assert.Equal(t, "Mode 3", out.Value)
	assert.Equal(t, state.Presets[2], out.Description)
	assert.Equal(t, 2, h.store.Snapshot().Settings.PresetIndex)

	// Still inside the debounce window.
	assert.Equal(t, canvasWidth(state.Presets[0], 48), h.app.Compositor.Canvas().Width)

	h.step(250 * time.Millisecond)
	assert.Equal(t, canvasWidth(state.Presets[2], 48), h.app.Compositor.Canvas().Width)
	assert.Equal(t, float64(-64+2), h.app.Compositor.Cursor())
}

func TestGlyphSizeDebounce(t *testing.T) {
	h := newHarness(t)
	h.step(0)
	content := state.Presets[0]

	h.store.SetSelector(8)
	h.step(10 * time.Millisecond)
	h.store.SetButton(state.ButtonA, true)
	h.step(10 * time.Millisecond)
	h.store.SetButton(state.ButtonA, false)
	assert.Equal(t, "44 px", h.store.Snapshot().Outputs.Value)

	h.step(190 * time.Millisecond)
	assert.Equal(t, canvasWidth(content, 48), h.app.Compositor.Canvas().Width)

	h.step(10 * time.Millisecond)
	assert.Equal(t, canvasWidth(content, 44), h.app.Compositor.Canvas().Width)
}

func TestSensorSampling(t *testing.T) {
	h := newHarness(t)
	h.app.Sensor = sensor.NewReader(sensor.FixedADC(4095), sensor.DefaultCalibration())

	h.step(0)
	snap := h.store.Snapshot()
	require.True(t, snap.HasReading)
	assert.Equal(t, 4095, snap.Reading.Raw)
	assert.Equal(t, "mg/L", snap.Outputs.Value)
	assert.Equal(t, snap.Reading.MgLText(), snap.Outputs.Description)

	h.tap(state.ButtonB)
	snap = h.store.Snapshot()
	assert.Equal(t, "PPM", snap.Outputs.Value)
	assert.Equal(t, snap.Reading.PPMText(), snap.Outputs.Description)
}

func TestAlarmDrivesControlLine(t *testing.T) {
	h := newHarness(t)
	h.app.Sensor = sensor.NewReader(sensor.FixedADC(100), sensor.DefaultCalibration())
	h.step(0)

	h.store.SetSelector(1)
	h.step(10 * time.Millisecond)
	h.tap(state.ButtonA)

	_, high := h.sink.State()
	assert.True(t, high)
	snap := h.store.Snapshot()
	assert.True(t, snap.Settings.AlarmActive)
	assert.Equal(t, state.SensorOff, snap.Settings.SensorMode)
	assert.Equal(t, "Light: Active", snap.Outputs.Description)

	h.tap(state.ButtonA)
	_, high = h.sink.State()
	assert.False(t, high)
	assert.Equal(t, state.SensorMgL, h.store.Snapshot().Settings.SensorMode)
}

func TestBrightnessAppliedToDisplay(t *testing.T) {
	h := newHarness(t)
	h.step(0)
	h.store.SetSelector(3)
	h.step(10 * time.Millisecond)
	h.tap(state.ButtonB)
	assert.Equal(t, uint8(70), h.display.Brightness())
}

func TestAnimateCountsFrames(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		h.step(20 * time.Millisecond)
	}
	assert.Equal(t, uint64(5), h.store.Snapshot().Frames)
	assert.Equal(t, uint64(5), h.display.Presented())
}

func TestFileLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("app", "hello %d", 1)
	l.Errorf("sensor", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " [INFO] app: hello 1")
	assert.Contains(t, lines[1], " [ERROR] sensor: boom")
}

func TestExitIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.app.Exit(nil)
	h.app.Exit(assert.AnError)
	assert.NoError(t, <-h.app.exitCh)
}
