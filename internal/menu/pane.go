// Package menu implements the selector/two-button configuration state
// machine. Transitions are pure; Machine adds edge detection on top.
package menu

import (
	"fmt"

	"github.com/rook-computer/warnsign/internal/sensor"
	"github.com/rook-computer/warnsign/internal/state"
)

type Pane int

const (
	PaneNone Pane = iota - 1
	PaneSensor
	PaneAlarm
	PaneBuzzer
	PaneBrightness
	PanePreset
	PaneCustomText
	PaneColor
	PaneSpeed
	PaneGlyphSize

	paneCount = int(PaneGlyphSize) + 1
)

// PaneFor maps a link selector to a pane. Out-of-range selectors select
// nothing.
func PaneFor(selector int) Pane {
	if selector < 0 || selector >= paneCount {
		return PaneNone
	}
	return Pane(selector)
}

func (p Pane) String() string {
	if p < 0 || int(p) >= paneCount {
		return "none"
	}
	return panes[p].name
}

// Edges are the events seen on one control tick.
type Edges struct {
	Selected bool // selector changed to this pane
	A        bool // decrement / off
	B        bool // increment / on
}

func (e Edges) Pressed() bool { return e.A || e.B }
func (e Edges) Any() bool     { return e.Selected || e.A || e.B }

// Effect is a side effect requested by a transition.
type Effect interface{ effect() }

// SetControlLine drives the line shared by the sensor heater and the
// warning light. High selects the light.
type SetControlLine struct{ High bool }

type SetBrightness struct{ Level uint8 }

type SetDuty struct{ Duty uint8 }

// MarkStale asks for the canvas to be regenerated after the debounce window.
type MarkStale struct{}

// Readout is the status value and description shown on the link.
type Readout struct {
	Value       string
	Description string
}

func (SetControlLine) effect() {}
func (SetBrightness) effect()  {}
func (SetDuty) effect()        {}
func (MarkStale) effect()      {}
func (Readout) effect()        {}

// Env carries values a transition reads but does not own.
type Env struct {
	// Reading is the latest sample, nil before the first one.
	Reading *sensor.Reading
}

type paneDef struct {
	name string
	// apply mutates s for the pressed buttons and reports whether the
	// canvas content changed.
	apply func(s *state.Settings, e Edges) bool
	// refresh builds the readout and the effects re-asserted on display.
	refresh func(s state.Settings, env Env) (Readout, []Effect)
}

var panes = [paneCount]paneDef{
	PaneSensor:     {"sensor", applySensor, refreshSensor},
	PaneAlarm:      {"alarm", applyAlarm, refreshAlarm},
	PaneBuzzer:     {"buzzer", applyBuzzer, refreshBuzzer},
	PaneBrightness: {"brightness", applyBrightness, refreshBrightness},
	PanePreset:     {"preset", applyPreset, refreshPreset},
	PaneCustomText: {"custom", applyCustom, refreshCustom},
	PaneColor:      {"color", applyColor, refreshColor},
	PaneSpeed:      {"speed", applySpeed, refreshSpeed},
	PaneGlyphSize:  {"size", applyGlyphSize, refreshGlyphSize},
}

// Transition applies one tick of input to settings. Effects are only
// produced when the pane was just selected or a button edge fired.
func Transition(pane Pane, edges Edges, settings state.Settings, env Env) (state.Settings, []Effect) {
	if pane < 0 || int(pane) >= paneCount || !edges.Any() {
		return settings, nil
	}
	def := panes[pane]

	var effects []Effect
	if edges.Pressed() && def.apply(&settings, edges) {
		effects = append(effects, MarkStale{})
	}
	readout, extra := def.refresh(settings, env)
	effects = append(effects, extra...)
	effects = append(effects, readout)
	return settings, effects
}

func applySensor(s *state.Settings, e Edges) bool {
	if e.A {
		s.SensorMode = s.SensorMode.Prev()
	}
	if e.B {
		s.SensorMode = s.SensorMode.Next()
	}
	if s.SensorActive() {
		s.LastSensorMode = s.SensorMode
		s.AlarmActive = false
	} else {
		s.AlarmActive = true
	}
	return false
}

func refreshSensor(s state.Settings, env Env) (Readout, []Effect) {
	r := Readout{Value: s.SensorMode.String()}
	switch {
	case !s.SensorActive():
		r.Description = "Sensor OFF"
	case env.Reading != nil:
		r.Description = SensorText(s.SensorMode, *env.Reading)
	default:
		r.Description = "Sampling..."
	}
	return r, []Effect{SetControlLine{High: !s.SensorActive()}}
}

// SensorText formats a reading in the unit of mode.
func SensorText(mode state.SensorMode, r sensor.Reading) string {
	if mode == state.SensorPPM {
		return r.PPMText()
	}
	return r.MgLText()
}

func applyAlarm(s *state.Settings, _ Edges) bool {
	s.AlarmActive = !s.AlarmActive
	if s.AlarmActive {
		s.SensorMode = state.SensorOff
		return false
	}
	s.SensorMode = s.LastSensorMode
	if s.SensorMode == state.SensorOff {
		s.SensorMode = state.SensorMgL
	}
	return false
}

func refreshAlarm(s state.Settings, _ Env) (Readout, []Effect) {
	r := Readout{Value: "OFF", Description: "Light: OFF"}
	if s.AlarmActive {
		r = Readout{Value: "ON", Description: "Light: Active"}
	}
	return r, []Effect{SetControlLine{High: s.AlarmActive}}
}

func applyBuzzer(s *state.Settings, e Edges) bool {
	s.BuzzerVolume = step(s.BuzzerVolume, e, state.BuzzerStep, state.BuzzerMin, state.BuzzerMax)
	return false
}

// BuzzerDuty maps a 0-100 volume onto an 8-bit PWM duty.
func BuzzerDuty(volume int) uint8 {
	return uint8(clamp(volume, state.BuzzerMin, state.BuzzerMax) * 255 / state.BuzzerMax)
}

func refreshBuzzer(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: fmt.Sprintf("%d%%", s.BuzzerVolume), Description: "Volume Setting"},
		[]Effect{SetDuty{Duty: BuzzerDuty(s.BuzzerVolume)}}
}

func applyBrightness(s *state.Settings, e Edges) bool {
	s.Brightness = step(s.Brightness, e, state.BrightnessStep, state.BrightnessMin, state.BrightnessMax)
	return false
}

func refreshBrightness(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: fmt.Sprintf("%d", s.Brightness), Description: "LED Brightness"},
		[]Effect{SetBrightness{Level: uint8(s.Brightness)}}
}

func applyPreset(s *state.Settings, e Edges) bool {
	s.PresetIndex = cycle(s.PresetIndex, e, state.PresetCount)
	s.UseCustomText = false
	return true
}

func refreshPreset(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: fmt.Sprintf("Mode %d", s.PresetIndex+1), Description: state.Presets[s.PresetIndex]}, nil
}

func applyCustom(s *state.Settings, e Edges) bool {
	if e.A {
		s.UseCustomText = false
	}
	if e.B {
		s.UseCustomText = true
	}
	return true
}

func refreshCustom(s state.Settings, _ Env) (Readout, []Effect) {
	r := Readout{Value: "OFF", Description: s.CustomText}
	if s.UseCustomText {
		r.Value = "ON"
	}
	return r, nil
}

func applyColor(s *state.Settings, e Edges) bool {
	s.ColorIndex = cycle(s.ColorIndex, e, state.PaletteSize)
	return true
}

func refreshColor(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: s.Color().Name, Description: "Color Setting"}, nil
}

func applySpeed(s *state.Settings, e Edges) bool {
	s.ScrollSpeed = step(s.ScrollSpeed, e, 1, state.SpeedMin, state.SpeedMax)
	return false
}

func refreshSpeed(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: fmt.Sprintf("Speed: %d", s.ScrollSpeed), Description: "1(Slow) - 10(Fast)"}, nil
}

func applyGlyphSize(s *state.Settings, e Edges) bool {
	before := s.GlyphSize
	s.GlyphSize = step(s.GlyphSize, e, state.GlyphSizeStep, state.GlyphSizeMin, state.GlyphSizeMax)
	return s.GlyphSize != before
}

func refreshGlyphSize(s state.Settings, _ Env) (Readout, []Effect) {
	return Readout{Value: fmt.Sprintf("%d px", s.GlyphSize), Description: "Default: 48px"}, nil
}

// step moves v down for A and up for B, clamped to [lo, hi].
func step(v int, e Edges, delta, lo, hi int) int {
	if e.A {
		v -= delta
	}
	if e.B {
		v += delta
	}
	return clamp(v, lo, hi)
}

func cycle(v int, e Edges, n int) int {
	if e.A {
		v--
	}
	if e.B {
		v++
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
