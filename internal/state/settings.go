package state

import "unicode/utf8"

type SensorMode int

const (
	SensorOff SensorMode = iota
	SensorMgL
	SensorPPM

	sensorModeCount = 3
)

func (m SensorMode) String() string {
	switch m {
	case SensorOff:
		return "OFF"
	case SensorMgL:
		return "mg/L"
	case SensorPPM:
		return "PPM"
	}
	return "unknown"
}

// Next and Prev cycle OFF -> mg/L -> PPM -> OFF.
func (m SensorMode) Next() SensorMode { return (m + 1) % sensorModeCount }
func (m SensorMode) Prev() SensorMode { return (m - 1 + sensorModeCount) % sensorModeCount }

// Parameter bounds and steps.
const (
	BuzzerMin, BuzzerMax, BuzzerStep             = 0, 100, 10
	BrightnessMin, BrightnessMax, BrightnessStep = 0, 255, 10
	SpeedMin, SpeedMax                           = 1, 10
	GlyphSizeMin, GlyphSizeMax, GlyphSizeStep    = 8, 60, 4
	CustomTextMaxRunes                           = 100
)

// Settings is the mutable parameter set shared by the menu and the
// rendering pipeline. The control loop owns it; other goroutines only see
// published copies.
type Settings struct {
	SensorMode SensorMode `json:"sensorMode"`
	// LastSensorMode is the mode restored when the alarm is switched off.
	LastSensorMode SensorMode `json:"-"`
	AlarmActive    bool       `json:"alarmActive"`

	BuzzerVolume int `json:"buzzerVolume"`
	Brightness   int `json:"brightness"`

	PresetIndex   int    `json:"presetIndex"`
	UseCustomText bool   `json:"useCustomText"`
	CustomText    string `json:"customText"`
	ColorIndex    int    `json:"colorIndex"`

	ScrollSpeed int `json:"scrollSpeed"`
	GlyphSize   int `json:"glyphSize"`
}

func DefaultSettings() Settings {
	return Settings{
		SensorMode:     SensorMgL,
		LastSensorMode: SensorMgL,
		Brightness:     60,
		ScrollSpeed:    2,
		GlyphSize:      48,
	}
}

// SensorActive reports whether the shared control line is in sampling mode.
func (s Settings) SensorActive() bool { return s.SensorMode != SensorOff }

// Content is the text the canvas should hold. Empty text becomes a single
// space so the canvas never has zero width.
func (s Settings) Content() string {
	text := Presets[wrap(s.PresetIndex, PresetCount)]
	if s.UseCustomText {
		text = s.CustomText
	}
	if text == "" {
		return " "
	}
	return text
}

// Color returns the palette entry for ColorIndex.
func (s Settings) Color() PaletteEntry {
	return Palette[wrap(s.ColorIndex, PaletteSize)]
}

// ClampText limits text to CustomTextMaxRunes without splitting a rune.
func ClampText(text string) string {
	if utf8.RuneCountInString(text) <= CustomTextMaxRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == CustomTextMaxRunes {
			return text[:i]
		}
		n++
	}
	return text
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
