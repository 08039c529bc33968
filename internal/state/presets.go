package state

// Built-in warning messages, in selector order.
var Presets = [...]string{
	"注意! 前方車禍 Slow Down!",
	"車輛拋錨 請閃避 Breakdown!",
	"臨時停車 請繞道 Temp.",
	"前方施工 請減速 Road Work.",
	"前方塞車 小心追撞 Traffic Jam.",
	"濃霧小心 開霧燈 Foggy!",
	"保持車距 Keep Distance.",
	"緊急求救 請幫忙 S.O.S.",
	"系統測試 System Check...",
}

// PaletteEntry is a named RGB565 text color.
type PaletteEntry struct {
	Name  string
	Color uint16
}

// RainbowIndex selects the horizontal hue gradient instead of a flat color.
const RainbowIndex = 0

var Palette = [...]PaletteEntry{
	{Name: "Rainbow", Color: 0xFFFF},
	{Name: "White", Color: 0xFFFF},
	{Name: "Gray", Color: 0x8410},
	{Name: "Red", Color: 0xF800},
	{Name: "Orange", Color: 0xFD20},
	{Name: "Yellow", Color: 0xFFE0},
	{Name: "Green", Color: 0x07E0},
	{Name: "Blue", Color: 0x001F},
	{Name: "Indigo", Color: 0x4810},
	{Name: "Violet", Color: 0x780F},
}

// PresetCount and PaletteSize are the wrap bounds of the cyclic selectors.
const (
	PresetCount = len(Presets)
	PaletteSize = len(Palette)
)
