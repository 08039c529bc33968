package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rook-computer/warnsign/internal/sensor"
)

// Config represents the device configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Font    FontConfig    `yaml:"font"`
	Menu    MenuConfig    `yaml:"menu"`
	Sensor  SensorConfig  `yaml:"sensor"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	Web     WebConfig     `yaml:"web"`
}

// DisplayConfig describes the LED panel and the canvas budget.
type DisplayConfig struct {
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	BottomHalfOffset int           `yaml:"bottom_half_offset"` // Panel row quirk; try 1, -1 or 0
	CanvasMargin     int           `yaml:"canvas_margin"`
	MaxCanvasPixels  int           `yaml:"max_canvas_pixels"`
	FrameInterval    time.Duration `yaml:"frame_interval"`
	Framebuffer      string        `yaml:"framebuffer"` // Empty disables the framebuffer mirror
}

// FontConfig selects the glyph rasterizer.
type FontConfig struct {
	Backend string `yaml:"backend"` // opentype, freetype or bitmap
	Path    string `yaml:"path"`    // Empty uses the built-in Go Bold face
}

type MenuConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// SensorConfig contains the ADC bridge and calibration.
type SensorConfig struct {
	Port        string             `yaml:"port"` // Empty disables sampling
	BaudRate    int                `yaml:"baud_rate"`
	Interval    time.Duration      `yaml:"interval"`
	Calibration sensor.Calibration `yaml:"calibration"`
}

// GPIOConfig maps the actuators and buttons onto lines.
type GPIOConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Chip            string `yaml:"chip"`
	ControlLine     int    `yaml:"control_line"`
	BuzzerPin       string `yaml:"buzzer_pin"`
	BuzzerFrequency int    `yaml:"buzzer_frequency"` // Hz
	ButtonA         int    `yaml:"button_a"`
	ButtonB         int    `yaml:"button_b"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns a configuration for the reference 64x64 panel.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:            64,
			Height:           64,
			BottomHalfOffset: 1,
			CanvasMargin:     20,
			MaxCanvasPixels:  1 << 20,
			FrameInterval:    20 * time.Millisecond,
		},
		Font: FontConfig{
			Backend: "opentype",
		},
		Menu: MenuConfig{
			Debounce: 200 * time.Millisecond,
		},
		Sensor: SensorConfig{
			BaudRate:    sensor.DefaultBaudRate,
			Interval:    500 * time.Millisecond,
			Calibration: sensor.DefaultCalibration(),
		},
		GPIO: GPIOConfig{
			Chip:            "gpiochip0",
			ControlLine:     17,
			BuzzerPin:       "GPIO18",
			BuzzerFrequency: 2000,
			ButtonA:         23,
			ButtonB:         24,
		},
		Web: WebConfig{
			Listen: ":80",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.Font.Backend {
	case "opentype", "freetype", "bitmap":
	default:
		return fmt.Errorf("font.backend must be opentype, freetype or bitmap (got %q)", c.Font.Backend)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive (got %dx%d)", c.Display.Width, c.Display.Height)
	}
	return c.Sensor.Calibration.Validate()
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Display.CanvasMargin == 0 {
		c.Display.CanvasMargin = def.Display.CanvasMargin
	}
	if c.Display.MaxCanvasPixels == 0 {
		c.Display.MaxCanvasPixels = def.Display.MaxCanvasPixels
	}
	if c.Display.FrameInterval == 0 {
		c.Display.FrameInterval = def.Display.FrameInterval
	}

	if c.Font.Backend == "" {
		c.Font.Backend = def.Font.Backend
	}

	if c.Menu.Debounce == 0 {
		c.Menu.Debounce = def.Menu.Debounce
	}

	if c.Sensor.BaudRate == 0 {
		c.Sensor.BaudRate = def.Sensor.BaudRate
	}
	if c.Sensor.Interval == 0 {
		c.Sensor.Interval = def.Sensor.Interval
	}
	cal, defCal := &c.Sensor.Calibration, def.Sensor.Calibration
	if cal.ADCMax == 0 {
		cal.ADCMax = defCal.ADCMax
	}
	if cal.VRef == 0 {
		cal.VRef = defCal.VRef
	}
	if cal.DividerGain == 0 {
		cal.DividerGain = defCal.DividerGain
	}
	if cal.K2 == 0 {
		cal.K1, cal.K2, cal.K3 = defCal.K1, defCal.K2, defCal.K3
	}
	if cal.SecondaryDivisor == 0 {
		cal.SecondaryDivisor = defCal.SecondaryDivisor
	}

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = def.GPIO.Chip
	}
	if c.GPIO.BuzzerFrequency == 0 {
		c.GPIO.BuzzerFrequency = def.GPIO.BuzzerFrequency
	}

	if c.Web.Listen == "" {
		c.Web.Listen = def.Web.Listen
	}
}
