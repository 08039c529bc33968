package sensor

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
)

// Calibration converts raw ADC samples into a gas concentration.
//
// The exponential constants are empirical values fitted for the MQ-3 module
// on the reference board. Treat them as an opaque table: swap the whole set
// when the sensor or the divider changes.
type Calibration struct {
	ADCMax      float64 `yaml:"adc_max"`
	VRef        float64 `yaml:"vref"`
	DividerGain float64 `yaml:"divider_gain"`
	Offset      float64 `yaml:"offset"`

	K1 float32 `yaml:"k1"`
	K2 float32 `yaml:"k2"`
	K3 float32 `yaml:"k3"`

	// SecondaryDivisor derives mg/L from PPM.
	SecondaryDivisor float32 `yaml:"secondary_divisor"`
}

func DefaultCalibration() Calibration {
	return Calibration{
		ADCMax:           4095,
		VRef:             3.3,
		DividerGain:      1.5,
		Offset:           0,
		K1:               1.53338,
		K2:               0.95387,
		K3:               9.84144,
		SecondaryDivisor: 500,
	}
}

// Reading is one converted sample.
type Reading struct {
	Raw     int       `json:"raw"`
	Voltage float32   `json:"voltage"`
	PPM     float32   `json:"ppm"`
	MgL     float32   `json:"mgL"`
	At      time.Time `json:"at"`
}

// Voltage maps a raw sample to the sensor voltage before the divider.
func (c Calibration) Voltage(raw int) float32 {
	return float32(float64(raw)/c.ADCMax*c.VRef*c.DividerGain + c.Offset)
}

// Convert applies the full curve. Concentration is floored at zero.
func (c Calibration) Convert(raw int) Reading {
	v := c.Voltage(raw)
	ppm := math32.Exp((v+c.K1)/c.K2) - c.K3
	if ppm < 0 || math32.IsNaN(ppm) {
		ppm = 0
	}
	return Reading{
		Raw:     raw,
		Voltage: v,
		PPM:     ppm,
		MgL:     ppm / c.SecondaryDivisor,
	}
}

func (c Calibration) Validate() error {
	if c.ADCMax <= 0 {
		return fmt.Errorf("adc_max must be positive (got %v)", c.ADCMax)
	}
	if c.K2 == 0 {
		return fmt.Errorf("k2 must be non-zero")
	}
	if c.SecondaryDivisor == 0 {
		return fmt.Errorf("secondary_divisor must be non-zero")
	}
	return nil
}

func (r Reading) MgLText() string { return fmt.Sprintf("%.3f mg/L", r.MgL) }
func (r Reading) PPMText() string { return fmt.Sprintf("%d PPM", int(r.PPM)) }
