package sensor

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSample is returned by an ADC that has not produced a value yet.
var ErrNoSample = errors.New("no sample available")

// ADC is a single analog input sampled on demand. Read must not block.
type ADC interface {
	Read() (int, error)
}

// Reader samples an ADC and applies a calibration.
type Reader struct {
	ADC         ADC
	Calibration Calibration

	now func() time.Time
}

func NewReader(adc ADC, cal Calibration) *Reader {
	return &Reader{ADC: adc, Calibration: cal, now: time.Now}
}

func (r *Reader) Sample() (Reading, error) {
	if r.ADC == nil {
		return Reading{}, errors.New("no adc configured")
	}
	raw, err := r.ADC.Read()
	if err != nil {
		return Reading{}, fmt.Errorf("adc read: %w", err)
	}
	if raw < 0 {
		raw = 0
	}
	if max := int(r.Calibration.ADCMax); raw > max {
		raw = max
	}
	reading := r.Calibration.Convert(raw)
	reading.At = r.now()
	return reading, nil
}

// FixedADC always returns the same raw value.
type FixedADC int

func (a FixedADC) Read() (int, error) { return int(a), nil }
