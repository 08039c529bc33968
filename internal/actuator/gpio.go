package actuator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const DefaultBuzzerFrequency = 2 * physic.KiloHertz

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// GPIO drives the control line through the character device and the
// buzzer through a periph.io PWM-capable pin.
type GPIO struct {
	Chip          string
	ControlOffset int
	// BuzzerPin is a periph.io pin name such as "GPIO18". Empty disables
	// the buzzer.
	BuzzerPin       string
	BuzzerFrequency physic.Frequency
	Logger          logger

	control *gpiocdev.Line
	buzzer  gpio.PinIO
}

// Open requests the lines. The control line starts low (sensor mode).
func (g *GPIO) Open() error {
	line, err := gpiocdev.RequestLine(g.Chip, g.ControlOffset, gpiocdev.AsOutput(0))
	if err != nil {
		return fmt.Errorf("request control line %s:%d: %w", g.Chip, g.ControlOffset, err)
	}
	g.control = line

	if g.BuzzerPin == "" {
		return nil
	}
	if _, err := host.Init(); err != nil {
		g.Close()
		return fmt.Errorf("periph host init: %w", err)
	}
	pin := gpioreg.ByName(g.BuzzerPin)
	if pin == nil {
		g.Close()
		return fmt.Errorf("buzzer pin %q not found", g.BuzzerPin)
	}
	if g.BuzzerFrequency == 0 {
		g.BuzzerFrequency = DefaultBuzzerFrequency
	}
	g.buzzer = pin
	if g.Logger != nil {
		g.Logger.Infof("gpio", "control=%s:%d buzzer=%s@%s", g.Chip, g.ControlOffset, pin.Name(), g.BuzzerFrequency)
	}
	return g.SetDuty(0)
}

func (g *GPIO) Close() error {
	var firstErr error
	if g.buzzer != nil {
		if err := g.buzzer.Halt(); err != nil {
			firstErr = err
		}
		g.buzzer = nil
	}
	if g.control != nil {
		if err := g.control.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		g.control = nil
	}
	return firstErr
}

// DutyFromByte scales an 8-bit duty to periph's fixed-point range.
func DutyFromByte(duty uint8) gpio.Duty {
	return gpio.Duty(int64(duty) * int64(gpio.DutyMax) / 255)
}

func (g *GPIO) SetDuty(duty uint8) error {
	if g.buzzer == nil {
		return nil
	}
	if duty == 0 {
		return g.buzzer.Out(gpio.Low)
	}
	return g.buzzer.PWM(DutyFromByte(duty), g.BuzzerFrequency)
}

func (g *GPIO) SetControlLine(high bool) error {
	if g.control == nil {
		return fmt.Errorf("control line not open")
	}
	value := 0
	if high {
		value = 1
	}
	return g.control.SetValue(value)
}
