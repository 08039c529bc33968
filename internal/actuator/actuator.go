// Package actuator drives the shared control line and the buzzer.
package actuator

import "sync"

// Sink receives actuator writes from the control loop.
type Sink interface {
	// SetDuty sets the buzzer PWM duty, 0-255.
	SetDuty(duty uint8) error
	// SetControlLine drives the line shared by the sensor heater (low)
	// and the warning light (high).
	SetControlLine(high bool) error
}

type NoopSink struct{}

func (NoopSink) SetDuty(uint8) error       { return nil }
func (NoopSink) SetControlLine(bool) error { return nil }

// MemorySink records the last values written. Safe for concurrent reads.
type MemorySink struct {
	mu     sync.RWMutex
	duty   uint8
	high   bool
	writes int
}

func (m *MemorySink) SetDuty(duty uint8) error {
	m.mu.Lock()
	m.duty = duty
	m.writes++
	m.mu.Unlock()
	return nil
}

func (m *MemorySink) SetControlLine(high bool) error {
	m.mu.Lock()
	m.high = high
	m.writes++
	m.mu.Unlock()
	return nil
}

// State returns the last duty and control line level.
func (m *MemorySink) State() (duty uint8, high bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.duty, m.high
}

func (m *MemorySink) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
