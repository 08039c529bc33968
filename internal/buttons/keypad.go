package buttons

import (
	"context"

	"github.com/rook-computer/warnsign/internal/system"
)

// Linux input-event-codes.h
const (
	keyEsc   = 1
	key1     = 2
	key9     = 10
	keyF4    = 62
	keyLeft  = 105
	keyRight = 106
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Keypad maps a keyboard to the panel controls: 1-9 select a pane, left
// and right act as buttons A and B, F4 or Esc requests exit.
type Keypad struct {
	Logger logger

	state  *levels
	events chan Event
	cancel context.CancelFunc
}

func NewKeypad(l logger) *Keypad {
	return &Keypad{Logger: l, state: newLevels(), events: make(chan Event, 1)}
}

func (k *Keypad) Start(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel
	system.WatchKeys(watchCtx, k.Logger, k.HandleKey)
	return nil
}

func (k *Keypad) Stop() error {
	if k.cancel != nil {
		k.cancel()
	}
	return nil
}

// HandleKey applies one key transition.
func (k *Keypad) HandleKey(code uint16, pressed bool) {
	switch {
	case code == keyLeft:
		k.state.update(func(l *Levels) { l.A = pressed })
	case code == keyRight:
		k.state.update(func(l *Levels) { l.B = pressed })
	case code >= key1 && code <= key9 && pressed:
		k.state.update(func(l *Levels) { l.Selector = int(code - key1) })
	case (code == keyF4 || code == keyEsc) && pressed:
		select {
		case k.events <- Exit:
		default:
		}
	}
}

func (k *Keypad) Levels() Levels       { return k.state.get() }
func (k *Keypad) Events() <-chan Event { return k.events }
