// Package buttons provides local inputs that mirror the link controls:
// the two action buttons and, for keypads, a pane selector.
package buttons

import (
	"context"
	"sync"
)

// Levels is a snapshot of local input state.
type Levels struct {
	A, B bool
	// Selector is the pane chosen locally, or -1 when untouched.
	Selector int
}

// Event is a one-shot request raised by a local input.
type Event string

const (
	Exit Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Levels() Levels
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { return nil }
func (n *NoopButtons) Levels() Levels                  { return Levels{Selector: -1} }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// levels is the shared mutable state behind Levels().
type levels struct {
	mu  sync.Mutex
	cur Levels
}

func newLevels() *levels { return &levels{cur: Levels{Selector: -1}} }

func (l *levels) get() Levels {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cur
}

func (l *levels) update(fn func(*Levels)) {
	l.mu.Lock()
	fn(&l.cur)
	l.mu.Unlock()
}
