package buttons

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const pollInterval = 10 * time.Millisecond

// GPIOButtons reads two active-low push buttons with pull-ups.
type GPIOButtons struct {
	Chip    string
	OffsetA int
	OffsetB int

	lines  [2]*gpiocdev.Line
	state  *levels
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGPIOButtons(chip string, offsetA, offsetB int) *GPIOButtons {
	return &GPIOButtons{Chip: chip, OffsetA: offsetA, OffsetB: offsetB, state: newLevels(), events: make(chan Event)}
}

func (g *GPIOButtons) Start(ctx context.Context) error {
	for i, offset := range []int{g.OffsetA, g.OffsetB} {
		line, err := gpiocdev.RequestLine(g.Chip, offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			g.closeLines()
			return fmt.Errorf("request button line %s:%d: %w", g.Chip, offset, err)
		}
		g.lines[i] = line
	}

	pollCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	go g.poll(pollCtx)
	return nil
}

func (g *GPIOButtons) poll(ctx context.Context) {
	defer close(g.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a, errA := g.lines[0].Value()
			b, errB := g.lines[1].Value()
			if errA != nil || errB != nil {
				continue
			}
			g.state.update(func(l *Levels) {
				l.A = a == 0
				l.B = b == 0
			})
		}
	}
}

func (g *GPIOButtons) Stop() error {
	if g.cancel != nil {
		g.cancel()
		<-g.done
		g.cancel = nil
	}
	g.closeLines()
	return nil
}

func (g *GPIOButtons) closeLines() {
	for i, line := range g.lines {
		if line != nil {
			_ = line.Close()
			g.lines[i] = nil
		}
	}
}

func (g *GPIOButtons) Levels() Levels       { return g.state.get() }
func (g *GPIOButtons) Events() <-chan Event { return g.events }
