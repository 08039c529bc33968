package buttons

import "context"

// Merged combines several inputs: button levels are OR-ed and the most
// recently changed selector wins.
type Merged struct {
	inputs []Buttons
	events chan Event
	last   []int
	sel    int
}

func Merge(inputs ...Buttons) *Merged {
	last := make([]int, len(inputs))
	for i := range last {
		last[i] = -1
	}
	return &Merged{inputs: inputs, events: make(chan Event, 1), last: last, sel: -1}
}

func (m *Merged) Start(ctx context.Context) error {
	for i, in := range m.inputs {
		if err := in.Start(ctx); err != nil {
			for _, started := range m.inputs[:i] {
				_ = started.Stop()
			}
			return err
		}
		go m.forward(ctx, in.Events())
	}
	return nil
}

func (m *Merged) forward(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			select {
			case m.events <- ev:
			default:
			}
		}
	}
}

func (m *Merged) Stop() error {
	var firstErr error
	for _, in := range m.inputs {
		if err := in.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Levels must be called from a single goroutine.
func (m *Merged) Levels() Levels {
	out := Levels{Selector: m.sel}
	for i, in := range m.inputs {
		l := in.Levels()
		out.A = out.A || l.A
		out.B = out.B || l.B
		if l.Selector != m.last[i] {
			m.last[i] = l.Selector
			if l.Selector >= 0 {
				m.sel = l.Selector
				out.Selector = l.Selector
			}
		}
	}
	return out
}

func (m *Merged) Events() <-chan Event { return m.events }
