package menu

import "github.com/rook-computer/warnsign/internal/state"

// Machine owns the settings record and turns raw link levels into edges.
type Machine struct {
	settings state.Settings

	selected    bool
	prevSel     int
	prevA       bool
	prevB       bool
	pane        Pane
	lastReadout Readout
}

func NewMachine(settings state.Settings) *Machine {
	return &Machine{settings: settings, pane: PaneNone}
}

func (m *Machine) Settings() state.Settings { return m.settings }
func (m *Machine) Pane() Pane               { return m.pane }

// Readout returns the last readout produced.
func (m *Machine) Readout() Readout { return m.lastReadout }

// Step consumes one tick of link inputs. The first call always counts as a
// selection so the initial pane pushes its readout.
func (m *Machine) Step(in state.LinkInputs, env Env) []Effect {
	var effects []Effect

	text := state.ClampText(in.Text)
	if text != m.settings.CustomText {
		m.settings.CustomText = text
		if m.settings.UseCustomText {
			effects = append(effects, MarkStale{})
		}
	}

	edges := Edges{
		Selected: !m.selected || in.Selector != m.prevSel,
		A:        in.ButtonA && !m.prevA,
		B:        in.ButtonB && !m.prevB,
	}
	m.selected = true
	m.prevSel = in.Selector
	m.prevA = in.ButtonA
	m.prevB = in.ButtonB
	m.pane = PaneFor(in.Selector)

	var out []Effect
	m.settings, out = Transition(m.pane, edges, m.settings, env)
	for _, e := range out {
		if r, ok := e.(Readout); ok {
			m.lastReadout = r
		}
	}
	return append(effects, out...)
}
