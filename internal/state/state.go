package state

import (
	"sync"
	"time"

	"github.com/rook-computer/warnsign/internal/sensor"
)

// ConnectTimeout is how long after the last link request the link still
// counts as connected.
const ConnectTimeout = 5 * time.Second

type Button int

const (
	ButtonA Button = iota
	ButtonB
)

// LinkInputs are the fields the configuration link delivers each tick.
type LinkInputs struct {
	Selector int    `json:"selector"`
	ButtonA  bool   `json:"buttonA"`
	ButtonB  bool   `json:"buttonB"`
	Text     string `json:"text"`
}

// LinkOutputs are the fields the control loop writes back to the link.
type LinkOutputs struct {
	Value       string `json:"value"`
	Description string `json:"description"`
	Connected   bool   `json:"connected"`
}

type State struct {
	Inputs     LinkInputs
	Outputs    LinkOutputs
	Settings   Settings
	Reading    sensor.Reading
	HasReading bool
	Frames     uint64
}

type latch struct {
	unobserved     bool
	releasePending bool
}

type Store struct {
	mu       sync.RWMutex
	state    State
	latches  [2]latch
	lastSeen time.Time
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: State{Settings: DefaultSettings()},
		now:   time.Now,
	}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	snap.Outputs.Connected = store.connectedLocked()
	return snap
}

// Touch records link activity for the connectivity flag.
func (store *Store) Touch() {
	store.mu.Lock()
	store.lastSeen = store.now()
	store.mu.Unlock()
}

func (store *Store) connectedLocked() bool {
	if store.lastSeen.IsZero() {
		return false
	}
	return store.now().Sub(store.lastSeen) <= ConnectTimeout
}

func (store *Store) SetSelector(selector int) {
	store.mu.Lock()
	store.state.Inputs.Selector = selector
	store.mu.Unlock()
}

func (store *Store) SetText(text string) {
	store.mu.Lock()
	store.state.Inputs.Text = ClampText(text)
	store.mu.Unlock()
}

// SetButton updates a momentary button level. A release that arrives before
// the control loop has seen the press is deferred until after the next
// PollInputs, so short taps are never lost.
func (store *Store) SetButton(button Button, pressed bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	l := &store.latches[button]
	level := store.buttonLevel(button)
	switch {
	case pressed:
		*level = true
		l.unobserved = true
		l.releasePending = false
	case l.unobserved:
		l.releasePending = true
	default:
		*level = false
	}
}

func (store *Store) buttonLevel(button Button) *bool {
	if button == ButtonA {
		return &store.state.Inputs.ButtonA
	}
	return &store.state.Inputs.ButtonB
}

// PollInputs returns the current link inputs and settles deferred releases.
func (store *Store) PollInputs() LinkInputs {
	store.mu.Lock()
	defer store.mu.Unlock()

	in := store.state.Inputs
	for b := range store.latches {
		l := &store.latches[b]
		l.unobserved = false
		if l.releasePending {
			l.releasePending = false
			*store.buttonLevel(Button(b)) = false
		}
	}
	return in
}

func (store *Store) SetOutputs(value, description string) {
	store.mu.Lock()
	store.state.Outputs.Value = value
	store.state.Outputs.Description = description
	store.mu.Unlock()
}

func (store *Store) PublishSettings(settings Settings) {
	store.mu.Lock()
	store.state.Settings = settings
	store.mu.Unlock()
}

func (store *Store) UpdateReading(reading sensor.Reading) {
	store.mu.Lock()
	store.state.Reading = reading
	store.state.HasReading = true
	store.mu.Unlock()
}

func (store *Store) AddFrame() {
	store.mu.Lock()
	store.state.Frames++
	store.mu.Unlock()
}
