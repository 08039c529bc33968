package buttons

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypad_HandleKey(t *testing.T) {
	k := NewKeypad(nil)
	assert.Equal(t, Levels{Selector: -1}, k.Levels())

	k.HandleKey(key1+3, true)
	k.HandleKey(keyRight, true)
	assert.Equal(t, Levels{B: true, Selector: 3}, k.Levels())

	k.HandleKey(keyRight, false)
	k.HandleKey(keyLeft, true)
	assert.Equal(t, Levels{A: true, Selector: 3}, k.Levels())

	k.HandleKey(keyF4, true)
	require.Len(t, k.Events(), 1)
	assert.Equal(t, Exit, <-k.Events())
}

type fakeButtons struct {
	levels Levels
	ch     chan Event
}

func (f *fakeButtons) Start(ctx context.Context) error { return nil }
func (f *fakeButtons) Stop() error                     { return nil }
func (f *fakeButtons) Levels() Levels                  { return f.levels }
func (f *fakeButtons) Events() <-chan Event            { return f.ch }

func TestMerge(t *testing.T) {
	a := &fakeButtons{levels: Levels{Selector: -1}}
	b := &fakeButtons{levels: Levels{Selector: -1}}
	m := Merge(a, b)

	assert.Equal(t, Levels{Selector: -1}, m.Levels())

	a.levels = Levels{A: true, Selector: 2}
	assert.Equal(t, Levels{A: true, Selector: 2}, m.Levels())

	b.levels = Levels{B: true, Selector: 7}
	assert.Equal(t, Levels{A: true, B: true, Selector: 7}, m.Levels())

	// unchanged inputs do not steal the selection back
	b.levels = Levels{Selector: 7}
	a.levels = Levels{Selector: 2}
	assert.Equal(t, Levels{Selector: 7}, m.Levels())
}
