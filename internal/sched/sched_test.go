package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Periods(t *testing.T) {
	var fast, slow, every int
	s := New(
		&Task{Name: "fast", Period: 20 * time.Millisecond, Run: func(time.Time) { fast++ }},
		&Task{Name: "slow", Period: 500 * time.Millisecond, Run: func(time.Time) { slow++ }},
		&Task{Name: "every", Run: func(time.Time) { every++ }},
	)

	start := time.Unix(1000, 0)
	for ms := 0; ms < 1000; ms += 5 {
		s.Step(start.Add(time.Duration(ms) * time.Millisecond))
	}

	assert.Equal(t, 50, fast)
	assert.Equal(t, 2, slow)
	assert.Equal(t, 200, every)
}

func TestScheduler_Order(t *testing.T) {
	var order []string
	s := New()
	s.Add(&Task{Name: "a", Run: func(time.Time) { order = append(order, "a") }})
	s.Add(&Task{Name: "b", Run: func(time.Time) { order = append(order, "b") }})
	s.Step(time.Unix(0, 0))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestDebouncer_Trailing(t *testing.T) {
	d := Debouncer{Window: 200 * time.Millisecond}
	start := time.Unix(0, 0)

	assert.False(t, d.Fire(start))

	d.Mark(start)
	assert.True(t, d.Pending())
	assert.False(t, d.Fire(start.Add(150*time.Millisecond)))

	// a later edit restarts the window
	d.Mark(start.Add(150 * time.Millisecond))
	assert.False(t, d.Fire(start.Add(300*time.Millisecond)))
	assert.True(t, d.Fire(start.Add(350*time.Millisecond)))
	assert.False(t, d.Fire(start.Add(600*time.Millisecond)))
	assert.False(t, d.Pending())
}
