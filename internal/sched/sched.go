// Package sched runs named periodic tasks from a single control goroutine.
package sched

import (
	"context"
	"time"
)

// Task is one named periodic job. A zero Period runs on every step.
type Task struct {
	Name   string
	Period time.Duration
	Run    func(now time.Time)

	last    time.Time
	started bool
}

type Scheduler struct {
	tasks []*Task
	// Tick is the granularity of Run. Defaults to 5ms.
	Tick time.Duration
}

func New(tasks ...*Task) *Scheduler {
	return &Scheduler{tasks: tasks, Tick: 5 * time.Millisecond}
}

func (s *Scheduler) Add(task *Task) { s.tasks = append(s.tasks, task) }

// Step runs every task that is due at now, in registration order.
// A task is due on its first step and then once its period has elapsed.
func (s *Scheduler) Step(now time.Time) {
	for _, task := range s.tasks {
		if task.started && task.Period > 0 && now.Sub(task.last) < task.Period {
			continue
		}
		task.started = true
		task.last = now
		task.Run(now)
	}
}

// Run steps the scheduler until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	tick := s.Tick
	if tick <= 0 {
		tick = 5 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	s.Step(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Step(now)
		}
	}
}

// Debouncer reports when a window has passed since the last Mark.
type Debouncer struct {
	Window time.Duration

	pending bool
	last    time.Time
}

func (d *Debouncer) Mark(now time.Time) {
	d.pending = true
	d.last = now
}

func (d *Debouncer) Pending() bool { return d.pending }

// Fire returns true once when the window has elapsed since the last Mark.
func (d *Debouncer) Fire(now time.Time) bool {
	if !d.pending || now.Sub(d.last) < d.Window {
		return false
	}
	d.pending = false
	return true
}
