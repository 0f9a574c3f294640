package core

import (
	"context"
	"time"
)

type task struct {
	ctx   context.Context
	seq   uint64
	frame uint64        // earliest frame the task may run on
	at    time.Duration // earliest elapsed time the task may run at
	fn    func()
}

// Scheduler runs deferred continuations from the frame loop.
// It is not safe for concurrent use; the loop that calls Advance owns it.
type Scheduler struct {
	frame   uint64
	elapsed time.Duration
	seq     uint64
	tasks   []task
}

// NewScheduler creates an idle scheduler at frame zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AfterFrames runs fn once n frames have been advanced. n < 1 is treated as 1.
// The task is dropped if ctx is cancelled before it runs.
func (s *Scheduler) AfterFrames(ctx context.Context, n int, fn func()) {
	if n < 1 {
		n = 1
	}
	s.push(ctx, s.frame+uint64(n), s.elapsed, fn)
}

// After runs fn on the first frame at which d of simulated time has elapsed.
// The task is dropped if ctx is cancelled before it runs.
func (s *Scheduler) After(ctx context.Context, d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.push(ctx, s.frame+1, s.elapsed+d, fn)
}

func (s *Scheduler) push(ctx context.Context, frame uint64, at time.Duration, fn func()) {
	s.seq++
	s.tasks = append(s.tasks, task{ctx: ctx, seq: s.seq, frame: frame, at: at, fn: fn})
}

// Advance moves the clock one frame forward by dt and runs every due task in
// scheduling order. Tasks scheduled while running wait for a later frame.
// Returns the number of tasks that ran.
func (s *Scheduler) Advance(dt time.Duration) int {
	s.frame++
	s.elapsed += dt

	var due []task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		switch {
		case t.ctx.Err() != nil:
			// cancelled, drop
		case t.frame <= s.frame && t.at <= s.elapsed:
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept

	ran := 0
	for _, t := range due {
		if t.ctx.Err() != nil {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of live tasks waiting to run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.ctx.Err() == nil {
			n++
		}
	}
	return n
}

// Frame returns the number of frames advanced so far.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Elapsed returns the simulated time advanced so far.
func (s *Scheduler) Elapsed() time.Duration { return s.elapsed }

// RunUntilIdle advances by dt until no live tasks remain or maxFrames is hit.
// Returns the number of frames advanced.
func (s *Scheduler) RunUntilIdle(dt time.Duration, maxFrames int) int {
	frames := 0
	for s.Pending() > 0 && frames < maxFrames {
		s.Advance(dt)
		frames++
	}
	return frames
}
