package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-collapse/internal/games/collapse/core"
)

func TestSchedulerAfterFramesWaitsForNextFrame(t *testing.T) {
	s := core.NewScheduler()
	ran := 0
	s.AfterFrames(context.Background(), 1, func() { ran++ })

	assert.Equal(t, 0, ran)
	assert.Equal(t, 1, s.Advance(frame))
	assert.Equal(t, 1, ran)
	assert.Zero(t, s.Advance(frame))
	assert.Equal(t, 1, ran)
}

func TestSchedulerAfterFramesClampsToOne(t *testing.T) {
	s := core.NewScheduler()
	ran := false
	s.AfterFrames(context.Background(), 0, func() { ran = true })

	assert.False(t, ran)
	s.Advance(frame)
	assert.True(t, ran)
}

func TestSchedulerAfterWaitsForElapsedTime(t *testing.T) {
	s := core.NewScheduler()
	ran := false
	s.After(context.Background(), 2*time.Second, func() { ran = true })

	for range 3 {
		s.Advance(500 * time.Millisecond)
	}
	assert.False(t, ran)
	assert.Equal(t, 1, s.Pending())

	s.Advance(500 * time.Millisecond)
	assert.True(t, ran)
	assert.Equal(t, 2*time.Second, s.Elapsed())
	assert.Equal(t, uint64(4), s.Frame())
}

func TestSchedulerRunsInOrder(t *testing.T) {
	s := core.NewScheduler()
	var order []int
	for i := range 3 {
		s.AfterFrames(context.Background(), 1, func() { order = append(order, i) })
	}

	s.Advance(frame)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestSchedulerTaskScheduledDuringRunWaits(t *testing.T) {
	s := core.NewScheduler()
	var order []string
	s.AfterFrames(context.Background(), 1, func() {
		order = append(order, "outer")
		s.AfterFrames(context.Background(), 1, func() { order = append(order, "inner") })
	})

	assert.Equal(t, 1, s.Advance(frame))
	assert.Equal(t, []string{"outer"}, order)
	assert.Equal(t, 1, s.Advance(frame))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestSchedulerDropsCancelledTasks(t *testing.T) {
	s := core.NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	s.AfterFrames(ctx, 1, func() { ran = true })
	s.AfterFrames(context.Background(), 1, func() {})

	cancel()
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 1, s.Advance(frame))
	assert.False(t, ran)
}

func TestSchedulerRunUntilIdle(t *testing.T) {
	s := core.NewScheduler()
	s.After(context.Background(), time.Second, func() {})

	frames := s.RunUntilIdle(100*time.Millisecond, 100)
	assert.Equal(t, 10, frames)
	assert.Zero(t, s.Pending())

	// A task that keeps rescheduling itself is bounded by maxFrames.
	var again func()
	again = func() { s.AfterFrames(context.Background(), 1, again) }
	s.AfterFrames(context.Background(), 1, again)
	assert.Equal(t, 5, s.RunUntilIdle(frame, 5))
}
