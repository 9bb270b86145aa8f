package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var runs atomic.Int32
	s.Add("count", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"count"}, s.Jobs())
}

func TestScheduler_FailingJobKeepsSchedule(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var runs atomic.Int32
	s.Add("flaky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_ReplaceAndRemove(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	s.Add("job", time.Hour, func(ctx context.Context) error {
		first.Add(1)
		return nil
	})
	s.Add("job", time.Hour, func(ctx context.Context) error {
		second.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Jobs(), 1)

	s.Remove("job")
	assert.Empty(t, s.Jobs())
}

func TestScheduler_StopCancelsJobs(t *testing.T) {
	s := NewScheduler()

	started := make(chan struct{})
	var cancelled atomic.Bool

	s.Add("blocking", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})

	<-started
	s.Stop()

	assert.True(t, cancelled.Load())
	assert.Empty(t, s.Jobs())
}
