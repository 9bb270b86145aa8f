// Package scheduler runs named background jobs on fixed intervals.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is one run of a job. Errors are logged, the job keeps its schedule.
type JobFunc func(ctx context.Context) error

type Scheduler struct {
	jobs   map[string]*job // job name -> job
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	name     string
	interval time.Duration
	run      JobFunc
	ticker   *time.Ticker
	cancel   context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add schedules fn every interval, running it once immediately. A job with
// the same name is replaced.
func (s *Scheduler) Add(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.jobs[name]; exists {
		existing.ticker.Stop()
		existing.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)

	j := &job{
		name:     name,
		interval: interval,
		run:      fn,
		ticker:   time.NewTicker(interval),
		cancel:   jobCancel,
	}

	s.jobs[name] = j

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(jobCtx, j)
		s.loop(jobCtx, j)
	}()

	slog.Info("Scheduled job", "job", name, "interval", interval)
}

func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, exists := s.jobs[name]; exists {
		j.ticker.Stop()
		j.cancel()
		delete(s.jobs, name)
		slog.Info("Removed job", "job", name)
	}
}

// Jobs returns the names of the scheduled jobs.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Stop cancels every job and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	for _, j := range s.jobs {
		j.ticker.Stop()
		j.cancel()
	}
	s.jobs = make(map[string]*job)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-j.ticker.C:
			s.execute(ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()

	if err := j.run(ctx); err != nil {
		slog.Error("Job failed", "job", j.name, "error", err, "duration", time.Since(start))
		return
	}

	slog.Debug("Job finished", "job", j.name, "duration", time.Since(start))
}
