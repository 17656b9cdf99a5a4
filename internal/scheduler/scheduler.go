// Package scheduler drives N independent login sessions through a bounded
// worker pool and reassembles their outcomes in index order.
package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/authdrill/authdrill/internal/session"
)

// Scheduler dispatches tasks first-in-first-out by index while never keeping
// more than Concurrency sessions in flight. Completion order is
// unconstrained; Run always returns results ordered by index.
type Scheduler struct {
	opt Options

	failOnce sync.Once
	orchErr  error
}

// New validates the configuration and builds a Scheduler. Validation
// failures are fatal: nothing is dispatched.
func New(opt Options) (*Scheduler, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	opt.normalize()
	return &Scheduler{opt: opt}, nil
}

// Run executes every task to a terminal state and returns one Result per
// index. Cancelling ctx stops further admissions; sessions already in flight
// finish naturally and tasks never admitted are marked skipped. The returned
// error is nil unless the orchestration itself misbehaved.
func (s *Scheduler) Run(ctx context.Context) ([]Result, error) {
	n := s.opt.Iterations
	tasks := make([]*Task, n)
	for i := range tasks {
		t := &Task{Index: i, Credential: s.opt.Selector.Pick()}
		if s.opt.ArtifactRoot != "" {
			t.ArtifactDir = filepath.Join(s.opt.ArtifactRoot, fmt.Sprintf("task-%04d", i))
		}
		tasks[i] = t
	}

	// Each completing task writes only its own slot, so the slice needs no
	// locking.
	results := make([]Result, n)

	queue := make(chan *Task)
	limiter := s.opt.LimiterFactory(s.opt.Rate)

	// Admission: FIFO by index, gated on the pool (unbuffered handoff to an
	// idle worker), pacing, and cancellation. Cancellation is checked only
	// here, at the admission boundary.
	go func() {
		defer close(queue)
		for _, t := range tasks {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case queue <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(s.opt.Concurrency)
	for i := 0; i < s.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for t := range queue {
				// The handoff select can race with cancellation; re-check
				// before the task starts so nothing runs after cancel.
				if ctx.Err() != nil {
					if err := t.skip(SkippedReason); err != nil {
						s.reportOrch(err)
					} else {
						s.opt.Observer.TaskSkipped(t.Index)
					}
					results[t.Index] = t.result()
					continue
				}
				s.runTask(ctx, t)
				results[t.Index] = t.result()
			}
		}()
	}
	wg.Wait()

	// Drain is complete; everything still in Created was never admitted.
	for _, t := range tasks {
		if t.State() != StateCreated {
			continue
		}
		if err := t.skip(SkippedReason); err != nil {
			s.reportOrch(err)
			continue
		}
		s.opt.Observer.TaskSkipped(t.Index)
		results[t.Index] = t.result()
	}

	return results, s.orchErr
}

// runTask walks one task through its lifecycle. Session failures stay on the
// task; only lifecycle violations escalate to the run error.
func (s *Scheduler) runTask(ctx context.Context, t *Task) {
	if err := t.advance(StateDispatched); err != nil {
		s.reportOrch(err)
		return
	}
	if err := t.advance(StateRunning); err != nil {
		s.reportOrch(err)
		return
	}

	start := time.Now()
	s.opt.Observer.TaskStarted(t.Index)

	// A session dispatched before cancellation runs to completion; the
	// driver only sees its own timeout, never the run's cancel.
	timing, err := s.login(context.WithoutCancel(ctx), t)
	if !timing.Start.IsZero() {
		start = timing.Start
	}

	if err != nil {
		if e := t.fail(start, err.Error()); e != nil {
			s.reportOrch(e)
		}
	} else {
		finish := timing.Finish
		if finish.IsZero() {
			finish = time.Now()
		}
		if e := t.succeed(start, finish); e != nil {
			s.reportOrch(e)
		}
	}
	s.opt.Observer.TaskFinished(t.Index, err)
}

// login invokes the driver behind a panic boundary so a misbehaving session
// can never wedge the drain.
func (s *Scheduler) login(ctx context.Context, t *Task) (timing session.Timing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panic: %v", r)
		}
	}()
	return s.opt.Driver.Login(ctx, session.Attempt{
		Credential:  t.Credential,
		ArtifactDir: t.ArtifactDir,
	})
}

func (s *Scheduler) reportOrch(err error) {
	s.failOnce.Do(func() { s.orchErr = err })
}
