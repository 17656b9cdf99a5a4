package scheduler

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/authdrill/authdrill/internal/creds"
	"github.com/authdrill/authdrill/internal/session"
)

// Observer receives task lifecycle notifications. Implementations must be
// safe for concurrent use; the live metrics tracker is the usual one.
type Observer interface {
	TaskStarted(index int)
	TaskFinished(index int, err error)
	TaskSkipped(index int)
}

// Options configure the Scheduler.
type Options struct {
	Iterations   int              // total sessions to run
	Concurrency  int              // max sessions in flight
	Rate         int              // admissions per second (0 means unlimited)
	Driver       session.Driver   // session executor (required)
	Selector     *creds.Selector  // credential source (required)
	ArtifactRoot string           // per-task artifact dirs live under here ("" disables capture)
	Observer     Observer         // optional lifecycle listener
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

// validate enforces the fatal configuration errors: nothing may be
// dispatched when these fail.
func (o *Options) validate() error {
	if o.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", o.Iterations)
	}
	if o.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", o.Concurrency)
	}
	if o.Driver == nil {
		return fmt.Errorf("session driver is required")
	}
	if o.Selector == nil {
		return fmt.Errorf("credential selector is required")
	}
	return nil
}

func (o *Options) normalize() {
	if o.Observer == nil {
		o.Observer = noopObserver{}
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst of one keeps admissions evenly paced.
			return rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type noopObserver struct{}

func (noopObserver) TaskStarted(int)         {}
func (noopObserver) TaskFinished(int, error) {}
func (noopObserver) TaskSkipped(int)         {}
