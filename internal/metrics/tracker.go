// Package metrics tracks live session counts during a run and computes the
// aggregate statistics once every task has reached a terminal state.
package metrics

import "sync/atomic"

// Tracker counts session lifecycle events. It implements the scheduler's
// Observer interface and is polled by the progress line and dashboard.
type Tracker struct {
	started   int64
	running   int64
	succeeded int64
	failed    int64
	skipped   int64
}

// Snapshot is a point-in-time copy of the tracker's counters.
type Snapshot struct {
	Started   int64
	Running   int64
	Succeeded int64
	Failed    int64
	Skipped   int64
}

// Done returns the number of tasks that reached a terminal state.
func (s Snapshot) Done() int64 { return s.Succeeded + s.Failed + s.Skipped }

func NewTracker() *Tracker { return &Tracker{} }

func (t *Tracker) TaskStarted(int) {
	atomic.AddInt64(&t.started, 1)
	atomic.AddInt64(&t.running, 1)
}

func (t *Tracker) TaskFinished(_ int, err error) {
	atomic.AddInt64(&t.running, -1)
	if err == nil {
		atomic.AddInt64(&t.succeeded, 1)
	} else {
		atomic.AddInt64(&t.failed, 1)
	}
}

func (t *Tracker) TaskSkipped(int) {
	atomic.AddInt64(&t.skipped, 1)
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Started:   atomic.LoadInt64(&t.started),
		Running:   atomic.LoadInt64(&t.running),
		Succeeded: atomic.LoadInt64(&t.succeeded),
		Failed:    atomic.LoadInt64(&t.failed),
		Skipped:   atomic.LoadInt64(&t.skipped),
	}
}
