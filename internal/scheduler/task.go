package scheduler

import (
	"fmt"
	"time"

	"github.com/authdrill/authdrill/internal/creds"
)

// State is one step of a task's lifecycle.
type State int

const (
	StateCreated State = iota
	StateDispatched
	StateRunning
	StateSucceeded
	StateFailed
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDispatched:
		return "dispatched"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// terminal reports whether s is absorbing.
func (s State) terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateSkipped
}

// Task tracks one simulated login attempt from enqueue to its terminal
// state. It is owned by exactly one worker while running and read-only
// afterwards.
type Task struct {
	Index       int
	Credential  creds.Credential
	ArtifactDir string

	state         State
	start         time.Time
	finish        time.Time
	failureReason string
}

// advance moves the task to the next lifecycle state. Terminal states are
// absorbing and admission can only happen from Created.
func (t *Task) advance(next State) error {
	ok := false
	switch next {
	case StateDispatched:
		ok = t.state == StateCreated
	case StateRunning:
		ok = t.state == StateDispatched
	case StateSucceeded, StateFailed:
		ok = t.state == StateRunning
	case StateSkipped:
		ok = t.state == StateCreated
	}
	if !ok {
		return fmt.Errorf("task %d: illegal transition %s -> %s", t.Index, t.state, next)
	}
	t.state = next
	return nil
}

// State returns the task's current lifecycle state.
func (t *Task) State() State { return t.state }

func (t *Task) succeed(start, finish time.Time) error {
	if err := t.advance(StateSucceeded); err != nil {
		return err
	}
	t.start = start
	t.finish = finish
	return nil
}

func (t *Task) fail(start time.Time, reason string) error {
	if err := t.advance(StateFailed); err != nil {
		return err
	}
	t.start = start
	t.failureReason = reason
	return nil
}

func (t *Task) skip(reason string) error {
	if err := t.advance(StateSkipped); err != nil {
		return err
	}
	t.failureReason = reason
	return nil
}

// result projects the terminal task into its report row.
func (t *Task) result() Result {
	return Result{
		Index:         t.Index,
		Start:         t.start,
		Finish:        t.finish,
		FailureReason: t.failureReason,
	}
}
