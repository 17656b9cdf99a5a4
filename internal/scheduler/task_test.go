package scheduler

import (
	"testing"
	"time"
)

func TestTaskLifecycleHappyPath(t *testing.T) {
	task := &Task{Index: 3}
	steps := []State{StateDispatched, StateRunning}
	for _, next := range steps {
		if err := task.advance(next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	start := time.Now()
	if err := task.succeed(start, start.Add(time.Second)); err != nil {
		t.Fatalf("succeed: %v", err)
	}
	if task.State() != StateSucceeded {
		t.Fatalf("state = %s", task.State())
	}
	res := task.result()
	if d, ok := res.Duration(); !ok || d != time.Second {
		t.Fatalf("duration = %v, %v", d, ok)
	}
}

func TestTaskFailureKeepsFinishAbsent(t *testing.T) {
	task := &Task{Index: 1}
	if err := task.advance(StateDispatched); err != nil {
		t.Fatal(err)
	}
	if err := task.advance(StateRunning); err != nil {
		t.Fatal(err)
	}
	if err := task.fail(time.Now(), "ended on wrong page"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	res := task.result()
	if res.Succeeded() {
		t.Fatal("failed task reported success")
	}
	if !res.Finish.IsZero() {
		t.Fatal("failed task has a finish time")
	}
	if _, ok := res.Duration(); ok {
		t.Fatal("failed task has a duration")
	}
}

func TestTaskTerminalStatesAreAbsorbing(t *testing.T) {
	for _, terminal := range []State{StateSucceeded, StateFailed, StateSkipped} {
		task := &Task{state: terminal}
		for _, next := range []State{StateDispatched, StateRunning, StateSucceeded, StateFailed, StateSkipped} {
			if err := task.advance(next); err == nil {
				t.Fatalf("transition %s -> %s allowed", terminal, next)
			}
		}
	}
}

func TestTaskSkipOnlyFromCreated(t *testing.T) {
	task := &Task{Index: 0}
	if err := task.skip(SkippedReason); err != nil {
		t.Fatalf("skip from created: %v", err)
	}
	if task.State() != StateSkipped {
		t.Fatalf("state = %s", task.State())
	}

	running := &Task{state: StateRunning}
	if err := running.skip(SkippedReason); err == nil {
		t.Fatal("skip from running allowed")
	}
}

func TestTaskCannotRunWithoutDispatch(t *testing.T) {
	task := &Task{Index: 0}
	if err := task.advance(StateRunning); err == nil {
		t.Fatal("created -> running allowed")
	}
}
