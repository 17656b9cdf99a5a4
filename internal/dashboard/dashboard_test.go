package dashboard

import (
	"errors"
	"strings"
	"testing"
)

// Observer methods must work without an initialized terminal; the scheduler
// calls them regardless of whether the view ever rendered.
func TestTaskFinishedRecordsFailures(t *testing.T) {
	d := &Dashboard{}
	d.TaskFinished(3, errors.New("ended on wrong page"))
	d.TaskFinished(4, nil)

	if len(d.recent) != 1 {
		t.Fatalf("recorded %d failures, want 1", len(d.recent))
	}
	if !strings.Contains(d.recent[0], "task 3") {
		t.Fatalf("failure line missing task index: %q", d.recent[0])
	}
}

func TestRecentFailuresCapped(t *testing.T) {
	d := &Dashboard{}
	for i := 0; i < maxRecentFailures+20; i++ {
		d.TaskFinished(i, errors.New("navigation timeout"))
	}
	if len(d.recent) != maxRecentFailures {
		t.Fatalf("recent list grew to %d, cap is %d", len(d.recent), maxRecentFailures)
	}
	if !strings.Contains(d.recent[len(d.recent)-1], "task 69") {
		t.Fatalf("cap dropped the wrong end: %q", d.recent[len(d.recent)-1])
	}
}

func TestObserverNoOps(t *testing.T) {
	d := &Dashboard{}
	d.TaskStarted(0)
	d.TaskSkipped(1)
	if len(d.recent) != 0 {
		t.Fatalf("no-op events recorded failures: %v", d.recent)
	}
}
