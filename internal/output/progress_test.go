package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/authdrill/authdrill/internal/metrics"
)

func TestProgressReporterStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewProgressReporter(metrics.NewTracker(), 10, 50*time.Millisecond, &buf)
	// Stop before Start must not block or panic.
	reporter.Stop()
}

func TestProgressReporterFormatting(t *testing.T) {
	tracker := metrics.NewTracker()
	tracker.TaskStarted(0)
	tracker.TaskStarted(1)
	tracker.TaskFinished(0, nil)

	var buf bytes.Buffer
	reporter := NewProgressReporter(tracker, 5, 20*time.Millisecond, &buf)
	reporter.Start()
	time.Sleep(60 * time.Millisecond)
	reporter.Stop()

	out := buf.String()
	if !strings.Contains(out, "Sessions: 1/5") {
		t.Fatalf("progress line missing completion count: %q", out)
	}
	if !strings.Contains(out, "Running: 1") {
		t.Fatalf("progress line missing running gauge: %q", out)
	}
}

func TestProgressReporterNilWriter(t *testing.T) {
	reporter := NewProgressReporter(metrics.NewTracker(), 1, 20*time.Millisecond, nil)
	reporter.Start()
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()
}
