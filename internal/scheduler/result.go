package scheduler

import "time"

// SkippedReason marks tasks that were never admitted because cancellation
// arrived first. They keep their report row so the result list always covers
// every index.
const SkippedReason = "not run: cancelled before start"

// Result is the reporting projection of a terminal task. Start is zero for
// tasks that never ran; Finish is set only on success.
type Result struct {
	Index         int
	Start         time.Time
	Finish        time.Time
	FailureReason string
}

// Succeeded reports whether the session reached the logged-in state.
func (r Result) Succeeded() bool { return r.FailureReason == "" }

// Duration returns the session duration. It is defined only when the session
// succeeded, so both timestamps are present.
func (r Result) Duration() (time.Duration, bool) {
	if r.Start.IsZero() || r.Finish.IsZero() {
		return 0, false
	}
	return r.Finish.Sub(r.Start), true
}
