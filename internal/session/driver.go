// Package session performs one simulated end-user login against the target.
//
// The scheduler consumes only the [Driver] interface; the chromedp
// implementation lives in chrome.go and tests substitute [Func].
package session

import (
	"context"
	"time"

	"github.com/authdrill/authdrill/internal/creds"
)

// Timing is the outcome of a successful login attempt.
type Timing struct {
	Start  time.Time
	Finish time.Time
}

// Attempt carries everything one login needs. ArtifactDir, when set, is a
// per-task directory for captured artifacts; when empty, capture is a no-op.
type Attempt struct {
	Credential  creds.Credential
	ArtifactDir string
}

// Driver executes a single login attempt. A nil error means the session
// reached the logged-in state; the error message otherwise describes what
// went wrong (wrong landing page, navigation timeout, missing form control).
type Driver interface {
	Login(ctx context.Context, attempt Attempt) (Timing, error)
}

// Func adapts a function to the Driver interface.
type Func func(ctx context.Context, attempt Attempt) (Timing, error)

// Login calls f.
func (f Func) Login(ctx context.Context, attempt Attempt) (Timing, error) {
	return f(ctx, attempt)
}
