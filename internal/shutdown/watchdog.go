// Package shutdown bounds how long the process may linger after a
// cancellation request.
package shutdown

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultGrace is how long in-flight sessions get to finish after an
// interrupt before the process is forced down.
const DefaultGrace = 5 * time.Second

// Watchdog forces process termination a fixed grace period after the run
// context is cancelled. Results of sessions still running when it fires are
// discarded; bounded shutdown latency wins over completeness.
type Watchdog struct {
	Grace time.Duration    // zero means DefaultGrace
	Exit  func(code int)   // injectable for tests, defaults to os.Exit
	Out   io.Writer        // warning destination, defaults to stderr
}

// Arm watches ctx and starts the grace timer the moment it is cancelled.
// The returned disarm func stops the watchdog after a clean drain; calling
// it more than once is fine.
func (w *Watchdog) Arm(ctx context.Context) (disarm func()) {
	grace := w.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	exit := w.Exit
	if exit == nil {
		exit = os.Exit
	}
	out := w.Out
	if out == nil {
		out = os.Stderr
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		fmt.Fprintf(out, "\nInterrupted; waiting up to %s for running sessions\n", grace)
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-done:
		case <-timer.C:
			fmt.Fprintln(out, "Grace period expired, forcing shutdown")
			exit(1)
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
