package scheduler

import (
	"context"

	"github.com/authdrill/authdrill/internal/session"
)

// FailureLogger logs failed sessions.
type FailureLogger interface {
	LogFailure(err error)
}

// loggingDriver wraps a Driver with failure logging.
type loggingDriver struct {
	inner  session.Driver
	logger FailureLogger
}

// WithLogging wraps a Driver so every failed session is reported to logger.
// The failure itself still lands on the task unchanged.
func WithLogging(d session.Driver, logger FailureLogger) session.Driver {
	if logger == nil {
		return d
	}
	return &loggingDriver{inner: d, logger: logger}
}

func (l *loggingDriver) Login(ctx context.Context, attempt session.Attempt) (session.Timing, error) {
	timing, err := l.inner.Login(ctx, attempt)
	if err != nil {
		l.logger.LogFailure(err)
	}
	return timing, err
}
