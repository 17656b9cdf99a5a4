package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/authdrill/authdrill/internal/session"
)

// WrapDriver wraps a session driver so every login attempt runs inside its
// own span carrying the session's username and outcome.
func WrapDriver(tracer trace.Tracer, d session.Driver) session.Driver {
	if tracer == nil {
		return d
	}
	return session.Func(func(ctx context.Context, attempt session.Attempt) (session.Timing, error) {
		ctx, span := tracer.Start(ctx, "login session",
			trace.WithSpanKind(trace.SpanKindClient),
		)
		span.SetAttributes(attribute.String("enduser.id", attempt.Credential.Username))

		timing, err := d.Login(ctx, attempt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
			span.SetAttributes(attribute.Float64("session.duration_s", timing.Finish.Sub(timing.Start).Seconds()))
		}
		span.End()
		return timing, err
	})
}
