// Package tracing wraps game operations in OpenTelemetry spans.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by game spans.
const (
	PlayerIDKey  = attribute.Key("mathic.player_id")
	SessionIDKey = attribute.Key("mathic.session_id")
	StatusKey    = attribute.Key("mathic.session_status")
)

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Start opens a span named op with attrs.
func Start(ctx context.Context, tracer trace.Tracer, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, op, trace.WithAttributes(attrs...))
}

// Fail records err on span and returns it unchanged.
func Fail(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
