// Package requestctx carries per-request caller facts through context.
package requestctx

import "context"

type (
	playerIDContextKey struct{}
	localeContextKey   struct{}
)

// WithPlayerID stores the calling player's identity in context.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, playerIDContextKey{}, playerID)
}

// PlayerIDFromContext returns the calling player's identity, or "".
func PlayerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(playerIDContextKey{}).(string)
	return value
}

// WithLocale stores the caller's preferred locale list in context.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// LocaleFromContext returns the caller's preferred locale list, or "".
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(localeContextKey{}).(string)
	return value
}
