package requestctx

import (
	"context"
	"testing"
)

func TestPlayerIDFromContextRoundTrip(t *testing.T) {
	ctx := WithPlayerID(context.Background(), "player-42")
	if got := PlayerIDFromContext(ctx); got != "player-42" {
		t.Fatalf("PlayerIDFromContext = %q, want %q", got, "player-42")
	}
}

func TestPlayerIDFromContextEmpty(t *testing.T) {
	if got := PlayerIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestPlayerIDFromContextNil(t *testing.T) {
	if got := PlayerIDFromContext(nil); got != "" {
		t.Fatalf("expected empty string for nil context, got %q", got)
	}
}

func TestWithPlayerIDNilContext(t *testing.T) {
	ctx := WithPlayerID(nil, "player-99")
	if ctx == nil {
		t.Fatalf("expected non-nil context")
	}
	if got := PlayerIDFromContext(ctx); got != "player-99" {
		t.Fatalf("PlayerIDFromContext = %q, want %q", got, "player-99")
	}
}

func TestLocaleRoundTrip(t *testing.T) {
	ctx := WithLocale(WithPlayerID(context.Background(), "p"), "pt-BR")
	if got := LocaleFromContext(ctx); got != "pt-BR" {
		t.Fatalf("LocaleFromContext = %q, want pt-BR", got)
	}
	if got := LocaleFromContext(nil); got != "" {
		t.Fatalf("expected empty locale for nil context, got %q", got)
	}
	if got := PlayerIDFromContext(ctx); got != "p" {
		t.Fatalf("expected player id kept alongside locale, got %q", got)
	}
}
