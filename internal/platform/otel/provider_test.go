package otel

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), "test-service", Config{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "test-service", Config{
		Endpoint: "http://localhost:4318",
		Enabled:  false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Use a non-routable address so no actual export happens.
	shutdown, err := Setup(context.Background(), "test-service", Config{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shutdown should flush cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	shutdown, err := Setup(context.Background(), "noop-test", Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSamplerRatioBounds(t *testing.T) {
	always := sdktrace.AlwaysSample().Description()
	for _, ratio := range []float64{0, -1, 1, 2} {
		if got := sampler(ratio).Description(); got != always {
			t.Fatalf("ratio %v: expected %s, got %s", ratio, always, got)
		}
	}
	if got := sampler(0.25).Description(); got == always {
		t.Fatal("expected ratio sampler for 0.25")
	}
}
