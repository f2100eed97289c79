// Package grpc holds client-side helpers for talking to the game service.
package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/platform/timeouts"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dialer opens a client connection.
type Dialer interface {
	DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)
}

// DialerFunc adapts a dial function to the Dialer interface.
type DialerFunc func(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialContext implements Dialer for DialerFunc.
func (fn DialerFunc) DialContext(ctx context.Context, addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	return fn(ctx, addr, opts...)
}

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates a dial connection failure.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check failed.
	DialStageHealth DialStage = "health"
)

// DialError wraps dial and health check failures with a stage indicator.
type DialError struct {
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DialConfig tunes DialWithHealth. The zero value dials with
// DefaultClientDialOptions and timeouts.GRPCDial.
type DialConfig struct {
	Dialer  Dialer
	Timeout time.Duration
	Logger  logrus.FieldLogger
	Options []gogrpc.DialOption
}

// DefaultClientDialOptions returns plaintext dial options with the otelgrpc
// client handler, so outbound calls propagate trace context.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithBlock(),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth dials addr and waits until the health service reports
// SERVING. The connection is closed when the health check fails.
func DialWithHealth(ctx context.Context, addr string, cfg DialConfig) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = DialerFunc(gogrpc.DialContext)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.GRPCDial
	}
	opts := cfg.Options
	if opts == nil {
		opts = DefaultClientDialOptions()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := dialer.DialContext(dialCtx, addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}
	if err := WaitForHealth(dialCtx, conn, "", log.WithField("addr", addr)); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
