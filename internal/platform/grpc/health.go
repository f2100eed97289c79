package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/louisbranch/mathic/internal/platform/timeouts"
	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const initialHealthBackoff = 200 * time.Millisecond

// WaitForHealth polls the health service until service reports SERVING or
// ctx ends. An empty service checks the server as a whole.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, log logrus.FieldLogger) error {
	if conn == nil {
		return errors.New("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logging.Discard()
	}

	client := grpc_health_v1.NewHealthClient(conn)
	backoff := initialHealthBackoff
	for attempt := 1; ; attempt++ {
		state, err := checkHealth(ctx, client, service)
		if err == nil && state == grpc_health_v1.HealthCheckResponse_SERVING {
			log.WithField("attempt", attempt).Debug("gRPC health is SERVING")
			return nil
		}
		entry := log.WithField("attempt", attempt)
		if err != nil {
			entry = entry.WithError(err)
		} else {
			entry = entry.WithField("status", state.String())
		}
		entry.Debug("waiting for gRPC health")

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, timeouts.HealthBackoffMax)
	}
}

func checkHealth(ctx context.Context, client grpc_health_v1.HealthClient, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeouts.HealthProbe)
	defer cancel()
	resp, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
