// Package cmd holds the shared plumbing for service entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/louisbranch/mathic/internal/platform/config"
	"github.com/louisbranch/mathic/internal/platform/otel"
	"github.com/louisbranch/mathic/internal/platform/timeouts"
	"github.com/sirupsen/logrus"
)

// ServiceGame names the game service for telemetry and logs.
const ServiceGame = "game"

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout bounds the trace flush on exit. Zero uses timeouts.Shutdown.
	ShutdownTimeout time.Duration
	Telemetry       otel.Config
	// Logger receives lifecycle entries. Nil uses the logrus standard logger.
	Logger logrus.FieldLogger
}

// ParseConfig loads env-tagged defaults into cfg. Flags registered
// afterwards should use the loaded values as their defaults so that the
// command line wins over the environment.
func ParseConfig[T any](cfg *T, opts ...config.Option) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg, opts...)
}

// ParseArgs parses command-line flags. A nil args slice parses nothing.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the tracer provider for service, runs run and
// flushes spans once run returns.
func RunWithTelemetry(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := options.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("service", service)

	shutdown, err := otel.Setup(ctx, service, options.Telemetry)
	if err != nil {
		return err
	}
	started := time.Now()
	log.Info("service starting")
	defer func() {
		timeout := options.ShutdownTimeout
		if timeout <= 0 {
			timeout = timeouts.Shutdown
		}
		flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.WithError(err).Warn("otel shutdown")
		}
		log.WithField("uptime", time.Since(started).Round(time.Millisecond).String()).Info("service stopped")
	}()
	return run(ctx)
}
