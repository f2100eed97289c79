package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/mathic/internal/platform/timeouts"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Run builds a game server and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks until ctx ends or the listener fails, then stops gracefully
// and closes the journal.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeJournal()

	s.log.WithField("addr", s.Addr()).Info("game server listening")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.stop(timeouts.Shutdown)
		return nil
	})
	return g.Wait()
}

// stop closes the hub first so open Watch streams return and GracefulStop
// can drain unary calls.
func (s *Server) stop(timeout time.Duration) {
	s.health.Shutdown()
	s.hub.Close()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.log.WithField("timeout", timeout).Warn("graceful stop timed out")
		s.grpcServer.Stop()
		<-done
	}
	s.log.Info("game server stopped")
}

func (s *Server) closeJournal() {
	if err := s.journal.Close(); err != nil {
		s.log.WithError(err).Warn("close event journal")
	}
}
