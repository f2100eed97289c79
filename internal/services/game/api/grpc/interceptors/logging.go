package interceptors

import (
	"context"
	"time"

	"github.com/louisbranch/mathic/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/mathic/internal/services/game/api/grpc/metadata"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingUnaryInterceptor logs one line per unary call.
// Client mistakes log at info, server faults at error.
func LoggingUnaryInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(log, ctx, info.FullMethod, start, err)
		return resp, err
	}
}

// LoggingStreamInterceptor logs one line per stream when it ends.
func LoggingStreamInterceptor(log logrus.FieldLogger) grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, stream)
		logCall(log, stream.Context(), info.FullMethod, start, err)
		return err
	}
}

func logCall(log logrus.FieldLogger, ctx context.Context, method string, start time.Time, err error) {
	code := status.Code(err)
	entry := log.WithFields(logrus.Fields{
		"method":     method,
		"code":       code.String(),
		"duration":   time.Since(start).String(),
		"request_id": grpcmeta.RequestIDFromContext(ctx),
	})
	if playerID := requestctx.PlayerIDFromContext(ctx); playerID != "" {
		entry = entry.WithField("player_id", playerID)
	}

	switch code {
	case codes.OK, codes.Canceled:
		entry.Debug("grpc call")
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		entry.WithError(err).Error("grpc call failed")
	default:
		entry.WithField("error", status.Convert(err).Message()).Info("grpc call rejected")
	}
}
