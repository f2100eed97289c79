package interceptors

import (
	"context"

	apperrors "github.com/louisbranch/mathic/internal/platform/errors"
	"github.com/louisbranch/mathic/internal/platform/requestctx"
	"google.golang.org/grpc"
)

// ErrorUnaryInterceptor converts domain errors into localized gRPC statuses.
// It must run inside the metadata interceptor so the caller locale is known.
func ErrorUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, apperrors.HandleError(err, requestctx.LocaleFromContext(ctx))
		}
		return resp, nil
	}
}

// ErrorStreamInterceptor is ErrorUnaryInterceptor for streaming calls.
func ErrorStreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if err := handler(srv, stream); err != nil {
			return apperrors.HandleError(err, requestctx.LocaleFromContext(stream.Context()))
		}
		return nil
	}
}
