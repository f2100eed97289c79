package metadata

import (
	"context"
	"strings"

	"github.com/louisbranch/mathic/internal/platform/id"
	"github.com/louisbranch/mathic/internal/platform/requestctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader is the gRPC metadata key for request correlation IDs.
const RequestIDHeader = "x-mathic-request-id"

// PlayerIDHeader is the gRPC metadata key for caller identity.
// The auth layer in front of the service is trusted to set it.
const PlayerIDHeader = "x-mathic-player-id"

// LocaleHeader is the gRPC metadata key for the caller's preferred locales.
const LocaleHeader = "accept-language"

// contextKey stores metadata values in context.
type contextKey string

// requestIDContextKey stores the request ID in context.
const requestIDContextKey contextKey = "mathic-request-id"

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// UnaryServerInterceptor attaches request metadata to unary calls.
// Every call gets a request ID, generated when the client sent none, echoed
// back in the response headers and recorded on the active span.
func UnaryServerInterceptor(idGenerator id.Generator) grpc.UnaryServerInterceptor {
	idGenerator = id.OrDefault(idGenerator)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, requestID, err := ensureRequestMetadata(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, responseHeaders(requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(updatedCtx, req)
	}
}

// StreamServerInterceptor attaches request metadata to streaming calls.
func StreamServerInterceptor(idGenerator id.Generator) grpc.StreamServerInterceptor {
	idGenerator = id.OrDefault(idGenerator)
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		updatedCtx, requestID, err := ensureRequestMetadata(stream.Context(), idGenerator)
		if err != nil {
			return status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := stream.SetHeader(responseHeaders(requestID)); err != nil {
			return status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(srv, &wrappedServerStream{ServerStream: stream, ctx: updatedCtx})
	}
}

// wrappedServerStream overrides the context for a gRPC stream.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the updated stream context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// ensureRequestMetadata copies request ID, player identity and locale from
// incoming metadata into context, generating the request ID when absent.
func ensureRequestMetadata(ctx context.Context, idGenerator id.Generator) (context.Context, string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	requestID := FirstMetadataValue(md, RequestIDHeader)
	if requestID == "" {
		generatedID, err := idGenerator()
		if err != nil {
			return nil, "", err
		}
		requestID = generatedID
	}

	updatedCtx := WithRequestID(ctx, requestID)
	attrs := []attribute.KeyValue{attribute.String("mathic.request_id", requestID)}
	if playerID := FirstMetadataValue(md, PlayerIDHeader); playerID != "" {
		updatedCtx = requestctx.WithPlayerID(updatedCtx, playerID)
		attrs = append(attrs, attribute.String("mathic.player_id", playerID))
	}
	if locale := FirstMetadataValue(md, LocaleHeader); locale != "" {
		updatedCtx = requestctx.WithLocale(updatedCtx, locale)
	}
	trace.SpanFromContext(updatedCtx).SetAttributes(attrs...)
	return updatedCtx, requestID, nil
}

// responseHeaders builds response metadata headers from IDs.
func responseHeaders(requestID string) metadata.MD {
	return metadata.Pairs(RequestIDHeader, requestID)
}
