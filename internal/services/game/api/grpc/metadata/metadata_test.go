package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/mathic/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestRequestIDContextHelpers(t *testing.T) {
	if RequestIDFromContext(nil) != "" {
		t.Fatal("expected empty request id for nil context")
	}

	ctx := WithRequestID(nil, "req-1")
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatalf("expected request id req-1, got %s", RequestIDFromContext(ctx))
	}
}

func TestIsPrintableASCII(t *testing.T) {
	if IsPrintableASCII("") {
		t.Fatal("expected empty string to be non-printable")
	}
	if !IsPrintableASCII("hello") {
		t.Fatal("expected printable ascii to be accepted")
	}
	if IsPrintableASCII("line\n") {
		t.Fatal("expected newline to be non-printable")
	}
	if IsPrintableASCII(string([]byte{0x7f})) {
		t.Fatal("expected DEL to be non-printable")
	}
}

func TestFirstMetadataValue(t *testing.T) {
	md := metadata.MD{
		"X-Mathic-Request-Id": {"\n", "req-1"},
		"x-mathic-request-id": {"req-2"},
	}

	value := FirstMetadataValue(md, RequestIDHeader)
	if value != "req-1" && value != "req-2" {
		t.Fatalf("expected printable request id, got %s", value)
	}

	if FirstMetadataValue(metadata.MD{}, RequestIDHeader) != "" {
		t.Fatal("expected empty value for empty metadata")
	}
}

func TestEnsureRequestMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		RequestIDHeader, "req-1",
		PlayerIDHeader, "alice",
		LocaleHeader, "pt-BR",
	))

	updated, requestID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "req-1" || RequestIDFromContext(updated) != "req-1" {
		t.Fatalf("expected request id from metadata, got %s", requestID)
	}
	if got := requestctx.PlayerIDFromContext(updated); got != "alice" {
		t.Fatalf("expected player id in context, got %q", got)
	}
	if got := requestctx.LocaleFromContext(updated); got != "pt-BR" {
		t.Fatalf("expected locale in context, got %q", got)
	}
}

func TestEnsureRequestMetadataGeneratesID(t *testing.T) {
	updated, requestID, err := ensureRequestMetadata(context.Background(), func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "generated" || RequestIDFromContext(updated) != "generated" {
		t.Fatalf("expected generated request id, got %s", requestID)
	}
	if requestctx.PlayerIDFromContext(updated) != "" {
		t.Fatal("expected no player id without header")
	}
}

func TestEnsureRequestMetadataGeneratorFailure(t *testing.T) {
	_, _, err := ensureRequestMetadata(context.Background(), func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected generator error")
	}
}

func TestResponseHeaders(t *testing.T) {
	md := responseHeaders("req-1")
	if FirstMetadataValue(md, RequestIDHeader) != "req-1" {
		t.Fatal("expected request id in response headers")
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx    context.Context
	header metadata.MD
}

func (f *fakeServerStream) Context() context.Context { return f.ctx }

func (f *fakeServerStream) SetHeader(md metadata.MD) error {
	f.header = metadata.Join(f.header, md)
	return nil
}

func TestStreamServerInterceptor(t *testing.T) {
	stream := &fakeServerStream{ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(PlayerIDHeader, "bob"))}
	interceptor := StreamServerInterceptor(func() (string, error) { return "req-9", nil })

	var seenPlayer, seenRequest string
	err := interceptor(nil, stream, &grpc.StreamServerInfo{FullMethod: "/test/Watch"}, func(_ any, ss grpc.ServerStream) error {
		seenPlayer = requestctx.PlayerIDFromContext(ss.Context())
		seenRequest = RequestIDFromContext(ss.Context())
		return nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if seenPlayer != "bob" || seenRequest != "req-9" {
		t.Fatalf("unexpected context values %q/%q", seenPlayer, seenRequest)
	}
	if FirstMetadataValue(stream.header, RequestIDHeader) != "req-9" {
		t.Fatal("expected request id echoed in stream header")
	}
}
