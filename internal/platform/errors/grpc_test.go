package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil, "en-US") != nil {
		t.Fatal("expected nil")
	}
}

func TestHandleErrorLocalizesDomainErrors(t *testing.T) {
	err := fmt.Errorf("mutate: %w", WithMetadata(CodeInvalidTurn, "it is still alice's turn", map[string]string{
		"reason":  "wrong_player",
		"current": "alice",
	}))

	st, ok := status.FromError(HandleError(err, "pt-BR,pt;q=0.9"))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %s", st.Code())
	}

	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		if lm, ok := detail.(*errdetails.LocalizedMessage); ok {
			localized = lm
		}
	}
	if localized == nil {
		t.Fatal("expected localized message detail")
	}
	if localized.GetLocale() != "pt-BR" {
		t.Fatalf("expected pt-BR catalog, got %s", localized.GetLocale())
	}
	if localized.GetMessage() == "" || localized.GetMessage() == string(CodeInvalidTurn) {
		t.Fatalf("expected translated message, got %q", localized.GetMessage())
	}
}

func TestHandleErrorPassesThroughStatus(t *testing.T) {
	in := status.Error(codes.Unauthenticated, "no token")
	if got := HandleError(in, ""); got != in {
		t.Fatalf("expected status error unchanged, got %v", got)
	}
}

func TestHandleErrorContextAndUnknown(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: context.Canceled, want: codes.Canceled},
		{err: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: codes.DeadlineExceeded},
		{err: stderrors.New("disk on fire"), want: codes.Internal},
	}
	for _, tt := range tests {
		if got := status.Code(HandleError(tt.err, "")); got != tt.want {
			t.Fatalf("%v: expected %s, got %s", tt.err, tt.want, got)
		}
	}
}
