package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeNotFound, codes.NotFound},
		{CodeInvalidParam, codes.InvalidArgument},
		{CodeInvalidState, codes.FailedPrecondition},
		{CodeInvalidTurn, codes.PermissionDenied},
		{CodeConflict, codes.AlreadyExists},
		{CodeUnknown, codes.Internal},
		{Code("SOMETHING_ELSE"), codes.Internal},
	}
	for _, tt := range tests {
		if got := tt.code.GRPCCode(); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.code, tt.want, got)
		}
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeInvalidTurn, "not your turn")
	if !stderrors.Is(err, &Error{Code: CodeInvalidTurn}) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stderrors.Is(err, &Error{Code: CodeNotFound}) {
		t.Fatal("expected errors.Is to reject a different code")
	}
}

func TestCodeOfUnwrapsChain(t *testing.T) {
	base := Wrap(CodeNotFound, "session not found", stderrors.New("missing"))
	wrapped := fmt.Errorf("get session: %w", base)

	if got := CodeOf(wrapped); got != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, got)
	}
	if !HasCode(wrapped, CodeNotFound) {
		t.Fatal("expected HasCode to find wrapped code")
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected %s for plain error, got %s", CodeUnknown, got)
	}
	if stderrors.Unwrap(base) == nil {
		t.Fatal("expected cause to be unwrapped")
	}
}

func TestToGRPCStatusAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeInvalidParam, "invalid card index", map[string]string{"Index": "3"})

	st, ok := status.FromError(err.ToGRPCStatus("en-US", "Invalid card index 3."))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %s", st.Code())
	}
	if st.Message() != "invalid card index" {
		t.Fatalf("expected internal message, got %q", st.Message())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			info = d
		case *errdetails.LocalizedMessage:
			localized = d
		}
	}
	if info == nil || info.GetReason() != string(CodeInvalidParam) || info.GetDomain() != Domain {
		t.Fatalf("unexpected error info: %v", info)
	}
	if info.GetMetadata()["Index"] != "3" {
		t.Fatalf("expected metadata to be forwarded, got %v", info.GetMetadata())
	}
	if localized == nil || localized.GetMessage() != "Invalid card index 3." {
		t.Fatalf("unexpected localized message: %v", localized)
	}
}

func TestToGRPCStatusTypedDetails(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		check func(t *testing.T, details []any)
	}{
		{
			name: "bad request for invalid param",
			err:  WithMetadata(CodeInvalidParam, "bad index", map[string]string{"reason": "card_index"}),
			check: func(t *testing.T, details []any) {
				for _, d := range details {
					if br, ok := d.(*errdetails.BadRequest); ok {
						if br.GetFieldViolations()[0].GetField() != "card_index" {
							t.Fatalf("unexpected field %q", br.GetFieldViolations()[0].GetField())
						}
						return
					}
				}
				t.Fatal("expected BadRequest detail")
			},
		},
		{
			name: "precondition failure for invalid state",
			err:  WithMetadata(CodeInvalidState, "finished", map[string]string{"reason": "game_finished"}),
			check: func(t *testing.T, details []any) {
				for _, d := range details {
					if pf, ok := d.(*errdetails.PreconditionFailure); ok {
						if pf.GetViolations()[0].GetSubject() != "game_finished" {
							t.Fatalf("unexpected subject %q", pf.GetViolations()[0].GetSubject())
						}
						return
					}
				}
				t.Fatal("expected PreconditionFailure detail")
			},
		},
		{
			name: "resource info for not found",
			err:  WithMetadata(CodeNotFound, "missing", map[string]string{"session_id": "s-1"}),
			check: func(t *testing.T, details []any) {
				for _, d := range details {
					if ri, ok := d.(*errdetails.ResourceInfo); ok {
						if ri.GetResourceType() != "session" || ri.GetResourceName() != "s-1" {
							t.Fatalf("unexpected resource info %v", ri)
						}
						return
					}
				}
				t.Fatal("expected ResourceInfo detail")
			},
		},
		{
			name: "no typed detail without metadata",
			err:  New(CodeInvalidTurn, "wrong turn"),
			check: func(t *testing.T, details []any) {
				if len(details) != 2 {
					t.Fatalf("expected only ErrorInfo and LocalizedMessage, got %d details", len(details))
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(tc.err.ToGRPCStatus("en-US", "message"))
			if !ok {
				t.Fatal("expected grpc status")
			}
			tc.check(t, st.Details())
		})
	}
}
