// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeNotFound reports an unknown session id.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidParam reports malformed indices or payload fields.
	CodeInvalidParam Code = "INVALID_PARAM"
	// CodeInvalidState reports an illegal transition for the session status.
	CodeInvalidState Code = "INVALID_STATE"
	// CodeInvalidTurn reports a player acting out of turn.
	CodeInvalidTurn Code = "INVALID_TURN"
	// CodeConflict reports a duplicate session id on insert.
	CodeConflict Code = "CONFLICT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidParam:
		return codes.InvalidArgument
	case CodeInvalidState:
		return codes.FailedPrecondition
	case CodeInvalidTurn:
		return codes.PermissionDenied
	case CodeNotFound:
		return codes.NotFound
	case CodeConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}
