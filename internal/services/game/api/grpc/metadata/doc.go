// Package metadata provides utilities for handling gRPC request metadata.
//
// It defines the header keys the game service reads and provides interceptors
// that attach them to the request context.
//
// # Header Constants
//
//   - RequestIDHeader: Correlates logs and spans across service calls.
//   - PlayerIDHeader: Caller identity supplied by the auth layer in front of the service.
//   - LocaleHeader: Accept-Language list used to localize error messages.
package metadata
