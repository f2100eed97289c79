// Package api contains service API implementations.
//
// API handlers are organized by transport. The gRPC transport is the only
// surface of the game service.
//
// Subpackages:
//   - grpc/game: DuelService, matchmaking, play and event streams
//   - grpc/metadata: request metadata helpers and interceptors
//   - grpc/interceptors: cross-cutting gRPC middleware
package api
