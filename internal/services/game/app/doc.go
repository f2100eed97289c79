// Package server composes the game gRPC entrypoint.
//
// It wires the session registry, matchmaker, turn engine, event hub and
// SQLite event journal into DuelService, and runs it until the context ends.
package server
