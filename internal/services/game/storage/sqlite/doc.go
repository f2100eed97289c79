// Package sqlite implements the game event journal on SQLite.
//
// The journal is a Notifier: every event the core publishes is appended with
// a monotonically increasing sequence number. Payloads are stored as
// protojson-encoded google.protobuf.Struct values, the same shape the gRPC
// API serves.
package sqlite
