// Package wire converts duel sessions and events to and from
// google.protobuf.Struct, the payload shape of the game gRPC API and the
// event journal.
package wire
