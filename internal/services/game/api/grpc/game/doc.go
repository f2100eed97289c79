// Package game exposes the duel core over gRPC.
//
// The service is described by a hand-written grpc.ServiceDesc whose request
// and response messages are google.protobuf.Struct values, so any gRPC client
// with the well-known types can talk to it:
//   - matchmaking: CreateSession, Connect, ConnectRandom, LeavePlayer1, LeavePlayer2
//   - play: Attack, Surrender, AnnounceStart
//   - reads: GetSession, GetSessionFull, ListSessions, ListPlayers, ListEvents
//   - Watch streams notifier events for one topic
//
// Caller identity arrives in the x-mathic-player-id header.
package game
