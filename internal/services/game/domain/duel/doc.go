// Package duel defines the card duel session and its rules.
//
// A Session pairs up to two players, each owning a hand of two cards valued
// 0..4. Players alternate attacks: the attacking card's value is added to the
// target card and reduced modulo 5 (a sum of exactly 5 becomes 0). A side
// whose cards are all zero has lost.
//
// # Session Lifecycle
//
//   - New: created by player one, open for any opponent.
//   - Waiting: an opponent left; the seat can be filled by id.
//   - InProgress: both seats taken, attacks allowed.
//   - Finished: terminal; reached by play, surrender or abandonment.
//
// Transition methods on *Session never partially apply: they validate first
// and only then mutate, so a rejected call leaves the value untouched.
package duel
