package notify

import (
	"context"
	"time"

	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
)

// SessionsTopic carries the open games list.
const SessionsTopic = "sessions"

// Kind identifies which payload an Event carries.
type Kind string

const (
	// KindSessions carries Summaries.
	KindSessions Kind = "sessions"
	// KindStart carries View when both clients should leave the lobby.
	KindStart Kind = "start"
	// KindLobby carries View after a seat change.
	KindLobby Kind = "lobby"
	// KindProgress carries the full Session after play or surrender.
	KindProgress Kind = "progress"
)

// StartTopic returns the game start topic of a session.
func StartTopic(sessionID string) string { return sessionTopic(sessionID, KindStart) }

// LobbyTopic returns the lobby topic of a session.
func LobbyTopic(sessionID string) string { return sessionTopic(sessionID, KindLobby) }

// ProgressTopic returns the gameplay topic of a session.
func ProgressTopic(sessionID string) string { return sessionTopic(sessionID, KindProgress) }

func sessionTopic(sessionID string, kind Kind) string {
	return "session/" + sessionID + "/" + string(kind)
}

// Event is one broadcastable snapshot. Only the payload matching Kind is set.
type Event struct {
	Topic      string
	Kind       Kind
	SessionID  string
	View       duel.SessionView
	Session    duel.Session
	Summaries  []duel.SessionSummary
	OccurredAt time.Time
}

// SessionsEvent builds the open games list event.
func SessionsEvent(summaries []duel.SessionSummary, at time.Time) Event {
	return Event{Topic: SessionsTopic, Kind: KindSessions, Summaries: summaries, OccurredAt: at.UTC()}
}

// StartEvent builds the game start event for a session.
func StartEvent(view duel.SessionView, at time.Time) Event {
	return Event{Topic: StartTopic(view.ID), Kind: KindStart, SessionID: view.ID, View: view, OccurredAt: at.UTC()}
}

// LobbyEvent builds the lobby update event for a session.
func LobbyEvent(view duel.SessionView, at time.Time) Event {
	return Event{Topic: LobbyTopic(view.ID), Kind: KindLobby, SessionID: view.ID, View: view, OccurredAt: at.UTC()}
}

// ProgressEvent builds the gameplay event for a session.
func ProgressEvent(session duel.Session, at time.Time) Event {
	return Event{Topic: ProgressTopic(session.ID), Kind: KindProgress, SessionID: session.ID, Session: session, OccurredAt: at.UTC()}
}

// Notifier receives events after the mutation that produced them committed.
type Notifier interface {
	Publish(ctx context.Context, events ...Event) error
}

// Discard is a Notifier that drops every event.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Publish(context.Context, ...Event) error { return nil }
