package duel

// SessionView is the lobby-facing projection of a session.
type SessionView struct {
	ID      string
	Player1 PlayerID
	Player2 OptionalPlayer
	Winner  OptionalPlayer
	Status  Status
}

// SessionSummary is one row of the open games list.
type SessionSummary struct {
	ID      string
	Player1 PlayerID
	Status  Status
}

// View projects the session for lobby clients.
func (s Session) View() SessionView {
	return SessionView{
		ID:      s.ID,
		Player1: s.Player1,
		Player2: s.Player2,
		Winner:  s.Winner,
		Status:  s.Status,
	}
}

// Summary projects the session for the games list.
func (s Session) Summary() SessionSummary {
	return SessionSummary{ID: s.ID, Player1: s.Player1, Status: s.Status}
}

// Summaries projects a list of sessions, preserving order.
func Summaries(sessions []Session) []SessionSummary {
	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	return out
}
