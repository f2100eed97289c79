package duel

import (
	"fmt"
	"time"
)

// Session is one duel's full state.
//
// Session is a plain value: copying it yields an independent snapshot.
type Session struct {
	ID      string
	Player1 PlayerID
	Player2 OptionalPlayer
	Status  Status
	Cards1  Cards
	Cards2  Cards
	// CurrentTurn is meaningful only while InProgress.
	CurrentTurn PlayerID
	// Winner is set when play or a surrender with a known caller ends the game.
	Winner        OptionalPlayer
	SurrenderedBy OptionalPlayer
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSession returns a NEW session owned by player with fresh hands.
func NewSession(id string, player PlayerID, now time.Time) Session {
	now = now.UTC()
	return Session{
		ID:          id,
		Player1:     player,
		Status:      StatusNew,
		Cards1:      NewCards(),
		Cards2:      NewCards(),
		CurrentTurn: player,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Join seats player as the opponent and starts the game.
func (s *Session) Join(player PlayerID) error {
	if s.Status == StatusFinished {
		return invalidStateError(ReasonGameFinished, "game already finished")
	}
	if s.Player2.IsSet() {
		return invalidStateError(ReasonGameFull, "game already has two players")
	}
	s.Player2 = SomePlayer(player)
	s.Status = StatusInProgress
	return nil
}

// LeavePlayer1 removes the session owner. With no opponent the session is
// abandoned; otherwise the opponent is promoted to seat one with their hand.
// Leaving a finished session changes nothing.
func (s *Session) LeavePlayer1() {
	if s.Status == StatusFinished {
		return
	}
	opponent, ok := s.Player2.Get()
	if !ok {
		s.Status = StatusFinished
		return
	}
	s.Player1 = opponent
	s.Cards1 = s.Cards2
	s.vacateSeat2()
}

// LeavePlayer2 clears the opponent seat. It is idempotent when the seat is
// already empty. Leaving a finished session changes nothing.
func (s *Session) LeavePlayer2() {
	if s.Status == StatusFinished {
		return
	}
	s.vacateSeat2()
}

func (s *Session) vacateSeat2() {
	s.Player2 = NoPlayer()
	s.Cards2 = NewCards()
	s.Status = StatusWaiting
	s.CurrentTurn = s.Player1
}

// Attack applies one attack by actor, using its card at attackIndex against
// the opponent's card at targetIndex.
//
// Checks run in order: finished, started, turn, indices, zero cards. On a
// terminal attack the actor is recorded as winner; otherwise the turn passes.
func (s *Session) Attack(actor PlayerID, attackIndex, targetIndex int) error {
	if s.Status == StatusFinished {
		return invalidStateError(ReasonGameFinished, "game already finished")
	}
	if s.Status != StatusInProgress {
		return invalidStateError(ReasonNotStarted, "game has not started")
	}
	if actor != s.CurrentTurn {
		return invalidTurnError(s.CurrentTurn, actor)
	}

	attacker, defender, opponent := s.sides(actor)
	if attackIndex < 0 || attackIndex >= len(attacker) || targetIndex < 0 || targetIndex >= len(defender) {
		return InvalidParamError(ReasonCardIndex,
			fmt.Sprintf("invalid card index: attack %d target %d", attackIndex, targetIndex))
	}
	if attacker[attackIndex] == 0 || defender[targetIndex] == 0 {
		return invalidStateError(ReasonZeroCard, "cannot attack with or target a zero-value card")
	}

	defender[targetIndex] = Resolve(attacker[attackIndex], defender[targetIndex])

	if attacker.AllZero() || defender.AllZero() {
		s.Status = StatusFinished
		s.Winner = SomePlayer(actor)
		return nil
	}
	s.CurrentTurn = opponent
	return nil
}

// sides returns the actor's hand, the opponent's hand and the opponent.
// Seat one wins ties, so a player seated twice attacks from seat one.
func (s *Session) sides(actor PlayerID) (*Cards, *Cards, PlayerID) {
	opponent, _ := s.Player2.Get()
	if actor == s.Player1 {
		return &s.Cards1, &s.Cards2, opponent
	}
	return &s.Cards2, &s.Cards1, s.Player1
}

// Surrender ends the game. When by names a seated player it is recorded and
// the other seated player, if any, wins.
func (s *Session) Surrender(by OptionalPlayer) error {
	if s.Status == StatusFinished {
		return invalidStateError(ReasonGameFinished, "game already finished")
	}
	s.Status = StatusFinished

	quitter, ok := by.Get()
	if !ok {
		return nil
	}
	opponent, seated := s.Player2.Get()
	switch {
	case quitter == s.Player1:
		s.SurrenderedBy = by
		if seated && opponent != quitter {
			s.Winner = SomePlayer(opponent)
		}
	case seated && quitter == opponent:
		s.SurrenderedBy = by
		s.Winner = SomePlayer(s.Player1)
	}
	return nil
}

// HandOf returns the hand owned by player and whether player is seated.
func (s Session) HandOf(player PlayerID) (Cards, bool) {
	if player == s.Player1 {
		return s.Cards1, true
	}
	if s.Player2.Is(player) {
		return s.Cards2, true
	}
	return Cards{}, false
}

// Validate checks the structural invariants of a session.
func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	if s.Player1 == "" {
		return fmt.Errorf("session %s: player1 is unset", s.ID)
	}
	if s.Status == StatusUnspecified {
		return fmt.Errorf("session %s: status is unspecified", s.ID)
	}
	if !s.Cards1.Valid() || !s.Cards2.Valid() {
		return fmt.Errorf("session %s: card value out of range", s.ID)
	}
	if s.CurrentTurn != s.Player1 && !s.Player2.Is(s.CurrentTurn) {
		return fmt.Errorf("session %s: current turn %q is not seated", s.ID, s.CurrentTurn)
	}
	return nil
}
