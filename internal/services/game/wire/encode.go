package wire

import (
	"time"

	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by requests, responses and journal payloads.
const (
	FieldSessionID     = "session_id"
	FieldPlayer1       = "player1"
	FieldPlayer2       = "player2"
	FieldStatus        = "status"
	FieldCards1        = "cards1"
	FieldCards2        = "cards2"
	FieldCurrentTurn   = "current_turn"
	FieldWinner        = "winner"
	FieldSurrenderedBy = "surrendered_by"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
	FieldSessions      = "sessions"
	FieldPlayers       = "players"
	FieldTopic         = "topic"
	FieldKind          = "kind"
	FieldOccurredAt    = "occurred_at"
	FieldView          = "view"
	FieldSession       = "session"
	FieldAttackIndex   = "attack_index"
	FieldTargetIndex   = "target_index"
)

// Session encodes the full session, cards included.
func Session(s duel.Session) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSessionID:     structpb.NewStringValue(s.ID),
		FieldPlayer1:       structpb.NewStringValue(string(s.Player1)),
		FieldPlayer2:       optional(s.Player2),
		FieldStatus:        structpb.NewStringValue(s.Status.String()),
		FieldCards1:        cards(s.Cards1),
		FieldCards2:        cards(s.Cards2),
		FieldCurrentTurn:   structpb.NewStringValue(string(s.CurrentTurn)),
		FieldWinner:        optional(s.Winner),
		FieldSurrenderedBy: optional(s.SurrenderedBy),
		FieldCreatedAt:     timestamp(s.CreatedAt),
		FieldUpdatedAt:     timestamp(s.UpdatedAt),
	}}
}

// View encodes the lobby projection of a session.
func View(v duel.SessionView) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSessionID: structpb.NewStringValue(v.ID),
		FieldPlayer1:   structpb.NewStringValue(string(v.Player1)),
		FieldPlayer2:   optional(v.Player2),
		FieldWinner:    optional(v.Winner),
		FieldStatus:    structpb.NewStringValue(v.Status.String()),
	}}
}

// Summaries encodes the open games list.
func Summaries(list []duel.SessionSummary) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(list))
	for _, s := range list {
		values = append(values, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldSessionID: structpb.NewStringValue(s.ID),
			FieldPlayer1:   structpb.NewStringValue(string(s.Player1)),
			FieldStatus:    structpb.NewStringValue(s.Status.String()),
		}}))
	}
	return &structpb.ListValue{Values: values}
}

// Players encodes a list of player ids.
func Players(players []duel.PlayerID) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(players))
	for _, p := range players {
		values = append(values, structpb.NewStringValue(string(p)))
	}
	return &structpb.ListValue{Values: values}
}

// Event encodes a notifier event with the payload its kind carries.
func Event(e notify.Event) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldTopic:      structpb.NewStringValue(e.Topic),
		FieldKind:       structpb.NewStringValue(string(e.Kind)),
		FieldSessionID:  structpb.NewStringValue(e.SessionID),
		FieldOccurredAt: timestamp(e.OccurredAt),
	}
	switch e.Kind {
	case notify.KindSessions:
		fields[FieldSessions] = structpb.NewListValue(Summaries(e.Summaries))
	case notify.KindStart, notify.KindLobby:
		fields[FieldView] = structpb.NewStructValue(View(e.View))
	case notify.KindProgress:
		fields[FieldSession] = structpb.NewStructValue(Session(e.Session))
	}
	return &structpb.Struct{Fields: fields}
}

func optional(p duel.OptionalPlayer) *structpb.Value {
	if id, ok := p.Get(); ok {
		return structpb.NewStringValue(string(id))
	}
	return structpb.NewNullValue()
}

func cards(c duel.Cards) *structpb.Value {
	values := make([]*structpb.Value, 0, len(c))
	for _, v := range c {
		values = append(values, structpb.NewNumberValue(float64(v)))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func timestamp(t time.Time) *structpb.Value {
	if t.IsZero() {
		return structpb.NewNullValue()
	}
	return structpb.NewStringValue(t.UTC().Format(time.RFC3339Nano))
}
