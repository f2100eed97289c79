package wire

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
	"github.com/louisbranch/mathic/internal/services/game/notify"
	"google.golang.org/protobuf/types/known/structpb"
)

// String returns the string field key, trimmed, or "" when absent.
func String(s *structpb.Struct, key string) string {
	v := s.GetFields()[key]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

// Int returns the integral number field key. Absent fields read as zero.
func Int(s *structpb.Struct, key string) (int, error) {
	v := s.GetFields()[key]
	if v == nil {
		return 0, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	n := v.GetNumberValue()
	if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return int(n), nil
}

// ErrMissingField is returned by RequiredInt when key is absent.
var ErrMissingField = errors.New("field is required")

// RequiredInt is Int for fields that have no default.
func RequiredInt(s *structpb.Struct, key string) (int, error) {
	if _, ok := s.GetFields()[key]; !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrMissingField)
	}
	return Int(s, key)
}

// DecodeSession reverses Session.
func DecodeSession(s *structpb.Struct) (duel.Session, error) {
	if s == nil {
		return duel.Session{}, fmt.Errorf("session payload is empty")
	}
	cards1, err := decodeCards(s, FieldCards1)
	if err != nil {
		return duel.Session{}, err
	}
	cards2, err := decodeCards(s, FieldCards2)
	if err != nil {
		return duel.Session{}, err
	}
	createdAt, err := decodeTime(s, FieldCreatedAt)
	if err != nil {
		return duel.Session{}, err
	}
	updatedAt, err := decodeTime(s, FieldUpdatedAt)
	if err != nil {
		return duel.Session{}, err
	}
	return duel.Session{
		ID:            String(s, FieldSessionID),
		Player1:       duel.PlayerID(String(s, FieldPlayer1)),
		Player2:       decodeOptional(s, FieldPlayer2),
		Status:        duel.ParseStatus(String(s, FieldStatus)),
		Cards1:        cards1,
		Cards2:        cards2,
		CurrentTurn:   duel.PlayerID(String(s, FieldCurrentTurn)),
		Winner:        decodeOptional(s, FieldWinner),
		SurrenderedBy: decodeOptional(s, FieldSurrenderedBy),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// DecodeView reverses View.
func DecodeView(s *structpb.Struct) (duel.SessionView, error) {
	if s == nil {
		return duel.SessionView{}, fmt.Errorf("view payload is empty")
	}
	return duel.SessionView{
		ID:      String(s, FieldSessionID),
		Player1: duel.PlayerID(String(s, FieldPlayer1)),
		Player2: decodeOptional(s, FieldPlayer2),
		Winner:  decodeOptional(s, FieldWinner),
		Status:  duel.ParseStatus(String(s, FieldStatus)),
	}, nil
}

// DecodeSummaries reverses Summaries.
func DecodeSummaries(list *structpb.ListValue) ([]duel.SessionSummary, error) {
	out := make([]duel.SessionSummary, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		row := v.GetStructValue()
		if row == nil {
			return nil, fmt.Errorf("sessions[%d] is not an object", i)
		}
		out = append(out, duel.SessionSummary{
			ID:      String(row, FieldSessionID),
			Player1: duel.PlayerID(String(row, FieldPlayer1)),
			Status:  duel.ParseStatus(String(row, FieldStatus)),
		})
	}
	return out, nil
}

// DecodePlayers reverses Players.
func DecodePlayers(list *structpb.ListValue) []duel.PlayerID {
	out := make([]duel.PlayerID, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		out = append(out, duel.PlayerID(v.GetStringValue()))
	}
	return out
}

// DecodeEvent reverses Event.
func DecodeEvent(s *structpb.Struct) (notify.Event, error) {
	if s == nil {
		return notify.Event{}, fmt.Errorf("event payload is empty")
	}
	occurredAt, err := decodeTime(s, FieldOccurredAt)
	if err != nil {
		return notify.Event{}, err
	}
	e := notify.Event{
		Topic:      String(s, FieldTopic),
		Kind:       notify.Kind(String(s, FieldKind)),
		SessionID:  String(s, FieldSessionID),
		OccurredAt: occurredAt,
	}
	fields := s.GetFields()
	switch e.Kind {
	case notify.KindSessions:
		e.Summaries, err = DecodeSummaries(fields[FieldSessions].GetListValue())
	case notify.KindStart, notify.KindLobby:
		e.View, err = DecodeView(fields[FieldView].GetStructValue())
	case notify.KindProgress:
		e.Session, err = DecodeSession(fields[FieldSession].GetStructValue())
	default:
		err = fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if err != nil {
		return notify.Event{}, err
	}
	return e, nil
}

func decodeOptional(s *structpb.Struct, key string) duel.OptionalPlayer {
	if id := String(s, key); id != "" {
		return duel.SomePlayer(duel.PlayerID(id))
	}
	return duel.NoPlayer()
}

func decodeCards(s *structpb.Struct, key string) (duel.Cards, error) {
	var c duel.Cards
	values := s.GetFields()[key].GetListValue().GetValues()
	if len(values) != len(c) {
		return c, fmt.Errorf("%s must hold %d cards", key, len(c))
	}
	for i, v := range values {
		c[i] = int(v.GetNumberValue())
	}
	return c, nil
}

func decodeTime(s *structpb.Struct, key string) (time.Time, error) {
	raw := String(s, key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t.UTC(), nil
}
