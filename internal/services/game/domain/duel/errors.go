package duel

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/mathic/internal/platform/errors"
	"github.com/louisbranch/mathic/internal/platform/errors/i18n"
)

// Sentinels for errors.Is checks. Matching is by code, so every error built by
// this package matches exactly one of them.
var (
	ErrNotFound     = &apperrors.Error{Code: apperrors.CodeNotFound}
	ErrInvalidParam = &apperrors.Error{Code: apperrors.CodeInvalidParam}
	ErrInvalidState = &apperrors.Error{Code: apperrors.CodeInvalidState}
	ErrInvalidTurn  = &apperrors.Error{Code: apperrors.CodeInvalidTurn}
	ErrConflict     = &apperrors.Error{Code: apperrors.CodeConflict}
)

// Reasons select a reason-specific localized message.
const (
	ReasonCardIndex      = "card_index"
	ReasonPlayerRequired = "player_required"
	ReasonSessionID      = "session_id"
	ReasonGameFinished   = "game_finished"
	ReasonGameFull       = "game_full"
	ReasonNotStarted     = "not_started"
	ReasonZeroCard       = "zero_card"
	ReasonWrongPlayer    = "wrong_player"
	ReasonNoOpenGame     = "no_open_game"
)

func newError(code apperrors.Code, reason, message string, metadata map[string]string) error {
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata[i18n.ReasonKey] = reason
	return apperrors.WithMetadata(code, message, metadata)
}

// NotFoundError reports an unknown session id.
func NotFoundError(sessionID string) error {
	return newError(apperrors.CodeNotFound, "", fmt.Sprintf("session %s not found", sessionID),
		map[string]string{"session_id": sessionID})
}

// NoOpenSessionError reports that no NEW session is available to join.
func NoOpenSessionError() error {
	return newError(apperrors.CodeNotFound, ReasonNoOpenGame, "no open session", nil)
}

// ConflictError reports a duplicate session id.
func ConflictError(sessionID string) error {
	return newError(apperrors.CodeConflict, "", fmt.Sprintf("session %s already exists", sessionID),
		map[string]string{"session_id": sessionID})
}

// InvalidParamError reports a malformed request field.
func InvalidParamError(reason, message string) error {
	return newError(apperrors.CodeInvalidParam, reason, message, nil)
}

func invalidStateError(reason, message string) error {
	return newError(apperrors.CodeInvalidState, reason, message, nil)
}

func invalidTurnError(current, actor PlayerID) error {
	return newError(apperrors.CodeInvalidTurn, ReasonWrongPlayer,
		fmt.Sprintf("it is still %s's turn, %s tried to move", current, actor),
		map[string]string{"current": string(current), "actor": string(actor)})
}

// RequirePlayer rejects an empty player identity.
func RequirePlayer(player PlayerID) error {
	if strings.TrimSpace(string(player)) == "" {
		return InvalidParamError(ReasonPlayerRequired, "player id is required")
	}
	return nil
}

// RequireSessionID rejects an empty session id.
func RequireSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return InvalidParamError(ReasonSessionID, "session id is required")
	}
	return nil
}
