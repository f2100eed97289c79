package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidParam = "INVALID_PARAM"
	CodeInvalidState = "INVALID_STATE"
	CodeInvalidTurn  = "INVALID_TURN"
	CodeConflict     = "CONFLICT"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeNotFound:     "Game not found",
		CodeInvalidParam: "Invalid request",
		CodeInvalidState: "Game is not valid",
		CodeInvalidTurn:  "It is not your turn",
		CodeConflict:     "Game already exists",

		CodeInvalidParam + ".card_index":      "Invalid card index",
		CodeInvalidParam + ".player_required": "Player identity is required",
		CodeInvalidParam + ".session_id":      "Game id is required",
		CodeInvalidState + ".game_finished":   "Game is already finished",
		CodeInvalidState + ".game_full":       "Game already has two players",
		CodeInvalidState + ".not_started":     "Game has not started yet",
		CodeInvalidState + ".zero_card":       "Cannot attack with or target a zero-value card",
		CodeInvalidTurn + ".wrong_player":     "It is still {{.current}}'s turn",
		CodeNotFound + ".no_open_game":        "No open game is waiting for a player",
	},
}
