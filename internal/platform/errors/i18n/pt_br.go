package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeNotFound:     "Jogo não encontrado",
		CodeInvalidParam: "Requisição inválida",
		CodeInvalidState: "Jogo inválido",
		CodeInvalidTurn:  "Não é a sua vez",
		CodeConflict:     "O jogo já existe",

		CodeInvalidParam + ".card_index":      "Índice de carta inválido",
		CodeInvalidParam + ".player_required": "A identidade do jogador é obrigatória",
		CodeInvalidParam + ".session_id":      "O id do jogo é obrigatório",
		CodeInvalidState + ".game_finished":   "O jogo já terminou",
		CodeInvalidState + ".game_full":       "O jogo já tem dois jogadores",
		CodeInvalidState + ".not_started":     "O jogo ainda não começou",
		CodeInvalidState + ".zero_card":       "Não é possível atacar com ou mirar uma carta de valor zero",
		CodeInvalidTurn + ".wrong_player":     "Ainda é a vez de {{.current}}",
		CodeNotFound + ".no_open_game":        "Nenhum jogo aberto aguardando jogador",
	},
}
