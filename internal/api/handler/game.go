package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games game.ControllerInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(games game.ControllerInterface) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

// NextQuestion handles GET /api/v1/games/{id}/question
func (h *GameHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	delivery, err := h.games.NextQuestion(r.Context(), gameID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionFromDelivery(delivery))
}
