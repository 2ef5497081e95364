package handler

import (
	"net/http"

	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/request"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/services/registry"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	registry registry.ServiceInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry registry.ServiceInterface) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
	}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.registry.Register(r.Context(), req.Nickname)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.RegistrationFromModel(player))
}

// Heartbeat handles POST /api/v1/players/heartbeat.
// The auth middleware has already refreshed the player's activity.
func (h *PlayerHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
