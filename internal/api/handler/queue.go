package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/request"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/lobby"
)

// Sweeper reaps idle players
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// QueueHandler handles matchmaking queue endpoints
type QueueHandler struct {
	lobby   lobby.ControllerInterface
	sweeper Sweeper
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(lobbyController lobby.ControllerInterface, sweeper Sweeper) *QueueHandler {
	return &QueueHandler{
		lobby:   lobbyController,
		sweeper: sweeper,
	}
}

// Join handles POST /api/v1/queue. Idle players are reaped first so they never fill a quorum.
func (h *QueueHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.JoinQueueRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	rule, err := model.ParseRule(req.Rule)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.sweeper.Sweep(r.Context())

	result, err := h.lobby.JoinQueue(r.Context(), player.ID, rule)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QueueStatusFromModel(result))
}

// Poll handles GET /api/v1/queue
func (h *QueueHandler) Poll(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	result, err := h.lobby.PollQueue(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QueueStatusFromModel(result))
}

// Leave handles DELETE /api/v1/queue
func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.lobby.LeaveQueue(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
