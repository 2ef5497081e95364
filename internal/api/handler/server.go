package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/game"
	"github.com/mcoot/rushmax/internal/services/lobby"
	"github.com/mcoot/rushmax/internal/services/questions"
	"github.com/mcoot/rushmax/internal/services/registry"
)

// DefaultSoloBatch is the solo batch size when n is not given
const DefaultSoloBatch = 10

// ServerHandler handles instance status, stats, and solo question endpoints
type ServerHandler struct {
	instanceID string
	registry   registry.ServiceInterface
	lobby      lobby.ControllerInterface
	games      game.ControllerInterface
	questions  questions.ServiceInterface
}

// NewServerHandler creates a new server handler
func NewServerHandler(
	instanceID string,
	registry registry.ServiceInterface,
	lobbyController lobby.ControllerInterface,
	games game.ControllerInterface,
	questions questions.ServiceInterface,
) *ServerHandler {
	return &ServerHandler{
		instanceID: instanceID,
		registry:   registry,
		lobby:      lobbyController,
		games:      games,
		questions:  questions,
	}
}

// Health handles GET /api/v1/health
func (h *ServerHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /api/v1/status
func (h *ServerHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Status{
		ServerID:       h.instanceID,
		QuestionsCount: h.questions.Count(),
	})
}

// Stats handles GET /api/v1/stats
func (h *ServerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.StatsFromModel(model.ServerStats{
		LivePlayers:   h.registry.Count(),
		QueuedPlayers: h.lobby.QueuedCount(),
		ActiveGames:   h.games.Count(),
		ActiveRooms:   h.lobby.RoomCount(),
	}))
}

// SoloQuestion handles GET /api/v1/solo/question
func (h *ServerHandler) SoloQuestion(w http.ResponseWriter, r *http.Request) {
	sampled, err := h.questions.SoloQuestions(1)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SoloQuestionFromModel(sampled[0]))
}

// SoloQuestions handles GET /api/v1/solo/questions?n=
func (h *ServerHandler) SoloQuestions(w http.ResponseWriter, r *http.Request) {
	n := DefaultSoloBatch
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("n must be an integer"))
			return
		}
		n = parsed
	}

	sampled, err := h.questions.SoloQuestions(n)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.SoloQuestionList{Questions: make([]response.SoloQuestion, len(sampled))}
	for i, q := range sampled {
		out.Questions[i] = response.SoloQuestionFromModel(q)
	}
	response.JSON(w, http.StatusOK, out)
}
