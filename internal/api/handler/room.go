package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/request"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/lobby"
)

// RoomHandler handles room endpoints
type RoomHandler struct {
	lobby lobby.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(lobbyController lobby.ControllerInterface) *RoomHandler {
	return &RoomHandler{
		lobby: lobbyController,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	rule, err := model.ParseRule(req.Rule)
	if err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.lobby.CreateRoom(r.Context(), player.ID, lobby.RoomOptions{
		Name:     req.Name,
		Password: req.Password,
		Capacity: req.Capacity,
		Rule:     rule,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.RoomFromModel(room))
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RoomListFromModel(h.lobby.ListRooms(r.Context())))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	room, err := h.lobby.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(room))
}

// Join handles POST /api/v1/rooms/{id}/join. Members call it again to poll.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["id"])

	var req request.JoinRoomRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.lobby.JoinRoom(r.Context(), player.ID, roomID, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomStatusFromModel(result))
}

// Leave handles POST /api/v1/rooms/{id}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	roomID := model.RoomID(mux.Vars(r)["id"])

	if err := h.lobby.LeaveRoom(r.Context(), player.ID, roomID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
