package apierr

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mcoot/rushmax/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidRule    = "INVALID_RULE"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeUnknownPlayer  = "UNKNOWN_PLAYER"
	CodeAlreadyQueued  = "ALREADY_QUEUED"
	CodeNotQueued      = "NOT_QUEUED"
	CodeUnknownRoom    = "UNKNOWN_ROOM"
	CodeBadPassword    = "BAD_PASSWORD"
	CodeRoomFull       = "ROOM_FULL"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeUnknownGame    = "UNKNOWN_GAME"
	CodeNotInGame      = "NOT_IN_GAME"
	CodeNoQuestions    = "NO_QUESTIONS"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUnknownPlayer):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnknownPlayer, "Unknown player or session"}}
	case errors.Is(err, model.ErrAlreadyQueued):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyQueued, "Already queued, in a room, or matched"}}
	case errors.Is(err, model.ErrNotQueued):
		return &httpError{http.StatusNotFound, APIError{CodeNotQueued, "Not in any queue"}}
	case errors.Is(err, model.ErrInvalidRule):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRule, "Rule must be classic, speed or challenge"}}
	case errors.Is(err, model.ErrUnknownRoom):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownRoom, "Room not found"}}
	case errors.Is(err, model.ErrBadPassword):
		return &httpError{http.StatusForbidden, APIError{CodeBadPassword, "Wrong room password"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not a member of this room"}}
	case errors.Is(err, model.ErrUnknownGame):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownGame, "Game not found"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodeNotInGame, "Not a member of this game"}}
	case errors.Is(err, model.ErrNoQuestions):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoQuestions, "No questions loaded"}}
	case errors.Is(err, model.ErrInvalidSubmission):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Score telemetry must not be negative"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
