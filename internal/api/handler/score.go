package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/rushmax/internal/api/middleware"
	"github.com/mcoot/rushmax/internal/api/request"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/scoring"
)

// ScoreHandler handles leaderboard endpoints
type ScoreHandler struct {
	leaderboard scoring.LeaderboardInterface
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(leaderboard scoring.LeaderboardInterface) *ScoreHandler {
	return &ScoreHandler{
		leaderboard: leaderboard,
	}
}

// Submit handles POST /api/v1/scores. Only raw telemetry is accepted; the score is computed here.
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SubmitScoreRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	record, err := h.leaderboard.Submit(r.Context(), player.Nickname, model.ScoreSubmission{
		Mode:           req.Mode,
		CorrectCount:   req.CorrectCount,
		TotalQuestions: req.TotalQuestions,
		TimeSeconds:    req.TimeSeconds,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreAccepted{
		OK:             true,
		CanonicalScore: record.CanonicalScore,
		Breakdown:      record.Breakdown,
	})
}

// Top handles GET /api/v1/scores/top?mode=&n=
func (h *ScoreHandler) Top(w http.ResponseWriter, r *http.Request) {
	mode := scoring.NormalizeMode(r.URL.Query().Get("mode"))

	n := scoring.DefaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("n must be a positive integer"))
			return
		}
		n = parsed
	}

	response.JSON(w, http.StatusOK, response.TopScores{
		Mode:   mode,
		Scores: h.leaderboard.Top(mode, n),
	})
}
