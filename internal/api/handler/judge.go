package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/rushmax/internal/api/request"
	"github.com/mcoot/rushmax/internal/api/response"
	"github.com/mcoot/rushmax/internal/services/judge"
)

// JudgeHandler proxies questions to the AI judge. Upstream failures are
// reported in the body with available=false, never as an HTTP error.
type JudgeHandler struct {
	judge judge.ServiceInterface
}

// NewJudgeHandler creates a new judge handler
func NewJudgeHandler(judgeService judge.ServiceInterface) *JudgeHandler {
	return &JudgeHandler{
		judge: judgeService,
	}
}

// Ask handles POST /api/v1/judge/ask
func (h *JudgeHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req request.AskRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, NewInvalidRequestError("question is required"))
		return
	}

	verdict := h.judge.Ask(r.Context(), judge.AskRequest{
		Question:     req.Question,
		TargetAnswer: req.TargetAnswer,
		LMServer:     req.LMServer,
	})
	response.JSON(w, http.StatusOK, response.VerdictFromJudge(verdict))
}

// Probe handles POST /api/v1/judge/probe
func (h *JudgeHandler) Probe(w http.ResponseWriter, r *http.Request) {
	var req request.ProbeRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.LMServer) == "" {
		WriteError(w, NewInvalidRequestError("lm_server is required"))
		return
	}

	response.JSON(w, http.StatusOK, response.ProbeFromJudge(h.judge.Probe(r.Context(), req.LMServer)))
}
