// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/mindcheck/internal/adapters/repository"
	"github.com/okian/mindcheck/internal/adapters/scorer"
	"github.com/okian/mindcheck/internal/domain/scoring"
	"github.com/okian/mindcheck/internal/domain/types"
)

// SaveDependencies defines the interface for scoring submissions.
type SaveDependencies interface {
	SubmitAndSave(ctx context.Context, answers []int, name, note string) (types.ScoredResult, error)
}

// SaveHandler handles score-and-save requests.
type SaveHandler struct {
	deps SaveDependencies
}

// NewSaveHandler creates a new save handler.
func NewSaveHandler(deps SaveDependencies) *SaveHandler {
	return &SaveHandler{deps: deps}
}

// HandleSave handles POST /api/save requests.
func (h *SaveHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %v", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.deps.SubmitAndSave(r.Context(), req.Answers, req.Name, req.Note)
	if err != nil {
		status, code := classifyFailure(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Status: "success", ScoredResult: result})
}

// classifyFailure translates orchestration errors into an HTTP status and a
// code that identifies the failing layer (validation vs scoring vs storage).
func classifyFailure(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrAnswerCount), errors.Is(err, scoring.ErrAnswerRange):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, scorer.ErrTimeout):
		return http.StatusInternalServerError, "scorer_timeout"
	case errors.Is(err, scorer.ErrProcessFailure),
		errors.Is(err, scorer.ErrMalformedOutput),
		errors.Is(err, scorer.ErrOutOfRange):
		return http.StatusInternalServerError, "scoring_error"
	case errors.Is(err, repository.ErrWriteFailure):
		return http.StatusInternalServerError, "store_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
