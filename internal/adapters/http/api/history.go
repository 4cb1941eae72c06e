// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/mindcheck/internal/domain/types"
)

// HistoryDependencies defines the interface for history reads.
type HistoryDependencies interface {
	History(ctx context.Context) ([]types.HistoryEntry, error)
}

// HistoryHandler handles history listing requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /api/history requests. Entries come back
// newest first.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err)
		return
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
