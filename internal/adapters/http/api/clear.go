// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
)

// ClearDependencies defines the interface for bulk history deletion.
type ClearDependencies interface {
	ClearHistory(ctx context.Context) (int64, error)
}

// ClearHandler handles history clearing requests.
type ClearHandler struct {
	deps ClearDependencies
}

// NewClearHandler creates a new clear handler.
func NewClearHandler(deps ClearDependencies) *ClearHandler {
	return &ClearHandler{deps: deps}
}

// HandleClearHistory handles DELETE /api/clear_history requests.
func (h *ClearHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	deleted, err := h.deps.ClearHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{
		Status:  "success",
		Message: fmt.Sprintf("%d records deleted", deleted),
	})
}
