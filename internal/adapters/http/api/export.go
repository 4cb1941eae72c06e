// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/mindcheck/internal/domain/export"
)

// ExportDependencies defines the interface for CSV export.
type ExportDependencies interface {
	ExportCSV(ctx context.Context) ([]byte, error)
}

// ExportHandler handles CSV export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExportCSV handles GET /api/export_csv requests. The response is a
// file download of the full history, oldest first.
func (h *ExportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	body, err := h.deps.ExportCSV(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
