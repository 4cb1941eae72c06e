// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/mindcheck/internal/domain/scoring"
	"github.com/okian/mindcheck/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitAndSave scores answers and appends the result to history.
	SubmitAndSave(ctx context.Context, answers []int, name, note string) (types.ScoredResult, error)

	// History returns all stored results, newest first.
	History(ctx context.Context) ([]types.HistoryEntry, error)

	// ClearHistory deletes all stored results and returns the count removed.
	ClearHistory(ctx context.Context) (int64, error)

	// ExportCSV renders the full history as CSV, oldest first.
	ExportCSV(ctx context.Context) ([]byte, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	saveHandler    *SaveHandler
	historyHandler *HistoryHandler
	clearHandler   *ClearHandler
	exportHandler  *ExportHandler
	corsOrigin     string
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, corsOrigin string) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		saveHandler:    NewSaveHandler(deps),
		historyHandler: NewHistoryHandler(deps),
		clearHandler:   NewClearHandler(deps),
		exportHandler:  NewExportHandler(deps),
		corsOrigin:     corsOrigin,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.chain(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", s.chain(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/save", s.chain(s.saveHandler.HandleSave, "save"))
	mux.HandleFunc("/api/history", s.chain(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/api/clear_history", s.chain(s.clearHandler.HandleClearHistory, "clear_history"))
	mux.HandleFunc("/api/export_csv", s.chain(s.exportHandler.HandleExportCSV, "export_csv"))
}

// chain applies the standard middleware stack to a handler.
func (s *Server) chain(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(CORSMiddleware(MetricsMiddleware(next, endpoint), s.corsOrigin))
}

// saveRequest mirrors the body of POST /api/save.
type saveRequest struct {
	Answers []int  `json:"answers"`
	Name    string `json:"name"`
	Note    string `json:"note"`
}

func (r saveRequest) validate() error {
	if len(r.Answers) != scoring.AnswerCount {
		return fmt.Errorf("answers must contain exactly %d values (0-%d)", scoring.AnswerCount, scoring.MaxAnswer)
	}
	return nil
}

// saveResponse is the body of a successful POST /api/save.
type saveResponse struct {
	Status string `json:"status"`
	types.ScoredResult
}

type clearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
