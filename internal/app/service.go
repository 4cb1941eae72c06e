// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/mindcheck/internal/adapters/repository"
	"github.com/okian/mindcheck/internal/domain/classify"
	"github.com/okian/mindcheck/internal/domain/export"
	"github.com/okian/mindcheck/internal/domain/scoring"
	"github.com/okian/mindcheck/internal/domain/types"
	"github.com/okian/mindcheck/pkg/logger"
	"github.com/okian/mindcheck/pkg/metrics"
)

// Service orchestrates scoring, classification, and history persistence.
type Service struct {
	store  repository.Store
	scorer scoring.Scorer
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the history store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets the scoring capability.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. A store and a scorer must be provided via options.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// SubmitAndSave validates the answers, scores them, classifies the total,
// and appends the result to history. No history record is written when any
// earlier step fails.
func (s *Service) SubmitAndSave(ctx context.Context, answers []int, name, note string) (types.ScoredResult, error) {
	if err := scoring.Validate(answers); err != nil {
		return types.ScoredResult{}, err
	}

	start := time.Now()
	total, err := s.scorer.Score(ctx, answers)
	metrics.RecordScorerLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		s.logger.Error(ctx, "scoring failed", logger.Error(err))
		return types.ScoredResult{}, fmt.Errorf("scoring failed: %w", err)
	}

	// The gateway already rejects out-of-range totals; clamping here is a
	// second line of defense and is logged as a scorer defect.
	clamped, wasClamped := classify.Clamp(total)
	if wasClamped {
		s.logger.Warn(ctx, "scorer returned out-of-range total; clamped",
			logger.Int("total", total), logger.Int("clamped", clamped))
	}
	result, _ := classify.Classify(clamped)

	record, err := s.store.Insert(ctx, name, note, clamped, result.Category)
	if err != nil {
		metrics.RecordStoreError()
		s.logger.Error(ctx, "history insert failed", logger.Error(err))
		return types.ScoredResult{}, fmt.Errorf("saving result failed: %w", err)
	}

	metrics.RecordSubmissionScored()
	s.logger.Info(ctx, "submission scored",
		logger.Int("total", clamped),
		logger.String("category", result.Category),
		logger.Int("record_id", int(record.ID)))

	return types.ScoredResult{
		TotalScore: clamped,
		Category:   result.Category,
		Advice:     result.Advice,
		Color:      result.Color,
	}, nil
}

// History returns all stored results, newest first.
func (s *Service) History(ctx context.Context) ([]types.HistoryEntry, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("reading history failed: %w", err)
	}
	entries := make([]types.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}

// ClearHistory deletes all stored results and returns the number removed.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	deleted, err := s.store.Clear(ctx)
	if err != nil {
		metrics.RecordStoreError()
		s.logger.Error(ctx, "history clear failed", logger.Error(err))
		return 0, fmt.Errorf("clearing history failed: %w", err)
	}
	metrics.RecordHistoryDeleted(deleted)
	s.logger.Info(ctx, "history cleared", logger.Int("deleted", int(deleted)))
	return deleted, nil
}

// ExportCSV renders the full history as CSV, oldest first.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("reading history failed: %w", err)
	}
	// ListAll is newest first; the export contract wants oldest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	metrics.RecordExportGenerated()
	return export.Render(records), nil
}

// GetStats returns current service statistics. A failed count is logged and
// reported as zero so the stats surface stays available.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	count, err := s.store.Count(ctx)
	if err != nil {
		metrics.RecordStoreError()
		s.logger.Error(ctx, "history count failed", logger.Error(err))
	}
	return map[string]interface{}{
		"historyRecords": count,
	}
}
