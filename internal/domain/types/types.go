// Package types contains common types used across the application
package types

import "time"

// TimestampLayout is the wire format for record timestamps, both in the
// history API and the CSV export. UTC, second precision, no zone suffix.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one persisted scored submission. Name and Note are optional;
// the empty string means the field was absent.
type Record struct {
	ID         int64
	Timestamp  time.Time
	Name       string
	Note       string
	TotalScore int
	Category   string
}

// HistoryEntry mirrors the read shape returned by GET /api/history.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Category  string `json:"category"`
	Note      string `json:"note"`
}

// ScoredResult is the outcome of scoring and classifying one submission.
type ScoredResult struct {
	TotalScore int    `json:"total_score"`
	Category   string `json:"category"`
	Advice     string `json:"advice"`
	Color      string `json:"color"`
}

// Entry converts a record to its history API shape.
func (r Record) Entry() HistoryEntry {
	return HistoryEntry{
		Timestamp: r.Timestamp.UTC().Format(TimestampLayout),
		Name:      r.Name,
		Total:     r.TotalScore,
		Category:  r.Category,
		Note:      r.Note,
	}
}
