// Package repository defines the history store interface and errors.
package repository

import (
	"context"

	"github.com/okian/mindcheck/internal/domain/types"
)

// Store provides durable access to scored-submission history.
type Store interface {
	// Insert appends one record. It trims and length-caps name/note,
	// assigns the UTC timestamp and auto-increment id, and is atomic:
	// on error no partial record is visible.
	Insert(ctx context.Context, name, note string, totalScore int, category string) (types.Record, error)

	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]types.Record, error)

	// Clear deletes all records atomically and returns the exact number
	// removed. On error the store is left unchanged.
	Clear(ctx context.Context) (int64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
