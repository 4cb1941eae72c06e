package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/mindcheck/internal/domain/types"
)

// timestampStorageLayout is how timestamps are written to the database.
// Records are ordered by id, which is monotonic with insertion.
const timestampStorageLayout = time.RFC3339Nano

const schema = `CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	name TEXT,
	note TEXT,
	total_score INTEGER NOT NULL,
	category TEXT NOT NULL
);`

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db         *sql.DB
	maxNameLen int
	maxNoteLen int
}

// Open creates (or opens) the history database at path and bootstraps the
// schema. The caller owns the store lifecycle and must Close it.
func Open(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// SQLite supports one writer at a time; a single connection keeps
	// concurrent inserts serialized instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap history schema: %w", err)
	}

	s := &SQLiteStore{
		db:         db,
		maxNameLen: defaultMaxNameLen,
		maxNoteLen: defaultMaxNoteLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history db: %w", err)
	}
	return nil
}

// Insert implements Store.
func (s *SQLiteStore) Insert(ctx context.Context, name, note string, totalScore int, category string) (types.Record, error) {
	name = normalize(name, s.maxNameLen)
	note = normalize(note, s.maxNoteLen)
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Record{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO results (timestamp, name, note, total_score, category) VALUES (?, ?, ?, ?, ?)`,
		now.Format(timestampStorageLayout),
		nullable(name),
		nullable(note),
		totalScore,
		category,
	)
	if err != nil {
		_ = tx.Rollback()
		return types.Record{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return types.Record{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := tx.Commit(); err != nil {
		return types.Record{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	return types.Record{
		ID:         id,
		Timestamp:  now,
		Name:       name,
		Note:       note,
		TotalScore: totalScore,
		Category:   category,
	}, nil
}

// ListAll implements Store. Records come back newest first.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, name, note, total_score, category FROM results ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var (
			r          types.Record
			ts         string
			name, note sql.NullString
		)
		if err := rows.Scan(&r.ID, &ts, &name, &note, &r.TotalScore, &r.Category); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
		}
		t, err := time.Parse(timestampStorageLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrReadFailure, ts, err)
		}
		r.Timestamp = t.UTC()
		r.Name = name.String
		r.Note = note.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return records, nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM results`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return deleted, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return n, nil
}

// normalize trims surrounding whitespace and caps the rune length.
func normalize(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	return s
}

// nullable stores empty-after-trim optional fields as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Store = (*SQLiteStore)(nil)
