package repository

// Default field length caps, matching the original schema.
const (
	defaultMaxNameLen = 100
	defaultMaxNoteLen = 255
)

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithMaxNameLen caps the stored name length in runes.
func WithMaxNameLen(n int) Option {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.maxNameLen = n
		}
	}
}

// WithMaxNoteLen caps the stored note length in runes.
func WithMaxNoteLen(n int) Option {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.maxNoteLen = n
		}
	}
}
