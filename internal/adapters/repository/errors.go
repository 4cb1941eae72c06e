package repository

import "errors"

// Sentinel kinds for history store errors.
var (
	ErrWriteFailure = errors.New("history write failed")
	ErrReadFailure  = errors.New("history read failed")
)
