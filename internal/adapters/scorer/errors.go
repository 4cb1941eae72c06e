package scorer

import "errors"

// Sentinel kinds for scorer invocation errors.
var (
	ErrProcessFailure  = errors.New("scorer process failed")
	ErrTimeout         = errors.New("scorer timed out")
	ErrMalformedOutput = errors.New("scorer output is not an integer")
	ErrOutOfRange      = errors.New("scorer output out of range")
)
