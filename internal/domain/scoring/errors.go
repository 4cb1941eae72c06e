package scoring

import "errors"

// Sentinel kinds for submission validation errors.
var (
	ErrAnswerCount = errors.New("wrong number of answers")
	ErrAnswerRange = errors.New("answer out of range")
)
