// Package scoring defines the contract for turning a submission into a
// total score.
package scoring

import (
	"context"
	"fmt"
)

// Submission shape constants.
const (
	// AnswerCount is the fixed number of questionnaire answers.
	AnswerCount = 10
	// MinAnswer and MaxAnswer bound each individual answer.
	MinAnswer = 0
	MaxAnswer = 3
)

// reverseScored marks the questions whose answers contribute inverted
// (MaxAnswer - v) to the total. Questions 5 and 9, zero-indexed.
var reverseScored = [AnswerCount]bool{
	false, false, false, false, true,
	false, false, false, true, false,
}

// Scorer computes a total score from a validated submission. Implementations
// may call out of process and must honor ctx for cancellation.
type Scorer interface {
	// Score returns the total score for answers.
	Score(ctx context.Context, answers []int) (int, error)
}

// Validate checks the submission shape: exactly AnswerCount answers, each in
// [MinAnswer, MaxAnswer]. Out-of-range answers are rejected, never clamped.
func Validate(answers []int) error {
	if len(answers) != AnswerCount {
		return fmt.Errorf("%w: got %d answers, want %d", ErrAnswerCount, len(answers), AnswerCount)
	}
	for i, v := range answers {
		if v < MinAnswer || v > MaxAnswer {
			return fmt.Errorf("%w: answer %d is %d, want %d-%d", ErrAnswerRange, i+1, v, MinAnswer, MaxAnswer)
		}
	}
	return nil
}

// InProcessScorer implements Scorer without spawning the external
// executable. It reproduces the executable's scoring rule and exists so
// callers can be tested in process.
type InProcessScorer struct{}

// NewInProcessScorer creates a new in-process scorer.
func NewInProcessScorer() *InProcessScorer {
	return &InProcessScorer{}
}

// Score sums the answers, inverting the reverse-scored questions.
func (s *InProcessScorer) Score(_ context.Context, answers []int) (int, error) {
	if err := Validate(answers); err != nil {
		return 0, err
	}
	total := 0
	for i, v := range answers {
		if reverseScored[i] {
			total += MaxAnswer - v
		} else {
			total += v
		}
	}
	return total, nil
}
