// Package classify maps a questionnaire total score to a risk tier.
package classify

// Score bounds for a 10-question submission answered on a 0-3 scale.
const (
	MinTotal = 0
	MaxTotal = 30
)

// Tier upper bounds, inclusive.
const (
	goodMax = 9
	mildMax = 19
)

// Category names.
const (
	CategoryGood = "Good"
	CategoryMild = "Needs Mild Attention"
	CategoryHigh = "Consultation Recommended"
)

// Result carries the classification for a total score.
type Result struct {
	Category string
	Advice   string
	Color    string
}

var tiers = []struct {
	max    int
	result Result
}{
	{
		max: goodMax,
		result: Result{
			Category: CategoryGood,
			Advice:   "Maintain your healthy routine and keep up the self reflection. Focus on sleep quality and positive social connections.",
			Color:    "#16a34a",
		},
	},
	{
		max: mildMax,
		result: Result{
			Category: CategoryMild,
			Advice:   "Try to structure your daily schedule, practice light relaxation techniques, and make sure you get enough rest.",
			Color:    "#f59e0b",
		},
	},
	{
		max: MaxTotal,
		result: Result{
			Category: CategoryHigh,
			Advice:   "The score indicates a need for closer attention. Consider consulting a mental health professional soon.",
			Color:    "#ef4444",
		},
	},
}

// Clamp forces total into [MinTotal, MaxTotal]. The second return value
// reports whether clamping happened so the caller can log it.
func Clamp(total int) (int, bool) {
	switch {
	case total < MinTotal:
		return MinTotal, true
	case total > MaxTotal:
		return MaxTotal, true
	default:
		return total, false
	}
}

// Classify returns the tier for total. Totals outside [MinTotal, MaxTotal]
// are clamped to the nearest bound before the tier lookup; the second return
// value reports whether clamping happened. Classify never fails.
func Classify(total int) (Result, bool) {
	total, clamped := Clamp(total)
	for _, t := range tiers {
		if total <= t.max {
			return t.result, clamped
		}
	}
	// Unreachable: total is clamped to MaxTotal above.
	return tiers[len(tiers)-1].result, clamped
}
