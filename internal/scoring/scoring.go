// Package scoring computes attempt scores and option presentation states.
package scoring

import "github.com/verte-zerg/tuitoeic/internal/model"

// OptionState is the presentation class of one option.
type OptionState string

// Option states.
const (
	Neutral                   OptionState = "neutral"
	SelectedUnchecked         OptionState = "selected-unchecked"
	CorrectRevealed           OptionState = "correct-revealed"
	IncorrectSelectedRevealed OptionState = "incorrect-selected-revealed"
	UnselectedRevealed        OptionState = "unselected-revealed"
)

// Score counts questions whose selected option equals the correct one.
// Missing answers count as wrong.
func Score(questions []model.Question, answers map[int]string) int {
	count := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && selected == q.Correct {
			count++
		}
	}
	return count
}

// IsCorrect reports whether the answer recorded for q is correct.
func IsCorrect(q model.Question, answers map[int]string) bool {
	selected, ok := answers[q.ID]
	return ok && selected == q.Correct
}

// Classify maps an option to its presentation state.
func Classify(q model.Question, optionID string, answers map[int]string, checked bool) OptionState {
	selected, hasSelection := answers[q.ID]
	isSelected := hasSelection && selected == optionID
	if !checked {
		if isSelected {
			return SelectedUnchecked
		}
		return Neutral
	}
	switch {
	case optionID == q.Correct:
		return CorrectRevealed
	case isSelected:
		return IncorrectSelectedRevealed
	default:
		return UnselectedRevealed
	}
}

// Percent returns score/total as a percentage, 0 when total is 0.
func Percent(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
