package exercise

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// SentenceTitle is the passage title of converted sentence-completion questions.
const SentenceTitle = "Part 5: Incomplete Sentences"

// SentenceQuestionID is the question id of converted sentence-completion questions.
const SentenceQuestionID = 101

var optionLabels = []string{"A", "B", "C", "D"}

// FromSentence converts a sentence-completion question into a one-question exercise
// with options labeled A-D. The answer is matched against option texts ignoring case
// and surrounding space, or taken as a label when it names one directly.
func FromSentence(sq model.SentenceQuestion) (model.Exercise, error) {
	if strings.TrimSpace(sq.Question) == "" {
		return model.Exercise{}, fmt.Errorf("sentence question is empty")
	}
	if len(sq.Options) < 2 || len(sq.Options) > len(optionLabels) {
		return model.Exercise{}, fmt.Errorf("sentence question has %d options, want 2-%d", len(sq.Options), len(optionLabels))
	}
	options := make([]model.Option, len(sq.Options))
	correct := ""
	answer := strings.TrimSpace(sq.Answer)
	for i, text := range sq.Options {
		options[i] = model.Option{ID: optionLabels[i], Text: text}
		if correct == "" && strings.EqualFold(strings.TrimSpace(text), answer) {
			correct = optionLabels[i]
		}
	}
	if correct == "" {
		for _, opt := range options {
			if strings.EqualFold(opt.ID, answer) {
				correct = opt.ID
				break
			}
		}
	}
	if correct == "" {
		return model.Exercise{}, fmt.Errorf("answer %q is not one of the options", sq.Answer)
	}
	return model.Exercise{
		Passage: model.Passage{
			Title:   SentenceTitle,
			Content: model.Content{model.Paragraph{Text: "Choose the word or phrase that best completes the sentence."}},
		},
		Questions: []model.Question{{
			ID:          SentenceQuestionID,
			Text:        sq.Question,
			Correct:     correct,
			Explanation: sq.Explanation,
			Options:     options,
		}},
	}, nil
}
