package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// StripFences removes markdown code fences the upstream may wrap JSON in.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string, e.g. "json".
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseExercise decodes a Part 7 exercise from upstream text.
func ParseExercise(text string) (model.Exercise, error) {
	var ex model.Exercise
	if err := json.Unmarshal([]byte(StripFences(text)), &ex); err != nil {
		return model.Exercise{}, fmt.Errorf("failed to decode exercise: %w", err)
	}
	return ex, nil
}

// ParseSentence decodes a Part 5 question from upstream text.
func ParseSentence(text string) (model.SentenceQuestion, error) {
	var sq model.SentenceQuestion
	if err := json.Unmarshal([]byte(StripFences(text)), &sq); err != nil {
		return model.SentenceQuestion{}, fmt.Errorf("failed to decode sentence question: %w", err)
	}
	return sq, nil
}
