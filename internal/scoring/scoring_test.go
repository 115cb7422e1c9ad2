package scoring

import (
	"testing"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

func sampleQuestions() []model.Question {
	opts := []model.Option{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}
	return []model.Question{
		{ID: 7, Correct: "B", Options: opts},
		{ID: 8, Correct: "D", Options: opts},
		{ID: 9, Correct: "C", Options: opts},
	}
}

func TestScoreScenario(t *testing.T) {
	answers := map[int]string{7: "B", 8: "A", 9: "C"}
	if got := Score(sampleQuestions(), answers); got != 2 {
		t.Fatalf("expected score 2, got %d", got)
	}
}

func TestScoreEmptyAnswers(t *testing.T) {
	if got := Score(sampleQuestions(), map[int]string{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Score(sampleQuestions(), nil); got != 0 {
		t.Fatalf("expected 0 for nil answers, got %d", got)
	}
}

func TestScoreNeverExceedsQuestionCount(t *testing.T) {
	qs := sampleQuestions()
	cases := []map[int]string{
		{7: "B", 8: "D", 9: "C"},
		{7: "B", 8: "D", 9: "C", 42: "A"},
		{1: "A", 2: "B"},
	}
	for _, answers := range cases {
		if got := Score(qs, answers); got > len(qs) {
			t.Fatalf("score %d exceeds %d for %v", got, len(qs), answers)
		}
	}
	if got := Score(qs, cases[1]); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestClassifyBeforeCheck(t *testing.T) {
	q := sampleQuestions()[0]
	answers := map[int]string{7: "A"}
	for _, opt := range q.Options {
		want := Neutral
		if opt.ID == "A" {
			want = SelectedUnchecked
		}
		if got := Classify(q, opt.ID, answers, false); got != want {
			t.Fatalf("option %s: expected %s, got %s", opt.ID, want, got)
		}
	}
}

func TestClassifyAfterCheck(t *testing.T) {
	q := sampleQuestions()[0]
	answers := map[int]string{7: "A"}
	want := map[string]OptionState{
		"A": IncorrectSelectedRevealed,
		"B": CorrectRevealed,
		"C": UnselectedRevealed,
		"D": UnselectedRevealed,
	}
	for id, state := range want {
		if got := Classify(q, id, answers, true); got != state {
			t.Fatalf("option %s: expected %s, got %s", id, state, got)
		}
	}
}

func TestClassifyCorrectRevealedWithoutSelection(t *testing.T) {
	q := sampleQuestions()[1]
	if got := Classify(q, "D", map[int]string{}, true); got != CorrectRevealed {
		t.Fatalf("expected correct-revealed, got %s", got)
	}
	if got := Classify(q, "D", map[int]string{8: "D"}, true); got != CorrectRevealed {
		t.Fatalf("expected correct-revealed for correct selection, got %s", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(2, 3); got < 66.6 || got > 66.7 {
		t.Fatalf("unexpected percent %.2f", got)
	}
	if got := Percent(1, 0); got != 0 {
		t.Fatalf("expected 0 for empty total, got %.2f", got)
	}
}
