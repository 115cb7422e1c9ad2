// Package exercise validates, converts and provides built-in exercises.
package exercise

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// MaxOptions is the largest number of options a question may carry.
const MaxOptions = 4

// Issue is one structural problem found in an exercise.
type Issue struct {
	// Question is the id of the offending question, 0 for passage issues.
	Question int
	Message  string
	Blocking bool
}

func (i Issue) String() string {
	if i.Question == 0 {
		return i.Message
	}
	return fmt.Sprintf("question %d: %s", i.Question, i.Message)
}

// Issues is the result of Validate.
type Issues []Issue

// Blocking returns the issues that make an exercise unusable.
func (is Issues) Blocking() Issues {
	var out Issues
	for _, issue := range is {
		if issue.Blocking {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings returns the tolerated issues.
func (is Issues) Warnings() Issues {
	var out Issues
	for _, issue := range is {
		if !issue.Blocking {
			out = append(out, issue)
		}
	}
	return out
}

// String joins the issues with "; ".
func (is Issues) String() string {
	parts := make([]string, len(is))
	for i, issue := range is {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// Err returns a *ValidationError when any blocking issue is present.
func (is Issues) Err() error {
	blocking := is.Blocking()
	if len(blocking) == 0 {
		return nil
	}
	return &ValidationError{Issues: blocking}
}

// ValidationError reports blocking issues.
type ValidationError struct {
	Issues Issues
}

func (e *ValidationError) Error() string {
	return "invalid exercise: " + e.Issues.String()
}

// Validate checks the structural rules of an exercise. Passage problems are
// warnings since the renderer skips what it cannot draw; question problems
// that break scoring are blocking.
func Validate(ex model.Exercise) Issues {
	var issues Issues
	if strings.TrimSpace(ex.Passage.Title) == "" {
		issues = append(issues, Issue{Message: "passage title is empty"})
	}
	for i, block := range ex.Passage.Content {
		switch b := block.(type) {
		case model.Table:
			for r, row := range b.Rows {
				if len(row) != len(b.Headers) {
					issues = append(issues, Issue{
						Message: fmt.Sprintf("content block %d: row %d has %d cells, want %d", i, r, len(row), len(b.Headers)),
					})
				}
			}
		case model.Unknown:
			issues = append(issues, Issue{Message: fmt.Sprintf("content block %d: unknown type %q", i, b.Type)})
		}
	}

	if len(ex.Questions) == 0 {
		issues = append(issues, Issue{Message: "exercise has no questions", Blocking: true})
	}
	seen := map[int]bool{}
	for _, q := range ex.Questions {
		if seen[q.ID] {
			issues = append(issues, Issue{Question: q.ID, Message: "duplicate question id", Blocking: true})
		}
		seen[q.ID] = true
		issues = append(issues, validateQuestion(q)...)
	}
	return issues
}

func validateQuestion(q model.Question) Issues {
	var issues Issues
	if len(q.Options) < 2 {
		issues = append(issues, Issue{Question: q.ID, Message: fmt.Sprintf("has %d options, want at least 2", len(q.Options)), Blocking: true})
	}
	if len(q.Options) > MaxOptions {
		issues = append(issues, Issue{Question: q.ID, Message: fmt.Sprintf("has %d options, want at most %d", len(q.Options), MaxOptions), Blocking: true})
	}
	ids := map[string]bool{}
	for _, opt := range q.Options {
		if ids[opt.ID] {
			issues = append(issues, Issue{Question: q.ID, Message: fmt.Sprintf("duplicate option id %q", opt.ID), Blocking: true})
		}
		ids[opt.ID] = true
	}
	if !ids[q.Correct] {
		issues = append(issues, Issue{Question: q.ID, Message: fmt.Sprintf("correct option %q is not among the options", q.Correct), Blocking: true})
	}
	return issues
}
