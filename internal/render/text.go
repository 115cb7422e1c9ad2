package render

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// Text formats an exercise as plain text. With answers set, each question is
// followed by its correct option and explanation.
func Text(ex model.Exercise, width int, answers bool) string {
	var b strings.Builder
	for _, line := range Passage(ex.Passage, width) {
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	for _, q := range ex.Questions {
		b.WriteByte('\n')
		for _, line := range Wrap(fmt.Sprintf("Q%d. %s", q.ID, q.Text), width) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		for _, opt := range q.Options {
			for i, line := range Wrap(fmt.Sprintf("(%s) %s", opt.ID, opt.Text), width-4) {
				indent := "  "
				if i > 0 {
					indent = "      "
				}
				b.WriteString(indent + line + "\n")
			}
		}
		if !answers {
			continue
		}
		fmt.Fprintf(&b, "  Answer: (%s)\n", q.Correct)
		if q.Explanation != "" {
			for _, line := range Wrap(q.Explanation, width-4) {
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return b.String()
}
