package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

// Role tells the presentation layer how a line should be styled.
type Role int

// Line roles.
const (
	RoleText Role = iota
	RoleTitle
	RoleMeta
	RoleTableHeader
	RoleTableRule
	RoleTableRow
	RoleKV
	RoleKVHighlight
	RoleBlank
)

// Line is one display line of laid-out content.
type Line struct {
	Text string
	Role Role
}

// Passage lays out a whole passage for the given width.
func Passage(p model.Passage, width int) []Line {
	var lines []Line
	if p.Title != "" {
		for _, l := range Wrap(p.Title, width) {
			lines = append(lines, Line{Text: l, Role: RoleTitle})
		}
	}
	for _, meta := range p.Meta {
		for _, l := range Wrap(meta.Label+": "+meta.Value, width) {
			lines = append(lines, Line{Text: l, Role: RoleMeta})
		}
	}
	for _, block := range p.Content {
		view, ok := Block(block)
		if !ok {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, Line{Role: RoleBlank})
		}
		lines = append(lines, view.Lines(width)...)
	}
	return lines
}

// Lines lays out a view for the given width.
func (v View) Lines(width int) []Line {
	switch v.Kind {
	case model.KindParagraph:
		var lines []Line
		for _, text := range v.Text {
			for _, l := range wrapLine(text, width) {
				role := RoleText
				if l == "" {
					role = RoleBlank
				}
				lines = append(lines, Line{Text: l, Role: role})
			}
		}
		return lines
	case model.KindTable:
		return tableLines(v.Headers, v.Rows, width)
	case model.KindKVList:
		return kvLines(v.Items, width)
	default:
		return nil
	}
}

// Wrap wraps text to width display cells, keeping explicit line breaks.
func Wrap(text string, width int) []string {
	var out []string
	for _, line := range splitLines(text) {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	runes := []rune(s)
	var out []string
	line := make([]rune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		r := runes[i]
		if len(line) == 0 && len(out) > 0 && r == ' ' {
			i++
			continue
		}
		w := runewidth.RuneWidth(r)
		if lineWidth+w > width && len(line) > 0 {
			if lastSpaceIdx > 0 {
				out = append(out, string(line[:lastSpaceIdx]))
				line = append([]rune{}, line[lastSpaceIdx+1:]...)
				lineWidth = runewidth.StringWidth(string(line))
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out = append(out, string(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	if len(line) > 0 {
		out = append(out, string(line))
	}
	return out
}

func lastSpaceIndex(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i
		}
	}
	return -1
}

func tableLines(headers []string, rows [][]string, width int) []Line {
	rightAlign := map[int]bool{}
	for col := range headers {
		rightAlign[col] = numericColumn(rows, col)
	}
	formatted := formatTable(headers, rows, rightAlign)
	if len(formatted) == 0 {
		return nil
	}
	lines := make([]Line, 0, len(formatted)+1)
	lines = append(lines, Line{Text: fit(formatted[0], width), Role: RoleTableHeader})
	rule := strings.Repeat("-", runewidth.StringWidth(formatted[0]))
	lines = append(lines, Line{Text: fit(rule, width), Role: RoleTableRule})
	for _, row := range formatted[1:] {
		lines = append(lines, Line{Text: fit(row, width), Role: RoleTableRow})
	}
	return lines
}

func kvLines(items []model.KVItem, width int) []Line {
	labelWidth, valueWidth := 0, 0
	for _, item := range items {
		if w := displayWidth(item.Label); w > labelWidth {
			labelWidth = w
		}
		if w := displayWidth(item.Value); w > valueWidth {
			valueWidth = w
		}
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		text := padCell(item.Label, labelWidth, false) + "    " + padCell(item.Value, valueWidth, true)
		role := RoleKV
		if item.Highlight {
			role = RoleKVHighlight
		}
		lines = append(lines, Line{Text: fit(text, width), Role: role})
	}
	return lines
}

func fit(line string, width int) string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}

func numericColumn(rows [][]string, col int) bool {
	seen := false
	for _, row := range rows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		if !isNumeric(row[col]) {
			return false
		}
		seen = true
	}
	return seen
}

func isNumeric(value string) bool {
	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("$¥€£.,%+- ", r):
		default:
			return false
		}
	}
	return digits > 0
}
