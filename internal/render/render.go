// Package render turns passage content into presentation-agnostic views and
// terminal-width text lines.
package render

import "github.com/verte-zerg/tuitoeic/internal/model"

// View is the renderable form of one content block.
type View struct {
	Kind model.BlockKind
	// Text holds the paragraph lines, split on explicit line breaks.
	Text    []string
	Headers []string
	// Rows are normalized to len(Headers) cells.
	Rows  [][]string
	Items []model.KVItem
}

// Block converts a content block to a view. It returns false for blocks that
// render as nothing: unknown tags and tables without headers or rows.
func Block(b model.Block) (View, bool) {
	switch v := b.(type) {
	case model.Paragraph:
		return View{Kind: model.KindParagraph, Text: splitLines(v.Text)}, true
	case model.Table:
		if v.Headers == nil || v.Rows == nil {
			return View{}, false
		}
		rows := make([][]string, len(v.Rows))
		for i, row := range v.Rows {
			rows[i] = NormalizeRow(row, len(v.Headers))
		}
		return View{Kind: model.KindTable, Headers: v.Headers, Rows: rows}, true
	case model.KVList:
		return View{Kind: model.KindKVList, Items: v.Items}, true
	default:
		return View{}, false
	}
}

// NormalizeRow pads short rows with empty cells and truncates long rows to width.
func NormalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func splitLines(text string) []string {
	lines := []string{}
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}
