package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitoeic/internal/exercise"
	"github.com/verte-zerg/tuitoeic/internal/model"
)

func TestBlockSkipsUnknownAndEmptyTables(t *testing.T) {
	if _, ok := Block(model.Unknown{Type: "chart"}); ok {
		t.Fatalf("expected unknown block to be skipped")
	}
	if _, ok := Block(model.Table{Rows: [][]string{{"a"}}}); ok {
		t.Fatalf("expected headerless table to be skipped")
	}
	if _, ok := Block(model.Table{Headers: []string{"a"}}); ok {
		t.Fatalf("expected rowless table to be skipped")
	}
	if _, ok := Block(nil); ok {
		t.Fatalf("expected nil block to be skipped")
	}
}

func TestBlockParagraphKeepsLineBreaks(t *testing.T) {
	view, ok := Block(model.Paragraph{Text: "Dear Ms. Jenkins,\n\nThank you."})
	if !ok {
		t.Fatalf("expected paragraph view")
	}
	want := []string{"Dear Ms. Jenkins,", "", "Thank you."}
	if !reflect.DeepEqual(view.Text, want) {
		t.Fatalf("expected %q, got %q", want, view.Text)
	}
}

func TestMalformedTableRowsAreNormalized(t *testing.T) {
	tbl := model.Table{
		Headers: []string{"Item", "Qty", "Price", "Total"},
		Rows:    [][]string{{"Pens", "5", "$12.00"}, {"Paper", "10", "$8.50", "$85.00", "extra"}},
	}
	view, ok := Block(tbl)
	if !ok {
		t.Fatalf("expected table view")
	}
	for i, row := range view.Rows {
		if len(row) != 4 {
			t.Fatalf("row %d: expected 4 cells, got %d", i, len(row))
		}
	}
	if view.Rows[0][3] != "" {
		t.Fatalf("expected padded empty cell, got %q", view.Rows[0][3])
	}
	lines := view.Lines(80)
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d", len(lines))
	}
	if strings.Contains(lines[3].Text, "extra") {
		t.Fatalf("expected extra cell to be dropped: %q", lines[3].Text)
	}
}

func TestTableLinesAlign(t *testing.T) {
	ex := exercise.Demo()
	view, ok := Block(ex.Passage.Content[1])
	if !ok {
		t.Fatalf("expected table view")
	}
	lines := view.Lines(120)
	if lines[0].Role != RoleTableHeader || lines[1].Role != RoleTableRule || lines[2].Role != RoleTableRow {
		t.Fatalf("unexpected roles: %+v", lines)
	}
	width := runewidth.StringWidth(lines[0].Text)
	for _, line := range lines {
		if got := runewidth.StringWidth(line.Text); got != width {
			t.Fatalf("expected width %d, got %d for %q", width, got, line.Text)
		}
	}
	if !strings.HasSuffix(lines[2].Text, "$60.00") {
		t.Fatalf("expected right-aligned total: %q", lines[2].Text)
	}
}

func TestTableLinesTruncateToWidth(t *testing.T) {
	ex := exercise.Demo()
	view, _ := Block(ex.Passage.Content[1])
	for _, line := range view.Lines(30) {
		if got := runewidth.StringWidth(line.Text); got > 30 {
			t.Fatalf("line exceeds width: %d %q", got, line.Text)
		}
	}
}

func TestKVLinesHighlight(t *testing.T) {
	view, _ := Block(model.KVList{Items: []model.KVItem{
		{Label: "Subtotal", Value: "$157.00"},
		{Label: "Shipping", Value: "Free"},
		{Label: "Total", Value: "$157.00", Highlight: true},
	}})
	lines := view.Lines(80)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[2].Role != RoleKVHighlight || lines[0].Role != RoleKV {
		t.Fatalf("unexpected roles: %+v", lines)
	}
	if lines[1].Text != "Shipping       Free" {
		t.Fatalf("unexpected kv line: %q", lines[1].Text)
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  []string
	}{
		{"ab cd", 2, []string{"ab", "cd"}},
		{"hello world foo", 11, []string{"hello", "world foo"}},
		{"a\n\nb", 10, []string{"a", "", "b"}},
		{"解説です", 4, []string{"解説", "です"}},
		{"short", 0, []string{"short"}},
	}
	for _, tc := range cases {
		if got := Wrap(tc.text, tc.width); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Wrap(%q, %d): expected %q, got %q", tc.text, tc.width, tc.want, got)
		}
	}
}

func TestPassageLayout(t *testing.T) {
	p := exercise.Demo().Passage
	p.Content = append(p.Content, model.Unknown{Type: "chart"})
	lines := Passage(p, 60)
	if lines[0].Role != RoleTitle || lines[0].Text != "Order Confirmation #4592" {
		t.Fatalf("unexpected title line: %+v", lines[0])
	}
	if lines[1].Role != RoleMeta || lines[1].Text != "Subject: Order Confirmation #4592" {
		t.Fatalf("unexpected meta line: %+v", lines[1])
	}
	if last := lines[len(lines)-1]; last.Text != "Office World" {
		t.Fatalf("expected unknown block to add nothing, last line %+v", last)
	}
	for _, line := range lines {
		if runewidth.StringWidth(line.Text) > 60 {
			t.Fatalf("line exceeds width: %q", line.Text)
		}
	}
}

func TestPassageWithoutMeta(t *testing.T) {
	lines := Passage(model.Passage{Content: model.Content{model.Paragraph{Text: "x"}}}, 20)
	if len(lines) != 1 || lines[0].Text != "x" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestTextHidesAnswersByDefault(t *testing.T) {
	ex := exercise.Demo()
	out := Text(ex, 80, false)
	if !strings.Contains(out, "Q7. ") || !strings.Contains(out, "(B) To confirm receipt of a purchase request") {
		t.Fatalf("expected questions and options:\n%s", out)
	}
	if strings.Contains(out, "Answer:") {
		t.Fatalf("did not expect answers:\n%s", out)
	}
	withAnswers := Text(ex, 80, true)
	if !strings.Contains(withAnswers, "Answer: (B)") || !strings.Contains(withAnswers, "Answer: (D)") {
		t.Fatalf("expected answers:\n%s", withAnswers)
	}
}
