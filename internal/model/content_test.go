package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestContentDecodesTaggedBlocks(t *testing.T) {
	raw := `[
		{"type": "paragraph", "text": "Dear Ms. Jenkins,\n\nThank you."},
		{"type": "table", "headers": ["Item", "Qty"], "rows": [["Pens", "5"]]},
		{"type": "kv-list", "items": [{"label": "Total", "value": "$157.00", "highlight": true}]},
		{"type": "chart", "series": [1, 2]}
	]`
	var c Content
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(c))
	}
	p, ok := c[0].(Paragraph)
	if !ok || !strings.Contains(p.Text, "\n\n") {
		t.Fatalf("expected paragraph with line breaks, got %#v", c[0])
	}
	tbl, ok := c[1].(Table)
	if !ok || len(tbl.Headers) != 2 || len(tbl.Rows) != 1 {
		t.Fatalf("unexpected table: %#v", c[1])
	}
	kv, ok := c[2].(KVList)
	if !ok || len(kv.Items) != 1 || !kv.Items[0].Highlight {
		t.Fatalf("unexpected kv-list: %#v", c[2])
	}
	unk, ok := c[3].(Unknown)
	if !ok || unk.Kind() != "chart" {
		t.Fatalf("expected unknown chart block, got %#v", c[3])
	}
	if string(unk.Raw) != `{"type":"chart","series":[1,2]}` {
		t.Fatalf("unexpected raw: %s", unk.Raw)
	}
}

func TestContentRoundTrip(t *testing.T) {
	in := Content{
		Paragraph{Text: "line one\nline two"},
		Table{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
		KVList{Items: []KVItem{{Label: "Shipping", Value: "Free"}, {Label: "Total", Value: "$1", Highlight: true}}},
		Unknown{Type: "chart", Raw: json.RawMessage(`{"type":"chart"}`)},
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Content
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n%#v\n%#v", in, out)
	}
}

func TestNilContentRoundTrip(t *testing.T) {
	in := Exercise{
		Passage:   Passage{Title: "Memo"},
		Questions: []Question{{ID: 1, Correct: "A", Options: []Option{{ID: "A"}, {ID: "B"}}}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Exercise
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: in.Content=%#v out.Content=%#v", in.Passage.Content, out.Passage.Content)
	}

	empty := Passage{Content: Content{}}
	data, err = json.Marshal(empty)
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	var back Passage
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if back.Content == nil || len(back.Content) != 0 {
		t.Fatalf("expected empty non-nil content, got %#v", back.Content)
	}
}

func TestKVItemOmitsFalseHighlight(t *testing.T) {
	data, err := json.Marshal(Content{KVList{Items: []KVItem{{Label: "Subtotal", Value: "$157.00"}}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "highlight") {
		t.Fatalf("expected highlight to be omitted: %s", data)
	}
}

func TestContentRejectsNilBlock(t *testing.T) {
	if _, err := json.Marshal(Content{nil}); err == nil {
		t.Fatalf("expected error for nil block")
	}
}

func TestQuestionLookup(t *testing.T) {
	ex := Exercise{Questions: []Question{
		{ID: 7, Correct: "B", Options: []Option{{ID: "A"}, {ID: "B"}}},
	}}
	q, ok := ex.Question(7)
	if !ok {
		t.Fatalf("expected question 7")
	}
	if _, ok := q.Option("B"); !ok {
		t.Fatalf("expected option B")
	}
	if _, ok := q.Option("E"); ok {
		t.Fatalf("did not expect option E")
	}
	if _, ok := ex.Question(8); ok {
		t.Fatalf("did not expect question 8")
	}
}
