package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BlockKind is the tag of a content block.
type BlockKind string

// Known block kinds.
const (
	KindParagraph BlockKind = "paragraph"
	KindTable     BlockKind = "table"
	KindKVList    BlockKind = "kv-list"
)

// Block is one typed piece of passage content. The set of implementations is closed:
// Paragraph, Table, KVList and Unknown.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// Paragraph is free text. Line breaks inside Text are significant.
type Paragraph struct {
	Text string
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// KVList is a list of label/value pairs, typically amounts.
type KVList struct {
	Items []KVItem
}

// KVItem is one entry of a KVList.
type KVItem struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Unknown holds a block whose tag is not recognized. Raw is compacted JSON.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (Paragraph) Kind() BlockKind { return KindParagraph }
func (Table) Kind() BlockKind     { return KindTable }
func (KVList) Kind() BlockKind    { return KindKVList }
func (u Unknown) Kind() BlockKind { return BlockKind(u.Type) }

func (Paragraph) isBlock() {}
func (Table) isBlock()     {}
func (KVList) isBlock()    {}
func (Unknown) isBlock()   {}

// Content is the ordered block list of a passage.
type Content []Block

type paragraphWire struct {
	Type BlockKind `json:"type"`
	Text string    `json:"text"`
}

type tableWire struct {
	Type    BlockKind  `json:"type"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type kvListWire struct {
	Type  BlockKind `json:"type"`
	Items []KVItem  `json:"items"`
}

// MarshalJSON encodes blocks with their "type" tag. A nil Content encodes as null.
func (c Content) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	out := make([]json.RawMessage, 0, len(c))
	for i, block := range c {
		var (
			data []byte
			err  error
		)
		switch b := block.(type) {
		case Paragraph:
			data, err = json.Marshal(paragraphWire{Type: KindParagraph, Text: b.Text})
		case Table:
			data, err = json.Marshal(tableWire{Type: KindTable, Headers: b.Headers, Rows: b.Rows})
		case KVList:
			data, err = json.Marshal(kvListWire{Type: KindKVList, Items: b.Items})
		case Unknown:
			data = b.Raw
			if len(data) == 0 {
				data, err = json.Marshal(map[string]string{"type": b.Type})
			}
		case nil:
			return nil, fmt.Errorf("content block %d is nil", i)
		default:
			return nil, fmt.Errorf("content block %d has unsupported type %T", i, block)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to encode content block %d: %w", i, err)
		}
		out = append(out, data)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes tagged blocks. Unrecognized tags become Unknown blocks.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*c = nil
		return nil
	}
	blocks := make(Content, 0, len(raws))
	for i, raw := range raws {
		block, err := decodeBlock(raw)
		if err != nil {
			return fmt.Errorf("content block %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}
	*c = blocks
	return nil
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		head.Type = ""
	}
	switch BlockKind(head.Type) {
	case KindParagraph:
		var w paragraphWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return Paragraph{Text: w.Text}, nil
	case KindTable:
		var w tableWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return Table{Headers: w.Headers, Rows: w.Rows}, nil
	case KindKVList:
		var w kvListWire
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return KVList{Items: w.Items}, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return Unknown{Type: head.Type, Raw: buf.Bytes()}, nil
	}
}
