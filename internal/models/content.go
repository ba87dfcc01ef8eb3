package models

import (
	"fmt"
	"strings"
)

// BlockType identifies a content block variant.
type BlockType string

// Block variants understood by renderers.
const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockBullets   BlockType = "bullets"
	BlockTable     BlockType = "table"
)

// Heading levels. Level 1 is reserved for the page title.
const (
	HeadingH2 = 2
	HeadingH3 = 3
)

// Block is a single renderable unit of a term or guide body.
// Which fields are meaningful depends on Type.
type Block struct {
	Type    BlockType  `json:"type" toml:"type"`
	Level   int        `json:"level,omitempty" toml:"level,omitempty"`
	Text    string     `json:"text,omitempty" toml:"text,omitempty"`
	Items   []string   `json:"items,omitempty" toml:"items,omitempty"`
	Columns []string   `json:"columns,omitempty" toml:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty" toml:"rows,omitempty"`
}

// Heading returns a heading block.
func Heading(level int, text string) Block {
	return Block{Type: BlockHeading, Level: level, Text: text}
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Type: BlockParagraph, Text: text}
}

// Bullets returns a bullet list block. Items are copied.
func Bullets(items ...string) Block {
	return Block{Type: BlockBullets, Items: append([]string(nil), items...)}
}

// Table returns a table block. Columns and rows are copied.
func Table(columns []string, rows [][]string) Block {
	b := Block{Type: BlockTable, Columns: append([]string(nil), columns...)}
	if rows != nil {
		b.Rows = make([][]string, len(rows))
		for i, row := range rows {
			b.Rows[i] = append([]string(nil), row...)
		}
	}
	return b
}

// Validate checks the block against the invariants of its variant.
func (b Block) Validate() error {
	switch b.Type {
	case BlockHeading:
		if b.Level != HeadingH2 && b.Level != HeadingH3 {
			return fmt.Errorf("heading level %d: must be %d or %d", b.Level, HeadingH2, HeadingH3)
		}
		if strings.TrimSpace(b.Text) == "" {
			return fmt.Errorf("heading text is empty")
		}
	case BlockParagraph:
		if strings.TrimSpace(b.Text) == "" {
			return fmt.Errorf("paragraph text is empty")
		}
	case BlockBullets:
		if len(b.Items) == 0 {
			return fmt.Errorf("bullet list has no items")
		}
		for i, item := range b.Items {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("bullet item %d is empty", i)
			}
		}
	case BlockTable:
		if len(b.Columns) == 0 {
			return fmt.Errorf("table has no columns")
		}
		for i, row := range b.Rows {
			if len(row) != len(b.Columns) {
				return fmt.Errorf("table row %d has %d cells, want %d", i, len(row), len(b.Columns))
			}
		}
	default:
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	return nil
}

// FAQ is a question and answer owned by a term or guide.
type FAQ struct {
	Question string `json:"question" toml:"question"`
	Answer   string `json:"answer" toml:"answer"`
}
