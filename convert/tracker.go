package convert

import (
	"context"
	"fmt"

	"sdx/docx"
	"sdx/shelf"
)

// columnsForDepth maps the legacy encoded column hint carried on cell blocks
// to a column count. Total and deterministic; unexpected depths degrade to a
// single-column table.
func columnsForDepth(depth int) int {
	switch depth {
	case 0, 2:
		return 2
	case 1:
		return 4
	case 3:
		return 3
	default:
		return 1
	}
}

// tableState is the open-table handle of the cell state machine.
type tableState struct {
	tbl  *docx.Table
	cell int
}

// dictState is the open-dictionary handle. Dictionaries are always 3 columns
// with a separator middle column.
type dictState struct {
	tbl  *docx.Table
	cell int
}

// prevBlock returns the block immediately preceding the current one in
// document order, or nil at the start of the stream.
func (s *renderState) prevBlock() *shelf.Block {
	if s.index <= 0 || s.index > len(s.blocks) {
		return nil
	}
	return &s.blocks[s.index-1]
}

// addTableCell continues or opens a table for one cell block. Legacy streams
// (doc_version <= 2) decide continuation by lookback: a preceding block that
// is not a cell, or a cell at a different depth, closes the open table.
// Version 3 streams carry an explicit table descriptor on the first cell.
func (s *renderState) addTableCell(ctx context.Context, b *shelf.Block) error {
	if s.docVersion >= 3 {
		if b.Data != nil && b.Data.Table != nil {
			cols := b.Data.Table.Cols
			if cols < 1 {
				cols = 1
			}
			tbl := s.doc.AddTable(1, cols)
			tbl.SetGridStyle()
			s.table = &tableState{tbl: tbl}
		}
	} else {
		prev := s.prevBlock()
		if prev == nil || prev.Type != shelf.BlockCell || prev.Depth != b.Depth {
			s.table = nil
		}
		if s.table == nil {
			tbl := s.doc.AddTable(1, columnsForDepth(b.Depth))
			tbl.SetGridStyle()
			s.table = &tableState{tbl: tbl}
		}
	}
	if s.table == nil {
		return fmt.Errorf("cell block without an open table")
	}

	rows := s.table.tbl.Rows()
	row := rows[len(rows)-1]
	if s.table.cell >= len(row.Cells()) {
		s.table.cell = 0
		row = s.table.tbl.AddRow()
	}
	s.addText(ctx, b, row.Cell(s.table.cell).Paragraph())
	s.table.cell++
	return nil
}

// addDictionaryEntry continues or opens a dictionary table. The middle column
// is a fixed-width separator and never receives text; even rows are shaded.
func (s *renderState) addDictionaryEntry(ctx context.Context, b *shelf.Block) error {
	prev := s.prevBlock()
	if prev == nil || prev.Type != shelf.BlockDictionary {
		s.dict = nil
	}
	if s.dict == nil {
		tbl := s.doc.AddTable(1, 3)
		tbl.SetGridStyle()
		s.dict = &dictState{tbl: tbl}
	}

	rows := s.dict.tbl.Rows()
	rowIdx := len(rows) - 1
	row := rows[rowIdx]
	if s.dict.cell >= len(row.Cells()) {
		s.dict.cell = 0
		row = s.dict.tbl.AddRow()
		rowIdx++
	}

	if rowIdx%2 == 0 {
		for _, c := range row.Cells() {
			c.SetShading("E7E7F9")
		}
	}
	if s.dict.cell == 1 {
		row.Cell(1).SetWidth(docx.Inches(0.3))
		s.dict.cell = 2
	}

	s.addText(ctx, b, row.Cell(s.dict.cell).Paragraph())
	s.dict.cell++
	return nil
}

// addListItem emits a list paragraph at the style level derived from the
// block depth. Ordered lists clamp the level and insert a separating blank
// paragraph when the style changes between consecutive items, so distinct
// lists at the same nesting restart visually.
func (s *renderState) addListItem(ctx context.Context, b *shelf.Block) {
	switch b.Type {
	case shelf.BlockOrderedListItem:
		level := b.Depth + 2
		if level > 4 {
			level = 3
		}
		style := fmt.Sprintf("List Number %d", level)
		if s.para == nil || s.para.StyleName() != style {
			s.newParagraph("")
			s.para.AddRun("\n")
		}
		s.newParagraph(style)
	case shelf.BlockUnorderedListItem:
		s.newParagraph(fmt.Sprintf("List Bullet %d", b.Depth+2))
	}
	s.addText(ctx, b, s.para)
}

// addHeaderStep emits a numbered step heading: the per-article step counter
// as a bold "{n}. " prefix, then the block's own text.
func (s *renderState) addHeaderStep(ctx context.Context, b *shelf.Block) {
	s.depth = b.Depth
	s.newParagraph("")

	s.steps++
	prefix := fmt.Sprintf("%d. ", s.steps)
	s.addText(ctx, &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: prefix,
		InlineStyleRanges: []shelf.InlineStyleRange{
			{Style: "header-step", Offset: 0, Length: len([]rune(prefix))},
		},
	}, s.para)
	s.addText(ctx, b, s.para)
}

// quoteVariant is one entry of the blockquote presentation lookup.
type quoteVariant struct {
	name    string // variant tag, also used to derive the paragraph style
	icon    string
	accent  string // icon color, hex RGB
	shading string // cell fill, hex RGB
	border  string // left border color, hex RGB
}

func quoteVariantFor(style string) quoteVariant {
	switch style {
	case "warning":
		return quoteVariant{name: "warning", icon: "🚨", accent: "C0504D", shading: "FFD9D9", border: "FF0000"}
	case "question":
		return quoteVariant{name: "question", icon: "❓", accent: "8064A2", shading: "E7FDF8", border: "00CC00"}
	default:
		return quoteVariant{name: "default", icon: "ℹ️", accent: "4F81BD", shading: "EAEEF2", border: "404040"}
	}
}

// addBlockquote renders a callout: a two-cell table with an icon column and a
// text column, colored per the style variant.
func (s *renderState) addBlockquote(ctx context.Context, b *shelf.Block) error {
	s.depth += b.Depth
	defer func() { s.depth -= b.Depth }()

	s.resetStructures()

	var style string
	if b.Data != nil {
		style = b.Data.Style
	}
	v := quoteVariantFor(style)
	styleName := v.name + " callout"

	s.newParagraph("")

	tbl := s.doc.AddTable(1, 2)
	iconCell := tbl.Row(0).Cell(0)
	textCell := tbl.Row(0).Cell(1)
	iconCell.SetWidth(docx.Inches(0.5))
	textCell.SetWidth(docx.Inches(6.0))

	s.addText(ctx, b, textCell.Paragraph())

	iconRun := iconCell.Paragraph().AddRun(v.icon)
	iconRun.SetColor(v.accent)

	iconCell.Paragraph().SetStyle(styleName)
	textCell.Paragraph().SetStyle(styleName)

	iconCell.SetBorder(docx.EdgeStart, docx.Border{Size: 12, Color: v.border, Val: "single"})
	iconCell.SetShading(v.shading)
	textCell.SetShading(v.shading)
	return nil
}
