package convert

import (
	"context"

	"sdx/docx"
	"sdx/shelf"
)

// dispatch routes one block to its handler. The switch is exhaustive over the
// block type enum; unknown types degrade to plain text.
func (s *renderState) dispatch(ctx context.Context, b *shelf.Block) error {
	switch b.Type {
	case shelf.BlockUnstyled:
		if href, text, ok := s.blockLinkEntity(b); ok {
			s.addBlockLink(href, text)
			return nil
		}
		s.resetStructures()
		s.newParagraph("")
		s.depth += b.Depth
		s.addText(ctx, b, s.para)
		s.depth -= b.Depth
		return nil

	case shelf.BlockFigure:
		return s.addFigure(ctx, b)

	case shelf.BlockMdTable:
		s.addMarkdownTable(b)
		return nil

	case shelf.BlockHeaderTwo, shelf.BlockHeaderThree:
		s.addHeader(b)
		return nil

	case shelf.BlockOrderedListItem, shelf.BlockUnorderedListItem:
		s.addListItem(ctx, b)
		return nil

	case shelf.BlockDictionary:
		return s.addDictionaryEntry(ctx, b)

	case shelf.BlockCell:
		return s.addTableCell(ctx, b)

	case shelf.BlockBlockquote:
		return s.addBlockquote(ctx, b)

	case shelf.BlockHeaderStep:
		s.addHeaderStep(ctx, b)
		return nil

	case shelf.BlockCodeBlock:
		s.addCodeBlock(b)
		return nil

	case shelf.BlockVideo:
		return s.addVideo(ctx, b)

	case shelf.BlockGist:
		s.addGist(b)
		return nil

	case shelf.BlockSnippet:
		// references are spliced before dispatch; a leftover one is inert
		return nil

	case shelf.BlockUnknown:
		if b.Text != "" {
			s.addText(ctx, b, s.currentParagraph())
		}
		return nil
	}
	return nil
}

// blockLinkEntity reports whether the block carries a block-level link card:
// any entity range whose entity is presented with the "block" style hint.
func (s *renderState) blockLinkEntity(b *shelf.Block) (href, text string, ok bool) {
	for _, er := range b.EntityRanges {
		e, found := s.entities.Get(er.Key)
		if found && e.Data.Style == "block" {
			href = e.Data.Href
			text = b.Text
			ok = true
		}
	}
	return href, text, ok
}

// addBlockLink renders a block-level link card: the link text over the bare
// href, both italic.
func (s *renderState) addBlockLink(href, text string) {
	s.newParagraph("")

	title := s.para.AddRun(text + "\n")
	title.SetColor("4CAEE3")
	title.SetItalic()
	title.SetSize(12)
	title.SetFont(s.e.opts.FontName)

	link := s.para.AddRun(href)
	link.SetItalic()
	link.SetSize(12)
	link.SetFont(s.e.opts.FontName)
}

func (s *renderState) addHeader(b *shelf.Block) {
	switch b.Type {
	case shelf.BlockHeaderTwo:
		s.newParagraph(docx.StyleHeading1)
		run := s.para.AddRun(b.Text)
		run.SetSize(16)
		run.SetColor(s.e.opts.HeadingColor)
		run.SetFont(s.e.opts.FontName)
		run.SetBold()
	case shelf.BlockHeaderThree:
		s.newParagraph("")
		run := s.para.AddRun(b.Text)
		run.SetSize(12)
		run.SetFont(s.e.opts.FontName)
		run.SetColor(s.e.opts.TextColor)
		run.SetBold()
	}
}

// addCodeBlock renders a code block as a two-cell label/type table followed
// by a bordered monospace cell holding the code itself.
func (s *renderState) addCodeBlock(b *shelf.Block) {
	s.newParagraph("")

	var label, kind string
	if b.Data != nil {
		label, kind = b.Data.Label, b.Data.Type
	}
	info := s.doc.AddTable(1, 2)
	for i, text := range [...]string{label, kind} {
		run := info.Row(0).Cell(i).SetText(text)
		run.SetSize(s.e.opts.FontSize)
		run.SetFont(s.e.opts.FontName)
	}

	s.addPreformattedCell(b.Text)
}

// addGist renders an embedded gist reference as a single bordered monospace
// cell carrying the source URL.
func (s *renderState) addGist(b *shelf.Block) {
	s.newParagraph("")
	var src string
	if b.Data != nil {
		src = b.Data.Src
	}
	s.addPreformattedCell(src)
}

// addPreformattedCell emits the shared bordered monospace single-cell table.
func (s *renderState) addPreformattedCell(text string) {
	tbl := s.doc.AddTable(1, 1)
	cell := tbl.Row(0).Cell(0)
	cell.SetBorder(docx.EdgeStart, docx.Border{Size: 12, Color: "365FDD", Val: "single"})

	cell.Paragraph().SetStyle(docx.StylePreformatted)
	run := cell.SetText(text)
	run.SetSize(10)
	run.SetFont("Courier New")
}
