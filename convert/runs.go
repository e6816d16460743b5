package convert

import (
	"context"
	"fmt"
	"sort"

	"sdx/docx"
	"sdx/shelf"
)

// styleRange is one styling instruction over a span of block text, after
// entity ranges have been folded in. Offsets and lengths count characters
// (code points), matching the editor model.
type styleRange struct {
	token  string            // inline style token, "link" or "img" for folded entities
	href   string            // set for link ranges
	img    *shelf.EntityData // set for image ranges
	offset int
	length int
}

const (
	tokenLink = "link"
	tokenImg  = "img"
)

// foldRanges merges a block's entity ranges into its inline style ranges.
// LINK and IMG entities become equivalent style ranges; entities of
// unrecognized type are dropped. Header-step blocks additionally style their
// whole text with the step token.
func foldRanges(b *shelf.Block, entities shelf.EntityMap) []styleRange {
	ranges := make([]styleRange, 0, len(b.InlineStyleRanges)+len(b.EntityRanges)+1)
	for _, r := range b.InlineStyleRanges {
		ranges = append(ranges, styleRange{token: r.Style, offset: r.Offset, length: r.Length})
	}
	for _, er := range b.EntityRanges {
		e, ok := entities.Get(er.Key)
		if !ok {
			continue
		}
		switch e.Type {
		case shelf.EntityLink:
			ranges = append(ranges, styleRange{token: tokenLink, href: e.Data.Href, offset: er.Offset, length: er.Length})
		case shelf.EntityImg:
			data := e.Data
			ranges = append(ranges, styleRange{token: tokenImg, img: &data, offset: er.Offset, length: er.Length})
		}
	}
	if b.Type == shelf.BlockHeaderStep {
		ranges = append(ranges, styleRange{token: "header-step", offset: 0, length: len([]rune(b.Text))})
	}

	// upstream producers emit ranges out of order; stable sort keeps the
	// original relative order on equal offsets
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].offset < ranges[j].offset })
	return ranges
}

// addText emits a block's text into the paragraph, one run per character,
// then applies every style range to the characters it covers. Application
// order follows the sorted range order, so overlapping scalar attributes are
// last-wins. A failing style application degrades that character to the
// default formatting and never aborts the block.
func (s *renderState) addText(ctx context.Context, b *shelf.Block, para *docx.Paragraph) {
	ranges := foldRanges(b, s.entities)

	chars := []rune(b.Text)
	runs := make([]*docx.Run, len(chars))
	for i, ch := range chars {
		run := para.AddRun(string(ch))
		run.SetSize(s.e.opts.FontSize)
		run.SetFont(s.e.opts.FontName)
		run.SetColor(s.e.opts.TextColor)
		runs[i] = run
	}

	for _, r := range ranges {
		for i := r.offset; i < r.offset+r.length; i++ {
			if i < 0 || i >= len(runs) {
				continue
			}
			if err := s.applyStyle(ctx, runs[i], r); err != nil {
				s.soft(fmt.Errorf("style %q at %d in block %q: %w", r.token, i, b.Key, err))
			}
		}
	}
}
