// Package convert implements the block-to-document rendering engine: it walks
// the flat block stream of a shelf and incrementally emits word-processing
// markup, reconstructing tables, dictionaries, list nesting and blockquotes
// from adjacency and depth annotations alone.
package convert

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sdx/docx"
	"sdx/media"
	"sdx/shelf"
	"sdx/snippet"
)

// Options configure one Exporter.
type Options struct {
	// Template is an optional .docx whose paragraph style formatting is
	// merged onto the produced document after assembly.
	Template []byte

	FontName     string  // default body font
	FontSize     float64 // default body size in points
	TextColor    string  // default text color, hex RGB
	HeadingColor string  // shelf title and heading accent color, hex RGB

	MaxImageWidth docx.EMU // embedded images wider than this are scaled down
	JPEGQuality   int      // quality for re-encoded JPEG images
	FixZip        bool     // rewrite the package without zip data descriptors

	NoBorders    bool // never compose image borders
	ForceBorders bool // border every embedded image
}

func (o *Options) setDefaults() {
	if o.FontName == "" {
		o.FontName = "Inter"
	}
	if o.FontSize == 0 {
		o.FontSize = 12
	}
	if o.TextColor == "" {
		o.TextColor = "404040"
	}
	if o.HeadingColor == "" {
		o.HeadingColor = "34AB76"
	}
	if o.MaxImageWidth == 0 {
		o.MaxImageWidth = docx.Cm(14.8)
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = 85
	}
}

// Exporter renders shelves into word-processing documents. Safe to reuse
// across renders; each render owns its own state.
type Exporter struct {
	fetcher  media.Fetcher
	snippets snippet.Resolver
	opts     Options
	tpl      *docx.Template
	log      *zap.Logger
}

// NewExporter creates an exporter. fetcher and snippets may be nil, in which
// case images and snippet references degrade to skipped elements.
func NewExporter(fetcher media.Fetcher, snippets snippet.Resolver, opts Options, log *zap.Logger) (*Exporter, error) {
	opts.setDefaults()
	e := &Exporter{fetcher: fetcher, snippets: snippets, opts: opts, log: log.Named("convert")}
	if len(opts.Template) > 0 {
		tpl, err := docx.ReadTemplate(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("unable to read style template: %w", err)
		}
		e.tpl = tpl
	}
	return e, nil
}

// Render converts a shelf into a finished document package. A partially
// rendered document is strictly preferred to no document: per-block failures
// are collected and logged, never abort the render. Only serialization
// failures are fatal.
func (e *Exporter) Render(ctx context.Context, sh *shelf.Shelf) ([]byte, error) {
	s := &renderState{
		e:   e,
		log: e.log.With(zap.String("shelf", sh.ID)),
		doc: docx.NewDocument(),
	}

	s.addTitlePage(sh.Name)
	for bi := range sh.Books {
		book := &sh.Books[bi]
		s.addBookTitle(book.Name)
		for ai := range book.Articles {
			s.renderArticle(ctx, &book.Articles[ai])
		}
	}

	if e.tpl != nil {
		MergeStyles(s.doc, e.tpl, e.log)
	}

	data, err := s.doc.Bytes(e.opts.FixZip)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	if err := multierr.Combine(s.errs...); err != nil {
		s.log.Warn("render finished with degraded blocks",
			zap.Int("failed", len(s.errs)), zap.Error(err))
	}
	return data, nil
}

// renderState is the mutable context of one render. Structural cursors
// (table, dict, steps) are reset at every article boundary and never carried
// across articles.
type renderState struct {
	e   *Exporter
	log *zap.Logger
	doc *docx.Document

	para  *docx.Paragraph
	depth int

	blocks     []shelf.Block
	index      int
	entities   shelf.EntityMap
	docVersion int

	table *tableState
	dict  *dictState
	steps int

	errs []error
}

// soft records a degraded element without aborting the render.
func (s *renderState) soft(err error) {
	s.errs = append(s.errs, err)
	s.log.Warn("element degraded", zap.Error(err))
}

// resetStructures closes any open multi-block structure. Called when a
// non-structural block interrupts the stream.
func (s *renderState) resetStructures() {
	s.table = nil
}

// newParagraph appends a body paragraph and makes it current, applying the
// document base font to its style.
func (s *renderState) newParagraph(style string) *docx.Paragraph {
	s.para = s.doc.AddParagraph(style)

	st := s.doc.GetOrCreateStyle(s.para.StyleName())
	font := st.Font()
	font.SetFont(s.e.opts.FontName)
	font.SetColor(s.e.opts.TextColor)
	if s.para.StyleName() == docx.StyleCaption {
		font.SetSize(10)
		s.para.SetAlignment(docx.AlignCenter)
	}
	return s.para
}

// currentParagraph returns the current paragraph, opening one when nothing
// has been emitted yet.
func (s *renderState) currentParagraph() *docx.Paragraph {
	if s.para == nil {
		s.newParagraph("")
	}
	return s.para
}

func (s *renderState) addTitlePage(name string) {
	s.newParagraph("")
	run := s.para.AddRun(name)
	run.SetFont(s.e.opts.FontName)
	run.SetSize(28)
	run.SetColor(s.e.opts.HeadingColor)
	run.SetBold()
	s.newParagraph("")
}

func (s *renderState) addBookTitle(name string) {
	s.newParagraph("")
	run := s.para.AddRun(name)
	run.SetFont(s.e.opts.FontName)
	run.SetSize(24)
	run.SetColor(s.e.opts.TextColor)
	run.SetBold()
}

// renderArticle drives one article: snippet splice, header, depth
// normalization, block dispatch, trailing page break.
func (s *renderState) renderArticle(ctx context.Context, art *shelf.Article) {
	blocks := s.resolveBlocks(ctx, art)

	s.entities = art.EntityMap
	s.docVersion = art.DocVersion
	s.blocks = blocks
	s.table = nil
	s.dict = nil
	s.steps = 0
	s.depth = 1

	s.addArticleHeader(ctx, art)

	if art.DocVersion <= 2 {
		normalizeCellDepths(s.blocks)
	}

	// synthetic terminal block flushes any open structure
	s.blocks = append(s.blocks, shelf.Block{Type: shelf.BlockUnstyled})

	for i := range s.blocks {
		s.index = i
		if err := s.dispatch(ctx, &s.blocks[i]); err != nil {
			s.soft(fmt.Errorf("block %q (%s): %w", s.blocks[i].Key, s.blocks[i].Type, err))
		}
		s.depth = 1
	}

	s.currentParagraph().AddPageBreak()
}

// resolveBlocks splices snippet references in place. A failed resolution
// renders nothing for that reference.
func (s *renderState) resolveBlocks(ctx context.Context, art *shelf.Article) []shelf.Block {
	blocks := make([]shelf.Block, 0, len(art.Blocks))
	for i := range art.Blocks {
		b := &art.Blocks[i]
		if b.Type != shelf.BlockSnippet {
			blocks = append(blocks, *b)
			continue
		}
		if s.e.snippets == nil || b.Data == nil || b.Data.Src == "" {
			continue
		}
		spliced, err := s.e.snippets.Resolve(ctx, b.Data.Src)
		if err != nil {
			s.soft(fmt.Errorf("snippet %q: %w", b.Data.Src, err))
			continue
		}
		blocks = append(blocks, spliced...)
	}
	return blocks
}

func (s *renderState) addArticleHeader(ctx context.Context, art *shelf.Article) {
	s.newParagraph("")
	if art.Meta != nil && art.Meta.Icon != "" {
		s.setPicture(ctx, art.Meta.Icon, pictureOptions{align: docx.AlignCenter})
	}

	s.newParagraph("")
	s.para.AddRun("\n")
	name := s.para.AddRun(art.Name)
	name.SetSize(18)
	name.SetFont(s.e.opts.FontName)
	name.SetColor(s.e.opts.TextColor)
	name.SetBold()
	s.para.SetAlignment(docx.AlignCenter)

	s.newParagraph("")
	desc := s.para.AddRun(art.Description)
	desc.SetSize(12)
	desc.SetFont(s.e.opts.FontName)
	desc.SetColor(s.e.opts.TextColor)
	desc.SetBold()
	s.para.SetAlignment(docx.AlignCenter)

	s.newParagraph("")
}
