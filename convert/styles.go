package convert

import (
	"context"
	"fmt"
	"strings"

	"sdx/docx"
	"sdx/media"
)

// imageMarker is the reserved glyph an inline image replaces in block text.
const imageMarker = "🖼"

// applyStyle applies one style range instruction to a single-character run.
// Total over the token set; unrecognized tokens pass the run through
// unchanged since upstream data is not schema validated.
func (s *renderState) applyStyle(ctx context.Context, run *docx.Run, r styleRange) error {
	switch r.token {
	case tokenLink:
		run.Hyperlink(r.href, run.Text())
	case tokenImg:
		return s.applyInlineImage(ctx, run, r)
	case "header-step":
		run.SetBold()
		run.SetSize(10.5)
	case "BOLD":
		run.SetBold()
	case "ITALIC":
		run.SetItalic()
	case "UNDERLINE":
		run.SetUnderline()
	case "CODE":
		run.SetColor("4472C4")
		run.SetSize(12)
		run.SetFont("Times New Roman")
	case "KBD":
		run.SetShading("e7e6e6")
		run.SetSize(11)
		run.SetFont("Courier New")
	case "DFN":
		run.SetShading("b3c6e7")
	}
	return nil
}

// applyInlineImage replaces the run's marker glyph with an inline picture
// fetched from the entity's source, sized by the declared pixel size at
// 96 px/inch.
func (s *renderState) applyInlineImage(ctx context.Context, run *docx.Run, r styleRange) error {
	run.SetText(strings.Replace(run.Text(), imageMarker, "", 1))

	if r.img == nil || r.img.Src == "" {
		return fmt.Errorf("image entity without source")
	}
	data, contentType, err := s.fetch(ctx, r.img.Src)
	if err != nil {
		return err
	}
	img, err := media.Prepare(data, contentType, media.PrepareOptions{JPEGQuality: s.e.opts.JPEGQuality}, s.log)
	if err != nil {
		return err
	}

	sizePx := r.img.SizePx(img.Width)
	side := docx.Inches(float64(sizePx) / 96.0)
	return run.AddPicture(img.Data, img.Ext, side, side)
}

// fetch retrieves a resource through the configured fetcher, handling inline
// data URIs locally.
func (s *renderState) fetch(ctx context.Context, url string) ([]byte, string, error) {
	if media.IsDataURI(url) {
		return media.ParseDataURI(url)
	}
	if s.e.fetcher == nil {
		return nil, "", fmt.Errorf("no fetcher configured")
	}
	return s.e.fetcher.Fetch(ctx, url)
}
