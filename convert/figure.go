package convert

import (
	"context"

	"sdx/docx"
	"sdx/media"
	"sdx/shelf"
)

type pictureOptions struct {
	label  string
	depth  int
	align  docx.Alignment
	border bool
}

func (s *renderState) addFigure(ctx context.Context, b *shelf.Block) error {
	if b.Data == nil {
		return nil
	}
	align := docx.AlignCenter
	switch b.Data.Align {
	case "right":
		align = docx.AlignRight
	case "left":
		align = docx.AlignLeft
	}
	return s.setPicture(ctx, b.Data.Src, pictureOptions{
		label:  b.Data.Label,
		depth:  b.Data.Depth,
		align:  align,
		border: true,
	})
}

// setPicture fetches, prepares and embeds an image as its own paragraph,
// scaled down when wider than the configured maximum. Vector sources are
// typically logos and render without border or label.
func (s *renderState) setPicture(ctx context.Context, url string, opts pictureOptions) error {
	if url == "" {
		return nil
	}
	s.depth += opts.depth
	defer func() { s.depth -= opts.depth }()

	s.resetStructures()
	s.newParagraph("")
	s.para.SetAlignment(opts.align)

	data, contentType, err := s.fetch(ctx, url)
	if err != nil {
		return err
	}
	border := (opts.border || s.e.opts.ForceBorders) && !s.e.opts.NoBorders
	img, err := media.Prepare(data, contentType, media.PrepareOptions{
		Border:      border,
		JPEGQuality: s.e.opts.JPEGQuality,
	}, s.log)
	if err != nil {
		return err
	}

	// inline payloads and vector sources (typically logos) render without a
	// caption
	label := opts.label
	if img.Vector || media.IsDataURI(url) {
		label = ""
	}

	w, h := docx.Pixels(img.Width), docx.Pixels(img.Height)
	if w > s.e.opts.MaxImageWidth && h > 0 {
		aspect := float64(w) / float64(h)
		w = s.e.opts.MaxImageWidth
		h = docx.EMU(float64(w) / aspect)
	}
	if err := s.para.AddRun("").AddPicture(img.Data, img.Ext, w, h); err != nil {
		return err
	}

	if label != "" {
		s.newParagraph(docx.StyleCaption)
		run := s.para.AddRun(label)
		run.SetColor(s.e.opts.TextColor)
		run.SetBold()
	}
	return nil
}
