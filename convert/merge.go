package convert

import (
	"go.uber.org/zap"

	"sdx/docx"
)

// MergeStyles copies a fixed attribute set from a template document's
// paragraph style samples onto the produced document's styles, keyed by style
// name. Text content is never touched. A single failing attribute copy is
// skipped; the merge continues.
func MergeStyles(doc *docx.Document, tpl *docx.Template, log *zap.Logger) {
	log = log.Named("merge")

	seen := make(map[string]bool)
	for _, p := range doc.Paragraphs() {
		name := p.StyleName()
		if seen[name] {
			continue
		}
		seen[name] = true

		sample, ok := tpl.Sample(name)
		if !ok {
			continue
		}
		font := doc.GetOrCreateStyle(name).Font()
		for _, attr := range docx.MergeAttrs {
			if err := font.CopyAttr(attr, sample); err != nil {
				log.Debug("attribute copy skipped",
					zap.String("style", name), zap.String("attr", string(attr)), zap.Error(err))
			}
		}
	}
	log.Debug("styles merged", zap.Int("styles", len(seen)), zap.Int("samples", tpl.Len()))
}
