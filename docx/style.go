package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Well known style names the exporter relies on.
const (
	StyleNormal       = "Normal"
	StyleCaption      = "Caption"
	StyleHeading1     = "heading 1"
	StylePreformatted = "HTML Preformatted"
	StyleTableGrid    = "Table Grid"
)

// Style is a registered paragraph style.
type Style struct {
	name string
	id   string
	el   *etree.Element
}

// Name returns the style display name.
func (s *Style) Name() string { return s.name }

// ID returns the style identifier referenced from w:pStyle.
func (s *Style) ID() string { return s.id }

// Font exposes the style's run formatting surface.
func (s *Style) Font() *RunProps {
	if pr := s.el.FindElement("w:rPr"); pr != nil {
		return &RunProps{el: pr}
	}
	return &RunProps{el: s.el.CreateElement("w:rPr")}
}

// SetIndentLeft sets the style's left indentation in twips.
func (s *Style) SetIndentLeft(twips int64) {
	pPr := s.el.FindElement("w:pPr")
	if pPr == nil {
		pPr = s.el.CreateElement("w:pPr")
	}
	ind := pPr.FindElement("w:ind")
	if ind == nil {
		ind = pPr.CreateElement("w:ind")
	}
	ind.RemoveAttr("w:left")
	ind.CreateAttr("w:left", strconv.FormatInt(twips, 10))
}

type styleRegistry struct {
	doc    *etree.Document
	root   *etree.Element
	byName map[string]*Style
}

func newStyleRegistry() *styleRegistry {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)

	defaults := root.CreateElement("w:docDefaults")
	rPrDefault := defaults.CreateElement("w:rPrDefault")
	rPrDefault.CreateElement("w:rPr")

	r := &styleRegistry{doc: doc, root: root, byName: make(map[string]*Style)}
	r.getOrCreate(StyleNormal)
	return r
}

func (r *styleRegistry) getOrCreate(name string) *Style {
	if s, ok := r.byName[name]; ok {
		return s
	}

	el := r.root.CreateElement("w:style")
	el.CreateAttr("w:type", "paragraph")
	el.CreateAttr("w:styleId", styleID(name))

	nameEl := el.CreateElement("w:name")
	nameEl.CreateAttr("w:val", name)
	el.CreateElement("w:qFormat")

	s := &Style{name: name, id: styleID(name), el: el}
	if name == StyleNormal {
		el.CreateAttr("w:default", "1")
	}
	r.byName[name] = s
	return s
}

func (r *styleRegistry) xml() *etree.Document { return r.doc }

// styleID derives a w:styleId from a display name the way Word does:
// capitalize each word and drop the separators ("heading 1" -> "Heading1",
// "HTML Preformatted" -> "HTMLPreformatted").
func styleID(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}
