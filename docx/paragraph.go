package docx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Paragraph is a handle over one w:p element.
type Paragraph struct {
	d     *Document
	el    *etree.Element
	style string
}

// AddParagraph appends a paragraph with the given style to the document body.
// An empty style means the default ("Normal").
func (d *Document) AddParagraph(style string) *Paragraph {
	return d.newParagraph(d.body, style)
}

func (d *Document) newParagraph(parent *etree.Element, style string) *Paragraph {
	if style == "" {
		style = StyleNormal
	}
	p := &Paragraph{d: d, el: parent.CreateElement("w:p"), style: style}
	if style != StyleNormal {
		s := d.styles.getOrCreate(style)
		pPr := p.el.CreateElement("w:pPr")
		pStyle := pPr.CreateElement("w:pStyle")
		pStyle.CreateAttr("w:val", s.ID())
	}
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// StyleName returns the display name of the paragraph's style.
func (p *Paragraph) StyleName() string { return p.style }

// SetStyle re-styles an existing paragraph, registering the style on first
// use.
func (p *Paragraph) SetStyle(style string) {
	if style == "" {
		style = StyleNormal
	}
	p.style = style
	s := p.d.styles.getOrCreate(style)

	pr := p.pPr()
	pStyle := pr.FindElement("w:pStyle")
	if style == StyleNormal {
		if pStyle != nil {
			pr.RemoveChild(pStyle)
		}
		return
	}
	if pStyle == nil {
		pStyle = pr.CreateElement("w:pStyle")
	}
	pStyle.RemoveAttr("w:val")
	pStyle.CreateAttr("w:val", s.ID())
}

func (p *Paragraph) pPr() *etree.Element {
	if pr := p.el.FindElement("w:pPr"); pr != nil {
		return pr
	}
	pr := p.el.CreateElement("w:pPr")
	// pPr must be the first child of w:p
	p.el.RemoveChild(pr)
	p.el.InsertChildAt(0, pr)
	return pr
}

// SetAlignment sets paragraph justification.
func (p *Paragraph) SetAlignment(a Alignment) {
	pr := p.pPr()
	jc := pr.FindElement("w:jc")
	if jc == nil {
		jc = pr.CreateElement("w:jc")
	}
	jc.RemoveAttr("w:val")
	jc.CreateAttr("w:val", a.val())
}

// AddRun appends a text run to the paragraph.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{d: p.d, el: p.el.CreateElement("w:r")}
	r.t = r.el.CreateElement("w:t")
	r.t.CreateAttr("xml:space", "preserve")
	r.t.SetText(text)
	return r
}

// AddPageBreak appends a hard page break run.
func (p *Paragraph) AddPageBreak() {
	r := p.el.CreateElement("w:r")
	br := r.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
}

// AddHyperlink appends a run wrapped in an external hyperlink relationship.
func (p *Paragraph) AddHyperlink(href, text string) *Run {
	rid := p.d.addRelationship(relTypeHyperlink, href, true)

	link := p.el.CreateElement("w:hyperlink")
	link.CreateAttr("r:id", rid)

	r := &Run{d: p.d, el: link.CreateElement("w:r")}
	r.el.CreateElement("w:rPr")
	r.t = r.el.CreateElement("w:t")
	r.t.CreateAttr("xml:space", "preserve")
	r.t.SetText(text)
	return r
}

// Runs returns the paragraph's direct text runs.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, el := range p.el.FindElements("w:r") {
		r := &Run{d: p.d, el: el, t: el.FindElement("w:t")}
		runs = append(runs, r)
	}
	return runs
}

// Hyperlink converts the run into an external hyperlink in place: the run's
// own text is cleared and a w:hyperlink carrying the text is inserted right
// after it, inheriting the run's formatting.
func (r *Run) Hyperlink(href, text string) {
	rid := r.d.addRelationship(relTypeHyperlink, href, true)

	parent := r.el.Parent()
	link := etree.NewElement("w:hyperlink")
	link.CreateAttr("r:id", rid)

	lr := link.CreateElement("w:r")
	if rPr := r.el.FindElement("w:rPr"); rPr != nil {
		lr.AddChild(rPr.Copy())
	} else {
		lr.CreateElement("w:rPr")
	}
	t := lr.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)

	r.SetText("")
	parent.InsertChildAt(r.el.Index()+1, link)
}

// Run is a handle over one w:r element.
type Run struct {
	d  *Document
	el *etree.Element
	t  *etree.Element
}

// Text returns the run's visible text.
func (r *Run) Text() string {
	if r.t == nil {
		return ""
	}
	return r.t.Text()
}

// SetText replaces the run's visible text.
func (r *Run) SetText(s string) {
	if r.t == nil {
		r.t = r.el.CreateElement("w:t")
		r.t.CreateAttr("xml:space", "preserve")
	}
	r.t.SetText(s)
}

// Props exposes the run's formatting surface.
func (r *Run) Props() *RunProps {
	return &RunProps{el: rPrOf(r.el)}
}

func rPrOf(run *etree.Element) *etree.Element {
	if pr := run.FindElement("w:rPr"); pr != nil {
		return pr
	}
	pr := run.CreateElement("w:rPr")
	// rPr must precede run content
	run.RemoveChild(pr)
	run.InsertChildAt(0, pr)
	return pr
}

// Convenience setters mirroring the sink contract.

func (r *Run) SetBold()               { r.Props().SetBold(true) }
func (r *Run) SetItalic()             { r.Props().SetItalic(true) }
func (r *Run) SetUnderline()          { r.Props().SetUnderline(true) }
func (r *Run) SetSize(pt float64)     { r.Props().SetSize(pt) }
func (r *Run) SetColor(rgb string)    { r.Props().SetColor(rgb) }
func (r *Run) SetFont(name string)    { r.Props().SetFont(name) }
func (r *Run) SetShading(fill string) { r.Props().SetShading(fill) }

// AddPicture embeds image data as an inline drawing sized in EMU. The data
// must already be in a format Word renders (png, jpeg, gif).
func (r *Run) AddPicture(data []byte, ext string, width, height EMU) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid picture extent %dx%d", width, height)
	}
	rid := r.d.addMedia(data, ext)
	id := r.d.nextDrawingID()
	name := fmt.Sprintf("Picture %d", id)

	cx := strconv.FormatInt(int64(width), 10)
	cy := strconv.FormatInt(int64(height), 10)

	drawing := r.el.CreateElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")
	for _, a := range [...]string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(a, "0")
	}

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", cx)
	extent.CreateAttr("cy", cy)

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(id))
	docPr.CreateAttr("name", name)

	graphic := inline.CreateElement("a:graphic")
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", nsPic)

	pic := graphicData.CreateElement("pic:pic")

	nvPicPr := pic.CreateElement("pic:nvPicPr")
	cNvPr := nvPicPr.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", name)
	nvPicPr.CreateElement("pic:cNvPicPr")

	blipFill := pic.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", rid)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext2 := xfrm.CreateElement("a:ext")
	ext2.CreateAttr("cx", cx)
	ext2.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	return nil
}
