package docx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// RunProps wraps one w:rPr element and exposes the formatting attributes the
// exporter and the style merge pass work with. Getters return (value, ok)
// pairs - absent attributes are "inherited", not false/zero.
type RunProps struct {
	el *etree.Element
}

// boolean toggle elements (w:i, w:b, ...) follow the OOXML on/off convention:
// presence without w:val means on, w:val="0"/"false" means off.

func (p *RunProps) getToggle(tag string) (bool, bool) {
	el := p.el.FindElement(tag)
	if el == nil {
		return false, false
	}
	if v := el.SelectAttrValue("w:val", ""); v == "0" || v == "false" {
		return false, true
	}
	return true, true
}

func (p *RunProps) setToggle(tag string, on bool) {
	el := p.el.FindElement(tag)
	if el == nil {
		el = p.el.CreateElement(tag)
	}
	el.RemoveAttr("w:val")
	if !on {
		el.CreateAttr("w:val", "0")
	}
}

func (p *RunProps) removeTag(tag string) {
	if el := p.el.FindElement(tag); el != nil {
		p.el.RemoveChild(el)
	}
}

func (p *RunProps) getVal(tag, attr string) (string, bool) {
	el := p.el.FindElement(tag)
	if el == nil {
		return "", false
	}
	v := el.SelectAttrValue(attr, "")
	return v, v != ""
}

func (p *RunProps) setVal(tag, attr, value string) {
	el := p.el.FindElement(tag)
	if el == nil {
		el = p.el.CreateElement(tag)
	}
	el.RemoveAttr(attr)
	el.CreateAttr(attr, value)
}

func (p *RunProps) SetBold(on bool)      { p.setToggle("w:b", on) }
func (p *RunProps) SetItalic(on bool)    { p.setToggle("w:i", on) }
func (p *RunProps) SetStrike(on bool)    { p.setToggle("w:strike", on) }
func (p *RunProps) SetShadow(on bool)    { p.setToggle("w:shadow", on) }
func (p *RunProps) SetHidden(on bool)    { p.setToggle("w:vanish", on) }
func (p *RunProps) SetWebHidden(on bool) { p.setToggle("w:webHidden", on) }
func (p *RunProps) SetNoProof(on bool)   { p.setToggle("w:noProof", on) }
func (p *RunProps) SetRTL(on bool)       { p.setToggle("w:rtl", on) }
func (p *RunProps) SetCSBold(on bool)    { p.setToggle("w:bCs", on) }
func (p *RunProps) SetMath(on bool)      { p.setToggle("w:oMath", on) }

func (p *RunProps) Bold() (bool, bool)      { return p.getToggle("w:b") }
func (p *RunProps) Italic() (bool, bool)    { return p.getToggle("w:i") }
func (p *RunProps) Strike() (bool, bool)    { return p.getToggle("w:strike") }
func (p *RunProps) Shadow() (bool, bool)    { return p.getToggle("w:shadow") }
func (p *RunProps) Hidden() (bool, bool)    { return p.getToggle("w:vanish") }
func (p *RunProps) WebHidden() (bool, bool) { return p.getToggle("w:webHidden") }
func (p *RunProps) NoProof() (bool, bool)   { return p.getToggle("w:noProof") }
func (p *RunProps) RTL() (bool, bool)       { return p.getToggle("w:rtl") }
func (p *RunProps) CSBold() (bool, bool)    { return p.getToggle("w:bCs") }
func (p *RunProps) Math() (bool, bool)      { return p.getToggle("w:oMath") }

func (p *RunProps) SetUnderline(on bool) {
	if on {
		p.setVal("w:u", "w:val", "single")
	} else {
		p.setVal("w:u", "w:val", "none")
	}
}

func (p *RunProps) Underline() (string, bool) { return p.getVal("w:u", "w:val") }

// SetSize sets the font size in points (stored as half-points).
func (p *RunProps) SetSize(pt float64) {
	v := strconv.FormatInt(halfPoints(pt), 10)
	p.setVal("w:sz", "w:val", v)
	p.setVal("w:szCs", "w:val", v)
}

// Size returns the font size in points.
func (p *RunProps) Size() (float64, bool) {
	v, ok := p.getVal("w:sz", "w:val")
	if !ok {
		return 0, false
	}
	hp, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(hp) / 2, true
}

// SetColor sets the run color to a 6-digit hex RGB value.
func (p *RunProps) SetColor(rgb string) { p.setVal("w:color", "w:val", rgb) }

func (p *RunProps) Color() (string, bool) { return p.getVal("w:color", "w:val") }

func (p *RunProps) SetHighlight(name string) { p.setVal("w:highlight", "w:val", name) }

func (p *RunProps) Highlight() (string, bool) { return p.getVal("w:highlight", "w:val") }

// SetFont sets both ascii and hAnsi font names.
func (p *RunProps) SetFont(name string) {
	el := p.el.FindElement("w:rFonts")
	if el == nil {
		el = p.el.CreateElement("w:rFonts")
	}
	for _, a := range [...]string{"w:ascii", "w:hAnsi"} {
		el.RemoveAttr(a)
		el.CreateAttr(a, name)
	}
}

func (p *RunProps) Font() (string, bool) { return p.getVal("w:rFonts", "w:ascii") }

// SetSubscript toggles vertical alignment between subscript and baseline.
func (p *RunProps) SetSubscript(on bool) {
	if on {
		p.setVal("w:vertAlign", "w:val", "subscript")
	} else {
		p.removeTag("w:vertAlign")
	}
}

func (p *RunProps) Subscript() (bool, bool) {
	v, ok := p.getVal("w:vertAlign", "w:val")
	if !ok {
		return false, false
	}
	return v == "subscript", true
}

// SetShading fills the run background (character shading).
func (p *RunProps) SetShading(fill string) {
	el := p.el.FindElement("w:shd")
	if el == nil {
		el = p.el.CreateElement("w:shd")
		el.CreateAttr("w:val", "clear")
		el.CreateAttr("w:color", "auto")
	}
	el.RemoveAttr("w:fill")
	el.CreateAttr("w:fill", fill)
}

// FontAttr names one attribute of the copyable attribute set.
type FontAttr string

// The fixed attribute set the style merge pass copies, mirroring the
// exporter's historical behavior.
const (
	AttrItalic    FontAttr = "italic"
	AttrMath      FontAttr = "math"
	AttrNoProof   FontAttr = "no_proof"
	AttrWebHidden FontAttr = "web_hidden"
	AttrStrike    FontAttr = "strike"
	AttrSubscript FontAttr = "subscript"
	AttrRTL       FontAttr = "rtl"
	AttrSize      FontAttr = "size"
	AttrColorRGB  FontAttr = "color.rgb"
	AttrShadow    FontAttr = "shadow"
	AttrHighlight FontAttr = "highlight_color"
	AttrHidden    FontAttr = "hidden"
	AttrCSBold    FontAttr = "cs_bold"
	AttrName      FontAttr = "name"
)

// MergeAttrs is the default copy list, in application order.
var MergeAttrs = []FontAttr{
	AttrItalic, AttrMath, AttrNoProof, AttrWebHidden, AttrStrike,
	AttrSubscript, AttrRTL, AttrSize, AttrColorRGB, AttrShadow,
	AttrHighlight, AttrHidden, AttrCSBold, AttrName,
}

// CopyAttr copies one attribute value from src onto p. An attribute absent in
// src clears the corresponding override on p, matching assignment of an
// inherited (unset) value.
func (p *RunProps) CopyAttr(attr FontAttr, src *RunProps) error {
	type toggle struct {
		get func() (bool, bool)
		set func(bool)
		tag string
	}
	copyToggle := func(t toggle) {
		if v, ok := t.get(); ok {
			t.set(v)
		} else {
			p.removeTag(t.tag)
		}
	}

	switch attr {
	case AttrItalic:
		copyToggle(toggle{src.Italic, p.SetItalic, "w:i"})
	case AttrMath:
		copyToggle(toggle{src.Math, p.SetMath, "w:oMath"})
	case AttrNoProof:
		copyToggle(toggle{src.NoProof, p.SetNoProof, "w:noProof"})
	case AttrWebHidden:
		copyToggle(toggle{src.WebHidden, p.SetWebHidden, "w:webHidden"})
	case AttrStrike:
		copyToggle(toggle{src.Strike, p.SetStrike, "w:strike"})
	case AttrShadow:
		copyToggle(toggle{src.Shadow, p.SetShadow, "w:shadow"})
	case AttrHidden:
		copyToggle(toggle{src.Hidden, p.SetHidden, "w:vanish"})
	case AttrRTL:
		copyToggle(toggle{src.RTL, p.SetRTL, "w:rtl"})
	case AttrCSBold:
		copyToggle(toggle{src.CSBold, p.SetCSBold, "w:bCs"})
	case AttrSubscript:
		if v, ok := src.Subscript(); ok {
			p.SetSubscript(v)
		} else {
			p.removeTag("w:vertAlign")
		}
	case AttrSize:
		if v, ok := src.Size(); ok {
			p.SetSize(v)
		} else {
			p.removeTag("w:sz")
			p.removeTag("w:szCs")
		}
	case AttrColorRGB:
		if v, ok := src.Color(); ok {
			p.SetColor(v)
		} else {
			p.removeTag("w:color")
		}
	case AttrHighlight:
		if v, ok := src.Highlight(); ok {
			p.SetHighlight(v)
		} else {
			p.removeTag("w:highlight")
		}
	case AttrName:
		if v, ok := src.Font(); ok {
			p.SetFont(v)
		} else {
			p.removeTag("w:rFonts")
		}
	default:
		return fmt.Errorf("unknown font attribute %q", attr)
	}
	return nil
}
