package docx

import "math"

// EMU is an English Metric Unit, the native length unit of DrawingML.
type EMU int64

const (
	emuPerInch = 914400
	emuPerCm   = 360000
	emuPerPx   = 9525 // at 96 px/inch
	emuPerTwip = 635
)

// Inches converts inches to EMU.
func Inches(v float64) EMU { return EMU(math.Round(v * emuPerInch)) }

// Cm converts centimeters to EMU.
func Cm(v float64) EMU { return EMU(math.Round(v * emuPerCm)) }

// Pixels converts CSS pixels (96 px/inch) to EMU.
func Pixels(px int) EMU { return EMU(px) * emuPerPx }

// Twips returns the value in twentieths of a point, the unit table and
// indentation widths are expressed in.
func (e EMU) Twips() int64 { return int64(e) / emuPerTwip }

// Alignment is paragraph justification.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) val() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// halfPoints renders a font size in half-point units.
func halfPoints(pt float64) int64 { return int64(math.Round(pt * 2)) }
