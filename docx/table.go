package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// BorderEdge names one cell border.
type BorderEdge string

const (
	EdgeStart   BorderEdge = "start"
	EdgeEnd     BorderEdge = "end"
	EdgeTop     BorderEdge = "top"
	EdgeBottom  BorderEdge = "bottom"
	EdgeInsideH BorderEdge = "insideH"
	EdgeInsideV BorderEdge = "insideV"
)

// Border describes one cell border edge. Size is in eighths of a point.
type Border struct {
	Size  int
	Color string // 6-digit hex RGB or "auto"
	Val   string // border style, e.g. "single"
}

// Table is a handle over one w:tbl element.
type Table struct {
	d    *Document
	el   *etree.Element
	grid *etree.Element
	cols int
	rows []*Row
}

// AddTable appends a table with the given shape to the document body. Every
// cell starts with one empty paragraph as OOXML requires.
func (d *Document) AddTable(rows, cols int) *Table {
	if cols < 1 {
		cols = 1
	}
	t := &Table{d: d, el: d.body.CreateElement("w:tbl"), cols: cols}

	tblPr := t.el.CreateElement("w:tblPr")
	layout := tblPr.CreateElement("w:tblLayout")
	layout.CreateAttr("w:type", "fixed")

	t.grid = t.el.CreateElement("w:tblGrid")
	for i := 0; i < cols; i++ {
		t.grid.CreateElement("w:gridCol")
	}

	for i := 0; i < rows; i++ {
		t.AddRow()
	}
	return t
}

// SetGridStyle applies the bordered grid look: style reference plus explicit
// single borders so the table renders bordered even without a style sheet
// that defines them.
func (t *Table) SetGridStyle() {
	tblPr := t.el.FindElement("w:tblPr")

	if tblPr.FindElement("w:tblStyle") == nil {
		style := tblPr.CreateElement("w:tblStyle")
		style.CreateAttr("w:val", styleID(StyleTableGrid))
	}
	if tblPr.FindElement("w:tblBorders") == nil {
		borders := tblPr.CreateElement("w:tblBorders")
		for _, edge := range [...]BorderEdge{EdgeTop, EdgeStart, EdgeBottom, EdgeEnd, EdgeInsideH, EdgeInsideV} {
			b := borders.CreateElement("w:" + string(edge))
			b.CreateAttr("w:val", "single")
			b.CreateAttr("w:sz", "4")
			b.CreateAttr("w:color", "auto")
		}
	}
}

// Cols returns the declared column count.
func (t *Table) Cols() int { return t.cols }

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row { return t.rows }

// Row returns the i-th row.
func (t *Table) Row(i int) *Row { return t.rows[i] }

// AddRow appends a row of empty cells matching the table's column count.
func (t *Table) AddRow() *Row {
	row := &Row{t: t, el: t.el.CreateElement("w:tr")}
	for i := 0; i < t.cols; i++ {
		row.addCell()
	}
	t.rows = append(t.rows, row)
	return row
}

// Row is a handle over one w:tr element.
type Row struct {
	t     *Table
	el    *etree.Element
	cells []*Cell
}

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell { return r.cells }

// Cell returns the i-th cell.
func (r *Row) Cell(i int) *Cell { return r.cells[i] }

func (r *Row) addCell() *Cell {
	c := &Cell{t: r.t, el: r.el.CreateElement("w:tc")}
	c.el.CreateElement("w:tcPr")
	c.para = r.t.d.newParagraph(c.el, "")
	r.cells = append(r.cells, c)
	return c
}

// Cell is a handle over one w:tc element.
type Cell struct {
	t    *Table
	el   *etree.Element
	para *Paragraph
}

// Paragraph returns the cell's first paragraph.
func (c *Cell) Paragraph() *Paragraph { return c.para }

// SetText replaces the cell content with a single plain run.
func (c *Cell) SetText(text string) *Run {
	return c.para.AddRun(text)
}

func (c *Cell) tcPr() *etree.Element {
	if pr := c.el.FindElement("w:tcPr"); pr != nil {
		return pr
	}
	pr := c.el.CreateElement("w:tcPr")
	c.el.RemoveChild(pr)
	c.el.InsertChildAt(0, pr)
	return pr
}

// SetWidth fixes the cell width.
func (c *Cell) SetWidth(w EMU) {
	pr := c.tcPr()
	tcW := pr.FindElement("w:tcW")
	if tcW == nil {
		tcW = pr.CreateElement("w:tcW")
	}
	tcW.RemoveAttr("w:w")
	tcW.RemoveAttr("w:type")
	tcW.CreateAttr("w:w", strconv.FormatInt(w.Twips(), 10))
	tcW.CreateAttr("w:type", "dxa")
}

// SetShading fills the cell background.
func (c *Cell) SetShading(fill string) {
	pr := c.tcPr()
	shd := pr.FindElement("w:shd")
	if shd == nil {
		shd = pr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
	}
	shd.RemoveAttr("w:fill")
	shd.CreateAttr("w:fill", fill)
}

// SetBorder sets one border edge of the cell.
func (c *Cell) SetBorder(edge BorderEdge, b Border) {
	pr := c.tcPr()
	borders := pr.FindElement("w:tcBorders")
	if borders == nil {
		borders = pr.CreateElement("w:tcBorders")
	}

	tag := "w:" + string(edge)
	el := borders.FindElement(tag)
	if el == nil {
		el = borders.CreateElement(tag)
	}
	// attribute order matters to some consumers
	for _, a := range [...]string{"w:sz", "w:val", "w:color"} {
		el.RemoveAttr(a)
	}
	if b.Size > 0 {
		el.CreateAttr("w:sz", strconv.Itoa(b.Size))
	}
	if b.Val != "" {
		el.CreateAttr("w:val", b.Val)
	}
	if b.Color != "" {
		el.CreateAttr("w:color", b.Color)
	}
}
