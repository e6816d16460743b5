package convert

import (
	"strings"

	"sdx/shelf"
)

// markdownTable is a parsed pipe-delimited text grid.
type markdownTable struct {
	header []string
	rows   [][]string
}

// parseMarkdownTable splits a pipe-delimited grid: line 0 is the header, line
// 1 the divider (skipped), later lines are data rows. Fields are trimmed.
func parseMarkdownTable(text string) markdownTable {
	var t markdownTable
	for n, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")
		fields := strings.Split(line, "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		switch {
		case n == 0:
			t.header = fields
		case n == 1:
			// divider row
		default:
			t.rows = append(t.rows, fields)
		}
	}
	return t
}

func (s *renderState) addMarkdownTable(b *shelf.Block) {
	t := parseMarkdownTable(b.Text)
	if len(t.rows) == 0 {
		return
	}

	// column count is the narrower of the header and the first data row, so a
	// ragged grid never renders trailing headerless columns
	cols := len(t.header)
	if len(t.rows[0]) < cols {
		cols = len(t.rows[0])
	}
	tbl := s.doc.AddTable(1, cols)
	tbl.SetGridStyle()

	for i, h := range t.header {
		if i < cols {
			tbl.Row(0).Cell(i).SetText(h)
		}
	}
	for _, r := range t.rows {
		row := tbl.AddRow()
		for i, v := range r {
			if i < cols {
				row.Cell(i).SetText(v)
			}
		}
	}
}
