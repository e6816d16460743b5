package convert

import (
	"testing"

	"sdx/shelf"
)

func TestParseMarkdownTable(t *testing.T) {
	got := parseMarkdownTable("| Name | Role |\n| --- | --- |\n| Ada | eng |\n| Lin | ops |\n")

	if len(got.header) != 2 || got.header[0] != "Name" || got.header[1] != "Role" {
		t.Errorf("header = %v", got.header)
	}
	if len(got.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.rows))
	}
	if got.rows[0][0] != "Ada" || got.rows[1][1] != "ops" {
		t.Errorf("rows = %v", got.rows)
	}
}

func TestParseMarkdownTable_HeaderOnly(t *testing.T) {
	got := parseMarkdownTable("| a | b |\n| --- | --- |")
	if len(got.rows) != 0 {
		t.Errorf("rows = %v, want none", got.rows)
	}
}

func TestAddMarkdownTable(t *testing.T) {
	s := testState(t)
	renderBlocks(t, s, []shelf.Block{
		{Type: shelf.BlockMdTable, Key: "t", Text: "|h1|h2|h3|\n|-|-|-|\n|a|b|c|\n|d|e|"},
	})

	doc := documentXML(t, s)
	rows := doc.FindElements("//w:tbl/w:tr")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if cells := rows[0].FindElements("w:tc"); len(cells) != 3 {
		t.Errorf("header cells = %d, want 3", len(cells))
	}
	if got := rows[1].FindElements("w:tc")[1].FindElement(".//w:t").Text(); got != "b" {
		t.Errorf("cell 1,1 = %q, want b", got)
	}
	// short data row leaves its trailing cell empty
	last := rows[2].FindElements("w:tc")[2]
	if el := last.FindElement(".//w:t"); el != nil && el.Text() != "" {
		t.Errorf("cell 2,2 = %q, want empty", el.Text())
	}
}

func TestAddMarkdownTable_NarrowFirstRow(t *testing.T) {
	s := testState(t)
	renderBlocks(t, s, []shelf.Block{
		{Type: shelf.BlockMdTable, Key: "t", Text: "|h1|h2|h3|\n|-|-|-|\n|a|b|\n|c|d|e|"},
	})

	doc := documentXML(t, s)
	rows := doc.FindElements("//w:tbl/w:tr")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// the first data row caps the width; the third header and the overflow
	// value are dropped
	for i, row := range rows {
		if cells := row.FindElements("w:tc"); len(cells) != 2 {
			t.Errorf("row %d cells = %d, want 2", i, len(cells))
		}
	}
	if got := rows[2].FindElements("w:tc")[1].FindElement(".//w:t").Text(); got != "d" {
		t.Errorf("cell 2,1 = %q, want d", got)
	}
}

func TestAddMarkdownTable_NoDataRows(t *testing.T) {
	s := testState(t)
	renderBlocks(t, s, []shelf.Block{
		{Type: shelf.BlockMdTable, Key: "t", Text: "|h1|h2|\n|-|-|"},
	})

	doc := documentXML(t, s)
	if tbl := doc.FindElement("//w:tbl"); tbl != nil {
		t.Error("header-only grid must not emit a table")
	}
}
