package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"sdx/shelf"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("unable to encode test image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestFoldRanges_SortsByOffset(t *testing.T) {
	b := &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: "abcdef",
		InlineStyleRanges: []shelf.InlineStyleRange{
			{Style: "ITALIC", Offset: 4, Length: 2},
			{Style: "BOLD", Offset: 0, Length: 2},
			{Style: "CODE", Offset: 2, Length: 2},
		},
	}

	ranges := foldRanges(b, shelf.EntityMap{})
	if len(ranges) != 3 {
		t.Fatalf("ranges = %d, want 3", len(ranges))
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i-1].offset > ranges[i].offset {
			t.Fatalf("ranges not sorted: %v", ranges)
		}
	}
	if ranges[0].token != "BOLD" || ranges[1].token != "CODE" || ranges[2].token != "ITALIC" {
		t.Errorf("order = %s %s %s", ranges[0].token, ranges[1].token, ranges[2].token)
	}
}

func TestFoldRanges_Entities(t *testing.T) {
	entities := shelf.EntityMap{
		"0": {Type: shelf.EntityLink, Data: shelf.EntityData{Href: "https://example.com"}},
		"1": {Type: shelf.EntityImg, Data: shelf.EntityData{Src: "https://cdn.example.com/i.png"}},
		"2": {Type: "MENTION", Data: shelf.EntityData{}},
	}
	b := &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: "see 🖼 here",
		EntityRanges: []shelf.EntityRange{
			{Key: "0", Offset: 0, Length: 3},
			{Key: "1", Offset: 4, Length: 1},
			{Key: "2", Offset: 6, Length: 4},
			{Key: "9", Offset: 0, Length: 1}, // dangling reference
		},
	}

	ranges := foldRanges(b, entities)
	// unknown entity type and dangling key are dropped
	if len(ranges) != 2 {
		t.Fatalf("ranges = %d, want 2: %v", len(ranges), ranges)
	}
	if ranges[0].token != tokenLink || ranges[0].href != "https://example.com" {
		t.Errorf("link range = %+v", ranges[0])
	}
	if ranges[1].token != tokenImg || ranges[1].img == nil || ranges[1].img.Src == "" {
		t.Errorf("img range = %+v", ranges[1])
	}
}

func TestFoldRanges_HeaderStep(t *testing.T) {
	b := &shelf.Block{Type: shelf.BlockHeaderStep, Text: "Step"}
	ranges := foldRanges(b, shelf.EntityMap{})
	if len(ranges) != 1 {
		t.Fatalf("ranges = %d, want 1", len(ranges))
	}
	if ranges[0].token != "header-step" || ranges[0].offset != 0 || ranges[0].length != 4 {
		t.Errorf("step range = %+v", ranges[0])
	}
}

func TestAddText_PerCharacterRuns(t *testing.T) {
	s := testState(t)
	s.newParagraph("")
	s.addText(context.Background(), &shelf.Block{Type: shelf.BlockUnstyled, Text: "héllo"}, s.para)

	runs := s.para.Runs()
	if len(runs) != 5 {
		t.Fatalf("runs = %d, want 5 (one per code point)", len(runs))
	}
	if runs[1].Text() != "é" {
		t.Errorf("run 1 = %q, want é", runs[1].Text())
	}
	if got := paraText(s.para); got != "héllo" {
		t.Errorf("text = %q", got)
	}
}

func TestAddText_StyleTokens(t *testing.T) {
	s := testState(t)
	s.newParagraph("")
	s.addText(context.Background(), &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: "abcd",
		InlineStyleRanges: []shelf.InlineStyleRange{
			{Style: "BOLD", Offset: 0, Length: 2},
			{Style: "CODE", Offset: 1, Length: 1},
			{Style: "KBD", Offset: 3, Length: 1},
		},
	}, s.para)

	runs := s.para.Runs()

	if v, ok := runs[0].Props().Bold(); !ok || !v {
		t.Error("run 0 not bold")
	}
	// CODE applied after BOLD on run 1 - scalar attributes are last-wins
	if v, ok := runs[1].Props().Color(); !ok || v != "4472C4" {
		t.Errorf("run 1 color = %q, want 4472C4", v)
	}
	if v, ok := runs[1].Props().Font(); !ok || v != "Times New Roman" {
		t.Errorf("run 1 font = %q", v)
	}
	if v, ok := runs[1].Props().Bold(); !ok || !v {
		t.Error("run 1 lost bold from the earlier range")
	}
	if v, ok := runs[3].Props().Font(); !ok || v != "Courier New" {
		t.Errorf("KBD run font = %q", v)
	}
	// untouched character keeps defaults
	if v, ok := runs[2].Props().Color(); !ok || v != s.e.opts.TextColor {
		t.Errorf("run 2 color = %q, want default", v)
	}
}

func TestAddText_ScalarLastWins(t *testing.T) {
	s := testState(t)
	s.newParagraph("")
	// both ranges set size; the one applied later (higher offset) wins on the overlap
	s.addText(context.Background(), &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: "abc",
		InlineStyleRanges: []shelf.InlineStyleRange{
			{Style: "header-step", Offset: 0, Length: 3}, // 10.5pt
			{Style: "CODE", Offset: 1, Length: 2},        // 12pt
		},
	}, s.para)

	runs := s.para.Runs()
	if v, _ := runs[0].Props().Size(); v != 10.5 {
		t.Errorf("run 0 size = %v, want 10.5", v)
	}
	if v, _ := runs[1].Props().Size(); v != 12 {
		t.Errorf("run 1 size = %v, want 12 (last range wins)", v)
	}
}

func TestAddText_OutOfBoundsRange(t *testing.T) {
	s := testState(t)
	s.newParagraph("")
	s.addText(context.Background(), &shelf.Block{
		Type: shelf.BlockUnstyled,
		Text: "ab",
		InlineStyleRanges: []shelf.InlineStyleRange{
			{Style: "BOLD", Offset: 1, Length: 10},
			{Style: "ITALIC", Offset: -2, Length: 3},
		},
	}, s.para)

	// covered characters styled, the rest silently skipped
	runs := s.para.Runs()
	if v, ok := runs[1].Props().Bold(); !ok || !v {
		t.Error("in-range character not styled")
	}
	if v, ok := runs[0].Props().Italic(); !ok || !v {
		t.Error("partially negative range must still cover its tail")
	}
	if len(s.errs) != 0 {
		t.Errorf("out of bounds ranges degraded the block: %v", s.errs)
	}
}

func TestAddText_LinkEntity(t *testing.T) {
	s := testState(t)
	s.entities = shelf.EntityMap{
		"0": {Type: shelf.EntityLink, Data: shelf.EntityData{Href: "https://example.com"}},
	}
	s.newParagraph("")
	s.addText(context.Background(), &shelf.Block{
		Type:         shelf.BlockUnstyled,
		Text:         "hi there",
		EntityRanges: []shelf.EntityRange{{Key: "0", Offset: 0, Length: 2}},
	}, s.para)

	doc := documentXML(t, s)
	links := doc.FindElements("//w:hyperlink")
	if len(links) != 2 {
		t.Fatalf("hyperlinks = %d, want one per covered character", len(links))
	}
	if got := links[0].FindElement("w:r/w:t").Text(); got != "h" {
		t.Errorf("link text = %q, want h", got)
	}
}

func TestApplyInlineImage_DataURI(t *testing.T) {
	s := testState(t)
	s.entities = shelf.EntityMap{
		"0": {Type: shelf.EntityImg, Data: shelf.EntityData{Src: pngDataURI(t, 10, 10), Size: "48"}},
	}
	s.newParagraph("")
	s.addText(context.Background(), &shelf.Block{
		Type:         shelf.BlockUnstyled,
		Text:         "icon 🖼 end",
		EntityRanges: []shelf.EntityRange{{Key: "0", Offset: 5, Length: 1}},
	}, s.para)

	if len(s.errs) != 0 {
		t.Fatalf("inline image degraded: %v", s.errs)
	}
	if got := paraText(s.para); got != "icon  end" {
		t.Errorf("text = %q, marker not removed", got)
	}

	doc := documentXML(t, s)
	extent := doc.FindElement("//wp:inline/wp:extent")
	if extent == nil {
		t.Fatal("no inline picture")
	}
	// 48 px at 96 px/inch = half an inch = 457200 EMU
	if got := extent.SelectAttrValue("cx", ""); got != "457200" {
		t.Errorf("extent = %q, want 457200", got)
	}
}
