package shelf

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseBlockType(t *testing.T) {
	tests := []struct {
		in   string
		want BlockType
	}{
		{"unstyled", BlockUnstyled},
		{"header-two", BlockHeaderTwo},
		{"header-three", BlockHeaderThree},
		{"header-step", BlockHeaderStep},
		{"ordered-list-item", BlockOrderedListItem},
		{"unordered-list-item", BlockUnorderedListItem},
		{"figure", BlockFigure},
		{"mdtable", BlockMdTable},
		{"dictionary", BlockDictionary},
		{"cell", BlockCell},
		{"blockquote", BlockBlockquote},
		{"code-block", BlockCodeBlock},
		{"video", BlockVideo},
		{"gist-block", BlockGist},
		{"snippet", BlockSnippet},
		{"something-new", BlockUnknown},
		{"", BlockUnknown},
	}
	for _, tt := range tests {
		if got := ParseBlockType(tt.in); got != tt.want {
			t.Errorf("ParseBlockType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBlockType_RoundTrip(t *testing.T) {
	for _, bt := range []BlockType{BlockUnstyled, BlockCell, BlockGist} {
		data, err := json.Marshal(bt)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", bt, err)
		}
		var got BlockType
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if got != bt {
			t.Errorf("round trip %v -> %s -> %v", bt, data, got)
		}
	}
}

func TestParse(t *testing.T) {
	payload := `{
		"id": "shelf-1",
		"request_user_id": "u-7",
		"shelf_name": "Onboarding",
		"books": [{
			"name": "Basics",
			"articles": [{
				"name": "Welcome",
				"description": "Start here",
				"meta": {"icon": "https://cdn.example.com/icon.png"},
				"doc_version": 3,
				"blocks": [
					{"type": "header-two", "key": "a1", "text": "Intro", "depth": 0,
					 "entityRanges": [], "inlineStyleRanges": []},
					{"type": "unstyled", "key": "a2", "text": "Hello there", "depth": 0,
					 "entityRanges": [{"key": 0, "offset": 0, "length": 5}],
					 "inlineStyleRanges": [{"style": "BOLD", "offset": 6, "length": 5}]},
					{"type": "future-block", "key": "a3", "text": "", "depth": 0,
					 "entityRanges": [], "inlineStyleRanges": []}
				],
				"entity_map": {
					"0": {"type": "LINK", "data": {"href": "https://example.com"}}
				}
			}]
		}],
		"unknown_field": true
	}`

	sh, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if sh.ID != "shelf-1" || sh.RequestUserID != "u-7" || sh.Name != "Onboarding" {
		t.Errorf("shelf head = %q %q %q", sh.ID, sh.RequestUserID, sh.Name)
	}
	if len(sh.Books) != 1 || len(sh.Books[0].Articles) != 1 {
		t.Fatalf("unexpected shape: %d books", len(sh.Books))
	}

	art := sh.Books[0].Articles[0]
	if art.DocVersion != 3 {
		t.Errorf("DocVersion = %d, want 3", art.DocVersion)
	}
	if art.Meta == nil || art.Meta.Icon == "" {
		t.Error("article meta icon missing")
	}
	if len(art.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(art.Blocks))
	}
	if art.Blocks[0].Type != BlockHeaderTwo {
		t.Errorf("block 0 type = %v", art.Blocks[0].Type)
	}
	if art.Blocks[2].Type != BlockUnknown {
		t.Errorf("unrecognized tag parsed to %v, want BlockUnknown", art.Blocks[2].Type)
	}

	b := art.Blocks[1]
	if len(b.EntityRanges) != 1 || len(b.InlineStyleRanges) != 1 {
		t.Fatalf("ranges = %d entity, %d inline", len(b.EntityRanges), len(b.InlineStyleRanges))
	}
	e, ok := art.EntityMap.Get(b.EntityRanges[0].Key)
	if !ok {
		t.Fatal("numeric entity key did not resolve")
	}
	if e.Type != EntityLink || e.Data.Href != "https://example.com" {
		t.Errorf("entity = %+v", e)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestParseArticle(t *testing.T) {
	body := `{"name": "Frag", "doc_version": 2, "blocks": [
		{"type": "unstyled", "key": "k1", "text": "one"},
		{"type": "unstyled", "key": "k2", "text": "two"}
	], "entity_map": {}}`

	art, err := ParseArticle(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}
	if art.Name != "Frag" || len(art.Blocks) != 2 {
		t.Errorf("article = %q with %d blocks", art.Name, len(art.Blocks))
	}
}

func TestEntityData_SizePx(t *testing.T) {
	tests := []struct {
		name string
		data *EntityData
		def  int
		want int
	}{
		{"nil data", nil, 48, 48},
		{"absent", &EntityData{}, 48, 48},
		{"integer", &EntityData{Size: json.Number("96")}, 48, 96},
		{"float", &EntityData{Size: json.Number("72.5")}, 48, 72},
		{"garbage", &EntityData{Size: json.Number("wat")}, 48, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.SizePx(tt.def); got != tt.want {
				t.Errorf("SizePx(%d) = %d, want %d", tt.def, got, tt.want)
			}
		})
	}
}
