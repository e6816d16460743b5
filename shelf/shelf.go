// Package shelf defines the input document model: a shelf of books, each book
// a list of articles, each article a flat ordered stream of typed content
// blocks with inline style ranges and entity references.
package shelf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// BlockType is a closed enumeration over the block type tags the editor
// produces. Unknown tags parse to BlockUnknown and render as plain text.
type BlockType int

const (
	BlockUnknown BlockType = iota
	BlockUnstyled
	BlockHeaderTwo
	BlockHeaderThree
	BlockHeaderStep
	BlockOrderedListItem
	BlockUnorderedListItem
	BlockFigure
	BlockMdTable
	BlockDictionary
	BlockCell
	BlockBlockquote
	BlockCodeBlock
	BlockVideo
	BlockGist
	BlockSnippet
)

var blockTypeNames = map[BlockType]string{
	BlockUnknown:           "unknown",
	BlockUnstyled:          "unstyled",
	BlockHeaderTwo:         "header-two",
	BlockHeaderThree:       "header-three",
	BlockHeaderStep:        "header-step",
	BlockOrderedListItem:   "ordered-list-item",
	BlockUnorderedListItem: "unordered-list-item",
	BlockFigure:            "figure",
	BlockMdTable:           "mdtable",
	BlockDictionary:        "dictionary",
	BlockCell:              "cell",
	BlockBlockquote:        "blockquote",
	BlockCodeBlock:         "code-block",
	BlockVideo:             "video",
	BlockGist:              "gist-block",
	BlockSnippet:           "snippet",
}

var blockTypeValues = func() map[string]BlockType {
	m := make(map[string]BlockType, len(blockTypeNames))
	for t, n := range blockTypeNames {
		m[n] = t
	}
	return m
}()

func (t BlockType) String() string {
	if n, ok := blockTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseBlockType never fails - unrecognized tags map to BlockUnknown since
// upstream data is not schema validated.
func ParseBlockType(s string) BlockType {
	if t, ok := blockTypeValues[s]; ok {
		return t
	}
	return BlockUnknown
}

func (t BlockType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *BlockType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseBlockType(s)
	return nil
}

// EntityType is the type tag of an entity map record.
type EntityType string

const (
	EntityLink EntityType = "LINK"
	EntityImg  EntityType = "IMG"
)

// EntityData is the payload of an entity map record. Fields are populated
// depending on the entity type - Href for links, Src/Size for images. Style is
// a presentation hint ("block" marks a block-level link card).
type EntityData struct {
	Href  string      `json:"href,omitempty"`
	Src   string      `json:"src,omitempty"`
	Size  json.Number `json:"size,omitempty"`
	Style string      `json:"style,omitempty"`
}

// SizePx returns the declared pixel size of an image entity, or def when the
// size is absent or malformed.
func (d *EntityData) SizePx(def int) int {
	if d == nil || d.Size == "" {
		return def
	}
	n, err := d.Size.Int64()
	if err != nil {
		if f, ferr := d.Size.Float64(); ferr == nil {
			return int(f)
		}
		return def
	}
	return int(n)
}

// Entity is one record of the entity map.
type Entity struct {
	Type EntityType `json:"type"`
	Data EntityData `json:"data"`
}

// EntityMap resolves symbolic entity references from inline ranges. Immutable
// for the duration of one article render.
type EntityMap map[string]Entity

// Get resolves an entity range key. Keys are numeric in the wire format but
// the map is keyed by their decimal string form.
func (m EntityMap) Get(key json.Number) (Entity, bool) {
	e, ok := m[key.String()]
	return e, ok
}

// EntityRange references an entity map record over a span of block text.
type EntityRange struct {
	Key    json.Number `json:"key"`
	Offset int         `json:"offset"`
	Length int         `json:"length"`
}

// InlineStyleRange applies a style token over a span of block text. Offsets
// may be emitted out of order by upstream producers and must be sorted before
// application.
type InlineStyleRange struct {
	Style  string `json:"style"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// TableData is the v3 table descriptor carried on the first cell block of a
// table.
type TableData struct {
	Cols int `json:"cols"`
}

// BlockData is the type specific payload of a block: image src, video src,
// blockquote style variant, code block label/type, v3 table shape.
type BlockData struct {
	Src   string     `json:"src,omitempty"`
	Label string     `json:"label,omitempty"`
	Align string     `json:"align,omitempty"`
	Style string     `json:"style,omitempty"`
	Type  string     `json:"type,omitempty"`
	Depth int        `json:"depth,omitempty"`
	Table *TableData `json:"table,omitempty"`
}

// Block is one unit of the input stream. Within one article keys are unique
// and their relative order equals document order. Depth semantics are
// overloaded per type: nesting level for lists and blockquotes, encoded
// column hint for legacy table cells.
type Block struct {
	Type              BlockType          `json:"type"`
	Key               string             `json:"key"`
	Text              string             `json:"text"`
	Depth             int                `json:"depth"`
	Offset            int                `json:"offset"`
	Length            int                `json:"length"`
	EntityRanges      []EntityRange      `json:"entityRanges"`
	InlineStyleRanges []InlineStyleRange `json:"inlineStyleRanges"`
	Data              *BlockData         `json:"data,omitempty"`
}

// ArticleMeta carries presentation metadata of an article.
type ArticleMeta struct {
	Icon string `json:"icon,omitempty"`
}

// Article is one renderable document section: an ordered block stream plus
// its entity map. DocVersion selects legacy (<=2) depth encoding handling.
type Article struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Meta        *ArticleMeta `json:"meta,omitempty"`
	DocVersion  int          `json:"doc_version"`
	Blocks      []Block      `json:"blocks"`
	EntityMap   EntityMap    `json:"entity_map"`
}

// Book groups articles.
type Book struct {
	Name     string    `json:"name"`
	Articles []Article `json:"articles"`
}

// Shelf is the top level export unit.
type Shelf struct {
	ID            string `json:"id"`
	RequestUserID string `json:"request_user_id"`
	Name          string `json:"shelf_name"`
	Books         []Book `json:"books"`
}

// Parse decodes a shelf from its JSON wire form. Unknown fields are ignored -
// the editor model carries more than the exporter needs.
func Parse(data []byte) (*Shelf, error) {
	var s Shelf
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("unable to decode shelf: %w", err)
	}
	return &s, nil
}

// ParseArticle decodes a standalone article fragment, e.g. a stored snippet
// body.
func ParseArticle(r io.Reader) (*Article, error) {
	var a Article
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("unable to decode article: %w", err)
	}
	return &a, nil
}
