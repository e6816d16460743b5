package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// Template is a parsed read-only view of an existing .docx used as a style
// source by the merge pass: for every paragraph style name it keeps a
// representative run formatting sample.
//
// The sample is the LAST run encountered under a paragraph of that style -
// the scan does not break early. This mirrors the historical exporter
// behavior and is preserved as documented, not necessarily intended.
type Template struct {
	samples map[string]*RunProps
}

// Sample returns the stored formatting sample for a style name.
func (t *Template) Sample(styleName string) (*RunProps, bool) {
	s, ok := t.samples[styleName]
	return s, ok
}

// StyleNames returns how many styles were sampled. Mostly for logging.
func (t *Template) Len() int { return len(t.samples) }

// ReadTemplate parses a .docx package from memory.
func ReadTemplate(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to open template package: %w", err)
	}

	idToName, err := readStyleNames(zr)
	if err != nil {
		return nil, err
	}

	docXML, err := readZipPart(zr, "word/document.xml")
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(docXML); err != nil {
		return nil, fmt.Errorf("unable to parse template document: %w", err)
	}

	body := doc.FindElement("//w:body")
	if body == nil {
		return nil, fmt.Errorf("template document has no body")
	}

	t := &Template{samples: make(map[string]*RunProps)}
	for _, p := range body.SelectElements("w:p") {
		name := StyleNormal
		if pStyle := p.FindElement("w:pPr/w:pStyle"); pStyle != nil {
			if id := pStyle.SelectAttrValue("w:val", ""); id != "" {
				if n, ok := idToName[id]; ok {
					name = n
				} else {
					name = id
				}
			}
		}
		for _, r := range p.SelectElements("w:r") {
			rPr := r.FindElement("w:rPr")
			if rPr == nil {
				rPr = etree.NewElement("w:rPr")
			} else {
				rPr = rPr.Copy()
			}
			// last run with the style wins
			t.samples[name] = &RunProps{el: rPr}
		}
	}
	return t, nil
}

func readStyleNames(zr *zip.Reader) (map[string]string, error) {
	idToName := make(map[string]string)

	stylesXML, err := readZipPart(zr, "word/styles.xml")
	if err != nil {
		// styles part is optional in degenerate packages
		return idToName, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(stylesXML); err != nil {
		return nil, fmt.Errorf("unable to parse template styles: %w", err)
	}
	for _, s := range doc.FindElements("//w:style") {
		id := s.SelectAttrValue("w:styleId", "")
		if id == "" {
			continue
		}
		if nameEl := s.FindElement("w:name"); nameEl != nil {
			if name := nameEl.SelectAttrValue("w:val", ""); name != "" {
				idToName[id] = name
			}
		}
	}
	return idToName, nil
}

func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to open part %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("part %s not found", name)
}
