// Package docx is the document sink: it turns semantic calls (add paragraph,
// add run, add table, add picture) into OOXML word-processing parts and
// serializes them into a .docx package.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
)

// OOXML namespace URIs used across document parts.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsMC  = "http://schemas.openxmlformats.org/markup-compatibility/2006"

	nsPkgRels     = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentType = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	contentTypeDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	contentTypeStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"

	// ContentType is the MIME type of the finished package.
	ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type relationship struct {
	id       string
	relType  string
	target   string
	external bool
}

type mediaPart struct {
	name string // part name under word/, e.g. "media/image00001.png"
	ext  string
	data []byte
}

// Document is an in-progress word-processing document. It is not safe for
// concurrent use - one render owns one document.
type Document struct {
	doc    *etree.Document
	body   *etree.Element
	styles *styleRegistry

	rels       []relationship
	media      []mediaPart
	relNum     int
	drawingNum int

	paragraphs []*Paragraph // every paragraph ever added, in creation order
}

// NewDocument creates an empty document with default page geometry.
func NewDocument() *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:pic", nsPic)
	root.CreateAttr("xmlns:mc", nsMC)

	d := &Document{
		doc:    doc,
		body:   root.CreateElement("w:body"),
		styles: newStyleRegistry(),
	}
	d.addRelationship(relTypeStyles, "styles.xml", false)
	return d
}

func (d *Document) addRelationship(relType, target string, external bool) string {
	d.relNum++
	id := fmt.Sprintf("rId%d", d.relNum)
	d.rels = append(d.rels, relationship{id: id, relType: relType, target: target, external: external})
	return id
}

func (d *Document) addMedia(data []byte, ext string) (relID string) {
	name := fmt.Sprintf("media/image%05d.%s", len(d.media)+1, ext)
	d.media = append(d.media, mediaPart{name: name, ext: ext, data: data})
	return d.addRelationship(relTypeImage, name, false)
}

func (d *Document) nextDrawingID() int {
	d.drawingNum++
	return d.drawingNum
}

// Paragraphs returns every paragraph added to the document (body and table
// cells alike) in creation order. Used by the style merge pass.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}

// GetOrCreateStyle returns the registered paragraph style with the given
// display name, creating it when seen for the first time.
func (d *Document) GetOrCreateStyle(name string) *Style {
	return d.styles.getOrCreate(name)
}

// WriteTo serializes the package. fix rewrites the archive without zip data
// descriptors - some strict OOXML consumers reject streamed entries.
func (d *Document) WriteTo(w io.Writer, fix bool) error {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	if err := d.writeParts(zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close package archive: %w", err)
	}

	if !fix {
		_, err := w.Write(buf.Bytes())
		return err
	}
	return copyZipWithoutDataDescriptors(w, buf.Bytes())
}

// Bytes serializes the package into memory.
func (d *Document) Bytes(fix bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf, fix); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) writeParts(zw *zip.Writer) error {
	// section properties must close the body; keep them regenerated so
	// repeated saves stay consistent
	d.ensureSectPr()

	if err := writeXMLToZip(zw, "[Content_Types].xml", d.contentTypesXML()); err != nil {
		return fmt.Errorf("unable to write content types: %w", err)
	}
	if err := writeXMLToZip(zw, "_rels/.rels", packageRelsXML()); err != nil {
		return fmt.Errorf("unable to write package relationships: %w", err)
	}
	if err := writeXMLToZip(zw, "word/_rels/document.xml.rels", d.documentRelsXML()); err != nil {
		return fmt.Errorf("unable to write document relationships: %w", err)
	}
	if err := writeXMLToZip(zw, "word/document.xml", d.doc); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	if err := writeXMLToZip(zw, "word/styles.xml", d.styles.xml()); err != nil {
		return fmt.Errorf("unable to write styles: %w", err)
	}
	for _, m := range d.media {
		if err := writeDataToZip(zw, "word/"+m.name, m.data); err != nil {
			return fmt.Errorf("unable to write media part %s: %w", m.name, err)
		}
	}
	return nil
}

func (d *Document) ensureSectPr() {
	if sect := d.body.FindElement("w:sectPr"); sect != nil {
		d.body.RemoveChild(sect)
	}
	sect := d.body.CreateElement("w:sectPr")

	// Letter-ish page in twips, the defaults python-docx ships
	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "12240")
	pgSz.CreateAttr("w:h", "15840")

	pgMar := sect.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", "1440")
	pgMar.CreateAttr("w:right", "1440")
	pgMar.CreateAttr("w:bottom", "1440")
	pgMar.CreateAttr("w:left", "1440")
	pgMar.CreateAttr("w:header", "720")
	pgMar.CreateAttr("w:footer", "720")
}

func (d *Document) contentTypesXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentType)

	addDefault := func(ext, ct string) {
		def := types.CreateElement("Default")
		def.CreateAttr("Extension", ext)
		def.CreateAttr("ContentType", ct)
	}
	addDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	addDefault("xml", "application/xml")

	seen := map[string]bool{}
	for _, m := range d.media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		mime := "image/" + m.ext
		if m.ext == "jpg" {
			mime = "image/jpeg"
		}
		addDefault(m.ext, mime)
	}

	addOverride := func(part, ct string) {
		ov := types.CreateElement("Override")
		ov.CreateAttr("PartName", part)
		ov.CreateAttr("ContentType", ct)
	}
	addOverride("/word/document.xml", contentTypeDocument)
	addOverride("/word/styles.xml", contentTypeStyles)

	return doc
}

func packageRelsXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRels)

	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rId1")
	rel.CreateAttr("Type", relTypeDocument)
	rel.CreateAttr("Target", "word/document.xml")

	return doc
}

func (d *Document) documentRelsXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRels)

	for _, r := range d.rels {
		rel := rels.CreateElement("Relationship")
		rel.CreateAttr("Id", r.id)
		rel.CreateAttr("Type", r.relType)
		rel.CreateAttr("Target", r.target)
		if r.external {
			rel.CreateAttr("TargetMode", "External")
		}
	}
	return doc
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyZipWithoutDataDescriptors(w io.Writer, data []byte) error {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unable to reopen package archive: %w", err)
	}

	zw := fixzip.NewWriter(w)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^uint16(fixzip.FlagDataDescriptor)

		if err := zw.CopyFile(file); err != nil {
			return fmt.Errorf("unable to copy package entry %s: %w", file.Name, err)
		}
	}
	return zw.Close()
}
