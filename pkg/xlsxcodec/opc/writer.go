package opc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Writer produces a zipped package. Parts are written in the order they are
// added; relationship parts and the content types part are written by Close.
type Writer struct {
	zw        *zip.Writer
	overrides map[string]string
	defaults  map[string]string
	rels      map[string]*Relationships
	relOrder  []string
	written   map[string]bool
}

// NewWriter creates a package writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		zw:        zip.NewWriter(w),
		overrides: make(map[string]string),
		defaults: map[string]string{
			"rels": ContentTypeRels,
			"xml":  ContentTypeXML,
		},
		rels:    make(map[string]*Relationships),
		written: make(map[string]bool),
	}
}

// AddPart writes part name with its content type.
func (w *Writer) AddPart(name, contentType string, data []byte) error {
	name = strings.TrimPrefix(name, "/")
	if w.written[name] {
		return fmt.Errorf("part %s written twice", name)
	}
	f, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	w.written[name] = true
	if contentType != "" {
		w.overrides["/"+name] = contentType
	}
	return nil
}

// Rel records a relationship from source (empty for the package) to target
// and returns its id. Internal targets are part names from the package root.
func (w *Writer) Rel(source, relType, target string, external bool) string {
	rels, ok := w.rels[source]
	if !ok {
		rels = &Relationships{Source: source}
		w.rels[source] = rels
		w.relOrder = append(w.relOrder, source)
	}
	id := fmt.Sprintf("rId%d", len(rels.Items)+1)
	if !external {
		target = RelativeTarget(source, target)
	}
	rels.Items = append(rels.Items, Relationship{ID: id, Type: relType, Target: target, External: external})
	return id
}

// Close writes the relationship parts and the content types part, then
// finishes the archive.
func (w *Writer) Close() error {
	for _, source := range w.relOrder {
		if err := w.writeRels(w.rels[source]); err != nil {
			return err
		}
	}
	if err := w.writeContentTypes(); err != nil {
		return err
	}
	return w.zw.Close()
}

func (w *Writer) writeRels(rels *Relationships) error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="` + NSRelationships + `">`)
	for _, rel := range rels.Items {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"`, rel.ID, rel.Type, escape(rel.Target))
		if rel.External {
			b.WriteString(` TargetMode="External"`)
		}
		b.WriteString("/>")
	}
	b.WriteString("</Relationships>")
	return w.AddPart(RelsPath(rels.Source), "", []byte(b.String()))
}

func (w *Writer) writeContentTypes() error {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="` + NSContentTypes + `">`)

	exts := make([]string, 0, len(w.defaults))
	for ext := range w.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, w.defaults[ext])
	}

	names := make([]string, 0, len(w.overrides))
	for name := range w.overrides {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return partLess(names[i], names[j]) })
	for _, name := range names {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, escape(name), w.overrides[name])
	}
	b.WriteString("</Types>")
	return w.AddPart("[Content_Types].xml", "", []byte(b.String()))
}

// partLess orders part names by directory, then by natural file order so
// sheet2 sorts before sheet10.
func partLess(a, b string) bool {
	da, fa := path.Split(a)
	db, fb := path.Split(b)
	if da != db {
		return da < db
	}
	if len(fa) != len(fb) {
		return len(fa) < len(fb)
	}
	return fa < fb
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
