// Package opc reads and writes the zipped parts of an Open Packaging Conventions package.
package opc

import (
	"path"
	"strings"
)

// Relationship type URIs (transitional schema).
const (
	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

	RelOfficeDocument = relBase + "officeDocument"
	RelWorksheet      = relBase + "worksheet"
	RelSharedStrings  = relBase + "sharedStrings"
	RelStyles         = relBase + "styles"
	RelTheme          = relBase + "theme"
	RelDrawing        = relBase + "drawing"
	RelChart          = relBase + "chart"
	RelComments       = relBase + "comments"
	RelHyperlink      = relBase + "hyperlink"
	RelVMLDrawing     = relBase + "vmlDrawing"
)

// Content types of the parts written by the codec.
const (
	ContentTypeRels          = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML           = "application/xml"
	ContentTypeWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypeWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ContentTypeSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ContentTypeStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ContentTypeTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ContentTypeDrawing       = "application/vnd.openxmlformats-officedocument.drawing+xml"
	ContentTypeChart         = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ContentTypeComments      = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
)

// NSRelationships is the namespace of relationship parts.
const NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

// NSContentTypes is the namespace of the content types part.
const NSContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

// RelKind returns the last segment of a relationship type, so transitional
// and strict URIs compare equal (e.g. "worksheet").
func RelKind(relType string) string {
	if i := strings.LastIndex(relType, "/"); i >= 0 {
		return relType[i+1:]
	}
	return relType
}

// Relationship links a source part to a target.
type Relationship struct {
	ID     string
	Type   string
	Target string
	// External reports TargetMode="External"; the target is then not a part.
	External bool
}

// Relationships is the relationship set of one source part.
type Relationships struct {
	// Source is the part owning the set, empty for the package.
	Source string
	Items  []Relationship
}

// ByID returns the relationship with the given id.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	if r == nil {
		return Relationship{}, false
	}
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByKind returns every relationship whose type ends in kind.
func (r *Relationships) ByKind(kind string) []Relationship {
	if r == nil {
		return nil
	}
	var res []Relationship
	for _, rel := range r.Items {
		if RelKind(rel.Type) == kind {
			res = append(res, rel)
		}
	}
	return res
}

// TargetPart resolves the part name a relationship points to.
func (r *Relationships) TargetPart(rel Relationship) string {
	return ResolvePath(r.Source, rel.Target)
}

// ResolvePath resolves target relative to the directory of source.
// Absolute targets start at the package root.
func ResolvePath(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}

// RelsPath returns the relationship part of source.
// "xl/workbook.xml" -> "xl/_rels/workbook.xml.rels", "" -> "_rels/.rels".
func RelsPath(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// RelativeTarget expresses part as a target relative to the directory of source.
func RelativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	to := strings.Split(part, "/")
	if path.Dir(source) == "." {
		return part
	}
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var b strings.Builder
	for j := i; j < len(from); j++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}
