package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NS is a namespace known to the reader.
type NS int

// Known namespaces.
const (
	NSNone NS = iota
	NSSpreadsheet
	NSDocRel
	NSDrawing
	NSSheetDrawing
	NSChart
	NSPackageRel
	NSMarkupCompat
	NSXML
	NSOther
)

// nsURIs maps namespace URIs to the closed namespace set. Strict and beta
// spreadsheet URIs resolve to the same namespaces as the transitional ones.
var nsURIs = map[string]NS{
	"http://schemas.openxmlformats.org/spreadsheetml/2006/main":           NSSpreadsheet,
	"http://purl.oclc.org/ooxml/spreadsheetml/main":                       NSSpreadsheet,
	"http://schemas.microsoft.com/office/excel/2006/2":                    NSSpreadsheet,
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships": NSDocRel,
	"http://purl.oclc.org/ooxml/officeDocument/relationships":             NSDocRel,
	"http://schemas.openxmlformats.org/drawingml/2006/main":               NSDrawing,
	"http://purl.oclc.org/ooxml/drawingml/main":                           NSDrawing,
	"http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing": NSSheetDrawing,
	"http://purl.oclc.org/ooxml/drawingml/spreadsheetDrawing":             NSSheetDrawing,
	"http://schemas.openxmlformats.org/drawingml/2006/chart":              NSChart,
	"http://purl.oclc.org/ooxml/drawingml/chart":                          NSChart,
	"http://schemas.openxmlformats.org/package/2006/relationships":        NSPackageRel,
	"http://schemas.openxmlformats.org/markup-compatibility/2006":         NSMarkupCompat,
	"http://www.w3.org/XML/1998/namespace":                                NSXML,
	"xml":                                                                 NSXML,
}

// resolveNS maps a namespace URI to the closed set.
func resolveNS(uri string) NS {
	if uri == "" {
		return NSNone
	}
	if ns, ok := nsURIs[uri]; ok {
		return ns
	}
	return NSOther
}

// Content selects how character data of an element is collected.
type Content int

// Content modes.
const (
	// ContentNone ignores character data.
	ContentNone Content = iota
	// ContentText collects character data; whitespace-only text becomes empty.
	ContentText
	// ContentKeep collects character data verbatim.
	ContentKeep
)

// Root is the parent id of document elements.
const Root = "START"

// Node declares one element of a part grammar.
type Node[S any] struct {
	// ID names the node; children refer to it as Parent.
	ID     string
	Parent string
	NS     NS
	Name   string
	// Content selects character data collection.
	Content Content
	Start   func(s S, attrs []xml.Attr)
	End     func(s S, text string)
	// Tag is handler data available through Context.Tag.
	Tag int
	// Ref re-uses the node with that id, children included, under Parent.
	Ref string
	// Opaque silences warnings for undeclared children.
	Opaque bool
	// Capture records the subtree as a models.Blob instead of dispatching it.
	Capture bool
}

type nodeKey struct {
	parent string
	ns     NS
	name   string
}

type edge[S any] struct {
	state string
	node  *Node[S]
	tag   int
}

// Grammar is a compiled set of nodes.
type Grammar[S any] struct {
	name  string
	edges map[nodeKey]*edge[S]
	nodes map[string]*Node[S]
}

// Compile builds a grammar. Inconsistent declarations panic.
func Compile[S any](name string, nodes []Node[S]) *Grammar[S] {
	g := &Grammar[S]{
		name:  name,
		edges: make(map[nodeKey]*edge[S], len(nodes)),
		nodes: make(map[string]*Node[S], len(nodes)),
	}
	for i := range nodes {
		n := &nodes[i]
		if n.ID == "" || n.ID == Root {
			panic(fmt.Sprintf("%s: invalid node id %q", name, n.ID))
		}
		if _, dup := g.nodes[n.ID]; dup {
			panic(fmt.Sprintf("%s: duplicate node id %q", name, n.ID))
		}
		g.nodes[n.ID] = n
	}
	for i := range nodes {
		n := &nodes[i]
		if n.Parent != Root {
			if p, ok := g.nodes[n.Parent]; !ok || p.Ref != "" {
				panic(fmt.Sprintf("%s: node %q has unknown parent %q", name, n.ID, n.Parent))
			}
		}
		e := &edge[S]{state: n.ID, node: n, tag: n.Tag}
		if n.Ref != "" {
			target, ok := g.nodes[n.Ref]
			if !ok || target.Ref != "" {
				panic(fmt.Sprintf("%s: node %q refers to unknown node %q", name, n.ID, n.Ref))
			}
			merged := *target
			if n.Start != nil {
				merged.Start = n.Start
			}
			if n.End != nil {
				merged.End = n.End
			}
			e = &edge[S]{state: target.ID, node: &merged, tag: n.Tag}
			if n.Tag == 0 {
				e.tag = target.Tag
			}
		}
		k := nodeKey{parent: n.Parent, ns: n.NS, name: n.Name}
		if _, dup := g.edges[k]; dup {
			panic(fmt.Sprintf("%s: duplicate element %q under %q", name, n.Name, n.Parent))
		}
		g.edges[k] = e
	}
	return g
}

// SyntaxError is a fatal XML error in a part.
type SyntaxError struct {
	Part string
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed XML in %s at line %d: %v", e.Part, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// frame is one open element.
type frame struct {
	state       string
	name        string
	tag         int
	content     Content
	opaque      bool
	transparent bool
	text        strings.Builder
	end         func(text string)
}

// Parse dispatches the elements of r through g. s is the per-part state
// handed to every handler and c its parse context.
func Parse[S any](g *Grammar[S], s S, c *Context, r io.Reader) error {
	decoder := newDecoder(r)
	c.stack = c.stack[:0]
	c.stack = append(c.stack, &frame{state: Root, name: Root})

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			if len(c.stack) > 1 {
				return c.syntaxError(decoder, io.ErrUnexpectedEOF)
			}
			return nil
		}
		if err != nil {
			return c.syntaxError(decoder, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if err := open(g, s, c, decoder, t); err != nil {
				return err
			}
		case xml.EndElement:
			top := c.top()
			if !top.transparent && top.end != nil {
				text := top.text.String()
				if top.content == ContentText && strings.TrimSpace(text) == "" {
					text = ""
				}
				top.end(text)
			}
			c.stack = c.stack[:len(c.stack)-1]
		case xml.CharData:
			if top := c.top(); top.content != ContentNone {
				top.text.Write(t)
			}
		}
	}
}

// open handles a start tag.
func open[S any](g *Grammar[S], s S, c *Context, decoder *xml.Decoder, t xml.StartElement) error {
	parent := c.top()
	ns := resolveNS(t.Name.Space)

	// Markup compatibility: take the fallback branch in place of the parent.
	if ns == NSMarkupCompat {
		switch t.Name.Local {
		case "AlternateContent", "Fallback":
			c.stack = append(c.stack, &frame{
				state: parent.state, name: parent.name, tag: parent.tag,
				opaque: parent.opaque, transparent: true,
			})
			return nil
		default:
			_, err := skip(c, decoder, nil)
			return err
		}
	}

	e, ok := g.edges[nodeKey{parent: parent.state, ns: ns, name: t.Name.Local}]
	if !ok {
		if !parent.opaque {
			c.Warnf("Unexpected element '%s' in '%s'", t.Name.Local, parent.name)
		}
		_, err := skip(c, decoder, nil)
		return err
	}

	f := &frame{state: e.state, name: t.Name.Local, tag: e.tag, content: e.node.Content, opaque: e.node.Opaque}
	if e.node.End != nil {
		end := e.node.End
		f.end = func(text string) { end(s, text) }
	}
	c.stack = append(c.stack, f)
	if e.node.Start != nil {
		e.node.Start(s, t.Attr)
	}
	if c.skipping {
		c.skipping = false
		c.stack = c.stack[:len(c.stack)-1]
		_, err := skip(c, decoder, nil)
		return err
	}

	if e.node.Capture {
		blob := &models.Blob{Name: t.Name.Local, Attrs: blobAttrs(t.Attr)}
		if _, err := skip(c, decoder, blob); err != nil {
			return err
		}
		c.captured = blob
		if f.end != nil {
			f.end(blob.Text)
		}
		c.captured = nil
		c.stack = c.stack[:len(c.stack)-1]
	}
	return nil
}

// skip consumes the rest of the current element. When blob is set the
// subtree is recorded into it.
func skip(c *Context, decoder *xml.Decoder, blob *models.Blob) (*models.Blob, error) {
	stack := []*models.Blob{blob}
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, c.syntaxError(decoder, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if blob != nil {
				child := &models.Blob{Name: t.Name.Local, Attrs: blobAttrs(t.Attr)}
				cur := stack[len(stack)-1]
				cur.Children = append(cur.Children, child)
				stack = append(stack, child)
			}
		case xml.EndElement:
			depth--
			if blob != nil && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if blob != nil {
				if text := strings.TrimSpace(string(t)); text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}
	return blob, nil
}

// blobAttrs keeps the attributes of a captured element, namespace
// declarations excluded.
func blobAttrs(attrs []xml.Attr) []models.BlobAttr {
	var res []models.BlobAttr
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		name := a.Name.Local
		if resolveNS(a.Name.Space) == NSDocRel {
			name = "r:" + name
		}
		res = append(res, models.BlobAttr{Name: name, Value: a.Value})
	}
	return res
}

// newDecoder builds a strict decoder. Byte order marks select UTF-16 or
// UTF-8 and are stripped; legacy single-byte declarations are transcoded.
func newDecoder(r io.Reader) *xml.Decoder {
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	decoder := xml.NewDecoder(r)
	decoder.Strict = true
	decoder.CharsetReader = charsetReader
	return decoder
}

// errCharset reports an unsupported encoding declaration.
var errCharset = errors.New("unsupported charset")

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-16", "utf-16le", "utf-16be", "utf8":
		// already transcoded to UTF-8 by the byte order mark
		return input, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("%w: %s", errCharset, label)
}
