package parser

import (
	"encoding/xml"
	"fmt"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

// Context is the parse state shared by every handler of a part.
type Context struct {
	// Part is the package part being parsed.
	Part string
	// Sheet is the current sheet name, empty outside worksheet parts.
	Sheet string
	// Pos is the current cell position, nil when none applies.
	Pos *models.CellRef

	sink     warn.Sink
	stack    []*frame
	captured *models.Blob
	skipping bool
}

// NewContext creates a parse context reporting to sink.
func NewContext(part string, sink warn.Sink) *Context {
	c := &Context{Part: part}
	c.sink = warn.Prefixed{Sink: sink, Location: c.location}
	return c
}

// location returns the "Sheet!A1" or "Sheet" prefix of warnings.
func (c *Context) location() string {
	if c.Sheet == "" {
		return ""
	}
	if c.Pos != nil {
		return fmt.Sprintf("%s!%s", c.Sheet, c.Pos)
	}
	return c.Sheet
}

// Warnf reports a soft failure.
func (c *Context) Warnf(format string, args ...any) {
	c.sink.Warnf(format, args...)
}

// Tag returns the tag of the current element.
func (c *Context) Tag() int {
	return c.top().tag
}

// Element returns the local name of the current element.
func (c *Context) Element() string {
	return c.top().name
}

// ParentTag returns the tag of the parent element.
func (c *Context) ParentTag() int {
	if len(c.stack) < 2 {
		return 0
	}
	return c.stack[len(c.stack)-2].tag
}

// Captured returns the subtree recorded for a capture node, valid in its End handler.
func (c *Context) Captured() *models.Blob {
	return c.captured
}

// Skip discards the subtree of the current element. It is meant for Start
// handlers; the element's End handler is not called.
func (c *Context) Skip() {
	c.skipping = true
}

func (c *Context) top() *frame {
	return c.stack[len(c.stack)-1]
}

func (c *Context) syntaxError(decoder *xml.Decoder, err error) error {
	line, _ := decoder.InputPos()
	if se, ok := err.(*xml.SyntaxError); ok {
		line = se.Line
	}
	return &SyntaxError{Part: c.Part, Line: line, Err: err}
}
