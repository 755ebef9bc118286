package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// commentsReader is the state of a comments part.
type commentsReader struct {
	*Context
	sheet   *models.Sheet
	authors []string
	comment *models.Comment
	valid   bool
	text    strings.Builder
}

var commentsGrammar = Compile("comments", []Node[*commentsReader]{
	{ID: "comments", Parent: Root, NS: NSSpreadsheet, Name: "comments"},
	{ID: "authors", Parent: "comments", NS: NSSpreadsheet, Name: "authors"},
	{ID: "author", Parent: "authors", NS: NSSpreadsheet, Name: "author", Content: ContentKeep, End: (*commentsReader).author},
	{ID: "commentList", Parent: "comments", NS: NSSpreadsheet, Name: "commentList"},
	{ID: "comment", Parent: "commentList", NS: NSSpreadsheet, Name: "comment", Start: (*commentsReader).commentStart, End: (*commentsReader).commentEnd},
	{ID: "text", Parent: "comment", NS: NSSpreadsheet, Name: "text"},
	{ID: "t", Parent: "text", NS: NSSpreadsheet, Name: "t", Content: ContentKeep, End: (*commentsReader).run},
	{ID: "r", Parent: "text", NS: NSSpreadsheet, Name: "r"},
	{ID: "rt", Parent: "r", NS: NSSpreadsheet, Name: "t", Ref: "t"},
	{ID: "rPr", Parent: "r", NS: NSSpreadsheet, Name: "rPr", Opaque: true},
	{ID: "rPh", Parent: "text", NS: NSSpreadsheet, Name: "rPh", Opaque: true},
	{ID: "phoneticPr", Parent: "text", NS: NSSpreadsheet, Name: "phoneticPr", Opaque: true},
	{ID: "commentPr", Parent: "comment", NS: NSSpreadsheet, Name: "commentPr", Opaque: true},
	{ID: "extLst", Parent: "comments", NS: NSSpreadsheet, Name: "extLst", Opaque: true},
})

// ReadComments parses a comments part and attaches the comments to sheet.
func ReadComments(c *Context, sheet *models.Sheet, r io.Reader) error {
	c.Sheet = sheet.Name
	defer func() {
		c.Sheet = ""
		c.Pos = nil
	}()
	return Parse(commentsGrammar, &commentsReader{Context: c, sheet: sheet}, c, r)
}

func (s *commentsReader) author(text string) {
	s.authors = append(s.authors, text)
}

func (s *commentsReader) commentStart(attrs []xml.Attr) {
	s.comment = &models.Comment{}
	s.valid = false
	s.text.Reset()
	authorID := -1
	for _, a := range attrs {
		switch {
		case s.AttrPos(a, "ref", &s.comment.Ref):
			s.valid = true
			s.Pos = &s.comment.Ref
		case s.AttrInt(a, "authorId", &authorID):
		}
	}
	if authorID >= 0 {
		if authorID < len(s.authors) {
			s.comment.Author = s.authors[authorID]
		} else {
			s.Warnf("Missing record '%d' for author", authorID)
		}
	}
}

func (s *commentsReader) run(text string) {
	s.text.WriteString(text)
}

func (s *commentsReader) commentEnd(_ string) {
	defer func() { s.Pos = nil }()
	if !s.valid {
		s.Warnf("Dropping comment without ref")
		return
	}
	s.comment.Text = s.text.String()
	s.sheet.Comments = append(s.sheet.Comments, *s.comment)
	s.comment = nil
}
