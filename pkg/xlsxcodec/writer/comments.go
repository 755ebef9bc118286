package writer

import (
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

// writeComments renders the comments part of a sheet.
func writeComments(comments []models.Comment) []byte {
	authors := NewInterner[string]()
	ids := make([]int, len(comments))
	for i, c := range comments {
		ids[i] = authors.Intern(c.Author)
	}

	x := newXMLWriter()
	x.OTag("comments")
	x.Attr("xmlns", nsMain)
	x.OTag("authors")
	for _, a := range authors.Items() {
		x.TextElem("author", a)
	}
	x.CTag()
	x.OTag("commentList")
	for i, c := range comments {
		x.OTag("comment")
		x.Attr("ref", c.Ref.String())
		x.AttrInt("authorId", ids[i])
		x.OTag("text")
		writeT(x, "t", c.Text)
		x.CTag()
		x.CTag()
	}
	x.CTag()
	x.CTag()
	return x.Bytes()
}
