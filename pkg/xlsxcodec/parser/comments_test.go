package parser

import (
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

func TestReadComments(t *testing.T) {
	sink := warn.NewCollector(0, nil)
	sheet := models.NewSheet("Notes")
	data := `<comments ` + mainNS + `><authors><author>alice</author><author>bob</author></authors><commentList>` +
		`<comment ref="A1" authorId="1"><text><t>plain</t></text></comment>` +
		`<comment ref="B2" authorId="0"><text><r><rPr><b/></rPr><t>rich </t></r><r><t>text</t></r></text></comment>` +
		`<comment authorId="0"><text><t>lost</t></text></comment>` +
		`<comment ref="C3" authorId="5"><text><t>anonymous</t></text></comment>` +
		`</commentList></comments>`
	c := NewContext("xl/comments1.xml", sink)
	if err := ReadComments(c, sheet, strings.NewReader(data)); err != nil {
		t.Fatalf("ReadComments failed: %v", err)
	}

	expected := []struct {
		ref    string
		author string
		text   string
	}{
		{"A1", "bob", "plain"},
		{"B2", "alice", "rich text"},
		{"C3", "", "anonymous"},
	}
	if len(sheet.Comments) != len(expected) {
		t.Fatalf("Expected %d comments, got %d", len(expected), len(sheet.Comments))
	}
	for i, tt := range expected {
		got := sheet.Comments[i]
		if got.Ref.String() != tt.ref || got.Author != tt.author || got.Text != tt.text {
			t.Errorf("comment %d = %s %q %q, expected %s %q %q", i, got.Ref, got.Author, got.Text, tt.ref, tt.author, tt.text)
		}
	}

	msgs := sink.Messages()
	want := []string{"Notes : Dropping comment without ref", "Notes!C3 : Missing record '5' for author"}
	if strings.Join(msgs, "|") != strings.Join(want, "|") {
		t.Errorf("warnings = %q, expected %q", msgs, want)
	}
	if c.Sheet != "" {
		t.Errorf("context sheet = %q after ReadComments, expected it cleared", c.Sheet)
	}
}
