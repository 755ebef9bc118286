package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
)

// ErrNoWorkbook indicates a package without a workbook part.
var ErrNoWorkbook = errors.New("no workbook part")

// defaultWorkbookPart is used when the package relationships are missing.
const defaultWorkbookPart = "xl/workbook.xml"

// Options selects what is loaded besides cell values and formulas.
type Options struct {
	// Styles loads cell formats.
	Styles bool
	// Features loads merges, views, filters, validations, hyperlinks,
	// conditional formats and print setup.
	Features bool
	Comments bool
	// Drawings loads shapes.
	Drawings bool
	Charts   bool
}

// AllOptions loads everything the reader knows.
func AllOptions() Options {
	return Options{Styles: true, Features: true, Comments: true, Drawings: true, Charts: true}
}

// packageReader walks the parts of one package.
type packageReader struct {
	pkg  *opc.Reader
	opts Options
	sink warn.Sink
	t    *Tables
	wb   *models.Workbook
}

// Read loads the workbook of pkg. Soft failures go to sink; the returned
// error is fatal and names the part it occurred in.
func Read(pkg *opc.Reader, opts Options, sink warn.Sink) (*models.Workbook, error) {
	if sink == nil {
		sink = warn.Discard
	}
	r := &packageReader{pkg: pkg, opts: opts, sink: sink, t: NewTables(), wb: models.NewWorkbook()}

	rels, err := pkg.Rels("")
	if err != nil {
		return nil, err
	}
	part := defaultWorkbookPart
	if docs := rels.ByKind("officeDocument"); len(docs) > 0 {
		part = rels.TargetPart(docs[0])
	} else if pkg.Has(part) {
		sink.Warnf("Missing officeDocument relationship, using '%s'", part)
	}
	if !pkg.Has(part) {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkbook, part)
	}
	if err := r.workbook(part); err != nil {
		return nil, err
	}
	return r.wb, nil
}

// open runs read over part. A part that is referenced but absent is
// reported and skipped.
func (r *packageReader) open(part string, read func(c *Context, rd io.Reader) error) error {
	rc, err := r.pkg.Open(part)
	if err != nil {
		if errors.Is(err, opc.ErrPartNotFound) {
			r.sink.Warnf("Missing part '%s'", part)
			return nil
		}
		return fmt.Errorf("%s: %w", part, err)
	}
	defer rc.Close()
	return read(NewContext(part, r.sink), rc)
}

// first returns the target of the first relationship of kind, empty when
// there is none.
func first(rels *opc.Relationships, kind string) string {
	if list := rels.ByKind(kind); len(list) > 0 && !list[0].External {
		return rels.TargetPart(list[0])
	}
	return ""
}

func (r *packageReader) workbook(part string) error {
	rels, err := r.pkg.Rels(part)
	if err != nil {
		return err
	}

	if sst := first(rels, "sharedStrings"); sst != "" {
		if err := r.open(sst, func(c *Context, rd io.Reader) error {
			return ReadSharedStrings(c, r.t, rd)
		}); err != nil {
			return err
		}
	}
	if theme := first(rels, "theme"); theme != "" {
		if err := r.open(theme, func(c *Context, rd io.Reader) error {
			th, err := ReadTheme(c, rd)
			if err == nil {
				r.t.Theme = th
				r.wb.Theme = th
			}
			return err
		}); err != nil {
			return err
		}
	}
	if styles := first(rels, "styles"); styles != "" && r.opts.Styles {
		if err := r.open(styles, func(c *Context, rd io.Reader) error {
			return ReadStyles(c, r.t, rd)
		}); err != nil {
			return err
		}
	}

	var entries []SheetEntry
	if err := r.open(part, func(c *Context, rd io.Reader) (err error) {
		entries, err = ReadWorkbook(c, r.wb, rd)
		return err
	}); err != nil {
		return err
	}

	loaded := make(map[string]bool, len(entries))
	for _, e := range entries {
		rel, ok := rels.ByID(e.RelID)
		if e.RelID == "" || !ok || rel.External {
			r.sink.Warnf("Missing part-id for sheet '%s'", e.Sheet.Name)
			continue
		}
		sheetPart := rels.TargetPart(rel)
		loaded[strings.ToLower(sheetPart)] = true
		if err := r.sheet(e.Sheet, sheetPart); err != nil {
			return err
		}
	}
	for _, rel := range rels.ByKind("worksheet") {
		if p := rels.TargetPart(rel); !loaded[strings.ToLower(p)] {
			r.sink.Warnf("Ignoring worksheet part '%s' not listed in the workbook", p)
		}
	}
	return nil
}

func (r *packageReader) sheet(sheet *models.Sheet, part string) error {
	rels, err := r.pkg.Rels(part)
	if err != nil {
		return err
	}
	var res SheetResult
	if err := r.open(part, func(c *Context, rd io.Reader) (err error) {
		res, err = ReadSheet(c, r.t, r.wb, sheet, rels, r.opts, rd)
		return err
	}); err != nil {
		return err
	}

	if r.opts.Comments {
		for _, rel := range rels.ByKind("comments") {
			if err := r.open(rels.TargetPart(rel), func(c *Context, rd io.Reader) error {
				return ReadComments(c, sheet, rd)
			}); err != nil {
				return err
			}
		}
	}

	if res.DrawingID == "" || !(r.opts.Drawings || r.opts.Charts) {
		return nil
	}
	rel, ok := rels.ByID(res.DrawingID)
	if !ok {
		r.sink.Warnf("%s : Missing drawing relationship '%s'", sheet.Name, res.DrawingID)
		return nil
	}
	return r.drawing(sheet, rels.TargetPart(rel))
}

func (r *packageReader) drawing(sheet *models.Sheet, part string) error {
	var res DrawingResult
	if err := r.open(part, func(c *Context, rd io.Reader) (err error) {
		res, err = ReadDrawing(c, r.t, sheet, rd)
		return err
	}); err != nil {
		return err
	}
	if r.opts.Drawings {
		sheet.Shapes = append(sheet.Shapes, res.Shapes...)
	}
	if !r.opts.Charts || len(res.Charts) == 0 {
		return nil
	}

	rels, err := r.pkg.Rels(part)
	if err != nil {
		return err
	}
	for _, ref := range res.Charts {
		rel, ok := rels.ByID(ref.RelID)
		if !ok {
			r.sink.Warnf("%s : Missing chart relationship '%s'", sheet.Name, ref.RelID)
			continue
		}
		if err := r.open(rels.TargetPart(rel), func(c *Context, rd io.Reader) error {
			c.Sheet = sheet.Name
			chart, err := ReadChart(c, r.t, rd)
			if err != nil {
				return err
			}
			chart.Name = ref.Name
			chart.Anchor = ref.Anchor
			sheet.Charts = append(sheet.Charts, chart)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
