package xlsxcodec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/parser"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/warn"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/writer"
)

// Result is a loaded workbook with the warnings reported while reading it.
type Result struct {
	Workbook *models.Workbook `json:"workbook"`
	Warnings []string         `json:"warnings,omitempty"`
	// Dropped counts warnings beyond Options.MaxWarnings.
	Dropped int `json:"dropped,omitempty"`
}

// WriteResult describes a written package.
type WriteResult struct {
	Stats    writer.Stats `json:"stats"`
	Warnings []string     `json:"warnings,omitempty"`
	Dropped  int          `json:"dropped,omitempty"`
}

// Read loads a workbook from an xlsx package of size bytes.
func Read(r io.ReaderAt, size int64, opts Options) (*Result, error) {
	pkg, err := opc.NewReader(r, size)
	if err != nil {
		return nil, classify(err)
	}
	sink := warn.NewCollector(opts.MaxWarnings, opts.Logger)
	wb, err := parser.Read(pkg, opts.parserOptions(), sink)
	if err != nil {
		return nil, classify(err)
	}
	return &Result{Workbook: wb, Warnings: sink.Messages(), Dropped: sink.Dropped}, nil
}

// ReadFile loads a workbook from an xlsx file.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	res, err := Read(f, info.Size(), opts)
	if err != nil {
		return nil, err
	}
	res.Workbook.BookName = filepath.Base(path)
	return res, nil
}

// Write encodes wb as an xlsx package.
func Write(w io.Writer, wb *models.Workbook, opts Options) (*WriteResult, error) {
	sink := warn.NewCollector(opts.MaxWarnings, opts.Logger)
	stats, err := writer.Write(w, wb, sink)
	if err != nil {
		return nil, NewPartError("", "write", err)
	}
	return &WriteResult{Stats: stats, Warnings: sink.Messages(), Dropped: sink.Dropped}, nil
}

// WriteFile encodes wb into the file at path, replacing it.
func WriteFile(path string, wb *models.Workbook, opts Options) (res *WriteResult, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
			res = nil
		}
	}()
	return Write(f, wb, opts)
}
