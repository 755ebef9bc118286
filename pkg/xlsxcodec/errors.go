package xlsxcodec

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/opc"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates input that is not an xlsx package.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrLegacyFormat indicates a legacy binary .xls document.
var ErrLegacyFormat = errors.New("legacy binary xls format is not supported")

// ErrMalformedXML indicates a part that is not well-formed XML.
var ErrMalformedXML = errors.New("malformed xml")

// PartError represents a fatal error in one part of a package.
type PartError struct {
	Part      string
	Component string // "package", "xml", "write"
	Err       error
}

func (e *PartError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("%s error: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("%s error in part %q: %v", e.Component, e.Part, e.Err)
}

func (e *PartError) Unwrap() error {
	return e.Err
}

// NewPartError creates a new PartError.
func NewPartError(part, component string, err error) *PartError {
	return &PartError{
		Part:      part,
		Component: component,
		Err:       err,
	}
}

// classify maps a read failure onto the package errors.
func classify(err error) error {
	var se *parser.SyntaxError
	switch {
	case errors.As(err, &se):
		return NewPartError(se.Part, "xml", fmt.Errorf("%w: %w", ErrMalformedXML, err))
	case errors.Is(err, opc.ErrCompoundFile):
		return fmt.Errorf("%w: %w", ErrLegacyFormat, err)
	case errors.Is(err, opc.ErrNotZip), errors.Is(err, parser.ErrNoWorkbook):
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return NewPartError("", "package", err)
}
