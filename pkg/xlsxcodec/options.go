// Package xlsxcodec reads and writes OOXML spreadsheet packages.
package xlsxcodec

import (
	"fmt"
	"log"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/parser"
)

// Mode represents how much of a package is loaded.
type Mode string

const (
	// ModeLight loads cell values and formulas only.
	ModeLight Mode = "light"
	// ModeStandard adds styles, merges, names, views, validations, filters,
	// hyperlinks, conditional formats and comments.
	ModeStandard Mode = "standard"
	// ModeFull adds drawings and charts.
	ModeFull Mode = "full"
)

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLight, ModeStandard, ModeFull:
		return m, nil
	case "":
		return ModeStandard, nil
	}
	return "", fmt.Errorf("invalid mode: %s (must be light, standard, or full)", s)
}

// Options configures reading and writing.
type Options struct {
	// Mode specifies what is loaded (light, standard, full).
	Mode Mode
	// IncludeCharts specifies whether to load charts.
	// If nil, defaults to true for full mode, false otherwise.
	IncludeCharts *bool
	// IncludeComments specifies whether to load cell comments.
	// If nil, defaults to false for light mode, true otherwise.
	IncludeComments *bool
	// MaxWarnings caps the collected warnings; 0 keeps all of them.
	MaxWarnings int
	// Logger receives every warning as it is reported.
	Logger *log.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeStandard,
	}
}

// ShouldIncludeCharts returns whether to load charts.
func (o Options) ShouldIncludeCharts() bool {
	if o.IncludeCharts != nil {
		return *o.IncludeCharts
	}
	return o.Mode == ModeFull
}

// ShouldIncludeComments returns whether to load comments.
func (o Options) ShouldIncludeComments() bool {
	if o.IncludeComments != nil {
		return *o.IncludeComments
	}
	return o.Mode != ModeLight
}

// parserOptions translates the options for the reader.
func (o Options) parserOptions() parser.Options {
	return parser.Options{
		Styles:   o.Mode != ModeLight,
		Features: o.Mode != ModeLight,
		Comments: o.ShouldIncludeComments(),
		Drawings: o.Mode == ModeFull,
		Charts:   o.ShouldIncludeCharts(),
	}
}
