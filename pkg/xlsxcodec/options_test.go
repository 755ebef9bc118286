package xlsxcodec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"light", ModeLight, false},
		{"standard", ModeStandard, false},
		{"full", ModeFull, false},
		{"", ModeStandard, false},
		{"verbose", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.expected {
			t.Errorf("ParseMode(%q) = %q, %v, expected %q", tt.input, got, err, tt.expected)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	tests := []struct {
		opts     Options
		charts   bool
		comments bool
	}{
		{Options{Mode: ModeLight}, false, false},
		{Options{Mode: ModeStandard}, false, true},
		{Options{Mode: ModeFull}, true, true},
		{Options{Mode: ModeLight, IncludeCharts: models.Ptr(true)}, true, false},
		{Options{Mode: ModeFull, IncludeComments: models.Ptr(false)}, true, false},
	}
	for _, tt := range tests {
		if got := tt.opts.ShouldIncludeCharts(); got != tt.charts {
			t.Errorf("ShouldIncludeCharts(%s) = %v, expected %v", tt.opts.Mode, got, tt.charts)
		}
		if got := tt.opts.ShouldIncludeComments(); got != tt.comments {
			t.Errorf("ShouldIncludeComments(%s) = %v, expected %v", tt.opts.Mode, got, tt.comments)
		}
	}
}

func TestParserOptions(t *testing.T) {
	po := Options{Mode: ModeFull}.parserOptions()
	if !po.Styles || !po.Features || !po.Comments || !po.Drawings || !po.Charts {
		t.Errorf("parserOptions(full) = %+v, expected everything", po)
	}
	po = Options{Mode: ModeLight}.parserOptions()
	if po.Styles || po.Features || po.Comments || po.Drawings || po.Charts {
		t.Errorf("parserOptions(light) = %+v, expected nothing", po)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("mode: full\nmax_warnings: 10\ninclude_comments: false\noutput:\n  format: yaml\n  pretty: true\n"))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	opts := cfg.Options()
	if opts.Mode != ModeFull || opts.MaxWarnings != 10 || opts.ShouldIncludeComments() {
		t.Errorf("Options() = %+v, expected full mode, 10 warnings, no comments", opts)
	}
	if cfg.Output.Format != "yaml" || !cfg.Output.Pretty {
		t.Errorf("Output = %+v, expected pretty yaml", cfg.Output)
	}

	empty, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(empty) failed: %v", err)
	}
	if got := empty.Options().Mode; got != ModeStandard {
		t.Errorf("Options().Mode = %q, expected %q", got, ModeStandard)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bad mode", "mode: verbose\n", "oneof"},
		{"negative cap", "max_warnings: -1\n", "gte"},
		{"bad format", "output:\n  format: xml\n", "oneof"},
		{"unknown key", "colour: red\n", "colour"},
	}
	for _, tt := range tests {
		_, err := ParseConfig([]byte(tt.input))
		if err == nil || !strings.Contains(err.Error(), tt.expected) {
			t.Errorf("ParseConfig(%s) = %v, expected an error mentioning %q", tt.name, err, tt.expected)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codec.yaml")
	if err := os.WriteFile(path, []byte("mode: light\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Mode != "light" {
		t.Errorf("Mode = %q, expected %q", cfg.Mode, "light")
	}
	if _, err := LoadConfig(path + ".missing"); err == nil {
		t.Errorf("LoadConfig(missing) succeeded, expected an error")
	}
}
