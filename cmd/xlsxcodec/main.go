// Package main provides the CLI entry point for xlsxcodec.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/models"
	"github.com/ukaji3/xlsxcodec/pkg/xlsxcodec/output"
)

// settings holds the flag values shared by the subcommands.
type settings struct {
	configPath    string
	outputPath    string
	format        string
	pretty        bool
	mode          string
	maxWarnings   int
	quiet         bool
	sheetsDir     string
	printAreasDir string

	cfg *xlsxcodec.Config
}

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	rootCmd := &cobra.Command{
		Use:   "xlsxcodec",
		Short: "Read and write Excel xlsx packages",
		Long: `xlsxcodec decodes xlsx packages into a workbook model (cells, styles,
drawings, charts) and encodes the model back into a package.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd.Flags())
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&s.mode, "mode", "standard", "Load mode: light, standard, full")
	pf.IntVar(&s.maxWarnings, "max-warnings", 0, "Maximum number of warnings kept (0 keeps all)")
	pf.BoolVarP(&s.quiet, "quiet", "q", false, "Do not print warnings")

	rootCmd.AddCommand(newDumpCmd(s), newRoundTripCmd(s), newStylesCmd(s), newWarningsCmd(s))
	return rootCmd
}

// load applies the configuration file; explicit flags win over it.
func (s *settings) load(fs *pflag.FlagSet) error {
	cfg := &xlsxcodec.Config{}
	if s.configPath != "" {
		var err error
		if cfg, err = xlsxcodec.LoadConfig(s.configPath); err != nil {
			return err
		}
	}
	if fs.Changed("mode") || cfg.Mode == "" {
		cfg.Mode = s.mode
	}
	if fs.Changed("max-warnings") {
		cfg.MaxWarnings = s.maxWarnings
	}
	if f := fs.Lookup("format"); f != nil && (f.Changed || cfg.Output.Format == "") {
		cfg.Output.Format = s.format
	}
	if f := fs.Lookup("pretty"); f != nil && f.Changed {
		cfg.Output.Pretty = s.pretty
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

func (s *settings) options() xlsxcodec.Options {
	return s.cfg.Options()
}

func newDumpCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [input.xlsx]",
		Short: "Decode a package and print the workbook as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.dump(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&s.outputPath, "output", "o", "", "Output file path (default: stdout)")
	addOutputFlags(fs, s)
	fs.StringVar(&s.sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	fs.StringVar(&s.printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")
	return cmd
}

func addOutputFlags(fs *pflag.FlagSet, s *settings) {
	fs.StringVar(&s.format, "format", "json", "Output format: json, yaml")
	fs.BoolVar(&s.pretty, "pretty", false, "Pretty-print JSON output")
}

func (s *settings) dump(stdout, stderr io.Writer, inputPath string) error {
	res, err := xlsxcodec.ReadFile(inputPath, s.options())
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	s.printWarnings(stderr, res.Warnings, res.Dropped)

	var data []byte
	if s.cfg.Output.Format == "yaml" {
		data, err = output.ToYAML(res.Workbook, res.Warnings)
	} else {
		data, err = output.ToJSON(res.Workbook, res.Warnings, s.cfg.Output.Pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if s.outputPath != "" {
		if err := os.WriteFile(s.outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if s.sheetsDir == "" && s.printAreasDir == "" {
		fmt.Fprintln(stdout, string(data))
	}

	if s.sheetsDir != "" {
		if err := s.writeSheetFiles(res.Workbook, s.sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	if s.printAreasDir != "" {
		if err := s.writePrintAreaFiles(res.Workbook, s.printAreasDir); err != nil {
			return fmt.Errorf("failed to write print area files: %w", err)
		}
	}
	return nil
}

func (s *settings) writeSheetFiles(wb *models.Workbook, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, sheet := range wb.Sheets {
		data, err := output.SheetToJSON(sheet, wb.Date1904, s.cfg.Output.Pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, sheet.Name+".json")
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (s *settings) writePrintAreaFiles(wb *models.Workbook, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, area := range wb.PrintAreas() {
		sheet := wb.Sheet(area.Sheet)
		if sheet == nil {
			continue
		}
		counts[sheet.Name]++
		view := area.View(wb.BookName, sheet)
		data, err := output.PrintAreaViewToJSON(&view, s.cfg.Output.Pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", sheet.Name, counts[sheet.Name]))
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func newRoundTripCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip [input.xlsx] [output.xlsx]",
		Short: "Decode a package and encode it again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.roundTrip(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1])
		},
	}
}

func (s *settings) roundTrip(stdout, stderr io.Writer, inputPath, outputPath string) error {
	res, err := xlsxcodec.ReadFile(inputPath, s.options())
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	s.printWarnings(stderr, res.Warnings, res.Dropped)

	wres, err := xlsxcodec.WriteFile(outputPath, res.Workbook, s.options())
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	s.printWarnings(stderr, wres.Warnings, wres.Dropped)
	okColor.Fprintf(stdout, "wrote %s: %d sheets, %d strings, %d charts\n",
		outputPath, wres.Stats.Sheets, wres.Stats.Strings, wres.Stats.Charts)
	return nil
}

func newStylesCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles [input.xlsx]",
		Short: "Report the style tables a package would be written with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.styles(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
	addOutputFlags(cmd.Flags(), s)
	return cmd
}

func (s *settings) styles(stdout, stderr io.Writer, inputPath string) error {
	res, err := xlsxcodec.ReadFile(inputPath, s.options())
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	wres, err := xlsxcodec.Write(io.Discard, res.Workbook, s.options())
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	s.printWarnings(stderr, wres.Warnings, wres.Dropped)

	var data []byte
	if s.cfg.Output.Format == "yaml" {
		data, err = output.MarshalYAML(wres.Stats)
	} else {
		data, err = output.MarshalJSON(wres.Stats, s.cfg.Output.Pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}

func newWarningsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "warnings [input.xlsx]",
		Short: "Decode a package and list the warnings only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := xlsxcodec.ReadFile(args[0], s.options())
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}
			for _, msg := range res.Warnings {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			if res.Dropped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d more warnings dropped\n", res.Dropped)
			}
			return nil
		},
	}
}

func (s *settings) printWarnings(w io.Writer, warnings []string, dropped int) {
	if s.quiet {
		return
	}
	for _, msg := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", msg)
	}
	if dropped > 0 {
		warnColor.Fprintf(w, "warning: %d more warnings dropped\n", dropped)
	}
}
