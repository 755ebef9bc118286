package xlsxcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// OutputConfig selects how a model is rendered.
type OutputConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=json yaml"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the YAML configuration file of the command line tool.
type Config struct {
	Mode            string       `yaml:"mode" validate:"omitempty,oneof=light standard full"`
	MaxWarnings     int          `yaml:"max_warnings" validate:"gte=0"`
	IncludeCharts   *bool        `yaml:"include_charts"`
	IncludeComments *bool        `yaml:"include_comments"`
	Output          OutputConfig `yaml:"output"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a configuration. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// Options converts the configuration.
func (c *Config) Options() Options {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		mode = ModeStandard
	}
	return Options{
		Mode:            mode,
		IncludeCharts:   c.IncludeCharts,
		IncludeComments: c.IncludeComments,
		MaxWarnings:     c.MaxWarnings,
	}
}
