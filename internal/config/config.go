// Package config manages the YAML configuration and command line flags of the fat16 tool.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/aligator/fat16"
)

// Extract holds the options of the extract command.
type Extract struct {
	// Extensions limits extraction to files with one of these extensions.
	// They are matched case-insensitively; an empty list extracts every file.
	Extensions []string `yaml:"extensions"`
	// Flatten writes all files into one directory, see extract.FlatName.
	Flatten bool `yaml:"flatten"`
}

// Config holds all configuration options of the fat16 tool.
type Config struct {
	LogLevel         string  `yaml:"log_level"`
	Format           string  `yaml:"format"`
	MaxDepth         int     `yaml:"max_depth"`
	StrictEndMarker  bool    `yaml:"strict_end_marker"`
	StrictBootSector bool    `yaml:"strict_boot_sector"`
	Extract          Extract `yaml:"extract"`
}

// Formats lists the supported values of Config.Format.
var Formats = []string{"text", "json", "yaml"}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Format:   "text",
		MaxDepth: fat16.DefaultMaxDepth,
	}
}

// Load reads the YAML file at path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if err := cfg.loadFromFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the values which can not be checked by their type.
func (c *Config) Validate() error {
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported format %q (supported: %s)", c.Format, strings.Join(Formats, ", "))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", c.LogLevel)
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// RegisterFlags adds the global flags to flags, using the defaults as default values.
func RegisterFlags(flags *pflag.FlagSet) {
	def := DefaultConfig()

	flags.String("config", "", "Configuration file path")
	flags.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int("max-depth", def.MaxDepth, "Maximum directory depth to descend into, 0 for no limit")
	flags.Bool("strict-end-marker", def.StrictEndMarker, "Stop a directory listing at the first end marker")
	flags.Bool("strict-boot-sector", def.StrictBootSector, "Validate the boot sector signature and geometry")
}

// ApplyFlags overrides the configuration with every flag which was set explicitly.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("log-level") {
		if c.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	if flags.Changed("max-depth") {
		if c.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
			return err
		}
	}
	if flags.Changed("strict-end-marker") {
		if c.StrictEndMarker, err = flags.GetBool("strict-end-marker"); err != nil {
			return err
		}
	}
	if flags.Changed("strict-boot-sector") {
		if c.StrictBootSector, err = flags.GetBool("strict-boot-sector"); err != nil {
			return err
		}
	}

	return c.Validate()
}

// ReaderOptions returns the options for opening an image with this configuration.
func (c *Config) ReaderOptions() []fat16.Option {
	opts := []fat16.Option{fat16.WithMaxDepth(c.MaxDepth)}
	if c.StrictEndMarker {
		opts = append(opts, fat16.WithStrictEndMarker())
	}
	if c.StrictBootSector {
		opts = append(opts, fat16.WithStrictBootSector())
	}
	return opts
}
