// internal/config/config.go

// Package config loads licenseid settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".licenseid.toml"

// Config holds user settings. Command-line flags override them.
type Config struct {
	Snapshot    string  `toml:"snapshot"`      // corpus snapshot; empty means the builtin corpus.
	Threshold   float64 `toml:"threshold"`     // scores below this are reported as unrecognized.
	Top         int     `toml:"top"`           // candidates shown by identify.
	Workers     int     `toml:"workers"`       // concurrent files identified by scan.
	Format      Format  `toml:"format"`        // output format.
	CrossCheck  bool    `toml:"cross_check"`   // also run external detectors during scan.
	ScanHeaders bool    `toml:"scan_headers"`  // identify license headers of source files.
	MaxFileSize int64   `toml:"max_file_size"` // bytes read from each scanned file.
}

// Defaults are the settings used when no configuration file exists.
var Defaults = Config{
	Threshold:   0.9,
	Top:         1,
	Workers:     4,
	Format:      FormatText,
	CrossCheck:  false,
	ScanHeaders: false,
	MaxFileSize: 1 << 20,
}

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func (f Format) MarshalText() ([]byte, error) { return []byte(f), nil }
func (f *Format) UnmarshalText(b []byte) error { return f.Set(string(b)) }

// Set implements pflag.Value.
func (f *Format) Set(val string) error {
	switch Format(val) {
	case FormatText, FormatJSON, FormatMarkdown:
		*f = Format(val)
		return nil
	}
	return fmt.Errorf(`valid formats are "text", "json" and "markdown"`)
}

// String implements pflag.Value.
func (f *Format) String() string { return string(*f) }

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// Load reads the configuration at path over Defaults. A missing file is
// not an error. If path is empty FileName in the working directory is
// used.
func Load(path string) (Config, error) {
	cfg := Defaults
	if path == "" {
		path = FileName
	}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Snapshot != "" && !filepath.IsAbs(cfg.Snapshot) {
		cfg.Snapshot = filepath.Join(filepath.Dir(path), cfg.Snapshot)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that settings are in range.
func (c Config) Validate() error {
	switch {
	case c.Threshold < 0 || c.Threshold > 1:
		return fmt.Errorf("threshold %v not in [0, 1]", c.Threshold)
	case c.Top < 0:
		return fmt.Errorf("top %d is negative", c.Top)
	case c.Workers < 1:
		return fmt.Errorf("workers %d must be at least 1", c.Workers)
	case c.MaxFileSize < 1:
		return fmt.Errorf("max_file_size %d must be positive", c.MaxFileSize)
	}
	return nil
}
