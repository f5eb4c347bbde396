// Package config provides configuration management for the compiledb CLI.
//
// Settings come from four layers, lowest to highest precedence: built-in
// defaults, a compiledb.yaml file, COMPILEDB_* environment variables, and
// command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/guansong/compiledb/internal/cli/output"
	"github.com/guansong/compiledb/pkg/compdb"
)

// Config holds all CLI configuration options.
type Config struct {
	// BuildDir is where database detection starts. Loaders probe it and,
	// unless a format is forced, each parent directory above it.
	BuildDir string `koanf:"build_dir"`

	// Format forces one registered loader instead of autodetecting.
	// Empty means try them all.
	Format string `koanf:"format"`

	// Output selects the rendering mode: auto, text, plain, or json.
	Output string `koanf:"output"`

	Verbose bool `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultBuildDir = "."
	DefaultOutput   = "auto" // TTY gets styled text, pipes get plain lines
)

// UnknownFormatError is returned when a forced format names no registered
// loader.
type UnknownFormatError struct {
	Format    string
	Available []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown database format %q (available: %s)",
		e.Format, strings.Join(e.Available, ", "))
}

// Validate checks the configuration against the loader registry and the
// known output modes.
func (c *Config) Validate() error {
	if c.Format != "" {
		if _, ok := compdb.GetLoader(c.Format); !ok {
			return &UnknownFormatError{Format: c.Format, Available: compdb.ListLoaders()}
		}
	}
	if !output.IsValidMode(c.Output) {
		return fmt.Errorf("unknown output mode %q (available: %s)",
			c.Output, strings.Join(output.Modes(), ", "))
	}
	return nil
}
