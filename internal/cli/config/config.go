// Package config loads the run configuration of the abortif command.
//
// Values layer lowest to highest: built-in defaults, an optional
// .abortif.yaml file, ABORTIF_* environment variables, and command-line
// flags.
package config

import (
	"fmt"

	abortifinternal "github.com/blyxyas/abort-if/internal/abortif"
)

// Config holds every switch of a generation run.
type Config struct {
	Abort     string `koanf:"abort"`
	Handler   string `koanf:"handler"`
	KeepGoing bool   `koanf:"keep_going"`
	Out       string `koanf:"out"`
	Tags      string `koanf:"tags"`
	Tests     bool   `koanf:"tests"`
	Color     string `koanf:"color"`
	Verbose   bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultAbort = abortifinternal.AbortHard
	DefaultOut   = abortifinternal.DefaultOut
	DefaultColor = "auto"
)

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Abort {
	case abortifinternal.AbortHard, abortifinternal.AbortSoft:
	default:
		return fmt.Errorf("invalid abort mode %q, want %q or %q",
			c.Abort, abortifinternal.AbortHard, abortifinternal.AbortSoft)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q, want auto, always, or never", c.Color)
	}

	if c.Out == "" {
		return fmt.Errorf("out file name must not be empty")
	}
	return nil
}
