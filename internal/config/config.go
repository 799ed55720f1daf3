package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style values for Config.Style.
const (
	StyleAuto   = "auto"
	StyleAlways = "always"
	StyleNever  = "never"
)

// DefaultTimeFormat is the Go layout for report timestamps, e.g.
// "09:00 Tuesday April 06, 2021 CDT".
const DefaultTimeFormat = "15:04 Monday January 02, 2006 MST"

// TimezoneMapping is an extra Microsoft-to-POSIX cross-reference entry.
type TimezoneMapping struct {
	// MS is matched case-insensitively as a substring of the TZID text,
	// e.g. `"(UTC+01:00) Brussels, Copenhagen, Madrid, Paris"` or
	// `Romance Standard Time:`.
	MS string `yaml:"ms" json:"ms"`
	// Posix is the IANA zone name, e.g. "Europe/Paris".
	Posix string `yaml:"posix" json:"posix"`
}

// Config is the top-level application configuration.
type Config struct {
	// DisplayTimezone is the IANA timezone the report is rendered in.
	// Empty means the process local zone.
	DisplayTimezone string `yaml:"display_timezone" json:"display_timezone"`

	// TimeFormat is a Go time layout used for every timestamp in the report.
	TimeFormat string `yaml:"time_format" json:"time_format"`

	// Style controls terminal emphasis (bold/reverse video). Supported values:
	//   - "auto" (default): only when stdout is a terminal
	//   - "always"
	//   - "never"
	Style string `yaml:"style" json:"style"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Occurrences is how many instances of a recurring event are
	// listed.
	Occurrences int `yaml:"occurrences" json:"occurrences"`

	// Timezones extends the compiled-in cross-reference. Entries are
	// consulted after the compiled-in ones.
	Timezones []TimezoneMapping `yaml:"timezones" json:"timezones"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DisplayTimezone: "",
		TimeFormat:      DefaultTimeFormat,
		Style:           StyleAuto,
		LogLevel:        "ERROR",
		Occurrences:     5,
		Timezones:       []TimezoneMapping{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	c.DisplayTimezone = strings.TrimSpace(c.DisplayTimezone)
	if c.TimeFormat == "" {
		c.TimeFormat = DefaultTimeFormat
	}
	switch strings.ToLower(c.Style) {
	case StyleAuto, StyleAlways, StyleNever:
		c.Style = strings.ToLower(c.Style)
	default:
		// Unknown value; fall back to auto.
		c.Style = StyleAuto
	}
	if c.LogLevel == "" {
		c.LogLevel = "ERROR"
	}
	if c.Occurrences <= 0 {
		c.Occurrences = 5
	}
	if c.Timezones == nil {
		c.Timezones = []TimezoneMapping{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty, the defaults are returned and nothing is written.
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".vcalview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
