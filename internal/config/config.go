// Package config loads the doc2pdf YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-doc2pdf/internal/fileutil"
	"github.com/alnah/go-doc2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-doc2pdf"

// MaxPathLength caps every path-valued field.
const MaxPathLength = 4096

// Flight policies.
const (
	FlightPreempt = "preempt"
	FlightReject  = "reject"
)

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config holds all configuration for the converter and the CLI.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Scratch ScratchConfig `yaml:"scratch"`
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
	Office  OfficeConfig  `yaml:"office"`
	Log     LogConfig     `yaml:"log"`
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = next to each source file
}

// ScratchConfig defines where temporary copies of inputs live.
type ScratchConfig struct {
	Dir string `yaml:"dir"` // empty = os.TempDir()
}

// RenderConfig bounds rendering. Durations use time.ParseDuration syntax.
type RenderConfig struct {
	Timeout       string `yaml:"timeout"`       // whole conversion, e.g. "90s"
	SettleTimeout string `yaml:"settleTimeout"` // layout settle after load
	FlightPolicy  string `yaml:"flightPolicy"`  // "preempt" or "reject"
}

// BrowserConfig configures headless Chrome.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
}

// OfficeConfig configures the LibreOffice export used for office formats.
type OfficeConfig struct {
	Bin     string `yaml:"bin"`
	Enabled bool   `yaml:"enabled"`
}

// LogConfig sets the CLI log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Timeout:       "90s",
			SettleTimeout: "5s",
			FlightPolicy:  FlightPreempt,
		},
		Office: OfficeConfig{Enabled: true},
		Log:    LogConfig{Level: LevelWarn},
	}
}

// Validate checks durations, enumerations and path lengths. Called by
// LoadConfig, and by the CLI after environment overrides are applied.
func (c *Config) Validate() error {
	paths := []struct{ name, value string }{
		{"output.dir", c.Output.Dir},
		{"scratch.dir", c.Scratch.Dir},
		{"browser.bin", c.Browser.Bin},
		{"office.bin", c.Office.Bin},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if _, err := parsePositiveDuration("render.timeout", c.Render.Timeout); err != nil {
		return err
	}
	if _, err := parsePositiveDuration("render.settleTimeout", c.Render.SettleTimeout); err != nil {
		return err
	}

	switch strings.ToLower(c.Render.FlightPolicy) {
	case "", FlightPreempt, FlightReject:
	default:
		return fmt.Errorf("%w: render.flightPolicy %q (must be %s or %s)",
			ErrInvalidValue, c.Render.FlightPolicy, FlightPreempt, FlightReject)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

// Timeout returns render.timeout, or zero when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, _ := parsePositiveDuration("render.timeout", c.Render.Timeout)
	return d
}

// SettleTimeout returns render.settleTimeout, or zero when unset or invalid.
func (c *Config) SettleTimeout() time.Duration {
	d, _ := parsePositiveDuration("render.settleTimeout", c.Render.SettleTimeout)
	return d
}

func parsePositiveDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, s)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	err := yamlutil.ReadFile(configPath, cfg)
	switch {
	case err == nil, errors.Is(err, yamlutil.ErrEmpty):
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	case errors.Is(err, os.ErrPermission):
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files a config name resolves to, in lookup order:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
