package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-doc2pdf/internal/config"
)

// envPrefix namespaces every environment variable the CLI reads.
const envPrefix = "DOC2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
// Durations are kept as text so Config.Validate reports bad values.
type envConfig struct {
	ConfigPath    string // DOC2PDF_CONFIG: config file name or path
	OutputDir     string // DOC2PDF_OUTPUT_DIR: output directory
	ScratchDir    string // DOC2PDF_SCRATCH_DIR: temporary copies
	Timeout       string // DOC2PDF_TIMEOUT: per-document timeout
	SettleTimeout string // DOC2PDF_SETTLE_TIMEOUT: layout settle timeout
	FlightPolicy  string // DOC2PDF_FLIGHT_POLICY: preempt or reject
	BrowserBin    string // DOC2PDF_BROWSER_BIN: Chrome executable
	NoSandbox     *bool  // DOC2PDF_NO_SANDBOX: disable Chrome sandbox
	OfficeBin     string // DOC2PDF_OFFICE_BIN: LibreOffice executable
	NoOffice      *bool  // DOC2PDF_NO_OFFICE: never start LibreOffice
	LogLevel      string // DOC2PDF_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid DOC2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOC2PDF_CONFIG":         true,
	"DOC2PDF_OUTPUT_DIR":     true,
	"DOC2PDF_SCRATCH_DIR":    true,
	"DOC2PDF_TIMEOUT":        true,
	"DOC2PDF_SETTLE_TIMEOUT": true,
	"DOC2PDF_FLIGHT_POLICY":  true,
	"DOC2PDF_BROWSER_BIN":    true,
	"DOC2PDF_NO_SANDBOX":     true,
	"DOC2PDF_OFFICE_BIN":     true,
	"DOC2PDF_NO_OFFICE":      true,
	"DOC2PDF_LOG_LEVEL":      true,
	"DOC2PDF_CONTAINER":      true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:    os.Getenv("DOC2PDF_CONFIG"),
		OutputDir:     os.Getenv("DOC2PDF_OUTPUT_DIR"),
		ScratchDir:    os.Getenv("DOC2PDF_SCRATCH_DIR"),
		Timeout:       os.Getenv("DOC2PDF_TIMEOUT"),
		SettleTimeout: os.Getenv("DOC2PDF_SETTLE_TIMEOUT"),
		FlightPolicy:  os.Getenv("DOC2PDF_FLIGHT_POLICY"),
		BrowserBin:    os.Getenv("DOC2PDF_BROWSER_BIN"),
		NoSandbox:     envBool("DOC2PDF_NO_SANDBOX"),
		OfficeBin:     os.Getenv("DOC2PDF_OFFICE_BIN"),
		NoOffice:      envBool("DOC2PDF_NO_OFFICE"),
		LogLevel:      os.Getenv("DOC2PDF_LOG_LEVEL"),
	}
}

// envBool parses a boolean variable. Unset or unparsable values yield nil.
func envBool(name string) *bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &b
}

// warnUnknownEnvVars logs warnings for unrecognized DOC2PDF_* variables.
// Helps catch typos like DOC2PDF_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables replace values from the config file; CLI flags are applied
// afterwards by mergeFlags. Precedence: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Output.Dir, env.OutputDir)
	setString(&cfg.Scratch.Dir, env.ScratchDir)
	setString(&cfg.Render.Timeout, env.Timeout)
	setString(&cfg.Render.SettleTimeout, env.SettleTimeout)
	setString(&cfg.Render.FlightPolicy, env.FlightPolicy)
	setString(&cfg.Browser.Bin, env.BrowserBin)
	setString(&cfg.Office.Bin, env.OfficeBin)
	setString(&cfg.Log.Level, env.LogLevel)

	if env.NoSandbox != nil {
		cfg.Browser.NoSandbox = *env.NoSandbox
	}
	if env.NoOffice != nil {
		cfg.Office.Enabled = !*env.NoOffice
	}
}

// setString overwrites dst when v is non-empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
