package main

import (
	"errors"
	"fmt"
	"strings"

	doc2pdf "github.com/alnah/go-doc2pdf"
	"github.com/alnah/go-doc2pdf/internal/config"
	"github.com/alnah/go-doc2pdf/internal/fileutil"
	"github.com/alnah/go-doc2pdf/internal/hints"
	"github.com/charmbracelet/log"
)

// loadSettings builds the effective configuration for a command:
// defaults, then the config file, then DOC2PDF_* variables, then flags.
func loadSettings(flags *convertFlags, env *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	setString(&cfg.Output.Dir, flags.output)

	r := flags.render
	if r.timeout != 0 {
		cfg.Render.Timeout = r.timeout.String()
	}
	if r.settleTimeout != 0 {
		cfg.Render.SettleTimeout = r.settleTimeout.String()
	}
	setString(&cfg.Render.FlightPolicy, r.flightPolicy)
	setString(&cfg.Scratch.Dir, r.scratchDir)
	setString(&cfg.Browser.Bin, r.browserBin)
	setString(&cfg.Office.Bin, r.officeBin)
	if r.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if r.noOffice {
		cfg.Office.Enabled = false
	}

	switch {
	case flags.common.verbose:
		cfg.Log.Level = config.LevelDebug
	case flags.common.quiet:
		cfg.Log.Level = config.LevelError
	}
}

// converterOptions translates a validated config into library options.
func converterOptions(cfg *config.Config, logger *log.Logger) []doc2pdf.Option {
	opts := []doc2pdf.Option{doc2pdf.WithLogger(logger)}

	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, doc2pdf.WithTimeout(d))
	}
	if d := cfg.SettleTimeout(); d > 0 {
		opts = append(opts, doc2pdf.WithSettleTimeout(d))
	}
	if cfg.Scratch.Dir != "" {
		opts = append(opts, doc2pdf.WithScratchDir(cfg.Scratch.Dir))
	}
	if strings.EqualFold(cfg.Render.FlightPolicy, config.FlightReject) {
		opts = append(opts, doc2pdf.WithFlightPolicy(doc2pdf.RejectWhenBusy))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, doc2pdf.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, doc2pdf.WithNoSandbox(true))
	}
	if cfg.Office.Bin != "" {
		opts = append(opts, doc2pdf.WithOfficeBin(cfg.Office.Bin))
	}
	if !cfg.Office.Enabled {
		opts = append(opts, doc2pdf.WithoutOffice())
	}
	return opts
}
