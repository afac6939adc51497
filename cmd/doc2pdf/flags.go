package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags override the render, browser and office config sections.
// Zero values mean "not set".
type renderFlags struct {
	timeout       time.Duration
	settleTimeout time.Duration
	flightPolicy  string
	scratchDir    string
	browserBin    string
	noSandbox     bool
	officeBin     string
	noOffice      bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common commonFlags
	output string
	render renderFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-stage logs and timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-document timeout (e.g., 30s, 2m)")
	fs.DurationVar(&f.settleTimeout, "settle-timeout", 0, "layout settle timeout after load")
	fs.StringVar(&f.flightPolicy, "flight", "", "busy policy: preempt, reject")
	fs.StringVar(&f.scratchDir, "scratch-dir", "", "directory for temporary copies")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium executable")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.StringVar(&f.officeBin, "office-bin", "", "LibreOffice executable (soffice)")
	fs.BoolVar(&f.noOffice, "no-office", false, "never start LibreOffice")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseArgs parses args and wraps parse errors with ErrUsage.
// flag.ErrHelp is returned unwrapped; pflag has already printed usage.
func parseArgs(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", printConvertUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	if err := parseArgs(fs, args); err != nil {
		return nil, nil, err
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", printDoctorUsage, stderr)

	fs.BoolVar(&f.json, "json", false, "output JSON")
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")

	if err := parseArgs(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseConfigFlags parses config command flags; it accepts the same
// overrides as convert so the printed config matches what convert uses.
func parseConfigFlags(args []string, stderr io.Writer) (*convertFlags, error) {
	f := &convertFlags{}
	fs := newFlagSet("config", printConfigUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	addRenderFlags(fs, &f.render)

	if err := parseArgs(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: config takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}
