package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	doc2pdf "github.com/alnah/go-doc2pdf"
	"github.com/alnah/go-doc2pdf/internal/config"
	"github.com/alnah/go-doc2pdf/internal/hints"
	flag "github.com/spf13/pflag"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	Result    *doc2pdf.Result
	Err       error
	Duration  time.Duration
}

// ResultSummary counts conversion outcomes. Fallbacks are written PDFs
// and are not failures.
type ResultSummary struct {
	Succeeded int
	Fallback  int
	Failed    int
}

// runConvertCmd executes the convert command and returns an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadSettings(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, cfg.Log.Level)
	ctx = withLogger(ctx, logger)

	files, err := discoverFiles(positional, cfg.Output.Dir)
	if err != nil {
		return err
	}

	conv, err := env.NewConverter(converterOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("creating converter: %w", err)
	}
	defer func() {
		if err := conv.Close(); err != nil {
			logger.Warn("closing converter", "err", err)
		}
	}()

	results := convertAll(ctx, conv, files, env.Now)
	summary := printResults(results, flags.common, cfg, env)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted after %d of %d file(s): %w", len(results), len(files), err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", summary.Failed, firstError(results))
	}
	return nil
}

// convertAll converts files one after another. Conversions are
// single-flight, so running them concurrently would only preempt or
// reject. It stops early when ctx is cancelled.
func convertAll(ctx context.Context, conv Converter, files []FileToConvert, now func() time.Time) []ConversionResult {
	logger := loggerFromContext(ctx)
	results := make([]ConversionResult, 0, len(files))

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}

		start := now()
		res, err := conv.ConvertFile(ctx, f.InputPath, f.OutputDir)
		r := ConversionResult{
			InputPath: f.InputPath,
			Result:    res,
			Err:       err,
			Duration:  now().Sub(start),
		}
		logger.Debug("converted", "source", f.InputPath, "elapsed", r.Duration, "err", err)
		results = append(results, r)
	}
	return results
}

// countResults tallies conversion outcomes.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Result != nil && r.Result.Fallback:
			summary.Fallback++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results. Failures and fallbacks go to
// stderr even in quiet mode.
func printResults(results []ConversionResult, common commonFlags, cfg *config.Config, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintForError(r.Err))
		case r.Result.Fallback:
			fmt.Fprintf(env.Stderr, "FALLBACK %s -> %s: %s%s\n",
				r.InputPath, r.Result.Path, r.Result.Reason, hintForFallback(r.Result, cfg))
		case common.quiet:
		case common.verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%d page(s), %v)\n",
				r.InputPath, r.Result.Path, r.Result.PageCount, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Result.Path)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d fell back, %d failed\n",
			summary.Succeeded, summary.Fallback, summary.Failed)
	}
	return summary
}

// hintForError suggests a fix for a conversion that wrote nothing.
func hintForError(err error) string {
	switch {
	case errors.Is(err, doc2pdf.ErrBusy):
		return hints.ForBusy()
	case errors.Is(err, doc2pdf.ErrPersist):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}

// hintForFallback suggests a fix for a document replaced by a fallback page.
func hintForFallback(res *doc2pdf.Result, cfg *config.Config) string {
	switch {
	case errors.Is(res.Cause, doc2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(cfg.Browser.NoSandbox)
	case errors.Is(res.Cause, doc2pdf.ErrOfficeUnavailable):
		return hints.ForOfficeUnavailable()
	case res.Reason == nil:
		return ""
	case res.Reason.Stage == doc2pdf.StageTimeout:
		return hints.ForTimeout()
	case res.Reason.Stage == doc2pdf.StageSettle:
		return hints.ForSettleTimeout()
	default:
		return ""
	}
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
