package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-doc2pdf/internal/yamlutil"
	flag "github.com/spf13/pflag"
)

// runConfigCmd prints the effective configuration as YAML: defaults,
// config file, DOC2PDF_* variables and flags merged in that order. The
// output is itself a valid config file.
func runConfigCmd(args []string, env *Environment) int {
	flags, err := parseConfigFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadSettings(flags, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitGeneral
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}
