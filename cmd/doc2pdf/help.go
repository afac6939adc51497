package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert documents to PDF")
	fmt.Fprintln(w, "  doctor     Check Chrome, LibreOffice and scratch space")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'doc2pdf help <command>' for details on a specific command.")
}

// printRenderFlagsUsage prints the flags shared by convert and config.
func printRenderFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (default 90s)")
	fmt.Fprintln(w, "      --settle-timeout <d>  Layout settle timeout after load (default 5s)")
	fmt.Fprintln(w, "      --flight <s>          When busy: preempt (default), reject")
	fmt.Fprintln(w, "      --scratch-dir <path>  Directory for temporary copies")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser and office:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w, "      --office-bin <path>   LibreOffice executable (default soffice)")
	fmt.Fprintln(w, "      --no-office           Never start LibreOffice")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2pdf convert <file|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert documents to PDF, one at a time.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Text (.txt) and RTF are typeset directly. Word processor (.doc, .docx)")
	fmt.Fprintln(w, "and presentation (.ppt, .pptx) files are laid out by headless Chrome")
	fmt.Fprintln(w, "after a LibreOffice export. A document that cannot be rendered is")
	fmt.Fprintln(w, "replaced by a one-page PDF saying why; this is not an error.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file|dir    Files, or directories searched recursively")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each file)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and fallbacks")
	fmt.Fprintln(w, "  -v, --verbose             Show per-stage logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOC2PDF_CONFIG, DOC2PDF_OUTPUT_DIR, DOC2PDF_SCRATCH_DIR, DOC2PDF_TIMEOUT,")
	fmt.Fprintln(w, "  DOC2PDF_SETTLE_TIMEOUT, DOC2PDF_FLIGHT_POLICY, DOC2PDF_BROWSER_BIN,")
	fmt.Fprintln(w, "  DOC2PDF_NO_SANDBOX, DOC2PDF_OFFICE_BIN, DOC2PDF_NO_OFFICE, DOC2PDF_LOG_LEVEL")
	fmt.Fprintln(w, "  override the config file; flags override both.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2pdf doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome, LibreOffice and the scratch directory are usable.")
	fmt.Fprintln(w, "Exits 1 when a check fails; warnings do not change the exit code.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2pdf config [-c config] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML after merging the config")
	fmt.Fprintln(w, "file, DOC2PDF_* variables and flags.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: doc2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: doc2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
