package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-doc2pdf/internal/config"
	"github.com/alnah/go-doc2pdf/internal/fileutil"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"
)

// versionProbeTimeout bounds "<bin> --version" calls.
const versionProbeTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   binaryInfo `json:"chrome"`
	Office   binaryInfo `json:"office"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// binaryInfo holds detection results for an external program.
type binaryInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox *bool  `json:"sandbox,omitempty"` // Chrome only
	Enabled bool   `json:"enabled"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	ScratchDir      string `json:"scratch_dir"`
	ScratchWritable bool   `json:"scratch_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	cfg, err := loadSettings(&convertFlags{common: flags.common}, loadEnvConfig())
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks against the effective config.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEnvironment(result)
	checkChrome(result, cfg)
	checkOffice(result, cfg)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkChrome detects the browser used for word-processor and
// presentation documents. Text and RTF never need it, so a missing
// browser is a warning.
func checkChrome(result *doctorResult, cfg *config.Config) {
	result.Chrome.Enabled = true

	chromePath := cfg.Browser.Bin
	if chromePath == "" {
		chromePath = os.Getenv("ROD_BROWSER_BIN")
	}
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; it will be downloaded on first use. Install Chrome or set browser.bin")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Version = probeVersion(result, "Chrome", chromePath)

	// Mirrors the launcher: custom binaries and CI always run unsandboxed.
	sandbox := !cfg.Browser.NoSandbox && cfg.Browser.Bin == "" && os.Getenv("CI") != "true"
	result.Chrome.Sandbox = &sandbox

	if (result.Env.Container || result.Env.CI) && sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the Chrome sandbox is enabled. Use --no-sandbox or DOC2PDF_NO_SANDBOX=1")
	}
}

// checkOffice detects LibreOffice, needed to lay out .doc, .docx, .ppt
// and .pptx files. Without it those documents get a fallback page.
func checkOffice(result *doctorResult, cfg *config.Config) {
	result.Office.Enabled = cfg.Office.Enabled
	if !cfg.Office.Enabled {
		return
	}

	path, err := offscreen.NewOfficeBridge(cfg.Office.Bin).LookPath()
	if err != nil {
		result.Warnings = append(result.Warnings,
			"LibreOffice not found; word and presentation documents will produce fallback pages")
		return
	}
	result.Office.Found = true
	result.Office.Path = path
	result.Office.Version = probeVersion(result, "LibreOffice", path)
}

// probeVersion runs "<bin> --version". Failures become warnings.
func probeVersion(result *doctorResult, name, bin string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "--version").Output() // #nosec G204 -- bin comes from config or PATH lookup
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get %s version: %v", name, err))
		return ""
	}
	return strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	result.Env.CI = slices.ContainsFunc(ciVars, func(v string) bool { return os.Getenv(v) != "" })
}

// ciVars are set by common CI runners.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// containerSignals are checked in order; the first match names the hint.
var containerSignals = []func() (bool, string){
	func() (bool, string) { return os.Getenv("DOC2PDF_CONTAINER") == "1", "DOC2PDF_CONTAINER=1" },
	func() (bool, string) { return fileutil.FileExists("/.dockerenv"), "/.dockerenv" },
	func() (bool, string) { v := os.Getenv("container"); return v != "", "container=" + v },
	func() (bool, string) { return os.Getenv("KUBERNETES_SERVICE_HOST") != "", "KUBERNETES_SERVICE_HOST" },
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	for _, signal := range containerSignals {
		if ok, hint := signal(); ok {
			return true, hint
		}
	}
	return false, ""
}

// checkSystem verifies the scratch directory accepts temporary copies.
func checkSystem(result *doctorResult, cfg *config.Config) {
	dir := cfg.Scratch.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	result.System.ScratchDir = dir

	_, cleanup, err := fileutil.WriteTempFile(dir, []byte("doctor"), "txt")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Scratch directory not writable: %s", dir))
		return
	}
	cleanup()
	result.System.ScratchWritable = true
}

// Check tags in human-readable output.
const (
	tagOK    = "OK"
	tagWarn  = "WARN"
	tagError = "ERROR"
)

// checkLine prints one indented "[TAG] message" line.
func checkLine(w io.Writer, tag, format string, args ...any) {
	fmt.Fprintf(w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// printBinary prints the section for an external program.
func printBinary(w io.Writer, title string, b binaryInfo) {
	fmt.Fprintln(w, title)
	switch {
	case !b.Enabled:
		checkLine(w, tagOK, "Disabled")
	case !b.Found:
		checkLine(w, tagWarn, "Not found")
	default:
		checkLine(w, tagOK, "Found at %s", b.Path)
		if b.Version != "" {
			checkLine(w, tagOK, "Version: %s", b.Version)
		}
		if b.Sandbox != nil {
			state := "disabled"
			if *b.Sandbox {
				state = "enabled"
			}
			checkLine(w, tagOK, "Sandbox: %s", state)
		}
	}
	fmt.Fprintln(w)
}

// statusLines maps doctorResult.Status to the closing line.
var statusLines = map[string]string{
	"ready":    "Status: Ready to convert",
	"warnings": "Status: Ready with warnings",
	"errors":   "Status: Not ready (see errors above)",
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "doc2pdf doctor\n\n")

	printBinary(w, "Chrome/Chromium", r.Chrome)
	printBinary(w, "LibreOffice", r.Office)

	fmt.Fprintln(w, "Environment")
	checkLine(w, tagOK, "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		checkLine(w, tagOK, "Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		checkLine(w, tagOK, "CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.ScratchWritable {
		checkLine(w, tagOK, "Scratch directory: %s (writable)", r.System.ScratchDir)
	} else {
		checkLine(w, tagError, "Scratch directory: %s (not writable)", r.System.ScratchDir)
	}
	fmt.Fprintln(w)

	for _, group := range []struct {
		title string
		tag   string
		lines []string
	}{
		{"Warnings:", tagWarn, r.Warnings},
		{"Errors:", tagError, r.Errors},
	} {
		if len(group.lines) == 0 {
			continue
		}
		fmt.Fprintln(w, group.title)
		for _, l := range group.lines {
			checkLine(w, group.tag, "%s", l)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, statusLines[r.Status])
}
