// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doc2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch and connection errors.
// sandboxDisabled reports whether the caller already turned the sandbox off.
func ForBrowserConnect(sandboxDisabled bool) string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && !sandboxDisabled {
		hints = append(hints, "use --no-sandbox in Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN or --browser-bin to use a custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the conversion timeout.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForSettleTimeout returns a hint for pages that never stopped changing.
func ForSettleTimeout() string {
	return format("documents with slow fonts or scripts need a longer --settle-timeout")
}

// ForOfficeUnavailable returns a hint for a missing LibreOffice install.
func ForOfficeUnavailable() string {
	return format("install LibreOffice or point --office-bin at soffice")
}

// ForBusy returns a hint for a conversion rejected by the flight policy.
func ForBusy() string {
	return format("another conversion is running; retry, or set render.flightPolicy: preempt")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and the first user config path searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-doc2pdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
