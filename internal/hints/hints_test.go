package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "ROD_BROWSER_BIN"} {
		t.Setenv(k, "")
	}
}

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name            string
		ci              bool
		container       bool
		sandboxDisabled bool
		browserBin      string
		wantSandbox     bool
		wantBin         bool
	}{
		{name: "in CI", ci: true, wantSandbox: true, wantBin: true},
		{name: "in docker", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already disabled", container: true, sandboxDisabled: true, wantBin: true},
		{name: "browser bin set", browserBin: "/usr/bin/chromium"},
		{name: "desktop", wantBin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCIEnv(t)
			stubContainer(t, tt.container)
			if tt.ci {
				t.Setenv("CI", "true")
			}
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect(tt.sandboxDisabled)

			if got := strings.Contains(hint, "--no-sandbox"); got != tt.wantSandbox {
				t.Errorf("sandbox hint present = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("browser bin hint present = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !tt.wantSandbox && !tt.wantBin && hint != "" {
				t.Errorf("expected no hint, got %q", hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "empty paths", paths: nil, contains: "--config"},
		{name: "with user path", paths: []string{"work.yaml", "/home/u/.config/go-doc2pdf/work.yaml"}, contains: "create /home/u/.config/go-doc2pdf/work.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestFormat_Consistency(t *testing.T) {
	hints := map[string]string{
		"ForTimeout":           ForTimeout(),
		"ForSettleTimeout":     ForSettleTimeout(),
		"ForOfficeUnavailable": ForOfficeUnavailable(),
		"ForBusy":              ForBusy(),
		"ForOutputDirectory":   ForOutputDirectory(),
		"ForConfigNotFound":    ForConfigNotFound(nil),
	}

	for name, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("%s format inconsistent: %q", name, h)
		}
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}
