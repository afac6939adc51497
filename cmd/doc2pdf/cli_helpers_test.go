package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	doc2pdf "github.com/alnah/go-doc2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and environment
// ---------------------------------------------------------------------------

type convertCall struct {
	path    string
	destDir string
}

// fakeConverter records calls and answers from canned results keyed by
// input path. Unknown paths succeed with a one-page result.
type fakeConverter struct {
	mu      sync.Mutex
	results map[string]*doc2pdf.Result
	errs    map[string]error
	calls   []convertCall
	closed  bool
	onCall  func()
}

func (f *fakeConverter) ConvertFile(_ context.Context, path, destDir string) (*doc2pdf.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, convertCall{path: path, destDir: destDir})
	onCall := f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall()
	}
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	if r := f.results[path]; r != nil {
		return r, nil
	}
	if destDir == "" {
		destDir = filepath.Dir(path)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &doc2pdf.Result{Path: filepath.Join(destDir, stem+".pdf"), PageCount: 1}, nil
}

func (f *fakeConverter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// testEnv is an Environment with captured output.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	optCount int
}

func newTestEnv(conv Converter) *testEnv {
	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	te.Environment = &Environment{
		Now: func() time.Time {
			clock = clock.Add(10 * time.Millisecond)
			return clock
		},
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewConverter: func(opts ...doc2pdf.Option) (Converter, error) {
			te.optCount = len(opts)
			return conv, nil
		},
	}
	return te
}

// clearDoc2PDFEnv blanks every variable the CLI reads so the host
// environment cannot leak into a test.
func clearDoc2PDFEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, envPrefix) {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
