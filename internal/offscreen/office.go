package offscreen

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doc2pdf/internal/process"
)

// DefaultOfficeBin is the LibreOffice executable looked up on PATH.
const DefaultOfficeBin = "soffice"

// Office bridge errors.
var (
	ErrOfficeUnavailable = errors.New("office suite not found")
	ErrOfficeExport      = errors.New("office export failed")
)

// Container formats the browser cannot display on its own.
var officeExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".odt":  true,
	".odp":  true,
}

// OfficeBridge exports office documents to HTML with a headless
// LibreOffice so the browser can lay them out.
type OfficeBridge struct {
	bin string
}

// NewOfficeBridge creates a bridge running bin, or DefaultOfficeBin when
// bin is empty.
func NewOfficeBridge(bin string) *OfficeBridge {
	if bin == "" {
		bin = DefaultOfficeBin
	}
	return &OfficeBridge{bin: bin}
}

// Handles reports whether path has an extension the bridge exports.
func (b *OfficeBridge) Handles(path string) bool {
	return officeExtensions[strings.ToLower(filepath.Ext(path))]
}

// LookPath resolves the office executable.
func (b *OfficeBridge) LookPath() (string, error) {
	path, err := exec.LookPath(b.bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOfficeUnavailable, b.bin, err)
	}
	return path, nil
}

// Export converts src to HTML inside outDir and returns the HTML path.
// The office process runs in its own process group and is killed with its
// children when ctx is cancelled.
func (b *OfficeBridge) Export(ctx context.Context, src, outDir string) (string, error) {
	bin, err := b.LookPath()
	if err != nil {
		return "", err
	}

	// LibreOffice will not start a second instance on a locked profile.
	profile := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(outDir, "profile"))}

	cmd := process.Command(ctx, bin,
		"-env:UserInstallation="+profile.String(),
		"--headless",
		"--norestore",
		"--nologo",
		"--convert-to", "html",
		"--outdir", outDir,
		src,
	)
	out, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrOfficeExport, err, strings.TrimSpace(string(out)))
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	html := filepath.Join(outDir, stem+".html")
	if _, err := os.Stat(html); err != nil {
		return "", fmt.Errorf("%w: no HTML produced for %s", ErrOfficeExport, filepath.Base(src))
	}
	return html, nil
}
