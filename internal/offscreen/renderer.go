// Package offscreen drives an off-screen document view: it loads a file,
// waits for layout to settle, and prints the result to PDF.
package offscreen

import (
	"context"
	"errors"
	"io"

	"github.com/alnah/go-doc2pdf/internal/layout"
)

// Sentinel errors for renderer operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// Renderer opens documents in an off-screen view.
type Renderer interface {
	// Open starts loading path and returns immediately. The returned
	// session reports the load outcome through Loaded.
	Open(ctx context.Context, path string, geom layout.Geometry) (Session, error)
	Close() error
}

// Session is one loaded document. Close releases everything the session
// holds and is safe to call more than once.
type Session interface {
	Loaded() *LoadSignal
	// Settle blocks until layout is stable or ctx is done.
	Settle(ctx context.Context) error
	// Formatter prints the document with the given page geometry.
	Formatter(ctx context.Context, geom layout.Geometry) (PrintFormatter, error)
	Close() error
}

// PrintFormatter holds a printed document.
type PrintFormatter interface {
	PageCount() int
	io.WriterTo
}
