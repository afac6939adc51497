package doc2pdf

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
	"github.com/jung-kurt/gofpdf"
)

// ---------------------------------------------------------------------------
// Mock Renderer
// ---------------------------------------------------------------------------

// mockRenderer is an offscreen.Renderer whose every stage can be scripted.
type mockRenderer struct {
	openErr     error
	loadErr     error
	holdLoad    bool // never resolve the load signal
	settleErr   error
	settleBlock bool // block Settle until its context ends
	formatErr   error
	pages       int
	pdf         []byte
	panicOnOpen bool

	started   chan struct{}
	startOnce sync.Once

	mu          sync.Mutex
	opened      int
	sessions    int
	closed      int
	lastPath    string
	pathExisted bool
	lastGeom    layout.Geometry
	rendererOff bool
}

var (
	_ offscreen.Renderer       = (*mockRenderer)(nil)
	_ offscreen.Session        = (*mockSession)(nil)
	_ offscreen.PrintFormatter = (*mockFormatter)(nil)
)

func newMockRenderer(pages int, pdf []byte) *mockRenderer {
	return &mockRenderer{
		pages:   pages,
		pdf:     pdf,
		started: make(chan struct{}),
	}
}

func (m *mockRenderer) Open(_ context.Context, path string, geom layout.Geometry) (offscreen.Session, error) {
	if m.panicOnOpen {
		panic("renderer exploded")
	}

	_, statErr := os.Stat(path)
	m.mu.Lock()
	m.opened++
	m.lastPath = path
	m.pathExisted = statErr == nil
	m.lastGeom = geom
	m.mu.Unlock()
	m.startOnce.Do(func() { close(m.started) })

	if m.openErr != nil {
		return nil, m.openErr
	}

	m.mu.Lock()
	m.sessions++
	m.mu.Unlock()

	s := &mockSession{r: m, signal: offscreen.NewLoadSignal()}
	if !m.holdLoad {
		s.signal.MustResolve(m.loadErr)
	}
	return s, nil
}

func (m *mockRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rendererOff = true
	return nil
}

func (m *mockRenderer) snapshot() (opened, sessions, closed int, path string, existed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened, m.sessions, m.closed, m.lastPath, m.pathExisted
}

type mockSession struct {
	r      *mockRenderer
	signal *offscreen.LoadSignal
	once   sync.Once
}

func (s *mockSession) Loaded() *offscreen.LoadSignal {
	return s.signal
}

func (s *mockSession) Settle(ctx context.Context) error {
	if s.r.settleBlock {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.r.settleErr
}

func (s *mockSession) Formatter(_ context.Context, _ layout.Geometry) (offscreen.PrintFormatter, error) {
	if s.r.formatErr != nil {
		return nil, s.r.formatErr
	}
	return &mockFormatter{pages: s.r.pages, data: s.r.pdf}, nil
}

func (s *mockSession) Close() error {
	s.once.Do(func() {
		s.r.mu.Lock()
		s.r.closed++
		s.r.mu.Unlock()
	})
	return nil
}

type mockFormatter struct {
	pages int
	data  []byte
}

func (f *mockFormatter) PageCount() int {
	return f.pages
}

func (f *mockFormatter) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(f.data).WriteTo(w)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// buildPDF returns a gofpdf document with the given number of pages.
func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetFont("Helvetica", "", 12)
	for range pages {
		pdf.AddPage()
		pdf.Text(72, 72, "printed page")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building PDF: %v", err)
	}
	return buf.Bytes()
}

// newTestConverter creates a converter that never starts a browser.
func newTestConverter(t *testing.T, r *mockRenderer, opts ...Option) *Converter {
	t.Helper()

	opts = append([]Option{WithRenderer(r), WithScratchDir(t.TempDir())}, opts...)
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
