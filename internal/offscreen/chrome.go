package offscreen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/pdfinfo"
	"github.com/alnah/go-doc2pdf/internal/process"
	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface checks.
var (
	_ Renderer       = (*Chrome)(nil)
	_ Session        = (*chromeSession)(nil)
	_ PrintFormatter = (*printedDocument)(nil)
)

const (
	// DefaultLoadTimeout bounds navigation plus the load event.
	DefaultLoadTimeout = 30 * time.Second

	// stableWindow is how long the DOM must stay unchanged to count as settled.
	stableWindow = 300 * time.Millisecond
)

// ChromeConfig configures the headless browser.
type ChromeConfig struct {
	// Bin overrides the browser executable. ROD_BROWSER_BIN is used when
	// empty, then rod's own lookup.
	Bin string
	// NoSandbox disables the Chrome sandbox. It is also forced in CI and
	// when a custom binary is set.
	NoSandbox bool
	// LoadTimeout bounds each page load. Zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
	// Office exports container formats before navigation. Nil disables it.
	Office *OfficeBridge
	Logger *log.Logger
}

// Chrome is a Renderer backed by headless Chrome through go-rod.
// The browser is launched on first use and shared by all sessions.
type Chrome struct {
	cfg ChromeConfig

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewChrome creates a Chrome renderer. No process starts until Open.
func NewChrome(cfg ChromeConfig) *Chrome {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Chrome{cfg: cfg}
}

// ensureBrowser lazily launches and connects to the browser.
func (c *Chrome) ensureBrowser() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	l := launcher.New()

	bin := c.cfg.Bin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// Containers and CI runners usually lack the namespaces the sandbox needs.
	if c.cfg.NoSandbox || bin != "" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.cfg.Logger.Debug("browser launched", "pid", l.PID())
	c.browser = browser
	c.launcher = l
	return browser, nil
}

// Open implements Renderer. The page is created synchronously; navigation
// runs in the background and resolves the session's LoadSignal.
func (c *Chrome) Open(ctx context.Context, path string, geom layout.Geometry) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := c.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             layout.CSSPixels(geom.PageWidth),
		Height:            layout.CSSPixels(geom.PageHeight),
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s := &chromeSession{
		page:   page,
		signal: NewLoadSignal(),
		cancel: cancel,
		done:   make(chan struct{}),
		cfg:    c.cfg,
	}
	go s.load(loadCtx, path)
	return s, nil
}

// Close shuts the browser down and kills its process group.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		process.KillProcessGroup(c.launcher.PID())
		c.launcher.Kill()
		c.launcher.Cleanup()
		c.launcher = nil
	}
	return err
}

// chromeSession is one browser tab showing one document.
type chromeSession struct {
	page   *rod.Page
	signal *LoadSignal
	cancel context.CancelFunc
	done   chan struct{}
	cfg    ChromeConfig

	workDir   string // office export output, removed on Close
	closeOnce sync.Once
	closeErr  error
}

func (s *chromeSession) Loaded() *LoadSignal {
	return s.signal
}

// load runs in its own goroutine and resolves the signal exactly once.
func (s *chromeSession) load(ctx context.Context, path string) {
	defer close(s.done)

	target := path
	if s.cfg.Office != nil && s.cfg.Office.Handles(path) {
		html, err := s.export(ctx, path)
		if err != nil {
			s.signal.MustResolve(err)
			return
		}
		target = html
	}

	p := s.page.Context(ctx).Timeout(s.cfg.LoadTimeout)
	if err := p.Navigate(fileURL(target)); err != nil {
		s.signal.MustResolve(fmt.Errorf("%w: %v", ErrPageLoad, err))
		return
	}
	if err := p.WaitLoad(); err != nil {
		s.signal.MustResolve(fmt.Errorf("%w: %v", ErrPageLoad, err))
		return
	}
	s.signal.MustResolve(nil)
}

func (s *chromeSession) export(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp(filepath.Dir(path), "doc2pdf-office-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOfficeExport, err)
	}
	s.workDir = dir

	start := time.Now()
	html, err := s.cfg.Office.Export(ctx, path, dir)
	if err != nil {
		return "", err
	}
	s.cfg.Logger.Debug("office export", "source", filepath.Base(path), "elapsed", time.Since(start))
	return html, nil
}

// Settle waits until the network is idle and the DOM stops changing.
func (s *chromeSession) Settle(ctx context.Context) error {
	return s.page.Context(ctx).WaitStable(stableWindow)
}

// Formatter prints the page. Margins come from geom; the page count is read
// back from the printed PDF.
func (s *chromeSession) Formatter(ctx context.Context, geom layout.Geometry) (PrintFormatter, error) {
	reader, err := s.page.Context(ctx).PDF(printOptions(geom))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	pages, err := pdfinfo.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return &printedDocument{data: data, pages: pages}, nil
}

// Close stops a pending load and closes the tab.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.closeErr = s.page.Close()
		if s.workDir != "" {
			_ = os.RemoveAll(s.workDir)
		}
	})
	return s.closeErr
}

// printOptions maps a page geometry to Chrome's print parameters (inches).
func printOptions(geom layout.Geometry) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(layout.Inches(geom.PageWidth)),
		PaperHeight:     floatPtr(layout.Inches(geom.PageHeight)),
		MarginTop:       floatPtr(layout.Inches(geom.MarginTop)),
		MarginBottom:    floatPtr(layout.Inches(geom.MarginBottom)),
		MarginLeft:      floatPtr(layout.Inches(geom.MarginLeft)),
		MarginRight:     floatPtr(layout.Inches(geom.MarginRight)),
		PrintBackground: true,
	}
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // drive-letter paths
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func floatPtr(v float64) *float64 {
	return &v
}

// printedDocument is a PDF produced by the browser.
type printedDocument struct {
	data  []byte
	pages int
}

func (d *printedDocument) PageCount() int {
	return d.pages
}

func (d *printedDocument) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(d.data).WriteTo(w)
}
