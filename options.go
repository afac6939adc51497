package doc2pdf

import (
	"time"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
	"github.com/charmbracelet/log"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	settleTimeout time.Duration
	scratchDir    string
	policy        FlightPolicy
	compress      bool

	browserBin     string
	noSandbox      bool
	officeBin      string
	officeDisabled bool
}

// Defaults used when no option overrides them.
const (
	defaultTimeout       = 90 * time.Second
	defaultSettleTimeout = 5 * time.Second
)

// WithTimeout bounds each conversion, fallback excluded. When it expires
// the document is replaced by a fallback page.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("doc2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithSettleTimeout bounds the wait for the browser layout to become
// stable after the document has loaded.
// Panics if d <= 0.
func WithSettleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("doc2pdf: WithSettleTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.settleTimeout = d
	}
}

// WithScratchDir sets where temporary copies of documents are written.
// The default is os.TempDir().
func WithScratchDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.scratchDir = dir
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFlightPolicy sets what happens when Convert is called while another
// conversion is running. The default is PreemptActive.
func WithFlightPolicy(p FlightPolicy) Option {
	return func(c *Converter) {
		c.cfg.policy = p
	}
}

// WithBrowserBin sets the Chrome executable. ROD_BROWSER_BIN is used when
// unset.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which containers usually
// require.
func WithNoSandbox(disable bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disable
	}
}

// WithOfficeBin sets the LibreOffice executable used to open word-processor
// and presentation files. The default is "soffice" on PATH.
func WithOfficeBin(path string) Option {
	return func(c *Converter) {
		c.cfg.officeBin = path
	}
}

// WithoutOffice hands container files to the browser directly instead of
// exporting them with LibreOffice first.
func WithoutOffice() Option {
	return func(c *Converter) {
		c.cfg.officeDisabled = true
	}
}

// WithCompression toggles stream compression in typeset PDFs. It is on by
// default.
func WithCompression(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.compress = enabled
	}
}

// WithRenderer replaces the headless Chrome renderer. The converter takes
// ownership and closes it in Close.
func WithRenderer(r offscreen.Renderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// WithMeasurer replaces the gofpdf font metrics used to lay out text.
func WithMeasurer(m layout.Measurer) Option {
	return func(c *Converter) {
		c.measurer = m
	}
}
