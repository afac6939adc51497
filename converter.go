package doc2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
	"github.com/charmbracelet/log"
)

// Converter runs the conversion pipeline: dispatch, render, fall back on
// failure, and save. Create it with NewConverter, call Convert for each
// document, and Close when done.
//
// A Converter runs one conversion at a time; see WithFlightPolicy.
type Converter struct {
	cfg      converterConfig
	logger   *log.Logger
	measurer layout.Measurer
	renderer offscreen.Renderer
	flight   flight

	typeset renderStrategy
	browser renderStrategy
}

// NewConverter creates a Converter. The browser is not started until a
// document needs it.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:       defaultTimeout,
			settleTimeout: defaultSettleTimeout,
			compress:      true,
		},
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.scratchDir != "" {
		info, err := os.Stat(c.cfg.scratchDir)
		if err != nil {
			return nil, fmt.Errorf("scratch directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("scratch directory: %s is not a directory", c.cfg.scratchDir)
		}
	}

	if c.measurer == nil {
		c.measurer = layout.NewPDFMeasurer()
	}

	if c.renderer == nil {
		var office *offscreen.OfficeBridge
		if !c.cfg.officeDisabled {
			office = offscreen.NewOfficeBridge(c.cfg.officeBin)
		}
		c.renderer = offscreen.NewChrome(offscreen.ChromeConfig{
			Bin:       c.cfg.browserBin,
			NoSandbox: c.cfg.noSandbox,
			Office:    office,
			Logger:    c.logger,
		})
	}

	c.flight.policy = c.cfg.policy
	c.typeset = newTypesetStrategy(c.measurer, c.cfg.compress)
	c.browser = newBrowserStrategy(c.renderer, c.cfg.scratchDir, c.cfg.settleTimeout)
	return c, nil
}

// Convert renders doc and writes <stem>.pdf into destDir.
//
// Any rendering failure is replaced by a single diagnostic page; the result
// then has Fallback set. Convert returns an error only when the job was
// cancelled (by ctx or by a preempting conversion), when another conversion
// is running under RejectWhenBusy (ErrBusy), or when the PDF cannot be
// written (ErrPersist). Cancelled jobs write nothing.
func (c *Converter) Convert(ctx context.Context, doc PickedDocument, destDir string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	jobCtx, release, err := c.flight.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	job := Dispatch(doc)
	renderCtx, cancel := context.WithTimeout(jobCtx, c.cfg.timeout)
	defer cancel()
	job.cancel = cancel

	logger := c.logger.With("job", job.ID, "source", doc.SourceName)
	logger.Debug("dispatched", "kind", doc.Kind(), "strategy", job.Strategy, "bytes", len(doc.Bytes))
	start := time.Now()

	out, renderErr := c.render(renderCtx, job)
	if err := jobCtx.Err(); err != nil {
		job.Cancel()
		logger.Info("cancelled", "elapsed", time.Since(start))
		return nil, err
	}

	if renderErr == nil {
		job.mustAdvance(StateCompleted)
	} else {
		if errors.Is(renderErr, context.DeadlineExceeded) && !errors.Is(renderErr, ErrRender) {
			renderErr = &RenderError{Stage: StageTimeout, Err: fmt.Errorf("conversion exceeded %s", c.cfg.timeout)}
		}
		reason := reasonFor(renderErr)
		job.Reason = &reason
		job.mustAdvance(StateFailed)
		logger.Warn("rendering failed, writing fallback page", "stage", reason.Stage, "err", renderErr)

		job.mustAdvance(StateFallingBack)
		out = GenerateFallback(doc.SourceName, len(doc.Bytes), reason)
		job.mustAdvance(StateCompleted)
	}
	job.Output = out

	if err := jobCtx.Err(); err != nil {
		job.Cancel()
		return nil, err
	}

	path, err := WritePDF(out, destDir)
	if err != nil {
		logger.Error("saving PDF", "err", err)
		return nil, err
	}
	job.mustAdvance(StateSaved)
	logger.Info("saved", "path", path, "pages", out.PageCount, "fallback", job.Reason != nil, "elapsed", time.Since(start))

	return &Result{
		Path:         path,
		BytesWritten: len(out.Bytes),
		PageCount:    out.PageCount,
		Fallback:     job.Reason != nil,
		Reason:       job.Reason,
		Cause:        renderErr,
		JobID:        job.ID,
	}, nil
}

// ConvertFrom picks a document and converts it. Pick errors are returned
// as is and no job is started.
func (c *Converter) ConvertFrom(ctx context.Context, p Picker, destDir string) (*Result, error) {
	doc, err := p.Pick(ctx)
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, doc, destDir)
}

// ConvertFile converts the file at path. An empty destDir writes next to
// the source file.
func (c *Converter) ConvertFile(ctx context.Context, path, destDir string) (*Result, error) {
	if destDir == "" {
		destDir = filepath.Dir(path)
	}
	return c.ConvertFrom(ctx, FilePicker{Path: path}, destDir)
}

// Close releases the renderer (the headless browser, if it was started).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// render runs the job's strategy. A panic inside the strategy becomes an
// internal RenderError.
func (c *Converter) render(ctx context.Context, job *RenderJob) (out *PDFOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &RenderError{Stage: StageInternal, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	job.mustAdvance(StateRendering)
	return c.strategyFor(job.Strategy).Render(ctx, job.Document)
}

func (c *Converter) strategyFor(s Strategy) renderStrategy {
	switch s {
	case StrategyTypeset:
		return c.typeset
	case StrategyBrowser:
		return c.browser
	}
	panic(fmt.Sprintf("doc2pdf: unhandled strategy %v", s))
}
