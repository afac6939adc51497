package doc2pdf

import (
	"bytes"
	"context"
	"time"

	"github.com/alnah/go-doc2pdf/internal/fileutil"
	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
)

// browserStrategy prints container formats through an off-screen renderer.
type browserStrategy struct {
	renderer      offscreen.Renderer
	scratchDir    string
	settleTimeout time.Duration
	geom          layout.Geometry
}

func newBrowserStrategy(r offscreen.Renderer, scratchDir string, settleTimeout time.Duration) *browserStrategy {
	return &browserStrategy{
		renderer:      r,
		scratchDir:    scratchDir,
		settleTimeout: settleTimeout,
		geom:          layout.PrintGeometry,
	}
}

// Render implements renderStrategy. The scratch copy and the renderer
// session are released on every return path.
func (s *browserStrategy) Render(ctx context.Context, doc PickedDocument) (*PDFOutput, error) {
	path, cleanup, err := fileutil.WriteTempFile(s.scratchDir, doc.Bytes, doc.Extension())
	if err != nil {
		return nil, &RenderError{Stage: StageTempWrite, Err: err}
	}
	defer cleanup()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := s.renderer.Open(ctx, path, s.geom)
	if err != nil {
		return nil, stageError(ctx, StageNavigation, err)
	}
	defer func() { _ = session.Close() }()

	if err := session.Loaded().Wait(ctx); err != nil {
		return nil, stageError(ctx, StageNavigation, err)
	}

	settleCtx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	defer cancel()
	if err := session.Settle(settleCtx); err != nil {
		return nil, stageError(ctx, StageSettle, err)
	}

	formatter, err := session.Formatter(ctx, s.geom)
	if err != nil {
		return nil, stageError(ctx, StagePrint, err)
	}

	pages := formatter.PageCount()
	if pages <= 0 {
		return nil, &RenderError{Stage: StageZeroPages, Err: errZeroPages}
	}

	var buf bytes.Buffer
	if _, err := formatter.WriteTo(&buf); err != nil {
		return nil, stageError(ctx, StagePrint, err)
	}

	return &PDFOutput{
		Bytes:      buf.Bytes(),
		PageCount:  pages,
		SourceName: doc.SourceName,
	}, nil
}

// stageError tags err with stage, unless ctx ended, in which case the
// context error is returned so cancellation is not mistaken for a
// rendering failure.
func stageError(ctx context.Context, stage Stage, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &RenderError{Stage: stage, Err: err}
}
