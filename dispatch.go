package doc2pdf

import (
	"context"
)

// Strategy identifies how a document is turned into PDF pages.
type Strategy int

// Rendering strategies.
const (
	// StrategyTypeset decodes text and lays it out with the built-in
	// typesetter.
	StrategyTypeset Strategy = iota
	// StrategyBrowser loads the document in an off-screen renderer and
	// prints it.
	StrategyBrowser
)

// String returns the strategy name used in logs.
func (s Strategy) String() string {
	switch s {
	case StrategyTypeset:
		return "typeset"
	case StrategyBrowser:
		return "browser"
	}
	return "unknown"
}

// renderStrategy produces PDF output for one document.
type renderStrategy interface {
	Render(ctx context.Context, doc PickedDocument) (*PDFOutput, error)
}

// Compile-time interface checks.
var (
	_ renderStrategy = (*typesetStrategy)(nil)
	_ renderStrategy = (*browserStrategy)(nil)
)

// StrategyFor selects the strategy for a kind. Container formats need the
// browser; everything else is typeset.
func StrategyFor(kind Kind) Strategy {
	switch kind {
	case KindWordProcessor, KindPresentation:
		return StrategyBrowser
	case KindPlainText, KindRichText:
		return StrategyTypeset
	}
	return StrategyTypeset
}

// Dispatch creates a render job for doc with its strategy selected. It has
// no side effects; empty documents are accepted.
func Dispatch(doc PickedDocument) *RenderJob {
	job := newRenderJob(doc)
	job.Strategy = StrategyFor(doc.Kind())
	job.mustAdvance(StateDispatched)
	return job
}
