package layout

import (
	"errors"
	"fmt"

	"github.com/alnah/go-doc2pdf/internal/styled"
)

// ErrNoProgress is returned when the engine cannot place a single character
// on an empty page.
var ErrNoProgress = errors.New("layout made no progress")

// Range is a half-open rune range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of characters in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Page is a zero-based page and the text visible on it.
type Page struct {
	Index int
	Range Range
}

// Paginate splits doc into pages whose ranges are contiguous, non-overlapping
// and cover [0, doc.Len()). An empty document yields one empty page.
//
// When the engine stops making progress, Paginate returns the pages built so
// far together with an error wrapping ErrNoProgress.
func Paginate(doc *styled.Document, geom Geometry, engine Engine) ([]Page, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	n := doc.Len()
	if n == 0 {
		return []Page{{Index: 0, Range: Range{}}}, nil
	}

	rect := geom.TextRect()
	var pages []Page
	for start := 0; start < n; {
		end := min(engine.Fit(doc, start, rect), n)
		if end <= start {
			return pages, fmt.Errorf("%w: stuck at character %d of %d", ErrNoProgress, start, n)
		}
		pages = append(pages, Page{Index: len(pages), Range: Range{Start: start, End: end}})
		start = end
	}
	return pages, nil
}
