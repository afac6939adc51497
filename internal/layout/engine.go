package layout

import (
	"github.com/alnah/go-doc2pdf/internal/styled"
)

// LineSpacing is the line height as a multiple of the largest font size on
// the line.
const LineSpacing = 1.2

// TabStop is the number of spaces a tab advances.
const TabStop = 4

// eps absorbs float drift when summing line heights.
const eps = 1e-6

// Engine decides how much text fits in a rectangle.
type Engine interface {
	// Fit returns the index one past the last character of doc, starting at
	// start, that fits inside rect. A return value equal to start means no
	// progress is possible.
	Fit(doc *styled.Document, start int, rect Rect) int
}

var _ Engine = (*TextEngine)(nil)

// Line is one laid-out line covering the rune range [Start, End).
// A trailing '\n' belongs to the line it ends.
type Line struct {
	Start, End int
	// MaxSize is the largest font size on the line; the baseline sits
	// MaxSize below the top of the line.
	MaxSize float64
	Height  float64
}

// TextEngine is a greedy line breaker. Lines wrap after whitespace, break
// hard on '\n', and split a word that alone exceeds the width.
type TextEngine struct {
	measurer Measurer
}

// NewTextEngine creates an engine measuring with m.
func NewTextEngine(m Measurer) *TextEngine {
	return &TextEngine{measurer: m}
}

// Fit implements Engine.
func (e *TextEngine) Fit(doc *styled.Document, start int, rect Rect) int {
	n := doc.Len()
	pos := start
	y := 0.0
	for pos < n {
		line := e.nextLine(doc, pos, n, rect.W)
		if line.End == pos || y+line.Height > rect.H+eps {
			break
		}
		y += line.Height
		pos = line.End
	}
	return pos
}

// Lines lays out [start, end) at the given width. It stops early if a line
// cannot hold a single character.
func (e *TextEngine) Lines(doc *styled.Document, start, end int, width float64) []Line {
	end = min(end, doc.Len())
	var lines []Line
	for pos := start; pos < end; {
		line := e.nextLine(doc, pos, end, width)
		if line.End == pos {
			break
		}
		lines = append(lines, line)
		pos = line.End
	}
	return lines
}

// RuneWidth returns the advance of a single character, expanding tabs.
func (e *TextEngine) RuneWidth(r rune, attr styled.Attributes) float64 {
	switch r {
	case '\n':
		return 0
	case '\t':
		return TabStop * e.measurer.Width(" ", attr.Font, attr.Size)
	}
	return e.measurer.Width(string(r), attr.Font, attr.Size)
}

func (e *TextEngine) nextLine(doc *styled.Document, start, limit int, width float64) Line {
	end := limit
	lastBreak := -1
	x := 0.0

	for i := start; i < limit; i++ {
		r := doc.RuneAt(i)
		if r == '\n' {
			end = i + 1
			break
		}

		w := e.RuneWidth(r, doc.AttrAt(i))
		if x+w > width+eps {
			switch {
			case isSpace(r):
				// Overflowing whitespace hangs past the margin.
				end = i + 1
			case lastBreak > start:
				end = lastBreak
			case i > start:
				end = i
			default:
				return Line{Start: start, End: start}
			}
			break
		}

		x += w
		if isSpace(r) {
			lastBreak = i + 1
		}
	}

	maxSize := 0.0
	for i := start; i < end; i++ {
		maxSize = max(maxSize, doc.AttrAt(i).Size)
	}
	return Line{
		Start:   start,
		End:     end,
		MaxSize: maxSize,
		Height:  LineSpacing * maxSize,
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
