// Package styled holds the styled-text model (runs of text carrying font,
// size and color) and the decoders that build it from rich-text and
// plain-text bytes.
//
// Character positions are rune indices into the logical text buffer; a
// Document of length L covers indices [0, L).
package styled

import "unicode/utf8"

// Family names a base font family. Values match the core font names
// understood by PDF writers.
type Family string

// Supported font families.
const (
	FamilyHelvetica Family = "Helvetica"
	FamilyTimes     Family = "Times"
	FamilyCourier   Family = "Courier"
)

// DefaultSize is the font size in points applied to undecorated text.
const DefaultSize = 12.0

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Font describes a typeface selection.
type Font struct {
	Family Family
	Bold   bool
	Italic bool
}

// Style returns the style string used by core-font PDF writers:
// "", "B", "I" or "BI".
func (f Font) Style() string {
	switch {
	case f.Bold && f.Italic:
		return "BI"
	case f.Bold:
		return "B"
	case f.Italic:
		return "I"
	}
	return ""
}

// Attributes are the visual attributes of a run.
type Attributes struct {
	Font  Font
	Size  float64 // points
	Color Color
}

// DefaultAttributes returns Helvetica 12pt black.
func DefaultAttributes() Attributes {
	return Attributes{
		Font: Font{Family: FamilyHelvetica},
		Size: DefaultSize,
	}
}

// Run is a span of text sharing one set of attributes.
type Run struct {
	Text string
	Attr Attributes
}

// Document is an ordered sequence of runs forming one logical text buffer.
// Build it with Append; a Document is not safe for concurrent mutation.
type Document struct {
	runs    []Run
	offsets []int // rune offset of each run start
	runes   []rune
}

// NewDocument builds a document from runs, dropping empty runs and merging
// neighbours with identical attributes.
func NewDocument(runs ...Run) *Document {
	d := &Document{}
	for _, r := range runs {
		d.Append(r.Text, r.Attr)
	}
	return d
}

// Append adds text with the given attributes to the end of the document.
func (d *Document) Append(text string, attr Attributes) {
	if text == "" {
		return
	}
	if n := len(d.runs); n > 0 && d.runs[n-1].Attr == attr {
		d.runs[n-1].Text += text
	} else {
		d.runs = append(d.runs, Run{Text: text, Attr: attr})
		d.offsets = append(d.offsets, len(d.runes))
	}
	d.runes = append(d.runes, []rune(text)...)
}

// Len returns the number of characters (runes) in the document.
func (d *Document) Len() int {
	return len(d.runes)
}

// Runs returns the document runs. The slice must not be modified.
func (d *Document) Runs() []Run {
	return d.runs
}

// Text returns the full logical text.
func (d *Document) Text() string {
	return string(d.runes)
}

// RuneAt returns the character at index i.
func (d *Document) RuneAt(i int) rune {
	return d.runes[i]
}

// AttrAt returns the attributes of the character at index i.
func (d *Document) AttrAt(i int) Attributes {
	return d.runs[d.runIndex(i)].Attr
}

// runIndex finds the run containing rune index i by binary search.
func (d *Document) runIndex(i int) int {
	lo, hi := 0, len(d.offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.offsets[mid] <= i {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Slice returns the runs clipped to the rune range [start, end).
// Out-of-range bounds are clamped.
func (d *Document) Slice(start, end int) []Run {
	start = max(start, 0)
	end = min(end, len(d.runes))
	if start >= end {
		return nil
	}

	var out []Run
	for idx := d.runIndex(start); idx < len(d.runs); idx++ {
		runStart := d.offsets[idx]
		if runStart >= end {
			break
		}
		runEnd := runStart + utf8.RuneCountInString(d.runs[idx].Text)
		from := max(start, runStart)
		to := min(end, runEnd)
		if from < to {
			out = append(out, Run{
				Text: string(d.runes[from:to]),
				Attr: d.runs[idx].Attr,
			})
		}
	}
	return out
}
