package layout

import (
	"sync"
	"unicode/utf8"

	"github.com/alnah/go-doc2pdf/internal/styled"
	"github.com/jung-kurt/gofpdf"
)

// Measurer returns the advance width of text in points.
type Measurer interface {
	Width(text string, font styled.Font, size float64) float64
}

// Compile-time interface checks.
var (
	_ Measurer = (*PDFMeasurer)(nil)
	_ Measurer = FixedMeasurer{}
)

type glyphKey struct {
	font styled.Font
	size float64
	r    rune
}

// PDFMeasurer measures with the metrics gofpdf draws with: core fonts, and
// the Go faces for runes they cannot encode. Safe for concurrent use.
type PDFMeasurer struct {
	mu    sync.Mutex
	pdf   *gofpdf.Fpdf
	cache map[glyphKey]float64
}

// NewPDFMeasurer creates a measurer backed by a page-less gofpdf document.
func NewPDFMeasurer() *PDFMeasurer {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	return &PDFMeasurer{
		pdf:   pdf,
		cache: make(map[glyphKey]float64),
	}
}

// Width sums per-rune advances. gofpdf applies no kerning, so this equals
// the width of the whole string.
func (m *PDFMeasurer) Width(text string, font styled.Font, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0.0
	for _, r := range text {
		key := glyphKey{font: font, size: size, r: r}
		w, ok := m.cache[key]
		if !ok {
			for _, seg := range Segments(string(r), font) {
				SetFont(m.pdf, font, size, seg.Unicode)
				w += m.pdf.GetStringWidth(seg.Encode())
			}
			m.cache[key] = w
		}
		total += w
	}
	return total
}

// FixedMeasurer gives every rune the same advance, Advance × size.
type FixedMeasurer struct {
	Advance float64
}

func (f FixedMeasurer) Width(text string, _ styled.Font, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * f.Advance * size
}
