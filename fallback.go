package doc2pdf

import (
	"bytes"
	"fmt"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/styled"
	"github.com/jung-kurt/gofpdf"
)

// Fallback page typography.
const (
	fallbackTitle     = "Conversion failed"
	fallbackTitleSize = 18.0
	fallbackBodySize  = 12.0
)

var (
	fallbackFont      = styled.Font{Family: styled.FamilyHelvetica}
	fallbackTitleFont = styled.Font{Family: styled.FamilyHelvetica, Bold: true}
)

// GenerateFallback builds a one-page PDF stating that sourceName, of
// byteCount bytes, could not be converted and why. Text that would run
// past the bottom margin is cut off, so the result is always exactly one
// page.
//
// Names outside Windows-1252 are drawn with an embedded Go face, and runes
// it lacks appear as U+XXXX escapes. The exact name is also stored as the
// document subject. The page is left uncompressed so the diagnostic text
// stays searchable. GenerateFallback panics if gofpdf reports an error,
// which would be a programming defect.
func GenerateFallback(sourceName string, byteCount int, reason FailureReason) *PDFOutput {
	geom := layout.TextGeometry
	rect := geom.TextRect()
	bottom := rect.Y + rect.H

	pdf := newPDF(geom, false)
	pdf.SetTitle(fallbackTitle, true)
	pdf.SetSubject(layout.Metadata(sourceName), true)
	pdf.AddPage()

	y := rect.Y
	lineFits := func(size float64) bool {
		return y+layout.LineSpacing*size <= bottom
	}

	layout.DrawText(pdf, fallbackTitle, fallbackTitleFont, fallbackTitleSize, rect.X, y+fallbackTitleSize)
	y += 2 * layout.LineSpacing * fallbackTitleSize

	paragraphs := []string{
		"File: " + sourceName,
		fmt.Sprintf("Size: %d bytes", byteCount),
		"Reason: " + reason.String(),
	}

draw:
	for _, p := range paragraphs {
		for _, line := range wrapFallbackText(pdf, p, rect.W) {
			if !lineFits(fallbackBodySize) {
				break draw
			}
			pdf.Text(rect.X, y+fallbackBodySize, line)
			y += layout.LineSpacing * fallbackBodySize
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		panic(fmt.Sprintf("doc2pdf: generating fallback page: %v", err))
	}

	return &PDFOutput{
		Bytes:      buf.Bytes(),
		PageCount:  1,
		SourceName: sourceName,
	}
}

// wrapFallbackText selects the body font for text and splits it into lines
// of at most width, encoded for that font. Text needing the Go face is
// wrapped rune by rune; core text keeps gofpdf's byte-based wrapping.
func wrapFallbackText(pdf *gofpdf.Fpdf, text string, width float64) []string {
	printable, unicode := layout.Printable(text, fallbackFont)
	layout.SetFont(pdf, fallbackFont, fallbackBodySize, unicode)
	if unicode {
		return pdf.SplitText(printable, width)
	}

	seg := layout.Segment{Text: printable}
	var lines []string
	for _, line := range pdf.SplitLines([]byte(seg.Encode()), width) {
		lines = append(lines, string(line))
	}
	return lines
}
