package doc2pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/styled"
	"github.com/jung-kurt/gofpdf"
)

// pdfCreator is written into the Creator field of every generated PDF.
const pdfCreator = "go-doc2pdf"

// typesetStrategy decodes plain and rich text and draws it with gofpdf at
// the text geometry.
type typesetStrategy struct {
	engine   *layout.TextEngine
	geom     layout.Geometry
	compress bool
}

func newTypesetStrategy(m layout.Measurer, compress bool) *typesetStrategy {
	return &typesetStrategy{
		engine:   layout.NewTextEngine(m),
		geom:     layout.TextGeometry,
		compress: compress,
	}
}

// Render implements renderStrategy.
func (s *typesetStrategy) Render(ctx context.Context, doc PickedDocument) (*PDFOutput, error) {
	format := styled.FormatPlainText
	if doc.Kind() == KindRichText {
		format = styled.FormatRichText
	}

	text, err := styled.Decode(doc.Bytes, format)
	if err != nil {
		return nil, &RenderError{Stage: StageDecode, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := layout.Paginate(text, s.geom, s.engine)
	if err != nil {
		return nil, &RenderError{Stage: StageLayout, Err: err}
	}

	pdf := newPDF(s.geom, s.compress)
	pdf.SetTitle(layout.Metadata(doc.Stem()), true)
	rect := s.geom.TextRect()

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()

		// gofpdf's origin is the top-left corner with y growing down, so
		// lines stack from the top margin without flipping.
		top := rect.Y
		for _, line := range s.engine.Lines(text, page.Range.Start, page.Range.End, rect.W) {
			s.drawLine(pdf, text, line, rect.X, top+line.MaxSize)
			top += line.Height
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Stage: StagePrint, Err: fmt.Errorf("%w: %v", ErrPDFGeneration, err)}
	}

	return &PDFOutput{
		Bytes:      buf.Bytes(),
		PageCount:  len(pages),
		SourceName: doc.SourceName,
	}, nil
}

// drawLine draws each run of line with its own font and color, left to
// right from x, on the given baseline.
func (s *typesetStrategy) drawLine(pdf *gofpdf.Fpdf, doc *styled.Document, line layout.Line, x, baseline float64) {
	for _, run := range doc.Slice(line.Start, line.End) {
		attr := run.Attr
		var text strings.Builder
		width := 0.0
		for _, r := range run.Text {
			width += s.engine.RuneWidth(r, attr)
			switch r {
			case '\n':
			case '\t':
				text.WriteString(strings.Repeat(" ", layout.TabStop))
			default:
				text.WriteRune(r)
			}
		}

		if strings.TrimSpace(text.String()) != "" {
			pdf.SetTextColor(int(attr.Color.R), int(attr.Color.G), int(attr.Color.B))
			layout.DrawText(pdf, text.String(), attr.Font, attr.Size, x, baseline)
		}
		x += width
	}
}

// newPDF creates a point-based gofpdf document sized to geom with automatic
// page breaks disabled.
func newPDF(geom layout.Geometry, compress bool) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: geom.PageWidth, Ht: geom.PageHeight},
	})
	pdf.SetMargins(geom.MarginLeft, geom.MarginTop, geom.MarginRight)
	pdf.SetAutoPageBreak(false, geom.MarginBottom)
	pdf.SetCompression(compress)
	pdf.SetCreator(pdfCreator, true)
	return pdf
}
