package layout

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alnah/go-doc2pdf/internal/styled"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
)

// Family names the embedded Go fonts are registered under in gofpdf.
const (
	unicodeSans = "GoSans"
	unicodeMono = "GoMono"
)

// face is an embedded TrueType face used for text the core fonts cannot
// encode. gofpdf only draws Basic Multilingual Plane runes with it.
type face struct {
	family string
	style  string
	ttf    []byte

	once sync.Once
	font *sfnt.Font
}

var faces = map[string]*face{
	unicodeSans:        {family: unicodeSans, ttf: goregular.TTF},
	unicodeSans + "B":  {family: unicodeSans, style: "B", ttf: gobold.TTF},
	unicodeSans + "I":  {family: unicodeSans, style: "I", ttf: goitalic.TTF},
	unicodeSans + "BI": {family: unicodeSans, style: "BI", ttf: gobolditalic.TTF},
	unicodeMono:        {family: unicodeMono, ttf: gomono.TTF},
	unicodeMono + "B":  {family: unicodeMono, style: "B", ttf: gomonobold.TTF},
	unicodeMono + "I":  {family: unicodeMono, style: "I", ttf: gomonoitalic.TTF},
	unicodeMono + "BI": {family: unicodeMono, style: "BI", ttf: gomonobolditalic.TTF},
}

// faceFor picks the Go face standing in for font. Go has no serif face, so
// Times falls back to the sans one.
func faceFor(font styled.Font) *face {
	family := unicodeSans
	if font.Family == styled.FamilyCourier {
		family = unicodeMono
	}
	return faces[family+font.Style()]
}

func (f *face) covers(r rune) bool {
	if r > 0xFFFF {
		return false
	}
	f.once.Do(func() {
		if parsed, err := sfnt.Parse(f.ttf); err == nil {
			f.font = parsed
		}
	})
	if f.font == nil {
		return false
	}
	var buf sfnt.Buffer
	idx, err := f.font.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// Segment is a stretch of text drawn with one kind of font: a core font
// when Unicode is false, the embedded Go face otherwise.
type Segment struct {
	Text    string
	Unicode bool
}

// Segments splits text into core and Unicode segments for font. Runes
// Windows-1252 can encode use the core font. Other runes use the Go face,
// and runes it has no glyph for are written as a U+XXXX escape.
func Segments(text string, font styled.Font) []Segment {
	f := faceFor(font)

	var segs []Segment
	var cur strings.Builder
	curUnicode := false
	for _, r := range text {
		unicode, escape := true, ""
		switch {
		case coreEncodable(r):
			unicode = false
		case !f.covers(r):
			unicode, escape = false, Escape(r)
		}

		if unicode != curUnicode && cur.Len() > 0 {
			segs = append(segs, Segment{Text: cur.String(), Unicode: curUnicode})
			cur.Reset()
		}
		curUnicode = unicode
		if escape != "" {
			cur.WriteString(escape)
		} else {
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, Segment{Text: cur.String(), Unicode: curUnicode})
	}
	return segs
}

// Printable returns text with undrawable runes escaped and reports whether
// any of it needs the Go face.
func Printable(text string, font styled.Font) (string, bool) {
	var b strings.Builder
	unicode := false
	for _, seg := range Segments(text, font) {
		b.WriteString(seg.Text)
		unicode = unicode || seg.Unicode
	}
	return b.String(), unicode
}

// Escape writes r in U+XXXX notation.
func Escape(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// Metadata escapes runes outside the Basic Multilingual Plane, which
// gofpdf cannot encode in document metadata.
func Metadata(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > 0xFFFF {
			b.WriteString(Escape(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SetFont selects font at size, registering the Go face with pdf on first
// use when unicode is set.
func SetFont(pdf *gofpdf.Fpdf, font styled.Font, size float64, unicode bool) {
	if !unicode {
		pdf.SetFont(string(font.Family), font.Style(), size)
		return
	}
	f := faceFor(font)
	pdf.AddUTF8FontFromBytes(f.family, f.style, f.ttf)
	pdf.SetFont(f.family, f.style, size)
}

// Encode converts seg to the bytes gofpdf expects for its font: Windows-1252
// for core fonts, UTF-8 for the Go face.
func (seg Segment) Encode() string {
	if seg.Unicode {
		return seg.Text
	}
	return encodeCore(seg.Text)
}

// DrawText draws text in font from x on baseline and returns its advance.
func DrawText(pdf *gofpdf.Fpdf, text string, font styled.Font, size, x, baseline float64) float64 {
	start := x
	for _, seg := range Segments(text, font) {
		SetFont(pdf, font, size, seg.Unicode)
		s := seg.Encode()
		pdf.Text(x, baseline, s)
		x += pdf.GetStringWidth(s)
	}
	return x - start
}

func coreEncodable(r rune) bool {
	if r < utf8.RuneSelf {
		return true
	}
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}

func encodeCore(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b = append(b, c)
	}
	return string(b)
}
