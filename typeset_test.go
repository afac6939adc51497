package doc2pdf_test

// Notes:
// - Text drawn with an embedded Go face is written as UTF-16BE inside the
//   content stream; utf16BE builds the bytes to search for. The chosen
//   strings contain no bytes PDF string syntax escapes.

import (
	"bytes"
	"context"
	"os"
	"testing"
	"unicode/utf16"

	doc2pdf "github.com/alnah/go-doc2pdf"
)

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return b
}

func TestConvert_NonLatinText(t *testing.T) {
	t.Parallel()

	c, err := doc2pdf.NewConverter(doc2pdf.WithCompression(false))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	doc := doc2pdf.NewPickedDocument("notes.txt", "txt", []byte("Привет мир 中文"))
	res, err := c.Convert(context.Background(), doc, t.TempDir())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if res.Fallback || res.PageCount != 1 {
		t.Fatalf("Fallback = %v, PageCount = %d, want a one-page typeset PDF", res.Fallback, res.PageCount)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, utf16BE("Привет")) {
		t.Error("Cyrillic text not drawn with the Unicode face")
	}
	if !bytes.Contains(data, []byte("U+4E2DU+6587")) {
		t.Error("runes without a glyph are not escaped")
	}
}
