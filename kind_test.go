package doc2pdf_test

import (
	"testing"

	doc2pdf "github.com/alnah/go-doc2pdf"
)

func TestKindFromHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hint string
		want doc2pdf.Kind
	}{
		{"txt", doc2pdf.KindPlainText},
		{"TXT", doc2pdf.KindPlainText},
		{"rtf", doc2pdf.KindRichText},
		{".rtf", doc2pdf.KindRichText},
		{"doc", doc2pdf.KindWordProcessor},
		{" .DOCX ", doc2pdf.KindWordProcessor},
		{"ppt", doc2pdf.KindPresentation},
		{"PPTX", doc2pdf.KindPresentation},
		{"", doc2pdf.KindPlainText},
		{"md", doc2pdf.KindPlainText},
		{"xlsx", doc2pdf.KindPlainText},
		{"..doc", doc2pdf.KindPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			t.Parallel()
			if got := doc2pdf.KindFromHint(tt.hint); got != tt.want {
				t.Errorf("KindFromHint(%q) = %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}

func TestNewPickedDocument_SniffsRichText(t *testing.T) {
	t.Parallel()

	rtf := []byte(`{\rtf1 hi}`)

	tests := []struct {
		name string
		hint string
		data []byte
		want doc2pdf.Kind
	}{
		{"no hint, rtf content", "", rtf, doc2pdf.KindRichText},
		{"no hint, plain content", "", []byte("hello"), doc2pdf.KindPlainText},
		{"explicit hint wins", "txt", rtf, doc2pdf.KindPlainText},
		{"empty bytes", "", nil, doc2pdf.KindPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := doc2pdf.NewPickedDocument("x", tt.hint, tt.data)
			if got := doc.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickedDocument_Extension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hint string
		data []byte
		want string
	}{
		{".DocX", nil, "docx"},
		{"ppt", nil, "ppt"},
		{"", []byte(`{\rtf1}`), "rtf"},
		{"", nil, "txt"},
		{"md", nil, "md"},
	}

	for _, tt := range tests {
		doc := doc2pdf.NewPickedDocument("x", tt.hint, tt.data)
		if got := doc.Extension(); got != tt.want {
			t.Errorf("Extension() with hint %q = %q, want %q", tt.hint, got, tt.want)
		}
	}
}

func TestPickedDocument_Stem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"report.docx", "report"},
		{"archive.tar.gz", "archive.tar"},
		{"dir/sub/notes.txt", "notes"},
		{`C:\Users\me\memo.rtf`, "memo"},
		{"README", "README"},
		{".hidden", ""},
		{"", ""},
		{"dir/", "dir"},
	}

	for _, tt := range tests {
		doc := doc2pdf.NewPickedDocument(tt.name, "", nil)
		if got := doc.Stem(); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if got := doc2pdf.KindPresentation.String(); got != "presentation" {
		t.Errorf("String() = %q", got)
	}
	if got := doc2pdf.Kind(42).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}
