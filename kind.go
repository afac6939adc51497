package doc2pdf

import (
	"bytes"
	"path"
	"strings"
)

// Kind is the closed set of input families the converter distinguishes.
// It is computed once, when a PickedDocument is built.
type Kind int

// Input kinds. The zero value is plain text, which also covers unknown and
// missing hints.
const (
	KindPlainText Kind = iota
	KindRichText
	KindWordProcessor
	KindPresentation
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindRichText:
		return "rtf"
	case KindWordProcessor:
		return "word"
	case KindPresentation:
		return "presentation"
	}
	return "unknown"
}

var hintKinds = map[string]Kind{
	"txt":  KindPlainText,
	"text": KindPlainText,
	"rtf":  KindRichText,
	"doc":  KindWordProcessor,
	"docx": KindWordProcessor,
	"ppt":  KindPresentation,
	"pptx": KindPresentation,
}

// rtfMagic opens every rich-text file.
var rtfMagic = []byte(`{\rtf`)

// NormalizeHint lowercases an extension hint and strips surrounding space
// and one leading dot.
func NormalizeHint(hint string) string {
	hint = strings.TrimSpace(hint)
	hint = strings.TrimPrefix(hint, ".")
	return strings.ToLower(hint)
}

// KindFromHint maps an extension hint to a Kind. Unknown and empty hints
// are plain text.
func KindFromHint(hint string) Kind {
	return hintKinds[NormalizeHint(hint)]
}

// PickedDocument is a document handed over by the input side: its display
// name, an extension hint, and its raw bytes. It may be built as a literal;
// NewPickedDocument also normalizes the hint.
type PickedDocument struct {
	SourceName    string
	ExtensionHint string
	Bytes         []byte
}

// NewPickedDocument builds a document with a normalized hint.
func NewPickedDocument(sourceName, hint string, data []byte) PickedDocument {
	return PickedDocument{
		SourceName:    sourceName,
		ExtensionHint: NormalizeHint(hint),
		Bytes:         data,
	}
}

// Kind classifies the document from its hint. When the hint is empty,
// content starting with {\rtf is treated as rich text.
func (d PickedDocument) Kind() Kind {
	hint := NormalizeHint(d.ExtensionHint)
	if hint == "" && bytes.HasPrefix(d.Bytes, rtfMagic) {
		return KindRichText
	}
	return KindFromHint(hint)
}

// Extension returns the extension used for scratch copies: the normalized
// hint when set, otherwise the canonical extension of the kind.
func (d PickedDocument) Extension() string {
	if hint := NormalizeHint(d.ExtensionHint); hint != "" {
		return hint
	}
	switch d.Kind() {
	case KindRichText:
		return "rtf"
	case KindWordProcessor:
		return "docx"
	case KindPresentation:
		return "pptx"
	}
	return "txt"
}

// Stem returns the source name without directory and extension. Both
// slash styles are treated as separators.
func (d PickedDocument) Stem() string {
	name := strings.ReplaceAll(d.SourceName, "\\", "/")
	name = path.Base(name)
	if name == "/" || name == "." {
		return ""
	}
	return strings.TrimSuffix(name, path.Ext(name))
}
