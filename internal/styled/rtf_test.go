package styled

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDecode - Rich Text
// ---------------------------------------------------------------------------

func TestDecode_RichTextPlainBody(t *testing.T) {
	t.Parallel()

	src := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}` +
		`Hello\par World}`

	doc, err := Decode([]byte(src), FormatRichText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Text(); got != "Hello\nWorld" {
		t.Errorf("Text() = %q, want %q", got, "Hello\nWorld")
	}
}

func TestDecode_RichTextAttributes(t *testing.T) {
	t.Parallel()

	src := `{\rtf1\ansi\deff0` +
		`{\fonttbl{\f0\fswiss Arial;}{\f1\froman Times New Roman;}{\f2\fmodern Courier New;}}` +
		`{\colortbl;\red255\green0\blue0;\red0\green0\blue255;}` +
		`plain {\b bold} {\i italic} {\f1 serif} {\f2 mono} {\fs48 big} {\cf1 red} \b0 end}`

	doc, err := Decode([]byte(src), FormatRichText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := doc.Text()
	want := "plain bold italic serif mono big red end"
	if text != want {
		t.Fatalf("Text() = %q, want %q", text, want)
	}

	at := func(word string) Attributes {
		t.Helper()
		i := strings.Index(text, word)
		if i < 0 {
			t.Fatalf("word %q not found", word)
		}
		return doc.AttrAt(len([]rune(text[:i])))
	}

	if a := at("plain"); a != DefaultAttributes() {
		t.Errorf("plain attrs = %+v, want defaults", a)
	}
	if a := at("bold"); !a.Font.Bold || a.Font.Italic {
		t.Errorf("bold attrs = %+v", a)
	}
	if a := at("italic"); !a.Font.Italic || a.Font.Bold {
		t.Errorf("italic attrs = %+v", a)
	}
	if a := at("serif"); a.Font.Family != FamilyTimes {
		t.Errorf("serif family = %q, want %q", a.Font.Family, FamilyTimes)
	}
	if a := at("mono"); a.Font.Family != FamilyCourier {
		t.Errorf("mono family = %q, want %q", a.Font.Family, FamilyCourier)
	}
	if a := at("big"); a.Size != 24 {
		t.Errorf("big size = %v, want 24", a.Size)
	}
	if a := at("red"); a.Color != (Color{R: 255}) {
		t.Errorf("red color = %+v", a.Color)
	}
	if a := at("end"); a.Font.Bold || a.Color != (Color{}) {
		t.Errorf("end attrs = %+v, want group state restored", a)
	}
}

func TestDecode_RichTextEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "windows-1252 hex", body: `caf\'e9`, want: "café"},
		{name: "unicode with fallback", body: `\u8364?uro`, want: "€uro"},
		{name: "negative unicode", body: `\u-4064?`, want: "\uf020"},
		{name: "uc0 skips nothing", body: `\uc0\u233 x`, want: "éx"},
		{name: "surrogate pair", body: `\u-10179?\u-8704? ok`, want: "\U0001F600 ok"},
		{name: "surrogate pair with uc0", body: `\uc0\u55357\u56832`, want: "\U0001F600"},
		{name: "unpaired high surrogate", body: `\u-10179?x`, want: "\uFFFDx"},
		{name: "high surrogate before bmp", body: `\u-10179?\u233?`, want: "\uFFFDé"},
		{name: "binary data skipped", body: `a\bin3 {{{ b`, want: "a b"},
		{name: "empty binary data", body: `a\bin0 b`, want: "ab"},
		{name: "escaped braces", body: `a\{b\}c\\d`, want: "a{b}c\\d"},
		{name: "tab and symbols", body: `a\tab b\emdash c`, want: "a\tb—c"},
		{name: "non-breaking space", body: `a\~b`, want: "a b"},
		{name: "raw newlines ignored", body: "a\nb\r\nc", want: "abc"},
		{name: "ignored destination", body: `{\*\generator Writer;}{\info{\title T}}text`, want: "text"},
		{name: "unknown starred group", body: `{\*\unknownthing junk}ok`, want: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Decode([]byte(`{\rtf1\ansi `+tt.body+`}`), FormatRichText)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := doc.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_RichTextEmptyBody(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{\rtf1\ansi}`), FormatRichText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
}

func TestDecode_RichTextTrailingDataIgnored(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte("{\\rtf1 body}\x00\x00garbage"), FormatRichText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Text(); got != "body" {
		t.Errorf("Text() = %q, want %q", got, "body")
	}
}

func TestDecode_RichTextFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "corrupted header", data: `{\rxf1 hello}`, wantMsg: "missing {\\rtf header"},
		{name: "plain text", data: "just words", wantMsg: "missing {\\rtf header"},
		{name: "empty", data: "", wantMsg: "missing {\\rtf header"},
		{name: "unterminated group", data: `{\rtf1 {\b open`, wantMsg: "unterminated group"},
		{name: "dangling backslash", data: `{\rtf1 text\`, wantMsg: "dangling backslash"},
		{name: "bad hex", data: `{\rtf1 \'zz}`, wantMsg: "invalid hex escape"},
		{name: "truncated hex", data: `{\rtf1 \'a`, wantMsg: "truncated hex escape"},
		{name: "truncated binary", data: `{\rtf1 \bin10 ab}`, wantMsg: "truncated \\bin data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tt.data), FormatRichText)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
			msg := err.Error()
			if !strings.HasPrefix(msg, "Failed to load RTF") {
				t.Errorf("message %q lacks RTF prefix", msg)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message %q does not contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestFamilyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		class Family
		want  Family
	}{
		{"Courier New", "", FamilyCourier},
		{"Consolas", FamilyHelvetica, FamilyCourier},
		{"Times New Roman", "", FamilyTimes},
		{"Calibri", "", FamilyHelvetica},
		{"Palatino", FamilyTimes, FamilyTimes},
	}
	for _, tt := range tests {
		if got := familyFor(tt.name, tt.class); got != tt.want {
			t.Errorf("familyFor(%q, %q) = %q, want %q", tt.name, tt.class, got, tt.want)
		}
	}
}
