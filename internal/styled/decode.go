package styled

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("decode failed")

// Format selects the decoding rules applied to raw bytes.
type Format int

// Supported input formats.
const (
	FormatPlainText Format = iota
	FormatRichText
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatRichText {
		return "rtf"
	}
	return "text"
}

// DecodeError reports bytes that could not be turned into styled text.
type DecodeError struct {
	Format Format
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	prefix := "Failed to decode text"
	if e.Format == FormatRichText {
		prefix = "Failed to load RTF"
	}
	if e.Err != nil {
		return prefix + ": " + e.Detail + ": " + e.Err.Error()
	}
	return prefix + ": " + e.Detail
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw bytes into a styled Document. Zero bytes decode to an
// empty document, which is not an error.
func Decode(data []byte, format Format) (*Document, error) {
	if format == FormatRichText {
		return decodeRTF(data)
	}

	text, err := decodePlainText(data)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	doc.Append(text, DefaultAttributes())
	return doc, nil
}

// decodePlainText decodes UTF-8 first and falls back to UTF-16.
// Line endings are normalized to "\n".
func decodePlainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return normalizeNewlines(string(data)), nil
	}

	text, err := decodeUTF16(data)
	if err != nil {
		return "", &DecodeError{
			Format: FormatPlainText,
			Detail: "not valid UTF-8 or UTF-16",
			Err:    err,
		}
	}
	return normalizeNewlines(text), nil
}

var (
	errOddLength     = errors.New("odd byte count")
	errLoneSurrogate = errors.New("unpaired surrogate")
	errBinaryContent = errors.New("binary content")
)

// decodeUTF16 honours a byte order mark and defaults to little-endian.
// Unpaired surrogates are rejected instead of being replaced.
func decodeUTF16(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errOddLength
	}

	var order binary.ByteOrder = binary.LittleEndian
	endianness := unicode.LittleEndian
	switch {
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		order, endianness = binary.BigEndian, unicode.BigEndian
		data = data[2:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		data = data[2:]
	}

	if err := validateUTF16(data, order); err != nil {
		return "", err
	}

	out, err := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func validateUTF16(data []byte, order binary.ByteOrder) error {
	nuls := 0
	for i := 0; i < len(data); i += 2 {
		u := order.Uint16(data[i:])
		if u == 0 {
			nuls++
		}
		switch {
		case utf16.IsSurrogate(rune(u)) && u < 0xDC00:
			if i+3 >= len(data) {
				return errLoneSurrogate
			}
			next := order.Uint16(data[i+2:])
			if next < 0xDC00 || next > 0xDFFF {
				return errLoneSurrogate
			}
			i += 2
		case utf16.IsSurrogate(rune(u)):
			return errLoneSurrogate
		}
	}
	// More than a quarter NUL code units is a binary payload, not text.
	if units := len(data) / 2; units > 0 && nuls*4 > units {
		return errBinaryContent
	}
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
