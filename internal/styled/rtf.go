package styled

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const rtfHeader = `{\rtf`

// Destinations whose content never reaches the text buffer.
var rtfIgnoredDestinations = map[string]bool{
	"info":               true,
	"stylesheet":         true,
	"pict":               true,
	"object":             true,
	"header":             true,
	"headerl":            true,
	"headerr":            true,
	"headerf":            true,
	"footer":             true,
	"footerl":            true,
	"footerr":            true,
	"footerf":            true,
	"footnote":           true,
	"fldinst":            true,
	"listtable":          true,
	"listoverridetable":  true,
	"rsidtbl":            true,
	"generator":          true,
	"xmlnstbl":           true,
	"themedata":          true,
	"colorschememapping": true,
	"latentstyles":       true,
	"datastore":          true,
	"filetbl":            true,
	"revtbl":             true,
	"pgdsctbl":           true,
}

// Control words that map straight to a character.
var rtfSymbolWords = map[string]string{
	"par":       "\n",
	"line":      "\n",
	"sect":      "\n",
	"page":      "\n",
	"row":       "\n",
	"tab":       "\t",
	"cell":      "\t",
	"emdash":    "—",
	"endash":    "–",
	"bullet":    "•",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
	"emspace":   " ",
	"enspace":   " ",
	"qmspace":   " ",
}

// rtfState is the group-scoped formatting state, saved on '{' and
// restored on '}'.
type rtfState struct {
	attr Attributes
	dest string // "fonttbl", "colortbl" or "" for body text
	skip bool
	uc   int
}

type rtfParser struct {
	data  []byte
	pos   int
	state rtfState
	stack []rtfState

	fonts       map[int]Family
	defaultFont int
	colors      []Color

	// font table entry being read
	fontNum   int
	fontClass Family
	fontName  strings.Builder

	// color table entry being read
	color Color

	pendingSkip   int
	highSurrogate rune // first half of a \u pair awaiting its second
	pending       strings.Builder
	pendingAttr Attributes

	doc *Document
}

func decodeRTF(data []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte(rtfHeader)) {
		return nil, rtfError("missing {\\rtf header")
	}

	p := &rtfParser{
		data:  trimmed,
		fonts: make(map[int]Family),
		state: rtfState{attr: DefaultAttributes(), uc: 1},
		doc:   &Document{},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func rtfError(format string, args ...any) *DecodeError {
	return &DecodeError{Format: FormatRichText, Detail: fmt.Sprintf(format, args...)}
}

func (p *rtfParser) parse() error {
	depth := 0
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '{':
			p.stack = append(p.stack, p.state)
			depth++
		case '}':
			if depth == 0 {
				return rtfError("unexpected closing brace at offset %d", p.pos-1)
			}
			p.closeGroup()
			depth--
			if depth == 0 {
				// Anything after the root group is padding.
				p.flush()
				return nil
			}
		case '\\':
			if err := p.control(); err != nil {
				return err
			}
		case '\r', '\n':
		case '\t':
			p.emit("\t")
		default:
			if c < 0x20 {
				continue
			}
			p.emitByte(c)
		}
	}

	if depth > 0 {
		return rtfError("unterminated group (%d open)", depth)
	}
	p.flush()
	return nil
}

func (p *rtfParser) closeGroup() {
	if p.state.dest == "fonttbl" && p.fontName.Len() > 0 {
		p.registerFont()
	}
	p.state = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

// control handles everything after a backslash.
func (p *rtfParser) control() error {
	if p.pos >= len(p.data) {
		return rtfError("dangling backslash at end of input")
	}
	c := p.data[p.pos]

	if !isASCIILetter(c) {
		p.pos++
		return p.controlSymbol(c)
	}

	start := p.pos
	for p.pos < len(p.data) && isASCIILetter(p.data[p.pos]) {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	param, hasParam := 0, false
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || isASCIIDigit(p.data[p.pos])) {
		numStart := p.pos
		p.pos++
		for p.pos < len(p.data) && isASCIIDigit(p.data[p.pos]) {
			p.pos++
		}
		n, err := strconv.Atoi(string(p.data[numStart:p.pos]))
		if err != nil {
			return rtfError("invalid parameter for \\%s at offset %d", word, numStart)
		}
		param, hasParam = n, true
	}
	// A single space delimits the control word and is not text.
	if p.pos < len(p.data) && p.data[p.pos] == ' ' {
		p.pos++
	}

	// \binN is followed by N raw bytes that are never RTF syntax.
	if word == "bin" {
		if hasParam && param > 0 {
			if param > len(p.data)-p.pos {
				return rtfError("truncated \\bin data at offset %d", p.pos)
			}
			p.pos += param
		}
		return nil
	}

	p.controlWord(word, param, hasParam)
	return nil
}

func (p *rtfParser) controlSymbol(c byte) error {
	switch c {
	case '\'':
		if p.pos+2 > len(p.data) {
			return rtfError("truncated hex escape at offset %d", p.pos)
		}
		b, err := strconv.ParseUint(string(p.data[p.pos:p.pos+2]), 16, 8)
		if err != nil {
			return rtfError("invalid hex escape at offset %d", p.pos)
		}
		p.pos += 2
		p.emitByte(byte(b))
	case '*':
		p.state.skip = true
	case '\\', '{', '}':
		p.emit(string(c))
	case '~':
		p.emit(" ")
	case '_':
		p.emit("-")
	case '\r', '\n':
		p.emit("\n")
	}
	return nil
}

func (p *rtfParser) controlWord(word string, param int, hasParam bool) {
	switch p.state.dest {
	case "fonttbl":
		p.fontTableWord(word, param)
		return
	case "colortbl":
		p.colorTableWord(word, param)
		return
	}

	if word != "u" {
		p.pendingSkip = 0
	}

	if s, ok := rtfSymbolWords[word]; ok {
		p.emit(s)
		return
	}

	switch word {
	case "fonttbl", "colortbl":
		p.state.dest = word
	case "deff":
		p.defaultFont = param
	case "plain":
		p.state.attr = Attributes{
			Font: Font{Family: p.family(p.defaultFont)},
			Size: DefaultSize,
		}
	case "b":
		p.state.attr.Font.Bold = !hasParam || param != 0
	case "i":
		p.state.attr.Font.Italic = !hasParam || param != 0
	case "fs":
		if param > 0 {
			p.state.attr.Size = float64(param) / 2
		}
	case "f":
		p.state.attr.Font.Family = p.family(param)
	case "cf":
		if param >= 0 && param < len(p.colors) {
			p.state.attr.Color = p.colors[param]
		} else {
			p.state.attr.Color = Color{}
		}
	case "uc":
		if param >= 0 {
			p.state.uc = param
		}
	case "u":
		p.emitUnicode(param)
		p.pendingSkip = p.state.uc
	default:
		if rtfIgnoredDestinations[word] {
			p.state.skip = true
		}
	}
}

func (p *rtfParser) fontTableWord(word string, param int) {
	switch word {
	case "f":
		if p.fontName.Len() > 0 {
			p.registerFont()
		}
		p.fontNum = param
		p.fontClass = ""
	case "froman":
		p.fontClass = FamilyTimes
	case "fswiss":
		p.fontClass = FamilyHelvetica
	case "fmodern":
		p.fontClass = FamilyCourier
	}
}

func (p *rtfParser) colorTableWord(word string, param int) {
	v := uint8(min(max(param, 0), 255))
	switch word {
	case "red":
		p.color.R = v
	case "green":
		p.color.G = v
	case "blue":
		p.color.B = v
	}
}

func (p *rtfParser) registerFont() {
	name := strings.TrimSpace(p.fontName.String())
	p.fonts[p.fontNum] = familyFor(name, p.fontClass)
	p.fontName.Reset()
}

func (p *rtfParser) family(n int) Family {
	if f, ok := p.fonts[n]; ok {
		return f
	}
	return FamilyHelvetica
}

// familyFor maps a font name and its RTF family class to a core family.
func familyFor(name string, class Family) Family {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "courier"), strings.Contains(lower, "mono"),
		strings.Contains(lower, "consolas"), strings.Contains(lower, "menlo"):
		return FamilyCourier
	case strings.Contains(lower, "times"), strings.Contains(lower, "georgia"),
		strings.Contains(lower, "garamond"), strings.Contains(lower, "cambria"):
		return FamilyTimes
	case class != "":
		return class
	}
	return FamilyHelvetica
}

// emitByte decodes one ANSI byte as Windows-1252.
func (p *rtfParser) emitByte(b byte) {
	if b < 0x80 {
		p.emit(string(rune(b)))
		return
	}
	p.emit(string(charmap.Windows1252.DecodeByte(b)))
}

// emitUnicode emits a \u value. Values are signed 16-bit UTF-16 code
// units, so characters outside the Basic Multilingual Plane arrive as a
// surrogate pair split over two control words.
func (p *rtfParser) emitUnicode(v int) {
	r := rune(v)
	if r < 0 {
		r += 0x10000
	}
	if hi := p.highSurrogate; hi != 0 {
		p.highSurrogate = 0
		if pair := utf16.DecodeRune(hi, r); pair != utf8.RuneError {
			p.emit(string(pair))
			return
		}
		p.emit(string(utf8.RuneError))
	}
	if r >= 0xD800 && r < 0xDC00 {
		p.highSurrogate = r
		return
	}
	p.emit(string(r))
}

func (p *rtfParser) emit(s string) {
	if p.state.skip {
		return
	}
	if p.pendingSkip > 0 {
		p.pendingSkip--
		return
	}
	if p.highSurrogate != 0 {
		p.highSurrogate = 0
		p.emit(string(utf8.RuneError))
	}

	switch p.state.dest {
	case "fonttbl":
		if s == ";" {
			p.registerFont()
			return
		}
		p.fontName.WriteString(s)
		return
	case "colortbl":
		if s == ";" {
			p.colors = append(p.colors, p.color)
			p.color = Color{}
		}
		return
	}

	if p.pending.Len() > 0 && p.pendingAttr != p.state.attr {
		p.flush()
	}
	p.pendingAttr = p.state.attr
	p.pending.WriteString(s)
}

func (p *rtfParser) flush() {
	if p.pending.Len() == 0 {
		return
	}
	p.doc.Append(p.pending.String(), p.pendingAttr)
	p.pending.Reset()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
