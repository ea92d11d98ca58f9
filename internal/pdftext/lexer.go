package pdftext

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokName
	tokArray
	tokOperator
)

// token is one content stream item. Arrays keep their elements in Items.
type token struct {
	Kind  tokenKind
	Num   float64
	Str   string
	Items []token
}

// lexContent splits a content stream into operands and operators.
// Dictionaries and inline image data are skipped.
func lexContent(data []byte) []token {
	l := &lexer{data: data}
	var out []token
	for {
		tok, ok := l.next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

type lexer struct {
	data []byte
	pos  int
}

func (l *lexer) next() (token, bool) {
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.data) {
			return token{}, false
		}

		c := l.data[l.pos]
		switch {
		case c == '(':
			return token{Kind: tokString, Str: l.literalString()}, true
		case c == '<' && l.peek(1) == '<':
			l.skipDict()
			continue
		case c == '<':
			return token{Kind: tokString, Str: l.hexString()}, true
		case c == '/':
			l.pos++
			return token{Kind: tokName, Str: l.word()}, true
		case c == '[':
			l.pos++
			return token{Kind: tokArray, Items: l.array()}, true
		case c == ']':
			// Stray close bracket outside an array.
			l.pos++
			continue
		case isNumberStart(c):
			w := l.word()
			if n, err := strconv.ParseFloat(w, 64); err == nil {
				return token{Kind: tokNumber, Num: n}, true
			}
			return token{Kind: tokOperator, Str: w}, true
		default:
			w := l.word()
			if w == "" {
				l.pos++
				continue
			}
			if w == "BI" {
				l.skipInlineImage()
				continue
			}
			return token{Kind: tokOperator, Str: w}, true
		}
	}
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		if !isSpace(c) {
			return
		}
		l.pos++
	}
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) array() []token {
	var items []token
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.data) {
			return items
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return items
		}
		tok, ok := l.next()
		if !ok {
			return items
		}
		items = append(items, tok)
	}
}

// literalString reads a (...) string with balanced parentheses and escapes.
func (l *lexer) literalString() string {
	l.pos++ // opening paren
	depth := 1
	start := l.pos
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := l.data[start:l.pos]
				l.pos++
				return decodePDFString(raw)
			}
		}
		l.pos++
	}
	return decodePDFString(l.data[start:])
}

func (l *lexer) hexString() string {
	l.pos++ // '<'
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; isHex(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++ // '>'
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = unhex(digits[2*i])<<4 | unhex(digits[2*i+1])
	}
	return string(out)
}

func (l *lexer) skipDict() {
	depth := 0
	for l.pos < len(l.data) {
		if l.data[l.pos] == '<' && l.peek(1) == '<' {
			depth++
			l.pos += 2
			continue
		}
		if l.data[l.pos] == '>' && l.peek(1) == '>' {
			depth--
			l.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		if l.data[l.pos] == '(' {
			l.literalString()
			continue
		}
		l.pos++
	}
}

// skipInlineImage jumps past "ID ... EI".
func (l *lexer) skipInlineImage() {
	idx := strings.Index(string(l.data[l.pos:]), "EI")
	for idx >= 0 {
		end := l.pos + idx + 2
		if end >= len(l.data) || isSpace(l.data[end]) {
			l.pos = end
			return
		}
		next := strings.Index(string(l.data[end:]), "EI")
		if next < 0 {
			break
		}
		idx = end - l.pos + next
	}
	l.pos = len(l.data)
}

// decodePDFString handles the escape sequences of PDF literal strings.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\n':
			// Line continuation.
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
