package pdftext

import (
	"math"
	"strings"
	"unicode"
)

// run is a piece of text shown with one font at one position.
// Coordinates are in PDF user space (origin bottom-left).
type run struct {
	Text     string
	X, Y     float64
	Width    float64
	FontSize float64
	Font     string
}

// matrix is a PDF affine matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// translate returns m pre-multiplied by a translation of (tx, ty).
func (m matrix) translate(tx, ty float64) matrix {
	m[4] += tx*m[0] + ty*m[2]
	m[5] += tx*m[1] + ty*m[3]
	return m
}

// avgGlyphWidth approximates glyph advance as a fraction of the font size
// since glyph width tables are not read.
const avgGlyphWidth = 0.5

// textState tracks the text operators of one content stream.
type textState struct {
	tm, tlm  matrix
	font     string
	size     float64
	leading  float64
	fonts    map[string]string
	runs     []run
	operands []token
}

// interpret runs the text operators of a content stream and returns the shown runs.
// fonts maps resource names such as "F1" to base font names; unknown names are kept as is.
// The current transformation matrix is not tracked.
func interpret(tokens []token, fonts map[string]string) []run {
	st := &textState{tm: identity, tlm: identity, size: 1, fonts: fonts}
	for _, tok := range tokens {
		if tok.Kind != tokOperator {
			st.operands = append(st.operands, tok)
			continue
		}
		st.apply(tok.Str)
		st.operands = st.operands[:0]
	}
	return st.runs
}

func (st *textState) apply(op string) {
	switch op {
	case "BT":
		st.tm, st.tlm = identity, identity
	case "Tf":
		if name, ok := st.name(0); ok {
			st.font = name
			if resolved, found := st.fonts[name]; found {
				st.font = resolved
			}
		}
		if size, ok := st.num(1); ok {
			st.size = size
		}
	case "TL":
		if v, ok := st.num(0); ok {
			st.leading = v
		}
	case "Tm":
		if len(st.operands) >= 6 {
			var m matrix
			for i := range m {
				m[i], _ = st.num(i)
			}
			st.tm, st.tlm = m, m
		}
	case "Td":
		tx, _ := st.num(0)
		ty, _ := st.num(1)
		st.moveLine(tx, ty)
	case "TD":
		tx, _ := st.num(0)
		ty, _ := st.num(1)
		st.leading = -ty
		st.moveLine(tx, ty)
	case "T*":
		st.moveLine(0, -st.leading)
	case "Tj":
		if s, ok := st.str(0); ok {
			st.show(s)
		}
	case "'":
		st.moveLine(0, -st.leading)
		if s, ok := st.str(0); ok {
			st.show(s)
		}
	case "\"":
		st.moveLine(0, -st.leading)
		if s, ok := st.str(2); ok {
			st.show(s)
		}
	case "TJ":
		if len(st.operands) > 0 && st.operands[len(st.operands)-1].Kind == tokArray {
			st.showArray(st.operands[len(st.operands)-1].Items)
		}
	}
}

func (st *textState) moveLine(tx, ty float64) {
	st.tlm = st.tlm.translate(tx, ty)
	st.tm = st.tlm
}

// effectiveSize is the font size scaled by the text matrix.
func (st *textState) effectiveSize() float64 {
	scale := math.Hypot(st.tm[2], st.tm[3])
	if scale == 0 {
		scale = 1
	}
	return math.Abs(st.size) * scale
}

func (st *textState) show(raw string) {
	text := decodeBytes(raw)
	width := float64(len([]rune(text))) * avgGlyphWidth * st.size
	if strings.TrimSpace(text) != "" {
		st.runs = append(st.runs, run{
			Text:     text,
			X:        st.tm[4],
			Y:        st.tm[5],
			Width:    width * st.tm[0],
			FontSize: st.effectiveSize(),
			Font:     st.font,
		})
	}
	st.tm = st.tm.translate(width, 0)
}

// showArray handles TJ. Large negative kerning becomes a space.
func (st *textState) showArray(items []token) {
	var sb strings.Builder
	for _, item := range items {
		switch item.Kind {
		case tokString:
			sb.WriteString(item.Str)
		case tokNumber:
			if item.Num < -200 {
				sb.WriteByte(' ')
			}
		}
	}
	st.show(sb.String())
}

func (st *textState) operand(i int) (token, bool) {
	if i < 0 || i >= len(st.operands) {
		return token{}, false
	}
	return st.operands[i], true
}

func (st *textState) num(i int) (float64, bool) {
	tok, ok := st.operand(i)
	if !ok || tok.Kind != tokNumber {
		return 0, false
	}
	return tok.Num, true
}

func (st *textState) name(i int) (string, bool) {
	tok, ok := st.operand(i)
	if !ok || tok.Kind != tokName {
		return "", false
	}
	return tok.Str, true
}

func (st *textState) str(i int) (string, bool) {
	tok, ok := st.operand(i)
	if !ok || tok.Kind != tokString {
		return "", false
	}
	return tok.Str, true
}

// decodeBytes maps raw string bytes to text. Two-byte strings whose high bytes
// are all zero are read as UTF-16BE; everything else as Latin-1.
// Control characters are dropped.
func decodeBytes(raw string) string {
	b := []byte(raw)
	if len(b) >= 2 && len(b)%2 == 0 && allEvenZero(b) {
		odd := make([]byte, 0, len(b)/2)
		for i := 1; i < len(b); i += 2 {
			odd = append(odd, b[i])
		}
		b = odd
	}

	var sb strings.Builder
	for _, c := range b {
		r := rune(c)
		if unicode.IsControl(r) {
			if r == '\t' || r == '\n' || r == '\r' {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func allEvenZero(b []byte) bool {
	for i := 0; i < len(b); i += 2 {
		if b[i] != 0 {
			return false
		}
	}
	return true
}
