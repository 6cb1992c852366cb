package lexer

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// ErrUnexpectedEOF is returned by the Scanner when asked to read past the
// end of its input. Callers are expected to test IsAtEnd first.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// CharClass is the lexical class of a single rune.
type CharClass int

const (
	ClassOther CharClass = iota
	ClassLetter
	ClassDigit
	ClassUnderscore
	ClassWhitespace
	ClassNewline
	ClassDoubleQuote
	ClassSingleQuote
	ClassSlash
	ClassStar
	ClassAngleOpen
	ClassAngleClose
	ClassHash
	ClassBackslash
	ClassPunct
)

func (c CharClass) String() string {
	switch c {
	case ClassLetter:
		return "letter"
	case ClassDigit:
		return "digit"
	case ClassUnderscore:
		return "underscore"
	case ClassWhitespace:
		return "whitespace"
	case ClassNewline:
		return "newline"
	case ClassDoubleQuote:
		return "double-quote"
	case ClassSingleQuote:
		return "single-quote"
	case ClassSlash:
		return "slash"
	case ClassStar:
		return "star"
	case ClassAngleOpen:
		return "angle-open"
	case ClassAngleClose:
		return "angle-close"
	case ClassHash:
		return "hash"
	case ClassBackslash:
		return "backslash"
	case ClassPunct:
		return "punct"
	default:
		return "other"
	}
}

// eof is returned by peek helpers past the end of input. It is not a valid
// rune, so NUL bytes in the input stay distinguishable.
const eof rune = -1

// Scanner is a read-only cursor helper over one immutable input buffer.
// It never mutates a ScanState; every move returns a new one.
type Scanner struct {
	src   string
	limit int // exclusive end of the scannable region
}

// NewScanner returns a scanner over the whole of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, limit: len(src)}
}

// Start returns the state positioned at offset 0.
func (s *Scanner) Start() ScanState {
	return ScanState{Line: 1, Column: 1}
}

// IsAtEnd reports whether st has consumed the whole input.
func (s *Scanner) IsAtEnd(st ScanState) bool {
	return st.Offset >= s.limit
}

// NextCharClass classifies the rune at the cursor and returns the offset
// just past it. An invalid UTF-8 byte is a one-byte unit of ClassOther.
func (s *Scanner) NextCharClass(st ScanState) (CharClass, int, error) {
	if s.IsAtEnd(st) {
		return ClassOther, st.Offset, ErrUnexpectedEOF
	}
	r, w := s.decode(st.Offset)
	return classify(r, w), st.Offset + w, nil
}

// Advance returns st moved forward to offset to, updating line and column.
func (s *Scanner) Advance(st ScanState, to int) ScanState {
	to = min(to, s.limit)
	for st.Offset < to {
		r, w := s.decode(st.Offset)
		st.Offset += w
		if r == '\n' {
			st.Line++
			st.Column = 1
		} else {
			st.Column++
		}
	}
	return st
}

// PeekRune returns the rune starting at byte offset off, or eof.
func (s *Scanner) PeekRune(off int) rune {
	if off < 0 || off >= s.limit {
		return eof
	}
	r, _ := s.decode(off)
	return r
}

// byteAt returns the byte at off, or 0 past the end.
func (s *Scanner) byteAt(off int) byte {
	if off < 0 || off >= s.limit {
		return 0
	}
	return s.src[off]
}

// hasPrefix reports whether the region starting at off begins with p.
func (s *Scanner) hasPrefix(off int, p string) bool {
	return off+len(p) <= s.limit && s.src[off:off+len(p)] == p
}

func (s *Scanner) decode(off int) (rune, int) {
	if c := s.src[off]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(s.src[off:s.limit])
}

// scanWhile returns the first offset at or after off whose rune fails pred.
func (s *Scanner) scanWhile(off int, pred func(rune) bool) int {
	for off < s.limit {
		r, w := s.decode(off)
		if !pred(r) {
			break
		}
		off += w
	}
	return off
}

func classify(r rune, width int) CharClass {
	switch {
	case r == utf8.RuneError && width == 1:
		return ClassOther
	case r == '_':
		return ClassUnderscore
	case r == '\n' || r == '\r':
		return ClassNewline
	case r == '"':
		return ClassDoubleQuote
	case r == '\'':
		return ClassSingleQuote
	case r == '/':
		return ClassSlash
	case r == '*':
		return ClassStar
	case r == '<':
		return ClassAngleOpen
	case r == '>':
		return ClassAngleClose
	case r == '#':
		return ClassHash
	case r == '\\':
		return ClassBackslash
	case isDigit(r):
		return ClassDigit
	case isLetter(r):
		return ClassLetter
	case isSpace(r):
		return ClassWhitespace
	case r < utf8.RuneSelf && isSymbolStart(byte(r)):
		return ClassPunct
	default:
		return ClassOther
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentContinue(ch rune) bool {
	return isLetter(ch) || unicode.IsDigit(ch) || unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch)
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

// isHexDigit checks if a rune is a hexadecimal digit
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// isSpace matches horizontal whitespace only; line breaks are separate tokens.
func isSpace(ch rune) bool {
	if ch == '\n' || ch == '\r' {
		return false
	}
	return ch == ' ' || ch == '\t' || unicode.IsSpace(ch)
}
