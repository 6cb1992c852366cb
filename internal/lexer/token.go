package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in runes
	Start    int    // byte offset into the input
	End      int    // exclusive end byte offset
}

// String returns "file:line:col", or "line:col" without a filename.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Mods refines a token's type without changing it.
type Mods uint8

const (
	ModReserved Mods = 1 << iota // 'static, '_
	ModRaw                       // r"..", r#".."#, r#ident
	ModByte                      // b"..", b'x', br".."
	ModCString                   // c"..", cr".."
)

// Has reports whether all bits of m2 are set.
func (m Mods) Has(m2 Mods) bool {
	return m&m2 == m2
}

// Token represents a lexical token. Raw is always input[Span.Start:Span.End].
type Token struct {
	Type TokenType
	Raw  string
	Span Span
	Mods Mods
}

// Token type constants
const (
	EOF TokenType = "EOF"

	// Trivia
	WHITESPACE TokenType = "WHITESPACE" // spaces, tabs
	NEWLINE    TokenType = "NEWLINE"    // \n, \r\n, \r

	// Comments
	LINE_COMMENT       TokenType = "LINE_COMMENT"       // //
	BLOCK_COMMENT      TokenType = "BLOCK_COMMENT"      // /* */
	DOC_COMMENT_LINE   TokenType = "DOC_COMMENT_LINE"   // ///
	DOC_COMMENT_BLOCK  TokenType = "DOC_COMMENT_BLOCK"  // /** */
	DOC_COMMENT_MODULE TokenType = "DOC_COMMENT_MODULE" // //! and /*! */
	SHEBANG            TokenType = "SHEBANG"            // #!/usr/bin/env ...

	// Words
	KEYWORD  TokenType = "KEYWORD"
	IDENT    TokenType = "IDENT"
	LIFETIME TokenType = "LIFETIME" // 'a, 'static

	// Literals
	INT    TokenType = "INT"    // 42, 0xff, 1_000u32
	FLOAT  TokenType = "FLOAT"  // 3.14, 1e9, 2f32
	STRING TokenType = "STRING" // "hello", r#"raw"#, b"bytes"
	CHAR   TokenType = "CHAR"   // 'a', '\n', b'x'

	// Symbols
	PUNCT         TokenType = "PUNCT"
	OPERATOR      TokenType = "OPERATOR"
	GENERIC_OPEN  TokenType = "GENERIC_OPEN"  // < opening a generic list
	GENERIC_CLOSE TokenType = "GENERIC_CLOSE" // > closing a generic list

	// Errors
	UNTERMINATED_BLOCK_COMMENT TokenType = "UNTERMINATED_BLOCK_COMMENT"
	UNTERMINATED_STRING        TokenType = "UNTERMINATED_STRING"
	UNRECOGNIZED_CHAR          TokenType = "UNRECOGNIZED_CHAR"
)

// IsTrivia reports whether t is whitespace or a line break.
func (t TokenType) IsTrivia() bool {
	return t == WHITESPACE || t == NEWLINE
}

// IsComment reports whether t is any comment kind, documentation included.
func (t TokenType) IsComment() bool {
	switch t {
	case LINE_COMMENT, BLOCK_COMMENT, DOC_COMMENT_LINE, DOC_COMMENT_BLOCK, DOC_COMMENT_MODULE, SHEBANG:
		return true
	}
	return false
}

// IsDoc reports whether t is a documentation comment.
func (t TokenType) IsDoc() bool {
	return t == DOC_COMMENT_LINE || t == DOC_COMMENT_BLOCK || t == DOC_COMMENT_MODULE
}

// IsError reports whether t marks malformed input.
func (t TokenType) IsError() bool {
	return t == UNTERMINATED_BLOCK_COMMENT || t == UNTERMINATED_STRING || t == UNRECOGNIZED_CHAR
}

// IsLiteral reports whether t is a numeric, string or character literal.
func (t TokenType) IsLiteral() bool {
	return t == INT || t == FLOAT || t == STRING || t == CHAR
}

// tokenTypes lists every type the lexer can emit.
var tokenTypes = []TokenType{
	EOF, WHITESPACE, NEWLINE,
	LINE_COMMENT, BLOCK_COMMENT, DOC_COMMENT_LINE, DOC_COMMENT_BLOCK, DOC_COMMENT_MODULE, SHEBANG,
	KEYWORD, IDENT, LIFETIME,
	INT, FLOAT, STRING, CHAR,
	PUNCT, OPERATOR, GENERIC_OPEN, GENERIC_CLOSE,
	UNTERMINATED_BLOCK_COMMENT, UNTERMINATED_STRING, UNRECOGNIZED_CHAR,
}

// Valid reports whether t is one of the declared token types.
func (t TokenType) Valid() bool {
	for _, known := range tokenTypes {
		if t == known {
			return true
		}
	}
	return false
}
