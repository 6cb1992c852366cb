package lexer

import (
	"strconv"
	"strings"
)

// Lexer tokenizes one buffer. It owns the Scanner over the input and the
// ScanState whose frames carry open generic lists and brackets between
// tokens. Errors collects every malformed span seen so far.
type Lexer struct {
	sc             *Scanner
	st             ScanState
	filename       string
	emitWhitespace bool // whether to emit trivia tokens (whitespace, newlines)

	prev    Token // last token that was neither trivia nor a comment
	hasPrev bool

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// newLexer is the single internal constructor that sets up all lexer state
func newLexer(input string, cfg options) *Lexer {
	sc := NewScanner(input)
	st := sc.Start()
	if cfg.hasRange {
		end := max(0, min(cfg.end, len(input)))
		start := max(0, min(cfg.start, end))
		sc.limit = end
		st = sc.Advance(st, start)
	}
	return &Lexer{
		sc:             sc,
		st:             st,
		filename:       cfg.filename,
		emitWhitespace: cfg.emitWhitespace,
	}
}

// State returns a snapshot of the scan state between tokens.
func (l *Lexer) State() ScanState {
	return l.st.clone()
}

// NextToken returns the next token from the input. Once the input is
// exhausted every call returns an EOF token.
func (l *Lexer) NextToken() Token {
	for {
		if l.sc.IsAtEnd(l.st) {
			return l.eofToken()
		}
		tok := l.classify()
		if tok.Type.IsTrivia() && !l.emitWhitespace {
			continue
		}
		return tok
	}
}

// classify scans exactly one token starting at the cursor.
func (l *Lexer) classify() Token {
	start := l.st
	cls, next, _ := l.sc.NextCharClass(start)

	switch cls {
	case ClassWhitespace:
		return l.emit(WHITESPACE, start, l.sc.scanWhile(next, isSpace), 0)

	case ClassNewline:
		end := next
		if l.sc.byteAt(start.Offset) == '\r' && l.sc.byteAt(end) == '\n' {
			end++
		}
		return l.emit(NEWLINE, start, end, 0)

	case ClassSlash:
		if tok, ok := l.scanComment(start); ok {
			return tok
		}

	case ClassHash:
		if start.Offset == 0 && l.isShebang() {
			return l.emit(SHEBANG, start, l.sc.lineEnd(2), 0)
		}

	case ClassDoubleQuote:
		return l.scanString(start, next, 0)

	case ClassSingleQuote:
		return l.scanQuote(start, start.Offset, 0)

	case ClassLetter, ClassUnderscore:
		return l.scanWord(start)

	case ClassDigit:
		return l.scanNumber(start)

	case ClassAngleOpen:
		if l.opensGeneric(start.Offset) {
			tok := l.emit(GENERIC_OPEN, start, next, 0)
			l.st.push(frameGeneric, 0)
			return tok
		}

	case ClassAngleClose:
		if l.st.inGeneric() {
			tok := l.emit(GENERIC_CLOSE, start, next, 0)
			l.st.pop()
			return tok
		}

	case ClassOther, ClassBackslash:
		return l.scanUnrecognized(start)
	}

	return l.scanSymbol(start)
}

// emit builds the token for [start.Offset, end) and moves the cursor to end.
func (l *Lexer) emit(typ TokenType, start ScanState, end int, mods Mods) Token {
	l.st = l.sc.Advance(l.st, end)
	l.st.Mode = ModeNormal

	tok := Token{
		Type: typ,
		Raw:  l.sc.src[start.Offset:end],
		Span: Span{
			Filename: l.filename,
			Line:     start.Line,
			Column:   start.Column,
			Start:    start.Offset,
			End:      end,
		},
		Mods: mods,
	}
	if !typ.IsTrivia() && !typ.IsComment() {
		l.prev, l.hasPrev = tok, true
	}
	return tok
}

func (l *Lexer) eofToken() Token {
	return Token{
		Type: EOF,
		Span: Span{
			Filename: l.filename,
			Line:     l.st.Line,
			Column:   l.st.Column,
			Start:    l.st.Offset,
			End:      l.st.Offset,
		},
	}
}

// lineEnd returns the offset of the next line terminator at or after off,
// or the end of input.
func (s *Scanner) lineEnd(off int) int {
	if off >= s.limit {
		return s.limit
	}
	if i := strings.IndexAny(s.src[off:s.limit], "\r\n"); i >= 0 {
		return off + i
	}
	return s.limit
}

// isShebang reports a leading "#!" that is not the start of an inner
// attribute such as #![no_std].
func (l *Lexer) isShebang() bool {
	if !l.sc.hasPrefix(0, "#!") {
		return false
	}
	i := l.sc.scanWhile(2, func(r rune) bool { return r == ' ' || r == '\t' })
	return l.sc.byteAt(i) != '['
}

// scanComment handles "//" and "/*" forms. It reports false when the slash
// starts an operator instead.
func (l *Lexer) scanComment(start ScanState) (Token, bool) {
	s := l.sc
	off := start.Offset

	switch s.byteAt(off + 1) {
	case '/':
		l.st.Mode = ModeInLineComment
		typ := LINE_COMMENT
		switch {
		case s.byteAt(off+2) == '!':
			typ = DOC_COMMENT_MODULE
		case s.byteAt(off+2) == '/' && s.byteAt(off+3) != '/':
			// exactly three slashes; four or more is an ordinary comment
			typ = DOC_COMMENT_LINE
		}
		return l.emit(typ, start, s.lineEnd(off+2), 0), true

	case '*':
		return l.scanBlockComment(start), true
	}
	return Token{}, false
}

// scanBlockComment consumes a possibly nested /* */ comment.
func (l *Lexer) scanBlockComment(start ScanState) Token {
	s := l.sc
	off := start.Offset

	typ := BLOCK_COMMENT
	switch {
	case s.byteAt(off+2) == '!':
		typ = DOC_COMMENT_MODULE
	case s.byteAt(off+2) == '*' && s.byteAt(off+3) != '*' && s.byteAt(off+3) != '/':
		// "/**/" and "/***" are ordinary comments
		typ = DOC_COMMENT_BLOCK
	}

	l.st.Mode = ModeInBlockComment
	l.st.push(frameBlockComment, 1)

	// '/' and '*' are ASCII, so stepping bytewise never splits a rune we care about.
	i := off + 2
	for {
		f, _ := l.st.top()
		if f.n == 0 {
			break
		}
		if i >= s.limit {
			l.st.pop()
			tok := l.emit(UNTERMINATED_BLOCK_COMMENT, start, s.limit, 0)
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", tok.Span)
			return tok
		}
		switch {
		case s.src[i] == '/' && s.byteAt(i+1) == '*':
			l.st.setTop(f.n + 1)
			i += 2
		case s.src[i] == '*' && s.byteAt(i+1) == '/':
			l.st.setTop(f.n - 1)
			i += 2
		default:
			i++
		}
	}
	l.st.pop()
	return l.emit(typ, start, i, 0)
}

// scanWord reads identifiers, keywords and the prefixed literal forms that
// begin with a letter: b"..", b'..', br"..", c"..", cr"..", r"..", r#ident.
func (l *Lexer) scanWord(start ScanState) Token {
	s := l.sc
	off := start.Offset

	switch s.byteAt(off) {
	case 'b':
		switch s.byteAt(off + 1) {
		case '\'':
			return l.scanQuote(start, off+1, ModByte)
		case '"':
			return l.scanString(start, off+2, ModByte)
		case 'r':
			if s.rawStringAt(off + 2) {
				return l.scanRawString(start, off+2, ModByte)
			}
		}
	case 'c':
		switch s.byteAt(off + 1) {
		case '"':
			return l.scanString(start, off+2, ModCString)
		case 'r':
			if s.rawStringAt(off + 2) {
				return l.scanRawString(start, off+2, ModCString)
			}
		}
	case 'r':
		if s.rawStringAt(off + 1) {
			return l.scanRawString(start, off+1, 0)
		}
		if s.byteAt(off+1) == '#' && isLetter(s.PeekRune(off+2)) {
			return l.emit(IDENT, start, s.scanWhile(off+2, isIdentContinue), ModRaw)
		}
	}

	end := s.scanWhile(off, isIdentContinue)
	return l.emit(LookupIdent(s.src[off:end]), start, end, 0)
}

// rawStringAt reports whether off starts the `#*"` opener of a raw string.
func (s *Scanner) rawStringAt(off int) bool {
	i := off
	for s.byteAt(i) == '#' {
		i++
	}
	return s.byteAt(i) == '"'
}

// scanString consumes a quoted string whose body starts at body. Strings
// may span lines; only end of input leaves one unterminated.
func (l *Lexer) scanString(start ScanState, body int, mods Mods) Token {
	s := l.sc
	l.st.Mode = ModeInString

	i := body
	for i < s.limit {
		switch s.src[i] {
		case '\\':
			i++
			if i < s.limit {
				_, w := s.decode(i)
				i += w
			}
		case '"':
			return l.emit(STRING, start, i+1, mods)
		default:
			i++
		}
	}

	tok := l.emit(UNTERMINATED_STRING, start, s.limit, mods)
	l.addError(ErrUnterminatedString, "unterminated string literal", tok.Span)
	return tok
}

// scanRawString consumes r#"..."# where hashes points at the first '#' or
// the opening quote.
func (l *Lexer) scanRawString(start ScanState, hashes int, mods Mods) Token {
	s := l.sc
	n := 0
	for s.byteAt(hashes+n) == '#' {
		n++
	}
	body := hashes + n + 1

	l.st.Mode = ModeInRawString
	l.st.push(frameRawString, n)
	closing := `"` + strings.Repeat("#", n)
	idx := strings.Index(s.src[body:s.limit], closing)
	l.st.pop()

	if idx < 0 {
		tok := l.emit(UNTERMINATED_STRING, start, s.limit, mods|ModRaw)
		l.addError(ErrUnterminatedString, "unterminated raw string literal", tok.Span)
		return tok
	}
	return l.emit(STRING, start, body+idx+len(closing), mods|ModRaw)
}

// scanQuote decides between a lifetime and a character literal for the
// quote at quote. A lifetime is an identifier run that is not closed by
// another quote; one character or escape followed by a quote is a char.
func (l *Lexer) scanQuote(start ScanState, quote int, mods Mods) Token {
	s := l.sc
	l.st.Mode = ModeInCharOrLifetime

	i := quote + 1
	r := s.PeekRune(i)
	switch {
	case r == eof || r == '\n' || r == '\r':
		return l.unterminatedChar(start, i)

	case r == '\'':
		tok := l.emit(UNTERMINATED_STRING, start, i+1, 0)
		l.addError(ErrUnterminatedString, "empty character literal", tok.Span)
		return tok

	case r == '\\':
		j := s.skipEscape(i)
		if s.byteAt(j) == '\'' {
			return l.emit(CHAR, start, j+1, mods)
		}
		return l.unterminatedChar(start, j)

	case isLetter(r):
		j := s.scanWhile(i, isIdentContinue)
		if s.byteAt(j) == '\'' {
			// 'a', or leniently a malformed multi-char literal like 'ab'
			return l.emit(CHAR, start, j+1, mods)
		}
		if mods != 0 {
			return l.unterminatedChar(start, j)
		}
		var m Mods
		if name := s.src[i:j]; name == "static" || name == "_" {
			m = ModReserved
		}
		return l.emit(LIFETIME, start, j, m)
	}

	_, w := s.decode(i)
	if s.byteAt(i+w) == '\'' {
		return l.emit(CHAR, start, i+w+1, mods)
	}
	return l.unterminatedChar(start, i)
}

func (l *Lexer) unterminatedChar(start ScanState, end int) Token {
	tok := l.emit(UNTERMINATED_STRING, start, end, 0)
	l.addError(ErrUnterminatedString, "unterminated character literal", tok.Span)
	return tok
}

// skipEscape returns the offset just past the escape sequence at off.
func (s *Scanner) skipEscape(off int) int {
	j := off + 1
	switch s.PeekRune(j) {
	case eof:
		return j
	case 'x':
		j++
		for k := 0; k < 2 && isHexDigit(s.PeekRune(j)); k++ {
			j++
		}
		return j
	case 'u':
		j++
		if s.byteAt(j) == '{' {
			j = s.scanWhile(j+1, func(r rune) bool { return isHexDigit(r) || r == '_' })
			if s.byteAt(j) == '}' {
				j++
			}
		}
		return j
	}
	_, w := s.decode(j)
	return j + w
}

// scanNumber reads a number literal: decimal, 0x hex, 0o octal, 0b binary,
// floats with a fraction and/or exponent, '_' separators and type suffixes.
func (l *Lexer) scanNumber(start ScanState) Token {
	s := l.sc
	i := start.Offset

	if s.src[i] == '0' {
		switch s.byteAt(i + 1) {
		case 'x':
			i = s.scanWhile(i+2, func(r rune) bool { return isHexDigit(r) || r == '_' })
			return l.emit(INT, start, s.scanWhile(i, isIdentContinue), 0)
		case 'o', 'b':
			i = s.scanWhile(i+2, isDigitOrUnderscore)
			return l.emit(INT, start, s.scanWhile(i, isIdentContinue), 0)
		}
	}

	typ := INT
	i = s.scanWhile(i, isDigitOrUnderscore)

	// 1..2 is a range and 1.max(2) a method call; neither is a float.
	if s.byteAt(i) == '.' {
		if next := s.PeekRune(i + 1); next != '.' && !isLetter(next) {
			typ = FLOAT
			i = s.scanWhile(i+1, isDigitOrUnderscore)
		}
	}

	if c := s.byteAt(i); c == 'e' || c == 'E' {
		j := i + 1
		if p := s.byteAt(j); p == '+' || p == '-' {
			j++
		}
		j = s.scanWhile(j, func(r rune) bool { return r == '_' })
		if isDigit(s.PeekRune(j)) {
			typ = FLOAT
			i = s.scanWhile(j, isDigitOrUnderscore)
		}
	}

	if isLetter(s.PeekRune(i)) {
		end := s.scanWhile(i, isIdentContinue)
		if suffix := s.src[i:end]; suffix == "f32" || suffix == "f64" {
			typ = FLOAT
		}
		i = end
	}
	return l.emit(typ, start, i, 0)
}

func isDigitOrUnderscore(r rune) bool {
	return isDigit(r) || r == '_'
}

// opensGeneric decides whether the '<' at off opens a generic list.
func (l *Lexer) opensGeneric(off int) bool {
	switch l.sc.byteAt(off + 1) {
	case '=':
		return false
	case '<':
		// "<<" opens two lists only where a qualified path can start
		if l.sc.byteAt(off+2) == '=' || !qualifiedPathStart(l.prev, l.hasPrev, off) {
			return false
		}
	}
	if !genericCandidate(l.prev, l.hasPrev, off) {
		return false
	}
	return l.sc.closesGeneric(off + 1)
}

// scanSymbol emits the longest punctuation or operator at the cursor.
func (l *Lexer) scanSymbol(start ScanState) Token {
	text, typ, ok := matchSymbol(l.sc.src[start.Offset:l.sc.limit])
	if !ok {
		return l.scanUnrecognized(start)
	}
	tok := l.emit(typ, start, start.Offset+len(text), 0)
	switch text {
	case "(", "[":
		if l.st.GenericDepth() > 0 {
			l.st.push(frameBracket, 0)
		}
	case ")", "]":
		if f, ok := l.st.top(); ok && f.kind == frameBracket {
			l.st.pop()
		}
	case ";":
		if f, ok := l.st.top(); !ok || f.kind != frameBracket {
			l.st.abandonGenerics()
		}
	case "{", "}":
		l.st.abandonGenerics()
	}
	return tok
}

// scanUnrecognized groups a run of characters that no rule accepts into a
// single error token and resumes at the next recognisable character.
func (l *Lexer) scanUnrecognized(start ScanState) Token {
	s := l.sc
	_, w := s.decode(start.Offset)
	i := start.Offset + w
	for i < s.limit {
		r, w := s.decode(i)
		if c := classify(r, w); c != ClassOther && c != ClassBackslash {
			break
		}
		i += w
	}
	tok := l.emit(UNRECOGNIZED_CHAR, start, i, 0)
	l.addError(ErrUnrecognizedChar, "unrecognized character "+strconv.Quote(tok.Raw), tok.Span)
	return tok
}
