package lexer

import (
	"testing"
)

type tokenCase struct {
	expectedType    TokenType
	expectedLiteral string
}

// checkTokens scans input without trivia and compares every token up to
// and including EOF.
func checkTokens(t *testing.T, input string, tests []tokenCase) {
	t.Helper()
	l := New(input, WithWhitespace(false))

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)",
				i, tt.expectedType, tok.Type, tok.Raw)
		}

		if tok.Raw != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Raw)
		}
	}
}

func TestNextToken_Basic(t *testing.T) {
	checkTokens(t, `let x = 10;`, []tokenCase{
		{KEYWORD, "let"},
		{IDENT, "x"},
		{OPERATOR, "="},
		{INT, "10"},
		{PUNCT, ";"},
		{EOF, ""},
	})
}

func TestTriviaEmitsSingleSpaceWhitespace(t *testing.T) {
	input := `let x = 10;`

	expected := []TokenType{
		KEYWORD,
		WHITESPACE,
		IDENT,
		WHITESPACE,
		OPERATOR,
		WHITESPACE,
		INT,
		PUNCT,
		EOF,
	}

	l := New(input)

	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
	}
}

func TestNextToken_EOFRepeats(t *testing.T) {
	l := New("x")
	l.NextToken()
	for i := range 3 {
		if tok := l.NextToken(); tok.Type != EOF {
			t.Fatalf("call %d after end: expected EOF, got %q", i, tok.Type)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	checkTokens(t, `+ - * / % ^ ! & | = == != <= >= && || += -= *= /= %= ^= &= |= <<= >>= << .. ... ..= ?`, []tokenCase{
		{OPERATOR, "+"},
		{OPERATOR, "-"},
		{OPERATOR, "*"},
		{OPERATOR, "/"},
		{OPERATOR, "%"},
		{OPERATOR, "^"},
		{OPERATOR, "!"},
		{OPERATOR, "&"},
		{OPERATOR, "|"},
		{OPERATOR, "="},
		{OPERATOR, "=="},
		{OPERATOR, "!="},
		{OPERATOR, "<="},
		{OPERATOR, ">="},
		{OPERATOR, "&&"},
		{OPERATOR, "||"},
		{OPERATOR, "+="},
		{OPERATOR, "-="},
		{OPERATOR, "*="},
		{OPERATOR, "/="},
		{OPERATOR, "%="},
		{OPERATOR, "^="},
		{OPERATOR, "&="},
		{OPERATOR, "|="},
		{OPERATOR, "<<="},
		{OPERATOR, ">>="},
		{OPERATOR, "<<"},
		{OPERATOR, ".."},
		{OPERATOR, "..."},
		{OPERATOR, "..="},
		{OPERATOR, "?"},
		{EOF, ""},
	})
}

func TestNextToken_Keywords(t *testing.T) {
	input := `as async await break const continue crate dyn else enum extern false fn for if impl in let loop match mod move mut pub ref return self Self static struct super trait true type unsafe use where while`

	l := New(input, WithWhitespace(false))
	n := 0
	for tok := range l.Tokens() {
		if tok.Type != KEYWORD {
			t.Fatalf("expected KEYWORD for %q, got %q", tok.Raw, tok.Type)
		}
		if KeywordClassOf(tok.Raw) == NotKeyword {
			t.Fatalf("%q has no keyword class", tok.Raw)
		}
		n++
	}
	if n != 38 {
		t.Fatalf("expected 38 keywords, got %d", n)
	}
}

func TestNextToken_KeywordClasses(t *testing.T) {
	tests := []struct {
		word string
		want KeywordClass
	}{
		{"if", KeywordControl},
		{"await", KeywordControl},
		{"fn", KeywordDeclaration},
		{"static", KeywordDeclaration},
		{"pub", KeywordModifier},
		{"async", KeywordModifier},
		{"true", KeywordConstant},
		{"self", KeywordSelf},
		{"Self", KeywordSelf},
		{"abstract", KeywordReserved},
		{"yield", KeywordReserved},
		{"main", NotKeyword},
		{"If", NotKeyword},
	}

	for _, tt := range tests {
		if got := KeywordClassOf(tt.word); got != tt.want {
			t.Fatalf("%q: expected class %s, got %s", tt.word, tt.want, got)
		}
		wantType := IDENT
		if tt.want != NotKeyword {
			wantType = KEYWORD
		}
		if got := LookupIdent(tt.word); got != wantType {
			t.Fatalf("%q: expected %s, got %s", tt.word, wantType, got)
		}
	}

	kw := Keywords()
	kw["main"] = KeywordControl
	if KeywordClassOf("main") != NotKeyword {
		t.Fatalf("Keywords must return a copy")
	}
}

func TestNextToken_Punctuation(t *testing.T) {
	checkTokens(t, `:: -> => @ . , ; : # $ ~ ( ) [ ] { }`, []tokenCase{
		{PUNCT, "::"},
		{PUNCT, "->"},
		{PUNCT, "=>"},
		{PUNCT, "@"},
		{PUNCT, "."},
		{PUNCT, ","},
		{PUNCT, ";"},
		{PUNCT, ":"},
		{PUNCT, "#"},
		{PUNCT, "$"},
		{PUNCT, "~"},
		{PUNCT, "("},
		{PUNCT, ")"},
		{PUNCT, "["},
		{PUNCT, "]"},
		{PUNCT, "{"},
		{PUNCT, "}"},
		{EOF, ""},
	})
}

func TestNextToken_Identifiers(t *testing.T) {
	checkTokens(t, `foo _bar baz_1 _ r#type r#fn2 letter`, []tokenCase{
		{IDENT, "foo"},
		{IDENT, "_bar"},
		{IDENT, "baz_1"},
		{IDENT, "_"},
		{IDENT, "r#type"},
		{IDENT, "r#fn2"},
		{IDENT, "letter"},
		{EOF, ""},
	})
}

func TestNextToken_UnicodeIdentifiers(t *testing.T) {
	checkTokens(t, `café 変数 Δx naïve`, []tokenCase{
		{IDENT, "café"},
		{IDENT, "変数"},
		{IDENT, "Δx"},
		{IDENT, "naïve"},
		{EOF, ""},
	})
}

func TestNextToken_UnicodeDigitsAreUnrecognized(t *testing.T) {
	input := "٢٣"

	l := New(input)

	tok := l.NextToken()
	if tok.Type != UNRECOGNIZED_CHAR {
		t.Fatalf("expected UNRECOGNIZED_CHAR token for unicode digits, got %q", tok.Type)
	}
	if tok.Raw != "٢٣" {
		t.Fatalf("expected both digits in one token, got %q", tok.Raw)
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected lexer to record one error for unicode digits, got %d", len(l.Errors))
	}
	if l.Errors[0].Kind != ErrUnrecognizedChar {
		t.Fatalf("expected ErrUnrecognizedChar, got %v", l.Errors[0].Kind)
	}
}

func TestNextToken_Integers(t *testing.T) {
	checkTokens(t, `0 42 123 0xFF 0b1010 0o777 1_000 255u8 0x1f_i64 1usize`, []tokenCase{
		{INT, "0"},
		{INT, "42"},
		{INT, "123"},
		{INT, "0xFF"},
		{INT, "0b1010"},
		{INT, "0o777"},
		{INT, "1_000"},
		{INT, "255u8"},
		{INT, "0x1f_i64"},
		{INT, "1usize"},
		{EOF, ""},
	})
}

func TestNextToken_Floats(t *testing.T) {
	checkTokens(t, `3.14 0.5 1e10 2.5E-3 1_000.000_1 7f32 1e+9f64 2.`, []tokenCase{
		{FLOAT, "3.14"},
		{FLOAT, "0.5"},
		{FLOAT, "1e10"},
		{FLOAT, "2.5E-3"},
		{FLOAT, "1_000.000_1"},
		{FLOAT, "7f32"},
		{FLOAT, "1e+9f64"},
		{FLOAT, "2."},
		{EOF, ""},
	})
}

func TestNextToken_FloatVsDot(t *testing.T) {
	checkTokens(t, `1..2 1.max(2) 0..=9 t.0`, []tokenCase{
		{INT, "1"},
		{OPERATOR, ".."},
		{INT, "2"},
		{INT, "1"},
		{PUNCT, "."},
		{IDENT, "max"},
		{PUNCT, "("},
		{INT, "2"},
		{PUNCT, ")"},
		{INT, "0"},
		{OPERATOR, "..="},
		{INT, "9"},
		{IDENT, "t"},
		{PUNCT, "."},
		{INT, "0"},
		{EOF, ""},
	})
}

func TestNextToken_EOFEdges(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a;",
		"123",
		"let x=1",
		"let x=1  ",
		"x // c",
		"'a",
		"r#x",
	}

	for _, input := range inputs {
		l := New(input)
		for {
			tok := l.NextToken()
			if tok.Type == EOF {
				if tok.Span.Start != len(input) {
					t.Fatalf("EOF for %q at %d, expected %d", input, tok.Span.Start, len(input))
				}
				break
			}
			if tok.Type.IsError() {
				t.Fatalf("unexpected error token for input %q: %q", input, tok.Raw)
			}
		}
	}
}

func TestNextToken_LineComments(t *testing.T) {
	input := `let x = 10; // this is a comment
let y = 20;`

	checkTokens(t, input, []tokenCase{
		{KEYWORD, "let"},
		{IDENT, "x"},
		{OPERATOR, "="},
		{INT, "10"},
		{PUNCT, ";"},
		{LINE_COMMENT, "// this is a comment"},
		{KEYWORD, "let"},
		{IDENT, "y"},
		{OPERATOR, "="},
		{INT, "20"},
		{PUNCT, ";"},
		{EOF, ""},
	})
}

func TestNextToken_CommentKinds(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"// plain", LINE_COMMENT},
		{"/// doc", DOC_COMMENT_LINE},
		{"///", DOC_COMMENT_LINE},
		{"//// banner", LINE_COMMENT},
		{"//! inner doc", DOC_COMMENT_MODULE},
		{"/* block */", BLOCK_COMMENT},
		{"/** doc */", DOC_COMMENT_BLOCK},
		{"/**/", BLOCK_COMMENT},
		{"/*** banner */", BLOCK_COMMENT},
		{"/*! inner doc */", DOC_COMMENT_MODULE},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("%q: expected %s, got %s", tt.input, tt.typ, tok.Type)
		}
		if tok.Raw != tt.input {
			t.Fatalf("%q: expected the whole comment, got %q", tt.input, tok.Raw)
		}
		if !tok.Type.IsComment() {
			t.Fatalf("%q: %s should be a comment", tt.input, tok.Type)
		}
	}
}

func TestTrivia_LineCommentWithCRLF(t *testing.T) {
	input := "// c\r\nx"

	l := New(input)
	comment := l.NextToken()
	if comment.Type != LINE_COMMENT || comment.Raw != "// c" {
		t.Fatalf("expected LINE_COMMENT without the line break, got %s %q", comment.Type, comment.Raw)
	}
	nl := l.NextToken()
	if nl.Type != NEWLINE || nl.Raw != "\r\n" {
		t.Fatalf("expected CRLF NEWLINE, got %s %q", nl.Type, nl.Raw)
	}
	x := l.NextToken()
	if x.Span.Line != 2 || x.Span.Column != 1 {
		t.Fatalf("expected x at 2:1, got %s", x.Span)
	}
}

func TestNextToken_BlockCommentNested(t *testing.T) {
	input := "/* outer /* inner */ still outer */ x"

	checkTokens(t, input, []tokenCase{
		{BLOCK_COMMENT, "/* outer /* inner */ still outer */"},
		{IDENT, "x"},
		{EOF, ""},
	})
}

func TestNextToken_BlockCommentMultiline(t *testing.T) {
	input := "/* line one\n   line two */\nfn"

	l := New(input, WithWhitespace(false))
	comment := l.NextToken()
	if comment.Type != BLOCK_COMMENT {
		t.Fatalf("expected BLOCK_COMMENT, got %q", comment.Type)
	}
	fn := l.NextToken()
	if fn.Type != KEYWORD || fn.Span.Line != 3 {
		t.Fatalf("expected fn on line 3, got %s on line %d", fn.Type, fn.Span.Line)
	}
}

func TestNextToken_DivisionVsComment(t *testing.T) {
	checkTokens(t, `a / b /= c // d`, []tokenCase{
		{IDENT, "a"},
		{OPERATOR, "/"},
		{IDENT, "b"},
		{OPERATOR, "/="},
		{IDENT, "c"},
		{LINE_COMMENT, "// d"},
		{EOF, ""},
	})
}

func TestNextToken_Shebang(t *testing.T) {
	checkTokens(t, "#!/usr/bin/env rust-script\nfn", []tokenCase{
		{SHEBANG, "#!/usr/bin/env rust-script"},
		{KEYWORD, "fn"},
		{EOF, ""},
	})

	// an inner attribute is not a shebang
	checkTokens(t, "#![no_std]", []tokenCase{
		{PUNCT, "#"},
		{OPERATOR, "!"},
		{PUNCT, "["},
		{IDENT, "no_std"},
		{PUNCT, "]"},
		{EOF, ""},
	})

	// only at the very start of input
	checkTokens(t, " #!x", []tokenCase{
		{PUNCT, "#"},
		{OPERATOR, "!"},
		{IDENT, "x"},
		{EOF, ""},
	})
}

func TestNextToken_StringLiterals(t *testing.T) {
	checkTokens(t, `"hello" "" "a\"b" "tab\t" b"bytes" c"cstr" "multi
line"`, []tokenCase{
		{STRING, `"hello"`},
		{STRING, `""`},
		{STRING, `"a\"b"`},
		{STRING, `"tab\t"`},
		{STRING, `b"bytes"`},
		{STRING, `c"cstr"`},
		{STRING, "\"multi\nline\""},
		{EOF, ""},
	})
}

func TestNextToken_RawStrings(t *testing.T) {
	checkTokens(t, `r"C:\path" r#"say "hi""# r##"a "# b"## br"x" cr#"y"#`, []tokenCase{
		{STRING, `r"C:\path"`},
		{STRING, `r#"say "hi""#`},
		{STRING, `r##"a "# b"##`},
		{STRING, `br"x"`},
		{STRING, `cr#"y"#`},
		{EOF, ""},
	})
}

func TestNextToken_StringPrefixesAreIdentifiers(t *testing.T) {
	checkTokens(t, `b c r br cr bx`, []tokenCase{
		{IDENT, "b"},
		{IDENT, "c"},
		{IDENT, "r"},
		{IDENT, "br"},
		{IDENT, "cr"},
		{IDENT, "bx"},
		{EOF, ""},
	})
}

func TestNextToken_StringInExpression(t *testing.T) {
	checkTokens(t, `println!("{}", x);`, []tokenCase{
		{IDENT, "println"},
		{OPERATOR, "!"},
		{PUNCT, "("},
		{STRING, `"{}"`},
		{PUNCT, ","},
		{IDENT, "x"},
		{PUNCT, ")"},
		{PUNCT, ";"},
		{EOF, ""},
	})
}

func TestNextToken_MixedLiterals(t *testing.T) {
	checkTokens(t, `let v = [1, 2.5, 'c', "s", b'\n', true];`, []tokenCase{
		{KEYWORD, "let"},
		{IDENT, "v"},
		{OPERATOR, "="},
		{PUNCT, "["},
		{INT, "1"},
		{PUNCT, ","},
		{FLOAT, "2.5"},
		{PUNCT, ","},
		{CHAR, "'c'"},
		{PUNCT, ","},
		{STRING, `"s"`},
		{PUNCT, ","},
		{CHAR, `b'\n'`},
		{PUNCT, ","},
		{KEYWORD, "true"},
		{PUNCT, "]"},
		{PUNCT, ";"},
		{EOF, ""},
	})
}
