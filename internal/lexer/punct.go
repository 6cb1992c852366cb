package lexer

// symbols maps every punctuation and operator spelling to its token type.
// Lookups are longest-match first; the table is immutable after init.
var symbols = map[string]TokenType{
	"<<=": OPERATOR,
	">>=": OPERATOR,
	"...": OPERATOR,
	"..=": OPERATOR,

	"::": PUNCT,
	"->": PUNCT,
	"=>": PUNCT,
	"==": OPERATOR,
	"!=": OPERATOR,
	"<=": OPERATOR,
	">=": OPERATOR,
	"&&": OPERATOR,
	"||": OPERATOR,
	"+=": OPERATOR,
	"-=": OPERATOR,
	"*=": OPERATOR,
	"/=": OPERATOR,
	"%=": OPERATOR,
	"^=": OPERATOR,
	"&=": OPERATOR,
	"|=": OPERATOR,
	"<<": OPERATOR,
	">>": OPERATOR,
	"..": OPERATOR,

	"+": OPERATOR,
	"-": OPERATOR,
	"*": OPERATOR,
	"/": OPERATOR,
	"%": OPERATOR,
	"^": OPERATOR,
	"!": OPERATOR,
	"&": OPERATOR,
	"|": OPERATOR,
	"=": OPERATOR,
	"<": OPERATOR,
	">": OPERATOR,
	"?": OPERATOR,
	"@": PUNCT,
	".": PUNCT,
	",": PUNCT,
	";": PUNCT,
	":": PUNCT,
	"#": PUNCT,
	"$": PUNCT,
	"~": PUNCT,
	"(": PUNCT,
	")": PUNCT,
	"[": PUNCT,
	"]": PUNCT,
	"{": PUNCT,
	"}": PUNCT,
}

const maxSymbolLen = 3

// matchSymbol returns the longest table entry that prefixes s.
func matchSymbol(s string) (string, TokenType, bool) {
	for n := min(maxSymbolLen, len(s)); n > 0; n-- {
		if typ, ok := symbols[s[:n]]; ok {
			return s[:n], typ, true
		}
	}
	return "", "", false
}

// isSymbolStart reports whether b can begin a table entry.
func isSymbolStart(b byte) bool {
	_, ok := symbols[string(b)]
	return ok
}
