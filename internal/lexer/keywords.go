package lexer

// KeywordClass groups reserved words for consumers that style them apart.
type KeywordClass int

const (
	NotKeyword KeywordClass = iota
	KeywordControl
	KeywordDeclaration
	KeywordModifier
	KeywordConstant
	KeywordSelf
	KeywordReserved // reserved for future use, never valid today
)

func (c KeywordClass) String() string {
	switch c {
	case KeywordControl:
		return "control"
	case KeywordDeclaration:
		return "declaration"
	case KeywordModifier:
		return "modifier"
	case KeywordConstant:
		return "constant"
	case KeywordSelf:
		return "self"
	case KeywordReserved:
		return "reserved"
	default:
		return "none"
	}
}

// keywords is read concurrently by every Lexer and must never be written.
var keywords = map[string]KeywordClass{
	"if":       KeywordControl,
	"else":     KeywordControl,
	"for":      KeywordControl,
	"in":       KeywordControl,
	"while":    KeywordControl,
	"loop":     KeywordControl,
	"break":    KeywordControl,
	"continue": KeywordControl,
	"return":   KeywordControl,
	"match":    KeywordControl,
	"await":    KeywordControl,
	"yield":    KeywordReserved,

	"fn":     KeywordDeclaration,
	"let":    KeywordDeclaration,
	"const":  KeywordDeclaration,
	"static": KeywordDeclaration,
	"struct": KeywordDeclaration,
	"enum":   KeywordDeclaration,
	"union":  KeywordDeclaration,
	"trait":  KeywordDeclaration,
	"impl":   KeywordDeclaration,
	"type":   KeywordDeclaration,
	"mod":    KeywordDeclaration,
	"use":    KeywordDeclaration,
	"extern": KeywordDeclaration,
	"macro":  KeywordReserved,

	"mut":    KeywordModifier,
	"pub":    KeywordModifier,
	"ref":    KeywordModifier,
	"move":   KeywordModifier,
	"async":  KeywordModifier,
	"unsafe": KeywordModifier,
	"dyn":    KeywordModifier,
	"where":  KeywordModifier,
	"as":     KeywordModifier,
	"crate":  KeywordModifier,
	"super":  KeywordModifier,

	"true":  KeywordConstant,
	"false": KeywordConstant,

	"self": KeywordSelf,
	"Self": KeywordSelf,

	"abstract": KeywordReserved,
	"become":   KeywordReserved,
	"box":      KeywordReserved,
	"do":       KeywordReserved,
	"final":    KeywordReserved,
	"override": KeywordReserved,
	"priv":     KeywordReserved,
	"try":      KeywordReserved,
	"typeof":   KeywordReserved,
	"unsized":  KeywordReserved,
	"virtual":  KeywordReserved,
}

// LookupIdent returns KEYWORD for any word in the reserved-word table and
// IDENT otherwise. Raw identifiers never reach it.
func LookupIdent(ident string) TokenType {
	if _, ok := keywords[ident]; ok {
		return KEYWORD
	}
	return IDENT
}

// KeywordClassOf returns the class of a reserved word, or NotKeyword.
func KeywordClassOf(word string) KeywordClass {
	return keywords[word]
}

// Keywords returns a copy of the reserved-word table.
func Keywords() map[string]KeywordClass {
	out := make(map[string]KeywordClass, len(keywords))
	for k, v := range keywords {
		out[k] = v
	}
	return out
}
