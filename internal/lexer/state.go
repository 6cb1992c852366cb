package lexer

// Mode is the lexical mode of the state machine while a token is being
// scanned. Every token starts and ends in ModeNormal.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInLineComment
	ModeInBlockComment
	ModeInString
	ModeInRawString
	ModeInCharOrLifetime
)

func (m Mode) String() string {
	switch m {
	case ModeInLineComment:
		return "line-comment"
	case ModeInBlockComment:
		return "block-comment"
	case ModeInString:
		return "string"
	case ModeInRawString:
		return "raw-string"
	case ModeInCharOrLifetime:
		return "char-or-lifetime"
	default:
		return "normal"
	}
}

type frameKind int

const (
	frameGeneric      frameKind = iota // an open generic argument list
	frameBlockComment                  // n is the nesting depth
	frameRawString                     // n is the number of '#' delimiters
	frameBracket                       // a '(' or '[' inside a generic list
)

type frame struct {
	kind frameKind
	n    int
}

// ScanState is the cursor plus the context stack of one scan. It is owned
// by a single Lexer and never shared across goroutines.
type ScanState struct {
	Offset int // byte offset of the next unread rune
	Line   int // 1-based
	Column int // 1-based, in runes
	Mode   Mode

	frames []frame
}

func (st *ScanState) push(kind frameKind, n int) {
	st.frames = append(st.frames, frame{kind: kind, n: n})
}

func (st *ScanState) top() (frame, bool) {
	if len(st.frames) == 0 {
		return frame{}, false
	}
	return st.frames[len(st.frames)-1], true
}

// setTop replaces the counter of the innermost frame.
func (st *ScanState) setTop(n int) {
	st.frames[len(st.frames)-1].n = n
}

func (st *ScanState) pop() {
	st.frames = st.frames[:len(st.frames)-1]
}

// GenericDepth returns the number of generic lists currently open.
func (st ScanState) GenericDepth() int {
	n := 0
	for _, f := range st.frames {
		if f.kind == frameGeneric {
			n++
		}
	}
	return n
}

// inGeneric reports whether the innermost frame is an open generic list.
func (st *ScanState) inGeneric() bool {
	f, ok := st.top()
	return ok && f.kind == frameGeneric
}

// abandonGenerics drops every open generic list and the brackets nested in
// them. Called at block boundaries and at a ';' outside brackets.
func (st *ScanState) abandonGenerics() {
	kept := st.frames[:0]
	for _, f := range st.frames {
		if f.kind != frameGeneric && f.kind != frameBracket {
			kept = append(kept, f)
		}
	}
	st.frames = kept
}

func (st ScanState) clone() ScanState {
	st.frames = append([]frame(nil), st.frames...)
	return st
}

// maxGenericLookahead bounds the bytes inspected when confirming that a '<'
// has a matching '>'; it keeps pathological inputs linear.
const maxGenericLookahead = 4096

// genericCandidate reports whether a '<' at off sits in a position where a
// generic list may open. prev is the last significant token.
func genericCandidate(prev Token, hasPrev bool, off int) bool {
	if !hasPrev {
		// nothing to compare against: a qualified path like <T as Trait>::f
		return true
	}
	adjacent := prev.Span.End == off
	switch prev.Type {
	case IDENT:
		return adjacent
	case KEYWORD:
		switch prev.Raw {
		case "impl", "for":
			return true
		case "Self", "self", "crate", "super":
			return adjacent
		}
		return !endsOperand(prev)
	case GENERIC_OPEN:
		return true
	}
	return !endsOperand(prev)
}

// qualifiedPathStart reports whether a '<' at off may begin a qualified
// path such as <T as Trait>::Out, which is where "<<" opens two lists.
func qualifiedPathStart(prev Token, hasPrev bool, off int) bool {
	if !hasPrev {
		return true
	}
	switch prev.Type {
	case GENERIC_OPEN:
		return true
	case IDENT:
		return prev.Span.End == off
	case KEYWORD:
		return prev.Raw == "Self" && prev.Span.End == off
	}
	return prev.Raw == "::"
}

// endsOperand reports whether tok can end an expression operand, in which
// case a following '<' may be a binary comparison.
func endsOperand(tok Token) bool {
	switch tok.Type {
	case IDENT, INT, FLOAT, STRING, CHAR, LIFETIME, GENERIC_CLOSE:
		return true
	case KEYWORD:
		switch tok.Raw {
		case "true", "false", "self", "Self":
			return true
		}
		return false
	case PUNCT, OPERATOR:
		switch tok.Raw {
		case ")", "]", "?":
			return true
		}
	}
	return false
}

// closesGeneric scans ahead from off, the byte after a '<', for a '>' that
// balances it. It gives up at anything a generic list cannot contain.
func (s *Scanner) closesGeneric(off int) bool {
	depth, nest := 1, 0
	end := min(s.limit, off+maxGenericLookahead)
	for i := off; i < end; i++ {
		switch c := s.src[i]; c {
		case '<':
			depth++
		case '>':
			if p := s.byteAt(i - 1); i > off && (p == '-' || p == '=') {
				continue
			}
			depth--
			if depth == 0 {
				return true
			}
		case '(', '[':
			nest++
		case ')', ']':
			nest--
			if nest < 0 {
				return false
			}
		case ';':
			if nest == 0 {
				return false
			}
		case '{', '}', '"':
			return false
		case '&', '|':
			if s.byteAt(i+1) == c {
				return false
			}
		case '=':
			if s.byteAt(i+1) == '=' {
				return false
			}
		case '/':
			if n := s.byteAt(i + 1); n == '/' || n == '*' {
				return false
			}
		}
	}
	return false
}
