package lexer

import (
	"github.com/malphas-lang/rustlex/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedBlockComment
	ErrUnrecognizedChar
)

func (k LexerErrorKind) String() string {
	switch k {
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedBlockComment:
		return "unterminated block comment"
	case ErrUnrecognizedChar:
		return "unrecognized character"
	default:
		return "unknown"
	}
}

// LexerError records one malformed span. The matching error token is
// emitted in the stream as well; errors never stop the scan.
type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (e LexerError) Error() string {
	return e.Span.String() + ": " + e.Message
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrUnrecognizedChar:
		return diag.CodeLexerUnrecognizedChar
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
	switch e.Kind {
	case ErrUnterminatedBlockComment:
		d = d.WithPrimarySpan(d.Span, "comment opened here").
			WithHelp("block comments nest; every `/*` needs its own `*/`")
	case ErrUnterminatedString:
		d = d.WithPrimarySpan(d.Span, "literal starts here")
	}
	return d
}

func toDiagSpan(s Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}
