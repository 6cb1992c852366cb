package fixture

import (
	"context"
	"fmt"
	"runtime"

	"github.com/d4l3k/messagediff"
	"golang.org/x/sync/errgroup"

	"github.com/malphas-lang/rustlex/internal/diag"
	"github.com/malphas-lang/rustlex/internal/lexer"
)

// Result is the outcome of checking one fixture.
type Result struct {
	Fixture  Fixture
	Tokens   []lexer.Token
	Failures []diag.Diagnostic
	// LexErrors are malformed spans in the fixture itself. They are
	// reported but do not fail the check; error fixtures are legitimate.
	LexErrors []lexer.LexerError
}

// Passed reports whether no check failed.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Result) fail(code diag.Code, span lexer.Span, format string, args ...any) *diag.Diagnostic {
	r.Failures = append(r.Failures, diag.Diagnostic{
		Stage:    diag.StageFixture,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     toDiagSpan(span),
	})
	return &r.Failures[len(r.Failures)-1]
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Check tokenizes f, verifies the lexer's structural guarantees on the
// result and compares the significant tokens with f.Expected when present.
func Check(f Fixture) Result {
	l := lexer.New(f.Source, lexer.WithFilename(f.Path))
	var toks []lexer.Token
	for tok := range l.Tokens() {
		toks = append(toks, tok)
	}
	res := Result{Fixture: f, Tokens: toks, LexErrors: l.Errors}
	fileSpan := lexer.Span{Filename: f.Path}

	// Coverage: the tokens partition the input with no gaps or overlaps.
	pos := 0
	for _, tok := range toks {
		if tok.Span.Start != pos {
			res.fail(diag.CodeFixtureCoverage, tok.Span,
				"token %s starts at byte %d, expected %d", tok.Type, tok.Span.Start, pos)
			break
		}
		pos = tok.Span.End
	}
	if pos != len(f.Source) && res.Passed() {
		res.fail(diag.CodeFixtureCoverage, fileSpan,
			"tokens cover %d of %d bytes", pos, len(f.Source))
	}
	if got := lexer.Reconstruct(toks); got != f.Source && res.Passed() {
		res.fail(diag.CodeFixtureCoverage, fileSpan, "concatenated tokens differ from the source")
	}

	for _, tok := range toks {
		if tok.Raw == "" {
			res.fail(diag.CodeFixtureEmptyToken, tok.Span, "empty %s token", tok.Type)
		}
		if tok.Span.Line < 1 || tok.Span.Column < 1 {
			res.fail(diag.CodeFixtureBadPosition, tok.Span,
				"token %s has position %d:%d", tok.Type, tok.Span.Line, tok.Span.Column)
		}
	}

	// Determinism: a second scan produces the same stream.
	if again := lexer.Tokenize(f.Source, lexer.WithFilename(f.Path)); len(again) != len(toks) {
		res.fail(diag.CodeFixtureDeterminism, fileSpan,
			"second scan produced %d tokens, first produced %d", len(again), len(toks))
	} else {
		for i := range toks {
			if again[i] != toks[i] {
				res.fail(diag.CodeFixtureDeterminism, toks[i].Span, "second scan differs at token %d", i)
				break
			}
		}
	}

	if f.Expected == nil {
		return res
	}

	for i, e := range f.Expected.Tokens {
		if !e.Type.Valid() {
			res.fail(diag.CodeFixtureUnknownToken, fileSpan,
				"%s: entry %d has unknown token type %q", f.ExpectationPath(), i, e.Type)
		}
	}

	got := Entries(toks)
	if diff, equal := messagediff.PrettyDiff(f.Expected.Tokens, got); !equal {
		at, last, matched := firstMismatch(f.Expected.Tokens, got, toks, fileSpan)
		d := res.fail(diag.CodeFixtureMismatch, at, "tokens differ from %s", f.ExpectationPath())
		if at.Line > 0 {
			*d = d.WithPrimarySpan(d.Span, "first differing token")
			if matched {
				*d = d.WithSecondarySpan(toDiagSpan(last), "last token matching the expectation")
			}
		}
		*d = d.WithNote(diff).
			WithHelp("re-run with `rustlex record` if the new output is correct")
	}
	return res
}

// firstMismatch locates the first significant token that differs from the
// expectation, and the last one before it that still matched.
func firstMismatch(want, got []Entry, toks []lexer.Token, fallback lexer.Span) (at, last lexer.Span, matched bool) {
	n := 0
	for _, tok := range toks {
		if tok.Type.IsTrivia() {
			continue
		}
		if n >= len(want) || want[n] != got[n] {
			return tok.Span, last, matched
		}
		last, matched = tok.Span, true
		n++
	}
	return fallback, last, matched
}

// Run checks fixtures concurrently with at most jobs workers (GOMAXPROCS
// when jobs < 1). Results keep the order of fixtures.
func Run(ctx context.Context, fixtures []Fixture, jobs int) ([]Result, error) {
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(fixtures))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range fixtures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Check(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
