package lexer

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Option func(*options)

type options struct {
	filename       string
	emitWhitespace bool
	hasRange       bool
	start, end     int
}

// WithFilename attributes every emitted span to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithWhitespace controls whether WHITESPACE and NEWLINE tokens are
// emitted. The default is true, which keeps the token stream a complete
// partition of the input.
func WithWhitespace(emit bool) Option {
	return func(o *options) {
		o.emitWhitespace = emit
	}
}

// WithRange restricts scanning to input[start:end]. Offsets, lines and
// columns in the emitted spans stay relative to the whole input. A start
// inside a multi-byte rune is rounded up to the next rune boundary.
func WithRange(start, end int) Option {
	return func(o *options) {
		o.hasRange = true
		o.start, o.end = start, end
	}
}

// New creates a new lexer for the given input
func New(input string, opts ...Option) *Lexer {
	cfg := options{emitWhitespace: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newLexer(input, cfg)
}

// Tokens yields the remaining tokens of l, stopping before EOF.
func (l *Lexer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := l.NextToken()
			if tok.Type == EOF || !yield(tok) {
				return
			}
		}
	}
}

// All returns a lazy token sequence over input. Each range over the result
// starts a fresh scan, so the sequence can be consumed any number of times
// with identical output.
func All(input string, opts ...Option) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for tok := range New(input, opts...).Tokens() {
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokenize returns every token of input, excluding the final EOF.
func Tokenize(input string, opts ...Option) []Token {
	return slices.Collect(All(input, opts...))
}

// TokenizeContext is Tokenize with cancellation checked between tokens.
// On cancellation the tokens emitted so far are returned with ctx.Err().
func TokenizeContext(ctx context.Context, input string, opts ...Option) ([]Token, error) {
	l := New(input, opts...)
	var toks []Token
	for {
		if err := ctx.Err(); err != nil {
			return toks, err
		}
		tok := l.NextToken()
		if tok.Type == EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// Source is one named buffer for TokenizeMany.
type Source struct {
	Name string
	Text string
}

// TokenizeMany scans independent buffers in parallel. Results are in the
// order of sources; each buffer gets its own Lexer, so nothing is shared
// beyond the read-only keyword and symbol tables.
func TokenizeMany(ctx context.Context, sources []Source, opts ...Option) ([][]Token, error) {
	out := make([][]Token, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			toks, err := TokenizeContext(ctx, src.Text, append(slices.Clip(opts), WithFilename(src.Name))...)
			if err != nil {
				return fmt.Errorf("tokenize %s: %w", src.Name, err)
			}
			out[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reconstruct concatenates the raw text of toks. For a whitespace-preserving
// scan the result equals the scanned input.
func Reconstruct(toks []Token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Raw)
	}
	return b.String()
}
