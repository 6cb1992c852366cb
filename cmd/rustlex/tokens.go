package main

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/malphas-lang/rustlex/internal/diag"
	"github.com/malphas-lang/rustlex/internal/fixture"
	"github.com/malphas-lang/rustlex/internal/lexer"
)

var errLexical = errors.New("source has lexical errors")

type tokensCommand struct {
	File         string `arg:"" type:"existingfile" predictor:"rust" help:"Source file to tokenize"`
	NoWhitespace bool   `help:"Omit WHITESPACE and NEWLINE tokens"`
	Format       string `enum:"text,yaml" default:"text" help:"Output format (${enum})"`
}

func (c *tokensCommand) Run(s *streams) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	src, err := fixture.DecodeSource(raw)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", c.File, err)
	}

	l := lexer.New(src, lexer.WithFilename(c.File), lexer.WithWhitespace(!c.NoWhitespace))
	var toks []lexer.Token
	for tok := range l.Tokens() {
		toks = append(toks, tok)
	}

	switch c.Format {
	case "yaml":
		data, err := yaml.Marshal(fixture.Expectation{Language: "rust", Tokens: fixture.Entries(toks)})
		if err != nil {
			return err
		}
		if _, err := s.out.Write(data); err != nil {
			return err
		}
	default:
		for _, tok := range toks {
			fmt.Fprintf(s.out, "%d:%d\t%s\t%q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Raw)
		}
	}

	if len(l.Errors) == 0 {
		return nil
	}
	f := diag.NewFormatter(s.errOut)
	f.AddSource(c.File, src)
	for _, e := range l.Errors {
		f.Format(e.ToDiagnostic())
		fmt.Fprintln(s.errOut)
	}
	return fmt.Errorf("%s: %d errors: %w", c.File, len(l.Errors), errLexical)
}
