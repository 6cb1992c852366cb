package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/malphas-lang/rustlex/internal/diag"
	"github.com/malphas-lang/rustlex/internal/fixture"
)

var errFixturesFailed = errors.New("fixtures failed")

type checkCommand struct {
	Dir   string `arg:"" optional:"" default:"fixtures" predictor:"dir" help:"Fixture suite root"`
	Match string `help:"Only fixtures whose language/category matches this glob"`
	Jobs  int    `short:"j" default:"0" help:"Parallel checks (0 uses every CPU)"`
}

func (c *checkCommand) Run(s *streams) error {
	suite := fixture.Open(c.Dir)
	fixtures, err := suite.Discover(c.Match)
	if err != nil {
		return err
	}
	if len(fixtures) == 0 {
		fmt.Fprintf(s.out, "No fixtures found in %s\n", c.Dir)
		return nil
	}

	fmt.Fprintf(s.out, "Checking fixtures in %s...\n\n", c.Dir)

	results, err := fixture.Run(context.Background(), fixtures, c.Jobs)
	if err != nil {
		return err
	}

	formatter := diag.NewFormatter(s.errOut)
	var passed, failed, unchecked int
	for _, res := range results {
		f := res.Fixture
		formatter.AddSource(f.Path, f.Source)

		if res.Passed() {
			passed++
			if f.Expected == nil {
				unchecked++
				fmt.Fprintf(s.out, "  ✓ %s (no recorded tokens)\n", f.Name())
			} else {
				fmt.Fprintf(s.out, "  ✓ %s\n", f.Name())
			}
			continue
		}

		failed++
		fmt.Fprintf(s.out, "  ✗ %s\n", f.Name())
		for _, d := range res.Failures {
			formatter.Format(d)
			fmt.Fprintln(s.errOut)
		}
	}

	fmt.Fprintf(s.out, "\n")
	fmt.Fprintf(s.out, "Fixture Results: %d total, %d passed, %d failed", len(results), passed, failed)
	if unchecked > 0 {
		fmt.Fprintf(s.out, " (%d without recorded tokens)", unchecked)
	}
	fmt.Fprintf(s.out, "\n")

	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(results), errFixturesFailed)
	}
	return nil
}

type recordCommand struct {
	Dir   string `arg:"" optional:"" default:"fixtures" predictor:"dir" help:"Fixture suite root"`
	Match string `help:"Only fixtures whose language/category matches this glob"`
}

func (c *recordCommand) Run(s *streams) error {
	suite := fixture.Open(c.Dir)
	fixtures, err := suite.Discover(c.Match)
	if err != nil {
		return err
	}
	for _, f := range fixtures {
		exp, err := suite.Record(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
		fmt.Fprintf(s.out, "recorded %s (%d tokens)\n", f.ExpectationPath(), len(exp.Tokens))
	}
	return nil
}
