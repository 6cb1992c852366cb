// Command rustlex tokenizes Rust source files and maintains the fixture
// suite that pins the tokenizer's output.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"
)

type CLI struct {
	Tokens tokensCommand `cmd:"" help:"Print the tokens of a source file"`
	Check  checkCommand  `cmd:"" help:"Check fixtures against their recorded tokens"`
	Record recordCommand `cmd:"" help:"Write .tokens.yaml expectations for fixtures"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// streams carries the output writers into command Run methods.
type streams struct {
	out    io.Writer
	errOut io.Writer
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("rustlex"),
		kong.Description("Context-sensitive tokenizer for Rust source."),
		kong.DefaultEnvars("RUSTLEX"),
		kong.UsageOnError(),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kongplete.Complete(parser,
		kongplete.WithPredictor("rust", complete.PredictFiles("*.rs")),
		kongplete.WithPredictor("dir", complete.PredictDirs("*")),
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&streams{out: os.Stdout, errOut: os.Stderr}))
}
