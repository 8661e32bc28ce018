package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/token"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <fixture>",
	Short: "Print the token stream a fixture file decodes to",
	Long: `Print the token stream a fixture file decodes to.

It does not tokenize C++ source (cppfe has no lexer); it just shows
what internal/token.Cursor will see for a given fixture.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	toks, err := readFixture(args[0], ctx)
	if err != nil {
		return err
	}

	for _, t := range toks {
		text := ctx.Interner.View(intern.Handle(t.Value))
		fmt.Printf("[%-15s] %q @%d:%d\n", t.Kind, text, t.Pos.Line, t.Pos.Column)
		if t.Kind == token.EOF {
			break
		}
	}
	return nil
}
