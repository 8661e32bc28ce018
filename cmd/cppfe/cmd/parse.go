package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/parser"
	"github.com/cwbudde/cppfe/internal/token"
)

var parseCmd = &cobra.Command{
	Use:   "parse <fixture>",
	Short: "Parse a fixture's token stream and dump the resulting AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	toks, err := readFixture(args[0], ctx)
	if err != nil {
		return err
	}

	cursor := token.NewCursor(token.NewStream(toks))
	p := parser.New(cursor, ctx.Arena, ctx.Interner, ctx.Types, ctx.Symbols, ctx.NS)
	decls := p.ParseTranslationUnit()

	for _, d := range decls {
		fmt.Println(ast.Dump(d))
	}

	if len(p.Errors) > 0 {
		for _, e := range p.Errors {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors))
	}
	return nil
}
