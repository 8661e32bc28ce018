package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cppfe/internal/ir"
)

var lowerJSON bool

var lowerCmd = &cobra.Command{
	Use:   "lower <fixture>",
	Short: "Parse, mangle, and lower a fixture's declarations to IR",
	Long: `Parse, mangle, and lower a fixture's declarations to IR.

With --json, each lowered function is printed as the pretty-printed
instruction dump internal/ir.DumpJSON produces; without it, a one-line
summary per function is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
	lowerCmd.Flags().BoolVar(&lowerJSON, "json", false, "print the full per-instruction JSON IR dump")
}

func runLower(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	toks, err := readFixture(args[0], ctx)
	if err != nil {
		return err
	}

	result, errs := ctx.Compile(toks)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}

	for _, fn := range result.Functions {
		if lowerJSON {
			doc, err := ir.DumpJSON(fn, ctx.Interner)
			if err != nil {
				return fmt.Errorf("dumping %s: %w", ctx.Interner.View(fn.Name), err)
			}
			fmt.Println(doc)
			continue
		}
		fmt.Printf("%s (%s): %d locals, %d temps, %d instructions\n",
			ctx.Interner.View(fn.Name), ctx.Interner.View(fn.MangledName),
			fn.NumLocals, fn.NumTemps, len(fn.Instructions))
	}

	if errs.HasErrors() {
		return fmt.Errorf("lowering failed with %d error(s)", len(errs))
	}
	return nil
}
