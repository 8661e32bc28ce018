package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/compiler"
	"github.com/cwbudde/cppfe/internal/intern"
)

var mangleCmd = &cobra.Command{
	Use:   "mangle <fixture>",
	Short: "Parse a fixture and print its mangled-name table",
	Long: `Parse a fixture and print every free function, member function,
and global variable's mangled name, one "name -> mangled" line each, in
the --mangling scheme selected on the root command (default Itanium).`,
	Args: cobra.ExactArgs(1),
	RunE: runMangle,
}

func init() {
	rootCmd.AddCommand(mangleCmd)
}

func runMangle(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}
	toks, err := readFixture(args[0], ctx)
	if err != nil {
		return err
	}

	result, errs := ctx.Compile(toks)
	for _, d := range result.Decls {
		ast.Inspect(d, func(n ast.Node) bool {
			switch decl := n.(type) {
			case *ast.FunctionDeclarationNode:
				printMangled(ctx, decl.Name, decl.MangledName)
			case *ast.VariableDeclarationNode:
				printMangled(ctx, decl.Name, decl.MangledName)
			}
			return true
		})
	}

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if errs.HasErrors() {
		return fmt.Errorf("mangling failed with %d error(s)", len(errs))
	}
	return nil
}

// printMangled prints one "name -> mangled" line, skipping declarations
// that never got a mangled name (template declarations — package
// template mangles each instantiation lazily, not the template itself).
func printMangled(ctx *compiler.Context, name, mangled intern.Handle) {
	m := ctx.Interner.View(mangled)
	if m == "" {
		return
	}
	fmt.Printf("%s -> %s\n", ctx.Interner.View(name), m)
}
