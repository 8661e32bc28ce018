package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cppfe/internal/compiler"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cppfe",
	Short: "C++20 front-end toolbox",
	Long: `cppfe drives the cppfe front-end core: parsing, name mangling,
and IR lowering for a subset of C++20.

This is not a C++ compiler driver. It has no lexer or preprocessor and
never reads .cpp source directly; every subcommand here takes a
pre-tokenized fixture file instead (see "cppfe tokens --help").`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "trace each pipeline stage to stderr")
	rootCmd.PersistentFlags().String("mangling", "itanium", "name mangling scheme (itanium, msvc)")
	rootCmd.PersistentFlags().String("data-model", "lp64", "pointer/long width convention (lp64, llp64)")
	rootCmd.PersistentFlags().String("abi", "sysv", "calling convention (sysv, win64)")
}

// newContext builds a compiler.Context from the root command's
// persistent flags, overridden by a ./cppfe.yaml project file when one
// is present — the file is for projects that don't want to repeat the
// same flags on every call.
func newContext(cmd *cobra.Command) (*compiler.Context, error) {
	mangling, _ := cmd.Flags().GetString("mangling")
	dataModel, _ := cmd.Flags().GetString("data-model")
	abi, _ := cmd.Flags().GetString("abi")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := compiler.Config{Mangling: mangling, DataModel: dataModel, ABI: abi}
	if data, err := os.ReadFile("cppfe.yaml"); err == nil {
		cfg, err = compiler.LoadConfig(data)
		if err != nil {
			return nil, fmt.Errorf("cppfe.yaml: %w", err)
		}
	}

	var opts []compiler.Option
	if verbose {
		opts = append(opts, compiler.WithTrace(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "trace: "+format+"\n", args...)
		}))
	}
	return compiler.NewFromConfig(cfg, opts...), nil
}
