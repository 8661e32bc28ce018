// Command cppfe is the ambient CLI shim around the front-end core
// (SPEC_FULL.md §5 Non-goals: the real lexer/preprocessor/driver are out
// of scope). It drives internal/compiler against pre-tokenized fixture
// files, the way cmd/dwscript drives the bytecode compiler against
// DWScript source.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/cppfe/cmd/cppfe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
