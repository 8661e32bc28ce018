// Package compiler wires every registry the front end needs into one
// translation-unit-scoped Context and drives the parse -> lower
// pipeline.
package compiler

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/lower"
	"github.com/cwbudde/cppfe/internal/mangle"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/perr"
	"github.com/cwbudde/cppfe/internal/symtab"
	"github.com/cwbudde/cppfe/internal/template"
	"github.com/cwbudde/cppfe/internal/types"
)

// Context owns every registry a single compilation shares: the string
// interner, the type and namespace registries, the global symbol table,
// the template registry, the AST arena every parsed node is allocated
// into, and the mangler. One Context compiles one translation unit at a
// time via Compile.
type Context struct {
	Interner  *intern.Table
	Types     *types.Registry
	NS        *nsreg.Registry
	Symbols   *symtab.Table
	Templates *template.Registry
	Arena     *ast.Arena
	Mangler   *mangle.Mangler

	Model lower.DataModel
	ABI   lower.ABI

	// Trace receives progress messages as compilation proceeds.
	// cmd/cppfe's --verbose (-v) flag wires this to a logger; the default is a
	// silent no-op.
	Trace func(format string, args ...any)

	Errors perr.List
}

// Option configures a new Context using the functional-options idiom.
type Option func(*Context)

// WithTrace installs fn as the Context's progress logger.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(c *Context) { c.Trace = fn }
}

// New builds a Context with a fresh set of registries, wired the way
// cmd/cppfe's subcommands need them: mangling scheme, data model, and
// ABI are fixed for the Context's lifetime since changing any of them
// mid-compilation would invalidate already-computed layouts and mangled
// names.
func New(scheme mangle.Scheme, model lower.DataModel, abi lower.ABI, opts ...Option) *Context {
	interner := intern.New()
	tys := types.NewRegistry(interner)
	ns := nsreg.New(interner)
	sym := symtab.NewGlobal()
	tmpl := template.NewRegistry(interner, tys)
	arena := ast.NewArena()
	m := mangle.New(interner, tys, ns, scheme)

	c := &Context{
		Interner:  interner,
		Types:     tys,
		NS:        ns,
		Symbols:   sym,
		Templates: tmpl,
		Arena:     arena,
		Mangler:   m,
		Model:     model,
		ABI:       abi,
		Trace:     func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// trace calls c.Trace if set; every pipeline stage routes its progress
// messages through this so a nil Trace (Context built without options,
// outside of New) never panics.
func (c *Context) trace(format string, args ...any) {
	if c.Trace != nil {
		c.Trace(format, args...)
	}
}
