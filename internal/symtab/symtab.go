// Package symtab implements the scoped, hierarchical symbol table that
// maps names to AST declaration nodes, storing a declaration reference
// per entry (and a namespace handle per scope) rather than a single
// resolved type. Lookup walks the enclosing lexical scopes by name, with
// shadowing; there is no qualified lookup and no lookup through the
// namespace chain.
package symtab

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
)

// DeclRef is an opaque reference to an AST declaration node. It is an
// empty interface, so every ast.Decl satisfies it without symtab
// importing ast.
type DeclRef interface{}

// Symbol is one entry in a scope.
type Symbol struct {
	Name      intern.Handle
	Decl      DeclRef
	Overloads []DeclRef // additional overloads sharing Name, if any
	IsTemplate bool
}

// Table is a single lexical scope. Scopes form a parent-linked stack:
// entering a scope pushes a new Table whose Outer is the enclosing one;
// leaving pops back to Outer. The top scope is mutable; outer scopes are
// read-only from an inner scope's perspective.
type Table struct {
	Outer     *Table
	Namespace nsreg.Handle
	symbols   map[intern.Handle]*Symbol
}

// NewGlobal creates the outermost scope, bound to the global namespace.
func NewGlobal() *Table {
	return &Table{Namespace: nsreg.Global, symbols: make(map[intern.Handle]*Symbol)}
}

// Enclosed creates a new scope nested inside t, inheriting its
// namespace unless ns is overridden by the caller via SetNamespace.
func (t *Table) Enclosed() *Table {
	return &Table{Outer: t, Namespace: t.Namespace, symbols: make(map[intern.Handle]*Symbol)}
}

// SetNamespace rebinds the scope's namespace (used when entering a
// `namespace N { ... }` block).
func (t *Table) SetNamespace(ns nsreg.Handle) { t.Namespace = ns }

// Define adds name to the current scope. A second Define for the same
// name in the same scope shadows the previous definition outright
// (overload sets use DefineOverload instead).
func (t *Table) Define(name intern.Handle, decl DeclRef) {
	t.symbols[name] = &Symbol{Name: name, Decl: decl}
}

// DefineOverload adds decl as an overload of name. If name is unbound
// in the current scope, it becomes the primary entry; otherwise decl is
// appended to Overloads.
func (t *Table) DefineOverload(name intern.Handle, decl DeclRef) {
	if existing, ok := t.symbols[name]; ok {
		existing.Overloads = append(existing.Overloads, decl)
		return
	}
	t.symbols[name] = &Symbol{Name: name, Decl: decl}
}

// DefineTemplate adds a template declaration (class/function/variable/
// alias/concept) to the current scope, marked so lookup can report
// "names a template" to the parser's `<` disambiguation heuristic.
func (t *Table) DefineTemplate(name intern.Handle, decl DeclRef) {
	t.symbols[name] = &Symbol{Name: name, Decl: decl, IsTemplate: true}
}

// LookupLocal looks up name only in this scope, without walking Outer.
func (t *Table) LookupLocal(name intern.Handle) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Lookup walks from t outward through enclosing scopes (shadowing:
// the innermost definition wins) and returns the first match.
func (t *Table) Lookup(name intern.Handle) (*Symbol, bool) {
	for s := t; s != nil; s = s.Outer {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// IsKnownTemplate reports whether name resolves (via Lookup) to a
// symbol marked as a template. The expression parser's `<`
// disambiguation heuristic calls this directly.
func (t *Table) IsKnownTemplate(name intern.Handle) bool {
	sym, ok := t.Lookup(name)
	return ok && sym.IsTemplate
}
