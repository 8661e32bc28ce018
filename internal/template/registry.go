// Package template implements the template registry and instantiation
// engine: it stores class/function/variable/alias/concept template
// definitions and lazily instantiates them, memoized by
// (template_name, canonicalized_argument_list).
package template

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// Phase models the lazy class-template instantiation state machine:
// Declaration (opaque) → Layout (members computed) → Definition
// (member bodies instantiated).
type Phase int

const (
	PhaseDeclaration Phase = iota
	PhaseLayout
	PhaseDefinition
)

// Kind discriminates what sort of template a Definition describes.
type Kind int

const (
	KindClass Kind = iota
	KindFunction
	KindVariable
	KindAlias
	KindConcept
)

// Definition is one registered template (uninstantiated).
type Definition struct {
	Name intern.Handle
	Kind Kind

	ClassDecl    *ast.TemplateClassDeclarationNode
	FunctionDecl *ast.TemplateFunctionDeclarationNode
	VariableDecl *ast.TemplateVariableDeclarationNode
	AliasDecl    *ast.TemplateAliasNode
	ConceptDecl  *ast.ConceptDeclarationNode
}

func (d *Definition) params() []ast.TemplateParam {
	switch d.Kind {
	case KindClass:
		return d.ClassDecl.Params
	case KindFunction:
		return d.FunctionDecl.Params
	case KindVariable:
		return d.VariableDecl.Params
	case KindAlias:
		return d.AliasDecl.Params
	case KindConcept:
		return d.ConceptDecl.Params
	}
	return nil
}

// Instantiation is one memoized instantiation result.
type Instantiation struct {
	Definition *Definition
	Args       []Arg
	Name       intern.Handle // canonical instantiation name
	Phase      Phase

	// ClassType is valid once Phase >= PhaseLayout for a class template.
	ClassType types.Index
	// Node is the substituted AST (FunctionDeclarationNode /
	// VariableDeclarationNode) produced by substitution; for a class
	// template it is not set, and EnsureMemberDefinition returns each
	// substituted member function to its caller instead.
	Node ast.Decl

	// pendingMembers tracks, per member-function name, whether that
	// member's body has been substituted yet.
	pendingMembers map[intern.Handle]bool
}

// cacheKey is (template name, canonical argument string) — the memo key
// instantiation lookups hash on.
type cacheKey struct {
	name      intern.Handle
	canonical string
}

// Registry owns every template definition and instantiation cache.
type Registry struct {
	interner *intern.Table
	types    *types.Registry

	defs  map[intern.Handle]*Definition
	cache map[cacheKey]*Instantiation
}

func NewRegistry(interner *intern.Table, tys *types.Registry) *Registry {
	return &Registry{
		interner: interner,
		types:    tys,
		defs:     make(map[intern.Handle]*Definition),
		cache:    make(map[cacheKey]*Instantiation),
	}
}

// Register adds (or replaces) a template definition by name.
func (r *Registry) Register(d *Definition) {
	r.defs[d.Name] = d
}

// Lookup returns the definition registered under name, if any. The
// parser does not call it: its `<` disambiguation asks
// symtab's IsKnownTemplate instead.
func (r *Registry) Lookup(name intern.Handle) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns every defined template name plus every cached
// instantiation's canonical name, naturally sorted (so identity_2 sorts
// before identity_10 in diagnostics) via maruel/natural.
func (r *Registry) Names() []string {
	var names []string
	for _, d := range r.defs {
		names = append(names, r.interner.View(d.Name))
	}
	for _, inst := range r.cache {
		names = append(names, r.interner.View(inst.Name))
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func (r *Registry) cacheLookup(name intern.Handle, args []Arg) (*Instantiation, bool) {
	inst, ok := r.cache[cacheKey{name, canonicalArgString(args)}]
	return inst, ok
}

func (r *Registry) cacheStore(inst *Instantiation) {
	r.cache[cacheKey{inst.Definition.Name, canonicalArgString(inst.Args)}] = inst
}
