package compiler

import (
	"strings"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/consteval"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/lower"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/parser"
	"github.com/cwbudde/cppfe/internal/perr"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// Result is one compiled translation unit: the parsed declarations in
// source order, plus every lowered function body that had one.
type Result struct {
	Decls     []ast.Decl
	Functions []*ir.Function
}

// Compile parses tokens as one translation unit and lowers every
// function definition into IR. tokens must already be a complete,
// EOF-terminated stream — this core does not itself lex; cmd/cppfe's fixture reader is the collaborator that
// produces one from a token-list file.
func (c *Context) Compile(tokens []token.Token) (*Result, perr.List) {
	stream := token.NewStream(tokens)
	cursor := token.NewCursor(stream)
	p := parser.New(cursor, c.Arena, c.Interner, c.Types, c.Symbols, c.NS)

	c.trace("parsing %d tokens", len(tokens))
	decls := p.ParseTranslationUnit()
	c.Errors = append(c.Errors, p.Errors...)

	c.trace("mangling %d top-level declarations", len(decls))
	c.mangleDecls(decls, nsreg.Global)

	c.trace("checking static_assert conditions")
	c.checkStaticAsserts(decls)

	var fns []*ir.Function
	c.trace("lowering function bodies")
	c.lowerDecls(decls, &fns)

	return &Result{Decls: decls, Functions: fns}, c.Errors
}

// mangleDecls walks decls (recursing into namespaces and struct member
// lists) assigning each function's and global variable's MangledName.
// Templates are left unmangled here: package template mangles each
// instantiation lazily, keyed by its own canonical argument string
//, not at the point the template itself is declared.
func (c *Context) mangleDecls(decls []ast.Decl, ns nsreg.Handle) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDeclarationNode:
			c.mangleDecls(n.Members, n.Handle)
		case *ast.FunctionDeclarationNode:
			c.mangleFunction(n, ns)
		case *ast.VariableDeclarationNode:
			c.mangleVariable(n, ns)
		case *ast.StructDeclarationNode:
			for _, m := range n.Methods {
				c.mangleFunction(m, ns)
			}
			for i := range n.Fields {
				c.mangleStaticMember(n.Fields[i], n.Type, ns)
			}
		}
	}
}

func (c *Context) paramTypes(params []*ast.VariableDeclarationNode) []types.Index {
	out := make([]types.Index, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

func (c *Context) mangleFunction(fn *ast.FunctionDeclarationNode, ns nsreg.Handle) {
	path := nsPathOf(c.NS, ns)
	name := c.Interner.View(fn.Name)
	params := c.paramTypes(fn.Params)

	var mangled string
	if fn.OwnerStruct != types.Void {
		className := c.Interner.View(c.Types.Get(fn.OwnerStruct).Name)
		mangled = c.Mangler.MemberFunctionName(path, className, name, params, fn.IsConst)
	} else {
		mangled = c.Mangler.FunctionName(path, name, params, fn.Linkage)
	}
	fn.MangledName = c.Interner.Intern(mangled)
}

func (c *Context) mangleVariable(v *ast.VariableDeclarationNode, ns nsreg.Handle) {
	path := nsPathOf(c.NS, ns)
	name := c.Interner.View(v.Name)
	v.MangledName = c.Interner.Intern(itaniumQualifiedName(path, name))
}

// mangleStaticMember is the field-level counterpart of mangleVariable
// for a struct/class's data members that are declared `static` (static
// members have linkage and a mangled name; non-static ones are
// addressed by byte offset and never mangled).
func (c *Context) mangleStaticMember(f *ast.VariableDeclarationNode, owner types.Index, ns nsreg.Handle) {
	if !f.IsStatic {
		return
	}
	path := append(nsPathOf(c.NS, ns), c.Interner.View(c.Types.Get(owner).Name))
	name := c.Interner.View(f.Name)
	mangled := itaniumQualifiedName(path, name)
	f.MangledName = c.Interner.Intern(mangled)
}

// itaniumQualifiedName is the plain "ns1::ns2::name" fallback mangling
// mangleVariable/mangleStaticMember use for a global outside of
// FunctionName/MemberFunctionName's coverage (those two are the only
// entry points package mangle exposes, and both are function-signature
// specific); it is intentionally simple since only requires
// function names and instantiated-template names to follow the real
// Itanium/MSVC grammar precisely.
func itaniumQualifiedName(path []string, name string) string {
	return strings.Join(append(append([]string{}, path...), name), "::")
}

// nsPathOf renders ns as its component name segments, outermost first —
// the []string form FunctionName/MemberFunctionName expect, built from
// nsreg's own QualifiedName since the registry does not expose its
// internal parent chain directly.
func nsPathOf(ns *nsreg.Registry, h nsreg.Handle) []string {
	q := ns.QualifiedName(h)
	if q == "" {
		return nil
	}
	return strings.Split(q, "::")
}

func (c *Context) checkStaticAsserts(decls []ast.Decl) {
	ev := consteval.NewEvaluator(c.Types)
	var walk func([]ast.Decl)
	walk = func(ds []ast.Decl) {
		for _, d := range ds {
			switch n := d.(type) {
			case *ast.StaticAssertNode:
				if err := ev.CheckStaticAssert(c.Interner, n); err != nil {
					c.Errors.Add(err)
				}
			case *ast.NamespaceDeclarationNode:
				walk(n.Members)
			case *ast.StructDeclarationNode:
				// A static_assert inside a member-function body is checked
				// when that body is lowered; nothing inside a struct is
				// checked here.
			}
		}
	}
	walk(decls)
}

// lowerDecls lowers every function definition it finds (recursing into
// namespaces and struct member lists) into IR, appending to *out.
// Declaration-only functions (no Body) and every template declaration
// are skipped: a template has no IR of its own until package template
// instantiates it, at which point the instantiated FunctionDeclarationNode
// is lowered the same way an ordinary one is.
func (c *Context) lowerDecls(decls []ast.Decl, out *[]*ir.Function) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.NamespaceDeclarationNode:
			c.lowerDecls(n.Members, out)
		case *ast.FunctionDeclarationNode:
			if fn := c.lowerFunction(n); fn != nil {
				*out = append(*out, fn)
			}
		case *ast.StructDeclarationNode:
			for _, m := range n.Methods {
				if fn := c.lowerFunction(m); fn != nil {
					*out = append(*out, fn)
				}
			}
		}
	}
}

func (c *Context) lowerFunction(fn *ast.FunctionDeclarationNode) *ir.Function {
	if fn.Body == nil {
		return nil
	}
	b := lower.NewBuilder(c.Interner, c.Types, c.Symbols, c.Mangler)
	b.Model = c.Model
	b.ABI = c.ABI
	result := b.LowerFunction(fn)
	c.Errors = append(c.Errors, b.Errors...)
	return result
}
