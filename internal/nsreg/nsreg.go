// Package nsreg is the namespace registry: a tree of namespaces where
// every handle resolves to a qualified name, with support for
// using-declarations and using-directives.
package nsreg

import "github.com/cwbudde/cppfe/internal/intern"

// Handle identifies one namespace node. The global namespace is handle 0.
type Handle int

const Global Handle = 0

type node struct {
	name     intern.Handle
	parent   Handle
	children map[intern.Handle]Handle
	// usingNamespaces lists namespaces brought in scope here by a
	// using-directive (`using namespace N;`).
	usingNamespaces []Handle
	// usingDecls maps a name brought in by a using-declaration
	// (`using N::x;`) to the namespace it was imported from.
	usingDecls map[intern.Handle]Handle
}

// Registry owns the namespace tree.
type Registry struct {
	interner *intern.Table
	nodes    []node
}

// New returns a Registry containing only the global namespace.
func New(interner *intern.Table) *Registry {
	r := &Registry{interner: interner}
	r.nodes = append(r.nodes, node{
		children:   make(map[intern.Handle]Handle),
		usingDecls: make(map[intern.Handle]Handle),
	})
	return r
}

// Declare returns the child namespace of parent named name, creating it
// if necessary (re-opening `namespace foo { ... }` is idempotent).
func (r *Registry) Declare(parent Handle, name intern.Handle) Handle {
	p := &r.nodes[parent]
	if h, ok := p.children[name]; ok {
		return h
	}
	h := Handle(len(r.nodes))
	r.nodes = append(r.nodes, node{
		name:       name,
		parent:     parent,
		children:   make(map[intern.Handle]Handle),
		usingDecls: make(map[intern.Handle]Handle),
	})
	p.children[name] = h
	return h
}

// Child looks up an existing child namespace without creating one.
func (r *Registry) Child(parent Handle, name intern.Handle) (Handle, bool) {
	h, ok := r.nodes[parent].children[name]
	return h, ok
}

// Parent returns the enclosing namespace of h (Global's parent is
// Global itself).
func (r *Registry) Parent(h Handle) Handle { return r.nodes[h].parent }

// QualifiedName renders h as "a::b::c", omitting the global namespace's
// own (empty) name.
func (r *Registry) QualifiedName(h Handle) string {
	if h == Global {
		return ""
	}
	parts := r.chain(h)
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "::"
		}
		out += r.interner.View(p)
	}
	return out
}

func (r *Registry) chain(h Handle) []intern.Handle {
	var parts []intern.Handle
	for h != Global {
		parts = append([]intern.Handle{r.nodes[h].name}, parts...)
		h = r.nodes[h].parent
	}
	return parts
}

// AddUsingDirective records `using namespace imported;` as having been
// seen inside scope.
func (r *Registry) AddUsingDirective(scope, imported Handle) {
	n := &r.nodes[scope]
	n.usingNamespaces = append(n.usingNamespaces, imported)
}

// AddUsingDeclaration records `using from::name;` as having been seen
// inside scope, making name resolvable directly in scope.
func (r *Registry) AddUsingDeclaration(scope Handle, name intern.Handle, from Handle) {
	r.nodes[scope].usingDecls[name] = from
}

// UsingNamespaces returns the namespaces imported into scope via
// using-directives.
func (r *Registry) UsingNamespaces(scope Handle) []Handle {
	return r.nodes[scope].usingNamespaces
}

// ResolveUsingDeclaration returns the namespace a using-declaration for
// name imported it from, if any.
func (r *Registry) ResolveUsingDeclaration(scope Handle, name intern.Handle) (Handle, bool) {
	h, ok := r.nodes[scope].usingDecls[name]
	return h, ok
}

// Chain walks from scope up through every enclosing namespace to Global,
// inclusive, matching the "namespace chain" fallback of 's
// identifier resolution cascade.
func (r *Registry) Chain(scope Handle) []Handle {
	chain := []Handle{scope}
	for scope != Global {
		scope = r.nodes[scope].parent
		chain = append(chain, scope)
	}
	return chain
}
