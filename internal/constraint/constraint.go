// Package constraint is the SFINAE boundary between overload
// resolution and the template engine's own atomic constraint evaluator
// (package template): it drives "try to form this candidate; if
// substitution or its requires-clause fails, drop the candidate
// silently instead of reporting a hard error".
package constraint

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/overload"
	"github.com/cwbudde/cppfe/internal/perr"
	"github.com/cwbudde/cppfe/internal/template"
	"github.com/cwbudde/cppfe/internal/types"
)

// Attempt is one function-template candidate under consideration for
// overload resolution: its definition and its deduced (or explicit)
// bindings.
type Attempt struct {
	Definition *template.Definition
	Bindings   template.Bindings
}

// Context accumulates substitution failures encountered while forming a
// candidate set, the way a real front end's "immediate context" SFINAE
// rule does: a failure here is swallowed, while a failure reached only
// after the candidate is selected (inside the function body) is a hard
// error.
type Context struct {
	Registry *template.Registry
	Arena    *ast.Arena

	// Swallowed records every substitution failure demoted during this
	// Context's lifetime, for diagnostics in -Wall-style reporting; it
	// never affects candidate selection.
	Swallowed []*perr.Error
}

func NewContext(reg *template.Registry, arena *ast.Arena) *Context {
	return &Context{Registry: reg, Arena: arena}
}

// TryFormCandidate attempts to substitute a function template with the
// given bindings and check its requires-clause, reporting a viable
// overload.Candidate on success and (ok=false) silently demoting any
// substitution or constraint failure to Swallowed on failure — the
// candidate is simply omitted from the overload set, never reported as
// a compile error, per the SFINAE rule.
func (c *Context) TryFormCandidate(tys *types.Registry, a Attempt) (overload.Candidate, bool) {
	underlying := a.Definition.FunctionDecl.Underlying

	if !c.Registry.SatisfiesAllConstraints(c.Arena, a.Definition, a.Bindings) {
		c.Swallowed = append(c.Swallowed, perr.New(perr.KindConstraint, underlying.Pos(),
			"constraints not satisfied during overload resolution"))
		return overload.Candidate{}, false
	}

	paramTypes := make([]types.Index, 0, len(underlying.Params))
	for i, p := range underlying.Params {
		resolved := template.SubstituteType(tys, ast.TypeExpr{Resolved: p.Type, IsResolved: true}, a.Bindings)
		if resolved == types.Void && p.Type != types.Void {
			c.Swallowed = append(c.Swallowed, perr.New(perr.KindSubstitutionFail, underlying.Pos(),
				"substitution failure deducing parameter %d", i))
			return overload.Candidate{}, false
		}
		paramTypes = append(paramTypes, resolved)
	}

	return overload.Candidate{
		Name:         a.Definition.Name,
		ParamTypes:   paramTypes,
		IsVariadic:   underlying.IsVariadic,
		FromTemplate: true,
	}, true
}

// ResolveWithSFINAE runs overload.Resolve across both ordinary
// (non-template) candidates and a set of template Attempts, discarding
// any Attempt that fails substitution/constraints before ranking.
func (c *Context) ResolveWithSFINAE(tys *types.Registry, ordinary []overload.Candidate, attempts []Attempt, args []overload.Arg) overload.Result {
	candidates := append([]overload.Candidate{}, ordinary...)
	for _, a := range attempts {
		if cand, ok := c.TryFormCandidate(tys, a); ok {
			candidates = append(candidates, cand)
		}
	}
	return overload.Resolve(tys, candidates, args)
}
