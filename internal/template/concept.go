package template

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
)

// ConstraintResult is the outcome of evaluating one atomic constraint or
// requires-expression: satisfied, not satisfied, or (for a
// requires-expression whose requirement bodies this core cannot type
// check without a full semantic pass) assumed satisfied. The template
// engine only needs a boolean for overload/SFINAE purposes; Unknown
// collapses to true so a constraint this evaluator cannot decide never
// silently rejects a valid candidate.
type ConstraintResult int

const (
	ConstraintSatisfied ConstraintResult = iota
	ConstraintNotSatisfied
	ConstraintUnknown
)

func (c ConstraintResult) Bool() bool { return c != ConstraintNotSatisfied }

// EvaluateConstraint checks a requires-clause or concept-use expression
// against a candidate set of bindings, substituting template parameters
// first. It is the evaluate_constraint entry point; its caller is
// SatisfiesAllConstraints, through which package constraint drops a
// function-template candidate whose constraint fails.
func (r *Registry) EvaluateConstraint(arena *ast.Arena, constraint ast.Expr, bindings Bindings) ConstraintResult {
	if constraint == nil {
		return ConstraintSatisfied
	}
	return r.evalConstraintExpr(arena, constraint, bindings)
}

func (r *Registry) evalConstraintExpr(arena *ast.Arena, expr ast.Expr, bindings Bindings) ConstraintResult {
	switch n := expr.(type) {
	case *ast.BinaryOperatorNode:
		switch n.Op {
		case "&&":
			lhs := r.evalConstraintExpr(arena, n.LHS, bindings)
			if lhs == ConstraintNotSatisfied {
				return ConstraintNotSatisfied
			}
			rhs := r.evalConstraintExpr(arena, n.RHS, bindings)
			if rhs == ConstraintNotSatisfied {
				return ConstraintNotSatisfied
			}
			if lhs == ConstraintUnknown || rhs == ConstraintUnknown {
				return ConstraintUnknown
			}
			return ConstraintSatisfied
		case "||":
			lhs := r.evalConstraintExpr(arena, n.LHS, bindings)
			if lhs == ConstraintSatisfied {
				return ConstraintSatisfied
			}
			rhs := r.evalConstraintExpr(arena, n.RHS, bindings)
			if rhs == ConstraintSatisfied {
				return ConstraintSatisfied
			}
			if lhs == ConstraintUnknown || rhs == ConstraintUnknown {
				return ConstraintUnknown
			}
			return ConstraintNotSatisfied
		}
		return ConstraintUnknown

	case *ast.QualifiedIdentifierNode:
		// A concept-use `Concept<Args>` is parsed as a name carrying
		// template arguments; dispatch to the concept's constraint body.
		if n.TemplateArgs == nil {
			return ConstraintUnknown
		}
		return r.evaluateConceptUse(arena, n.Name, n.TemplateArgs, bindings)

	case *ast.FunctionCallNode:
		// A concept name applied like a call dispatches the same way.
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return ConstraintUnknown
		}
		return r.evaluateConceptUse(arena, ident.Name, n.Args, bindings)

	case *ast.RequiresExpressionNode:
		return r.evaluateRequires(arena, n, bindings)

	case *ast.UnaryOperatorNode:
		if n.Op == "!" {
			switch r.evalConstraintExpr(arena, n.Operand, bindings) {
			case ConstraintSatisfied:
				return ConstraintNotSatisfied
			case ConstraintNotSatisfied:
				return ConstraintSatisfied
			default:
				return ConstraintUnknown
			}
		}
		return ConstraintUnknown

	default:
		return ConstraintUnknown
	}
}

func (r *Registry) evaluateConceptUse(arena *ast.Arena, name intern.Handle, args []ast.Expr, outerBindings Bindings) ConstraintResult {
	def, ok := r.defs[name]
	if !ok || def.Kind != KindConcept {
		return ConstraintUnknown
	}
	inner := make(Bindings)
	for i, p := range def.ConceptDecl.Params {
		if i >= len(args) {
			break
		}
		switch ref := args[i].(type) {
		case *ast.TemplateParameterReferenceNode:
			if bound, ok := outerBindings[ref.Name]; ok {
				inner[p.Name] = bound
			}
		}
	}
	return r.evalConstraintExpr(arena, def.ConceptDecl.Constraint, inner)
}

// evaluateRequires checks a requires-expression's requirement list. Each
// requirement is an expression whose well-formedness (after
// substitution) is all that matters — C++20 simple-requirements don't
// constrain the expression's value, only that it type checks. Without a
// full semantic checker this core can only confirm structural
// well-formedness (the expression substitutes without hitting a
// dependent name substitution failure); it cannot detect overload
// resolution failures inside the requirement body, so a requirement
// that substitutes cleanly counts as satisfied.
func (r *Registry) evaluateRequires(arena *ast.Arena, req *ast.RequiresExpressionNode, bindings Bindings) ConstraintResult {
	for _, reqExpr := range req.Requirements {
		substituted := SubstituteExpr(arena, r.interner, r.types, reqExpr, bindings)
		if referencesUnboundParam(substituted, bindings) {
			return ConstraintNotSatisfied
		}
	}
	return ConstraintSatisfied
}

// referencesUnboundParam reports whether expr still contains a
// TemplateParameterReferenceNode that substitution failed to replace,
// which means the requirement body is ill-formed under these bindings.
func referencesUnboundParam(expr ast.Expr, bindings Bindings) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		if found {
			return false
		}
		if ref, ok := n.(*ast.TemplateParameterReferenceNode); ok {
			if _, bound := bindings[ref.Name]; !bound {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// SatisfiesAllConstraints is a convenience used by overload resolution:
// a candidate whose requires-clause evaluates to ConstraintNotSatisfied
// is removed from the overload set (SFINAE-style) rather than producing
// a hard error; Unknown is treated as satisfied so ambiguous constraint
// bodies never wrongly prune a viable candidate.
func (r *Registry) SatisfiesAllConstraints(arena *ast.Arena, def *Definition, bindings Bindings) bool {
	var constraint ast.Expr
	switch def.Kind {
	case KindFunction:
		constraint = def.FunctionDecl.Constraint
	case KindClass:
		constraint = def.ClassDecl.Constraint
	}
	if constraint == nil {
		return true
	}
	return r.EvaluateConstraint(arena, constraint, bindings).Bool()
}
