package template

import (
	"strconv"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// SubstituteType resolves a (possibly dependent) TypeExpr against
// bindings, returning a fully concrete types.Index. A TypeExpr that is
// already resolved (non-dependent) is returned unchanged.
func SubstituteType(tys *types.Registry, te ast.TypeExpr, bindings Bindings) types.Index {
	if te.IsResolved {
		idx := te.Resolved
		if te.IsReference {
			idx = tys.Reference(idx)
		}
		for i := 0; i < te.PointerDepth; i++ {
			idx = tys.Pointer(idx)
		}
		return idx
	}
	arg, ok := bindings[te.DependentName]
	if !ok || arg.Kind != ArgType {
		return types.Void
	}
	idx := arg.Type
	if te.IsReference {
		idx = tys.Reference(idx)
	}
	for i := 0; i < te.PointerDepth; i++ {
		idx = tys.Pointer(idx)
	}
	return idx
}

// ExpandPackNames computes the n indexed identifiers a pack named
// baseName expands to at a given instantiation: `args` with 3 deduced
// pack elements becomes `args_0, args_1, args_2`.
func ExpandPackNames(interner *intern.Table, baseName intern.Handle, n int) []intern.Handle {
	base := interner.View(baseName)
	out := make([]intern.Handle, n)
	for i := 0; i < n; i++ {
		out[i] = interner.Intern(base + "_" + strconv.Itoa(i))
	}
	return out
}

// SubstituteExpr rewrites a template-body expression tree, replacing
// every TemplateParameterReferenceNode bound in `bindings` with a
// concrete literal (non-type arguments) and leaving everything else
// structurally identical but rebuilt in `arena` (substitution never
// mutates the original template definition's AST in place — the
// definition must stay instantiable again for a different argument
// list, per the idempotence invariant of ).
func SubstituteExpr(arena *ast.Arena, in *intern.Table, tys *types.Registry, expr ast.Expr, bindings Bindings) ast.Expr {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *ast.TemplateParameterReferenceNode:
		if arg, ok := bindings[n.Name]; ok && arg.Kind == ArgNonType {
			return ast.NewIntLiteral(arena, n.Pos(), uint64(arg.Value), types.Void)
		}
		return n
	case *ast.BinaryOperatorNode:
		lhs := SubstituteExpr(arena, in, tys, n.LHS, bindings)
		rhs := SubstituteExpr(arena, in, tys, n.RHS, bindings)
		return ast.NewBinaryOperator(arena, n.Pos(), n.Op, lhs, rhs)
	case *ast.UnaryOperatorNode:
		operand := SubstituteExpr(arena, in, tys, n.Operand, bindings)
		return ast.NewUnaryOperator(arena, n.Pos(), n.Op, operand, n.IsPostfix)
	case *ast.TernaryOperatorNode:
		return ast.NewTernaryOperator(arena, n.Pos(),
			SubstituteExpr(arena, in, tys, n.Cond, bindings),
			SubstituteExpr(arena, in, tys, n.Then, bindings),
			SubstituteExpr(arena, in, tys, n.Else, bindings))
	case *ast.FunctionCallNode:
		args := make([]ast.Expr, 0, len(n.Args))
		for _, a := range n.Args {
			if pe, ok := a.(*ast.PackExpansionExprNode); ok {
				args = append(args, expandPackExpansionArg(arena, in, tys, pe, bindings)...)
				continue
			}
			args = append(args, SubstituteExpr(arena, in, tys, a, bindings))
		}
		callee := SubstituteExpr(arena, in, tys, n.Callee, bindings)
		return ast.NewFunctionCall(arena, n.Pos(), callee, args)
	default:
		return expr
	}
}

// expandPackExpansionArg substitutes a pack-expansion call argument
// (`args...`) into `pack_size` concrete argument slots, one per deduced
// pack element, named `name_0 .. name_{n-1}`.
func expandPackExpansionArg(arena *ast.Arena, in *intern.Table, tys *types.Registry, pe *ast.PackExpansionExprNode, bindings Bindings) []ast.Expr {
	ident, ok := pe.Pattern.(*ast.IdentifierNode)
	if !ok {
		return []ast.Expr{pe.Pattern}
	}
	n := packSize(ident.Name, bindings)
	names := ExpandPackNames(in, ident.Name, n)
	out := make([]ast.Expr, n)
	for i, name := range names {
		out[i] = ast.NewIdentifier(arena, pe.Pos(), name)
	}
	return out
}

// packSize reports how many elements a pack parameter was bound to. In
// this core, pack element count is tracked alongside bindings by a
// sentinel ArgNonType entry under the pack's own name, whose Value is
// the element count, keeping Bindings a flat map.
func packSize(name intern.Handle, bindings Bindings) int {
	if arg, ok := bindings[name]; ok && arg.Kind == ArgNonType {
		return int(arg.Value)
	}
	return 0
}
