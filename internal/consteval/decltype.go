package consteval

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/symtab"
	"github.com/cwbudde/cppfe/internal/types"
)

// ResolveDecltype implements C++20 decltype's value-category-sensitive
// resolution rule, resolving this core's Open Question on whether
// decltype should special-case `decltype((x))` the way a real compiler
// front end does (it does — original_source/ evaluates the parenthesized
// form through the same codegen path as any other lvalue expression and
// wraps the result type in a reference, so this core follows suit
// instead of treating decltype((x)) identically to decltype(x)):
//
//   - decltype(entity)            -> the entity's declared type, unchanged
//   - decltype((entity))          -> T&   if the parenthesized expression is an lvalue
//   - decltype((entity))          -> T&   also for an xvalue (the type registry has no rvalue-reference kind)
//   - decltype(prvalue-expr)      -> T    (no added reference)
func ResolveDecltype(tys *types.Registry, exprType types.Index, category ast.ValueCategory, isParenthesized bool) types.Index {
	if !isParenthesized {
		return exprType
	}
	switch category {
	case ast.LValue:
		return tys.Reference(exprType)
	case ast.XValue:
		return tys.Reference(exprType) // rvalue-reference collapses identically for sizing/layout purposes this core tracks
	default:
		return exprType
	}
}

// ClassifyValueCategory determines expr's value category from its AST
// shape alone, the same distinction original_source/'s codegen makes by
// which emission path an expression takes: a name, a member, a
// subscript, or a dereference addresses storage (lvalue); a call
// (barring a reference return type, which this core does not track
// independently of ResolveDecltype's caller-supplied category) or an
// arithmetic/literal result is a transient value (prvalue).
func ClassifyValueCategory(expr ast.Expr) ast.ValueCategory {
	switch n := expr.(type) {
	case *ast.IdentifierNode, *ast.QualifiedIdentifierNode, *ast.MemberAccessNode,
		*ast.ArraySubscriptNode, *ast.ThisExprNode:
		return ast.LValue
	case *ast.UnaryOperatorNode:
		if n.Op == "*" {
			return ast.LValue
		}
		return ast.PRValue
	default:
		return ast.PRValue
	}
}

// ExprType resolves expr's static type well enough for decltype: it
// mirrors package lower's staticType for the handful of expression
// shapes decltype commonly wraps (a bare name, a member, a subscript, a
// dereference, a cast), without requiring a full Builder.
func ExprType(tys *types.Registry, syms *symtab.Table, expr ast.Expr) types.Index {
	switch n := expr.(type) {
	case *ast.NumericLiteralNode:
		return n.Type
	case *ast.IdentifierNode:
		if syms != nil {
			if sym, ok := syms.Lookup(n.Name); ok {
				if v, ok := sym.Decl.(*ast.VariableDeclarationNode); ok {
					return v.Type
				}
			}
		}
	case *ast.CastNode:
		return n.Type
	case *ast.UnaryOperatorNode:
		if n.Op == "*" {
			info := tys.Get(ExprType(tys, syms, n.Operand))
			if info.Kind == types.KindPointer {
				return info.Elem
			}
		}
		if n.Op == "&" {
			return tys.Pointer(ExprType(tys, syms, n.Operand))
		}
		return ExprType(tys, syms, n.Operand)
	case *ast.ArraySubscriptNode:
		info := tys.Get(ExprType(tys, syms, n.Array))
		if info.Kind == types.KindPointer || info.Kind == types.KindArray {
			return info.Elem
		}
	}
	return tys.BuiltinIndex(types.BInt)
}
