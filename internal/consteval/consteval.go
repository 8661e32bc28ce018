// Package consteval evaluates constant expressions: non-type template
// arguments, array bounds, enumerator values, and static_assert
// conditions.
package consteval

import (
	"fmt"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// Value is the result of evaluating a constant expression: either an
// integral/boolean value (the only kinds this core's template and
// static_assert consumers need) or a failure.
type Value struct {
	Int   int64
	Bool  bool
	IsOK  bool
	Error string
}

func ok(v int64) Value  { return Value{Int: v, IsOK: true} }
func okBool(b bool) Value {
	if b {
		return Value{Int: 1, Bool: true, IsOK: true}
	}
	return Value{Int: 0, Bool: false, IsOK: true}
}
func fail(format string, args ...any) Value {
	return Value{Error: fmt.Sprintf(format, args...)}
}

// Evaluator evaluates constant expressions against a type registry (for
// sizeof/alignof and enumerator lookups).
type Evaluator struct {
	Types *types.Registry
	// Enumerators resolves an enumerator-constant identifier to its
	// value; the parser/symtab collaborator fills this in per scope.
	Enumerators func(name intern.Handle) (int64, bool)
}

func NewEvaluator(tys *types.Registry) *Evaluator {
	return &Evaluator{Types: tys}
}

// Eval evaluates expr as a constant integral/boolean expression.
// Non-constant subexpressions (a call to a non-constexpr function, a
// runtime variable) report a failure Value rather than panicking, so
// callers (default-argument filling, static_assert) can surface a
// diagnostic through perr instead.
func (e *Evaluator) Eval(expr ast.Expr) Value {
	switch n := expr.(type) {
	case *ast.NumericLiteralNode:
		if n.IsFloat {
			return fail("floating-point literal is not an integral constant")
		}
		return ok(int64(n.IntValue))

	case *ast.BoolLiteralNode:
		return okBool(n.Value)

	case *ast.UnaryOperatorNode:
		return e.evalUnary(n)

	case *ast.BinaryOperatorNode:
		return e.evalBinary(n)

	case *ast.TernaryOperatorNode:
		cond := e.Eval(n.Cond)
		if !cond.IsOK {
			return cond
		}
		if cond.Int != 0 {
			return e.Eval(n.Then)
		}
		return e.Eval(n.Else)

	case *ast.SizeofExprNode:
		return e.evalSizeof(n)

	case *ast.AlignofExprNode:
		if e.Types == nil {
			return fail("no type registry available for alignof")
		}
		info := e.Types.Get(n.Type)
		if info.Kind == types.KindStruct && info.Struct != nil {
			return ok(int64(info.Struct.AlignmentBits / 8))
		}
		return ok(int64(e.Types.SizeBits(n.Type) / 8))

	case *ast.IdentifierNode:
		if e.Enumerators != nil {
			if v, found := e.Enumerators(n.Name); found {
				return ok(v)
			}
		}
		return fail("identifier is not a constant expression")

	case *ast.CastNode:
		return e.Eval(n.Operand)

	default:
		return fail("not a constant expression")
	}
}

func (e *Evaluator) evalSizeof(n *ast.SizeofExprNode) Value {
	if e.Types == nil {
		return fail("no type registry available for sizeof")
	}
	if n.IsPack {
		return fail("sizeof...(pack) requires the instantiation's pack size, not evaluable here")
	}
	if n.IsType {
		return ok(int64(e.Types.SizeBits(n.Type) / 8))
	}
	return fail("sizeof(expr) on a runtime expression requires its resolved type, not evaluable here")
}

func (e *Evaluator) evalUnary(n *ast.UnaryOperatorNode) Value {
	v := e.Eval(n.Operand)
	if !v.IsOK {
		return v
	}
	switch n.Op {
	case "-":
		return ok(-v.Int)
	case "+":
		return v
	case "!":
		return okBool(v.Int == 0)
	case "~":
		return ok(^v.Int)
	default:
		return fail("operator %q is not valid in a constant expression", n.Op)
	}
}

func (e *Evaluator) evalBinary(n *ast.BinaryOperatorNode) Value {
	lhs := e.Eval(n.LHS)
	if !lhs.IsOK {
		return lhs
	}
	// && and || short-circuit: the right operand need not be constant
	// if the left already decides the result.
	switch n.Op {
	case "&&":
		if lhs.Int == 0 {
			return okBool(false)
		}
		rhs := e.Eval(n.RHS)
		if !rhs.IsOK {
			return rhs
		}
		return okBool(rhs.Int != 0)
	case "||":
		if lhs.Int != 0 {
			return okBool(true)
		}
		rhs := e.Eval(n.RHS)
		if !rhs.IsOK {
			return rhs
		}
		return okBool(rhs.Int != 0)
	}

	rhs := e.Eval(n.RHS)
	if !rhs.IsOK {
		return rhs
	}
	switch n.Op {
	case "+":
		return ok(lhs.Int + rhs.Int)
	case "-":
		return ok(lhs.Int - rhs.Int)
	case "*":
		return ok(lhs.Int * rhs.Int)
	case "/":
		if rhs.Int == 0 {
			return fail("division by zero in a constant expression")
		}
		return ok(lhs.Int / rhs.Int)
	case "%":
		if rhs.Int == 0 {
			return fail("modulo by zero in a constant expression")
		}
		return ok(lhs.Int % rhs.Int)
	case "<<":
		return ok(lhs.Int << uint(rhs.Int))
	case ">>":
		return ok(lhs.Int >> uint(rhs.Int))
	case "&":
		return ok(lhs.Int & rhs.Int)
	case "|":
		return ok(lhs.Int | rhs.Int)
	case "^":
		return ok(lhs.Int ^ rhs.Int)
	case "==":
		return okBool(lhs.Int == rhs.Int)
	case "!=":
		return okBool(lhs.Int != rhs.Int)
	case "<":
		return okBool(lhs.Int < rhs.Int)
	case "<=":
		return okBool(lhs.Int <= rhs.Int)
	case ">":
		return okBool(lhs.Int > rhs.Int)
	case ">=":
		return okBool(lhs.Int >= rhs.Int)
	default:
		return fail("operator %q is not valid in a constant expression", n.Op)
	}
}
