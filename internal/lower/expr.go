package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/consteval"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// LowerExpr lowers expr to a TempVar holding its value, along with
// lvalue metadata (valid only when expr denotes an lvalue/glvalue).
// This is the single entry point every statement-lowering caller uses;
// it dispatches on node kind exactly as package ast's own Walk does,
// discriminating AST variants by type switch.
func (b *Builder) LowerExpr(expr ast.Expr) (ir.TempVar, ir.LValueMeta) {
	switch n := expr.(type) {
	case *ast.IdentifierNode:
		t, lv, ok := b.LowerIdentifier(n)
		if !ok {
			b.errorf(n, "use of undeclared identifier")
		}
		return t, lv

	case *ast.NumericLiteralNode:
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{
			Dst: dst, IntValue: int64(n.IntValue), FloatValue: n.FloatValue, IsFloat: n.IsFloat, Type: n.Type,
		}})
		return dst, ir.LValueMeta{}

	case *ast.BoolLiteralNode:
		dst := b.newTemp()
		v := int64(0)
		if n.Value {
			v = 1
		}
		return b.constTemp(dst, v, b.Types.BuiltinIndex(types.BBool)), ir.LValueMeta{}

	case *ast.NullptrLiteralNode:
		dst := b.newTemp()
		return b.constTemp(dst, 0, b.Types.BuiltinIndex(types.BNullptr)), ir.LValueMeta{}

	case *ast.BinaryOperatorNode:
		return b.lowerBinary(n), ir.LValueMeta{}

	case *ast.UnaryOperatorNode:
		return b.lowerUnary(n)

	case *ast.TernaryOperatorNode:
		return b.lowerTernary(n), ir.LValueMeta{}

	case *ast.CommaExpressionNode:
		b.LowerExpr(n.LHS)
		return b.LowerExpr(n.RHS)

	case *ast.CastNode:
		return b.lowerCast(n), ir.LValueMeta{}

	case *ast.SizeofExprNode:
		return b.lowerSizeof(n), ir.LValueMeta{}

	case *ast.AlignofExprNode:
		dst := b.newTemp()
		info := b.Types.Get(n.Type)
		align := b.Types.SizeBits(n.Type) / 8
		if info.Kind == types.KindStruct && info.Struct != nil {
			align = info.Struct.AlignmentBits / 8
		}
		return b.constTemp(dst, int64(align), b.Types.BuiltinIndex(types.BUnsignedLong)), ir.LValueMeta{}

	case *ast.MemberAccessNode:
		return b.lowerMemberAccess(n)

	case *ast.ArraySubscriptNode:
		return b.lowerArraySubscript(n)

	case *ast.FunctionCallNode:
		dst, ok := b.lowerCall(n)
		_ = ok
		return dst, ir.LValueMeta{}

	case *ast.MemberFunctionCallNode:
		dst := b.lowerMemberCall(n)
		return dst, ir.LValueMeta{}

	case *ast.LambdaExpressionNode:
		return b.lowerLambda(n), ir.LValueMeta{}

	case *ast.QualifiedIdentifierNode:
		t, lv, ok := b.lowerQualifiedIdentifier(n)
		if !ok {
			b.errorf(n, "use of undeclared identifier")
		}
		return t, lv

	case *ast.FoldExpressionNode:
		return b.lowerFold(n), ir.LValueMeta{}

	case *ast.ConstructorCallNode:
		return b.lowerConstructorCall(n), ir.LValueMeta{}

	case *ast.NewExpressionNode:
		return b.lowerNewExpression(n), ir.LValueMeta{}

	case *ast.DeleteExpressionNode:
		b.lowerDeleteExpression(n)
		return 0, ir.LValueMeta{}

	case *ast.TypeTraitExprNode:
		return b.lowerTypeTrait(n), ir.LValueMeta{}

	default:
		b.errorf(expr, "expression form not supported by this lowering core")
		return 0, ir.LValueMeta{}
	}
}

func (b *Builder) constTemp(dst ir.TempVar, v int64, typ types.Index) ir.TempVar {
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: dst, IntValue: v, Type: typ}})
	return dst
}

// lowerSizeof first tries constant folding (the common case: sizeof on
// a complete, non-dependent type) and only falls back to a runtime
// OpConst-of-zero placeholder — a genuinely dependent sizeof never
// reaches lowering uninstantiated, so the fallback exists purely as a
// defensive backstop against an incomplete type slipping through.
func (b *Builder) lowerSizeof(n *ast.SizeofExprNode) ir.TempVar {
	ev := consteval.NewEvaluator(b.Types)
	v := ev.Eval(n)
	dst := b.newTemp()
	if v.IsOK {
		return b.constTemp(dst, v.Int, b.Types.BuiltinIndex(types.BUnsignedLong))
	}
	b.errorf(n, "sizeof could not be constant-folded: %s", v.Error)
	return b.constTemp(dst, 0, b.Types.BuiltinIndex(types.BUnsignedLong))
}

func (b *Builder) lowerBinary(n *ast.BinaryOperatorNode) ir.TempVar {
	if isAssignOp(n.Op) {
		return b.lowerAssignment(n)
	}
	if dst, ok := b.tryLowerSpaceshipRewrite(n); ok {
		return dst
	}

	lhs, lhsLV := b.LowerExpr(n.LHS)
	rhs, _ := b.LowerExpr(n.RHS)

	lhsType := b.exprType(n.LHS, lhsLV)
	if ptrResult, ok := b.tryLowerPointerArithmetic(n, lhs, rhs, lhsType); ok {
		return ptrResult
	}

	dst := b.newTemp()
	resultType := b.arithmeticResultType(n.LHS, n.RHS)
	b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: dst, Op: n.Op, Lhs: lhs, Rhs: rhs, Type: resultType}})
	return dst
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

// arithmeticResultType approximates the usual arithmetic conversions:
// the wider/floating operand's type wins. A full implementation would
// also promote sub-int types; this core only needs enough precision to
// size the resulting TempVar correctly for IR dumps and layout-free
// consumers (package overload already re-derives the standard's exact
// ranking independently for candidate selection).
func (b *Builder) arithmeticResultType(lhs, rhs ast.Expr) types.Index {
	lt := b.staticType(lhs)
	rt := b.staticType(rhs)
	if b.Types.SizeBits(lt) >= b.Types.SizeBits(rt) {
		return lt
	}
	return rt
}

// staticType returns an expression's resolved type without lowering it,
// for the handful of call sites (usual-arithmetic-conversion result
// typing, pointer-arithmetic detection) that need a type but not a
// value.
func (b *Builder) staticType(expr ast.Expr) types.Index {
	switch n := expr.(type) {
	case *ast.NumericLiteralNode:
		return n.Type
	case *ast.IdentifierNode:
		if slot, ok := b.locals[n.Name]; ok {
			return slot.typ
		}
		if b.Symbols != nil {
			if sym, ok := b.Symbols.Lookup(n.Name); ok {
				if v, ok := sym.Decl.(*ast.VariableDeclarationNode); ok {
					return v.Type
				}
			}
		}
	case *ast.CastNode:
		return n.Type
	case *ast.BinaryOperatorNode:
		return b.arithmeticResultType(n.LHS, n.RHS)
	case *ast.FunctionCallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok && b.Symbols != nil {
			if sym, ok := b.Symbols.Lookup(id.Name); ok {
				if fn, ok := sym.Decl.(*ast.FunctionDeclarationNode); ok {
					return fn.ReturnType
				}
			}
		}
	case *ast.MemberAccessNode:
		baseType := b.staticType(n.Object)
		if n.IsArrow {
			baseType = b.Types.Get(baseType).Elem
		}
		if _, typ, found := b.findMember(baseType, n.Member); found {
			return typ
		}
	case *ast.ArraySubscriptNode:
		arrType := b.staticType(n.Array)
		info := b.Types.Get(arrType)
		if info.Kind == types.KindPointer || info.Kind == types.KindArray {
			return info.Elem
		}
	case *ast.UnaryOperatorNode:
		if n.Op == "*" {
			info := b.Types.Get(b.staticType(n.Operand))
			if info.Kind == types.KindPointer {
				return info.Elem
			}
		}
		if n.Op == "&" {
			return b.Types.Pointer(b.staticType(n.Operand))
		}
		return b.staticType(n.Operand)
	}
	return b.Types.BuiltinIndex(types.BInt)
}

func (b *Builder) exprType(expr ast.Expr, lv ir.LValueMeta) types.Index {
	if lv.Kind != ir.NotLValue {
		return lv.Type
	}
	return b.staticType(expr)
}

// lowerTernary lowers `cond ? then : else`. Both arms write into a
// single pre-allocated result temp via OpCopy, since this IR has no
// SSA phi-node concept to unify two control-flow-dependent values.
func (b *Builder) lowerTernary(n *ast.TernaryOperatorNode) ir.TempVar {
	cond, _ := b.LowerExpr(n.Cond)
	elseLabel := b.newLabel("ternary_else")
	endLabel := b.newLabel("ternary_end")
	resultType := b.arithmeticResultType(n.Then, n.Else)
	result := b.newTemp()

	b.emit(ir.Instruction{Op: ir.OpCondBranch, CondBranch: &ir.ConditionalBranchOp{Cond: cond, TrueTarget: "", FalseTarget: elseLabel}})
	thenVal, _ := b.LowerExpr(n.Then)
	b.emit(ir.Instruction{Op: ir.OpCopy, Copy: &ir.CopyOp{Dst: result, Src: thenVal, Type: resultType}})
	b.emit(ir.Instruction{Op: ir.OpBranch, Branch: &ir.BranchOp{Target: endLabel}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: elseLabel}})
	elseVal, _ := b.LowerExpr(n.Else)
	b.emit(ir.Instruction{Op: ir.OpCopy, Copy: &ir.CopyOp{Dst: result, Src: elseVal, Type: resultType}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: endLabel}})

	return result
}
