package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// relationalFromSpaceship is the set of relational operators FlashCpp's
// CodeGen_Expressions.cpp synthesizes from a single user-provided
// operator<=>, rather than requiring four separate overloads.
var relationalFromSpaceship = map[string]bool{
	"<": true, "<=": true, ">": true, ">=": true,
}

// tryLowerSpaceshipRewrite rewrites `lhs < rhs` (and <=, >, >=) into a
// call to the class's operator<=> followed by a comparison of the
// resulting ordering against zero, when the left operand is a struct
// declaring that operator. It reports ok=false so the caller falls back
// to a built-in comparison for every other operand shape.
func (b *Builder) tryLowerSpaceshipRewrite(n *ast.BinaryOperatorNode) (ir.TempVar, bool) {
	if !relationalFromSpaceship[n.Op] {
		return 0, false
	}
	lhsType := b.staticType(n.LHS)
	info := b.Types.Get(lhsType)
	if info.Kind != types.KindStruct || info.Struct == nil {
		return 0, false
	}
	mf, found := findOperatorOverload(info.Struct, "<=>")
	if !found {
		return 0, false
	}

	_, lhsLV := b.LowerExpr(n.LHS)
	if lhsLV.Kind == ir.NotLValue {
		b.errorf(n, "operator<=> call on a non-addressable temporary")
	}
	thisPtr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: thisPtr, Lvalue: lhsLV}})
	rhs, _ := b.LowerExpr(n.RHS)

	ordering := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{
		Dst: ordering, HasDst: true, MangledName: mf.MangledName, Args: []ir.TempVar{thisPtr, rhs},
	}})

	zero := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: zero, IntValue: 0, Type: mf.ReturnType}})

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{
		Dst: dst, Op: n.Op, Lhs: ordering, Rhs: zero, Type: b.Types.BuiltinIndex(types.BBool),
	}})
	return dst, true
}

func findOperatorOverload(s *types.StructTypeInfo, symbol string) (types.MemberFunction, bool) {
	for _, mf := range s.MemberFuncs {
		if mf.IsOperatorOverload && mf.OperatorSymbol == symbol {
			return mf, true
		}
	}
	return types.MemberFunction{}, false
}
