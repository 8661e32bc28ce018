package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// lowerCall lowers a free-function (or function-pointer) call. The
// callee's mangled name is resolved earlier, during overload
// resolution/SFINAE (package overload, package constraint); lowering
// only has to read FunctionCallNode.MangledName and emit the args in
// order, left to right.
func (b *Builder) lowerCall(n *ast.FunctionCallNode) (ir.TempVar, bool) {
	if v, hasVal, handled := b.tryLowerBuiltinCall(n); handled {
		return v, hasVal
	}

	args := make([]ir.TempVar, len(n.Args))
	for i, a := range n.Args {
		v, _ := b.LowerExpr(a)
		args[i] = v
	}

	retType := b.staticType(n)
	call := &ir.CallOp{MangledName: n.MangledName, Args: args}

	if b.isLargeAggregate(retType) {
		slot := b.newTemp()
		call.ReturnSlot = slot
		call.HasReturnSlot = true
		b.emit(ir.Instruction{Op: ir.OpCall, Call: call})
		return slot, true
	}

	dst := b.newTemp()
	call.Dst = dst
	call.HasDst = true
	b.emit(ir.Instruction{Op: ir.OpCall, Call: call})
	return dst, true
}

// lowerMemberCall lowers `obj.m(args)` / `obj->m(args)`. The object
// operand is always lowered to an address: value-semantics objects
// decay through AddressOf, pointer-semantics objects (IsArrow) are
// already addresses, so the callee always receives an implicit `this`
// as the first argument.
func (b *Builder) lowerMemberCall(n *ast.MemberFunctionCallNode) ir.TempVar {
	var thisPtr ir.TempVar
	if n.IsArrow {
		thisPtr, _ = b.LowerExpr(n.Object)
	} else {
		_, lv := b.LowerExpr(n.Object)
		if lv.Kind == ir.NotLValue {
			b.errorf(n, "member call on a non-addressable temporary")
		}
		thisPtr = b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: thisPtr, Lvalue: lv}})
	}

	args := make([]ir.TempVar, len(n.Args)+1)
	args[0] = thisPtr
	for i, a := range n.Args {
		v, _ := b.LowerExpr(a)
		args[i+1] = v
	}

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{Dst: dst, HasDst: true, MangledName: n.MangledName, Args: args}})
	return dst
}

// lowerMemberAccess lowers `obj.m` / `obj->m` for a data member. Arrow
// access reads the pointer value first; dot access takes the object's
// address so member loads always go through one uniform
// base-plus-offset instruction.
func (b *Builder) lowerMemberAccess(n *ast.MemberAccessNode) (ir.TempVar, ir.LValueMeta) {
	var base ir.TempVar
	var baseClass types.Index

	if n.IsArrow {
		base, _ = b.LowerExpr(n.Object)
		baseClass = b.Types.Get(b.staticType(n.Object)).Elem
	} else {
		_, lv := b.LowerExpr(n.Object)
		baseClass = lv.Type
		if lv.Kind == ir.Member {
			// Chained member access (`a.b.c`): reuse the address already
			// computed for `a.b` rather than re-lowering `a.b` as a value
			// and re-taking its address.
			addr := b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpComputeAddress, ComputeAddr: &ir.ComputeAddressOp{Dst: addr, Base: lv.Base, Offset: lv.ByteOffset}})
			base = addr
		} else {
			base = b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: base, Lvalue: lv}})
		}
	}

	offset, typ, found := b.findMember(baseClass, n.Member)
	if !found {
		b.errorf(n, "no such member")
	}

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpMemberLoad, MemberLoad: &ir.MemberLoadOp{Dst: dst, Base: base, ByteOffset: offset, Type: typ}})
	return dst, ir.LValueMeta{Kind: ir.Member, Base: base, MemberName: n.Member, ByteOffset: offset, Type: typ}
}

// lowerArraySubscript lowers `arr[i]`, scaling the index by the
// element's size.
func (b *Builder) lowerArraySubscript(n *ast.ArraySubscriptNode) (ir.TempVar, ir.LValueMeta) {
	arr, arrLV := b.LowerExpr(n.Array)
	idx, _ := b.LowerExpr(n.Index)

	arrType := b.exprType(n.Array, arrLV)
	info := b.Types.Get(arrType)
	elemType := info.Elem
	if info.Kind != types.KindPointer && info.Kind != types.KindArray {
		elemType = types.Void
	}
	elemSize := b.Types.SizeBits(elemType) / 8

	base := arr
	if info.Kind == types.KindArray {
		// An array lvalue decays to its address before indexing.
		base = b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: base, Lvalue: arrLV}})
	}

	addr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: addr, Base: base, Index: idx, ElemSize: elemSize}})

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: dst, Pointer: addr, Type: elemType}})
	return dst, ir.LValueMeta{Kind: ir.Indirect, Base: addr, Type: elemType}
}

// tryLowerPointerArithmetic intercepts `ptr + n`, `n + ptr`, `ptr - n`
// and `ptr - ptr` before the generic OpBinary path, since these need
// element-size scaling (or, for ptr-ptr, descaling) that a plain
// binary op has no way to express.
func (b *Builder) tryLowerPointerArithmetic(n *ast.BinaryOperatorNode, lhs, rhs ir.TempVar, lhsType types.Index) (ir.TempVar, bool) {
	if n.Op != "+" && n.Op != "-" {
		return 0, false
	}

	lhsInfo := b.Types.Get(lhsType)
	rhsType := b.staticType(n.RHS)
	rhsInfo := b.Types.Get(rhsType)

	switch {
	case lhsInfo.Kind == types.KindPointer && rhsInfo.Kind == types.KindPointer && n.Op == "-":
		elemSize := b.Types.SizeBits(lhsInfo.Elem) / 8
		diff := b.newTemp()
		longType := b.Types.BuiltinIndex(types.BLong)
		b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: diff, Op: "-", Lhs: lhs, Rhs: rhs, Type: longType}})
		if elemSize <= 1 {
			return diff, true
		}
		size := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: size, IntValue: int64(elemSize), Type: longType}})
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: dst, Op: "/", Lhs: diff, Rhs: size, Type: longType}})
		return dst, true

	case lhsInfo.Kind == types.KindPointer && rhsInfo.Kind != types.KindPointer:
		elemSize := b.Types.SizeBits(lhsInfo.Elem) / 8
		idx := rhs
		if n.Op == "-" {
			idx = b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpUnary, UnaryOp: &ir.UnaryOpPayload{Dst: idx, Op: "-", Operand: rhs, Type: rhsType}})
		}
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: dst, Base: lhs, Index: idx, ElemSize: elemSize}})
		return dst, true

	case rhsInfo.Kind == types.KindPointer && lhsInfo.Kind != types.KindPointer && n.Op == "+":
		elemSize := b.Types.SizeBits(rhsInfo.Elem) / 8
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: dst, Base: rhs, Index: lhs, ElemSize: elemSize}})
		return dst, true
	}

	return 0, false
}

// isLargeAggregate reports whether a return type takes the
// caller-allocated return-slot ABI path instead of returning by value
// in a register-sized TempVar.
func (b *Builder) isLargeAggregate(t types.Index) bool {
	info := b.Types.Get(t)
	return info.Kind == types.KindStruct && b.Types.SizeBits(t) > 128
}
