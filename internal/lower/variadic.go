package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// System V x86-64 va_list layout (a 24-byte struct): gp_offset at byte
// 0, fp_offset at byte 4, overflow_arg_area at byte 8, reg_save_area at
// byte 16. Windows x64 has no such struct — va_list is a bare pointer
// there, walked by pointer arithmetic alone, so these offsets apply
// only when Builder.ABI == ABISystemV.
const (
	vaListGPOffset           = 0
	vaListFPOffset           = 4
	vaListOverflowAreaOffset = 8
	vaListRegSaveAreaOffset  = 16
)

// builtinName recognizes a call's callee as one of the compiler
// intrinsics this core special-cases, returning "" for an ordinary
// call.
func (b *Builder) builtinName(callee ast.Expr) string {
	id, ok := callee.(*ast.IdentifierNode)
	if !ok {
		return ""
	}
	return b.Interner.View(id.Name)
}

// tryLowerBuiltinCall intercepts calls to compiler intrinsics before
// ordinary overload-resolved lowering; lowerCall defers to this first.
func (b *Builder) tryLowerBuiltinCall(n *ast.FunctionCallNode) (ir.TempVar, bool, bool) {
	switch b.builtinName(n.Callee) {
	case "__builtin_va_start":
		b.lowerVaStart(n)
		return 0, false, true
	case "__builtin_va_arg":
		return b.lowerVaArg(n), true, true
	case "__builtin_labs", "__builtin_llabs":
		return b.lowerBuiltinAbs(n, types.BLong), true, true
	case "__builtin_fabs":
		return b.lowerBuiltinAbs(n, types.BDouble), true, true
	case "__builtin_unreachable":
		b.emit(ir.Instruction{Op: ir.OpReturn, Return: &ir.ReturnOp{}})
		return 0, false, true
	case "__builtin_assume", "__builtin_expect":
		v, _ := b.LowerExpr(n.Args[0])
		return v, true, true
	case "__builtin_addressof":
		_, lv := b.LowerExpr(n.Args[0])
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: dst, Lvalue: lv}})
		return dst, true, true
	}
	return 0, false, false
}

// lowerVaStart initializes the va_list named by the call's first
// argument. On Windows x64, va_list is a bare pointer and va_start just
// forwards it past the last named parameter. On System V, va_list is
// the 24-byte struct described above, already filled in by the
// function prologue (__varargs_va_list_struct__); va_start only has to
// point the caller's va_list lvalue at it.
func (b *Builder) lowerVaStart(n *ast.FunctionCallNode) {
	vaList, vaListLV := b.LowerExpr(n.Args[0])
	lastFixed, _ := b.LowerExpr(n.Args[1])

	if b.ABI == ABIWindowsX64 {
		b.emit(ir.Instruction{Op: ir.OpVaStart, VaStart: &ir.VaStartOp{VaList: vaList, LastFixed: lastFixed}})
		return
	}

	if vaListLV.Kind == ir.NotLValue {
		b.errorf(n, "va_start's first argument must be an lvalue")
		return
	}
	structAddr := b.newTemp()
	structLV := ir.LValueMeta{Kind: ir.Global, Global: b.Interner.Intern("__varargs_va_list_struct__"), Type: types.Void}
	b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: structAddr, Lvalue: structLV}})
	b.storeLValue(vaListLV, structAddr)
	b.emit(ir.Instruction{Op: ir.OpVaStart, VaStart: &ir.VaStartOp{VaList: vaList, LastFixed: lastFixed}})
}

// lowerVaArg lowers `__builtin_va_arg(list, T)`, reading the next
// variadic argument of the type given by the call node's single
// explicit template argument (FunctionCallNode.TemplateArgs), or
// types.Void when there is none. Package parser never fills
// TemplateArgs on a call node.
//
// On Windows x64, va_list is a bare pointer: read the value at the
// pointer, then advance it by 8 bytes (every slot, including small and
// floating types, is padded to a register-width stack slot).
//
// On System V, the two ABI classes are split into an integer class
// (read through gp_offset, limit 48, step 8) and an SSE class (read
// through fp_offset, limit 176, step 16); each checks its offset
// against the limit and branches to either the register-save-area path
// or the overflow-area path, converging on a single result temp.
func (b *Builder) lowerVaArg(n *ast.FunctionCallNode) ir.TempVar {
	vaList, _ := b.LowerExpr(n.Args[0])
	argType := types.Void
	if len(n.TemplateArgs) == 1 {
		argType = b.staticType(n.TemplateArgs[0])
	}

	if b.ABI == ABIWindowsX64 {
		return b.lowerVaArgWindows(vaList, argType)
	}
	return b.lowerVaArgSystemV(vaList, argType)
}

func (b *Builder) lowerVaArgWindows(vaList ir.TempVar, argType types.Index) ir.TempVar {
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: dst, Pointer: vaList, Type: argType}})

	advanced := b.newTemp()
	eight := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: eight, IntValue: 8, Type: b.Types.BuiltinIndex(types.BUnsignedLong)}})
	b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: advanced, Base: vaList, Index: eight, ElemSize: 1}})
	b.emit(ir.Instruction{Op: ir.OpVaArg, VaArg: &ir.VaArgOp{Dst: dst, VaList: advanced, Type: argType}})
	return dst
}

func (b *Builder) lowerVaArgSystemV(vaList ir.TempVar, argType types.Index) ir.TempVar {
	isFloat := false
	if info := b.Types.Get(argType); info.Kind == types.KindBuiltin {
		isFloat = info.Builtin.IsFloating()
	}

	fieldOffset, limit, step := vaListGPOffset, 48, 8
	if isFloat {
		fieldOffset, limit, step = vaListFPOffset, 176, 16
	}

	uintTy := b.Types.BuiltinIndex(types.BUnsignedInt)
	ptrTy := b.Types.Pointer(types.Void)

	offsetAddr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpComputeAddress, ComputeAddr: &ir.ComputeAddressOp{Dst: offsetAddr, Base: vaList, Offset: fieldOffset}})
	offsetVal := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: offsetVal, Pointer: offsetAddr, Type: uintTy}})

	limitConst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: limitConst, IntValue: int64(limit), Type: uintTy}})
	fits := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: fits, Op: "<", Lhs: offsetVal, Rhs: limitConst, Type: b.Types.BuiltinIndex(types.BBool)}})

	overflowLabel := b.newLabel("va_arg_overflow")
	endLabel := b.newLabel("va_arg_end")
	result := b.newTemp()

	// Register-save-area path (falls through when fits is true).
	b.emit(ir.Instruction{Op: ir.OpCondBranch, CondBranch: &ir.ConditionalBranchOp{Cond: fits, TrueTarget: "", FalseTarget: overflowLabel}})

	regSaveAddr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpComputeAddress, ComputeAddr: &ir.ComputeAddressOp{Dst: regSaveAddr, Base: vaList, Offset: vaListRegSaveAreaOffset}})
	regSavePtr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: regSavePtr, Pointer: regSaveAddr, Type: ptrTy}})
	regValAddr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: regValAddr, Base: regSavePtr, Index: offsetVal, ElemSize: 1}})
	regVal := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: regVal, Pointer: regValAddr, Type: argType}})
	b.emit(ir.Instruction{Op: ir.OpCopy, Copy: &ir.CopyOp{Dst: result, Src: regVal, Type: argType}})

	stepConst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: stepConst, IntValue: int64(step), Type: uintTy}})
	newOffset := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: newOffset, Op: "+", Lhs: offsetVal, Rhs: stepConst, Type: uintTy}})
	b.emit(ir.Instruction{Op: ir.OpDereferenceStore, DerefStore: &ir.DereferenceStoreOp{Pointer: offsetAddr, Src: newOffset, Type: uintTy}})
	b.emit(ir.Instruction{Op: ir.OpBranch, Branch: &ir.BranchOp{Target: endLabel}})

	// Overflow-area path: the argument already spilled to the stack by
	// the caller, walked by a plain pointer that always advances 8.
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: overflowLabel}})
	overflowAddr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpComputeAddress, ComputeAddr: &ir.ComputeAddressOp{Dst: overflowAddr, Base: vaList, Offset: vaListOverflowAreaOffset}})
	overflowPtr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: overflowPtr, Pointer: overflowAddr, Type: ptrTy}})
	overflowVal := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: overflowVal, Pointer: overflowPtr, Type: argType}})
	b.emit(ir.Instruction{Op: ir.OpCopy, Copy: &ir.CopyOp{Dst: result, Src: overflowVal, Type: argType}})

	overflowStep := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: overflowStep, IntValue: 8, Type: uintTy}})
	newOverflowPtr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpArrayElementAddress, ArrayElem: &ir.ArrayElementAddressOp{Dst: newOverflowPtr, Base: overflowPtr, Index: overflowStep, ElemSize: 1}})
	b.emit(ir.Instruction{Op: ir.OpDereferenceStore, DerefStore: &ir.DereferenceStoreOp{Pointer: overflowAddr, Src: newOverflowPtr, Type: ptrTy}})

	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: endLabel}})
	return result
}

func (b *Builder) lowerBuiltinAbs(n *ast.FunctionCallNode, builtin types.Builtin) ir.TempVar {
	v, _ := b.LowerExpr(n.Args[0])
	typ := b.Types.BuiltinIndex(builtin)
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpUnary, UnaryOp: &ir.UnaryOpPayload{Dst: dst, Op: "__abs", Operand: v, Type: typ}})
	return dst
}
