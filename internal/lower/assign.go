package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// lowerAssignment dispatches a `lhs = rhs` or compound-assignment
// through the lvalue it resolves lhs to, a four-state machine:
// Local / Global / Member / Indirect. A compound operator
// (`+=`) is expanded into `lhs = lhs OP rhs` before dispatch so the
// store path itself stays uniform.
func (b *Builder) lowerAssignment(n *ast.BinaryOperatorNode) ir.TempVar {
	_, lv := b.LowerExpr(n.LHS)
	if lv.Kind == ir.NotLValue {
		b.errorf(n, "assignment to a non-lvalue expression")
		return 0
	}

	rhs, _ := b.LowerExpr(n.RHS)
	if n.Op != "=" {
		lhsVal, _ := b.LowerExpr(n.LHS)
		op := n.Op[:len(n.Op)-1] // "+=" -> "+"
		combined := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: combined, Op: op, Lhs: lhsVal, Rhs: rhs, Type: lv.Type}})
		rhs = combined
	}

	b.storeLValue(lv, rhs)
	return rhs
}

// storeLValue emits the one store instruction appropriate to lv.Kind.
func (b *Builder) storeLValue(lv ir.LValueMeta, src ir.TempVar) {
	switch lv.Kind {
	case ir.Local:
		b.emit(ir.Instruction{Op: ir.OpLocalStore, Local: &ir.LocalOp{Slot: lv.LocalSlot, Src: src, Type: lv.Type}})
	case ir.Global:
		b.emit(ir.Instruction{Op: ir.OpGlobalStore, Global: &ir.GlobalOp{Name: lv.Global, Src: src, Type: lv.Type}})
	case ir.Member:
		b.emit(ir.Instruction{Op: ir.OpMemberStore, MemberStore: &ir.MemberStoreOp{Base: lv.Base, ByteOffset: lv.ByteOffset, Src: src, Type: lv.Type}})
	case ir.Indirect:
		b.emit(ir.Instruction{Op: ir.OpDereferenceStore, DerefStore: &ir.DereferenceStoreOp{Pointer: lv.Base, Src: src, Type: lv.Type}})
	default:
		b.emit(ir.Instruction{Op: ir.OpAssign, Assign: &ir.AssignmentOp{Lvalue: lv, Src: src}})
	}
}

// lowerUnary handles the unary operator family: arithmetic negation,
// logical/bitwise negation, address-of, dereference, and
// increment/decrement.
func (b *Builder) lowerUnary(n *ast.UnaryOperatorNode) (ir.TempVar, ir.LValueMeta) {
	switch n.Op {
	case "&":
		return b.lowerAddressOf(n), ir.LValueMeta{}
	case "*":
		return b.lowerDereference(n)
	case "++", "--":
		return b.lowerIncDec(n), ir.LValueMeta{}
	default:
		operand, _ := b.LowerExpr(n.Operand)
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpUnary, UnaryOp: &ir.UnaryOpPayload{Dst: dst, Op: n.Op, Operand: operand, Type: b.staticType(n.Operand)}})
		return dst, ir.LValueMeta{}
	}
}

// lowerAddressOf implements `&expr` as the built-in address-of, emitting
// OpAddressOf for the operand's lvalue. No operator& overload is
// searched for, and n.IsBuiltinAddressof is not consulted.
func (b *Builder) lowerAddressOf(n *ast.UnaryOperatorNode) ir.TempVar {
	_, lv := b.LowerExpr(n.Operand)
	if lv.Kind == ir.NotLValue {
		b.errorf(n, "cannot take the address of a non-lvalue")
		return 0
	}
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: dst, Lvalue: lv}})
	return dst
}

func (b *Builder) lowerDereference(n *ast.UnaryOperatorNode) (ir.TempVar, ir.LValueMeta) {
	ptr, _ := b.LowerExpr(n.Operand)
	ptrType := b.staticType(n.Operand)
	info := b.Types.Get(ptrType)
	elemType := types.Void
	if info.Kind == types.KindPointer {
		elemType = info.Elem
	}
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpDereference, Deref: &ir.DereferenceOp{Dst: dst, Pointer: ptr, Type: elemType}})
	return dst, ir.LValueMeta{Kind: ir.Indirect, Base: ptr, Type: elemType}
}

// lowerIncDec lowers `++x`/`x++`/`--x`/`x--` to one of the four dedicated
// increment/decrement opcodes rather than a generic OpBinary expansion,
// so the backend sees the operation's shape (pointer step scaling,
// pre/post value selection) directly in the opcode instead of having to
// re-derive it from a const-load-plus-binary idiom. A pointer operand
// carries its pointee's byte size as ElemSize; an integral operand
// carries 0.
func (b *Builder) lowerIncDec(n *ast.UnaryOperatorNode) ir.TempVar {
	old, lv := b.LowerExpr(n.Operand)
	if lv.Kind == ir.NotLValue {
		b.errorf(n, "increment/decrement of a non-lvalue")
		return old
	}

	elemSize := 0
	if info := b.Types.Get(lv.Type); info.Kind == types.KindPointer {
		elemSize = b.Types.SizeBits(info.Elem) / 8
	}

	op := ir.OpPreIncrement
	switch {
	case n.Op == "++" && n.IsPostfix:
		op = ir.OpPostIncrement
	case n.Op == "++":
		op = ir.OpPreIncrement
	case n.Op == "--" && n.IsPostfix:
		op = ir.OpPostDecrement
	case n.Op == "--":
		op = ir.OpPreDecrement
	}

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: op, IncDec: &ir.IncDecOp{Dst: dst, Operand: old, Lvalue: lv, ElemSize: elemSize, Type: lv.Type}})
	return dst
}
