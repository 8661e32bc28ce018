package lower

import (
	"fmt"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// lowerLambda synthesizes the closure type for a lambda expression and
// constructs one instance, capturing each named entity into a member of
// the same name. It builds only the capture object at the use site: the
// lambda's operator() body is not lowered to IR, neither here nor by
// package compiler.
func (b *Builder) lowerLambda(n *ast.LambdaExpressionNode) ir.TempVar {
	closureType := n.ClosureType
	if closureType == types.Void {
		closureType = b.declareClosureType(n)
		n.ClosureType = closureType
	}

	slotName := b.Interner.Intern(fmt.Sprintf("__lambda_tmp%d", b.lambdaSeq))
	slot := b.DeclareLocal(slotName, closureType)

	info := b.Types.Get(closureType)
	for _, m := range info.Struct.Members {
		cap, ok := findCapture(n, m.Name)
		if !ok {
			continue
		}

		var val ir.TempVar
		switch {
		case cap.InitExpr != nil:
			val, _ = b.LowerExpr(cap.InitExpr)
		case cap.ByRef:
			_, lv := b.lowerCaptureSource(cap.Name)
			val = b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: val, Lvalue: lv}})
		default:
			val, _ = b.lowerCaptureSource(cap.Name)
		}

		thisAddr := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: slot, Dst: thisAddr, Type: b.Types.Pointer(closureType)}})
		b.emit(ir.Instruction{Op: ir.OpMemberStore, MemberStore: &ir.MemberStoreOp{Base: thisAddr, ByteOffset: m.ByteOffset, Src: val, Type: m.Type}})
	}

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: slot, Dst: dst, Type: closureType}})
	return dst
}

// lowerCaptureSource reads the enclosing scope's local/parameter a
// by-value or by-reference capture names, bypassing LowerIdentifier's
// member/global fallbacks since a capture always names something
// already in scope at the lambda's definition point.
func (b *Builder) lowerCaptureSource(name intern.Handle) (ir.TempVar, ir.LValueMeta) {
	slot, ok := b.locals[name]
	if !ok {
		return 0, ir.LValueMeta{}
	}
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: slot.slot, Dst: dst, Type: slot.typ}})
	return dst, ir.LValueMeta{Kind: ir.Local, LocalSlot: slot.slot, Type: slot.typ}
}

func findCapture(n *ast.LambdaExpressionNode, name intern.Handle) (ast.LambdaCapture, bool) {
	for _, c := range n.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return ast.LambdaCapture{}, false
}

// declareClosureType registers the anonymous struct backing a lambda:
// one member per explicit capture (by value or, for by-reference
// captures, a pointer member), laid out immediately since a closure's
// size is always known at its use site.
func (b *Builder) declareClosureType(n *ast.LambdaExpressionNode) types.Index {
	b.lambdaSeq++
	name := b.Interner.Intern(fmt.Sprintf("__lambda_%d", b.lambdaSeq))
	idx := b.Types.DeclareStruct(name)
	info := b.Types.Get(idx)

	for _, cap := range n.Captures {
		if cap.IsThis {
			continue
		}
		info.Struct.Members = append(info.Struct.Members, types.StructMember{
			Name: cap.Name,
			Type: b.captureType(cap),
		})
	}

	b.Types.ComputeLayout(idx)
	return idx
}

func (b *Builder) captureType(cap ast.LambdaCapture) types.Index {
	if cap.InitExpr != nil {
		return b.staticType(cap.InitExpr)
	}
	base := types.Void
	if slot, ok := b.locals[cap.Name]; ok {
		base = slot.typ
	}
	if cap.ByRef {
		return b.Types.Pointer(base)
	}
	return base
}
