package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// thisLocalIndex is the reserved local slot a non-static member
// function's receiver occupies: LowerFunction (stmt.go) declares `this`
// before any parameter, so it lands in slot 0.
const thisLocalIndex = 0

// LowerIdentifier resolves a bare name to a TempVar loaded with its
// current value, walking the resolution cascade in order: a
// local/parameter wins over an implicit member of `this`,
// which wins over a namespace-scope global, which wins over a function
// designator. A function name resolves to a designator TempVar holding
// its mangled name as an opaque constant (no load is emitted; OpCall
// consumes the mangled name directly) since C++ function values decay
// to pointers only when actually used as a value — callers needing that
// handle it explicitly via &.
func (b *Builder) LowerIdentifier(n *ast.IdentifierNode) (ir.TempVar, ir.LValueMeta, bool) {
	// Step 1: local variable or parameter.
	if slot, ok := b.locals[n.Name]; ok {
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: slot.slot, Dst: dst, Type: slot.typ}})
		return dst, ir.LValueMeta{Kind: ir.Local, LocalSlot: slot.slot, Type: slot.typ}, true
	}

	// Step 2: implicit member of `this`, inside a non-static member
	// function body (the receiver occupies local slot 0 — see
	// thisLocalIndex).
	if b.CurrentClass != types.Void {
		if offset, typ, found := b.findMember(b.CurrentClass, n.Name); found {
			thisPtr := b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: thisLocalIndex, Dst: thisPtr, Type: b.Types.Pointer(b.CurrentClass)}})
			dst := b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpMemberLoad, MemberLoad: &ir.MemberLoadOp{Dst: dst, Base: thisPtr, ByteOffset: offset, Type: typ}})
			return dst, ir.LValueMeta{Kind: ir.Member, Base: thisPtr, MemberName: n.Name, ByteOffset: offset, Type: typ}, true
		}
	}

	// Step 3: a symtab entry naming a global variable or a function.
	if b.Symbols != nil {
		if sym, ok := b.Symbols.Lookup(n.Name); ok {
			switch decl := sym.Decl.(type) {
			case *ast.VariableDeclarationNode:
				mangled := decl.MangledName
				dst := b.newTemp()
				b.emit(ir.Instruction{Op: ir.OpGlobalLoad, Global: &ir.GlobalOp{Name: mangled, Dst: dst, Type: decl.Type}})
				return dst, ir.LValueMeta{Kind: ir.Global, Global: mangled, Type: decl.Type}, true

			case *ast.FunctionDeclarationNode:
				// Step 4: a function name used as a value is a designator.
				// Lowering a call expression short-circuits LowerIdentifier
				// entirely (see calls.go); reaching here means the name is
				// being taken by address or passed as a function pointer.
				dst := b.newTemp()
				b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: dst, IntValue: int64(decl.MangledName), Type: b.Types.Pointer(types.Void)}})
				return dst, ir.LValueMeta{}, true
			}
		}
	}

	// Step 5: an enumerator constant. The parser's name-lookup
	// collaborator resolves these to a NumericLiteralNode at parse time
	// (enumerators are pure constants, never lvalues), so a bare
	// IdentifierNode reaching lowering unresolved at this point is
	// genuinely unbound.
	return 0, ir.LValueMeta{}, false
}

// findMember looks name up among class's data members, returning its
// byte offset and type. The identifier cascade's implicit-member step
// calls it with b.CurrentClass, which LowerFunction sets for a
// non-static member function (types.Void for a free function).
func (b *Builder) findMember(class types.Index, name intern.Handle) (offset int, typ types.Index, found bool) {
	info := b.Types.Get(class)
	if info.Struct == nil {
		return 0, types.Void, false
	}
	for _, m := range info.Struct.Members {
		if m.Name == name {
			return m.ByteOffset, m.Type, true
		}
	}
	return 0, types.Void, false
}
