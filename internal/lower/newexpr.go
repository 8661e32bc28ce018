package lower

import (
	"strconv"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// lowerQualifiedIdentifier resolves `ns::name` the same way a bare name
// resolves (Step 3/4 of LowerIdentifier): this core's symbol table is
// flat, keyed by name alone, so namespace qualification narrows nothing
// lowering itself needs to re-check — overload resolution already used
// the namespace to pick the right declaration before lowering runs.
func (b *Builder) lowerQualifiedIdentifier(n *ast.QualifiedIdentifierNode) (ir.TempVar, ir.LValueMeta, bool) {
	if b.Symbols == nil {
		return 0, ir.LValueMeta{}, false
	}
	sym, ok := b.Symbols.Lookup(n.Name)
	if !ok {
		return 0, ir.LValueMeta{}, false
	}
	switch decl := sym.Decl.(type) {
	case *ast.VariableDeclarationNode:
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpGlobalLoad, Global: &ir.GlobalOp{Name: decl.MangledName, Dst: dst, Type: decl.Type}})
		return dst, ir.LValueMeta{Kind: ir.Global, Global: decl.MangledName, Type: decl.Type}, true
	case *ast.FunctionDeclarationNode:
		dst := b.newTemp()
		b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: dst, IntValue: int64(decl.MangledName), Type: b.Types.Pointer(types.Void)}})
		return dst, ir.LValueMeta{}, true
	}
	return 0, ir.LValueMeta{}, false
}

// lowerFold expands a fold expression eagerly against the pack's
// already-instantiated element names (see packElementNames): a unary
// fold over an empty pack resolves to its identity element (the
// && / || boundary cases), everything else folds pairwise left-to-right
// or right-to-left as FoldKind dictates.
func (b *Builder) lowerFold(n *ast.FoldExpressionNode) ir.TempVar {
	names := b.packElementNames(n.Pack)
	if len(names) == 0 {
		if n.FoldKind == ast.FoldBinaryLeft || n.FoldKind == ast.FoldBinaryRight {
			init, _ := b.LowerExpr(n.Init)
			return init
		}
		return b.foldIdentity(n)
	}

	elems := make([]ir.TempVar, len(names))
	for i, name := range names {
		t, _, ok := b.LowerIdentifier(&ast.IdentifierNode{Name: name})
		if !ok {
			b.errorf(n, "pack element %s not bound for fold expansion", b.Interner.View(name))
			continue
		}
		elems[i] = t
	}

	var acc ir.TempVar
	switch n.FoldKind {
	case ast.FoldUnaryLeft, ast.FoldBinaryLeft:
		start := 0
		if n.FoldKind == ast.FoldBinaryLeft {
			acc, _ = b.LowerExpr(n.Init)
		} else {
			acc = elems[0]
			start = 1
		}
		for i := start; i < len(elems); i++ {
			acc = b.foldStep(n.Op, acc, elems[i])
		}
	default: // FoldUnaryRight, FoldBinaryRight
		end := len(elems)
		if n.FoldKind == ast.FoldBinaryRight {
			acc, _ = b.LowerExpr(n.Init)
		} else {
			acc = elems[end-1]
			end--
		}
		for i := end - 1; i >= 0; i-- {
			acc = b.foldStep(n.Op, elems[i], acc)
		}
	}
	return acc
}

func (b *Builder) foldStep(op string, lhs, rhs ir.TempVar) ir.TempVar {
	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: dst, Op: op, Lhs: lhs, Rhs: rhs, Type: b.Types.BuiltinIndex(types.BInt)}})
	return dst
}

// foldIdentity resolves the empty-pack boundary cases the standard
// defines for a unary fold: `(... && pack)` over zero elements is
// `true`, `(... || pack)` is `false`; any other operator over an empty
// pack is ill-formed, represented here as a zero placeholder since this
// core never reaches codegen for a program that failed that check.
func (b *Builder) foldIdentity(n *ast.FoldExpressionNode) ir.TempVar {
	dst := b.newTemp()
	boolType := b.Types.BuiltinIndex(types.BBool)
	switch n.Op {
	case "&&":
		return b.constTemp(dst, 1, boolType)
	case "||":
		return b.constTemp(dst, 0, boolType)
	default:
		return b.constTemp(dst, 0, b.Types.BuiltinIndex(types.BInt))
	}
}

// packElementNames recovers the indexed identifiers
// template.ExpandPackNames assigned a pack parameter at instantiation
// (`args` -> `args_0, args_1, ...`), probing upward until a name
// resolves to neither a local nor a global — the count itself is not
// threaded through to lowering, only the bound declarations are.
func (b *Builder) packElementNames(pack intern.Handle) []intern.Handle {
	base := b.Interner.View(pack)
	var names []intern.Handle
	for i := 0; ; i++ {
		name := b.Interner.Intern(base + "_" + strconv.Itoa(i))
		if _, ok := b.locals[name]; ok {
			names = append(names, name)
			continue
		}
		if b.Symbols != nil {
			if _, ok := b.Symbols.Lookup(name); ok {
				names = append(names, name)
				continue
			}
		}
		break
	}
	return names
}

// lowerConstructorCall lowers `T(args)` / `T{args}` for a class type T:
// the object is constructed into a fresh anonymous local, with args
// passed to the constructor the same way lowerMemberCall passes an
// implicit `this`.
func (b *Builder) lowerConstructorCall(n *ast.ConstructorCallNode) ir.TempVar {
	slot := b.nextLocal
	b.nextLocal++
	thisPtr := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpAddressOf, AddressOf: &ir.AddressOfOp{Dst: thisPtr, Lvalue: ir.LValueMeta{Kind: ir.Local, LocalSlot: slot, Type: n.Type}}})

	args := make([]ir.TempVar, len(n.Args)+1)
	args[0] = thisPtr
	for i, a := range n.Args {
		v, _ := b.LowerExpr(a)
		args[i+1] = v
	}

	ctorName := b.constructorMangledName(n.Type)
	b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{MangledName: ctorName, Args: args}})

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpLocalLoad, Local: &ir.LocalOp{Slot: slot, Dst: dst, Type: n.Type}})
	return dst
}

// constructorMangledName names a class T's constructor as T::T, the
// simplest mangling this core's Mangler supports for a special member
// (it has no dedicated C1/C2 Itanium encoding).
func (b *Builder) constructorMangledName(typ types.Index) intern.Handle {
	info := b.Types.Get(typ)
	className := b.Interner.View(info.Name)
	mangled := b.Mangler.MemberFunctionName(nil, className, className, nil, false)
	return b.Interner.Intern(mangled)
}

// lowerNewExpression lowers `new T(args)` to an `operator new` call
// sized to T (times the length for `new T[n]`), followed by an in-place
// constructor call on the returned storage when T is a class type and
// no array length is given. With placement args, no `operator new` call
// is emitted: the first placement argument is used as the storage.
func (b *Builder) lowerNewExpression(n *ast.NewExpressionNode) ir.TempVar {
	elemSize := b.Types.SizeBits(n.Type) / 8
	count := int64(1)
	var arrLen ir.TempVar
	hasArrLen := false
	if n.ArrayLen != nil {
		arrLen, _ = b.LowerExpr(n.ArrayLen)
		hasArrLen = true
	}

	var storage ir.TempVar
	ptrType := b.Types.Pointer(n.Type)

	if len(n.PlacementArgs) > 0 {
		storage, _ = b.LowerExpr(n.PlacementArgs[0])
	} else {
		sizeTemp := b.newTemp()
		if hasArrLen {
			elemSizeTemp := b.newTemp()
			b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: elemSizeTemp, IntValue: int64(elemSize), Type: b.Types.BuiltinIndex(types.BUnsignedLong)}})
			b.emit(ir.Instruction{Op: ir.OpBinary, BinaryOp: &ir.BinaryOp{Dst: sizeTemp, Op: "*", Lhs: arrLen, Rhs: elemSizeTemp, Type: b.Types.BuiltinIndex(types.BUnsignedLong)}})
		} else {
			b.emit(ir.Instruction{Op: ir.OpConst, Const: &ir.ConstOp{Dst: sizeTemp, IntValue: int64(elemSize) * count, Type: b.Types.BuiltinIndex(types.BUnsignedLong)}})
		}
		storage = b.newTemp()
		opNew := b.operatorNewMangledName()
		b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{Dst: storage, HasDst: true, MangledName: opNew, Args: []ir.TempVar{sizeTemp}}})
	}

	if b.Types.Get(n.Type).Kind == types.KindStruct && !hasArrLen {
		args := make([]ir.TempVar, len(n.CtorArgs)+1)
		args[0] = storage
		for i, a := range n.CtorArgs {
			v, _ := b.LowerExpr(a)
			args[i+1] = v
		}
		ctorName := b.constructorMangledName(n.Type)
		b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{MangledName: ctorName, Args: args}})
	}

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpCopy, Copy: &ir.CopyOp{Dst: dst, Src: storage, Type: ptrType}})
	return dst
}

// lowerDeleteExpression lowers `delete p` / `delete[] p` to a call to
// `operator delete`, skipping destructor invocation (this core does not
// model destructor bodies as a distinct lowering path from regular
// member functions beyond what calls.go already provides).
func (b *Builder) lowerDeleteExpression(n *ast.DeleteExpressionNode) {
	ptr, _ := b.LowerExpr(n.Operand)
	opDelete := b.operatorDeleteMangledName()
	b.emit(ir.Instruction{Op: ir.OpCall, Call: &ir.CallOp{MangledName: opDelete, Args: []ir.TempVar{ptr}}})
}

func (b *Builder) operatorNewMangledName() intern.Handle {
	mangled := b.Mangler.FunctionName(nil, "operator new", []types.Index{b.Types.BuiltinIndex(types.BUnsignedLong)}, types.LinkageCpp)
	return b.Interner.Intern(mangled)
}

func (b *Builder) operatorDeleteMangledName() intern.Handle {
	mangled := b.Mangler.FunctionName(nil, "operator delete", []types.Index{b.Types.Pointer(types.Void)}, types.LinkageCpp)
	return b.Interner.Intern(mangled)
}

// lowerTypeTrait constant-folds `__is_X(Args...)` / `__has_X(Args...)`
// to a bool literal.
func (b *Builder) lowerTypeTrait(n *ast.TypeTraitExprNode) ir.TempVar {
	dst := b.newTemp()
	v := evalTypeTrait(b.Types, n.Trait, n.Args)
	iv := int64(0)
	if v {
		iv = 1
	}
	return b.constTemp(dst, iv, b.Types.BuiltinIndex(types.BBool))
}

// evalTypeTrait answers the handful of __is_X intrinsics this core can
// decide from TypeInfo.Kind alone. A __has_X trait (trivial special
// members, finality) needs per-member metadata this core doesn't track,
// so it conservatively answers true rather than silently miscompiling a
// program that gates on it.
func evalTypeTrait(tys *types.Registry, trait string, args []types.Index) bool {
	if len(args) == 0 {
		return false
	}
	info := tys.Get(args[0])
	switch trait {
	case "__is_void":
		return info.Kind == types.KindBuiltin && info.Builtin == types.BVoid
	case "__is_pointer":
		return info.Kind == types.KindPointer
	case "__is_reference":
		return info.Kind == types.KindReference
	case "__is_array":
		return info.Kind == types.KindArray
	case "__is_class":
		return info.Kind == types.KindStruct
	case "__is_enum":
		return info.Kind == types.KindEnum
	case "__is_same":
		return len(args) == 2 && args[0] == args[1]
	default:
		return true
	}
}
