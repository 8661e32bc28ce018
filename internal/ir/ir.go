// Package ir is the three-address intermediate representation that
// expression lowering produces: TempVar-based instructions with
// explicit lvalue metadata, rather than a stack machine.
package ir

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// TempVar identifies one IR temporary. Temporaries are numbered
// sequentially within a function body by the lowering pass's allocator
// and never reused, so a TempVar is valid for the whole function once
// issued.
type TempVar int

// LValueKind discriminates how a TempVar that denotes an lvalue is
// actually addressed — the four-state machine assignment lowering
// dispatches on:
//
//   - Local:    a stack slot, addressed directly by frame index
//   - Global:   a mangled global symbol, addressed by name
//   - Member:   `base.member` / `base->member`, addressed via base + offset
//   - Indirect: `*ptr`, addressed by dereferencing a pointer TempVar
type LValueKind int

const (
	NotLValue LValueKind = iota
	Local
	Global
	Member
	Indirect
)

// LValueMeta is attached to a TempVar that denotes an lvalue (or
// glvalue), recording enough to lower an assignment, address-of, or
// compound-assignment through it without re-walking the originating
// expression.
type LValueMeta struct {
	Kind LValueKind

	LocalSlot int           // valid when Kind == Local
	Global    intern.Handle // valid when Kind == Global

	Base       TempVar       // valid when Kind == Member or Indirect: the base pointer/object
	MemberName intern.Handle // valid when Kind == Member
	ByteOffset int           // valid when Kind == Member: the member's byte offset in Base

	Type types.Index
}

// Opcode enumerates every IR operation this core lowers to. The JSON
// dump (dump.go), its snapshot test in this package, and cmd/cppfe's
// `lower --json` output record each opcode by name (opcodeName), not by
// its integer value; new opcodes are appended, never inserted.
type Opcode int

const (
	// OpConst loads an immediate constant into Dst. Payload: ConstOp.
	OpConst Opcode = iota

	// OpLocalLoad reads a stack-local slot into Dst. Payload: LocalOp.
	OpLocalLoad
	// OpLocalStore writes Src into a stack-local slot. Payload: LocalOp.
	OpLocalStore

	// OpGlobalLoad reads a mangled global symbol into Dst. Payload: GlobalOp.
	OpGlobalLoad
	// OpGlobalStore writes Src into a mangled global symbol. Payload: GlobalOp.
	OpGlobalStore

	// OpBinary computes Dst = Lhs Op Rhs for a built-in arithmetic,
	// comparison, or bitwise operator. Payload: BinaryOp.
	OpBinary

	// OpUnary computes Dst = Op Operand (negation, bitwise-not,
	// logical-not). Increment and decrement have their own opcodes
	// (OpPreIncrement and the three after it). Payload: UnaryOp.
	OpUnary

	// OpCall invokes a resolved function, mangled name already fixed by
	// overload resolution, binding the return value (if any) to Dst.
	// Payload: CallOp.
	OpCall

	// OpMemberLoad reads `Base.Member` (or `Base->Member` once Base has
	// already been dereferenced to an object TempVar) into Dst. Payload:
	// MemberLoadOp.
	OpMemberLoad
	// OpMemberStore writes Src into `Base.Member`. Payload: MemberStoreOp.
	OpMemberStore

	// OpDereference reads through a pointer TempVar into Dst (`*ptr`).
	// Payload: DereferenceOp.
	OpDereference
	// OpDereferenceStore writes Src through a pointer TempVar (`*ptr = v`).
	// Payload: DereferenceStoreOp.
	OpDereferenceStore

	// OpAddressOf computes the address of an lvalue TempVar into Dst
	// (`&x`). Payload: AddressOfOp.
	OpAddressOf

	// OpArrayElementAddress computes `&arr[i]` with pointer-arithmetic
	// scaling by the element size, into Dst. Payload: ArrayElementAddressOp.
	OpArrayElementAddress

	// OpComputeAddress computes a raw byte-offset address from a base
	// pointer TempVar, used to address a member lvalue's storage (base +
	// byte offset) and the fields of a System V va_list. Payload:
	// ComputeAddressOp.
	OpComputeAddress

	// OpConvert performs a value conversion (sign/zero-extend, truncate,
	// int<->float, float<->float, reinterpret, or a dynamic_cast RTTI
	// call) from Src into Dst. Payload: ConversionOp.
	OpConvert

	// OpAssign is the generic "write Src through the lvalue metadata of
	// Dst" instruction. Assignment lowering emits it only for an lvalue
	// outside the four LValueKind cases, which use OpLocalStore,
	// OpGlobalStore, OpMemberStore and OpDereferenceStore. Payload:
	// AssignmentOp.
	OpAssign

	// OpLabel marks a branch target. Payload: LabelOp.
	OpLabel
	// OpBranch is an unconditional jump. Payload: BranchOp.
	OpBranch
	// OpCondBranch jumps to one of two labels depending on Cond. Payload:
	// ConditionalBranchOp.
	OpCondBranch

	// OpReturn returns Value (or nothing) from the current function.
	// Payload: ReturnOp.
	OpReturn

	// OpVaStart initializes a va_list object for variadic argument
	// access. Payload: VaStartOp.
	OpVaStart
	// OpVaArg reads the next variadic argument of a given type. Payload:
	// VaArgOp.
	OpVaArg

	// OpCopy writes Src into Dst, both already-allocated TempVars — the
	// merge point two control-flow arms (ternary, short-circuit
	// boolean) write a common result through, since this IR has no
	// block-parameter/phi-node concept. Payload: CopyOp.
	OpCopy

	// OpPreIncrement/OpPostIncrement/OpPreDecrement/OpPostDecrement step
	// an lvalue by one (or, for a pointer operand, by its pointee's
	// size) and write the pre- or post-update value into Dst. Payload:
	// IncDecOp.
	OpPreIncrement
	OpPostIncrement
	OpPreDecrement
	OpPostDecrement
)

// Instruction is one IR operation: an opcode plus its typed payload
// (exactly one of the payload fields is populated, selected by Op,
// mirroring the AST's own discriminated-union shape in package ast).
type Instruction struct {
	Op Opcode

	Const       *ConstOp
	Local       *LocalOp
	Global      *GlobalOp
	BinaryOp    *BinaryOp
	UnaryOp     *UnaryOpPayload
	Call        *CallOp
	MemberLoad  *MemberLoadOp
	MemberStore *MemberStoreOp
	Deref       *DereferenceOp
	DerefStore  *DereferenceStoreOp
	AddressOf   *AddressOfOp
	ArrayElem   *ArrayElementAddressOp
	ComputeAddr *ComputeAddressOp
	Convert     *ConversionOp
	Assign      *AssignmentOp
	Label       *LabelOp
	Branch      *BranchOp
	CondBranch  *ConditionalBranchOp
	Return      *ReturnOp
	VaStart     *VaStartOp
	VaArg       *VaArgOp
	Copy        *CopyOp
	IncDec      *IncDecOp
}

type ConstOp struct {
	Dst      TempVar
	IntValue int64
	FloatValue float64
	IsFloat  bool
	Type     types.Index
}

type LocalOp struct {
	Slot int
	Dst  TempVar // valid for OpLocalLoad
	Src  TempVar // valid for OpLocalStore
	Type types.Index
}

type GlobalOp struct {
	Name intern.Handle
	Dst  TempVar
	Src  TempVar
	Type types.Index
}

type BinaryOp struct {
	Dst  TempVar
	Op   string
	Lhs  TempVar
	Rhs  TempVar
	Type types.Index
}

type UnaryOpPayload struct {
	Dst     TempVar
	Op      string
	Operand TempVar
	Type    types.Index
}

type CallOp struct {
	Dst         TempVar // unused when HasDst is false (a void call)
	HasDst      bool
	MangledName intern.Handle
	Args        []TempVar
	// ReturnSlot names a caller-allocated TempVar the callee writes a
	// large struct return into directly (the ABI's return-slot
	// convention for non-trivially-copyable or oversized return types —
	// ), instead of returning by value in Dst.
	ReturnSlot TempVar
	HasReturnSlot bool
}

type MemberLoadOp struct {
	Dst        TempVar
	Base       TempVar
	ByteOffset int
	Type       types.Index
}

type MemberStoreOp struct {
	Base       TempVar
	ByteOffset int
	Src        TempVar
	Type       types.Index
}

type DereferenceOp struct {
	Dst     TempVar
	Pointer TempVar
	Type    types.Index
}

type DereferenceStoreOp struct {
	Pointer TempVar
	Src     TempVar
	Type    types.Index
}

type AddressOfOp struct {
	Dst    TempVar
	Lvalue LValueMeta
}

// ArrayElementAddressOp computes `base + index * elemSize`, the
// pointer-arithmetic scaling step calls out explicitly.
type ArrayElementAddressOp struct {
	Dst      TempVar
	Base     TempVar
	Index    TempVar
	ElemSize int
}

type ComputeAddressOp struct {
	Dst    TempVar
	Base   TempVar
	Offset int
}

// ConversionKind discriminates the cast families lowering must emit
// distinct opcodes for.
type ConversionKind int

const (
	ConvSignExtend ConversionKind = iota
	ConvZeroExtend
	ConvTruncate
	ConvIntToFloat
	ConvFloatToInt
	ConvFloatToFloat
	ConvReinterpret
	ConvDynamicCast // emits a runtime RTTI call rather than a pure value conversion
)

type ConversionOp struct {
	Dst      TempVar
	Src      TempVar
	Kind     ConversionKind
	FromType types.Index
	ToType   types.Index
}

// AssignmentOp is the payload of OpAssign, the generic store assignment
// lowering falls back to when Lvalue.Kind is none of the four cases
// that have a dedicated store opcode.
type AssignmentOp struct {
	Lvalue LValueMeta
	Src    TempVar
}

type LabelOp struct {
	Name string
}

type BranchOp struct {
	Target string
}

type ConditionalBranchOp struct {
	Cond        TempVar
	TrueTarget  string
	FalseTarget string
}

type ReturnOp struct {
	Value    TempVar
	HasValue bool
}

// VaStartOp initializes a va_list at the ABI-specific layout computed by
// package lower (System V: a 24-byte struct with gp_offset, fp_offset,
// overflow_arg_area, reg_save_area; Windows x64: a single pointer).
type VaStartOp struct {
	VaList    TempVar
	LastFixed TempVar
}

type VaArgOp struct {
	Dst    TempVar
	VaList TempVar
	Type   types.Index
}

type CopyOp struct {
	Dst  TempVar
	Src  TempVar
	Type types.Index
}

// IncDecOp is the payload for the four OpPre/PostIncrement/Decrement
// opcodes. Operand holds the value loaded from Lvalue before the
// update; Lvalue is where the post-update value is stored; Dst receives
// the value the expression yields (the pre-update value for a postfix
// form, the post-update value for a prefix form). ElemSize is the
// pointee's byte size for a pointer operand, 0 otherwise.
type IncDecOp struct {
	Dst      TempVar
	Operand  TempVar
	Lvalue   LValueMeta
	ElemSize int
	Type     types.Index
}

// Function is one lowered function body: its instruction stream plus
// the temp/local bookkeeping the emitter needs.
type Function struct {
	Name         intern.Handle
	MangledName  intern.Handle
	Instructions []Instruction
	NumTemps     int
	NumLocals    int
}
