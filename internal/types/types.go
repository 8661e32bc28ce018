// Package types is the central indexed store of every type the front end
// knows about — built-in, struct/class, enum, function, and template
// instantiation.
package types

import "github.com/cwbudde/cppfe/internal/intern"

// Index is an index into a Registry's TypeInfo table. Index 0 is
// reserved for void/placeholder
type Index int

const Void Index = 0

// Kind discriminates what shape of TypeInfo a given Index carries.
type Kind int

const (
	KindBuiltin Kind = iota
	KindStruct
	KindEnum
	KindFunction
	KindPointer
	KindReference
	KindArray
	KindTemplateParam
)

// Builtin enumerates the fixed set of fundamental C++ types cppfe's core
// reasons about directly. Compound built-ins (pointer/reference/array)
// are modeled as their own Kind wrapping an element Index rather than as
// Builtin variants, so "pointer to T" composes for any T.
type Builtin int

const (
	BVoid Builtin = iota
	BBool
	BChar
	BSignedChar
	BUnsignedChar
	BShort
	BUnsignedShort
	BInt
	BUnsignedInt
	BLong
	BUnsignedLong
	BLongLong
	BUnsignedLongLong
	BFloat
	BDouble
	BLongDouble
	BNullptr
)

// builtinSizes gives the size in bits for each Builtin on the LP64 data
// model (the default CompileContext model). LLP64 differs only in BLong
// (32 bits instead of 64); this package has no LLP64 size table, so
// SizeBits always reports the LP64 sizes.
var builtinSizes = map[Builtin]int{
	BVoid: 0, BBool: 8, BChar: 8, BSignedChar: 8, BUnsignedChar: 8,
	BShort: 16, BUnsignedShort: 16, BInt: 32, BUnsignedInt: 32,
	BLong: 64, BUnsignedLong: 64, BLongLong: 64, BUnsignedLongLong: 64,
	BFloat: 32, BDouble: 64, BLongDouble: 128, BNullptr: 64,
}

var builtinSigned = map[Builtin]bool{
	BChar: true, BSignedChar: true, BShort: true, BInt: true,
	BLong: true, BLongLong: true,
}

// IsFloating reports whether b is a floating-point builtin.
func (b Builtin) IsFloating() bool {
	return b == BFloat || b == BDouble || b == BLongDouble
}

// IsSigned reports whether b is a signed integral builtin. Floating
// builtins and bool/unsigned variants return false.
func (b Builtin) IsSigned() bool { return builtinSigned[b] }

// IsIntegral reports whether b participates in integer promotion/usual
// arithmetic conversions (bool and char variants included, per C++).
func (b Builtin) IsIntegral() bool {
	return !b.IsFloating() && b != BVoid && b != BNullptr
}

// StructMember is one data member of a struct/class type: name, type,
// layout (byte offset + size), and declared pointer depth / reference-ness.
type StructMember struct {
	Name         intern.Handle
	Type         Index
	ByteOffset   int
	SizeBits     int
	PointerDepth int
	IsReference  bool
	Access       Access
}

// Access is a class member's access specifier.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

// MemberFunction describes one member function (possibly one overload
// among several, possibly an operator overload, possibly a template).
type MemberFunction struct {
	Name              intern.Handle
	MangledName       intern.Handle
	ParamTypes        []Index
	ParamIsReference  []bool
	ReturnType        Index
	IsStatic          bool
	IsVirtual         bool
	IsConst           bool
	IsOperatorOverload bool
	OperatorSymbol    string // "==", "+", "<=>", "[]", "()", ...
	Access            Access
	// FunctionTemplate, if non-nil, names the template this member was
	// instantiated from (used by the lazy-instantiation registry to key
	// pending-Definition work).
	FunctionTemplate intern.Handle
	HasBody          bool
}

// StaticMember is a static data member: a global with class-qualified
// linkage, addressed via GlobalLoad/GlobalStore by its mangled name.
type StaticMember struct {
	Name        intern.Handle
	MangledName intern.Handle
	Type        Index
}

// StructTypeInfo is the struct/class-specific payload of a TypeInfo.
type StructTypeInfo struct {
	Members       []StructMember
	Bases         []Index // base class subobjects, in declaration order
	BaseOffsets   []int   // byte offset of each base subobject
	MemberFuncs   []MemberFunction
	StaticMembers []StaticMember
	NestedEnums   []Index

	TotalSizeBits int
	AlignmentBits int
	HasVTable     bool

	IsTemplateInstantiation bool
	BaseTemplateName        intern.Handle
	TemplateArgs            []Index

	// IsIncompleteInstantiation marks a class template instantiation that
	// has only reached the Declaration phase: its static
	// members may not be accessed and its size may not be queried until
	// Layout has run.
	IsIncompleteInstantiation bool
}

// Enumerator is one named constant of an enum type.
type Enumerator struct {
	Name  intern.Handle
	Value int64
}

// EnumTypeInfo is the enum-specific payload of a TypeInfo.
type EnumTypeInfo struct {
	Enumerators  []Enumerator
	Underlying   Index
	IsScoped     bool // `enum class` vs. plain `enum`
}

// FunctionTypeInfo describes a free function's or function-pointer's
// signature.
type FunctionTypeInfo struct {
	ParamTypes []Index
	ReturnType Index
	IsVariadic bool
	Linkage    Linkage
}

// Linkage mirrors the `C` vs `C++` linkage distinction the mangler
// needs.
type Linkage int

const (
	LinkageCpp Linkage = iota
	LinkageC
)

// TypeInfo is one entry of the global type table. Exactly one of the
// *Info fields is populated, selected by Kind; compound kinds
// (pointer/reference/array/templateparam) carry only Elem/ArrayLen.
type TypeInfo struct {
	Name intern.Handle
	Kind Kind

	Builtin Builtin // valid when Kind == KindBuiltin

	Struct   *StructTypeInfo   // valid when Kind == KindStruct
	Enum     *EnumTypeInfo     // valid when Kind == KindEnum
	Function *FunctionTypeInfo // valid when Kind == KindFunction

	Elem     Index // pointee / referent / array element (compound kinds)
	ArrayLen int64 // -1 if unknown/dependent

	// TemplateParamName is set when Kind == KindTemplateParam; it is the
	// parameter's own name, used by substitution to find what to
	// replace it with.
	TemplateParamName intern.Handle
}

// Registry is the append-only global type table.
type Registry struct {
	interner *intern.Table
	types    []TypeInfo
	byName   map[intern.Handle]Index
	builtins map[Builtin]Index
}

// NewRegistry creates a Registry with the void placeholder at index 0
// and every fundamental builtin type pre-registered.
func NewRegistry(interner *intern.Table) *Registry {
	r := &Registry{
		interner: interner,
		byName:   make(map[intern.Handle]Index),
		builtins: make(map[Builtin]Index),
	}
	voidName := interner.Intern("void")
	r.types = append(r.types, TypeInfo{Name: voidName, Kind: KindBuiltin, Builtin: BVoid})
	r.byName[voidName] = Void
	r.builtins[BVoid] = Void

	names := map[Builtin]string{
		BBool: "bool", BChar: "char", BSignedChar: "signed char",
		BUnsignedChar: "unsigned char", BShort: "short", BUnsignedShort: "unsigned short",
		BInt: "int", BUnsignedInt: "unsigned int", BLong: "long",
		BUnsignedLong: "unsigned long", BLongLong: "long long",
		BUnsignedLongLong: "unsigned long long", BFloat: "float",
		BDouble: "double", BLongDouble: "long double", BNullptr: "decltype(nullptr)",
	}
	for b, n := range names {
		h := interner.Intern(n)
		idx := Index(len(r.types))
		r.types = append(r.types, TypeInfo{Name: h, Kind: KindBuiltin, Builtin: b})
		r.byName[h] = idx
		r.builtins[b] = idx
	}
	// `int` and `signed int` canonicalize to the same type.
	r.byName[interner.Intern("signed int")] = r.builtins[BInt]
	r.byName[interner.Intern("signed")] = r.builtins[BInt]
	return r
}

// BuiltinIndex returns the Index of a fundamental type.
func (r *Registry) BuiltinIndex(b Builtin) Index { return r.builtins[b] }

// Get returns the TypeInfo at idx.
func (r *Registry) Get(idx Index) *TypeInfo { return &r.types[idx] }

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }

// LookupByName returns the Index previously registered under name, if
// any.
func (r *Registry) LookupByName(name intern.Handle) (Index, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// declare registers a new, empty TypeInfo under name and returns its
// Index. Growth is idempotent keyed by canonical name: a
// second declare call with the same name returns the existing Index.
func (r *Registry) declare(name intern.Handle, kind Kind) Index {
	if idx, ok := r.byName[name]; ok {
		return idx
	}
	idx := Index(len(r.types))
	r.types = append(r.types, TypeInfo{Name: name, Kind: kind})
	r.byName[name] = idx
	return idx
}

// DeclareStruct registers a new struct/class type.
func (r *Registry) DeclareStruct(name intern.Handle) Index {
	idx := r.declare(name, KindStruct)
	if r.types[idx].Struct == nil {
		r.types[idx].Struct = &StructTypeInfo{}
	}
	return idx
}

// DeclareEnum registers a new enum type.
func (r *Registry) DeclareEnum(name intern.Handle, underlying Index, scoped bool) Index {
	idx := r.declare(name, KindEnum)
	r.types[idx].Enum = &EnumTypeInfo{Underlying: underlying, IsScoped: scoped}
	return idx
}

// DeclareFunction registers (or returns the existing Index for) a
// function type with this exact signature, deduped by a synthesized
// canonical name so identical signatures share storage.
func (r *Registry) DeclareFunction(name intern.Handle, info FunctionTypeInfo) Index {
	idx := r.declare(name, KindFunction)
	r.types[idx].Function = &info
	return idx
}

// Pointer returns (creating if necessary) the Index for "pointer to
// elem".
func (r *Registry) Pointer(elem Index) Index {
	return r.compound(KindPointer, elem, -1, "*")
}

// Reference returns (creating if necessary) the Index for "reference to
// elem".
func (r *Registry) Reference(elem Index) Index {
	return r.compound(KindReference, elem, -1, "&")
}

// Array returns (creating if necessary) the Index for "elem[length]".
// length < 0 means an unresolved/dependent bound.
func (r *Registry) Array(elem Index, length int64) Index {
	return r.compound(KindArray, elem, length, "[]")
}

func (r *Registry) compound(kind Kind, elem Index, length int64, suffix string) Index {
	elemName := r.interner.View(r.types[elem].Name)
	var name string
	if kind == KindArray {
		if length >= 0 {
			name = elemName + "[" + itoa(length) + "]"
		} else {
			name = elemName + "[]"
		}
	} else {
		name = elemName + suffix
	}
	h := r.interner.Intern(name)
	if idx, ok := r.byName[h]; ok {
		return idx
	}
	idx := Index(len(r.types))
	r.types = append(r.types, TypeInfo{Name: h, Kind: kind, Elem: elem, ArrayLen: length})
	r.byName[h] = idx
	return idx
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PointerDepth returns how many KindPointer layers wrap idx, and the
// innermost non-pointer Index.
func (r *Registry) PointerDepth(idx Index) (depth int, base Index) {
	for r.types[idx].Kind == KindPointer {
		depth++
		idx = r.types[idx].Elem
	}
	return depth, idx
}

// SizeBits returns the size in bits of idx on the LP64 data model.
// Pointers and references are always 64 bits regardless of model (the
// LLP64/LP64 distinction only affects `long`).
func (r *Registry) SizeBits(idx Index) int {
	info := &r.types[idx]
	switch info.Kind {
	case KindBuiltin:
		return builtinSizes[info.Builtin]
	case KindPointer, KindReference:
		return 64
	case KindArray:
		if info.ArrayLen < 0 {
			return 0
		}
		return r.SizeBits(info.Elem) * int(info.ArrayLen)
	case KindStruct:
		if info.Struct == nil {
			return 0
		}
		return info.Struct.TotalSizeBits
	case KindEnum:
		return r.SizeBits(info.Enum.Underlying)
	case KindFunction:
		return 64 // function designator decays to a pointer-sized address
	default:
		return 0
	}
}

// IsComplete reports whether idx may have its size queried / static
// members accessed.
func (r *Registry) IsComplete(idx Index) bool {
	info := &r.types[idx]
	if info.Kind != KindStruct || info.Struct == nil {
		return true
	}
	return !info.Struct.IsIncompleteInstantiation
}
