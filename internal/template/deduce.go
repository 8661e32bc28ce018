package template

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// PatternKind discriminates the shape of a template-parameter pattern
// used during deduction.
type PatternKind int

const (
	PatternConcrete     PatternKind = iota // a fixed, non-dependent type
	PatternParam                           // `T`
	PatternLValueRef                       // `T&`
	PatternRValueRef                       // `T&&` (may be a forwarding reference)
	PatternPointer                         // `T*`
	PatternArray                           // `T[N]`
	PatternTemplateApply                   // `Container<T>`
)

// Pattern is a formal parameter type written in terms of template
// parameters, unified structurally against a concrete argument type.
type Pattern struct {
	Kind         PatternKind
	ParamName    intern.Handle // valid for PatternParam
	Elem         *Pattern      // valid for RefPointerArray/TemplateApply element
	Concrete     types.Index   // valid for PatternConcrete
	TemplateName intern.Handle // valid for PatternTemplateApply
	Args         []*Pattern    // valid for PatternTemplateApply
}

// Bindings accumulates parameter -> Arg assignments discovered during
// deduction. A forwarding reference (T&& against an lvalue argument)
// binds T to a reference-to-argument-type
type Bindings map[intern.Handle]Arg

// deduceOne unifies one formal Pattern against one concrete argument
// type/value-category pair, writing into bindings. It reports whether
// unification succeeded; an inconsistent re-binding of an
// already-bound parameter also fails.
func deduceOne(tys *types.Registry, pat *Pattern, argType types.Index, argIsLValue bool, bindings Bindings) bool {
	switch pat.Kind {
	case PatternConcrete:
		return typesEquivalent(tys, pat.Concrete, argType)

	case PatternParam:
		return bindParam(tys, pat.ParamName, Arg{Kind: ArgType, Type: argType}, bindings)

	case PatternRValueRef:
		// Forwarding reference rule: T&& + lvalue argument of type U
		// deduces T = U&.
		if pat.Elem.Kind == PatternParam && argIsLValue {
			refType := tys.Reference(argType)
			return bindParam(tys, pat.Elem.ParamName, Arg{Kind: ArgType, Type: refType}, bindings)
		}
		return deduceOne(tys, pat.Elem, argType, argIsLValue, bindings)

	case PatternLValueRef:
		return deduceOne(tys, pat.Elem, argType, argIsLValue, bindings)

	case PatternPointer:
		info := tys.Get(argType)
		if info.Kind != types.KindPointer {
			return false
		}
		return deduceOne(tys, pat.Elem, info.Elem, false, bindings)

	case PatternArray:
		info := tys.Get(argType)
		if info.Kind != types.KindArray {
			return false
		}
		return deduceOne(tys, pat.Elem, info.Elem, false, bindings)

	case PatternTemplateApply:
		info := tys.Get(argType)
		if info.Kind != types.KindStruct || info.Struct == nil || !info.Struct.IsTemplateInstantiation {
			return false
		}
		if info.Struct.BaseTemplateName != pat.TemplateName {
			return false
		}
		if len(info.Struct.TemplateArgs) != len(pat.Args) {
			return false
		}
		for i, argPat := range pat.Args {
			if !deduceOne(tys, argPat, info.Struct.TemplateArgs[i], false, bindings) {
				return false
			}
		}
		return true
	}
	return false
}

func bindParam(tys *types.Registry, name intern.Handle, arg Arg, bindings Bindings) bool {
	if existing, ok := bindings[name]; ok {
		return argsEqual(tys, existing, arg)
	}
	bindings[name] = arg
	return true
}

func argsEqual(tys *types.Registry, a, b Arg) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArgType:
		return typesEquivalent(tys, a.Type, b.Type)
	case ArgNonType:
		return a.Value == b.Value
	case ArgTemplate:
		return a.Template == b.Template
	}
	return false
}

// typesEquivalent treats two Indexes as the same type. The type
// registry already canonicalizes alias spellings (`int`/`signed int`)
// to one Index at registration time, so plain equality is sufficient
// here; this helper exists as the single seam where a future alias
// resolution pass (e.g. `using` aliases that post-date registration)
// would plug in's Open Question on const T& vs T const&.
func typesEquivalent(tys *types.Registry, a, b types.Index) bool {
	return a == b
}

// CallArg is one call-site argument as seen by the deduction engine:
// its type and whether it denotes an lvalue (needed for the forwarding
// reference rule).
type CallArg struct {
	Type     types.Index
	IsLValue bool
}

// Deduce attempts to unify every (pattern, call argument) pair in order
// and returns the resulting bindings on success.
func Deduce(tys *types.Registry, params []*Pattern, args []CallArg) (Bindings, bool) {
	if len(params) != len(args) {
		return nil, false
	}
	bindings := make(Bindings)
	for i, p := range params {
		if !deduceOne(tys, p, args[i].Type, args[i].IsLValue, bindings) {
			return nil, false
		}
	}
	return bindings, true
}
