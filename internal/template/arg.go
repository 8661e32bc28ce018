package template

import (
	"strconv"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// ArgKind discriminates a template argument: a type, a non-type
// (constant) value, or another template (for template-template
// parameters).
type ArgKind int

const (
	ArgType ArgKind = iota
	ArgNonType
	ArgTemplate
)

// Arg is one template argument, either explicitly written or deduced.
type Arg struct {
	Kind     ArgKind
	Type     types.Index   // valid when Kind == ArgType
	Value    int64         // valid when Kind == ArgNonType
	Template intern.Handle // valid when Kind == ArgTemplate
}

// canonicalArgString renders an argument list deterministically so that
// identical argument lists hash/compare equal. Canonicalization
// of type arguments is the type registry's job (types.Registry already
// interns `int`/`signed int` to the same Index — see types.NewRegistry),
// so this function only needs to render the already-canonical Index.
func canonicalArgString(args []Arg) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		switch a.Kind {
		case ArgType:
			s += "T" + strconv.Itoa(int(a.Type))
		case ArgNonType:
			s += "V" + strconv.FormatInt(a.Value, 10)
		case ArgTemplate:
			s += "M" + strconv.Itoa(int(a.Template))
		}
	}
	return s
}

// CanonicalInstantiationName computes a deterministic name from the
// template's base name and the canonicalized argument list. To keep
// names bounded regardless of argument-list
// length, long argument lists are folded through a content hash (FNV-1a)
// instead of being rendered verbatim; short lists (the common case) are
// rendered directly for readability in diagnostics and IR dumps.
func CanonicalInstantiationName(interner *intern.Table, baseName intern.Handle, args []Arg, tys *types.Registry) string {
	base := interner.View(baseName)
	rendered := canonicalArgString(args)
	if len(rendered) <= 64 {
		return base + "<" + renderArgsHuman(interner, tys, args) + ">"
	}
	return base + "#" + fnv1a(rendered)
}

func renderArgsHuman(interner *intern.Table, tys *types.Registry, args []Arg) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		switch a.Kind {
		case ArgType:
			s += interner.View(tys.Get(a.Type).Name)
		case ArgNonType:
			s += strconv.FormatInt(a.Value, 10)
		case ArgTemplate:
			s += interner.View(a.Template)
		}
	}
	return s
}

func fnv1a(s string) string {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return strconv.FormatUint(h, 16)
}
