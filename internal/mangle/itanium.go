// Package mangle implements the Itanium and MSVC name-mangling schemes.
package mangle

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/types"
)

// Scheme selects which mangling convention Mangler produces.
type Scheme int

const (
	SchemeItanium Scheme = iota
	SchemeMSVC
)

// Mangler produces mangled names for functions, variables, and
// instantiated templates under either the Itanium (_ZN...E) or MSVC
// (?name@class@@...) scheme.
type Mangler struct {
	Interner *intern.Table
	Types    *types.Registry
	NS       *nsreg.Registry
	Scheme   Scheme
}

func New(interner *intern.Table, tys *types.Registry, ns *nsreg.Registry, scheme Scheme) *Mangler {
	return &Mangler{Interner: interner, Types: tys, NS: ns, Scheme: scheme}
}

// validateIdentifier rejects fullwidth or halfwidth-confusable source
// identifiers before they reach the mangler: a fullwidth Latin letter
// (e.g. U+FF21 "Ａ") mangles indistinguishably from its ASCII look-alike
// under a byte-length encoding, silently colliding two distinct C++
// names. Real source identifiers are ASCII or ordinary-width Unicode;
// rejecting the fullwidth/halfwidth block here keeps that collision from
// reaching the cache keyed by canonical argument strings in package
// template.
func validateIdentifier(name string) bool {
	for _, r := range name {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianFullwidth, width.EastAsianHalfwidth:
			return false
		}
	}
	return true
}

// FunctionName mangles a free function's Itanium or MSVC name.
func (m *Mangler) FunctionName(nsPath []string, name string, paramTypes []types.Index, linkage types.Linkage) string {
	if linkage == types.LinkageC {
		return name // extern "C" linkage is never mangled
	}
	if !validateIdentifier(name) {
		name = sanitize(name)
	}
	switch m.Scheme {
	case SchemeMSVC:
		return m.msvcFunctionName(nsPath, name, paramTypes, nil)
	default:
		return m.itaniumFunctionName(nsPath, name, paramTypes)
	}
}

// MemberFunctionName mangles a member function, qualified by its owning
// class.
func (m *Mangler) MemberFunctionName(nsPath []string, className, name string, paramTypes []types.Index, isConst bool) string {
	switch m.Scheme {
	case SchemeMSVC:
		return m.msvcFunctionName(nsPath, name, paramTypes, []string{className})
	default:
		return m.itaniumMemberFunctionName(nsPath, className, name, paramTypes, isConst)
	}
}

func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 128 {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('_')
	}
	return sb.String()
}

// itaniumFunctionName implements the subset of the Itanium C++ ABI
// mangling grammar this core needs: _ZN<namespace-and-name>E<params>, or
// _Z<name><params> for a function at global scope.
func (m *Mangler) itaniumFunctionName(nsPath []string, name string, paramTypes []types.Index) string {
	var sb strings.Builder
	sb.WriteString("_Z")
	if len(nsPath) == 0 {
		sb.WriteString(itaniumSourceName(name))
	} else {
		sb.WriteByte('N')
		for _, seg := range nsPath {
			sb.WriteString(itaniumSourceName(seg))
		}
		sb.WriteString(itaniumSourceName(name))
		sb.WriteByte('E')
	}
	sb.WriteString(m.itaniumParams(paramTypes))
	return sb.String()
}

func (m *Mangler) itaniumMemberFunctionName(nsPath []string, className, name string, paramTypes []types.Index, isConst bool) string {
	var sb strings.Builder
	sb.WriteString("_ZN")
	for _, seg := range nsPath {
		sb.WriteString(itaniumSourceName(seg))
	}
	sb.WriteString(itaniumSourceName(className))
	sb.WriteString(itaniumSourceName(name))
	if isConst {
		sb.WriteByte('K')
	}
	sb.WriteByte('E')
	sb.WriteString(m.itaniumParams(paramTypes))
	return sb.String()
}

func itaniumSourceName(s string) string {
	return strconv.Itoa(len(s)) + s
}

func (m *Mangler) itaniumParams(paramTypes []types.Index) string {
	if len(paramTypes) == 0 {
		return "v"
	}
	var sb strings.Builder
	for _, t := range paramTypes {
		sb.WriteString(m.itaniumType(t))
	}
	return sb.String()
}

// itaniumBuiltinCodes maps every fundamental type to its one-letter (or
// two-letter, for a handful of extended types) Itanium builtin-type
// code.
var itaniumBuiltinCodes = map[types.Builtin]string{
	types.BVoid: "v", types.BBool: "b",
	types.BChar: "c", types.BSignedChar: "a", types.BUnsignedChar: "h",
	types.BShort: "s", types.BUnsignedShort: "t",
	types.BInt: "i", types.BUnsignedInt: "j",
	types.BLong: "l", types.BUnsignedLong: "m",
	types.BLongLong: "x", types.BUnsignedLongLong: "y",
	types.BFloat: "f", types.BDouble: "d", types.BLongDouble: "e",
	types.BNullptr: "Dn",
}

func (m *Mangler) itaniumType(idx types.Index) string {
	info := m.Types.Get(idx)
	switch info.Kind {
	case types.KindBuiltin:
		if code, ok := itaniumBuiltinCodes[info.Builtin]; ok {
			return code
		}
		return "i"
	case types.KindPointer:
		return "P" + m.itaniumType(info.Elem)
	case types.KindReference:
		return "R" + m.itaniumType(info.Elem)
	case types.KindArray:
		n := "Lm0E" // unknown bound renders as a dependent-array placeholder
		if info.ArrayLen >= 0 {
			n = strconv.FormatInt(info.ArrayLen, 10)
		}
		return "A" + n + "_" + m.itaniumType(info.Elem)
	case types.KindStruct, types.KindEnum:
		name := m.Interner.View(info.Name)
		return itaniumSourceName(name)
	default:
		return "v"
	}
}
