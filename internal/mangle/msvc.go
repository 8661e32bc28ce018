package mangle

import (
	"strconv"
	"strings"

	"github.com/cwbudde/cppfe/internal/types"
)

// msvcBuiltinCodes maps fundamental types to their MSVC mangling code.
// msvcType falls back to "H" for a builtin with no entry here; package
// types has no char8_t/char16_t/char32_t builtins.
var msvcBuiltinCodes = map[types.Builtin]string{
	types.BVoid: "X", types.BBool: "_N",
	types.BChar: "D", types.BSignedChar: "C", types.BUnsignedChar: "E",
	types.BShort: "F", types.BUnsignedShort: "G",
	types.BInt: "H", types.BUnsignedInt: "I",
	types.BLong: "J", types.BUnsignedLong: "K",
	types.BLongLong: "_J", types.BUnsignedLongLong: "_K",
	types.BFloat: "M", types.BDouble: "N", types.BLongDouble: "O",
	types.BNullptr: "$$T",
}

// msvcFunctionName implements the subset of MSVC mangling this core
// needs: "?name@ns2@ns1@@YA<params>Z" for a free function in ns1::ns2
// (innermost qualifier first), or with the class name prepended to the
// qualification chain and QEAA in place of YA for a member. <params> is
// each parameter's code followed by '@', or "X" for an empty list; the
// return type is not encoded.
func (m *Mangler) msvcFunctionName(nsPath []string, name string, paramTypes []types.Index, classPath []string) string {
	var sb strings.Builder
	sb.WriteByte('?')
	sb.WriteString(name)
	sb.WriteByte('@')

	qual := append(append([]string{}, nsPath...), classPath...)
	for i := len(qual) - 1; i >= 0; i-- {
		sb.WriteString(qual[i])
		sb.WriteByte('@')
	}
	sb.WriteByte('@')

	if len(classPath) > 0 {
		sb.WriteString("QEAA") // public, non-virtual, __thiscall member (this core's one supported member calling convention)
	} else {
		sb.WriteString("YA") // __cdecl free function
	}
	sb.WriteString(m.msvcParams(paramTypes))
	sb.WriteByte('Z')
	return sb.String()
}

func (m *Mangler) msvcParams(paramTypes []types.Index) string {
	if len(paramTypes) == 0 {
		return "X" // no-parameter marker; msvcFunctionName appends the trailing Z directly
	}
	var sb strings.Builder
	for _, t := range paramTypes {
		sb.WriteString(m.msvcType(t))
	}
	sb.WriteByte('@')
	return sb.String()
}

func (m *Mangler) msvcType(idx types.Index) string {
	info := m.Types.Get(idx)
	switch info.Kind {
	case types.KindBuiltin:
		if code, ok := msvcBuiltinCodes[info.Builtin]; ok {
			return code
		}
		return "H"
	case types.KindPointer:
		return "PEA" + m.msvcType(info.Elem)
	case types.KindReference:
		return "AEA" + m.msvcType(info.Elem)
	case types.KindArray:
		n := "0"
		if info.ArrayLen >= 0 {
			n = strconv.FormatInt(info.ArrayLen, 10)
		}
		return "Y" + n + m.msvcType(info.Elem)
	case types.KindStruct, types.KindEnum:
		name := m.Interner.View(info.Name)
		return "U" + name + "@@"
	default:
		return "H"
	}
}
