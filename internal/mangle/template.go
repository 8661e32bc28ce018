package mangle

import (
	"strings"

	"github.com/cwbudde/cppfe/internal/types"
)

// TemplateTypeArgs mangles a class template instantiation's type
// argument list, used when the mangled name of a member of
// Base<Args...> is requested. Itanium represents
// template arguments as "I<arg>...E" following the template name;
// MSVC represents them inline in the qualified-name chain, which
// FunctionName/MemberFunctionName already render via each type's own
// msvcType/itaniumType, so this helper only covers the Itanium case
// explicitly.
func (m *Mangler) TemplateTypeArgs(args []types.Index) string {
	if m.Scheme != SchemeItanium || len(args) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('I')
	for _, a := range args {
		sb.WriteString(m.itaniumType(a))
	}
	sb.WriteByte('E')
	return sb.String()
}

// InstantiatedClassName mangles the Itanium substituted-class-name form
// "<base-len><base>I<args>E" used as the class-name component inside
// a member function's mangling.
func (m *Mangler) InstantiatedClassName(base string, args []types.Index) string {
	return itaniumSourceName(base) + m.TemplateTypeArgs(args)
}
