// Package perr is the structured error type shared by the parser,
// template engine, and lowering pass.
package perr

import (
	"fmt"
	"strings"

	"github.com/cwbudde/cppfe/internal/token"
)

// Kind classifies an Error so callers (and the SFINAE machinery) can
// distinguish a hard error from a substitution failure without string
// matching the message.
type Kind string

const (
	KindSyntax           Kind = "syntax"
	KindSemantic         Kind = "semantic"
	KindConstraint       Kind = "constraint not satisfied"
	KindSubstitutionFail Kind = "substitution failure"
	KindInternal         Kind = "internal"
)

// Error is one diagnostic: a message anchored to a source position,
// classified by Kind. In SFINAE context a KindSubstitutionFail Error is swallowed by the caller and
// turned into "candidate removed from overload set" instead of being
// reported to the user.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
	File    string
}

func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Error implements the error interface as
// "<file>:<line>:<col>: <kind>: <message>".
func (e *Error) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}
	fmt.Fprintf(&sb, "%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Message)
	return sb.String()
}

// IsSubstitutionFailure reports whether err is a substitution-failure
// Error, the only Kind SFINAE context is allowed to swallow silently.
func IsSubstitutionFailure(err error) bool {
	pe, ok := err.(*Error)
	return ok && pe.Kind == KindSubstitutionFail
}

// List collects multiple Errors, e.g. from a parse that recovers and
// keeps going after a syntax error.
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(l))
	for i, e := range l {
		sb.WriteString(e.Error())
		if i < len(l)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Add appends err to the list, unless err is a SFINAE substitution
// failure being collected in non-reporting context — callers filter
// that case before calling Add.
func (l *List) Add(err *Error) { *l = append(*l, err) }

func (l List) HasErrors() bool { return len(l) > 0 }
