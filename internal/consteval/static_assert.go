package consteval

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/perr"
)

// CheckStaticAssert evaluates n.Condition and returns a KindSemantic
// perr.Error if it is false, or if the condition does not reduce to a
// constant expression at all (both are hard errors — static_assert
// conditions are never SFINAE-demoted, per original_source/'s
// treatment: a failing static_assert always reports a diagnostic).
func (e *Evaluator) CheckStaticAssert(in *intern.Table, n *ast.StaticAssertNode) *perr.Error {
	v := e.Eval(n.Condition)
	if !v.IsOK {
		return perr.New(perr.KindSemantic, n.Pos(), "static_assert expression is not a constant expression: %s", v.Error)
	}
	if v.Int != 0 {
		return nil
	}
	if n.HasMessage && in != nil {
		return perr.New(perr.KindSemantic, n.Pos(), "static_assert failed: %s", in.View(n.Message))
	}
	return perr.New(perr.KindSemantic, n.Pos(), "static_assert failed")
}
