package compiler

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/lower"
	"github.com/cwbudde/cppfe/internal/mangle"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// buildSquareFunction hand-builds `int square(int x) { return x; }` —
// Compile's own entry point needs a real token stream (exercised by
// cmd/cppfe's fixture-driven tests), but mangleDecls/lowerDecls operate
// on an already-parsed ast.Decl list, so unit tests here build one
// directly rather than going through the parser.
func buildSquareFunction(c *Context) *ast.FunctionDeclarationNode {
	var zero token.Position
	intType := c.Types.BuiltinIndex(types.BInt)

	x := ast.NewVariableDeclaration(c.Arena, zero, &ast.VariableDeclarationNode{Name: c.Interner.Intern("x"), Type: intType})
	body := ast.NewBlockStatement(c.Arena, zero, []ast.Stmt{
		ast.NewReturnStatement(c.Arena, zero, ast.NewIdentifier(c.Arena, zero, x.Name)),
	})

	return ast.NewFunctionDeclaration(c.Arena, zero, &ast.FunctionDeclarationNode{
		Name:       c.Interner.Intern("square"),
		Params:     []*ast.VariableDeclarationNode{x},
		ReturnType: intType,
		Body:       body,
	})
}

func TestMangleDeclsAssignsItaniumName(t *testing.T) {
	c := New(mangle.SchemeItanium, lower.ModelLP64, lower.ABISystemV)
	fn := buildSquareFunction(c)

	c.mangleDecls([]ast.Decl{fn}, 0)

	got := c.Interner.View(fn.MangledName)
	if got != "_Z6squarei" {
		t.Errorf("mangled name = %q, want %q", got, "_Z6squarei")
	}
}

func TestLowerDeclsProducesOneFunction(t *testing.T) {
	c := New(mangle.SchemeItanium, lower.ModelLP64, lower.ABISystemV)
	fn := buildSquareFunction(c)
	c.mangleDecls([]ast.Decl{fn}, 0)

	var fns []*ir.Function
	c.lowerDecls([]ast.Decl{fn}, &fns)

	if len(fns) != 1 {
		t.Fatalf("want 1 lowered function, got %d", len(fns))
	}
	if fns[0].NumLocals != 1 {
		t.Errorf("want 1 local (the parameter), got %d", fns[0].NumLocals)
	}
	if len(c.Errors) != 0 {
		t.Errorf("unexpected lowering errors: %v", c.Errors)
	}
}

func TestCheckStaticAssertsReportsFailure(t *testing.T) {
	c := New(mangle.SchemeItanium, lower.ModelLP64, lower.ABISystemV)
	var zero token.Position
	falseLit := ast.NewBoolLiteral(c.Arena, zero, false)
	sa := ast.NewStaticAssert(c.Arena, zero, falseLit, 0, false)

	c.checkStaticAsserts([]ast.Decl{sa})

	if len(c.Errors) == 0 {
		t.Error("want a reported error for a false static_assert")
	}
}
