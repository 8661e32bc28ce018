package lower

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/mangle"
	"github.com/cwbudde/cppfe/internal/symtab"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// buildMaxFunction hand-builds the AST for:
//
//	int max(int a, int b) { if (a > b) return a; return b; }
//
// the way cmd/cppfe's parser would, without needing a real token
// stream — there is no lexer in this module, so tests that exercise
// lowering build their own small trees directly.
func buildMaxFunction(t *testing.T) (*ast.FunctionDeclarationNode, *intern.Table, *types.Registry) {
	t.Helper()
	in := intern.New()
	tys := types.NewRegistry(in)
	arena := ast.NewArena()
	intType := tys.BuiltinIndex(types.BInt)
	var zero token.Position

	a := ast.NewVariableDeclaration(arena, zero, &ast.VariableDeclarationNode{Name: in.Intern("a"), Type: intType})
	b := ast.NewVariableDeclaration(arena, zero, &ast.VariableDeclarationNode{Name: in.Intern("b"), Type: intType})

	aRef := ast.NewIdentifier(arena, zero, a.Name)
	bRef := ast.NewIdentifier(arena, zero, b.Name)
	cond := ast.NewBinaryOperator(arena, zero, ">", aRef, bRef)

	returnA := ast.NewReturnStatement(arena, zero, ast.NewIdentifier(arena, zero, a.Name))
	ifStmt := ast.NewIfStatement(arena, zero, cond, returnA, nil)
	returnB := ast.NewReturnStatement(arena, zero, ast.NewIdentifier(arena, zero, b.Name))
	body := ast.NewBlockStatement(arena, zero, []ast.Stmt{ifStmt, returnB})

	fn := ast.NewFunctionDeclaration(arena, zero, &ast.FunctionDeclarationNode{
		Name:        in.Intern("max"),
		Params:      []*ast.VariableDeclarationNode{a, b},
		ReturnType:  intType,
		Body:        body,
		OwnerStruct: types.Void,
	})
	fn.MangledName = in.Intern("_Z3maxii")
	return fn, in, tys
}

func TestLowerFunctionMaxProducesBranchingIR(t *testing.T) {
	fn, in, tys := buildMaxFunction(t)
	m := mangle.New(in, tys, nil, mangle.SchemeItanium)
	b := NewBuilder(in, tys, symtab.NewGlobal(), m)

	result := b.LowerFunction(fn)
	if len(b.Errors) != 0 {
		t.Fatalf("unexpected lowering errors: %v", b.Errors)
	}
	if result.NumLocals != 2 {
		t.Fatalf("want 2 locals (a, b), got %d", result.NumLocals)
	}

	var sawCondBranch bool
	returns := 0
	for _, instr := range result.Instructions {
		switch instr.Op {
		case ir.OpCondBranch:
			sawCondBranch = true
		case ir.OpReturn:
			if instr.Return.HasValue {
				returns++
			}
		}
	}
	if !sawCondBranch {
		t.Error("want a conditional branch lowering the if condition")
	}
	if returns != 2 {
		t.Errorf("want two value-returning OpReturn instructions, one per branch, got %d", returns)
	}
}

func TestLowerFunctionDeclaresThisForMemberFunction(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	arena := ast.NewArena()
	intType := tys.BuiltinIndex(types.BInt)
	var zero token.Position

	structIdx := tys.DeclareStruct(in.Intern("Widget"))

	body := ast.NewBlockStatement(arena, zero, nil)
	fn := ast.NewFunctionDeclaration(arena, zero, &ast.FunctionDeclarationNode{
		Name:        in.Intern("touch"),
		ReturnType:  intType,
		Body:        body,
		OwnerStruct: structIdx,
	})
	fn.MangledName = in.Intern("_ZN6Widget5touchEv")

	m := mangle.New(in, tys, nil, mangle.SchemeItanium)
	b := NewBuilder(in, tys, symtab.NewGlobal(), m)
	result := b.LowerFunction(fn)

	if result.NumLocals != 1 {
		t.Fatalf("want 1 local (the implicit this), got %d", result.NumLocals)
	}
	if b.CurrentClass != structIdx {
		t.Fatal("want CurrentClass set to the owning struct")
	}
}
