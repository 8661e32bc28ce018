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

// TestLowerBinaryRewritesRelationalThroughSpaceship builds `a < b` where
// `a` and `b` are `Ordered` structs declaring operator<=>, and checks
// that lowering calls the synthesized operator instead of emitting a
// built-in comparison.
func TestLowerBinaryRewritesRelationalThroughSpaceship(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	arena := ast.NewArena()
	var zero token.Position

	structIdx := tys.DeclareStruct(in.Intern("Ordered"))
	intTy := tys.BuiltinIndex(types.BInt)
	spaceship := in.Intern("_ZN7OrderedssERKS_")
	tys.Get(structIdx).Struct.MemberFuncs = append(tys.Get(structIdx).Struct.MemberFuncs, types.MemberFunction{
		Name:               in.Intern("operator<=>"),
		MangledName:        spaceship,
		IsOperatorOverload: true,
		OperatorSymbol:     "<=>",
		ReturnType:         intTy,
	})

	a := ast.NewVariableDeclaration(arena, zero, &ast.VariableDeclarationNode{Name: in.Intern("a"), Type: structIdx})
	bVar := ast.NewVariableDeclaration(arena, zero, &ast.VariableDeclarationNode{Name: in.Intern("b"), Type: structIdx})
	lt := ast.NewBinaryOperator(arena, zero, "<",
		ast.NewIdentifier(arena, zero, a.Name),
		ast.NewIdentifier(arena, zero, bVar.Name))

	m := mangle.New(in, tys, nil, mangle.SchemeItanium)
	b := NewBuilder(in, tys, symtab.NewGlobal(), m)
	b.DeclareLocal(a.Name, structIdx)
	b.DeclareLocal(bVar.Name, structIdx)

	dst, lv := b.LowerExpr(lt)
	_ = dst
	if lv.Kind != ir.NotLValue {
		t.Errorf("relational comparison should not be an lvalue")
	}

	var sawCall bool
	for _, instr := range b.instrs {
		if instr.Op == ir.OpCall && instr.Call.MangledName == spaceship {
			sawCall = true
		}
	}
	if !sawCall {
		t.Error("want a call to the synthesized operator<=>")
	}
}
