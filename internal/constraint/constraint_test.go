package constraint

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/overload"
	"github.com/cwbudde/cppfe/internal/template"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

func identityTemplate(in *intern.Table, arena *ast.Arena) *template.Definition {
	var zero token.Position
	paramT := in.Intern("T")

	underlying := ast.NewFunctionDeclaration(arena, zero, &ast.FunctionDeclarationNode{
		Name: in.Intern("identity"),
		Params: []*ast.VariableDeclarationNode{
			ast.NewVariableDeclaration(arena, zero, &ast.VariableDeclarationNode{
				Name: in.Intern("v"),
				Type: types.Void, // dependent; substituted per-call
			}),
		},
		ReturnType: types.Void,
	})

	tmplFn := ast.NewTemplateFunctionDeclaration(arena, zero, &ast.TemplateFunctionDeclarationNode{
		Name: in.Intern("identity"),
		Params: []ast.TemplateParam{
			{Name: paramT},
		},
		Underlying: underlying,
	})

	return &template.Definition{Name: tmplFn.Name, Kind: template.KindFunction, FunctionDecl: tmplFn}
}

func TestTryFormCandidateSucceedsWithoutConstraint(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	arena := ast.NewArena()

	def := identityTemplate(in, arena)
	reg := template.NewRegistry(in, tys)
	reg.Register(def)

	c := NewContext(reg, arena)
	bindings := template.Bindings{
		in.Intern("T"): {Type: tys.BuiltinIndex(types.BInt)},
	}

	cand, ok := c.TryFormCandidate(tys, Attempt{Definition: def, Bindings: bindings})
	if !ok {
		t.Fatalf("expected substitution to succeed, got %d swallowed failures", len(c.Swallowed))
	}
	if !cand.FromTemplate {
		t.Errorf("candidate formed from a template should report FromTemplate")
	}
	if len(c.Swallowed) != 0 {
		t.Errorf("no failures should be swallowed on the success path, got %v", c.Swallowed)
	}
}

func TestResolveWithSFINAEPicksOrdinaryOverTemplateOnTie(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	arena := ast.NewArena()
	intTy := tys.BuiltinIndex(types.BInt)

	def := identityTemplate(in, arena)
	def.FunctionDecl.Underlying.Params[0].Type = intTy
	reg := template.NewRegistry(in, tys)
	reg.Register(def)

	c := NewContext(reg, arena)
	ordinary := []overload.Candidate{
		{Name: in.Intern("identity"), ParamTypes: []types.Index{intTy}, Index: 0},
	}
	attempts := []Attempt{
		{Definition: def, Bindings: template.Bindings{in.Intern("T"): {Type: intTy}}},
	}
	args := []overload.Arg{{Type: intTy}}

	res := c.ResolveWithSFINAE(tys, ordinary, attempts, args)
	if res.Best == nil {
		t.Fatalf("expected a winner, got %+v", res)
	}
	if res.Best.FromTemplate {
		t.Errorf("the ordinary (non-template) candidate should win an exact-match tie")
	}
}
