package overload

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

func TestResolvePrefersPromotionOverConversion(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)
	doubleTy := tys.BuiltinIndex(types.BDouble)
	shortTy := tys.BuiltinIndex(types.BShort)

	candidates := []Candidate{
		{Name: in.Intern("f"), ParamTypes: []types.Index{intTy}, Index: 0},
		{Name: in.Intern("f"), ParamTypes: []types.Index{doubleTy}, Index: 1},
	}
	args := []Arg{{Type: shortTy}}

	res := Resolve(tys, candidates, args)
	if res.NoViable || res.Ambiguous {
		t.Fatalf("expected a unique winner, got %+v", res)
	}
	if res.Best.Index != 0 {
		t.Errorf("short->int is a promotion and should beat short->double, got candidate %d", res.Best.Index)
	}
}

func TestResolveExactMatchWins(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)
	doubleTy := tys.BuiltinIndex(types.BDouble)

	candidates := []Candidate{
		{Name: in.Intern("f"), ParamTypes: []types.Index{doubleTy}, Index: 0},
		{Name: in.Intern("f"), ParamTypes: []types.Index{intTy}, Index: 1},
	}
	args := []Arg{{Type: intTy}}

	res := Resolve(tys, candidates, args)
	if res.Best == nil || res.Best.Index != 1 {
		t.Fatalf("want exact-match candidate 1, got %+v", res)
	}
}

func TestResolveNoViableWhenArgCountMismatches(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)

	candidates := []Candidate{
		{Name: in.Intern("f"), ParamTypes: []types.Index{intTy, intTy}, Index: 0},
	}
	args := []Arg{{Type: intTy}}

	res := Resolve(tys, candidates, args)
	if !res.NoViable {
		t.Errorf("want NoViable for a one-argument call against a two-parameter candidate, got %+v", res)
	}
}

func TestResolveVariadicAbsorbsExtraArgs(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)
	doubleTy := tys.BuiltinIndex(types.BDouble)

	candidates := []Candidate{
		{Name: in.Intern("printf"), ParamTypes: []types.Index{intTy}, IsVariadic: true, Index: 0},
	}
	args := []Arg{{Type: intTy}, {Type: doubleTy}}

	res := Resolve(tys, candidates, args)
	if res.Best == nil || res.Best.Index != 0 {
		t.Fatalf("want the variadic candidate to absorb the trailing arg, got %+v", res)
	}
}

func TestResolveNonTemplateBeatsTemplateOnTie(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)

	candidates := []Candidate{
		{Name: in.Intern("f"), ParamTypes: []types.Index{intTy}, FromTemplate: true, Index: 0},
		{Name: in.Intern("f"), ParamTypes: []types.Index{intTy}, FromTemplate: false, Index: 1},
	}
	args := []Arg{{Type: intTy}}

	res := Resolve(tys, candidates, args)
	if res.Best == nil || res.Best.Index != 1 {
		t.Fatalf("want the non-template candidate to win an exact-match tie, got %+v", res)
	}
}

func TestResolveAmbiguousBetweenTwoNonTemplates(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	intTy := tys.BuiltinIndex(types.BInt)
	p1 := tys.Pointer(intTy)
	p2 := tys.Pointer(tys.BuiltinIndex(types.BVoid))

	// Both candidates take a pointer; argType is int* and both are
	// viable at the same Conversion rank (int* -> void* is a
	// conversion, and int* -> int* would be exact so pick an argument
	// that ties two non-exact candidates instead).
	candidates := []Candidate{
		{Name: in.Intern("g"), ParamTypes: []types.Index{p2}, Index: 0},
		{Name: in.Intern("g"), ParamTypes: []types.Index{p2}, Index: 1},
	}
	args := []Arg{{Type: p1}}

	res := Resolve(tys, candidates, args)
	if !res.Ambiguous {
		t.Errorf("want Ambiguous for two identically-ranked non-template candidates, got %+v", res)
	}
}
