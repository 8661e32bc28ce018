package mangle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/types"
)

// TestMangledNameTableSnapshot snapshots a table of Itanium-mangled
// names across free functions, overloads, and a member function, so a
// change to the mangling grammar shows up
// as a reviewable diff rather than a set of scattered exact-match
// assertions that each need updating by hand.
func TestMangledNameTableSnapshot(t *testing.T) {
	in := intern.New()
	tys := types.NewRegistry(in)
	m := New(in, tys, nil, SchemeItanium)

	intTy := tys.BuiltinIndex(types.BInt)
	doubleTy := tys.BuiltinIndex(types.BDouble)
	boolTy := tys.BuiltinIndex(types.BBool)

	entries := []struct {
		label string
		got   string
	}{
		{"square(int)", m.FunctionName(nil, "square", []types.Index{intTy}, types.LinkageCpp)},
		{"add(int,int)", m.FunctionName(nil, "add", []types.Index{intTy, intTy}, types.LinkageCpp)},
		{"add(double,double)", m.FunctionName(nil, "add", []types.Index{doubleTy, doubleTy}, types.LinkageCpp)},
		{"isEven(int)", m.FunctionName(nil, "isEven", []types.Index{intTy}, types.LinkageCpp)},
		{"Widget::touch() const", m.MemberFunctionName(nil, "Widget", "touch", nil, true)},
		{"ns::helper(bool)", m.FunctionName([]string{"ns"}, "helper", []types.Index{boolTy}, types.LinkageCpp)},
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-24s -> %s\n", e.label, e.got)
	}
	snaps.MatchSnapshot(t, "itanium_table", b.String())
}
