package ir

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/cppfe/internal/intern"
)

// TestDumpJSONSnapshotMax snapshots DumpJSON's rendering of a small
// branching function (`int max(int a, int b)`), so a change to the
// dump's field names or opcode labels shows up as a diff instead of
// silently passing unit assertions that only check a handful of paths.
func TestDumpJSONSnapshotMax(t *testing.T) {
	in := intern.New()

	fn := &Function{
		Name:        in.Intern("max"),
		MangledName: in.Intern("_Z3maxii"),
		NumLocals:   2,
		NumTemps:    1,
		Instructions: []Instruction{
			{Op: OpLocalLoad, Local: &LocalOp{Dst: 0, Slot: 0}},
			{Op: OpLocalLoad, Local: &LocalOp{Dst: 1, Slot: 1}},
			{Op: OpBinary, BinaryOp: &BinaryOp{Dst: 2, Lhs: 0, Rhs: 1, Op: ">"}},
			{Op: OpCondBranch, CondBranch: &ConditionalBranchOp{Cond: 2, TrueTarget: "if.then", FalseTarget: "if.end"}},
			{Op: OpLabel, Label: &LabelOp{Name: "if.then"}},
			{Op: OpReturn, Return: &ReturnOp{Value: 0, HasValue: true}},
			{Op: OpLabel, Label: &LabelOp{Name: "if.end"}},
			{Op: OpReturn, Return: &ReturnOp{Value: 1, HasValue: true}},
		},
	}

	doc, err := DumpJSON(fn, in)
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	snaps.MatchSnapshot(t, "max_ir", doc)
}
