package ir

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/cwbudde/cppfe/internal/intern"
)

func TestDumpJSONRoundTripsConstAndReturn(t *testing.T) {
	in := intern.New()
	name := in.Intern("answer")
	mangled := in.Intern("_Z6answerv")

	fn := &Function{
		Name:        name,
		MangledName: mangled,
		NumTemps:    1,
		Instructions: []Instruction{
			{Op: OpConst, Const: &ConstOp{Dst: 0, IntValue: 42}},
			{Op: OpReturn, Return: &ReturnOp{Value: 0, HasValue: true}},
		},
	}

	doc, err := DumpJSON(fn, in)
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}

	if got := gjson.Get(doc, "name").String(); got != "answer" {
		t.Errorf("name = %q, want %q", got, "answer")
	}
	if got := gjson.Get(doc, "mangledName").String(); got != "_Z6answerv" {
		t.Errorf("mangledName = %q, want %q", got, "_Z6answerv")
	}
	if got := gjson.Get(doc, "instructions.0.op").String(); got != "const" {
		t.Errorf("instructions.0.op = %q, want %q", got, "const")
	}
	if got := gjson.Get(doc, "instructions.0.intValue").Int(); got != 42 {
		t.Errorf("instructions.0.intValue = %d, want 42", got)
	}
	if got := gjson.Get(doc, "instructions.1.op").String(); got != "return" {
		t.Errorf("instructions.1.op = %q, want %q", got, "return")
	}
	if got := gjson.Get(doc, "instructions.1.value").Int(); got != 0 {
		t.Errorf("instructions.1.value = %d, want 0", got)
	}
}

func TestDumpJSONOmitsValueForVoidReturn(t *testing.T) {
	in := intern.New()
	fn := &Function{
		Name: in.Intern("noop"),
		Instructions: []Instruction{
			{Op: OpReturn, Return: &ReturnOp{}},
		},
	}

	doc, err := DumpJSON(fn, in)
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	if gjson.Get(doc, "instructions.0.value").Exists() {
		t.Error("want no value field on a void return")
	}
}
