package types

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/intern"
)

func TestBuiltinCanonicalization(t *testing.T) {
	in := intern.New()
	r := NewRegistry(in)

	signedInt, ok := r.LookupByName(in.Intern("signed int"))
	if !ok {
		t.Fatal("expected 'signed int' to be pre-registered")
	}
	if signedInt != r.BuiltinIndex(BInt) {
		t.Errorf("'signed int' should canonicalize to the same Index as 'int'")
	}
}

func TestPointerDepth(t *testing.T) {
	in := intern.New()
	r := NewRegistry(in)

	intIdx := r.BuiltinIndex(BInt)
	p1 := r.Pointer(intIdx)
	p2 := r.Pointer(p1)

	depth, base := r.PointerDepth(p2)
	if depth != 2 {
		t.Errorf("PointerDepth = %d, want 2", depth)
	}
	if base != intIdx {
		t.Errorf("base = %v, want int", base)
	}
	if r.SizeBits(p2) != 64 {
		t.Errorf("pointer size = %d, want 64", r.SizeBits(p2))
	}
}

func TestPointerIdempotentByName(t *testing.T) {
	in := intern.New()
	r := NewRegistry(in)
	intIdx := r.BuiltinIndex(BInt)

	p1 := r.Pointer(intIdx)
	p2 := r.Pointer(intIdx)
	if p1 != p2 {
		t.Errorf("Pointer(int) should be idempotent, got %v and %v", p1, p2)
	}
}

func TestStructLayoutAlignmentAndOffsets(t *testing.T) {
	in := intern.New()
	r := NewRegistry(in)

	// struct P { char c; int x; double d; };
	p := r.DeclareStruct(in.Intern("P"))
	info := r.Get(p).Struct
	info.Members = []StructMember{
		{Name: in.Intern("c"), Type: r.BuiltinIndex(BChar)},
		{Name: in.Intern("x"), Type: r.BuiltinIndex(BInt)},
		{Name: in.Intern("d"), Type: r.BuiltinIndex(BDouble)},
	}
	r.ComputeLayout(p)

	if info.Members[0].ByteOffset != 0 {
		t.Errorf("c offset = %d, want 0", info.Members[0].ByteOffset)
	}
	if info.Members[1].ByteOffset != 4 {
		t.Errorf("x offset = %d, want 4", info.Members[1].ByteOffset)
	}
	if info.Members[2].ByteOffset != 8 {
		t.Errorf("d offset = %d, want 8", info.Members[2].ByteOffset)
	}
	if info.TotalSizeBits%info.AlignmentBits != 0 {
		t.Errorf("total size %d not a multiple of alignment %d", info.TotalSizeBits, info.AlignmentBits)
	}
	if info.TotalSizeBits != 16*8 {
		t.Errorf("total size = %d bits, want 128", info.TotalSizeBits)
	}
}

func TestIncompleteInstantiationBlocksSize(t *testing.T) {
	in := intern.New()
	r := NewRegistry(in)
	p := r.DeclareStruct(in.Intern("Box<int>"))
	r.Get(p).Struct.IsIncompleteInstantiation = true

	if r.IsComplete(p) {
		t.Errorf("expected incomplete instantiation to report !IsComplete")
	}
}
