package ast

import (
	"testing"

	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/token"
)

func TestArenaTracksAllocations(t *testing.T) {
	a := NewArena()
	in := intern.New()
	pos := token.Position{Line: 1, Column: 1}

	x := NewIdentifier(a, pos, in.Intern("x"))
	y := NewIdentifier(a, pos, in.Intern("y"))
	NewBinaryOperator(a, pos, "+", x, y)

	if a.Len() != 3 {
		t.Errorf("Arena.Len() = %d, want 3", a.Len())
	}
}

func TestNodePointersStableAcrossAppends(t *testing.T) {
	a := NewArena()
	in := intern.New()
	pos := token.Position{}

	first := NewIdentifier(a, pos, in.Intern("first"))
	for i := 0; i < 1000; i++ {
		NewIdentifier(a, pos, in.Intern("filler"))
	}
	if first.Name != in.Intern("first") {
		t.Fatalf("interner broken")
	}
	// The whole point of heap-allocating nodes individually is that
	// `first`'s address never moves even as thousands more nodes are
	// appended to the arena afterward.
	if a.Nodes()[0].(*IdentifierNode) != first {
		t.Errorf("first node's identity changed after further allocation")
	}
}

func TestWalkVisitsBinaryOperands(t *testing.T) {
	a := NewArena()
	in := intern.New()
	pos := token.Position{}

	x := NewIdentifier(a, pos, in.Intern("x"))
	y := NewIdentifier(a, pos, in.Intern("y"))
	add := NewBinaryOperator(a, pos, "+", x, y)

	var visited []Node
	Inspect(add, func(n Node) bool {
		if n != nil {
			visited = append(visited, n)
		}
		return true
	})

	if len(visited) != 3 {
		t.Fatalf("expected 3 visited nodes (add, x, y), got %d", len(visited))
	}
	if visited[0] != Node(add) || visited[1] != Node(x) || visited[2] != Node(y) {
		t.Errorf("unexpected visit order: %v", visited)
	}
}
