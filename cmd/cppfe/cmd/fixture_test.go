package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/cppfe/internal/compiler"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/lower"
	"github.com/cwbudde/cppfe/internal/mangle"
	"github.com/cwbudde/cppfe/internal/token"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReadFixtureAppendsTrailingEOF(t *testing.T) {
	path := writeFixture(t, `
tokens:
  - {kind: keyword, text: "int"}
  - {kind: identifier, text: "main"}
  - {kind: punctuator, text: "("}
  - {kind: punctuator, text: ")"}
`)

	ctx := compiler.New(mangle.SchemeItanium, lower.ModelLP64, lower.ABISystemV)
	toks, err := readFixture(path, ctx)
	if err != nil {
		t.Fatalf("readFixture: %v", err)
	}
	if len(toks) != 5 {
		t.Fatalf("want 5 tokens (4 + trailing EOF), got %d", len(toks))
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("last token should be EOF, got %v", toks[len(toks)-1].Kind)
	}
	if got := ctx.Interner.View(intern.Handle(toks[1].Value)); got != "main" {
		t.Fatalf("want identifier text %q, got %q", "main", got)
	}
}

func TestReadFixtureRejectsUnknownKind(t *testing.T) {
	path := writeFixture(t, `
tokens:
  - {kind: bogus, text: "x"}
`)
	ctx := compiler.New(mangle.SchemeItanium, lower.ModelLP64, lower.ABISystemV)
	if _, err := readFixture(path, ctx); err == nil {
		t.Fatal("want error for unknown token kind")
	}
}
