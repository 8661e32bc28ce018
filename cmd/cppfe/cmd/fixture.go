package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/cppfe/internal/compiler"
	"github.com/cwbudde/cppfe/internal/token"
)

// fixtureToken is one entry of a pre-tokenized fixture file. cppfe's
// core has no lexer (SPEC_FULL.md §5 Non-goals), so every subcommand
// that needs a token stream reads one of these instead of .cpp source.
type fixtureToken struct {
	Kind   string `yaml:"kind"`
	Text   string `yaml:"text"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

type fixtureFile struct {
	Tokens []fixtureToken `yaml:"tokens"`
}

var fixtureKinds = map[string]token.Kind{
	"identifier":      token.Identifier,
	"keyword":         token.Keyword,
	"numeric-literal": token.NumericLiteral,
	"string-literal":  token.StringLiteral,
	"char-literal":    token.CharLiteral,
	"operator":        token.Operator,
	"punctuator":      token.Punctuator,
	"eof":             token.EOF,
}

// readFixture loads path (a YAML or JSON document shaped like
// fixtureFile — JSON is valid YAML, so either works) and interns each
// token's text into ctx's string table, appending a trailing EOF token
// if the fixture didn't already end with one.
func readFixture(path string, ctx *compiler.Context) ([]token.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	toks := make([]token.Token, 0, len(f.Tokens)+1)
	for _, ft := range f.Tokens {
		kind, ok := fixtureKinds[ft.Kind]
		if !ok {
			return nil, fmt.Errorf("%s: unknown token kind %q", path, ft.Kind)
		}
		toks = append(toks, token.Token{
			Kind:  kind,
			Value: token.StringHandle(ctx.Interner.Intern(ft.Text)),
			Pos:   token.Position{Line: ft.Line, Column: ft.Column},
		})
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	return toks, nil
}
