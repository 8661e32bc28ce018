// Package parser implements cppfe's recursive-descent expression and
// declaration parser: a hand-written Pratt-style precedence climb over
// the primary-expression decisions of C++20, built as a single mutable
// cursor with Optional/expect-style helpers and speculative
// Save/Reset-backed lookahead at genuine ambiguity points, against
// this module's own token.Cursor and ast.Arena.
package parser

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/perr"
	"github.com/cwbudde/cppfe/internal/symtab"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// Mode flags how the parser reacts to a malformed construct. SFINAE
// contexts (substituting into a requires-expression or a default
// template argument during deduction) demote what would otherwise be a
// hard parse error into a swallowed substitution failure instead of
// adding it to Errors.
type Mode int

const (
	ModeOrdinary Mode = iota
	ModeSFINAE
)

// Parser walks a token.Cursor building AST nodes into a shared Arena,
// consulting the symbol table for the `<` template-vs-less-than
// disambiguation heuristic and the type registry to
// resolve type-ids as they're parsed.
type Parser struct {
	Cursor   *token.Cursor
	Arena    *ast.Arena
	Interner *intern.Table
	Types    *types.Registry
	Symbols  *symtab.Table
	NS       *nsreg.Registry

	Mode Mode

	Errors perr.List
	// Swallowed collects substitution failures demoted under ModeSFINAE.
	Swallowed []*perr.Error

	// templateParams names the template parameters currently in scope
	// while parsing a template's underlying declaration, so a bare
	// identifier inside it (e.g. `N` in `template<int N> ... N + 1`)
	// parses as a TemplateParameterReferenceNode rather than an
	// ordinary, unresolvable IdentifierNode.
	templateParams map[intern.Handle]bool
}

func New(c *token.Cursor, a *ast.Arena, in *intern.Table, tys *types.Registry, sym *symtab.Table, ns *nsreg.Registry) *Parser {
	return &Parser{Cursor: c, Arena: a, Interner: in, Types: tys, Symbols: sym, NS: ns}
}

func (p *Parser) cur() token.Token       { return p.Cursor.Current() }
func (p *Parser) peek(n int) token.Token { return p.Cursor.Peek(n) }
func (p *Parser) pos() token.Position    { return p.cur().Pos }

// text returns the interned spelling of tok.
func (p *Parser) text(tok token.Token) string {
	if tok.Value == token.InvalidHandle {
		return ""
	}
	return p.Interner.View(intern.Handle(tok.Value))
}

// is reports whether the current token is spelled lit.
func (p *Parser) is(lit string) bool {
	t := p.cur()
	if t.Kind != token.Operator && t.Kind != token.Punctuator && t.Kind != token.Keyword {
		return false
	}
	return p.text(t) == lit
}

// accept consumes the current token if it is spelled lit.
func (p *Parser) accept(lit string) bool {
	if p.is(lit) {
		p.Cursor.Advance()
		return true
	}
	return false
}

// expect consumes the current token, which must be spelled lit,
// raising a syntax error (or, under ModeSFINAE, a swallowed
// substitution failure) otherwise.
func (p *Parser) expect(lit string) bool {
	if p.accept(lit) {
		return true
	}
	p.fail("expected '%s', found '%s'", lit, p.text(p.cur()))
	return false
}

func (p *Parser) fail(format string, args ...any) {
	e := perr.New(perr.KindSyntax, p.pos(), format, args...)
	if p.Mode == ModeSFINAE {
		p.Swallowed = append(p.Swallowed, e)
		return
	}
	p.Errors.Add(e)
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.Errors.Add(perr.New(perr.KindSemantic, pos, format, args...))
}

// identifierName interns the current token's text as an identifier and
// advances past it.
func (p *Parser) identifierName() (intern.Handle, bool) {
	t := p.cur()
	if t.Kind != token.Identifier {
		p.fail("expected identifier, found '%s'", p.text(t))
		return 0, false
	}
	p.Cursor.Advance()
	return intern.Handle(t.Value), true
}

// pushTemplateParams brings params into scope for the duration of
// parsing a template's underlying declaration, returning a restore
// func that pops them back out. Nested template declarations shadow
// an outer parameter of the same name for the inner scope's duration.
func (p *Parser) pushTemplateParams(params []ast.TemplateParam) func() {
	if p.templateParams == nil {
		p.templateParams = make(map[intern.Handle]bool)
	}
	added := make([]intern.Handle, 0, len(params))
	shadowed := make([]intern.Handle, 0)
	for _, param := range params {
		if param.Name == 0 {
			continue
		}
		if p.templateParams[param.Name] {
			shadowed = append(shadowed, param.Name)
			continue
		}
		p.templateParams[param.Name] = true
		added = append(added, param.Name)
	}
	return func() {
		for _, name := range added {
			delete(p.templateParams, name)
		}
		for _, name := range shadowed {
			p.templateParams[name] = true
		}
	}
}

// isTemplateParamName reports whether name is a template parameter
// currently in scope.
func (p *Parser) isTemplateParamName(name intern.Handle) bool {
	return p.templateParams[name]
}

// withMode runs fn with Mode temporarily set to m, restoring the
// previous mode afterward, and returns the errors swallowed while fn
// ran. It is the only place that sets p.Mode; nothing in this module
// calls it.
func (p *Parser) withMode(m Mode, fn func()) []*perr.Error {
	prev := p.Mode
	prevSwallowed := p.Swallowed
	p.Mode = m
	p.Swallowed = nil
	fn()
	collected := p.Swallowed
	p.Swallowed = prevSwallowed
	p.Mode = prev
	return collected
}
