package parser

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/token"
)

// ParseStatement parses one statement: a compound block, a selection/
// iteration/jump statement, a declaration-statement, or an expression-
// statement, falling through to the last as the universal default.
func (p *Parser) ParseStatement() ast.Stmt {
	switch {
	case p.is("{"):
		return p.parseBlock()
	case p.is("if"):
		return p.parseIf()
	case p.is("while"):
		return p.parseWhile()
	case p.is("for"):
		return p.parseFor()
	case p.is("return"):
		return p.parseReturn()
	case p.looksLikeDeclaration():
		return p.parseDeclStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	pos := p.pos()
	p.expect("{")
	var stmts []ast.Stmt
	for !p.is("}") && p.cur().Kind != token.EOF {
		s := p.ParseStatement()
		if s == nil {
			p.Cursor.Advance() // error recovery: skip the offending token
			continue
		}
		stmts = append(stmts, s)
	}
	p.expect("}")
	return ast.NewBlockStatement(p.Arena, pos, stmts)
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("(")
	cond := p.ParseExpression()
	p.expect(")")
	then := p.ParseStatement()
	var els ast.Stmt
	if p.accept("else") {
		els = p.ParseStatement()
	}
	return ast.NewIfStatement(p.Arena, pos, cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("(")
	cond := p.ParseExpression()
	p.expect(")")
	body := p.ParseStatement()
	return ast.NewWhileStatement(p.Arena, pos, cond, body)
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("(")

	var init ast.Stmt
	if !p.is(";") {
		if p.looksLikeDeclaration() {
			init = p.parseDeclStatement()
		} else {
			init = p.parseExpressionStatement()
		}
	} else {
		p.Cursor.Advance()
	}

	var cond ast.Expr
	if !p.is(";") {
		cond = p.ParseExpression()
	}
	p.expect(";")

	var post ast.Expr
	if !p.is(")") {
		post = p.ParseExpression()
	}
	p.expect(")")

	body := p.ParseStatement()
	return ast.NewForStatement(p.Arena, pos, init, cond, post, body)
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.pos()
	p.Cursor.Advance()
	var v ast.Expr
	if !p.is(";") {
		v = p.ParseExpression()
	}
	p.expect(";")
	return ast.NewReturnStatement(p.Arena, pos, v)
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	pos := p.pos()
	e := p.ParseExpression()
	p.expect(";")
	return ast.NewExpressionStatement(p.Arena, pos, e)
}

func (p *Parser) parseDeclStatement() ast.Stmt {
	pos := p.pos()
	if p.is("static_assert") {
		return ast.NewDeclStatement(p.Arena, pos, p.parseStaticAssert())
	}
	v := p.parseVariableDeclaration()
	p.expect(";")
	return ast.NewDeclStatement(p.Arena, pos, v)
}

// looksLikeDeclaration is the statement-level type-vs-expression
// disambiguation: a statement beginning with a keyword
// naming a built-in type, or with an identifier previously declared as
// a type, starts a declaration rather than an expression.
func (p *Parser) looksLikeDeclaration() bool {
	if p.is("static_assert") {
		return true
	}
	return p.looksLikeTypeID(0)
}
