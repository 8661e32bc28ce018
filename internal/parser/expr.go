package parser

import (
	"strings"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/consteval"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// binaryPrecedence maps a binary operator's spelling to its climbing
// level; higher binds tighter. Mirrors the standard's operator-
// precedence table, built as a precedence table plus one climbing loop.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	".*": 11, "->*": 11,
}

var rightAssociative = map[string]bool{}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// ParseExpression parses a full comma-expression, the entry point for
// any context expecting one expression.
func (p *Parser) ParseExpression() ast.Expr {
	first := p.parseAssignment()
	if first == nil {
		return nil
	}
	for p.is(",") {
		pos := p.pos()
		p.Cursor.Advance()
		rhs := p.parseAssignment()
		if rhs == nil {
			break
		}
		first = ast.NewBinaryOperator(p.Arena, pos, ",", first, rhs)
	}
	return first
}

// parseAssignment handles the lowest non-comma level: the ternary
// conditional (itself parsing everything tighter) on the left of a
// right-associative assignment operator.
func (p *Parser) parseAssignment() ast.Expr {
	lhs := p.parseTernary()
	if lhs == nil {
		return nil
	}
	t := p.cur()
	if (t.Kind == token.Operator || t.Kind == token.Punctuator) && assignmentOps[p.text(t)] {
		op := p.text(t)
		pos := p.pos()
		p.Cursor.Advance()
		rhs := p.parseAssignment() // right-associative
		return ast.NewBinaryOperator(p.Arena, pos, op, lhs, rhs)
	}
	return lhs
}

// parseTernary parses `cond ? then : else`, right-associative in the
// else-branch per the standard's grammar.
func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseBinary(1)
	if cond == nil {
		return nil
	}
	if !p.is("?") {
		return cond
	}
	pos := p.pos()
	p.Cursor.Advance()
	then := p.ParseExpression()
	if !p.expect(":") {
		return cond
	}
	els := p.parseAssignment()
	return ast.NewTernaryOperator(p.Arena, pos, cond, then, els)
}

// parseBinary climbs binaryPrecedence starting at minPrec, the
// standard iterative precedence-climbing shape.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	for {
		t := p.cur()
		if t.Kind != token.Operator {
			break
		}
		op := p.text(t)
		prec, ok := binaryPrecedence[op]
		if !ok || prec < minPrec {
			break
		}
		pos := p.pos()
		p.Cursor.Advance()
		nextMin := prec + 1
		if rightAssociative[op] {
			nextMin = prec
		}
		rhs := p.parseBinary(nextMin)
		if rhs == nil {
			p.fail("expected expression after binary operator '%s'", op)
			return lhs
		}
		lhs = ast.NewBinaryOperator(p.Arena, pos, op, lhs, rhs)
	}
	return lhs
}

// parseUnary handles prefix operators, prefix increment/decrement,
// sizeof/alignof, and the named-cast/C-style-cast forms, falling
// through to parsePostfix for everything else.
func (p *Parser) parseUnary() ast.Expr {
	t := p.cur()
	switch {
	case p.is("+"), p.is("-"), p.is("!"), p.is("~"), p.is("*"), p.is("&"):
		op := p.text(t)
		pos := p.pos()
		p.Cursor.Advance()
		operand := p.parseUnary()
		return ast.NewUnaryOperator(p.Arena, pos, op, operand, false)

	case p.is("++"), p.is("--"):
		op := p.text(t)
		pos := p.pos()
		p.Cursor.Advance()
		operand := p.parseUnary()
		return ast.NewUnaryOperator(p.Arena, pos, op, operand, false)

	case p.is("sizeof"):
		return p.parseSizeof()

	case p.is("alignof"), p.is("_Alignof"):
		pos := p.pos()
		p.Cursor.Advance()
		p.expect("(")
		typ := p.parseTypeID()
		p.expect(")")
		return ast.NewAlignof(p.Arena, pos, typ)

	case p.is("static_cast"), p.is("dynamic_cast"), p.is("const_cast"), p.is("reinterpret_cast"):
		return p.parseNamedCast()

	case p.is("("):
		if cast, ok := p.tryParseCStyleCast(); ok {
			return cast
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parseSizeof() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance()
	if p.is("...") {
		p.Cursor.Advance()
		p.expect("(")
		name, _ := p.identifierName()
		p.expect(")")
		return ast.NewSizeofPack(p.Arena, pos, name)
	}
	if p.is("(") && p.looksLikeTypeID(1) {
		p.Cursor.Advance()
		typ := p.parseTypeID()
		p.expect(")")
		return ast.NewSizeofType(p.Arena, pos, typ)
	}
	operand := p.parseUnary()
	return ast.NewSizeofExpr(p.Arena, pos, operand)
}

func (p *Parser) parseNamedCast() ast.Expr {
	kindWord := p.text(p.cur())
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("<")
	typ := p.parseTypeID()
	p.expect(">")
	p.expect("(")
	operand := p.ParseExpression()
	p.expect(")")

	kind := ast.CastStatic
	switch kindWord {
	case "dynamic_cast":
		kind = ast.CastDynamic
	case "const_cast":
		kind = ast.CastConst
	case "reinterpret_cast":
		kind = ast.CastReinterpret
	}
	return ast.NewCast(p.Arena, pos, kind, typ, operand)
}

// tryParseCStyleCast speculatively parses `( type-id ) unary-expr`,
// resetting the cursor and falling back to a parenthesized expression
// if what follows the `)` cannot start a unary-expression — the same
// save/restore disambiguation calls out for this exact
// ambiguity (`(T)` cast vs. `(expr)` grouping).
func (p *Parser) tryParseCStyleCast() (ast.Expr, bool) {
	mark := p.Cursor.Save()
	pos := p.pos()
	if !p.looksLikeTypeID(1) {
		return nil, false
	}
	p.Cursor.Advance() // consume '('
	typ := p.parseTypeID()
	if !p.accept(")") {
		p.Cursor.Reset(mark)
		return nil, false
	}
	if !p.startsUnaryExpression() {
		p.Cursor.Reset(mark)
		return nil, false
	}
	operand := p.parseUnary()
	p.Cursor.Discard(mark)
	return ast.NewCast(p.Arena, pos, ast.CastCStyle, typ, operand), true
}

// startsUnaryExpression is a conservative check used only to decide
// whether a just-parsed `(type-id)` is a cast: it does not
// need to be exhaustive, only to rule out tokens that can end an
// expression (closing punctuation, a binary/assignment operator, EOF).
func (p *Parser) startsUnaryExpression() bool {
	t := p.cur()
	switch t.Kind {
	case token.EOF:
		return false
	case token.Identifier, token.NumericLiteral, token.StringLiteral, token.CharLiteral:
		return true
	}
	if p.is(")") || p.is("]") || p.is("}") || p.is(";") || p.is(",") || p.is(":") {
		return false
	}
	if assignmentOps[p.text(t)] {
		return false
	}
	if _, ok := binaryPrecedence[p.text(t)]; ok {
		return false
	}
	return true
}

// looksLikeTypeID is a best-effort lookahead at offset n: true when the
// token there names a known type (builtin keyword or a symbol
// previously declared as a struct/enum/alias), which is the same
// information the `<` template-argument-list heuristic needs, just
// applied to the C-style-cast ambiguity instead.
func (p *Parser) looksLikeTypeID(n int) bool {
	t := p.peek(n)
	if t.Kind == token.Keyword {
		switch p.text(t) {
		case "int", "char", "bool", "float", "double", "void", "long", "short",
			"unsigned", "signed", "const", "struct", "class", "enum", "auto", "decltype":
			return true
		}
		return false
	}
	if t.Kind != token.Identifier {
		return false
	}
	name := intern.Handle(t.Value)
	if _, ok := p.Types.LookupByName(name); ok {
		return true
	}
	return p.Symbols != nil && p.Symbols.IsKnownTemplate(name)
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.is("("):
			expr = p.parseCallSuffix(expr)
		case p.is("["):
			pos := p.pos()
			p.Cursor.Advance()
			idx := p.ParseExpression()
			p.expect("]")
			expr = ast.NewArraySubscript(p.Arena, pos, expr, idx)
		case p.is("."), p.is("->"):
			arrow := p.is("->")
			pos := p.pos()
			p.Cursor.Advance()
			name, ok := p.identifierName()
			if !ok {
				return expr
			}
			if p.is("(") {
				expr = p.parseMemberCallSuffix(expr, name, arrow, pos)
			} else {
				expr = ast.NewMemberAccess(p.Arena, pos, expr, name, arrow)
			}
		case p.is("++"), p.is("--"):
			op := p.text(p.cur())
			pos := p.pos()
			p.Cursor.Advance()
			expr = ast.NewUnaryOperator(p.Arena, pos, op, expr, true)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallSuffix(callee ast.Expr) ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // '('
	if typ, ok := p.calleeAsType(callee); ok {
		args := p.parseArgumentList()
		p.expect(")")
		return p.buildTypeCall(pos, typ, args, false)
	}
	args := p.parseArgumentList()
	p.expect(")")
	return ast.NewFunctionCall(p.Arena, pos, callee, args)
}

// calleeAsType recognizes `T(args)` where T names a type rather than a
// callable, the functional-cast-vs-constructor-call ambiguity: a name
// that also denotes a declared symbol (a variable or function) is
// never reinterpreted as a type, since the symbol shadows the type in
// that scope.
func (p *Parser) calleeAsType(callee ast.Expr) (types.Index, bool) {
	var name intern.Handle
	switch c := callee.(type) {
	case *ast.IdentifierNode:
		name = c.Name
	case *ast.QualifiedIdentifierNode:
		name = c.Name
	default:
		return types.Void, false
	}
	if p.Symbols != nil {
		if _, ok := p.Symbols.Lookup(name); ok {
			return types.Void, false
		}
	}
	return p.Types.LookupByName(name)
}

// buildTypeCall builds either a ConstructorCallNode (class types) or a
// CastNode of kind CastFunctional (built-in types, where `T(x)` is
// just another spelling of `(T)x`) for a type-as-callee primary
// expression, covering both the parenthesized and braced forms.
func (p *Parser) buildTypeCall(pos token.Position, typ types.Index, args []ast.Expr, braced bool) ast.Expr {
	if p.Types.Get(typ).Kind == types.KindStruct {
		return ast.NewConstructorCall(p.Arena, pos, typ, args, braced)
	}
	var operand ast.Expr
	if len(args) == 1 {
		operand = args[0]
	}
	return ast.NewCast(p.Arena, pos, ast.CastFunctional, typ, operand)
}

func (p *Parser) parseMemberCallSuffix(obj ast.Expr, member intern.Handle, arrow bool, pos token.Position) ast.Expr {
	p.Cursor.Advance() // '('
	args := p.parseArgumentList()
	p.expect(")")
	return ast.NewMemberFunctionCall(p.Arena, pos, obj, member, args, arrow)
}

func (p *Parser) parseArgumentList() []ast.Expr {
	var args []ast.Expr
	if p.is(")") {
		return args
	}
	for {
		a := p.parseAssignment()
		if a == nil {
			break
		}
		if p.is("...") {
			argPos := a.Pos()
			p.Cursor.Advance()
			a = ast.NewPackExpansion(p.Arena, argPos, a)
		}
		args = append(args, a)
		if !p.accept(",") {
			break
		}
	}
	return args
}

// parsePrimary is the root of the primary-expression decision tree: it
// dispatches on what the current token (or small fixed lookahead) can
// only start, trying the genuinely ambiguous cases (a qualified name
// with a possible `<template-args>`, a parenthesized expression vs. a
// fold expression) through the same scoped save/restore pattern
// tryParseCStyleCast already uses.
func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	pos := p.pos()

	switch t.Kind {
	case token.NumericLiteral:
		p.Cursor.Advance()
		return p.literalFromToken(t, pos)

	case token.StringLiteral:
		p.Cursor.Advance()
		return ast.NewStringLiteral(p.Arena, pos, intern.Handle(t.Value))

	case token.Identifier:
		name := p.text(t)
		if strings.HasPrefix(name, "__is_") || strings.HasPrefix(name, "__has_") {
			return p.parseTypeTraitExpression()
		}
		return p.parseNameExpr(pos, false)
	}

	switch {
	case p.is("true"):
		p.Cursor.Advance()
		return ast.NewBoolLiteral(p.Arena, pos, true)
	case p.is("false"):
		p.Cursor.Advance()
		return ast.NewBoolLiteral(p.Arena, pos, false)
	case p.is("nullptr"):
		p.Cursor.Advance()
		return ast.NewNullptrLiteral(p.Arena, pos)
	case p.is("this"):
		p.Cursor.Advance()
		return ast.NewThisExpr(p.Arena, pos)
	case p.is("::"):
		p.Cursor.Advance()
		if p.is("new") {
			return p.parseNewExpression(true)
		}
		if p.is("delete") {
			return p.parseDeleteExpression(true)
		}
		return p.parseNameExpr(pos, true)
	case p.is("("):
		return p.parseParenthesizedOrFold(pos)
	case p.is("new"):
		return p.parseNewExpression(false)
	case p.is("delete"):
		return p.parseDeleteExpression(false)
	case p.is("["):
		return p.parseLambdaExpression()
	case p.is("typeid"):
		return p.parseTypeidExpression()
	case p.is("offsetof"), p.is("__builtin_offsetof"):
		return p.parseOffsetofExpression()
	case p.is("noexcept"):
		return p.parseNoexceptExpression()
	case p.is("throw"):
		return p.parseThrowExpression()
	case p.is("requires"):
		return p.parseRequiresExpression()
	}

	p.fail("expected expression, found '%s'", p.text(t))
	return nil
}

// parseNameExpr parses an (optionally `::`-qualified) name, followed by
// an optional `<template-args>` on the terminal segment. Each `::`
// segment resolves against the namespace registry (creating the
// namespace node if this is its first mention — the same
// lookup-or-declare p.NS.Declare already provides for `namespace`
// bodies). A plain, unqualified, non-template name still produces a
// bare IdentifierNode so every existing `*ast.IdentifierNode` call site
// (staticType, symbol lookup) keeps working unchanged.
func (p *Parser) parseNameExpr(pos token.Position, leadingGlobal bool) ast.Expr {
	ns := nsreg.Global
	name, ok := p.identifierName()
	if !ok {
		return nil
	}

	for p.is("::") {
		p.Cursor.Advance()
		if child, found := p.NS.Child(ns, name); found {
			ns = child
		} else {
			ns = p.NS.Declare(ns, name)
		}
		name, ok = p.identifierName()
		if !ok {
			return nil
		}
	}

	var targs []ast.Expr
	if p.is("<") {
		if args, matched := p.tryParseTemplateArgumentList(name); matched {
			targs = args
		}
	}

	if p.is("{") {
		if typ, ok := p.Types.LookupByName(name); ok {
			if p.Symbols == nil {
				return p.parseBracedConstructionExpr(pos, typ)
			}
			if _, shadowed := p.Symbols.Lookup(name); !shadowed {
				return p.parseBracedConstructionExpr(pos, typ)
			}
		}
	}

	if !leadingGlobal && ns == nsreg.Global && targs == nil {
		if p.isTemplateParamName(name) {
			return ast.NewTemplateParameterReference(p.Arena, pos, name)
		}
		return ast.NewIdentifier(p.Arena, pos, name)
	}
	return ast.NewQualifiedIdentifier(p.Arena, pos, ns, name, targs)
}

// parseBracedConstructionExpr parses `T{args}` at the primary-expression
// position into a ConstructorCallNode (or, for a built-in T, the
// CastFunctional form) via buildTypeCall.
func (p *Parser) parseBracedConstructionExpr(pos token.Position, typ types.Index) ast.Expr {
	p.Cursor.Advance() // '{'
	var args []ast.Expr
	for !p.is("}") {
		a := p.parseAssignment()
		if a == nil {
			break
		}
		args = append(args, a)
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	return p.buildTypeCall(pos, typ, args, true)
}

// tryParseTemplateArgumentList speculatively parses `<arg, arg, ...>`
// after an identifier, resetting the cursor if the heuristic commits
// but the argument list turns out not to close cleanly on `>` — the
// same scoped save/restore shape tryParseCStyleCast uses for its own
// ambiguity.
func (p *Parser) tryParseTemplateArgumentList(name intern.Handle) ([]ast.Expr, bool) {
	if !p.looksLikeTemplateArgsStart(name) {
		return nil, false
	}
	mark := p.Cursor.Save()
	p.Cursor.Advance() // '<'
	var args []ast.Expr
	if !p.is(">") {
		for {
			a := p.parseTemplateArgument()
			if a == nil {
				p.Cursor.Reset(mark)
				return nil, false
			}
			args = append(args, a)
			if !p.accept(",") {
				break
			}
		}
	}
	if !p.accept(">") {
		p.Cursor.Reset(mark)
		return nil, false
	}
	p.Cursor.Discard(mark)
	return args, true
}

// looksLikeTemplateArgsStart is the `<`-disambiguation heuristic: a
// known template name settles it outright; otherwise fall back to
// whether what follows `<` can only start a template-argument (a
// type-id or a literal), the same lookahead-without-commitment
// looksLikeTypeID already performs for the cast ambiguity.
func (p *Parser) looksLikeTemplateArgsStart(name intern.Handle) bool {
	if p.Symbols != nil && p.Symbols.IsKnownTemplate(name) {
		return true
	}
	return p.looksLikeTypeID(1) || p.peek(1).Kind == token.NumericLiteral
}

// parseTemplateArgument parses one element of a template-argument-list:
// a type-id if the lookahead says so, otherwise a constant-expression
// (covering non-type and template-template arguments this core folds
// into the same Expr slot).
func (p *Parser) parseTemplateArgument() ast.Expr {
	if p.looksLikeTypeID(0) {
		mark := p.Cursor.Save()
		pos := p.pos()
		typ := p.parseTypeID()
		if p.is(",") || p.is(">") {
			p.Cursor.Discard(mark)
			return ast.NewCast(p.Arena, pos, ast.CastStatic, typ, nil)
		}
		p.Cursor.Reset(mark)
	}
	return p.parseAssignment()
}

// parseParenthesizedOrFold disambiguates `(` at the primary-expression
// position between a fold-expression and an ordinary parenthesized
// expression, trying the fold shapes first under a scoped save/restore
// (tryParseFoldExpression resets the cursor itself on a non-match).
func (p *Parser) parseParenthesizedOrFold(pos token.Position) ast.Expr {
	p.Cursor.Advance() // '('
	if fold, ok := p.tryParseFoldExpression(pos); ok {
		return fold
	}
	inner := p.ParseExpression()
	p.expect(")")
	return inner
}

// tryParseFoldExpression parses the four C++17 fold-expression shapes
// once the opening '(' has already been consumed: `(... op pack)`
// (unary-left), `(pack op ...)` (unary-right), and the binary forms
// with an extra `op init` on whichever side the pack isn't. The pack
// operand is a bare identifier naming the parameter pack, matching
// FoldExpressionNode's Pack field.
func (p *Parser) tryParseFoldExpression(pos token.Position) (ast.Expr, bool) {
	mark := p.Cursor.Save()

	if p.is("...") {
		p.Cursor.Advance()
		op, ok := p.takeFoldOperator()
		name, idOk := p.identifierName()
		if ok && idOk && p.accept(")") {
			p.Cursor.Discard(mark)
			return ast.NewFoldExpression(p.Arena, pos, ast.FoldUnaryLeft, op, name, nil), true
		}
		p.Cursor.Reset(mark)
		return nil, false
	}

	if t := p.cur(); t.Kind == token.Identifier {
		name := intern.Handle(t.Value)
		p.Cursor.Advance()
		if op, ok := p.takeFoldOperator(); ok && p.is("...") {
			p.Cursor.Advance()
			if p.accept(")") {
				p.Cursor.Discard(mark)
				return ast.NewFoldExpression(p.Arena, pos, ast.FoldUnaryRight, op, name, nil), true
			}
			if op2, ok2 := p.takeFoldOperator(); ok2 && op2 == op {
				init := p.ParseExpression()
				if init != nil && p.accept(")") {
					p.Cursor.Discard(mark)
					return ast.NewFoldExpression(p.Arena, pos, ast.FoldBinaryRight, op, name, init), true
				}
			}
		}
	}
	p.Cursor.Reset(mark)

	init := p.ParseExpression()
	if init != nil {
		if op, ok := p.takeFoldOperator(); ok && p.is("...") {
			p.Cursor.Advance()
			if op2, ok2 := p.takeFoldOperator(); ok2 && op2 == op {
				if name, idOk := p.identifierName(); idOk && p.accept(")") {
					p.Cursor.Discard(mark)
					return ast.NewFoldExpression(p.Arena, pos, ast.FoldBinaryLeft, op, name, init), true
				}
			}
		}
	}

	p.Cursor.Reset(mark)
	return nil, false
}

// takeFoldOperator consumes the current token if it is one of the
// binary operators the standard permits as a fold-operator.
func (p *Parser) takeFoldOperator() (string, bool) {
	t := p.cur()
	if t.Kind != token.Operator {
		return "", false
	}
	op := p.text(t)
	switch op {
	case "+", "-", "*", "/", "%", "^", "&", "|", "<<", ">>",
		"==", "!=", "<", ">", "<=", ">=", "&&", "||", ",",
		"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		p.Cursor.Advance()
		return op, true
	}
	return "", false
}

// parseNewExpression parses `new` [`(` placement-args `)`] type-id
// [`[` expr `]`] [`(` ctor-args `)` | `{` ctor-args `}`]. The leading
// `(` after `new` is itself ambiguous between placement-args and a
// parenthesized type-id (`new (int)`), resolved the same way the
// C-style-cast ambiguity is: speculatively parse placement args and
// check whether a type-id follows; reset otherwise.
func (p *Parser) parseNewExpression(isGlobal bool) ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'new'

	var placement []ast.Expr
	if p.is("(") {
		mark := p.Cursor.Save()
		p.Cursor.Advance()
		args := p.parseArgumentList()
		if p.accept(")") && p.looksLikeTypeID(0) {
			placement = args
			p.Cursor.Discard(mark)
		} else {
			p.Cursor.Reset(mark)
		}
	}

	parenType := p.accept("(")
	typ := p.parseTypeID()
	if parenType {
		p.expect(")")
	}

	var arrLen ast.Expr
	if p.is("[") {
		p.Cursor.Advance()
		arrLen = p.ParseExpression()
		p.expect("]")
	}

	var ctorArgs []ast.Expr
	if p.is("(") {
		p.Cursor.Advance()
		ctorArgs = p.parseArgumentList()
		p.expect(")")
	} else if p.is("{") {
		p.Cursor.Advance()
		for !p.is("}") {
			a := p.parseAssignment()
			if a == nil {
				break
			}
			ctorArgs = append(ctorArgs, a)
			if !p.accept(",") {
				break
			}
		}
		p.expect("}")
	}

	return ast.NewNewExpression(p.Arena, pos, typ, arrLen, placement, ctorArgs, isGlobal)
}

func (p *Parser) parseDeleteExpression(isGlobal bool) ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'delete'
	isArray := false
	if p.is("[") {
		p.Cursor.Advance()
		p.expect("]")
		isArray = true
	}
	operand := p.parseUnary()
	return ast.NewDeleteExpression(p.Arena, pos, operand, isArray, isGlobal)
}

// parseLambdaExpression parses `[captures] (params) specifiers { body }`.
// Recognized captures are the implicit by-ref/by-value defaults
// (`[&]`/`[=]`), `this`, `*this`, and plain named captures
// (`[x]`/`[&x]`); init-captures (`[x = expr]`) reuse the same
// LambdaCapture.InitExpr slot.
func (p *Parser) parseLambdaExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // '['

	var captures []ast.LambdaCapture
	implicitRef, implicitVal := false, false
	for !p.is("]") {
		if p.accept("=") {
			implicitVal = true
			if !p.accept(",") {
				break
			}
			continue
		}
		byRef := p.accept("&")
		if p.is(",") || p.is("]") {
			if byRef {
				implicitRef = true
			} else {
				implicitVal = true
			}
		} else if p.is("this") {
			p.Cursor.Advance()
			captures = append(captures, ast.LambdaCapture{IsThis: true})
		} else if p.accept("*") {
			p.expect("this")
			captures = append(captures, ast.LambdaCapture{IsThis: true, ByRef: true})
		} else if name, ok := p.identifierName(); ok {
			cap := ast.LambdaCapture{Name: name, ByRef: byRef}
			if p.accept("=") {
				cap.InitExpr = p.parseAssignment()
			}
			captures = append(captures, cap)
		} else {
			break
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")

	var params []*ast.VariableDeclarationNode
	if p.accept("(") {
		for !p.is(")") {
			params = append(params, p.parseParameter())
			if !p.accept(",") {
				break
			}
		}
		p.expect(")")
	}

	mutable := p.accept("mutable")

	var retType types.Index
	hasRet := false
	if p.accept("->") {
		retType = p.parseTypeID()
		hasRet = true
	}

	body := p.parseBlock()

	return ast.NewLambdaExpression(p.Arena, pos, &ast.LambdaExpressionNode{
		Captures:               captures,
		ImplicitCaptureByRef:   implicitRef,
		ImplicitCaptureByValue: implicitVal,
		Params:                 params,
		ReturnType:             retType,
		HasExplicitReturnType:  hasRet,
		Mutable:                mutable,
		Body:                   body,
	})
}

func (p *Parser) parseTypeidExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'typeid'
	p.expect("(")
	if p.looksLikeTypeID(0) {
		mark := p.Cursor.Save()
		typ := p.parseTypeID()
		if p.accept(")") {
			p.Cursor.Discard(mark)
			return ast.NewTypeid(p.Arena, pos, nil, typ, true)
		}
		p.Cursor.Reset(mark)
	}
	operand := p.ParseExpression()
	p.expect(")")
	return ast.NewTypeid(p.Arena, pos, operand, types.Void, false)
}

func (p *Parser) parseOffsetofExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'offsetof'/'__builtin_offsetof'
	p.expect("(")
	typ := p.parseTypeID()
	p.expect(",")
	member, _ := p.identifierName()
	p.expect(")")
	return ast.NewOffsetofExpr(p.Arena, pos, typ, member)
}

func (p *Parser) parseNoexceptExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'noexcept'
	if !p.accept("(") {
		return ast.NewNoexcept(p.Arena, pos, nil)
	}
	operand := p.ParseExpression()
	p.expect(")")
	return ast.NewNoexcept(p.Arena, pos, operand)
}

func (p *Parser) parseThrowExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'throw'
	if p.is(";") || p.is(")") || p.is(",") {
		return ast.NewThrowExpression(p.Arena, pos, nil)
	}
	operand := p.parseAssignment()
	return ast.NewThrowExpression(p.Arena, pos, operand)
}

// parseRequiresExpression parses `requires (params)? { requirement-seq }`.
// Each requirement is a ';'-terminated expression; the compound-
// requirement's `{ expr } noexcept? -> type-constraint` refinement is
// simplified down to its core expression, since this core's
// constraint evaluator (package constraint) only needs each
// requirement's well-formedness, not its full trailing-return grammar.
func (p *Parser) parseRequiresExpression() ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // 'requires'

	var params []*ast.VariableDeclarationNode
	if p.accept("(") {
		for !p.is(")") {
			params = append(params, p.parseParameter())
			if !p.accept(",") {
				break
			}
		}
		p.expect(")")
	}

	p.expect("{")
	var reqs []ast.Expr
	for !p.is("}") {
		braced := p.accept("{")
		req := p.ParseExpression()
		if braced {
			p.expect("}")
			p.accept("noexcept")
			if p.accept("->") {
				p.parseTypeID()
			}
		}
		if req != nil {
			reqs = append(reqs, req)
		}
		p.expect(";")
	}
	p.expect("}")

	return ast.NewRequiresExpression(p.Arena, pos, params, reqs)
}

// parseTypeTraitExpression parses `__is_X(Args...)` / `__has_X(Args...)`,
// each argument a type-id.
func (p *Parser) parseTypeTraitExpression() ast.Expr {
	t := p.cur()
	pos := p.pos()
	trait := p.text(t)
	p.Cursor.Advance()
	p.expect("(")
	var args []types.Index
	if !p.is(")") {
		for {
			args = append(args, p.parseTypeID())
			if !p.accept(",") {
				break
			}
		}
	}
	p.expect(")")
	return ast.NewTypeTraitExpr(p.Arena, pos, trait, args)
}

// parseDecltypeType parses `decltype(expr)` / `decltype((expr))` as a
// type-id: it records the DecltypeExprNode (so the expression form
// survives for dump/debug tooling the way every other expression does)
// and resolves it immediately to a types.Index via
// consteval.ResolveDecltype, the same value-category rule
// original_source/ applies. Whether the operand was itself wrapped in
// an extra pair of parens is read off the token stream directly
// (checked before parsing, since parsing collapses `((x))` and `(x)`
// to the same Expr shape).
func (p *Parser) parseDecltypeType() types.Index {
	pos := p.pos()
	p.Cursor.Advance() // 'decltype'
	p.expect("(")
	parenthesized := p.is("(")
	operand := p.ParseExpression()
	p.expect(")")

	ast.NewDecltype(p.Arena, pos, operand, parenthesized)

	exprType := consteval.ExprType(p.Types, p.Symbols, operand)
	category := consteval.ClassifyValueCategory(operand)
	return consteval.ResolveDecltype(p.Types, exprType, category, parenthesized)
}

func (p *Parser) literalFromToken(t token.Token, pos token.Position) ast.Expr {
	text := p.text(t)
	v, isFloat, fv := parseNumericLiteral(text)
	if isFloat {
		return ast.NewFloatLiteral(p.Arena, pos, fv, p.Types.BuiltinIndex(types.BDouble))
	}
	return ast.NewIntLiteral(p.Arena, pos, v, p.Types.BuiltinIndex(types.BInt))
}

// parseTypeID parses the subset of type-id grammar this parser
// supports: a base type name (parseBaseTypeName: a builtin keyword, an
// `unsigned` or `long long` form, `decltype(...)`, or a type name), any
// number of trailing `*` pointer declarators, and an optional trailing
// `&`. cv-qualifiers, arrays and function types are not parsed.
func (p *Parser) parseTypeID() types.Index {
	base := p.parseBaseTypeName()
	for p.is("*") {
		p.Cursor.Advance()
		base = p.Types.Pointer(base)
	}
	if p.is("&") {
		p.Cursor.Advance()
		base = p.Types.Reference(base)
	}
	return base
}

func (p *Parser) parseBaseTypeName() types.Index {
	if p.is("decltype") {
		return p.parseDecltypeType()
	}

	builtinByKeyword := map[string]types.Builtin{
		"void": types.BVoid, "bool": types.BBool, "char": types.BChar,
		"short": types.BShort, "int": types.BInt, "long": types.BLong,
		"float": types.BFloat, "double": types.BDouble,
	}
	t := p.cur()
	if t.Kind == token.Keyword {
		word := p.text(t)
		if word == "unsigned" {
			p.Cursor.Advance()
			if p.is("long") {
				p.Cursor.Advance()
				return p.Types.BuiltinIndex(types.BUnsignedLong)
			}
			if p.is("char") {
				p.Cursor.Advance()
				return p.Types.BuiltinIndex(types.BUnsignedChar)
			}
			if p.is("int") {
				p.Cursor.Advance()
			}
			return p.Types.BuiltinIndex(types.BUnsignedInt)
		}
		if b, ok := builtinByKeyword[word]; ok {
			p.Cursor.Advance()
			if word == "long" && p.is("long") {
				p.Cursor.Advance()
				return p.Types.BuiltinIndex(types.BLongLong)
			}
			return p.Types.BuiltinIndex(b)
		}
	}
	if t.Kind == token.Identifier {
		name := intern.Handle(t.Value)
		p.Cursor.Advance()
		if idx, ok := p.Types.LookupByName(name); ok {
			return idx
		}
		return p.Types.DeclareStruct(name)
	}
	p.fail("expected a type name, found '%s'", p.text(t))
	return types.Void
}
