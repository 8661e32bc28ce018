package parser

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// ParseTranslationUnit parses a sequence of top-level declarations
// until EOF, the entry point package compiler calls once per source
// file.
func (p *Parser) ParseTranslationUnit() []ast.Decl {
	var decls []ast.Decl
	for p.cur().Kind != token.EOF {
		d := p.parseTopLevelDeclaration()
		if d == nil {
			p.Cursor.Advance()
			continue
		}
		decls = append(decls, d)
	}
	return decls
}

func (p *Parser) parseTopLevelDeclaration() ast.Decl {
	switch {
	case p.is("namespace"):
		return p.parseNamespace()
	case p.is("template"):
		return p.parseTemplateDeclaration()
	case p.is("struct"), p.is("class"):
		return p.parseStructDeclaration(nil)
	case p.is("static_assert"):
		return p.parseStaticAssert()
	default:
		return p.parseFunctionOrVariable()
	}
}

func (p *Parser) parseNamespace() ast.Decl {
	pos := p.pos()
	p.Cursor.Advance()
	name, _ := p.identifierName()
	ns := p.NS.Declare(nsreg.Global, name)
	p.expect("{")
	var members []ast.Decl
	for !p.is("}") && p.cur().Kind != token.EOF {
		d := p.parseTopLevelDeclaration()
		if d != nil {
			members = append(members, d)
		} else {
			p.Cursor.Advance()
		}
	}
	p.expect("}")
	return ast.NewNamespaceDeclaration(p.Arena, pos, &ast.NamespaceDeclarationNode{Name: name, Handle: ns, Members: members})
}

func (p *Parser) parseStaticAssert() ast.Decl {
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("(")
	cond := p.ParseExpression()
	var msg intern.Handle
	hasMsg := false
	if p.accept(",") {
		t := p.cur()
		if t.Kind == token.StringLiteral {
			msg = intern.Handle(t.Value)
			hasMsg = true
			p.Cursor.Advance()
		}
	}
	p.expect(")")
	p.expect(";")
	return ast.NewStaticAssert(p.Arena, pos, cond, msg, hasMsg)
}

// parseTemplateDeclaration parses `template<params> [requires C]
// (class|struct|using|concept|function) ...`, dispatching on what
// follows the parameter-list close; anything other than struct, class,
// using or concept is parsed as a function declaration.
func (p *Parser) parseTemplateDeclaration() ast.Decl {
	pos := p.pos()
	p.Cursor.Advance()
	p.expect("<")
	params := p.parseTemplateParamList()
	p.expect(">")

	var constraint ast.Expr
	if p.accept("requires") {
		constraint = p.parseBinary(1)
	}

	restore := p.pushTemplateParams(params)
	defer restore()

	switch {
	case p.is("struct"), p.is("class"):
		underlying := p.parseStructDeclaration(nil)
		tmpl := ast.NewTemplateClassDeclaration(p.Arena, pos, &ast.TemplateClassDeclarationNode{
			Name: underlying.Name, Params: params, Underlying: underlying, Constraint: constraint,
		})
		p.Symbols.DefineTemplate(underlying.Name, tmpl)
		return tmpl
	case p.is("using"):
		alias := p.parseTemplateAlias(params)
		return alias
	case p.is("concept"):
		p.Cursor.Advance()
		name, _ := p.identifierName()
		p.expect("=")
		body := p.parseBinary(1)
		p.expect(";")
		return ast.NewConceptDeclaration(p.Arena, pos, &ast.ConceptDeclarationNode{Name: name, Params: params, Constraint: body})
	default:
		underlying := p.parseFunctionDeclaration(nil)
		tmpl := ast.NewTemplateFunctionDeclaration(p.Arena, pos, &ast.TemplateFunctionDeclarationNode{
			Name: underlying.Name, Params: params, Underlying: underlying, Constraint: constraint,
		})
		p.Symbols.DefineTemplate(underlying.Name, tmpl)
		return tmpl
	}
}

func (p *Parser) parseTemplateParamList() []ast.TemplateParam {
	var params []ast.TemplateParam
	for {
		if p.is(">") {
			break
		}
		params = append(params, p.parseTemplateParam())
		if !p.accept(",") {
			break
		}
	}
	return params
}

func (p *Parser) parseTemplateParam() ast.TemplateParam {
	var param ast.TemplateParam
	switch {
	case p.is("typename"), p.is("class"):
		p.Cursor.Advance()
		if p.accept("...") {
			param.IsPack = true
		}
		if name, ok := p.identifierName(); ok {
			param.Name = name
		}
	case p.is("template"):
		p.Cursor.Advance()
		p.expect("<")
		for !p.is(">") {
			p.Cursor.Advance()
		}
		p.expect(">")
		p.accept("class")
		param.IsTemplate = true
		if name, ok := p.identifierName(); ok {
			param.Name = name
		}
	default:
		param.IsNonType = true
		param.NonTypeType = p.parseTypeID()
		if p.accept("...") {
			param.IsPack = true
		}
		if name, ok := p.identifierName(); ok {
			param.Name = name
		}
	}
	if p.accept("=") {
		param.HasDefault = true
		if param.IsNonType {
			param.Default = p.parseAssignment()
		} else {
			param.DefaultType = p.parseTypeID()
		}
	}
	return param
}

func (p *Parser) parseTemplateAlias(params []ast.TemplateParam) ast.Decl {
	pos := p.pos()
	p.Cursor.Advance() // 'using'
	name, _ := p.identifierName()
	p.expect("=")
	typ := p.parseTypeID()
	p.expect(";")
	return ast.NewTemplateAlias(p.Arena, pos, &ast.TemplateAliasNode{Name: name, Params: params, AliasedType: typ})
}

// parseStructDeclaration parses `struct|class Name [: bases] { members }`.
// owner is non-nil when parsing a nested class (not currently wired
// from any caller, reserved for when namespace-scoped nested-type
// support is added).
func (p *Parser) parseStructDeclaration(owner *types.Index) *ast.StructDeclarationNode {
	pos := p.pos()
	p.Cursor.Advance() // 'struct' or 'class'
	name, _ := p.identifierName()
	typeIdx := p.Types.DeclareStruct(name)

	var bases []types.Index
	if p.accept(":") {
		for {
			p.acceptAccessSpecifier()
			bases = append(bases, p.parseTypeID())
			if !p.accept(",") {
				break
			}
		}
	}
	p.Types.Get(typeIdx).Struct.Bases = bases

	var fields []*ast.VariableDeclarationNode
	var methods []*ast.FunctionDeclarationNode
	p.expect("{")
	for !p.is("}") && p.cur().Kind != token.EOF {
		if p.acceptAccessSpecifier() {
			p.expect(":")
			continue
		}
		if p.looksLikeFunctionDeclarationAhead() {
			fn := p.parseFunctionDeclaration(&typeIdx)
			methods = append(methods, fn)
		} else {
			v := p.parseVariableDeclaration()
			fields = append(fields, v)
			p.expect(";")
		}
	}
	p.expect("}")
	p.expect(";")

	p.Types.Get(typeIdx).Struct.Members = fieldsToMembers(fields)
	p.Types.ComputeLayout(typeIdx)

	return ast.NewStructDeclaration(p.Arena, pos, &ast.StructDeclarationNode{
		Name: name, Type: typeIdx, Bases: bases, Fields: fields, Methods: methods,
	})
}

func (p *Parser) acceptAccessSpecifier() bool {
	if p.is("public") || p.is("private") || p.is("protected") {
		p.Cursor.Advance()
		return true
	}
	return false
}

// looksLikeFunctionDeclarationAhead distinguishes a member function
// from a data member by scanning past one type-id and one identifier
// for a `(` — a deliberately narrow heuristic.
func (p *Parser) looksLikeFunctionDeclarationAhead() bool {
	mark := p.Cursor.Save()
	defer p.Cursor.Reset(mark)
	if p.is("virtual") || p.is("static") || p.is("explicit") {
		p.Cursor.Advance()
	}
	p.parseTypeID()
	if p.cur().Kind != token.Identifier {
		return false
	}
	p.Cursor.Advance()
	return p.is("(")
}

func (p *Parser) parseFunctionOrVariable() ast.Decl {
	if p.looksLikeFunctionDeclarationAhead() {
		fn := p.parseFunctionDeclaration(nil)
		p.Symbols.DefineOverload(fn.Name, fn)
		return fn
	}
	v := p.parseVariableDeclaration()
	p.expect(";")
	p.Symbols.Define(v.Name, v)
	return v
}

func (p *Parser) parseFunctionDeclaration(owner *types.Index) *ast.FunctionDeclarationNode {
	pos := p.pos()
	isStatic := p.accept("static")
	isVirtual := p.accept("virtual")
	retType := p.parseTypeID()
	name, _ := p.identifierName()

	p.expect("(")
	var params []*ast.VariableDeclarationNode
	variadic := false
	for !p.is(")") {
		if p.accept("...") {
			variadic = true
			break
		}
		params = append(params, p.parseParameter())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")

	isConst := p.accept("const")

	fn := &ast.FunctionDeclarationNode{
		Name: name, Params: params, ReturnType: retType,
		IsVariadic: variadic, IsStatic: isStatic, IsVirtual: isVirtual, IsConst: isConst,
	}
	if owner != nil {
		fn.OwnerStruct = *owner
	}

	if p.is("{") {
		fn.Body = p.parseBlock()
	} else {
		p.expect(";")
	}
	return ast.NewFunctionDeclaration(p.Arena, pos, fn)
}

func (p *Parser) parseParameter() *ast.VariableDeclarationNode {
	pos := p.pos()
	typ := p.parseTypeID()
	isRef := p.Types.Get(typ).Kind == types.KindReference
	var name intern.Handle
	if p.cur().Kind == token.Identifier {
		name, _ = p.identifierName()
	}
	v := &ast.VariableDeclarationNode{Name: name, Type: typ, IsReference: isRef}
	if p.accept("=") {
		v.Init = p.parseAssignment()
		v.HasDefault = true
	}
	return ast.NewVariableDeclaration(p.Arena, pos, v)
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclarationNode {
	pos := p.pos()
	isStatic := p.accept("static")
	isConst := p.accept("const")
	typ := p.parseTypeID()
	isRef := p.Types.Get(typ).Kind == types.KindReference
	name, _ := p.identifierName()

	v := &ast.VariableDeclarationNode{Name: name, Type: typ, IsReference: isRef, IsStatic: isStatic, IsConst: isConst}
	if p.accept("=") {
		if p.is("{") {
			v.Init = p.parseBraceInitializerList(typ)
		} else {
			v.Init = p.parseAssignment()
		}
	} else if p.is("{") {
		v.Init = p.parseBraceInitializerList(typ)
	}
	return ast.NewVariableDeclaration(p.Arena, pos, v)
}

// parseBraceInitializerList parses `{ expr, expr, ... }` direct- or
// copy-list-initialization into an InitializerListConstructionNode,
// tagged with the declared type it initializes.
func (p *Parser) parseBraceInitializerList(typ types.Index) ast.Expr {
	pos := p.pos()
	p.Cursor.Advance() // '{'
	var elems []ast.Expr
	for !p.is("}") {
		e := p.parseAssignment()
		if e == nil {
			break
		}
		elems = append(elems, e)
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	return ast.NewInitializerListConstruction(p.Arena, pos, typ, elems)
}

func fieldsToMembers(fields []*ast.VariableDeclarationNode) []types.StructMember {
	members := make([]types.StructMember, len(fields))
	for i, f := range fields {
		members[i] = types.StructMember{Name: f.Name, Type: f.Type, IsReference: f.IsReference}
	}
	return members
}
