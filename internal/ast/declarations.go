package ast

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

func (*FunctionDeclarationNode) declNode()         {}
func (*VariableDeclarationNode) declNode()         {}
func (*TemplateFunctionDeclarationNode) declNode() {}
func (*TemplateClassDeclarationNode) declNode()    {}
func (*TemplateVariableDeclarationNode) declNode() {}
func (*TemplateAliasNode) declNode()               {}
func (*StructDeclarationNode) declNode()           {}
func (*ConceptDeclarationNode) declNode()          {}
func (*NamespaceDeclarationNode) declNode()        {}
func (*StaticAssertNode) declNode()                {}

// TemplateParam describes one formal template parameter: a type
// parameter (`typename T`), a non-type parameter (`int N`), or a
// template-template parameter (`template<typename> class T`).
type TemplateParam struct {
	Name         intern.Handle
	IsNonType    bool
	NonTypeType  types.Index // valid when IsNonType
	IsPack       bool        // `typename... Ts` / `T... args`
	IsTemplate   bool        // template-template parameter
	Default      Expr        // default argument AST, nil if none
	DefaultType  types.Index
	HasDefault   bool
}

// FunctionDeclarationNode is a (possibly member) function declaration
// or definition.
type FunctionDeclarationNode struct {
	base
	Name        intern.Handle
	MangledName intern.Handle
	Params      []*VariableDeclarationNode
	ReturnType  types.Index
	Body        *BlockStatement // nil for a declaration without a body
	IsVariadic  bool            // C-style `...` trailing parameter
	Linkage     types.Linkage
	IsConst     bool // member function const-qualification
	IsStatic    bool
	IsVirtual   bool
	OwnerStruct types.Index // types.Void if a free function
	IsOperatorOverload bool
	OperatorSymbol     string
}

// VariableDeclarationNode covers local/global/static-local variables
// and function parameters (Params in FunctionDeclarationNode reuse this
// type).
type VariableDeclarationNode struct {
	base
	Name        intern.Handle
	MangledName intern.Handle
	Type        types.Index
	Init        Expr
	IsReference bool
	IsStatic    bool
	IsConst     bool
	HasDefault  bool // parameter has a default argument (Init holds it)
}

type TemplateFunctionDeclarationNode struct {
	base
	Name       intern.Handle
	Params     []TemplateParam
	Underlying *FunctionDeclarationNode
	Constraint Expr // requires-clause, nil if none
}

type TemplateClassDeclarationNode struct {
	base
	Name       intern.Handle
	Params     []TemplateParam
	Underlying *StructDeclarationNode
	Constraint Expr
}

type TemplateVariableDeclarationNode struct {
	base
	Name       intern.Handle
	Params     []TemplateParam
	Underlying *VariableDeclarationNode
}

type TemplateAliasNode struct {
	base
	Name       intern.Handle
	Params     []TemplateParam
	AliasedType types.Index
	// AliasedDependentName is set instead of AliasedType when the
	// aliased type mentions a template parameter and cannot be resolved
	// until substitution.
	AliasedDependentName intern.Handle
}

// StructDeclarationNode is a class/struct definition. Its computed
// layout lives in the types.Registry entry named by Type once
// ComputeLayout has run; this node retains the syntactic member list
// used to build that entry and to instantiate member-function bodies
// lazily.
type StructDeclarationNode struct {
	base
	Name    intern.Handle
	Type    types.Index
	Bases   []types.Index
	Fields  []*VariableDeclarationNode
	Methods []*FunctionDeclarationNode
	IsUnion bool
}

// ConceptDeclarationNode names a constraint expression parameterized by
// template parameters.
type ConceptDeclarationNode struct {
	base
	Name       intern.Handle
	Params     []TemplateParam
	Constraint Expr
}

type NamespaceDeclarationNode struct {
	base
	Name    intern.Handle
	Handle  nsreg.Handle
	Members []Decl
}

type StaticAssertNode struct {
	base
	Condition Expr
	Message   intern.Handle
	HasMessage bool
}

func NewFunctionDeclaration(a *Arena, pos token.Position, f *FunctionDeclarationNode) *FunctionDeclarationNode {
	f.base = base{KindFunctionDeclaration, pos}
	return track(a, f)
}

func NewVariableDeclaration(a *Arena, pos token.Position, v *VariableDeclarationNode) *VariableDeclarationNode {
	v.base = base{KindVariableDeclaration, pos}
	return track(a, v)
}

func NewStructDeclaration(a *Arena, pos token.Position, s *StructDeclarationNode) *StructDeclarationNode {
	s.base = base{KindStructDeclaration, pos}
	return track(a, s)
}

func NewTemplateFunctionDeclaration(a *Arena, pos token.Position, t *TemplateFunctionDeclarationNode) *TemplateFunctionDeclarationNode {
	t.base = base{KindTemplateFunctionDeclaration, pos}
	return track(a, t)
}

func NewTemplateClassDeclaration(a *Arena, pos token.Position, t *TemplateClassDeclarationNode) *TemplateClassDeclarationNode {
	t.base = base{KindTemplateClassDeclaration, pos}
	return track(a, t)
}

func NewTemplateVariableDeclaration(a *Arena, pos token.Position, t *TemplateVariableDeclarationNode) *TemplateVariableDeclarationNode {
	t.base = base{KindTemplateVariableDeclaration, pos}
	return track(a, t)
}

func NewTemplateAlias(a *Arena, pos token.Position, t *TemplateAliasNode) *TemplateAliasNode {
	t.base = base{KindTemplateAlias, pos}
	return track(a, t)
}

func NewConceptDeclaration(a *Arena, pos token.Position, c *ConceptDeclarationNode) *ConceptDeclarationNode {
	c.base = base{KindConceptDeclaration, pos}
	return track(a, c)
}

func NewStaticAssert(a *Arena, pos token.Position, cond Expr, msg intern.Handle, hasMsg bool) *StaticAssertNode {
	return track(a, &StaticAssertNode{base: base{KindStaticAssert, pos}, Condition: cond, Message: msg, HasMessage: hasMsg})
}

func NewNamespaceDeclaration(a *Arena, pos token.Position, n *NamespaceDeclarationNode) *NamespaceDeclarationNode {
	n.base = base{KindNamespaceDeclaration, pos}
	return track(a, n)
}
