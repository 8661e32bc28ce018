// Package ast defines the append-only AST arena and the sum-typed node
// variants for expressions, statements, and declarations.
//
// Nodes are modeled as a family of small structs implementing a common
// Node interface discriminated by a Kind() method, rather than as a
// class hierarchy with virtual dispatch: callers pattern-match via a Go
// type switch (see Walk in walk.go, and every visitor in package lower)
// in place of the std::variant-based AST this is a rewrite of.
package ast

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

// Kind discriminates every node variant.
type Kind int

const (
	KindInvalid Kind = iota

	// Expressions
	KindIdentifier
	KindQualifiedIdentifier
	KindNumericLiteral
	KindStringLiteral
	KindBoolLiteral
	KindNullptrLiteral
	KindThisExpr
	KindPredefinedExpr // __func__, __PRETTY_FUNCTION__
	KindBinaryOperator
	KindUnaryOperator
	KindTernaryOperator
	KindFunctionCall
	KindMemberAccess
	KindMemberFunctionCall
	KindArraySubscript
	KindConstructorCall
	KindNewExpression
	KindDeleteExpression
	KindStaticCast
	KindDynamicCast
	KindConstCast
	KindReinterpretCast
	KindCStyleCast
	KindSizeofExpr
	KindSizeofPackExpr
	KindAlignofExpr
	KindNoexceptExpr
	KindOffsetofExpr
	KindTypeidExpr
	KindTypeTraitExpr
	KindLambdaExpression
	KindFoldExpression
	KindPackExpansionExpr
	KindTemplateParameterReference
	KindPseudoDestructorCall
	KindPointerToMemberAccess
	KindThrowExpression
	KindInitializerListConstruction
	KindRequiresExpression
	KindDecltypeExpr
	KindCommaExpression

	// Declarations
	KindDeclaration
	KindFunctionDeclaration
	KindVariableDeclaration
	KindTemplateFunctionDeclaration
	KindTemplateClassDeclaration
	KindTemplateVariableDeclaration
	KindTemplateAlias
	KindStructDeclaration
	KindConceptDeclaration
	KindNamespaceDeclaration
	KindUsingDirective
	KindUsingDeclaration
	KindStaticAssert

	// Statements
	KindBlockStatement
	KindExpressionStatement
	KindIfStatement
	KindWhileStatement
	KindForStatement
	KindReturnStatement
	KindDeclStatement
)

// TypeExpr denotes a not-yet-resolved or already-resolved type
// reference as written in source: either a plain type Index once
// resolved, or (while parsing a template body) a dependent name that
// substitution will later replace.
type TypeExpr struct {
	Resolved      types.Index
	IsResolved    bool
	DependentName intern.Handle // valid when !IsResolved
	PointerDepth  int
	IsReference   bool
}

// Node is the base interface every AST node satisfies.
type Node interface {
	Kind() Kind
	Pos() token.Position
}

// Expr is satisfied by every expression-node variant.
type Expr interface {
	Node
	exprNode()
}

// Stmt is satisfied by every statement-node variant.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is satisfied by every declaration-node variant. Decl also
// satisfies symtab.DeclRef (an empty interface) automatically.
type Decl interface {
	Node
	declNode()
}

// base carries the fields every node needs regardless of variant:
// discriminant and source position.
type base struct {
	kind Kind
	pos  token.Position
}

func (b base) Kind() Kind          { return b.kind }
func (b base) Pos() token.Position { return b.pos }

// ValueCategory classifies an expression's C++ value category, which
// the lowering pass must preserve.
type ValueCategory int

const (
	PRValue ValueCategory = iota
	LValue
	XValue
)

// Arena is an append-only allocation tracker for AST nodes. Individual
// nodes are heap-allocated (via the New* constructors in expressions.go,
// declarations.go, statements.go) so that pointers to them stay stable
// for the lifetime of the Compiler even as more nodes are appended — a
// slice-backed arena would invalidate earlier pointers on reallocation,
// violating the "nodes are referenced by pointer and never moved"
// invariant. Arena just remembers every node built through it, for
// whole-arena operations (Nodes, Len).
type Arena struct {
	nodes []Node
}

// NewArena returns an empty Arena.
func NewArena() *Arena { return &Arena{} }

// Len returns how many nodes have been allocated through this Arena.
func (a *Arena) Len() int { return len(a.nodes) }

// track records n in the arena's bookkeeping list and returns it
// unchanged, so constructors can wrap their return statement with it.
func track[T Node](a *Arena, n T) T {
	a.nodes = append(a.nodes, n)
	return n
}

// Nodes returns every node allocated through this Arena, in allocation
// order.
func (a *Arena) Nodes() []Node { return a.nodes }

// NamespaceRef wraps a namespace handle on its own;
// QualifiedIdentifierNode carries its Namespace handle directly instead.
type NamespaceRef struct {
	Namespace nsreg.Handle
}
