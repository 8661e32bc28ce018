package ast

import (
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/nsreg"
	"github.com/cwbudde/cppfe/internal/token"
	"github.com/cwbudde/cppfe/internal/types"
)

func (*IdentifierNode) exprNode()                  {}
func (*QualifiedIdentifierNode) exprNode()         {}
func (*NumericLiteralNode) exprNode()              {}
func (*StringLiteralNode) exprNode()               {}
func (*BoolLiteralNode) exprNode()                 {}
func (*NullptrLiteralNode) exprNode()               {}
func (*ThisExprNode) exprNode()                    {}
func (*PredefinedExprNode) exprNode()              {}
func (*BinaryOperatorNode) exprNode()              {}
func (*UnaryOperatorNode) exprNode()               {}
func (*TernaryOperatorNode) exprNode()             {}
func (*FunctionCallNode) exprNode()                {}
func (*MemberAccessNode) exprNode()                {}
func (*MemberFunctionCallNode) exprNode()          {}
func (*ArraySubscriptNode) exprNode()              {}
func (*ConstructorCallNode) exprNode()             {}
func (*NewExpressionNode) exprNode()               {}
func (*DeleteExpressionNode) exprNode()            {}
func (*CastNode) exprNode()                        {}
func (*SizeofExprNode) exprNode()                  {}
func (*AlignofExprNode) exprNode()                 {}
func (*NoexceptExprNode) exprNode()                {}
func (*OffsetofExprNode) exprNode()                {}
func (*TypeidNode) exprNode()                      {}
func (*TypeTraitExprNode) exprNode()               {}
func (*LambdaExpressionNode) exprNode()            {}
func (*FoldExpressionNode) exprNode()              {}
func (*PackExpansionExprNode) exprNode()           {}
func (*TemplateParameterReferenceNode) exprNode()  {}
func (*PseudoDestructorCallNode) exprNode()        {}
func (*PointerToMemberAccessNode) exprNode()       {}
func (*ThrowExpressionNode) exprNode()             {}
func (*InitializerListConstructionNode) exprNode() {}
func (*RequiresExpressionNode) exprNode()          {}
func (*DecltypeExprNode) exprNode()                {}
func (*CommaExpressionNode) exprNode()             {}

// IdentifierNode is a bare, unqualified name.
type IdentifierNode struct {
	base
	Name intern.Handle
}

// QualifiedIdentifierNode is `ns::name` or `::name`; the namespace
// handle locates everything to the left of the terminal name.
type QualifiedIdentifierNode struct {
	base
	Namespace    nsreg.Handle
	Name         intern.Handle
	TemplateArgs []Expr // non-nil if the terminal segment had <Args>
}

// NumericLiteralNode carries the literal's already-suffix-resolved type
// (the lexer collaborator classifies the suffix; this core only stores
// the result).
type NumericLiteralNode struct {
	base
	IntValue   uint64
	FloatValue float64
	IsFloat    bool
	Type       types.Index
}

type StringLiteralNode struct {
	base
	Value   intern.Handle
	IsWide  bool // L"...", u"...", U"...", u8"..."
	Encoding byte
}

type BoolLiteralNode struct {
	base
	Value bool
}

type NullptrLiteralNode struct{ base }

type ThisExprNode struct{ base }

// PredefinedExprNode covers __func__ / __PRETTY_FUNCTION__.
type PredefinedExprNode struct {
	base
	Which string
}

// BinaryOperatorNode is any `lhs OP rhs` expression, including
// assignment and compound-assignment forms.
type BinaryOperatorNode struct {
	base
	Op  string
	LHS Expr
	RHS Expr
}

// UnaryOperatorNode covers prefix/postfix unary operators. IsPostfix
// distinguishes `x++` from `++x`. IsBuiltinAddressof marks a `&` that
// must not be routed to a user operator&; package lower never searches
// for an operator& overload, so every `&` lowers as the built-in
// address-of whether or not the flag is set.
type UnaryOperatorNode struct {
	base
	Op                string
	Operand           Expr
	IsPostfix         bool
	IsBuiltinAddressof bool
}

type TernaryOperatorNode struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

// FunctionCallNode is a call where the callee is already resolved to a
// declaration (free function, function pointer value, or a forward
// placeholder primary-expression decision 10).
type FunctionCallNode struct {
	base
	Callee       Expr
	Args         []Expr
	TemplateArgs []Expr // explicit <T> on the call, if any
	MangledName  intern.Handle
}

// MemberAccessNode is `obj.m` or `obj->m` (IsArrow) for a data member.
type MemberAccessNode struct {
	base
	Object  Expr
	Member  intern.Handle
	IsArrow bool
}

// MemberFunctionCallNode is `obj.m(args)` / `obj->m(args)`.
type MemberFunctionCallNode struct {
	base
	Object      Expr
	Member      intern.Handle
	Args        []Expr
	IsArrow     bool
	MangledName intern.Handle
}

type ArraySubscriptNode struct {
	base
	Array Expr
	Index Expr
}

// ConstructorCallNode is `T(args)` or `T{args}` for a user-defined type
// T (functional-cast on a built-in type is represented as CastNode
// instead — primary-expression decision 1).
type ConstructorCallNode struct {
	base
	Type     types.Index
	Args     []Expr
	IsBraced bool
}

type NewExpressionNode struct {
	base
	Type          types.Index
	ArrayLen      Expr // non-nil for `new T[n]`
	PlacementArgs []Expr
	CtorArgs      []Expr
	IsGlobal      bool // `::new`
}

type DeleteExpressionNode struct {
	base
	Operand  Expr
	IsArray  bool
	IsGlobal bool
}

// CastKind discriminates among the four named-cast forms plus the
// C-style cast.
type CastKind int

const (
	CastStatic CastKind = iota
	CastDynamic
	CastConst
	CastReinterpret
	CastCStyle
	CastFunctional // T(expr) for a built-in T
)

type CastNode struct {
	base
	CastKind CastKind
	Type     types.Index
	Operand  Expr
}

type SizeofExprNode struct {
	base
	Operand Expr        // set when `sizeof expr`
	Type    types.Index // set when `sizeof(T)`
	IsType  bool
	Pack    intern.Handle // set when `sizeof...(pack)`, Operand/Type unused
	IsPack  bool
}

type AlignofExprNode struct {
	base
	Type types.Index
}

type NoexceptExprNode struct {
	base
	Operand Expr
}

type OffsetofExprNode struct {
	base
	Type   types.Index
	Member intern.Handle
}

type TypeidNode struct {
	base
	Operand Expr        // set for typeid(expr)
	Type    types.Index // set for typeid(T)
	IsType  bool
}

// TypeTraitExprNode is `__is_X(Args...)` / `__has_X(Args...)`.
type TypeTraitExprNode struct {
	base
	Trait string
	Args  []types.Index
}

// LambdaCapture is one entry of a lambda's capture list.
type LambdaCapture struct {
	Name      intern.Handle
	ByRef     bool
	IsThis    bool // captures `this` (or `*this`)
	InitExpr  Expr // non-nil for init-captures `[x = expr]`
}

type LambdaExpressionNode struct {
	base
	Captures   []LambdaCapture
	ImplicitCaptureByRef bool // true if `[&]`, false/irrelevant otherwise
	ImplicitCaptureByValue bool // true if `[=]`
	Params     []*VariableDeclarationNode
	ReturnType types.Index
	HasExplicitReturnType bool
	Mutable    bool
	Body       *BlockStatement
	// ClosureType is filled in by lowering once the synthesized
	// __lambda_<uniq> struct type has been registered.
	ClosureType types.Index
}

// FoldExpressionKind discriminates the four shapes a C++17 fold
// expression can take.
type FoldExpressionKind int

const (
	FoldUnaryLeft  FoldExpressionKind = iota // (... op pack)
	FoldUnaryRight                           // (pack op ...)
	FoldBinaryLeft                           // (init op ... op pack)
	FoldBinaryRight                          // (pack op ... op init)
)

type FoldExpressionNode struct {
	base
	FoldKind FoldExpressionKind
	Op       string
	Pack     intern.Handle
	Init     Expr // set for the binary shapes
}

type PackExpansionExprNode struct {
	base
	Pattern Expr
}

type TemplateParameterReferenceNode struct {
	base
	Name intern.Handle
}

// PseudoDestructorCallNode is `obj.~T()` for a non-class T: a no-op at
// the IR level.
type PseudoDestructorCallNode struct {
	base
	Object Expr
	Type   types.Index
}

// PointerToMemberAccessNode is `obj.*ptm` / `obj->*ptm`.
type PointerToMemberAccessNode struct {
	base
	Object  Expr
	Member  Expr
	IsArrow bool
}

type ThrowExpressionNode struct {
	base
	Operand Expr // nil for a bare rethrow
}

type InitializerListConstructionNode struct {
	base
	Type     types.Index
	Elements []Expr
}

// RequiresExpressionNode holds an (unevaluated, SFINAE-checked)
// requires-expression body as a list of requirement expressions.
type RequiresExpressionNode struct {
	base
	Params       []*VariableDeclarationNode
	Requirements []Expr
}

type DecltypeExprNode struct {
	base
	Operand          Expr
	IsParenthesized  bool // decltype((x)) vs decltype(x) — changes value category handling
}

type CommaExpressionNode struct {
	base
	LHS Expr
	RHS Expr
}

// NewIdentifier and friends below are the Arena-backed constructors.
// Each allocates its concrete struct on the Go heap (stable address)
// and records it in the Arena's bookkeeping list.

func NewIdentifier(a *Arena, pos token.Position, name intern.Handle) *IdentifierNode {
	return track(a, &IdentifierNode{base: base{KindIdentifier, pos}, Name: name})
}

func NewQualifiedIdentifier(a *Arena, pos token.Position, ns nsreg.Handle, name intern.Handle, targs []Expr) *QualifiedIdentifierNode {
	return track(a, &QualifiedIdentifierNode{base: base{KindQualifiedIdentifier, pos}, Namespace: ns, Name: name, TemplateArgs: targs})
}

func NewIntLiteral(a *Arena, pos token.Position, v uint64, typ types.Index) *NumericLiteralNode {
	return track(a, &NumericLiteralNode{base: base{KindNumericLiteral, pos}, IntValue: v, Type: typ})
}

func NewFloatLiteral(a *Arena, pos token.Position, v float64, typ types.Index) *NumericLiteralNode {
	return track(a, &NumericLiteralNode{base: base{KindNumericLiteral, pos}, FloatValue: v, IsFloat: true, Type: typ})
}

func NewStringLiteral(a *Arena, pos token.Position, v intern.Handle) *StringLiteralNode {
	return track(a, &StringLiteralNode{base: base{KindStringLiteral, pos}, Value: v})
}

func NewBoolLiteral(a *Arena, pos token.Position, v bool) *BoolLiteralNode {
	return track(a, &BoolLiteralNode{base: base{KindBoolLiteral, pos}, Value: v})
}

func NewNullptrLiteral(a *Arena, pos token.Position) *NullptrLiteralNode {
	return track(a, &NullptrLiteralNode{base: base{KindNullptrLiteral, pos}})
}

func NewThisExpr(a *Arena, pos token.Position) *ThisExprNode {
	return track(a, &ThisExprNode{base: base{KindThisExpr, pos}})
}

func NewBinaryOperator(a *Arena, pos token.Position, op string, lhs, rhs Expr) *BinaryOperatorNode {
	return track(a, &BinaryOperatorNode{base: base{KindBinaryOperator, pos}, Op: op, LHS: lhs, RHS: rhs})
}

func NewUnaryOperator(a *Arena, pos token.Position, op string, operand Expr, postfix bool) *UnaryOperatorNode {
	return track(a, &UnaryOperatorNode{base: base{KindUnaryOperator, pos}, Op: op, Operand: operand, IsPostfix: postfix})
}

func NewTernaryOperator(a *Arena, pos token.Position, cond, then, els Expr) *TernaryOperatorNode {
	return track(a, &TernaryOperatorNode{base: base{KindTernaryOperator, pos}, Cond: cond, Then: then, Else: els})
}

func NewFunctionCall(a *Arena, pos token.Position, callee Expr, args []Expr) *FunctionCallNode {
	return track(a, &FunctionCallNode{base: base{KindFunctionCall, pos}, Callee: callee, Args: args})
}

func NewMemberAccess(a *Arena, pos token.Position, obj Expr, member intern.Handle, arrow bool) *MemberAccessNode {
	return track(a, &MemberAccessNode{base: base{KindMemberAccess, pos}, Object: obj, Member: member, IsArrow: arrow})
}

func NewMemberFunctionCall(a *Arena, pos token.Position, obj Expr, member intern.Handle, args []Expr, arrow bool) *MemberFunctionCallNode {
	return track(a, &MemberFunctionCallNode{base: base{KindMemberFunctionCall, pos}, Object: obj, Member: member, Args: args, IsArrow: arrow})
}

func NewArraySubscript(a *Arena, pos token.Position, arr, idx Expr) *ArraySubscriptNode {
	return track(a, &ArraySubscriptNode{base: base{KindArraySubscript, pos}, Array: arr, Index: idx})
}

func NewConstructorCall(a *Arena, pos token.Position, typ types.Index, args []Expr, braced bool) *ConstructorCallNode {
	return track(a, &ConstructorCallNode{base: base{KindConstructorCall, pos}, Type: typ, Args: args, IsBraced: braced})
}

func NewCast(a *Arena, pos token.Position, kind CastKind, typ types.Index, operand Expr) *CastNode {
	k := KindStaticCast
	switch kind {
	case CastDynamic:
		k = KindDynamicCast
	case CastConst:
		k = KindConstCast
	case CastReinterpret:
		k = KindReinterpretCast
	case CastCStyle, CastFunctional:
		k = KindCStyleCast
	}
	return track(a, &CastNode{base: base{k, pos}, CastKind: kind, Type: typ, Operand: operand})
}

func NewSizeofType(a *Arena, pos token.Position, typ types.Index) *SizeofExprNode {
	return track(a, &SizeofExprNode{base: base{KindSizeofExpr, pos}, Type: typ, IsType: true})
}

func NewSizeofExpr(a *Arena, pos token.Position, operand Expr) *SizeofExprNode {
	return track(a, &SizeofExprNode{base: base{KindSizeofExpr, pos}, Operand: operand})
}

func NewSizeofPack(a *Arena, pos token.Position, pack intern.Handle) *SizeofExprNode {
	return track(a, &SizeofExprNode{base: base{KindSizeofPackExpr, pos}, Pack: pack, IsPack: true})
}

func NewAlignof(a *Arena, pos token.Position, typ types.Index) *AlignofExprNode {
	return track(a, &AlignofExprNode{base: base{KindAlignofExpr, pos}, Type: typ})
}

func NewNoexcept(a *Arena, pos token.Position, operand Expr) *NoexceptExprNode {
	return track(a, &NoexceptExprNode{base: base{KindNoexceptExpr, pos}, Operand: operand})
}

func NewTemplateParameterReference(a *Arena, pos token.Position, name intern.Handle) *TemplateParameterReferenceNode {
	return track(a, &TemplateParameterReferenceNode{base: base{KindTemplateParameterReference, pos}, Name: name})
}

func NewThrowExpression(a *Arena, pos token.Position, operand Expr) *ThrowExpressionNode {
	return track(a, &ThrowExpressionNode{base: base{KindThrowExpression, pos}, Operand: operand})
}

func NewFoldExpression(a *Arena, pos token.Position, kind FoldExpressionKind, op string, pack intern.Handle, init Expr) *FoldExpressionNode {
	return track(a, &FoldExpressionNode{base: base{KindFoldExpression, pos}, FoldKind: kind, Op: op, Pack: pack, Init: init})
}

func NewNewExpression(a *Arena, pos token.Position, typ types.Index, arrLen Expr, placement, ctorArgs []Expr, isGlobal bool) *NewExpressionNode {
	return track(a, &NewExpressionNode{base: base{KindNewExpression, pos}, Type: typ, ArrayLen: arrLen, PlacementArgs: placement, CtorArgs: ctorArgs, IsGlobal: isGlobal})
}

func NewDeleteExpression(a *Arena, pos token.Position, operand Expr, isArray, isGlobal bool) *DeleteExpressionNode {
	return track(a, &DeleteExpressionNode{base: base{KindDeleteExpression, pos}, Operand: operand, IsArray: isArray, IsGlobal: isGlobal})
}

func NewLambdaExpression(a *Arena, pos token.Position, l *LambdaExpressionNode) *LambdaExpressionNode {
	l.base = base{KindLambdaExpression, pos}
	return track(a, l)
}

func NewDecltype(a *Arena, pos token.Position, operand Expr, parenthesized bool) *DecltypeExprNode {
	return track(a, &DecltypeExprNode{base: base{KindDecltypeExpr, pos}, Operand: operand, IsParenthesized: parenthesized})
}

func NewPackExpansion(a *Arena, pos token.Position, pattern Expr) *PackExpansionExprNode {
	return track(a, &PackExpansionExprNode{base: base{KindPackExpansionExpr, pos}, Pattern: pattern})
}

func NewOffsetofExpr(a *Arena, pos token.Position, typ types.Index, member intern.Handle) *OffsetofExprNode {
	return track(a, &OffsetofExprNode{base: base{KindOffsetofExpr, pos}, Type: typ, Member: member})
}

func NewTypeid(a *Arena, pos token.Position, operand Expr, typ types.Index, isType bool) *TypeidNode {
	return track(a, &TypeidNode{base: base{KindTypeidExpr, pos}, Operand: operand, Type: typ, IsType: isType})
}

func NewTypeTraitExpr(a *Arena, pos token.Position, trait string, args []types.Index) *TypeTraitExprNode {
	return track(a, &TypeTraitExprNode{base: base{KindTypeTraitExpr, pos}, Trait: trait, Args: args})
}

func NewRequiresExpression(a *Arena, pos token.Position, params []*VariableDeclarationNode, reqs []Expr) *RequiresExpressionNode {
	return track(a, &RequiresExpressionNode{base: base{KindRequiresExpression, pos}, Params: params, Requirements: reqs})
}

func NewPointerToMemberAccess(a *Arena, pos token.Position, obj, member Expr, isArrow bool) *PointerToMemberAccessNode {
	return track(a, &PointerToMemberAccessNode{base: base{KindPointerToMemberAccess, pos}, Object: obj, Member: member, IsArrow: isArrow})
}

func NewPseudoDestructorCall(a *Arena, pos token.Position, obj Expr, typ types.Index) *PseudoDestructorCallNode {
	return track(a, &PseudoDestructorCallNode{base: base{KindPseudoDestructorCall, pos}, Object: obj, Type: typ})
}

func NewInitializerListConstruction(a *Arena, pos token.Position, typ types.Index, elems []Expr) *InitializerListConstructionNode {
	return track(a, &InitializerListConstructionNode{base: base{KindInitializerListConstruction, pos}, Type: typ, Elements: elems})
}
