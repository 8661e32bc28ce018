package ast

import (
	"strings"

	"github.com/kr/pretty"
	"github.com/kr/text"
)

// Dump renders node and its children as an indented debug tree using
// kr/pretty. cmd/cppfe's `parse` subcommand calls this to render a
// readable AST subtree instead of Go's default %#v dump.
func Dump(node Node) string {
	if node == nil {
		return "<nil>"
	}
	var b strings.Builder
	dump(&b, node, 0)
	return b.String()
}

func dump(b *strings.Builder, node Node, depth int) {
	if node == nil {
		return
	}
	label := kindName(node.Kind())
	body := pretty.Sprint(summarize(node))
	indented := text.Indent(body, strings.Repeat("  ", depth)+"  ")
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(indented)
	b.WriteString("\n")

	for _, child := range children(node) {
		dump(b, child, depth+1)
	}
}

// children returns node's immediate non-nil children, using the same
// traversal structure Walk encodes, but one level at a time (Dump
// recurses itself rather than letting Walk recurse, so each level can
// be indented).
func children(node Node) []Node {
	var out []Node
	top := node
	Inspect(node, func(n Node) bool {
		if n == nil {
			return false
		}
		if n != top {
			out = append(out, n)
			return false // Dump's own recursive call handles n's descendants
		}
		return true // enter top once to reach its direct children
	})
	return out
}

// summarize strips a node down to a small, pretty-print-friendly value
// so Dump output stays legible for large subtrees (full struct dumps of
// every node, including embedded base, would bury the signal).
func summarize(node Node) any {
	switch n := node.(type) {
	case *IdentifierNode:
		return n.Name
	case *BinaryOperatorNode:
		return n.Op
	case *UnaryOperatorNode:
		return struct {
			Op      string
			Postfix bool
		}{n.Op, n.IsPostfix}
	case *NumericLiteralNode:
		if n.IsFloat {
			return n.FloatValue
		}
		return n.IntValue
	case *BoolLiteralNode:
		return n.Value
	default:
		return node.Kind()
	}
}

func kindName(k Kind) string {
	names := map[Kind]string{
		KindIdentifier: "Identifier", KindQualifiedIdentifier: "QualifiedIdentifier",
		KindNumericLiteral: "NumericLiteral", KindStringLiteral: "StringLiteral",
		KindBoolLiteral: "BoolLiteral", KindNullptrLiteral: "NullptrLiteral",
		KindThisExpr: "This", KindBinaryOperator: "BinaryOperator",
		KindUnaryOperator: "UnaryOperator", KindTernaryOperator: "TernaryOperator",
		KindFunctionCall: "FunctionCall", KindMemberAccess: "MemberAccess",
		KindMemberFunctionCall: "MemberFunctionCall", KindArraySubscript: "ArraySubscript",
		KindConstructorCall: "ConstructorCall", KindNewExpression: "New",
		KindDeleteExpression: "Delete", KindStaticCast: "StaticCast",
		KindDynamicCast: "DynamicCast", KindConstCast: "ConstCast",
		KindReinterpretCast: "ReinterpretCast", KindCStyleCast: "CStyleCast",
		KindSizeofExpr: "Sizeof", KindAlignofExpr: "Alignof",
		KindNoexceptExpr: "Noexcept", KindLambdaExpression: "Lambda",
		KindFoldExpression: "Fold", KindTemplateParameterReference: "TemplateParamRef",
		KindBlockStatement: "Block", KindExpressionStatement: "ExprStmt",
		KindIfStatement: "If", KindWhileStatement: "While",
		KindForStatement: "For", KindReturnStatement: "Return",
		KindFunctionDeclaration: "FunctionDecl", KindVariableDeclaration: "VariableDecl",
		KindStructDeclaration: "StructDecl",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "Node"
}
