package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/consteval"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// LowerStatement lowers one statement, emitting into the Builder's
// current instruction stream, targeting label/branch IR instructions
// resolved by name rather than a patched jump table.
func (b *Builder) LowerStatement(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.BlockStatement:
		b.LowerBlock(n)
	case *ast.ExpressionStatement:
		b.LowerExpr(n.Expr)
	case *ast.IfStatement:
		b.lowerIf(n)
	case *ast.WhileStatement:
		b.lowerWhile(n)
	case *ast.ForStatement:
		b.lowerForStmt(n)
	case *ast.ReturnStatement:
		b.lowerReturnStmt(n)
	case *ast.DeclStatement:
		b.lowerDeclStatement(n)
	}
}

// LowerBlock lowers every statement of n in order. No explicit scope
// push/pop is needed: each local gets a distinct stack slot for the
// lifetime of the function.
func (b *Builder) LowerBlock(n *ast.BlockStatement) {
	for _, s := range n.Statements {
		b.LowerStatement(s)
	}
}

func (b *Builder) lowerIf(n *ast.IfStatement) {
	cond, _ := b.LowerExpr(n.Cond)
	thenLabel := b.newLabel("if_then")
	endLabel := b.newLabel("if_end")
	elseLabel := endLabel
	if n.Else != nil {
		elseLabel = b.newLabel("if_else")
	}

	b.emit(ir.Instruction{Op: ir.OpCondBranch, CondBranch: &ir.ConditionalBranchOp{Cond: cond, TrueTarget: thenLabel, FalseTarget: elseLabel}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: thenLabel}})
	b.LowerStatement(n.Then)

	if n.Else != nil {
		b.emit(ir.Instruction{Op: ir.OpBranch, Branch: &ir.BranchOp{Target: endLabel}})
		b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: elseLabel}})
		b.LowerStatement(n.Else)
	}

	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: endLabel}})
}

// placeLabel emits a label instruction right here and returns its name,
// used where a branch target must point at "the next instruction"
// without a separate named label having been allocated up front.
func (b *Builder) placeLabel(prefix string) string {
	name := b.newLabel(prefix)
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: name}})
	return name
}

func (b *Builder) lowerWhile(n *ast.WhileStatement) {
	startLabel := b.placeLabel("while_start")
	cond, _ := b.LowerExpr(n.Cond)
	endLabel := b.newLabel("while_end")
	bodyLabel := b.newLabel("while_body")
	b.emit(ir.Instruction{Op: ir.OpCondBranch, CondBranch: &ir.ConditionalBranchOp{Cond: cond, TrueTarget: bodyLabel, FalseTarget: endLabel}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: bodyLabel}})

	b.LowerStatement(n.Body)
	b.emit(ir.Instruction{Op: ir.OpBranch, Branch: &ir.BranchOp{Target: startLabel}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: endLabel}})
}

func (b *Builder) lowerForStmt(n *ast.ForStatement) {
	if n.Init != nil {
		b.LowerStatement(n.Init)
	}
	startLabel := b.placeLabel("for_start")
	endLabel := b.newLabel("for_end")

	if n.Cond != nil {
		cond, _ := b.LowerExpr(n.Cond)
		bodyLabel := b.newLabel("for_body")
		b.emit(ir.Instruction{Op: ir.OpCondBranch, CondBranch: &ir.ConditionalBranchOp{Cond: cond, TrueTarget: bodyLabel, FalseTarget: endLabel}})
		b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: bodyLabel}})
	}

	b.LowerStatement(n.Body)
	if n.Post != nil {
		b.LowerExpr(n.Post)
	}
	b.emit(ir.Instruction{Op: ir.OpBranch, Branch: &ir.BranchOp{Target: startLabel}})
	b.emit(ir.Instruction{Op: ir.OpLabel, Label: &ir.LabelOp{Name: endLabel}})
}

func (b *Builder) lowerReturnStmt(n *ast.ReturnStatement) {
	if n.Value == nil {
		b.emit(ir.Instruction{Op: ir.OpReturn, Return: &ir.ReturnOp{}})
		return
	}
	v, _ := b.LowerExpr(n.Value)
	b.emit(ir.Instruction{Op: ir.OpReturn, Return: &ir.ReturnOp{Value: v, HasValue: true}})
}

// LowerFunction lowers fn's entire body into a complete ir.Function. A
// non-static member function's receiver is declared first, occupying
// local slot 0 per the thisLocalIndex convention identifiers.go
// documents, followed by one slot per parameter in declaration order.
func (b *Builder) LowerFunction(fn *ast.FunctionDeclarationNode) *ir.Function {
	if fn.OwnerStruct != types.Void && !fn.IsStatic {
		b.CurrentClass = fn.OwnerStruct
		thisName := b.Interner.Intern("this")
		b.DeclareLocal(thisName, b.Types.Pointer(fn.OwnerStruct))
	}
	for _, p := range fn.Params {
		b.DeclareLocal(p.Name, p.Type)
	}
	if fn.Body != nil {
		b.LowerBlock(fn.Body)
	}
	return b.Finish(fn.Name, fn.MangledName)
}

// lowerDeclStatement lowers a local `VariableDeclarationNode`. A local
// `static_assert` emits no instructions: its condition is checked here
// through package consteval, and a failure is recorded in b.Errors.
func (b *Builder) lowerDeclStatement(n *ast.DeclStatement) {
	if sa, ok := n.Decl.(*ast.StaticAssertNode); ok {
		ev := consteval.NewEvaluator(b.Types)
		if err := ev.CheckStaticAssert(b.Interner, sa); err != nil {
			b.Errors.Add(err)
		}
		return
	}
	v, ok := n.Decl.(*ast.VariableDeclarationNode)
	if !ok {
		return
	}
	slot := b.DeclareLocal(v.Name, v.Type)
	if v.Init == nil {
		return
	}
	init, _ := b.LowerExpr(v.Init)
	b.emit(ir.Instruction{Op: ir.OpLocalStore, Local: &ir.LocalOp{Slot: slot, Src: init, Type: v.Type}})
}
