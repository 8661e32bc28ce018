// Package lower implements expression-to-IR lowering: turning a
// resolved AST expression tree into the TempVar-based three-address IR
// of package ir, preserving value category, dispatching assignment
// through lvalue metadata, and handling pointer arithmetic, operator
// overloading, casts, and the variadic/lambda/builtin-intrinsic special
// forms.
package lower

import (
	"fmt"

	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/intern"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/mangle"
	"github.com/cwbudde/cppfe/internal/perr"
	"github.com/cwbudde/cppfe/internal/symtab"
	"github.com/cwbudde/cppfe/internal/types"
)

// DataModel selects the `long`/pointer width convention in force, which
// affects only type sizing (package types) but is threaded through here
// because variadic lowering reads it to select the ABI.
type DataModel int

const (
	ModelLP64 DataModel = iota
	ModelLLP64
)

// ABI selects the calling convention variadic lowering targets.
type ABI int

const (
	ABISystemV ABI = iota
	ABIWindowsX64
)

// Builder lowers one function body at a time, allocating TempVars and
// local stack slots as it walks the AST. Builder is not safe for
// concurrent use; one Builder belongs to one function lowering.
type Builder struct {
	Interner *intern.Table
	Types    *types.Registry
	Symbols  *symtab.Table
	Mangler  *mangle.Mangler
	Model    DataModel
	ABI      ABI

	// CurrentClass is the owning struct of the function body being
	// lowered, types.Void for a free function. See identifiers.go.
	CurrentClass types.Index

	instrs     []ir.Instruction
	nextTemp   ir.TempVar
	nextLocal  int
	locals     map[intern.Handle]localSlot
	labelSeq   int
	lambdaSeq  int

	Errors perr.List
}

type localSlot struct {
	slot int
	typ  types.Index
}

func NewBuilder(in *intern.Table, tys *types.Registry, sym *symtab.Table, m *mangle.Mangler) *Builder {
	return &Builder{
		Interner: in,
		Types:    tys,
		Symbols:  sym,
		Mangler:  m,
		locals:   make(map[intern.Handle]localSlot),
	}
}

func (b *Builder) newTemp() ir.TempVar {
	t := b.nextTemp
	b.nextTemp++
	return t
}

func (b *Builder) newLabel(prefix string) string {
	b.labelSeq++
	return fmt.Sprintf("%s%d", prefix, b.labelSeq)
}

func (b *Builder) emit(i ir.Instruction) {
	b.instrs = append(b.instrs, i)
}

// DeclareLocal reserves a stack slot for a local variable or parameter.
func (b *Builder) DeclareLocal(name intern.Handle, typ types.Index) int {
	slot := b.nextLocal
	b.nextLocal++
	b.locals[name] = localSlot{slot: slot, typ: typ}
	return slot
}

// Finish returns the completed instruction stream as an ir.Function.
func (b *Builder) Finish(name, mangled intern.Handle) *ir.Function {
	return &ir.Function{
		Name:         name,
		MangledName:  mangled,
		Instructions: b.instrs,
		NumTemps:     int(b.nextTemp),
		NumLocals:    b.nextLocal,
	}
}

func (b *Builder) errorf(pos ast.Node, format string, args ...any) {
	b.Errors.Add(perr.New(perr.KindSemantic, pos.Pos(), format, args...))
}
