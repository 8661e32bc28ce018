package lower

import (
	"github.com/cwbudde/cppfe/internal/ast"
	"github.com/cwbudde/cppfe/internal/ir"
	"github.com/cwbudde/cppfe/internal/types"
)

// lowerCast lowers any of the named-cast forms plus C-style/functional
// casts to a single OpConvert, classifying the conversion kind from the
// source and target types. static_cast/const_cast/C-style/functional
// casts all reduce to the same value-conversion family here;
// reinterpret_cast always classifies as ConvReinterpret, and
// dynamic_cast keeps its own runtime-checked kind.
func (b *Builder) lowerCast(n *ast.CastNode) ir.TempVar {
	src, _ := b.LowerExpr(n.Operand)
	fromType := b.staticType(n.Operand)
	toType := n.Type

	if fromType == toType {
		return src
	}

	kind := b.classifyConversion(n.CastKind, fromType, toType)

	dst := b.newTemp()
	b.emit(ir.Instruction{Op: ir.OpConvert, Convert: &ir.ConversionOp{Dst: dst, Src: src, Kind: kind, FromType: fromType, ToType: toType}})
	return dst
}

func (b *Builder) classifyConversion(kind ast.CastKind, from, to types.Index) ir.ConversionKind {
	if kind == ast.CastDynamic {
		return ir.ConvDynamicCast
	}
	if kind == ast.CastReinterpret {
		return ir.ConvReinterpret
	}

	fromInfo := b.Types.Get(from)
	toInfo := b.Types.Get(to)

	fromFloat := fromInfo.Kind == types.KindBuiltin && fromInfo.Builtin.IsFloating()
	toFloat := toInfo.Kind == types.KindBuiltin && toInfo.Builtin.IsFloating()

	switch {
	case fromFloat && toFloat:
		return ir.ConvFloatToFloat
	case fromFloat && !toFloat:
		return ir.ConvFloatToInt
	case !fromFloat && toFloat:
		return ir.ConvIntToFloat
	}

	fromSize := b.Types.SizeBits(from)
	toSize := b.Types.SizeBits(to)
	if toSize < fromSize {
		return ir.ConvTruncate
	}
	if fromInfo.Kind == types.KindBuiltin && fromInfo.Builtin.IsSigned() {
		return ir.ConvSignExtend
	}
	return ir.ConvZeroExtend
}
