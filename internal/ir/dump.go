package ir

import (
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/cppfe/internal/intern"
)

// DumpJSON renders fn as a pretty-printed JSON document, one object per
// instruction tagged by opcode name — the payload shape cmd/cppfe's
// `lower --json` subcommand writes and its tests query back with gjson.
func DumpJSON(fn *Function, interner *intern.Table) (string, error) {
	doc := "{}"
	doc, err := sjson.Set(doc, "name", interner.View(fn.Name))
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "mangledName", interner.View(fn.MangledName))
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "numTemps", fn.NumTemps)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "numLocals", fn.NumLocals)
	if err != nil {
		return "", err
	}
	doc, err = sjson.SetRaw(doc, "instructions", "[]")
	if err != nil {
		return "", err
	}

	for i, instr := range fn.Instructions {
		prefix := "instructions." + strconv.Itoa(i)
		doc, err = sjson.Set(doc, prefix+".op", opcodeName(instr.Op))
		if err != nil {
			return "", err
		}
		doc, err = setInstructionPayload(doc, prefix, instr, interner)
		if err != nil {
			return "", err
		}
	}

	return string(pretty.Pretty([]byte(doc))), nil
}

func setInstructionPayload(doc, prefix string, instr Instruction, interner *intern.Table) (string, error) {
	set := func(path string, v any) error {
		var err error
		doc, err = sjson.Set(doc, prefix+"."+path, v)
		return err
	}
	var err error
	switch instr.Op {
	case OpConst:
		c := instr.Const
		err = set("dst", int(c.Dst))
		if err == nil {
			if c.IsFloat {
				err = set("floatValue", c.FloatValue)
			} else {
				err = set("intValue", c.IntValue)
			}
		}
	case OpLocalLoad, OpLocalStore:
		l := instr.Local
		err = set("slot", l.Slot)
		if err == nil && instr.Op == OpLocalLoad {
			err = set("dst", int(l.Dst))
		}
		if err == nil && instr.Op == OpLocalStore {
			err = set("src", int(l.Src))
		}
	case OpGlobalLoad, OpGlobalStore:
		g := instr.Global
		err = set("name", interner.View(g.Name))
		if err == nil && instr.Op == OpGlobalLoad {
			err = set("dst", int(g.Dst))
		}
		if err == nil && instr.Op == OpGlobalStore {
			err = set("src", int(g.Src))
		}
	case OpBinary:
		b := instr.BinaryOp
		err = set("dst", int(b.Dst))
		if err == nil {
			err = set("binOp", b.Op)
		}
		if err == nil {
			err = set("lhs", int(b.Lhs))
		}
		if err == nil {
			err = set("rhs", int(b.Rhs))
		}
	case OpUnary:
		u := instr.UnaryOp
		err = set("dst", int(u.Dst))
		if err == nil {
			err = set("unOp", u.Op)
		}
		if err == nil {
			err = set("operand", int(u.Operand))
		}
	case OpCall:
		c := instr.Call
		err = set("mangledName", interner.View(c.MangledName))
		if err == nil && c.HasDst {
			err = set("dst", int(c.Dst))
		}
		if err == nil && c.HasReturnSlot {
			err = set("returnSlot", int(c.ReturnSlot))
		}
		if err == nil {
			args := make([]int, len(c.Args))
			for i, a := range c.Args {
				args[i] = int(a)
			}
			err = set("args", args)
		}
	case OpMemberLoad:
		m := instr.MemberLoad
		err = set("dst", int(m.Dst))
		if err == nil {
			err = set("base", int(m.Base))
		}
		if err == nil {
			err = set("byteOffset", m.ByteOffset)
		}
	case OpMemberStore:
		m := instr.MemberStore
		err = set("base", int(m.Base))
		if err == nil {
			err = set("byteOffset", m.ByteOffset)
		}
		if err == nil {
			err = set("src", int(m.Src))
		}
	case OpDereference:
		d := instr.Deref
		err = set("dst", int(d.Dst))
		if err == nil {
			err = set("pointer", int(d.Pointer))
		}
	case OpDereferenceStore:
		d := instr.DerefStore
		err = set("pointer", int(d.Pointer))
		if err == nil {
			err = set("src", int(d.Src))
		}
	case OpAddressOf:
		a := instr.AddressOf
		err = set("dst", int(a.Dst))
	case OpArrayElementAddress:
		a := instr.ArrayElem
		err = set("dst", int(a.Dst))
		if err == nil {
			err = set("base", int(a.Base))
		}
		if err == nil {
			err = set("index", int(a.Index))
		}
		if err == nil {
			err = set("elemSize", a.ElemSize)
		}
	case OpComputeAddress:
		c := instr.ComputeAddr
		err = set("dst", int(c.Dst))
		if err == nil {
			err = set("base", int(c.Base))
		}
		if err == nil {
			err = set("offset", c.Offset)
		}
	case OpConvert:
		c := instr.Convert
		err = set("dst", int(c.Dst))
		if err == nil {
			err = set("src", int(c.Src))
		}
		if err == nil {
			err = set("kind", conversionKindName(c.Kind))
		}
	case OpAssign:
		a := instr.Assign
		err = set("src", int(a.Src))
		if err == nil {
			err = set("lvalueKind", lvalueKindName(a.Lvalue.Kind))
		}
	case OpLabel:
		err = set("name", instr.Label.Name)
	case OpBranch:
		err = set("target", instr.Branch.Target)
	case OpCondBranch:
		c := instr.CondBranch
		err = set("cond", int(c.Cond))
		if err == nil {
			err = set("trueTarget", c.TrueTarget)
		}
		if err == nil {
			err = set("falseTarget", c.FalseTarget)
		}
	case OpReturn:
		r := instr.Return
		if r.HasValue {
			err = set("value", int(r.Value))
		}
	case OpVaStart:
		v := instr.VaStart
		err = set("vaList", int(v.VaList))
		if err == nil {
			err = set("lastFixed", int(v.LastFixed))
		}
	case OpVaArg:
		v := instr.VaArg
		err = set("dst", int(v.Dst))
		if err == nil {
			err = set("vaList", int(v.VaList))
		}
	case OpCopy:
		c := instr.Copy
		err = set("dst", int(c.Dst))
		if err == nil {
			err = set("src", int(c.Src))
		}
	}
	return doc, err
}

func opcodeName(op Opcode) string {
	names := map[Opcode]string{
		OpConst: "const", OpLocalLoad: "local_load", OpLocalStore: "local_store",
		OpGlobalLoad: "global_load", OpGlobalStore: "global_store", OpBinary: "binary",
		OpUnary: "unary", OpCall: "call", OpMemberLoad: "member_load",
		OpMemberStore: "member_store", OpDereference: "dereference",
		OpDereferenceStore: "dereference_store", OpAddressOf: "address_of",
		OpArrayElementAddress: "array_element_address", OpComputeAddress: "compute_address",
		OpConvert: "convert", OpAssign: "assign", OpLabel: "label", OpBranch: "branch",
		OpCondBranch: "cond_branch", OpReturn: "return", OpVaStart: "va_start",
		OpVaArg: "va_arg", OpCopy: "copy",
		OpPreIncrement: "pre_increment", OpPostIncrement: "post_increment",
		OpPreDecrement: "pre_decrement", OpPostDecrement: "post_decrement",
	}
	if n, ok := names[op]; ok {
		return n
	}
	return "unknown"
}

func conversionKindName(k ConversionKind) string {
	names := map[ConversionKind]string{
		ConvSignExtend: "sign_extend", ConvZeroExtend: "zero_extend", ConvTruncate: "truncate",
		ConvIntToFloat: "int_to_float", ConvFloatToInt: "float_to_int",
		ConvFloatToFloat: "float_to_float", ConvReinterpret: "reinterpret",
		ConvDynamicCast: "dynamic_cast",
	}
	return names[k]
}

func lvalueKindName(k LValueKind) string {
	names := map[LValueKind]string{
		NotLValue: "none", Local: "local", Global: "global", Member: "member", Indirect: "indirect",
	}
	return names[k]
}
