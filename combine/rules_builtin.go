package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
)

// zeroness is three-valued static knowledge about an operand.
type zeroness int

const (
	zeroUnknown zeroness = iota
	zeroYes
	zeroNo
)

func (c *Combiner) zeronessOf(id mir.ValueID) zeroness {
	switch d := c.fn.DefInstr(id).(type) {
	case *mir.Const:
		if d.Value == "0" {
			return zeroYes
		}
		return zeroNo
	case *mir.AllocRef, *mir.StringLit, *mir.FunctionRef:
		// Freshly allocated references and literal pointers are never null.
		return zeroNo
	default:
		return zeroUnknown
	}
}

// visitBuiltin folds intrinsic arithmetic with statically known operands
// and canonicalizes stride multiplications so the stride is always the
// second operand.
func (c *Combiner) visitBuiltin(in *mir.Builtin) (mir.Instr, Outcome) {
	switch in.Op {
	case mir.BuiltinEq, mir.BuiltinNe:
		lz, rz := c.zeronessOf(in.Args[0]), c.zeronessOf(in.Args[1])
		if lz == zeroUnknown || rz == zeroUnknown || (lz == zeroNo && rz == zeroNo) {
			return nil, NoChange
		}
		equal := lz == rz
		if in.Op == mir.BuiltinNe {
			equal = !equal
		}
		c.log.Debug("fold comparison", zap.String("op", in.Op.String()))
		v := int64(0)
		if equal {
			v = 1
		}
		c.b.SetInsertBefore(in)
		return c.b.At(in.Location).EmitIntConst(in.Type, v), Replaced

	case mir.BuiltinSub:
		if in.Args[0] != in.Args[1] {
			return nil, NoChange
		}
		c.b.SetInsertBefore(in)
		return c.b.At(in.Location).EmitIntConst(in.Type, 0), Replaced

	case mir.BuiltinMul:
		lhs, lok := c.fn.DefInstr(in.Args[0]).(*mir.Builtin)
		rhs, rok := c.fn.DefInstr(in.Args[1]).(*mir.Builtin)
		if lok && lhs.Op == mir.BuiltinStride && !(rok && rhs.Op == mir.BuiltinStride) {
			in.Args[0], in.Args[1] = in.Args[1], in.Args[0]
			return nil, MutatedInPlace
		}
		return nil, NoChange
	}
	return nil, NoChange
}

// visitCondFail erases assertions that can never fire, or every assertion
// when the run is configured to strip them.
func (c *Combiner) visitCondFail(in *mir.CondFail) (mir.Instr, Outcome) {
	if c.opts.RemoveRuntimeAsserts || c.zeronessOf(in.Cond) == zeroYes {
		c.erase(in)
	}
	return nil, NoChange
}
