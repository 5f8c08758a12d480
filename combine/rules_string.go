package combine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// Well-known semantics tags on runtime functions. Construction takes the
// literal pointer plus, for UTF-8, a code-unit count and an ASCII flag, or
// for UTF-16 a code-unit count only.
const (
	semStringConcat    = "string.concat"
	semStringMakeUTF8  = "string.makeUTF8"
	semStringMakeUTF16 = "string.makeUTF16"
)

// stringOperand is one side of a concatenation: the construction call and
// the literal it wraps.
type stringOperand struct {
	make *mir.Call
	fn   *mir.Function
	lit  *mir.StringLit
}

// foldStringConcat replaces a concatenation of two statically known string
// literals with a single construction of the combined literal. Length and
// ASCII-ness are recomputed from the combined content. When the operands
// disagree on encoding the result is built at UTF-16.
func (c *Combiner) foldStringConcat(in *mir.Call) (mir.Instr, Outcome) {
	fr, ok := c.fn.DefInstr(in.Callee).(*mir.FunctionRef)
	if !ok || fr.Fn.Semantics != semStringConcat || len(in.Args) != 2 {
		return nil, NoChange
	}
	lhs, ok := c.stringOperandOf(in.Args[0])
	if !ok {
		return nil, NoChange
	}
	rhs, ok := c.stringOperandOf(in.Args[1])
	if !ok {
		return nil, NoChange
	}

	combined := lhs.lit.Value + rhs.lit.Value
	target := lhs
	if lhs.lit.Encoding != rhs.lit.Encoding || rhs.lit.Encoding == mir.EncodingUTF16 {
		if lhs.lit.Encoding == mir.EncodingUTF16 {
			target = lhs
		} else {
			target = rhs
		}
	}

	c.log.Debug("fold string concatenation",
		zap.Int("lhs", lhs.lit.CodeUnitCount()),
		zap.Int("rhs", rhs.lit.CodeUnitCount()))

	c.b.SetInsertBefore(in)
	c.b.At(in.Location)
	lit := c.b.EmitStringLit(combined, target.lit.Encoding)
	args := []mir.ValueID{lit.Result, c.b.EmitIntConst(types.TypeI64, int64(lit.CodeUnitCount())).Result}
	if target.lit.Encoding == mir.EncodingUTF8 {
		ascii := int64(0)
		if lit.IsAscii() {
			ascii = 1
		}
		args = append(args, c.b.EmitIntConst(types.TypeI1, ascii).Result)
	}
	callee := c.b.EmitFunctionRef(target.fn)
	return c.b.EmitCall(callee.Result, args, in.Type), Replaced
}

// stringOperandOf matches a concatenation operand against a string
// construction call over a literal. Arity mismatches against the known
// construction signatures are upstream bugs.
func (c *Combiner) stringOperandOf(id mir.ValueID) (stringOperand, bool) {
	call, ok := c.fn.DefInstr(id).(*mir.Call)
	if !ok {
		return stringOperand{}, false
	}
	fr, ok := c.fn.DefInstr(call.Callee).(*mir.FunctionRef)
	if !ok {
		return stringOperand{}, false
	}
	switch fr.Fn.Semantics {
	case semStringMakeUTF8:
		if len(call.Args) != 3 {
			panic(fmt.Sprintf("combine: %s expects 3 arguments, have %d", semStringMakeUTF8, len(call.Args)))
		}
	case semStringMakeUTF16:
		if len(call.Args) != 2 {
			panic(fmt.Sprintf("combine: %s expects 2 arguments, have %d", semStringMakeUTF16, len(call.Args)))
		}
	default:
		return stringOperand{}, false
	}
	lit, ok := c.fn.DefInstr(call.Args[0]).(*mir.StringLit)
	if !ok {
		return stringOperand{}, false
	}
	return stringOperand{make: call, fn: fr.Fn, lit: lit}, true
}
