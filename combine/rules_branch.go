package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
)

// visitCondBr branches on the original condition, with successors swapped,
// when the tested value is the boolean complement of another.
func (c *Combiner) visitCondBr(t *mir.CondBr) (mir.Instr, Outcome) {
	x, ok := c.fn.DefInstr(t.Cond).(*mir.Builtin)
	if !ok || x.Op != mir.BuiltinXor {
		return nil, NoChange
	}
	mask, ok := c.fn.DefInstr(x.Args[1]).(*mir.Const)
	if !ok || mask.Value != "1" {
		return nil, NoChange
	}

	c.log.Debug("canonicalize negated branch", zap.Uint32("cond", uint32(x.Args[0])))
	blk := c.fn.BlockOf(t)
	swapped := &mir.CondBr{
		Cond:     x.Args[0],
		Then:     t.Else,
		ThenArgs: t.ElseArgs,
		Else:     t.Then,
		ElseArgs: t.ThenArgs,
		Location: t.Location,
	}
	c.fn.SetTerm(blk, swapped)
	c.changed = true
	c.push(swapped)
	return nil, NoChange
}
