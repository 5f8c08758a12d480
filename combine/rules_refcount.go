package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// visitStrongRetain erases a release/retain pair on the same reference when
// the release immediately precedes the retain in the same block. Cross-block
// pairs are deliberately left alone. A retain of a thin-to-thick conversion
// is erased outright: the wrapper carries no storage of its own.
func (c *Combiner) visitStrongRetain(in *mir.StrongRetain) (mir.Instr, Outcome) {
	if _, ok := c.fn.DefInstr(in.X).(*mir.ThinToThickFunction); ok {
		c.erase(in)
		return nil, NoChange
	}
	blk := c.fn.BlockOf(in)
	idx := blk.IndexOf(in)
	if idx <= 0 {
		return nil, NoChange
	}
	rel, ok := blk.Instrs[idx-1].(*mir.StrongRelease)
	if !ok || rel.X != in.X {
		return nil, NoChange
	}
	c.log.Debug("erase release/retain pair", zap.Uint32("value", uint32(in.X)))
	c.erase(in)
	c.erase(rel)
	return nil, NoChange
}

// visitStrongRelease erases the matching decrement on a thin-to-thick
// conversion.
func (c *Combiner) visitStrongRelease(in *mir.StrongRelease) (mir.Instr, Outcome) {
	if _, ok := c.fn.DefInstr(in.X).(*mir.ThinToThickFunction); ok {
		c.erase(in)
		return nil, NoChange
	}
	return nil, NoChange
}

// visitRetainValue specializes a generic ownership increment against what
// is statically known about its operand.
func (c *Combiner) visitRetainValue(in *mir.RetainValue) (mir.Instr, Outcome) {
	blk := c.fn.BlockOf(in)
	if idx := blk.IndexOf(in); idx > 0 {
		if rel, ok := blk.Instrs[idx-1].(*mir.ReleaseValue); ok && rel.X == in.X {
			c.erase(in)
			c.erase(rel)
			return nil, NoChange
		}
	}

	t := c.fn.TypeOf(in.X)
	if t != nil && types.IsTrivial(t) {
		c.erase(in)
		return nil, NoChange
	}
	if me, ok := c.fn.DefInstr(in.X).(*mir.MakeEnum); ok {
		if !me.HasPayload {
			c.erase(in)
			return nil, NoChange
		}
		c.b.SetInsertBefore(in)
		c.push(c.b.At(in.Location).EmitRetainValue(me.Payload))
		c.erase(in)
		return nil, NoChange
	}
	if t != nil && types.HasReferenceSemantics(t) {
		c.b.SetInsertBefore(in)
		c.push(c.b.At(in.Location).EmitStrongRetain(in.X))
		c.erase(in)
		return nil, NoChange
	}
	return nil, NoChange
}

// visitReleaseValue mirrors visitRetainValue for ownership decrements.
func (c *Combiner) visitReleaseValue(in *mir.ReleaseValue) (mir.Instr, Outcome) {
	t := c.fn.TypeOf(in.X)
	if t != nil && types.IsTrivial(t) {
		c.erase(in)
		return nil, NoChange
	}
	if me, ok := c.fn.DefInstr(in.X).(*mir.MakeEnum); ok {
		if !me.HasPayload {
			c.erase(in)
			return nil, NoChange
		}
		c.b.SetInsertBefore(in)
		c.push(c.b.At(in.Location).EmitReleaseValue(me.Payload))
		c.erase(in)
		return nil, NoChange
	}
	if t != nil && types.HasReferenceSemantics(t) {
		c.b.SetInsertBefore(in)
		c.push(c.b.At(in.Location).EmitStrongRelease(in.X))
		c.erase(in)
		return nil, NoChange
	}
	return nil, NoChange
}
