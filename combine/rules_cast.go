package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// visitStructExtract folds a field extraction out of a bit-cast value into
// a direct bit cast, which is legal only when the struct has exactly one
// stored field so the two layouts coincide.
func (c *Combiner) visitStructExtract(in *mir.StructExtract) (mir.Instr, Outcome) {
	bc, ok := c.fn.DefInstr(in.Base).(*mir.RefBitCast)
	if !ok {
		return nil, NoChange
	}
	st, ok := c.fn.TypeOf(in.Base).(*types.StructType)
	if !ok || len(st.Fields) != 1 || in.Field != 0 {
		return nil, NoChange
	}
	src := c.fn.TypeOf(bc.X)
	if src == nil || types.HasArchetype(src) || types.IsTrivial(src) {
		return nil, NoChange
	}
	c.log.Debug("fold struct_extract of bit cast", zap.Uint32("value", uint32(in.Result)))
	c.b.SetInsertBefore(in)
	return c.b.At(in.Location).EmitRefBitCast(bc.X, in.Type), Replaced
}

// visitUncheckedEnumData is the tagged-union counterpart: projecting the
// first payload-bearing case out of a bit-cast value becomes a direct bit
// cast.
func (c *Combiner) visitUncheckedEnumData(in *mir.UncheckedEnumData) (mir.Instr, Outcome) {
	bc, ok := c.fn.DefInstr(in.X).(*mir.RefBitCast)
	if !ok {
		return nil, NoChange
	}
	et, ok := c.fn.TypeOf(in.X).(*types.EnumType)
	if !ok || et.FirstPayloadCase() != in.Case {
		return nil, NoChange
	}
	src := c.fn.TypeOf(bc.X)
	if src == nil || types.HasArchetype(src) || types.IsTrivial(src) {
		return nil, NoChange
	}
	c.b.SetInsertBefore(in)
	return c.b.At(in.Location).EmitRefBitCast(bc.X, in.Type), Replaced
}

// visitUpcast collapses upcast chains and absorbs a preceding reference
// reinterpretation into the upcast's target type.
func (c *Combiner) visitUpcast(in *mir.Upcast) (mir.Instr, Outcome) {
	switch inner := c.fn.DefInstr(in.X).(type) {
	case *mir.Upcast:
		in.X = inner.X
		return nil, MutatedInPlace
	case *mir.RefCast:
		c.b.SetInsertBefore(in)
		return c.b.At(in.Location).EmitRefCast(inner.X, in.Type), Replaced
	}
	return nil, NoChange
}

// visitRefCast collapses chained reference casts. A cast whose target is a
// strict ancestor of the operand type always succeeds, so it becomes a plain
// upcast.
func (c *Combiner) visitRefCast(in *mir.RefCast) (mir.Instr, Outcome) {
	if inner, ok := c.fn.DefInstr(in.X).(*mir.RefCast); ok {
		in.X = inner.X
		return nil, MutatedInPlace
	}
	if dst, ok := in.Type.(*types.ClassType); ok && dst.IsSuperclassOf(c.fn.TypeOf(in.X)) {
		c.b.SetInsertBefore(in)
		return c.b.At(in.Location).EmitUpcast(in.X, in.Type), Replaced
	}
	return nil, NoChange
}

func (c *Combiner) visitRefBitCast(in *mir.RefBitCast) (mir.Instr, Outcome) {
	if inner, ok := c.fn.DefInstr(in.X).(*mir.RefBitCast); ok {
		in.X = inner.X
		return nil, MutatedInPlace
	}
	return nil, NoChange
}

func (c *Combiner) visitTrivialBitCast(in *mir.TrivialBitCast) (mir.Instr, Outcome) {
	switch inner := c.fn.DefInstr(in.X).(type) {
	case *mir.TrivialBitCast:
		in.X = inner.X
		return nil, MutatedInPlace
	case *mir.RefBitCast:
		in.X = inner.X
		return nil, MutatedInPlace
	}
	return nil, NoChange
}

func (c *Combiner) visitAddrCast(in *mir.AddrCast) (mir.Instr, Outcome) {
	if inner, ok := c.fn.DefInstr(in.X).(*mir.AddrCast); ok {
		in.X = inner.X
		return nil, MutatedInPlace
	}
	return nil, NoChange
}
