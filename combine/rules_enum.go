package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// visitInjectEnumAddr rewrites the allocate/initialize/tag idiom into a
// direct enum materialization plus one store. The scratch allocation itself
// is left for dead-store elimination.
func (c *Combiner) visitInjectEnumAddr(in *mir.InjectEnumAddr) (mir.Instr, Outcome) {
	et, ok := types.ElemOf(c.fn.TypeOf(in.Addr)).(*types.EnumType)
	if !ok {
		return nil, NoChange
	}

	if et.Cases[in.Case].Payload == nil {
		c.log.Debug("materialize no-payload enum", zap.Int("case", in.Case))
		c.b.SetInsertBefore(in)
		c.b.At(in.Location)
		e := c.b.EmitMakeEnum(et, in.Case, mir.InvalidValue, false)
		c.push(c.b.EmitStore(in.Addr, e.Result))
		c.push(e)
		c.erase(in)
		return nil, NoChange
	}

	st, init := c.pendingPayloadStore(in)
	if st == nil {
		return nil, NoChange
	}
	c.log.Debug("materialize payload enum", zap.Int("case", in.Case))
	c.b.SetInsertBefore(in)
	c.b.At(in.Location)
	e := c.b.EmitMakeEnum(et, in.Case, st.Value, true)
	c.push(c.b.EmitStore(in.Addr, e.Result))
	c.push(e)
	c.erase(in)
	c.erase(st)
	c.erase(init)
	return nil, NoChange
}

// pendingPayloadStore walks backwards from the injection looking for the
// store that initialized the payload projection of the same allocation and
// case. The walk stops at anything that may touch memory, so the found
// store is still the current contents.
func (c *Combiner) pendingPayloadStore(in *mir.InjectEnumAddr) (*mir.Store, *mir.InitEnumDataAddr) {
	blk := c.fn.BlockOf(in)
	for i := blk.IndexOf(in) - 1; i >= 0; i-- {
		switch prev := blk.Instrs[i].(type) {
		case *mir.Store:
			init, ok := c.fn.DefInstr(prev.Addr).(*mir.InitEnumDataAddr)
			if ok && init.Addr == in.Addr && init.Case == in.Case && len(c.fn.UsesOf(init.Result)) == 1 {
				return prev, init
			}
			return nil, nil
		case *mir.InitEnumDataAddr, *mir.StructElementAddr, *mir.Const, *mir.StringLit, *mir.FunctionRef:
			// No memory effects.
		default:
			return nil, nil
		}
	}
	return nil, nil
}

// visitEnumIsTag folds a tag test against a locally constructed enum.
func (c *Combiner) visitEnumIsTag(in *mir.EnumIsTag) (mir.Instr, Outcome) {
	me, ok := c.fn.DefInstr(in.X).(*mir.MakeEnum)
	if !ok {
		return nil, NoChange
	}
	v := int64(0)
	if me.Case == in.Case {
		v = 1
	}
	c.b.SetInsertBefore(in)
	return c.b.At(in.Location).EmitIntConst(types.TypeI1, v), Replaced
}
