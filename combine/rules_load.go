package combine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// visitLoad canonicalizes loads in two ways. A load whose consumers are all
// field extractions becomes one field-address-then-load per distinct field,
// which exposes the per-field values for later promotion. A load through an
// address upcast moves the upcast after the load.
func (c *Combiner) visitLoad(in *mir.Load) (mir.Instr, Outcome) {
	if up, ok := c.fn.DefInstr(in.Addr).(*mir.Upcast); ok {
		elem := types.ElemOf(c.fn.TypeOf(up.X))
		if elem != nil {
			c.b.SetInsertBefore(in)
			ld := c.b.At(in.Location).EmitLoad(up.X, elem)
			return c.b.EmitUpcast(ld.Result, in.Type), Replaced
		}
	}

	st, ok := in.Type.(*types.StructType)
	if !ok {
		return nil, NoChange
	}
	uses := c.fn.UsesOf(in.Result)
	if len(uses) == 0 {
		return nil, NoChange
	}
	extracts := make([]*mir.StructExtract, 0, len(uses))
	for _, u := range uses {
		ex, ok := u.User.(*mir.StructExtract)
		if !ok {
			return nil, NoChange
		}
		extracts = append(extracts, ex)
	}

	fields := make([]int, 0, len(extracts))
	seen := make(map[int]bool)
	for _, ex := range extracts {
		if !seen[ex.Field] {
			seen[ex.Field] = true
			fields = append(fields, ex.Field)
		}
	}
	sort.Ints(fields)

	c.log.Debug("split aggregate load", zap.Int("fields", len(fields)))
	c.b.SetInsertBefore(in)
	c.b.At(in.Location)
	loads := make(map[int]mir.ValueID, len(fields))
	for _, f := range fields {
		ft := st.Fields[f].Type
		addr := c.b.EmitStructElementAddr(in.Addr, f, types.NewAddress(ft))
		ld := c.b.EmitLoad(addr.Result, ft)
		c.push(addr)
		c.push(ld)
		loads[f] = ld.Result
	}
	for _, ex := range extracts {
		c.replaceValue(ex.Result, loads[ex.Field])
		c.erase(ex)
	}
	c.erase(in)
	return nil, NoChange
}
