package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// visitPartialApply simplifies closure formation. A capture of zero
// arguments is only a representation change, so it becomes a thin-to-thick
// conversion. A closure whose every use is a strong release never runs; it
// is erased after releasing the captures its callee would have consumed.
func (c *Combiner) visitPartialApply(in *mir.PartialApply) (mir.Instr, Outcome) {
	if len(in.Args) == 0 {
		if fr, ok := c.fn.DefInstr(in.Callee).(*mir.FunctionRef); ok && !fr.Fn.Type.Thick {
			c.b.SetInsertBefore(in)
			return c.b.At(in.Location).EmitThinToThickFunction(in.Callee, in.Type), Replaced
		}
		return nil, NoChange
	}

	fr, ok := c.fn.DefInstr(in.Callee).(*mir.FunctionRef)
	if !ok {
		return nil, NoChange
	}
	uses := c.fn.UsesOf(in.Result)
	if len(uses) != 1 {
		return nil, NoChange
	}
	rel, ok := uses[0].User.(*mir.StrongRelease)
	if !ok {
		return nil, NoChange
	}

	c.log.Debug("erase dead closure", zap.String("callee", fr.Fn.Name))
	c.b.SetInsertBefore(rel)
	c.b.At(rel.Location)
	for i, p := range capturedParams(fr.Fn.Type, len(in.Args)) {
		if p.Consumed {
			c.push(c.b.EmitReleaseValue(in.Args[i]))
		}
	}
	c.erase(rel)
	c.erase(in)
	return nil, NoChange
}

// capturedParams returns the signature suffix a partial application of n
// trailing arguments binds.
func capturedParams(ft *types.FunctionType, n int) []types.ParamInfo {
	if n > len(ft.Params) {
		panic("combine: partial application captures more arguments than the signature has")
	}
	return ft.Params[len(ft.Params)-n:]
}

func (c *Combiner) visitCall(in *mir.Call) (mir.Instr, Outcome) {
	if repl, out := c.devirtualizeThinToThick(in); out != NoChange {
		return repl, out
	}
	if repl, out := c.fuseApplyOfPartialApply(in); out != NoChange {
		return repl, out
	}
	if repl, out := c.foldStringConcat(in); out != NoChange {
		return repl, out
	}
	return c.eraseDeadReadOnlyCall(in)
}

// devirtualizeThinToThick strips a representation-only wrapper off the
// callee: calling the thick closure and calling the thin function it wraps
// are the same invocation.
func (c *Combiner) devirtualizeThinToThick(in *mir.Call) (mir.Instr, Outcome) {
	ttf, ok := c.fn.DefInstr(in.Callee).(*mir.ThinToThickFunction)
	if !ok {
		return nil, NoChange
	}
	c.log.Debug("devirtualize thick call", zap.Uint32("callee", uint32(ttf.X)))
	c.b.SetInsertBefore(in)
	return c.b.At(in.Location).EmitCall(ttf.X, in.Args, in.Type), Replaced
}

// fuseApplyOfPartialApply turns a call of a locally formed closure into a
// direct call with the captured arguments appended. Captures the callee
// consumes are retained first: the direct call consumes them per invocation
// while the closure held only one ownership of each. The closure itself
// loses this use and is released; if that was its last use the dead-closure
// rule finishes the job.
func (c *Combiner) fuseApplyOfPartialApply(in *mir.Call) (mir.Instr, Outcome) {
	pa, ok := c.fn.DefInstr(in.Callee).(*mir.PartialApply)
	if !ok {
		return nil, NoChange
	}
	fr, ok := c.fn.DefInstr(pa.Callee).(*mir.FunctionRef)
	if !ok {
		return nil, NoChange
	}

	c.log.Debug("fuse apply of partial_apply", zap.String("callee", fr.Fn.Name))
	c.b.SetInsertBefore(in)
	c.b.At(in.Location)
	for i, p := range capturedParams(fr.Fn.Type, len(pa.Args)) {
		if p.Consumed {
			c.push(c.b.EmitRetainValue(pa.Args[i]))
		}
	}
	args := make([]mir.ValueID, 0, len(in.Args)+len(pa.Args))
	args = append(args, in.Args...)
	args = append(args, pa.Args...)
	call := c.b.EmitCall(pa.Callee, args, in.Type)
	rel := c.b.EmitStrongRelease(pa.Result)
	c.push(rel)
	return call, Replaced
}

// eraseDeadReadOnlyCall deletes a call without write effects whose result
// feeds nothing but reference counting and debug annotations. Arguments the
// callee consumed are released in its stead.
func (c *Combiner) eraseDeadReadOnlyCall(in *mir.Call) (mir.Instr, Outcome) {
	fr, ok := c.fn.DefInstr(in.Callee).(*mir.FunctionRef)
	if !ok || fr.Fn.Effects > mir.EffectsReadOnly {
		return nil, NoChange
	}
	var users []mir.Instr
	if !c.collectDeadUsers(in.Result, &users) {
		return nil, NoChange
	}

	c.log.Debug("erase dead read-only call", zap.String("callee", fr.Fn.Name))
	for i := len(users) - 1; i >= 0; i-- {
		c.erase(users[i])
	}
	c.b.SetInsertBefore(in)
	c.b.At(in.Location)
	for i, p := range fr.Fn.Type.Params {
		if p.Consumed {
			c.push(c.b.EmitReleaseValue(in.Args[i]))
		}
	}
	c.erase(in)
	return nil, NoChange
}

// collectDeadUsers gathers the transitive users of id in def-before-use
// order, accepting only reference counting, debug annotations and field
// projections (whose own users must qualify in turn). Reports false on the
// first user that keeps the value alive.
func (c *Combiner) collectDeadUsers(id mir.ValueID, users *[]mir.Instr) bool {
	for _, u := range c.fn.UsesOf(id) {
		switch v := u.User.(type) {
		case *mir.RetainValue, *mir.ReleaseValue, *mir.StrongRetain, *mir.StrongRelease, *mir.DebugValue:
			*users = append(*users, v.(mir.Instr))
		case *mir.StructExtract:
			*users = append(*users, v)
			if !c.collectDeadUsers(v.Result, users) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
