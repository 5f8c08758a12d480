// Package combine implements the worklist-driven instruction combiner: a
// fixed-point peephole rewriter over MIR. Rules are local patterns keyed on
// instruction kind; each either commits a full rewrite or leaves the graph
// untouched.
package combine

import (
	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
)

// Outcome is what a rule reports back to the worklist loop.
type Outcome int

const (
	// NoChange means the rule's precondition did not hold. Rules that
	// rewrite through the combiner helpers also report NoChange; the
	// helpers record the change themselves.
	NoChange Outcome = iota
	// Replaced means the rule built a replacement instruction whose result
	// supersedes the visited one.
	Replaced
	// MutatedInPlace means the rule rewrote the visited node's own
	// operands; the same node is re-queued.
	MutatedInPlace
)

// Options controls optional combiner behavior.
type Options struct {
	// RemoveRuntimeAsserts erases every cond_fail, not only provably dead
	// ones.
	RemoveRuntimeAsserts bool
}

// Combiner rewrites one function to a fixed point.
type Combiner struct {
	mod  *mir.Module
	fn   *mir.Function
	b    *mir.Builder
	opts Options
	log  *zap.Logger

	queue   []mir.Node
	inQueue map[mir.Node]bool
	changed bool
}

// New creates a combiner for fn. A nil logger disables logging.
func New(mod *mir.Module, fn *mir.Function, opts Options, log *zap.Logger) *Combiner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Combiner{
		mod:     mod,
		fn:      fn,
		b:       mir.NewBuilder(fn, mod.Interner()),
		opts:    opts,
		log:     log.With(zap.String("fn", fn.Name)),
		inQueue: make(map[mir.Node]bool),
	}
}

// Run rewrites the function until no rule fires. Reports whether anything
// changed.
func (c *Combiner) Run() bool {
	for _, blk := range c.fn.Blocks {
		for _, in := range blk.Instrs {
			c.push(in)
		}
		if blk.Term != nil {
			c.push(blk.Term)
		}
	}

	for len(c.queue) > 0 {
		n := c.queue[0]
		c.queue = c.queue[1:]
		delete(c.inQueue, n)

		// Erased by an earlier rewrite.
		if !c.fn.IsLinked(n) {
			continue
		}

		repl, out := c.visit(n)
		switch out {
		case NoChange:
			// Helpers may still have recorded a change.
		case Replaced:
			old := n.(mir.Instr)
			c.log.Debug("replaced", zap.Uint32("value", uint32(mir.ResultOf(old))))
			c.replaceValue(mir.ResultOf(old), mir.ResultOf(repl))
			c.erase(old)
			c.push(repl)
		case MutatedInPlace:
			c.fn.NoteOperandsChanged(n)
			c.changed = true
			c.push(n)
			if in, ok := n.(mir.Instr); ok {
				c.pushUsersOf(mir.ResultOf(in))
			}
		}
	}
	return c.changed
}

func (c *Combiner) visit(n mir.Node) (mir.Instr, Outcome) {
	switch v := n.(type) {
	case *mir.StructExtract:
		return c.visitStructExtract(v)
	case *mir.UncheckedEnumData:
		return c.visitUncheckedEnumData(v)
	case *mir.Load:
		return c.visitLoad(v)
	case *mir.Upcast:
		return c.visitUpcast(v)
	case *mir.RefCast:
		return c.visitRefCast(v)
	case *mir.RefBitCast:
		return c.visitRefBitCast(v)
	case *mir.TrivialBitCast:
		return c.visitTrivialBitCast(v)
	case *mir.AddrCast:
		return c.visitAddrCast(v)
	case *mir.StrongRetain:
		return c.visitStrongRetain(v)
	case *mir.StrongRelease:
		return c.visitStrongRelease(v)
	case *mir.RetainValue:
		return c.visitRetainValue(v)
	case *mir.ReleaseValue:
		return c.visitReleaseValue(v)
	case *mir.PartialApply:
		return c.visitPartialApply(v)
	case *mir.Call:
		return c.visitCall(v)
	case *mir.Builtin:
		return c.visitBuiltin(v)
	case *mir.CondFail:
		return c.visitCondFail(v)
	case *mir.InjectEnumAddr:
		return c.visitInjectEnumAddr(v)
	case *mir.EnumIsTag:
		return c.visitEnumIsTag(v)
	case *mir.CondBr:
		return c.visitCondBr(v)
	default:
		return nil, NoChange
	}
}

func (c *Combiner) push(n mir.Node) {
	if c.inQueue[n] {
		return
	}
	c.inQueue[n] = true
	c.queue = append(c.queue, n)
}

func (c *Combiner) pushUsersOf(id mir.ValueID) {
	if id == mir.InvalidValue {
		return
	}
	for _, u := range c.fn.UsesOf(id) {
		c.push(u.User)
	}
}

// erase unlinks in and records the change. The instruction's result must be
// unused.
func (c *Combiner) erase(in mir.Instr) {
	ops := mir.Operands(in)
	c.fn.EraseInstr(in)
	c.changed = true
	// Operand definitions may have lost their last use.
	for _, op := range ops {
		if d := c.fn.DefInstr(op); d != nil {
			c.push(d)
		}
	}
}

// replaceValue rewires every read of old to new and re-queues the readers.
func (c *Combiner) replaceValue(old, new mir.ValueID) {
	if old == mir.InvalidValue {
		return
	}
	c.fn.ReplaceAllUses(old, new)
	c.changed = true
	c.pushUsersOf(new)
}
