// Package inline performs one-level expansion of a single call site: the
// callee's control-flow graph is cloned into the caller, entry parameters
// bound to the call's arguments. Whether inlining is profitable is the
// caller's decision; the cost model here only prices it.
package inline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/source"
)

// Mode selects how inlining treats debug provenance and which calling
// conventions are legal targets.
type Mode int

const (
	// ModeMandatory preserves debuggability: every cloned instruction
	// inherits the call site's provenance verbatim, and debug annotations
	// are dropped rather than duplicated.
	ModeMandatory Mode = iota
	// ModePerformance creates a fresh scope chain parented at the call
	// site, so inlined code stays distinguishable from native code. It also
	// permits inlining foreign-convention callees.
	ModePerformance
)

// Inliner expands call sites one at a time. The value, block and scope maps
// are scoped to a single Inline call.
type Inliner struct {
	mod  *mir.Module
	mode Mode
	log  *zap.Logger

	valueMap   map[mir.ValueID]mir.ValueID
	blockMap   map[mir.BlockID]mir.BlockID
	scopeCache map[source.ScopeID]source.ScopeID
	callLoc    source.Location
}

// New creates an inliner for mod. A nil logger disables logging.
func New(mod *mir.Module, mode Mode, log *zap.Logger) *Inliner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inliner{mod: mod, mode: mode, log: log}
}

// Inline splices callee's body over call, binding its entry parameters to
// args. Reports false, leaving the caller untouched, when any legality
// check fails.
func (il *Inliner) Inline(caller *mir.Function, call *mir.Call, callee *mir.Function, args []mir.ValueID) bool {
	if caller == callee {
		return false
	}
	if callee.Convention == mir.ConvForeign && il.mode != ModePerformance {
		return false
	}
	entry := callee.Entry()
	if entry == nil || len(entry.Params) != len(args) {
		return false
	}

	il.log.Debug("inlining",
		zap.String("caller", caller.Name),
		zap.String("callee", callee.Name),
		zap.Int("blocks", len(callee.Blocks)))

	il.valueMap = make(map[mir.ValueID]mir.ValueID)
	il.blockMap = make(map[mir.BlockID]mir.BlockID)
	il.scopeCache = make(map[source.ScopeID]source.ScopeID)
	il.callLoc = call.Location

	il.mod.MarkInlined(callee)

	for i, p := range entry.Params {
		il.valueMap[p.ID] = args[i]
	}

	callerBlk := caller.BlockOf(call)
	at := callerBlk.IndexOf(call)
	for _, in := range entry.Instrs {
		if clone := il.cloneInstr(caller, callee, in); clone != nil {
			caller.InsertInstr(callerBlk, at, clone)
			at++
		}
	}

	// Fast path: a straight-line callee needs no CFG surgery.
	if ret, ok := entry.Term.(*mir.Return); ok {
		repl := mir.InvalidValue
		if ret.HasValue {
			repl = il.mapValue(ret.Value)
		}
		caller.ReplaceAllUses(call.Result, repl)
		caller.EraseInstr(call)
		return true
	}

	// General path: split the caller's block after the call; the
	// continuation inherits the tail and takes the call's former result as
	// a block argument.
	cont := caller.SplitBlock(callerBlk, at+1, "inlined.cont", []mir.Param{{
		ID:       caller.NewValue(),
		Name:     "result",
		Type:     call.Type,
		Location: call.Location,
	}})
	caller.ReplaceAllUses(call.Result, cont.Params[0].ID)
	caller.EraseInstr(call)

	for _, b := range callee.Blocks[1:] {
		params := make([]mir.Param, len(b.Params))
		for i, p := range b.Params {
			id := caller.NewValue()
			il.valueMap[p.ID] = id
			params[i] = mir.Param{ID: id, Name: p.Name, Type: p.Type, Location: il.mapLoc(callee, p.Location)}
		}
		nb := caller.NewBlock(b.Name, params)
		il.blockMap[b.ID] = nb.ID
	}
	// Map every result up front. Layout order is not dominance order, so a
	// block may read a value whose defining block is filled later.
	for _, b := range callee.Blocks[1:] {
		for _, in := range b.Instrs {
			if old := mir.ResultOf(in); old != mir.InvalidValue {
				il.valueMap[old] = caller.NewValue()
			}
		}
	}

	caller.SetTerm(callerBlk, il.cloneTerm(caller, callee, entry.Term, cont.ID))
	for _, b := range callee.Blocks[1:] {
		nb := caller.BlockByID(il.blockMap[b.ID])
		for _, in := range b.Instrs {
			if clone := il.cloneInstr(caller, callee, in); clone != nil {
				caller.AppendInstr(nb, clone)
			}
		}
		caller.SetTerm(nb, il.cloneTerm(caller, callee, b.Term, cont.ID))
	}
	// Keep the spliced body between the call block and its continuation.
	for _, b := range callee.Blocks[1:] {
		caller.MoveBlockBefore(caller.BlockByID(il.blockMap[b.ID]), cont)
	}
	return true
}

func (il *Inliner) mapValue(id mir.ValueID) mir.ValueID {
	if id == mir.InvalidValue {
		return id
	}
	if m, ok := il.valueMap[id]; ok {
		return m
	}
	// Values not in the map are caller values threaded through by the
	// argument binding.
	return id
}

// cloneInstr copies one callee instruction into caller, remapping operands
// and allocating a fresh result. Debug annotations are not cloned in
// mandatory mode. Returns nil when the instruction is dropped.
func (il *Inliner) cloneInstr(caller, callee *mir.Function, in mir.Instr) mir.Instr {
	if _, ok := in.(*mir.DebugValue); ok && il.mode == ModeMandatory {
		return nil
	}
	result := mir.InvalidValue
	if old := mir.ResultOf(in); old != mir.InvalidValue {
		if m, ok := il.valueMap[old]; ok {
			result = m
		} else {
			result = caller.NewValue()
			il.valueMap[old] = result
		}
	}
	clone := mir.CloneInstr(in, result, il.mapValue)
	*clone.Loc() = il.mapLoc(callee, *in.Loc())
	return clone
}

func (il *Inliner) cloneTerm(caller, callee *mir.Function, t mir.Term, cont mir.BlockID) mir.Term {
	switch v := t.(type) {
	case *mir.Return:
		args := []mir.ValueID{mir.InvalidValue}
		if v.HasValue {
			args[0] = il.mapValue(v.Value)
		}
		return &mir.Br{Target: cont, Args: args, Location: il.mapLoc(callee, v.Location)}
	case *mir.AutoreleaseReturn:
		if callee.Convention != mir.ConvForeign {
			panic(fmt.Sprintf("inline: autorelease return in non-foreign function %s", callee.Name))
		}
		return &mir.Br{Target: cont, Args: []mir.ValueID{il.mapValue(v.Value)}, Location: il.mapLoc(callee, v.Location)}
	default:
		clone := mir.CloneTerm(t, il.mapValue, func(id mir.BlockID) mir.BlockID {
			m, ok := il.blockMap[id]
			if !ok {
				panic(fmt.Sprintf("inline: branch to unmapped block b%d", id))
			}
			return m
		})
		*clone.Loc() = il.mapLoc(callee, *t.Loc())
		return clone
	}
}

// mapLoc rewrites a cloned node's provenance. In mandatory mode the clone
// carries the call site's location verbatim; in performance mode it keeps
// its own position under a scope chain re-rooted at the call site.
func (il *Inliner) mapLoc(callee *mir.Function, loc source.Location) source.Location {
	if il.mode == ModeMandatory {
		return il.callLoc
	}
	return loc.WithScope(il.mapScope(callee, loc.Scope))
}

func (il *Inliner) mapScope(callee *mir.Function, s source.ScopeID) source.ScopeID {
	if s == source.InvalidScope {
		s = callee.Scope
	}
	if s == source.InvalidScope {
		return il.callLoc.Scope
	}
	if m, ok := il.scopeCache[s]; ok {
		return m
	}
	orig := il.mod.Scopes.Get(s)
	parent := source.InvalidScope
	if orig.Parent != source.InvalidScope {
		parent = il.mapScope(callee, orig.Parent)
	}
	m := il.mod.Scopes.NewInlined(parent, il.callLoc.Scope, orig.Function)
	il.scopeCache[s] = m
	return m
}
