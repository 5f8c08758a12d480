package mir

import (
	"fmt"

	"github.com/mbarnett/miropt/types"
)

// NewValue allocates a fresh value identifier in fn.
func (fn *Function) NewValue() ValueID {
	fn.next++
	return fn.next
}

// NewBlock creates a block with the given name and appends it to fn. Params
// must carry IDs from NewValue; their defs are registered here.
func (fn *Function) NewBlock(name string, params []Param) *Block {
	fn.ensureIndex()
	fn.nextBlk++
	b := &Block{ID: fn.nextBlk, Name: name, Params: params}
	fn.Blocks = append(fn.Blocks, b)
	for _, p := range params {
		fn.defs[p.ID] = def{block: b, typ: p.Type}
	}
	return b
}

// Reindex rebuilds the def/use index from the block structure. Callers that
// assemble functions by hand must call it before running passes.
func (fn *Function) Reindex() {
	fn.defs = make(map[ValueID]def)
	fn.uses = make(map[ValueID][]Use)
	fn.blockOf = make(map[Node]*Block)
	fn.next = 0
	fn.nextBlk = 0
	for _, b := range fn.Blocks {
		if b.ID > fn.nextBlk {
			fn.nextBlk = b.ID
		}
		for _, p := range b.Params {
			fn.defs[p.ID] = def{block: b, typ: p.Type}
			if p.ID > fn.next {
				fn.next = p.ID
			}
		}
		for _, in := range b.Instrs {
			fn.blockOf[in] = b
			if r := ResultOf(in); r != InvalidValue {
				fn.defs[r] = def{instr: in, block: b, typ: ResultType(in)}
				if r > fn.next {
					fn.next = r
				}
			}
		}
		if b.Term != nil {
			fn.blockOf[b.Term] = b
		}
	}
	for _, b := range fn.Blocks {
		for _, in := range b.Instrs {
			fn.addUses(in)
		}
		if b.Term != nil {
			fn.addUses(b.Term)
		}
	}
}

func (fn *Function) ensureIndex() {
	if fn.defs == nil {
		fn.defs = make(map[ValueID]def)
		fn.uses = make(map[ValueID][]Use)
		fn.blockOf = make(map[Node]*Block)
	}
}

func (fn *Function) addUses(n Node) {
	for slot, op := range Operands(n) {
		if op != InvalidValue {
			fn.uses[op] = append(fn.uses[op], Use{User: n, Slot: slot})
		}
	}
}

func (fn *Function) dropUses(n Node) {
	for _, op := range Operands(n) {
		if op == InvalidValue {
			continue
		}
		us := fn.uses[op]
		kept := us[:0]
		for _, u := range us {
			if u.User != n {
				kept = append(kept, u)
			}
		}
		if len(kept) == 0 {
			delete(fn.uses, op)
		} else {
			fn.uses[op] = kept
		}
	}
}

// TypeOf returns the static type of a value defined in fn.
func (fn *Function) TypeOf(id ValueID) types.SemType {
	return fn.defs[id].typ
}

// DefInstr returns the instruction defining id, or nil when id is a block
// parameter or undefined.
func (fn *Function) DefInstr(id ValueID) Instr {
	return fn.defs[id].instr
}

// DefBlock returns the block that defines id.
func (fn *Function) DefBlock(id ValueID) *Block {
	return fn.defs[id].block
}

// UsesOf returns a snapshot of the operand slots reading id.
func (fn *Function) UsesOf(id ValueID) []Use {
	return append([]Use(nil), fn.uses[id]...)
}

// HasUses reports whether any node reads id.
func (fn *Function) HasUses(id ValueID) bool {
	return len(fn.uses[id]) > 0
}

// BlockOf returns the block holding a linked node, or nil.
func (fn *Function) BlockOf(n Node) *Block {
	return fn.blockOf[n]
}

// IsLinked reports whether n currently appears in a block of fn.
func (fn *Function) IsLinked(n Node) bool {
	_, ok := fn.blockOf[n]
	return ok
}

// InsertInstr links in into b at position idx and registers its definition
// and uses.
func (fn *Function) InsertInstr(b *Block, idx int, in Instr) {
	fn.ensureIndex()
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[idx+1:], b.Instrs[idx:])
	b.Instrs[idx] = in
	fn.blockOf[in] = b
	if r := ResultOf(in); r != InvalidValue {
		fn.defs[r] = def{instr: in, block: b, typ: ResultType(in)}
		if r > fn.next {
			fn.next = r
		}
	}
	fn.addUses(in)
}

// AppendInstr links in at the end of b's instruction list.
func (fn *Function) AppendInstr(b *Block, in Instr) {
	fn.InsertInstr(b, len(b.Instrs), in)
}

// EraseInstr unlinks in from its block. The instruction's result must be
// unused.
func (fn *Function) EraseInstr(in Instr) {
	b := fn.blockOf[in]
	if b == nil {
		panic("mir: erasing unlinked instruction")
	}
	if r := ResultOf(in); r != InvalidValue && len(fn.uses[r]) > 0 {
		panic(fmt.Sprintf("mir: erasing v%d which still has uses", r))
	}
	idx := b.IndexOf(in)
	b.Instrs = append(b.Instrs[:idx], b.Instrs[idx+1:]...)
	fn.dropUses(in)
	if r := ResultOf(in); r != InvalidValue {
		delete(fn.defs, r)
	}
	delete(fn.blockOf, in)
}

// SetTerm installs t as b's terminator, replacing any existing one.
func (fn *Function) SetTerm(b *Block, t Term) {
	fn.ensureIndex()
	if b.Term != nil {
		fn.dropUses(b.Term)
		delete(fn.blockOf, b.Term)
	}
	b.Term = t
	if t != nil {
		fn.blockOf[t] = b
		fn.addUses(t)
	}
}

// NoteOperandsChanged refreshes the use index of a node whose operand
// fields were rewritten in place.
func (fn *Function) NoteOperandsChanged(n Node) {
	old := fn.uses
	// Drop stale entries for n across all values, then re-add.
	for id, us := range old {
		kept := us[:0]
		for _, u := range us {
			if u.User != n {
				kept = append(kept, u)
			}
		}
		if len(kept) == 0 {
			delete(old, id)
		} else {
			old[id] = kept
		}
	}
	fn.addUses(n)
}

// ReplaceAllUses rewrites every read of old to read new instead.
func (fn *Function) ReplaceAllUses(old, new ValueID) {
	for _, u := range fn.uses[old] {
		SetOperand(u.User, u.Slot, new)
		fn.uses[new] = append(fn.uses[new], u)
	}
	delete(fn.uses, old)
}

// SplitBlock moves b's instructions from idx onward, and its terminator,
// into a fresh block. b is left without a terminator; the caller installs
// one. Returns the new block, inserted immediately after b.
func (fn *Function) SplitBlock(b *Block, idx int, name string, params []Param) *Block {
	fn.ensureIndex()
	fn.nextBlk++
	nb := &Block{ID: fn.nextBlk, Name: name, Params: params}
	for _, p := range params {
		fn.defs[p.ID] = def{block: nb, typ: p.Type}
	}
	nb.Instrs = append(nb.Instrs, b.Instrs[idx:]...)
	b.Instrs = b.Instrs[:idx]
	nb.Term = b.Term
	b.Term = nil
	for _, in := range nb.Instrs {
		fn.blockOf[in] = nb
		if r := ResultOf(in); r != InvalidValue {
			d := fn.defs[r]
			d.block = nb
			fn.defs[r] = d
		}
	}
	if nb.Term != nil {
		fn.blockOf[nb.Term] = nb
	}
	pos := fn.blockIndex(b)
	fn.Blocks = append(fn.Blocks, nil)
	copy(fn.Blocks[pos+2:], fn.Blocks[pos+1:])
	fn.Blocks[pos+1] = nb
	return nb
}

// MoveBlockBefore repositions b so it appears immediately before anchor in
// the function's block list.
func (fn *Function) MoveBlockBefore(b, anchor *Block) {
	from := fn.blockIndex(b)
	fn.Blocks = append(fn.Blocks[:from], fn.Blocks[from+1:]...)
	to := fn.blockIndex(anchor)
	fn.Blocks = append(fn.Blocks, nil)
	copy(fn.Blocks[to+1:], fn.Blocks[to:])
	fn.Blocks[to] = b
}

func (fn *Function) blockIndex(b *Block) int {
	for i, blk := range fn.Blocks {
		if blk == b {
			return i
		}
	}
	panic("mir: block not in function")
}
