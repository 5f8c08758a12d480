package mir

import "github.com/mbarnett/miropt/source"

// Term is the block terminator interface. Every block ends in exactly one
// terminator; terminators never appear in Block.Instrs.
type Term interface {
	Node
	mirTerm()
}

// Return leaves the function, optionally carrying a value.
type Return struct {
	Value    ValueID
	HasValue bool
	Location source.Location
}

func (r *Return) mirTerm()              {}
func (r *Return) Loc() *source.Location { return &r.Location }

// AutoreleaseReturn leaves a foreign-convention function, handing the result
// to the caller with a deferred release.
type AutoreleaseReturn struct {
	Value    ValueID
	Location source.Location
}

func (r *AutoreleaseReturn) mirTerm()              {}
func (r *AutoreleaseReturn) Loc() *source.Location { return &r.Location }

// Br jumps unconditionally to Target, passing Args to its block parameters.
type Br struct {
	Target   BlockID
	Args     []ValueID
	Location source.Location
}

func (b *Br) mirTerm()              {}
func (b *Br) Loc() *source.Location { return &b.Location }

// CondBr branches on a boolean condition. Each edge carries its own
// argument list.
type CondBr struct {
	Cond     ValueID
	Then     BlockID
	ThenArgs []ValueID
	Else     BlockID
	ElseArgs []ValueID
	Location source.Location
}

func (b *CondBr) mirTerm()              {}
func (b *CondBr) Loc() *source.Location { return &b.Location }

// Unreachable marks a point control flow can never reach.
type Unreachable struct {
	Location source.Location
}

func (u *Unreachable) mirTerm()              {}
func (u *Unreachable) Loc() *source.Location { return &u.Location }
