package mir

import (
	"strconv"

	"github.com/mbarnett/miropt/source"
	"github.com/mbarnett/miropt/types"
)

// Builder emits instructions into a function at a movable insertion point.
// Passes position it before the instruction they are rewriting so
// replacements land where the original stood.
type Builder struct {
	fn       *Function
	interner *Interner
	block    *Block
	pos      int
	loc      source.Location
}

// NewBuilder creates a builder over fn using the module's uniquing tables.
func NewBuilder(fn *Function, interner *Interner) *Builder {
	fn.ensureIndex()
	return &Builder{fn: fn, interner: interner}
}

// Fn returns the function the builder emits into.
func (b *Builder) Fn() *Function {
	return b.fn
}

// SetInsertionPoint moves the builder to the end of blk's instruction list.
func (b *Builder) SetInsertionPoint(blk *Block) {
	b.block = blk
	b.pos = len(blk.Instrs)
}

// SetInsertBefore moves the builder to just before in.
func (b *Builder) SetInsertBefore(in Instr) {
	blk := b.fn.BlockOf(in)
	if blk == nil {
		panic("mir: insertion point is unlinked")
	}
	b.block = blk
	b.pos = blk.IndexOf(in)
}

// SetInsertAfter moves the builder to just after in.
func (b *Builder) SetInsertAfter(in Instr) {
	b.SetInsertBefore(in)
	b.pos++
}

// At sets the source location stamped on subsequently emitted instructions.
func (b *Builder) At(loc source.Location) *Builder {
	b.loc = loc
	return b
}

func (b *Builder) insert(in Instr) {
	b.fn.InsertInstr(b.block, b.pos, in)
	b.pos++
}

func (b *Builder) EmitConst(typ types.SemType, value string) *Const {
	in := &Const{Result: b.fn.NewValue(), Type: typ, Value: b.interner.Intern(value), Location: b.loc}
	b.insert(in)
	return in
}

// EmitIntConst emits an integer constant of typ.
func (b *Builder) EmitIntConst(typ types.SemType, v int64) *Const {
	return b.EmitConst(typ, strconv.FormatInt(v, 10))
}

func (b *Builder) EmitStringLit(value string, enc StringEncoding) *StringLit {
	in := &StringLit{Result: b.fn.NewValue(), Value: b.interner.Intern(value), Encoding: enc, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitFunctionRef(fn *Function) *FunctionRef {
	in := &FunctionRef{Result: b.fn.NewValue(), Fn: fn, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitThinToThickFunction(x ValueID, typ types.SemType) *ThinToThickFunction {
	in := &ThinToThickFunction{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitMakeStruct(typ types.SemType, fields []ValueID) *MakeStruct {
	in := &MakeStruct{Result: b.fn.NewValue(), Type: typ, Fields: fields, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitStructExtract(base ValueID, field int, typ types.SemType) *StructExtract {
	in := &StructExtract{Result: b.fn.NewValue(), Base: base, Field: field, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitStructElementAddr(base ValueID, field int, typ types.SemType) *StructElementAddr {
	in := &StructElementAddr{Result: b.fn.NewValue(), Base: base, Field: field, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitMakeEnum(typ types.SemType, tag int, payload ValueID, hasPayload bool) *MakeEnum {
	in := &MakeEnum{Result: b.fn.NewValue(), Type: typ, Case: tag, Payload: payload, HasPayload: hasPayload, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitUncheckedEnumData(x ValueID, tag int, typ types.SemType) *UncheckedEnumData {
	in := &UncheckedEnumData{Result: b.fn.NewValue(), X: x, Case: tag, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitEnumIsTag(x ValueID, tag int) *EnumIsTag {
	in := &EnumIsTag{Result: b.fn.NewValue(), X: x, Case: tag, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitLoad(addr ValueID, typ types.SemType) *Load {
	in := &Load{Result: b.fn.NewValue(), Addr: addr, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitStore(addr, value ValueID) *Store {
	in := &Store{Addr: addr, Value: value, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitUpcast(x ValueID, typ types.SemType) *Upcast {
	in := &Upcast{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitRefCast(x ValueID, typ types.SemType) *RefCast {
	in := &RefCast{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitRefBitCast(x ValueID, typ types.SemType) *RefBitCast {
	in := &RefBitCast{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitTrivialBitCast(x ValueID, typ types.SemType) *TrivialBitCast {
	in := &TrivialBitCast{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitAddrCast(x ValueID, typ types.SemType) *AddrCast {
	in := &AddrCast{Result: b.fn.NewValue(), X: x, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitCall(callee ValueID, args []ValueID, typ types.SemType) *Call {
	in := &Call{Result: b.fn.NewValue(), Callee: callee, Args: args, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitBuiltin(op BuiltinOp, args []ValueID, typ types.SemType) *Builtin {
	if n := op.Arity(); n >= 0 && n != len(args) {
		panic("mir: builtin " + op.String() + " arity mismatch")
	}
	in := &Builtin{Result: b.fn.NewValue(), Op: op, Args: args, Type: typ, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitRetainValue(x ValueID) *RetainValue {
	in := &RetainValue{X: x, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitReleaseValue(x ValueID) *ReleaseValue {
	in := &ReleaseValue{X: x, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitStrongRetain(x ValueID) *StrongRetain {
	in := &StrongRetain{X: x, Location: b.loc}
	b.insert(in)
	return in
}

func (b *Builder) EmitStrongRelease(x ValueID) *StrongRelease {
	in := &StrongRelease{X: x, Location: b.loc}
	b.insert(in)
	return in
}
