package mir

import (
	"github.com/mbarnett/miropt/source"
	"github.com/mbarnett/miropt/types"
)

// ValueID identifies a SSA value within a function.
type ValueID uint32

// BlockID identifies a basic block within a function.
type BlockID uint32

const (
	InvalidValue ValueID = 0
	InvalidBlock BlockID = 0
)

// EffectsKind classifies what a function may do to memory. The order is
// significant: rules test against ReadWrite with < comparisons.
type EffectsKind int

const (
	EffectsReadNone EffectsKind = iota
	EffectsReadOnly
	EffectsReadWrite
	EffectsUnknown
)

func (e EffectsKind) String() string {
	switch e {
	case EffectsReadNone:
		return "readnone"
	case EffectsReadOnly:
		return "readonly"
	case EffectsReadWrite:
		return "readwrite"
	default:
		return "unknown"
	}
}

// CallConv is the calling convention of a function definition.
type CallConv int

const (
	// ConvDefault is the native convention; always inlinable.
	ConvDefault CallConv = iota
	// ConvForeign marks externally defined conventions; inlinable only in
	// performance mode.
	ConvForeign
)

// Node is anything that can appear in a block and use values: instructions
// and terminators both satisfy it.
type Node interface {
	Loc() *source.Location
}

// Module is the MIR root for a single compilation unit. It owns the debug
// scope arena and the uniquing tables shared by all Builders of the run.
type Module struct {
	Name      string
	Functions []*Function
	Scopes    *source.ScopeSet

	interner *Interner
	byName   map[string]*Function
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:     name,
		Scopes:   source.NewScopeSet(),
		interner: NewInterner(),
		byName:   make(map[string]*Function),
	}
}

// AddFunction registers fn with the module.
func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
	m.byName[fn.Name] = fn
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	return m.byName[name]
}

// Interner returns the module's uniquing tables.
func (m *Module) Interner() *Interner {
	return m.interner
}

// MarkInlined records that fn's body was cloned into a caller, so its
// definition must outlive provenance records pointing into it.
func (m *Module) MarkInlined(fn *Function) {
	fn.InlinedRefs++
}

// Param describes a block argument value. The entry block's params are the
// function's formal arguments.
type Param struct {
	ID       ValueID
	Name     string
	Type     types.SemType
	Location source.Location
}

// Block is a basic block: zero or more block arguments, an ordered list of
// instructions and exactly one terminator.
type Block struct {
	ID       BlockID
	Name     string
	Params   []Param
	Instrs   []Instr
	Term     Term
	Location source.Location
}

// IndexOf returns the position of instr within the block, or -1.
func (b *Block) IndexOf(instr Instr) int {
	for i, in := range b.Instrs {
		if in == instr {
			return i
		}
	}
	return -1
}

// Function is a typed, SSA-based MIR function.
type Function struct {
	Name         string
	Type         *types.FunctionType
	Effects      EffectsKind
	Convention   CallConv
	Semantics    string // well-known behavior tag, e.g. "string.concat"
	AlwaysInline bool
	Blocks       []*Block
	Scope        source.ScopeID
	Location     source.Location

	// InlinedRefs counts callers this function's body was cloned into.
	InlinedRefs int

	defs    map[ValueID]def
	uses    map[ValueID][]Use
	blockOf map[Node]*Block
	next    ValueID
	nextBlk BlockID
}

// Use is one operand slot reading a value.
type Use struct {
	User Node
	Slot int
}

type def struct {
	instr Instr // nil for block params
	block *Block
	typ   types.SemType
}

// NewFunction creates a function with no blocks.
func NewFunction(name string, typ *types.FunctionType) *Function {
	return &Function{Name: name, Type: typ}
}

// Entry returns the function's entry block, or nil for empty declarations.
func (fn *Function) Entry() *Block {
	if len(fn.Blocks) == 0 {
		return nil
	}
	return fn.Blocks[0]
}

// BlockByID returns the block with the given ID, or nil.
func (fn *Function) BlockByID(id BlockID) *Block {
	for _, b := range fn.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// IsDeclaration reports whether fn has no body.
func (fn *Function) IsDeclaration() bool {
	return len(fn.Blocks) == 0
}
