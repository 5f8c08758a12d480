package mir

import (
	"unicode/utf16"

	"github.com/mbarnett/miropt/source"
	"github.com/mbarnett/miropt/types"
)

// Instr is the base interface for MIR instructions. Instructions are created
// through a Builder and destroyed through Function.EraseInstr; they are
// never shared between blocks.
type Instr interface {
	Node
	mirInstr()
}

// Const defines a typed integer-like constant value. The payload is the
// decimal spelling of the value.
type Const struct {
	Result   ValueID
	Type     types.SemType
	Value    string
	Location source.Location
}

func (c *Const) mirInstr()             {}
func (c *Const) Loc() *source.Location { return &c.Location }

// StringEncoding selects the code-unit encoding of a string literal.
type StringEncoding uint8

const (
	EncodingUTF8 StringEncoding = iota
	EncodingUTF16
)

func (e StringEncoding) String() string {
	if e == EncodingUTF16 {
		return "utf16"
	}
	return "utf8"
}

// StringLit defines a string literal constant. The result is a raw pointer
// to the encoded code units.
type StringLit struct {
	Result   ValueID
	Value    string
	Encoding StringEncoding
	Location source.Location
}

func (s *StringLit) mirInstr()             {}
func (s *StringLit) Loc() *source.Location { return &s.Location }

// CodeUnitCount returns the literal's length in code units of its encoding.
func (s *StringLit) CodeUnitCount() int {
	if s.Encoding == EncodingUTF16 {
		return len(utf16.Encode([]rune(s.Value)))
	}
	return len(s.Value)
}

// IsAscii reports whether every byte of the literal is seven-bit clean.
func (s *StringLit) IsAscii() bool {
	for i := 0; i < len(s.Value); i++ {
		if s.Value[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FunctionRef produces a reference to a statically known function.
type FunctionRef struct {
	Result   ValueID
	Fn       *Function
	Location source.Location
}

func (f *FunctionRef) mirInstr()             {}
func (f *FunctionRef) Loc() *source.Location { return &f.Location }

// Metatype produces a reference to a type.
type Metatype struct {
	Result   ValueID
	Type     *types.MetatypeType
	Location source.Location
}

func (m *Metatype) mirInstr()             {}
func (m *Metatype) Loc() *source.Location { return &m.Location }

// ValueMetatype queries the dynamic type of a value at runtime.
type ValueMetatype struct {
	Result   ValueID
	X        ValueID
	Type     *types.MetatypeType
	Location source.Location
}

func (v *ValueMetatype) mirInstr()             {}
func (v *ValueMetatype) Loc() *source.Location { return &v.Location }

// ThinToThickFunction wraps a bare function reference into a closure value
// with an empty context.
type ThinToThickFunction struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (t *ThinToThickFunction) mirInstr()             {}
func (t *ThinToThickFunction) Loc() *source.Location { return &t.Location }

// MakeStruct constructs a struct value.
type MakeStruct struct {
	Result   ValueID
	Type     types.SemType
	Fields   []ValueID
	Location source.Location
}

func (m *MakeStruct) mirInstr()             {}
func (m *MakeStruct) Loc() *source.Location { return &m.Location }

// StructExtract reads a stored field from a struct value.
type StructExtract struct {
	Result   ValueID
	Base     ValueID
	Field    int
	Type     types.SemType
	Location source.Location
}

func (e *StructExtract) mirInstr()             {}
func (e *StructExtract) Loc() *source.Location { return &e.Location }

// StructElementAddr computes the address of a stored field from the address
// of a struct.
type StructElementAddr struct {
	Result   ValueID
	Base     ValueID
	Field    int
	Type     types.SemType // address of the field type
	Location source.Location
}

func (e *StructElementAddr) mirInstr()             {}
func (e *StructElementAddr) Loc() *source.Location { return &e.Location }

// MakeEnum constructs a tagged-union value, with an optional payload.
type MakeEnum struct {
	Result     ValueID
	Type       types.SemType
	Case       int
	Payload    ValueID
	HasPayload bool
	Location   source.Location
}

func (m *MakeEnum) mirInstr()             {}
func (m *MakeEnum) Loc() *source.Location { return &m.Location }

// UncheckedEnumData extracts the payload of a known case without checking
// the tag.
type UncheckedEnumData struct {
	Result   ValueID
	X        ValueID
	Case     int
	Type     types.SemType
	Location source.Location
}

func (u *UncheckedEnumData) mirInstr()             {}
func (u *UncheckedEnumData) Loc() *source.Location { return &u.Location }

// InitEnumDataAddr projects the payload area of an enum allocation so it can
// be initialized in place before the tag is injected.
type InitEnumDataAddr struct {
	Result   ValueID
	Addr     ValueID
	Case     int
	Type     types.SemType // address of the payload type
	Location source.Location
}

func (i *InitEnumDataAddr) mirInstr()             {}
func (i *InitEnumDataAddr) Loc() *source.Location { return &i.Location }

// InjectEnumAddr writes the tag of the given case into an enum allocation.
type InjectEnumAddr struct {
	Addr     ValueID
	Case     int
	Location source.Location
}

func (i *InjectEnumAddr) mirInstr()             {}
func (i *InjectEnumAddr) Loc() *source.Location { return &i.Location }

// EnumIsTag tests whether a union value carries the given case.
type EnumIsTag struct {
	Result   ValueID
	X        ValueID
	Case     int
	Location source.Location
}

func (e *EnumIsTag) mirInstr()             {}
func (e *EnumIsTag) Loc() *source.Location { return &e.Location }

// AllocStack reserves stack storage for a value of Type; the result is the
// storage address.
type AllocStack struct {
	Result   ValueID
	Type     types.SemType
	Location source.Location
}

func (a *AllocStack) mirInstr()             {}
func (a *AllocStack) Loc() *source.Location { return &a.Location }

// DeallocStack releases storage produced by AllocStack.
type DeallocStack struct {
	Addr     ValueID
	Location source.Location
}

func (d *DeallocStack) mirInstr()             {}
func (d *DeallocStack) Loc() *source.Location { return &d.Location }

// AllocRef allocates a class instance on the heap.
type AllocRef struct {
	Result   ValueID
	Type     *types.ClassType
	Location source.Location
}

func (a *AllocRef) mirInstr()             {}
func (a *AllocRef) Loc() *source.Location { return &a.Location }

// Load reads a value from an address.
type Load struct {
	Result   ValueID
	Addr     ValueID
	Type     types.SemType
	Location source.Location
}

func (l *Load) mirInstr()             {}
func (l *Load) Loc() *source.Location { return &l.Location }

// Store writes a value to an address.
type Store struct {
	Addr     ValueID
	Value    ValueID
	Location source.Location
}

func (s *Store) mirInstr()             {}
func (s *Store) Loc() *source.Location { return &s.Location }

// DestroyAddr releases whatever the address currently holds.
type DestroyAddr struct {
	Addr     ValueID
	Location source.Location
}

func (d *DestroyAddr) mirInstr()             {}
func (d *DestroyAddr) Loc() *source.Location { return &d.Location }

// Upcast converts a class reference to one of its superclasses. The bits are
// unchanged; the conversion is statically checked.
type Upcast struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (u *Upcast) mirInstr()             {}
func (u *Upcast) Loc() *source.Location { return &u.Location }

// RefCast reinterprets one reference type as another without changing bits.
type RefCast struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (r *RefCast) mirInstr()             {}
func (r *RefCast) Loc() *source.Location { return &r.Location }

// RefBitCast reinterprets a value as a layout-compatible reference-holding
// type.
type RefBitCast struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (r *RefBitCast) mirInstr()             {}
func (r *RefBitCast) Loc() *source.Location { return &r.Location }

// TrivialBitCast reinterprets a value as a layout-compatible trivial type.
type TrivialBitCast struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (t *TrivialBitCast) mirInstr()             {}
func (t *TrivialBitCast) Loc() *source.Location { return &t.Location }

// AddrCast reinterprets an address as an address of a layout-compatible
// type.
type AddrCast struct {
	Result   ValueID
	X        ValueID
	Type     types.SemType
	Location source.Location
}

func (a *AddrCast) mirInstr()             {}
func (a *AddrCast) Loc() *source.Location { return &a.Location }

// Call applies a callee value to an argument list.
type Call struct {
	Result   ValueID
	Callee   ValueID
	Args     []ValueID
	Type     types.SemType
	Location source.Location
}

func (c *Call) mirInstr()             {}
func (c *Call) Loc() *source.Location { return &c.Location }

// PartialApply captures a suffix of a callee's arguments, producing a
// closure over the remaining parameters.
type PartialApply struct {
	Result   ValueID
	Callee   ValueID
	Args     []ValueID
	Type     *types.FunctionType
	Location source.Location
}

func (p *PartialApply) mirInstr()             {}
func (p *PartialApply) Loc() *source.Location { return &p.Location }

// BuiltinOp names a compiler intrinsic with a fixed signature.
type BuiltinOp int

const (
	BuiltinEq BuiltinOp = iota
	BuiltinNe
	BuiltinSub
	BuiltinMul
	BuiltinStride
	BuiltinXor
	BuiltinPtrToInt
)

func (op BuiltinOp) String() string {
	switch op {
	case BuiltinEq:
		return "eq"
	case BuiltinNe:
		return "ne"
	case BuiltinSub:
		return "sub"
	case BuiltinMul:
		return "mul"
	case BuiltinStride:
		return "stride"
	case BuiltinXor:
		return "xor"
	case BuiltinPtrToInt:
		return "ptrtoint"
	default:
		return "builtin?"
	}
}

// Arity returns the operand count op requires.
func (op BuiltinOp) Arity() int {
	switch op {
	case BuiltinEq, BuiltinNe, BuiltinSub, BuiltinMul, BuiltinXor:
		return 2
	case BuiltinStride, BuiltinPtrToInt:
		return 1
	default:
		return -1
	}
}

// Builtin applies a compiler intrinsic.
type Builtin struct {
	Result   ValueID
	Op       BuiltinOp
	Args     []ValueID
	Type     types.SemType
	Location source.Location
}

func (b *Builtin) mirInstr()             {}
func (b *Builtin) Loc() *source.Location { return &b.Location }

// ClassMethod looks up a method implementation through a value's dynamic
// type.
type ClassMethod struct {
	Result   ValueID
	X        ValueID
	Method   string
	Type     *types.FunctionType
	Location source.Location
}

func (c *ClassMethod) mirInstr()             {}
func (c *ClassMethod) Loc() *source.Location { return &c.Location }

// CondFail aborts execution when its operand is nonzero. Used for overflow
// and bounds checks.
type CondFail struct {
	Cond     ValueID
	Location source.Location
}

func (c *CondFail) mirInstr()             {}
func (c *CondFail) Loc() *source.Location { return &c.Location }

// RetainValue increments ownership of a value of any type.
type RetainValue struct {
	X        ValueID
	Location source.Location
}

func (r *RetainValue) mirInstr()             {}
func (r *RetainValue) Loc() *source.Location { return &r.Location }

// ReleaseValue decrements ownership of a value of any type.
type ReleaseValue struct {
	X        ValueID
	Location source.Location
}

func (r *ReleaseValue) mirInstr()             {}
func (r *ReleaseValue) Loc() *source.Location { return &r.Location }

// StrongRetain increments the reference count of a single heap reference.
type StrongRetain struct {
	X        ValueID
	Location source.Location
}

func (s *StrongRetain) mirInstr()             {}
func (s *StrongRetain) Loc() *source.Location { return &s.Location }

// StrongRelease decrements the reference count of a single heap reference.
type StrongRelease struct {
	X        ValueID
	Location source.Location
}

func (s *StrongRelease) mirInstr()             {}
func (s *StrongRelease) Loc() *source.Location { return &s.Location }

// DebugValue records the current value of a source variable for debug info.
type DebugValue struct {
	X        ValueID
	Name     string
	Location source.Location
}

func (d *DebugValue) mirInstr()             {}
func (d *DebugValue) Loc() *source.Location { return &d.Location }
