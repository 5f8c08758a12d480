package types

import (
	"fmt"
	"strings"
)

// SemType is the semantic representation of types flowing through the MIR.
//
// Design principles:
// - Types are immutable after creation
// - SemType equality is structural (deep comparison)
// - All types can be displayed as strings
type SemType interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks structural equality with another type
	Equals(other SemType) bool

	// Size returns the size in bytes (for layout queries)
	// Returns -1 for types without known size (void, unknown)
	Size() int

	// isType is a marker method to prevent external implementation
	isType()
}

// PrimitiveType represents built-in scalar types (i32, bool, rawptr, etc.)
type PrimitiveType struct {
	name TYPE_NAME
	size int
}

func NewPrimitive(name TYPE_NAME) *PrimitiveType {
	return &PrimitiveType{name: name, size: getPrimitiveSize(name)}
}

func (p *PrimitiveType) String() string { return string(p.name) }
func (p *PrimitiveType) Size() int      { return p.size }
func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) Equals(other SemType) bool {
	if o, ok := other.(*PrimitiveType); ok {
		return p.name == o.name
	}
	return false
}

// GetName returns the primitive type name.
func (p *PrimitiveType) GetName() TYPE_NAME {
	return p.name
}

func getPrimitiveSize(name TYPE_NAME) int {
	switch name {
	case TYPE_I1, TYPE_BOOL:
		return 1
	case TYPE_I8, TYPE_U8:
		return 1
	case TYPE_I16, TYPE_U16:
		return 2
	case TYPE_I32, TYPE_U32, TYPE_F32:
		return 4
	case TYPE_I64, TYPE_U64, TYPE_F64, TYPE_RAWPTR:
		return 8
	case TYPE_VOID:
		return 0
	default:
		return -1
	}
}

// ClassType represents a heap-allocated, reference-counted class. Super is
// nil for root classes.
type ClassType struct {
	Name  string
	Super *ClassType
}

func NewClass(name string, super *ClassType) *ClassType {
	return &ClassType{Name: name, Super: super}
}

func (c *ClassType) String() string { return c.Name }
func (c *ClassType) Size() int      { return 8 } // reference
func (c *ClassType) isType()        {}
func (c *ClassType) Equals(other SemType) bool {
	if o, ok := other.(*ClassType); ok {
		return c.Name == o.Name
	}
	return false
}

// IsSuperclassOf reports whether c is a strict ancestor of other.
func (c *ClassType) IsSuperclassOf(other SemType) bool {
	o, ok := other.(*ClassType)
	if !ok {
		return false
	}
	for cur := o.Super; cur != nil; cur = cur.Super {
		if cur.Name == c.Name {
			return true
		}
	}
	return false
}

// StructField is one stored field of a struct.
type StructField struct {
	Name string
	Type SemType
}

// StructType represents struct types
type StructType struct {
	Name   string // Can be empty for anonymous structs
	Fields []StructField
}

func NewStruct(name string, fields []StructField) *StructType {
	return &StructType{Name: name, Fields: fields}
}

func (s *StructType) String() string {
	if s.Name != "" {
		return s.Name
	}
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf(".%s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("struct { %s }", strings.Join(fields, ", "))
}

func (s *StructType) Size() int {
	total := 0
	for _, f := range s.Fields {
		sz := f.Type.Size()
		if sz < 0 {
			return -1
		}
		total += sz
	}
	return total
}

func (s *StructType) isType() {}

func (s *StructType) Equals(other SemType) bool {
	if st, ok := other.(*StructType); ok {
		if s.Name != "" && st.Name != "" {
			return s.Name == st.Name
		}
		if len(s.Fields) != len(st.Fields) {
			return false
		}
		for i := range s.Fields {
			if s.Fields[i].Name != st.Fields[i].Name {
				return false
			}
			if !s.Fields[i].Type.Equals(st.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// EnumCase represents one case of a tagged union. Payload is nil for
// payload-free cases.
type EnumCase struct {
	Name    string
	Payload SemType
}

// EnumType represents tagged unions.
type EnumType struct {
	Name  string
	Cases []EnumCase
}

func NewEnum(name string, cases []EnumCase) *EnumType {
	return &EnumType{Name: name, Cases: cases}
}

func (e *EnumType) String() string { return e.Name }

func (e *EnumType) Size() int {
	// Discriminant + largest payload
	maxSize := 0
	for _, c := range e.Cases {
		if c.Payload != nil {
			if s := c.Payload.Size(); s > maxSize {
				maxSize = s
			}
		}
	}
	return 4 + maxSize
}

func (e *EnumType) isType() {}

func (e *EnumType) Equals(other SemType) bool {
	if o, ok := other.(*EnumType); ok {
		return e.Name == o.Name
	}
	return false
}

// FirstPayloadCase returns the index of the first payload-bearing case, or
// -1 when every case is payload-free.
func (e *EnumType) FirstPayloadCase() int {
	for i, c := range e.Cases {
		if c.Payload != nil {
			return i
		}
	}
	return -1
}

// ParamInfo describes one parameter of a function signature, including its
// ownership convention.
type ParamInfo struct {
	Type     SemType
	Consumed bool // callee takes ownership and must release
	Indirect bool // passed by address
}

// FunctionType represents function signatures. Thick function values carry a
// captured context and have reference semantics; thin ones are bare code
// references.
type FunctionType struct {
	Params []ParamInfo
	Result SemType
	Thick  bool
}

func NewFunction(params []ParamInfo, result SemType) *FunctionType {
	return &FunctionType{Params: params, Result: result}
}

func NewThickFunction(params []ParamInfo, result SemType) *FunctionType {
	return &FunctionType{Params: params, Result: result, Thick: true}
}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type.String()
		if p.Consumed {
			params[i] = "owned " + params[i]
		}
	}
	kind := "fn"
	if f.Thick {
		kind = "closure"
	}
	return fmt.Sprintf("%s(%s) -> %s", kind, strings.Join(params, ", "), formatResult(f.Result))
}

func (f *FunctionType) Size() int { return 8 }
func (f *FunctionType) isType()  {}

func (f *FunctionType) Equals(other SemType) bool {
	o, ok := other.(*FunctionType)
	if !ok || f.Thick != o.Thick || len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].Consumed != o.Params[i].Consumed ||
			f.Params[i].Indirect != o.Params[i].Indirect ||
			!f.Params[i].Type.Equals(o.Params[i].Type) {
			return false
		}
	}
	return resultEquals(f.Result, o.Result)
}

// AddressType is the address of a memory location holding an Elem.
type AddressType struct {
	Elem SemType
}

func NewAddress(elem SemType) *AddressType {
	return &AddressType{Elem: elem}
}

func (a *AddressType) String() string { return "*" + a.Elem.String() }
func (a *AddressType) Size() int      { return 8 }
func (a *AddressType) isType()        {}
func (a *AddressType) Equals(other SemType) bool {
	if o, ok := other.(*AddressType); ok {
		return a.Elem.Equals(o.Elem)
	}
	return false
}

// MetatypeType is the type of a type reference. Thin metatypes are
// zero-sized compile-time constants; thick ones may require runtime
// instantiation.
type MetatypeType struct {
	Instance SemType
	Thin     bool
}

func NewMetatype(instance SemType, thin bool) *MetatypeType {
	return &MetatypeType{Instance: instance, Thin: thin}
}

func (m *MetatypeType) String() string {
	if m.Thin {
		return fmt.Sprintf("@thin %s.Type", m.Instance.String())
	}
	return fmt.Sprintf("@thick %s.Type", m.Instance.String())
}

func (m *MetatypeType) Size() int {
	if m.Thin {
		return 0
	}
	return 8
}

func (m *MetatypeType) isType() {}

func (m *MetatypeType) Equals(other SemType) bool {
	if o, ok := other.(*MetatypeType); ok {
		return m.Thin == o.Thin && m.Instance.Equals(o.Instance)
	}
	return false
}

// GenericParamType is an unresolved generic parameter (archetype). Rules
// that depend on concrete layout must refuse operands containing one.
type GenericParamType struct {
	Name string
}

func NewGenericParam(name string) *GenericParamType {
	return &GenericParamType{Name: name}
}

func (g *GenericParamType) String() string { return g.Name }
func (g *GenericParamType) Size() int      { return -1 }
func (g *GenericParamType) isType()        {}
func (g *GenericParamType) Equals(other SemType) bool {
	if o, ok := other.(*GenericParamType); ok {
		return g.Name == o.Name
	}
	return false
}

func formatResult(t SemType) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

func resultEquals(a, b SemType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
