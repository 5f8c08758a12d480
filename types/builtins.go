package types

type TYPE_NAME string

const (
	TYPE_I1     TYPE_NAME = "i1"
	TYPE_I8     TYPE_NAME = "i8"
	TYPE_I16    TYPE_NAME = "i16"
	TYPE_I32    TYPE_NAME = "i32"
	TYPE_I64    TYPE_NAME = "i64"
	TYPE_U8     TYPE_NAME = "u8"
	TYPE_U16    TYPE_NAME = "u16"
	TYPE_U32    TYPE_NAME = "u32"
	TYPE_U64    TYPE_NAME = "u64"
	TYPE_F32    TYPE_NAME = "f32"
	TYPE_F64    TYPE_NAME = "f64"
	TYPE_BOOL   TYPE_NAME = "bool"
	TYPE_RAWPTR TYPE_NAME = "rawptr"
	TYPE_VOID   TYPE_NAME = "void"

	TYPE_UNKNOWN TYPE_NAME = "unknown"
)

// Commonly used types (initialized in init())
var (
	TypeI1      SemType
	TypeI8      SemType
	TypeI16     SemType
	TypeI32     SemType
	TypeI64     SemType
	TypeU8      SemType
	TypeU16     SemType
	TypeU32     SemType
	TypeU64     SemType
	TypeF32     SemType
	TypeF64     SemType
	TypeBool    SemType
	TypeRawPtr  SemType
	TypeVoid    SemType
	TypeUnknown SemType
)

func init() {
	TypeI1 = NewPrimitive(TYPE_I1)
	TypeI8 = NewPrimitive(TYPE_I8)
	TypeI16 = NewPrimitive(TYPE_I16)
	TypeI32 = NewPrimitive(TYPE_I32)
	TypeI64 = NewPrimitive(TYPE_I64)
	TypeU8 = NewPrimitive(TYPE_U8)
	TypeU16 = NewPrimitive(TYPE_U16)
	TypeU32 = NewPrimitive(TYPE_U32)
	TypeU64 = NewPrimitive(TYPE_U64)
	TypeF32 = NewPrimitive(TYPE_F32)
	TypeF64 = NewPrimitive(TYPE_F64)
	TypeBool = NewPrimitive(TYPE_BOOL)
	TypeRawPtr = NewPrimitive(TYPE_RAWPTR)
	TypeVoid = NewPrimitive(TYPE_VOID)
	TypeUnknown = NewPrimitive(TYPE_UNKNOWN)
}
