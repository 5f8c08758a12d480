package types

// IsTrivial reports whether values of t own no resources: copying or
// discarding them needs no reference-count traffic.
func IsTrivial(t SemType) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *PrimitiveType:
		return true
	case *ClassType:
		return false
	case *StructType:
		for _, f := range v.Fields {
			if !IsTrivial(f.Type) {
				return false
			}
		}
		return true
	case *EnumType:
		for _, c := range v.Cases {
			if c.Payload != nil && !IsTrivial(c.Payload) {
				return false
			}
		}
		return true
	case *FunctionType:
		return !v.Thick
	case *AddressType:
		// An address is a bare pointer; what it points at is not owned.
		return true
	case *MetatypeType:
		return true
	case *GenericParamType:
		// Unknown layout, assume the worst.
		return false
	default:
		return false
	}
}

// HasReferenceSemantics reports whether values of t are single retainable
// heap references.
func HasReferenceSemantics(t SemType) bool {
	switch v := t.(type) {
	case *ClassType:
		return true
	case *FunctionType:
		return v.Thick
	default:
		return false
	}
}

// HasArchetype reports whether t contains an unresolved generic parameter
// anywhere in its structure.
func HasArchetype(t SemType) bool {
	switch v := t.(type) {
	case nil:
		return false
	case *GenericParamType:
		return true
	case *StructType:
		for _, f := range v.Fields {
			if HasArchetype(f.Type) {
				return true
			}
		}
		return false
	case *EnumType:
		for _, c := range v.Cases {
			if c.Payload != nil && HasArchetype(c.Payload) {
				return true
			}
		}
		return false
	case *AddressType:
		return HasArchetype(v.Elem)
	case *MetatypeType:
		return HasArchetype(v.Instance)
	case *FunctionType:
		for _, p := range v.Params {
			if HasArchetype(p.Type) {
				return true
			}
		}
		return HasArchetype(v.Result)
	default:
		return false
	}
}

// ElemOf returns the pointee of an address type, or nil.
func ElemOf(t SemType) SemType {
	if a, ok := t.(*AddressType); ok {
		return a.Elem
	}
	return nil
}

// IsAddress reports whether t is an address type.
func IsAddress(t SemType) bool {
	_, ok := t.(*AddressType)
	return ok
}
