package mir

import "fmt"

// CloneInstr deep-copies an instruction, remapping every operand through
// mapv and giving the copy the result id passed in (InvalidValue for
// instructions without a result). The location is copied verbatim; callers
// overwrite it through Loc when cloning across functions.
func CloneInstr(in Instr, result ValueID, mapv func(ValueID) ValueID) Instr {
	c := copyInstr(in)
	for slot, op := range Operands(c) {
		SetOperand(c, slot, mapv(op))
	}
	setResult(c, result)
	return c
}

// CloneTerm deep-copies a terminator, remapping operands through mapv and
// successor blocks through mapb.
func CloneTerm(t Term, mapv func(ValueID) ValueID, mapb func(BlockID) BlockID) Term {
	switch v := t.(type) {
	case *Return:
		c := *v
		if c.HasValue {
			c.Value = mapv(c.Value)
		}
		return &c
	case *AutoreleaseReturn:
		c := *v
		c.Value = mapv(c.Value)
		return &c
	case *Br:
		c := *v
		c.Target = mapb(c.Target)
		c.Args = remapAll(c.Args, mapv)
		return &c
	case *CondBr:
		c := *v
		c.Cond = mapv(c.Cond)
		c.Then = mapb(c.Then)
		c.ThenArgs = remapAll(c.ThenArgs, mapv)
		c.Else = mapb(c.Else)
		c.ElseArgs = remapAll(c.ElseArgs, mapv)
		return &c
	case *Unreachable:
		c := *v
		return &c
	default:
		panic(fmt.Sprintf("mir: unknown terminator %T", t))
	}
}

func remapAll(ids []ValueID, mapv func(ValueID) ValueID) []ValueID {
	out := make([]ValueID, len(ids))
	for i, id := range ids {
		out[i] = mapv(id)
	}
	return out
}

func copyInstr(in Instr) Instr {
	switch v := in.(type) {
	case *Const:
		c := *v
		return &c
	case *StringLit:
		c := *v
		return &c
	case *FunctionRef:
		c := *v
		return &c
	case *Metatype:
		c := *v
		return &c
	case *ValueMetatype:
		c := *v
		return &c
	case *ThinToThickFunction:
		c := *v
		return &c
	case *MakeStruct:
		c := *v
		c.Fields = append([]ValueID(nil), v.Fields...)
		return &c
	case *StructExtract:
		c := *v
		return &c
	case *StructElementAddr:
		c := *v
		return &c
	case *MakeEnum:
		c := *v
		return &c
	case *UncheckedEnumData:
		c := *v
		return &c
	case *InitEnumDataAddr:
		c := *v
		return &c
	case *InjectEnumAddr:
		c := *v
		return &c
	case *EnumIsTag:
		c := *v
		return &c
	case *AllocStack:
		c := *v
		return &c
	case *DeallocStack:
		c := *v
		return &c
	case *AllocRef:
		c := *v
		return &c
	case *Load:
		c := *v
		return &c
	case *Store:
		c := *v
		return &c
	case *DestroyAddr:
		c := *v
		return &c
	case *Upcast:
		c := *v
		return &c
	case *RefCast:
		c := *v
		return &c
	case *RefBitCast:
		c := *v
		return &c
	case *TrivialBitCast:
		c := *v
		return &c
	case *AddrCast:
		c := *v
		return &c
	case *Call:
		c := *v
		c.Args = append([]ValueID(nil), v.Args...)
		return &c
	case *PartialApply:
		c := *v
		c.Args = append([]ValueID(nil), v.Args...)
		return &c
	case *Builtin:
		c := *v
		c.Args = append([]ValueID(nil), v.Args...)
		return &c
	case *ClassMethod:
		c := *v
		return &c
	case *CondFail:
		c := *v
		return &c
	case *RetainValue:
		c := *v
		return &c
	case *ReleaseValue:
		c := *v
		return &c
	case *StrongRetain:
		c := *v
		return &c
	case *StrongRelease:
		c := *v
		return &c
	case *DebugValue:
		c := *v
		return &c
	default:
		panic(fmt.Sprintf("mir: unknown instruction %T", in))
	}
}

func setResult(in Instr, id ValueID) {
	switch v := in.(type) {
	case *Const:
		v.Result = id
	case *StringLit:
		v.Result = id
	case *FunctionRef:
		v.Result = id
	case *Metatype:
		v.Result = id
	case *ValueMetatype:
		v.Result = id
	case *ThinToThickFunction:
		v.Result = id
	case *MakeStruct:
		v.Result = id
	case *StructExtract:
		v.Result = id
	case *StructElementAddr:
		v.Result = id
	case *MakeEnum:
		v.Result = id
	case *UncheckedEnumData:
		v.Result = id
	case *InitEnumDataAddr:
		v.Result = id
	case *EnumIsTag:
		v.Result = id
	case *AllocStack:
		v.Result = id
	case *AllocRef:
		v.Result = id
	case *Load:
		v.Result = id
	case *Upcast:
		v.Result = id
	case *RefCast:
		v.Result = id
	case *RefBitCast:
		v.Result = id
	case *TrivialBitCast:
		v.Result = id
	case *AddrCast:
		v.Result = id
	case *Call:
		v.Result = id
	case *PartialApply:
		v.Result = id
	case *Builtin:
		v.Result = id
	case *ClassMethod:
		v.Result = id
	}
}
