package mir

import (
	"fmt"

	"github.com/mbarnett/miropt/types"
)

// Operands returns the value operands of a node in a fixed slot order. The
// returned slice is freshly allocated; mutate through SetOperand.
func Operands(n Node) []ValueID {
	switch v := n.(type) {
	case *Const, *StringLit, *FunctionRef, *Metatype, *AllocStack, *AllocRef:
		return nil
	case *ValueMetatype:
		return []ValueID{v.X}
	case *ThinToThickFunction:
		return []ValueID{v.X}
	case *MakeStruct:
		return append([]ValueID(nil), v.Fields...)
	case *StructExtract:
		return []ValueID{v.Base}
	case *StructElementAddr:
		return []ValueID{v.Base}
	case *MakeEnum:
		if v.HasPayload {
			return []ValueID{v.Payload}
		}
		return nil
	case *UncheckedEnumData:
		return []ValueID{v.X}
	case *InitEnumDataAddr:
		return []ValueID{v.Addr}
	case *InjectEnumAddr:
		return []ValueID{v.Addr}
	case *EnumIsTag:
		return []ValueID{v.X}
	case *DeallocStack:
		return []ValueID{v.Addr}
	case *Load:
		return []ValueID{v.Addr}
	case *Store:
		return []ValueID{v.Addr, v.Value}
	case *DestroyAddr:
		return []ValueID{v.Addr}
	case *Upcast:
		return []ValueID{v.X}
	case *RefCast:
		return []ValueID{v.X}
	case *RefBitCast:
		return []ValueID{v.X}
	case *TrivialBitCast:
		return []ValueID{v.X}
	case *AddrCast:
		return []ValueID{v.X}
	case *Call:
		ops := make([]ValueID, 0, len(v.Args)+1)
		ops = append(ops, v.Callee)
		return append(ops, v.Args...)
	case *PartialApply:
		ops := make([]ValueID, 0, len(v.Args)+1)
		ops = append(ops, v.Callee)
		return append(ops, v.Args...)
	case *Builtin:
		return append([]ValueID(nil), v.Args...)
	case *ClassMethod:
		return []ValueID{v.X}
	case *CondFail:
		return []ValueID{v.Cond}
	case *RetainValue:
		return []ValueID{v.X}
	case *ReleaseValue:
		return []ValueID{v.X}
	case *StrongRetain:
		return []ValueID{v.X}
	case *StrongRelease:
		return []ValueID{v.X}
	case *DebugValue:
		return []ValueID{v.X}
	case *Return:
		if v.HasValue {
			return []ValueID{v.Value}
		}
		return nil
	case *AutoreleaseReturn:
		return []ValueID{v.Value}
	case *Br:
		return append([]ValueID(nil), v.Args...)
	case *CondBr:
		ops := make([]ValueID, 0, len(v.ThenArgs)+len(v.ElseArgs)+1)
		ops = append(ops, v.Cond)
		ops = append(ops, v.ThenArgs...)
		return append(ops, v.ElseArgs...)
	case *Unreachable:
		return nil
	default:
		panic(fmt.Sprintf("mir: unknown node %T", n))
	}
}

// SetOperand overwrites the operand in the given slot. Slot numbering
// matches Operands.
func SetOperand(n Node, slot int, id ValueID) {
	switch v := n.(type) {
	case *ValueMetatype:
		v.X = id
	case *ThinToThickFunction:
		v.X = id
	case *MakeStruct:
		v.Fields[slot] = id
	case *StructExtract:
		v.Base = id
	case *StructElementAddr:
		v.Base = id
	case *MakeEnum:
		v.Payload = id
	case *UncheckedEnumData:
		v.X = id
	case *InitEnumDataAddr:
		v.Addr = id
	case *InjectEnumAddr:
		v.Addr = id
	case *EnumIsTag:
		v.X = id
	case *DeallocStack:
		v.Addr = id
	case *Load:
		v.Addr = id
	case *Store:
		if slot == 0 {
			v.Addr = id
		} else {
			v.Value = id
		}
	case *DestroyAddr:
		v.Addr = id
	case *Upcast:
		v.X = id
	case *RefCast:
		v.X = id
	case *RefBitCast:
		v.X = id
	case *TrivialBitCast:
		v.X = id
	case *AddrCast:
		v.X = id
	case *Call:
		if slot == 0 {
			v.Callee = id
		} else {
			v.Args[slot-1] = id
		}
	case *PartialApply:
		if slot == 0 {
			v.Callee = id
		} else {
			v.Args[slot-1] = id
		}
	case *Builtin:
		v.Args[slot] = id
	case *ClassMethod:
		v.X = id
	case *CondFail:
		v.Cond = id
	case *RetainValue:
		v.X = id
	case *ReleaseValue:
		v.X = id
	case *StrongRetain:
		v.X = id
	case *StrongRelease:
		v.X = id
	case *DebugValue:
		v.X = id
	case *Return:
		v.Value = id
	case *AutoreleaseReturn:
		v.Value = id
	case *Br:
		v.Args[slot] = id
	case *CondBr:
		switch {
		case slot == 0:
			v.Cond = id
		case slot <= len(v.ThenArgs):
			v.ThenArgs[slot-1] = id
		default:
			v.ElseArgs[slot-1-len(v.ThenArgs)] = id
		}
	default:
		panic(fmt.Sprintf("mir: node %T has no operand slot %d", n, slot))
	}
}

// ResultOf returns the value an instruction defines, or InvalidValue for
// instructions without a result.
func ResultOf(in Instr) ValueID {
	switch v := in.(type) {
	case *Const:
		return v.Result
	case *StringLit:
		return v.Result
	case *FunctionRef:
		return v.Result
	case *Metatype:
		return v.Result
	case *ValueMetatype:
		return v.Result
	case *ThinToThickFunction:
		return v.Result
	case *MakeStruct:
		return v.Result
	case *StructExtract:
		return v.Result
	case *StructElementAddr:
		return v.Result
	case *MakeEnum:
		return v.Result
	case *UncheckedEnumData:
		return v.Result
	case *InitEnumDataAddr:
		return v.Result
	case *EnumIsTag:
		return v.Result
	case *AllocStack:
		return v.Result
	case *AllocRef:
		return v.Result
	case *Load:
		return v.Result
	case *Upcast:
		return v.Result
	case *RefCast:
		return v.Result
	case *RefBitCast:
		return v.Result
	case *TrivialBitCast:
		return v.Result
	case *AddrCast:
		return v.Result
	case *Call:
		return v.Result
	case *PartialApply:
		return v.Result
	case *Builtin:
		return v.Result
	case *ClassMethod:
		return v.Result
	default:
		return InvalidValue
	}
}

// ResultType returns the static type of an instruction's result, or nil for
// instructions without one.
func ResultType(in Instr) types.SemType {
	switch v := in.(type) {
	case *Const:
		return v.Type
	case *StringLit:
		return types.TypeRawPtr
	case *FunctionRef:
		return v.Fn.Type
	case *Metatype:
		return v.Type
	case *ValueMetatype:
		return v.Type
	case *ThinToThickFunction:
		return v.Type
	case *MakeStruct:
		return v.Type
	case *StructExtract:
		return v.Type
	case *StructElementAddr:
		return v.Type
	case *MakeEnum:
		return v.Type
	case *UncheckedEnumData:
		return v.Type
	case *InitEnumDataAddr:
		return v.Type
	case *EnumIsTag:
		return types.TypeI1
	case *AllocStack:
		return types.NewAddress(v.Type)
	case *AllocRef:
		return v.Type
	case *Load:
		return v.Type
	case *Upcast:
		return v.Type
	case *RefCast:
		return v.Type
	case *RefBitCast:
		return v.Type
	case *TrivialBitCast:
		return v.Type
	case *AddrCast:
		return v.Type
	case *Call:
		return v.Type
	case *PartialApply:
		return v.Type
	case *Builtin:
		return v.Type
	case *ClassMethod:
		return v.Type
	default:
		return nil
	}
}

// Successors returns the blocks a terminator can transfer control to.
func Successors(t Term) []BlockID {
	switch v := t.(type) {
	case *Br:
		return []BlockID{v.Target}
	case *CondBr:
		return []BlockID{v.Then, v.Else}
	case *Return, *AutoreleaseReturn, *Unreachable:
		return nil
	default:
		panic(fmt.Sprintf("mir: unknown terminator %T", t))
	}
}
