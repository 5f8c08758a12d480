package inline

import (
	"fmt"
	"math"

	"github.com/mbarnett/miropt/mir"
)

// InstructionCost is the ordinal cost category of one instruction.
type InstructionCost int

const (
	// Free instructions impose no runtime cost in this model: pure
	// bookkeeping, reinterpreting casts, constants, aggregate construction
	// and destructuring, and unconditional control flow.
	Free InstructionCost = iota
	// Expensive covers every other executable operation.
	Expensive
	// CannotBeInlined marks instructions whose presence rejects inlining
	// of the whole function.
	CannotBeInlined
)

// NotInlinable is the sentinel FunctionCost returns when the function must
// never be inlined.
const NotInlinable = math.MaxInt

// CostOf classifies one node of fn. The mapping is total over instruction
// kinds; an unknown kind is a programming error, not an input condition.
func CostOf(fn *mir.Function, n mir.Node) InstructionCost {
	switch v := n.(type) {
	case *mir.Const, *mir.StringLit, *mir.FunctionRef, *mir.DebugValue:
		return Free
	case *mir.Metatype:
		if v.Type.Thin {
			return Free
		}
		// Thick metatypes may need runtime instantiation.
		return Expensive
	case *mir.MakeStruct, *mir.StructExtract, *mir.StructElementAddr:
		return Free
	case *mir.Upcast, *mir.RefCast, *mir.RefBitCast, *mir.TrivialBitCast, *mir.AddrCast:
		return Free
	case *mir.Call:
		if fr, ok := fn.DefInstr(v.Callee).(*mir.FunctionRef); ok && fr.Fn == fn {
			return CannotBeInlined
		}
		return Expensive
	case *mir.ValueMetatype, *mir.ThinToThickFunction, *mir.PartialApply, *mir.Builtin,
		*mir.ClassMethod, *mir.CondFail:
		return Expensive
	case *mir.MakeEnum, *mir.UncheckedEnumData, *mir.InitEnumDataAddr, *mir.InjectEnumAddr,
		*mir.EnumIsTag:
		return Expensive
	case *mir.AllocStack, *mir.DeallocStack, *mir.AllocRef,
		*mir.Load, *mir.Store, *mir.DestroyAddr:
		return Expensive
	case *mir.RetainValue, *mir.ReleaseValue, *mir.StrongRetain, *mir.StrongRelease:
		return Expensive
	case *mir.Return, *mir.Br, *mir.Unreachable:
		return Free
	case *mir.CondBr, *mir.AutoreleaseReturn:
		return Expensive
	default:
		panic(fmt.Sprintf("inline: no cost classification for %T", n))
	}
}

// FunctionCost sums instruction costs across fn in program order, stopping
// early once the sum exceeds cutoff. The early exit is an optimization:
// verbose runs compute the exact total. A function marked always-inline
// costs zero regardless of size, and NotInlinable is returned as soon as
// any instruction rejects inlining.
func FunctionCost(fn *mir.Function, cutoff int, verbose bool) int {
	if fn.AlwaysInline {
		return 0
	}
	cost := 0
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			switch CostOf(fn, in) {
			case CannotBeInlined:
				return NotInlinable
			case Expensive:
				cost++
			}
		}
		if blk.Term != nil {
			switch CostOf(fn, blk.Term) {
			case CannotBeInlined:
				return NotInlinable
			case Expensive:
				cost++
			}
		}
		if cost > cutoff && !verbose {
			return cost
		}
	}
	return cost
}
