package mir

import (
	"fmt"
	"strings"

	"github.com/mbarnett/miropt/types"
)

// FormatModule returns a readable text representation of the MIR module.
func FormatModule(mod *Module) string {
	if mod == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", mod.Name)
	for _, fn := range mod.Functions {
		b.WriteString("\n")
		writeFunction(&b, fn)
	}
	return b.String()
}

// FormatFunction returns a readable text representation of one function.
func FormatFunction(fn *Function) string {
	var b strings.Builder
	writeFunction(&b, fn)
	return b.String()
}

func writeFunction(b *strings.Builder, fn *Function) {
	if fn == nil {
		return
	}

	fmt.Fprintf(b, "fn %s : %s", fn.Name, formatType(fn.Type))
	if fn.IsDeclaration() {
		b.WriteString("\n")
		return
	}
	b.WriteString(" {\n")
	for _, block := range fn.Blocks {
		writeBlock(b, block)
	}
	b.WriteString("}\n")
}

func writeBlock(b *strings.Builder, block *Block) {
	if block == nil {
		return
	}

	if len(block.Params) > 0 {
		parts := make([]string, 0, len(block.Params))
		for _, p := range block.Params {
			parts = append(parts, fmt.Sprintf("%s: %s", formatValue(p.ID), formatType(p.Type)))
		}
		fmt.Fprintf(b, "  block b%d(%s):\n", block.ID, strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(b, "  block b%d:\n", block.ID)
	}

	for _, instr := range block.Instrs {
		fmt.Fprintf(b, "    %s\n", formatInstr(instr))
	}

	if block.Term != nil {
		fmt.Fprintf(b, "    %s\n", formatTerm(block.Term))
	} else {
		b.WriteString("    term <nil>\n")
	}
}

func formatInstr(instr Instr) string {
	switch i := instr.(type) {
	case *Const:
		return formatAssign(i.Result, fmt.Sprintf("const %s %s", formatType(i.Type), i.Value))
	case *StringLit:
		return formatAssign(i.Result, fmt.Sprintf("string_lit %s %q", i.Encoding, i.Value))
	case *FunctionRef:
		return formatAssign(i.Result, fmt.Sprintf("function_ref @%s", i.Fn.Name))
	case *Metatype:
		return formatAssign(i.Result, fmt.Sprintf("metatype %s", formatType(i.Type)))
	case *ValueMetatype:
		return formatAssign(i.Result, fmt.Sprintf("value_metatype %s %s", formatType(i.Type), formatValue(i.X)))
	case *ThinToThickFunction:
		return formatAssign(i.Result, fmt.Sprintf("thin_to_thick_function %s %s", formatType(i.Type), formatValue(i.X)))
	case *MakeStruct:
		return formatAssign(i.Result, fmt.Sprintf("make_struct %s (%s)", formatType(i.Type), formatValues(i.Fields)))
	case *StructExtract:
		return formatAssign(i.Result, fmt.Sprintf("struct_extract %s %s, %d", formatType(i.Type), formatValue(i.Base), i.Field))
	case *StructElementAddr:
		return formatAssign(i.Result, fmt.Sprintf("struct_element_addr %s %s, %d", formatType(i.Type), formatValue(i.Base), i.Field))
	case *MakeEnum:
		if i.HasPayload {
			return formatAssign(i.Result, fmt.Sprintf("make_enum %s, %d, %s", formatType(i.Type), i.Case, formatValue(i.Payload)))
		}
		return formatAssign(i.Result, fmt.Sprintf("make_enum %s, %d", formatType(i.Type), i.Case))
	case *UncheckedEnumData:
		return formatAssign(i.Result, fmt.Sprintf("unchecked_enum_data %s %s, %d", formatType(i.Type), formatValue(i.X), i.Case))
	case *InitEnumDataAddr:
		return formatAssign(i.Result, fmt.Sprintf("init_enum_data_addr %s %s, %d", formatType(i.Type), formatValue(i.Addr), i.Case))
	case *InjectEnumAddr:
		return fmt.Sprintf("inject_enum_addr %s, %d", formatValue(i.Addr), i.Case)
	case *EnumIsTag:
		return formatAssign(i.Result, fmt.Sprintf("enum_is_tag %s, %d", formatValue(i.X), i.Case))
	case *AllocStack:
		return formatAssign(i.Result, fmt.Sprintf("alloc_stack %s", formatType(i.Type)))
	case *DeallocStack:
		return fmt.Sprintf("dealloc_stack %s", formatValue(i.Addr))
	case *AllocRef:
		return formatAssign(i.Result, fmt.Sprintf("alloc_ref %s", formatType(i.Type)))
	case *Load:
		return formatAssign(i.Result, fmt.Sprintf("load %s %s", formatType(i.Type), formatValue(i.Addr)))
	case *Store:
		return fmt.Sprintf("store %s, %s", formatValue(i.Addr), formatValue(i.Value))
	case *DestroyAddr:
		return fmt.Sprintf("destroy_addr %s", formatValue(i.Addr))
	case *Upcast:
		return formatAssign(i.Result, fmt.Sprintf("upcast %s %s", formatType(i.Type), formatValue(i.X)))
	case *RefCast:
		return formatAssign(i.Result, fmt.Sprintf("ref_cast %s %s", formatType(i.Type), formatValue(i.X)))
	case *RefBitCast:
		return formatAssign(i.Result, fmt.Sprintf("ref_bit_cast %s %s", formatType(i.Type), formatValue(i.X)))
	case *TrivialBitCast:
		return formatAssign(i.Result, fmt.Sprintf("trivial_bit_cast %s %s", formatType(i.Type), formatValue(i.X)))
	case *AddrCast:
		return formatAssign(i.Result, fmt.Sprintf("addr_cast %s %s", formatType(i.Type), formatValue(i.X)))
	case *Call:
		return formatAssign(i.Result, fmt.Sprintf("call %s(%s) : %s", formatValue(i.Callee), formatValues(i.Args), formatType(i.Type)))
	case *PartialApply:
		return formatAssign(i.Result, fmt.Sprintf("partial_apply %s(%s) : %s", formatValue(i.Callee), formatValues(i.Args), formatType(i.Type)))
	case *Builtin:
		return formatAssign(i.Result, fmt.Sprintf("builtin %s %s(%s)", i.Op, formatType(i.Type), formatValues(i.Args)))
	case *ClassMethod:
		return formatAssign(i.Result, fmt.Sprintf("class_method %s.%s : %s", formatValue(i.X), i.Method, formatType(i.Type)))
	case *CondFail:
		return fmt.Sprintf("cond_fail %s", formatValue(i.Cond))
	case *RetainValue:
		return fmt.Sprintf("retain_value %s", formatValue(i.X))
	case *ReleaseValue:
		return fmt.Sprintf("release_value %s", formatValue(i.X))
	case *StrongRetain:
		return fmt.Sprintf("strong_retain %s", formatValue(i.X))
	case *StrongRelease:
		return fmt.Sprintf("strong_release %s", formatValue(i.X))
	case *DebugValue:
		return fmt.Sprintf("debug_value %s %q", formatValue(i.X), i.Name)
	default:
		return "instr <unknown>"
	}
}

func formatTerm(term Term) string {
	switch t := term.(type) {
	case *Return:
		if t.HasValue {
			return fmt.Sprintf("ret %s", formatValue(t.Value))
		}
		return "ret"
	case *AutoreleaseReturn:
		return fmt.Sprintf("autorelease_ret %s", formatValue(t.Value))
	case *Br:
		if len(t.Args) > 0 {
			return fmt.Sprintf("br %s(%s)", formatBlock(t.Target), formatValues(t.Args))
		}
		return fmt.Sprintf("br %s", formatBlock(t.Target))
	case *CondBr:
		return fmt.Sprintf("br_if %s, %s(%s), %s(%s)", formatValue(t.Cond),
			formatBlock(t.Then), formatValues(t.ThenArgs),
			formatBlock(t.Else), formatValues(t.ElseArgs))
	case *Unreachable:
		return "unreachable"
	default:
		return "term <unknown>"
	}
}

func formatAssign(result ValueID, body string) string {
	if result == InvalidValue {
		return body
	}
	return fmt.Sprintf("%s = %s", formatValue(result), body)
}

func formatValue(id ValueID) string {
	if id == InvalidValue {
		return "%<invalid>"
	}
	return fmt.Sprintf("%%v%d", id)
}

func formatBlock(id BlockID) string {
	if id == InvalidBlock {
		return "b<invalid>"
	}
	return fmt.Sprintf("b%d", id)
}

func formatValues(values []ValueID) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, 0, len(values))
	for _, id := range values {
		parts = append(parts, formatValue(id))
	}
	return strings.Join(parts, ", ")
}

func formatType(t types.SemType) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
