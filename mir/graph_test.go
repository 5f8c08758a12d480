package mir

import (
	"testing"

	"github.com/mbarnett/miropt/types"
)

func testFunction() (*Function, *Builder) {
	fn := NewFunction("test", types.NewFunction(nil, types.TypeVoid))
	entry := fn.NewBlock("entry", nil)
	b := NewBuilder(fn, NewInterner())
	b.SetInsertionPoint(entry)
	return fn, b
}

func TestUseTracking(t *testing.T) {
	fn, b := testFunction()
	c := b.EmitIntConst(types.TypeI32, 7)
	sub := b.EmitBuiltin(BuiltinSub, []ValueID{c.Result, c.Result}, types.TypeI32)

	uses := fn.UsesOf(c.Result)
	if len(uses) != 2 {
		t.Fatalf("UsesOf(const) = %d uses, want 2", len(uses))
	}
	for _, u := range uses {
		if u.User != sub {
			t.Errorf("unexpected user %T", u.User)
		}
	}
	if fn.HasUses(sub.Result) {
		t.Errorf("unused result reported as used")
	}
	if got := fn.DefInstr(c.Result); got != c {
		t.Errorf("DefInstr = %T, want the const", got)
	}
	if got := fn.TypeOf(sub.Result); !got.Equals(types.TypeI32) {
		t.Errorf("TypeOf = %v, want i32", got)
	}
}

func TestReplaceAllUses(t *testing.T) {
	fn, b := testFunction()
	a := b.EmitIntConst(types.TypeI32, 1)
	c := b.EmitIntConst(types.TypeI32, 2)
	sub := b.EmitBuiltin(BuiltinSub, []ValueID{a.Result, a.Result}, types.TypeI32)

	fn.ReplaceAllUses(a.Result, c.Result)

	if sub.Args[0] != c.Result || sub.Args[1] != c.Result {
		t.Errorf("operands not rewritten: %v", sub.Args)
	}
	if fn.HasUses(a.Result) {
		t.Errorf("replaced value still has uses")
	}
	if got := len(fn.UsesOf(c.Result)); got != 2 {
		t.Errorf("replacement has %d uses, want 2", got)
	}
}

func TestEraseInstr(t *testing.T) {
	fn, b := testFunction()
	a := b.EmitIntConst(types.TypeI32, 1)
	ret := b.EmitRetainValue(a.Result)

	fn.EraseInstr(ret)
	if fn.IsLinked(ret) {
		t.Fatalf("erased instruction still linked")
	}
	if fn.HasUses(a.Result) {
		t.Errorf("erased instruction still counted as a user")
	}

	fn.EraseInstr(a)
	if got := len(fn.Entry().Instrs); got != 0 {
		t.Errorf("entry has %d instructions after erasing all, want 0", got)
	}
}

func TestEraseInstrWithUsesPanics(t *testing.T) {
	fn, b := testFunction()
	a := b.EmitIntConst(types.TypeI32, 1)
	b.EmitRetainValue(a.Result)

	defer func() {
		if recover() == nil {
			t.Errorf("erasing a used definition did not panic")
		}
	}()
	fn.EraseInstr(a)
}

func TestSplitBlock(t *testing.T) {
	fn, b := testFunction()
	entry := fn.Entry()
	a := b.EmitIntConst(types.TypeI32, 1)
	c := b.EmitIntConst(types.TypeI32, 2)
	fn.SetTerm(entry, &Return{})

	nb := fn.SplitBlock(entry, 1, "tail", nil)

	if len(entry.Instrs) != 1 || entry.Instrs[0] != a {
		t.Fatalf("head block lost its prefix")
	}
	if entry.Term != nil {
		t.Errorf("head block kept the terminator")
	}
	if len(nb.Instrs) != 1 || nb.Instrs[0] != c {
		t.Fatalf("tail block missing moved instruction")
	}
	if _, ok := nb.Term.(*Return); !ok {
		t.Errorf("tail block terminator = %T, want *Return", nb.Term)
	}
	if fn.BlockOf(c) != nb {
		t.Errorf("moved instruction still indexed in old block")
	}
	if fn.Blocks[1] != nb {
		t.Errorf("tail block not inserted after head")
	}
}

func TestSetTermTracksUses(t *testing.T) {
	fn, b := testFunction()
	entry := fn.Entry()
	cond := b.EmitIntConst(types.TypeI1, 1)
	then := fn.NewBlock("then", nil)
	els := fn.NewBlock("else", nil)

	br := &CondBr{Cond: cond.Result, Then: then.ID, Else: els.ID}
	fn.SetTerm(entry, br)
	if got := len(fn.UsesOf(cond.Result)); got != 1 {
		t.Fatalf("terminator use not tracked, got %d uses", got)
	}

	fn.SetTerm(entry, &Unreachable{})
	if fn.HasUses(cond.Result) {
		t.Errorf("replaced terminator still counted as a user")
	}
	if fn.IsLinked(br) {
		t.Errorf("replaced terminator still linked")
	}
}

func TestReindex(t *testing.T) {
	fn := NewFunction("hand", types.NewFunction(nil, types.TypeI32))
	entry := &Block{ID: 1, Name: "entry"}
	c := &Const{Result: 5, Type: types.TypeI32, Value: "9"}
	entry.Instrs = []Instr{c}
	entry.Term = &Return{Value: 5, HasValue: true}
	fn.Blocks = []*Block{entry}

	fn.Reindex()

	if got := fn.DefInstr(5); got != c {
		t.Errorf("DefInstr(5) = %v, want the const", got)
	}
	if got := len(fn.UsesOf(5)); got != 1 {
		t.Errorf("UsesOf(5) = %d, want 1 (the return)", got)
	}
	if id := fn.NewValue(); id <= 5 {
		t.Errorf("NewValue() = %d, want a fresh id above 5", id)
	}
}
