package combine

import (
	"testing"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

// testSetup builds an empty one-block function registered in a fresh
// module, with a builder positioned at the entry.
func testSetup(params []types.ParamInfo, result types.SemType) (*mir.Module, *mir.Function, *mir.Builder) {
	mod := mir.NewModule("test")
	fn := mir.NewFunction("subject", types.NewFunction(params, result))
	mod.AddFunction(fn)
	blockParams := make([]mir.Param, len(params))
	for i, p := range params {
		blockParams[i] = mir.Param{ID: fn.NewValue(), Name: "arg", Type: p.Type}
	}
	fn.NewBlock("entry", blockParams)
	b := mir.NewBuilder(fn, mod.Interner())
	b.SetInsertionPoint(fn.Entry())
	return mod, fn, b
}

func run(t *testing.T, mod *mir.Module, fn *mir.Function) bool {
	t.Helper()
	if fn.Entry().Term == nil {
		fn.SetTerm(fn.Entry(), &mir.Return{})
	}
	return New(mod, fn, Options{}, nil).Run()
}

// instrs returns the entry block's instructions after a run, for shape
// assertions.
func instrs(fn *mir.Function) []mir.Instr {
	return fn.Entry().Instrs
}

func TestRunReachesFixedPoint(t *testing.T) {
	cls := types.NewClass("C", nil)
	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	b.EmitStrongRelease(x)
	b.EmitStrongRetain(x)
	b.EmitRetainValue(x)

	if !run(t, mod, fn) {
		t.Fatalf("first run reported no change")
	}
	if New(mod, fn, Options{}, nil).Run() {
		t.Errorf("second run still changed the function:\n%s", mir.FormatFunction(fn))
	}
}

func TestPairEliminationIsIdempotent(t *testing.T) {
	cls := types.NewClass("C", nil)
	shape := func() string {
		mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
		x := fn.Entry().Params[0].ID
		b.EmitStrongRelease(x)
		b.EmitStrongRetain(x)
		run(t, mod, fn)
		return mir.FormatFunction(fn)
	}
	once := shape()

	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	b.EmitStrongRelease(x)
	b.EmitStrongRetain(x)
	run(t, mod, fn)
	New(mod, fn, Options{}, nil).Run()

	if got := mir.FormatFunction(fn); got != once {
		t.Errorf("combining twice differs from once:\n%s\nvs\n%s", got, once)
	}
}

func TestUseConsistencyAfterRewrites(t *testing.T) {
	cls := types.NewClass("C", nil)
	field := types.NewClass("F", nil)
	st := types.NewStruct("Box", []types.StructField{{Name: "f", Type: field}})
	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	bc := b.EmitRefBitCast(x, st)
	ex := b.EmitStructExtract(bc.Result, 0, field)
	b.EmitStrongRetain(ex.Result)

	run(t, mod, fn)

	// Every remaining instruction's operands must resolve to live defs or
	// block params, and every use edge must point at a linked node.
	for _, blk := range fn.Blocks {
		for _, in := range blk.Instrs {
			if r := mir.ResultOf(in); r != mir.InvalidValue {
				for _, u := range fn.UsesOf(r) {
					if !fn.IsLinked(u.User) {
						t.Errorf("use of %v held by unlinked node %T", r, u.User)
					}
				}
			}
		}
	}
	if fn.IsLinked(ex) {
		t.Errorf("folded extraction still linked")
	}
}
