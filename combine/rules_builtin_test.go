package combine

import (
	"testing"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

func constResult(t *testing.T, fn *mir.Function) *mir.Const {
	t.Helper()
	ret := fn.Entry().Term.(*mir.Return)
	c, ok := fn.DefInstr(ret.Value).(*mir.Const)
	if !ok {
		t.Fatalf("returned value defined by %T, want *Const", fn.DefInstr(ret.Value))
	}
	return c
}

func TestComparisonZeronessFolding(t *testing.T) {
	tests := []struct {
		name string
		op   mir.BuiltinOp
		lhs  int64
		rhs  int64
		want string
	}{
		{"eq zero zero", mir.BuiltinEq, 0, 0, "1"},
		{"eq zero nonzero", mir.BuiltinEq, 0, 7, "0"},
		{"ne zero nonzero", mir.BuiltinNe, 0, 7, "1"},
		{"ne zero zero", mir.BuiltinNe, 0, 0, "0"},
	}

	for _, tt := range tests {
		mod, fn, b := testSetup(nil, types.TypeI1)
		lhs := b.EmitIntConst(types.TypeI64, tt.lhs)
		rhs := b.EmitIntConst(types.TypeI64, tt.rhs)
		cmp := b.EmitBuiltin(tt.op, []mir.ValueID{lhs.Result, rhs.Result}, types.TypeI1)
		fn.SetTerm(fn.Entry(), &mir.Return{Value: cmp.Result, HasValue: true})

		run(t, mod, fn)

		if got := constResult(t, fn); got.Value != tt.want {
			t.Errorf("%s: folded to %s, want %s", tt.name, got.Value, tt.want)
		}
	}
}

func TestComparisonOfUnknownsKept(t *testing.T) {
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI64}, {Type: types.TypeI64}}, types.TypeI1)
	x := fn.Entry().Params[0].ID
	y := fn.Entry().Params[1].ID
	cmp := b.EmitBuiltin(mir.BuiltinEq, []mir.ValueID{x, y}, types.TypeI1)
	fn.SetTerm(fn.Entry(), &mir.Return{Value: cmp.Result, HasValue: true})

	run(t, mod, fn)

	if !fn.IsLinked(cmp) {
		t.Errorf("comparison of unknown operands was folded")
	}
}

func TestSubtractionOfSelfFoldsToZero(t *testing.T) {
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI64}}, types.TypeI64)
	x := fn.Entry().Params[0].ID
	sub := b.EmitBuiltin(mir.BuiltinSub, []mir.ValueID{x, x}, types.TypeI64)
	fn.SetTerm(fn.Entry(), &mir.Return{Value: sub.Result, HasValue: true})

	run(t, mod, fn)

	if got := constResult(t, fn); got.Value != "0" {
		t.Errorf("x - x folded to %s, want 0", got.Value)
	}
}

func TestStrideMultiplicationCanonicalized(t *testing.T) {
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI64}}, types.TypeI64)
	x := fn.Entry().Params[0].ID
	stride := b.EmitBuiltin(mir.BuiltinStride, []mir.ValueID{x}, types.TypeI64)
	mul := b.EmitBuiltin(mir.BuiltinMul, []mir.ValueID{stride.Result, x}, types.TypeI64)
	fn.SetTerm(fn.Entry(), &mir.Return{Value: mul.Result, HasValue: true})

	run(t, mod, fn)

	if !fn.IsLinked(mul) {
		t.Fatalf("multiplication was erased")
	}
	if mul.Args[0] != x || mul.Args[1] != stride.Result {
		t.Errorf("operands = %v, want the stride moved to the second slot", mul.Args)
	}
}

func TestCondFailOnZeroErased(t *testing.T) {
	mod, fn, b := testSetup(nil, types.TypeVoid)
	zero := b.EmitIntConst(types.TypeI1, 0)
	cf := &mir.CondFail{Cond: zero.Result}
	fn.AppendInstr(fn.Entry(), cf)

	run(t, mod, fn)

	if fn.IsLinked(cf) {
		t.Errorf("provably dead assertion survived")
	}
}

func TestCondFailOnUnknownKept(t *testing.T) {
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI1}}, types.TypeVoid)
	_ = b
	cf := &mir.CondFail{Cond: fn.Entry().Params[0].ID}
	fn.AppendInstr(fn.Entry(), cf)

	run(t, mod, fn)

	if !fn.IsLinked(cf) {
		t.Errorf("live assertion was erased")
	}
}

func TestRemoveRuntimeAssertsStripsAllCondFails(t *testing.T) {
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI1}}, types.TypeVoid)
	_ = b
	cf := &mir.CondFail{Cond: fn.Entry().Params[0].ID}
	fn.AppendInstr(fn.Entry(), cf)
	fn.SetTerm(fn.Entry(), &mir.Return{})

	New(mod, fn, Options{RemoveRuntimeAsserts: true}, nil).Run()

	if fn.IsLinked(cf) {
		t.Errorf("assertion survived a stripping run")
	}
}
