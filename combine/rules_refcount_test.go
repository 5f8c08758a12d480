package combine

import (
	"testing"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

func TestAdjacentReleaseRetainPairErased(t *testing.T) {
	cls := types.NewClass("C", nil)
	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	rel := b.EmitStrongRelease(x)
	ret := b.EmitStrongRetain(x)

	run(t, mod, fn)

	if fn.IsLinked(rel) || fn.IsLinked(ret) {
		t.Errorf("release/retain pair survived:\n%s", mir.FormatFunction(fn))
	}
}

func TestNonAdjacentPairKept(t *testing.T) {
	cls := types.NewClass("C", nil)
	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}, {Type: types.NewAddress(cls), Indirect: true}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	addr := fn.Entry().Params[1].ID
	rel := b.EmitStrongRelease(x)
	b.EmitStore(addr, x)
	ret := b.EmitStrongRetain(x)

	run(t, mod, fn)

	if !fn.IsLinked(rel) || !fn.IsLinked(ret) {
		t.Errorf("separated pair was erased")
	}
}

func TestRetainOnDifferentValueKept(t *testing.T) {
	cls := types.NewClass("C", nil)
	mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}, {Type: cls}}, types.TypeVoid)
	x := fn.Entry().Params[0].ID
	y := fn.Entry().Params[1].ID
	rel := b.EmitStrongRelease(x)
	ret := b.EmitStrongRetain(y)

	run(t, mod, fn)

	if !fn.IsLinked(rel) || !fn.IsLinked(ret) {
		t.Errorf("pair on distinct values was erased")
	}
}

func TestRefcountOfThinToThickErased(t *testing.T) {
	mod, fn, b := testSetup(nil, types.TypeVoid)
	sig := []types.ParamInfo{{Type: types.TypeI32}}
	g := declareFunction(mod, "g", sig, types.TypeI32, mir.EffectsReadNone)
	thick := types.NewThickFunction(sig, types.TypeI32)
	fr := b.EmitFunctionRef(g)
	conv := b.EmitThinToThickFunction(fr.Result, thick)
	retain := b.EmitStrongRetain(conv.Result)
	release := b.EmitStrongRelease(conv.Result)

	run(t, mod, fn)

	if fn.IsLinked(retain) {
		t.Errorf("retain of a thin-to-thick conversion survived:\n%s", mir.FormatFunction(fn))
	}
	if fn.IsLinked(release) {
		t.Errorf("release of a thin-to-thick conversion survived:\n%s", mir.FormatFunction(fn))
	}
}

func TestRetainValueSpecialization(t *testing.T) {
	cls := types.NewClass("C", nil)

	t.Run("trivial operand erased", func(t *testing.T) {
		mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI32}}, types.TypeVoid)
		x := fn.Entry().Params[0].ID
		b.EmitRetainValue(x)
		b.EmitReleaseValue(x)

		run(t, mod, fn)

		if got := len(instrs(fn)); got != 0 {
			t.Errorf("%d instructions remain, want 0:\n%s", got, mir.FormatFunction(fn))
		}
	})

	t.Run("reference operand specializes to strong ops", func(t *testing.T) {
		mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
		x := fn.Entry().Params[0].ID
		b.EmitRetainValue(x)

		run(t, mod, fn)

		ins := instrs(fn)
		if len(ins) != 1 {
			t.Fatalf("%d instructions remain, want 1", len(ins))
		}
		sr, ok := ins[0].(*mir.StrongRetain)
		if !ok || sr.X != x {
			t.Errorf("got %T on %v, want *StrongRetain on %v", ins[0], sr.X, x)
		}
	})

	t.Run("no-payload enum erased", func(t *testing.T) {
		e := types.NewEnum("E", []types.EnumCase{{Name: "a"}, {Name: "b", Payload: cls}})
		mod, fn, b := testSetup(nil, types.TypeVoid)
		v := b.EmitMakeEnum(e, 0, mir.InvalidValue, false)
		b.EmitRetainValue(v.Result)

		run(t, mod, fn)

		for _, in := range instrs(fn) {
			if _, ok := in.(*mir.RetainValue); ok {
				t.Errorf("retain of no-payload case survived")
			}
		}
	})

	t.Run("payload enum narrows to payload", func(t *testing.T) {
		e := types.NewEnum("E", []types.EnumCase{{Name: "a"}, {Name: "b", Payload: cls}})
		mod, fn, b := testSetup([]types.ParamInfo{{Type: cls}}, types.TypeVoid)
		p := fn.Entry().Params[0].ID
		v := b.EmitMakeEnum(e, 1, p, true)
		b.EmitReleaseValue(v.Result)

		run(t, mod, fn)

		var sawStrongRelease bool
		for _, in := range instrs(fn) {
			switch rel := in.(type) {
			case *mir.ReleaseValue:
				t.Errorf("generic release survived on %v", rel.X)
			case *mir.StrongRelease:
				sawStrongRelease = true
				if rel.X != p {
					t.Errorf("release narrowed to %v, want the payload %v", rel.X, p)
				}
			}
		}
		if !sawStrongRelease {
			t.Errorf("no release of the payload emitted:\n%s", mir.FormatFunction(fn))
		}
	})
}
