package combine

import (
	"testing"

	"github.com/mbarnett/miropt/mir"
	"github.com/mbarnett/miropt/types"
)

func testEnum() *types.EnumType {
	return types.NewEnum("Opt", []types.EnumCase{
		{Name: "none"},
		{Name: "some", Payload: types.TypeI64},
	})
}

func TestInjectNoPayloadCaseMaterialized(t *testing.T) {
	e := testEnum()
	mod, fn, b := testSetup(nil, types.TypeVoid)
	alloc := &mir.AllocStack{Result: fn.NewValue(), Type: e}
	fn.AppendInstr(fn.Entry(), alloc)
	b.SetInsertionPoint(fn.Entry())
	inject := &mir.InjectEnumAddr{Addr: alloc.Result, Case: 0}
	fn.AppendInstr(fn.Entry(), inject)

	run(t, mod, fn)

	if fn.IsLinked(inject) {
		t.Fatalf("tag injection survived:\n%s", mir.FormatFunction(fn))
	}
	var enum *mir.MakeEnum
	var store *mir.Store
	for _, in := range instrs(fn) {
		switch v := in.(type) {
		case *mir.MakeEnum:
			enum = v
		case *mir.Store:
			store = v
		}
	}
	if enum == nil || store == nil {
		t.Fatalf("rewrite did not produce make_enum + store:\n%s", mir.FormatFunction(fn))
	}
	if enum.Case != 0 || enum.HasPayload {
		t.Errorf("materialized case %d (payload %v), want case 0 without payload", enum.Case, enum.HasPayload)
	}
	if store.Addr != alloc.Result || store.Value != enum.Result {
		t.Errorf("store writes %v to %v, want the enum into the allocation", store.Value, store.Addr)
	}
	// The scratch allocation is dead-alloc work for a later pass.
	if !fn.IsLinked(alloc) {
		t.Errorf("allocation cleanup is not this rule's job")
	}
}

func TestInjectPayloadCaseMaterialized(t *testing.T) {
	e := testEnum()
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI64}}, types.TypeVoid)
	payload := fn.Entry().Params[0].ID
	_ = b
	alloc := &mir.AllocStack{Result: fn.NewValue(), Type: e}
	fn.AppendInstr(fn.Entry(), alloc)
	init := &mir.InitEnumDataAddr{Result: fn.NewValue(), Addr: alloc.Result, Case: 1, Type: types.NewAddress(types.TypeI64)}
	fn.AppendInstr(fn.Entry(), init)
	st := &mir.Store{Addr: init.Result, Value: payload}
	fn.AppendInstr(fn.Entry(), st)
	inject := &mir.InjectEnumAddr{Addr: alloc.Result, Case: 1}
	fn.AppendInstr(fn.Entry(), inject)

	run(t, mod, fn)

	if fn.IsLinked(inject) || fn.IsLinked(st) || fn.IsLinked(init) {
		t.Fatalf("initialize-then-tag idiom not consumed:\n%s", mir.FormatFunction(fn))
	}
	var enum *mir.MakeEnum
	var store *mir.Store
	for _, in := range instrs(fn) {
		switch v := in.(type) {
		case *mir.MakeEnum:
			enum = v
		case *mir.Store:
			store = v
		}
	}
	if enum == nil || store == nil {
		t.Fatalf("rewrite did not produce make_enum + store:\n%s", mir.FormatFunction(fn))
	}
	if enum.Case != 1 || !enum.HasPayload || enum.Payload != payload {
		t.Errorf("materialized enum = case %d payload %v, want case 1 payload %v", enum.Case, enum.Payload, payload)
	}
	if store.Addr != alloc.Result {
		t.Errorf("store writes to %v, want the original allocation %v", store.Addr, alloc.Result)
	}
}

func TestInjectWithInterveningWriteKept(t *testing.T) {
	e := testEnum()
	mod, fn, b := testSetup([]types.ParamInfo{{Type: types.TypeI64}, {Type: types.NewAddress(types.TypeI64), Indirect: true}}, types.TypeVoid)
	payload := fn.Entry().Params[0].ID
	other := fn.Entry().Params[1].ID
	_ = b
	alloc := &mir.AllocStack{Result: fn.NewValue(), Type: e}
	fn.AppendInstr(fn.Entry(), alloc)
	init := &mir.InitEnumDataAddr{Result: fn.NewValue(), Addr: alloc.Result, Case: 1, Type: types.NewAddress(types.TypeI64)}
	fn.AppendInstr(fn.Entry(), init)
	fn.AppendInstr(fn.Entry(), &mir.Store{Addr: init.Result, Value: payload})
	fn.AppendInstr(fn.Entry(), &mir.Store{Addr: other, Value: payload})
	inject := &mir.InjectEnumAddr{Addr: alloc.Result, Case: 1}
	fn.AppendInstr(fn.Entry(), inject)

	run(t, mod, fn)

	if !fn.IsLinked(inject) {
		t.Errorf("injection rewritten across an intervening store")
	}
}

func TestEnumIsTagFoldsAgainstKnownConstruction(t *testing.T) {
	e := testEnum()
	tests := []struct {
		made   int
		tested int
		want   string
	}{
		{0, 0, "1"},
		{0, 1, "0"},
	}

	for _, tt := range tests {
		mod, fn, b := testSetup(nil, types.TypeI1)
		v := b.EmitMakeEnum(e, tt.made, mir.InvalidValue, false)
		tag := b.EmitEnumIsTag(v.Result, tt.tested)
		fn.SetTerm(fn.Entry(), &mir.Return{Value: tag.Result, HasValue: true})

		run(t, mod, fn)

		if got := constResult(t, fn); got.Value != tt.want {
			t.Errorf("is_tag(make_enum %d, %d) folded to %s, want %s", tt.made, tt.tested, got.Value, tt.want)
		}
	}
}
