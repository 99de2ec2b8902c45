// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package typeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual/types"
)

func (f *fixture) sampleTypes() []types.Type {
	tv := types.NewTypeVar("T")
	node := types.NewRecord("Movie", map[string]types.Field{
		"name": {Type: types.Str, Required: true},
		"year": {Type: types.Int, Required: true},
	})
	return []types.Type{
		types.Int, types.Bool, types.Str, types.None,
		lit(1), lit("a"), lit(true),
		f.listOf(types.Int), f.seqOf(types.Str),
		types.NewUnion(types.Int, types.Str, types.None),
		types.NewTuple(types.Int, types.Str),
		&types.Tuple{Variadic: types.Int},
		fn(types.Bool, param("x", types.Int)),
		types.NewProtocol("SupportsAbs", map[string]types.Type{"__abs__": fn(types.Int)}),
		node,
		tv,
		types.NewInstance(f.sink, types.Int),
	}
}

func TestReflexivity(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	for _, ty := range f.sampleTypes() {
		if err := c.Compatible(ty, ty); err != nil {
			t.Fatalf("%s is not compatible with itself: %v", types.TypeString(ty), err)
		}
	}
	// Structurally equal but distinct values:
	a := fn(types.Int, param("x", f.listOf(types.Int)))
	b := fn(types.Int, param("x", f.listOf(types.Int)))
	require.NoError(t, c.Compatible(a, b))
}

func TestAnyAbsorption(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	for _, ty := range append(f.sampleTypes(), types.Never) {
		assert.NoError(t, c.Compatible(ty, types.Any), types.TypeString(ty))
		assert.NoError(t, c.Compatible(types.Any, ty), types.TypeString(ty))
	}
}

func TestNeverIsBottom(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	for _, ty := range f.sampleTypes() {
		assert.NoError(t, c.Compatible(types.Never, ty), types.TypeString(ty))
		assert.Error(t, c.Compatible(ty, types.Never), types.TypeString(ty))
	}
	assert.NoError(t, c.Compatible(types.Never, types.Never))
}

func TestUnionDistribution(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	samples := f.sampleTypes()
	for _, a := range samples[:8] {
		for _, b := range samples[:8] {
			for _, target := range samples {
				both := c.IsCompatible(a, target) && c.IsCompatible(b, target)
				if c.IsCompatible(types.NewUnion(a, b), target) != both {
					t.Fatalf("union %s | %s against %s", types.TypeString(a), types.TypeString(b), types.TypeString(target))
				}
			}
		}
	}
}

func TestPrimitiveCompatibility(t *testing.T) {
	c := newFixture(t).checker()
	for _, tc := range []struct {
		src, dst types.Type
		ok       bool
	}{
		{types.Bool, types.Int, true},
		{types.Int, types.Float, true},
		{types.Int, types.Complex, true},
		{types.Float, types.Complex, true},
		{types.Bool, types.Float, true},
		{types.Float, types.Int, false},
		{types.Int, types.Bool, false},
		{types.Str, types.Int, false},
		{types.Bytes, types.Str, false},
		{lit(1), types.Int, true},
		{lit(1), types.Float, true},
		{lit(true), types.Int, true},
		{lit(1), lit(1), true},
		{lit(1), lit(2), false},
		{types.Int, lit(1), false},
		{types.None, types.Optional(types.Int), true},
		{types.Int, types.None, false},
	} {
		err := c.Compatible(tc.src, tc.dst)
		if (err == nil) != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", types.TypeString(tc.src), types.TypeString(tc.dst), tc.ok, err)
		}
	}
}

func TestNominalVariance(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	assert.NoError(t, c.Compatible(f.listOf(types.Int), f.seqOf(types.Int)))
	assert.NoError(t, c.Compatible(f.listOf(types.Bool), f.seqOf(types.Int)), "sequences are covariant")
	assert.Error(t, c.Compatible(f.listOf(types.Bool), f.listOf(types.Int)), "lists are invariant")
	assert.NoError(t, c.Compatible(f.listOf(types.Int), f.listOf(types.Any)))
	assert.NoError(t, c.Compatible(f.listOf(types.Any), f.listOf(types.Int)))
	assert.Error(t, c.Compatible(f.seqOf(types.Int), f.listOf(types.Int)))
	assert.NoError(t, c.Compatible(types.NewInstance(f.sink, types.Int), types.NewInstance(f.sink, types.Bool)))
	assert.Error(t, c.Compatible(types.NewInstance(f.sink, types.Bool), types.NewInstance(f.sink, types.Int)))
	assert.NoError(t, c.Compatible(types.Int, types.NewInstance(f.object)), "primitives are backed by builtin classes")

	err := c.Compatible(f.listOf(types.Bool), f.listOf(types.Int))
	m, ok := err.(*Mismatch)
	require.True(t, ok)
	assert.Equal(t, TypeMismatch, m.Kind)
	assert.Equal(t, []string{"list[T]"}, m.Path)
}

func TestProtocolCompatibility(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	supportsAbs := types.NewProtocol("SupportsAbs", map[string]types.Type{"__abs__": fn(types.Int)})

	num := types.NewClass("Num").AddBase(f.object)
	num.Members["__abs__"] = fn(types.Bool)
	require.NoError(t, num.Linearize())
	inst := types.NewInstance(num)

	require.NoError(t, c.Compatible(inst, supportsAbs))
	require.NoError(t, c.Compatible(types.Int, supportsAbs), "int is backed by a class with __abs__")
	require.NoError(t, c.Compatible(lit(3), supportsAbs))

	err := c.Compatible(types.Str, supportsAbs)
	assert.Equal(t, MissingMember, KindOf(err))
	assert.Equal(t, "__abs__", err.(*Mismatch).Member)

	// Adding an unrelated member keeps the verdict:
	num.Members["unrelated"] = fn(types.Str, param("x", types.Bytes))
	require.NoError(t, c.Compatible(inst, supportsAbs))

	wrong := types.NewClass("Wrong").AddBase(f.object)
	wrong.Members["__abs__"] = fn(types.Str)
	require.NoError(t, wrong.Linearize())
	err = c.Compatible(types.NewInstance(wrong), supportsAbs)
	require.Error(t, err)
	assert.Equal(t, []string{"__abs__", "return"}, err.(*Mismatch).Path)

	// Attributes are covariant:
	hasReal := types.NewProtocol("HasReal", map[string]types.Type{"real": types.Float})
	assert.NoError(t, c.Compatible(types.Int, hasReal))
}

func selfReferential(valueType types.Type) (*types.Record, *types.Protocol) {
	rec := types.NewRecursive("Node")
	idx := rec.AddType("Node", nil)
	node := types.NewRecord("Node", map[string]types.Field{
		"value": {Type: valueType, Required: true},
		"next":  {Type: types.Optional(rec.SelfLink(idx)), Required: true},
	})
	rec.SetType(idx, node)

	prec := types.NewRecursive("Linked")
	pidx := prec.AddType("Linked", nil)
	proto := types.NewProtocol("Linked", map[string]types.Type{
		"value": types.Int,
		"next":  types.Optional(prec.SelfLink(pidx)),
	})
	prec.SetType(pidx, proto)
	return node, proto
}

func TestRecursiveProtocolTerminates(t *testing.T) {
	c := newFixture(t).checker()

	node, proto := selfReferential(types.Int)
	require.NoError(t, c.Compatible(node, proto))
	assert.Equal(t, 0, c.memo.size(), "memo must be cleared after a top-level check")

	bad, proto := selfReferential(types.Str)
	err := c.Compatible(bad, proto)
	require.Error(t, err)
	assert.Equal(t, []string{"value"}, err.(*Mismatch).Path)
	assert.Equal(t, 0, c.memo.size())

	// A failed check leaves no assumption behind:
	require.NoError(t, c.Compatible(node, proto))
}

func TestGenericClassAgainstRecursiveProtocol(t *testing.T) {
	f := newFixture(t)
	boxT := types.NewTypeVar("T")
	box := types.NewClass("Box", boxT).AddBase(f.object)
	box.Members["value"] = boxT
	box.Members["next"] = types.NewInstance(box, boxT)
	require.NoError(t, box.Linearize())

	rec := types.NewRecursive("Linked")
	idx := rec.AddType("Linked", nil)
	proto := types.NewProtocol("Linked", map[string]types.Type{
		"value": types.Int,
		"next":  rec.SelfLink(idx),
	})
	rec.SetType(idx, proto)

	c := NewChecker(f.classes, 0)
	require.NoError(t, c.Compatible(types.NewInstance(box, types.Int), proto))
	assert.Equal(t, 0, c.memo.size())

	err := c.Compatible(types.NewInstance(box, types.Str), proto)
	require.Error(t, err)
	assert.Equal(t, TypeMismatch, KindOf(err))
	assert.Equal(t, []string{"value"}, err.(*Mismatch).Path)
}

func TestRecursionLimit(t *testing.T) {
	f := newFixture(t)
	c := NewChecker(f.classes, 2)
	deep := f.listOf(f.listOf(f.listOf(types.Int)))
	err := c.Compatible(deep, f.seqOf(f.seqOf(f.seqOf(types.Int))))
	assert.Equal(t, RecursionLimitExceeded, KindOf(err))

	c.MaxDepth = 0
	assert.NoError(t, c.Compatible(deep, f.seqOf(f.seqOf(f.seqOf(types.Int)))))
}

func TestTupleCompatibility(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	intStr := types.NewTuple(types.Int, types.Str)
	ints := &types.Tuple{Variadic: types.Int}

	assert.NoError(t, c.Compatible(intStr, types.NewTuple(types.Int, types.Str)))
	assert.Equal(t, ArityMismatch, KindOf(c.Compatible(intStr, types.NewTuple(types.Int))))
	assert.NoError(t, c.Compatible(types.NewTuple(types.Int, types.Bool), ints))
	assert.NoError(t, c.Compatible(types.NewTuple(), ints))
	assert.Equal(t, ArityMismatch, KindOf(c.Compatible(ints, types.NewTuple(types.Int))))
	assert.NoError(t, c.Compatible(&types.Tuple{Elems: []types.Type{types.Str}, Variadic: types.Int},
		&types.Tuple{Elems: []types.Type{types.Str}, Variadic: types.Float}))
	assert.NoError(t, c.Compatible(types.NewTuple(types.Bool, types.Int), f.seqOf(types.Int)))
	assert.Error(t, c.Compatible(intStr, f.seqOf(types.Int)))

	err := c.Compatible(types.NewTuple(types.Int, types.Int), intStr)
	require.Error(t, err)
	assert.Equal(t, []string{"[1]"}, err.(*Mismatch).Path)
}

func TestCallableCompatibility(t *testing.T) {
	c := newFixture(t).checker()
	T := types.NewTypeVar("T")
	identity := &types.Callable{TypeParams: []*types.TypeVar{T}, Params: []types.Param{param("x", T)}, Return: T}
	posOnly := func(name string, t types.Type) types.Param {
		return types.Param{Name: name, Type: t, Kind: types.PositionalOnly}
	}

	for _, tc := range []struct {
		name     string
		src, dst types.Type
		kind     Kind
	}{
		{"variance", fn(types.Bool, param("x", types.Int)), fn(types.Int, param("x", types.Bool)), 0},
		{"contravariant params", fn(types.Int, param("x", types.Bool)), fn(types.Int, param("x", types.Int)), TypeMismatch},
		{"covariant return", fn(types.Float, param("x", types.Int)), fn(types.Int, param("x", types.Int)), TypeMismatch},
		{"extra defaulted", fn(types.Int, param("x", types.Int), types.Param{Name: "y", Type: types.Int, HasDefault: true}),
			fn(types.Int, param("x", types.Int)), 0},
		{"extra required", fn(types.Int, param("x", types.Int), param("y", types.Int)),
			fn(types.Int, param("x", types.Int)), ArityMismatch},
		{"name mismatch", fn(types.Int, param("y", types.Int)), fn(types.Int, param("x", types.Int)), TypeMismatch},
		{"positional-only target", fn(types.Int, param("y", types.Int)), fn(types.Int, posOnly("x", types.Int)), 0},
		{"positional-only source", fn(types.Int, posOnly("x", types.Int)), fn(types.Int, param("x", types.Int)), TypeMismatch},
		{"too few params", fn(types.Int, param("x", types.Int)),
			fn(types.Int, posOnly("a", types.Int), posOnly("b", types.Int)), ArityMismatch},
		{"star args", fn(types.Int, types.Param{Name: "args", Type: types.Int, Kind: types.VarPositional}),
			fn(types.Int, posOnly("a", types.Int), posOnly("b", types.Bool)), 0},
		{"keyword-only", fn(types.Int, types.Param{Name: "k", Type: types.Int, Kind: types.KeywordOnly}),
			fn(types.Int, types.Param{Name: "k", Type: types.Int, Kind: types.KeywordOnly}), 0},
		{"target default", fn(types.Int, param("x", types.Int)),
			fn(types.Int, types.Param{Name: "x", Type: types.Int, HasDefault: true}), TypeMismatch},
		{"generic source", identity, fn(types.Int, param("x", types.Int)), 0},
		{"generic source return", identity, fn(types.Str, param("x", types.Int)), UnresolvedTypeVar},
		{"overloaded source", &types.OverloadGroup{Variants: []*types.Callable{
			fn(types.Str, param("x", types.Str)), fn(types.Int, param("x", types.Int))}},
			fn(types.Int, param("x", types.Int)), 0},
	} {
		err := c.Compatible(tc.src, tc.dst)
		if KindOf(err) != tc.kind {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestRecordCompatibility(t *testing.T) {
	c := newFixture(t).checker()
	movie := types.NewRecord("Movie", map[string]types.Field{
		"name": {Type: types.Str, Required: true},
		"year": {Type: types.Int, Required: true},
	})
	anon := func(fields map[string]types.Field) *types.Record { return types.NewRecord("", fields) }

	assert.NoError(t, c.Compatible(anon(map[string]types.Field{
		"name":  {Type: types.Str, Required: true},
		"year":  {Type: types.Int, Required: true},
		"extra": {Type: types.Bytes, Required: true},
	}), movie), "width subtyping")

	err := c.Compatible(anon(map[string]types.Field{"name": {Type: types.Str, Required: true}}), movie)
	require.Error(t, err)
	assert.Equal(t, TypeMismatch, KindOf(err))
	assert.Equal(t, []string{`["year"]`}, err.(*Mismatch).Path)

	err = c.Compatible(anon(map[string]types.Field{
		"name": {Type: types.Int, Required: true},
		"year": {Type: types.Int, Required: true},
	}), movie)
	require.Error(t, err)
	assert.Equal(t, []string{`["name"]`}, err.(*Mismatch).Path)

	readOnly := anon(map[string]types.Field{"x": {Type: types.Int, Required: true, ReadOnly: true}})
	mutable := anon(map[string]types.Field{"x": {Type: types.Int, Required: true}})
	narrower := anon(map[string]types.Field{"x": {Type: types.Bool, Required: true}})
	assert.NoError(t, c.Compatible(narrower, readOnly), "read-only fields are covariant")
	assert.Error(t, c.Compatible(narrower, mutable), "mutable fields are invariant")
	assert.Error(t, c.Compatible(readOnly, mutable), "read-only fields cannot be used as mutable")
	assert.NoError(t, c.Compatible(mutable, readOnly))

	optional := anon(map[string]types.Field{"x": {Type: types.Int}})
	assert.Error(t, c.Compatible(optional, mutable), "a non-required field cannot satisfy a required one")
	assert.Error(t, c.Compatible(mutable, optional), "a mutable non-required field must stay non-required")
	assert.NoError(t, c.Compatible(anon(nil), optional))
}

func TestJoinAndMeet(t *testing.T) {
	f := newFixture(t)
	c := f.checker()
	final := types.NewClass("Final").AddBase(f.object)
	final.Final = true
	require.NoError(t, final.Linearize())
	other := types.NewClass("Other").AddBase(f.object)
	require.NoError(t, other.Linearize())

	for _, tc := range []struct {
		got  types.Type
		want string
	}{
		{c.Join(types.Bool, types.Int), "int"},
		{c.Join(types.Int, types.Str), "int | str"},
		{c.Join(types.Int, types.Any), "Any"},
		{c.Meet(types.NewUnion(types.Int, types.Str), types.Int), "int"},
		{c.Meet(types.NewUnion(types.Int, types.None), types.Bool), "bool"},
		{c.Meet(types.Int, types.Str), "Never"},
		{c.Meet(types.Any, types.Int), "int"},
		{c.Meet(types.NewUnion(types.Int, types.Str, types.Bytes), types.NewUnion(types.Str, types.Bytes)), "str | bytes"},
		{c.Meet(types.NewInstance(other), types.NewInstance(final)), "Never"},
		{c.Meet(types.NewInstance(other), f.seqOf(types.Int)), "Sequence[int]"},
		{c.Exclude(types.NewUnion(types.Int, types.Str), types.Int), "str"},
		{c.Exclude(types.Optional(types.Str), types.None), "str"},
		{c.Exclude(types.Any, types.Int), "Any"},
		{c.Meet(types.Int, types.Float), "int"},
		{c.MeetInstance(types.NewUnion(types.Int, types.Str), types.Float), "Never"},
		{c.MeetInstance(types.Float, types.Int), "int"},
		{c.ExcludeInstance(types.NewUnion(types.Int, types.Str), types.Float), "int | str"},
		{c.ExcludeInstance(types.NewUnion(types.Float, types.Str), types.Float), "str"},
	} {
		if s := types.TypeString(tc.got); s != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, s)
		}
	}
}

func TestMemoRetraction(t *testing.T) {
	var m memo
	a := keyOf(types.Int, types.Str)
	b := keyOf(types.Str, types.Int)
	mark := m.assume(a)
	m.assume(b)
	m.confirm(b)
	e, ok := m.lookup(b)
	require.True(t, ok)
	assert.Equal(t, confirmed, e.verdict)
	m.retract(mark)
	assert.Equal(t, 0, m.size())
	m.refute(a, mismatch(types.Int, types.Str))
	e, _ = m.lookup(a)
	assert.Equal(t, refuted, e.verdict)
	m.reset()
	assert.Equal(t, 0, m.size())
}
