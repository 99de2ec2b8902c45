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

package gradual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/wdamron/gradual/construct"
	"github.com/wdamron/gradual/types"
)

func TestInferCall(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	first := f.mod.Exports["first"]

	res, err := c.InferCall(first, args(f.listOf(types.Str)), nil)
	require.NoError(t, err)
	assert.Equal(t, "str", types.TypeString(res.Return))
	assert.Equal(t, -1, res.Variant)
	assert.Equal(t, "(xs: list[str]) -> str", types.TypeString(res.Signature))

	res, err = c.InferCall(types.Any, args(types.Int, types.Str), nil)
	require.NoError(t, err)
	assert.True(t, types.IsAny(res.Return))
	assert.Nil(t, res.Signature)

	res, err = c.InferCall(f.abs, args(types.Float), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Variant)

	_, err = c.InferCall(types.Int, args(types.Int), nil)
	assert.Equal(t, TypeMismatch, KindOf(err))
}

func TestInferUnionCallee(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	callee := TUnion(TFunc(types.Int, P("x", types.Int)), TFunc(types.Str, P("y", types.Int)))

	res, err := c.InferCall(callee, args(types.Bool), nil)
	require.NoError(t, err)
	assert.Equal(t, "int | str", types.TypeString(res.Return))

	// Every member must accept the call:
	_, err = c.InferCall(callee, []Argument{{Kind: ArgKeyword, Name: "x", Type: types.Int}}, nil)
	assert.Error(t, err)
}

func TestInferCallableObjects(t *testing.T) {
	mod := types.NewModule("callables")
	adder := types.NewClass("Adder")
	adder.Members["__call__"] = TFunc(types.Int, P("x", types.Int), P("y", types.Int))
	require.NoError(t, mod.Classes.Add(adder))
	c := New(mod, Options{})

	res, err := c.InferCall(TInst(adder), args(types.Int, types.Bool), nil)
	require.NoError(t, err)
	assert.Equal(t, "int", types.TypeString(res.Return))

	_, err = c.InferCall(TInst(adder), args(types.Int), nil)
	assert.Equal(t, ArityMismatch, KindOf(err))
}

func TestInferWithExpectedType(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	T := TVar("T")
	empty := TGeneric([]*types.TypeVar{T}, TInst(f.list, T))

	res, err := c.InferCall(empty, nil, f.listOf(types.Str))
	require.NoError(t, err)
	assert.Equal(t, "list[str]", types.TypeString(res.Return))

	res, err = c.InferCall(empty, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "list[Any]", types.TypeString(res.Return))
}

func TestInferRestrictedTypeVar(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	S := TVarIn("S", types.Str, types.Bytes)
	concat := TGeneric([]*types.TypeVar{S}, S, P("a", S), P("b", S))

	res, err := c.InferCall(concat, args(TLit("a"), types.Str), nil)
	require.NoError(t, err)
	assert.Equal(t, "str", types.TypeString(res.Return))

	_, err = c.InferCall(concat, args(types.Str, types.Bytes), nil)
	assert.Error(t, err)

	_, err = c.InferCall(concat, args(types.Int, types.Int), nil)
	assert.Error(t, err)
}

func TestIsSubtype(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	for _, test := range []struct {
		a, b types.Type
		ok   bool
	}{
		{types.Bool, types.Int, true},
		{types.Int, types.Float, true},
		{types.Float, types.Int, false},
		{TLit(1), types.Int, true},
		{TOptional(types.Int), types.Int, false},
		{types.None, TOptional(types.Int), true},
		{f.listOf(types.Bool), f.listOf(types.Int), false},
		{f.listOf(types.Any), f.listOf(types.Int), true},
		{TTuple(types.Int, types.Str), TTupleOf(TUnion(types.Int, types.Str)), true},
		{types.Never, types.Str, true},
	} {
		if got := c.IsSubtype(test.a, test.b); got != test.ok {
			t.Fatalf("IsSubtype(%s, %s): expected %v", types.TypeString(test.a), types.TypeString(test.b), test.ok)
		}
	}
	assert.Equal(t, "int | str", types.TypeString(c.Join(types.Int, types.Str)))
	assert.Equal(t, "int", types.TypeString(c.Join(types.Bool, types.Int)))
	assert.Error(t, c.Compatible(types.Str, types.Int))
}
