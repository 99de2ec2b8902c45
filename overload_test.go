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

func args(ts ...types.Type) []Argument {
	out := make([]Argument, len(ts))
	for i, t := range ts {
		out[i] = Argument{Type: t}
	}
	return out
}

func TestResolveAbs(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})

	for _, test := range []struct {
		arg     types.Type
		variant int
		ret     string
	}{
		{TLit(-2), 0, "int"},
		{types.Float, 1, "float"},
		{types.Bool, 0, "int"},
		{TLit(true), 0, "int"},
	} {
		res, err := c.Resolve(f.abs, args(test.arg), nil)
		if err != nil {
			t.Fatalf("abs(%s): %v", types.TypeString(test.arg), err)
		}
		if res.Index != test.variant || types.TypeString(res.Return) != test.ret {
			t.Fatalf("abs(%s): expected variant %d returning %s, found variant %d returning %s",
				types.TypeString(test.arg), test.variant, test.ret, res.Index, types.TypeString(res.Return))
		}
		if res.Variant != f.abs.Variants[test.variant] {
			t.Fatalf("abs(%s): wrong variant signature", types.TypeString(test.arg))
		}
	}

	_, err := c.Resolve(f.abs, args(types.Str), nil)
	require.Error(t, err)
	assert.Equal(t, TypeMismatch, KindOf(err))
	assert.Contains(t, err.Error(), "no variant of abs matches argument types (str)")
}

func TestOverloadOrderSensitivity(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})
	impl := TFunc(TUnion(types.Int, types.Str), P("x", types.Int))
	byInt := TFunc(types.Int, P("x", types.Int))
	byBool := TFunc(types.Str, P("x", types.Bool))

	intFirst := TOverload("f", impl, byInt, byBool)
	res, err := c.Resolve(intFirst, args(types.Bool), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "int", types.TypeString(res.Return))

	boolFirst := TOverload("f", impl, byBool, byInt)
	res, err = c.Resolve(boolFirst, args(types.Bool), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "str", types.TypeString(res.Return))

	// The int variant shadows the bool variant when declared first:
	diags := c.CheckOverloads(intFirst)
	require.Len(t, diags, 1)
	assert.Equal(t, UnreachableOverload, diags[0].Kind)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Equal(t, []string{"variant 2"}, diags[0].Path)

	// Declared the other way around, the variants overlap with incompatible returns:
	diags = c.CheckOverloads(boolFirst)
	require.Len(t, diags, 1)
	assert.Equal(t, AmbiguousOverload, diags[0].Kind)
	assert.Equal(t, []string{"variant 2"}, diags[0].Path)
}

func TestAmbiguousAnyArguments(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})

	res, err := c.Resolve(f.abs, args(types.Any), nil)
	require.NoError(t, err)
	assert.True(t, res.Ambiguous)
	assert.Equal(t, 0, res.Index)
	assert.True(t, types.IsAny(res.Return))

	// Variants with equivalent returns are not ambiguous:
	same := TOverload("g", TFunc(types.Int, P("x", types.Any)),
		TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Int, P("x", types.Str)))
	res, err = c.Resolve(same, args(types.Any), nil)
	require.NoError(t, err)
	assert.False(t, res.Ambiguous)
	assert.Equal(t, "int", types.TypeString(res.Return))
}

func TestOverloadImplementation(t *testing.T) {
	f := newFixture(t)
	c := f.checker(Options{})

	assert.Empty(t, c.CheckOverloads(f.abs))

	missing := TOverload("h", nil, TFunc(types.Int, P("x", types.Int)), TFunc(types.Str, P("x", types.Str)))
	_, err := c.Resolve(missing, args(types.Int), nil)
	assert.Equal(t, MissingImplementation, KindOf(err))
	assert.Equal(t, []Kind{MissingImplementation}, kinds(c.CheckOverloads(missing)))

	narrow := TOverload("h", TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Str, P("x", types.Str)))
	diags := c.CheckOverloads(narrow)
	assert.Equal(t, []Kind{TypeMismatch}, kinds(diags))
	assert.Equal(t, "variant 2", diags[0].Path[0])

	unrelated := TOverload("h", TFunc(types.Int, P("x", types.Any)),
		TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Str, P("x", types.Str)))
	diags = c.CheckOverloads(unrelated)
	require.Len(t, diags, 1)
	assert.Equal(t, []string{"variant 2", "return"}, diags[0].Path)
}

func TestStrictOverlap(t *testing.T) {
	f := newFixture(t)
	group := TOverload("k", TFunc(TUnion(types.Int, types.Str), P("x", types.Any)),
		TFunc(types.Int, P("x", TUnion(types.Int, types.Str))),
		TFunc(types.Str, P("x", TUnion(types.Str, types.Bytes))))

	assert.Empty(t, f.checker(Options{}).CheckOverloads(group))
	assert.Equal(t, []Kind{AmbiguousOverload}, kinds(f.checker(Options{StrictOverlap: true}).CheckOverloads(group)))

	disjoint := TOverload("k", TFunc(TUnion(types.Int, types.Str), P("x", types.Any)),
		TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Str, P("x", types.Str)))
	assert.Empty(t, f.checker(Options{StrictOverlap: true}).CheckOverloads(disjoint))
}
