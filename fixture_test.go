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

	"github.com/stretchr/testify/require"

	. "github.com/wdamron/gradual/construct"
	"github.com/wdamron/gradual/types"
)

type fixture struct {
	mod    *types.Module
	object *types.ClassDef
	list   *types.ClassDef
	dict   *types.ClassDef
	movie  *types.Record
	abs    *types.OverloadGroup
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{mod: types.NewModule("test")}
	classes := f.mod.Classes

	f.object = types.NewClass("object")
	require.NoError(t, classes.Add(f.object))
	require.NoError(t, classes.SetBuiltin("object", f.object))

	listT := TVar("T")
	f.list = types.NewClass("list", listT).AddBase(f.object)
	f.list.Members["append"] = TFunc(types.None, PPos("x", listT))
	f.list.Members["__getitem__"] = TFunc(listT, PPos("index", types.Int))
	require.NoError(t, classes.Add(f.list))
	require.NoError(t, classes.SetBuiltin("list", f.list))

	dictK, dictV := TVar("K"), TVar("V")
	f.dict = types.NewClass("dict", dictK, dictV).AddBase(f.object)
	f.dict.Members["__getitem__"] = TFunc(dictV, PPos("key", dictK))
	require.NoError(t, classes.Add(f.dict))
	require.NoError(t, classes.SetBuiltin("dict", f.dict))
	classes.Freeze()

	f.movie = TRecord("Movie", map[string]types.Field{"name": F(types.Str), "year": F(types.Int)})
	f.mod.Records["Movie"] = f.movie

	f.abs = TOverload("abs",
		TFunc(TUnion(types.Int, types.Float), P("x", TUnion(types.Int, types.Float))),
		TFunc(types.Int, P("x", types.Int)),
		TFunc(types.Float, P("x", types.Float)))
	f.mod.Exports["abs"] = f.abs
	f.mod.Exports["is_str"] = TTypeIs(types.Str, P("value", types.Any))
	f.mod.Exports["is_int"] = TTypeGuard(types.Int, P("value", types.Any))
	f.mod.Exports["takes_strs"] = TFunc(types.None, P("xs", f.listOf(types.Str)))
	T := TVar("T")
	f.mod.Exports["first"] = TGeneric([]*types.TypeVar{T}, T, P("xs", TInst(f.list, T)))
	f.mod.Exports["fail"] = TFunc(types.Never, P("message", types.Str))
	return f
}

func (f *fixture) checker(opts Options) *Checker { return New(f.mod, opts) }

func (f *fixture) listOf(t types.Type) *types.Instance { return TInst(f.list, t) }

func kinds(diags []Diagnostic) []Kind {
	out := make([]Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func expectType(t *testing.T, label string, e interface{ Type() types.Type }, want string) {
	t.Helper()
	if e.Type() == nil {
		t.Fatalf("%s: expected type %s, found no type", label, want)
	}
	if got := types.TypeString(e.Type()); got != want {
		t.Fatalf("%s: expected type %s, found %s", label, want, got)
	}
}

func expectClean(t *testing.T, diags []Diagnostic) {
	t.Helper()
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s", d)
	}
	if len(diags) > 0 {
		t.FailNow()
	}
}
