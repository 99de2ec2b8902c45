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

	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual/types"
)

type fixture struct {
	classes  *types.ClassTable
	object   *types.ClassDef
	sequence *types.ClassDef
	list     *types.ClassDef
	tuple    *types.ClassDef
	sink     *types.ClassDef
	integer  *types.ClassDef
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{classes: types.NewClassTable()}
	f.object = types.NewClass("object")
	require.NoError(t, f.classes.Add(f.object))
	require.NoError(t, f.classes.SetBuiltin("object", f.object))

	seqT := &types.TypeVar{Name: "T", Variance: types.Covariant}
	f.sequence = types.NewClass("Sequence", seqT).AddBase(f.object)
	f.sequence.Members["__getitem__"] = &types.Callable{
		Params: []types.Param{{Name: "index", Type: types.Int, Kind: types.PositionalOnly}},
		Return: seqT,
	}
	f.sequence.Members["__len__"] = &types.Callable{Return: types.Int}
	require.NoError(t, f.classes.Add(f.sequence))

	listT := types.NewTypeVar("T")
	f.list = types.NewClass("list", listT).AddBase(f.sequence, listT)
	f.list.Members["append"] = &types.Callable{
		Params: []types.Param{{Name: "x", Type: listT, Kind: types.PositionalOnly}},
		Return: types.None,
	}
	require.NoError(t, f.classes.Add(f.list))

	tupleT := &types.TypeVar{Name: "T", Variance: types.Covariant}
	f.tuple = types.NewClass("tuple", tupleT).AddBase(f.sequence, tupleT)
	require.NoError(t, f.classes.Add(f.tuple))
	require.NoError(t, f.classes.SetBuiltin("tuple", f.tuple))

	sinkT := &types.TypeVar{Name: "T", Variance: types.Contravariant}
	f.sink = types.NewClass("Sink", sinkT).AddBase(f.object)
	f.sink.Members["send"] = &types.Callable{Params: []types.Param{{Name: "x", Type: sinkT}}, Return: types.None}
	require.NoError(t, f.classes.Add(f.sink))

	f.integer = types.NewClass("int").AddBase(f.object)
	f.integer.Members["__abs__"] = &types.Callable{Return: types.Int}
	f.integer.Members["real"] = types.Int
	require.NoError(t, f.classes.Add(f.integer))
	require.NoError(t, f.classes.SetBuiltin("int", f.integer))
	f.classes.Freeze()
	return f
}

func (f *fixture) checker() *Checker { return NewChecker(f.classes, 0) }

func (f *fixture) listOf(t types.Type) *types.Instance { return types.NewInstance(f.list, t) }

func (f *fixture) seqOf(t types.Type) *types.Instance { return types.NewInstance(f.sequence, t) }

func lit(v interface{}) *types.Literal { return types.LiteralOf(v) }

func param(name string, t types.Type) types.Param { return types.Param{Name: name, Type: t} }

func fn(ret types.Type, params ...types.Param) *types.Callable {
	return &types.Callable{Params: params, Return: ret}
}
