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

package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual/types"
)

// testNames resolves the names of a small module with a generic list class.
func testNames(t *testing.T) resolver {
	mod := types.NewModule("test")
	list := types.NewClass("list", types.NewTypeVar("T"))
	require.NoError(t, mod.Classes.Add(list))
	return func(name string, args []types.Type, explicit bool) (types.Type, error) {
		typ := mod.ResolveName(name, args...)
		if _, generic := typ.(*types.Instance); typ != nil && (generic || !explicit) {
			return typ, nil
		}
		return nil, assert.AnError
	}
}

func TestParseRoundTrip(t *testing.T) {
	names := testNames(t)
	for _, src := range []string{
		"int",
		"int | None",
		"list[int | str]",
		"tuple[int, str]",
		"tuple[int, ...]",
		"Literal[1]",
		"Literal[\"a\"] | Literal[b\"b\"] | Literal[True]",
		"() -> None",
		"(int, /) -> int",
		"[T](a: T, /, b: int = ..., *args: int, k: str, **kw: Any) -> T",
		"(*, k: int) -> None",
		"(x: Any) -> TypeIs[int]",
		"(x: Any) -> TypeGuard[str]",
		"(() -> int) | None",
		"(f: (x: int) -> str) -> list[str]",
		"Never",
	} {
		typ, err := parseType(src, names, nil)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got := types.TypeString(typ); got != src {
			t.Fatalf("expected %s, found %s", src, got)
		}
	}
}

func TestParseSugar(t *testing.T) {
	names := testNames(t)
	for _, test := range []struct{ src, want string }{
		{"Optional[int]", "int | None"},
		{"Union[int, str, int]", "int | str"},
		{"Literal[1, -2, None]", "Literal[1] | Literal[-2] | None"},
		{"Literal['single']", "Literal[\"single\"]"},
		{"tuple", "tuple[Any, ...]"},
		{"Tuple[int, str,]", "tuple[int, str]"},
		{"list", "list[Any]"},
		{"(int)", "int"},
		{"(x: int = ..., /) -> int", "(x: int = ..., /) -> int"},
		{"NoReturn", "Never"},
		{"tuple[()]", "tuple[]"},
	} {
		typ, err := parseType(test.src, names, nil)
		require.NoError(t, err, test.src)
		assert.Equal(t, test.want, types.TypeString(typ), test.src)
	}
}

func TestParseCallableParams(t *testing.T) {
	sig, err := parseCallable("[T: int, S in (str, bytes), U+](x: T, /, y: S, *rest: U, flag: bool = ..., **kw: int) -> T",
		testNames(t), nil)
	require.NoError(t, err)

	require.Len(t, sig.TypeParams, 3)
	assert.Same(t, types.Int, sig.TypeParams[0].Bound)
	assert.Equal(t, []types.Type{types.Str, types.Bytes}, sig.TypeParams[1].Constraints)
	assert.Equal(t, types.Covariant, sig.TypeParams[2].Variance)

	var kinds []types.ParamKind
	for _, p := range sig.Params {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []types.ParamKind{types.PositionalOnly, types.Positional, types.VarPositional, types.KeywordOnly, types.VarKeyword}, kinds)
	assert.True(t, sig.Params[3].HasDefault)
	assert.Same(t, sig.TypeParams[0], sig.Return)
	assert.Same(t, sig.TypeParams[2], sig.Params[2].Type)
}

func TestParseErrors(t *testing.T) {
	names := testNames(t)
	for _, src := range []string{
		"",
		"list[",
		"int |",
		"Unknown",
		"int[str]",
		"Literal[]",
		"Literal[int]",
		"tuple[..., int]",
		"tuple[int, str, ...]",
		"(x: int = ..., y: int) -> None",
		"(**kw: int, x: int) -> None",
		"(*, int) -> None",
		"(*, x: int, /) -> None",
		"(x: int) -> TypeGuard",
		"TypeIs[int]",
		"[T]",
		"[T in (int)](x: T) -> T",
		"int str",
		"'unterminated",
		"int & str",
	} {
		if _, err := parseType(src, names, nil); err == nil {
			t.Fatalf("expected an error parsing %q", src)
		}
	}

	_, err := parseType("list[int", names, nil)
	require.Error(t, err)
	assert.Equal(t, `invalid type expression "list[int": expected ',' or ']', found end of input at offset 8`, err.Error())

	_, err = parseCallable("int", names, nil)
	assert.Error(t, err)
}

func TestParseFields(t *testing.T) {
	names := testNames(t)
	for _, test := range []struct {
		src      string
		total    bool
		required bool
		readOnly bool
		typ      string
	}{
		{"int", true, true, false, "int"},
		{"int", false, false, false, "int"},
		{"NotRequired[str]", true, false, false, "str"},
		{"Required[str]", false, true, false, "str"},
		{"ReadOnly[NotRequired[list[int]]]", true, false, true, "list[int]"},
	} {
		f, err := parseField(test.src, test.total, names, nil)
		require.NoError(t, err, test.src)
		assert.Equal(t, test.required, f.Required, test.src)
		assert.Equal(t, test.readOnly, f.ReadOnly, test.src)
		assert.Equal(t, test.typ, types.TypeString(f.Type), test.src)
	}

	_, err := parseField("ReadOnly[int", true, names, nil)
	assert.Error(t, err)
}

func TestTypeParamHeads(t *testing.T) {
	tv, p, err := parseTypeParamHead("T- : Sequence")
	require.NoError(t, err)
	assert.Equal(t, "T", tv.Name)
	assert.Equal(t, types.Contravariant, tv.Variance)

	seq := types.NewClass("Sequence")
	names := func(name string, args []types.Type, explicit bool) (types.Type, error) {
		if name == "Sequence" {
			return types.NewInstance(seq), nil
		}
		return nil, assert.AnError
	}
	require.NoError(t, p.finishTypeParam(tv, names, nil))
	assert.Equal(t, "Sequence", types.TypeString(tv.Bound))

	assert.Equal(t, []string{"Box", "int", "Self"}, identifiers("Box[int] | Self"))
	assert.Nil(t, identifiers("'unterminated"))
}
