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

	"github.com/wdamron/gradual/types"
)

func TestEnvPersistence(t *testing.T) {
	base := NewEnv().Declare("x", types.Optional(types.Int), types.Optional(types.Int))
	narrowed := base.Assign("x", types.Int)

	if got, _ := base.Type("x"); types.TypeString(got) != "int | None" {
		t.Fatalf("Assign modified the original environment: %s", types.TypeString(got))
	}
	if got, _ := narrowed.Type("x"); types.TypeString(got) != "int" {
		t.Fatalf("expected narrowed type int, found %s", types.TypeString(got))
	}
	b, _ := narrowed.Lookup("x")
	assert.Equal(t, "int | None", types.TypeString(b.Declared))

	unbound := base.Declare("y", types.Str, nil)
	_, ok := unbound.Type("y")
	assert.False(t, ok)
	assert.Equal(t, []string{"x", "y"}, unbound.Names())

	var zero Env
	assert.Equal(t, 0, zero.Len())
	assert.Equal(t, 1, zero.Assign("z", types.Int).Len())
}

func TestJoinEnvs(t *testing.T) {
	join := func(a, b types.Type) types.Type { return types.NewUnion(a, b) }
	a := NewEnv().Declare("x", nil, types.Int).Declare("only", nil, types.Str)
	b := NewEnv().Declare("x", nil, types.Str)

	joined := joinEnvs([]*Env{&a, nil, &b}, join)
	got, _ := joined.Type("x")
	assert.Equal(t, "int | str", types.TypeString(got))
	got, _ = joined.Type("only")
	assert.Equal(t, "str", types.TypeString(got))

	assert.Nil(t, joinEnvs([]*Env{nil, nil}, join))
	assert.True(t, sameEnv(joinEnvs([]*Env{&a}, join), &a))
	assert.False(t, sameEnv(&a, &b))
	assert.False(t, sameEnv(&a, nil))
}
