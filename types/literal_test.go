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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLiteralValidatesBase(t *testing.T) {
	for _, tc := range []struct {
		value interface{}
		base  *Primitive
		ok    bool
	}{
		{1, Int, true},
		{int64(1), Int, true},
		{true, Bool, true},
		{"a", Str, true},
		{"a", Bytes, true},
		{1, Str, false},
		{true, Int, false},
		{"a", Int, false},
		{1.5, Float, false},
		{1, Bool, false},
	} {
		_, err := NewLiteral(tc.value, tc.base)
		assert.Equal(t, tc.ok, err == nil, "%v as %s", tc.value, tc.base.Name)
	}
}

func TestLiteralHelpers(t *testing.T) {
	b, err := NewLiteral("x", Bytes)
	require.NoError(t, err)
	assert.Equal(t, `Literal[b"x"]`, TypeString(b))
	assert.Equal(t, "Literal[True]", TypeString(LiteralOf(true)))
	assert.Equal(t, `Literal["a"]`, TypeString(LiteralOf("a")))
	assert.Nil(t, LiteralOf(1.5))

	assert.False(t, LiteralOf(0).Truthy())
	assert.True(t, LiteralOf("a").Truthy())
	assert.False(t, LiteralOf(false).Truthy())

	assert.Equal(t, "int | str", TypeString(Widen(NewUnion(LiteralOf(1), LiteralOf(2), LiteralOf("a")))))
	assert.True(t, Identical(LiteralOf(3), LiteralOf(int64(3))))
	assert.False(t, Identical(LiteralOf(1), LiteralOf(true)))
}
