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

// subtypeForTest only relates bool to int, which is enough for redeclaration checks.
func subtypeForTest(a, b Type) bool {
	return Identical(a, b) || (a == Bool && b == Int)
}

func TestExtendRecordMergesFields(t *testing.T) {
	base := NewRecord("Base", map[string]Field{
		"id":   {Type: Int, Required: true, ReadOnly: true},
		"name": {Type: Str, Required: true},
	})
	ext, err := ExtendRecord("Ext", []*Record{base}, map[string]Field{
		"id":   {Type: Bool, Required: true, ReadOnly: true},
		"note": {Type: Str},
	}, subtypeForTest)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "note"}, ext.Fields.Names())
	id, _ := ext.Field("id")
	assert.Same(t, Bool, id.Type)
	assert.Equal(t, 2, base.Fields.Len(), "bases are not modified")
}

func TestExtendRecordNeverLoosens(t *testing.T) {
	base := NewRecord("Base", map[string]Field{
		"req": {Type: Int, Required: true},
		"ro":  {Type: Int, Required: true, ReadOnly: true},
		"opt": {Type: Int},
	})
	for name, f := range map[string]Field{
		"req": {Type: Int},
		"ro":  {Type: Str, Required: true, ReadOnly: true},
		"opt": {Type: Int, ReadOnly: true},
	} {
		_, err := ExtendRecord("Bad", []*Record{base}, map[string]Field{name: f}, subtypeForTest)
		assert.Error(t, err, name)
	}
	_, err := ExtendRecord("Bad", []*Record{base}, map[string]Field{"opt": {Type: Int, Required: true}}, subtypeForTest)
	assert.Error(t, err, "mutable fields cannot become required")
	_, err = ExtendRecord("Bad", []*Record{base}, map[string]Field{"req": {Type: Bool, Required: true}}, subtypeForTest)
	assert.Error(t, err, "mutable fields cannot change type")
	_, err = ExtendRecord("Ok", []*Record{base}, map[string]Field{"req": {Type: Int, Required: true}}, subtypeForTest)
	assert.NoError(t, err)
}

func TestFieldMapIsPersistent(t *testing.T) {
	m := NewFieldMap(map[string]Field{"a": {Type: Int, Required: true}})
	m2 := m.Set("b", Field{Type: Str})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, m2.Len())
	b := m2.Builder()
	b.Delete("a")
	m3 := b.Build()
	assert.Equal(t, []string{"b"}, m3.Names())
	assert.Equal(t, []string{"a", "b"}, m2.Names())
	var zero FieldMap
	assert.Equal(t, 0, zero.Len())
	_, ok := zero.Get("a")
	assert.False(t, ok)
}
