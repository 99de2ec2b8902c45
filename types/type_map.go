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
	"github.com/benbjohnson/immutable"
)

// FieldMap contains immutable mappings from field names to record fields, sorted by name.
type FieldMap struct {
	m *immutable.SortedMap[string, Field]
}

var EmptyFieldMap = FieldMap{immutable.NewSortedMap[string, Field](nil)}

// NewFieldMap creates a FieldMap from a Go map.
func NewFieldMap(fields map[string]Field) FieldMap {
	b := NewFieldMapBuilder()
	for name, f := range fields {
		b.Set(name, f)
	}
	return b.Build()
}

// Get the number of entries in the map.
func (m FieldMap) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Get the field for a name.
func (m FieldMap) Get(name string) (Field, bool) {
	if m.m == nil {
		return Field{}, false
	}
	return m.m.Get(name)
}

// Iterate over entries in the map, sorted by name.
// If f returns false, iteration will be stopped.
func (m FieldMap) Range(f func(string, Field) bool) {
	if m.m == nil {
		return
	}
	iter := m.m.Iterator()
	for !iter.Done() {
		name, field, _ := iter.Next()
		if !f(name, field) {
			return
		}
	}
}

// Names returns the field names in sorted order.
func (m FieldMap) Names() []string {
	names := make([]string, 0, m.Len())
	m.Range(func(name string, _ Field) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Set returns a new map with the field for name replaced, without mutating m.
func (m FieldMap) Set(name string, f Field) FieldMap {
	if m.m == nil {
		m = EmptyFieldMap
	}
	return FieldMap{m.m.Set(name, f)}
}

// Convert the map to a builder for modification, without mutating the existing map.
func (m FieldMap) Builder() FieldMapBuilder {
	b := NewFieldMapBuilder()
	m.Range(func(name string, f Field) bool {
		b.Set(name, f)
		return true
	})
	return b
}

// FieldMapBuilder enables in-place updates of a map before finalization.
type FieldMapBuilder struct {
	b *immutable.SortedMapBuilder[string, Field]
}

func NewFieldMapBuilder() FieldMapBuilder {
	return FieldMapBuilder{immutable.NewSortedMapBuilder[string, Field](nil)}
}

// Get the field for a name in the builder.
func (b FieldMapBuilder) Get(name string) (Field, bool) { return b.b.Get(name) }

// Set the field for the given name in the builder.
func (b FieldMapBuilder) Set(name string, f Field) FieldMapBuilder {
	b.b.Set(name, f)
	return b
}

// Delete the given name and corresponding field from the builder.
func (b FieldMapBuilder) Delete(name string) FieldMapBuilder {
	b.b.Delete(name)
	return b
}

// Finalize the builder into an immutable map. The builder must not be used afterwards.
func (b FieldMapBuilder) Build() FieldMap { return FieldMap{b.b.Map()} }
