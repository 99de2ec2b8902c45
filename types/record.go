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
	"errors"
)

// Field of a record type.
type Field struct {
	Type     Type
	Required bool
	ReadOnly bool
}

// Record type (structurally-checked shape): `{name: str, year: int}`
type Record struct {
	// Name is empty for anonymous records.
	Name   string
	Fields FieldMap
}

// NewRecord creates a record type from a Go map of fields.
func NewRecord(name string, fields map[string]Field) *Record {
	return &Record{Name: name, Fields: NewFieldMap(fields)}
}

func (t *Record) IsGeneric() bool {
	generic := false
	t.Fields.Range(func(_ string, f Field) bool {
		generic = f.Type.IsGeneric()
		return !generic
	})
	return generic
}

// Field returns the declared field for name.
func (t *Record) Field(name string) (Field, bool) { return t.Fields.Get(name) }

func (t *Record) subst(b Bindings) *Record {
	fb := NewFieldMapBuilder()
	t.Fields.Range(func(name string, f Field) bool {
		f.Type = Subst(f.Type, b)
		fb.Set(name, f)
		return true
	})
	return &Record{Name: t.Name, Fields: fb.Build()}
}

// ExtendRecord creates a record named name with the fields of bases (in order) merged with fields.
//
// Field metadata is never loosened by a redeclaration: a required field stays required, a mutable
// field may not become read-only or change its type, and a read-only field may only be redeclared
// with a type for which isSubtype(redeclared, inherited) holds.
func ExtendRecord(name string, bases []*Record, fields map[string]Field, isSubtype func(a, b Type) bool) (*Record, error) {
	fb := NewFieldMapBuilder()
	merge := func(fname string, f Field) error {
		prev, ok := fb.Get(fname)
		if !ok {
			fb.Set(fname, f)
			return nil
		}
		if err := checkRedeclaration(fname, prev, f, isSubtype); err != nil {
			return err
		}
		fb.Set(fname, f)
		return nil
	}
	for _, base := range bases {
		var err error
		base.Fields.Range(func(fname string, f Field) bool {
			err = merge(fname, f)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
	}
	for _, fname := range sortedKeys(fields) {
		if err := merge(fname, fields[fname]); err != nil {
			return nil, err
		}
	}
	return &Record{Name: name, Fields: fb.Build()}, nil
}

func checkRedeclaration(name string, prev, next Field, isSubtype func(a, b Type) bool) error {
	if prev.Required && !next.Required {
		return errors.New("Field " + name + " cannot be redeclared as not required")
	}
	if prev.ReadOnly {
		if !isSubtype(next.Type, prev.Type) {
			return errors.New("Read-only field " + name + " must be redeclared with a compatible type")
		}
		return nil
	}
	if next.ReadOnly {
		return errors.New("Mutable field " + name + " cannot be redeclared as read-only")
	}
	if !prev.Required && next.Required {
		return errors.New("Mutable field " + name + " cannot be redeclared as required")
	}
	if !Identical(prev.Type, next.Type) {
		return errors.New("Mutable field " + name + " cannot change its type")
	}
	return nil
}
