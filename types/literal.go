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
	"strconv"
)

// Literal type: `Literal[1]`, `Literal["a"]`, `Literal[True]`
//
// Value is an int64, string or bool, and must match the kind of Base.
type Literal struct {
	Value interface{}
	Base  *Primitive
}

// NewLiteral creates a literal type, checking that the kind of v matches base.
// Go integer kinds are normalized to int64.
func NewLiteral(v interface{}, base *Primitive) (*Literal, error) {
	v = normalizeLiteral(v)
	switch v.(type) {
	case int64:
		if base != Int {
			return nil, errors.New("Integer literal must have base int, not " + primitiveName(base))
		}
	case bool:
		if base != Bool {
			return nil, errors.New("Boolean literal must have base bool, not " + primitiveName(base))
		}
	case string:
		if base != Str && base != Bytes {
			return nil, errors.New("String literal must have base str or bytes, not " + primitiveName(base))
		}
	default:
		return nil, errors.New("Unsupported literal value")
	}
	return &Literal{Value: v, Base: base}, nil
}

// LiteralOf creates a literal type, choosing the base from the kind of v.
// nil is returned for unsupported values.
func LiteralOf(v interface{}) *Literal {
	v = normalizeLiteral(v)
	var base *Primitive
	switch v.(type) {
	case int64:
		base = Int
	case bool:
		base = Bool
	case string:
		base = Str
	default:
		return nil
	}
	return &Literal{Value: v, Base: base}
}

func normalizeLiteral(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	}
	return v
}

func primitiveName(p *Primitive) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name
}

// Truthy reports whether the literal value is truthy.
func (t *Literal) Truthy() bool {
	switch v := t.Value.(type) {
	case int64:
		return v != 0
	case bool:
		return v
	case string:
		return v != ""
	}
	return true
}

// Widen replaces literal types (including union members) with their base primitives.
func Widen(t Type) Type {
	switch t := t.(type) {
	case *Literal:
		return t.Base
	case *Union:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Widen(m)
		}
		return NewUnion(members...)
	}
	return t
}

func literalString(t *Literal) string {
	switch v := t.Value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		if t.Base == Bytes {
			return "b" + strconv.Quote(v)
		}
		return strconv.Quote(v)
	}
	return "?"
}
