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
	set "github.com/hashicorp/go-set/v2"
)

// NewUnion creates a flattened union of ts. Nested unions are flattened, duplicates (by structural
// identity) and Never members are dropped. An empty union is Never and a single member is returned as-is.
func NewUnion(ts ...Type) Type {
	seen := set.New[string](len(ts))
	members := make([]Type, 0, len(ts))
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case nil, *NeverType:
			return
		case *Union:
			for _, m := range t.Members {
				add(m)
			}
			return
		}
		if seen.Insert(TypeKey(t)) {
			members = append(members, t)
		}
	}
	for _, t := range ts {
		add(t)
	}
	switch len(members) {
	case 0:
		return Never
	case 1:
		return members[0]
	}
	return &Union{Members: members}
}

// Optional creates the union of t and None.
func Optional(t Type) Type { return NewUnion(t, None) }

// Members decomposes t into its union members. Non-union types are returned as a single member;
// Never has no members.
func Members(t Type) []Type {
	switch t := t.(type) {
	case *Union:
		return t.Members
	case *NeverType:
		return nil
	}
	return []Type{t}
}

// Without returns the union of the members of t for which drop returns false.
func Without(t Type, drop func(Type) bool) Type {
	members := Members(t)
	kept := make([]Type, 0, len(members))
	for _, m := range members {
		if !drop(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) {
		return t
	}
	return NewUnion(kept...)
}

// ContainsNone reports whether None is a member of t.
func ContainsNone(t Type) bool {
	for _, m := range Members(t) {
		if _, ok := m.(*NoneType); ok {
			return true
		}
	}
	return false
}
