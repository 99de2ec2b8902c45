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

// Recursive is a recursive type or a group of mutually-recursive types, used for structural
// types which refer to themselves (`Self` within a record or protocol).
type Recursive struct {
	// Name is printed in place of a link back into the group.
	Name string
	// Types is an indexed slice containing one or more aliased types.
	// Each aliased type should contain recursive links which point back to this recursive group.
	Types   []Type
	Names   []string
	Indexes map[string]int
}

// NewRecursive creates an empty recursive group.
func NewRecursive(name string) *Recursive { return &Recursive{Name: name} }

// Add a type to the recursive type-group. The index of the type will be returned.
//
// Each type in the recursive type-group must be assigned a unique name, which may be used for looking
// up the type's index within the group.
func (r *Recursive) AddType(name string, aliased Type) int {
	r.Types, r.Names = append(r.Types, aliased), append(r.Names, name)
	if r.Indexes == nil {
		r.Indexes = make(map[string]int)
	}
	r.Indexes[name] = len(r.Types) - 1
	return len(r.Types) - 1
}

// Lookup a type within the recursive type-group by its unique name.
func (r *Recursive) GetType(name string) Type {
	if index, ok := r.Indexes[name]; ok {
		return r.Types[index]
	}
	return nil
}

// Bind the type at index, replacing a placeholder added earlier.
func (r *Recursive) SetType(index int, aliased Type) { r.Types[index] = aliased }

// Recursive link to a type.
type RecursiveLink struct {
	Recursive *Recursive
	Index     int
}

// SelfLink returns a link to the type at index within r.
func (r *Recursive) SelfLink(index int) *RecursiveLink {
	return &RecursiveLink{Recursive: r, Index: index}
}

// Expand the recursively-linked type for t.
func (t *RecursiveLink) Link() Type { return t.Recursive.Types[t.Index] }

// Name of the linked type.
func (t *RecursiveLink) Name() string {
	if t.Index < len(t.Recursive.Names) && t.Recursive.Names[t.Index] != "" {
		return t.Recursive.Names[t.Index]
	}
	return t.Recursive.Name
}
