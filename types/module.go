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

// Module is the declaration table of one compilation unit, as produced by a loader.
// It is treated as immutable once loading completes.
type Module struct {
	Name    string
	Classes *ClassTable
	// Exports maps exported names to their types (callables, overload groups, constants).
	Exports map[string]Type
	// Protocols and Records are named structural types declared by the module.
	Protocols map[string]*Protocol
	Records   map[string]*Record
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Classes:   NewClassTable(),
		Exports:   make(map[string]Type),
		Protocols: make(map[string]*Protocol),
		Records:   make(map[string]*Record),
	}
}

// Lookup an exported name.
func (m *Module) Lookup(name string) (Type, bool) {
	if m == nil {
		return nil, false
	}
	t, ok := m.Exports[name]
	return t, ok
}

// OverloadGroups returns every exported overload group, sorted by name.
func (m *Module) OverloadGroups() []*OverloadGroup {
	var groups []*OverloadGroup
	for _, name := range sortedKeys(m.Exports) {
		if g, ok := m.Exports[name].(*OverloadGroup); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// ResolveName finds a class, protocol or record declared by the module and returns its type,
// instantiated with args. Primitives and the special types are also resolved.
func (m *Module) ResolveName(name string, args ...Type) Type {
	switch name {
	case "Any":
		return Any
	case "Never", "NoReturn":
		return Never
	case "None":
		return None
	}
	if p := LookupPrimitive(name); p != nil {
		return p
	}
	if m == nil {
		return nil
	}
	if c := m.Classes.Lookup(name); c != nil {
		return NewInstance(c, args...)
	}
	if p, ok := m.Protocols[name]; ok {
		if len(args) > 0 {
			return p.Apply(args...)
		}
		return p
	}
	if r, ok := m.Records[name]; ok {
		return r
	}
	return nil
}
