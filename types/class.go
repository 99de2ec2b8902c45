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
	"sort"

	set "github.com/hashicorp/go-set/v2"
)

// ClassDef is a nominal class declaration. Classes are compared by identity.
type ClassDef struct {
	Name       string
	TypeParams []*TypeVar
	// Bases are the declared base classes, instantiated over the class's own type-parameters.
	Bases []*Instance
	// MRO is the C3 linearization of the class and its ancestors (starting with the class itself).
	// It is computed once by Linearize.
	MRO []*ClassDef
	// Members are typed as seen from an instance: methods do not include the receiver.
	Members   map[string]Type
	Abstract  *set.Set[string]
	Overrides *set.Set[string]
	Metaclass *ClassDef
	Final     bool
}

// NewClass creates a class declaration with the given type-parameters.
func NewClass(name string, params ...*TypeVar) *ClassDef {
	return &ClassDef{
		Name:       name,
		TypeParams: params,
		Members:    make(map[string]Type),
		Abstract:   set.New[string](0),
		Overrides:  set.New[string](0),
	}
}

// AddBase declares base as a direct base class. Bases must be added before the class is linearized.
func (c *ClassDef) AddBase(base *ClassDef, args ...Type) *ClassDef {
	c.Bases = append(c.Bases, NewInstance(base, args...))
	return c
}

// Linearize computes the C3 method resolution order of c. The MROs of the bases must already be computed.
func (c *ClassDef) Linearize() error {
	seqs := make([][]*ClassDef, 0, len(c.Bases)+1)
	direct := make([]*ClassDef, 0, len(c.Bases))
	for _, b := range c.Bases {
		if b.Class == c {
			return errors.New("Class " + c.Name + " cannot inherit from itself")
		}
		if b.Class.Final {
			return errors.New("Class " + c.Name + " cannot inherit from final class " + b.Class.Name)
		}
		if len(b.Class.MRO) == 0 {
			return errors.New("Base class " + b.Class.Name + " of " + c.Name + " has not been linearized")
		}
		seqs = append(seqs, append([]*ClassDef(nil), b.Class.MRO...))
		direct = append(direct, b.Class)
	}
	seqs = append(seqs, direct)
	mro := []*ClassDef{c}
	for {
		nonEmpty := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				nonEmpty = append(nonEmpty, s)
			}
		}
		seqs = nonEmpty
		if len(seqs) == 0 {
			c.MRO = mro
			return nil
		}
		var head *ClassDef
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == nil {
			return errors.New("Cannot create a consistent method resolution order for " + c.Name)
		}
		mro = append(mro, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(c *ClassDef, seqs [][]*ClassDef) bool {
	for _, s := range seqs {
		for _, t := range s[1:] {
			if t == c {
				return true
			}
		}
	}
	return false
}

// IsSubclassOf reports whether base occurs in the MRO of c.
func (c *ClassDef) IsSubclassOf(base *ClassDef) bool {
	if c == base {
		return true
	}
	for _, m := range c.MRO {
		if m == base {
			return true
		}
	}
	return false
}

// Lookup finds the declaration of a member in MRO order, returning the declaring class.
func (c *ClassDef) Lookup(name string) (Type, *ClassDef, bool) {
	mro := c.MRO
	if len(mro) == 0 {
		mro = []*ClassDef{c}
	}
	for _, m := range mro {
		if t, ok := m.Members[name]; ok {
			return t, m, true
		}
	}
	return nil, nil, false
}

// MemberNames returns the names of every member visible on instances of c, sorted.
func (c *ClassDef) MemberNames() []string {
	names := set.New[string](len(c.Members))
	for _, m := range c.MRO {
		for name := range m.Members {
			names.Insert(name)
		}
	}
	for name := range c.Members {
		names.Insert(name)
	}
	out := names.Slice()
	sort.Strings(out)
	return out
}

// IsAbstract reports whether any member which is abstract in the MRO is left unimplemented.
func (c *ClassDef) IsAbstract() bool { return len(c.UnimplementedAbstract()) > 0 }

// UnimplementedAbstract returns the abstract members of c's ancestors which no class in the MRO implements
// before the class that declared them abstract.
func (c *ClassDef) UnimplementedAbstract() []string {
	var missing []string
	seen := set.New[string](0)
	for _, m := range c.MRO {
		if m.Abstract == nil {
			continue
		}
		for _, name := range m.Abstract.Slice() {
			if !seen.Insert(name) {
				continue
			}
			_, declaring, ok := c.Lookup(name)
			if !ok || declaring == m || (declaring.Abstract != nil && declaring.Abstract.Contains(name)) {
				missing = append(missing, name)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

// MapToBase maps an instance onto one of its ancestor classes through the declared bases,
// substituting type-arguments along the way. nil is returned when base is not an ancestor.
func MapToBase(inst *Instance, base *ClassDef) *Instance {
	if inst.Class == base {
		return inst
	}
	if !inst.Class.IsSubclassOf(base) {
		return nil
	}
	b := Bind(inst.Class.TypeParams, inst.Args)
	for _, decl := range inst.Class.Bases {
		if mapped := MapToBase(Subst(decl, b).(*Instance), base); mapped != nil {
			return mapped
		}
	}
	return nil
}

// LookupMember finds a member of an instance, with the type-arguments of the declaring class substituted.
func LookupMember(inst *Instance, name string) (Type, bool) {
	t, declaring, ok := inst.Class.Lookup(name)
	if !ok {
		return nil, false
	}
	mapped := MapToBase(inst, declaring)
	if mapped == nil {
		return t, true
	}
	return Subst(t, Bind(declaring.TypeParams, mapped.Args)), true
}

// ClassTable is a registry of class declarations for one compilation unit.
//
// Builtin classes back primitive types, tuples and container displays (`int`, `tuple`, `list`, `dict`):
// their members are used for structural checks against primitives and tuples.
type ClassTable struct {
	classes  map[string]*ClassDef
	builtins map[string]*ClassDef
	frozen   bool
}

func NewClassTable() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassDef), builtins: make(map[string]*ClassDef)}
}

// Add registers a class. The class is linearized if its MRO has not been computed.
func (ct *ClassTable) Add(c *ClassDef) error {
	if ct.frozen {
		return errors.New("Class table is frozen")
	}
	if _, exists := ct.classes[c.Name]; exists {
		return errors.New("Class " + c.Name + " is already declared")
	}
	if len(c.MRO) == 0 {
		if err := c.Linearize(); err != nil {
			return err
		}
	}
	ct.classes[c.Name] = c
	return nil
}

// SetBuiltin registers the class which backs a primitive or builtin container.
func (ct *ClassTable) SetBuiltin(name string, c *ClassDef) error {
	if ct.frozen {
		return errors.New("Class table is frozen")
	}
	ct.builtins[name] = c
	return nil
}

// Freeze prevents further registrations.
func (ct *ClassTable) Freeze() { ct.frozen = true }

// Lookup a class by name.
func (ct *ClassTable) Lookup(name string) *ClassDef {
	if ct == nil {
		return nil
	}
	return ct.classes[name]
}

// Builtin returns the class backing a primitive or builtin container, or nil.
func (ct *ClassTable) Builtin(name string) *ClassDef {
	if ct == nil {
		return nil
	}
	return ct.builtins[name]
}

// Classes returns every registered class, sorted by name.
func (ct *ClassTable) Classes() []*ClassDef {
	if ct == nil {
		return nil
	}
	out := make([]*ClassDef, 0, len(ct.classes))
	for _, name := range sortedKeys(ct.classes) {
		out = append(out, ct.classes[name])
	}
	return out
}
