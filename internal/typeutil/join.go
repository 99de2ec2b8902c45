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

package typeutil

import (
	"github.com/wdamron/gradual/types"
)

// Join returns the least upper bound of a and b: the wider type when one is compatible with the other,
// otherwise their union.
func (c *Checker) Join(a, b types.Type) types.Type {
	c.enter()
	defer c.leave()
	return c.join(a, b)
}

func (c *Checker) join(a, b types.Type) types.Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case c.compat(a, b) == nil:
		return b
	case c.compat(b, a) == nil:
		return a
	}
	return types.NewUnion(a, b)
}

func (c *Checker) joinAll(ts []types.Type) types.Type {
	var j types.Type
	for _, t := range ts {
		j = c.join(j, t)
	}
	if j == nil {
		return types.Never
	}
	return j
}

// Meet returns the type of a value known to have both type a and type b, as used when narrowing a
// value of type a by a test against b. Members of a are narrowed independently; disjoint members are dropped.
func (c *Checker) Meet(a, b types.Type) types.Type {
	c.enter()
	defer c.leave()
	return c.meet(a, b, false)
}

// MeetInstance narrows a by an isinstance test against b. A member of a passes the test unchanged only
// when it is a nominal subtype of b: numeric promotions do not make an int an instance of float.
func (c *Checker) MeetInstance(a, b types.Type) types.Type {
	c.enter()
	defer c.leave()
	return c.meet(a, b, true)
}

func (c *Checker) meet(a, b types.Type, nominal bool) types.Type {
	switch {
	case types.IsAny(a):
		return b
	case types.IsAny(b):
		return a
	}
	if u, ok := b.(*types.Union); ok {
		parts := make([]types.Type, len(u.Members))
		for i, m := range u.Members {
			parts[i] = c.meet(a, m, nominal)
		}
		return types.NewUnion(parts...)
	}
	if u, ok := a.(*types.Union); ok {
		parts := make([]types.Type, len(u.Members))
		for i, m := range u.Members {
			parts[i] = c.meet(m, b, nominal)
		}
		return types.NewUnion(parts...)
	}
	switch {
	case c.subsumed(a, b, nominal):
		return a
	case c.compat(b, a) == nil:
		return b
	case c.disjointIn(a, b, nominal):
		return types.Never
	}
	return b
}

// subsumed reports whether every value of a is also a value of b. When nominal is set, numeric
// promotions are not applied.
func (c *Checker) subsumed(a, b types.Type, nominal bool) bool {
	prev := c.nominal
	c.nominal = nominal
	err := c.compat(a, b)
	c.nominal = prev
	return err == nil
}

// Exclude removes the members of t which are compatible with guard. Any is returned unchanged.
func (c *Checker) Exclude(t, guard types.Type) types.Type {
	c.enter()
	defer c.leave()
	return c.exclude(t, guard, false)
}

// ExcludeInstance removes the members of t which always pass an isinstance test against guard.
func (c *Checker) ExcludeInstance(t, guard types.Type) types.Type {
	c.enter()
	defer c.leave()
	return c.exclude(t, guard, true)
}

func (c *Checker) exclude(t, guard types.Type, nominal bool) types.Type {
	if types.IsAny(t) || types.IsAny(guard) {
		return t
	}
	return types.Without(t, func(m types.Type) bool { return c.subsumed(m, guard, nominal) })
}

// Disjoint reports whether no value can have both type a and type b.
func (c *Checker) Disjoint(a, b types.Type) bool {
	c.enter()
	defer c.leave()
	return c.disjoint(a, b)
}

func (c *Checker) disjointIn(a, b types.Type, nominal bool) bool {
	prev := c.nominal
	c.nominal = nominal
	d := c.disjoint(a, b)
	c.nominal = prev
	return d
}

type category int

const (
	catOther category = iota
	catNone
	catPrimitive
	catTuple
	catInstance
	catCallable
)

func categorize(t types.Type) category {
	switch t.(type) {
	case *types.NoneType:
		return catNone
	case *types.Primitive, *types.Literal:
		return catPrimitive
	case *types.Tuple:
		return catTuple
	case *types.Instance:
		return catInstance
	case *types.Callable, *types.OverloadGroup:
		return catCallable
	}
	return catOther
}

// disjoint is conservative: it is only true for combinations which cannot share a value
// (distinct primitives, None against non-None, final classes, unrelated builtin-backed types).
func (c *Checker) disjoint(a, b types.Type) bool {
	if c.compat(a, b) == nil || c.compat(b, a) == nil {
		return false
	}
	ka, kb := categorize(a), categorize(b)
	switch {
	case ka == catOther || kb == catOther:
		return false
	case ka == catCallable && kb == catCallable:
		return false
	case ka == catInstance && kb == catInstance:
		return anyFinal(a, b)
	case ka == catInstance:
		return !c.backedBy(b, a.(*types.Instance).Class)
	case kb == catInstance:
		return !c.backedBy(a, b.(*types.Instance).Class)
	}
	return true
}

func related(a, b *types.ClassDef) bool { return a.IsSubclassOf(b) || b.IsSubclassOf(a) }

func anyFinal(ts ...types.Type) bool {
	for _, t := range ts {
		if inst, ok := t.(*types.Instance); ok && inst.Class.Final {
			return true
		}
	}
	return false
}

// backedBy reports whether the builtin class backing t is related to cls.
func (c *Checker) backedBy(t types.Type, cls *types.ClassDef) bool {
	inst := c.builtinInstance(t)
	return inst != nil && related(inst.Class, cls)
}
