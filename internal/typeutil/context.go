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

// DefaultMaxDepth bounds nested structural and generic checks.
const DefaultMaxDepth = 64

// Checker decides compatibility between types and solves type-variables for calls.
//
// A Checker carries per-call state (the memo table and the current depth) and is not safe for
// concurrent use. The memo table is cleared when the outermost exported method returns.
type Checker struct {
	// Classes backs primitives, tuples and containers with builtin classes. It may be nil.
	Classes  *types.ClassTable
	MaxDepth int

	memo   memo
	depth  int
	active int
	// nominal disables numeric promotions, for isinstance narrowing.
	nominal bool
}

// NewChecker creates a checker which resolves builtin classes through classes.
func NewChecker(classes *types.ClassTable, maxDepth int) *Checker {
	return &Checker{Classes: classes, MaxDepth: maxDepth}
}

func (c *Checker) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c *Checker) enter() { c.active++ }

func (c *Checker) leave() {
	c.active--
	if c.active == 0 {
		c.memo.reset()
		c.depth = 0
		c.nominal = false
	}
}

// push increments the depth, failing once the cap is reached. pop must be called after a successful push.
func (c *Checker) push(src, dst types.Type) error {
	if c.depth >= c.maxDepth() {
		return &Mismatch{Kind: RecursionLimitExceeded, Source: src, Target: dst, Detail: "recursion limit exceeded"}
	}
	c.depth++
	return nil
}

func (c *Checker) pop() { c.depth-- }

func (c *Checker) builtin(name string) *types.ClassDef {
	return c.Classes.Builtin(name)
}

// builtinInstance views a primitive, literal, tuple or None through the builtin class backing it.
func (c *Checker) builtinInstance(t types.Type) *types.Instance {
	switch t := t.(type) {
	case *types.Primitive:
		if cls := c.builtin(t.Name); cls != nil {
			return types.NewInstance(cls)
		}
	case *types.Literal:
		return c.builtinInstance(t.Base)
	case *types.NoneType:
		if cls := c.builtin("None"); cls != nil {
			return types.NewInstance(cls)
		}
	case *types.Tuple:
		cls := c.builtin("tuple")
		if cls == nil {
			return nil
		}
		elems := append([]types.Type(nil), t.Elems...)
		if t.Variadic != nil {
			elems = append(elems, t.Variadic)
		}
		if len(cls.TypeParams) == 0 {
			return types.NewInstance(cls)
		}
		return types.NewInstance(cls, c.joinAll(elems))
	}
	return nil
}

// asInstance views t as an instance of class cls, mapping type-arguments through the declared bases.
func (c *Checker) asInstance(t types.Type, cls *types.ClassDef) *types.Instance {
	inst, ok := t.(*types.Instance)
	if !ok {
		inst = c.builtinInstance(t)
	}
	if inst == nil {
		return nil
	}
	return types.MapToBase(inst, cls)
}

// MemberOf finds the type of a member on t, as seen from a value of type t.
func (c *Checker) MemberOf(t types.Type, name string) (types.Type, bool) {
	c.enter()
	defer c.leave()
	return c.memberOf(t, name)
}

func (c *Checker) memberOf(t types.Type, name string) (types.Type, bool) {
	switch t := t.(type) {
	case *types.AnyType:
		return types.Any, true
	case *types.Instance:
		return types.LookupMember(t, name)
	case *types.Primitive, *types.Literal, *types.Tuple, *types.NoneType:
		if inst := c.builtinInstance(t); inst != nil {
			return types.LookupMember(inst, name)
		}
	case *types.Protocol:
		m, ok := t.Members[name]
		return m, ok
	case *types.Record:
		if f, ok := t.Field(name); ok && f.Required {
			return f.Type, true
		}
	case *types.Callable, *types.OverloadGroup:
		if name == "__call__" {
			return t, true
		}
	case *types.TypeVar:
		if t.Bound != nil {
			return c.memberOf(t.Bound, name)
		}
		if len(t.Constraints) > 0 {
			return c.memberOf(types.NewUnion(t.Constraints...), name)
		}
	case *types.RecursiveLink:
		return c.memberOf(t.Link(), name)
	case *types.Union:
		members := make([]types.Type, 0, len(t.Members))
		for _, m := range t.Members {
			mt, ok := c.memberOf(m, name)
			if !ok {
				return nil, false
			}
			members = append(members, mt)
		}
		return types.NewUnion(members...), true
	}
	return nil, false
}

// callableOf views t as a callable: callables, the first variant of overload groups, and objects with `__call__`.
func (c *Checker) callableOf(t types.Type) *types.Callable {
	switch t := t.(type) {
	case *types.Callable:
		return t
	case *types.OverloadGroup:
		if len(t.Variants) > 0 {
			return t.Variants[0]
		}
	case *types.Instance, *types.Protocol, *types.RecursiveLink, *types.TypeVar:
		if call, ok := c.memberOf(t, "__call__"); ok {
			if call, ok := call.(*types.Callable); ok {
				return call
			}
		}
	}
	return nil
}
