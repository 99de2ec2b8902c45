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
	"strconv"

	"github.com/wdamron/gradual/types"
)

// Compatible returns nil if a value of type src may be used where dst is expected, otherwise a *Mismatch
// describing the first failure.
func (c *Checker) Compatible(src, dst types.Type) error {
	c.enter()
	defer c.leave()
	return c.compat(src, dst)
}

// IsCompatible reports whether src is compatible with dst.
func (c *Checker) IsCompatible(src, dst types.Type) bool { return c.Compatible(src, dst) == nil }

// Equivalent returns nil if a and b are compatible in both directions. Any on either side is accepted.
func (c *Checker) Equivalent(a, b types.Type) error {
	c.enter()
	defer c.leave()
	return c.equivalent(a, b)
}

func (c *Checker) compat(src, dst types.Type) error {
	if src == dst {
		return nil
	}
	switch {
	case types.IsAny(src) || types.IsAny(dst):
		return nil
	case types.IsNever(src):
		return nil
	case types.IsNever(dst):
		return mismatch(src, dst)
	}

	_, srcLink := src.(*types.RecursiveLink)
	_, dstLink := dst.(*types.RecursiveLink)
	if srcLink || dstLink {
		return c.memoized(src, dst)
	}

	if u, ok := src.(*types.Union); ok {
		for _, m := range u.Members {
			if err := c.compat(m, dst); err != nil {
				return err
			}
		}
		return nil
	}
	if tv, ok := src.(*types.TypeVar); ok {
		return c.compatTypeVar(tv, dst)
	}
	if u, ok := dst.(*types.Union); ok {
		return c.compatUnionTarget(src, u)
	}

	switch dst := dst.(type) {
	case *types.Protocol, *types.Record:
		return c.memoized(src, dst)

	case *types.NoneType:
		if _, ok := src.(*types.NoneType); ok {
			return nil
		}

	case *types.Literal:
		if l, ok := src.(*types.Literal); ok && types.Identical(l, dst) {
			return nil
		}

	case *types.Primitive:
		return c.compatPrimitive(src, dst)

	case *types.Instance:
		return c.compatInstance(src, dst)

	case *types.Tuple:
		return c.compatTuple(src, dst)

	case *types.Callable:
		return c.compatCallableTarget(src, dst)

	case *types.OverloadGroup:
		for i, v := range dst.Variants {
			if err := c.compat(src, v); err != nil {
				return WithPath(err, "variant "+strconv.Itoa(i+1))
			}
		}
		return nil
	}
	return mismatch(src, dst)
}

func (c *Checker) equivalent(a, b types.Type) error {
	if types.IsAny(a) || types.IsAny(b) || types.Identical(a, b) {
		return nil
	}
	if c.compat(a, b) == nil && c.compat(b, a) == nil {
		return nil
	}
	m := mismatch(a, b)
	m.Detail = types.TypeString(a) + " is not equivalent to " + types.TypeString(b)
	return m
}

// memoized checks pairs which may recur through recursive links, protocols and records.
func (c *Checker) memoized(src, dst types.Type) error {
	key := keyOf(src, dst)
	key.nominal = c.nominal
	if e, ok := c.memo.lookup(key); ok {
		if e.verdict == refuted {
			return e.err
		}
		return nil
	}
	if err := c.push(src, dst); err != nil {
		return err
	}
	mark := c.memo.assume(key)
	err := c.structural(src, dst)
	c.pop()
	if err != nil {
		c.memo.retract(mark)
		if KindOf(err) != RecursionLimitExceeded {
			c.memo.refute(key, err)
		}
		return err
	}
	c.memo.confirm(key)
	return nil
}

func (c *Checker) structural(src, dst types.Type) error {
	if link, ok := src.(*types.RecursiveLink); ok {
		return c.compat(link.Link(), dst)
	}
	if link, ok := dst.(*types.RecursiveLink); ok {
		return c.compat(src, link.Link())
	}
	switch dst := dst.(type) {
	case *types.Protocol:
		return c.compatProtocol(src, dst)
	case *types.Record:
		return c.compatRecord(src, dst)
	}
	return c.compat(src, dst)
}

func (c *Checker) compatTypeVar(tv *types.TypeVar, dst types.Type) error {
	if u, ok := dst.(*types.Union); ok {
		for _, m := range u.Members {
			if m == tv {
				return nil
			}
		}
	}
	if len(tv.Constraints) > 0 {
		for _, alt := range tv.Constraints {
			if err := c.compat(alt, dst); err != nil {
				return mismatch(tv, dst)
			}
		}
		return nil
	}
	if tv.Bound != nil {
		if err := c.compat(tv.Bound, dst); err == nil {
			return nil
		}
	}
	if obj := c.builtin("object"); obj != nil {
		if inst, ok := dst.(*types.Instance); ok && inst.Class == obj {
			return nil
		}
	}
	return mismatch(tv, dst)
}

func (c *Checker) compatUnionTarget(src types.Type, dst *types.Union) error {
	var limit error
	for _, m := range dst.Members {
		err := c.compat(src, m)
		if err == nil {
			return nil
		}
		if KindOf(err) == RecursionLimitExceeded {
			limit = err
		}
	}
	if limit != nil {
		return limit
	}
	return mismatch(src, dst)
}

func (c *Checker) compatPrimitive(src types.Type, dst *types.Primitive) error {
	switch s := src.(type) {
	case *types.Primitive:
		if s.DerivesFrom(dst) {
			return nil
		}
		for b := s; b != nil && !c.nominal; b = b.Base {
			if types.Promotes(b, dst) {
				return nil
			}
		}
	case *types.Literal:
		return c.compatPrimitive(s.Base, dst)
	case *types.Instance:
		if cls := c.builtin(dst.Name); cls != nil && s.Class.IsSubclassOf(cls) {
			return nil
		}
	}
	return mismatch(src, dst)
}

func (c *Checker) compatInstance(src types.Type, dst *types.Instance) error {
	var inst *types.Instance
	switch s := src.(type) {
	case *types.Instance:
		inst = s
	case *types.Primitive, *types.Literal, *types.Tuple, *types.NoneType:
		inst = c.builtinInstance(s)
	}
	if inst == nil {
		return mismatch(src, dst)
	}
	mapped := types.MapToBase(inst, dst.Class)
	if mapped == nil {
		m := mismatch(src, dst)
		m.Detail = inst.Class.Name + " is not a subclass of " + dst.Class.Name
		return m
	}
	if len(dst.Class.TypeParams) == 0 {
		return nil
	}
	if err := c.push(mapped, dst); err != nil {
		return err
	}
	defer c.pop()
	for i, tp := range dst.Class.TypeParams {
		if i >= len(mapped.Args) || i >= len(dst.Args) {
			break
		}
		a, b := mapped.Args[i], dst.Args[i]
		var err error
		switch tp.Variance {
		case types.Covariant:
			err = c.compat(a, b)
		case types.Contravariant:
			err = c.compat(b, a)
		default:
			err = c.equivalent(a, b)
		}
		if err != nil {
			return WithPath(err, dst.Class.Name+"["+tp.Name+"]")
		}
	}
	return nil
}

func (c *Checker) compatTuple(src types.Type, dst *types.Tuple) error {
	s, ok := src.(*types.Tuple)
	if !ok {
		return mismatch(src, dst)
	}
	n, k := len(s.Elems), len(dst.Elems)
	if dst.Variadic == nil {
		if s.Variadic != nil {
			return arityMismatch(src, dst, "variable-length tuple used where a fixed-length tuple is expected")
		}
		if n != k {
			return arityMismatch(src, dst, "tuple has "+strconv.Itoa(n)+" elements, expected "+strconv.Itoa(k))
		}
	} else if n < k {
		return arityMismatch(src, dst, "tuple has "+strconv.Itoa(n)+" elements, expected at least "+strconv.Itoa(k))
	}
	for i := 0; i < k; i++ {
		if err := c.compat(s.Elems[i], dst.Elems[i]); err != nil {
			return WithPath(err, "["+strconv.Itoa(i)+"]")
		}
	}
	for i := k; i < n; i++ {
		if err := c.compat(s.Elems[i], dst.Variadic); err != nil {
			return WithPath(err, "["+strconv.Itoa(i)+"]")
		}
	}
	if s.Variadic != nil {
		if err := c.compat(s.Variadic, dst.Variadic); err != nil {
			return WithPath(err, "[...]")
		}
	}
	return nil
}

func (c *Checker) compatCallableTarget(src types.Type, dst *types.Callable) error {
	switch s := src.(type) {
	case *types.Callable:
		return c.compatCallable(s, dst)
	case *types.OverloadGroup:
		for _, v := range s.Variants {
			if c.compat(v, dst) == nil {
				return nil
			}
		}
		return mismatch(src, dst)
	case *types.Instance, *types.Protocol:
		if call, ok := c.memberOf(s, "__call__"); ok {
			return WithPath(c.compat(call, dst), "__call__")
		}
	}
	return mismatch(src, dst)
}

func (c *Checker) compatCallable(src, dst *types.Callable) error {
	if len(src.TypeParams) > 0 {
		inst, err := c.solveAgainst(src, dst)
		if err != nil {
			return err
		}
		src = inst
	}
	pairs, err := pairParams(src, dst)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := c.compat(p.dst.Type, p.src.Type); err != nil {
			return WithPath(err, paramSegment(p.dst))
		}
	}
	if dst.Guard != nil {
		if src.Guard == nil {
			m := mismatch(src, dst)
			m.Detail = "callable is not a type guard"
			return m
		}
		if err := c.compat(src.Guard.Type, dst.Guard.Type); err != nil {
			return WithPath(err, "guard")
		}
	}
	if err := c.compat(src.Return, dst.Return); err != nil {
		return WithPath(err, "return")
	}
	return nil
}

func (c *Checker) compatProtocol(src types.Type, dst *types.Protocol) error {
	for _, name := range dst.MemberNames() {
		have, ok := c.memberOf(src, name)
		if !ok {
			return &Mismatch{Kind: MissingMember, Source: src, Target: dst, Member: name}
		}
		if err := c.compat(have, dst.Members[name]); err != nil {
			return WithPath(err, name)
		}
	}
	return nil
}

func fieldSegment(name string) string { return "[" + strconv.Quote(name) + "]" }

func (c *Checker) compatRecord(src types.Type, dst *types.Record) error {
	s, ok := src.(*types.Record)
	if !ok {
		return mismatch(src, dst)
	}
	var err error
	dst.Fields.Range(func(name string, df types.Field) bool {
		sf, ok := s.Field(name)
		switch {
		case !ok:
			if df.Required {
				err = &Mismatch{Kind: TypeMismatch, Source: src, Target: dst, Member: name, Detail: "missing required field " + strconv.Quote(name)}
			}
		case df.Required && !sf.Required:
			err = &Mismatch{Kind: TypeMismatch, Source: src, Target: dst, Member: name, Detail: "field " + strconv.Quote(name) + " is not required"}
		case df.ReadOnly:
			err = c.compat(sf.Type, df.Type)
		case sf.ReadOnly:
			err = &Mismatch{Kind: TypeMismatch, Source: src, Target: dst, Member: name, Detail: "field " + strconv.Quote(name) + " is read-only"}
		case !df.Required && sf.Required:
			err = &Mismatch{Kind: TypeMismatch, Source: src, Target: dst, Member: name, Detail: "field " + strconv.Quote(name) + " must not be required"}
		default:
			err = c.equivalent(sf.Type, df.Type)
		}
		if err != nil {
			err = WithPath(err, fieldSegment(name))
		}
		return err == nil
	})
	return err
}
