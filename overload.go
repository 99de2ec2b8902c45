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

package gradual

import (
	"strconv"
	"strings"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

// Resolution is the variant of an overload group selected for a call.
type Resolution struct {
	// Variant is the declared signature of the selected variant, and Index its position in the group.
	Variant *types.Callable
	Index   int
	// Signature is Variant instantiated with Bindings.
	Signature *types.Callable
	Bindings  types.Bindings
	Return    types.Type
	// Ambiguous is set when an argument is Any and a later variant also matches with an incompatible
	// return type. Return is Any for ambiguous calls.
	Ambiguous bool
	ArgTypes  []types.Type
}

// Resolve selects the first variant of group which accepts args. Variants are tried strictly in
// declaration order. A group without an implementation signature cannot be called.
func (c *Checker) Resolve(group *types.OverloadGroup, args []Argument, expected types.Type) (Resolution, error) {
	return c.resolve(c.engine(), group, args, expected)
}

func (c *Checker) resolve(tc *typeutil.Checker, group *types.OverloadGroup, args []Argument, expected types.Type) (Resolution, error) {
	if group.Impl == nil {
		return Resolution{}, &typeutil.Mismatch{Kind: MissingImplementation, Target: group,
			Detail: "overload group " + group.Name + " has no implementation"}
	}
	for i, v := range group.Variants {
		sol, err := tc.Infer(v, args, expected)
		if err != nil {
			continue
		}
		res := Resolution{
			Variant:   v,
			Index:     i,
			Signature: sol.Signature,
			Bindings:  sol.Bindings,
			Return:    sol.Return,
			ArgTypes:  sol.ArgTypes,
		}
		if anyArg(sol.ArgTypes) {
			for _, w := range group.Variants[i+1:] {
				other, err := tc.Infer(w, args, expected)
				if err == nil && tc.Equivalent(other.Return, res.Return) != nil {
					res.Ambiguous, res.Return = true, types.Any
					break
				}
			}
		}
		return res, nil
	}
	ts := argTypes(args)
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = types.TypeString(t)
	}
	return Resolution{}, &typeutil.Mismatch{Kind: TypeMismatch, Source: types.NewTuple(ts...), Target: group,
		Detail: "no variant of " + group.Name + " matches argument types (" + strings.Join(names, ", ") + ")"}
}

func anyArg(ts []types.Type) bool {
	for _, t := range ts {
		for _, m := range types.Members(t) {
			if types.IsAny(m) {
				return true
			}
		}
	}
	return false
}

func variantSegment(i int) string { return "variant " + strconv.Itoa(i+1) }

// CheckOverloads reports authoring problems of an overload group: variants which can never be selected,
// variants which overlap with incompatible return types, and an implementation which is missing or does
// not accept every variant.
func (c *Checker) CheckOverloads(group *types.OverloadGroup) []Diagnostic {
	tc := c.engine()
	var diags []Diagnostic
	report := func(kind Kind, i int, detail string) {
		diags = append(diags, Diagnostic{Kind: kind, Severity: defaultSeverity(kind), Function: group.Name,
			Path: []string{variantSegment(i)}, Target: group, Detail: detail})
	}

	loose := make([]*types.Callable, len(group.Variants))
	for i, v := range group.Variants {
		loose[i] = v.WithReturn(types.Any)
	}
	for j, vj := range group.Variants {
		for i := 0; i < j; i++ {
			vi := group.Variants[i]
			if tc.IsCompatible(loose[i], loose[j]) {
				report(UnreachableOverload, j, variantSegment(j)+" of "+group.Name+" will never be matched: "+
					variantSegment(i)+" accepts all of its arguments")
				break
			}
			if tc.IsCompatible(vi.Return, vj.Return) {
				continue
			}
			if tc.IsCompatible(loose[j], loose[i]) || (c.opts.StrictOverlap && overlaps(tc, vi, vj)) {
				report(AmbiguousOverload, j, variantSegment(i)+" and "+variantSegment(j)+" of "+group.Name+
					" overlap with incompatible return types")
			}
		}
	}

	if group.Impl == nil {
		diags = append(diags, Diagnostic{Kind: MissingImplementation, Severity: Error, Function: group.Name, Target: group,
			Detail: "overload group " + group.Name + " has no implementation"})
		return c.emit(diags)
	}
	impl := group.Impl
	implLoose := impl.WithReturn(types.Any)
	for j, v := range group.Variants {
		if err := tc.Compatible(implLoose, loose[j]); err != nil {
			d := diagnose(typeutil.WithPath(err, variantSegment(j)), ast.Pos{}, group.Name)
			d.Detail = "the implementation of " + group.Name + " does not accept all arguments of " + variantSegment(j)
			diags = append(diags, d)
			continue
		}
		if v.Return.IsGeneric() || impl.Return.IsGeneric() {
			continue
		}
		if !tc.IsCompatible(v.Return, impl.Return) && !tc.IsCompatible(impl.Return, v.Return) {
			diags = append(diags, Diagnostic{Kind: TypeMismatch, Severity: Error, Function: group.Name,
				Path: []string{variantSegment(j), "return"}, Source: v.Return, Target: impl.Return,
				Detail: "the return type of " + variantSegment(j) + " is unrelated to the return type of the implementation"})
		}
	}
	return c.emit(diags)
}

// overlaps reports whether some call could be accepted by both a and b, pairing parameters by position.
func overlaps(tc *typeutil.Checker, a, b *types.Callable) bool {
	minA, maxA := arity(a)
	minB, maxB := arity(b)
	if minA > maxB || minB > maxA {
		return false
	}
	for k := 0; k < len(a.Params) && k < len(b.Params); k++ {
		pa, pb := a.Params[k], b.Params[k]
		if pa.IsVariadic() || pb.IsVariadic() || !pa.AcceptsPositional() || !pb.AcceptsPositional() {
			break
		}
		if types.IsNever(tc.Meet(pa.Type, pb.Type)) {
			return false
		}
	}
	return true
}

const unbounded = int(^uint(0) >> 1)

// arity returns the minimum and maximum number of positional arguments accepted by sig.
func arity(sig *types.Callable) (min, max int) {
	for _, p := range sig.Params {
		switch {
		case p.Kind == types.VarPositional:
			max = unbounded
		case p.AcceptsPositional():
			if !p.HasDefault {
				min++
			}
			if max < unbounded {
				max++
			}
		}
	}
	return min, max
}
