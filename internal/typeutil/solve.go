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

// Solution of a call to a signature.
type Solution struct {
	Bindings types.Bindings
	// Signature is the instantiated signature.
	Signature *types.Callable
	Return    types.Type
	// Matches bind arguments to the parameters of Signature. Each match carries the argument type
	// after contextual retyping.
	Matches []ArgMatch
	// ArgTypes are indexed like the arguments.
	ArgTypes []types.Type
}

type varBounds struct {
	lowers []types.Type
	upper  types.Type
}

// solver collects bounds for the type-parameters of one signature.
type solver struct {
	c      *Checker
	params []*types.TypeVar
	bounds map[*types.TypeVar]*varBounds
	err    error
	depth  int
}

func (c *Checker) newSolver(params []*types.TypeVar) *solver {
	s := &solver{c: c, params: params, bounds: make(map[*types.TypeVar]*varBounds, len(params))}
	for _, tv := range params {
		s.bounds[tv] = &varBounds{}
	}
	return s
}

func (s *solver) addLower(tv *types.TypeVar, t types.Type) {
	if vb, ok := s.bounds[tv]; ok {
		vb.lowers = append(vb.lowers, t)
	}
}

func (s *solver) addUpper(tv *types.TypeVar, t types.Type) {
	vb, ok := s.bounds[tv]
	if !ok {
		return
	}
	switch {
	case vb.upper == nil || s.c.compat(t, vb.upper) == nil:
		vb.upper = t
	case s.c.compat(vb.upper, t) == nil:
	default:
		if s.err == nil {
			s.err = &Mismatch{Kind: UnresolvedTypeVar, Source: t, Target: vb.upper,
				Detail: "conflicting upper bounds for " + tv.Name + ": " + types.TypeString(t) + " and " + types.TypeString(vb.upper)}
		}
	}
}

// constrain walks decl (which mentions the solver's type-parameters) against actual. pos is the
// variance of the position: Covariant when actual flows into decl (a lower bound), Contravariant when
// decl flows into actual (an upper bound), Invariant for both.
func (s *solver) constrain(decl, actual types.Type, pos types.Variance) {
	if decl == nil || actual == nil || !decl.IsGeneric() {
		return
	}
	if s.depth >= s.c.maxDepth() {
		return
	}
	s.depth++
	defer func() { s.depth-- }()

	actual = types.Unroll(actual)
	if types.IsAny(actual) {
		for _, tv := range types.TypeVars(decl) {
			s.addLower(tv, types.Any)
		}
		return
	}

	switch d := decl.(type) {
	case *types.TypeVar:
		if pos != types.Contravariant {
			s.addLower(d, types.Widen(actual))
		}
		if pos != types.Covariant {
			s.addUpper(d, actual)
		}

	case *types.Union:
		s.constrainUnion(d, actual, pos)

	case *types.Instance:
		if pos == types.Contravariant {
			// decl flows into actual: map decl onto the class of actual.
			if u, ok := actual.(*types.Union); ok {
				for _, m := range u.Members {
					if a, ok := m.(*types.Instance); ok && d.Class.IsSubclassOf(a.Class) {
						s.constrain(decl, a, pos)
						return
					}
				}
				return
			}
			if a, ok := actual.(*types.Instance); ok && a.Class != d.Class {
				up := types.MapToBase(d, a.Class)
				if up == nil {
					return
				}
				for i, tp := range a.Class.TypeParams {
					if i < len(up.Args) && i < len(a.Args) {
						s.constrain(up.Args[i], a.Args[i], pos.Compose(tp.Variance))
					}
				}
				return
			}
		}
		inst := s.c.asInstance(actual, d.Class)
		if inst == nil {
			return
		}
		for i, tp := range d.Class.TypeParams {
			if i < len(d.Args) && i < len(inst.Args) {
				s.constrain(d.Args[i], inst.Args[i], pos.Compose(tp.Variance))
			}
		}

	case *types.Tuple:
		a, ok := actual.(*types.Tuple)
		if !ok {
			return
		}
		for i, e := range a.Elems {
			switch {
			case i < len(d.Elems):
				s.constrain(d.Elems[i], e, pos)
			case d.Variadic != nil:
				s.constrain(d.Variadic, e, pos)
			}
		}
		if a.Variadic != nil && d.Variadic != nil {
			s.constrain(d.Variadic, a.Variadic, pos)
		}

	case *types.Callable:
		a := s.c.callableOf(actual)
		if a == nil {
			return
		}
		flipped := pos.Flip()
		for i, dp := range d.Params {
			var ap *types.Param
			if dp.Kind == types.KeywordOnly {
				if j := keywordParam(a, dp.Name); j >= 0 {
					ap = &a.Params[j]
				}
			} else if i < len(a.Params) {
				ap = &a.Params[i]
			}
			if ap != nil {
				s.constrain(dp.Type, ap.Type, flipped)
			}
		}
		s.constrain(d.Return, a.Return, pos)

	case *types.Protocol:
		for _, name := range d.MemberNames() {
			if have, ok := s.c.memberOf(actual, name); ok {
				s.constrain(d.Members[name], have, pos)
			}
		}

	case *types.Record:
		a, ok := actual.(*types.Record)
		if !ok {
			return
		}
		d.Fields.Range(func(name string, df types.Field) bool {
			if af, ok := a.Field(name); ok {
				fpos := pos
				if !df.ReadOnly {
					fpos = types.Invariant
				}
				s.constrain(df.Type, af.Type, fpos)
			}
			return true
		})
	}
}

// constrainUnion strips the members of actual which non-generic members of decl already account for,
// then constrains the remainder against the generic members.
func (s *solver) constrainUnion(decl *types.Union, actual types.Type, pos types.Variance) {
	var generic, concrete []types.Type
	for _, m := range decl.Members {
		if m.IsGeneric() {
			generic = append(generic, m)
		} else {
			concrete = append(concrete, m)
		}
	}
	if len(generic) == 0 {
		return
	}
	covered := func(m types.Type) bool {
		for _, dm := range concrete {
			if pos == types.Contravariant && s.c.compat(dm, m) == nil {
				return true
			}
			if pos != types.Contravariant && s.c.compat(m, dm) == nil {
				return true
			}
		}
		return false
	}
	rest := types.Without(actual, covered)
	if types.IsNever(rest) {
		return
	}
	if pos == types.Contravariant {
		for _, g := range generic {
			s.constrain(g, rest, pos)
		}
		return
	}
	for _, m := range types.Members(rest) {
		s.constrain(pickShape(generic, m), m, pos)
	}
}

// pickShape chooses the generic union member most likely to describe m.
func pickShape(generic []types.Type, m types.Type) types.Type {
	var fallback types.Type
	for _, g := range generic {
		switch g := g.(type) {
		case *types.TypeVar:
			if fallback == nil {
				fallback = g
			}
		case *types.Instance:
			if inst, ok := m.(*types.Instance); ok && inst.Class.IsSubclassOf(g.Class) {
				return g
			}
		case *types.Tuple:
			if _, ok := m.(*types.Tuple); ok {
				return g
			}
		case *types.Callable:
			if _, ok := m.(*types.Callable); ok {
				return g
			}
		}
	}
	if fallback != nil {
		return fallback
	}
	return generic[0]
}

func (s *solver) lower(tv *types.TypeVar) types.Type {
	vb := s.bounds[tv]
	if vb == nil || len(vb.lowers) == 0 {
		return nil
	}
	return s.c.joinAll(vb.lowers)
}

// preliminary returns the solutions known so far, without reporting conflicts.
func (s *solver) preliminary() types.Bindings {
	b := make(types.Bindings, len(s.params))
	for _, tv := range s.params {
		if lower := s.lower(tv); lower != nil {
			b[tv] = lower
		} else if vb := s.bounds[tv]; vb.upper != nil {
			b[tv] = vb.upper
		}
	}
	return b
}

func (s *solver) resolve(tv *types.TypeVar) (types.Type, error) {
	vb := s.bounds[tv]
	lower, upper := s.lower(tv), vb.upper
	if tv.IsRestricted() {
		if lower == nil && upper == nil {
			return types.Any, nil
		}
	alternatives:
		for _, alt := range tv.Constraints {
			for _, l := range vb.lowers {
				if s.c.compat(l, alt) != nil {
					continue alternatives
				}
			}
			if upper != nil && s.c.compat(alt, upper) != nil {
				continue
			}
			return alt, nil
		}
		src := lower
		if src == nil {
			src = upper
		}
		return nil, &Mismatch{Kind: UnresolvedTypeVar, Source: src, Target: tv,
			Detail: types.TypeString(src) + " matches none of the constraints of " + tv.Name}
	}
	switch {
	case lower != nil && types.IsAny(lower) && upper != nil:
		return upper, nil
	case lower != nil:
		if upper != nil && s.c.compat(lower, upper) != nil {
			return nil, &Mismatch{Kind: UnresolvedTypeVar, Source: lower, Target: upper,
				Detail: "lower bound " + types.TypeString(lower) + " of " + tv.Name + " is not compatible with upper bound " + types.TypeString(upper)}
		}
		return lower, nil
	case upper != nil:
		return upper, nil
	}
	return tv.Default(), nil
}

func (s *solver) solve() (types.Bindings, error) {
	if s.err != nil {
		return nil, s.err
	}
	b := make(types.Bindings, len(s.params))
	for _, tv := range s.params {
		sol, err := s.resolve(tv)
		if err != nil {
			return nil, err
		}
		b[tv] = sol
	}
	for _, tv := range s.params {
		if tv.Bound == nil {
			continue
		}
		bound := types.Subst(tv.Bound, b)
		if err := s.c.compat(b[tv], bound); err != nil {
			return nil, &Mismatch{Kind: UnresolvedTypeVar, Source: b[tv], Target: bound,
				Detail: types.TypeString(b[tv]) + " does not satisfy the bound of " + tv.Name + ": " + types.TypeString(bound)}
		}
	}
	return b, nil
}

// solveAgainst instantiates a generic source callable so that it is comparable with dst.
func (c *Checker) solveAgainst(src, dst *types.Callable) (*types.Callable, error) {
	pairs, err := pairParams(src, dst)
	if err != nil {
		return nil, err
	}
	s := c.newSolver(src.TypeParams)
	for _, p := range pairs {
		s.constrain(p.src.Type, p.dst.Type, types.Covariant)
	}
	s.constrain(src.Return, dst.Return, types.Contravariant)
	b, err := s.solve()
	if err != nil {
		return nil, err
	}
	return Instantiate(src, b), nil
}

// Infer solves the type-parameters of sig for a call with args. When expected is not nil, the
// declared return type is first constrained against it and the preliminary solution is used to retype
// context-sensitive arguments; if that fails, the call is solved again without the expected type.
func (c *Checker) Infer(sig *types.Callable, args []Arg, expected types.Type) (*Solution, error) {
	c.enter()
	defer c.leave()
	matches, err := c.matchArgs(sig, args)
	if err != nil {
		return nil, err
	}
	if expected != nil && !types.IsAny(expected) && len(sig.TypeParams) > 0 {
		if sol, err := c.solveCall(sig, args, matches, expected); err == nil {
			return sol, nil
		}
	}
	return c.solveCall(sig, args, matches, nil)
}

func (c *Checker) solveCall(sig *types.Callable, args []Arg, matches []ArgMatch, expected types.Type) (*Solution, error) {
	s := c.newSolver(sig.TypeParams)
	if expected != nil {
		s.constrain(sig.Return, expected, types.Contravariant)
	}
	pre := s.preliminary()
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type
	}
	retyped := make([]ArgMatch, len(matches))
	for i, m := range matches {
		a, p := args[m.Arg], sig.Params[m.Param]
		if a.Retype != nil && (a.Kind == ArgPositional || a.Kind == ArgKeyword) {
			if want := types.Subst(p.Type, pre); want != nil && !want.IsGeneric() {
				m.Type = a.Retype(want)
				argTypes[m.Arg] = m.Type
			}
		}
		retyped[i] = m
		s.constrain(p.Type, m.Type, types.Covariant)
	}
	b, err := s.solve()
	if err != nil {
		return nil, err
	}
	inst := Instantiate(sig, b)
	for _, m := range retyped {
		p := inst.Params[m.Param]
		if err := c.compat(m.Type, p.Type); err != nil {
			return nil, WithPath(err, argSegment(m, p))
		}
	}
	return &Solution{Bindings: b, Signature: inst, Return: inst.Return, Matches: retyped, ArgTypes: argTypes}, nil
}

func argSegment(m ArgMatch, p types.Param) string {
	if p.Name != "" {
		return paramSegment(p)
	}
	return "argument " + strconv.Itoa(m.Arg+1)
}
