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

// Variance of a type-parameter.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// Flip reverses the direction of covariant and contravariant positions.
func (v Variance) Flip() Variance {
	switch v {
	case Covariant:
		return Contravariant
	case Contravariant:
		return Covariant
	}
	return Invariant
}

// Compose returns the variance of a position with variance inner nested inside a position with variance v.
func (v Variance) Compose(inner Variance) Variance {
	switch {
	case v == Invariant || inner == Invariant:
		return Invariant
	case v == inner:
		return Covariant
	}
	return Contravariant
}

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	}
	return "invariant"
}

// Type-variable: `T`, `T: Hashable`, `T in (int, str)`
//
// Type-variables are compared by identity.
type TypeVar struct {
	Name string
	// Upper bound of solutions, or nil.
	Bound Type
	// Constraints restrict solutions to exactly one of the listed alternatives.
	Constraints []Type
	Variance    Variance
}

// NewTypeVar creates an invariant, unbounded type-variable.
func NewTypeVar(name string) *TypeVar { return &TypeVar{Name: name} }

// IsRestricted reports whether tv is value-restricted.
func (tv *TypeVar) IsRestricted() bool { return len(tv.Constraints) > 0 }

// Default returns the solution of tv when nothing constrains it.
func (tv *TypeVar) Default() Type {
	if tv.Bound != nil {
		return tv.Bound
	}
	return Any
}

// Bindings maps type-variables to types.
type Bindings map[*TypeVar]Type

// Bind zips type-parameters with arguments. Missing arguments are bound to Any.
func Bind(params []*TypeVar, args []Type) Bindings {
	b := make(Bindings, len(params))
	for i, tv := range params {
		if i < len(args) {
			b[tv] = args[i]
		} else {
			b[tv] = Any
		}
	}
	return b
}

// Subst replaces type-variables in t which are bound in b. Types without type-variables are returned as-is.
func Subst(t Type, b Bindings) Type {
	if len(b) == 0 || t == nil || !t.IsGeneric() {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if s, ok := b[t]; ok {
			return s
		}
		return t

	case *Instance:
		return &Instance{Class: t.Class, Args: substAll(t.Args, b)}

	case *Union:
		return NewUnion(substAll(t.Members, b)...)

	case *Tuple:
		var variadic Type
		if t.Variadic != nil {
			variadic = Subst(t.Variadic, b)
		}
		return &Tuple{Elems: substAll(t.Elems, b), Variadic: variadic}

	case *Callable:
		inner := b
		if len(t.TypeParams) > 0 {
			// Type-parameters of t shadow outer bindings:
			inner = make(Bindings, len(b))
			for tv, s := range b {
				inner[tv] = s
			}
			for _, tv := range t.TypeParams {
				delete(inner, tv)
			}
		}
		c := &Callable{TypeParams: t.TypeParams, Return: Subst(t.Return, inner), Params: make([]Param, len(t.Params))}
		for i, p := range t.Params {
			p.Type = Subst(p.Type, inner)
			c.Params[i] = p
		}
		if t.Guard != nil {
			c.Guard = &Guard{Type: Subst(t.Guard.Type, inner), Bidirectional: t.Guard.Bidirectional}
		}
		return c

	case *Protocol:
		return t.subst(b)

	case *Record:
		return t.subst(b)

	case *OverloadGroup:
		g := &OverloadGroup{Name: t.Name, Variants: make([]*Callable, len(t.Variants))}
		for i, v := range t.Variants {
			g.Variants[i] = Subst(v, b).(*Callable)
		}
		if t.Impl != nil {
			g.Impl = Subst(t.Impl, b).(*Callable)
		}
		return g
	}
	return t
}

func substAll(ts []Type, b Bindings) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Subst(t, b)
	}
	return out
}

// TypeVars returns the distinct type-variables mentioned in t, in order of first occurrence.
func TypeVars(t Type) []*TypeVar {
	var vars []*TypeVar
	seen := make(map[*TypeVar]bool)
	visitTypeVars(t, func(tv *TypeVar) {
		if !seen[tv] {
			seen[tv] = true
			vars = append(vars, tv)
		}
	})
	return vars
}

func visitTypeVars(t Type, f func(*TypeVar)) {
	if t == nil || !t.IsGeneric() {
		return
	}
	switch t := t.(type) {
	case *TypeVar:
		f(t)
	case *Instance:
		for _, a := range t.Args {
			visitTypeVars(a, f)
		}
	case *Union:
		for _, m := range t.Members {
			visitTypeVars(m, f)
		}
	case *Tuple:
		for _, e := range t.Elems {
			visitTypeVars(e, f)
		}
		visitTypeVars(t.Variadic, f)
	case *Callable:
		for _, p := range t.Params {
			visitTypeVars(p.Type, f)
		}
		visitTypeVars(t.Return, f)
	case *Protocol:
		for _, name := range t.MemberNames() {
			visitTypeVars(t.Members[name], f)
		}
	case *Record:
		t.Fields.Range(func(_ string, fd Field) bool {
			visitTypeVars(fd.Type, f)
			return true
		})
	}
}
