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

// Type is the base interface for all types.
type Type interface {
	// Name of the variant of the type.
	TypeName() string
	// IsGeneric reports whether the type mentions type-variables.
	IsGeneric() bool
}

var (
	_ Type = (*Primitive)(nil)
	_ Type = (*Instance)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Literal)(nil)
	_ Type = (*Tuple)(nil)
	_ Type = (*Callable)(nil)
	_ Type = (*Protocol)(nil)
	_ Type = (*Record)(nil)
	_ Type = (*AnyType)(nil)
	_ Type = (*NeverType)(nil)
	_ Type = (*NoneType)(nil)
	_ Type = (*RecursiveLink)(nil)
	_ Type = (*OverloadGroup)(nil)
)

func (t *Primitive) TypeName() string     { return "Primitive" }
func (t *Instance) TypeName() string      { return "Instance" }
func (t *TypeVar) TypeName() string       { return "TypeVar" }
func (t *Union) TypeName() string         { return "Union" }
func (t *Literal) TypeName() string       { return "Literal" }
func (t *Tuple) TypeName() string         { return "Tuple" }
func (t *Callable) TypeName() string      { return "Callable" }
func (t *Protocol) TypeName() string      { return "Protocol" }
func (t *Record) TypeName() string        { return "Record" }
func (t *AnyType) TypeName() string       { return "Any" }
func (t *NeverType) TypeName() string     { return "Never" }
func (t *NoneType) TypeName() string      { return "None" }
func (t *RecursiveLink) TypeName() string { return "RecursiveLink" }
func (t *OverloadGroup) TypeName() string { return "Overload" }

func (t *Primitive) IsGeneric() bool { return false }
func (t *Literal) IsGeneric() bool   { return false }
func (t *TypeVar) IsGeneric() bool   { return true }
func (t *AnyType) IsGeneric() bool   { return false }
func (t *NeverType) IsGeneric() bool { return false }
func (t *NoneType) IsGeneric() bool  { return false }

// Links are never generic; type-parameters of recursive groups are not supported.
func (t *RecursiveLink) IsGeneric() bool { return false }

func (t *Instance) IsGeneric() bool { return anyGeneric(t.Args) }
func (t *Union) IsGeneric() bool    { return anyGeneric(t.Members) }

func (t *Tuple) IsGeneric() bool {
	return anyGeneric(t.Elems) || (t.Variadic != nil && t.Variadic.IsGeneric())
}

func (t *Callable) IsGeneric() bool {
	if len(t.TypeParams) > 0 || t.Return.IsGeneric() {
		return true
	}
	for _, p := range t.Params {
		if p.Type.IsGeneric() {
			return true
		}
	}
	return false
}

func (t *OverloadGroup) IsGeneric() bool {
	for _, v := range t.Variants {
		if v.IsGeneric() {
			return true
		}
	}
	return false
}

func anyGeneric(ts []Type) bool {
	for _, t := range ts {
		if t.IsGeneric() {
			return true
		}
	}
	return false
}

// Primitive type: `int`, `str`, etc.
//
// Base is the nominal parent of the primitive (`bool` derives from `int`).
type Primitive struct {
	Name string
	Base *Primitive
}

// Predeclared primitives. These values are never mutated.
var (
	Int     = &Primitive{Name: "int"}
	Bool    = &Primitive{Name: "bool", Base: Int}
	Float   = &Primitive{Name: "float"}
	Complex = &Primitive{Name: "complex"}
	Str     = &Primitive{Name: "str"}
	Bytes   = &Primitive{Name: "bytes"}
)

// LookupPrimitive returns the predeclared primitive with the given name, or nil.
func LookupPrimitive(name string) *Primitive {
	switch name {
	case "int":
		return Int
	case "bool":
		return Bool
	case "float":
		return Float
	case "complex":
		return Complex
	case "str":
		return Str
	case "bytes":
		return Bytes
	}
	return nil
}

// DerivesFrom reports whether q occurs in the nominal base chain of p (including p).
func (p *Primitive) DerivesFrom(q *Primitive) bool {
	for b := p; b != nil; b = b.Base {
		if b == q {
			return true
		}
	}
	return false
}

// Promotes reports whether from is implicitly promoted to to. The table is closed:
// `int -> float`, `int -> complex`, `float -> complex`.
func Promotes(from, to *Primitive) bool {
	switch {
	case from == Int && (to == Float || to == Complex):
		return true
	case from == Float && to == Complex:
		return true
	}
	return false
}

// AnyType is the dynamic type, compatible in both directions with every type.
type AnyType struct{}

// NeverType is the bottom type.
type NeverType struct{}

// NoneType is the type of the `None` value.
type NoneType struct{}

var (
	Any   = &AnyType{}
	Never = &NeverType{}
	None  = &NoneType{}
)

// Class instance: `list[int]`
type Instance struct {
	Class *ClassDef
	Args  []Type
}

// NewInstance instantiates c with args. Missing type-arguments default to Any.
func NewInstance(c *ClassDef, args ...Type) *Instance {
	if len(args) < len(c.TypeParams) {
		full := make([]Type, len(c.TypeParams))
		copy(full, args)
		for i := len(args); i < len(full); i++ {
			full[i] = Any
		}
		args = full
	}
	return &Instance{Class: c, Args: args}
}

// Union type: `int | str`. Unions should be constructed with NewUnion.
type Union struct {
	Members []Type
}

// Fixed-size or variadic tuple: `tuple[int, str]`, `tuple[int, ...]`
type Tuple struct {
	Elems []Type
	// Variadic is the element type of an unbounded tail, or nil for fixed-size tuples.
	Variadic Type
}

// NewTuple creates a fixed-size tuple type.
func NewTuple(elems ...Type) *Tuple { return &Tuple{Elems: elems} }

// ParamKind describes how an argument may be bound to a parameter.
type ParamKind int

const (
	// Positional-or-keyword parameter
	Positional ParamKind = iota
	PositionalOnly
	KeywordOnly
	// `*args`
	VarPositional
	// `**kwargs`
	VarKeyword
)

func (k ParamKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case KeywordOnly:
		return "keyword-only"
	case VarPositional:
		return "*args"
	case VarKeyword:
		return "**kwargs"
	}
	return "positional"
}

// Param is a declared parameter of a callable.
type Param struct {
	Name       string
	Type       Type
	Kind       ParamKind
	HasDefault bool
}

// AcceptsPositional reports whether a positional argument may bind to p.
func (p Param) AcceptsPositional() bool {
	return p.Kind == Positional || p.Kind == PositionalOnly || p.Kind == VarPositional
}

// AcceptsKeyword reports whether a keyword argument may bind to p.
func (p Param) AcceptsKeyword() bool {
	return p.Kind == Positional || p.Kind == KeywordOnly || p.Kind == VarKeyword
}

func (p Param) IsVariadic() bool { return p.Kind == VarPositional || p.Kind == VarKeyword }

// Optional reports whether a call may omit an argument for p.
func (p Param) Optional() bool { return p.HasDefault || p.IsVariadic() }

// Guard marks a callable as a user-defined type-guard for its first argument.
type Guard struct {
	Type Type
	// Bidirectional guards also narrow the negative branch to the complement of Type.
	Bidirectional bool
}

// Function type: `(x: int, y: int) -> int`
type Callable struct {
	TypeParams []*TypeVar
	Params     []Param
	Return     Type
	Guard      *Guard
}

// NoReturn reports whether calls to c never return.
func (c *Callable) NoReturn() bool {
	_, ok := c.Return.(*NeverType)
	return ok
}

// WithReturn returns a shallow copy of c with a different return type.
func (c *Callable) WithReturn(ret Type) *Callable {
	cc := *c
	cc.Return, cc.Guard = ret, nil
	return &cc
}

// OverloadGroup is a callable declared with several signatures, resolved by first-match.
type OverloadGroup struct {
	Name     string
	Variants []*Callable
	// Impl is the implementation signature, which must accept every variant.
	Impl *Callable
}

// Unroll follows recursive links until a non-link type is found.
func Unroll(t Type) Type {
	for {
		link, ok := t.(*RecursiveLink)
		if !ok {
			return t
		}
		t = link.Link()
	}
}

// IsAny reports whether t is the dynamic type.
func IsAny(t Type) bool {
	_, ok := t.(*AnyType)
	return ok
}

// IsNever reports whether t is the bottom type.
func IsNever(t Type) bool {
	_, ok := t.(*NeverType)
	return ok
}
