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

package ast

import (
	"github.com/wdamron/gradual/types"
)

// Pos is a source position. The zero value means the position is unknown.
type Pos struct {
	Line, Col int
}

// Position returns p.
func (p Pos) Position() Pos { return p }

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Node is implemented by expressions and statements.
type Node interface {
	Position() Pos
}

// Expr is the base for all expressions.
type Expr interface {
	Node
	// Name of the syntax-type of the expression.
	ExprName() string
	// Type returns the type of an expression at its position in the control flow. Expression types are
	// only available after checking.
	Type() types.Type
}

var (
	_ Expr = (*Name)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*List)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*Dict)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Attribute)(nil)
	_ Expr = (*Subscript)(nil)
	_ Expr = (*IsInstance)(nil)
	_ Expr = (*Compare)(nil)
	_ Expr = (*Not)(nil)
	_ Expr = (*BoolOp)(nil)
)

type typed struct {
	inferred types.Type
}

// Get the checked type of e.
func (e *typed) Type() types.Type { return e.inferred }

// Assign a type to e. Type assignments should occur indirectly, during checking.
func (e *typed) SetType(t types.Type) { e.inferred = t }

// Variable or global reference: `x`
type Name struct {
	Pos
	Name string
	typed
}

// "Name"
func (e *Name) ExprName() string { return "Name" }

// Constant: `1`, `"a"`, `True`, `None`, `1.5`, `b"x"`
//
// Value is an int, int64, bool, string, float64 or nil (None).
type Literal struct {
	Pos
	Value interface{}
	// Bytes marks a string value as a bytes literal.
	Bytes bool
	typed
}

// "Literal"
func (e *Literal) ExprName() string { return "Literal" }

// List display: `[a, b]`. An empty display takes its element type from the expected type.
type List struct {
	Pos
	Elems []Expr
	typed
}

// "List"
func (e *List) ExprName() string { return "List" }

// Tuple display: `(a, b)`
type Tuple struct {
	Pos
	Elems []Expr
	typed
}

// "Tuple"
func (e *Tuple) ExprName() string { return "Tuple" }

// Dict display with string keys: `{"name": a, "year": b}`
//
// A dict display is checked as a record when a record type is expected.
type Dict struct {
	Pos
	Entries []DictEntry
	typed
}

// "Dict"
func (e *Dict) ExprName() string { return "Dict" }

// Paired key and value
type DictEntry struct {
	Key   string
	Value Expr
}

// Call argument. Name is set for keyword arguments.
type Arg struct {
	Name  string
	Value Expr
	// `*xs`
	Star bool
	// `**kw`
	DoubleStar bool
}

// Application: `f(x, y=z)`
type Call struct {
	Pos
	Func Expr
	Args []Arg
	typed
	signature *types.Callable
}

// "Call"
func (e *Call) ExprName() string { return "Call" }

// Get the resolved (instantiated) signature called in e.
func (e *Call) Signature() *types.Callable { return e.signature }

// Assign the signature called in e. Signature assignments should occur indirectly, during checking.
func (e *Call) SetSignature(sig *types.Callable) { e.signature = sig }

// Attribute access: `x.name`
type Attribute struct {
	Pos
	Value Expr
	Name  string
	typed
}

// "Attribute"
func (e *Attribute) ExprName() string { return "Attribute" }

// Subscript: `r["year"]`, `t[0]`, `xs[i]`
type Subscript struct {
	Pos
	Value Expr
	Index Expr
	typed
}

// "Subscript"
func (e *Subscript) ExprName() string { return "Subscript" }

// Class test: `isinstance(x, (int, str))`
//
// Classes are resolved by the driver; each entry is a type to test against.
type IsInstance struct {
	Pos
	Value   Expr
	Classes []types.Type
	typed
}

// "IsInstance"
func (e *IsInstance) ExprName() string { return "IsInstance" }

// CompareOp is an identity or equality operator.
type CompareOp int

const (
	Is CompareOp = iota
	IsNot
	Eq
	NotEq
)

func (op CompareOp) String() string {
	switch op {
	case Is:
		return "is"
	case IsNot:
		return "is not"
	case Eq:
		return "=="
	}
	return "!="
}

// Comparison: `x is None`, `x == "a"`
type Compare struct {
	Pos
	Op          CompareOp
	Left, Right Expr
	typed
}

// "Compare"
func (e *Compare) ExprName() string { return "Compare" }

// Negation: `not x`
type Not struct {
	Pos
	Value Expr
	typed
}

// "Not"
func (e *Not) ExprName() string { return "Not" }

// BoolOpKind is a short-circuiting boolean operator.
type BoolOpKind int

const (
	And BoolOpKind = iota
	Or
)

func (op BoolOpKind) String() string {
	if op == And {
		return "and"
	}
	return "or"
}

// Short-circuiting boolean operation: `a and b and c`
type BoolOp struct {
	Pos
	Op     BoolOpKind
	Values []Expr
	typed
}

// "BoolOp"
func (e *BoolOp) ExprName() string { return "BoolOp" }
