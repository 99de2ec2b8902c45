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

// Stmt is the base for all statements. A statement is the smallest unit of analysis.
type Stmt interface {
	Node
	// Name of the syntax-type of the statement.
	StmtName() string
}

var (
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*Raise)(nil)
)

// Assignment to a local variable: `x = e`, `x: int = e`
//
// An annotation declares the type of the variable for the whole function body. Value may be nil
// for a bare declaration (`x: int`).
type Assign struct {
	Pos
	Target     string
	Annotation types.Type
	Value      Expr
}

// "Assign"
func (s *Assign) StmtName() string { return "Assign" }

// Expression evaluated for its effects: `f(x)`
type ExprStmt struct {
	Pos
	Value Expr
}

// "ExprStmt"
func (s *ExprStmt) StmtName() string { return "ExprStmt" }

// Return statement. Value is nil for a bare `return`.
type Return struct {
	Pos
	Value Expr
}

// "Return"
func (s *Return) StmtName() string { return "Return" }

// Raise statement. Value may be nil.
type Raise struct {
	Pos
	Value Expr
}

// "Raise"
func (s *Raise) StmtName() string { return "Raise" }

// Function body with named parameters. Parameter types come from the declared signature.
type Function struct {
	Pos
	Name string
	Body *ControlFlow
}
