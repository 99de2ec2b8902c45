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

// WalkExpr calls f for e and each of its sub-expressions, parents first.
func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case *Name, *Literal, *IsInstance:
		f(e)
		if ii, ok := e.(*IsInstance); ok {
			WalkExpr(ii.Value, f)
		}

	case *List:
		f(e)
		for _, el := range e.Elems {
			WalkExpr(el, f)
		}

	case *Tuple:
		f(e)
		for _, el := range e.Elems {
			WalkExpr(el, f)
		}

	case *Dict:
		f(e)
		for _, entry := range e.Entries {
			WalkExpr(entry.Value, f)
		}

	case *Call:
		f(e)
		WalkExpr(e.Func, f)
		for _, arg := range e.Args {
			WalkExpr(arg.Value, f)
		}

	case *Attribute:
		f(e)
		WalkExpr(e.Value, f)

	case *Subscript:
		f(e)
		WalkExpr(e.Value, f)
		WalkExpr(e.Index, f)

	case *Compare:
		f(e)
		WalkExpr(e.Left, f)
		WalkExpr(e.Right, f)

	case *Not:
		f(e)
		WalkExpr(e.Value, f)

	case *BoolOp:
		f(e)
		for _, v := range e.Values {
			WalkExpr(v, f)
		}

	case nil:

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

// WalkStmt calls f for every expression within s.
func WalkStmt(s Stmt, f func(Expr)) {
	switch s := s.(type) {
	case *Assign:
		WalkExpr(s.Value, f)
	case *ExprStmt:
		WalkExpr(s.Value, f)
	case *Return:
		WalkExpr(s.Value, f)
	case *Raise:
		WalkExpr(s.Value, f)
	}
}
