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

package construct

import (
	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/types"
)

// Types

// Type-variable: `T`
func TVar(name string) *types.TypeVar {
	return types.NewTypeVar(name)
}

// Covariant type-variable: `T+`
func TVarCo(name string) *types.TypeVar {
	return &types.TypeVar{Name: name, Variance: types.Covariant}
}

// Contravariant type-variable: `T-`
func TVarContra(name string) *types.TypeVar {
	return &types.TypeVar{Name: name, Variance: types.Contravariant}
}

// Bounded type-variable: `T: bound`
func TVarBound(name string, bound types.Type) *types.TypeVar {
	return &types.TypeVar{Name: name, Bound: bound}
}

// Value-restricted type-variable: `T in (int, str)`
func TVarIn(name string, constraints ...types.Type) *types.TypeVar {
	return &types.TypeVar{Name: name, Constraints: constraints}
}

// Class instance: `list[int]`
func TInst(class *types.ClassDef, args ...types.Type) *types.Instance {
	return types.NewInstance(class, args...)
}

// Union type: `int | str`
func TUnion(members ...types.Type) types.Type {
	return types.NewUnion(members...)
}

// Optional type: `int | None`
func TOptional(t types.Type) types.Type {
	return types.Optional(t)
}

// Literal type: `Literal[1]`
func TLit(v interface{}) *types.Literal {
	return types.LiteralOf(v)
}

// Fixed-size tuple: `tuple[int, str]`
func TTuple(elems ...types.Type) *types.Tuple {
	return types.NewTuple(elems...)
}

// Variadic tuple: `tuple[int, ...]`
func TTupleOf(elem types.Type) *types.Tuple {
	return &types.Tuple{Variadic: elem}
}

// Function type: `(x: int, y: int) -> int`
func TFunc(ret types.Type, params ...types.Param) *types.Callable {
	return &types.Callable{Params: params, Return: ret}
}

// Generic function type: `[T](x: T) -> T`
func TGeneric(typeParams []*types.TypeVar, ret types.Type, params ...types.Param) *types.Callable {
	return &types.Callable{TypeParams: typeParams, Params: params, Return: ret}
}

// Bidirectional guard function: `(x: object) -> TypeIs[int]`
func TTypeIs(guarded types.Type, params ...types.Param) *types.Callable {
	return &types.Callable{Params: params, Return: types.Bool, Guard: &types.Guard{Type: guarded, Bidirectional: true}}
}

// One-directional guard function: `(x: object) -> TypeGuard[int]`
func TTypeGuard(guarded types.Type, params ...types.Param) *types.Callable {
	return &types.Callable{Params: params, Return: types.Bool, Guard: &types.Guard{Type: guarded}}
}

// Positional-or-keyword parameter: `x: int`
func P(name string, t types.Type) types.Param {
	return types.Param{Name: name, Type: t}
}

// Parameter with a default: `x: int = ...`
func PDefault(name string, t types.Type) types.Param {
	return types.Param{Name: name, Type: t, HasDefault: true}
}

// Positional-only parameter: `x: int, /`
func PPos(name string, t types.Type) types.Param {
	return types.Param{Name: name, Type: t, Kind: types.PositionalOnly}
}

// Keyword-only parameter: `*, x: int`
func PKw(name string, t types.Type) types.Param {
	return types.Param{Name: name, Type: t, Kind: types.KeywordOnly}
}

// Variadic positional parameter: `*args: int`
func PArgs(name string, elem types.Type) types.Param {
	return types.Param{Name: name, Type: elem, Kind: types.VarPositional}
}

// Variadic keyword parameter: `**kwargs: int`
func PKwargs(name string, elem types.Type) types.Param {
	return types.Param{Name: name, Type: elem, Kind: types.VarKeyword}
}

// Overload group: `abs(x: int) -> int; abs(x: float) -> float`
func TOverload(name string, impl *types.Callable, variants ...*types.Callable) *types.OverloadGroup {
	return &types.OverloadGroup{Name: name, Variants: variants, Impl: impl}
}

// Required, mutable record field
func F(t types.Type) types.Field {
	return types.Field{Type: t, Required: true}
}

// Optional (non-required) record field
func FOpt(t types.Type) types.Field {
	return types.Field{Type: t}
}

// Read-only, required record field
func FReadOnly(t types.Type) types.Field {
	return types.Field{Type: t, Required: true, ReadOnly: true}
}

// Record type: `{name: str, year: int}`
func TRecord(name string, fields map[string]types.Field) *types.Record {
	return types.NewRecord(name, fields)
}

// Self-referential record type. The fields function receives a link back to the record.
func TRecursiveRecord(name string, fields func(self types.Type) map[string]types.Field) *types.Record {
	rec := types.NewRecursive(name)
	index := rec.AddType(name, nil)
	r := types.NewRecord(name, fields(rec.SelfLink(index)))
	rec.SetType(index, r)
	return r
}

// Self-referential protocol type. The members function receives a link back to the protocol.
func TRecursiveProtocol(name string, members func(self types.Type) map[string]types.Type) *types.Protocol {
	rec := types.NewRecursive(name)
	index := rec.AddType(name, nil)
	p := types.NewProtocol(name, members(rec.SelfLink(index)))
	rec.SetType(index, p)
	return p
}

// Expressions:

// Variable
func Name(name string) *ast.Name {
	return &ast.Name{Name: name}
}

// Literal: `1`, `"a"`, `True`, `None`
func Lit(v interface{}) *ast.Literal {
	return &ast.Literal{Value: v}
}

// None literal
func None() *ast.Literal {
	return &ast.Literal{}
}

// List display: `[a, b]`
func List(elems ...ast.Expr) *ast.List {
	return &ast.List{Elems: elems}
}

// Tuple display: `(a, b)`
func Tuple(elems ...ast.Expr) *ast.Tuple {
	return &ast.Tuple{Elems: elems}
}

// Dict display with string keys: `{"name": a}`
func Dict(entries ...ast.DictEntry) *ast.Dict {
	return &ast.Dict{Entries: entries}
}

// Paired key and value
func Entry(key string, value ast.Expr) ast.DictEntry {
	return ast.DictEntry{Key: key, Value: value}
}

// Application: `f(x, y)`
func Call(f ast.Expr, args ...ast.Expr) *ast.Call {
	call := &ast.Call{Func: f}
	for _, a := range args {
		call.Args = append(call.Args, ast.Arg{Value: a})
	}
	return call
}

// Application with keyword and unpacked arguments: `f(x, y=z, *xs)`
func CallArgs(f ast.Expr, args ...ast.Arg) *ast.Call {
	return &ast.Call{Func: f, Args: args}
}

// Keyword argument: `y=z`
func Kw(name string, value ast.Expr) ast.Arg {
	return ast.Arg{Name: name, Value: value}
}

// Selecting an attribute: `x.a`
func Attr(value ast.Expr, name string) *ast.Attribute {
	return &ast.Attribute{Value: value, Name: name}
}

// Subscript: `x[i]`
func Index(value, index ast.Expr) *ast.Subscript {
	return &ast.Subscript{Value: value, Index: index}
}

// Class test: `isinstance(x, int)`
func IsInstance(value ast.Expr, classes ...types.Type) *ast.IsInstance {
	return &ast.IsInstance{Value: value, Classes: classes}
}

// `x is None`
func IsNone(value ast.Expr) *ast.Compare {
	return &ast.Compare{Op: ast.Is, Left: value, Right: None()}
}

// `x is not None`
func IsNotNone(value ast.Expr) *ast.Compare {
	return &ast.Compare{Op: ast.IsNot, Left: value, Right: None()}
}

// `x == y`
func Eq(left, right ast.Expr) *ast.Compare {
	return &ast.Compare{Op: ast.Eq, Left: left, Right: right}
}

// `not x`
func Not(value ast.Expr) *ast.Not {
	return &ast.Not{Value: value}
}

// `a and b`
func And(values ...ast.Expr) *ast.BoolOp {
	return &ast.BoolOp{Op: ast.And, Values: values}
}

// `a or b`
func Or(values ...ast.Expr) *ast.BoolOp {
	return &ast.BoolOp{Op: ast.Or, Values: values}
}

// Statements:

// Assignment: `x = value`
func Assign(target string, value ast.Expr) *ast.Assign {
	return &ast.Assign{Target: target, Value: value}
}

// Annotated assignment: `x: int = value`
func AssignAs(target string, annotation types.Type, value ast.Expr) *ast.Assign {
	return &ast.Assign{Target: target, Annotation: annotation, Value: value}
}

// Expression statement
func Do(value ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{Value: value}
}

// `return value`
func Return(value ast.Expr) *ast.Return {
	return &ast.Return{Value: value}
}

// `raise value`
func Raise(value ast.Expr) *ast.Raise {
	return &ast.Raise{Value: value}
}

// Function body with a control-flow graph
func Function(name string, body *ast.ControlFlow) *ast.Function {
	return &ast.Function{Name: name, Body: body}
}

// Function body with a single block
func Body(name string, stmts ...ast.Stmt) *ast.Function {
	return &ast.Function{Name: name, Body: ast.NewControlFlow(stmts...)}
}

// If builds `if guard: then... else: otherwise...` after the entry statements, followed by the after
// statements. The returned blocks are entry, then, otherwise and after.
func If(guard ast.Expr, entry, then, otherwise, after []ast.Stmt) (*ast.ControlFlow, [4]*ast.Block) {
	cf := ast.NewControlFlow(entry...)
	thenBlock, elseBlock, afterBlock := cf.AddBlock(then...), cf.AddBlock(otherwise...), cf.AddBlock(after...)
	cf.AddBranch(cf.Entry(), guard, thenBlock, elseBlock)
	cf.AddJump(thenBlock, afterBlock)
	cf.AddJump(elseBlock, afterBlock)
	return cf, [4]*ast.Block{cf.Entry(), thenBlock, elseBlock, afterBlock}
}
