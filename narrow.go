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
	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/types"
)

// branch is the environment on one side of a guard. A nil env means the branch can never be taken;
// name and was then record the variable which was narrowed to Never.
type branch struct {
	env  *Env
	name string
	was  types.Type
}

func live(env Env) branch { return branch{env: &env} }

func (b branch) dead() bool { return b.env == nil }

// narrow splits env into the environments in which guard is true and false.
func (f *funcChecker) narrow(env Env, guard ast.Expr) (yes, no branch) {
	switch g := guard.(type) {
	case *ast.Name:
		return f.narrowTruthy(env, g)

	case *ast.Not:
		yes, no = f.narrow(env, g.Value)
		return no, yes

	case *ast.BoolOp:
		return f.narrowBoolOp(env, g)

	case *ast.IsInstance:
		name, ok := g.Value.(*ast.Name)
		if !ok || len(g.Classes) == 0 {
			break
		}
		test := types.NewUnion(g.Classes...)
		return f.narrowName(env, name.Name,
			func(t types.Type) types.Type { return f.tc.MeetInstance(t, test) },
			func(t types.Type) types.Type { return f.tc.ExcludeInstance(t, test) })

	case *ast.Compare:
		return f.narrowCompare(env, g)

	case *ast.Call:
		return f.narrowGuardCall(env, g)
	}
	return live(env), live(env)
}

// narrowName applies onYes and onNo to the current type of a variable. Variables which are not bound in env
// (such as module-level names) are never narrowed.
func (f *funcChecker) narrowName(env Env, name string, onYes, onNo func(types.Type) types.Type) (yes, no branch) {
	b, ok := env.Lookup(name)
	if !ok || b.Current == nil {
		return live(env), live(env)
	}
	apply := func(narrow func(types.Type) types.Type) branch {
		if narrow == nil {
			return live(env)
		}
		t := narrow(b.Current)
		if types.IsNever(t) {
			return branch{name: name, was: b.Current}
		}
		return live(env.Assign(name, t))
	}
	return apply(onYes), apply(onNo)
}

func (f *funcChecker) narrowTruthy(env Env, name *ast.Name) (yes, no branch) {
	return f.narrowName(env, name.Name,
		func(t types.Type) types.Type { return types.Without(t, isFalsy) },
		func(t types.Type) types.Type { return types.Without(t, isTruthy) })
}

// isFalsy reports whether every value of t is false in a boolean context.
func isFalsy(t types.Type) bool {
	switch t := t.(type) {
	case *types.NoneType:
		return true
	case *types.Literal:
		return !t.Truthy()
	}
	return false
}

// isTruthy reports whether every value of t is true in a boolean context.
func isTruthy(t types.Type) bool {
	lit, ok := t.(*types.Literal)
	return ok && lit.Truthy()
}

func (f *funcChecker) narrowCompare(env Env, cmp *ast.Compare) (yes, no branch) {
	name, value := comparedName(cmp)
	if name == nil {
		return live(env), live(env)
	}
	var test types.Type
	switch v := value.Value.(type) {
	case nil:
		test = types.None
	default:
		if lit := types.LiteralOf(v); lit != nil && !value.Bytes {
			test = lit
		}
	}
	if test == nil {
		return live(env), live(env)
	}
	onYes := func(t types.Type) types.Type { return f.tc.Meet(t, test) }
	onNo := func(t types.Type) types.Type {
		return types.Without(t, func(m types.Type) bool { return types.Identical(m, test) })
	}
	switch cmp.Op {
	case ast.IsNot, ast.NotEq:
		return f.narrowName(env, name.Name, onNo, onYes)
	}
	return f.narrowName(env, name.Name, onYes, onNo)
}

// comparedName matches a comparison between a variable and a literal, in either order.
func comparedName(cmp *ast.Compare) (*ast.Name, *ast.Literal) {
	if name, ok := cmp.Left.(*ast.Name); ok {
		if lit, ok := cmp.Right.(*ast.Literal); ok {
			return name, lit
		}
	}
	if name, ok := cmp.Right.(*ast.Name); ok {
		if lit, ok := cmp.Left.(*ast.Literal); ok {
			return name, lit
		}
	}
	return nil, nil
}

// narrowGuardCall narrows the first argument of a call to a guard function. Bidirectional guards narrow
// both branches; one-directional guards only narrow the true branch.
func (f *funcChecker) narrowGuardCall(env Env, call *ast.Call) (yes, no branch) {
	sig := call.Signature()
	if sig == nil || sig.Guard == nil || len(call.Args) == 0 {
		return live(env), live(env)
	}
	first := call.Args[0]
	name, ok := first.Value.(*ast.Name)
	if !ok || first.Star || first.DoubleStar {
		return live(env), live(env)
	}
	guard := sig.Guard
	if guard.Bidirectional {
		return f.narrowName(env, name.Name,
			func(t types.Type) types.Type { return f.tc.Meet(t, guard.Type) },
			func(t types.Type) types.Type { return f.tc.Exclude(t, guard.Type) })
	}
	return f.narrowName(env, name.Name, func(types.Type) types.Type { return guard.Type }, nil)
}

// narrowBoolOp composes the branches of the operands of `and` and `or`. For `a and b`, the true branch is
// the true branch of b evaluated within the true branch of a, and the false branch joins the false
// branches of every operand.
func (f *funcChecker) narrowBoolOp(env Env, op *ast.BoolOp) (yes, no branch) {
	var exits []branch
	cur := live(env)
	for _, v := range op.Values {
		if cur.dead() {
			break
		}
		vy, vn := f.narrow(*cur.env, v)
		if op.Op == ast.And {
			exits, cur = append(exits, vn), vy
		} else {
			exits, cur = append(exits, vy), vn
		}
	}
	exit := f.joinBranches(exits)
	if op.Op == ast.And {
		return cur, exit
	}
	return exit, cur
}

func (f *funcChecker) joinBranches(bs []branch) branch {
	envs := make([]*Env, 0, len(bs))
	for _, b := range bs {
		envs = append(envs, b.env)
	}
	if joined := joinEnvs(envs, f.join); joined != nil {
		return branch{env: joined}
	}
	if len(bs) > 0 {
		return bs[0]
	}
	return branch{}
}
