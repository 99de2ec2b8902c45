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

	set "github.com/hashicorp/go-set/v2"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/internal/util"
	"github.com/wdamron/gradual/types"
)

// CheckFunction checks the body of fn against its declared signature and returns the diagnostics found.
// After checking, the type of every reachable expression in the body is available through its Type method.
//
// When sig is nil the function is unannotated: it is checked with Any parameters and an Any return if
// Options.UntypedAsAny is set, and skipped otherwise.
func (c *Checker) CheckFunction(fn *ast.Function, sig *types.Callable) []Diagnostic {
	if fn == nil || fn.Body == nil || len(fn.Body.Blocks) == 0 {
		return nil
	}
	if sig == nil {
		if !c.opts.UntypedAsAny {
			return nil
		}
		sig = &types.Callable{Return: types.Any}
	}
	f := &funcChecker{
		c:            c,
		tc:           c.engine(),
		fn:           fn,
		sig:          sig,
		ret:          sig.Return,
		contradicted: set.New[int](0),
	}
	if f.ret == nil {
		f.ret = types.Any
	}
	f.run()
	return c.emit(f.diags)
}

// funcChecker holds the state of one CheckFunction call.
type funcChecker struct {
	c   *Checker
	tc  *typeutil.Checker
	fn  *ast.Function
	sig *types.Callable
	ret types.Type

	// Diagnostics are only reported during the final pass over the body, and not while muted.
	reporting bool
	mute      int
	aborted   bool
	diags     []Diagnostic

	// Blocks with an incoming edge cut by a reported narrowing contradiction.
	contradicted *set.Set[int]
}

func (f *funcChecker) join(a, b types.Type) types.Type { return f.tc.Join(a, b) }

func (f *funcChecker) emitting() bool { return f.reporting && f.mute == 0 && !f.aborted }

func (f *funcChecker) report(d Diagnostic) {
	if !f.emitting() {
		return
	}
	if d.Function == "" {
		d.Function = f.fn.Name
	}
	f.diags = append(f.diags, d)
}

func (f *funcChecker) fail(err error, pos ast.Pos) {
	f.report(diagnose(err, pos, f.fn.Name))
}

// entryEnv binds the parameters of the signature.
func (f *funcChecker) entryEnv() Env {
	env := NewEnv()
	for _, p := range f.sig.Params {
		if p.Name == "" {
			continue
		}
		t := p.Type
		if t == nil {
			t = types.Any
		}
		switch p.Kind {
		case types.VarPositional:
			t = &types.Tuple{Variadic: t}
		case types.VarKeyword:
			if dict := f.c.module.Classes.Builtin("dict"); dict != nil && len(dict.TypeParams) == 2 {
				t = types.NewInstance(dict, types.Str, t)
			} else {
				t = types.Any
			}
		}
		env = env.Declare(p.Name, t, t)
	}
	return env
}

// run computes the environment at the entry of every block by iterating over the control-flow graph in
// reverse post-order until nothing changes, then makes a final pass which reports diagnostics.
func (f *funcChecker) run() {
	cf := f.fn.Body
	n := len(cf.Blocks)
	g := util.NewGraph(n)
	incoming, outgoing := make([][]int, n), make([][]int, n)
	for i, j := range cf.Jumps {
		g.AddEdge(j.From, j.To)
		incoming[j.To] = append(incoming[j.To], i)
		outgoing[j.From] = append(outgoing[j.From], i)
	}
	order := g.PostOrder(0, true)
	headers := g.LoopHeaders(0)
	entry := f.entryEnv()

	ins := make([]*Env, n)
	edges := make([]*Env, len(cf.Jumps))
	limit := f.c.opts.maxLoopIterations()
	for round := 0; ; round++ {
		changed := false
		for _, b := range order {
			in := f.incoming(b, &entry, incoming[b], edges)
			if headers[b] && round >= limit && in != nil && ins[b] != nil && !sameEnv(in, ins[b]) {
				in = f.widen(ins[b], in)
			}
			if !sameEnv(in, ins[b]) {
				ins[b], changed = in, true
			}
			if in == nil {
				continue
			}
			out, live := f.block(cf.Blocks[b], *in)
			for _, ji := range outgoing[b] {
				edges[ji] = nil
				if live {
					edges[ji] = f.follow(out, cf.Jumps[ji]).env
				}
			}
		}
		// Loops without a single entry have no header to widen at.
		if !changed || round > limit+n {
			break
		}
	}

	f.reporting = true
	for _, b := range order {
		if ins[b] == nil {
			continue
		}
		out, live := f.block(cf.Blocks[b], *ins[b])
		if f.aborted {
			return
		}
		if !live {
			continue
		}
		for _, ji := range outgoing[b] {
			jump := cf.Jumps[ji]
			if br := f.follow(out, jump); br.dead() && jump.Guard != nil {
				f.contradiction(jump, br)
				if f.aborted {
					return
				}
			}
		}
		if len(outgoing[b]) == 0 {
			f.fallThrough(cf.Blocks[b])
		}
	}

	if f.c.opts.WarnUnreachable {
		for _, b := range cf.Blocks {
			if ins[b.Index] == nil && len(b.Stmts) > 0 && !f.contradicted.Contains(b.Index) {
				f.report(Diagnostic{Kind: UnreachableCode, Severity: Warning, Pos: b.Stmts[0].Position(),
					Detail: "block is unreachable"})
			}
		}
	}
}

func (f *funcChecker) incoming(b int, entry *Env, jumps []int, edges []*Env) *Env {
	envs := make([]*Env, 0, len(jumps)+1)
	if b == 0 {
		envs = append(envs, entry)
	}
	for _, ji := range jumps {
		envs = append(envs, edges[ji])
	}
	return joinEnvs(envs, f.join)
}

// widen replaces the types of variables which are still changing at a loop header with their declared
// types (or Any for unannotated variables).
func (f *funcChecker) widen(prev, next *Env) *Env {
	widened := *next
	for _, name := range next.Names() {
		nb, _ := next.Lookup(name)
		pb, ok := prev.Lookup(name)
		if ok && sameType(pb.Current, nb.Current) {
			continue
		}
		if nb.Declared != nil {
			nb.Current = nb.Declared
		} else {
			nb.Current = types.Any
		}
		widened = widened.set(name, nb)
	}
	return &widened
}

// follow returns the environment at the target of a jump from a block whose exit environment is out.
func (f *funcChecker) follow(out Env, jump ast.Jump) branch {
	if jump.Guard == nil {
		return live(out)
	}
	if jump.Negate {
		// Both jumps of a branch share the guard; its diagnostics are reported on the true edge.
		f.mute++
		f.expr(jump.Guard, out, nil)
		f.mute--
	} else {
		f.expr(jump.Guard, out, nil)
	}
	yes, no := f.narrow(out, jump.Guard)
	if jump.Negate {
		return no
	}
	return yes
}

func (f *funcChecker) contradiction(jump ast.Jump, br branch) {
	strict := f.c.opts.StrictNarrowing
	if !strict && !f.c.opts.WarnUnreachable {
		return
	}
	f.contradicted.Insert(jump.To)
	severity := Warning
	if strict {
		severity = Error
	}
	outcome := "true"
	if jump.Negate {
		outcome = "false"
	}
	f.report(Diagnostic{Kind: NarrowingContradiction, Severity: severity, Pos: jump.Guard.Position(),
		Member: br.name, Source: br.was,
		Detail: br.name + " of type " + types.TypeString(br.was) + " can never make " + ast.ExprString(jump.Guard) + " " + outcome})
	if strict {
		f.aborted = true
	}
}

// fallThrough checks the implicit `return None` at the end of a block without successors.
func (f *funcChecker) fallThrough(b *ast.Block) {
	if err := f.tc.Compatible(types.None, f.ret); err != nil {
		pos := f.fn.Pos
		if len(b.Stmts) > 0 {
			pos = b.Stmts[len(b.Stmts)-1].Position()
		}
		d := diagnose(typeutil.WithPath(err, "return"), pos, f.fn.Name)
		d.Detail = "missing return statement: implicit None is not compatible with " + types.TypeString(f.ret)
		f.report(d)
	}
}

// block checks the statements of a block. The returned flag is false when the end of the block can
// never be reached.
func (f *funcChecker) block(b *ast.Block, env Env) (Env, bool) {
	for i, st := range b.Stmts {
		var live bool
		env, live = f.stmt(st, env)
		if f.aborted {
			return env, false
		}
		if !live {
			if f.c.opts.WarnUnreachable && i+1 < len(b.Stmts) {
				f.report(Diagnostic{Kind: UnreachableCode, Severity: Warning, Pos: b.Stmts[i+1].Position(),
					Detail: "statement is unreachable"})
			}
			return env, false
		}
	}
	return env, true
}

func (f *funcChecker) stmt(st ast.Stmt, env Env) (Env, bool) {
	switch s := st.(type) {
	case *ast.Assign:
		return f.assign(s, env)

	case *ast.ExprStmt:
		t := f.expr(s.Value, env, nil)
		return env, !types.IsNever(t)

	case *ast.Return:
		var t types.Type = types.None
		if s.Value != nil {
			t = f.expr(s.Value, env, f.ret)
		}
		if err := f.tc.Compatible(t, f.ret); err != nil {
			f.fail(typeutil.WithPath(err, "return"), s.Pos)
		}
		return env, false

	case *ast.Raise:
		if s.Value != nil {
			f.expr(s.Value, env, nil)
		}
		return env, false
	}
	return env, true
}

// assign discards any narrowing of the target. Annotated variables return to their declared type;
// unannotated variables take the literal-widened type of the value.
func (f *funcChecker) assign(s *ast.Assign, env Env) (Env, bool) {
	declared := s.Annotation
	if declared == nil {
		if b, ok := env.Lookup(s.Target); ok {
			declared = b.Declared
		}
	}
	if s.Value == nil {
		if s.Annotation != nil {
			return env.Declare(s.Target, s.Annotation, nil), true
		}
		return env, true
	}
	t := f.expr(s.Value, env, declared)
	if types.IsNever(t) {
		return env, false
	}
	if declared == nil {
		return env.Declare(s.Target, nil, types.Widen(t)), true
	}
	if err := f.tc.Compatible(t, declared); err != nil {
		f.fail(err, s.Pos)
	}
	return env.Declare(s.Target, declared, declared), true
}

type typeSetter interface {
	SetType(types.Type)
}

// expr computes the type of e within env and records it on e. expected is the type the context expects
// (used for bidirectional inference), or nil. Failures are reported and typed as Any.
func (f *funcChecker) expr(e ast.Expr, env Env, expected types.Type) types.Type {
	t := f.infer(e, env, expected)
	if t == nil {
		t = types.Any
	}
	if s, ok := e.(typeSetter); ok {
		s.SetType(t)
	}
	return t
}

func (f *funcChecker) infer(e ast.Expr, env Env, expected types.Type) types.Type {
	switch e := e.(type) {
	case *ast.Name:
		return f.name(e, env)

	case *ast.Literal:
		return literalType(e)

	case *ast.List:
		args := make([]ast.Arg, len(e.Elems))
		for i, el := range e.Elems {
			args[i] = ast.Arg{Value: el}
		}
		return f.display(e.Pos, "list", 1, args, env, expected)

	case *ast.Tuple:
		var want *types.Tuple
		if exp, ok := types.Unroll(orNil(expected)).(*types.Tuple); ok && len(exp.Elems) == len(e.Elems) {
			want = exp
		}
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			if want != nil {
				elems[i] = f.expr(el, env, want.Elems[i])
			} else {
				elems[i] = types.Widen(f.expr(el, env, nil))
			}
		}
		return types.NewTuple(elems...)

	case *ast.Dict:
		if rec := recordOf(expected); rec != nil {
			return f.recordDisplay(e, rec, env)
		}
		args := make([]ast.Arg, len(e.Entries))
		for i, entry := range e.Entries {
			args[i] = ast.Arg{Name: entry.Key, Value: entry.Value}
		}
		if t := f.display(e.Pos, "dict", 2, args, env, expected); t != nil {
			return t
		}
		fields := make(map[string]types.Field, len(e.Entries))
		for _, entry := range e.Entries {
			fields[entry.Key] = types.Field{Type: types.Widen(entry.Value.Type()), Required: true}
		}
		return types.NewRecord("", fields)

	case *ast.Call:
		callee := f.expr(e.Func, env, nil)
		res, ok := f.invoke(callee, e.Pos, e.Args, env, expected)
		if !ok {
			return types.Any
		}
		e.SetSignature(res.Signature)
		return res.Return

	case *ast.Attribute:
		t := f.expr(e.Value, env, nil)
		if m, ok := f.tc.MemberOf(t, e.Name); ok {
			return m
		}
		f.report(Diagnostic{Kind: MissingMember, Severity: Error, Pos: e.Pos, Source: t, Member: e.Name})
		return types.Any

	case *ast.Subscript:
		return f.subscript(e, env)

	case *ast.IsInstance:
		f.expr(e.Value, env, nil)
		return types.Bool

	case *ast.Compare:
		f.expr(e.Left, env, nil)
		f.expr(e.Right, env, nil)
		return types.Bool

	case *ast.Not:
		f.expr(e.Value, env, nil)
		return types.Bool

	case *ast.BoolOp:
		// Each operand is evaluated where the previous operands allow it to be reached.
		results := make([]types.Type, 0, len(e.Values))
		cur := live(env)
		for _, v := range e.Values {
			if cur.dead() {
				break
			}
			results = append(results, f.expr(v, *cur.env, nil))
			yes, no := f.narrow(*cur.env, v)
			if e.Op == ast.And {
				cur = yes
			} else {
				cur = no
			}
		}
		return types.NewUnion(results...)
	}
	return types.Any
}

func orNil(t types.Type) types.Type {
	if t == nil {
		return types.Any
	}
	return t
}

func (f *funcChecker) name(e *ast.Name, env Env) types.Type {
	if b, ok := env.Lookup(e.Name); ok {
		if b.Current != nil {
			return b.Current
		}
		f.report(Diagnostic{Kind: UndefinedName, Severity: Error, Pos: e.Pos, Member: e.Name,
			Detail: e.Name + " is declared but not bound"})
		if b.Declared != nil {
			return b.Declared
		}
		return types.Any
	}
	if t, ok := f.c.module.Lookup(e.Name); ok {
		return t
	}
	f.report(Diagnostic{Kind: UndefinedName, Severity: Error, Pos: e.Pos, Member: e.Name,
		Detail: "name " + e.Name + " is not defined"})
	return types.Any
}

func literalType(e *ast.Literal) types.Type {
	switch v := e.Value.(type) {
	case nil:
		return types.None
	case float32, float64:
		return types.Float
	case complex64, complex128:
		return types.Complex
	case string:
		if e.Bytes {
			if lit, err := types.NewLiteral(v, types.Bytes); err == nil {
				return lit
			}
			return types.Bytes
		}
	}
	if lit := types.LiteralOf(e.Value); lit != nil {
		return lit
	}
	return types.Any
}

// contextual reports whether the type of e depends on the type its context expects.
func contextual(e ast.Expr) bool {
	switch e.(type) {
	case *ast.List, *ast.Dict, *ast.Tuple:
		return true
	}
	return false
}

// invoke checks a call with argument expressions. Context-sensitive arguments (container displays) are
// typed silently while the call is solved, then checked once more against the parameter type they were
// matched with, so their diagnostics are reported exactly once.
func (f *funcChecker) invoke(callee types.Type, pos ast.Pos, args []ast.Arg, env Env, expected types.Type) (CallResult, bool) {
	argv := make([]Argument, len(args))
	deferred := false
	for i, a := range args {
		arg := Argument{Name: a.Name}
		switch {
		case a.Star:
			arg.Kind = ArgStar
		case a.DoubleStar:
			arg.Kind = ArgDoubleStar
		case a.Name != "":
			arg.Kind = ArgKeyword
		}
		if value := a.Value; contextual(value) {
			deferred = true
			f.mute++
			arg.Type = f.expr(value, env, nil)
			f.mute--
			arg.Retype = func(want types.Type) types.Type {
				f.mute++
				defer func() { f.mute-- }()
				return f.expr(value, env, want)
			}
		} else {
			arg.Type = f.expr(value, env, nil)
		}
		argv[i] = arg
	}
	res, err := f.c.inferCall(f.tc, callee, argv, expected)
	if err != nil {
		f.fail(err, pos)
	}
	if deferred && f.emitting() {
		want := f.paramTypes(res.Signature, argv)
		for i, a := range args {
			if contextual(a.Value) {
				f.expr(a.Value, env, want[i])
			}
		}
	}
	return res, err == nil
}

// paramTypes returns the type of the parameter each positional or keyword argument binds to.
func (f *funcChecker) paramTypes(sig *types.Callable, args []Argument) []types.Type {
	want := make([]types.Type, len(args))
	if sig == nil {
		return want
	}
	matches, err := f.tc.MatchArgs(sig, args)
	if err != nil {
		return want
	}
	for _, m := range matches {
		if k := args[m.Arg].Kind; k == ArgPositional || k == ArgKeyword {
			want[m.Arg] = sig.Params[m.Param].Type
		}
	}
	return want
}

// display types a container display as a call to a generic constructor of the builtin container class:
// `[T](*elems: T) -> list[T]`, or `[V](**items: V) -> dict[str, V]`. nil is returned when the builtin
// class is not declared.
func (f *funcChecker) display(pos ast.Pos, class string, arity int, args []ast.Arg, env Env, expected types.Type) types.Type {
	cls := f.c.module.Classes.Builtin(class)
	if cls == nil || len(cls.TypeParams) != arity {
		for _, a := range args {
			f.expr(a.Value, env, nil)
		}
		if class == "dict" {
			return nil
		}
		return types.Any
	}
	elem := types.NewTypeVar("T")
	ctor := &types.Callable{TypeParams: []*types.TypeVar{elem}}
	if arity == 1 {
		ctor.Params = []types.Param{{Name: "elems", Type: elem, Kind: types.VarPositional}}
		ctor.Return = types.NewInstance(cls, elem)
	} else {
		ctor.Params = []types.Param{{Name: "items", Type: elem, Kind: types.VarKeyword}}
		ctor.Return = types.NewInstance(cls, types.Str, elem)
	}
	res, ok := f.invoke(ctor, pos, args, env, expected)
	if !ok {
		return types.NewInstance(cls)
	}
	return res.Return
}

// recordOf finds the record type expected by a context, looking through Optional.
func recordOf(expected types.Type) *types.Record {
	if expected == nil {
		return nil
	}
	var found *types.Record
	for _, m := range types.Members(types.Unroll(expected)) {
		if rec, ok := types.Unroll(m).(*types.Record); ok {
			if found != nil {
				return nil
			}
			found = rec
		}
	}
	return found
}

func fieldSegment(name string) string { return "[" + strconv.Quote(name) + "]" }

// recordDisplay checks a dict display against an expected record type: every key must be a field of the
// record with a compatible value, and every required field must be present.
func (f *funcChecker) recordDisplay(e *ast.Dict, rec *types.Record, env Env) types.Type {
	seen := set.New[string](len(e.Entries))
	for _, entry := range e.Entries {
		seen.Insert(entry.Key)
		field, ok := rec.Field(entry.Key)
		if !ok {
			f.expr(entry.Value, env, nil)
			f.report(Diagnostic{Kind: TypeMismatch, Severity: Error, Pos: entry.Value.Position(),
				Path: []string{fieldSegment(entry.Key)}, Target: rec, Member: entry.Key,
				Detail: "unexpected key " + strconv.Quote(entry.Key) + " for " + types.TypeString(rec)})
			continue
		}
		t := f.expr(entry.Value, env, field.Type)
		if err := f.tc.Compatible(t, field.Type); err != nil {
			f.fail(typeutil.WithPath(err, fieldSegment(entry.Key)), entry.Value.Position())
		}
	}
	for _, name := range rec.Fields.Names() {
		if field, _ := rec.Field(name); field.Required && !seen.Contains(name) {
			f.report(Diagnostic{Kind: TypeMismatch, Severity: Error, Pos: e.Pos, Target: rec, Member: name,
				Detail: "missing required field " + strconv.Quote(name) + " for " + types.TypeString(rec)})
		}
	}
	return rec
}

func (f *funcChecker) subscript(e *ast.Subscript, env Env) types.Type {
	t := f.expr(e.Value, env, nil)
	switch v := types.Unroll(t).(type) {
	case *types.AnyType:
		f.expr(e.Index, env, nil)
		return types.Any

	case *types.Record:
		f.expr(e.Index, env, nil)
		var name string
		key, ok := e.Index.(*ast.Literal)
		if ok && !key.Bytes {
			name, ok = key.Value.(string)
		}
		if !ok {
			f.report(Diagnostic{Kind: TypeMismatch, Severity: Error, Pos: e.Index.Position(), Target: v,
				Detail: "record keys must be string literals"})
			return types.Any
		}
		if field, ok := v.Field(name); ok {
			return field.Type
		}
		f.report(Diagnostic{Kind: MissingMember, Severity: Error, Pos: e.Index.Position(), Source: v, Member: name,
			Path: []string{fieldSegment(name)}})
		return types.Any

	case *types.Tuple:
		if key, ok := e.Index.(*ast.Literal); ok {
			if lit := types.LiteralOf(key.Value); lit != nil && lit.Base == types.Int {
				f.expr(e.Index, env, nil)
				return f.tupleIndex(v, lit.Value.(int64), e.Index.Position())
			}
		}
	}
	getitem, ok := f.tc.MemberOf(t, "__getitem__")
	if !ok {
		f.expr(e.Index, env, nil)
		f.report(Diagnostic{Kind: MissingMember, Severity: Error, Pos: e.Pos, Source: t, Member: "__getitem__"})
		return types.Any
	}
	res, ok := f.invoke(getitem, e.Pos, []ast.Arg{{Value: e.Index}}, env, nil)
	if !ok {
		return types.Any
	}
	return res.Return
}

func (f *funcChecker) tupleIndex(t *types.Tuple, i int64, pos ast.Pos) types.Type {
	n := int64(len(t.Elems))
	if i < 0 && t.Variadic == nil {
		i += n
	}
	switch {
	case i >= 0 && i < n:
		return t.Elems[i]
	case t.Variadic != nil:
		return t.Variadic
	}
	f.report(Diagnostic{Kind: TypeMismatch, Severity: Error, Pos: pos, Source: t,
		Detail: "tuple index " + strconv.FormatInt(i, 10) + " is out of range for " + types.TypeString(t)})
	return types.Any
}
