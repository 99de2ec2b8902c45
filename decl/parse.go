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

package decl

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/wdamron/gradual/types"
)

// resolver returns the type declared as name, applied to args. explicit is set when the name was
// subscripted (`Box[int]`), even with arguments which could not be parsed.
type resolver func(name string, args []types.Type, explicit bool) (types.Type, error)

// parser is a recursive-descent parser for type expressions.
//
// Syntax errors unwind the parser with a panic, which run converts to an error.
type parser struct {
	src  string
	toks []token
	pos  int
	// vars are type-parameters in scope, and Self.
	vars  map[string]types.Type
	names resolver
}

type syntaxError struct{ err error }

func newParser(src string, names resolver, vars map[string]types.Type) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid type expression %q", src)
	}
	return &parser{src: src, toks: toks, vars: vars, names: names}, nil
}

// parseType parses a complete type expression.
func parseType(src string, names resolver, vars map[string]types.Type) (types.Type, error) {
	p, err := newParser(src, names, vars)
	if err != nil {
		return nil, err
	}
	var t types.Type
	err = p.run(func() {
		t = p.typ()
		p.end()
	})
	return t, err
}

// parseCallable parses a complete callable type expression.
func parseCallable(src string, names resolver, vars map[string]types.Type) (*types.Callable, error) {
	t, err := parseType(src, names, vars)
	if err != nil {
		return nil, err
	}
	sig, ok := t.(*types.Callable)
	if !ok {
		return nil, errors.Errorf("%q is not a callable type", src)
	}
	return sig, nil
}

// parseField parses the type of a record field, with optional requiredness and read-only wrappers.
func parseField(src string, total bool, names resolver, vars map[string]types.Type) (types.Field, error) {
	p, err := newParser(src, names, vars)
	if err != nil {
		return types.Field{}, err
	}
	var f types.Field
	err = p.run(func() {
		f = p.field(total)
		p.end()
	})
	return f, err
}

// parseTypeParamHead parses the name and variance of a type-parameter declaration. The returned parser
// finishes the declaration (bound or constraints) once every parameter it may refer to is declared.
func parseTypeParamHead(src string) (*types.TypeVar, *parser, error) {
	p, err := newParser(src, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	var tv *types.TypeVar
	err = p.run(func() { tv = p.typeParamHead() })
	return tv, p, err
}

func (p *parser) finishTypeParam(tv *types.TypeVar, names resolver, vars map[string]types.Type) error {
	p.names, p.vars = names, vars
	return p.run(func() {
		p.typeParamTail(tv)
		p.end()
	})
}

// identifiers returns the names referred to by a type expression, or nil if it cannot be lexed.
func identifiers(src string) []string {
	toks, err := lex(src)
	if err != nil {
		return nil
	}
	var names []string
	for _, t := range toks {
		if t.kind == tokIdent {
			names = append(names, t.text)
		}
	}
	return names
}

func (p *parser) run(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			err = errors.Wrapf(se.err, "invalid type expression %q", p.src)
		}
	}()
	f()
	return nil
}

func (p *parser) fail(t token, format string, args ...interface{}) {
	panic(syntaxError{errors.Errorf("%s at offset %d", fmt.Sprintf(format, args...), t.pos)})
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString, tokBytes:
		return strconv.Quote(t.text)
	}
	return "'" + t.text + "'"
}

func (p *parser) peek() token { return p.toks[p.pos] }

// peekAt returns the token n places after the current one.
func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func isPunct(t token, text string) bool { return t.kind == tokPunct && t.text == text }

func (p *parser) is(punct string) bool { return isPunct(p.peek(), punct) }

func (p *parser) accept(punct string) bool {
	if p.is(punct) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(punct string) {
	if !p.accept(punct) {
		p.fail(p.peek(), "expected '%s', found %s", punct, describe(p.peek()))
	}
}

func (p *parser) ident() string {
	t := p.next()
	if t.kind != tokIdent {
		p.fail(t, "expected a name, found %s", describe(t))
	}
	return t.text
}

func (p *parser) end() {
	if t := p.peek(); t.kind != tokEOF {
		p.fail(t, "unexpected %s", describe(t))
	}
}

// list parses comma-separated items up to and including close, allowing a trailing comma.
func (p *parser) list(close string, item func()) int {
	n := 0
	for !p.accept(close) {
		if n > 0 {
			if !p.accept(",") {
				p.fail(p.peek(), "expected ',' or '%s', found %s", close, describe(p.peek()))
			}
			if p.accept(close) {
				break
			}
		}
		item()
		n++
	}
	return n
}

func (p *parser) typ() types.Type {
	members := []types.Type{p.primary()}
	for p.accept("|") {
		members = append(members, p.primary())
	}
	if len(members) == 1 {
		return members[0]
	}
	return types.NewUnion(members...)
}

func (p *parser) primary() types.Type {
	t := p.peek()
	switch {
	case isPunct(t, "("):
		if p.callableAhead() {
			return p.callable(nil)
		}
		p.next()
		inner := p.typ()
		p.expect(")")
		return inner
	case isPunct(t, "["):
		return p.genericCallable()
	case t.kind == tokIdent:
		p.next()
		return p.named(t)
	}
	p.fail(t, "expected a type, found %s", describe(t))
	return nil
}

// callableAhead reports whether the parenthesized group at the current token is a parameter list.
func (p *parser) callableAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch t := p.toks[i]; {
		case isPunct(t, "(") || isPunct(t, "["):
			depth++
		case isPunct(t, ")") || isPunct(t, "]"):
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && isPunct(p.toks[i+1], "->")
			}
		case t.kind == tokEOF:
			return false
		}
	}
	return false
}

func (p *parser) genericCallable() types.Type {
	open := p.next()
	outer := p.vars
	p.vars = make(map[string]types.Type, len(outer)+2)
	for name, t := range outer {
		p.vars[name] = t
	}
	var params []*types.TypeVar
	p.list("]", func() {
		tv := p.typeParamHead()
		p.vars[tv.Name] = tv
		p.typeParamTail(tv)
		params = append(params, tv)
	})
	if len(params) == 0 {
		p.fail(open, "empty type-parameter list")
	}
	if !p.is("(") {
		p.fail(p.peek(), "expected a parameter list after type-parameters, found %s", describe(p.peek()))
	}
	sig := p.callable(params)
	p.vars = outer
	return sig
}

func (p *parser) typeParamHead() *types.TypeVar {
	tv := types.NewTypeVar(p.ident())
	switch {
	case p.accept("+"):
		tv.Variance = types.Covariant
	case p.accept("-"):
		tv.Variance = types.Contravariant
	}
	return tv
}

func (p *parser) typeParamTail(tv *types.TypeVar) {
	switch t := p.peek(); {
	case isPunct(t, ":"):
		p.next()
		tv.Bound = p.typ()
	case t.kind == tokIdent && t.text == "in":
		p.next()
		p.expect("(")
		p.list(")", func() { tv.Constraints = append(tv.Constraints, p.typ()) })
		if len(tv.Constraints) < 2 {
			p.fail(t, "type-parameter %s requires at least 2 constraints", tv.Name)
		}
	}
}

func (p *parser) callable(typeParams []*types.TypeVar) *types.Callable {
	sig := &types.Callable{TypeParams: typeParams}
	p.expect("(")
	keywordOnly := false
	p.list(")", func() { sig.Params = p.param(sig.Params, &keywordOnly) })
	p.expect("->")
	sig.Return, sig.Guard = p.returnType()
	return sig
}

func (p *parser) param(params []types.Param, keywordOnly *bool) []types.Param {
	start := p.peek()
	if n := len(params); n > 0 && params[n-1].Kind == types.VarKeyword {
		p.fail(start, "parameter follows **%s", params[n-1].Name)
	}
	switch {
	case p.accept("/"):
		for i := range params {
			switch params[i].Kind {
			case types.Positional:
				params[i].Kind = types.PositionalOnly
			case types.PositionalOnly:
			default:
				p.fail(start, "'/' must precede '*' and keyword-only parameters")
			}
		}
		return params
	case p.accept("**"):
		name := p.ident()
		p.expect(":")
		return append(params, types.Param{Name: name, Type: p.typ(), Kind: types.VarKeyword})
	case p.accept("*"):
		if *keywordOnly {
			p.fail(start, "duplicate '*'")
		}
		*keywordOnly = true
		if p.is(",") || p.is(")") {
			return params
		}
		name := p.ident()
		p.expect(":")
		return append(params, types.Param{Name: name, Type: p.typ(), Kind: types.VarPositional})
	}

	var param types.Param
	if start.kind == tokIdent && isPunct(p.peekAt(1), ":") {
		p.pos += 2
		param = types.Param{Name: start.text, Type: p.typ()}
		if *keywordOnly {
			param.Kind = types.KeywordOnly
		}
	} else {
		if *keywordOnly {
			p.fail(start, "keyword-only parameters must be named")
		}
		param = types.Param{Type: p.typ(), Kind: types.PositionalOnly}
	}
	if p.accept("=") {
		p.expect("...")
		param.HasDefault = true
	} else if param.Kind != types.KeywordOnly {
		for _, prev := range params {
			if prev.HasDefault && prev.Kind != types.KeywordOnly {
				p.fail(start, "parameter without a default follows a parameter with a default")
			}
		}
	}
	return append(params, param)
}

func (p *parser) returnType() (types.Type, *types.Guard) {
	t := p.peek()
	if t.kind == tokIdent && (t.text == "TypeGuard" || t.text == "TypeIs") && isPunct(p.peekAt(1), "[") {
		p.pos += 2
		guarded := p.typ()
		p.expect("]")
		return types.Bool, &types.Guard{Type: guarded, Bidirectional: t.text == "TypeIs"}
	}
	return p.typ(), nil
}

func (p *parser) args(t token) []types.Type {
	var args []types.Type
	p.expect("[")
	if p.list("]", func() { args = append(args, p.typ()) }) == 0 {
		p.fail(t, "%s requires type-arguments", t.text)
	}
	return args
}

func (p *parser) named(t token) types.Type {
	switch t.text {
	case "Literal":
		return p.literal(t)
	case "Optional":
		args := p.args(t)
		if len(args) != 1 {
			p.fail(t, "Optional requires exactly 1 type-argument")
		}
		return types.Optional(args[0])
	case "Union":
		return types.NewUnion(p.args(t)...)
	case "tuple", "Tuple":
		return p.tuple()
	case "TypeGuard", "TypeIs", "NotRequired", "Required", "ReadOnly":
		p.fail(t, "%s is not valid here", t.text)
	}
	if v, ok := p.vars[t.text]; ok {
		if p.is("[") {
			p.fail(t, "%s cannot be subscripted", t.text)
		}
		return v
	}
	var args []types.Type
	explicit := p.is("[")
	if explicit {
		args = p.args(t)
	}
	if p.names == nil {
		p.fail(t, "undefined type %s", t.text)
	}
	typ, err := p.names(t.text, args, explicit)
	if err != nil {
		p.fail(t, "%v", err)
	}
	return typ
}

func (p *parser) tuple() types.Type {
	if !p.accept("[") {
		return &types.Tuple{Variadic: types.Any}
	}
	if p.accept("(") {
		p.expect(")")
		p.expect("]")
		return types.NewTuple()
	}
	var elems []types.Type
	variadic := false
	p.list("]", func() {
		t := p.peek()
		if p.accept("...") {
			if len(elems) != 1 || variadic {
				p.fail(t, "'...' must follow exactly one element type")
			}
			variadic = true
			return
		}
		if variadic {
			p.fail(t, "'...' must be the last element")
		}
		elems = append(elems, p.typ())
	})
	if variadic {
		return &types.Tuple{Variadic: elems[0]}
	}
	return types.NewTuple(elems...)
}

func (p *parser) literal(t token) types.Type {
	var members []types.Type
	p.expect("[")
	p.list("]", func() { members = append(members, p.literalValue()) })
	if len(members) == 0 {
		p.fail(t, "Literal requires at least one value")
	}
	return types.NewUnion(members...)
}

func (p *parser) literalValue() types.Type {
	t := p.next()
	switch {
	case t.kind == tokInt:
		return p.intLiteral(t, t.text)
	case isPunct(t, "-"):
		n := p.next()
		if n.kind != tokInt {
			p.fail(n, "expected an integer, found %s", describe(n))
		}
		return p.intLiteral(n, "-"+n.text)
	case t.kind == tokString:
		return types.LiteralOf(t.text)
	case t.kind == tokBytes:
		lit, err := types.NewLiteral(t.text, types.Bytes)
		if err != nil {
			p.fail(t, "%v", err)
		}
		return lit
	case t.kind == tokIdent && t.text == "True":
		return types.LiteralOf(true)
	case t.kind == tokIdent && t.text == "False":
		return types.LiteralOf(false)
	case t.kind == tokIdent && t.text == "None":
		return types.None
	}
	p.fail(t, "expected a literal value, found %s", describe(t))
	return nil
}

func (p *parser) intLiteral(t token, text string) types.Type {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.fail(t, "invalid integer literal %s", text)
	}
	return types.LiteralOf(v)
}

// field parses a record field type: `NotRequired[ReadOnly[int]]`.
func (p *parser) field(total bool) types.Field {
	f := types.Field{Required: total}
	wrappers := 0
wrap:
	for t := p.peek(); t.kind == tokIdent && isPunct(p.peekAt(1), "["); t = p.peek() {
		switch t.text {
		case "NotRequired":
			f.Required = false
		case "Required":
			f.Required = true
		case "ReadOnly":
			f.ReadOnly = true
		default:
			break wrap
		}
		p.pos += 2
		wrappers++
	}
	f.Type = p.typ()
	for ; wrappers > 0; wrappers-- {
		p.expect("]")
	}
	return f
}
