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

// ArgKind describes how an argument is passed at a call site.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	// `*xs`
	ArgStar
	// `**kw`
	ArgDoubleStar
)

// Arg is an argument at a call site.
type Arg struct {
	Kind ArgKind
	// Name of a keyword argument.
	Name string
	Type types.Type
	// Retype recomputes the type of a context-sensitive argument (such as an empty container display)
	// for an expected parameter type. It may be nil.
	Retype func(expected types.Type) types.Type
}

// ArgMatch binds an argument (or an element of an unpacked argument) to a parameter.
type ArgMatch struct {
	Arg   int
	Param int
	Type  types.Type
}

func paramSegment(p types.Param) string {
	if p.Name == "" {
		return "param"
	}
	return "param " + p.Name
}

func variadicIndexes(sig *types.Callable) (varPos, varKw int) {
	varPos, varKw = -1, -1
	for i, p := range sig.Params {
		switch p.Kind {
		case types.VarPositional:
			varPos = i
		case types.VarKeyword:
			varKw = i
		}
	}
	return
}

// keywordParam finds the named parameter which accepts a keyword argument, or -1.
func keywordParam(sig *types.Callable, name string) int {
	for i, p := range sig.Params {
		if p.Name == name && (p.Kind == types.Positional || p.Kind == types.KeywordOnly) {
			return i
		}
	}
	return -1
}

// MatchArgs binds arguments to the parameters of sig. Variadic parameters are typed by their element type.
func (c *Checker) MatchArgs(sig *types.Callable, args []Arg) ([]ArgMatch, error) {
	c.enter()
	defer c.leave()
	return c.matchArgs(sig, args)
}

func (c *Checker) matchArgs(sig *types.Callable, args []Arg) ([]ArgMatch, error) {
	bound := make([]bool, len(sig.Params))
	matches := make([]ArgMatch, 0, len(args))
	varPos, varKw := variadicIndexes(sig)
	next := 0
	nextPositional := func() int {
		for ; next < len(sig.Params); next++ {
			p := sig.Params[next]
			if p.Kind != types.PositionalOnly && p.Kind != types.Positional {
				return -1
			}
			if !bound[next] {
				return next
			}
		}
		return -1
	}
	bindPositional := func(ai int, t types.Type) error {
		pi := nextPositional()
		if pi < 0 {
			pi = varPos
		}
		if pi < 0 {
			return arityMismatch(t, sig, "too many positional arguments")
		}
		bound[pi] = true
		matches = append(matches, ArgMatch{Arg: ai, Param: pi, Type: t})
		return nil
	}

	for ai, a := range args {
		switch a.Kind {
		case ArgPositional:
			if err := bindPositional(ai, a.Type); err != nil {
				return nil, err
			}
		case ArgStar:
			if tup, ok := a.Type.(*types.Tuple); ok && tup.Variadic == nil {
				for _, elem := range tup.Elems {
					if err := bindPositional(ai, elem); err != nil {
						return nil, err
					}
				}
				continue
			}
			// The length is unknown: the element type may reach every remaining positional parameter.
			elem := c.iterElem(a.Type)
			for pi := nextPositional(); pi >= 0; pi = nextPositional() {
				bound[pi] = true
				matches = append(matches, ArgMatch{Arg: ai, Param: pi, Type: elem})
			}
			if varPos >= 0 {
				bound[varPos] = true
				matches = append(matches, ArgMatch{Arg: ai, Param: varPos, Type: elem})
			}
		}
	}

	for ai, a := range args {
		switch a.Kind {
		case ArgKeyword:
			pi := keywordParam(sig, a.Name)
			switch {
			case pi >= 0 && bound[pi]:
				return nil, arityMismatch(a.Type, sig, "multiple values for argument "+a.Name)
			case pi < 0 && varKw < 0:
				return nil, arityMismatch(a.Type, sig, "unexpected keyword argument "+a.Name)
			case pi < 0:
				pi = varKw
			}
			bound[pi] = true
			matches = append(matches, ArgMatch{Arg: ai, Param: pi, Type: a.Type})
		case ArgDoubleStar:
			for pi, p := range sig.Params {
				if bound[pi] || p.IsVariadic() || !p.AcceptsKeyword() {
					continue
				}
				if vt, ok := c.mappingValue(a.Type, p.Name); ok {
					bound[pi] = true
					matches = append(matches, ArgMatch{Arg: ai, Param: pi, Type: vt})
				}
			}
			if varKw >= 0 {
				if vt, ok := c.mappingValue(a.Type, ""); ok {
					bound[varKw] = true
					matches = append(matches, ArgMatch{Arg: ai, Param: varKw, Type: vt})
				}
			}
		}
	}

	for pi, p := range sig.Params {
		if !bound[pi] && !p.Optional() {
			return nil, arityMismatch(nil, sig, "missing argument for parameter "+p.Name)
		}
	}
	return matches, nil
}

// iterElem approximates the element type of an unpacked iterable.
func (c *Checker) iterElem(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Tuple:
		elems := append([]types.Type(nil), t.Elems...)
		if t.Variadic != nil {
			elems = append(elems, t.Variadic)
		}
		return c.joinAll(elems)
	case *types.Instance:
		if len(t.Args) == 1 {
			return t.Args[0]
		}
	}
	return types.Any
}

// mappingValue approximates the value bound to a keyword by an unpacked mapping. An empty name
// asks for the value type of any key.
func (c *Checker) mappingValue(t types.Type, name string) (types.Type, bool) {
	switch t := t.(type) {
	case *types.Record:
		if name == "" {
			var values []types.Type
			t.Fields.Range(func(_ string, f types.Field) bool {
				values = append(values, f.Type)
				return true
			})
			return c.joinAll(values), len(values) > 0
		}
		if f, ok := t.Field(name); ok {
			return f.Type, true
		}
		return nil, false
	case *types.Instance:
		if len(t.Args) == 2 {
			return t.Args[1], true
		}
	}
	return types.Any, true
}

type paramPair struct {
	src, dst types.Param
}

// pairParams pairs each parameter of dst with the parameter of src which receives the same argument,
// checking that every call accepted by dst is accepted by src (ignoring types).
func pairParams(src, dst *types.Callable) ([]paramPair, error) {
	used := make([]bool, len(src.Params))
	pairs := make([]paramPair, 0, len(dst.Params))
	varPos, varKw := variadicIndexes(src)
	var positional []int
	for i, p := range src.Params {
		if p.Kind == types.PositionalOnly || p.Kind == types.Positional {
			positional = append(positional, i)
		}
	}
	posIndex := 0
	for _, dp := range dst.Params {
		si := -1
		switch dp.Kind {
		case types.PositionalOnly, types.Positional:
			if posIndex < len(positional) {
				si = positional[posIndex]
			}
			posIndex++
			if si < 0 {
				si = varPos
			}
			if si < 0 {
				return nil, arityMismatch(src, dst, "too many positional parameters for "+types.TypeString(src))
			}
			sp := src.Params[si]
			if dp.Kind == types.Positional && dp.Name != "" {
				if sp.Kind == types.VarPositional {
					if keywordParam(src, dp.Name) < 0 && varKw < 0 {
						return nil, nameMismatch(src, dst, dp)
					}
				} else if sp.Kind == types.PositionalOnly || sp.Name != dp.Name {
					return nil, nameMismatch(src, dst, dp)
				}
			}
		case types.KeywordOnly:
			si = keywordParam(src, dp.Name)
			if si < 0 {
				si = varKw
			}
			if si < 0 {
				return nil, arityMismatch(src, dst, "missing keyword parameter "+dp.Name)
			}
		case types.VarPositional:
			si = varPos
			if si < 0 {
				return nil, arityMismatch(src, dst, "missing *args parameter")
			}
		case types.VarKeyword:
			si = varKw
			if si < 0 {
				return nil, arityMismatch(src, dst, "missing **kwargs parameter")
			}
		}
		sp := src.Params[si]
		if dp.HasDefault && !sp.Optional() {
			m := mismatch(src, dst)
			m.Detail = "parameter " + sp.Name + " must have a default"
			return nil, WithPath(m, paramSegment(dp))
		}
		used[si] = true
		pairs = append(pairs, paramPair{src: sp, dst: dp})
	}
	for i, sp := range src.Params {
		if !used[i] && !sp.Optional() {
			return nil, arityMismatch(src, dst, "extra parameter "+sp.Name+" has no default")
		}
	}
	return pairs, nil
}

func nameMismatch(src, dst *types.Callable, dp types.Param) error {
	m := mismatch(src, dst)
	m.Detail = "parameter " + strconv.Quote(dp.Name) + " may be passed by keyword"
	return WithPath(m, paramSegment(dp))
}
