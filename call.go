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
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

// Argument is an argument at a call site.
type Argument = typeutil.Arg

// ArgKind describes how an argument is passed.
type ArgKind = typeutil.ArgKind

const (
	ArgPositional = typeutil.ArgPositional
	ArgKeyword    = typeutil.ArgKeyword
	ArgStar       = typeutil.ArgStar
	ArgDoubleStar = typeutil.ArgDoubleStar
)

// CallResult is the outcome of a call to a callable type.
type CallResult struct {
	Return types.Type
	// Signature is the selected signature, instantiated with Bindings. It is nil when the callee is Any.
	Signature *types.Callable
	Bindings  types.Bindings
	// Variant is the index of the selected variant of an overload group, or -1.
	Variant int
	// Ambiguous is set when several variants of an overload group matched arguments of type Any with
	// incompatible returns. Return is Any for ambiguous calls.
	Ambiguous bool
	// ArgTypes are the types of the arguments after contextual inference, indexed like the arguments.
	ArgTypes []types.Type
}

// InferCall checks a call to callee with args, solving the type-variables of generic signatures.
// expected is the type expected for the result of the call (such as the declared type of an
// assignment target), or nil.
//
// The callee may be a callable, an overload group, a union of callables, Any, or a value with a
// `__call__` member.
func (c *Checker) InferCall(callee types.Type, args []Argument, expected types.Type) (CallResult, error) {
	return c.inferCall(c.engine(), callee, args, expected)
}

func argTypes(args []Argument) []types.Type {
	ts := make([]types.Type, len(args))
	for i, a := range args {
		ts[i] = a.Type
	}
	return ts
}

func (c *Checker) inferCall(tc *typeutil.Checker, callee types.Type, args []Argument, expected types.Type) (CallResult, error) {
	switch f := types.Unroll(callee).(type) {
	case *types.AnyType:
		return CallResult{Return: types.Any, Variant: -1, ArgTypes: argTypes(args)}, nil

	case *types.Callable:
		sol, err := tc.Infer(f, args, expected)
		if err != nil {
			return CallResult{}, err
		}
		return CallResult{Return: sol.Return, Signature: sol.Signature, Bindings: sol.Bindings, Variant: -1, ArgTypes: sol.ArgTypes}, nil

	case *types.OverloadGroup:
		res, err := c.resolve(tc, f, args, expected)
		if err != nil {
			return CallResult{}, err
		}
		return CallResult{
			Return:    res.Return,
			Signature: res.Signature,
			Bindings:  res.Bindings,
			Variant:   res.Index,
			Ambiguous: res.Ambiguous,
			ArgTypes:  res.ArgTypes,
		}, nil

	case *types.Union:
		// Every member must accept the call; the result is the union of their returns.
		returns := make([]types.Type, 0, len(f.Members))
		var last CallResult
		for _, m := range f.Members {
			res, err := c.inferCall(tc, m, args, expected)
			if err != nil {
				return CallResult{}, err
			}
			returns, last = append(returns, res.Return), res
		}
		return CallResult{Return: types.NewUnion(returns...), Variant: -1, ArgTypes: last.ArgTypes}, nil
	}
	if call, ok := tc.MemberOf(callee, "__call__"); ok && !types.Identical(call, callee) {
		return c.inferCall(tc, call, args, expected)
	}
	return CallResult{}, &typeutil.Mismatch{Kind: TypeMismatch, Source: callee, Detail: types.TypeString(callee) + " is not callable"}
}
