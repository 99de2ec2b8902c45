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

// DefaultMaxLoopIterations bounds the rounds of the narrowing fixpoint at a loop header before the
// types of variables which are still changing are widened.
const DefaultMaxLoopIterations = 8

// Options configure a Checker. Options are fixed when the checker is created.
type Options struct {
	// Treat unannotated functions and parameters as Any. When false, functions without a signature are
	// not checked.
	UntypedAsAny bool
	// Report blocks and statements which can never execute, and guards which narrow a variable to Never.
	WarnUnreachable bool
	// Require members which override a base class member to be listed in ClassDef.Overrides.
	RequireExplicitOverride bool
	// Narrowing contradictions are errors, and abort checking of the function which contains them.
	StrictNarrowing bool
	// Report overload variants with overlapping parameter types and incompatible returns, even when neither
	// variant accepts every call of the other.
	StrictOverlap bool
	// Maximum depth of nested structural and generic checks (typeutil.DefaultMaxDepth when zero).
	MaxDepth int
	// Rounds of the narrowing fixpoint before widening at loop headers (DefaultMaxLoopIterations when zero).
	MaxLoopIterations int
	// Sink receives every diagnostic in addition to the returned slices. It may be nil.
	// A Sink shared by concurrent checks must be safe for concurrent use.
	Sink Sink
}

func (o Options) maxLoopIterations() int {
	if o.MaxLoopIterations <= 0 {
		return DefaultMaxLoopIterations
	}
	return o.MaxLoopIterations
}
