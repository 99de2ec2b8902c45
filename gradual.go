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

// gradual checks programs written in an optionally-typed language against their declared types.
//
// The checker is a static, advisory pass over function bodies. It combines nominal subtyping over
// linearized class hierarchies with structural subtyping for protocols and records, solves the
// type-variables of generic calls with bounds collected from arguments and from the expected type of
// the call, resolves overloaded callables by first match, and narrows the types of variables along the
// control-flow graph of a function body.
//
//
// Supported Features:
//
//   * The dynamic type Any, compatible in both directions with every type
//   * Classes with multiple inheritance, linearized with C3
//   * Generic classes with covariant, contravariant and invariant type-parameters
//   * Protocols and records, including self-referential (recursive) shapes
//   * Literal types, unions, tuples and callables with positional, keyword and variadic parameters
//   * Bounded and value-restricted type-variables with bidirectional inference
//   * Overload groups with first-match resolution and authoring diagnostics
//   * Flow-sensitive narrowing (isinstance, None checks, literal equality, truthiness and guard functions)
//
//
// Links:
//
// C3 linearization: https://www.python.org/download/releases/2.3/mro/
//
// Gradual typing: https://wphomes.soic.indiana.edu/jsiek/what-is-gradual-typing/
//
// A Simple, Fast Dominance Algorithm (Cooper, Harvey and Kennedy): https://www.cs.rice.edu/~keith/EMBED/dom.pdf
package gradual
