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

// Checker checks function bodies, calls and declarations against the declarations of one module.
//
// A Checker holds no mutable state: every check builds its own engine state, so a Checker may be shared
// by concurrent checks of independent functions.
type Checker struct {
	module *types.Module
	opts   Options
}

// New creates a checker for a loaded module. The module must not be modified afterwards.
func New(mod *types.Module, opts Options) *Checker {
	if mod == nil {
		mod = types.NewModule("")
	}
	return &Checker{module: mod, opts: opts}
}

func (c *Checker) Module() *types.Module { return c.module }

func (c *Checker) Options() Options { return c.opts }

// engine creates the per-check state for compatibility checks and inference.
func (c *Checker) engine() *typeutil.Checker {
	return typeutil.NewChecker(c.module.Classes, c.opts.MaxDepth)
}

// IsSubtype reports whether a value of type a may be used where b is expected.
func (c *Checker) IsSubtype(a, b types.Type) bool { return c.engine().IsCompatible(a, b) }

// Compatible checks whether a value of type a may be used where b is expected, returning the reason
// for a failure.
func (c *Checker) Compatible(a, b types.Type) error { return c.engine().Compatible(a, b) }

// Join returns the least upper bound of a and b.
func (c *Checker) Join(a, b types.Type) types.Type { return c.engine().Join(a, b) }

func (c *Checker) emit(diags []Diagnostic) []Diagnostic {
	if c.opts.Sink != nil {
		for _, d := range diags {
			c.opts.Sink.Report(d)
		}
	}
	return diags
}
