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
	"strings"

	"github.com/pkg/errors"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/types"
)

// Check is an assertion from the `checks` section of a stub document.
type Check struct {
	Index int
	// Sub and Super are set for subtype checks.
	Sub, Super types.Type
	// Callee names an export for call checks.
	Callee string
	Args   []types.Type
	// Returns is the expected return type of a call, or nil when the call must be rejected.
	Returns types.Type
	// Variant is the expected overload variant, or -1.
	Variant int
	Expect  bool
}

func (c Check) String() string {
	if c.Callee == "" {
		rel := "<:"
		if !c.Expect {
			rel = "</:"
		}
		return fmt.Sprintf("checks[%d]: %s %s %s", c.Index, types.TypeString(c.Sub), rel, types.TypeString(c.Super))
	}
	args := make([]string, len(c.Args))
	for i, t := range c.Args {
		args[i] = types.TypeString(t)
	}
	ret := "error"
	if c.Returns != nil {
		ret = types.TypeString(c.Returns)
	}
	return fmt.Sprintf("checks[%d]: %s(%s) -> %s", c.Index, c.Callee, strings.Join(args, ", "), ret)
}

func (l *loader) parseChecks() error {
	for i, cd := range l.doc.Checks {
		check := Check{Index: i, Variant: -1, Expect: cd.Expect == nil || *cd.Expect}
		if len(cd.Subtype) == 2 {
			var err error
			if check.Sub, err = parseType(cd.Subtype[0], l.resolve, nil); err != nil {
				return errors.Wrapf(err, "checks[%d]", i)
			}
			if check.Super, err = parseType(cd.Subtype[1], l.resolve, nil); err != nil {
				return errors.Wrapf(err, "checks[%d]", i)
			}
			l.checks = append(l.checks, check)
			continue
		}

		if _, ok := l.mod.Exports[cd.Call]; !ok {
			return errors.Errorf("checks[%d]: %s is not exported", i, cd.Call)
		}
		check.Callee = cd.Call
		for j, src := range cd.Args {
			t, err := parseType(src, l.resolve, nil)
			if err != nil {
				return errors.Wrapf(err, "checks[%d]: args[%d]", i, j)
			}
			check.Args = append(check.Args, t)
		}
		if cd.Returns != "" && cd.Returns != "error" {
			t, err := parseType(cd.Returns, l.resolve, nil)
			if err != nil {
				return errors.Wrapf(err, "checks[%d]: returns", i)
			}
			check.Returns = t
		} else if cd.Returns == "" {
			check.Returns = types.Any
		}
		if cd.Variant != nil {
			check.Variant = *cd.Variant
		}
		l.checks = append(l.checks, check)
	}
	return nil
}

// Result is the outcome of a check.
type Result struct {
	Check  Check
	Passed bool
	// Detail describes why a check failed.
	Detail string
}

// RunChecks evaluates the checks of the document with c.
func (s *Stubs) RunChecks(c *gradual.Checker) []Result {
	results := make([]Result, len(s.Checks))
	for i, check := range s.Checks {
		results[i] = Result{Check: check}
		if check.Callee == "" {
			got := c.IsSubtype(check.Sub, check.Super)
			results[i].Passed = got == check.Expect
			if !results[i].Passed {
				if got {
					results[i].Detail = types.TypeString(check.Sub) + " is a subtype of " + types.TypeString(check.Super)
				} else {
					results[i].Detail = c.Compatible(check.Sub, check.Super).Error()
				}
			}
			continue
		}
		results[i].Passed, results[i].Detail = s.runCall(c, check)
	}
	return results
}

func (s *Stubs) runCall(c *gradual.Checker, check Check) (bool, string) {
	callee := s.Module.Exports[check.Callee]
	args := make([]gradual.Argument, len(check.Args))
	for i, t := range check.Args {
		args[i] = gradual.Argument{Type: t}
	}
	var (
		ret     types.Type
		variant = -1
		err     error
	)
	if group, ok := callee.(*types.OverloadGroup); ok {
		var res gradual.Resolution
		res, err = c.Resolve(group, args, nil)
		ret, variant = res.Return, res.Index
	} else {
		var res gradual.CallResult
		res, err = c.InferCall(callee, args, nil)
		ret = res.Return
	}

	switch {
	case check.Returns == nil && err == nil:
		return false, "call was accepted, returning " + types.TypeString(ret)
	case check.Returns == nil:
		return true, ""
	case err != nil:
		return false, err.Error()
	case check.Variant >= 0 && variant != check.Variant:
		return false, fmt.Sprintf("selected variant %d, expected %d", variant, check.Variant)
	case !types.IsAny(check.Returns) && !types.Identical(ret, check.Returns):
		return false, "returned " + types.TypeString(ret)
	}
	return true, ""
}
