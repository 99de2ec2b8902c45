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
	"sort"
	"strings"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

// CheckClass reports problems with the declaration of a class: members which are incompatible with the
// base class members they override, override markers, and final classes with unimplemented abstract members.
func (c *Checker) CheckClass(cls *types.ClassDef) []Diagnostic {
	tc := c.engine()
	var diags []Diagnostic
	self := make([]types.Type, len(cls.TypeParams))
	for i, tv := range cls.TypeParams {
		self[i] = tv
	}
	inst := types.NewInstance(cls, self...)

	names := make([]string, 0, len(cls.Members))
	for name := range cls.Members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		own := cls.Members[name]
		overridden, base := overriddenMember(inst, name)
		marked := cls.Overrides != nil && cls.Overrides.Contains(name)
		switch {
		case overridden == nil && marked:
			diags = append(diags, Diagnostic{Kind: MissingOverride, Severity: Error, Function: cls.Name, Member: name,
				Detail: cls.Name + "." + name + " is marked as an override, but no base class declares " + name})
			continue
		case overridden == nil:
			continue
		case !marked && c.opts.RequireExplicitOverride:
			diags = append(diags, Diagnostic{Kind: MissingOverride, Severity: Error, Function: cls.Name, Member: name,
				Detail: cls.Name + "." + name + " overrides " + base.Name + "." + name + " without an override marker"})
		}
		if err := tc.Compatible(own, overridden); err != nil {
			d := diagnose(typeutil.WithPath(err, name), ast.Pos{}, cls.Name)
			d.Member = name
			d.Detail = cls.Name + "." + name + " is incompatible with " + base.Name + "." + name + ": " + err.Error()
			diags = append(diags, d)
		}
	}

	if cls.Final {
		if missing := cls.UnimplementedAbstract(); len(missing) > 0 {
			diags = append(diags, Diagnostic{Kind: MissingImplementation, Severity: Error, Function: cls.Name,
				Detail: "final class " + cls.Name + " does not implement abstract members: " + strings.Join(missing, ", ")})
		}
	}
	return c.emit(diags)
}

// overriddenMember finds the nearest declaration of name in the ancestors of inst, mapped onto inst's type-arguments.
func overriddenMember(inst *types.Instance, name string) (types.Type, *types.ClassDef) {
	mro := inst.Class.MRO
	if len(mro) < 2 {
		return nil, nil
	}
	for _, base := range mro[1:] {
		t, ok := base.Members[name]
		if !ok {
			continue
		}
		if mapped := types.MapToBase(inst, base); mapped != nil {
			t = types.Subst(t, types.Bind(base.TypeParams, mapped.Args))
		}
		return t, base
	}
	return nil, nil
}
