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
	"github.com/pkg/errors"

	"github.com/wdamron/gradual"
)

// Document is the YAML form of a stub file, describing the declarations of one module.
//
// Types are written as type expressions (`list[int] | None`, `[T](xs: Sequence[T]) -> T`).
type Document struct {
	Module  string      `yaml:"module"`
	Classes []ClassDecl `yaml:"classes,omitempty"`
	// Builtins maps a primitive or builtin container name to the declared class which backs it.
	// Classes named after a builtin are registered for that name unless mapped here.
	Builtins  map[string]string `yaml:"builtins,omitempty"`
	Protocols []ProtocolDecl    `yaml:"protocols,omitempty"`
	Records   []RecordDecl      `yaml:"records,omitempty"`
	// Functions maps exported function names to callable type expressions.
	Functions map[string]string `yaml:"functions,omitempty"`
	// Constants maps exported names to the types of their values.
	Constants map[string]string `yaml:"constants,omitempty"`
	Overloads []OverloadDecl    `yaml:"overloads,omitempty"`
	Options   OptionsDecl       `yaml:"options,omitempty"`
	Checks    []CheckDecl       `yaml:"checks,omitempty"`
}

// ClassDecl declares a nominal class.
type ClassDecl struct {
	Name string `yaml:"name"`
	// Params are type-parameter declarations: `T`, `T+`, `T-`, `T: bound`, `T in (a, b)`.
	Params []string `yaml:"params,omitempty"`
	// Bases are instantiated over the class's own parameters: `Sequence[T]`.
	Bases []string `yaml:"bases,omitempty"`
	// Members are typed as seen from an instance. `Self` is the class instantiated with its own parameters.
	Members   map[string]string `yaml:"members,omitempty"`
	Abstract  []string          `yaml:"abstract,omitempty"`
	Overrides []string          `yaml:"overrides,omitempty"`
	Metaclass string            `yaml:"metaclass,omitempty"`
	Final     bool              `yaml:"final,omitempty"`
}

// ProtocolDecl declares a structural protocol.
type ProtocolDecl struct {
	Name    string            `yaml:"name"`
	Params  []string          `yaml:"params,omitempty"`
	Members map[string]string `yaml:"members"`
}

// RecordDecl declares a record. Field types may be wrapped in `NotRequired[...]`, `Required[...]` and
// `ReadOnly[...]`.
type RecordDecl struct {
	Name   string            `yaml:"name"`
	Bases  []string          `yaml:"bases,omitempty"`
	Fields map[string]string `yaml:"fields"`
	// Total is the default requiredness of the record's own fields (true when omitted).
	Total *bool `yaml:"total,omitempty"`
}

// OverloadDecl declares an overload group. Variants are resolved in the listed order.
type OverloadDecl struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
	Impl     string   `yaml:"impl,omitempty"`
}

// OptionsDecl mirrors gradual.Options.
type OptionsDecl struct {
	UntypedAsAny            bool `yaml:"untyped_as_any,omitempty"`
	WarnUnreachable         bool `yaml:"warn_unreachable,omitempty"`
	RequireExplicitOverride bool `yaml:"require_explicit_override,omitempty"`
	StrictNarrowing         bool `yaml:"strict_narrowing,omitempty"`
	StrictOverlap           bool `yaml:"strict_overlap,omitempty"`
	MaxDepth                int  `yaml:"max_depth,omitempty"`
	MaxLoopIterations       int  `yaml:"max_loop_iterations,omitempty"`
}

// Options converts the decoded block into checker options.
func (o OptionsDecl) Options() gradual.Options {
	return gradual.Options{
		UntypedAsAny:            o.UntypedAsAny,
		WarnUnreachable:         o.WarnUnreachable,
		RequireExplicitOverride: o.RequireExplicitOverride,
		StrictNarrowing:         o.StrictNarrowing,
		StrictOverlap:           o.StrictOverlap,
		MaxDepth:                o.MaxDepth,
		MaxLoopIterations:       o.MaxLoopIterations,
	}
}

// CheckDecl is an assertion evaluated against the loaded module.
//
// A subtype check names two types. A call check names an exported callee, the types of positional
// arguments, and the expected return type (`error` when the call must be rejected, unchecked when omitted).
type CheckDecl struct {
	Subtype []string `yaml:"subtype,omitempty"`
	Call    string   `yaml:"call,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Returns string   `yaml:"returns,omitempty"`
	// Variant is the expected index of the selected overload variant.
	Variant *int `yaml:"variant,omitempty"`
	// Expect is the expected outcome of a subtype check (true when omitted).
	Expect *bool `yaml:"expect,omitempty"`
}

func (d *Document) validate() error {
	if d.Module == "" {
		return errors.Errorf("module name is required")
	}
	for i, c := range d.Classes {
		if c.Name == "" {
			return errors.Errorf("classes[%d]: name is required", i)
		}
	}
	for i, p := range d.Protocols {
		if p.Name == "" {
			return errors.Errorf("protocols[%d]: name is required", i)
		}
	}
	for i, r := range d.Records {
		if r.Name == "" {
			return errors.Errorf("records[%d]: name is required", i)
		}
	}
	for i, o := range d.Overloads {
		if o.Name == "" {
			return errors.Errorf("overloads[%d]: name is required", i)
		}
		if len(o.Variants) == 0 {
			return errors.Errorf("overloads[%d] (%s): at least one variant is required", i, o.Name)
		}
	}
	for i, c := range d.Checks {
		switch {
		case len(c.Subtype) > 0 && c.Call != "":
			return errors.Errorf("checks[%d]: subtype and call are mutually exclusive", i)
		case len(c.Subtype) > 0 && len(c.Subtype) != 2:
			return errors.Errorf("checks[%d]: subtype requires exactly 2 types", i)
		case len(c.Subtype) == 0 && c.Call == "":
			return errors.Errorf("checks[%d]: subtype or call is required", i)
		}
	}
	if d.Options.MaxDepth < 0 || d.Options.MaxLoopIterations < 0 {
		return errors.Errorf("options: limits must not be negative")
	}
	return nil
}
