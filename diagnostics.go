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
	"strings"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

// Kind classifies a diagnostic.
type Kind = typeutil.Kind

const (
	TypeMismatch           = typeutil.TypeMismatch
	MissingMember          = typeutil.MissingMember
	ArityMismatch          = typeutil.ArityMismatch
	AmbiguousOverload      = typeutil.AmbiguousOverload
	UnreachableOverload    = typeutil.UnreachableOverload
	UnresolvedTypeVar      = typeutil.UnresolvedTypeVar
	NarrowingContradiction = typeutil.NarrowingContradiction
	RecursionLimitExceeded = typeutil.RecursionLimitExceeded
	MissingImplementation  = typeutil.MissingImplementation
	UndefinedName          = typeutil.UndefinedName
	UnreachableCode        = typeutil.UnreachableCode
	MissingOverride        = typeutil.MissingOverride
)

// KindOf returns the kind of a failure returned by the checker, or 0 for other errors.
func KindOf(err error) Kind { return typeutil.KindOf(err) }

type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Note:
		return "note"
	}
	return "error"
}

func defaultSeverity(kind Kind) Severity {
	switch kind {
	case AmbiguousOverload, UnreachableOverload, UnreachableCode, NarrowingContradiction:
		return Warning
	}
	return Error
}

// Diagnostic is a structured failure record. Rendering diagnostics for users is left to the driver;
// String is a compact form for logs and tests.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      ast.Pos
	// Function (or overload group, or class) in which the diagnostic was found.
	Function string
	// Path locates the failure within the compared types, outermost first.
	Path   []string
	Source types.Type
	Target types.Type
	Member string
	Detail string
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Pos.IsValid() {
		sb.WriteString(strconv.Itoa(d.Pos.Line))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(d.Pos.Col))
		sb.WriteString(": ")
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	m := typeutil.Mismatch{Kind: d.Kind, Path: d.Path, Source: d.Source, Target: d.Target, Member: d.Member, Detail: d.Detail}
	sb.WriteString(m.Error())
	return sb.String()
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(Diagnostic)
}

// Collector is a Sink which appends to a slice.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) { c.Diagnostics = append(c.Diagnostics, d) }

// Errors counts the collected diagnostics with error severity.
func (c *Collector) Errors() int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// diagnose converts a failure returned by the engine into a diagnostic.
func diagnose(err error, pos ast.Pos, function string) Diagnostic {
	if m, ok := err.(*typeutil.Mismatch); ok {
		return Diagnostic{
			Kind:     m.Kind,
			Severity: defaultSeverity(m.Kind),
			Pos:      pos,
			Function: function,
			Path:     m.Path,
			Source:   m.Source,
			Target:   m.Target,
			Member:   m.Member,
			Detail:   m.Detail,
		}
	}
	return Diagnostic{Kind: TypeMismatch, Severity: Error, Pos: pos, Function: function, Detail: err.Error()}
}
