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
	"strings"

	"github.com/wdamron/gradual/types"
)

// Kind classifies a failed check.
type Kind int

const (
	TypeMismatch Kind = iota + 1
	MissingMember
	ArityMismatch
	AmbiguousOverload
	UnreachableOverload
	UnresolvedTypeVar
	NarrowingContradiction
	RecursionLimitExceeded
	MissingImplementation
	UndefinedName
	UnreachableCode
	MissingOverride
)

var kindNames = [...]string{
	TypeMismatch:           "TypeMismatch",
	MissingMember:          "MissingMember",
	ArityMismatch:          "ArityMismatch",
	AmbiguousOverload:      "AmbiguousOverload",
	UnreachableOverload:    "UnreachableOverload",
	UnresolvedTypeVar:      "UnresolvedTypeVar",
	NarrowingContradiction: "NarrowingContradiction",
	RecursionLimitExceeded: "RecursionLimitExceeded",
	MissingImplementation:  "MissingImplementation",
	UndefinedName:          "UndefinedName",
	UnreachableCode:        "UnreachableCode",
	MissingOverride:        "MissingOverride",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Mismatch is the structured reason for a failed check.
type Mismatch struct {
	Kind Kind
	// Path locates the failure within the compared types, outermost first: `["year"]`, `param x`, `return`.
	Path   []string
	Source types.Type
	Target types.Type
	// Member is the missing member or field, if any.
	Member string
	Detail string
}

func (m *Mismatch) Error() string {
	var sb strings.Builder
	sb.WriteString(m.Kind.String())
	if len(m.Path) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(strings.Join(m.Path, "."))
	}
	sb.WriteString(": ")
	switch {
	case m.Kind == MissingMember && m.Member != "":
		sb.WriteString(types.TypeString(m.Source))
		sb.WriteString(" has no member ")
		sb.WriteString(m.Member)
	case m.Detail != "":
		sb.WriteString(m.Detail)
	case m.Source != nil && m.Target != nil:
		sb.WriteString(types.TypeString(m.Source))
		sb.WriteString(" is not compatible with ")
		sb.WriteString(types.TypeString(m.Target))
	}
	return sb.String()
}

func mismatch(src, dst types.Type) *Mismatch {
	return &Mismatch{Kind: TypeMismatch, Source: src, Target: dst}
}

func arityMismatch(src, dst types.Type, detail string) *Mismatch {
	return &Mismatch{Kind: ArityMismatch, Source: src, Target: dst, Detail: detail}
}

// KindOf returns the kind of a *Mismatch error, or 0.
func KindOf(err error) Kind {
	if m, ok := err.(*Mismatch); ok {
		return m.Kind
	}
	return 0
}

// WithPath prefixes the path of a *Mismatch with segment. Other errors are returned as-is.
func WithPath(err error, segment string) error {
	m, ok := err.(*Mismatch)
	if !ok || err == nil {
		return err
	}
	mm := *m
	mm.Path = make([]string, 0, len(m.Path)+1)
	mm.Path = append(mm.Path, segment)
	mm.Path = append(mm.Path, m.Path...)
	return &mm
}
