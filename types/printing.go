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

package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} { return &typePrinter{} },
}

func newTypePrinter(keys bool) *typePrinter {
	p := printerPool.Get().(*typePrinter)
	p.keys = keys
	return p
}

func (p *typePrinter) Release() {
	p.sb.Reset()
	p.keys = false
	printerPool.Put(p)
}

type typePrinter struct {
	sb strings.Builder
	// keys mode qualifies nominal types with their identity.
	keys bool
}

// TypeString returns a string representation of a Type.
func TypeString(t Type) string {
	p := newTypePrinter(false)
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

// TypeKey returns a string which is equal for two types when they are structurally identical
// (up to the order of union members).
func TypeKey(t Type) string {
	p := newTypePrinter(true)
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) identity(ptr interface{}) {
	if p.keys {
		fmt.Fprintf(&p.sb, "@%p", ptr)
	}
}

func typeString(p *typePrinter, simple bool, t Type) {
	switch t := t.(type) {
	case nil:
		p.sb.WriteString("<nil>")

	case *AnyType:
		p.sb.WriteString("Any")

	case *NeverType:
		p.sb.WriteString("Never")

	case *NoneType:
		p.sb.WriteString("None")

	case *Primitive:
		p.sb.WriteString(t.Name)

	case *Literal:
		p.sb.WriteString("Literal[")
		p.sb.WriteString(literalString(t))
		p.sb.WriteByte(']')

	case *TypeVar:
		p.sb.WriteString(t.Name)
		p.identity(t)

	case *Instance:
		p.sb.WriteString(t.Class.Name)
		p.identity(t.Class)
		typeArgs(p, t.Args)

	case *Union:
		if simple {
			p.sb.WriteByte('(')
		}
		members := t.Members
		if p.keys {
			// Member order is not significant for keys:
			keys := make([]string, len(members))
			for i, m := range members {
				keys[i] = TypeKey(m)
			}
			sort.Strings(keys)
			p.sb.WriteString(strings.Join(keys, " | "))
		} else {
			for i, m := range members {
				if i > 0 {
					p.sb.WriteString(" | ")
				}
				typeString(p, true, m)
			}
		}
		if simple {
			p.sb.WriteByte(')')
		}

	case *Tuple:
		p.sb.WriteString("tuple[")
		for i, e := range t.Elems {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, e)
		}
		if t.Variadic != nil {
			if len(t.Elems) == 0 {
				typeString(p, false, t.Variadic)
				p.sb.WriteString(", ...")
			} else {
				p.sb.WriteString(", *tuple[")
				typeString(p, false, t.Variadic)
				p.sb.WriteString(", ...]")
			}
		}
		p.sb.WriteByte(']')

	case *Callable:
		if simple {
			p.sb.WriteByte('(')
		}
		callableString(p, t)
		if simple {
			p.sb.WriteByte(')')
		}

	case *Protocol:
		p.sb.WriteString(t.Name)
		p.identity(t.Origin())
		typeArgs(p, t.Args)

	case *Record:
		if t.Name != "" && !p.keys {
			p.sb.WriteString(t.Name)
			return
		}
		p.sb.WriteString(t.Name)
		p.sb.WriteByte('{')
		i := 0
		t.Fields.Range(func(name string, f Field) bool {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			i++
			if f.ReadOnly {
				p.sb.WriteString("readonly ")
			}
			p.sb.WriteString(name)
			if !f.Required {
				p.sb.WriteByte('?')
			}
			p.sb.WriteString(": ")
			typeString(p, false, f.Type)
			return true
		})
		p.sb.WriteByte('}')

	case *RecursiveLink:
		p.sb.WriteString(t.Name())
		p.identity(t.Recursive)

	case *OverloadGroup:
		p.sb.WriteString("Overload[")
		for i, v := range t.Variants {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			callableString(p, v)
		}
		p.sb.WriteByte(']')
		p.identity(t)

	default:
		p.sb.WriteString(t.TypeName())
	}
}

func typeArgs(p *typePrinter, args []Type) {
	if len(args) == 0 {
		return
	}
	p.sb.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		typeString(p, false, a)
	}
	p.sb.WriteByte(']')
}

func callableString(p *typePrinter, t *Callable) {
	if len(t.TypeParams) > 0 {
		p.sb.WriteByte('[')
		for i, tv := range t.TypeParams {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, tv)
		}
		p.sb.WriteByte(']')
	}
	p.sb.WriteByte('(')
	keywordOnly := false
	for i, param := range t.Params {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		switch param.Kind {
		case VarPositional:
			p.sb.WriteByte('*')
			keywordOnly = true
		case VarKeyword:
			p.sb.WriteString("**")
		case KeywordOnly:
			if !keywordOnly {
				p.sb.WriteString("*, ")
				keywordOnly = true
			}
		}
		if param.Name != "" {
			p.sb.WriteString(param.Name)
			p.sb.WriteString(": ")
		}
		typeString(p, false, param.Type)
		if param.HasDefault {
			p.sb.WriteString(" = ...")
		}
		if param.Kind == PositionalOnly && (i == len(t.Params)-1 || t.Params[i+1].Kind != PositionalOnly) {
			p.sb.WriteString(", /")
		}
	}
	p.sb.WriteString(") -> ")
	if t.Guard != nil {
		if t.Guard.Bidirectional {
			p.sb.WriteString("TypeIs[")
		} else {
			p.sb.WriteString("TypeGuard[")
		}
		typeString(p, false, t.Guard.Type)
		p.sb.WriteByte(']')
		return
	}
	typeString(p, false, t.Return)
}
