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

// Identical reports whether a and b are structurally equal. Classes, protocols (by origin), records,
// type-variables and recursive groups are compared by identity; union members are compared as sets.
func Identical(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *AnyType:
		_, ok := b.(*AnyType)
		return ok

	case *NeverType:
		_, ok := b.(*NeverType)
		return ok

	case *NoneType:
		_, ok := b.(*NoneType)
		return ok

	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && a.Name == b.Name

	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Base == b.Base && a.Value == b.Value

	case *TypeVar:
		return false // identity is checked above

	case *Instance:
		b, ok := b.(*Instance)
		return ok && a.Class == b.Class && identicalAll(a.Args, b.Args)

	case *Union:
		b, ok := b.(*Union)
		if !ok || len(a.Members) != len(b.Members) {
			return false
		}
		for _, am := range a.Members {
			found := false
			for _, bm := range b.Members {
				if Identical(am, bm) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true

	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || !identicalAll(a.Elems, b.Elems) {
			return false
		}
		if a.Variadic == nil || b.Variadic == nil {
			return a.Variadic == nil && b.Variadic == nil
		}
		return Identical(a.Variadic, b.Variadic)

	case *Callable:
		b, ok := b.(*Callable)
		if !ok || len(a.Params) != len(b.Params) || len(a.TypeParams) != len(b.TypeParams) {
			return false
		}
		for i, p := range a.Params {
			q := b.Params[i]
			if p.Name != q.Name || p.Kind != q.Kind || p.HasDefault != q.HasDefault || !Identical(p.Type, q.Type) {
				return false
			}
		}
		for i, tv := range a.TypeParams {
			if tv != b.TypeParams[i] {
				return false
			}
		}
		return Identical(a.Return, b.Return)

	case *Protocol:
		b, ok := b.(*Protocol)
		return ok && a.Origin() == b.Origin() && identicalAll(a.Args, b.Args)

	case *Record:
		b, ok := b.(*Record)
		return ok && a.Name == b.Name && identicalFields(a, b)

	case *RecursiveLink:
		b, ok := b.(*RecursiveLink)
		return ok && a.Recursive == b.Recursive && a.Index == b.Index

	case *OverloadGroup:
		return false
	}
	return false
}

func identicalAll(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Identical(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func identicalFields(a, b *Record) bool {
	if a.Fields.Len() != b.Fields.Len() {
		return false
	}
	same := true
	a.Fields.Range(func(name string, fa Field) bool {
		fb, ok := b.Fields.Get(name)
		same = ok && fa.Required == fb.Required && fa.ReadOnly == fb.ReadOnly && Identical(fa.Type, fb.Type)
		return same
	})
	return same
}
