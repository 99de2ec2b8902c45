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

	"github.com/benbjohnson/immutable"

	"github.com/wdamron/gradual/types"
)

// Binding is the state of one variable at a point in a function body.
type Binding struct {
	// Declared type from an annotation or the signature, or nil for unannotated variables.
	Declared types.Type
	// Current (possibly narrowed) type, or nil when the variable is declared but unbound.
	Current types.Type
}

// Env is the narrowed environment at one point of a function body: a persistent map from variable names
// to bindings. Updates return a new environment, so splitting at a branch never copies.
type Env struct {
	vars *immutable.Map[string, Binding]
}

// NewEnv creates an empty environment.
func NewEnv() Env { return Env{immutable.NewMap[string, Binding](nil)} }

func (e Env) Len() int {
	if e.vars == nil {
		return 0
	}
	return e.vars.Len()
}

// Lookup the binding for a variable.
func (e Env) Lookup(name string) (Binding, bool) {
	if e.vars == nil {
		return Binding{}, false
	}
	return e.vars.Get(name)
}

// Type returns the current type of a bound variable.
func (e Env) Type(name string) (types.Type, bool) {
	b, ok := e.Lookup(name)
	if !ok || b.Current == nil {
		return nil, false
	}
	return b.Current, true
}

func (e Env) set(name string, b Binding) Env {
	if e.vars == nil {
		e = NewEnv()
	}
	return Env{e.vars.Set(name, b)}
}

// Declare (or re-declare) a variable with a declared type and an initial current type.
func (e Env) Declare(name string, declared, current types.Type) Env {
	return e.set(name, Binding{Declared: declared, Current: current})
}

// Assign a new current type to a variable, keeping its declared type.
func (e Env) Assign(name string, current types.Type) Env {
	b, _ := e.Lookup(name)
	b.Current = current
	return e.set(name, b)
}

// Names returns the variables of the environment, sorted.
func (e Env) Names() []string {
	if e.vars == nil {
		return nil
	}
	names := make([]string, 0, e.vars.Len())
	iter := e.vars.Iterator()
	for !iter.Done() {
		name, _, _ := iter.Next()
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sameEnv reports whether a and b bind the same variables to identical types. nil environments
// (unreachable points) are only equal to each other.
func sameEnv(a, b *Env) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.vars == b.vars {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	iter := a.vars.Iterator()
	for !iter.Done() {
		name, ab, _ := iter.Next()
		bb, ok := b.Lookup(name)
		if !ok || !sameType(ab.Current, bb.Current) || !sameType(ab.Declared, bb.Declared) {
			return false
		}
	}
	return true
}

func sameType(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return types.Identical(a, b)
}

// joinEnvs merges the environments of the live incoming edges of a block. A variable bound on only some
// edges keeps the union of its types on those edges. join combines two current types.
func joinEnvs(envs []*Env, join func(a, b types.Type) types.Type) *Env {
	var live []*Env
	for _, e := range envs {
		if e != nil {
			live = append(live, e)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	merged := *live[0]
	for _, e := range live[1:] {
		if merged.vars == e.vars {
			continue
		}
		for _, name := range e.Names() {
			eb, _ := e.Lookup(name)
			mb, ok := merged.Lookup(name)
			if !ok {
				merged = merged.set(name, eb)
				continue
			}
			if mb.Declared == nil {
				mb.Declared = eb.Declared
			}
			switch {
			case mb.Current == nil:
				mb.Current = eb.Current
			case eb.Current != nil:
				mb.Current = join(mb.Current, eb.Current)
			}
			merged = merged.set(name, mb)
		}
	}
	return &merged
}
