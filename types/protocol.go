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
	"sort"
)

// Structural (protocol) type. A type is compatible with a protocol when it provides every member
// with a compatible type; declared ancestry is not consulted.
//
// Callable members describe methods as seen from an instance (the receiver is not a parameter).
// Non-callable members are attributes.
type Protocol struct {
	Name       string
	TypeParams []*TypeVar
	Members    map[string]Type
	// Args are the type-arguments of an applied generic protocol.
	Args   []Type
	origin *Protocol
}

// NewProtocol creates a protocol with a set of members.
func NewProtocol(name string, members map[string]Type, params ...*TypeVar) *Protocol {
	if members == nil {
		members = make(map[string]Type)
	}
	return &Protocol{Name: name, TypeParams: params, Members: members}
}

// Origin returns the generic protocol which p was applied from, or p itself.
func (p *Protocol) Origin() *Protocol {
	if p.origin != nil {
		return p.origin
	}
	return p
}

func (p *Protocol) IsGeneric() bool {
	if len(p.Args) > 0 {
		return anyGeneric(p.Args)
	}
	for _, m := range p.Members {
		if m.IsGeneric() {
			return true
		}
	}
	return false
}

// Apply substitutes type-arguments for the type-parameters of a generic protocol.
func (p *Protocol) Apply(args ...Type) *Protocol {
	origin := p.Origin()
	if len(origin.TypeParams) == 0 {
		return origin
	}
	applied := origin.subst(Bind(origin.TypeParams, args))
	applied.Args = make([]Type, len(origin.TypeParams))
	for i := range origin.TypeParams {
		if i < len(args) {
			applied.Args[i] = args[i]
		} else {
			applied.Args[i] = Any
		}
	}
	return applied
}

func (p *Protocol) subst(b Bindings) *Protocol {
	members := make(map[string]Type, len(p.Members))
	for name, m := range p.Members {
		members[name] = Subst(m, b)
	}
	var args []Type
	if len(p.Args) > 0 {
		args = substAll(p.Args, b)
	}
	return &Protocol{Name: p.Name, TypeParams: p.TypeParams, Members: members, Args: args, origin: p.Origin()}
}

// MemberNames returns the names of p's members in sorted order.
func (p *Protocol) MemberNames() []string { return sortedKeys(p.Members) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
