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

package util_test

import (
	"testing"

	. "github.com/wdamron/gradual/internal/util"
)

func TestComponents(t *testing.T) {
	// 0 -> 1 -> 2, 3 <-> 4 -> 2, 5 -> 5
	g := NewGraph(6)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(3, 4)
	g.AddEdge(4, 3)
	g.AddEdge(4, 2)
	g.AddEdge(5, 5)

	comps := g.Components()
	if len(comps) != 5 {
		t.Fatalf("expected 5 components, found %v", comps)
	}
	position := make([]int, 6)
	for i, c := range comps {
		for _, v := range c {
			position[v] = i
		}
	}
	if position[3] != position[4] {
		t.Fatalf("expected 3 and 4 in one component: %v", comps)
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {4, 2}} {
		if position[e[1]] >= position[e[0]] {
			t.Fatalf("expected the component of %d before the component of %d: %v", e[1], e[0], comps)
		}
	}
	if !g.HasEdge(5, 5) || len(comps[position[5]]) != 1 {
		t.Fatalf("expected a self-loop component for 5: %v", comps)
	}
}

func TestTranspose(t *testing.T) {
	g := NewGraph(4)
	g.AddEdge(0, 1)
	g.AddEdge(2, 3)
	tr := g.Transpose()
	if !tr.HasEdge(1, 0) || !tr.HasEdge(3, 2) || tr.HasEdge(0, 1) {
		t.Fatalf("unexpected transpose %v", tr)
	}
}
