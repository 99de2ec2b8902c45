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

func checkDoms(t *testing.T, expected, actual []int) {
	if len(expected) != len(actual) {
		t.Fatalf("unexpected dominators: %#+v", actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("unexpected dominators: %#+v", actual)
		}
	}
}

func checkTree(t *testing.T, tree DomTree, expectDoms []int) {
	for dominee, idom := range expectDoms {
		if !tree.Dominates(idom, dominee) {
			t.Fatalf("expected %d to dominate %d", idom, dominee)
		}
		if dominee != idom && tree.Dominates(dominee, idom) {
			t.Fatalf("did not expect %d to dominate %d", dominee, idom)
		}
	}
}

func TestDominators(t *testing.T) {
	const (
		entry = iota
		ret
		merge1
		merge2
		loop1Head
		loop1Body
		loop2Head
		loop2Body
		side1
		side2
	)

	g := Graph{
		entry:     {loop1Head, loop2Head, side1},
		loop1Head: {loop1Body},
		loop1Body: {loop1Head, side2},
		loop2Head: {loop2Body},
		loop2Body: {loop2Head, side1},
		side1:     {merge1, ret},
		side2:     {merge2, ret},
		merge1:    {ret},
		merge2:    {ret},
		ret:       {},
	}

	expect := []int{
		entry:     entry,
		loop1Head: entry,
		loop1Body: loop1Head,
		loop2Head: entry,
		loop2Body: loop2Head,
		side1:     entry,
		side2:     loop1Body,
		merge1:    side1,
		merge2:    side2,
		ret:       entry,
	}

	checkDoms(t, expect, g.ImmediateDominators(entry))
	checkTree(t, g.DominatorTree(entry), expect)

	backEdges := g.BackEdges(entry)
	if len(backEdges) != 2 {
		t.Fatalf("unexpected back edges: %#+v", backEdges)
	}
	if backEdges[0] != (Edge{From: loop1Body, To: loop1Head}) || backEdges[1] != (Edge{From: loop2Body, To: loop2Head}) {
		t.Fatalf("unexpected back edges: %#+v", backEdges)
	}
	headers := g.LoopHeaders(entry)
	for v, isHeader := range headers {
		if isHeader != (v == loop1Head || v == loop2Head) {
			t.Fatalf("unexpected loop header %d", v)
		}
	}
}

func TestDominanceMisc(t *testing.T) {
	// +---[0]
	// |    |
	// |    v
	// | +-[1]
	// | |  |
	// | |  v
	// | | [2]<--+
	// | |  |    |
	// | +--v    |
	// |    |    |
	// | +-[3]-+ |
	// | |     | |
	// | v     v |
	// |[4]   [5]|
	// | |     | |
	// |  \   /  |
	// |   [6]---+
	// |    |
	// |    v
	// |   [7]
	// |    |
	// |    v
	// +-->[8]
	g := Graph{
		0: {1, 8},
		1: {2, 3},
		2: {3},
		3: {4, 5},
		4: {6},
		5: {6},
		6: {7, 2},
		7: {8},
		8: {},
	}

	expectDoms := []int{0, 0, 1, 1, 3, 3, 3, 6, 0}
	checkDoms(t, expectDoms, g.ImmediateDominators(0))
	checkTree(t, g.DominatorTree(0), expectDoms)

	// The loop through 2 has two entries, so it has no back edge.
	if backEdges := g.BackEdges(0); len(backEdges) != 0 {
		t.Fatalf("unexpected back edges: %#+v", backEdges)
	}
}

func TestUnreachable(t *testing.T) {
	g := Graph{
		0: {1},
		1: {3},
		2: {3},
		3: {},
	}

	order := g.PostOrder(0, true)
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 3 {
		t.Fatalf("unexpected reverse post-order: %#+v", order)
	}
	checkDoms(t, []int{0, 0, -1, 1}, g.ImmediateDominators(0))

	tree := g.DominatorTree(0)
	if tree.Dominates(2, 3) || tree.Dominates(0, 2) {
		t.Fatalf("unreachable vertices must not take part in dominance")
	}
}

func TestPostOrderLarge(t *testing.T) {
	const n = 100
	g := NewGraph(n)
	for i := 0; i < n-1; i++ {
		g.AddEdge(i, i+1)
		g.AddEdge(i, i+1)
	}
	g.AddEdge(n-1, 0)
	if len(g[0]) != 1 || !g.HasEdge(n-1, 0) {
		t.Fatalf("unexpected edges")
	}
	order := g.PostOrder(0, true)
	if len(order) != n {
		t.Fatalf("unexpected order length: %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("unexpected reverse post-order at %d: %d", i, v)
		}
	}
	backEdges := g.BackEdges(0)
	if len(backEdges) != 1 || backEdges[0] != (Edge{From: n - 1, To: 0}) {
		t.Fatalf("unexpected back edges: %#+v", backEdges)
	}
}
