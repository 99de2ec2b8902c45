// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
// Portions Copyright (c) 2017 Julian Jensen jjdanois@gmail.com
// Portions Copyright (c) 2013 The Go Authors
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

package util

// PostOrder returns the vertices reachable from entry in depth-first post-order
// (or reverse post-order when reverse is set). Unreachable vertices are omitted.
func (g Graph) PostOrder(entry int, reverse bool) []int {
	if len(g) == 0 {
		return nil
	}
	order := make([]int, len(g))
	var n int
	if len(g) <= 64 {
		_, n = g.postOrderSmall(entry, order, 0, 0)
	} else {
		n = g.postOrderLarge(entry, order, make([]bool, len(g)), 0)
	}
	order = order[:n]
	if reverse {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

func (g Graph) postOrderLarge(curr int, order []int, seen []bool, i int) int {
	if seen[curr] {
		return i
	}
	seen[curr] = true
	for _, succ := range g[curr] {
		i = g.postOrderLarge(succ, order, seen, i)
	}
	order[i] = curr
	return i + 1
}

func (g Graph) postOrderSmall(curr int, order []int, seen uint64, i int) (uint64, int) {
	if seen&(1<<uint8(curr)) != 0 {
		return seen, i
	}
	seen |= 1 << uint8(curr)
	for _, succ := range g[curr] {
		seen, i = g.postOrderSmall(succ, order, seen, i)
	}
	order[i] = curr
	return seen, i + 1
}

// ImmediateDominators returns the immediate dominator of each vertex, using the iterative algorithm of
// Cooper, Harvey and Kennedy. The entry dominates itself; unreachable vertices have no dominator (-1).
func (g Graph) ImmediateDominators(entry int) []int {
	return g.TransposedImmediateDominators(g.Transpose(), entry)
}

func (g Graph) TransposedImmediateDominators(transposed Graph, entry int) []int {
	type info struct {
		id    int
		post  int
		preds []int
	}
	post, infos, idoms := g.PostOrder(entry, false), make([]info, len(g)), make([]int, len(g))
	for id := range g {
		infos[id] = info{id: id, post: -1, preds: transposed[id]}
		idoms[id] = -1
	}
	for order, id := range post {
		infos[id].post = order
	}
	if len(g) == 0 {
		return idoms
	}
	idoms[entry] = entry
	changed := true
	for changed {
		changed = false
		// Reverse post-order:
		for i := len(post) - 1; i >= 0; i-- {
			id := post[i]
			if id == entry {
				continue
			}
			info, idom := infos[id], -1
			for _, pred := range info.preds {
				if idoms[pred] == -1 {
					continue
				}
				if idom == -1 {
					idom = pred
					continue
				}
				finger1, finger2 := infos[pred], infos[idom]
				for finger1.post != finger2.post {
					for finger1.post < finger2.post {
						finger1 = infos[idoms[finger1.id]] // finger1 = idom(finger1)
					}
					for finger2.post < finger1.post {
						finger2 = infos[idoms[finger2.id]] // finger2 = idom(finger2)
					}
				}
				idom = finger1.id
			}
			if idoms[id] != idom {
				idoms[id] = idom
				changed = true
			}
		}
	}
	return idoms
}

type DomTree struct {
	verts []domInfo
	edges [][]int
}

type domInfo struct {
	id, idom, pre, post int
}

func (g Graph) DominatorTree(entry int) DomTree {
	return g.DominatorTreeFromIdoms(g.ImmediateDominators(entry), entry)
}

func (g Graph) DominatorTreeFromIdoms(idoms []int, entry int) DomTree {
	t := DomTree{
		verts: make([]domInfo, len(g)),
		edges: make([][]int, len(g)),
	}
	for id := range g {
		t.verts[id] = domInfo{id: id, idom: idoms[id], pre: -1, post: -1}
	}
	for dominee, idom := range idoms {
		if idom == -1 || dominee == idom {
			continue
		}
		t.edges[idom] = append(t.edges[idom], dominee)
	}
	if len(g) == 0 {
		return t
	}
	if len(g) <= 64 {
		t.numberSmall(entry, 0, 0, 0)
	} else {
		t.numberLarge(entry, 0, 0, make([]bool, len(g)))
	}
	return t
}

// Dominates reports whether a dominates b. Unreachable vertices dominate nothing and are dominated by nothing.
func (t DomTree) Dominates(a, b int) bool {
	ad, bd := t.verts[a], t.verts[b]
	if ad.pre < 0 || bd.pre < 0 {
		return false
	}
	return ad.pre <= bd.pre && bd.post <= ad.post
}

func (t *DomTree) numberLarge(id, pre, post int, seen []bool) (int, int, []bool) {
	if seen[id] {
		return pre, post, seen
	}
	seen[id] = true
	t.verts[id].pre = pre
	pre++
	for _, child := range t.edges[id] {
		pre, post, seen = t.numberLarge(child, pre, post, seen)
	}
	t.verts[id].post = post
	post++
	return pre, post, seen
}

func (t *DomTree) numberSmall(id, pre, post int, seen uint64) (int, int, uint64) {
	if seen&(1<<uint8(id)) != 0 {
		return pre, post, seen
	}
	seen |= 1 << uint8(id)
	t.verts[id].pre = pre
	pre++
	for _, child := range t.edges[id] {
		pre, post, seen = t.numberSmall(child, pre, post, seen)
	}
	t.verts[id].post = post
	post++
	return pre, post, seen
}

// Edge is a directed edge between two vertices.
type Edge struct{ From, To int }

// BackEdges returns the edges whose target dominates their source: the edges which close natural loops.
// Edges are returned in order of their source.
func (g Graph) BackEdges(entry int) []Edge {
	tree := g.DominatorTree(entry)
	var edges []Edge
	for from, succs := range g {
		for _, to := range succs {
			if tree.Dominates(to, from) {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
	}
	return edges
}

// LoopHeaders marks the targets of back edges.
func (g Graph) LoopHeaders(entry int) []bool {
	headers := make([]bool, len(g))
	for _, e := range g.BackEdges(entry) {
		headers[e.To] = true
	}
	return headers
}
