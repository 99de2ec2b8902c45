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

package util

// Graph is an adjacency list of successors, indexed by vertex.
type Graph [][]int

func NewGraph(numVerts int) Graph { return Graph(make([][]int, numVerts)) }

func (g Graph) AddEdge(from, to int) {
	if !g.HasEdge(from, to) {
		g[from] = append(g[from], to)
	}
}

func (g Graph) HasEdge(from, to int) bool {
	for _, succ := range g[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// Transpose returns the graph of predecessors.
func (g Graph) Transpose() Graph {
	t := make(Graph, len(g))
	for pred, succs := range g {
		for _, succ := range succs {
			t[succ] = append(t[succ], pred)
		}
	}
	return t
}

// Components returns the strongly connected components of g. When every edge points from a vertex to one of
// its dependencies, each component is preceded by the components it depends on. A component with more than
// one vertex (or a vertex with an edge to itself) is a dependency cycle.
func (g Graph) Components() [][]int {
	state := componentState{
		index:   make([]int, len(g)),
		lowLink: make([]int, len(g)),
		onStack: make([]bool, len(g)),
	}
	for v := range g {
		if state.index[v] == 0 {
			g.strongConnect(&state, v)
		}
	}
	return state.components
}

type componentState struct {
	next    int
	index   []int
	lowLink []int
	onStack []bool

	stack      []int
	components [][]int
}

// Tarjan's algorithm. Components are completed after every component reachable from them.
func (g Graph) strongConnect(state *componentState, v int) {
	state.next++
	state.index[v] = state.next
	state.lowLink[v] = state.next
	state.stack = append(state.stack, v)
	state.onStack[v] = true

	for _, succ := range g[v] {
		switch {
		case state.index[succ] == 0:
			g.strongConnect(state, succ)
			if state.lowLink[succ] < state.lowLink[v] {
				state.lowLink[v] = state.lowLink[succ]
			}
		case state.onStack[succ] && state.index[succ] < state.lowLink[v]:
			state.lowLink[v] = state.index[succ]
		}
	}

	if state.lowLink[v] != state.index[v] {
		return
	}
	var component []int
	for {
		w := state.stack[len(state.stack)-1]
		state.stack = state.stack[:len(state.stack)-1]
		state.onStack[w] = false
		component = append(component, w)
		if w == v {
			break
		}
	}
	state.components = append(state.components, component)
}
