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

package ast

// Control flow graph of a function body. Block 0 is the entry block.
type ControlFlow struct {
	Blocks []*Block
	Jumps  []Jump
}

// Basic block: a sequence of statements without internal jumps.
type Block struct {
	Index int
	Stmts []Stmt
}

// Jump is an edge between blocks. A guarded jump is only taken when Guard evaluates to a truthy
// value (or a falsy value, when Negate is set).
type Jump struct {
	From, To int
	Guard    Expr
	Negate   bool
}

// NewControlFlow creates a graph with an empty entry block.
func NewControlFlow(entry ...Stmt) *ControlFlow {
	cf := &ControlFlow{}
	cf.AddBlock(entry...)
	return cf
}

// Entry returns the entry block.
func (e *ControlFlow) Entry() *Block { return e.Blocks[0] }

// AddBlock appends a block to the graph.
func (e *ControlFlow) AddBlock(stmts ...Stmt) *Block {
	b := &Block{Index: len(e.Blocks), Stmts: stmts}
	e.Blocks = append(e.Blocks, b)
	return b
}

// Append statements to a block.
func (b *Block) Append(stmts ...Stmt) *Block {
	b.Stmts = append(b.Stmts, stmts...)
	return b
}

// AddJump adds an unconditional jump.
func (e *ControlFlow) AddJump(from, to *Block) {
	if !e.HasJump(from, to) {
		e.Jumps = append(e.Jumps, Jump{From: from.Index, To: to.Index})
	}
}

// AddBranch adds a jump to then when guard is truthy, and a jump to otherwise when it is falsy.
func (e *ControlFlow) AddBranch(from *Block, guard Expr, then, otherwise *Block) {
	e.Jumps = append(e.Jumps,
		Jump{From: from.Index, To: then.Index, Guard: guard},
		Jump{From: from.Index, To: otherwise.Index, Guard: guard, Negate: true})
}

func (e *ControlFlow) HasJump(from, to *Block) bool {
	for _, j := range e.Jumps {
		if j.From == from.Index && j.To == to.Index && j.Guard == nil {
			return true
		}
	}
	return false
}

// Successors returns the jumps leaving block i, in declaration order.
func (e *ControlFlow) Successors(i int) []Jump {
	var out []Jump
	for _, j := range e.Jumps {
		if j.From == i {
			out = append(out, j)
		}
	}
	return out
}
