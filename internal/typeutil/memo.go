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
	"github.com/wdamron/gradual/types"
)

type verdict uint8

const (
	assumed verdict = iota + 1
	confirmed
	refuted
)

// pair keys a memo entry by the structural keys of both types, so that equal instantiations created by
// separate member lookups share an entry. Verdicts reached without numeric promotions are kept apart.
type pair struct {
	src, dst string
	nominal  bool
}

func keyOf(src, dst types.Type) pair { return pair{src: types.TypeKey(src), dst: types.TypeKey(dst)} }

type memoEntry struct {
	verdict verdict
	err     error
}

// memo caches verdicts for structural checks within one top-level check. A pair is assumed
// compatible while it is being checked; if the check fails, every verdict cached since the
// assumption is retracted.
type memo struct {
	entries map[pair]memoEntry
	log     []pair
}

func (m *memo) lookup(k pair) (memoEntry, bool) {
	e, ok := m.entries[k]
	return e, ok
}

// assume marks k as assumed and returns a mark for retract.
func (m *memo) assume(k pair) int {
	if m.entries == nil {
		m.entries = make(map[pair]memoEntry, 16)
	}
	mark := len(m.log)
	m.entries[k] = memoEntry{verdict: assumed}
	m.log = append(m.log, k)
	return mark
}

func (m *memo) confirm(k pair) {
	m.entries[k] = memoEntry{verdict: confirmed}
}

func (m *memo) refute(k pair, err error) {
	m.entries[k] = memoEntry{verdict: refuted, err: err}
	m.log = append(m.log, k)
}

// retract drops every entry added at or after mark.
func (m *memo) retract(mark int) {
	for _, k := range m.log[mark:] {
		delete(m.entries, k)
	}
	m.log = m.log[:mark]
}

func (m *memo) reset() {
	for k := range m.entries {
		delete(m.entries, k)
	}
	for i := range m.log {
		m.log[i] = pair{}
	}
	m.log = m.log[:0]
}

func (m *memo) size() int { return len(m.entries) }
