// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package triebuild builds the intermediate compacted binary trie over
// a set of delimiters (§3, §4.1 of the specification). It is the only
// package that ever holds a mutable, pointer-linked trie; every other
// package consumes either the finished BFS-indexed node slice or the
// succinct encodings derived from it.
//
// The two-children node shape generalizes the teacher's shortNode /
// fullNode split (trie/node.go): where go-ethereum's Merkle-Patricia
// trie has a 16-way fullNode and a shortNode path, this trie is
// strictly binary, so the two shapes collapse into a single Node with
// an optional compacted path and exactly zero or two children.
package triebuild

import "github.com/probeum/mmph/bits"

// Node is a single node of the compacted binary trie. A Node with both
// children nil is a leaf; otherwise both children are non-nil (the
// "every internal node has exactly two children" invariant of §3).
type Node struct {
	// Path is the compacted bit sequence consumed strictly between the
	// branching bit that led to this node (absent only for the root)
	// and the next branch point (or, for a leaf, the end of the key).
	Path bits.Vector

	Left, Right *Node

	// Index is this node's BFS rank, assigned by Builder.Build.
	// -1 until assigned.
	Index int

	// DelimIndex is the position, in the original delimiter sequence,
	// of the key this leaf represents. Meaningless on internal nodes.
	DelimIndex int
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Trie is the finished, BFS-indexed compacted binary trie plus the
// bookkeeping the rest of construction needs.
type Trie struct {
	Root *Node
	// Nodes is Root's BFS traversal, Nodes[0] == Root. Nil if the trie
	// is empty (fewer than one delimiter).
	Nodes []*Node
	// MaxKeyLen is the maximum bit length observed across ALL input
	// keys (not just delimiters), needed by callers sizing signature
	// widths (§4.6).
	MaxKeyLen uint64
}

// Size returns the number of trie nodes (both internal and leaf).
func (t *Trie) Size() int32 {
	if t == nil {
		return 0
	}
	return int32(len(t.Nodes))
}

// spineEntry is one node on the trie's rightmost path during
// construction, with the absolute bit offset (within the delimiter
// under insertion) at which that node's Path begins.
type spineEntry struct {
	node  *Node
	start uint64
}

// Builder incrementally builds a Trie from a stream of delimiters,
// which must arrive in strictly increasing, prefix-free order (this
// holds automatically whenever the delimiters are drawn from a valid,
// already-validated key stream, since any subsequence of a prefix-free
// strictly-increasing sequence has the same properties).
type Builder struct {
	root      *Node
	spine     []spineEntry
	prev      bits.Vector
	havePrev  bool
	count     int
	maxKeyLen uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// ObserveKeyLength folds a raw input key's length into the builder's
// max-key-length tracking, independent of whether that key is a
// delimiter. Called once per input key during the first construction
// pass (§4.1 step 1 scans ALL keys, not just delimiters).
func (b *Builder) ObserveKeyLength(n uint64) {
	if n > b.maxKeyLen {
		b.maxKeyLen = n
	}
}

// Insert adds delimiter as the (b.count)-th delimiter. Delimiters must
// be supplied in strictly increasing, prefix-free order.
func (b *Builder) Insert(delimiter bits.Vector) {
	idx := b.count
	b.count++
	b.ObserveKeyLength(delimiter.Len())

	if b.root == nil {
		leaf := &Node{Path: delimiter, Index: -1, DelimIndex: idx}
		b.root = leaf
		b.spine = []spineEntry{{node: leaf, start: 0}}
		b.prev = delimiter
		b.havePrev = true
		return
	}

	lcp := b.prev.LCP(delimiter)

	i := 0
	for i < len(b.spine) {
		e := b.spine[i]
		segEnd := e.start + e.node.Path.Len()
		if segEnd <= lcp {
			// Divergence is strictly beyond this node; the rightmost
			// spine always takes the right (bit 1) branch, consuming
			// one branching bit before the next node's path begins.
			i++
			continue
		}
		break
	}

	if i >= len(b.spine) {
		panic("triebuild: delimiter stream violates prefix-freedom (no divergence point)")
	}

	e := b.spine[i]
	splitAt := lcp - e.start // offset within e.node.Path where the split occurs

	oldSuffix := e.node.Path.Sub(splitAt+1, e.node.Path.Len())
	newSuffixStart := lcp + 1

	var oldChild *Node
	if e.node.IsLeaf() {
		oldChild = &Node{Path: oldSuffix, Index: -1, DelimIndex: e.node.DelimIndex}
	} else {
		oldChild = &Node{Path: oldSuffix, Index: -1, Left: e.node.Left, Right: e.node.Right}
	}

	e.node.Path = e.node.Path.Prefix(splitAt)
	e.node.Left = oldChild  // bit 0: the smaller, previously-inserted branch
	e.node.DelimIndex = 0   // no longer meaningful; e.node is now internal

	newLeaf := &Node{Path: delimiter.Sub(newSuffixStart, delimiter.Len()), Index: -1, DelimIndex: idx}
	e.node.Right = newLeaf // bit 1: the new, larger branch

	b.spine = append(b.spine[:i+1], spineEntry{node: newLeaf, start: newSuffixStart})
	b.prev = delimiter
}

// Build finalizes the trie: assigns BFS indices and returns the
// immutable Trie. The Builder must not be reused afterwards.
func (b *Builder) Build() *Trie {
	t := &Trie{Root: b.root, MaxKeyLen: b.maxKeyLen}
	if t.Root == nil {
		return t
	}
	t.Nodes = assignBFSIndices(t.Root)
	return t
}

func assignBFSIndices(root *Node) []*Node {
	order := make([]*Node, 0)
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		n.Index = len(order)
		order = append(order, n)
		if !n.IsLeaf() {
			queue = append(queue, n.Left, n.Right)
		}
	}
	return order
}

// BuildFromDelimiters is a convenience wrapper building a Trie directly
// from a slice, for tests and small inputs.
func BuildFromDelimiters(delimiters []bits.Vector) *Trie {
	b := NewBuilder()
	for _, d := range delimiters {
		b.Insert(d)
	}
	return b.Build()
}
