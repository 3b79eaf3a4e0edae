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

package relative

import (
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/triebuild"
)

// exit describes, for one key, everything distributor.go's GetLong
// needs to reconstruct the right ranker key (§4.6 step 4):
//
//   - dir is the direction the key exits in (which of the two
//     candidate-construction rules applies).
//   - length is the prefix length of the key to build that candidate
//     from.
//   - exact is true when the key matches some delimiter's full
//     compacted path bit-for-bit (every leaf is exactly one
//     delimiter, by construction): in that case length is the key's
//     own full length and the candidate is the query's first length
//     bits used verbatim, not run through the usual truncation rules
//     — the delimiter's own full path is what BuildRanker unions into
//     R directly, not a two-fattest-derived prefix of it.
//
// Any other divergence — at an internal node's own compacted path, or
// within a leaf's path short of matching it in full — resolves
// through that internal node's own two-fattest representative length,
// the only length BuildSignature ever indexes.
type exit struct {
	dir    Direction
	length uint64
	exact  bool
}

// walkExit finds key's exit in trie. ok is false only when trie has no
// internal nodes at all (a single-leaf or empty trie).
//
// Reaching a leaf child requires continuing the bit-by-bit comparison
// into that leaf's own compacted path before deciding direction: two
// keys can take the same branch out of an internal node and still
// sort on opposite sides of the delimiter that leaf represents (e.g.
// with delimiters "0010" and "1000", the non-delimiter key "0100"
// branches left out of the empty-path root alongside "0010", but its
// remaining bits "100" sort after the leaf's own "010"). Because every
// key reaching this point has already been validated prefix-free
// against every delimiter, a leaf whose path is consumed in full by
// the query (lc == child.Path.Len()) can only mean the query equals
// that delimiter exactly — a strict continuation past it would make
// the delimiter a bit-prefix of the query, which validation already
// rules out.
func walkExit(trie *triebuild.Trie, key bits.Vector) (exit, bool) {
	if trie == nil || trie.Root == nil || trie.Root.IsLeaf() {
		return exit{}, false
	}

	node := trie.Root
	parentDepth := uint64(0)
	pos := uint64(0)

	for {
		p := node.Path
		remaining := key.Sub(pos, key.Len())
		c := remaining.LCP(p)

		if c == p.Len() && pos+c < key.Len() {
			branchBit := key.Get(pos + c)
			nextPos := pos + c + 1
			var child *triebuild.Node
			if branchBit {
				child = node.Right
			} else {
				child = node.Left
			}

			if child.IsLeaf() {
				leafRemaining := key.Sub(nextPos, key.Len())
				lc := leafRemaining.LCP(child.Path)
				if lc == child.Path.Len() {
					return exit{dir: Left, length: nextPos + lc, exact: true}, true
				}
				dir := Left
				if !child.Path.Get(lc) {
					dir = Right
				}
				length := bits.TwoFattest(parentDepth, parentDepth+node.Path.Len())
				return exit{dir: dir, length: length}, true
			}

			parentDepth = nextPos
			pos = nextPos
			node = child
			continue
		}

		// Diverges on node's own path (c < p.Len()), or the query is
		// exhausted exactly at node's full path (c == p.Len(), the
		// degenerate tie that resolves to Left, matching
		// Vector.Compare's "strict prefix sorts first" convention).
		dir := Left
		if c < p.Len() && !p.Get(c) {
			dir = Right
		}
		length := bits.TwoFattest(parentDepth, parentDepth+node.Path.Len())
		return exit{dir: dir, length: length}, true
	}
}
