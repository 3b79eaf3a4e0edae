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

// Package behaviour implements the second construction pass (§4.2):
// streaming every input key again, walking the compacted trie built by
// package triebuild, and emitting the three-valued LEFT/RIGHT/FOLLOW
// behaviour at each visited (node, consumed-prefix) pair.
package behaviour

import (
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/triebuild"
)

// Behaviour is the three-valued exit label of §3.
type Behaviour uint8

const (
	Left Behaviour = iota
	Right
	Follow
)

// Result is the output of a labelling pass: the two spilled key
// streams plus their parallel, in-memory value arrays (values are one
// byte each — far cheaper to keep resident than the variable-width
// paths, per the memory discipline of §5).
type Result struct {
	Internal       *Stream
	InternalValues []Behaviour
	External       *Stream
	ExternalValues []Behaviour
}

// Close releases both spilled streams.
func (r *Result) Close() {
	if r.Internal != nil {
		_ = r.Internal.Close()
	}
	if r.External != nil {
		_ = r.External.Close()
	}
}

// Label runs the labelling pass over keys, against trie, spilling the
// internal and external key streams into tempDir and returning them
// alongside their value arrays. keys must be the same, validated,
// strictly increasing, prefix-free sequence used to build trie (every
// key, not merely the delimiters, is walked).
func Label(trie *triebuild.Trie, keys bits.Iterator, tempDir string) (*Result, error) {
	internal, err := NewStream(tempDir)
	if err != nil {
		return nil, err
	}
	external, err := NewStream(tempDir)
	if err != nil {
		_ = internal.Close()
		return nil, err
	}

	res := &Result{Internal: internal, External: external}

	emittedFollow := make(map[int]bool)

	for keys.Next() {
		key := keys.Value()
		if err := labelOne(trie, key, emittedFollow, res); err != nil {
			res.Close()
			return nil, err
		}
	}
	if err := keys.Err(); err != nil {
		res.Close()
		return nil, err
	}
	return res, nil
}

func labelOne(trie *triebuild.Trie, key bits.Vector, emittedFollow map[int]bool, res *Result) error {
	if trie == nil || trie.Root == nil {
		return nil
	}

	node := trie.Root
	pos := uint64(0)

	for {
		p := node.Path
		remaining := key.Sub(pos, key.Len())
		c := remaining.LCP(p)

		if c == p.Len() && pos+c < key.Len() && !node.IsLeaf() {
			// FOLLOW: the query matches this node's entire compacted
			// path and more bits remain to pick a child.
			if !emittedFollow[node.Index] {
				if err := res.Internal.Append(uint64(node.Index), p); err != nil {
					return err
				}
				res.InternalValues = append(res.InternalValues, Follow)
				emittedFollow[node.Index] = true
			}
			branchBit := key.Get(pos + c)
			pos = pos + c + 1
			if branchBit {
				node = node.Right
			} else {
				node = node.Left
			}
			continue
		}

		// Either c < |p| (a genuine divergence, whether at a leaf or an
		// internal node, including the degenerate case where the query
		// key is exhausted exactly at this node's branch point — by
		// vector-compare convention a key that is a strict prefix of
		// the reconstructed trie path sorts before it, so this
		// degenerate tie also resolves to LEFT), or this node is a
		// leaf whose path the query matches in full.
		if node.IsLeaf() {
			behaviour := Left
			if c < p.Len() && p.Get(c) {
				behaviour = Left
			} else if c < p.Len() {
				behaviour = Right
			}
			// c == p.Len() at a leaf means an exact match: LEFT (§3).
			path := key.Sub(pos, key.Len()) // full remainder, per §4.2
			if err := res.External.Append(uint64(node.Index), path); err != nil {
				return err
			}
			res.ExternalValues = append(res.ExternalValues, behaviour)
			return nil
		}

		behaviour := Left
		if c < p.Len() && !p.Get(c) {
			behaviour = Right
		}
		pathLen := p.Len()
		if key.Len()-pos < pathLen {
			pathLen = key.Len() - pos
		}
		path := key.Sub(pos, pos+pathLen)
		if err := res.Internal.Append(uint64(node.Index), path); err != nil {
			return err
		}
		res.InternalValues = append(res.InternalValues, behaviour)
		return nil
	}
}
