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

// Package hollow implements the HollowTrieDistributor variant (§4.3-§4.5):
// the compacted trie built by package triebuild is flattened to a
// topology-only bit vector plus a skip-length list, and two MWHC
// functions recover the LEFT/RIGHT/FOLLOW behaviour that the pointer
// trie would otherwise have provided.
package hollow

import (
	"encoding/binary"
	"io"

	"github.com/probeum/mmph/behaviour"
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/mwhc"
	"github.com/probeum/mmph/succinct/eliasfano"
	"github.com/probeum/mmph/succinct/rank9"
	"github.com/probeum/mmph/triebuild"
)

const internalValueWidth uint = 2
const externalValueWidth uint = 1

// Encoded is the succinct, query-only form of a compacted trie: the
// pointer-linked Node graph built by triebuild is never referenced
// again after Encode returns (§5's memory discipline).
type Encoded struct {
	H     *rank9.BitVector
	Sigma *eliasfano.List // cumulative prefix sum of internal-node path lengths, in BFS order
	FInt  *mwhc.Function
	FExt  *mwhc.Function

	// before[p] is the number of leaves strictly to the left of node
	// p's subtree; subtreeLeaves[p] is the number of leaves inside it.
	// Both are indexed by BFS index and computed once, at encode time,
	// from the pointer trie — trading O(S) int32 words (S = |T| ≪ N)
	// for a query routine that does not need the rank9-over-a-level-
	// window bookkeeping a from-scratch succinct tree walk would
	// otherwise require. See DESIGN.md.
	before        []int32
	subtreeLeaves []int32

	size int32
}

// Encode builds the succinct structures from trie and the key streams
// produced by package behaviour's labelling pass.
func Encode(trie *triebuild.Trie, labelled *behaviour.Result) (*Encoded, error) {
	if trie == nil || trie.Root == nil {
		return &Encoded{H: rank9.FromBools(nil), Sigma: eliasfano.Build(nil)}, nil
	}

	hb := rank9.NewBuilder()
	cumulative := make([]uint64, 0, len(trie.Nodes))
	var running uint64
	for _, n := range trie.Nodes {
		if n.IsLeaf() {
			hb.Append(false)
			continue
		}
		hb.Append(true)
		running += n.Path.Len()
		cumulative = append(cumulative, running)
	}

	before := make([]int32, len(trie.Nodes))
	subtreeLeaves := make([]int32, len(trie.Nodes))
	computeLeafCounts(trie.Root, before, subtreeLeaves)

	fInt, err := buildFunction(labelled.Internal, labelled.InternalValues, internalValueWidth)
	if err != nil {
		return nil, err
	}
	fExt, err := buildFunction(labelled.External, labelled.ExternalValues, externalValueWidth)
	if err != nil {
		return nil, err
	}

	return &Encoded{
		H:             hb.Build(),
		Sigma:         eliasfano.Build(cumulative),
		FInt:          fInt,
		FExt:          fExt,
		before:        before,
		subtreeLeaves: subtreeLeaves,
		size:          int32(len(trie.Nodes)),
	}, nil
}

// computeLeafCounts fills before/subtreeLeaves for n's subtree and
// returns n's leaf count.
func computeLeafCounts(n *triebuild.Node, before, subtreeLeaves []int32) int32 {
	if n.IsLeaf() {
		subtreeLeaves[n.Index] = 1
		return 1
	}
	before[n.Left.Index] = before[n.Index]
	leftCount := computeLeafCounts(n.Left, before, subtreeLeaves)
	before[n.Right.Index] = before[n.Index] + leftCount
	rightCount := computeLeafCounts(n.Right, before, subtreeLeaves)
	subtreeLeaves[n.Index] = leftCount + rightCount
	return subtreeLeaves[n.Index]
}

func buildFunction(stream *behaviour.Stream, values []behaviour.Behaviour, width uint) (*mwhc.Function, error) {
	r, err := stream.Reader()
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, stream.Len())
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		keys = append(keys, keyBytes(rec.NodeIndex, rec.Path))
	}
	vals := make([]uint64, len(values))
	for i, v := range values {
		vals[i] = uint64(v)
	}
	return mwhc.Build(keys, vals, width)
}

// keyBytes renders a (node-index, path) pair as the byte key F_int and
// F_ext are built and queried over: an 8-byte big-endian node index,
// an 8-byte big-endian path bit length, and the path's packed bits.
func keyBytes(nodeIndex uint64, path bits.Vector) []byte {
	pb := path.Bytes()
	out := make([]byte, 16+len(pb))
	binary.BigEndian.PutUint64(out[0:8], nodeIndex)
	binary.BigEndian.PutUint64(out[8:16], path.Len())
	copy(out[16:], pb)
	return out
}

// skipLength returns the compacted path length of the r-th internal
// node (0-indexed, BFS order).
func (e *Encoded) skipLength(r uint64) uint64 {
	if e.Sigma == nil || int(r) >= e.Sigma.Len() {
		return 0
	}
	cur := e.Sigma.Get(int(r))
	if r == 0 {
		return cur
	}
	return cur - e.Sigma.Get(int(r)-1)
}

// Size returns the number of trie nodes.
func (e *Encoded) Size() int32 {
	if e == nil {
		return 0
	}
	return e.size
}

// NumBits returns the total space used by the succinct structures, in
// bits, including the explicit leaf-count bookkeeping arrays.
func (e *Encoded) NumBits() int64 {
	if e == nil {
		return 0
	}
	n := e.H.NumBits() + e.Sigma.NumBits() + e.FInt.NumBits() + e.FExt.NumBits()
	n += int64(len(e.before)) * 32
	n += int64(len(e.subtreeLeaves)) * 32
	return n
}

// WriteTo serializes e in the field order package mmphstore persists:
// H, Sigma, FInt, FExt, then the before/subtreeLeaves bookkeeping
// arrays and size.
func (e *Encoded) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := e.H.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = e.Sigma.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = e.FInt.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	n, err = e.FExt.WriteTo(w)
	total += n
	if err != nil {
		return total, err
	}
	if err := writeInt32Slice(w, e.before); err != nil {
		return total, err
	}
	total += 8 + int64(len(e.before))*4
	if err := writeInt32Slice(w, e.subtreeLeaves); err != nil {
		return total, err
	}
	total += 8 + int64(len(e.subtreeLeaves))*4
	if err := binary.Write(w, binary.BigEndian, e.size); err != nil {
		return total, err
	}
	return total + 4, nil
}

// ReadEncoded rebuilds an Encoded from the format WriteTo writes.
func ReadEncoded(r io.Reader) (*Encoded, error) {
	h, err := rank9.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	sigma, err := eliasfano.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	fInt, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	fExt, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	before, err := readInt32Slice(r)
	if err != nil {
		return nil, err
	}
	subtreeLeaves, err := readInt32Slice(r)
	if err != nil {
		return nil, err
	}
	var size int32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, err
	}
	return &Encoded{
		H: h, Sigma: sigma, FInt: fInt, FExt: fExt,
		before: before, subtreeLeaves: subtreeLeaves, size: size,
	}, nil
}

func writeInt32Slice(w io.Writer, s []int32) error {
	if err := binary.Write(w, binary.BigEndian, int64(len(s))); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, s)
}

func readInt32Slice(r io.Reader) ([]int32, error) {
	var n int64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	s := make([]int32, n)
	if n > 0 {
		if err := binary.Read(r, binary.BigEndian, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
