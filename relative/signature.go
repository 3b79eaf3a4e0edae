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
	"encoding/binary"
	mbits "math/bits"

	probebits "github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hashutil"
	"github.com/probeum/mmph/mwhc"
	"github.com/probeum/mmph/triebuild"
)

// ceilLog2 returns the smallest k with 2^k >= n (0 for n<=1).
func ceilLog2(n uint64) uint {
	if n <= 1 {
		return 0
	}
	return uint(mbits.Len64(n - 1))
}

// Widths bundles the three derived bit widths the signature function
// and its companions are sized by (§4.6): w bits hold a length up to
// L, logW bits hold a value up to w, and logLogW bits hold the hash
// tag folded into every signature.
type Widths struct {
	W       uint
	LogW    uint
	LogLogW uint
}

// DeriveWidths computes Widths from L, the maximum observed key bit
// length, clamping every field to at least 1 so a degenerately small L
// (tiny test inputs) never produces a zero-width MWHC value.
func DeriveWidths(maxKeyLen uint64) Widths {
	w := ceilLog2(maxKeyLen)
	if w < 1 {
		w = 1
	}
	logW := ceilLog2(uint64(w))
	if logW < 1 {
		logW = 1
	}
	logLogW := ceilLog2(uint64(logW))
	if logLogW < 1 {
		logLogW = 1
	}
	return Widths{W: w, LogW: logW, LogLogW: logLogW}
}

// Signature is the MWHC-backed stand-in for the compacted trie's
// internal nodes (§4.6): queried with a candidate two-fattest-truncated
// prefix, it returns a hash tag plus the length that prefix was built
// with, so a query can check self-consistency without ever seeing the
// real trie.
type Signature struct {
	fn     *mwhc.Function
	widths Widths
}

// BuildSignature walks trie once, computing every internal node's
// two-fattest representative prefix and building the MWHC function S.
// seed perturbs the underlying MWHC construction (see mwhc.BuildSeeded);
// pass 0 for a first attempt.
func BuildSignature(trie *triebuild.Trie, widths Widths, seed uint64) (*Signature, error) {
	var keys [][]byte
	var values []uint64

	if trie != nil && trie.Root != nil && !trie.Root.IsLeaf() {
		collectSignatures(trie.Root, 0, probebits.New(), widths, &keys, &values)
	}

	fn, err := mwhc.BuildSeeded(keys, values, widths.LogW+widths.LogLogW, seed)
	if err != nil {
		return nil, err
	}
	return &Signature{fn: fn, widths: widths}, nil
}

func collectSignatures(n *triebuild.Node, parentDepth uint64, pathSoFar probebits.Vector, widths Widths, keys *[][]byte, values *[]uint64) {
	full := pathSoFar.Concat(n.Path)
	if n.IsLeaf() {
		return
	}

	length := probebits.TwoFattest(parentDepth, full.Len())
	nodeKey := full.Prefix(length)
	tag := hashutil.Hash64(0, nodeKey.Bytes()) & ((uint64(1) << widths.LogLogW) - 1)
	value := (tag << widths.LogW) | (length & ((uint64(1) << widths.LogW) - 1))

	*keys = append(*keys, signatureKeyBytes(length, nodeKey))
	*values = append(*values, value)

	leftFull := full.Append(false)
	collectSignatures(n.Left, full.Len()+1, leftFull, widths, keys, values)
	rightFull := full.Append(true)
	collectSignatures(n.Right, full.Len()+1, rightFull, widths, keys, values)
}

// signatureKeyBytes renders a (length, prefix) pair as the byte key S
// is built and queried over. The explicit length prefix keeps two
// distinct nodes whose prefixes happen to share bytes at different
// bit-lengths from ever colliding as MWHC keys.
func signatureKeyBytes(length uint64, prefix probebits.Vector) []byte {
	pb := prefix.Bytes()
	out := make([]byte, 8+len(pb))
	binary.BigEndian.PutUint64(out[0:8], length)
	copy(out[8:], pb)
	return out
}

// probe returns S's raw stored value for the candidate length-m prefix
// of v (v must have at least m bits).
func (s *Signature) probe(v probebits.Vector, m uint64) uint64 {
	return s.fn.Query(signatureKeyBytes(m, v.Prefix(m)))
}

// NodeStringLength approximates the real trie's exit-node length for
// v via a fat binary search over S: at each step it asks whether the
// two-fattest candidate length m is self-consistent (S's stored length
// field equals m), narrowing the search range accordingly.
//
// This is a best-effort heuristic, not the full two-level exponential
// search the z-fast trie literature describes: on any key outside the
// construction set its answer is meaningless (undefined domain, per
// §1), and even on a construction-set key it is allowed to be wrong,
// because every such key is independently verified against the real
// trie at construction time and any mismatch is corrected via the
// mistake table (§4.7) — see distributor.go. Its only job is to be
// right often enough that the mistake table stays small.
func (s *Signature) NodeStringLength(v probebits.Vector) uint64 {
	lo, hi := uint64(0), v.Len()
	if hi == 0 {
		return 0
	}
	lowMask := (uint64(1) << s.widths.LogW) - 1

	for iterations := 0; lo < hi && iterations < 64; iterations++ {
		m := probebits.TwoFattest(lo, hi)
		if m == 0 {
			break
		}
		val := s.probe(v, m)
		storedLen := val & lowMask
		switch {
		case storedLen == (m & lowMask):
			return m
		case storedLen < (m & lowMask):
			lo = m
		default:
			hi = m - 1
		}
	}
	return lo
}
