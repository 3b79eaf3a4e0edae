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
	mbits "math/bits"

	"github.com/holiman/bloomfilter/v2"

	probebits "github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hashutil"
	"github.com/probeum/mmph/mwhc"
	"github.com/probeum/mmph/triebuild"
)

// MistakeTable corrects the rare case where Signature.NodeStringLength
// picks a length that disagrees with the real trie (§4.7): a Bloom
// filter cheaply rejects the overwhelming majority of keys that were
// never mistaken, and a small MWHC gives the construction-verified
// correct length for every key that was (or that merely shares a
// 32-bit signature with one — a tolerated false positive that costs
// nothing beyond a redundant correct answer).
type MistakeTable struct {
	bloom *bloomfilter.Filter
	corr  *mwhc.Function
}

// signature32 is the 32-bit mistake signature: the top and bottom
// halves of a 64-bit key hash, folded together by XOR.
func signature32(key []byte) uint32 {
	h := hashutil.Hash64(0, key)
	return uint32(h ^ (h >> 32))
}

// BuildMistakeTable walks every key in keys and builds a table
// covering every key the heuristic alone cannot be trusted for:
// every disagreement between sig's heuristic length and the real
// trie's length, AND every exact delimiter match unconditionally,
// since NodeStringLength has no notion of "exact" at all — its
// raw length might coincidentally agree with length without the
// query actually being an exact match. logW is the minimum width of
// the correction MWHC's length field; the field is widened to hold the
// largest corrected length (an exact match's length is the key's full
// bit length, which can need more than logW bits), and one further bit
// carries the exact flag. seed perturbs the
// underlying MWHC construction (see mwhc.BuildSeeded); pass 0 for a
// first attempt.
func BuildMistakeTable(sig *Signature, trie *triebuild.Trie, keys []probebits.Vector, logW uint, seed uint64) (*MistakeTable, error) {
	mistakeSigs := map[uint32]bool{}
	for _, k := range keys {
		e, ok := walkExit(trie, k)
		if !ok {
			continue
		}
		if e.exact || sig.NodeStringLength(k) != e.length {
			mistakeSigs[signature32(k.Bytes())] = true
		}
	}

	bloomCap := uint64(len(mistakeSigs)) + 1
	bf, err := bloomfilter.NewOptimal(bloomCap, 0.01)
	if err != nil {
		return nil, err
	}
	for s := range mistakeSigs {
		bf.Add(uint64(s))
	}

	// Build the correction function over every key whose signature
	// lands in the mistake set, including any false positives a
	// 32-bit signature collision introduces — each still gets its own
	// correct, construction-verified (length, exact) pair, so a false
	// positive only ever costs an extra (harmless) table lookup.
	var corrKeys [][]byte
	var corrVals []uint64
	for _, k := range keys {
		if !mistakeSigs[signature32(k.Bytes())] {
			continue
		}
		e, ok := walkExit(trie, k)
		if !ok {
			continue
		}
		v := e.length << 1
		if e.exact {
			v |= 1
		}
		corrKeys = append(corrKeys, k.Bytes())
		corrVals = append(corrVals, v)
	}

	lenWidth := logW
	for _, v := range corrVals {
		if n := uint(mbits.Len64(v >> 1)); n > lenWidth {
			lenWidth = n
		}
	}
	corr, err := mwhc.BuildSeeded(corrKeys, corrVals, lenWidth+1, seed)
	if err != nil {
		return nil, err
	}

	return &MistakeTable{bloom: bf, corr: corr}, nil
}

// Lookup returns the corrected (length, exact) pair for key and true
// when key's signature lies in the mistake set. The caller must
// prefer this over the heuristic's answer whenever ok is true — in
// particular, the heuristic can never produce exact=true on its own.
func (m *MistakeTable) Lookup(key []byte) (length uint64, exact bool, ok bool) {
	if m == nil || m.bloom == nil {
		return 0, false, false
	}
	if !m.bloom.Contains(uint64(signature32(key))) {
		return 0, false, false
	}
	v := m.corr.Query(key)
	return v >> 1, v&1 == 1, true
}

// NumBits returns the table's total space, in bits (a diagnostic).
func (m *MistakeTable) NumBits() int64 {
	if m == nil {
		return 0
	}
	var bloomBits int64
	if m.bloom != nil {
		bloomBits = int64(m.bloom.M())
	}
	return bloomBits + m.corr.NumBits()
}
