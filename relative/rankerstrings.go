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
	"sort"

	probebits "github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/mwhc"
	"github.com/probeum/mmph/succinct/rank9"
	"github.com/probeum/mmph/triebuild"
)

// Ranker recovers a bucket index from a ranker key r (§4.6 step 4): a
// monotone MMPH gives r's rank among the sorted ranker-string set R,
// and a parallel leaves bitmap turns that rank into a count of
// delimiters, exactly as the hollow-trie variant's BFS-order leaf
// counts do (package hollow), but over R's sorted order instead of
// BFS order.
type Ranker struct {
	posFn  *mwhc.Function
	leaves *rank9.BitVector
	size   int
}

// BuildRanker gathers the ranker-string set R from trie's internal
// nodes (§4.6), plus every delimiter's own full path (ensuring the
// leaves bitmap always has an accurate member to flag even when the
// three derivation rules alone would not have reproduced it), and
// builds the Ranker. seed perturbs the underlying MWHC construction
// (see mwhc.BuildSeeded); pass 0 for a first attempt.
func BuildRanker(trie *triebuild.Trie, seed uint64) (*Ranker, error) {
	rSet := map[string]probebits.Vector{}
	delim := map[string]bool{}

	if trie != nil && trie.Root != nil {
		if trie.Root.IsLeaf() {
			delim[trie.Root.Path.String()] = true
		} else {
			collectRankerMaterial(trie.Root, 0, probebits.New(), rSet, delim)
		}
	}

	type entry struct {
		v  probebits.Vector
		is bool
	}
	entries := make([]entry, 0, len(rSet)+len(delim))
	seen := map[string]bool{}
	for k, v := range rSet {
		entries = append(entries, entry{v: v, is: delim[k]})
		seen[k] = true
	}
	for k, isD := range delim {
		if isD && !seen[k] {
			entries = append(entries, entry{v: probebits.FromBoolString(k), is: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].v.Compare(entries[j].v) < 0
	})

	keys := make([][]byte, len(entries))
	values := make([]uint64, len(entries))
	lb := rank9.NewBuilder()
	for i, e := range entries {
		keys[i] = rankerKeyBytes(e.v)
		values[i] = uint64(i)
		lb.Append(e.is)
	}

	fn, err := mwhc.BuildSeeded(keys, values, widthFor(len(entries)), seed)
	if err != nil {
		return nil, err
	}
	return &Ranker{posFn: fn, leaves: lb.Build(), size: len(entries)}, nil
}

func widthFor(n int) uint {
	w := ceilLog2(uint64(n))
	if w < 1 {
		w = 1
	}
	return w
}

// collectRankerMaterial mirrors collectSignatures' two-fattest
// truncation (signature.go) rather than using a node's full compacted
// path: R must be keyed by the same representative prefix the
// signature search and mistake table recover, or a recovered length
// would never line up with a candidate already in R.
func collectRankerMaterial(n *triebuild.Node, parentDepth uint64, pathSoFar probebits.Vector, rSet map[string]probebits.Vector, delim map[string]bool) {
	full := pathSoFar.Concat(n.Path)
	if n.IsLeaf() {
		delim[full.String()] = true
		return
	}

	length := probebits.TwoFattest(parentDepth, full.Len())
	nodeKey := full.Prefix(length)
	for _, r := range rankerCandidates(nodeKey) {
		rSet[r.String()] = r
	}

	collectRankerMaterial(n.Left, full.Len()+1, full.Append(false), rSet, delim)
	collectRankerMaterial(n.Right, full.Len()+1, full.Append(true), rSet, delim)
}

func rankerCandidates(v probebits.Vector) []probebits.Vector {
	out := make([]probebits.Vector, 0, 3)
	if t, ok := truncLastBitInclusive(v, true); ok {
		out = append(out, t)
	}
	out = append(out, v.Append(true))
	if t, ok := truncLastZeroFlipped(v); ok {
		out = append(out, t)
	}
	return out
}

// truncLastBitInclusive returns v truncated just after the highest
// index whose bit equals want.
func truncLastBitInclusive(v probebits.Vector, want bool) (probebits.Vector, bool) {
	for i := v.Len(); i > 0; i-- {
		if v.Get(i-1) == want {
			return v.Prefix(i), true
		}
	}
	return probebits.Vector{}, false
}

// truncLastZeroFlipped returns v truncated just after its highest
// 0-bit, with that bit flipped to 1.
func truncLastZeroFlipped(v probebits.Vector) (probebits.Vector, bool) {
	for i := v.Len(); i > 0; i-- {
		if !v.Get(i - 1) {
			cp := v.Prefix(i).Copy()
			b := cp.Bytes()
			b[(i-1)/8] |= 0x80 >> ((i - 1) % 8)
			return cp, true
		}
	}
	return probebits.Vector{}, false
}

func rankerKeyBytes(v probebits.Vector) []byte {
	pb := v.Bytes()
	out := make([]byte, 8+len(pb))
	binary.BigEndian.PutUint64(out[0:8], v.Len())
	copy(out[8:], pb)
	return out
}

// Rank returns the count of delimiters whose ranker-string precedes r
// in R's sorted order — the bucket index, when r is a well-formed
// ranker key for a construction-set query (§4.6 step 4). Behaviour for
// r outside R is undefined.
func (rk *Ranker) Rank(r probebits.Vector) int64 {
	if rk == nil || rk.size == 0 {
		return 0
	}
	idx := rk.posFn.Query(rankerKeyBytes(r))
	return int64(rk.leaves.Rank(idx, true))
}

