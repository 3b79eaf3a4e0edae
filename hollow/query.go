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

package hollow

import (
	"github.com/probeum/mmph/behaviour"
	"github.com/probeum/mmph/bits"
)

// GetLong traverses the hollow trie for q and returns its bucket
// index (§4.5). Behaviour on a q not in the original key set is
// undefined: any value in range may be returned, and the routine
// never panics on a well-formed (non-empty) q.
func (e *Encoded) GetLong(q bits.Vector) int64 {
	if e == nil || e.H == nil || e.H.Len() == 0 {
		return 0
	}

	var p, s uint64
	for {
		if !e.H.Get(p) {
			// Leaf: F_ext is keyed on the full remainder of q.
			start := s
			if start > q.Len() {
				start = q.Len()
			}
			path := q.Sub(start, q.Len())
			beh := behaviour.Behaviour(e.FExt.Query(keyBytes(p, path)))
			if beh == behaviour.Right {
				return int64(e.before[p]) + 1
			}
			return int64(e.before[p])
		}

		r := e.H.Rank(p, true)
		skip := e.skipLength(r)
		end := s + skip
		if end > q.Len() {
			end = q.Len()
		}
		path := q.Sub(s, end)
		beh := behaviour.Behaviour(e.FInt.Query(keyBytes(p, path)))

		if beh != behaviour.Follow || end >= q.Len() {
			if beh == behaviour.Right {
				return int64(e.before[p]) + int64(e.subtreeLeaves[p])
			}
			return int64(e.before[p])
		}

		s = end
		branchBit := q.Get(s)
		if branchBit {
			p = 2*r + 2
		} else {
			p = 2*r + 1
		}
		s++
	}
}
