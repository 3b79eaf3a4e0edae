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

package bits

import gobits "math/bits"

// TwoFattest returns the two-fattest number in the half-open-left
// range (l, r]: the integer in that range with the most trailing zero
// bits. Z-fast-trie-style signature functions use it to pick a single
// canonical representative depth for the interval between a node and
// its parent (§4.6), and fat binary search uses it to pick probe
// points that halve the remaining candidate range in the number of
// bits common to its endpoints rather than its width.
func TwoFattest(l, r uint64) uint64 {
	if l >= r {
		return r
	}
	msb := 63 - gobits.LeadingZeros64(l^r)
	return (^uint64(0) << uint(msb)) & r
}
