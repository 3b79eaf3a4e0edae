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

// Package eliasfano implements the specification's EliasFanoLongBigList
// collaborator: succinct storage of a monotone non-decreasing sequence
// of non-negative integers, split into high bits (unary-coded gaps,
// rank/select-capable) and low bits (fixed-width, bit-packed).
//
// No third-party Elias-Fano implementation was found anywhere in the
// retrieved corpus (the closest succinct-structure dependency,
// github.com/hillbig/rsdic, provides rank/select but not monotone-list
// encoding), so this is hand-rolled on top of the corpus's own
// succinct/rank9 package for the high-bit rank/select support — see
// DESIGN.md.
package eliasfano

import (
	"math/bits"

	"github.com/probeum/mmph/succinct/rank9"
)

// List is an Elias-Fano encoded non-decreasing sequence of uint64s.
type List struct {
	n        int
	universe uint64
	lowBits  uint
	low      []byte // lowBits-wide entries, bit-packed MSB-first per entry
	high     *rank9.BitVector
}

// Build encodes values, which must be non-decreasing.
func Build(values []uint64) *List {
	n := len(values)
	if n == 0 {
		return &List{}
	}
	universe := values[n-1]

	lowBits := uint(0)
	if n > 0 && universe > 0 {
		avgGap := universe / uint64(n)
		if avgGap > 0 {
			lowBits = uint(bits.Len64(avgGap))
		}
	}

	lowBytes := make([]byte, (int(lowBits)*n+7)/8)
	hb := rank9.NewBuilder()

	prevHigh := uint64(0)
	_ = prevHigh
	for i, v := range values {
		low := v & ((uint64(1) << lowBits) - 1)
		if lowBits == 0 {
			low = 0
		}
		writeBits(lowBytes, i, lowBits, low)

		high := v >> lowBits
		// Unary code: 'high' zero bits followed by a 1, i.e. the high
		// part is represented by the position of the i-th one bit
		// among (high + i) total bits emitted so far.
		for hb.Len() < int(high)+i {
			hb.Append(false)
		}
		hb.Append(true)
	}

	return &List{
		n:        n,
		universe: universe,
		lowBits:  lowBits,
		low:      lowBytes,
		high:     hb.Build(),
	}
}

func writeBits(buf []byte, idx int, width uint, value uint64) {
	if width == 0 {
		return
	}
	start := uint(idx) * width
	for b := uint(0); b < width; b++ {
		bitPos := start + b
		if value&(uint64(1)<<(width-1-b)) != 0 {
			buf[bitPos/8] |= 0x80 >> (bitPos % 8)
		}
	}
}

func readBits(buf []byte, idx int, width uint) uint64 {
	if width == 0 {
		return 0
	}
	start := uint(idx) * width
	var v uint64
	for b := uint(0); b < width; b++ {
		bitPos := start + b
		bit := buf[bitPos/8]&(0x80>>(bitPos%8)) != 0
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}

// Get returns the i-th value of the encoded sequence.
func (l *List) Get(i int) uint64 {
	if l == nil || l.n == 0 {
		return 0
	}
	low := readBits(l.low, i, l.lowBits)
	// The high part of value i is the number of zero bits before the
	// (i+1)-th one bit in the unary stream, i.e. select(i, true) - i.
	pos := l.high.Select(uint64(i), true)
	high := pos - uint64(i)
	return (high << l.lowBits) | low
}

// Len returns the number of encoded values.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return l.n
}

// NumBits returns the total space used, in bits.
func (l *List) NumBits() int64 {
	if l == nil {
		return 0
	}
	return int64(len(l.low))*8 + l.high.NumBits()
}
