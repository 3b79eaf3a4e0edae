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

// Package bits implements bit-indexed vector algebra over prefix-free
// key material: length, get/set, sub-vector, longest-common-prefix,
// lexicographic compare, copy and append.
//
// A Vector is immutable from the caller's point of view: every method
// that would "mutate" returns a new Vector sharing no backing array
// with the receiver beyond what is safe to share (Prefix/Sub share the
// backing array only when both the start offset and the length are
// byte-aligned, and copy otherwise; Append and Concat always copy).
package bits

import (
	"fmt"
	"strings"

	"github.com/probeum/mmph/hashutil"
)

// Vector is a sequence of bits, MSB-first within each backing byte.
type Vector struct {
	data []byte
	len  uint64 // length in bits
}

// New returns an empty vector.
func New() Vector {
	return Vector{}
}

// FromBytes builds a vector of bitLen bits from the given bytes
// (big-endian, MSB-first). bitLen must be <= 8*len(b).
func FromBytes(b []byte, bitLen uint64) Vector {
	if bitLen > uint64(len(b))*8 {
		panic("bits: bitLen exceeds byte slice capacity")
	}
	out := make([]byte, (bitLen+7)/8)
	copy(out, b)
	return Vector{data: out, len: bitLen}
}

// FromBoolString builds a vector from a string of '0'/'1' characters,
// mostly useful in tests and CLI tooling.
func FromBoolString(s string) Vector {
	v := Vector{data: make([]byte, (len(s)+7)/8), len: uint64(len(s))}
	for i := 0; i < len(s); i++ {
		if s[i] == '1' {
			v.set(uint64(i))
		} else if s[i] != '0' {
			panic("bits: FromBoolString expects only '0'/'1'")
		}
	}
	return v
}

// Len returns the vector's length in bits.
func (v Vector) Len() uint64 { return v.len }

// IsEmpty reports whether the vector has zero length.
func (v Vector) IsEmpty() bool { return v.len == 0 }

// Get returns the bit at position i (0 = MSB of byte 0).
func (v Vector) Get(i uint64) bool {
	if i >= v.len {
		panic(fmt.Sprintf("bits: index %d out of range (len %d)", i, v.len))
	}
	return v.data[i/8]&(0x80>>(i%8)) != 0
}

func (v Vector) set(i uint64) {
	v.data[i/8] |= 0x80 >> (i % 8)
}

// Prefix returns the first n bits of v, sharing the backing array when
// n is a multiple of 8 (see Sub).
func (v Vector) Prefix(n uint64) Vector {
	return v.Sub(0, n)
}

// Sub returns the half-open bit range [start, end). The result is
// always canonical: any bits beyond its own length are zero, even when
// it shares a backing array with v, so two equal-length vectors always
// hash and compare identically regardless of what follows them in a
// longer source vector.
func (v Vector) Sub(start, end uint64) Vector {
	if start > end || end > v.len {
		panic(fmt.Sprintf("bits: invalid sub-range [%d,%d) of len %d", start, end, v.len))
	}
	n := end - start
	if start%8 == 0 && n%8 == 0 {
		byteStart := start / 8
		byteLen := n / 8
		return Vector{data: v.data[byteStart : byteStart+byteLen], len: n}
	}
	// Unaligned start, or a length that doesn't fill its last byte:
	// materialize a fresh, tightly packed, zero-padded copy.
	out := make([]byte, (n+7)/8)
	dst := Vector{data: out, len: n}
	for i := uint64(0); i < n; i++ {
		if v.Get(start + i) {
			dst.set(i)
		}
	}
	return dst
}

// Copy returns an independent copy of v.
func (v Vector) Copy() Vector {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return Vector{data: out, len: v.len}
}

// Append returns a new vector equal to v with bit b appended.
func (v Vector) Append(b bool) Vector {
	out := make([]byte, (v.len+1+7)/8)
	copy(out, v.data)
	r := Vector{data: out, len: v.len + 1}
	if b {
		r.set(v.len)
	}
	return r
}

// Concat returns v followed by w as a new, tightly packed vector.
func (v Vector) Concat(w Vector) Vector {
	out := Vector{data: make([]byte, (v.len+w.len+7)/8), len: v.len + w.len}
	for i := uint64(0); i < v.len; i++ {
		if v.Get(i) {
			out.set(i)
		}
	}
	for i := uint64(0); i < w.len; i++ {
		if w.Get(i) {
			out.set(v.len + i)
		}
	}
	return out
}

// LCP returns the length, in bits, of the longest common prefix of v and w.
func (v Vector) LCP(w Vector) uint64 {
	n := v.len
	if w.len < n {
		n = w.len
	}
	i := uint64(0)
	for ; i+8 <= n; i += 8 {
		if v.data[i/8] != w.data[i/8] {
			break
		}
	}
	for ; i < n; i++ {
		if v.Get(i) != w.Get(i) {
			return i
		}
	}
	return n
}

// Compare returns -1, 0 or 1 as v is lexicographically less than, equal
// to, or greater than w, treating the end of a vector as less than any
// further bit (a strict prefix sorts first).
func (v Vector) Compare(w Vector) int {
	lcp := v.LCP(w)
	if lcp == v.len && lcp == w.len {
		return 0
	}
	if lcp == v.len {
		return -1
	}
	if lcp == w.len {
		return 1
	}
	if v.Get(lcp) {
		return 1
	}
	return -1
}

// Equal reports whether v and w represent the same bit sequence.
func (v Vector) Equal(w Vector) bool {
	return v.len == w.len && v.LCP(w) == v.len
}

// IsPrefixOf reports whether v is a (non-strict) prefix of w.
func (v Vector) IsPrefixOf(w Vector) bool {
	return v.len <= w.len && v.LCP(w) == v.len
}

// Bytes returns the tightly packed backing bytes. The caller must not
// mutate the result when it aliases v's storage (len(v.data)*8 == v.len).
func (v Vector) Bytes() []byte { return v.data }

// Hash returns a 64-bit seeded hash of the vector's bit content,
// distinguishing vectors of different lengths (two vectors whose
// packed bytes collide but whose bit lengths differ hash differently).
func (v Vector) Hash(seed uint64) uint64 {
	return hashutil.Hash64WithLength(seed, v.data, v.len)
}

// String renders v as a string of '0'/'1' characters.
func (v Vector) String() string {
	var sb strings.Builder
	for i := uint64(0); i < v.len; i++ {
		if v.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
