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

// Package rank9 provides O(1) rank/select support over a static bit
// vector, standing in for the specification's "Rank9 / SimpleSelect"
// external collaborator (§1). Rather than hand-rolling the classic
// 9-bit-block rank index, this wraps the reference corpus's
// github.com/hillbig/rsdic succinct rank/select dictionary — the same
// library OgurtsovAndrei-Thesis/rloc uses to back its range-locator
// leaf bitmap — since it exposes exactly the Rank/Select contract the
// hollow-trie topology vector and the relative-trie leaf bitmap need.
package rank9

import "github.com/hillbig/rsdic"

// BitVector is a succinct, rank/select-capable bit vector built once
// and queried many times.
type BitVector struct {
	dic *rsdic.RSDic
	n   uint64
}

// Builder accumulates bits in order and produces an immutable BitVector.
type Builder struct {
	bits []bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Append appends a single bit.
func (b *Builder) Append(bit bool) { b.bits = append(b.bits, bit) }

// Len returns the number of bits appended so far.
func (b *Builder) Len() int { return len(b.bits) }

// Build finalizes the builder into a rank/select-capable BitVector.
func (b *Builder) Build() *BitVector {
	dic := rsdic.New()
	for _, bit := range b.bits {
		dic.PushBack(bit)
	}
	return &BitVector{dic: dic, n: uint64(len(b.bits))}
}

// FromBools builds a BitVector directly from a bool slice.
func FromBools(bits []bool) *BitVector {
	b := NewBuilder()
	for _, bit := range bits {
		b.Append(bit)
	}
	return b.Build()
}

// Len returns the number of bits in the vector.
func (bv *BitVector) Len() uint64 {
	if bv == nil {
		return 0
	}
	return bv.n
}

// Get returns the bit at position i, derived from two rank probes so
// this package depends only on rsdic's Rank/Select surface.
func (bv *BitVector) Get(i uint64) bool {
	if bv == nil || i >= bv.n {
		return false
	}
	return bv.dic.Rank(i+1, true)-bv.dic.Rank(i, true) == 1
}

// Rank returns the number of 1-bits (if bit is true) or 0-bits (if
// bit is false) in the half-open range [0, i).
func (bv *BitVector) Rank(i uint64, bit bool) uint64 {
	if bv == nil || bv.n == 0 {
		return 0
	}
	if i > bv.n {
		i = bv.n
	}
	return bv.dic.Rank(i, bit)
}

// Select returns the position of the (r+1)-th occurrence of bit
// (0-indexed: Select(0, true) is the first 1-bit).
func (bv *BitVector) Select(r uint64, bit bool) uint64 {
	return bv.dic.Select(r, bit)
}

// OnesCount returns the total number of 1-bits in the vector.
func (bv *BitVector) OnesCount() uint64 {
	if bv == nil || bv.n == 0 {
		return 0
	}
	return bv.dic.Rank(bv.n, true)
}

// ByteSize returns the backing allocation size in bytes.
func (bv *BitVector) ByteSize() int {
	if bv == nil {
		return 0
	}
	return bv.dic.AllocSize()
}

// NumBits returns the allocation size in bits.
func (bv *BitVector) NumBits() int64 {
	return int64(bv.ByteSize()) * 8
}
