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

// Package transform implements the specification's
// TransformationStrategy collaborator (§1): mapping user elements to
// prefix-free bit vectors.
package transform

import (
	"encoding/binary"

	"github.com/probeum/mmph/bits"
)

// Strategy maps a user element of type E to a prefix-free Vector.
type Strategy[E any] interface {
	ToBits(e E) bits.Vector
}

// ByteArray is a Strategy[[]byte] that length-prefixes its input so
// that no encoded vector is a prefix of another: an 8-byte big-endian
// length header precedes the raw bytes.
//
// This mirrors sux4j's ByteArrayTransformationStrategy, which relies
// on the same length-prefix trick to guarantee prefix-freedom for
// arbitrary byte strings.
type ByteArray struct{}

// ToBits implements Strategy[[]byte].
func (ByteArray) ToBits(e []byte) bits.Vector {
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(len(e)))
	payload := append(append([]byte{}, hdr[:]...), e...)
	return bits.FromBytes(payload, uint64(len(payload))*8)
}

// String is a Strategy[string] built on top of ByteArray.
type String struct{}

// ToBits implements Strategy[string].
func (String) ToBits(e string) bits.Vector {
	return ByteArray{}.ToBits([]byte(e))
}

// FixedWidthInts is a Strategy[uint64] for keys that are already
// comparable fixed-width integers (e.g. synthetic benchmark keys):
// encodes each value as a full 64-bit big-endian vector, which is
// trivially prefix-free since every encoded vector has equal length.
type FixedWidthInts struct{}

// ToBits implements Strategy[uint64].
func (FixedWidthInts) ToBits(e uint64) bits.Vector {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], e)
	return bits.FromBytes(buf[:], 64)
}
