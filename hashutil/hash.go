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

// Package hashutil provides the seeded, non-cryptographic 64-bit hash
// primitive the rest of this module treats as "the Jenkins-style mix"
// from the specification: MWHC key hashing, signature computation in
// the relative-trie variant, and Vector.Hash all funnel through here.
package hashutil

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"github.com/holiman/uint256"
)

// Hash64 returns a seeded 64-bit hash of data.
func Hash64(seed uint64, data []byte) uint64 {
	h := xxhash.NewS64(seed)
	_, _ = h.Write(data)
	return h.Sum64()
}

// Hash64WithLength folds a bit length into the hash so that two byte
// payloads that differ only in their trailing, non-whole-byte bits
// (equivalently: two vectors of different length whose packed bytes
// collide) hash to different values.
//
// The length is mixed through a wide accumulator (a 256-bit word built
// from the byte-hash and the length, reduced back to 64 bits) rather
// than simply hashing length-prefixed bytes, avoiding a second pass
// over data for every call.
func Hash64WithLength(seed uint64, data []byte, bitLen uint64) uint64 {
	h := Hash64(seed, data)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], bitLen)

	acc := new(uint256.Int).SetBytes8(lenBuf[:])
	acc.Lsh(acc, 64)
	acc.Or(acc, new(uint256.Int).SetUint64(h))
	acc.Lsh(acc, 64)
	acc.Or(acc, new(uint256.Int).SetUint64(seed))

	// Fold the 256-bit accumulator down to 64 bits with a cheap XOR
	// reduction over its four 64-bit words.
	words := acc.Bytes32()
	var out uint64
	for i := 0; i < 32; i += 8 {
		out ^= binary.BigEndian.Uint64(words[i : i+8])
	}
	return out
}

// Hash64Seeded re-hashes an already-computed 64-bit digest with a new
// seed, used when the MWHC needs several independent hash values for
// the same key without re-touching the original byte payload.
func Hash64Seeded(seed uint64, h uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h)
	return Hash64(seed, buf[:])
}
