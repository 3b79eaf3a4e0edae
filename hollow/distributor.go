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
	"encoding/binary"
	"io"

	"github.com/probeum/mmph/behaviour"
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/transform"
	"github.com/probeum/mmph/triebuild"
)

// Distributor is a monotone minimal perfect hash distributor backed by
// a hollow trie (§1, §4.5): given any key from the original set, it
// returns that key's bucket index in O(|key|/64) time.
type Distributor[E any] struct {
	strategy transform.Strategy[E]
	bucket   uint
	n        int
	enc      *Encoded
}

// Build constructs a Distributor from elements, a bucket size, and a
// transformation strategy. elements must yield distinct, prefix-free,
// lexicographically strictly increasing bit vectors once passed
// through strategy; tempDir receives the construction-time key-stream
// spill files (os.TempDir() if empty).
func Build[E any](elements []E, strategy transform.Strategy[E], bucketSize uint, tempDir string) (*Distributor[E], error) {
	if bucketSize == 0 {
		bucketSize = 1
	}

	vecs := make([]bits.Vector, len(elements))
	for i, e := range elements {
		vecs[i] = strategy.ToBits(e)
	}

	checked := bits.NewCheckedSortedIterator(bits.NewSliceIterator(vecs))
	tb := triebuild.NewBuilder()
	i := 0
	for checked.Next() {
		v := checked.Value()
		tb.ObserveKeyLength(v.Len())
		if (i+1)%int(bucketSize) == 0 {
			tb.Insert(v)
		}
		i++
	}
	if err := checked.Err(); err != nil {
		return nil, err
	}

	trie := tb.Build()

	labelled, err := behaviour.Label(trie, bits.NewSliceIterator(vecs), tempDir)
	if err != nil {
		return nil, err
	}
	defer labelled.Close()

	enc, err := Encode(trie, labelled)
	if err != nil {
		return nil, err
	}

	return &Distributor[E]{strategy: strategy, bucket: bucketSize, n: len(elements), enc: enc}, nil
}

// GetLong returns element's bucket index. Behaviour on an element not
// in the original set is undefined (§6).
func (d *Distributor[E]) GetLong(element E) int64 {
	if d == nil || d.n == 0 {
		return 0
	}
	return d.enc.GetLong(d.strategy.ToBits(element))
}

// Size returns the number of trie nodes (a diagnostic).
func (d *Distributor[E]) Size() int32 {
	if d == nil {
		return 0
	}
	return d.enc.Size()
}

// NumBits returns the total space used, in bits.
func (d *Distributor[E]) NumBits() int64 {
	if d == nil {
		return 0
	}
	return d.enc.NumBits()
}

// ContainsKey always returns true: distributors are not membership
// testers (§6).
func (d *Distributor[E]) ContainsKey(element E) bool { return true }

// WriteTo persists d's strategy metadata (bucket size, element count)
// and its succinct structures, in the order package mmphstore expects
// (SPEC §6). The strategy function itself is never serialized — a
// caller restoring with Load must supply the same transform.Strategy
// it built with.
func (d *Distributor[E]) WriteTo(w io.Writer) (int64, error) {
	var total int64
	hdr := []uint64{uint64(d.bucket), uint64(d.n)}
	for _, v := range hdr {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return total, err
		}
		total += 8
	}
	n, err := d.enc.WriteTo(w)
	return total + n, err
}

// Load rebuilds a Distributor from the format WriteTo writes, paired
// with the strategy used to build it originally.
func Load[E any](r io.Reader, strategy transform.Strategy[E]) (*Distributor[E], error) {
	var bucket, count uint64
	for _, v := range []*uint64{&bucket, &count} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	enc, err := ReadEncoded(r)
	if err != nil {
		return nil, err
	}
	return &Distributor[E]{strategy: strategy, bucket: uint(bucket), n: int(count), enc: enc}, nil
}

// MemReport breaks NumBits down by succinct component, for
// diagnostics and the cmd/mmphtool stats subcommand.
type MemReport struct {
	TopologyBits int64
	SkipListBits int64
	FIntBits     int64
	FExtBits     int64
	BookkeepBits int64
	TotalBits    int64
}

// MemReport returns a per-component space breakdown.
func (d *Distributor[E]) MemReport() MemReport {
	if d == nil || d.enc == nil {
		return MemReport{}
	}
	e := d.enc
	bookkeep := int64(len(e.before))*32 + int64(len(e.subtreeLeaves))*32
	return MemReport{
		TopologyBits: e.H.NumBits(),
		SkipListBits: e.Sigma.NumBits(),
		FIntBits:     e.FInt.NumBits(),
		FExtBits:     e.FExt.NumBits(),
		BookkeepBits: bookkeep,
		TotalBits:    e.NumBits(),
	}
}
