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
	"io"

	"github.com/holiman/bloomfilter/v2"

	"github.com/probeum/mmph/mwhc"
	"github.com/probeum/mmph/succinct/rank9"
	"github.com/probeum/mmph/transform"
)

// WriteTo serializes s as {widths, fn}.
func (s *Signature) WriteTo(w io.Writer) (int64, error) {
	widths := []uint64{uint64(s.widths.W), uint64(s.widths.LogW), uint64(s.widths.LogLogW)}
	for _, v := range widths {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return 0, err
		}
	}
	n, err := s.fn.WriteTo(w)
	return 24 + n, err
}

func readSignature(r io.Reader) (*Signature, error) {
	var w, logW, logLogW uint64
	for _, v := range []*uint64{&w, &logW, &logLogW} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	fn, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return &Signature{fn: fn, widths: Widths{W: uint(w), LogW: uint(logW), LogLogW: uint(logLogW)}}, nil
}

// WriteTo serializes rk as {posFn, leaves, size}.
func (rk *Ranker) WriteTo(w io.Writer) (int64, error) {
	n, err := rk.posFn.WriteTo(w)
	if err != nil {
		return n, err
	}
	n2, err := rk.leaves.WriteTo(w)
	n += n2
	if err != nil {
		return n, err
	}
	if err := binary.Write(w, binary.BigEndian, int64(rk.size)); err != nil {
		return n, err
	}
	return n + 8, nil
}

func readRanker(r io.Reader) (*Ranker, error) {
	posFn, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	leaves, err := rank9.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	var size int64
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, err
	}
	return &Ranker{posFn: posFn, leaves: leaves, size: int(size)}, nil
}

// WriteTo serializes m as {bloom bytes, corr}: the Bloom filter uses
// its own MarshalBinary (holiman/bloomfilter/v2 implements
// encoding.BinaryMarshaler) rather than a hand-rolled format.
func (m *MistakeTable) WriteTo(w io.Writer) (int64, error) {
	bloomBytes, err := m.bloom.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if err := binary.Write(w, binary.BigEndian, int64(len(bloomBytes))); err != nil {
		return 0, err
	}
	nb, err := w.Write(bloomBytes)
	total := int64(8 + nb)
	if err != nil {
		return total, err
	}
	n, err := m.corr.WriteTo(w)
	return total + n, err
}

func readMistakeTable(r io.Reader) (*MistakeTable, error) {
	var n int64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
	}
	bf := &bloomfilter.Filter{}
	if err := bf.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	corr, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return &MistakeTable{bloom: bf, corr: corr}, nil
}

// WriteTo persists d's strategy metadata and every component table,
// mirroring hollow.Distributor.WriteTo's field order (SPEC §6).
func (d *Distributor[E]) WriteTo(w io.Writer) (int64, error) {
	var total int64
	hdr := []uint64{uint64(d.bucket), uint64(d.n)}
	for _, v := range hdr {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return total, err
		}
		total += 8
	}
	parts := []io.WriterTo{d.sig, d.ranker, d.mistake, d.exitDir}
	for _, p := range parts {
		n, err := p.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
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
	sig, err := readSignature(r)
	if err != nil {
		return nil, err
	}
	ranker, err := readRanker(r)
	if err != nil {
		return nil, err
	}
	mistake, err := readMistakeTable(r)
	if err != nil {
		return nil, err
	}
	exitDir, err := mwhc.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return &Distributor[E]{
		strategy: strategy,
		bucket:   uint(bucket),
		n:        int(count),
		sig:      sig,
		ranker:   ranker,
		mistake:  mistake,
		exitDir:  exitDir,
	}, nil
}
