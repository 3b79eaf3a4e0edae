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

package behaviour

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/mmpherr"
)

// Record is one (node index, path) key destined for an MWHC function,
// per the temporary file format of the specification's §6: a
// big-endian 64-bit node index, a gamma-coded path bit length, and the
// path's packed bits.
//
// Records are byte-aligned at the start of the 64-bit index; the
// gamma-coded length and the path bits that follow it are a
// continuous bit stream up to (but not including) the next record's
// alignment point. This is a deliberate simplification of the
// specification's literal "⌈ℓ/64⌉ words" phrasing — word alignment
// only matters for an external reader, and this module is both writer
// and reader of its own temp files.
type Record struct {
	NodeIndex uint64
	Path      bits.Vector
}

// Stream spills Records to a temporary file and can be rewound for a
// single sequential re-read, bounding in-memory state during
// construction for large key sets (§3, §5).
type Stream struct {
	path string
	f    *os.File
	bw   *bitWriter
	n    int
}

// NewStream creates a new temp file under dir (os.TempDir() if dir is
// empty) named with a random UUID, matching the collision-free
// temp-file naming the reference corpus's construction helpers favor.
func NewStream(dir string) (*Stream, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	name := "mmph-" + uuid.New().String() + ".stream"
	f, err := os.CreateTemp(dir, name)
	if err != nil {
		return nil, mmpherr.NewTempFileIO(name, err)
	}
	return &Stream{path: f.Name(), f: f, bw: newBitWriter(f)}, nil
}

// Append writes one record to the stream.
func (s *Stream) Append(nodeIndex uint64, path bits.Vector) error {
	if err := s.bw.align(); err != nil {
		return mmpherr.NewTempFileIO(s.path, err)
	}
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], nodeIndex)
	if _, err := s.f.Write(hdr[:]); err != nil {
		return mmpherr.NewTempFileIO(s.path, err)
	}
	encodeGamma(s.bw, path.Len())
	for i := uint64(0); i < path.Len(); i++ {
		if err := s.bw.writeBit(path.Get(i)); err != nil {
			return mmpherr.NewTempFileIO(s.path, err)
		}
	}
	s.n++
	return nil
}

// Len returns the number of records appended so far.
func (s *Stream) Len() int { return s.n }

// Reader rewinds the stream and returns a sequential Reader over it.
// The Stream must not be appended to again afterwards.
func (s *Stream) Reader() (*Reader, error) {
	if err := s.bw.align(); err != nil {
		return nil, mmpherr.NewTempFileIO(s.path, err)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, mmpherr.NewTempFileIO(s.path, err)
	}
	return &Reader{path: s.path, f: s.f, br: newBitReader(s.f), n: s.n}, nil
}

// Close releases the backing temp file, whether or not construction
// succeeded (§5: release is guaranteed on both the success and error
// paths).
func (s *Stream) Close() error {
	err := s.f.Close()
	_ = os.Remove(s.path)
	return mmpherr.NewTempFileIO(s.path, err)
}

// Reader sequentially re-reads a Stream's records.
type Reader struct {
	path string
	f    *os.File
	br   *bitReader
	n    int
	i    int
}

// Next reports whether another record is available and, if so,
// decodes it.
func (r *Reader) Next() (Record, bool, error) {
	if r.i >= r.n {
		return Record{}, false, nil
	}
	r.br.align()
	var hdr [8]byte
	if _, err := io.ReadFull(r.f, hdr[:]); err != nil {
		return Record{}, false, mmpherr.NewTempFileIO(r.path, err)
	}
	nodeIndex := binary.BigEndian.Uint64(hdr[:])
	length, err := decodeGamma(r.br)
	if err != nil {
		return Record{}, false, mmpherr.NewTempFileIO(r.path, err)
	}
	buf := make([]byte, (length+7)/8)
	for bi := uint64(0); bi < length; bi++ {
		b, err := r.br.readBit()
		if err != nil {
			return Record{}, false, mmpherr.NewTempFileIO(r.path, err)
		}
		if b {
			buf[bi/8] |= 0x80 >> (bi % 8)
		}
	}
	r.i++
	return Record{NodeIndex: nodeIndex, Path: bits.FromBytes(buf, length)}, true, nil
}
