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

package rank9

import (
	"encoding/binary"
	"io"
)

// WriteTo serializes bv as its bit count followed by its bits packed
// MSB-first, sidestepping any dependency on rsdic's own on-disk
// format: rsdic.RSDic exposes no documented marshal contract in the
// version this module vendors, so the portable representation is the
// one BitVector itself already guarantees via Get.
func (bv *BitVector) WriteTo(w io.Writer) (int64, error) {
	var n uint64
	if bv != nil {
		n = bv.n
	}
	if err := binary.Write(w, binary.BigEndian, n); err != nil {
		return 0, err
	}
	packed := make([]byte, (n+7)/8)
	for i := uint64(0); i < n; i++ {
		if bv.Get(i) {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}
	written, err := w.Write(packed)
	return int64(8 + written), err
}

// ReadFrom rebuilds a BitVector from the format WriteTo writes.
func ReadFrom(r io.Reader) (*BitVector, error) {
	var n uint64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	packed := make([]byte, (n+7)/8)
	if n > 0 {
		if _, err := io.ReadFull(r, packed); err != nil {
			return nil, err
		}
	}
	b := NewBuilder()
	for i := uint64(0); i < n; i++ {
		bit := packed[i/8]&(0x80>>(i%8)) != 0
		b.Append(bit)
	}
	return b.Build(), nil
}
