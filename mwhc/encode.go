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

package mwhc

import (
	"encoding/binary"
	"io"
)

// WriteTo serializes f as {seed, m, width, data[m]}: a Function is
// fully reconstructable from its codeword table alone, with no need
// to replay the peeling construction.
func (f *Function) WriteTo(w io.Writer) (int64, error) {
	var seed, m uint64
	var width uint64
	var data []uint64
	if f != nil {
		seed, m, width, data = f.seed, f.m, uint64(f.width), f.data
	}
	for _, v := range []uint64{seed, m, width} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return 0, err
		}
	}
	written := int64(24)
	for _, v := range data {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return written, err
		}
		written += 8
	}
	return written, nil
}

// ReadFrom rebuilds a Function from the format WriteTo writes.
func ReadFrom(r io.Reader) (*Function, error) {
	var seed, m, width uint64
	for _, v := range []*uint64{&seed, &m, &width} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	data := make([]uint64, m)
	for i := range data {
		if err := binary.Read(r, binary.BigEndian, &data[i]); err != nil {
			return nil, err
		}
	}
	return &Function{seed: seed, m: m, width: uint(width), data: data}, nil
}
