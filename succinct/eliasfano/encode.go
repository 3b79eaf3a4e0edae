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

package eliasfano

import (
	"encoding/binary"
	"io"

	"github.com/probeum/mmph/succinct/rank9"
)

// WriteTo serializes l as {n, universe, lowBits, low bytes, high
// BitVector}, matching the persisted-layout field order (SPEC §6): σ
// is stored as Elias-Fano, and this is its on-disk form.
func (l *List) WriteTo(w io.Writer) (int64, error) {
	var n, universe int64
	var lowBits uint64
	var low []byte
	var high *rank9.BitVector
	if l != nil {
		n = int64(l.n)
		universe = int64(l.universe)
		lowBits = uint64(l.lowBits)
		low = l.low
		high = l.high
	}

	hdr := []interface{}{int64(n), int64(universe), lowBits, int64(len(low))}
	var written int64
	for _, v := range hdr {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return written, err
		}
		written += 8
	}
	nw, err := w.Write(low)
	written += int64(nw)
	if err != nil {
		return written, err
	}
	hw, err := high.WriteTo(w)
	written += hw
	return written, err
}

// ReadFrom rebuilds a List from the format WriteTo writes.
func ReadFrom(r io.Reader) (*List, error) {
	var n, universe, lowBytesLen int64
	var lowBits uint64
	for _, v := range []*int64{&n, &universe} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	if err := binary.Read(r, binary.BigEndian, &lowBits); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &lowBytesLen); err != nil {
		return nil, err
	}
	low := make([]byte, lowBytesLen)
	if lowBytesLen > 0 {
		if _, err := io.ReadFull(r, low); err != nil {
			return nil, err
		}
	}
	high, err := rank9.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return &List{n: int(n), universe: uint64(universe), lowBits: uint(lowBits), low: low, high: high}, nil
}
