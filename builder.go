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

// Package mmph ties together the two distributor variants (hollow,
// relative) behind one construction entry point and one query
// interface (§6).
package mmph

import (
	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hollow"
	"github.com/probeum/mmph/relative"
)

// Distributor is the query surface common to both variants: a
// monotone minimal perfect hash from a validated key set to dense
// bucket indices.
type Distributor interface {
	GetLong(key bits.Vector) int64
	Size() int32
	NumBits() int64
	ContainsKey(key bits.Vector) bool
}

// Option configures a Builder.
type Option func(*options)

type options struct {
	tempDir string
}

// WithTempDir sets the directory construction-time spill files are
// written to (os.TempDir() if never set).
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// Builder constructs distributors from a stream of validated keys.
type Builder struct {
	opts options
}

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(&b.opts)
	}
	return b
}

// BuildHollow drains keys and constructs a HollowTrieDistributor
// (§4.3-§4.5) with the given bucket size.
func (b *Builder) BuildHollow(keys bits.Iterator, bucketSize int) (*hollow.Distributor[bits.Vector], error) {
	vecs, err := drain(keys)
	if err != nil {
		return nil, err
	}
	return hollow.Build(vecs, identityStrategy{}, bucketSizeOf(bucketSize), b.opts.tempDir)
}

// BuildRelative drains keys and constructs a RelativeTrieDistributor
// (§4.6-§4.7) with the given bucket size.
func (b *Builder) BuildRelative(keys bits.Iterator, bucketSize int) (*relative.Distributor[bits.Vector], error) {
	vecs, err := drain(keys)
	if err != nil {
		return nil, err
	}
	return relative.Build(vecs, identityStrategy{}, bucketSizeOf(bucketSize))
}

func bucketSizeOf(n int) uint {
	if n <= 0 {
		return 1
	}
	return uint(n)
}

func drain(it bits.Iterator) ([]bits.Vector, error) {
	var out []bits.Vector
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}

// identityStrategy is the Strategy[bits.Vector] every Builder method
// uses internally: callers already hand in validated bit vectors
// through a bits.Iterator, so no further transformation applies.
type identityStrategy struct{}

func (identityStrategy) ToBits(v bits.Vector) bits.Vector { return v }
