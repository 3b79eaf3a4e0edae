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

// Package mwhc implements a static minimal-perfect-hash-style function
// (MWHC, after Majewski-Wormald-Havas-Czech) over a fixed key set: a
// 3-hypergraph peeling construction that stores one fixed-width value
// per key in ≈ gamma * n * width bits and answers queries in O(1)
// probes. Behaviour on keys outside the build set is undefined, as
// required by the specification's "open domain" contract (§4.4, §9).
//
// The construction mirrors the peeling algorithm used by the
// reference corpus's boomphf-derived minimal perfect hash packages
// (OgurtsovAndrei-Thesis/mmph/go-boomphf), adapted here to store an
// arbitrary fixed-width *value* per key (a genuine MWHC function)
// rather than just a bijective index.
package mwhc

import (
	"fmt"

	"github.com/probeum/mmph/hashutil"
)

// Gamma is the default hypergraph oversizing factor. 1.23 is the
// standard constant for 3-hypergraph MWHC peeling.
const Gamma = 1.23

const maxBuildAttempts = 64

// Function is a static minimal-perfect-hash-style function from a
// fixed key set to fixed-width values.
type Function struct {
	seed  uint64
	m     uint64   // hypergraph vertex count (3 | m, see build)
	width uint     // value width in bits (<=64)
	data  []uint64 // one width-bit codeword per vertex, XOR-combined at query time
}

// Build constructs a Function mapping keys[i] to values[i] for every i.
// values[i] must fit in width bits. Duplicate keys are a caller error
// (undefined behaviour, matching the "static key set" contract).
func Build(keys [][]byte, values []uint64, width uint) (*Function, error) {
	return BuildSeeded(keys, values, width, 0)
}

// BuildSeeded behaves like Build, but starts its internal peeling
// retries from seedBase instead of 0. A caller that needs to rebuild
// the same key set under a perturbed seed (e.g. after a downstream
// consistency check fails) passes a different seedBase to explore a
// disjoint sequence of hypergraphs.
func BuildSeeded(keys [][]byte, values []uint64, width uint, seedBase uint64) (*Function, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("mwhc: keys/values length mismatch: %d vs %d", len(keys), len(values))
	}
	if width == 0 || width > 64 {
		return nil, fmt.Errorf("mwhc: width must be in [1,64], got %d", width)
	}
	if len(keys) == 0 {
		return &Function{width: width}, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxBuildAttempts; attempt++ {
		seed := (seedBase+uint64(attempt))*0x9E3779B97F4A7C15 + 1
		fn, err := tryBuild(keys, values, width, seed)
		if err == nil {
			return fn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("mwhc: failed to peel hypergraph after %d attempts: %w", maxBuildAttempts, lastErr)
}

type edge struct {
	v       [3]uint64
	keyIdx  int
}

func tryBuild(keys [][]byte, values []uint64, width uint, seed uint64) (*Function, error) {
	n := len(keys)
	m := uint64(float64(n)*Gamma) + 3
	m -= m % 3 // keep vertex space evenly split across the three hash slots

	edges := make([]edge, n)
	// vertex -> incident edge indices (as a simple adjacency list; n is
	// bounded by bucket-scale inputs in practice, so this is fine).
	adj := make([][]int, m)
	for i, k := range keys {
		h := hashutil.Hash64(seed, k)
		v0 := h % (m / 3)
		v1 := m/3 + hashutil.Hash64Seeded(seed+1, h)%(m/3)
		v2 := 2*m/3 + hashutil.Hash64Seeded(seed+2, h)%(m/3)
		edges[i] = edge{v: [3]uint64{v0, v1, v2}, keyIdx: i}
		adj[v0] = append(adj[v0], i)
		adj[v1] = append(adj[v1], i)
		adj[v2] = append(adj[v2], i)
	}

	degree := make([]int, m)
	for v := range adj {
		degree[v] = len(adj[v])
	}

	peeled := make([]bool, n)
	removedVertex := make([]uint64, n) // the degree-1 vertex that justified peeling edge i
	order := make([]int, 0, n)

	queue := make([]uint64, 0, m)
	for v := uint64(0); v < m; v++ {
		if degree[v] == 1 {
			queue = append(queue, v)
		}
	}

	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if degree[v] != 1 {
			continue // stale queue entry from an already-peeled vertex
		}
		// find the single remaining edge at v
		var edgeIdx = -1
		for _, ei := range adj[v] {
			if !peeled[ei] {
				edgeIdx = ei
				break
			}
		}
		if edgeIdx == -1 {
			continue
		}
		peeled[edgeIdx] = true
		removedVertex[edgeIdx] = v
		order = append(order, edgeIdx)

		for _, u := range edges[edgeIdx].v {
			if u == v {
				continue
			}
			degree[u]--
			if degree[u] == 1 {
				queue = append(queue, u)
			}
		}
		degree[v] = 0
	}

	if len(order) != n {
		return nil, fmt.Errorf("hypergraph not peelable (peeled %d/%d)", len(order), n)
	}

	data := make([]uint64, m)
	assigned := make([]bool, m)
	mask := uint64(1)<<width - 1
	if width == 64 {
		mask = ^uint64(0)
	}

	// Assign codewords in reverse peel order: the vertex that justified
	// peeling edge i is the one not yet constrained by any other edge.
	for i := len(order) - 1; i >= 0; i-- {
		ei := order[i]
		e := edges[ei]
		v := removedVertex[ei]
		var acc uint64
		for _, u := range e.v {
			if u != v {
				acc ^= data[u]
			}
		}
		data[v] = (values[e.keyIdx] ^ acc) & mask
		assigned[v] = true
	}
	// Unconstrained vertices (never the justifying vertex of any edge)
	// keep their zero value; any value is consistent since no key probes them.

	return &Function{seed: seed, m: m, width: width, data: data}, nil
}

// Query returns the value stored for key. The result is defined only
// if key was present in the build set; querying a foreign key returns
// an arbitrary width-bit value.
func (f *Function) Query(key []byte) uint64 {
	if f == nil || f.m == 0 {
		return 0
	}
	h := hashutil.Hash64(f.seed, key)
	v0 := h % (f.m / 3)
	v1 := f.m/3 + hashutil.Hash64Seeded(f.seed+1, h)%(f.m/3)
	v2 := 2*f.m/3 + hashutil.Hash64Seeded(f.seed+2, h)%(f.m/3)
	return f.data[v0] ^ f.data[v1] ^ f.data[v2]
}

// Width returns the configured value width in bits.
func (f *Function) Width() uint {
	if f == nil {
		return 0
	}
	return f.width
}

// NumBits returns the approximate space used by the function, per the
// ≈gamma*M*width model from the specification (§4.4). The backing
// store here keeps one uint64 per vertex for implementation simplicity;
// NumBits reports the theoretical packed size, not len(data)*64, since
// that theoretical bound is the contract callers (Distributor.NumBits)
// rely on.
func (f *Function) NumBits() int64 {
	if f == nil {
		return 0
	}
	return int64(f.m) * int64(f.width)
}

// ByteSize returns the function's actual in-memory footprint in bytes
// (the unpacked, one-uint64-per-vertex representation).
func (f *Function) ByteSize() int {
	if f == nil {
		return 0
	}
	return len(f.data)*8 + 16
}
