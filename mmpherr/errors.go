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

// Package mmpherr collects the structured construction errors and the
// debug-only assertion helpers used across the distributor packages.
package mmpherr

import "fmt"

// InvalidInputKind discriminates the reasons a construction input can
// be rejected.
type InvalidInputKind int

const (
	// Duplicate marks two equal adjacent keys.
	Duplicate InvalidInputKind = iota
	// NotSorted marks a key strictly less than its predecessor.
	NotSorted
	// NotPrefixFree marks a key that is a prefix of, or has as a
	// prefix, its predecessor.
	NotPrefixFree
)

func (k InvalidInputKind) String() string {
	switch k {
	case Duplicate:
		return "duplicate"
	case NotSorted:
		return "not sorted"
	case NotPrefixFree:
		return "not prefix-free"
	default:
		return "unknown"
	}
}

// InvalidInput is returned when the construction input violates the
// strictly-increasing, prefix-free contract. Index is the position of
// the offending key in the input stream.
type InvalidInput struct {
	Kind  InvalidInputKind
	Index int
}

// NewInvalidInput constructs an *InvalidInput.
func NewInvalidInput(kind InvalidInputKind, index int) *InvalidInput {
	return &InvalidInput{Kind: kind, Index: index}
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("mmph: invalid input at index %d: %s", e.Index, e.Kind)
}

// TempFileIO wraps an I/O failure encountered spilling or re-reading a
// temporary key-stream file during construction.
type TempFileIO struct {
	Path string
	Err  error
}

func (e *TempFileIO) Error() string {
	return fmt.Sprintf("mmph: temp file I/O failure on %q: %v", e.Path, e.Err)
}

func (e *TempFileIO) Unwrap() error { return e.Err }

// NewTempFileIO wraps err with the path that produced it. Returns nil
// if err is nil, so call sites can write `return NewTempFileIO(p, err)`
// unconditionally in a defer.
func NewTempFileIO(path string, err error) error {
	if err == nil {
		return nil
	}
	return &TempFileIO{Path: path, Err: err}
}

// InternalInvariant indicates an assertion about trie shape or
// behaviour-function round-trip failed — a bug in this package, not in
// caller input.
type InternalInvariant struct {
	Msg string
}

func (e *InternalInvariant) Error() string {
	return "mmph: internal invariant violated: " + e.Msg
}

// Bug raises an InternalInvariant, unconditionally. Mirrors the
// errutil.Bug helper the reference implementation uses for
// assert-style construction-time checks.
func Bug(format string, args ...interface{}) {
	panic(&InternalInvariant{Msg: fmt.Sprintf(format, args...)})
}

// BugOn raises an InternalInvariant if cond is true.
func BugOn(cond bool, format string, args ...interface{}) {
	if cond {
		Bug(format, args...)
	}
}
