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

// Package relative implements the RelativeTrieDistributor variant
// (§4.6-§4.7): an approximate signature table over the compacted trie's
// internal nodes stands in for the trie itself, a monotone MMPH ranker
// recovers the bucket from a derived "ranker key", and a mistake table
// corrects the cases where the signature-driven search picks the wrong
// node-string length.
package relative

// Direction is the exit direction a key takes, B' in the specification.
type Direction uint8

const (
	Left Direction = iota
	Right
)
