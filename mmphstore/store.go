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

// Package mmphstore persists a constructed distributor's WriteTo
// output (hollow.Distributor, or the component parts of a
// relative.Distributor) to either a flat file, loaded back through an
// mmap rather than a buffered file read, or a leveldb keyspace,
// for callers who keep many distributors side by side under one
// directory (§6, AMBIENT STACK).
package mmphstore

import (
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/syndtr/goleveldb/leveldb"
)

// SaveToFile writes w's serialized form to a new file at path,
// truncating any existing content.
func SaveToFile(path string, w io.WriterTo) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = w.WriteTo(f)
	return err
}

// MappedFile is a read-only, memory-mapped view of a file saved with
// SaveToFile, mirroring sux4j's mapped-load support for its own
// succinct structures: bytes are served from the mapping rather than
// through read system calls, and Read copies them into the caller's
// buffer.
type MappedFile struct {
	f   *os.File
	m   mmap.MMap
	pos int
}

// OpenMapped memory-maps path for reading. Callers must call Close
// when done to release the mapping and the underlying file handle.
func OpenMapped(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedFile{f: f, m: m}, nil
}

// Read implements io.Reader over the mapped bytes, so a MappedFile can
// be handed directly to hollow.Load / ReadEncoded / mwhc.ReadFrom.
func (mf *MappedFile) Read(p []byte) (int, error) {
	if mf.pos >= len(mf.m) {
		return 0, io.EOF
	}
	n := copy(p, mf.m[mf.pos:])
	mf.pos += n
	return n, nil
}

// Close unmaps the file and releases the file handle.
func (mf *MappedFile) Close() error {
	if err := mf.m.Unmap(); err != nil {
		mf.f.Close()
		return err
	}
	return mf.f.Close()
}

// DB is a leveldb-backed keyspace for side-by-side distributors, keyed
// by caller-chosen names (e.g. one bucket-size variant per key).
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if absent) a leveldb database at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &DB{ldb: ldb}, nil
}

// Close closes the underlying leveldb handle.
func (db *DB) Close() error { return db.ldb.Close() }

// Put serializes w and stores it under key.
func (db *DB) Put(key string, w io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return err
	}
	return db.ldb.Put([]byte(key), buf.Bytes(), nil)
}

// Get returns a reader over the bytes stored under key.
func (db *DB) Get(key string) (io.Reader, error) {
	v, err := db.ldb.Get([]byte(key), nil)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(v), nil
}

// Has reports whether key has a stored value.
func (db *DB) Has(key string) (bool, error) {
	return db.ldb.Has([]byte(key), nil)
}

// Delete removes key's stored value, if any.
func (db *DB) Delete(key string) error {
	return db.ldb.Delete([]byte(key), nil)
}
