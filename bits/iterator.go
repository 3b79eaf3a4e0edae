package bits

import "github.com/probeum/mmph/mmpherr"

// Iterator streams Vectors one at a time. Implementations are expected
// to be single-pass and are consumed by the two construction passes
// (trie build, behaviour labelling).
type Iterator interface {
	// Next advances the iterator. It returns false at end of stream or
	// on error; callers must then check Err.
	Next() bool
	// Value returns the current vector. Valid only after Next returned true.
	Value() Vector
	// Err returns the first error encountered, if any.
	Err() error
}

// SliceIterator iterates over an in-memory slice of vectors.
type SliceIterator struct {
	data []Vector
	pos  int
}

// NewSliceIterator returns an Iterator over data.
func NewSliceIterator(data []Vector) *SliceIterator {
	return &SliceIterator{data: data, pos: -1}
}

func (s *SliceIterator) Next() bool {
	s.pos++
	return s.pos < len(s.data)
}

func (s *SliceIterator) Value() Vector { return s.data[s.pos] }
func (s *SliceIterator) Err() error    { return nil }

// CheckedSortedIterator wraps an Iterator and validates, on the fly,
// that the stream is strictly increasing and prefix-free. It fails
// fast with a *mmpherr.InvalidInput carrying the offending index.
type CheckedSortedIterator struct {
	inner Iterator
	prev  Vector
	have  bool
	idx   int
	err   error
}

// NewCheckedSortedIterator wraps inner with order/prefix-freedom checks.
func NewCheckedSortedIterator(inner Iterator) *CheckedSortedIterator {
	return &CheckedSortedIterator{inner: inner}
}

func (c *CheckedSortedIterator) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.inner.Next() {
		if err := c.inner.Err(); err != nil {
			c.err = err
		}
		return false
	}
	cur := c.inner.Value()
	if c.have {
		cmp := c.prev.Compare(cur)
		if cmp == 0 {
			c.err = mmpherr.NewInvalidInput(mmpherr.Duplicate, c.idx)
			return false
		}
		if cmp > 0 {
			c.err = mmpherr.NewInvalidInput(mmpherr.NotSorted, c.idx)
			return false
		}
		if c.prev.IsPrefixOf(cur) || cur.IsPrefixOf(c.prev) {
			c.err = mmpherr.NewInvalidInput(mmpherr.NotPrefixFree, c.idx)
			return false
		}
	}
	c.prev = cur
	c.have = true
	c.idx++
	return true
}

func (c *CheckedSortedIterator) Value() Vector { return c.prev }
func (c *CheckedSortedIterator) Err() error     { return c.err }
