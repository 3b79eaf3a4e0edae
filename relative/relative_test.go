package relative_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/mmpherr"
	"github.com/probeum/mmph/relative"
)

// identity is a transform.Strategy[bits.Vector] that passes vectors
// through unchanged, so tests can work directly with hand-written bit
// strings instead of a real element type.
type identity struct{}

func (identity) ToBits(v bits.Vector) bits.Vector { return v }

func vecs(strs ...string) []bits.Vector {
	out := make([]bits.Vector, len(strs))
	for i, s := range strs {
		out[i] = bits.FromBoolString(s)
	}
	return out
}

func TestScenarioA(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000")
	d, err := relative.Build(keys, identity{}, 2)
	require.NoError(t, err)

	want := []int64{0, 0, 1, 1}
	for i, k := range keys {
		require.Equal(t, want[i], d.GetLong(k), "key %d", i)
	}
}

func TestScenarioB(t *testing.T) {
	var keys []bits.Vector
	for i := 0; i < 64; i++ {
		var s string
		for b := 5; b >= 0; b-- {
			if i&(1<<uint(b)) != 0 {
				s += "1"
			} else {
				s += "0"
			}
		}
		s += "1" // sentinel for prefix-freedom
		keys = append(keys, bits.FromBoolString(s))
	}

	d, err := relative.Build(keys, identity{}, 8)
	require.NoError(t, err)

	for i, k := range keys {
		require.Equal(t, int64(i/8), d.GetLong(k), "key %d", i)
	}
}

func TestScenarioC_Random(t *testing.T) {
	keys := pseudoRandomPrefixFreeKeys(t, 500, 20, 80, 1)
	d, err := relative.Build(keys, identity{}, 16)
	require.NoError(t, err)

	for i, k := range keys {
		require.Equal(t, int64(i/16), d.GetLong(k), "key %d", i)
	}
}

func TestScenarioD_Duplicate(t *testing.T) {
	keys := vecs("01", "01")
	_, err := relative.Build(keys, identity{}, 2)
	require.Error(t, err)
	var invalid *mmpherr.InvalidInput
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, mmpherr.Duplicate, invalid.Kind)
}

func TestScenarioE_NotPrefixFree(t *testing.T) {
	keys := vecs("01", "010")
	_, err := relative.Build(keys, identity{}, 2)
	require.Error(t, err)
	var invalid *mmpherr.InvalidInput
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, mmpherr.NotPrefixFree, invalid.Kind)
}

func TestScenarioF_Empty(t *testing.T) {
	d, err := relative.Build([]bits.Vector(nil), identity{}, 4)
	require.NoError(t, err)
	require.EqualValues(t, 0, d.Size())
	require.EqualValues(t, 0, d.GetLong(bits.FromBoolString("1010")))
}

func TestMonotonicity(t *testing.T) {
	keys := pseudoRandomPrefixFreeKeys(t, 300, 10, 64, 7)
	d, err := relative.Build(keys, identity{}, 4)
	require.NoError(t, err)

	prev := int64(-1)
	for _, k := range keys {
		got := d.GetLong(k)
		require.GreaterOrEqual(t, got, prev)
		require.LessOrEqual(t, got-prev, int64(1))
		prev = got
	}
}

// pseudoRandomPrefixFreeKeys deterministically generates n sorted,
// prefix-free bit vectors, each a 20-bit index, a segment whose length
// varies in [minLen,maxLen], and a 1-bit sentinel, without depending on math/rand's global seed (so the suite is
// reproducible across runs).
func pseudoRandomPrefixFreeKeys(t *testing.T, n, minLen, maxLen int, salt uint64) []bits.Vector {
	t.Helper()
	state := uint64(0x2545F4914F6CDD1D) ^ salt
	next := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}

	out := make([]bits.Vector, 0, n)
	for i := 0; i < n; i++ {
		length := minLen + int(next()%uint64(maxLen-minLen+1))
		s := fmt.Sprintf("%0*b", length, i+1)
		if len(s) > length {
			s = s[len(s)-length:]
		}
		idxBits := fmt.Sprintf("%020b", i)
		full := idxBits + s + "1"
		out = append(out, bits.FromBoolString(full))
	}
	return out
}
