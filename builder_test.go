package mmph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/mmph"
	"github.com/probeum/mmph/bits"
)

func vecs(strs ...string) []bits.Vector {
	out := make([]bits.Vector, len(strs))
	for i, s := range strs {
		out[i] = bits.FromBoolString(s)
	}
	return out
}

func TestBuilderBuildHollowAndRelativeAgree(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000")
	b := mmph.NewBuilder()

	h, err := b.BuildHollow(bits.NewSliceIterator(keys), 2)
	require.NoError(t, err)
	r, err := b.BuildRelative(bits.NewSliceIterator(keys), 2)
	require.NoError(t, err)

	var hd, rd mmph.Distributor = h, r
	for _, k := range keys {
		require.Equal(t, hd.GetLong(k), rd.GetLong(k))
	}
}

func TestBuilderBuildHollowPropagatesInvalidInput(t *testing.T) {
	keys := vecs("01", "01")
	b := mmph.NewBuilder()
	_, err := b.BuildHollow(bits.NewSliceIterator(keys), 2)
	require.Error(t, err)
}

func TestBuilderWithTempDir(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000")
	b := mmph.NewBuilder(mmph.WithTempDir(t.TempDir()))
	_, err := b.BuildHollow(bits.NewSliceIterator(keys), 2)
	require.NoError(t, err)
}
