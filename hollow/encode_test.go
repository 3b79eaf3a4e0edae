package hollow_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hollow"
)

func TestDistributorWriteToLoadRoundTrip(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000", "1001", "1010")
	d, err := hollow.Build(keys, identity{}, 2, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := hollow.Load[bits.Vector](&buf, identity{})
	require.NoError(t, err)

	for i, k := range keys {
		require.Equal(t, d.GetLong(k), reloaded.GetLong(k), "key %d", i)
	}
	require.Equal(t, d.Size(), reloaded.Size())
	require.Equal(t, d.NumBits(), reloaded.NumBits())
}

func TestDistributorWriteToEmpty(t *testing.T) {
	d, err := hollow.Build([]bits.Vector(nil), identity{}, 4, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := hollow.Load[bits.Vector](&buf, identity{})
	require.NoError(t, err)
	require.EqualValues(t, 0, reloaded.GetLong(bits.FromBoolString("1010")))
}
