package relative_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/relative"
)

func TestDistributorWriteToLoadRoundTrip(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000", "1001", "1010")
	d, err := relative.Build(keys, identity{}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)

	reloaded, err := relative.Load[bits.Vector](&buf, identity{})
	require.NoError(t, err)

	for i, k := range keys {
		require.Equal(t, d.GetLong(k), reloaded.GetLong(k), "key %d", i)
	}
	require.Equal(t, d.Size(), reloaded.Size())
}
