package mmphstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/mmph/bits"
	"github.com/probeum/mmph/hollow"
	"github.com/probeum/mmph/mmphstore"
)

type identity struct{}

func (identity) ToBits(v bits.Vector) bits.Vector { return v }

func vecs(strs ...string) []bits.Vector {
	out := make([]bits.Vector, len(strs))
	for i, s := range strs {
		out[i] = bits.FromBoolString(s)
	}
	return out
}

func TestSaveToFileAndOpenMapped(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000")
	d, err := hollow.Build(keys, identity{}, 2, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mmph.dat")
	require.NoError(t, mmphstore.SaveToFile(path, d))

	mf, err := mmphstore.OpenMapped(path)
	require.NoError(t, err)
	defer mf.Close()

	reloaded, err := hollow.Load[bits.Vector](mf, identity{})
	require.NoError(t, err)
	for i, k := range keys {
		require.Equal(t, d.GetLong(k), reloaded.GetLong(k), "key %d", i)
	}
}

func TestDBPutGet(t *testing.T) {
	keys := vecs("0001", "0010", "0100", "1000")
	d, err := hollow.Build(keys, identity{}, 2, "")
	require.NoError(t, err)

	db, err := mmphstore.Open(filepath.Join(t.TempDir(), "mmph-ldb"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put("bucket2", d))
	has, err := db.Has("bucket2")
	require.NoError(t, err)
	require.True(t, has)

	r, err := db.Get("bucket2")
	require.NoError(t, err)
	reloaded, err := hollow.Load[bits.Vector](r, identity{})
	require.NoError(t, err)
	for i, k := range keys {
		require.Equal(t, d.GetLong(k), reloaded.GetLong(k), "key %d", i)
	}
}
