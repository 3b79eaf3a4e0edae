package mmphconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mmph.toml")
	body := "[Build]\nVariant = \"relative\"\nBucketSize = 8\nKeysFile = \"keys.txt\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg := Defaults
	require.NoError(t, Load(path, &cfg))
	require.Equal(t, VariantRelative, cfg.Build.Variant)
	require.EqualValues(t, 8, cfg.Build.BucketSize)
	require.Equal(t, "keys.txt", cfg.Build.KeysFile)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mmph.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Build]\nTypoField = 1\n"), 0644))

	cfg := Defaults
	require.Error(t, Load(path, &cfg))
}

func TestDumpRoundTrips(t *testing.T) {
	out, err := Dump(&Defaults)
	require.NoError(t, err)
	require.Contains(t, string(out), "hollow")

	dir := t.TempDir()
	path := filepath.Join(dir, "mmph.toml")
	require.NoError(t, os.WriteFile(path, out, 0644))

	var cfg Config
	require.NoError(t, Load(path, &cfg))
	require.Equal(t, Defaults.Build.Variant, cfg.Build.Variant)
}
