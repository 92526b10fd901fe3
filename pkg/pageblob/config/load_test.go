package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/appendlog/pageblob/pkg/pageblob/config"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileUnmarshalsJsonnet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.jsonnet")
	require.NoError(t, os.WriteFile(path, []byte(`{
		maxPayloadSizeProtection: 1048576,
		blobAutoResizeInPages: 4,
		cacheCapacityInPages: 16,
		maxPagesToWriteSingleRoundTrip: 256,
	}`), 0o644))

	settings, err := config.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, config.Settings{
		MaxPayloadSizeProtection:       1 << 20,
		BlobAutoResizeInPages:          4,
		CacheCapacityInPages:           16,
		MaxPagesToWriteSingleRoundTrip: 256,
	}, settings)
}

func TestLoadFromFileEvaluatesJsonnetExpressions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.jsonnet")
	require.NoError(t, os.WriteFile(path, []byte(`
		local pageSize = 512;
		{
			maxPayloadSizeProtection: pageSize * 2048,
			blobAutoResizeInPages: 1,
			cacheCapacityInPages: 10,
			maxPagesToWriteSingleRoundTrip: 1000,
		}`), 0o644))

	settings, err := config.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), settings)
}

func TestLoadFromFileFailsOnMissingFile(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.jsonnet"))
	require.Error(t, err)
}
