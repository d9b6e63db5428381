package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserConfig_SeedsAndLoads(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.True(t, cfg.Sources.Google.Enabled)

	// Second call leaves an existing config alone.
	require.NoError(t, os.WriteFile(path, []byte("app:\n  data_dir: /custom\n"), 0o644))
	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	cfg, err = Load(again)
	require.NoError(t, err)
	assert.Equal(t, "/custom", cfg.App.DataDir)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Storage.Backend = BackendSQLite
		c.Storage.SQLitePath = "jobfeed.db"
		c.Sources.Ashby.Enabled = true
		c.Sources.Ashby.CompaniesDir = "companies"
		return c
	}

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		c := base()
		c.Storage.Backend = "postgres"
		assert.Error(t, c.Validate())
	})

	t.Run("csv backend needs path", func(t *testing.T) {
		c := base()
		c.Storage.Backend = BackendCSV
		c.Storage.CSVPath = ""
		assert.Error(t, c.Validate())
	})

	t.Run("no sources", func(t *testing.T) {
		c := base()
		c.Sources.Ashby.Enabled = false
		assert.Error(t, c.Validate())
	})

	t.Run("enabled source missing path", func(t *testing.T) {
		c := base()
		c.Sources.Google.Enabled = true
		assert.Error(t, c.Validate())
	})

	t.Run("board missing files", func(t *testing.T) {
		c := base()
		c.Sources.Boards.Greenhouse.Enabled = true
		assert.Error(t, c.Validate())
	})
}
