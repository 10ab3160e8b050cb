package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "vgsales.csv", c.DataPath)
	assert.Equal(t, "frequency", c.DistributionPolicy)
	assert.Equal(t, 10, c.TopN)
	assert.Equal(t, "127.0.0.1:8501", c.ListenAddr)
	assert.False(t, c.CacheDataset)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.yaml")
	yml := "data_path: /data/sales.csv\ndistribution_policy: top10\ntop_n: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("VGDASH_TOP_N", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/sales.csv", c.DataPath)
	assert.Equal(t, "top10", c.DistributionPolicy)
	assert.Equal(t, 7, c.TopN, "env overrides file")
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("distribution_policy: histogram\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distribution_policy")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	c.DataPath = "/srv/vgsales.csv"
	c.CacheDataset = true
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".vgdash", "config.yaml"))
	require.NoError(t, err)

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/vgsales.csv", again.DataPath)
	assert.True(t, again.CacheDataset)
}

func TestDefaultsMatchLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
	require.NoError(t, Defaults().Validate())
}
