package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoundCmd() (*cobra.Command, *viper.Viper) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	BindFlags(cmd, v)
	return cmd, v
}

func TestLoadAppliesDefaults(t *testing.T) {
	_, v := newBoundCmd()
	v.Set("rg-mapping", "/tmp/mapping.json")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.NumbersOfSubgraphs)
	assert.Equal(t, 1000, cfg.LogsPerEpoch)
	assert.Equal(t, "gart_meta_", cfg.MetaPrefix)
	assert.Equal(t, "/tmp/mapping.json", cfg.RGMappingPath)
}

func TestLoadRequiresRGMapping(t *testing.T) {
	_, v := newBoundCmd()
	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTunables(t *testing.T) {
	_, v := newBoundCmd()
	v.Set("rg-mapping", "/tmp/mapping.json")
	v.Set("numbers-of-subgraphs", 0)
	_, err := Load(v)
	assert.Error(t, err)
}

func TestBindEnvReadsEnvironmentVariable(t *testing.T) {
	t.Setenv("GART_META_PREFIX", "custom_")
	_, v := newBoundCmd()
	v.Set("rg-mapping", "/tmp/mapping.json")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "custom_", cfg.MetaPrefix)
}

func TestLoadTopology(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topology.yaml")
	doc := "partitions:\n  - partition: 0\n    addr: http://127.0.0.1:9001\n  - partition: 1\n    addr: http://127.0.0.1:9002\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	topo, err := LoadTopology(path)
	require.NoError(t, err)
	require.Len(t, topo.Partitions, 2)

	addr, ok := topo.Endpoint(1)
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:9002", addr)

	_, ok = topo.Endpoint(99)
	assert.False(t, ok)
}
