package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the resolved tunables shared by cmd/translator and
// cmd/writer (spec.md §4.5, §6).
type Config struct {
	// NumbersOfSubgraphs is the partition count GID generation round-robins
	// across (spec.md §4.1).
	NumbersOfSubgraphs int
	// LogsPerEpoch is how many accepted messages advance the epoch counter
	// by one (spec.md §4.5).
	LogsPerEpoch int
	// MetaPrefix namespaces every registry key (spec.md §6).
	MetaPrefix string
	// MachineID identifies this process in blob-schema registry keys. Left
	// empty, cmd/writer generates one with google/uuid.
	MachineID string
	// Partition is this process's partition id, 0-indexed.
	Partition int
	// RGMappingPath is the filesystem path to the RGMapping JSON document
	// (internal/translator.ParseRGMapping).
	RGMappingPath string
	// RegistryAddr is the base URL of the metadata-registry HTTP endpoint.
	// Empty selects an in-memory registry, useful for the demo binaries.
	RegistryAddr string
	// TopologyPath, if set, points at a YAML file listing static partition
	// endpoints, an alternative to discovering partitions through the
	// registry at startup (useful when no real registry is running).
	TopologyPath string
	// ListenAddr is the HTTP listen address for the process's own
	// admin/metrics server.
	ListenAddr string
}

// Topology is the shape of the optional --topology YAML file: a flat list
// of partition -> endpoint pairs for environments without a live registry.
type Topology struct {
	Partitions []PartitionEndpoint `yaml:"partitions"`
}

// PartitionEndpoint names one partition's writer endpoint.
type PartitionEndpoint struct {
	Partition int    `yaml:"partition"`
	Addr      string `yaml:"addr"`
}

// BindFlags registers cmd's flags and binds each to its GART_* environment
// variable through v, following the teacher's getenv(key, default) shape
// but expressed declaratively so --help documents every tunable.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.Int("numbers-of-subgraphs", 1, "number of partitions GIDs are distributed across")
	flags.Int("logs-per-epoch", 1000, "accepted messages per epoch")
	flags.String("meta-prefix", "gart_meta_", "registry key prefix")
	flags.String("machine-id", "", "machine id advertised in blob-schema keys (generated if empty)")
	flags.Int("partition", 0, "this process's partition id")
	flags.String("rg-mapping", "", "path to the RGMapping JSON document")
	flags.String("registry-addr", "", "metadata registry base URL (in-memory if empty)")
	flags.String("topology", "", "optional YAML file of static partition endpoints")
	flags.String("listen", ":8090", "HTTP listen address")

	bindings := map[string]string{
		"numbers-of-subgraphs": "GART_NUMBERS_OF_SUBGRAPHS",
		"logs-per-epoch":       "GART_LOGS_PER_EPOCH",
		"meta-prefix":          "GART_META_PREFIX",
		"machine-id":           "GART_MACHINE_ID",
		"partition":            "GART_PARTITION",
		"rg-mapping":           "GART_RG_MAPPING",
		"registry-addr":        "GART_REGISTRY_ADDR",
		"topology":             "GART_TOPOLOGY",
		"listen":               "GART_LISTEN",
	}
	for flag, env := range bindings {
		_ = v.BindPFlag(flag, flags.Lookup(flag))
		_ = v.BindEnv(flag, env)
	}
}

// Load resolves a Config from v after flags have been parsed and bound.
// RGMappingPath is the only field whose absence is a hard error: every
// other tunable has a usable default (spec.md §4.5's translator cannot run
// without a mapping document).
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		NumbersOfSubgraphs: v.GetInt("numbers-of-subgraphs"),
		LogsPerEpoch:       v.GetInt("logs-per-epoch"),
		MetaPrefix:         v.GetString("meta-prefix"),
		MachineID:          v.GetString("machine-id"),
		Partition:          v.GetInt("partition"),
		RGMappingPath:      v.GetString("rg-mapping"),
		RegistryAddr:       v.GetString("registry-addr"),
		TopologyPath:       v.GetString("topology"),
		ListenAddr:         v.GetString("listen"),
	}
	if cfg.RGMappingPath == "" {
		return nil, fmt.Errorf("config: --rg-mapping (GART_RG_MAPPING) is required")
	}
	if cfg.NumbersOfSubgraphs <= 0 {
		return nil, fmt.Errorf("config: --numbers-of-subgraphs must be positive")
	}
	if cfg.LogsPerEpoch <= 0 {
		return nil, fmt.Errorf("config: --logs-per-epoch must be positive")
	}
	return cfg, nil
}

// LoadTopology parses a static partition-endpoint topology file.
func LoadTopology(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read topology %q: %w", path, err)
	}
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("config: parse topology %q: %w", path, err)
	}
	return &t, nil
}

// Endpoint returns the configured endpoint for partition, if present.
func (t *Topology) Endpoint(partition int) (string, bool) {
	for _, p := range t.Partitions {
		if p.Partition == partition {
			return p.Addr, true
		}
	}
	return "", false
}
