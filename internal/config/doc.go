// Package config resolves gartgraph's process configuration: the handful of
// tunables spec.md §4.5/§6 name (numbers of subgraphs, logs per epoch, the
// metadata-registry key prefix, the RGMapping document path) plus optional
// static topology for the single-process demo binaries in cmd/.
//
// Flags bind to environment variables via spf13/viper, following the same
// "env var with a default, fatal if a required one is missing" shape the
// teacher's getenv/mustGetenv helpers use in cmd/node and cmd/coordinator,
// but expressed as cobra flags so --help documents them.
package config
