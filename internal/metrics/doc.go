// Package metrics exposes the observability hooks spec.md names but
// leaves homeless: the column store's "optional walk counter"
// (spec.md §4.2), GC pages-retired counts, and translator
// messages-accepted/dropped counts. Registered against the
// prometheus.Registerer passed to New; cmd/translator and cmd/writer each
// pass a private registry and serve it on /metrics.
package metrics
