package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the set of counters and gauges gartgraph exports. A
// *Registry is normally constructed once per process via New and passed
// down to the components that update it; tests construct their own with
// a private prometheus.Registerer to avoid collisions with other tests
// in the same binary.
type Registry struct {
	ColumnWalkSteps   prometheus.Counter
	PagesRetired      prometheus.Counter
	MessagesAccepted  *prometheus.CounterVec
	MessagesDropped   *prometheus.CounterVec
	CurrentEpoch      *prometheus.GaugeVec
	BlobHistoryLength *prometheus.GaugeVec
}

// New registers gartgraph's metrics against reg and returns the handles
// used to update them. Pass prometheus.DefaultRegisterer in production;
// pass a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		ColumnWalkSteps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gart",
			Subsystem: "columnstore",
			Name:      "walk_steps_total",
			Help:      "Cumulative page-chain link traversals performed by Get.",
		}),
		PagesRetired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gart",
			Subsystem: "columnstore",
			Name:      "pages_retired_total",
			Help:      "Cumulative pages moved to the oldPages holding area by GC.",
		}),
		MessagesAccepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gart",
			Subsystem: "translator",
			Name:      "messages_accepted_total",
			Help:      "Binlog messages translated into unified-log records, by table.",
		}, []string{"table"}),
		MessagesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gart",
			Subsystem: "translator",
			Name:      "messages_dropped_total",
			Help:      "Binlog messages dropped (unknown table or unsupported operation), by reason.",
		}, []string{"reason"}),
		CurrentEpoch: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gart",
			Subsystem: "graphstore",
			Name:      "current_epoch",
			Help:      "Most recently advanced epoch, by partition.",
		}, []string{"partition"}),
		BlobHistoryLength: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gart",
			Subsystem: "graphstore",
			Name:      "blob_history_length",
			Help:      "Number of blob-schema snapshots retained in history, by partition.",
		}, []string{"partition"}),
	}
}
