package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ColumnWalkSteps.Add(3)
	m.MessagesAccepted.WithLabelValues("person").Inc()

	var out dto.Metric
	require.NoError(t, m.ColumnWalkSteps.Write(&out))
	require.Equal(t, float64(3), out.GetCounter().GetValue())
}
