package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("cpaptracker", reg)

	m.NotificationsSent.Add(3)
	m.SweepsTotal.WithLabelValues("success").Inc()
	m.PartsByStatus.WithLabelValues("OVERDUE").Set(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PartsByStatus.WithLabelValues("OVERDUE")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "cpaptracker_notifications_sent_total")
	assert.Contains(t, names, "cpaptracker_parts_by_status")
}

func TestNewMetrics_SeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("cpaptracker", prometheus.NewRegistry())
		NewMetrics("cpaptracker", prometheus.NewRegistry())
	})
}
