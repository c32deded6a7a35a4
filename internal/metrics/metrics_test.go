package metrics_test

import (
	"testing"

	"github.com/jrsteele09/go-events-client/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Refreshes.WithLabelValues(metrics.RefreshSucceeded).Inc()
	m.Replays.Inc()
	m.Replays.Inc()

	require.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.RefreshSucceeded)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Replays))

	count, err := testutil.GatherAndCount(reg, "events_client_refresh_total", "events_client_replays_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNew_NilRegistry(t *testing.T) {
	m := metrics.New(nil)
	m.Teardowns.WithLabelValues("logout").Inc()
}

func TestStatusClass(t *testing.T) {
	require.Equal(t, "error", metrics.StatusClass(0))
	require.Equal(t, "2xx", metrics.StatusClass(204))
	require.Equal(t, "4xx", metrics.StatusClass(401))
	require.Equal(t, "5xx", metrics.StatusClass(503))
}
