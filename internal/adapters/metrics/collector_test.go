package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/adapters/metrics"
)

func TestObserveRequest_CountsOkAndErrorOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ObserveRequest("vessels", 1, 10*time.Millisecond, nil)
	c.ObserveRequest("vessels", 2, 20*time.Millisecond, errors.New("boom"))

	families, err := reg.Gather()
	require.NoError(t, err)

	total := findMetricFamily(families, "ferry_dotstate_upstream_requests_total")
	require.NotNil(t, total)
	assert.Len(t, total.Metric, 2)
}

func TestObserveAssembly_SetsExactlyOneFallbackModeGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ObserveAssembly(5, "partial", "live", "stale")

	families, err := reg.Gather()
	require.NoError(t, err)

	fb := findMetricFamily(families, "ferry_dotstate_fallback_mode")
	require.NotNil(t, fb)

	var onCount int
	for _, m := range fb.Metric {
		if m.GetGauge().GetValue() == 1 {
			onCount++
		}
	}
	assert.Equal(t, 1, onCount)
}

func findMetricFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}
