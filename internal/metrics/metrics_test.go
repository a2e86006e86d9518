package metrics_test

import (
	"testing"

	"fenrir/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestOrdersPlacedIncrementsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)

	m.OrdersPlaced.WithLabelValues("BTC/USD", "ASK").Inc()
	m.OrdersPlaced.WithLabelValues("BTC/USD", "ASK").Inc()

	metric := &dto.Metric{}
	require.NoError(t, m.OrdersPlaced.WithLabelValues("BTC/USD", "ASK").Write(metric))
	require.Equal(t, float64(2), metric.GetCounter().GetValue())
}
