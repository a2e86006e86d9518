// Package metrics exposes the engine's ambient observability surface.
// It is not part of the matching core spec.md describes — it exists so
// cmd/server has something to serve at /metrics, the way
// VictorVVedtion-perp-dex and cypherlabdev-order-book-service wire
// prometheus/client_golang alongside their matching engines.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every counter/gauge the HTTP layer updates. It is
// built once at boot and passed into internal/httpapi.
type Registry struct {
	OrdersPlaced   *prometheus.CounterVec
	OrdersMatched  *prometheus.CounterVec
	OrdersCanceled *prometheus.CounterVec
	OpenOrders     *prometheus.GaugeVec
}

// NewRegistry creates and registers every metric against reg. Passing a
// fresh prometheus.NewRegistry() keeps tests from colliding with the
// global default registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "orders_placed_total",
			Help:      "Limit orders admitted to a book, by trading pair and side.",
		}, []string{"pair", "side"}),
		OrdersMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "orders_matched_total",
			Help:      "Limit orders that were at least partly filled on admission, by trading pair.",
		}, []string{"pair"}),
		OrdersCanceled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fenrir",
			Name:      "orders_canceled_total",
			Help:      "Successful cancellations, by trading pair.",
		}, []string{"pair"}),
		OpenOrders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fenrir",
			Name:      "open_orders",
			Help:      "Resting (unfilled, uncancelled) orders, by trading pair.",
		}, []string{"pair"}),
	}

	reg.MustRegister(m.OrdersPlaced, m.OrdersMatched, m.OrdersCanceled, m.OpenOrders)
	return m
}
