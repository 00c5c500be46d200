// Package metrics defines the prometheus collectors this service
// exports at GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector registered by this service. It uses a
// private registry, not prometheus.DefaultRegisterer, so multiple tests
// (or multiple instances in one process) never collide on
// double-registration.
type Metrics struct {
	registry *prometheus.Registry

	OrdersAccepted *prometheus.CounterVec
	TradesExecuted *prometheus.CounterVec
	TradeQuantity  *prometheus.CounterVec
	BookDepth      *prometheus.GaugeVec
	MatchDuration  *prometheus.HistogramVec
}

// New builds and registers every collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		OrdersAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_orders_accepted_total",
			Help: "Number of orders accepted by the matching engine.",
		}, []string{"symbol", "side", "kind"}),
		TradesExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_trades_executed_total",
			Help: "Number of trades executed.",
		}, []string{"symbol"}),
		TradeQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbook_trade_quantity_total",
			Help: "Total quantity traded.",
		}, []string{"symbol"}),
		BookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orderbook_book_depth",
			Help: "Number of aggregated price levels currently visible per side.",
		}, []string{"symbol", "side"}),
		MatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orderbook_match_duration_seconds",
			Help:    "Wall time of a book Submit call as seen by the intake facade, including time spent waiting for the book's actor.",
			Buckets: prometheus.DefBuckets,
		}, []string{"symbol"}),
	}

	reg.MustRegister(m.OrdersAccepted, m.TradesExecuted, m.TradeQuantity, m.BookDepth, m.MatchDuration)
	return m
}

// Handler returns the HTTP handler for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
