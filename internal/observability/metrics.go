// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tokenpulse/tokenpulse/internal/models"
)

// Metrics holds all Prometheus metrics for the application. It implements
// feed.Observer and ledger.Observer.
type Metrics struct {
	registry *prometheus.Registry

	// Feed metrics
	TicksTotal         prometheus.Counter
	TokenUpdatesTotal  prometheus.Counter
	TickDuration       prometheus.Histogram
	PriceEventsDropped prometheus.Counter
	TokensTracked      prometheus.Gauge
	PriceUpdatesPruned prometheus.Counter

	// Ledger metrics
	TradesTotal     *prometheus.CounterVec
	TradeVolumeUSD  *prometheus.CounterVec
	TradeRejections *prometheus.CounterVec
	FundsAddedUSD   prometheus.Counter

	// Stream metrics
	StreamClients prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry, so
// several instances can coexist in one process.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenpulse"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Total number of feed ticks",
		}),
		TokenUpdatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "token_updates_total",
			Help:      "Total number of token price mutations",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tick_duration_seconds",
			Help:      "Time spent applying one tick",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		PriceEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "price_events_dropped_total",
			Help:      "Price events dropped because a subscriber was slow",
		}),
		TokensTracked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tokens",
			Help:      "Number of tokens in the live list",
		}),
		PriceUpdatesPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "price_updates_pruned_total",
			Help:      "Expired price-change flashes removed",
		}),

		TradesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_total",
			Help:      "Total number of executed trades by action",
		}, []string{"action"}),
		TradeVolumeUSD: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trade_volume_usd_total",
			Help:      "Executed trade value in USD by action",
		}, []string{"action"}),
		TradeRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trade_rejections_total",
			Help:      "Rejected trades by reason",
		}, []string{"reason"}),
		FundsAddedUSD: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "funds_added_usd_total",
			Help:      "USD credited through add-funds",
		}),

		StreamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "stream_clients",
			Help:      "Connected price stream clients",
		}),
	}
}

func (m *Metrics) TickCompleted(mutated, total int, took time.Duration) {
	m.TicksTotal.Inc()
	m.TokenUpdatesTotal.Add(float64(mutated))
	m.TokensTracked.Set(float64(total))
	m.TickDuration.Observe(took.Seconds())
}

func (m *Metrics) PriceEventDropped() {
	m.PriceEventsDropped.Inc()
}

func (m *Metrics) UpdatesPruned(n int) {
	m.PriceUpdatesPruned.Add(float64(n))
}

func (m *Metrics) TradeExecuted(action models.TradeAction, valueUSD float64) {
	m.TradesTotal.WithLabelValues(string(action)).Inc()
	m.TradeVolumeUSD.WithLabelValues(string(action)).Add(valueUSD)
}

func (m *Metrics) TradeRejected(reason string) {
	if reason == "" {
		reason = "other"
	}
	m.TradeRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) FundsAdded(amountUSD float64) {
	m.FundsAddedUSD.Add(amountUSD)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
