// Package metrics exposes business and HTTP counters on a private Prometheus registry.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"frutas/config"
	"frutas/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and every collector of the service.
type Metrics struct {
	registry *prometheus.Registry

	receiptsFinalized prometheus.Counter
	receiptsClaimed   prometheus.Counter
	rewardsRedeemed   prometheus.Counter
	pointsAwarded     prometheus.Counter
	pointsSpent       prometheus.Counter
	codeCollisions    prometheus.Counter
	receiptPoints     prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	poolWaitBursts prometheus.Counter
	poolWaitBurst  prometheus.Histogram
}

var _ service.LoyaltyMetrics = (*Metrics)(nil)

// New registers all collectors under the configured namespace.
func New(cfg *config.Config) *Metrics {
	namespace := "frutas"
	if cfg.Metrics != nil && cfg.Metrics.Namespace != "" {
		namespace = cfg.Metrics.Namespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		receiptsFinalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "finalized_total",
			Help:      "Receipts finalized at the point of sale.",
		}),
		receiptsClaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "claimed_total",
			Help:      "Receipts claimed by customers.",
		}),
		rewardsRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "redeemed_total",
			Help:      "Rewards redeemed.",
		}),
		pointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "awarded_total",
			Help:      "Points credited through receipt claims.",
		}),
		pointsSpent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "spent_total",
			Help:      "Points debited through reward redemptions.",
		}),
		codeCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "code_collisions_total",
			Help:      "Drawn receipt codes that were already taken.",
		}),
		receiptPoints: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "points_earned",
			Help:      "Points earned per finalized receipt.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		poolWaitBursts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_wait_bursts_total",
			Help:      "Monitor samples whose accumulated connection wait crossed the warn threshold.",
		}),
		poolWaitBurst: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_wait_burst_seconds",
			Help:      "Accumulated connection wait of each burst sample.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// RegisterDB exports connection pool statistics.
func (m *Metrics) RegisterDB(db *sql.DB, name string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and ad hoc collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ReceiptFinalized(points int) {
	m.receiptsFinalized.Inc()
	m.receiptPoints.Observe(float64(points))
}

func (m *Metrics) ReceiptClaimed(points int) {
	m.receiptsClaimed.Inc()
	m.pointsAwarded.Add(float64(points))
}

func (m *Metrics) RewardRedeemed(points int) {
	m.rewardsRedeemed.Inc()
	m.pointsSpent.Add(float64(points))
}

func (m *Metrics) CodeCollision() {
	m.codeCollisions.Inc()
}

// PoolWaitExceeded records one pool wait burst flagged by the database monitor.
func (m *Metrics) PoolWaitExceeded(waited time.Duration) {
	m.poolWaitBursts.Inc()
	m.poolWaitBurst.Observe(waited.Seconds())
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ReceiptFinalized(int) {}
func (Noop) ReceiptClaimed(int)   {}
func (Noop) RewardRedeemed(int)   {}
func (Noop) CodeCollision()       {}
