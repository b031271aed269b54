// Package metrics метрики prometheus: HTTP слой и жизненный цикл переводов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "remit_ledger"

// Metrics набор коллекторов приложения в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	transfers   *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	expired     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), //nolint:mnd
		}, []string{"method", "route"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfers",
			Name:      "finished_total",
			Help:      "Transfer state changes by kind and resulting status.",
		}, []string{"kind", "status"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commission",
			Name:      "resolutions_total",
			Help:      "Commission resolutions by kind and source (tier or default).",
		}, []string{"kind", "source"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "conflict_retries_total",
			Help:      "Unit of work retries caused by concurrent modification.",
		}, []string{"operation"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "expiry",
			Name:      "processed_total",
			Help:      "Pending transfers handled by the expiry processor.",
		}, []string{"success"}),
	}
	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.transfers,
		m.resolutions,
		m.conflicts,
		m.expired,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler отдает метрики реестра.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и для регистрации внешних коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) TransferFinished(kind domain.TransferKind, status domain.TransferStatusType) {
	m.transfers.WithLabelValues(string(kind), string(status)).Inc()
}

func (m *Metrics) CommissionResolved(kind domain.TransferKind, source domain.CommissionSourceType) {
	m.resolutions.WithLabelValues(string(kind), string(source)).Inc()
}

func (m *Metrics) ConflictRetried(operation string) {
	m.conflicts.WithLabelValues(operation).Inc()
}

// ExpiryProcessed учитывает результат обработки одного просроченного перевода.
func (m *Metrics) ExpiryProcessed(success bool) {
	m.expired.WithLabelValues(strconv.FormatBool(success)).Inc()
}
