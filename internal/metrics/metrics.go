// Package metrics exposes the storefront's Prometheus metrics. Every method is
// safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rnimart"

type Metrics struct {
	registry *prometheus.Registry

	checkoutsTotal     prometheus.Counter
	checkoutRevenue    prometheus.Counter
	notificationsTotal *prometheus.CounterVec
	insightsTotal      *prometheus.CounterVec
	statsDuration      prometheus.Histogram
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		checkoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Orders created by checkout.",
		}),
		checkoutRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_value_rupiah_total",
			Help:      "Sum of total_harga of orders created by checkout.",
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by kind and result.",
		}, []string{"kind", "result"}),
		insightsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_total",
			Help:      "Insight generations by result.",
		}, []string{"result"}),
		statsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stats_compute_duration_seconds",
			Help:      "Time spent reading order history and computing admin stats.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.checkoutsTotal,
		m.checkoutRevenue,
		m.notificationsTotal,
		m.insightsTotal,
		m.statsDuration,
		m.httpRequestsTotal,
		m.httpDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCheckout(total int64) {
	if m == nil {
		return
	}
	m.checkoutsTotal.Inc()
	m.checkoutRevenue.Add(float64(total))
}

func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.notificationsTotal.WithLabelValues(kind, result).Inc()
}

// NotificationDropped counts messages refused because the queue was full.
func (m *Metrics) NotificationDropped(kind string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, "dropped").Inc()
}

// ObserveInsight records how an insight request ended: "generated", "fallback"
// or "skipped".
func (m *Metrics) ObserveInsight(result string) {
	if m == nil {
		return
	}
	m.insightsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStats(d time.Duration) {
	if m == nil {
		return
	}
	m.statsDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
