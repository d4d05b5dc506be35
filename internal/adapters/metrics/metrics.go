// Package metrics exposes Prometheus counters and histograms for the church office server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"churchdesk/internal/domain/attendance"
)

const namespace = "churchdesk"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.HistogramVec
	checkIns     *prometheus.CounterVec
	transactions *prometheus.CounterVec
	smsSegments  prometheus.Counter
}

// New registers every collector on a fresh registry.
// POST: Go runtime and process collectors are included
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_checkins_total",
			Help:      "QR check-in attempts by outcome.",
		}, []string{"result"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Ledger entries recorded by type.",
		}, []string{"type"}),
		smsSegments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_segments_total",
			Help:      "SMS segments billed against the credit balance.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.checkIns,
		m.transactions,
		m.smsSegments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheckIn counts one QR check-in outcome.
func (m *Metrics) RecordCheckIn(result attendance.CheckInResult) {
	m.checkIns.WithLabelValues(result.String()).Inc()
}

// RecordTransaction counts one ledger entry.
func (m *Metrics) RecordTransaction(txType string) {
	m.transactions.WithLabelValues(txType).Inc()
}

// RecordSMSSegments adds billed segments.
func (m *Metrics) RecordSMSSegments(n int) {
	if n > 0 {
		m.smsSegments.Add(float64(n))
	}
}

// ObserveRequest records one request duration. route should be the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
