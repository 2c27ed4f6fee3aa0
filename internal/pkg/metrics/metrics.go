// Package metrics exposes the pipeline's Prometheus collectors. All methods
// are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobalert"

type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	listings      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	matches       prometheus.Counter
	emails        *prometheus.CounterVec
	sweeps        *prometheus.CounterVec
	sweepDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Adapter fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_listings_total",
			Help:      "Listings returned by each source before deduplication.",
		}, []string{"source"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Wall time of one adapter fetch including retries.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 45, 90},
		}, []string{"source"}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_matches_total",
			Help:      "Listings matched against alerts.",
		}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Notification emails by flow and outcome.",
		}, []string{"flow", "outcome"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Alert sweeps by outcome.",
		}, []string{"outcome"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a full alert sweep.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetches, m.listings, m.fetchDuration, m.matches, m.emails, m.sweeps, m.sweepDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveFetch(source, outcome string, listings int, took time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(source, outcome).Inc()
	m.listings.WithLabelValues(source).Add(float64(listings))
	m.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

func (m *Metrics) AddMatches(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matches.Add(float64(n))
}

func (m *Metrics) ObserveEmail(flow string, err error) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(flow, outcome(err)).Inc()
}

func (m *Metrics) ObserveSweep(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(outcome).Inc()
	m.sweepDuration.Observe(took.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
