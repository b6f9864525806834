package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the api's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	toggles       *prometheus.CounterVec
	jobs          *prometheus.CounterVec
	invitationsOK prometheus.Counter
}

// NewMetrics registers the collectors along with the go and process collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "studio",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "feed_toggles_total",
			Help:      "Like and bookmark toggles by kind and outcome.",
		}, []string{"kind", "outcome"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "jobs_finished_total",
			Help:      "Background jobs by kind and final status.",
		}, []string{"kind", "status"}),
		invitationsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "invitations_redeemed_total",
			Help:      "Onboarding invitations redeemed.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.inFlight, m.toggles, m.jobs, m.invitationsOK,
	)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Toggle counts a like or bookmark toggle; outcome is one of on, off, conflict, error
func (m *Metrics) Toggle(kind, outcome string) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(kind, outcome).Inc()
}

// JobFinished counts a background job reaching a terminal status
func (m *Metrics) JobFinished(kind, status string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(kind, status).Inc()
}

// InvitationRedeemed counts a successful onboarding
func (m *Metrics) InvitationRedeemed() {
	if m == nil {
		return
	}
	m.invitationsOK.Inc()
}
