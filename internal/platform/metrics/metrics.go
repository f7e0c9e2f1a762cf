// Package metrics exposes the prometheus collectors of the api
// every method is nil safe so callers can run without metrics wired
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the collectors registered on it
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	recomputes    *prometheus.CounterVec
	recomputeTime prometheus.Histogram
	feedUpdates   prometheus.Counter
	feedRecords   prometheus.Gauge
	feedErrors    prometheus.Counter
	sessions      prometheus.Gauge

	leadsSubmitted prometheus.Counter
	sideErrors     *prometheus.CounterVec
	authEvents     *prometheus.CounterVec
}

// New builds the collectors under namespace, eg "leadscore"
func New(namespace string) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "recomputes_total",
			Help: "Dashboard view recomputations by trigger.",
		}, []string{"trigger"}),
		recomputeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "recompute_seconds",
			Help:    "Time spent filtering and aggregating one view.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		feedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "feed_updates_total",
			Help: "Snapshots applied to dashboard pipelines.",
		}),
		feedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "feed_records",
			Help: "Records in the latest snapshot.",
		}),
		feedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "feed_errors_total",
			Help: "Errors reported by the lead feed.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "dashboard", Name: "sessions",
			Help: "Live per-user dashboard pipelines.",
		}),
		leadsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "leads", Name: "submitted_total",
			Help: "Leads accepted by the intake endpoint.",
		}),
		sideErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "leads", Name: "side_channel_errors_total",
			Help: "Best effort side channel failures by channel.",
		}, []string{"channel"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "events_total",
			Help: "Signup, verify and login attempts by outcome.",
		}, []string{"event", "outcome"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.recomputes, m.recomputeTime, m.feedUpdates, m.feedRecords, m.feedErrors, m.sessions,
		m.leadsSubmitted, m.sideErrors, m.authEvents,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Middleware counts requests by chi route pattern so path params do not explode cardinality
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Recomputed implements dashboard.Observer
func (m *Metrics) Recomputed(trigger string, took time.Duration) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(trigger).Inc()
	m.recomputeTime.Observe(took.Seconds())
}

// FeedUpdated implements dashboard.Observer
func (m *Metrics) FeedUpdated(records int) {
	if m == nil {
		return
	}
	m.feedUpdates.Inc()
	m.feedRecords.Set(float64(records))
}

// FeedFailed implements dashboard.Observer
func (m *Metrics) FeedFailed(string) {
	if m == nil {
		return
	}
	m.feedErrors.Inc()
}

// Sessions records the live pipeline count
func (m *Metrics) Sessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// LeadSubmitted counts an accepted lead
func (m *Metrics) LeadSubmitted() {
	if m == nil {
		return
	}
	m.leadsSubmitted.Inc()
}

// SideChannelFailed counts a failed mirror or event publish, channel is "clickhouse" or "kafka"
func (m *Metrics) SideChannelFailed(channel string) {
	if m == nil {
		return
	}
	m.sideErrors.WithLabelValues(channel).Inc()
}

// AuthEvent counts an auth attempt, outcome is "ok" or the error class
func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}
