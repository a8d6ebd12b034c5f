package server

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MetricsPath = "/__folio/metrics"

// serverMetrics are the preview server's Prometheus collectors, registered on
// a private registry so several servers can coexist in one process.
type serverMetrics struct {
	registry *prom.Registry
	requests *prom.CounterVec
	duration *prom.HistogramVec
	reloads  prom.Counter
	clients  prom.Gauge
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{registry: prom.NewRegistry()}
	m.requests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "folio",
		Name:      "http_requests_total",
		Help:      "Preview requests by route and status code",
	}, []string{"route", "code"})
	m.duration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "folio",
		Name:      "http_request_duration_seconds",
		Help:      "Time to render and write a preview response",
		Buckets:   prom.DefBuckets,
	}, []string{"route"})
	m.reloads = prom.NewCounter(prom.CounterOpts{
		Namespace: "folio",
		Name:      "reloads_total",
		Help:      "Content changes pushed to browsers",
	})
	m.clients = prom.NewGauge(prom.GaugeOpts{
		Namespace: "folio",
		Name:      "live_reload_clients",
		Help:      "Connected live reload event streams",
	})
	m.registry.MustRegister(m.requests, m.duration, m.reloads, m.clients)
	return m
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument records count and latency of h under the route label.
func (m *serverMetrics) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
