package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	routedEdges     prometheus.Counter
	failedEdges     prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routing",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by path, method and status code.",
		}, []string{"path", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		routedEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routing",
			Name:      "routed_edges_total",
			Help:      "Total number of successfully routed edges.",
		}),
		failedEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routing",
			Name:      "failed_edges_total",
			Help:      "Total number of edges that could not be routed.",
		}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.routedEdges, m.failedEdges)
	return m
}

// prometheus http middleware
func PromHTTPMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			m.requestsTotal.WithLabelValues(
				r.URL.Path, r.Method, strconv.Itoa(ww.Status())).Inc()
			m.requestDuration.WithLabelValues(
				r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
