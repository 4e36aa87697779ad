// Package metrics exposes Prometheus collectors for the web form.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chapterpress"

// Generation results.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics owns a private registry so several servers can live in one process.
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec

	GenerationTotal    *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	DocumentPages      prometheus.Histogram
	DocumentBytes      prometheus.Histogram

	DownloadTotal *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),

		GenerationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "generation_total",
				Help:      "Total number of PDF generations by result",
			},
			[]string{"result"},
		),
		GenerationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "generation_duration_seconds",
				Help:      "PDF generation duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		DocumentPages: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "pages",
				Help:      "Page count of generated documents",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
		DocumentBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "size_bytes",
				Help:      "Size of generated documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 7),
			},
		),

		DownloadTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "document",
				Name:      "download_total",
				Help:      "Total number of download attempts by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveGeneration records one generation attempt. pages and size are only
// observed for successful runs.
func (m *Metrics) ObserveGeneration(result string, d time.Duration, pages, size int) {
	m.GenerationTotal.WithLabelValues(result).Inc()
	m.GenerationDuration.Observe(d.Seconds())
	if result == ResultOK {
		m.DocumentPages.Observe(float64(pages))
		m.DocumentBytes.Observe(float64(size))
	}
}

// ObserveDownload records a download; found reports whether the document
// was still available.
func (m *Metrics) ObserveDownload(found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	m.DownloadTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Middleware counts requests by chi route pattern so ids in paths do not
// explode the label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
