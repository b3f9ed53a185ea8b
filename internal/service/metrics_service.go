package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the validator and the solver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	validatorRuns     prometheus.Counter
	validatorDuration prometheus.Histogram
	validatorFindings prometheus.Counter
	validatorRepairs  prometheus.Counter

	solverRuns     *prometheus.CounterVec
	solverDuration *prometheus.HistogramVec
}

// NewMetricsService registers all collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_cache_hits_total",
		Help: "Total memoized timetable view hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_cache_misses_total",
		Help: "Total memoized timetable view misses",
	})

	validatorRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "validator_runs_total",
		Help: "Total validation runs",
	})

	validatorDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "validator_run_duration_seconds",
		Help:    "Duration of validation runs",
		Buckets: prometheus.DefBuckets,
	})

	validatorFindings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "validator_findings_total",
		Help: "Total validation findings",
	})

	validatorRepairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "validator_repairs_total",
		Help: "Total automatic repairs applied by the validator",
	})

	solverRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_runs_total",
		Help: "Total solver runs by engine and status",
	}, []string{"engine", "status"})

	solverDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_run_duration_seconds",
		Help:    "Duration of solver runs",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"engine"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		validatorRuns, validatorDuration, validatorFindings, validatorRepairs,
		solverRuns, solverDuration, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		validatorRuns:     validatorRuns,
		validatorDuration: validatorDuration,
		validatorFindings: validatorFindings,
		validatorRepairs:  validatorRepairs,
		solverRuns:        solverRuns,
		solverDuration:    solverDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a memoized view lookup.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ValidatorRun records one finished validation run.
func (m *MetricsService) ValidatorRun(took time.Duration, findings, repaired int) {
	if m == nil {
		return
	}
	m.validatorRuns.Inc()
	m.validatorDuration.Observe(took.Seconds())
	m.validatorFindings.Add(float64(findings))
	m.validatorRepairs.Add(float64(repaired))
}

// SolverRun records one finished solver run.
func (m *MetricsService) SolverRun(engine, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.solverRuns.WithLabelValues(engine, status).Inc()
	m.solverDuration.WithLabelValues(engine).Observe(took.Seconds())
}
