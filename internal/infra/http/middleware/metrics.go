package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		},
		[]string{"source"},
	)

	leadsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Import rows by outcome",
		},
		[]string{"result"},
	)

	automationDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automation_dispatches_total",
			Help: "Total number of automation dispatches",
		},
		[]string{"trigger", "status"},
	)

	storageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of failed durable writes",
		},
		[]string{"operation"},
	)

	leadsByStage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leads_by_stage",
			Help: "Current number of leads in each pipeline stage",
		},
		[]string{"stage"},
	)

	leadsByTemperature = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leads_by_temperature",
			Help: "Current number of leads at each temperature",
		},
		[]string{"temperature"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// unmatchedPath labels requests no route matched.
const unmatchedPath = "unmatched"

// routePattern labels by chi route ("/leads/{id}") so ids and stray paths
// do not blow up the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedPath
}

func RecordLeadCreated(source string) {
	leadsCreated.WithLabelValues(source).Inc()
}

func RecordImport(created, updated, skipped int) {
	leadsImported.WithLabelValues("created").Add(float64(created))
	leadsImported.WithLabelValues("updated").Add(float64(updated))
	leadsImported.WithLabelValues("skipped").Add(float64(skipped))
}

func RecordDispatch(trigger, status string) {
	automationDispatches.WithLabelValues(trigger, status).Inc()
}

func RecordStorageError(operation string) {
	storageErrors.WithLabelValues(operation).Inc()
}

func SetLeadsByStage(stage string, n int) {
	leadsByStage.WithLabelValues(stage).Set(float64(n))
}

func SetLeadsByTemperature(temperature string, n int) {
	leadsByTemperature.WithLabelValues(temperature).Set(float64(n))
}
