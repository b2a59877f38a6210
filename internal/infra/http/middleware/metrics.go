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

	webhookAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_attempts_total",
			Help: "Fetch attempts against the webhook endpoints, per strategy and outcome",
		},
		[]string{"resource", "strategy", "outcome"},
	)

	webhookMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_mutations_total",
			Help: "Mutations forwarded to the webhook endpoints",
		},
		[]string{"operation", "outcome"},
	)

	refreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_total",
			Help: "Data refresh runs by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	resourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_resource_failures_total",
			Help: "Resource loads that failed after exhausting every strategy",
		},
		[]string{"resource"},
	)

	lastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_last_refresh_timestamp_seconds",
			Help: "Unix time of the last refresh that loaded at least one resource",
		},
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

// routePattern usa o padrão da rota do chi para não explodir a cardinalidade com ids.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordWebhookAttempt(resource, strategy, outcome string) {
	webhookAttempts.WithLabelValues(resource, strategy, outcome).Inc()
}

func RecordWebhookMutation(operation, outcome string) {
	webhookMutations.WithLabelValues(operation, outcome).Inc()
}

func RecordRefresh(trigger, outcome string) {
	refreshRuns.WithLabelValues(trigger, outcome).Inc()
}

func RecordResourceFailure(resource string) {
	resourceFailures.WithLabelValues(resource).Inc()
}

func RecordLastRefresh(t time.Time) {
	lastRefresh.Set(float64(t.Unix()))
}
