package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_http_requests_total",
		Help: "Total HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leave_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ledgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_ledger_operations_total",
		Help: "Balance ledger operations by kind and outcome.",
	}, []string{"operation", "outcome"})

	ledgerClamps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_ledger_clamped_total",
		Help: "Releases that would have driven a counter below zero.",
	}, []string{"counter"})

	ledgerRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leave_ledger_conflict_retries_total",
		Help: "Transactions retried after a balance version conflict.",
	})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_request_transitions_total",
		Help: "Leave request status changes by target status.",
	}, []string{"status"})

	sideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_side_effect_failures_total",
		Help: "Best-effort notification and calendar failures.",
	}, []string{"effect"})
)

func LedgerOperation(operation, outcome string) {
	ledgerOperations.WithLabelValues(operation, outcome).Inc()
}

func LedgerClamp(counter string) {
	ledgerClamps.WithLabelValues(counter).Inc()
}

func LedgerRetry() {
	ledgerRetries.Inc()
}

func Transition(status string) {
	transitions.WithLabelValues(status).Inc()
}

func SideEffectFailure(effect string) {
	sideEffectFailures.WithLabelValues(effect).Inc()
}

// GinMiddleware records request count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
