package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the dispatcher's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "company_directory",
			Subsystem: "api",
			Name:      "actions_total",
			Help:      "Total number of dispatched API actions by envelope code.",
		},
		[]string{"module", "controller", "action", "code"},
	)

	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "company_directory",
			Subsystem: "api",
			Name:      "action_duration_seconds",
			Help:      "Duration of dispatched API actions.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"module", "controller", "action"},
	)
)

// unmatchedRoute labels requests that never resolved to an action, keeping
// label cardinality bounded.
var unmatchedRoute = Route{Module: "unmatched", Controller: "unmatched", Action: "unmatched"}

func init() {
	Registry.MustRegister(dispatchTotal, dispatchDuration)
}

func observeDispatch(route Route, code int, elapsed time.Duration) {
	dispatchTotal.WithLabelValues(route.Module, route.Controller, route.Action, strconv.Itoa(code)).Inc()
	dispatchDuration.WithLabelValues(route.Module, route.Controller, route.Action).Observe(elapsed.Seconds())
}

// MetricsHandler exposes Registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
