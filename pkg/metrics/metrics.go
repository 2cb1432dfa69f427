package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var checkerRequests *prometheus.CounterVec
var checkerResponseTime *prometheus.HistogramVec
var agentTasks *prometheus.CounterVec

// RecordCheck counts one remote check by request kind and outcome
// ("ok" or a failure kind).
func RecordCheck(kind string, outcome string, duration time.Duration) {
	checkerRequests.With(prometheus.Labels{"kind": kind, "outcome": outcome}).Inc()
	milliseconds := float64(duration / time.Millisecond)
	checkerResponseTime.With(prometheus.Labels{"kind": kind}).Observe(milliseconds)
}

// RecordAgentTask counts one task handled in agent mode.
func RecordAgentTask(command string, outcome string) {
	agentTasks.With(prometheus.Labels{"command": command, "outcome": outcome}).Inc()
}

func init() {
	checkerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "northcheck",
		Subsystem:   "checker",
		Name:        "requests_total",
		Help:        "reputation check requests by request kind and outcome",
		ConstLabels: map[string]string{},
	}, []string{"kind", "outcome"})
	prometheus.MustRegister(checkerRequests)

	checkerResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "northcheck",
		Subsystem: "checker",
		Name:      "response_time_ms",
		Help:      "tracks the response times of reputation service requests in milliseconds",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"kind"})
	prometheus.MustRegister(checkerResponseTime)

	agentTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "northcheck",
		Subsystem:   "agent",
		Name:        "tasks_total",
		Help:        "tasks processed in agent mode by command and outcome",
		ConstLabels: map[string]string{},
	}, []string{"command", "outcome"})
	prometheus.MustRegister(agentTasks)
}
