package statistics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "shardproxy_query_phase_duration_seconds",
		Help: "Query duration per processing phase in seconds",
		Buckets: []float64{
			0.0001, // 100µs
			0.0005, // 500µs
			0.001,  // 1ms
			0.005,  // 5ms
			0.01,   // 10ms
			0.05,   // 50ms
			0.1,    // 100ms
			0.5,    // 500ms
			1.0,    // 1s
			5.0,    // 5s
			10.0,   // 10s
		},
	}, []string{"phase"})

	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shardproxy_queries_total",
		Help: "Total number of queries processed",
	}, []string{"status"})
)

func observePhase(phase Phase, d time.Duration) {
	phaseDuration.WithLabelValues(string(phase)).Observe(d.Seconds())
}

// Values of the status label of shardproxy_queries_total.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

func observeQuery(failed bool) {
	status := StatusOK
	if failed {
		status = StatusFailed
	}
	queryTotal.WithLabelValues(status).Inc()
}

// QueryCounter returns the counter of queries finished with the given status.
func QueryCounter(status string) prometheus.Counter {
	return queryTotal.WithLabelValues(status)
}
