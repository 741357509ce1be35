package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Background job metrics
var (
	// JobsEnqueuedTotal counts enqueue attempts by task type and result (ok|error)
	JobsEnqueuedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_enqueued_total",
			Help:      "Total number of background tasks enqueued",
		},
		[]string{"task", "result"},
	)

	// JobsProcessedTotal counts handler runs by task type and result (ok|error)
	JobsProcessedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_processed_total",
			Help:      "Total number of background tasks processed",
		},
		[]string{"task", "result"},
	)

	// EmailsSentTotal counts outgoing emails by template and result (ok|error)
	EmailsSentTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Total number of emails handed to the provider",
		},
		[]string{"template", "result"},
	)
)

// Result turns an error into the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
