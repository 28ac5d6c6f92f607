package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "litmos_two",
		Name:      "records_processed_total",
		Help:      "Records dispatched through the record operation.",
	})
	RecordFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "litmos_two",
		Name:      "record_failures_total",
		Help:      "Records whose operation ended in a failure outcome.",
	})
	RetryAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "litmos_two",
		Name:      "retry_attempts_total",
		Help:      "Outbound attempts beyond the first, per transport call.",
	})
	JobsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "litmos_two",
		Name:      "jobs_submitted_total",
		Help:      "Batch jobs accepted by the engine.",
	})
	PushDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "litmos_two",
		Name:      "push_deliveries_total",
		Help:      "Push deliveries handled, by disposition.",
	}, []string{"disposition"})
)

// Init registers collectors; call once from main.
func Init() {
	prometheus.MustRegister(
		RecordsProcessed,
		RecordFailures,
		RetryAttempts,
		JobsSubmitted,
		PushDeliveries,
	)
}
