package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	EventsIngested    prometheus.Counter
	WebhookRejected   *prometheus.CounterVec
	DuplicateDelivery prometheus.Counter
	ReconcileDuration prometheus.Histogram
	CyclesSkipped     prometheus.Counter
	SnapshotFailures  prometheus.Counter
	EventsPruned      prometheus.Counter
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_ingested_total",
			Help:      "The total number of status events accepted by the webhook gateway",
		}),
		WebhookRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_rejected_total",
			Help:      "The total number of rejected webhook deliveries",
		}, []string{"reason"}),
		DuplicateDelivery: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_deliveries_total",
			Help:      "The total number of provider redeliveries short-circuited by the delivery cache",
		}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_cycle_seconds",
			Help:      "Time taken to run one reconciliation cycle",
			Buckets:   prometheus.DefBuckets,
		}),
		CyclesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_cycles_skipped_total",
			Help:      "The total number of reconciliation cycles skipped because the roster source was unavailable",
		}),
		SnapshotFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetch_failures_total",
			Help:      "The total number of failed roster snapshot fetches",
		}),
		EventsPruned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_pruned_total",
			Help:      "The total number of expired status events removed by the pruner",
		}),
	}
}
