package records

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	dropReasonUnparsable = "unparsable"
	dropReasonNoClient   = "no_client_id"
)

var (
	// normalizerRows counts raw log rows fed into the normalizer.
	normalizerRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_normalizer_rows_total",
		Help: "Total raw log rows processed by the normalizer",
	})

	// normalizerDropped counts rows silently discarded, by reason.
	normalizerDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "records_normalizer_dropped_total",
		Help: "Raw log rows dropped during normalization by reason",
	}, []string{"reason"})

	// groupsBuilt counts finalized groups across all projections.
	groupsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "records_groups_built_total",
		Help: "Total record groups built by the grouping projection",
	})

	// groupingDuration tracks how long one full projection takes.
	groupingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "records_grouping_duration_seconds",
		Help:    "Time taken to fold normalized events into groups",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

func startGroupingTimer() *prometheus.Timer {
	return prometheus.NewTimer(groupingDuration)
}
