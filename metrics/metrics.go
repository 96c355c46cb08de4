// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oceanwatch_reports_created_total",
		Help: "Reports accepted by AddReport",
	})

	ReportMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceanwatch_report_mutations_total",
		Help: "Report mutations by audit action and outcome",
	}, []string{"action", "outcome"})

	FilterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oceanwatch_filter_duration_seconds",
		Help:    "Time spent filtering a report snapshot",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
	})

	ReportsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oceanwatch_reports_stored",
		Help: "Reports in the collection at the last refresh",
	})

	AnalyticsRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceanwatch_analytics_refreshes_total",
		Help: "Analytics refresh cycles by outcome",
	}, []string{"outcome"})

	ArchiveWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oceanwatch_archive_writes_total",
		Help: "Analytics snapshot archive writes by outcome",
	}, []string{"outcome"})
)

// Outcome labels a success or failure.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
