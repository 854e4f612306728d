package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsBuiltTotal counts report builds by outcome.
	ReportsBuiltTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "violation_report",
		Subsystem: "generator",
		Name:      "reports_built_total",
		Help:      "Total number of report builds, labeled by result (ok, input_error, error).",
	}, []string{"result"})

	// BuildDurationSeconds is the end-to-end time of one report build.
	BuildDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "violation_report",
		Subsystem: "generator",
		Name:      "report_build_duration_seconds",
		Help:      "Time to assemble one report including image acquisition.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	})

	// ReportPages is the page count of successfully built reports.
	ReportPages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "violation_report",
		Subsystem: "generator",
		Name:      "report_pages",
		Help:      "Number of pages in finished reports.",
		Buckets:   prometheus.LinearBuckets(3, 3, 10),
	})

	// ImageAcquisitionsTotal counts evidence image lookups by outcome.
	ImageAcquisitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "violation_report",
		Subsystem: "images",
		Name:      "acquisitions_total",
		Help:      "Evidence image lookups, labeled by result (fetched, unavailable, cache_hit).",
	}, []string{"result"})

	// ImageFetchDurationSeconds is the time spent downloading and decoding one image.
	ImageFetchDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "violation_report",
		Subsystem: "images",
		Name:      "fetch_duration_seconds",
		Help:      "Time to download, decode and normalize one evidence image.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	})
)

// Register registers generator metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsBuiltTotal,
			BuildDurationSeconds,
			ReportPages,
			ImageAcquisitionsTotal,
			ImageFetchDurationSeconds,
		)
	})
}
