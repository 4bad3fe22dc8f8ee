package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviver_http_requests_total",
			Help: "Total number of HTTP requests served by the ops endpoint.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviver_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the ops endpoint.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	CatalogPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviver_catalog_pages_total",
			Help: "Catalog pages fetched, by result.",
		},
		[]string{"result"}, // ok, empty, error
	)

	CandidatesFound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reviver_candidates",
			Help: "Number of candidates queued in the current run.",
		},
	)

	AttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviver_visit_attempts_total",
			Help: "Total number of revival attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviver_outcomes_total",
			Help: "Final outcomes per candidate.",
		},
		[]string{"status"},
	)

	VisitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviver_visit_duration_seconds",
			Help:    "Duration of single revival attempts.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
	)

	WorkersBusy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reviver_workers_busy",
			Help: "Workers currently reviving a candidate.",
		},
	)

	registerOnce sync.Once
)

// Init registers all collectors with reg. Collectors are usable before Init;
// they are simply not exported until registered.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			CatalogPagesTotal,
			CandidatesFound,
			AttemptsTotal,
			OutcomesTotal,
			VisitDuration,
			WorkersBusy,
		)
	})
}
