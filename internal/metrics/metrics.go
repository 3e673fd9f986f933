package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Listing pipeline metrics
var (
	ListingFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_fetches_total",
			Help: "Total number of listing fetches by wire format and terminal state.",
		},
		[]string{"format", "state"},
	)

	ListingParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_parse_failures_total",
			Help: "Total number of malformed upstream listing payloads.",
		},
		[]string{"format"},
	)

	ListingRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listing_records_per_page",
			Help:    "Number of normalized records per successful listing page.",
			Buckets: []float64{0, 1, 6, 12, 24, 48, 96},
		},
	)
)

func init() {
	prometheus.MustRegister(
		ListingFetchesTotal,
		ListingParseFailuresTotal,
		ListingRecords,
	)
}
