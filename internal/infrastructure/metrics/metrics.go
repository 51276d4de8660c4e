package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit or miss)",
		},
		[]string{"outcome"},
	)

	upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Upstream flight API calls by kind (search or booking)",
		},
		[]string{"kind"},
	)

	enrichmentFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_failures_total",
			Help: "Per-candidate enrichment failures dropped from results",
		},
	)

	comboRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_combo_requests_total",
			Help: "Offer combo computations by outcome (found or none)",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups, upstreamCalls, enrichmentFailures, comboRequests)
}

// CacheLookups returns the cache lookup counter for wiring into the cache service.
func CacheLookups() *prometheus.CounterVec { return cacheLookups }

// UpstreamCalls returns the upstream call counter.
func UpstreamCalls() *prometheus.CounterVec { return upstreamCalls }

// EnrichmentFailures returns the dropped-candidate counter.
func EnrichmentFailures() prometheus.Counter { return enrichmentFailures }

// ComboRequests returns the combo computation counter.
func ComboRequests() *prometheus.CounterVec { return comboRequests }
