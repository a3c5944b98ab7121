package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// resolution pipeline.
type Metrics struct {
	Resolutions     *prometheus.CounterVec // labels: outcome={fixed,nearest,no_match,failure}
	ResolveDuration prometheus.Histogram

	// CEP lookup metrics.
	LookupRequests *prometheus.CounterVec // labels: outcome={hit,miss,error}
	LookupProbes   prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}

	RosterSize         prometheus.Gauge
	DecisionsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rep_locator",
			Name:      "resolutions_total",
			Help:      "Resolution requests by terminal outcome.",
		}, []string{"outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rep_locator",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of a complete resolution, including upstream calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rep_locator",
			Name:      "lookup_requests_total",
			Help:      "Per-candidate CEP lookup calls by outcome.",
		}, []string{"outcome"}),
		LookupProbes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rep_locator",
			Name:      "lookup_probes",
			Help:      "Number of candidate CEPs probed per request.",
			Buckets:   []float64{1, 2, 3, 5, 10, 15, 20, 25, 30},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rep_locator",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rep_locator",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rep_locator",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		RosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rep_locator",
			Name:      "roster_size",
			Help:      "Representatives currently loaded.",
		}),
		DecisionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rep_locator",
			Name:      "decisions_published_total",
			Help:      "Resolution decisions published to the analytics topic.",
		}),
	}

	prometheus.MustRegister(
		m.Resolutions,
		m.ResolveDuration,
		m.LookupRequests,
		m.LookupProbes,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.RosterSize,
		m.DecisionsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Resolutions:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rep_locator", Name: "resolutions_total"}, []string{"outcome"}),
		ResolveDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rep_locator", Name: "resolve_duration_seconds"}),
		LookupRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rep_locator", Name: "lookup_requests_total"}, []string{"outcome"}),
		LookupProbes:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rep_locator", Name: "lookup_probes"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rep_locator", Name: "geocode_requests_total"}, []string{"method", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rep_locator", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "rep_locator", Name: "geocode_api_duration_seconds"}, []string{"method"}),
		RosterSize:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rep_locator", Name: "roster_size"}),
		DecisionsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rep_locator", Name: "decisions_published_total"}),
	}
}
