package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roemer/relwatch/pkg/common"
)

const (
	Namespace = "relwatch"
	Subsystem = "core"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Reporter which records the events as prometheus metrics.
type PrometheusReporter struct {
	failures           *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
}

// Creates the reporter and registers its metrics with the registerer.
func NewPrometheusReporter(registerer prometheus.Registerer) *PrometheusReporter {
	reporter := &PrometheusReporter{
		failures: mustRegisterCounterVec(registerer, "failures_total",
			"Number of failed resolutions and warnings per product and category.", "product", "category"),
		cacheLookups: mustRegisterCounterVec(registerer, "cache_lookups_total",
			"Number of release cache lookups per product and result.", "product", "result"),
		resolutions: mustRegisterCounterVec(registerer, "resolutions_total",
			"Number of successful resolutions per product.", "product"),
		resolutionDuration: mustRegisterHistogramVec(registerer, "resolution_duration_seconds",
			"Duration of successful resolutions per product.", prometheus.DefBuckets, "product"),
	}
	return reporter
}

func (r *PrometheusReporter) Failure(productId string, category common.FailureCategory, err error) {
	r.failures.WithLabelValues(productId, string(category)).Inc()
}

func (r *PrometheusReporter) CacheLookup(productId string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	r.cacheLookups.WithLabelValues(productId, result).Inc()
}

func (r *PrometheusReporter) Resolved(productId string, version string, duration time.Duration) {
	r.resolutions.WithLabelValues(productId).Inc()
	r.resolutionDuration.WithLabelValues(productId).Observe(duration.Seconds())
}

// Reporter that ignores all events.
type NopReporter struct{}

func (NopReporter) Failure(productId string, category common.FailureCategory, err error) {}
func (NopReporter) CacheLookup(productId string, hit bool)                               {}
func (NopReporter) Resolved(productId string, version string, duration time.Duration)   {}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func mustRegisterCounterVec(registerer prometheus.Registerer, name, help string, labelNames ...string) *prometheus.CounterVec {
	m := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      name,
		Help:      help,
	}, labelNames)
	registerer.MustRegister(m)
	return m
}

func mustRegisterHistogramVec(registerer prometheus.Registerer, name, help string, buckets []float64, labelNames ...string) *prometheus.HistogramVec {
	m := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
	registerer.MustRegister(m)
	return m
}
