package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Searches the metric with the given labels in the gathered families.
func findMetric(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matches := true
			for _, label := range metric.GetLabel() {
				if expected, ok := labels[label.GetName()]; ok && expected != label.GetValue() {
					matches = false
				}
			}
			if matches {
				return metric
			}
		}
	}
	return nil
}

func TestPrometheusReporter(t *testing.T) {
	assert := assert.New(t)

	registry := prometheus.NewRegistry()
	reporter := NewPrometheusReporter(registry)

	reporter.Failure("mke", common.FAILURE_CATEGORY_NETWORK, errors.New("refused"))
	reporter.Failure("mke", common.FAILURE_CATEGORY_NETWORK, errors.New("refused"))
	reporter.CacheLookup("mke", true)
	reporter.CacheLookup("mke", false)
	reporter.Resolved("mke", "3.7.1", 250*time.Millisecond)

	failures := findMetric(t, registry, "relwatch_core_failures_total", map[string]string{"product": "mke", "category": "network"})
	require.NotNil(t, failures)
	assert.Equal(2.0, failures.GetCounter().GetValue())

	hits := findMetric(t, registry, "relwatch_core_cache_lookups_total", map[string]string{"product": "mke", "result": ResultHit})
	require.NotNil(t, hits)
	assert.Equal(1.0, hits.GetCounter().GetValue())

	resolutions := findMetric(t, registry, "relwatch_core_resolutions_total", map[string]string{"product": "mke"})
	require.NotNil(t, resolutions)
	assert.Equal(1.0, resolutions.GetCounter().GetValue())

	duration := findMetric(t, registry, "relwatch_core_resolution_duration_seconds", map[string]string{"product": "mke"})
	require.NotNil(t, duration)
	assert.Equal(uint64(1), duration.GetHistogram().GetSampleCount())
}

func TestSeparateRegistries(t *testing.T) {
	assert := assert.New(t)

	assert.NotPanics(func() {
		NewPrometheusReporter(prometheus.NewRegistry())
		NewPrometheusReporter(prometheus.NewRegistry())
	})
}
