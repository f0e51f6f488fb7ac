package relwatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/config"
	"github.com/roemer/relwatch/pkg/metrics"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

type fakeEngine struct {
	refreshes atomic.Int32
	products  []*common.ProductConfig
	releases  map[string]*common.ResolvedRelease
}

func (e *fakeEngine) RefreshAll(ctx context.Context) {
	e.refreshes.Add(1)
}

func (e *fakeEngine) Latest(ctx context.Context, productId string) (*common.ResolvedRelease, error) {
	if release, ok := e.releases[productId]; ok {
		return release, nil
	}
	return nil, &common.HttpStatusError{Url: "https://example.com", StatusCode: http.StatusNotFound}
}

func (e *fakeEngine) Resolve(ctx context.Context, productId string) (*common.ResolvedRelease, error) {
	return e.Latest(ctx, productId)
}

func (e *fakeEngine) Link(ctx context.Context, productId string, version string) (string, error) {
	return "https://docs.example.com/" + productId + "/" + version, nil
}

func (e *fakeEngine) Products() []*common.ProductConfig {
	return e.products
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrintReleaseTable(t *testing.T) {
	assert := assert.New(t)

	engine := &fakeEngine{
		products: []*common.ProductConfig{{Product: "mcr"}, {Product: "mke"}, {Product: "msr"}},
		releases: map[string]*common.ResolvedRelease{
			"mcr": {Product: "mcr", Version: "25.0.8", Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
			"msr": {Product: "msr", Version: "3.1.4"},
		},
	}

	out := &bytes.Buffer{}
	err := printReleaseTable(context.Background(), out, engine)
	assert.NoError(err)

	text := out.String()
	assert.Contains(text, "PRODUCT")
	assert.Contains(text, "25.0.8")
	assert.Contains(text, "2024-03-01")
	assert.Contains(text, "https://docs.example.com/mcr/25.0.8")
	assert.Contains(text, "3.1.4")
	assert.Contains(text, "error: http_status")
}

func TestRunSchedulerRefreshesUntilCancelled(t *testing.T) {
	assert := assert.New(t)

	engine := &fakeEngine{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runScheduler(ctx, discardLogger(), engine, 10*time.Millisecond)
	}()

	assert.Eventually(func() bool { return engine.refreshes.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(2 * time.Second):
		assert.Fail("scheduler did not stop")
	}
}

func TestStringSliceFlag(t *testing.T) {
	assert := assert.New(t)

	products := stringSliceFlag{}
	assert.NoError(products.Set("mcr, msr"))
	assert.NoError(products.Set("mke"))
	assert.NoError(products.Set(""))
	assert.Equal(stringSliceFlag{"mcr", "msr", "mke"}, products)
	assert.Equal("mcr; msr; mke", products.String())
}

func TestNewEngineFromConfig(t *testing.T) {
	assert := assert.New(t)

	relwatchConfig, err := config.Load(context.Background(), "preset:defaults", nil)
	assert.NoError(err)

	relwatchEngine, err := newEngineFromConfig(relwatchConfig, []string{"m{c,s}r"}, discardLogger(), nil)
	assert.NoError(err)
	if assert.NotNil(relwatchEngine) {
		assert.Equal([]string{"mcr", "msr"}, lo.Map(relwatchEngine.Products(), func(p *common.ProductConfig, _ int) string { return p.Product }))
	}

	_, err = newEngineFromConfig(relwatchConfig, []string{"nothing*"}, discardLogger(), nil)
	assert.ErrorContains(err, "no products")
}

func TestMetricsServer(t *testing.T) {
	assert := assert.New(t)

	registry := prometheus.NewRegistry()
	reporter := metrics.NewPrometheusReporter(registry)
	reporter.Failure("mke", common.FAILURE_CATEGORY_NETWORK, errors.New("boom"))

	server := newMetricsServer(":0", registry)
	testServer := httptest.NewServer(server.Handler)
	defer testServer.Close()

	resp, err := http.Get(testServer.URL + "/metrics")
	assert.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(err)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Contains(string(body), `relwatch_core_failures_total{category="network",product="mke"} 1`)
}
