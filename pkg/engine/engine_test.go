package engine

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roemer/relwatch/pkg/cache"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu          sync.Mutex
	failures    map[string][]common.FailureCategory
	hits        int
	misses      int
	resolutions int
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{failures: map[string][]common.FailureCategory{}}
}

func (r *recordingReporter) Failure(productId string, category common.FailureCategory, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[productId] = append(r.failures[productId], category)
}

func (r *recordingReporter) CacheLookup(productId string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingReporter) Resolved(productId string, version string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions++
}

// A fake upstream serving a chart index for "msr" and a tag listing for "mke".
type upstream struct {
	server       *httptest.Server
	chartFails   atomic.Bool
	chartQueries atomic.Int32
}

func newUpstream() *upstream {
	u := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/charts/msr/msr/index.yaml", func(w http.ResponseWriter, r *http.Request) {
		u.chartQueries.Add(1)
		if u.chartFails.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "entries:\n  msr:\n  - appVersion: 3.1.4\n    created: \"2023-10-01T12:00:00Z\"\n  - appVersion: 3.2.0\n    created: \"2023-11-01T12:00:00Z\"\n")
	})
	mux.HandleFunc("/v2/repositories/mirantis/ucp/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	u.server = httptest.NewServer(mux)
	return u
}

func (u *upstream) products() []*common.ProductConfig {
	return []*common.ProductConfig{
		{Product: "msr", Kind: common.SOURCE_KIND_CHART_INDEX, Registry: u.server.URL, Repository: "msr/msr", Branch: "3.1"},
		{Product: "mke", Kind: common.SOURCE_KIND_REGISTRY_TAGS, Registry: u.server.URL, Repository: "mirantis/ucp"},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, products []*common.ProductConfig, reporter common.IReporter, clock *testClock) *Engine {
	httpUtil := common.NewHttpUtil(2*time.Second, 0)
	engine, err := NewEngine(products, &Settings{
		Logger:       slog.Default(),
		Http:         httpUtil,
		CacheTtl:     time.Hour,
		Workers:      2,
		Reporter:     reporter,
		CacheOptions: []cache.Option{cache.WithClock(clock.Now)},
	})
	require.NoError(t, err)
	return engine
}

func TestRefreshAllIsolatesFailures(t *testing.T) {
	assert := assert.New(t)
	upstream := newUpstream()
	defer upstream.server.Close()

	reporter := newRecordingReporter()
	engine := newTestEngine(t, upstream.products(), reporter, &testClock{now: time.Now()})
	engine.RefreshAll(t.Context())

	release, err := engine.Latest(t.Context(), "msr")
	require.NoError(t, err)
	assert.Equal("3.1.4", release.Version)
	assert.Equal(time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC), release.Timestamp)

	assert.Equal([]common.FailureCategory{common.FAILURE_CATEGORY_HTTP_STATUS}, reporter.failures["mke"])
	assert.Equal(1, reporter.resolutions)
	assert.Equal(1, reporter.hits)
}

func TestLatestUsesCacheAndStaleFallback(t *testing.T) {
	assert := assert.New(t)
	upstream := newUpstream()
	defer upstream.server.Close()

	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	reporter := newRecordingReporter()
	engine := newTestEngine(t, upstream.products()[:1], reporter, clock)

	release, err := engine.Latest(t.Context(), "msr")
	require.NoError(t, err)
	assert.Equal("3.1.4", release.Version)
	assert.Equal(1, reporter.misses)

	_, err = engine.Latest(t.Context(), "msr")
	require.NoError(t, err)
	assert.Equal(1, reporter.hits)
	assert.Equal(int32(1), upstream.chartQueries.Load())

	// Expired and the upstream fails: the stale value is kept and served
	clock.Advance(2 * time.Hour)
	upstream.chartFails.Store(true)
	release, err = engine.Latest(t.Context(), "msr")
	require.NoError(t, err)
	assert.Equal("3.1.4", release.Version)
	assert.Equal(int32(2), upstream.chartQueries.Load())
	assert.Equal([]common.FailureCategory{common.FAILURE_CATEGORY_HTTP_STATUS}, reporter.failures["msr"])
}

func TestLatestWithoutAnyRelease(t *testing.T) {
	assert := assert.New(t)
	upstream := newUpstream()
	defer upstream.server.Close()

	engine := newTestEngine(t, upstream.products()[1:], nil, &testClock{now: time.Now()})
	release, err := engine.Latest(t.Context(), "mke")
	assert.Error(err)
	assert.Nil(release)

	_, err = engine.Latest(t.Context(), "unknown")
	assert.ErrorIs(err, ErrUnknownProduct)
}

func TestNoCandidatesIsReported(t *testing.T) {
	assert := assert.New(t)
	upstream := newUpstream()
	defer upstream.server.Close()

	products := upstream.products()[:1]
	products[0].Branch = "4.0"
	reporter := newRecordingReporter()
	engine := newTestEngine(t, products, reporter, &testClock{now: time.Now()})

	_, err := engine.Resolve(t.Context(), "msr")
	assert.ErrorIs(err, common.ErrNoCandidates)
	assert.Equal([]common.FailureCategory{common.FAILURE_CATEGORY_NO_CANDIDATES}, reporter.failures["msr"])
}

func TestNewEngineRejectsInvalidProducts(t *testing.T) {
	assert := assert.New(t)

	_, err := NewEngine([]*common.ProductConfig{{Product: "x", Kind: "ftp"}}, &Settings{})
	assert.Error(err)

	duplicate := &common.ProductConfig{Product: "mcc", Kind: common.SOURCE_KIND_JSON_RELEASE, Url: "https://example"}
	_, err = NewEngine([]*common.ProductConfig{duplicate, duplicate}, &Settings{})
	assert.Error(err)
}

func TestLink(t *testing.T) {
	assert := assert.New(t)

	engine, err := NewEngine([]*common.ProductConfig{
		{Product: "mke", Kind: common.SOURCE_KIND_REGISTRY_TAGS, Registry: "https://hub.docker.com", Repository: "mirantis/ucp"},
	}, &Settings{})
	require.NoError(t, err)

	link, err := engine.Link(t.Context(), "mke", "3.7.1")
	assert.NoError(err)
	assert.Equal("https://docs.mirantis.com/mke/3.7/release-notes/3-7-1.html", link)
	assert.Len(engine.Products(), 1)
}
