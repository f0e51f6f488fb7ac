package links

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roemer/relwatch/pkg/cache"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	httpUtil := common.NewHttpUtil(time.Second, 0)
	return NewResolver(slog.Default(), httpUtil, cache.NewReleaseCache(time.Hour), "")
}

func TestDefaultFamilies(t *testing.T) {
	assert := assert.New(t)
	resolver := newTestResolver()

	assert.Equal("https://docs.mirantis.com/mke/3.7/release-notes/3-7-1.html",
		resolver.ResolveLink(t.Context(), &common.ProductConfig{Product: "mke"}, "3.7.1"))
	assert.Equal("https://docs.mirantis.com/container-cloud/latest/release-notes/releases/2-26-3.html",
		resolver.ResolveLink(t.Context(), &common.ProductConfig{Product: "mcc"}, "2.26.3"))
	assert.Equal("https://docs.mirantis.com/mosk/latest/release-notes/24.1-series/24.1.2.html",
		resolver.ResolveLink(t.Context(), &common.ProductConfig{Product: "mosk"}, "24.1.2"))
}

func TestConfiguredTemplate(t *testing.T) {
	assert := assert.New(t)
	resolver := newTestResolver()

	product := &common.ProductConfig{
		Product: "msr",
		Link:    &common.LinkSettings{Templates: []string{"https://notes.example/{product}/{series}/{version}"}},
	}
	assert.Equal("https://notes.example/msr/3.1/3.1.4", resolver.ResolveLink(t.Context(), product, "3.1.4"))
}

func TestProbeUsesPrimaryOnSuccessAndCaches(t *testing.T) {
	assert := assert.New(t)

	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		if r.URL.Path == "/t/release-1-2-3" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := newTestResolver()
	product := &common.ProductConfig{
		Product: "lens",
		Link: &common.LinkSettings{
			Family:    common.LINK_FAMILY_PROBE,
			Templates: []string{server.URL + "/t/release-{dashed}", server.URL + "/t/{product}-{dashed}"},
		},
	}

	assert.Equal(server.URL+"/t/release-1-2-3", resolver.ResolveLink(t.Context(), product, "1.2.3"))
	assert.Equal(server.URL+"/t/release-1-2-3", resolver.ResolveLink(t.Context(), product, "1.2.3"))
	assert.Equal(int32(1), probes.Load())

	assert.Equal(server.URL+"/t/lens-1-2-4", resolver.ResolveLink(t.Context(), product, "1.2.4"))
	assert.Equal(int32(2), probes.Load())
}

func TestSeriesAndDashed(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("3.1", Series("3.1.4"))
	assert.Equal("3", Series("3"))
	assert.Equal("3-1-4", Dashed("3.1.4"))
}
