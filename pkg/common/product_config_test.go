package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert := assert.New(t)

	mcr := &ProductConfig{Product: "mcr", Repository: "https://repos.mirantis.com", Channel: "stable", Component: "docker"}
	assert.Equal("mcr_https://repos.mirantis.com_stable_docker", mcr.CacheKey())

	msr := &ProductConfig{Product: "msr", Repository: "msr/msr", Registry: "https://registry.mirantis.com", Branch: "3.1"}
	assert.Equal("msr_msr/msr_https://registry.mirantis.com_3.1", msr.CacheKey())

	withPrefix := &ProductConfig{KeyPrefix: "v2", Product: "mke", Repository: "mirantis/ucp"}
	assert.Equal("v2_mke_mirantis/ucp", withPrefix.CacheKey())
}

func TestCacheKeyIgnoresCredentials(t *testing.T) {
	assert := assert.New(t)

	anonymous := &ProductConfig{Product: "mke", Repository: "mirantis/ucp", Registry: "https://hub.docker.com"}
	withCredentials := *anonymous
	withCredentials.Credentials = &Credentials{Username: "user", Password: "pass"}
	assert.Equal(anonymous.CacheKey(), withCredentials.CacheKey())
}

func TestLinkFamilyDefaults(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(LINK_FAMILY_DOCS, (&ProductConfig{Product: "mke"}).LinkFamily())
	assert.Equal(LINK_FAMILY_DOCS_FLAT, (&ProductConfig{Product: "mcc"}).LinkFamily())
	assert.Equal(LINK_FAMILY_DOCS_SERIES, (&ProductConfig{Product: "mosk"}).LinkFamily())
	assert.Equal(LINK_FAMILY_PROBE, (&ProductConfig{Product: "mke", Link: &LinkSettings{Family: LINK_FAMILY_PROBE}}).LinkFamily())
}

func TestArtifactPaths(t *testing.T) {
	assert := assert.New(t)

	product := &ProductConfig{Repository: "mirantis/ucp", Repositories: []string{"docker/ucp", "mirantis/ucp"}}
	assert.Equal([]string{"mirantis/ucp", "docker/ucp"}, product.ArtifactPaths())
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError((&ProductConfig{Product: "mke", Kind: SOURCE_KIND_REGISTRY_TAGS, Registry: "https://hub.docker.com", Repository: "mirantis/ucp"}).Validate())
	assert.Error((&ProductConfig{Product: "mke", Kind: SOURCE_KIND_REGISTRY_TAGS, Repository: "mirantis/ucp"}).Validate())
	assert.Error((&ProductConfig{Product: "mke", Kind: "unknown"}).Validate())
	assert.Error((&ProductConfig{Kind: SOURCE_KIND_JSON_RELEASE, Url: "https://example"}).Validate())
}

func TestCategoryOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(FAILURE_CATEGORY_NO_CANDIDATES, CategoryOf(fmt.Errorf("wrapped: %w", ErrNoCandidates)))
	assert.Equal(FAILURE_CATEGORY_PARSE, CategoryOf(&ParseError{Subject: "x", Err: errors.New("bad")}))
	assert.Equal(FAILURE_CATEGORY_NETWORK, CategoryOf(&NetworkError{Url: "u", Err: errors.New("refused")}))
	assert.Equal(FAILURE_CATEGORY_AUTH, CategoryOf(&AuthError{Registry: "r", Err: &HttpStatusError{StatusCode: 401}}))
	assert.Equal(FAILURE_CATEGORY_UNKNOWN, CategoryOf(errors.New("other")))
}
