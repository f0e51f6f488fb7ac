package config

import (
	"testing"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestMergeExtends(t *testing.T) {
	assert := assert.New(t)

	configA := &RelwatchConfig{
		Extends: []string{"extend_a", "extend_both"},
	}
	configB := &RelwatchConfig{
		Extends: []string{"extend_b", "extend_both"},
	}
	merged := configA.MergeWithAsCopy(configB)

	assert.Len(merged.Extends, 3)
	assert.Equal([]string{"extend_a", "extend_both", "extend_b"}, merged.Extends)
}

func TestMergeSettings(t *testing.T) {
	assert := assert.New(t)

	configA := &RelwatchConfig{
		CacheTtl:       "1h",
		RequestTimeout: "2s",
		Retries:        lo.ToPtr(5),
		Workers:        lo.ToPtr(2),
		MetricsAddress: ":9100",
	}
	configB := &RelwatchConfig{
		CacheTtl: "30m",
		Retries:  lo.ToPtr(0),
	}
	merged := configA.MergeWithAsCopy(configB)

	assert.Equal("30m", merged.CacheTtl)
	assert.Equal("2s", merged.RequestTimeout)
	assert.Equal(0, *merged.Retries)
	assert.Equal(2, *merged.Workers)
	assert.Equal(":9100", merged.MetricsAddress)

	// The sources are not modified
	assert.Equal(5, *configA.Retries)
	assert.Equal("1h", configA.CacheTtl)
}

func TestMergeHostRules(t *testing.T) {
	assert := assert.New(t)

	configA := &RelwatchConfig{
		HostRules: []*common.HostRule{{MatchHost: "example.com", Credentials: common.Credentials{Token: "a"}}},
	}
	configB := &RelwatchConfig{
		HostRules: []*common.HostRule{{MatchHost: "example.com", Credentials: common.Credentials{Token: "b"}}},
	}
	merged := configA.MergeWithAsCopy(configB)

	assert.Len(merged.HostRules, 2)
	hostRule := common.FindHostRule(merged.HostRules, "https://example.com/v2")
	assert.NotNil(hostRule)
	assert.Equal("b", hostRule.Token)
}

func TestMergeProducts(t *testing.T) {
	assert := assert.New(t)

	configA := &RelwatchConfig{
		Products: []*common.ProductConfig{
			{
				Product:      "msr",
				Kind:         common.SOURCE_KIND_CHART_INDEX,
				Registry:     "https://registry.mirantis.com",
				Repository:   "msr/msr",
				Branch:       "3.1",
				Repositories: []string{"msr/msr-a"},
			},
			{
				Product:  "mke",
				Kind:     common.SOURCE_KIND_REGISTRY_TAGS,
				Registry: "https://hub.docker.com",
			},
		},
	}
	configB := &RelwatchConfig{
		Products: []*common.ProductConfig{
			{
				Product:      "msr",
				Branch:       "4.0",
				Repositories: []string{"msr/msr-b"},
				Credentials:  &common.Credentials{Token: "${TOKEN}"},
				Link:         &common.LinkSettings{Family: common.LINK_FAMILY_PROBE, Templates: []string{"a", "b"}},
			},
			{
				Product:  "mke",
				Disabled: lo.ToPtr(true),
			},
			{
				Product: "custom",
				Kind:    common.SOURCE_KIND_JSON_RELEASE,
				Url:     "https://example.com/latest.json",
			},
		},
	}
	merged := configA.MergeWithAsCopy(configB)

	assert.Len(merged.Products, 3)
	msr := merged.GetProductById("msr")
	if assert.NotNil(msr) {
		assert.Equal(common.SOURCE_KIND_CHART_INDEX, msr.Kind)
		assert.Equal("msr/msr", msr.Repository)
		assert.Equal("4.0", msr.Branch)
		assert.Equal([]string{"msr/msr-a", "msr/msr-b"}, msr.Repositories)
		assert.Equal("${TOKEN}", msr.Credentials.Token)
		assert.Equal(common.LINK_FAMILY_PROBE, msr.Link.Family)
		assert.Equal([]string{"a", "b"}, msr.Link.Templates)
	}
	mke := merged.GetProductById("mke")
	if assert.NotNil(mke) {
		assert.True(mke.IsDisabled())
		assert.Equal("https://hub.docker.com", mke.Registry)
	}
	assert.NotNil(merged.GetProductById("custom"))

	// The source products are not modified
	assert.Equal("3.1", configA.Products[0].Branch)
	assert.False(configA.Products[1].IsDisabled())
}
