package config

import (
	"github.com/roemer/relwatch/pkg/common"
)

// This type represents the relwatch config object.
type RelwatchConfig struct {
	// A list of presets to also load before loading this config. All configs are merged together.
	Extends []string `json:"extends" yaml:"extends"`
	// How long a resolved release stays fresh (eg. "24h").
	CacheTtl string `json:"cacheTtl" yaml:"cacheTtl"`
	// The interval in which all products are refreshed (eg. "12h").
	RefreshInterval string `json:"refreshInterval" yaml:"refreshInterval"`
	// The timeout for a single upstream request (eg. "5s").
	RequestTimeout string `json:"requestTimeout" yaml:"requestTimeout"`
	// How many times a failed request is repeated.
	Retries *int `json:"retries" yaml:"retries"`
	// The maximum number of products resolved in parallel.
	Workers *int `json:"workers" yaml:"workers"`
	// The address for the metrics endpoint. Empty disables it.
	MetricsAddress string `json:"metricsAddress" yaml:"metricsAddress"`
	// The base url for the documentation links.
	DocsBaseUrl string `json:"docsBaseUrl" yaml:"docsBaseUrl"`
	// A list of rules that can apply to hosts.
	HostRules []*common.HostRule `json:"hostRules" yaml:"hostRules"`
	// The products to track.
	Products []*common.ProductConfig `json:"products" yaml:"products"`
}
