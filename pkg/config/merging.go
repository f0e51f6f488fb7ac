package config

import (
	"slices"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/samber/lo"
)

func (configA *RelwatchConfig) MergeWithAsCopy(configB *RelwatchConfig) *RelwatchConfig {
	merged := &RelwatchConfig{}
	merged.MergeWith(configA)
	merged.MergeWith(configB)
	return merged
}

func (configA *RelwatchConfig) MergeWith(configB *RelwatchConfig) {
	if configB == nil {
		return
	}
	// Extends
	configA.Extends = lo.Union(configA.Extends, configB.Extends)
	// Durations
	if configB.CacheTtl != "" {
		configA.CacheTtl = configB.CacheTtl
	}
	if configB.RefreshInterval != "" {
		configA.RefreshInterval = configB.RefreshInterval
	}
	if configB.RequestTimeout != "" {
		configA.RequestTimeout = configB.RequestTimeout
	}
	// Retries
	if configB.Retries != nil {
		configA.Retries = lo.ToPtr(*configB.Retries)
	}
	// Workers
	if configB.Workers != nil {
		configA.Workers = lo.ToPtr(*configB.Workers)
	}
	// MetricsAddress
	if configB.MetricsAddress != "" {
		configA.MetricsAddress = configB.MetricsAddress
	}
	// DocsBaseUrl
	if configB.DocsBaseUrl != "" {
		configA.DocsBaseUrl = configB.DocsBaseUrl
	}
	// Host Rules, the later ones take precedence so they are put in front
	configA.HostRules = append(slices.Clone(configB.HostRules), configA.HostRules...)
	// Products
	if configA.Products == nil {
		configA.Products = []*common.ProductConfig{}
	}
	for _, productB := range configB.Products {
		// Search for an existing product with the same id
		productAIndex := slices.IndexFunc(configA.Products, func(p *common.ProductConfig) bool { return p.Product == productB.Product })
		if productAIndex >= 0 {
			// Found one so merge it
			mergeProduct(configA.Products[productAIndex], productB)
		} else {
			// Not found, so add it
			newProduct := &common.ProductConfig{}
			mergeProduct(newProduct, productB)
			configA.Products = append(configA.Products, newProduct)
		}
	}
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func mergeProduct(productA, productB *common.ProductConfig) {
	if productB == nil {
		return
	}
	// Product
	productA.Product = productB.Product
	// Disabled
	if productB.Disabled != nil {
		productA.Disabled = lo.ToPtr(*productB.Disabled)
	}
	// Kind
	if productB.Kind != "" {
		productA.Kind = productB.Kind
	}
	// Repositories
	productA.Repositories = lo.Union(productA.Repositories, productB.Repositories)
	// Plain string fields
	mergeString(&productA.Repository, productB.Repository)
	mergeString(&productA.Registry, productB.Registry)
	mergeString(&productA.Channel, productB.Channel)
	mergeString(&productA.Component, productB.Component)
	mergeString(&productA.Branch, productB.Branch)
	mergeString(&productA.Url, productB.Url)
	mergeString(&productA.Chart, productB.Chart)
	mergeString(&productA.Extension, productB.Extension)
	mergeString(&productA.VersionSuffix, productB.VersionSuffix)
	mergeString(&productA.KeyPrefix, productB.KeyPrefix)
	// Credentials
	if productB.Credentials != nil {
		if productA.Credentials == nil {
			productA.Credentials = &common.Credentials{}
		}
		mergeString(&productA.Credentials.Username, productB.Credentials.Username)
		mergeString(&productA.Credentials.Password, productB.Credentials.Password)
		mergeString(&productA.Credentials.Token, productB.Credentials.Token)
	}
	// Link
	if productB.Link != nil {
		if productA.Link == nil {
			productA.Link = &common.LinkSettings{}
		}
		if productB.Link.Family != "" {
			productA.Link.Family = productB.Link.Family
		}
		if len(productB.Link.Templates) > 0 {
			productA.Link.Templates = slices.Clone(productB.Link.Templates)
		}
	}
}

func mergeString(target *string, value string) {
	if value != "" {
		*target = value
	}
}
