package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/samber/lo"
)

// This method processes the config object. This should be called on any config object just after loading.
func (c *RelwatchConfig) PostLoadProcess() error {
	// Remove empty entries
	c.Products = lo.Filter(c.Products, func(product *common.ProductConfig, _ int) bool { return product != nil })
	c.HostRules = lo.Filter(c.HostRules, func(hostRule *common.HostRule, _ int) bool { return hostRule != nil })

	// Normalize the products
	for _, product := range c.Products {
		product.Product = strings.TrimSpace(product.Product)
		product.Kind = common.SourceKind(strings.ToLower(strings.TrimSpace(string(product.Kind))))
		product.Registry = strings.TrimSuffix(product.Registry, "/")
		if product.Product == "" {
			return fmt.Errorf("a product without id was found")
		}
	}

	// Check the durations
	for name, value := range map[string]string{
		"cacheTtl":        c.CacheTtl,
		"refreshInterval": c.RefreshInterval,
		"requestTimeout":  c.RequestTimeout,
	} {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("invalid value for '%s': %w", name, err)
		}
	}
	if c.Retries != nil && *c.Retries < 0 {
		return fmt.Errorf("invalid value for 'retries': %d", *c.Retries)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("invalid value for 'workers': %d", *c.Workers)
	}
	return nil
}

// Gets the cache ttl or the default.
func (c *RelwatchConfig) GetCacheTtl() time.Duration {
	return durationOrDefault(c.CacheTtl, common.DefaultCacheTtl)
}

// Gets the refresh interval or the default.
func (c *RelwatchConfig) GetRefreshInterval() time.Duration {
	return durationOrDefault(c.RefreshInterval, common.DefaultRefreshInterval)
}

// Gets the request timeout or the default.
func (c *RelwatchConfig) GetRequestTimeout() time.Duration {
	return durationOrDefault(c.RequestTimeout, common.DefaultRequestTimeout)
}

func (c *RelwatchConfig) GetRetries() int {
	if c.Retries == nil {
		return common.DefaultRetries
	}
	return *c.Retries
}

func (c *RelwatchConfig) GetWorkers() int {
	if c.Workers == nil {
		return common.DefaultWorkers
	}
	return *c.Workers
}

func (c *RelwatchConfig) GetDocsBaseUrl() string {
	if c.DocsBaseUrl == "" {
		return common.DefaultDocsBaseUrl
	}
	return strings.TrimSuffix(c.DocsBaseUrl, "/")
}

// Gets the product with the given id.
func (c *RelwatchConfig) GetProductById(productId string) *common.ProductConfig {
	product, _ := lo.Find(c.Products, func(product *common.ProductConfig) bool { return product.Product == productId })
	return product
}

// Gets all enabled products whose id matches at least one of the given glob patterns.
// Without patterns, all enabled products are returned.
func (c *RelwatchConfig) FilterProducts(patterns ...string) ([]*common.ProductConfig, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid product pattern '%s'", pattern)
		}
	}
	return lo.Filter(c.Products, func(product *common.ProductConfig, _ int) bool {
		if product.IsDisabled() {
			return false
		}
		isMatch, _ := common.MatchesAnyPattern(product.Product, patterns...)
		return isMatch
	}), nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("negative duration '%s'", value)
	}
	return duration, nil
}

func durationOrDefault(value string, defaultValue time.Duration) time.Duration {
	duration, err := parseDuration(value)
	if err != nil || duration == 0 {
		return defaultValue
	}
	return duration
}
