package common

import (
	"context"
	"time"
)

// This is the interface for the release engine.
type IEngine interface {
	// Resolves all products once.
	RefreshAll(ctx context.Context)
	// Gets the latest release of a product, from the cache if possible.
	Latest(ctx context.Context, productId string) (*ResolvedRelease, error)
	// Resolves the latest release of a product and stores it in the cache.
	Resolve(ctx context.Context, productId string) (*ResolvedRelease, error)
	// Gets the release notes link for a product version.
	Link(ctx context.Context, productId string, version string) (string, error)
	// Gets all configured products.
	Products() []*ProductConfig
}

// This is the interface that needs to be implemented by all sources.
type ISource interface {
	// Gets the kind of the source.
	Kind() SourceKind
	// Gets the product the source was created for.
	Product() *ProductConfig
	// Gets all release candidates from the upstream.
	GetReleases(ctx context.Context) ([]*ReleaseCandidate, error)
}

// Receives events for logging and metrics.
type IReporter interface {
	Failure(productId string, category FailureCategory, err error)
	CacheLookup(productId string, hit bool)
	Resolved(productId string, version string, duration time.Duration)
}
