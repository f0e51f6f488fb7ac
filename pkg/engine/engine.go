package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roemer/relwatch/pkg/cache"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/links"
	"github.com/roemer/relwatch/pkg/metrics"
	"github.com/roemer/relwatch/pkg/selector"
	"github.com/roemer/relwatch/pkg/sources"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownProduct = errors.New("unknown product")

var _ common.IEngine = (*Engine)(nil)

type Settings struct {
	// The logger to use for the engine.
	Logger *slog.Logger
	// The http client used by all sources.
	Http *common.HttpUtil
	// Host rules for credentials.
	HostRules []*common.HostRule
	// How long a resolved release stays fresh.
	CacheTtl time.Duration
	// The maximum number of products resolved in parallel.
	Workers int
	// Receives failures, cache lookups and resolutions. Optional.
	Reporter common.IReporter
	// The base url for the documentation links.
	DocsBaseUrl string
	// Options for the release cache, eg. a custom clock.
	CacheOptions []cache.Option
}

type trackedProduct struct {
	config *common.ProductConfig
	source common.ISource
}

// Resolves the latest releases of all configured products and keeps them in the cache.
type Engine struct {
	logger   *slog.Logger
	workers  int
	reporter common.IReporter
	cache    *cache.ReleaseCache
	links    *links.Resolver
	products []*trackedProduct
	byId     map[string]*trackedProduct
}

// Creates the engine and a source for every product. Invalid products are an error.
func NewEngine(products []*common.ProductConfig, settings *Settings) (*Engine, error) {
	if settings.Logger == nil {
		settings.Logger = slog.Default()
	}
	if settings.Http == nil {
		settings.Http = common.NewHttpUtil(common.DefaultRequestTimeout, common.DefaultRetries)
	}
	if settings.CacheTtl <= 0 {
		settings.CacheTtl = common.DefaultCacheTtl
	}
	if settings.Workers <= 0 {
		settings.Workers = common.DefaultWorkers
	}
	reporter := settings.Reporter
	if reporter == nil {
		reporter = metrics.NopReporter{}
	}

	releaseCache := cache.NewReleaseCache(settings.CacheTtl, settings.CacheOptions...)
	engine := &Engine{
		logger:   settings.Logger,
		workers:  settings.Workers,
		reporter: reporter,
		cache:    releaseCache,
		links:    links.NewResolver(settings.Logger, settings.Http, releaseCache, settings.DocsBaseUrl),
		byId:     map[string]*trackedProduct{},
	}

	sourceSettings := &common.SourceSettings{
		Logger:    settings.Logger,
		HostRules: settings.HostRules,
		Http:      settings.Http,
		Reporter:  reporter,
	}
	for _, product := range products {
		if err := product.Validate(); err != nil {
			return nil, err
		}
		if _, exists := engine.byId[product.Product]; exists {
			return nil, fmt.Errorf("product '%s' is defined more than once", product.Product)
		}
		source, err := sources.GetSource(product, sourceSettings)
		if err != nil {
			return nil, err
		}
		tracked := &trackedProduct{config: product, source: source}
		engine.products = append(engine.products, tracked)
		engine.byId[product.Product] = tracked
	}
	return engine, nil
}

// Resolves all products with a bounded number of workers. Failures are reported per product.
func (e *Engine) RefreshAll(ctx context.Context) {
	e.logger.Info(fmt.Sprintf("Refreshing %d product(s)", len(e.products)))
	startTime := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for _, product := range e.products {
		g.Go(func() error {
			// Errors are already reported, one product must not stop the others
			_, _ = e.Resolve(ctx, product.config.Product)
			return nil
		})
	}
	_ = g.Wait()
	e.logger.Info(fmt.Sprintf("Refresh finished in %s", time.Since(startTime).Round(time.Millisecond)))
}

// Resolves the latest release of the product and stores it in the cache.
// On failure the previously stored release (if any) is returned together with the error.
func (e *Engine) Resolve(ctx context.Context, productId string) (*common.ResolvedRelease, error) {
	product, ok := e.byId[productId]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownProduct, productId)
	}
	logger := e.logger.With(slog.String("product", productId))

	return e.cache.ResolveAndStore(product.config.CacheKey(), func() (*common.ResolvedRelease, error) {
		startTime := time.Now()
		release, err := e.resolveProduct(ctx, product)
		if err != nil {
			category := common.CategoryOf(err)
			logger.Warn(fmt.Sprintf("Failed resolving the latest release: %s", err.Error()), slog.String("category", string(category)))
			e.reporter.Failure(productId, category, err)
			return nil, err
		}
		duration := time.Since(startTime)
		logger.Info(fmt.Sprintf("Resolved version %s", release.Version), slog.Duration("duration", duration))
		e.reporter.Resolved(productId, release.Version, duration)
		return release, nil
	})
}

// Gets the latest release of the product. Uses the cache if it is fresh, otherwise resolves the
// release and falls back to a stale cache entry if that fails.
func (e *Engine) Latest(ctx context.Context, productId string) (*common.ResolvedRelease, error) {
	product, ok := e.byId[productId]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownProduct, productId)
	}
	key := product.config.CacheKey()
	if release, ok := e.cache.Get(key); ok {
		e.reporter.CacheLookup(productId, true)
		return release, nil
	}
	e.reporter.CacheLookup(productId, false)

	release, err := e.Resolve(ctx, productId)
	if err == nil {
		return release, nil
	}
	if stale, ok := e.cache.Peek(key); ok {
		e.logger.Debug(fmt.Sprintf("Using stale release %s", stale.Version), slog.String("product", productId))
		return stale, nil
	}
	return nil, err
}

// Gets the release notes link for the version of the product.
func (e *Engine) Link(ctx context.Context, productId string, version string) (string, error) {
	product, ok := e.byId[productId]
	if !ok {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownProduct, productId)
	}
	return e.links.ResolveLink(ctx, product.config, version), nil
}

// Gets the configured products in their configured order.
func (e *Engine) Products() []*common.ProductConfig {
	products := make([]*common.ProductConfig, 0, len(e.products))
	for _, product := range e.products {
		products = append(products, product.config)
	}
	return products
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (e *Engine) resolveProduct(ctx context.Context, product *trackedProduct) (*common.ResolvedRelease, error) {
	candidates, err := product.source.GetReleases(ctx)
	if err != nil {
		return nil, err
	}
	selected := selector.Select(candidates, product.config.Branch)
	if selected == nil {
		return nil, fmt.Errorf("%d candidate(s) for branch '%s': %w", len(candidates), product.config.Branch, common.ErrNoCandidates)
	}
	return &common.ResolvedRelease{
		Product:   product.config.Product,
		Version:   selected.Version,
		Timestamp: selected.Timestamp,
	}, nil
}
