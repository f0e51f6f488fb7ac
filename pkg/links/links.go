package links

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roemer/relwatch/pkg/cache"
	"github.com/roemer/relwatch/pkg/common"
)

// Builds release notes links for product versions.
type Resolver struct {
	logger  *slog.Logger
	http    *common.HttpUtil
	cache   *cache.ReleaseCache
	baseUrl string
}

func NewResolver(logger *slog.Logger, httpUtil *common.HttpUtil, releaseCache *cache.ReleaseCache, docsBaseUrl string) *Resolver {
	if docsBaseUrl == "" {
		docsBaseUrl = common.DefaultDocsBaseUrl
	}
	return &Resolver{
		logger:  logger,
		http:    httpUtil,
		cache:   releaseCache,
		baseUrl: strings.TrimSuffix(docsBaseUrl, "/"),
	}
}

// Gets the release notes link for the version of the product.
func (r *Resolver) ResolveLink(ctx context.Context, product *common.ProductConfig, version string) string {
	templates := product.LinkTemplates()
	family := product.LinkFamily()
	if family == common.LINK_FAMILY_PROBE {
		if len(templates) >= 2 {
			return r.resolveProbe(ctx, product, version, templates[0], templates[1])
		}
		r.logger.Warn(fmt.Sprintf("Product '%s' uses the probe family with less than two templates, using the docs family", product.Product))
		family = common.LINK_FAMILY_DOCS
	}
	if len(templates) > 0 {
		return ExpandTemplate(templates[0], product.Product, version)
	}
	return ExpandTemplate(r.defaultTemplate(family), product.Product, version)
}

// Replaces the placeholders {product}, {series}, {version} and {dashed} in the template.
func ExpandTemplate(template string, productId string, version string) string {
	return strings.NewReplacer(
		"{product}", productId,
		"{series}", Series(version),
		"{version}", version,
		"{dashed}", Dashed(version),
	).Replace(template)
}

// Gets the "major.minor" part of a version.
func Series(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

// Gets the version with all dots replaced by dashes.
func Dashed(version string) string {
	return strings.ReplaceAll(version, ".", "-")
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (r *Resolver) defaultTemplate(family common.LinkFamily) string {
	switch family {
	case common.LINK_FAMILY_DOCS_FLAT:
		return r.baseUrl + "/container-cloud/latest/release-notes/releases/{dashed}.html"
	case common.LINK_FAMILY_DOCS_SERIES:
		return r.baseUrl + "/mosk/latest/release-notes/{series}-series/{version}.html"
	}
	return r.baseUrl + "/{product}/{series}/release-notes/{dashed}.html"
}

// Uses the first template if it answers with success, otherwise the second one.
// Definite answers are cached, network failures are not.
func (r *Resolver) resolveProbe(ctx context.Context, product *common.ProductConfig, version string, primaryTemplate string, fallbackTemplate string) string {
	if link, ok := r.cache.GetLink(product.Product, version); ok {
		return link
	}
	primary := ExpandTemplate(primaryTemplate, product.Product, version)
	fallback := ExpandTemplate(fallbackTemplate, product.Product, version)

	r.logger.Debug(fmt.Sprintf("Probing link '%s'", primary))
	response, err := r.http.Fetch(ctx, primary)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("Failed probing link '%s': %s", primary, err.Error()))
		return fallback
	}
	link := fallback
	if response.IsSuccess() {
		link = primary
	}
	r.cache.SetLink(product.Product, version, link)
	return link
}
