package common

import (
	"fmt"
	"strings"
)

// The link settings of a product.
type LinkSettings struct {
	// The family of the link. Defaults to a family derived from the product id.
	Family LinkFamily `json:"family" yaml:"family"`
	// Templates for the link. The probe family uses the first one when it answers and the second one otherwise.
	Templates []string `json:"templates" yaml:"templates"`
}

// The configuration of a tracked product.
type ProductConfig struct {
	// The unique id of the product.
	Product string `json:"product" yaml:"product"`
	// Allows disabling a product, eg. one that comes from a preset.
	Disabled *bool `json:"disabled" yaml:"disabled"`
	// The kind of source where the releases are published.
	Kind SourceKind `json:"kind" yaml:"kind"`
	// The primary artifact path inside the source.
	Repository string `json:"repository" yaml:"repository"`
	// Alternative artifact paths which are tried in order.
	Repositories []string `json:"repositories" yaml:"repositories"`
	// The base url of the registry.
	Registry string `json:"registry" yaml:"registry"`
	// The release channel (eg. stable).
	Channel string `json:"channel" yaml:"channel"`
	// The component name used in file names.
	Component string `json:"component" yaml:"component"`
	// An optional "major.minor" release line.
	Branch string `json:"branch" yaml:"branch"`
	// A fixed url to fetch from.
	Url string `json:"url" yaml:"url"`
	// The chart name inside a chart index.
	Chart string `json:"chart" yaml:"chart"`
	// The file extension of released artifacts.
	Extension string `json:"extension" yaml:"extension"`
	// A suffix which is stripped from the version (eg. -latest).
	VersionSuffix string `json:"versionSuffix" yaml:"versionSuffix"`
	// An optional prefix for the cache key.
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
	// Optional credentials for the source.
	Credentials *Credentials `json:"credentials" yaml:"credentials"`
	// Settings for the release notes link.
	Link *LinkSettings `json:"link" yaml:"link"`
}

// Builds the cache key of the product. Credentials never take part in the key.
func (pc *ProductConfig) CacheKey() string {
	parts := []string{}
	for _, part := range []string{pc.KeyPrefix, pc.Product, pc.Repository, pc.Channel, pc.Component, pc.Registry, pc.Branch, pc.Url} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "_")
}

// Checks if the product is disabled.
func (pc *ProductConfig) IsDisabled() bool {
	return pc.Disabled != nil && *pc.Disabled
}

// Gets all artifact paths of the product in the order they should be tried.
func (pc *ProductConfig) ArtifactPaths() []string {
	paths := []string{}
	if pc.Repository != "" {
		paths = append(paths, pc.Repository)
	}
	for _, repository := range pc.Repositories {
		if repository != "" && repository != pc.Repository {
			paths = append(paths, repository)
		}
	}
	return paths
}

// Gets the link family of the product, derived from the product id if not set.
func (pc *ProductConfig) LinkFamily() LinkFamily {
	if pc.Link != nil && pc.Link.Family != "" {
		return pc.Link.Family
	}
	switch pc.Product {
	case "mcc":
		return LINK_FAMILY_DOCS_FLAT
	case "mosk":
		return LINK_FAMILY_DOCS_SERIES
	}
	return LINK_FAMILY_DOCS
}

// Gets the link templates of the product.
func (pc *ProductConfig) LinkTemplates() []string {
	if pc.Link == nil {
		return nil
	}
	return pc.Link.Templates
}

// Validates that the fields required by the source kind are set.
func (pc *ProductConfig) Validate() error {
	if pc.Product == "" {
		return fmt.Errorf("product without id")
	}
	missing := func(field string) error {
		return fmt.Errorf("product '%s' of kind '%s' requires '%s'", pc.Product, pc.Kind, field)
	}
	switch pc.Kind {
	case SOURCE_KIND_DIRECTORY_LISTING:
		if pc.Url == "" && (pc.Repository == "" || pc.Channel == "") {
			return missing("url or repository and channel")
		}
		if pc.Component == "" {
			return missing("component")
		}
	case SOURCE_KIND_REGISTRY_TAGS, SOURCE_KIND_OCI_REGISTRY:
		if pc.Registry == "" {
			return missing("registry")
		}
		if len(pc.ArtifactPaths()) == 0 {
			return missing("repository")
		}
	case SOURCE_KIND_CHART_INDEX:
		if pc.Url == "" && (pc.Registry == "" || pc.Repository == "") {
			return missing("url or registry and repository")
		}
	case SOURCE_KIND_GITHUB_RELEASE_PAGE:
		if pc.Url == "" && pc.Repository == "" {
			return missing("url or repository")
		}
	case SOURCE_KIND_JSON_RELEASE:
		if pc.Url == "" {
			return missing("url")
		}
	case SOURCE_KIND_GITHUB_RELEASES, SOURCE_KIND_GITLAB_RELEASES, SOURCE_KIND_GITEA_RELEASES:
		if pc.Repository == "" {
			return missing("repository")
		}
	case SOURCE_KIND_ARTIFACTORY:
		if pc.Registry == "" || pc.Repository == "" {
			return missing("registry and repository")
		}
		if pc.Component == "" {
			return missing("component")
		}
	default:
		return fmt.Errorf("product '%s' has unknown kind '%s'", pc.Product, pc.Kind)
	}
	return nil
}
