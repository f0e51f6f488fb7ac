package common

import "time"

type SourceKind string

const (
	SOURCE_KIND_DIRECTORY_LISTING   SourceKind = "directory-listing"
	SOURCE_KIND_REGISTRY_TAGS       SourceKind = "registry-tags"
	SOURCE_KIND_CHART_INDEX         SourceKind = "chart-index"
	SOURCE_KIND_OCI_REGISTRY        SourceKind = "oci-registry"
	SOURCE_KIND_GITHUB_RELEASE_PAGE SourceKind = "github-release-page"
	SOURCE_KIND_JSON_RELEASE        SourceKind = "json-release"
	SOURCE_KIND_GITHUB_RELEASES     SourceKind = "github-releases"
	SOURCE_KIND_GITLAB_RELEASES     SourceKind = "gitlab-releases"
	SOURCE_KIND_GITEA_RELEASES      SourceKind = "gitea-releases"
	SOURCE_KIND_ARTIFACTORY         SourceKind = "artifactory"
)

// All source kinds that can be used in a product configuration.
var AllSourceKinds = []SourceKind{
	SOURCE_KIND_DIRECTORY_LISTING,
	SOURCE_KIND_REGISTRY_TAGS,
	SOURCE_KIND_CHART_INDEX,
	SOURCE_KIND_OCI_REGISTRY,
	SOURCE_KIND_GITHUB_RELEASE_PAGE,
	SOURCE_KIND_JSON_RELEASE,
	SOURCE_KIND_GITHUB_RELEASES,
	SOURCE_KIND_GITLAB_RELEASES,
	SOURCE_KIND_GITEA_RELEASES,
	SOURCE_KIND_ARTIFACTORY,
}

type LinkFamily string

const (
	LINK_FAMILY_DOCS        LinkFamily = "docs"
	LINK_FAMILY_DOCS_FLAT   LinkFamily = "docs-flat"
	LINK_FAMILY_DOCS_SERIES LinkFamily = "docs-series"
	LINK_FAMILY_PROBE       LinkFamily = "probe"
)

type FailureCategory string

const (
	FAILURE_CATEGORY_NETWORK       FailureCategory = "network"
	FAILURE_CATEGORY_HTTP_STATUS   FailureCategory = "http_status"
	FAILURE_CATEGORY_PARSE         FailureCategory = "parse"
	FAILURE_CATEGORY_AUTH          FailureCategory = "auth"
	FAILURE_CATEGORY_NO_CANDIDATES FailureCategory = "no_candidates"
	FAILURE_CATEGORY_WARNING       FailureCategory = "warning"
	FAILURE_CATEGORY_UNKNOWN       FailureCategory = "unknown"
)

const (
	DefaultCacheTtl        = 24 * time.Hour
	DefaultRefreshInterval = 12 * time.Hour
	DefaultRequestTimeout  = 5 * time.Second
	DefaultRetries         = 2
	DefaultWorkers         = 4
	DefaultDocsBaseUrl     = "https://docs.mirantis.com"
	DefaultUserAgent       = "relwatch"
)
