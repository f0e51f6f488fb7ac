package sources

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

type sourceBase struct {
	kind     common.SourceKind
	product  *common.ProductConfig
	logger   *slog.Logger
	settings *common.SourceSettings
}

func newSourceBase(kind common.SourceKind, product *common.ProductConfig, settings *common.SourceSettings) *sourceBase {
	return &sourceBase{
		kind:     kind,
		product:  product,
		logger:   settings.Logger.With(slog.String("product", product.Product), slog.String("source", string(kind))),
		settings: settings,
	}
}

// Creates the source for the product. Unknown kinds are an error.
func GetSource(product *common.ProductConfig, settings *common.SourceSettings) (common.ISource, error) {
	if settings.Http == nil {
		settings.Http = common.NewHttpUtil(common.DefaultRequestTimeout, common.DefaultRetries)
	}
	switch product.Kind {
	case common.SOURCE_KIND_DIRECTORY_LISTING:
		return NewDirectoryListingSource(product, settings), nil
	case common.SOURCE_KIND_REGISTRY_TAGS:
		return NewRegistryTagsSource(product, settings), nil
	case common.SOURCE_KIND_CHART_INDEX:
		return NewChartIndexSource(product, settings), nil
	case common.SOURCE_KIND_OCI_REGISTRY:
		return NewOciRegistrySource(product, settings), nil
	case common.SOURCE_KIND_GITHUB_RELEASE_PAGE:
		return NewGitHubReleasePageSource(product, settings), nil
	case common.SOURCE_KIND_JSON_RELEASE:
		return NewJsonReleaseSource(product, settings), nil
	case common.SOURCE_KIND_GITHUB_RELEASES:
		return NewGitHubReleasesSource(product, settings), nil
	case common.SOURCE_KIND_GITLAB_RELEASES:
		return NewGitLabReleasesSource(product, settings), nil
	case common.SOURCE_KIND_GITEA_RELEASES:
		return NewGiteaReleasesSource(product, settings), nil
	case common.SOURCE_KIND_ARTIFACTORY:
		return NewArtifactorySource(product, settings), nil
	}
	return nil, fmt.Errorf("no source defined for kind '%s' of product '%s'", product.Kind, product.Product)
}

func (s *sourceBase) Kind() common.SourceKind {
	return s.kind
}

func (s *sourceBase) Product() *common.ProductConfig {
	return s.product
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (s *sourceBase) http() *common.HttpUtil {
	return s.settings.Http
}

// Gets the credentials for the product or a host rule matching the given url.
func (s *sourceBase) credentials(rawUrl string) *common.Credentials {
	host := rawUrl
	if parsedUrl, err := url.Parse(rawUrl); err == nil && parsedUrl.Host != "" {
		host = parsedUrl.Host
	}
	return s.settings.CredentialsFor(s.product, host)
}

// Gets request modifiers for the credentials. A token is preferred over basic auth.
func (s *sourceBase) authModifiers(rawUrl string) []common.RequestModifier {
	credentials := s.credentials(rawUrl)
	if credentials == nil {
		return nil
	}
	if token := credentials.TokenExpanded(); token != "" {
		return []common.RequestModifier{common.WithBearer(token)}
	}
	if credentials.HasBasicAuth() {
		return []common.RequestModifier{common.WithBasicAuth(credentials.UsernameExpanded(), credentials.PasswordExpanded())}
	}
	return nil
}

// Reports the warnings of a parse result and returns its candidates.
func (s *sourceBase) collect(result parsers.ParseResult) []*common.ReleaseCandidate {
	for _, warning := range result.Warnings {
		s.warn(warning)
	}
	return result.Candidates
}

func (s *sourceBase) warn(message string) {
	s.logger.Warn(message)
	if s.settings.Reporter != nil {
		s.settings.Reporter.Failure(s.product.Product, common.FAILURE_CATEGORY_WARNING, errors.New(message))
	}
}

// Converts an error of a vendor client into a typed error.
// Responses with a status code of 400 or above are http status failures, everything else is a network failure.
func clientError(rawUrl string, response *http.Response, err error) error {
	if response != nil && response.StatusCode >= 400 {
		return &common.HttpStatusError{Url: rawUrl, StatusCode: response.StatusCode}
	}
	return &common.NetworkError{Url: rawUrl, Err: err}
}

func trimUrl(rawUrl string) string {
	return strings.TrimSuffix(rawUrl, "/")
}
