package sources

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/jfrog/jfrog-client-go/artifactory"
	"github.com/jfrog/jfrog-client-go/artifactory/auth"
	"github.com/jfrog/jfrog-client-go/artifactory/services"
	artifactory_config "github.com/jfrog/jfrog-client-go/config"
	"github.com/jfrog/jfrog-client-go/http/httpclient"
	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

// Reads releases from the files of an Artifactory repository.
type ArtifactorySource struct {
	*sourceBase
}

func NewArtifactorySource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &ArtifactorySource{
		sourceBase: newSourceBase(common.SOURCE_KIND_ARTIFACTORY, product, settings),
	}
}

// The jfrog client reports failed responses only as text.
var artifactoryStatusRegex = regexp.MustCompile(`server response: (\d{3})`)

func (s *ArtifactorySource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	// The whole search including all retries must not take longer than the requests through HttpUtil
	ctx, cancel := context.WithTimeout(ctx, s.searchTimeout())
	defer cancel()

	registryUrl := trimUrl(s.product.Registry) + "/"
	artifactoryManager, err := s.createManager(ctx, registryUrl)
	if err != nil {
		return nil, err
	}

	// Search with the pattern
	params := services.NewSearchParams()
	params.Pattern = s.searchPattern()
	s.logger.Debug(fmt.Sprintf("Searching files with pattern '%s'", params.Pattern))
	items, err := getSearchResults(artifactoryManager, params)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, artifactoryError(registryUrl, err)
	}
	return s.toCandidates(items), nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

type artifactorySearchResultItem struct {
	Repo     string    `json:"repo"`
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Type     string    `json:"type"`
}

func (s *ArtifactorySource) searchTimeout() time.Duration {
	tries := time.Duration(s.http().Retries + 1)
	return tries*s.http().Client().Timeout + tries*s.http().RetryInterval
}

func artifactoryError(registryUrl string, err error) error {
	if match := artifactoryStatusRegex.FindStringSubmatch(err.Error()); match != nil {
		if statusCode, convErr := strconv.Atoi(match[1]); convErr == nil {
			return clientError(registryUrl, &http.Response{StatusCode: statusCode}, err)
		}
	}
	return &common.NetworkError{Url: registryUrl, Err: err}
}

func (s *ArtifactorySource) searchPattern() string {
	extension := s.product.Extension
	if extension == "" {
		extension = "zip"
	}
	return fmt.Sprintf("%s/%s-*.%s", trimUrl(s.product.Repository), s.product.Component, extension)
}

// Converts the found files into candidates with the same file name rule as directory listings.
func (s *ArtifactorySource) toCandidates(items []*artifactorySearchResultItem) []*common.ReleaseCandidate {
	extension := s.product.Extension
	if extension == "" {
		extension = "zip"
	}
	fileRegex := parsers.DirectoryListingFileRegex(s.product.Component, extension)
	candidates := []*common.ReleaseCandidate{}
	for _, item := range items {
		match := fileRegex.FindStringSubmatch(item.Name)
		if match == nil {
			continue
		}
		candidates = append(candidates, &common.ReleaseCandidate{
			Version:   match[1],
			Timestamp: item.Modified.UTC(),
		})
	}
	return candidates
}

func (s *ArtifactorySource) createManager(ctx context.Context, baseUrl string) (artifactory.ArtifactoryServicesManager, error) {
	artifactoryDetails := auth.NewArtifactoryDetails()
	artifactoryDetails.SetUrl(baseUrl)

	// Set authentication info
	if credentials := s.credentials(baseUrl); credentials != nil {
		if user := credentials.UsernameExpanded(); len(user) > 0 {
			artifactoryDetails.SetUser(user)
		}
		if password := credentials.PasswordExpanded(); len(password) > 0 {
			artifactoryDetails.SetPassword(password)
		}
		if token := credentials.TokenExpanded(); len(token) > 0 {
			if httpclient.IsApiKey(token) {
				artifactoryDetails.SetApiKey(token)
			} else {
				artifactoryDetails.SetAccessToken(token)
			}
		}
	}

	configBuilder, err := artifactory_config.NewConfigBuilder().
		SetServiceDetails(artifactoryDetails).
		SetContext(ctx).
		SetOverallRequestTimeout(s.http().Client().Timeout).
		SetHttpRetries(s.http().Retries).
		SetHttpRetryWaitMilliSecs(int(s.http().RetryInterval.Milliseconds())).
		Build()
	if err != nil {
		return nil, err
	}
	return artifactory.New(configBuilder)
}

func getSearchResults(artifactoryManager artifactory.ArtifactoryServicesManager, searchParams services.SearchParams) ([]*artifactorySearchResultItem, error) {
	searchResultItems := []*artifactorySearchResultItem{}

	reader, err := artifactoryManager.SearchFiles(searchParams)
	if err != nil {
		return searchResultItems, err
	}
	defer reader.Close()

	for searchResultItem := new(artifactorySearchResultItem); reader.NextRecord(searchResultItem) == nil; searchResultItem = new(artifactorySearchResultItem) {
		searchResultItems = append(searchResultItems, searchResultItem)
	}
	return searchResultItems, nil
}
